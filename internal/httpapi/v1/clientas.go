package v1

import "net/http"

// POST /v1/clientas
func (s *Server) postClienta(w http.ResponseWriter, r *http.Request) {
	req := validated[postClientaRequest](r)
	c, err := s.Accounts.RegisterClienta(r.Context(), req.Nombre, req.Referencia)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	toJSON(w, http.StatusCreated, toClientaResponse(c))
}

// GET /v1/clientas
func (s *Server) listClientas(w http.ResponseWriter, r *http.Request) {
	cs, err := s.Accounts.ListClientas(r.Context())
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	out := listResponse[clientaResponse]{Items: make([]clientaResponse, 0, len(cs))}
	for _, c := range cs {
		out.Items = append(out.Items, toClientaResponse(c))
	}
	toJSON(w, http.StatusOK, out)
}

// GET /v1/clientas/{id}
func (s *Server) getClienta(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := s.Accounts.GetClienta(r.Context(), id)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, toClientaResponse(c))
}

// GET /v1/clientas/{id}/cuentas lists the client's accounts by NumeroCuenta.
func (s *Server) listCuentas(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	cs, err := s.Accounts.ListCuentas(r.Context(), id)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	out := listResponse[cuentaResponse]{Items: make([]cuentaResponse, 0, len(cs))}
	for _, c := range cs {
		out.Items = append(out.Items, toCuentaResponse(c))
	}
	toJSON(w, http.StatusOK, out)
}

// POST /v1/clientas/{id}/cuentas opens a new account. 409 when the client
// still has an ACTIVA account that owes money.
func (s *Server) openCuenta(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := s.Accounts.OpenAccount(r.Context(), id)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	observeOpened(c)
	toJSON(w, http.StatusCreated, toCuentaResponse(c))
}

// GET /v1/cuentas/{id} returns the account statement.
func (s *Server) getCuenta(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	st, err := s.Accounts.Statement(r.Context(), id)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, toStatementResponse(st))
}

// POST /v1/cuentas/{id}/reconcile recomputes saldo from the movements.
func (s *Server) reconcileCuenta(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := s.Journal.Reconcile(r.Context(), id)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, toCuentaResponse(c))
}
