package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/govalues/decimal"

	"github.com/tinoosan/cuaderno/internal/codec"
	"github.com/tinoosan/cuaderno/internal/ledger"
	"github.com/tinoosan/cuaderno/internal/service/journal"
)

// POST /v1/cuentas/{id}/movimientos
func (s *Server) postMovimiento(w http.ResponseWriter, r *http.Request) {
	cuentaID, ok := pathID(w, r)
	if !ok {
		return
	}
	req := validated[postMovimientoRequest](r)
	monto, ok := s.parseMonto(w, req.Monto)
	if !ok {
		return
	}
	fecha := time.Now()
	if req.Fecha != nil {
		fecha = *req.Fecha
	}
	comentario, ok := s.movimientoComentario(w, r, req, fecha)
	if !ok {
		return
	}
	res, err := s.Journal.RegisterMovement(r.Context(), journal.MovementInput{
		CuentaID:   cuentaID,
		Tipo:       ledger.Tipo(req.Tipo),
		Monto:      monto,
		Comentario: comentario,
		Fecha:      fecha,
	})
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	observeMovement("register", res)
	toJSON(w, http.StatusCreated, toResultResponse(res))
}

// movimientoComentario builds the stored comment from structured fields.
// Items without a fecha take the movement's day in the server location.
func (s *Server) movimientoComentario(w http.ResponseWriter, r *http.Request, req postMovimientoRequest, fecha time.Time) (string, bool) {
	switch {
	case len(req.Prendas) > 0:
		if strings.TrimSpace(req.Comentario) != "" {
			badRequest(w, "send either comentario or prendas, not both")
			return "", false
		}
		if !s.knownCategorias(w, r, req.Prendas) {
			return "", false
		}
		dia := fecha.In(s.Location)
		items := make([]ledger.Prenda, 0, len(req.Prendas))
		for _, p := range req.Prendas {
			item := ledger.Prenda{Descripcion: p.Descripcion, Categoria: p.Categoria}
			if p.Monto != "" {
				d, err := decimal.Parse(p.Monto)
				if err != nil {
					writeErr(w, http.StatusUnprocessableEntity, "invalid prenda amount: "+p.Monto, "invalid_amount")
					return "", false
				}
				item.Monto = &d
				item.Fecha = &dia
			}
			if p.Fecha != "" {
				t, _ := time.Parse(codec.DateLayout, p.Fecha)
				item.Fecha = &t
			}
			items = append(items, item)
		}
		return codec.EncodePrendas(items), true
	case req.FechaPago != "":
		t, _ := time.Parse(codec.DateLayout, req.FechaPago)
		return codec.EncodeAbono(req.Comentario, t), true
	default:
		return req.Comentario, true
	}
}

// knownCategorias writes 422 unknown_categoria when an item names a category
// missing from the catalogue.
func (s *Server) knownCategorias(w http.ResponseWriter, r *http.Request, prendas []prendaRequest) bool {
	want := make([]string, 0, len(prendas))
	for _, p := range prendas {
		if p.Categoria != "" {
			want = append(want, p.Categoria)
		}
	}
	if len(want) == 0 {
		return true
	}
	cs, err := s.Catalog.ListCategorias(r.Context())
	if err != nil {
		s.writeServiceErr(w, r, err)
		return false
	}
	known := make(map[string]bool, len(cs))
	for _, c := range cs {
		known[c.ID] = true
	}
	for _, id := range want {
		if !known[id] {
			writeErr(w, http.StatusUnprocessableEntity, "unknown categoria: "+id, "unknown_categoria")
			return false
		}
	}
	return true
}

// GET /v1/movimientos/{id}
func (s *Server) getMovimiento(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	m, err := s.Journal.GetMovement(r.Context(), id)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, toMovimientoResponse(m))
}

// PATCH /v1/movimientos/{id} replaces amount and comment.
func (s *Server) patchMovimiento(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req := validated[patchMovimientoRequest](r)
	monto, ok := s.parseMonto(w, req.Monto)
	if !ok {
		return
	}
	res, err := s.Journal.EditMovement(r.Context(), id, monto, req.Comentario)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	observeMovement("edit", res)
	toJSON(w, http.StatusOK, toResultResponse(res))
}

// DELETE /v1/movimientos/{id} returns the removed movement and the account
// as it stands afterwards.
func (s *Server) deleteMovimiento(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := s.Journal.RemoveMovement(r.Context(), id)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	observeMovement("remove", res)
	toJSON(w, http.StatusOK, toResultResponse(res))
}
