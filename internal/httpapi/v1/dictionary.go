package v1

import (
	"net/http"
	"time"

	"github.com/tinoosan/cuaderno/internal/ledger"
	"github.com/tinoosan/cuaderno/internal/service/catalog"
)

// GET /v1/categorias
func (s *Server) listCategorias(w http.ResponseWriter, r *http.Request) {
	cs, err := s.Catalog.ListCategorias(r.Context())
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	if cs == nil {
		cs = []ledger.Categoria{}
	}
	toJSON(w, http.StatusOK, listResponse[ledger.Categoria]{Items: cs})
}

// POST /v1/categorias
func (s *Server) postCategoria(w http.ResponseWriter, r *http.Request) {
	req := validated[postCategoriaRequest](r)
	c, err := s.Catalog.CreateCategoria(r.Context(), req.Nombre, req.Icono, req.Color)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	toJSON(w, http.StatusCreated, c)
}

// GET /v1/gastos?desde=&hasta=
func (s *Server) listGastos(w http.ResponseWriter, r *http.Request) {
	q := validated[optionalRangeQuery](r)
	var from, to time.Time
	if q.Desde != "" {
		from = s.day(q.Desde)
	}
	if q.Hasta != "" {
		to = endOfDay(s.day(q.Hasta))
	}
	gs, err := s.Catalog.ListGastos(r.Context(), from, to)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	out := listResponse[gastoResponse]{Items: make([]gastoResponse, 0, len(gs))}
	for _, g := range gs {
		out.Items = append(out.Items, toGastoResponse(g))
	}
	toJSON(w, http.StatusOK, out)
}

// POST /v1/gastos
func (s *Server) postGasto(w http.ResponseWriter, r *http.Request) {
	req := validated[postGastoRequest](r)
	monto, ok := s.parseMonto(w, req.Monto)
	if !ok {
		return
	}
	in := catalog.GastoInput{Descripcion: req.Descripcion, Monto: monto, Categoria: req.Categoria}
	if req.Fecha != nil {
		in.Fecha = *req.Fecha
	}
	g, err := s.Catalog.RegisterGasto(r.Context(), in)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	toJSON(w, http.StatusCreated, toGastoResponse(g))
}
