package v1

import (
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/tinoosan/cuaderno/internal/ledger"
	"github.com/tinoosan/cuaderno/internal/render"
)

// POST /v1/reportes/semanal generates (or regenerates) the report of the
// week containing fecha. An empty week is returned but not stored.
func (s *Server) postSemanal(w http.ResponseWriter, r *http.Request) {
	req := validated[postSemanalRequest](r)
	ref := time.Now().In(s.Location)
	if req.Fecha != "" {
		ref = s.day(req.Fecha)
	}
	rep, err := s.Reports.WeeklyReport(r.Context(), ref)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	status := http.StatusCreated
	if rep.TotalMovimientos == 0 {
		status = http.StatusOK
	}
	toJSON(w, status, toReporteResponse(rep))
}

// GET /v1/reportes lists stored weekly reports, newest first.
func (s *Server) listReportes(w http.ResponseWriter, r *http.Request) {
	rs, err := s.Reports.ListReports(r.Context())
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	out := listResponse[reporteSummaryResponse]{Items: make([]reporteSummaryResponse, 0, len(rs))}
	for _, rep := range rs {
		out.Items = append(out.Items, toReporteSummary(rep))
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) loadReporte(w http.ResponseWriter, r *http.Request) (ledger.ReporteSemanal, bool) {
	rep, err := s.Reports.GetReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceErr(w, r, err)
		return ledger.ReporteSemanal{}, false
	}
	return rep, true
}

// GET /v1/reportes/{id}
func (s *Server) getReporte(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.loadReporte(w, r)
	if !ok {
		return
	}
	toJSON(w, http.StatusOK, toReporteResponse(rep))
}

// GET /v1/reportes/{id}/markdown
func (s *Server) getReporteMarkdown(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.loadReporte(w, r)
	if !ok {
		return
	}
	md, err := render.Markdown(rep)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(md))
}

// GET /v1/reportes/{id}/html
func (s *Server) getReporteHTML(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.loadReporte(w, r)
	if !ok {
		return
	}
	page, err := render.HTML(rep)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

// GET /v1/reportes/categorias?desde=&hasta=
func (s *Server) getResumenCategorias(w http.ResponseWriter, r *http.Request) {
	q := validated[rangeQuery](r)
	from, to := s.day(q.Desde), endOfDay(s.day(q.Hasta))
	if to.Before(from) {
		badRequest(w, "hasta is before desde")
		return
	}
	rs, err := s.Reports.CategorySummary(r.Context(), from, to)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	out := listResponse[resumenCategoriaResponse]{Items: make([]resumenCategoriaResponse, 0, len(rs))}
	for _, rc := range rs {
		out.Items = append(out.Items, resumenCategoriaResponse{
			Categoria: rc.Categoria,
			Cantidad:  rc.Cantidad,
			Total:     rc.Total.Round(2).Pad(2).String(),
		})
	}
	toJSON(w, http.StatusOK, out)
}

// GET /v1/reportes/balance?desde=&hasta=
func (s *Server) getBalance(w http.ResponseWriter, r *http.Request) {
	q := validated[rangeQuery](r)
	from, to := s.day(q.Desde), endOfDay(s.day(q.Hasta))
	if to.Before(from) {
		badRequest(w, "hasta is before desde")
		return
	}
	b, err := s.Reports.BalanceReport(r.Context(), from, to)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, toBalanceResponse(b))
}
