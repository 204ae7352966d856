package store

import (
	"context"
	"sort"

	"github.com/tinoosan/cuaderno/internal/errs"
	"github.com/tinoosan/cuaderno/internal/ledger"
	"github.com/tinoosan/cuaderno/internal/storage"
)

// Reportes is the weekly report store, keyed by report id.
type Reportes struct {
	kv   storage.KV
	curr string
}

// Upsert stores r, replacing any report with the same id.
func (s *Reportes) Upsert(ctx context.Context, r ledger.ReporteSemanal) error {
	recs, err := storage.Load[reporteRecord](ctx, s.kv, storage.KeyReportes)
	if err != nil {
		return err
	}
	rec := toReporteRecord(r)
	replaced := false
	for i := range recs {
		if recs[i].ID == r.ID {
			recs[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		recs = append(recs, rec)
	}
	return storage.Save(ctx, s.kv, storage.KeyReportes, recs)
}

// Get returns errs.ErrNotFound when no report has the id.
func (s *Reportes) Get(ctx context.Context, id string) (ledger.ReporteSemanal, error) {
	recs, err := storage.Load[reporteRecord](ctx, s.kv, storage.KeyReportes)
	if err != nil {
		return ledger.ReporteSemanal{}, err
	}
	for _, r := range recs {
		if r.ID == id {
			return r.domain(s.curr)
		}
	}
	return ledger.ReporteSemanal{}, errs.ErrNotFound
}

// List returns stored reports, most recent week first.
func (s *Reportes) List(ctx context.Context) ([]ledger.ReporteSemanal, error) {
	recs, err := storage.Load[reporteRecord](ctx, s.kv, storage.KeyReportes)
	if err != nil {
		return nil, err
	}
	out := make([]ledger.ReporteSemanal, 0, len(recs))
	for _, r := range recs {
		rep, err := r.domain(s.curr)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FechaInicio.After(out[j].FechaInicio) })
	return out, nil
}
