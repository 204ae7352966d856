package store

import (
	"context"
	"sort"
	"time"

	"github.com/tinoosan/cuaderno/internal/ledger"
	"github.com/tinoosan/cuaderno/internal/storage"
)

// Gastos is the expense store.
type Gastos struct {
	kv   storage.KV
	curr string
}

// InRange returns expenses with from <= Fecha <= to ordered by Fecha.
// Zero bounds are open.
func (s *Gastos) InRange(ctx context.Context, from, to time.Time) ([]ledger.Gasto, error) {
	recs, err := storage.Load[gastoRecord](ctx, s.kv, storage.KeyGastos)
	if err != nil {
		return nil, err
	}
	out := make([]ledger.Gasto, 0)
	for _, r := range recs {
		if !from.IsZero() && r.Fecha.Before(from) {
			continue
		}
		if !to.IsZero() && r.Fecha.After(to) {
			continue
		}
		g, err := r.domain(s.curr)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fecha.Before(out[j].Fecha) })
	return out, nil
}

// Create appends g.
func (s *Gastos) Create(ctx context.Context, g ledger.Gasto) (ledger.Gasto, error) {
	recs, err := storage.Load[gastoRecord](ctx, s.kv, storage.KeyGastos)
	if err != nil {
		return ledger.Gasto{}, err
	}
	recs = append(recs, toGastoRecord(g))
	if err := storage.Save(ctx, s.kv, storage.KeyGastos, recs); err != nil {
		return ledger.Gasto{}, err
	}
	return g, nil
}
