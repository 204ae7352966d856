package store

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tinoosan/cuaderno/internal/errs"
	"github.com/tinoosan/cuaderno/internal/ledger"
	"github.com/tinoosan/cuaderno/internal/storage"
)

// Movimientos is the movement store.
type Movimientos struct {
	kv   storage.KV
	curr string
}

func (s *Movimientos) load(ctx context.Context) ([]movimientoRecord, error) {
	return storage.Load[movimientoRecord](ctx, s.kv, storage.KeyMovimientos)
}

func (s *Movimientos) filter(ctx context.Context, keep func(movimientoRecord) bool) ([]ledger.Movimiento, error) {
	recs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ledger.Movimiento, 0)
	for _, r := range recs {
		if keep != nil && !keep(r) {
			continue
		}
		m, err := r.domain(s.curr)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fecha.Before(out[j].Fecha) })
	return out, nil
}

// List returns every movement ordered by Fecha.
func (s *Movimientos) List(ctx context.Context) ([]ledger.Movimiento, error) {
	return s.filter(ctx, nil)
}

// ByCuenta returns the account's movements ordered by Fecha.
func (s *Movimientos) ByCuenta(ctx context.Context, cuentaID uuid.UUID) ([]ledger.Movimiento, error) {
	return s.filter(ctx, func(r movimientoRecord) bool { return r.CuentaID == cuentaID })
}

// InRange returns movements with from <= Fecha <= to, across all accounts.
func (s *Movimientos) InRange(ctx context.Context, from, to time.Time) ([]ledger.Movimiento, error) {
	return s.filter(ctx, func(r movimientoRecord) bool {
		return !r.Fecha.Before(from) && !r.Fecha.After(to)
	})
}

// Get returns errs.ErrMovementNotFound when no movement has the id.
func (s *Movimientos) Get(ctx context.Context, id uuid.UUID) (ledger.Movimiento, error) {
	recs, err := s.load(ctx)
	if err != nil {
		return ledger.Movimiento{}, err
	}
	for _, r := range recs {
		if r.ID == id {
			return r.domain(s.curr)
		}
	}
	return ledger.Movimiento{}, errs.ErrMovementNotFound
}

// Create appends m.
func (s *Movimientos) Create(ctx context.Context, m ledger.Movimiento) (ledger.Movimiento, error) {
	recs, err := s.load(ctx)
	if err != nil {
		return ledger.Movimiento{}, err
	}
	for _, r := range recs {
		if r.ID == m.ID {
			return ledger.Movimiento{}, errs.ErrConflict
		}
	}
	recs = append(recs, toMovimientoRecord(m))
	if err := storage.Save(ctx, s.kv, storage.KeyMovimientos, recs); err != nil {
		return ledger.Movimiento{}, err
	}
	return m, nil
}

// Update replaces the stored movement with the same id.
func (s *Movimientos) Update(ctx context.Context, m ledger.Movimiento) (ledger.Movimiento, error) {
	recs, err := s.load(ctx)
	if err != nil {
		return ledger.Movimiento{}, err
	}
	for i, r := range recs {
		if r.ID == m.ID {
			recs[i] = toMovimientoRecord(m)
			if err := storage.Save(ctx, s.kv, storage.KeyMovimientos, recs); err != nil {
				return ledger.Movimiento{}, err
			}
			return m, nil
		}
	}
	return ledger.Movimiento{}, errs.ErrMovementNotFound
}

// Delete removes the movement with the id.
func (s *Movimientos) Delete(ctx context.Context, id uuid.UUID) error {
	recs, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i, r := range recs {
		if r.ID == id {
			recs = append(recs[:i], recs[i+1:]...)
			return storage.Save(ctx, s.kv, storage.KeyMovimientos, recs)
		}
	}
	return errs.ErrMovementNotFound
}
