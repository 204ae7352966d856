package store

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/tinoosan/cuaderno/internal/errs"
	"github.com/tinoosan/cuaderno/internal/ledger"
	"github.com/tinoosan/cuaderno/internal/storage"
)

// Cuentas is the account store.
type Cuentas struct {
	kv   storage.KV
	curr string
}

func (s *Cuentas) load(ctx context.Context) ([]cuentaRecord, error) {
	return storage.Load[cuentaRecord](ctx, s.kv, storage.KeyCuentas)
}

func (s *Cuentas) decode(recs []cuentaRecord) ([]ledger.Cuenta, error) {
	out := make([]ledger.Cuenta, 0, len(recs))
	for _, r := range recs {
		c, err := r.domain(s.curr)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// List returns every account in stored order.
func (s *Cuentas) List(ctx context.Context) ([]ledger.Cuenta, error) {
	recs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return s.decode(recs)
}

// ByClienta returns the client's accounts ordered by NumeroCuenta, then creation time.
// Accounts still waiting for a number sort last.
func (s *Cuentas) ByClienta(ctx context.Context, clientaID uuid.UUID) ([]ledger.Cuenta, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ledger.Cuenta, 0)
	for _, c := range all {
		if c.ClientaID == clientaID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ni, nj := out[i].NumeroCuenta, out[j].NumeroCuenta
		if ni != nj {
			if ni == 0 {
				return false
			}
			if nj == 0 {
				return true
			}
			return ni < nj
		}
		return out[i].FechaCreacion.Before(out[j].FechaCreacion)
	})
	return out, nil
}

// Activas returns the client's ACTIVA accounts.
func (s *Cuentas) Activas(ctx context.Context, clientaID uuid.UUID) ([]ledger.Cuenta, error) {
	cs, err := s.ByClienta(ctx, clientaID)
	if err != nil {
		return nil, err
	}
	out := cs[:0]
	for _, c := range cs {
		if c.Activa() {
			out = append(out, c)
		}
	}
	return out, nil
}

// Get returns errs.ErrAccountNotFound when no account has the id.
func (s *Cuentas) Get(ctx context.Context, id uuid.UUID) (ledger.Cuenta, error) {
	recs, err := s.load(ctx)
	if err != nil {
		return ledger.Cuenta{}, err
	}
	for _, r := range recs {
		if r.ID == id {
			return r.domain(s.curr)
		}
	}
	return ledger.Cuenta{}, errs.ErrAccountNotFound
}

// Create appends c. A duplicate id is errs.ErrConflict.
func (s *Cuentas) Create(ctx context.Context, c ledger.Cuenta) (ledger.Cuenta, error) {
	recs, err := s.load(ctx)
	if err != nil {
		return ledger.Cuenta{}, err
	}
	for _, r := range recs {
		if r.ID == c.ID {
			return ledger.Cuenta{}, errs.ErrConflict
		}
	}
	recs = append(recs, toCuentaRecord(c))
	if err := storage.Save(ctx, s.kv, storage.KeyCuentas, recs); err != nil {
		return ledger.Cuenta{}, err
	}
	return c, nil
}

// Update replaces the stored account with the same id.
func (s *Cuentas) Update(ctx context.Context, c ledger.Cuenta) (ledger.Cuenta, error) {
	if err := s.UpdateMany(ctx, []ledger.Cuenta{c}); err != nil {
		return ledger.Cuenta{}, err
	}
	return c, nil
}

// UpdateMany replaces several accounts in a single write. If any id is
// unknown nothing is written and errs.ErrAccountNotFound is returned.
func (s *Cuentas) UpdateMany(ctx context.Context, cs []ledger.Cuenta) error {
	if len(cs) == 0 {
		return nil
	}
	recs, err := s.load(ctx)
	if err != nil {
		return err
	}
	idx := make(map[uuid.UUID]int, len(recs))
	for i, r := range recs {
		idx[r.ID] = i
	}
	for _, c := range cs {
		i, ok := idx[c.ID]
		if !ok {
			return errs.ErrAccountNotFound
		}
		recs[i] = toCuentaRecord(c)
	}
	return storage.Save(ctx, s.kv, storage.KeyCuentas, recs)
}
