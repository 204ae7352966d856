package store

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/tinoosan/cuaderno/internal/errs"
	"github.com/tinoosan/cuaderno/internal/ledger"
	"github.com/tinoosan/cuaderno/internal/storage"
)

// Clientas is the client store.
type Clientas struct {
	kv storage.KV
}

// List returns every client ordered by name.
func (s *Clientas) List(ctx context.Context) ([]ledger.Clienta, error) {
	recs, err := storage.Load[clientaRecord](ctx, s.kv, storage.KeyClientas)
	if err != nil {
		return nil, err
	}
	out := make([]ledger.Clienta, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.domain())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Nombre) < strings.ToLower(out[j].Nombre)
	})
	return out, nil
}

// Get returns errs.ErrClientNotFound when no client has the id.
func (s *Clientas) Get(ctx context.Context, id uuid.UUID) (ledger.Clienta, error) {
	recs, err := storage.Load[clientaRecord](ctx, s.kv, storage.KeyClientas)
	if err != nil {
		return ledger.Clienta{}, err
	}
	for _, r := range recs {
		if r.ID == id {
			return r.domain(), nil
		}
	}
	return ledger.Clienta{}, errs.ErrClientNotFound
}

// Create appends c.
func (s *Clientas) Create(ctx context.Context, c ledger.Clienta) (ledger.Clienta, error) {
	recs, err := storage.Load[clientaRecord](ctx, s.kv, storage.KeyClientas)
	if err != nil {
		return ledger.Clienta{}, err
	}
	for _, r := range recs {
		if r.ID == c.ID {
			return ledger.Clienta{}, errs.ErrConflict
		}
	}
	recs = append(recs, toClientaRecord(c))
	if err := storage.Save(ctx, s.kv, storage.KeyClientas, recs); err != nil {
		return ledger.Clienta{}, err
	}
	return c, nil
}
