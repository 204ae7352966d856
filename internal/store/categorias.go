package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tinoosan/cuaderno/internal/dictionary"
	"github.com/tinoosan/cuaderno/internal/errs"
	"github.com/tinoosan/cuaderno/internal/ledger"
	"github.com/tinoosan/cuaderno/internal/storage"
)

// Categorias is the category store. The first read of an absent collection
// seeds it with the curated catalogue.
type Categorias struct {
	kv storage.KV
}

// List returns every category in stored order.
func (s *Categorias) List(ctx context.Context) ([]ledger.Categoria, error) {
	raw, err := s.kv.Get(ctx, storage.KeyCategorias)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", storage.KeyCategorias, err)
	}
	if raw == nil {
		seed := dictionary.Categorias()
		if err := storage.Save(ctx, s.kv, storage.KeyCategorias, seed); err != nil {
			return nil, err
		}
		return seed, nil
	}
	var out []ledger.Categoria
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", storage.KeyCategorias, err)
	}
	return out, nil
}

// Index returns the categories keyed by id.
func (s *Categorias) Index(ctx context.Context) (map[string]ledger.Categoria, error) {
	cs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]ledger.Categoria, len(cs))
	for _, c := range cs {
		idx[c.ID] = c
	}
	return idx, nil
}

// Create appends c; an existing id is errs.ErrConflict.
func (s *Categorias) Create(ctx context.Context, c ledger.Categoria) (ledger.Categoria, error) {
	cs, err := s.List(ctx)
	if err != nil {
		return ledger.Categoria{}, err
	}
	for _, existing := range cs {
		if existing.ID == c.ID {
			return ledger.Categoria{}, errs.ErrConflict
		}
	}
	cs = append(cs, c)
	if err := storage.Save(ctx, s.kv, storage.KeyCategorias, cs); err != nil {
		return ledger.Categoria{}, err
	}
	return c, nil
}
