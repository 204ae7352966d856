// Package storage defines the whole-collection key-value persistence used by
// the ledger. Every collection lives under one key; readers always get the
// full collection and writers always replace it.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// Collection keys.
const (
	KeyClientas    = "clientas"
	KeyCuentas     = "cuentas"
	KeyMovimientos = "movimientos"
	KeyCategorias  = "categorias"
	KeyGastos      = "gastos"
	KeyReportes    = "reportes"
)

// KV is the persistence interface. Get returns nil, nil for an absent key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Backend is a KV with a lifecycle owned by the process entrypoint.
type Backend interface {
	KV
	Ready(ctx context.Context) error
	Close() error
}

// Load decodes the collection stored under key. An absent key yields an empty slice.
func Load[T any](ctx context.Context, kv KV, key string) ([]T, error) {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	if len(raw) == 0 {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Save replaces the collection stored under key.
func Save[T any](ctx context.Context, kv KV, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
