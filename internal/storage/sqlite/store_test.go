package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tinoosan/cuaderno/internal/storage"
)

type clienta struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cuaderno.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Ready(ctx); err != nil {
		t.Fatalf("ready: %v", err)
	}
	if v, err := s.Get(ctx, storage.KeyClientas); err != nil || v != nil {
		t.Fatalf("absent key: v=%q err=%v", v, err)
	}
	if err := storage.Save(ctx, s, storage.KeyClientas, []clienta{{ID: "1", Nombre: "Rosa"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	// second write exercises the upsert path
	if err := storage.Save(ctx, s, storage.KeyClientas, []clienta{{ID: "1", Nombre: "Rosa"}, {ID: "2", Nombre: "Carmen"}}); err != nil {
		t.Fatalf("save again: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, err := storage.Load[clienta](ctx, s2, storage.KeyClientas)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[1].Nombre != "Carmen" {
		t.Fatalf("unexpected collection after reopen: %+v", got)
	}
}
