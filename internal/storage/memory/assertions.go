package memory

import "github.com/tinoosan/cuaderno/internal/storage"

// Compile-time interface assertions documenting which interfaces Store satisfies.
var (
	_ storage.KV      = (*Store)(nil)
	_ storage.Backend = (*Store)(nil)
)
