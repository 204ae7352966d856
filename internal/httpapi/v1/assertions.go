package v1

import (
	"github.com/tinoosan/cuaderno/internal/storage/memory"
	"github.com/tinoosan/cuaderno/internal/storage/postgres"
	"github.com/tinoosan/cuaderno/internal/storage/redis"
	"github.com/tinoosan/cuaderno/internal/storage/sqlite"
)

// Compile-time assertions that every storage backend can back /readyz.
var (
	_ ReadyChecker = (*memory.Store)(nil)
	_ ReadyChecker = (*postgres.Store)(nil)
	_ ReadyChecker = (*redis.Store)(nil)
	_ ReadyChecker = (*sqlite.Store)(nil)
)
