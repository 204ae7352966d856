package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/govalues/decimal"

	"github.com/tinoosan/cuaderno/internal/service/account"
	"github.com/tinoosan/cuaderno/internal/service/journal"
	"github.com/tinoosan/cuaderno/internal/storage/memory"
	"github.com/tinoosan/cuaderno/internal/store"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		" ERROR ": slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLogLevel(in).Level(); got != want {
			t.Fatalf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSeedDev(t *testing.T) {
	ctx := context.Background()
	st := store.New(memory.New(), "PEN")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	accounts := account.New(st.Clientas, st.Cuentas, st.Movimientos, account.WithLogger(log))
	j := journal.New(st.Cuentas, st.Movimientos, journal.WithLogger(log))

	seed, err := seedDev(ctx, accounts, j)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if seed.Cuenta.Saldo.Decimal().Cmp(decimal.MustParse("80")) != 0 {
		t.Fatalf("want saldo 80, got %s", seed.Cuenta.Saldo)
	}
	movs, err := st.Movimientos.ByCuenta(ctx, seed.Cuenta.ID)
	if err != nil || len(movs) != 2 {
		t.Fatalf("want 2 movements, got %d (%v)", len(movs), err)
	}
	if _, err := seedDev(ctx, accounts, j); !errors.Is(err, errAlreadySeeded) {
		t.Fatalf("second seed: want errAlreadySeeded, got %v", err)
	}
}
