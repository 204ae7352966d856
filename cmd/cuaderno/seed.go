package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/govalues/decimal"
	"github.com/govalues/money"

	"github.com/tinoosan/cuaderno/internal/codec"
	"github.com/tinoosan/cuaderno/internal/ledger"
	"github.com/tinoosan/cuaderno/internal/service/account"
	"github.com/tinoosan/cuaderno/internal/service/journal"
)

var errAlreadySeeded = errors.New("store already has clientas")

type devSeed struct {
	Clienta ledger.Clienta
	Cuenta  ledger.Cuenta
}

// seedDev creates one client with an open account, a CARGO of two items and
// a partial ABONO. It refuses to touch a store that already has clients.
func seedDev(ctx context.Context, accounts account.Service, j journal.Service) (devSeed, error) {
	existing, err := accounts.ListClientas(ctx)
	if err != nil {
		return devSeed{}, err
	}
	if len(existing) > 0 {
		return devSeed{}, errAlreadySeeded
	}
	cl, err := accounts.RegisterClienta(ctx, "Clienta Demo", "puesto 14")
	if err != nil {
		return devSeed{}, err
	}
	c, err := accounts.OpenAccount(ctx, cl.ID)
	if err != nil {
		return devSeed{}, err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	blusa, jean := decimal.MustParse("45.00"), decimal.MustParse("75.00")
	comentario := codec.EncodePrendas([]ledger.Prenda{
		{Descripcion: "Blusa floreada", Monto: &blusa, Fecha: &today, Categoria: "ropa-mujer"},
		{Descripcion: "Jean clásico", Monto: &jean, Fecha: &today, Categoria: "ropa-hombre"},
	})
	cargo, err := money.ParseAmount(c.Saldo.Curr().Code(), "120.00")
	if err != nil {
		return devSeed{}, fmt.Errorf("seed amount: %w", err)
	}
	if _, err := j.RegisterMovement(ctx, journal.MovementInput{CuentaID: c.ID, Tipo: ledger.TipoCargo, Monto: cargo, Comentario: comentario}); err != nil {
		return devSeed{}, err
	}
	abono, err := money.ParseAmount(c.Saldo.Curr().Code(), "40.00")
	if err != nil {
		return devSeed{}, fmt.Errorf("seed amount: %w", err)
	}
	res, err := j.RegisterMovement(ctx, journal.MovementInput{CuentaID: c.ID, Tipo: ledger.TipoAbono, Monto: abono, Comentario: codec.EncodeAbono("efectivo", today)})
	if err != nil {
		return devSeed{}, err
	}
	return devSeed{Clienta: cl, Cuenta: res.Cuenta}, nil
}

// printDevSeedBanner prints a simple banner to stdout for easy copy/paste of IDs
func printDevSeedBanner(s devSeed) {
	fmt.Println("==================== DEV SEED ====================")
	fmt.Printf("clienta_id: %s\n", s.Clienta.ID.String())
	fmt.Printf("cuenta_id:  %s\n", s.Cuenta.ID.String())
	fmt.Printf("saldo:      %s\n", s.Cuenta.Saldo.String())
	fmt.Println("==================================================")
}
