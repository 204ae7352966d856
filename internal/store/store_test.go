package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/govalues/money"

	"github.com/tinoosan/cuaderno/internal/errs"
	"github.com/tinoosan/cuaderno/internal/ledger"
	"github.com/tinoosan/cuaderno/internal/storage"
	"github.com/tinoosan/cuaderno/internal/storage/memory"
)

var amountCmp = cmp.Comparer(func(a, b money.Amount) bool {
	return a.Curr() == b.Curr() && a.Decimal().Cmp(b.Decimal()) == 0
})

func pen(s string) money.Amount { return money.MustParseAmount("PEN", s) }

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 12, 0, 0, 0, time.UTC) }

func TestCuentas_RoundTripAndOrdering(t *testing.T) {
	ctx := context.Background()
	st := New(memory.New(), "")
	clienta := uuid.New()
	cierre := day(2024, 3, 5)
	in := []ledger.Cuenta{
		{ID: uuid.New(), ClientaID: clienta, Saldo: pen("0"), Estado: ledger.EstadoCerrada, FechaCreacion: day(2024, 3, 1), FechaCierre: &cierre, NumeroCuenta: 2},
		{ID: uuid.New(), ClientaID: clienta, Saldo: pen("12.50"), Estado: ledger.EstadoActiva, FechaCreacion: day(2024, 3, 9)},
		{ID: uuid.New(), ClientaID: clienta, Saldo: pen("0"), Estado: ledger.EstadoCerrada, FechaCreacion: day(2024, 1, 1), FechaCierre: &cierre, NumeroCuenta: 1},
		{ID: uuid.New(), ClientaID: uuid.New(), Saldo: pen("5"), Estado: ledger.EstadoActiva, FechaCreacion: day(2024, 3, 1), NumeroCuenta: 1},
	}
	for _, c := range in {
		if _, err := st.Cuentas.Create(ctx, c); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	got, err := st.Cuentas.ByClienta(ctx, clienta)
	if err != nil {
		t.Fatalf("by clienta: %v", err)
	}
	want := []ledger.Cuenta{in[2], in[0], in[1]}
	if diff := cmp.Diff(want, got, amountCmp); diff != "" {
		t.Fatalf("ByClienta mismatch (-want +got):\n%s", diff)
	}
	activas, err := st.Cuentas.Activas(ctx, clienta)
	if err != nil {
		t.Fatalf("activas: %v", err)
	}
	if len(activas) != 1 || activas[0].ID != in[1].ID {
		t.Fatalf("unexpected activas: %+v", activas)
	}
}

func TestCuentas_NotFound(t *testing.T) {
	ctx := context.Background()
	st := New(memory.New(), "PEN")
	if _, err := st.Cuentas.Get(ctx, uuid.New()); !errors.Is(err, errs.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if _, err := st.Cuentas.Update(ctx, ledger.Cuenta{ID: uuid.New(), Saldo: pen("0")}); !errors.Is(err, errs.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound on update, got %v", err)
	}
}

func TestMovimientos_FiltersAndDelete(t *testing.T) {
	ctx := context.Background()
	st := New(memory.New(), "PEN")
	cuenta := uuid.New()
	a := ledger.Movimiento{ID: uuid.New(), CuentaID: cuenta, Tipo: ledger.TipoCargo, Monto: pen("50"), Fecha: day(2024, 3, 4)}
	b := ledger.Movimiento{ID: uuid.New(), CuentaID: cuenta, Tipo: ledger.TipoAbono, Monto: pen("20"), Fecha: day(2024, 3, 2)}
	c := ledger.Movimiento{ID: uuid.New(), CuentaID: uuid.New(), Tipo: ledger.TipoCargo, Monto: pen("10"), Fecha: day(2024, 3, 11)}
	for _, m := range []ledger.Movimiento{a, b, c} {
		if _, err := st.Movimientos.Create(ctx, m); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	byCuenta, err := st.Movimientos.ByCuenta(ctx, cuenta)
	if err != nil {
		t.Fatalf("by cuenta: %v", err)
	}
	if diff := cmp.Diff([]ledger.Movimiento{b, a}, byCuenta, amountCmp); diff != "" {
		t.Fatalf("ByCuenta mismatch (-want +got):\n%s", diff)
	}
	inRange, err := st.Movimientos.InRange(ctx, day(2024, 3, 4), day(2024, 3, 11))
	if err != nil {
		t.Fatalf("in range: %v", err)
	}
	if len(inRange) != 2 || inRange[0].ID != a.ID || inRange[1].ID != c.ID {
		t.Fatalf("InRange should be inclusive on both ends: %+v", inRange)
	}
	if err := st.Movimientos.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.Movimientos.Get(ctx, a.ID); !errors.Is(err, errs.ErrMovementNotFound) {
		t.Fatalf("expected ErrMovementNotFound after delete, got %v", err)
	}
	if err := st.Movimientos.Delete(ctx, a.ID); !errors.Is(err, errs.ErrMovementNotFound) {
		t.Fatalf("expected ErrMovementNotFound on second delete, got %v", err)
	}
}

func TestMovimientos_FailedWriteKeepsCollection(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	st := New(kv, "PEN")
	m := ledger.Movimiento{ID: uuid.New(), CuentaID: uuid.New(), Tipo: ledger.TipoCargo, Monto: pen("5"), Fecha: day(2024, 3, 4)}
	if _, err := st.Movimientos.Create(ctx, m); err != nil {
		t.Fatalf("create: %v", err)
	}
	boom := errors.New("disk full")
	kv.FailSet(storage.KeyMovimientos, boom)
	m2 := m
	m2.ID = uuid.New()
	if _, err := st.Movimientos.Create(ctx, m2); !errors.Is(err, boom) {
		t.Fatalf("expected write error to propagate, got %v", err)
	}
	kv.FailSet(storage.KeyMovimientos, nil)
	all, err := st.Movimientos.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 || all[0].ID != m.ID {
		t.Fatalf("collection changed by failed write: %+v", all)
	}
}

func TestCategorias_SeedsOnceAndRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	st := New(memory.New(), "PEN")
	cs, err := st.Categorias.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	idx := map[string]bool{}
	for _, c := range cs {
		idx[c.ID] = true
	}
	if !idx[ledger.DefaultCategoriaID] {
		t.Fatalf("seed must include the default category, got %+v", cs)
	}
	nueva := ledger.Categoria{ID: "lenceria", Nombre: "Lencería"}
	if _, err := st.Categorias.Create(ctx, nueva); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := st.Categorias.Create(ctx, nueva); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	again, err := st.Categorias.List(ctx)
	if err != nil {
		t.Fatalf("list again: %v", err)
	}
	if len(again) != len(cs)+1 {
		t.Fatalf("expected seed plus one category, got %d", len(again))
	}
}

func TestReportes_UpsertReplacesSameID(t *testing.T) {
	ctx := context.Background()
	st := New(memory.New(), "PEN")
	monto := decimal.MustParse("25.5")
	fecha := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	r := ledger.ReporteSemanal{
		ID:          "semana_2024-02-26",
		FechaInicio: day(2024, 2, 26),
		FechaFin:    day(2024, 3, 3),
		Movimientos: []ledger.MovimientoReporte{{
			ID:      uuid.New(),
			Tipo:    ledger.TipoCargo,
			Monto:   pen("25.50"),
			Prendas: []ledger.Prenda{{Descripcion: "Blusa", Monto: &monto, Fecha: &fecha, Categoria: "ropa-otros"}},
		}},
		TotalCargos:      pen("25.50"),
		TotalAbonos:      pen("0"),
		TotalMovimientos: 1,
		TotalPrendas:     1,
	}
	if err := st.Reportes.Upsert(ctx, r); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	r.TotalPrendas = 3
	if err := st.Reportes.Upsert(ctx, r); err != nil {
		t.Fatalf("upsert again: %v", err)
	}
	all, err := st.Reportes.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 || all[0].TotalPrendas != 3 {
		t.Fatalf("expected a single replaced report, got %+v", all)
	}
	got := all[0].Movimientos[0].Prendas[0]
	if got.Monto == nil || got.Monto.Cmp(monto) != 0 || got.Fecha == nil || !got.Fecha.Equal(fecha) {
		t.Fatalf("prenda did not survive persistence: %+v", got)
	}
	if _, err := st.Reportes.Get(ctx, "semana_1999-01-04"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
