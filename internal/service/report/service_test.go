package report

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/govalues/money"

	"github.com/tinoosan/cuaderno/internal/ledger"
	"github.com/tinoosan/cuaderno/internal/storage/memory"
	"github.com/tinoosan/cuaderno/internal/store"
)

var lima = time.FixedZone("PET", -5*3600)

func at(d int, h int) time.Time { return time.Date(2024, 3, d, h, 0, 0, 0, lima) }

func pen(s string) money.Amount { return money.MustParseAmount("PEN", s) }

type fixture struct {
	st     *store.Store
	svc    Service
	cuenta ledger.Cuenta
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{st: store.New(memory.New(), "PEN"), now: at(15, 9)}
	cl := ledger.Clienta{ID: uuid.New(), Nombre: "Rosa", CreadaEn: at(1, 9)}
	if _, err := f.st.Clientas.Create(ctx, cl); err != nil {
		t.Fatalf("seed clienta: %v", err)
	}
	f.cuenta = ledger.Cuenta{ID: uuid.New(), ClientaID: cl.ID, Saldo: pen("0"), Estado: ledger.EstadoActiva, FechaCreacion: at(1, 9), NumeroCuenta: 1}
	if _, err := f.st.Cuentas.Create(ctx, f.cuenta); err != nil {
		t.Fatalf("seed cuenta: %v", err)
	}
	f.svc = New(Deps{
		Movimientos: f.st.Movimientos,
		Cuentas:     f.st.Cuentas,
		Clientas:    f.st.Clientas,
		Categorias:  f.st.Categorias,
		Gastos:      f.st.Gastos,
		Reportes:    f.st.Reportes,
	}, WithLocation(lima), WithClock(func() time.Time { return f.now }))
	return f
}

func (f *fixture) mov(t *testing.T, tipo ledger.Tipo, monto, comentario string, fecha time.Time) ledger.Movimiento {
	t.Helper()
	m := ledger.Movimiento{ID: uuid.New(), CuentaID: f.cuenta.ID, Tipo: tipo, Monto: pen(monto), Comentario: comentario, Fecha: fecha}
	if _, err := f.st.Movimientos.Create(context.Background(), m); err != nil {
		t.Fatalf("seed movement: %v", err)
	}
	return m
}

func TestWeekBounds(t *testing.T) {
	for _, ref := range []time.Time{at(4, 0), at(6, 15), at(10, 23)} {
		start, end := WeekBounds(ref, lima)
		if !start.Equal(at(4, 0)) {
			t.Fatalf("ref %v: start %v", ref, start)
		}
		if want := time.Date(2024, 3, 10, 23, 59, 59, 999999999, lima); !end.Equal(want) {
			t.Fatalf("ref %v: end %v", ref, end)
		}
		if WeekID(start) != "semana_2024-03-04" {
			t.Fatalf("unexpected id %s", WeekID(start))
		}
	}
	// Sunday evening UTC is still Sunday in Lima
	start, _ := WeekBounds(time.Date(2024, 3, 11, 3, 0, 0, 0, time.UTC), lima)
	if !start.Equal(at(4, 0)) {
		t.Fatalf("location not honoured: %v", start)
	}
}

func TestWeeklyReport_TotalsAndIdempotentUpsert(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mov(t, ledger.TipoCargo, "80", "Blusa (S/50.00) [04/03/2024] {ropa-mujer} | Falda (S/30.00) [04/03/2024] {ropa-mujer}", at(4, 10))
	f.mov(t, ledger.TipoCargo, "20", "", at(5, 11))
	f.mov(t, ledger.TipoAbono, "30", "yape [06/03/2024]", at(6, 12))
	f.mov(t, ledger.TipoCargo, "99", "Casaca", at(11, 10))

	rep, err := f.svc.WeeklyReport(ctx, at(7, 0))
	if err != nil {
		t.Fatalf("weekly: %v", err)
	}
	if rep.ID != "semana_2024-03-04" || rep.TotalMovimientos != 3 || rep.TotalPrendas != 3 {
		t.Fatalf("unexpected report header: id=%s movs=%d prendas=%d", rep.ID, rep.TotalMovimientos, rep.TotalPrendas)
	}
	if rep.TotalCargos.Decimal().String() != "100.00" || rep.TotalAbonos.Decimal().String() != "30.00" {
		t.Fatalf("unexpected totals: cargos=%s abonos=%s", rep.TotalCargos, rep.TotalAbonos)
	}
	first := rep.Movimientos[0]
	if first.ClientaNombre != "Rosa" || len(first.Prendas) != 2 || first.Prendas[1].Descripcion != "Falda" {
		t.Fatalf("cargo row not enriched: %+v", first)
	}
	if last := rep.Movimientos[2]; last.Nota != "yape" || last.Prendas != nil {
		t.Fatalf("abono row not enriched: %+v", last)
	}

	f.now = at(16, 9)
	if _, err := f.svc.WeeklyReport(ctx, at(10, 20)); err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	all, err := f.svc.ListReports(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one stored report, got %d", len(all))
	}
	if !all[0].FechaGeneracion.Equal(at(16, 9)) {
		t.Fatalf("stored report was not overwritten: %v", all[0].FechaGeneracion)
	}
	got, err := f.svc.GetReport(ctx, "semana_2024-03-04")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TotalPrendas != 3 || len(got.Movimientos) != 3 {
		t.Fatalf("unexpected stored report: %+v", got)
	}
}

func TestWeeklyReport_EmptyWeekNotStored(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	rep, err := f.svc.WeeklyReport(ctx, time.Date(2023, 1, 4, 12, 0, 0, 0, lima))
	if err != nil {
		t.Fatalf("weekly: %v", err)
	}
	if rep.TotalMovimientos != 0 || rep.ID != "semana_2023-01-02" {
		t.Fatalf("unexpected empty report: %+v", rep)
	}
	all, _ := f.svc.ListReports(ctx)
	if len(all) != 0 {
		t.Fatalf("empty week must not be stored, got %d reports", len(all))
	}
}

func TestCategorySummary_ItemDateWins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	// one movement logged on the 20th batching an item from the 4th
	f.mov(t, ledger.TipoCargo, "70", "Blusa (S/50.00) [04/03/2024] {ropa-mujer} | Polo (S/20.00)", at(20, 10))
	f.mov(t, ledger.TipoCargo, "45", "Zapatilla (S/45.00) [05/03/2024] {zapatillas-x}", at(5, 10))
	f.mov(t, ledger.TipoAbono, "10", "", at(5, 10))

	early, err := f.svc.CategorySummary(ctx, at(1, 0), at(10, 0))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(early) != 2 {
		t.Fatalf("expected two categories, got %+v", early)
	}
	if early[0].Categoria.ID != "ropa-mujer" || early[0].Cantidad != 1 || early[0].Total.Cmp(decimal.MustParse("50")) != 0 {
		t.Fatalf("unexpected first row: %+v", early[0])
	}
	if early[0].Categoria.Nombre != "Ropa de mujer" {
		t.Fatalf("known category should be resolved: %+v", early[0].Categoria)
	}
	if early[1].Categoria.ID != "zapatillas-x" || early[1].Categoria.Nombre != "zapatillas-x" {
		t.Fatalf("unknown category should fall back to its id: %+v", early[1].Categoria)
	}

	late, err := f.svc.CategorySummary(ctx, at(20, 0), at(20, 0))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(late) != 1 || late[0].Categoria.ID != ledger.DefaultCategoriaID || late[0].Total.Cmp(decimal.MustParse("20")) != 0 {
		t.Fatalf("undated item should use the movement date: %+v", late)
	}
}

func TestBalanceReport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mov(t, ledger.TipoAbono, "100", "efectivo [05/03/2024]", at(12, 10))
	f.mov(t, ledger.TipoAbono, "50", "", at(6, 10))
	f.mov(t, ledger.TipoAbono, "40", "[15/03/2024]", at(6, 11))
	f.mov(t, ledger.TipoCargo, "500", "", at(6, 12))
	for _, g := range []ledger.Gasto{
		{ID: uuid.New(), Descripcion: "Pasajes", Monto: pen("30"), Fecha: at(7, 10)},
		{ID: uuid.New(), Descripcion: "Mercadería", Monto: pen("200"), Fecha: at(11, 10)},
	} {
		if _, err := f.st.Gastos.Create(ctx, g); err != nil {
			t.Fatalf("seed gasto: %v", err)
		}
	}

	b, err := f.svc.BalanceReport(ctx, at(1, 0), at(10, 0))
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if b.Ingresos.Decimal().String() != "150.00" || b.Gastos.Decimal().String() != "30.00" || b.Utilidad.Decimal().String() != "120.00" {
		t.Fatalf("unexpected balance: ingresos=%s gastos=%s utilidad=%s", b.Ingresos, b.Gastos, b.Utilidad)
	}
	if b.MargenPct.String() != "80.00" {
		t.Fatalf("unexpected margin %s", b.MargenPct)
	}

	empty, err := f.svc.BalanceReport(ctx, time.Date(2020, 1, 1, 0, 0, 0, 0, lima), time.Date(2020, 1, 31, 0, 0, 0, 0, lima))
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !empty.Ingresos.IsZero() || !empty.MargenPct.IsZero() {
		t.Fatalf("range without income must have zero margin: %+v", empty)
	}
}

func TestMargin_Rounds(t *testing.T) {
	got, err := margin(pen("10"), pen("30"))
	if err != nil {
		t.Fatalf("margin: %v", err)
	}
	if got.String() != "33.33" {
		t.Fatalf("expected 33.33, got %s", got)
	}
	neg, _ := margin(pen("-15"), pen("60"))
	if neg.String() != "-25.00" {
		t.Fatalf("expected -25.00, got %s", neg)
	}
}

type countingLocker struct {
	sync.Mutex
	n int
}

func (l *countingLocker) Lock() {
	l.Mutex.Lock()
	l.n++
}

func TestWritesTakeSharedLock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mov(t, ledger.TipoCargo, "50", "Blusa (S/50.00) [04/03/2024] {ropa-mujer}", at(4, 10))
	mu := &countingLocker{}
	svc := New(Deps{
		Movimientos: f.st.Movimientos,
		Cuentas:     f.st.Cuentas,
		Clientas:    f.st.Clientas,
		Categorias:  f.st.Categorias,
		Gastos:      f.st.Gastos,
		Reportes:    f.st.Reportes,
	}, WithLocation(lima), WithLocker(mu))

	if _, err := svc.WeeklyReport(ctx, at(4, 12)); err != nil {
		t.Fatalf("weekly: %v", err)
	}
	if _, err := svc.CategorySummary(ctx, at(1, 0), at(10, 0)); err != nil {
		t.Fatalf("summary: %v", err)
	}
	if mu.n != 2 {
		t.Fatalf("want the report upsert and the category read under the lock, got %d locks", mu.n)
	}
}
