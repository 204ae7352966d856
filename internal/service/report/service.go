// Package report builds the weekly summaries, the per-category summary and
// the profit view from movements, decoding CARGO comments into line items.
//
// Date ranges are calendar days in the configured location and inclusive on
// both ends. Dates embedded in comments are plain calendar days.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/govalues/money"

	"github.com/tinoosan/cuaderno/internal/codec"
	"github.com/tinoosan/cuaderno/internal/ledger"
)

type MovimientoReader interface {
	List(ctx context.Context) ([]ledger.Movimiento, error)
	InRange(ctx context.Context, from, to time.Time) ([]ledger.Movimiento, error)
}

type CuentaReader interface {
	List(ctx context.Context) ([]ledger.Cuenta, error)
}

type ClientaReader interface {
	List(ctx context.Context) ([]ledger.Clienta, error)
}

type CategoriaReader interface {
	Index(ctx context.Context) (map[string]ledger.Categoria, error)
}

type GastoReader interface {
	InRange(ctx context.Context, from, to time.Time) ([]ledger.Gasto, error)
}

type ReporteStore interface {
	Upsert(ctx context.Context, r ledger.ReporteSemanal) error
	Get(ctx context.Context, id string) (ledger.ReporteSemanal, error)
	List(ctx context.Context) ([]ledger.ReporteSemanal, error)
}

// Deps are the collections the aggregator reads and the report store it writes.
type Deps struct {
	Movimientos MovimientoReader
	Cuentas     CuentaReader
	Clientas    ClientaReader
	Categorias  CategoriaReader
	Gastos      GastoReader
	Reportes    ReporteStore
}

type Service interface {
	WeeklyReport(ctx context.Context, ref time.Time) (ledger.ReporteSemanal, error)
	CategorySummary(ctx context.Context, from, to time.Time) ([]ledger.ResumenCategoria, error)
	BalanceReport(ctx context.Context, from, to time.Time) (ledger.Balance, error)
	GetReport(ctx context.Context, id string) (ledger.ReporteSemanal, error)
	ListReports(ctx context.Context) ([]ledger.ReporteSemanal, error)
}

type Option func(*service)

func WithClock(now func() time.Time) Option { return func(s *service) { s.now = now } }

func WithLogger(l *slog.Logger) Option { return func(s *service) { s.log = l } }

// WithLocation sets the location week and day boundaries are computed in.
func WithLocation(loc *time.Location) Option { return func(s *service) { s.loc = loc } }

func WithCurrency(code string) Option { return func(s *service) { s.currency = code } }

// WithLocker shares the mutation lock with the other services. Report
// upserts and the category seed run under it.
func WithLocker(mu sync.Locker) Option { return func(s *service) { s.mu = mu } }

type service struct {
	Deps
	now      func() time.Time
	log      *slog.Logger
	loc      *time.Location
	currency string
	mu       sync.Locker
}

func New(deps Deps, opts ...Option) Service {
	s := &service{Deps: deps, now: time.Now, log: slog.Default(), loc: time.UTC, currency: ledger.DefaultCurrency, mu: &sync.Mutex{}}
	for _, o := range opts {
		o(s)
	}
	return s
}

// WeekBounds returns the Monday 00:00 and Sunday 23:59:59.999999999 of the
// week containing ref, in loc.
func WeekBounds(ref time.Time, loc *time.Location) (time.Time, time.Time) {
	ref = ref.In(loc)
	offset := (int(ref.Weekday()) + 6) % 7
	y, m, d := ref.Date()
	start := time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return start, end
}

// WeekID is the report id of the week starting at start.
func WeekID(start time.Time) string {
	return ledger.ReportIDPrefix + start.Format("2006-01-02")
}

func (s *service) zero() (money.Amount, error) {
	z, err := money.NewAmountFromMinorUnits(s.currency, 0)
	if err != nil {
		return money.Amount{}, fmt.Errorf("currency %q: %w", s.currency, err)
	}
	return z, nil
}

// WeeklyReport collects the movements of the week containing ref, enriches
// them and upserts the result under its week id. A week without movements
// is returned empty and never stored.
func (s *service) WeeklyReport(ctx context.Context, ref time.Time) (ledger.ReporteSemanal, error) {
	start, end := WeekBounds(ref, s.loc)
	zero, err := s.zero()
	if err != nil {
		return ledger.ReporteSemanal{}, err
	}
	rep := ledger.ReporteSemanal{
		ID:              WeekID(start),
		FechaInicio:     start,
		FechaFin:        end,
		FechaGeneracion: s.now(),
		Movimientos:     []ledger.MovimientoReporte{},
		TotalCargos:     zero,
		TotalAbonos:     zero,
	}

	movs, err := s.Movimientos.InRange(ctx, start, end)
	if err != nil {
		return ledger.ReporteSemanal{}, err
	}
	if len(movs) == 0 {
		return rep, nil
	}
	owners, err := s.owners(ctx)
	if err != nil {
		return ledger.ReporteSemanal{}, err
	}

	for _, m := range movs {
		row := ledger.MovimientoReporte{
			ID:         m.ID,
			CuentaID:   m.CuentaID,
			Tipo:       m.Tipo,
			Monto:      m.Monto,
			Comentario: m.Comentario,
			Fecha:      m.Fecha,
		}
		if o, ok := owners[m.CuentaID]; ok {
			row.ClientaID = o.ID
			row.ClientaNombre = o.Nombre
		}
		switch m.Tipo {
		case ledger.TipoCargo:
			row.Prendas = codec.DecodePrendas(m.Comentario)
			if n := len(row.Prendas); n > 0 {
				rep.TotalPrendas += n
			} else {
				rep.TotalPrendas++
			}
			if rep.TotalCargos, err = rep.TotalCargos.Add(m.Monto); err != nil {
				return ledger.ReporteSemanal{}, err
			}
		case ledger.TipoAbono:
			row.Nota = codec.DecodeAbono(m.Comentario).Nota
			if rep.TotalAbonos, err = rep.TotalAbonos.Add(m.Monto); err != nil {
				return ledger.ReporteSemanal{}, err
			}
		}
		rep.Movimientos = append(rep.Movimientos, row)
	}
	rep.TotalMovimientos = len(rep.Movimientos)

	s.mu.Lock()
	err = s.Reportes.Upsert(ctx, rep)
	s.mu.Unlock()
	if err != nil {
		return ledger.ReporteSemanal{}, err
	}
	s.log.Info("weekly report stored", "id", rep.ID, "movimientos", rep.TotalMovimientos)
	return rep, nil
}

// owners maps each account id to its client.
func (s *service) owners(ctx context.Context) (map[uuid.UUID]ledger.Clienta, error) {
	cuentas, err := s.Cuentas.List(ctx)
	if err != nil {
		return nil, err
	}
	clientas, err := s.Clientas.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]ledger.Clienta, len(clientas))
	for _, c := range clientas {
		byID[c.ID] = c
	}
	out := make(map[uuid.UUID]ledger.Clienta, len(cuentas))
	for _, c := range cuentas {
		if cl, ok := byID[c.ClientaID]; ok {
			out[c.ID] = cl
		} else {
			out[c.ID] = ledger.Clienta{ID: c.ClientaID}
		}
	}
	return out, nil
}

// civil is the calendar day of t as yyyymmdd.
func civil(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

type dayRange struct{ from, to int }

func (r dayRange) has(day int) bool { return day >= r.from && day <= r.to }

func (s *service) days(from, to time.Time) dayRange {
	return dayRange{from: civil(from.In(s.loc)), to: civil(to.In(s.loc))}
}

// CategorySummary scans every CARGO movement and counts its line items per
// category. An item is in range by its own date when it carries one, and by
// the movement's date otherwise. Results are ordered by total, largest first.
func (s *service) CategorySummary(ctx context.Context, from, to time.Time) ([]ledger.ResumenCategoria, error) {
	movs, err := s.Movimientos.List(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	cats, err := s.Categorias.Index(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	rng := s.days(from, to)
	acc := make(map[string]*ledger.ResumenCategoria)
	for _, m := range movs {
		if m.Tipo != ledger.TipoCargo {
			continue
		}
		movDay := civil(m.Fecha.In(s.loc))
		for _, p := range codec.DecodePrendas(m.Comentario) {
			day := movDay
			if p.Fecha != nil {
				day = civil(*p.Fecha)
			}
			if !rng.has(day) {
				continue
			}
			id := p.Categoria
			if id == "" {
				id = ledger.DefaultCategoriaID
			}
			r, ok := acc[id]
			if !ok {
				cat, known := cats[id]
				if !known {
					cat = ledger.Categoria{ID: id, Nombre: id}
				}
				r = &ledger.ResumenCategoria{Categoria: cat, Total: decimal.MustNew(0, 2)}
				acc[id] = r
			}
			r.Cantidad++
			if p.Monto != nil {
				if r.Total, err = r.Total.Add(*p.Monto); err != nil {
					return nil, err
				}
			}
		}
	}
	out := make([]ledger.ResumenCategoria, 0, len(acc))
	for _, r := range acc {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		if out[i].Cantidad != out[j].Cantidad {
			return out[i].Cantidad > out[j].Cantidad
		}
		return out[i].Categoria.ID < out[j].Categoria.ID
	})
	return out, nil
}

// BalanceReport derives profit for the range: ingresos are the ABONO amounts
// dated in range (by their date tag, else the movement date), gastos the
// expenses in range.
func (s *service) BalanceReport(ctx context.Context, from, to time.Time) (ledger.Balance, error) {
	zero, err := s.zero()
	if err != nil {
		return ledger.Balance{}, err
	}
	rng := s.days(from, to)
	movs, err := s.Movimientos.List(ctx)
	if err != nil {
		return ledger.Balance{}, err
	}
	ingresos := zero
	for _, m := range movs {
		if m.Tipo != ledger.TipoAbono {
			continue
		}
		day := civil(codec.DecodeAbono(m.Comentario).FechaDeRegistro(m.Fecha.In(s.loc)))
		if !rng.has(day) {
			continue
		}
		if ingresos, err = ingresos.Add(m.Monto); err != nil {
			return ledger.Balance{}, err
		}
	}

	fromDay := from.In(s.loc)
	toDay := to.In(s.loc)
	start := time.Date(fromDay.Year(), fromDay.Month(), fromDay.Day(), 0, 0, 0, 0, s.loc)
	end := time.Date(toDay.Year(), toDay.Month(), toDay.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
	gastos, err := s.Gastos.InRange(ctx, start, end)
	if err != nil {
		return ledger.Balance{}, err
	}
	totalGastos := zero
	for _, g := range gastos {
		if totalGastos, err = totalGastos.Add(g.Monto); err != nil {
			return ledger.Balance{}, err
		}
	}

	utilidad, err := ingresos.Sub(totalGastos)
	if err != nil {
		return ledger.Balance{}, err
	}
	margen, err := margin(utilidad, ingresos)
	if err != nil {
		return ledger.Balance{}, err
	}
	return ledger.Balance{
		Desde:     start,
		Hasta:     end,
		Ingresos:  ingresos,
		Gastos:    totalGastos,
		Utilidad:  utilidad,
		MargenPct: margen,
	}, nil
}

// margin is utilidad / ingresos * 100 rounded to two places, or 0 without ingresos.
func margin(utilidad, ingresos money.Amount) (decimal.Decimal, error) {
	if ingresos.IsZero() {
		return decimal.MustNew(0, 2), nil
	}
	scaled, err := utilidad.Decimal().Mul(decimal.MustNew(100, 0))
	if err != nil {
		return decimal.Decimal{}, err
	}
	q, err := scaled.Quo(ingresos.Decimal())
	if err != nil {
		return decimal.Decimal{}, err
	}
	return q.Round(2).Pad(2), nil
}

func (s *service) GetReport(ctx context.Context, id string) (ledger.ReporteSemanal, error) {
	return s.Reportes.Get(ctx, id)
}

func (s *service) ListReports(ctx context.Context) ([]ledger.ReporteSemanal, error) {
	return s.Reportes.List(ctx)
}
