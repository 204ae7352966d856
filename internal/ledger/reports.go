package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/govalues/money"
)

// ReportIDPrefix prefixes weekly report ids: semana_<YYYY-MM-DD of Monday>.
const ReportIDPrefix = "semana_"

// ReporteSemanal is the persisted weekly summary.
type ReporteSemanal struct {
	ID               string
	FechaInicio      time.Time
	FechaFin         time.Time
	FechaGeneracion  time.Time
	Movimientos      []MovimientoReporte
	TotalCargos      money.Amount
	TotalAbonos      money.Amount
	TotalMovimientos int
	TotalPrendas     int
}

// MovimientoReporte is a movement enriched for reporting.
type MovimientoReporte struct {
	ID            uuid.UUID
	CuentaID      uuid.UUID
	ClientaID     uuid.UUID
	ClientaNombre string
	Tipo          Tipo
	Monto         money.Amount
	Comentario    string
	Fecha         time.Time
	// Prendas is set for CARGO rows.
	Prendas []Prenda
	// Nota is the payment note for ABONO rows, with the date tag stripped.
	Nota string
}

// ResumenCategoria aggregates line items of one category.
type ResumenCategoria struct {
	Categoria Categoria
	Cantidad  int
	Total     decimal.Decimal
}

// Balance is the derived profit view for a date range.
type Balance struct {
	Desde    time.Time
	Hasta    time.Time
	Ingresos money.Amount
	Gastos   money.Amount
	Utilidad money.Amount
	// MargenPct is utilidad / ingresos * 100, rounded to two decimals; zero when ingresos is zero.
	MargenPct decimal.Decimal
}
