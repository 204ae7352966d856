package v1

import (
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"

	"github.com/tinoosan/cuaderno/internal/codec"
	"github.com/tinoosan/cuaderno/internal/ledger"
	"github.com/tinoosan/cuaderno/internal/service/account"
	"github.com/tinoosan/cuaderno/internal/service/journal"
)

// dayLayout is the layout of date-only query and body fields.
const dayLayout = time.DateOnly

// Requests. Amounts travel as decimal strings ("25.50").

type postClientaRequest struct {
	Nombre     string `json:"nombre" validate:"required,max=120"`
	Referencia string `json:"referencia" validate:"max=500"`
}

// prendaRequest is one line item. An item without monto is stored as its bare
// description, so fecha and categoria need a monto.
type prendaRequest struct {
	Descripcion string `json:"descripcion" validate:"required,max=200,excludesall=0x7C"`
	Monto       string `json:"monto" validate:"required_with=Fecha Categoria,prenda_monto"`
	// Fecha is DD/MM/YYYY, as written on the notebook. Empty means the movement's day.
	Fecha     string `json:"fecha" validate:"omitempty,datetime=02/01/2006"`
	Categoria string `json:"categoria" validate:"omitempty,categoria_id"`
}

// postMovimientoRequest registers a movement. For CARGO, prendas are encoded
// into the comment when comentario is empty. For ABONO, fechaPago is appended
// as a date tag.
type postMovimientoRequest struct {
	Tipo       string          `json:"tipo" validate:"required,oneof=CARGO ABONO"`
	Monto      string          `json:"monto" validate:"required,numeric"`
	Comentario string          `json:"comentario" validate:"max=4000"`
	Prendas    []prendaRequest `json:"prendas" validate:"omitempty,excluded_unless=Tipo CARGO,dive"`
	FechaPago  string          `json:"fechaPago" validate:"omitempty,excluded_unless=Tipo ABONO,datetime=02/01/2006"`
	Fecha      *time.Time      `json:"fecha"`
}

type patchMovimientoRequest struct {
	Monto      string `json:"monto" validate:"required,numeric"`
	Comentario string `json:"comentario" validate:"max=4000"`
}

type postCategoriaRequest struct {
	Nombre string `json:"nombre" validate:"required,max=60"`
	Icono  string `json:"icono" validate:"max=16"`
	Color  string `json:"color" validate:"omitempty,hexcolor"`
}

type postGastoRequest struct {
	Descripcion string     `json:"descripcion" validate:"required,max=200"`
	Monto       string     `json:"monto" validate:"required,numeric"`
	Fecha       *time.Time `json:"fecha"`
	Categoria   string     `json:"categoria" validate:"omitempty,max=40"`
}

type postSemanalRequest struct {
	// Fecha is any day of the week to report, YYYY-MM-DD. Empty means today.
	Fecha string `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
}

type rangeQuery struct {
	Desde string `validate:"required,datetime=2006-01-02"`
	Hasta string `validate:"required,datetime=2006-01-02"`
}

func (q *rangeQuery) bind(v url.Values) {
	q.Desde = v.Get("desde")
	q.Hasta = v.Get("hasta")
}

type optionalRangeQuery struct {
	Desde string `validate:"omitempty,datetime=2006-01-02"`
	Hasta string `validate:"omitempty,datetime=2006-01-02"`
}

func (q *optionalRangeQuery) bind(v url.Values) {
	q.Desde = v.Get("desde")
	q.Hasta = v.Get("hasta")
}

// Responses.

type clientaResponse struct {
	ID         uuid.UUID `json:"id"`
	Nombre     string    `json:"nombre"`
	Referencia string    `json:"referencia,omitempty"`
	CreadaEn   time.Time `json:"creadaEn"`
}

type cuentaResponse struct {
	ID            uuid.UUID     `json:"id"`
	ClientaID     uuid.UUID     `json:"clientaId"`
	NumeroCuenta  int           `json:"numeroCuenta"`
	Saldo         string        `json:"saldo"`
	Moneda        string        `json:"moneda"`
	Estado        ledger.Estado `json:"estado"`
	FechaCreacion time.Time     `json:"fechaCreacion"`
	FechaCierre   *time.Time    `json:"fechaCierre,omitempty"`
}

type prendaResponse struct {
	Descripcion string     `json:"descripcion"`
	Monto       *string    `json:"monto"`
	Fecha       *time.Time `json:"fecha"`
	Categoria   string     `json:"categoria"`
}

type movimientoResponse struct {
	ID         uuid.UUID        `json:"id"`
	CuentaID   uuid.UUID        `json:"cuentaId"`
	Tipo       ledger.Tipo      `json:"tipo"`
	Monto      string           `json:"monto"`
	Comentario string           `json:"comentario"`
	Fecha      time.Time        `json:"fecha"`
	Prendas    []prendaResponse `json:"prendas,omitempty"`
	Nota       *string          `json:"nota,omitempty"`
	FechaPago  *time.Time       `json:"fechaPago,omitempty"`
}

type movimientoResultResponse struct {
	Movimiento movimientoResponse `json:"movimiento"`
	Cuenta     cuentaResponse     `json:"cuenta"`
	Cerrada    bool               `json:"cerrada"`
	Reabierta  bool               `json:"reabierta"`
}

type statementResponse struct {
	Cuenta      cuentaResponse       `json:"cuenta"`
	Clienta     clientaResponse      `json:"clienta"`
	Movimientos []movimientoResponse `json:"movimientos"`
}

type gastoResponse struct {
	ID          uuid.UUID `json:"id"`
	Descripcion string    `json:"descripcion"`
	Monto       string    `json:"monto"`
	Fecha       time.Time `json:"fecha"`
	Categoria   string    `json:"categoria,omitempty"`
}

type movimientoReporteResponse struct {
	ID            uuid.UUID        `json:"id"`
	CuentaID      uuid.UUID        `json:"cuentaId"`
	ClientaID     uuid.UUID        `json:"clientaId"`
	ClientaNombre string           `json:"clientaNombre"`
	Tipo          ledger.Tipo      `json:"tipo"`
	Monto         string           `json:"monto"`
	Comentario    string           `json:"comentario"`
	Fecha         time.Time        `json:"fecha"`
	Prendas       []prendaResponse `json:"prendas,omitempty"`
	Nota          string           `json:"nota,omitempty"`
}

type reporteResponse struct {
	ID               string                      `json:"id"`
	FechaInicio      time.Time                   `json:"fechaInicio"`
	FechaFin         time.Time                   `json:"fechaFin"`
	FechaGeneracion  time.Time                   `json:"fechaGeneracion"`
	Movimientos      []movimientoReporteResponse `json:"movimientos"`
	TotalCargos      string                      `json:"totalCargos"`
	TotalAbonos      string                      `json:"totalAbonos"`
	TotalMovimientos int                         `json:"totalMovimientos"`
	TotalPrendas     int                         `json:"totalPrendas"`
}

type reporteSummaryResponse struct {
	ID               string    `json:"id"`
	FechaInicio      time.Time `json:"fechaInicio"`
	FechaFin         time.Time `json:"fechaFin"`
	TotalCargos      string    `json:"totalCargos"`
	TotalAbonos      string    `json:"totalAbonos"`
	TotalMovimientos int       `json:"totalMovimientos"`
}

type resumenCategoriaResponse struct {
	Categoria ledger.Categoria `json:"categoria"`
	Cantidad  int              `json:"cantidad"`
	Total     string           `json:"total"`
}

type balanceResponse struct {
	Desde     time.Time `json:"desde"`
	Hasta     time.Time `json:"hasta"`
	Ingresos  string    `json:"ingresos"`
	Gastos    string    `json:"gastos"`
	Utilidad  string    `json:"utilidad"`
	MargenPct string    `json:"margenPct"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
}

func amountString(a money.Amount) string { return a.Decimal().Round(2).Pad(2).String() }

func toClientaResponse(c ledger.Clienta) clientaResponse {
	return clientaResponse{ID: c.ID, Nombre: c.Nombre, Referencia: c.Referencia, CreadaEn: c.CreadaEn}
}

func toCuentaResponse(c ledger.Cuenta) cuentaResponse {
	return cuentaResponse{
		ID:            c.ID,
		ClientaID:     c.ClientaID,
		NumeroCuenta:  c.NumeroCuenta,
		Saldo:         amountString(c.Saldo),
		Moneda:        c.Saldo.Curr().Code(),
		Estado:        c.Estado,
		FechaCreacion: c.FechaCreacion,
		FechaCierre:   c.FechaCierre,
	}
}

func toPrendaResponses(ps []ledger.Prenda) []prendaResponse {
	if len(ps) == 0 {
		return nil
	}
	out := make([]prendaResponse, 0, len(ps))
	for _, p := range ps {
		pr := prendaResponse{Descripcion: p.Descripcion, Fecha: p.Fecha, Categoria: p.Categoria}
		if p.Monto != nil {
			s := codec.FormatAmount(*p.Monto)
			pr.Monto = &s
		}
		out = append(out, pr)
	}
	return out
}

// toMovimientoResponse decodes the comment: line items for CARGO, note and
// payment date for ABONO.
func toMovimientoResponse(m ledger.Movimiento) movimientoResponse {
	out := movimientoResponse{
		ID:         m.ID,
		CuentaID:   m.CuentaID,
		Tipo:       m.Tipo,
		Monto:      amountString(m.Monto),
		Comentario: m.Comentario,
		Fecha:      m.Fecha,
	}
	switch m.Tipo {
	case ledger.TipoCargo:
		out.Prendas = toPrendaResponses(codec.DecodePrendas(m.Comentario))
	case ledger.TipoAbono:
		a := codec.DecodeAbono(m.Comentario)
		if a.Nota != "" {
			out.Nota = &a.Nota
		}
		out.FechaPago = a.Fecha
	}
	return out
}

func toResultResponse(r journal.Result) movimientoResultResponse {
	return movimientoResultResponse{
		Movimiento: toMovimientoResponse(r.Movimiento),
		Cuenta:     toCuentaResponse(r.Cuenta),
		Cerrada:    r.Cerrada,
		Reabierta:  r.Reabierta,
	}
}

func toStatementResponse(st account.Statement) statementResponse {
	movs := make([]movimientoResponse, 0, len(st.Movimientos))
	for _, m := range st.Movimientos {
		movs = append(movs, toMovimientoResponse(m))
	}
	return statementResponse{
		Cuenta:      toCuentaResponse(st.Cuenta),
		Clienta:     toClientaResponse(st.Clienta),
		Movimientos: movs,
	}
}

func toGastoResponse(g ledger.Gasto) gastoResponse {
	return gastoResponse{ID: g.ID, Descripcion: g.Descripcion, Monto: amountString(g.Monto), Fecha: g.Fecha, Categoria: g.Categoria}
}

func toReporteResponse(r ledger.ReporteSemanal) reporteResponse {
	movs := make([]movimientoReporteResponse, 0, len(r.Movimientos))
	for _, m := range r.Movimientos {
		movs = append(movs, movimientoReporteResponse{
			ID:            m.ID,
			CuentaID:      m.CuentaID,
			ClientaID:     m.ClientaID,
			ClientaNombre: m.ClientaNombre,
			Tipo:          m.Tipo,
			Monto:         amountString(m.Monto),
			Comentario:    m.Comentario,
			Fecha:         m.Fecha,
			Prendas:       toPrendaResponses(m.Prendas),
			Nota:          m.Nota,
		})
	}
	return reporteResponse{
		ID:               r.ID,
		FechaInicio:      r.FechaInicio,
		FechaFin:         r.FechaFin,
		FechaGeneracion:  r.FechaGeneracion,
		Movimientos:      movs,
		TotalCargos:      amountString(r.TotalCargos),
		TotalAbonos:      amountString(r.TotalAbonos),
		TotalMovimientos: r.TotalMovimientos,
		TotalPrendas:     r.TotalPrendas,
	}
}

func toReporteSummary(r ledger.ReporteSemanal) reporteSummaryResponse {
	return reporteSummaryResponse{
		ID:               r.ID,
		FechaInicio:      r.FechaInicio,
		FechaFin:         r.FechaFin,
		TotalCargos:      amountString(r.TotalCargos),
		TotalAbonos:      amountString(r.TotalAbonos),
		TotalMovimientos: r.TotalMovimientos,
	}
}

func toBalanceResponse(b ledger.Balance) balanceResponse {
	return balanceResponse{
		Desde:     b.Desde,
		Hasta:     b.Hasta,
		Ingresos:  amountString(b.Ingresos),
		Gastos:    amountString(b.Gastos),
		Utilidad:  amountString(b.Utilidad),
		MargenPct: b.MargenPct.Round(2).Pad(2).String(),
	}
}
