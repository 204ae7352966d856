package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/govalues/money"

	"github.com/tinoosan/cuaderno/internal/ledger"
)

// Persisted shapes. Amounts are decimal strings so the JSON documents stay
// exact and readable by other tools.

type clientaRecord struct {
	ID         uuid.UUID `json:"id"`
	Nombre     string    `json:"nombre"`
	Referencia string    `json:"referencia,omitempty"`
	CreadaEn   time.Time `json:"creadaEn"`
}

type cuentaRecord struct {
	ID            uuid.UUID     `json:"id"`
	ClientaID     uuid.UUID     `json:"clientaId"`
	Saldo         string        `json:"saldo"`
	Estado        ledger.Estado `json:"estado"`
	FechaCreacion time.Time     `json:"fechaCreacion"`
	FechaCierre   *time.Time    `json:"fechaCierre,omitempty"`
	NumeroCuenta  int           `json:"numeroCuenta,omitempty"`
}

type movimientoRecord struct {
	ID         uuid.UUID   `json:"id"`
	CuentaID   uuid.UUID   `json:"cuentaId"`
	Tipo       ledger.Tipo `json:"tipo"`
	Monto      string      `json:"monto"`
	Comentario string      `json:"comentario"`
	Fecha      time.Time   `json:"fecha"`
}

type gastoRecord struct {
	ID          uuid.UUID `json:"id"`
	Descripcion string    `json:"descripcion"`
	Monto       string    `json:"monto"`
	Fecha       time.Time `json:"fecha"`
	Categoria   string    `json:"categoria,omitempty"`
}

type prendaRecord struct {
	Descripcion string     `json:"descripcion"`
	Monto       *string    `json:"monto"`
	Fecha       *time.Time `json:"fecha"`
	Categoria   string     `json:"categoria"`
}

type movimientoReporteRecord struct {
	ID            uuid.UUID      `json:"id"`
	CuentaID      uuid.UUID      `json:"cuentaId"`
	ClientaID     uuid.UUID      `json:"clientaId"`
	ClientaNombre string         `json:"clientaNombre"`
	Tipo          ledger.Tipo    `json:"tipo"`
	Monto         string         `json:"monto"`
	Comentario    string         `json:"comentario"`
	Fecha         time.Time      `json:"fecha"`
	Prendas       []prendaRecord `json:"prendas,omitempty"`
	Nota          string         `json:"nota,omitempty"`
}

type reporteRecord struct {
	ID               string                    `json:"id"`
	FechaInicio      time.Time                 `json:"fechaInicio"`
	FechaFin         time.Time                 `json:"fechaFin"`
	FechaGeneracion  time.Time                 `json:"fechaGeneracion"`
	Movimientos      []movimientoReporteRecord `json:"movimientos"`
	TotalCargos      string                    `json:"totalCargos"`
	TotalAbonos      string                    `json:"totalAbonos"`
	TotalMovimientos int                       `json:"totalMovimientos"`
	TotalPrendas     int                       `json:"totalPrendas"`
}

func amountString(a money.Amount) string { return a.Decimal().String() }

func parseAmount(curr, s string) (money.Amount, error) {
	a, err := money.ParseAmount(curr, s)
	if err != nil {
		return money.Amount{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return a, nil
}

func toClientaRecord(c ledger.Clienta) clientaRecord {
	return clientaRecord{ID: c.ID, Nombre: c.Nombre, Referencia: c.Referencia, CreadaEn: c.CreadaEn}
}

func (r clientaRecord) domain() ledger.Clienta {
	return ledger.Clienta{ID: r.ID, Nombre: r.Nombre, Referencia: r.Referencia, CreadaEn: r.CreadaEn}
}

func toCuentaRecord(c ledger.Cuenta) cuentaRecord {
	return cuentaRecord{
		ID:            c.ID,
		ClientaID:     c.ClientaID,
		Saldo:         amountString(c.Saldo),
		Estado:        c.Estado,
		FechaCreacion: c.FechaCreacion,
		FechaCierre:   c.FechaCierre,
		NumeroCuenta:  c.NumeroCuenta,
	}
}

func (r cuentaRecord) domain(curr string) (ledger.Cuenta, error) {
	saldo, err := parseAmount(curr, r.Saldo)
	if err != nil {
		return ledger.Cuenta{}, fmt.Errorf("cuenta %s: %w", r.ID, err)
	}
	return ledger.Cuenta{
		ID:            r.ID,
		ClientaID:     r.ClientaID,
		Saldo:         saldo,
		Estado:        r.Estado,
		FechaCreacion: r.FechaCreacion,
		FechaCierre:   r.FechaCierre,
		NumeroCuenta:  r.NumeroCuenta,
	}, nil
}

func toMovimientoRecord(m ledger.Movimiento) movimientoRecord {
	return movimientoRecord{
		ID:         m.ID,
		CuentaID:   m.CuentaID,
		Tipo:       m.Tipo,
		Monto:      amountString(m.Monto),
		Comentario: m.Comentario,
		Fecha:      m.Fecha,
	}
}

func (r movimientoRecord) domain(curr string) (ledger.Movimiento, error) {
	monto, err := parseAmount(curr, r.Monto)
	if err != nil {
		return ledger.Movimiento{}, fmt.Errorf("movimiento %s: %w", r.ID, err)
	}
	return ledger.Movimiento{
		ID:         r.ID,
		CuentaID:   r.CuentaID,
		Tipo:       r.Tipo,
		Monto:      monto,
		Comentario: r.Comentario,
		Fecha:      r.Fecha,
	}, nil
}

func toGastoRecord(g ledger.Gasto) gastoRecord {
	return gastoRecord{ID: g.ID, Descripcion: g.Descripcion, Monto: amountString(g.Monto), Fecha: g.Fecha, Categoria: g.Categoria}
}

func (r gastoRecord) domain(curr string) (ledger.Gasto, error) {
	monto, err := parseAmount(curr, r.Monto)
	if err != nil {
		return ledger.Gasto{}, fmt.Errorf("gasto %s: %w", r.ID, err)
	}
	return ledger.Gasto{ID: r.ID, Descripcion: r.Descripcion, Monto: monto, Fecha: r.Fecha, Categoria: r.Categoria}, nil
}

func toPrendaRecords(ps []ledger.Prenda) []prendaRecord {
	if len(ps) == 0 {
		return nil
	}
	out := make([]prendaRecord, 0, len(ps))
	for _, p := range ps {
		r := prendaRecord{Descripcion: p.Descripcion, Fecha: p.Fecha, Categoria: p.Categoria}
		if p.Monto != nil {
			s := p.Monto.String()
			r.Monto = &s
		}
		out = append(out, r)
	}
	return out
}

func prendasFromRecords(rs []prendaRecord) ([]ledger.Prenda, error) {
	if len(rs) == 0 {
		return nil, nil
	}
	out := make([]ledger.Prenda, 0, len(rs))
	for _, r := range rs {
		p := ledger.Prenda{Descripcion: r.Descripcion, Fecha: r.Fecha, Categoria: r.Categoria}
		if r.Monto != nil {
			d, err := decimal.Parse(*r.Monto)
			if err != nil {
				return nil, fmt.Errorf("prenda %q: %w", r.Descripcion, err)
			}
			p.Monto = &d
		}
		out = append(out, p)
	}
	return out, nil
}

func toReporteRecord(r ledger.ReporteSemanal) reporteRecord {
	movs := make([]movimientoReporteRecord, 0, len(r.Movimientos))
	for _, m := range r.Movimientos {
		movs = append(movs, movimientoReporteRecord{
			ID:            m.ID,
			CuentaID:      m.CuentaID,
			ClientaID:     m.ClientaID,
			ClientaNombre: m.ClientaNombre,
			Tipo:          m.Tipo,
			Monto:         amountString(m.Monto),
			Comentario:    m.Comentario,
			Fecha:         m.Fecha,
			Prendas:       toPrendaRecords(m.Prendas),
			Nota:          m.Nota,
		})
	}
	return reporteRecord{
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

func (r reporteRecord) domain(curr string) (ledger.ReporteSemanal, error) {
	cargos, err := parseAmount(curr, r.TotalCargos)
	if err != nil {
		return ledger.ReporteSemanal{}, fmt.Errorf("reporte %s: %w", r.ID, err)
	}
	abonos, err := parseAmount(curr, r.TotalAbonos)
	if err != nil {
		return ledger.ReporteSemanal{}, fmt.Errorf("reporte %s: %w", r.ID, err)
	}
	movs := make([]ledger.MovimientoReporte, 0, len(r.Movimientos))
	for _, m := range r.Movimientos {
		monto, err := parseAmount(curr, m.Monto)
		if err != nil {
			return ledger.ReporteSemanal{}, fmt.Errorf("reporte %s: %w", r.ID, err)
		}
		prendas, err := prendasFromRecords(m.Prendas)
		if err != nil {
			return ledger.ReporteSemanal{}, fmt.Errorf("reporte %s: %w", r.ID, err)
		}
		movs = append(movs, ledger.MovimientoReporte{
			ID:            m.ID,
			CuentaID:      m.CuentaID,
			ClientaID:     m.ClientaID,
			ClientaNombre: m.ClientaNombre,
			Tipo:          m.Tipo,
			Monto:         monto,
			Comentario:    m.Comentario,
			Fecha:         m.Fecha,
			Prendas:       prendas,
			Nota:          m.Nota,
		})
	}
	return ledger.ReporteSemanal{
		ID:               r.ID,
		FechaInicio:      r.FechaInicio,
		FechaFin:         r.FechaFin,
		FechaGeneracion:  r.FechaGeneracion,
		Movimientos:      movs,
		TotalCargos:      cargos,
		TotalAbonos:      abonos,
		TotalMovimientos: r.TotalMovimientos,
		TotalPrendas:     r.TotalPrendas,
	}, nil
}
