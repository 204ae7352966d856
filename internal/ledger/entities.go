package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/govalues/money"
)

// Tipo is the direction of a movement against an account balance.
type Tipo string

const (
	// TipoCargo increases the debt (an article sold on credit).
	TipoCargo Tipo = "CARGO"
	// TipoAbono decreases the debt (a payment).
	TipoAbono Tipo = "ABONO"
)

// Valid reports whether t is one of the known movement types.
func (t Tipo) Valid() bool { return t == TipoCargo || t == TipoAbono }

// Estado is the lifecycle state of an account.
type Estado string

const (
	EstadoActiva  Estado = "ACTIVA"
	EstadoCerrada Estado = "CERRADA"
)

// DefaultCategoriaID is assigned to line items that carry no category tag.
const DefaultCategoriaID = "ropa-otros"

// DefaultCurrency is the currency used for balances when none is configured.
const DefaultCurrency = "PEN"

// Clienta is a customer that owes money through one or more accounts.
type Clienta struct {
	ID         uuid.UUID
	Nombre     string
	Referencia string
	CreadaEn   time.Time
}

// Cuenta is one running debt balance for a client.
type Cuenta struct {
	ID            uuid.UUID
	ClientaID     uuid.UUID
	Saldo         money.Amount
	Estado        Estado
	FechaCreacion time.Time
	// FechaCierre is set once when the account closes.
	FechaCierre *time.Time
	// NumeroCuenta orders a client's accounts by creation; 0 means not yet assigned.
	NumeroCuenta int
}

// Activa reports whether the account accepts new movements.
func (c Cuenta) Activa() bool { return c.Estado == EstadoActiva }

// Endeudada reports whether the account is active and still owes money.
func (c Cuenta) Endeudada() bool { return c.Activa() && c.Saldo.IsPos() }

// Movimiento is a ledger entry against a single account.
type Movimiento struct {
	ID         uuid.UUID
	CuentaID   uuid.UUID
	Tipo       Tipo
	Monto      money.Amount
	Comentario string
	Fecha      time.Time
}

// Prenda is a line item decoded from a CARGO comment. It is never stored on its own.
type Prenda struct {
	Descripcion string
	Monto       *decimal.Decimal
	Fecha       *time.Time
	Categoria   string
}

// Categoria classifies line items for reporting.
type Categoria struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Icono  string `json:"icono"`
	Color  string `json:"color"`
}

// Gasto is a business expense, used by the profit report.
type Gasto struct {
	ID          uuid.UUID
	Descripcion string
	Monto       money.Amount
	Fecha       time.Time
	Categoria   string
}

// Settle applies the auto-close rule: an ACTIVA account whose saldo is no
// longer positive becomes CERRADA with saldo 0 and FechaCierre set to now.
// A negative saldo is clamped to 0 whatever the estado. It reports whether
// the account was closed.
func (c *Cuenta) Settle(now time.Time) bool {
	if c.Saldo.IsPos() {
		return false
	}
	if !c.Saldo.IsZero() {
		if zero, err := money.NewAmountFromMinorUnits(c.Saldo.Curr().Code(), 0); err == nil {
			c.Saldo = zero
		}
	}
	if !c.Activa() {
		return false
	}
	c.Estado = EstadoCerrada
	t := now
	c.FechaCierre = &t
	return true
}

// Reopen is the single CERRADA to ACTIVA transition, used when removing a
// movement leaves a closed account owing money again.
func (c *Cuenta) Reopen() {
	c.Estado = EstadoActiva
	c.FechaCierre = nil
}
