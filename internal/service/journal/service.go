// Package journal posts, edits and removes movements and keeps the owning
// account's running saldo in step with them.
//
// Every balance change is applied as a delta against the stored saldo; only
// Reconcile recomputes it from the movement history. A saldo that reaches zero
// or below closes the account and is stored as zero, so an overpaid account
// reads 0 while its movements sum below it.
package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"

	"github.com/tinoosan/cuaderno/internal/errs"
	"github.com/tinoosan/cuaderno/internal/ledger"
)

// CuentaRepo is the account access the service needs.
type CuentaRepo interface {
	Get(ctx context.Context, id uuid.UUID) (ledger.Cuenta, error)
	Activas(ctx context.Context, clientaID uuid.UUID) ([]ledger.Cuenta, error)
	Update(ctx context.Context, c ledger.Cuenta) (ledger.Cuenta, error)
}

// MovimientoRepo is the movement access the service needs.
type MovimientoRepo interface {
	Get(ctx context.Context, id uuid.UUID) (ledger.Movimiento, error)
	ByCuenta(ctx context.Context, cuentaID uuid.UUID) ([]ledger.Movimiento, error)
	Create(ctx context.Context, m ledger.Movimiento) (ledger.Movimiento, error)
	Update(ctx context.Context, m ledger.Movimiento) (ledger.Movimiento, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MovementInput describes a movement to register. A zero Fecha means now.
type MovementInput struct {
	CuentaID   uuid.UUID
	Tipo       ledger.Tipo
	Monto      money.Amount
	Comentario string
	Fecha      time.Time
}

// Result is the outcome of a mutation: the movement involved and the owning
// account as stored afterwards.
type Result struct {
	Movimiento ledger.Movimiento
	Cuenta     ledger.Cuenta
	// Cerrada is set when the mutation closed the account.
	Cerrada bool
	// Reabierta is set when a removal reopened a closed account.
	Reabierta bool
}

type Service interface {
	RegisterMovement(ctx context.Context, in MovementInput) (Result, error)
	EditMovement(ctx context.Context, id uuid.UUID, monto money.Amount, comentario string) (Result, error)
	RemoveMovement(ctx context.Context, id uuid.UUID) (Result, error)
	GetMovement(ctx context.Context, id uuid.UUID) (ledger.Movimiento, error)
	Reconcile(ctx context.Context, cuentaID uuid.UUID) (ledger.Cuenta, error)
}

type Option func(*service)

func WithClock(now func() time.Time) Option { return func(s *service) { s.now = now } }

func WithLogger(l *slog.Logger) Option { return func(s *service) { s.log = l } }

// WithLocker shares the mutation lock with other services writing the same collections.
func WithLocker(mu sync.Locker) Option { return func(s *service) { s.mu = mu } }

type service struct {
	cuentas CuentaRepo
	movs    MovimientoRepo
	now     func() time.Time
	log     *slog.Logger
	mu      sync.Locker
}

func New(cuentas CuentaRepo, movs MovimientoRepo, opts ...Option) Service {
	s := &service{cuentas: cuentas, movs: movs, now: time.Now, log: slog.Default(), mu: &sync.Mutex{}}
	for _, o := range opts {
		o(s)
	}
	return s
}

// shift moves saldo by monto in the direction tipo implies. With undo the
// direction is reversed.
func shift(saldo money.Amount, tipo ledger.Tipo, monto money.Amount, undo bool) (money.Amount, error) {
	increase := tipo == ledger.TipoCargo
	if undo {
		increase = !increase
	}
	var (
		out money.Amount
		err error
	)
	if increase {
		out, err = saldo.Add(monto)
	} else {
		out, err = saldo.Sub(monto)
	}
	if err != nil {
		return money.Amount{}, fmt.Errorf("%w: %v", errs.ErrInvalidAmount, err)
	}
	return out, nil
}

func validAmount(monto money.Amount) error {
	if !monto.IsPos() {
		return fmt.Errorf("%w: monto must be > 0", errs.ErrInvalidAmount)
	}
	return nil
}

// RegisterMovement appends a movement to an ACTIVA account and applies it to
// saldo. An ABONO that covers the remaining debt, or more, closes the account
// with saldo 0.
func (s *service) RegisterMovement(ctx context.Context, in MovementInput) (Result, error) {
	if !in.Tipo.Valid() {
		return Result{}, fmt.Errorf("%w: unknown tipo %q", errs.ErrInvalid, in.Tipo)
	}
	if err := validAmount(in.Monto); err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cuenta, err := s.cuentas.Get(ctx, in.CuentaID)
	if errors.Is(err, errs.ErrAccountNotFound) {
		return Result{}, errs.ErrAccountNotActive
	}
	if err != nil {
		return Result{}, err
	}
	if !cuenta.Activa() {
		return Result{}, errs.ErrAccountNotActive
	}
	saldo, err := shift(cuenta.Saldo, in.Tipo, in.Monto, false)
	if err != nil {
		return Result{}, err
	}

	now := s.now()
	fecha := in.Fecha
	if fecha.IsZero() {
		fecha = now
	}
	m := ledger.Movimiento{
		ID:         uuid.New(),
		CuentaID:   cuenta.ID,
		Tipo:       in.Tipo,
		Monto:      in.Monto,
		Comentario: strings.TrimSpace(in.Comentario),
		Fecha:      fecha,
	}
	if _, err := s.movs.Create(ctx, m); err != nil {
		return Result{}, err
	}

	cuenta.Saldo = saldo
	closed := cuenta.Settle(now)
	if _, err := s.cuentas.Update(ctx, cuenta); err != nil {
		s.undo("register", func() error { return s.movs.Delete(ctx, m.ID) })
		return Result{}, err
	}
	if closed {
		s.log.Info("account closed", "cuenta_id", cuenta.ID, "movimiento_id", m.ID)
	}
	return Result{Movimiento: m, Cuenta: cuenta, Cerrada: closed}, nil
}

// EditMovement changes a movement's amount and comment, propagating the
// amount delta to saldo. On a CERRADA account only the comment may change.
func (s *service) EditMovement(ctx context.Context, id uuid.UUID, monto money.Amount, comentario string) (Result, error) {
	if err := validAmount(monto); err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, err := s.movs.Get(ctx, id)
	if err != nil {
		return Result{}, err
	}
	cuenta, err := s.cuentas.Get(ctx, old.CuentaID)
	if err != nil {
		return Result{}, err
	}
	cmp, err := monto.Cmp(old.Monto)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", errs.ErrInvalidAmount, err)
	}

	updated := old
	updated.Monto = monto
	updated.Comentario = strings.TrimSpace(comentario)

	if cmp == 0 {
		if _, err := s.movs.Update(ctx, updated); err != nil {
			return Result{}, err
		}
		return Result{Movimiento: updated, Cuenta: cuenta}, nil
	}
	if !cuenta.Activa() {
		return Result{}, errs.ErrAccountNotActive
	}

	saldo, err := shift(cuenta.Saldo, old.Tipo, old.Monto, true)
	if err != nil {
		return Result{}, err
	}
	if saldo, err = shift(saldo, old.Tipo, monto, false); err != nil {
		return Result{}, err
	}

	if _, err := s.movs.Update(ctx, updated); err != nil {
		return Result{}, err
	}
	cuenta.Saldo = saldo
	closed := cuenta.Settle(s.now())
	if _, err := s.cuentas.Update(ctx, cuenta); err != nil {
		s.undo("edit", func() error { _, err := s.movs.Update(ctx, old); return err })
		return Result{}, err
	}
	if closed {
		s.log.Info("account closed", "cuenta_id", cuenta.ID, "movimiento_id", id)
	}
	return Result{Movimiento: updated, Cuenta: cuenta, Cerrada: closed}, nil
}

// RemoveMovement deletes a movement and reverses its effect on saldo. When a
// CERRADA account ends up owing money again it is reopened, unless the client
// already has another account with debt.
//
// A CERRADA account may hold a clamped saldo, so its new saldo comes from the
// remaining movements instead of the stored value.
func (s *service) RemoveMovement(ctx context.Context, id uuid.UUID) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.movs.Get(ctx, id)
	if err != nil {
		return Result{}, err
	}
	cuenta, err := s.cuentas.Get(ctx, m.CuentaID)
	if err != nil {
		return Result{}, err
	}
	var saldo money.Amount
	if cuenta.Activa() {
		saldo, err = shift(cuenta.Saldo, m.Tipo, m.Monto, true)
	} else {
		saldo, err = s.sum(ctx, cuenta, m.ID)
	}
	if err != nil {
		return Result{}, err
	}

	reopened := false
	if !cuenta.Activa() && saldo.IsPos() {
		siblings, err := s.cuentas.Activas(ctx, cuenta.ClientaID)
		if err != nil {
			return Result{}, err
		}
		for _, c := range siblings {
			if c.ID != cuenta.ID && c.Endeudada() {
				return Result{}, errs.ErrAccountConflict
			}
		}
		cuenta.Reopen()
		reopened = true
	}

	if err := s.movs.Delete(ctx, m.ID); err != nil {
		return Result{}, err
	}
	cuenta.Saldo = saldo
	closed := cuenta.Settle(s.now())
	if _, err := s.cuentas.Update(ctx, cuenta); err != nil {
		s.undo("remove", func() error { _, err := s.movs.Create(ctx, m); return err })
		return Result{}, err
	}
	switch {
	case reopened:
		s.log.Info("account reopened", "cuenta_id", cuenta.ID, "movimiento_id", m.ID)
	case closed:
		s.log.Info("account closed", "cuenta_id", cuenta.ID, "movimiento_id", m.ID)
	}
	return Result{Movimiento: m, Cuenta: cuenta, Cerrada: closed, Reabierta: reopened}, nil
}

func (s *service) GetMovement(ctx context.Context, id uuid.UUID) (ledger.Movimiento, error) {
	return s.movs.Get(ctx, id)
}

// Reconcile recomputes saldo from the account's movements and stores it when
// it differs from the running value.
func (s *service) Reconcile(ctx context.Context, cuentaID uuid.UUID) (ledger.Cuenta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cuenta, err := s.cuentas.Get(ctx, cuentaID)
	if err != nil {
		return ledger.Cuenta{}, err
	}
	total, err := s.sum(ctx, cuenta, uuid.Nil)
	if err != nil {
		return ledger.Cuenta{}, err
	}
	if total.IsNeg() {
		s.log.Debug("account overpaid", "cuenta_id", cuentaID, "sum", total.String())
		total, _ = total.Sub(total)
	}
	cmp, err := total.Cmp(cuenta.Saldo)
	if err != nil {
		return ledger.Cuenta{}, err
	}
	if cmp == 0 {
		return cuenta, nil
	}
	s.log.Warn("saldo diverged from movements", "cuenta_id", cuentaID, "stored", cuenta.Saldo.String(), "computed", total.String())
	cuenta.Saldo = total
	if cuenta.Settle(s.now()) {
		s.log.Info("account closed", "cuenta_id", cuentaID)
	}
	return s.cuentas.Update(ctx, cuenta)
}

// sum totals the account's movements, CARGO minus ABONO, leaving out skip.
func (s *service) sum(ctx context.Context, cuenta ledger.Cuenta, skip uuid.UUID) (money.Amount, error) {
	movs, err := s.movs.ByCuenta(ctx, cuenta.ID)
	if err != nil {
		return money.Amount{}, err
	}
	total, err := cuenta.Saldo.Sub(cuenta.Saldo)
	if err != nil {
		return money.Amount{}, err
	}
	for _, m := range movs {
		if m.ID == skip {
			continue
		}
		if total, err = shift(total, m.Tipo, m.Monto, false); err != nil {
			return money.Amount{}, err
		}
	}
	return total, nil
}

// undo restores the movement collection after the account write failed.
func (s *service) undo(op string, restore func() error) {
	if err := restore(); err != nil {
		s.log.Error("movement rollback failed", "op", op, "err", err)
	}
}
