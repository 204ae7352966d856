// Package account implements the client and account rules: a client holds at
// most one ACTIVA account that owes money, accounts are numbered once per
// client in creation order, and empty ACTIVA accounts are closed before a new
// one opens.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"

	"github.com/tinoosan/cuaderno/internal/errs"
	"github.com/tinoosan/cuaderno/internal/ledger"
)

type ClientaRepo interface {
	List(ctx context.Context) ([]ledger.Clienta, error)
	Get(ctx context.Context, id uuid.UUID) (ledger.Clienta, error)
	Create(ctx context.Context, c ledger.Clienta) (ledger.Clienta, error)
}

type CuentaRepo interface {
	List(ctx context.Context) ([]ledger.Cuenta, error)
	ByClienta(ctx context.Context, clientaID uuid.UUID) ([]ledger.Cuenta, error)
	Get(ctx context.Context, id uuid.UUID) (ledger.Cuenta, error)
	Create(ctx context.Context, c ledger.Cuenta) (ledger.Cuenta, error)
	UpdateMany(ctx context.Context, cs []ledger.Cuenta) error
}

type MovimientoReader interface {
	ByCuenta(ctx context.Context, cuentaID uuid.UUID) ([]ledger.Movimiento, error)
}

// Statement is an account together with its movements in date order.
type Statement struct {
	Cuenta      ledger.Cuenta
	Clienta     ledger.Clienta
	Movimientos []ledger.Movimiento
}

type Service interface {
	RegisterClienta(ctx context.Context, nombre, referencia string) (ledger.Clienta, error)
	ListClientas(ctx context.Context) ([]ledger.Clienta, error)
	GetClienta(ctx context.Context, id uuid.UUID) (ledger.Clienta, error)
	ListCuentas(ctx context.Context, clientaID uuid.UUID) ([]ledger.Cuenta, error)
	GetCuenta(ctx context.Context, id uuid.UUID) (ledger.Cuenta, error)
	OpenAccount(ctx context.Context, clientaID uuid.UUID) (ledger.Cuenta, error)
	Statement(ctx context.Context, cuentaID uuid.UUID) (Statement, error)
	BackfillNumeros(ctx context.Context) (int, error)
}

type Option func(*service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(s *service) { s.now = now } }

// WithLogger sets the logger used for state transitions.
func WithLogger(l *slog.Logger) Option { return func(s *service) { s.log = l } }

// WithLocker shares the mutation lock with other services writing the same collections.
func WithLocker(mu sync.Locker) Option { return func(s *service) { s.mu = mu } }

// WithCurrency sets the currency of new accounts.
func WithCurrency(code string) Option { return func(s *service) { s.currency = code } }

type service struct {
	clientas ClientaRepo
	cuentas  CuentaRepo
	movs     MovimientoReader
	now      func() time.Time
	log      *slog.Logger
	mu       sync.Locker
	currency string
}

func New(clientas ClientaRepo, cuentas CuentaRepo, movs MovimientoReader, opts ...Option) Service {
	s := &service{
		clientas: clientas,
		cuentas:  cuentas,
		movs:     movs,
		now:      time.Now,
		log:      slog.Default(),
		mu:       &sync.Mutex{},
		currency: ledger.DefaultCurrency,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *service) RegisterClienta(ctx context.Context, nombre, referencia string) (ledger.Clienta, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return ledger.Clienta{}, fmt.Errorf("%w: nombre is required", errs.ErrInvalid)
	}
	c := ledger.Clienta{
		ID:         uuid.New(),
		Nombre:     nombre,
		Referencia: strings.TrimSpace(referencia),
		CreadaEn:   s.now(),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clientas.Create(ctx, c)
}

func (s *service) ListClientas(ctx context.Context) ([]ledger.Clienta, error) {
	return s.clientas.List(ctx)
}

func (s *service) GetClienta(ctx context.Context, id uuid.UUID) (ledger.Clienta, error) {
	return s.clientas.Get(ctx, id)
}

func (s *service) ListCuentas(ctx context.Context, clientaID uuid.UUID) ([]ledger.Cuenta, error) {
	if _, err := s.clientas.Get(ctx, clientaID); err != nil {
		return nil, err
	}
	return s.cuentas.ByClienta(ctx, clientaID)
}

func (s *service) GetCuenta(ctx context.Context, id uuid.UUID) (ledger.Cuenta, error) {
	return s.cuentas.Get(ctx, id)
}

// OpenAccount closes the client's empty ACTIVA accounts, then refuses with
// errs.ErrAccountConflict if one still owes money. The new account starts
// ACTIVA with saldo 0 and the next NumeroCuenta for the client.
func (s *service) OpenAccount(ctx context.Context, clientaID uuid.UUID) (ledger.Cuenta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.clientas.Get(ctx, clientaID); err != nil {
		return ledger.Cuenta{}, err
	}
	existing, err := s.cuentas.ByClienta(ctx, clientaID)
	if err != nil {
		return ledger.Cuenta{}, err
	}
	now := s.now()
	closed := make([]ledger.Cuenta, 0)
	maxNumero := 0
	for i := range existing {
		c := &existing[i]
		if c.NumeroCuenta > maxNumero {
			maxNumero = c.NumeroCuenta
		}
		if c.Settle(now) {
			closed = append(closed, *c)
		}
	}
	if len(closed) > 0 {
		if err := s.cuentas.UpdateMany(ctx, closed); err != nil {
			return ledger.Cuenta{}, err
		}
		for _, c := range closed {
			s.log.Info("empty account closed", "cuenta_id", c.ID, "clienta_id", clientaID, "numero", c.NumeroCuenta)
		}
	}
	for _, c := range existing {
		if c.Endeudada() {
			return ledger.Cuenta{}, errs.ErrAccountConflict
		}
	}

	zero, err := money.NewAmountFromMinorUnits(s.currency, 0)
	if err != nil {
		return ledger.Cuenta{}, fmt.Errorf("currency %q: %w", s.currency, err)
	}
	c := ledger.Cuenta{
		ID:            uuid.New(),
		ClientaID:     clientaID,
		Saldo:         zero,
		Estado:        ledger.EstadoActiva,
		FechaCreacion: now,
		NumeroCuenta:  maxNumero + 1,
	}
	created, err := s.cuentas.Create(ctx, c)
	if err != nil {
		return ledger.Cuenta{}, err
	}
	s.log.Info("account opened", "cuenta_id", created.ID, "clienta_id", clientaID, "numero", created.NumeroCuenta)
	return created, nil
}

func (s *service) Statement(ctx context.Context, cuentaID uuid.UUID) (Statement, error) {
	c, err := s.cuentas.Get(ctx, cuentaID)
	if err != nil {
		return Statement{}, err
	}
	cl, err := s.clientas.Get(ctx, c.ClientaID)
	if err != nil && !errors.Is(err, errs.ErrClientNotFound) {
		return Statement{}, err
	}
	movs, err := s.movs.ByCuenta(ctx, cuentaID)
	if err != nil {
		return Statement{}, err
	}
	return Statement{Cuenta: c, Clienta: cl, Movimientos: movs}, nil
}

// BackfillNumeros assigns NumeroCuenta to accounts that lack one, per client
// in creation order after the highest number already in use. Numbers already
// assigned are never touched, so running it again is a no-op. It returns how
// many accounts were numbered.
func (s *service) BackfillNumeros(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.cuentas.List(ctx)
	if err != nil {
		return 0, err
	}
	maxByClienta := make(map[uuid.UUID]int)
	pending := make([]ledger.Cuenta, 0)
	for _, c := range all {
		if c.NumeroCuenta > maxByClienta[c.ClientaID] {
			maxByClienta[c.ClientaID] = c.NumeroCuenta
		}
		if c.NumeroCuenta == 0 {
			pending = append(pending, c)
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].FechaCreacion.Before(pending[j].FechaCreacion)
	})
	for i := range pending {
		next := maxByClienta[pending[i].ClientaID] + 1
		pending[i].NumeroCuenta = next
		maxByClienta[pending[i].ClientaID] = next
	}
	if err := s.cuentas.UpdateMany(ctx, pending); err != nil {
		return 0, err
	}
	s.log.Info("account numbers backfilled", "count", len(pending))
	return len(pending), nil
}
