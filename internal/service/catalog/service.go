// Package catalog manages the category catalogue used to tag line items and
// the business expenses that feed the profit report.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"

	"github.com/tinoosan/cuaderno/internal/errs"
	"github.com/tinoosan/cuaderno/internal/ledger"
	"github.com/tinoosan/cuaderno/internal/slug"
)

type CategoriaRepo interface {
	List(ctx context.Context) ([]ledger.Categoria, error)
	Create(ctx context.Context, c ledger.Categoria) (ledger.Categoria, error)
}

type GastoRepo interface {
	InRange(ctx context.Context, from, to time.Time) ([]ledger.Gasto, error)
	Create(ctx context.Context, g ledger.Gasto) (ledger.Gasto, error)
}

// GastoInput describes an expense to record. A zero Fecha means now.
type GastoInput struct {
	Descripcion string
	Monto       money.Amount
	Fecha       time.Time
	Categoria   string
}

type Service interface {
	ListCategorias(ctx context.Context) ([]ledger.Categoria, error)
	CreateCategoria(ctx context.Context, nombre, icono, color string) (ledger.Categoria, error)
	RegisterGasto(ctx context.Context, in GastoInput) (ledger.Gasto, error)
	ListGastos(ctx context.Context, from, to time.Time) ([]ledger.Gasto, error)
}

type Option func(*service)

func WithClock(now func() time.Time) Option { return func(s *service) { s.now = now } }

// WithLocker shares the mutation lock with the other services.
func WithLocker(mu sync.Locker) Option { return func(s *service) { s.mu = mu } }

type service struct {
	categorias CategoriaRepo
	gastos     GastoRepo
	now        func() time.Time
	mu         sync.Locker
}

func New(categorias CategoriaRepo, gastos GastoRepo, opts ...Option) Service {
	s := &service{categorias: categorias, gastos: gastos, now: time.Now, mu: &sync.Mutex{}}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ListCategorias holds the lock because the first read seeds the catalogue.
func (s *service) ListCategorias(ctx context.Context) ([]ledger.Categoria, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categorias.List(ctx)
}

// CreateCategoria derives the id from nombre. A name that slugifies to an
// existing id is errs.ErrConflict.
func (s *service) CreateCategoria(ctx context.Context, nombre, icono, color string) (ledger.Categoria, error) {
	nombre = strings.TrimSpace(nombre)
	id := slug.Slugify(nombre)
	if !slug.IsSlug(id) {
		return ledger.Categoria{}, fmt.Errorf("%w: nombre %q does not yield a valid id", errs.ErrInvalid, nombre)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categorias.Create(ctx, ledger.Categoria{
		ID:     id,
		Nombre: nombre,
		Icono:  strings.TrimSpace(icono),
		Color:  strings.TrimSpace(color),
	})
}

func (s *service) RegisterGasto(ctx context.Context, in GastoInput) (ledger.Gasto, error) {
	desc := strings.TrimSpace(in.Descripcion)
	if desc == "" {
		return ledger.Gasto{}, fmt.Errorf("%w: descripcion is required", errs.ErrInvalid)
	}
	if !in.Monto.IsPos() {
		return ledger.Gasto{}, fmt.Errorf("%w: monto must be > 0", errs.ErrInvalidAmount)
	}
	fecha := in.Fecha
	if fecha.IsZero() {
		fecha = s.now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gastos.Create(ctx, ledger.Gasto{
		ID:          uuid.New(),
		Descripcion: desc,
		Monto:       in.Monto,
		Fecha:       fecha,
		Categoria:   strings.TrimSpace(in.Categoria),
	})
}

func (s *service) ListGastos(ctx context.Context, from, to time.Time) ([]ledger.Gasto, error) {
	return s.gastos.InRange(ctx, from, to)
}
