// Package store implements the account, movement and auxiliary collections
// on top of a storage.KV. Every mutation reads the whole collection, changes
// it in memory and writes it back; a failed write leaves the stored
// collection untouched and the in-memory copy is discarded.
package store

import (
	"github.com/tinoosan/cuaderno/internal/ledger"
	"github.com/tinoosan/cuaderno/internal/storage"
)

// Store groups the collections sharing one backend and currency.
type Store struct {
	Clientas    *Clientas
	Cuentas     *Cuentas
	Movimientos *Movimientos
	Categorias  *Categorias
	Gastos      *Gastos
	Reportes    *Reportes
}

// New wires every collection to kv. An empty currency means ledger.DefaultCurrency.
func New(kv storage.KV, currency string) *Store {
	if currency == "" {
		currency = ledger.DefaultCurrency
	}
	return &Store{
		Clientas:    &Clientas{kv: kv},
		Cuentas:     &Cuentas{kv: kv, curr: currency},
		Movimientos: &Movimientos{kv: kv, curr: currency},
		Categorias:  &Categorias{kv: kv},
		Gastos:      &Gastos{kv: kv, curr: currency},
		Reportes:    &Reportes{kv: kv, curr: currency},
	}
}
