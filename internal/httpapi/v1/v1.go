// Package v1 is the HTTP surface of the ledger. Handlers stay thin: they
// decode and validate requests, call the services and map their errors.
package v1

import (
	"time"

	"github.com/tinoosan/cuaderno/internal/service/account"
	"github.com/tinoosan/cuaderno/internal/service/catalog"
	"github.com/tinoosan/cuaderno/internal/service/journal"
	"github.com/tinoosan/cuaderno/internal/service/report"
)

// Deps are the services and settings the API is built from.
type Deps struct {
	Accounts account.Service
	Journal  journal.Service
	Catalog  catalog.Service
	Reports  report.Service
	// Ready is probed by /readyz when set.
	Ready ReadyChecker
	// Location resolves dates given without a time. Nil means UTC.
	Location *time.Location
	// Currency of incoming amounts. Empty means ledger.DefaultCurrency.
	Currency string
	// JWTSecret enables bearer authentication when non-empty.
	JWTSecret string
	JWTIssuer string
}
