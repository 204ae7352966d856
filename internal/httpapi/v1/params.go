package v1

import (
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/govalues/money"
)

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// parseMonto reads a decimal string in the configured currency.
func (s *Server) parseMonto(w http.ResponseWriter, v string) (money.Amount, bool) {
	a, err := money.ParseAmount(s.Currency, v)
	if err != nil {
		writeErr(w, http.StatusUnprocessableEntity, "invalid amount: "+v, "invalid_amount")
		return money.Amount{}, false
	}
	return a, true
}

// day parses a YYYY-MM-DD value as midnight in the configured location.
// Callers validate the layout first.
func (s *Server) day(v string) time.Time {
	t, _ := time.ParseInLocation(dayLayout, v, s.Location)
	return t
}

// endOfDay is the last instant of the calendar day of t.
func endOfDay(t time.Time) time.Time {
	return t.AddDate(0, 0, 1).Add(-time.Nanosecond)
}
