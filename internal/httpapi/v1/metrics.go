package v1

import (
	"net/http"
	"strconv"
	"time"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tinoosan/cuaderno/internal/ledger"
	"github.com/tinoosan/cuaderno/internal/service/journal"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cuaderno",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cuaderno",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	movimientosTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cuaderno",
			Name:      "movimientos_total",
			Help:      "Movements applied, by type and operation",
		},
		[]string{"tipo", "op"},
	)
	cuentasTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cuaderno",
			Name:      "cuenta_transitions_total",
			Help:      "Account lifecycle transitions",
		},
		[]string{"transition"},
	)
)

func metricsHandler() http.Handler {
	return promhttp.Handler()
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		// route pattern keeps label cardinality bounded
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := strconv.Itoa(ww.Status())
		httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
	})
}

// observeMovement records a successful journal mutation.
func observeMovement(op string, res journal.Result) {
	movimientosTotal.WithLabelValues(string(res.Movimiento.Tipo), op).Inc()
	if res.Cerrada {
		cuentasTransitions.WithLabelValues("closed").Inc()
	}
	if res.Reabierta {
		cuentasTransitions.WithLabelValues("reopened").Inc()
	}
}

func observeOpened(c ledger.Cuenta) {
	if c.Activa() {
		cuentasTransitions.WithLabelValues("opened").Inc()
	}
}
