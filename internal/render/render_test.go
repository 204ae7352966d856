package render

import (
	"strings"
	"testing"
	"time"

	"github.com/govalues/money"

	"github.com/tinoosan/cuaderno/internal/ledger"
)

func sample() ledger.ReporteSemanal {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	return ledger.ReporteSemanal{
		ID:              "semana_2024-03-04",
		FechaInicio:     start,
		FechaFin:        start.AddDate(0, 0, 7).Add(-time.Nanosecond),
		FechaGeneracion: start.AddDate(0, 0, 8),
		Movimientos: []ledger.MovimientoReporte{
			{
				ClientaNombre: "Rosa",
				Tipo:          ledger.TipoCargo,
				Monto:         money.MustParseAmount("PEN", "80"),
				Fecha:         start,
				Prendas:       []ledger.Prenda{{Descripcion: "Blusa"}, {Descripcion: "Falda"}},
			},
			{
				ClientaNombre: "Rosa",
				Tipo:          ledger.TipoAbono,
				Monto:         money.MustParseAmount("PEN", "30"),
				Fecha:         start.AddDate(0, 0, 2),
				Nota:          "yape | plin",
			},
		},
		TotalCargos:      money.MustParseAmount("PEN", "80"),
		TotalAbonos:      money.MustParseAmount("PEN", "30"),
		TotalMovimientos: 2,
		TotalPrendas:     2,
	}
}

func TestMarkdown(t *testing.T) {
	out, err := Markdown(sample())
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	for _, want := range []string{
		"# Reporte semanal 04/03/2024 al 10/03/2024",
		"| Cargos | S/ 80.00 |",
		"| 04/03/2024 | Rosa | CARGO | S/ 80.00 | Blusa, Falda |",
		`| 06/03/2024 | Rosa | ABONO | S/ 30.00 | yape \| plin |`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestMarkdown_EmptyWeek(t *testing.T) {
	r := sample()
	r.Movimientos = nil
	out, err := Markdown(r)
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	if !strings.Contains(out, "Sin movimientos esta semana.") || strings.Contains(out, "## Movimientos") {
		t.Fatalf("unexpected empty-week output:\n%s", out)
	}
}

func TestHTML(t *testing.T) {
	out, err := HTML(sample())
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, "<h1>Reporte semanal 04/03/2024 al 10/03/2024</h1>") {
		t.Fatalf("missing heading:\n%s", s)
	}
	if !strings.Contains(s, "<table>") || !strings.Contains(s, "<td>Blusa, Falda</td>") {
		t.Fatalf("table not rendered:\n%s", s)
	}
}
