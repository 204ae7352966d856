// Package render turns weekly reports into Markdown and HTML for downstream
// export. It holds no state and reads nothing but the report it is given.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/govalues/money"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/tinoosan/cuaderno/internal/codec"
	"github.com/tinoosan/cuaderno/internal/ledger"
)

//go:embed templates/*.md
var templates embed.FS

var funcs = template.FuncMap{
	"fecha": func(t time.Time) string { return t.Format(codec.DateLayout) },
	"soles": soles,
	"cell":  cell,
	"detalle": func(m ledger.MovimientoReporte) string {
		if m.Tipo == ledger.TipoAbono {
			return cell(m.Nota)
		}
		names := make([]string, 0, len(m.Prendas))
		for _, p := range m.Prendas {
			names = append(names, p.Descripcion)
		}
		return cell(strings.Join(names, ", "))
	},
}

var semanal = template.Must(template.New("semanal.md").Funcs(funcs).ParseFS(templates, "templates/semanal.md"))

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// soles formats an amount the way the shop writes it: S/ 12.50.
func soles(a money.Amount) string {
	return "S/ " + a.Decimal().Round(2).Pad(2).String()
}

// cell makes s safe inside a Markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

// Markdown renders the weekly report as a Markdown document.
func Markdown(r ledger.ReporteSemanal) (string, error) {
	var b strings.Builder
	if err := semanal.Execute(&b, r); err != nil {
		return "", fmt.Errorf("render %s: %w", r.ID, err)
	}
	return b.String(), nil
}

// HTML renders the weekly report as an HTML fragment.
func HTML(r ledger.ReporteSemanal) ([]byte, error) {
	src, err := Markdown(r)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return nil, fmt.Errorf("convert %s: %w", r.ID, err)
	}
	return buf.Bytes(), nil
}
