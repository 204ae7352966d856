package codec

import (
	"regexp"
	"strings"
	"time"
)

var reAbonoFecha = regexp.MustCompile(`^(.*?)\s*\[` + datePattern + `\]$`)

// Abono is the decoded comment of a payment.
type Abono struct {
	Nota string
	// Fecha is the trailing date tag, nil when the comment has none.
	Fecha *time.Time
}

// FechaDeRegistro returns the tagged date, or fallback (the movement timestamp) when untagged.
func (a Abono) FechaDeRegistro(fallback time.Time) time.Time {
	if a.Fecha != nil {
		return *a.Fecha
	}
	return fallback
}

// EncodeAbono appends a " [DD/MM/YYYY]" tag to the note. A zero fecha leaves the note untagged.
func EncodeAbono(nota string, fecha time.Time) string {
	nota = strings.TrimSpace(nota)
	if fecha.IsZero() {
		return nota
	}
	tag := "[" + fecha.Format(DateLayout) + "]"
	if nota == "" {
		return tag
	}
	return nota + " " + tag
}

// DecodeAbono strips a trailing date tag from a payment comment.
func DecodeAbono(comentario string) Abono {
	comentario = strings.TrimSpace(comentario)
	m := reAbonoFecha.FindStringSubmatch(comentario)
	if m == nil {
		return Abono{Nota: comentario}
	}
	fecha, ok := parseDate(m[2])
	if !ok {
		return Abono{Nota: comentario}
	}
	return Abono{Nota: strings.TrimSpace(m[1]), Fecha: &fecha}
}
