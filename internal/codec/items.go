// Package codec reads and writes the inline line-item format stored in a
// movement's comment.
//
// A CARGO comment holds one or more items joined by " | ", each written as
//
//	<descripcion> (S/<monto>) [<DD/MM/YYYY>] {<categoria>}
//
// Older comments lack the category tag, or both the date and category tags.
// Those shapes still decode; only the full form is ever written.
package codec

import (
	"regexp"
	"strings"
	"time"

	"github.com/govalues/decimal"

	"github.com/tinoosan/cuaderno/internal/ledger"
)

const (
	// ItemSeparator joins encoded items inside one comment.
	ItemSeparator = " | "
	// DateLayout is the DD/MM/YYYY layout used by date tags.
	DateLayout = "02/01/2006"
)

// Variant names the textual shape a segment was decoded from.
type Variant int

const (
	// FullForm carries description, amount, date and category.
	FullForm Variant = iota
	// DatedLegacy carries description, amount and date.
	DatedLegacy
	// AmountOnlyLegacy carries description and amount.
	AmountOnlyLegacy
	// PlainFallback is free text with no recognised tags.
	PlainFallback
)

func (v Variant) String() string {
	switch v {
	case FullForm:
		return "full"
	case DatedLegacy:
		return "dated_legacy"
	case AmountOnlyLegacy:
		return "amount_only_legacy"
	default:
		return "plain"
	}
}

// Match is the typed result of decoding one segment.
type Match struct {
	Variant Variant
	Prenda  ledger.Prenda
}

const (
	amountPattern = `(\d+(?:\.\d{1,2})?)`
	datePattern   = `(\d{2}/\d{2}/\d{4})`
)

var (
	reFullForm   = regexp.MustCompile(`^(.*?)\s*\(S/` + amountPattern + `\)\s*\[` + datePattern + `\]\s*\{([^{}]+)\}$`)
	reDated      = regexp.MustCompile(`^(.*?)\s*\(S/` + amountPattern + `\)\s*\[` + datePattern + `\]$`)
	reAmountOnly = regexp.MustCompile(`^(.*?)\s*\(S/` + amountPattern + `\)$`)
	reAmount     = regexp.MustCompile(`^` + amountPattern + `$`)
)

// ValidAmount reports whether s is an item amount the tags can carry: a
// non-negative decimal with at most two fraction digits.
func ValidAmount(s string) bool {
	return reAmount.MatchString(s)
}

// matcher tries one shape; ok=false hands the segment to the next matcher.
type matcher struct {
	variant Variant
	match   func(segment string) (ledger.Prenda, bool)
}

// matchers are tried in order; the first one that accepts the segment wins.
var matchers = []matcher{
	{variant: FullForm, match: matchFullForm},
	{variant: DatedLegacy, match: matchDated},
	{variant: AmountOnlyLegacy, match: matchAmountOnly},
}

func matchFullForm(segment string) (ledger.Prenda, bool) {
	m := reFullForm.FindStringSubmatch(segment)
	if m == nil {
		return ledger.Prenda{}, false
	}
	monto, ok := parseAmount(m[2])
	if !ok {
		return ledger.Prenda{}, false
	}
	fecha, ok := parseDate(m[3])
	if !ok {
		return ledger.Prenda{}, false
	}
	return ledger.Prenda{
		Descripcion: strings.TrimSpace(m[1]),
		Monto:       &monto,
		Fecha:       &fecha,
		Categoria:   strings.TrimSpace(m[4]),
	}, true
}

func matchDated(segment string) (ledger.Prenda, bool) {
	m := reDated.FindStringSubmatch(segment)
	if m == nil {
		return ledger.Prenda{}, false
	}
	monto, ok := parseAmount(m[2])
	if !ok {
		return ledger.Prenda{}, false
	}
	fecha, ok := parseDate(m[3])
	if !ok {
		return ledger.Prenda{}, false
	}
	return ledger.Prenda{
		Descripcion: strings.TrimSpace(m[1]),
		Monto:       &monto,
		Fecha:       &fecha,
		Categoria:   ledger.DefaultCategoriaID,
	}, true
}

func matchAmountOnly(segment string) (ledger.Prenda, bool) {
	m := reAmountOnly.FindStringSubmatch(segment)
	if m == nil {
		return ledger.Prenda{}, false
	}
	monto, ok := parseAmount(m[2])
	if !ok {
		return ledger.Prenda{}, false
	}
	return ledger.Prenda{
		Descripcion: strings.TrimSpace(m[1]),
		Monto:       &monto,
		Categoria:   ledger.DefaultCategoriaID,
	}, true
}

// DecodeSegment decodes a single item segment. It never fails: text that
// matches no tagged shape becomes a PlainFallback item.
func DecodeSegment(segment string) Match {
	segment = strings.TrimSpace(segment)
	for _, m := range matchers {
		if p, ok := m.match(segment); ok {
			return Match{Variant: m.variant, Prenda: p}
		}
	}
	return Match{
		Variant: PlainFallback,
		Prenda:  ledger.Prenda{Descripcion: segment, Categoria: ledger.DefaultCategoriaID},
	}
}

// DecodePrendas splits a CARGO comment into line items. Segments with an
// empty description are dropped.
func DecodePrendas(comentario string) []ledger.Prenda {
	if strings.TrimSpace(comentario) == "" {
		return nil
	}
	segments := strings.Split(comentario, ItemSeparator)
	out := make([]ledger.Prenda, 0, len(segments))
	for _, seg := range segments {
		m := DecodeSegment(seg)
		if m.Prenda.Descripcion == "" {
			continue
		}
		out = append(out, m.Prenda)
	}
	return out
}

// EncodePrendas writes items in the full form joined by ItemSeparator.
//
// An item without an amount is written as its bare description, and an item
// without a date drops the date and category tags; both decode back with the
// default category. Descriptions must not contain the separator.
func EncodePrendas(items []ledger.Prenda) string {
	parts := make([]string, 0, len(items))
	for _, p := range items {
		parts = append(parts, encodePrenda(p))
	}
	return strings.Join(parts, ItemSeparator)
}

func encodePrenda(p ledger.Prenda) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(p.Descripcion))
	if p.Monto == nil {
		return b.String()
	}
	b.WriteString(" (S/")
	b.WriteString(FormatAmount(*p.Monto))
	b.WriteString(")")
	if p.Fecha == nil {
		return b.String()
	}
	b.WriteString(" [")
	b.WriteString(p.Fecha.Format(DateLayout))
	b.WriteString("] {")
	cat := p.Categoria
	if cat == "" {
		cat = ledger.DefaultCategoriaID
	}
	b.WriteString(cat)
	b.WriteString("}")
	return b.String()
}

// FormatAmount renders d with exactly two fraction digits.
func FormatAmount(d decimal.Decimal) string {
	return d.Round(2).Pad(2).String()
}

func parseAmount(s string) (decimal.Decimal, bool) {
	d, err := decimal.Parse(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// parseDate reads a DD/MM/YYYY tag as midnight UTC. Impossible calendar dates are rejected.
func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
