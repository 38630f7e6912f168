// Package pricing implements the numeric core of the margins module:
// locale-aware number parsing, the cascading supplier-discount formula,
// and the resolution of catalog parameters against manual overrides.
package pricing

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrPorcentajeInvalido marks input that looks like a percentage but
// cannot be parsed. Callers must reject or ignore it; it is never a
// silent zero.
var ErrPorcentajeInvalido = errors.New("porcentaje invalido")

var cien = decimal.NewFromInt(100)

// ParseNumeroLocale parses a decimal string that may use either comma or
// point as the decimal separator (1.234,56 / 1,234.56 / 1234,56).
// When both appear, the rightmost of the two is the decimal separator and
// the other is stripped as a thousands separator. Returns ok=false for
// empty or unparsable input; never panics.
func ParseNumeroLocale(raw string) (decimal.Decimal, bool) {
	s := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, raw)
	if s == "" {
		return decimal.Decimal{}, false
	}

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		// Only the first comma becomes a point: "1,234,56" stays invalid.
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ParsePorcentaje normalizes percentage-like operator input into a
// fraction. Returns (nil, nil) for empty input, meaning "no override",
// and (nil, ErrPorcentajeInvalido) for garbage.
//
// Magnitude heuristic: a parsed value >= 1 is read as a whole percentage
// and divided by 100 ("25" -> 0.25); a value < 1 is accepted as an
// already-fractional value ("0.25" -> 0.25). An input of exactly "1" is
// therefore read as 1%, never as 100% — the value 1 is genuinely
// ambiguous and the whole-percent reading is kept for continuity.
func ParsePorcentaje(raw string) (*decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	s = strings.Replace(s, ",", ".", 1)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, ErrPorcentajeInvalido
	}
	if d.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		d = d.Div(cien)
	}
	return &d, nil
}
