package pricing

import "github.com/shopspring/decimal"

// Parametros are the effective discount/markup fractions used for one
// pricing run. Manual is true when at least one of the three came from
// an operator override instead of the catalog.
type Parametros struct {
	Desc1      decimal.Decimal
	Desc2      decimal.Decimal
	Incremento decimal.Decimal
	Manual     bool
}

// Override holds the session-local manual replacements for a product's
// catalog parameters. A nil field means "use the catalog value".
type Override struct {
	Desc1      *decimal.Decimal
	Desc2      *decimal.Decimal
	Incremento *decimal.Decimal
}

// Vacia reports whether no field is overridden.
func (o Override) Vacia() bool {
	return o.Desc1 == nil && o.Desc2 == nil && o.Incremento == nil
}

// ResolverParametros merges catalog fractions with an optional override.
// Per parameter: override value if present, else the catalog value (the
// decimal zero value already covers "else 0").
func ResolverParametros(desc1, desc2, incremento decimal.Decimal, ov *Override) Parametros {
	p := Parametros{Desc1: desc1, Desc2: desc2, Incremento: incremento}
	if ov == nil {
		return p
	}
	if ov.Desc1 != nil {
		p.Desc1 = *ov.Desc1
	}
	if ov.Desc2 != nil {
		p.Desc2 = *ov.Desc2
	}
	if ov.Incremento != nil {
		p.Incremento = *ov.Incremento
	}
	p.Manual = !ov.Vacia()
	return p
}
