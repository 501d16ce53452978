package service

// massUnits converts to grams.
var massUnits = map[string]float64{
	"mg":    0.001,
	"g":     1,
	"gr":    1,
	"grams": 1,
	"kg":    1000,
	"oz":    28.349523125,
	"lb":    453.59237,
	"lbs":   453.59237,
}

// ToGrams converts a mass amount to grams. An empty unit means grams.
func ToGrams(amount float64, unit string) (float64, error) {
	if err := validateNonNegativeFloat("quantity", amount); err != nil {
		return 0, err
	}
	u := normalizeName(unit)
	if u == "" {
		u = "g"
	}
	factor, ok := massUnits[u]
	if !ok {
		return 0, invalid("unit", "%q is not a supported mass unit (use mg, g, kg, oz or lb)", unit)
	}
	return amount * factor, nil
}

// MassUnits lists the accepted unit names.
func MassUnits() []string {
	return []string{"mg", "g", "kg", "oz", "lb"}
}
