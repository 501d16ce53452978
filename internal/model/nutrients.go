package model

type Nutrient string

const (
	EnergyKcal    Nutrient = "energy_kcal"
	ProteinG      Nutrient = "protein_g"
	FatG          Nutrient = "fat_g"
	CarbohydrateG Nutrient = "carbohydrate_g"
	FiberG        Nutrient = "fiber_g"
	SodiumMg      Nutrient = "sodium_mg"
	CalciumMg     Nutrient = "calcium_mg"
	IronMg        Nutrient = "iron_mg"
	CholesterolMg Nutrient = "cholesterol_mg"
)

// AllNutrients lists every tracked nutrient in display order.
var AllNutrients = []Nutrient{
	EnergyKcal,
	ProteinG,
	FatG,
	CarbohydrateG,
	FiberG,
	SodiumMg,
	CalciumMg,
	IronMg,
	CholesterolMg,
}

// RequiredNutrients must be present in every reference table.
var RequiredNutrients = []Nutrient{EnergyKcal, ProteinG, FatG, CarbohydrateG}

func (n Nutrient) Unit() string {
	switch n {
	case EnergyKcal:
		return "kcal"
	case SodiumMg, CalciumMg, IronMg, CholesterolMg:
		return "mg"
	default:
		return "g"
	}
}

func (n Nutrient) Valid() bool {
	for _, k := range AllNutrients {
		if k == n {
			return true
		}
	}
	return false
}

type Nutrients map[Nutrient]float64

// Get returns 0 for nutrients the map does not carry.
func (n Nutrients) Get(k Nutrient) float64 {
	if n == nil {
		return 0
	}
	return n[k]
}

func (n Nutrients) Clone() Nutrients {
	out := make(Nutrients, len(n))
	for k, v := range n {
		out[k] = v
	}
	return out
}

// ZeroNutrients returns a map with every tracked nutrient set to 0.
func ZeroNutrients() Nutrients {
	out := make(Nutrients, len(AllNutrients))
	for _, k := range AllNutrients {
		out[k] = 0
	}
	return out
}
