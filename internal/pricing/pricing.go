package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/haomeng346/Second-hand-Marketplace/internal/domain"
)

const fallbackCategory = "Others"

var (
	categoryBaseline = map[string]decimal.Decimal{
		"Electronics": decimal.NewFromInt(300),
		"Books":       decimal.NewFromInt(20),
		"Furniture":   decimal.NewFromInt(150),
		"Fashion":     decimal.NewFromInt(50),
		"Sports":      decimal.NewFromInt(80),
		"Home":        decimal.NewFromInt(60),
		"Toys":        decimal.NewFromInt(25),
		"Others":      decimal.NewFromInt(40),
	}

	conditionMultiplier = map[string]decimal.Decimal{
		"NEW":        decimal.RequireFromString("1.00"),
		"LIKE_NEW":   decimal.RequireFromString("0.90"),
		"VERY_GOOD":  decimal.RequireFromString("0.80"),
		"GOOD":       decimal.RequireFromString("0.65"),
		"ACCEPTABLE": decimal.RequireFromString("0.50"),
	}

	fallbackMultiplier = decimal.RequireFromString("0.65")
	lowFactor          = decimal.RequireFromString("0.9")
	highFactor         = decimal.RequireFromString("1.1")
)

type Suggestion struct {
	Suggested decimal.Decimal
	Low       decimal.Decimal
	High      decimal.Decimal
}

// Suggest prices an item as baseline[category] * multiplier[condition].
// Unknown categories use the Others baseline, unknown conditions 0.65.
func Suggest(category, condition string) Suggestion {
	baseline, ok := categoryBaseline[domain.TitleCase(category)]
	if !ok {
		baseline = categoryBaseline[fallbackCategory]
	}
	multiplier, ok := conditionMultiplier[domain.UpperToken(condition)]
	if !ok {
		multiplier = fallbackMultiplier
	}

	suggested := baseline.Mul(multiplier).Round(2)
	return Suggestion{
		Suggested: suggested,
		Low:       suggested.Mul(lowFactor).Round(2),
		High:      suggested.Mul(highFactor).Round(2),
	}
}
