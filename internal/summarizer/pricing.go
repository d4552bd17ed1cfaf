package summarizer

import (
	"errors"
	"strings"

	"github.com/devrecap/devrecap/pkg/money"
)

// modelPricing is the cost per million tokens, in micro-dollars.
type modelPricing struct {
	InputPerMTok  money.Money
	OutputPerMTok money.Money
}

// Published per-MTok prices. Keys are model family prefixes so dated
// snapshots (claude-3-5-haiku-20241022) resolve without listing each one.
var pricingTable = map[string]modelPricing{
	"claude-3-5-haiku":  {InputPerMTok: 800_000, OutputPerMTok: 4_000_000},
	"claude-3-5-sonnet": {InputPerMTok: 3_000_000, OutputPerMTok: 15_000_000},
	"claude-3-opus":     {InputPerMTok: 15_000_000, OutputPerMTok: 75_000_000},
	"claude-3-haiku":    {InputPerMTok: 250_000, OutputPerMTok: 1_250_000},
}

var ErrUnknownModel = errors.New("unknown_model_pricing")

// ComputeCost prices a call in micro-dollars using exact integer
// arithmetic: tokens x price-per-MTok / 1e6.
func ComputeCost(model string, inputTokens, outputTokens int64) (inputCost, outputCost money.Money, err error) {
	pricing, ok := lookupPricing(model)
	if !ok {
		return 0, 0, ErrUnknownModel
	}
	inputCost = money.Money(inputTokens) * pricing.InputPerMTok / 1_000_000
	outputCost = money.Money(outputTokens) * pricing.OutputPerMTok / 1_000_000
	return inputCost, outputCost, nil
}

func lookupPricing(model string) (modelPricing, bool) {
	if pricing, ok := pricingTable[model]; ok {
		return pricing, true
	}
	for prefix, pricing := range pricingTable {
		if strings.HasPrefix(model, prefix) {
			return pricing, true
		}
	}
	return modelPricing{}, false
}
