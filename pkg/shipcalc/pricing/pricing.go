package pricing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nekruzvatanshoev/shipcalc/pkg/shipcalc/dal"
)

const (
	// OriginAddress is where every shipment starts
	OriginAddress = "Üllői út 95., Budapest"

	RouteCorrectionFactor = 1.25
	CostPerFloor          = 1000
	ExtremeCaseCost       = 5000
	TransferCost          = 15000
	OldRemovalCost        = 15000

	// MaxFloors bounds the floor surcharge well inside int
	MaxFloors = 200
)

// PriceTable holds one base price per distance bracket
type PriceTable [7]int

// bracketLimits are the inclusive upper bounds in km; anything beyond the last one uses the final bracket.
var bracketLimits = [...]float64{15, 50, 100, 150, 200, 250}

var priceTables = map[dal.Tier]PriceTable{
	dal.TierBasic:             {15000, 20000, 34000, 48000, 62000, 76000, 90000},
	dal.TierFurniture:         {19000, 24000, 38000, 52000, 66000, 80000, 94000},
	dal.TierFurnitureAssembly: {22500, 27500, 41500, 55500, 69500, 83500, 97500},
}

// ValidationError reports a request that cannot be priced
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TableFor returns the price table of a tier
func TableFor(tier dal.Tier) (PriceTable, error) {
	table, ok := priceTables[tier]
	if !ok {
		return PriceTable{}, unknownTier(tier)
	}
	return table, nil
}

func unknownTier(tier dal.Tier) *ValidationError {
	return &ValidationError{
		Field:   "tier",
		Message: fmt.Sprintf("Ismeretlen szolgáltatás: %q.", string(tier)),
	}
}

// Bracket returns the index of the first bracket whose bound is not below km
func Bracket(km float64) int {
	for i, limit := range bracketLimits {
		if km <= limit {
			return i
		}
	}
	return len(bracketLimits)
}

// CorrectedKM converts a straight line distance to an estimated road distance in km
func CorrectedKM(meters float64) float64 {
	return meters / 1000 * RouteCorrectionFactor
}

// RoundKM rounds km to one decimal place using the exact decimal value of km.
// Exact halves round up.
func RoundKM(km float64) float64 {
	t := km * 10
	if math.FMA(km, 10, -t) == 0 && t-math.Floor(t) == 0.5 {
		return (math.Floor(t) + 1) / 10
	}
	r, _ := strconv.ParseFloat(strconv.FormatFloat(km, 'f', 1, 64), 64)
	return r
}

// Validate checks a request before any lookup is made
func Validate(req dal.QuoteRequest) error {
	if !req.Tier.Valid() {
		return unknownTier(req.Tier)
	}
	if req.Floors < 0 {
		return &ValidationError{Field: "floors", Message: "Az emeletek száma nem lehet negatív."}
	}
	if req.Floors > MaxFloors {
		return &ValidationError{Field: "floors", Message: fmt.Sprintf("Az emeletek száma legfeljebb %d lehet.", MaxFloors)}
	}
	if strings.TrimSpace(req.DestinationAddress) == "" {
		return &ValidationError{Field: "address", Message: "A cím megadása kötelező."}
	}
	return nil
}

// Price builds the cost breakdown for a corrected distance
func Price(req dal.QuoteRequest, km float64) (dal.Breakdown, error) {
	table, err := TableFor(req.Tier)
	if err != nil {
		return dal.Breakdown{}, err
	}

	b := dal.Breakdown{
		ShipCost:  table[Bracket(km)],
		FloorCost: req.Floors * CostPerFloor,
	}
	if req.Extreme {
		b.ExtremeCost = ExtremeCaseCost
	}
	if req.Transfer {
		b.TransferCost = TransferCost
	}
	if req.RemoveOld {
		b.OldCost = OldRemovalCost
	}
	b.Total = b.ShipCost + b.FloorCost + b.ExtremeCost + b.TransferCost + b.OldCost
	return b, nil
}
