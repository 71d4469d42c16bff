package settlement

import (
	"fmt"

	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"github.com/goodnatureofminers/hashyield-backend/pkg/safe"
	"github.com/holiman/uint256"
)

const (
	// BaseRatio is the initial payment ratio before hash growth adjustment.
	BaseRatio = 3500
	// RatioFloor bounds the dynamic ratio from below.
	RatioFloor = 2000
)

// RatioInputs are the market inputs of the dynamic initial payment ratio.
// GH, RB and PC are basis points. HG is the network difficulty index scaled
// by 1e6.
type RatioInputs struct {
	GH uint64 `json:"gh"`
	RB uint64 `json:"rb"`
	HG uint64 `json:"hg"`
	PC uint64 `json:"pc"`
}

// coverageScale is 100·BPS³, matching an 8-decimal price and an hg index
// scaled by 1e6.
var coverageScale = new(uint256.Int).Mul(
	uint256.NewInt(100*safe.BPS),
	uint256.NewInt(safe.BPS*safe.BPS),
)

// DynamicRatio computes the initial payment ratio in basis points for a
// reward-asset price with 8 decimals, and reports whether it was clamped.
//
//	adjusted = base·(BPS+gh)/(BPS−gh)
//	coverage = adjusted·price·rb·(BPS−gh+pc)·(BPS+rb) / (hg·100·BPS³)
//	ratio    = clamp(adjusted − coverage, RatioFloor, base·(BPS+gh)/BPS)
//
// A coverage at or above adjusted saturates at the ceiling.
func DynamicRatio(in RatioInputs, price *uint256.Int) (uint64, bool, error) {
	if in.GH >= safe.BPS {
		return 0, false, fmt.Errorf("hash growth %d bps: %w", in.GH, model.ErrInvalidInput)
	}
	if in.HG == 0 {
		return 0, false, fmt.Errorf("difficulty index is zero: %w", model.ErrInvalidInput)
	}
	if price == nil {
		return 0, false, fmt.Errorf("price missing: %w", model.ErrInvalidInput)
	}

	ceiling := BaseRatio * (safe.BPS + in.GH) / safe.BPS
	adjusted := BaseRatio * (safe.BPS + in.GH) / (safe.BPS - in.GH)

	numerator := uint256.NewInt(adjusted)
	for _, factor := range []*uint256.Int{
		price,
		uint256.NewInt(in.RB),
		uint256.NewInt(safe.BPS - in.GH + in.PC),
		uint256.NewInt(safe.BPS + in.RB),
	} {
		var err error
		if numerator, err = safe.Mul(numerator, factor); err != nil {
			return 0, false, fmt.Errorf("coverage numerator: %w", model.ErrInvalidInput)
		}
	}
	denominator, err := safe.Mul(uint256.NewInt(in.HG), coverageScale)
	if err != nil {
		return 0, false, fmt.Errorf("coverage denominator: %w", model.ErrInvalidInput)
	}
	coverage := new(uint256.Int).Div(numerator, denominator)

	if !coverage.Lt(uint256.NewInt(adjusted)) {
		return ceiling, true, nil
	}
	ratio, clamped := safe.Clamp(adjusted-coverage.Uint64(), RatioFloor, ceiling)
	return ratio, clamped, nil
}
