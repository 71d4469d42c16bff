package oracle

import (
	"fmt"

	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"github.com/holiman/uint256"
)

// Aggregate returns floor(Σ earnings[i]·hashrates[i] / Σ hashrates[i]) and
// the total hashrate.
func Aggregate(earnings, hashrates []uint64) (*uint256.Int, uint64, error) {
	if len(earnings) == 0 || len(earnings) != len(hashrates) {
		return nil, 0, fmt.Errorf("earnings/hashrates length %d/%d: %w", len(earnings), len(hashrates), model.ErrInvalidInput)
	}

	weighted := new(uint256.Int)
	total := new(uint256.Int)
	for i := range earnings {
		product := new(uint256.Int).Mul(uint256.NewInt(earnings[i]), uint256.NewInt(hashrates[i]))
		weighted.Add(weighted, product)
		total.Add(total, uint256.NewInt(hashrates[i]))
	}
	if total.IsZero() {
		return nil, 0, fmt.Errorf("total hashrate is zero: %w", model.ErrInvalidInput)
	}
	if !total.IsUint64() {
		return nil, 0, fmt.Errorf("total hashrate overflows: %w", model.ErrInvalidInput)
	}

	return new(uint256.Int).Div(weighted, total), total.Uint64(), nil
}
