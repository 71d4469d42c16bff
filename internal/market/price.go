package market

import (
	"fmt"

	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"github.com/holiman/uint256"
)

// StaticPrice is a fixed reward-asset price with eight decimals.
type StaticPrice struct {
	price *uint256.Int
}

// NewStaticPrice parses a decimal integer price, e.g. "3250000000000" for
// 32500 USD.
func NewStaticPrice(decimal string) (*StaticPrice, error) {
	price, err := uint256.FromDecimal(decimal)
	if err != nil {
		return nil, fmt.Errorf("price %q: %w", decimal, model.ErrInvalidInput)
	}
	if price.IsZero() {
		return nil, fmt.Errorf("price must be positive: %w", model.ErrInvalidInput)
	}
	return &StaticPrice{price: price}, nil
}

// CurrentPrice implements settlement.PriceFeed.
func (p *StaticPrice) CurrentPrice() (*uint256.Int, error) {
	return new(uint256.Int).Set(p.price), nil
}
