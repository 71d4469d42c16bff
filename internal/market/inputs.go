// Package market assembles the inputs of the dynamic initial payment ratio.
package market

import (
	"errors"
	"fmt"
	"math"

	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"github.com/goodnatureofminers/hashyield-backend/internal/settlement"
	"github.com/goodnatureofminers/hashyield-backend/pkg/safe"
)

// InputsConfig holds the operator-set ratio inputs, all in basis points, and
// the divisor turning network difficulty into the hg index.
type InputsConfig struct {
	GH                uint64
	RB                uint64
	PC                uint64
	DifficultyDivisor float64
}

func (c InputsConfig) Validate() error {
	if c.GH >= safe.BPS {
		return fmt.Errorf("gh %d must be below %d: %w", c.GH, safe.BPS, model.ErrInvalidInput)
	}
	if c.DifficultyDivisor <= 0 || math.IsNaN(c.DifficultyDivisor) || math.IsInf(c.DifficultyDivisor, 0) {
		return fmt.Errorf("difficulty divisor %v: %w", c.DifficultyDivisor, model.ErrInvalidInput)
	}
	return nil
}

// Inputs reads the current network difficulty and combines it with the
// configured inputs.
type Inputs struct {
	cfg    InputsConfig
	source DifficultySource
}

func NewInputs(cfg InputsConfig, source DifficultySource) (*Inputs, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, errors.New("market difficulty source is required")
	}
	return &Inputs{cfg: cfg, source: source}, nil
}

// RatioInputs returns the inputs for GenerateInitialPayment.
func (i *Inputs) RatioInputs() (settlement.RatioInputs, error) {
	difficulty, err := i.source.GetDifficulty()
	if err != nil {
		return settlement.RatioInputs{}, fmt.Errorf("get difficulty: %w", err)
	}

	hg := math.Floor(difficulty / i.cfg.DifficultyDivisor)
	if math.IsNaN(hg) || hg < 1 || hg >= math.MaxUint64 {
		return settlement.RatioInputs{}, fmt.Errorf("hg index from difficulty %v: %w", difficulty, model.ErrInvalidInput)
	}

	return settlement.RatioInputs{
		GH: i.cfg.GH,
		RB: i.cfg.RB,
		HG: uint64(hg),
		PC: i.cfg.PC,
	}, nil
}
