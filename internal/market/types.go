package market

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"github.com/goodnatureofminers/hashyield-backend/internal/settlement"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	DifficultySource interface {
		GetDifficulty() (float64, error)
	}
	Engine interface {
		Stage() model.Stage
		InitialPayment() (settlement.InitialPayment, bool)
		GenerateInitialPayment(caller common.Address, in settlement.RatioInputs) (settlement.InitialPayment, error)
	}
	RatioSource interface {
		RatioInputs() (settlement.RatioInputs, error)
	}
)
