package registry

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"github.com/goodnatureofminers/hashyield-backend/internal/settlement"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Engine interface {
		PayForMint(caller common.Address, id model.InstrumentID, amount uint64, payer common.Address) error
		Claim(caller common.Address, id model.InstrumentID) (settlement.ClaimResult, error)
		Config() settlement.Config
	}
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)
