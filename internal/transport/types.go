package transport

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"github.com/goodnatureofminers/hashyield-backend/internal/settlement"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Engine interface {
		Snapshot() settlement.Snapshot
		Instrument(id model.InstrumentID) (settlement.InstrumentView, bool)
		Delivery(day uint64) (settlement.Delivery, bool)
		Deliver(caller common.Address) (settlement.Delivery, error)
		Liquidate(caller common.Address) (settlement.LiquidationRecord, error)
	}
	Oracle interface {
		Round(day uint64) (model.Round, bool)
		LastRound() (model.Round, bool)
	}
)
