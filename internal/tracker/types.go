package tracker

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/hashyield-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Oracle interface {
		Today() uint64
		Round(day uint64) (model.Round, bool)
		MissingDays(from, to uint64) []uint64
		TrackDailyEarnings(caller common.Address, earnings, hashrates []uint64) (model.Round, error)
		ComplementDailyEarnings(caller common.Address, day uint64, earnings, hashrates []uint64) (model.Round, error)
	}
	PoolSource interface {
		Name() string
		DailyReport(ctx context.Context, day uint64) (model.PoolReport, error)
	}
	Metrics interface {
		ObserveFetchMissing(err error, started time.Time)
		ObserveProcessBatch(err error, days int, started time.Time)
		ObserveProcessDay(err error, day uint64, started time.Time)
	}
)
