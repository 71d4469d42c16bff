package journal

import (
	"context"
	"time"

	"github.com/goodnatureofminers/hashyield-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Repository interface {
		InsertEvents(ctx context.Context, entries []model.JournalEntry) error
		InsertRounds(ctx context.Context, rounds []model.Round) error
	}
	Metrics interface {
		ObserveEvent(source string, err error)
		ObserveFlush(err error, size int, started time.Time)
	}
)
