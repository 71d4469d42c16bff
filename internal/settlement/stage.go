package settlement

import (
	"time"

	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"github.com/goodnatureofminers/hashyield-backend/pkg/safe"
)

// DeriveStage computes the stage from configuration, the number of delivered
// days and the current time.
//
// Deliveries start when collection ends. Day k becomes due one day after
// the previous boundary and must be delivered before the next one; a day
// that closes undelivered defaults the contract.
func DeriveStage(cfg Config, delivered uint64, now time.Time) model.Stage {
	collectionEnd := cfg.collectionEnd()
	switch {
	case now.Before(cfg.Start):
		return model.StageInactive
	case now.Before(collectionEnd):
		return model.StageActiveCollection
	case delivered >= cfg.DeliveryDays():
		return model.StageMatured
	case closedDays(cfg, now) >= delivered+2:
		return model.StageDefaulted
	case now.Before(cfg.observationEnd()):
		return model.StageActiveObservation
	default:
		return model.StageActive
	}
}

// closedDays counts delivery days whose boundary has passed.
func closedDays(cfg Config, now time.Time) uint64 {
	elapsed, err := safe.Seconds(now.Sub(cfg.collectionEnd()))
	if err != nil {
		return 0
	}
	return elapsed / model.SecondsPerDay
}

// dueDay returns the delivery day that may be delivered now, zero if none.
func dueDay(cfg Config, delivered uint64, now time.Time) uint64 {
	next := delivered + 1
	if next > cfg.DeliveryDays() || closedDays(cfg, now) < next {
		return 0
	}
	return next
}
