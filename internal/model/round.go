package model

import (
	"time"

	"github.com/goodnatureofminers/hashyield-backend/pkg/safe"
	"github.com/holiman/uint256"
)

// SecondsPerDay is the length of an oracle round and of a delivery day.
const SecondsPerDay = 24 * 60 * 60

// DayIndex returns floor(unix/86400) for t, zero before the epoch.
func DayIndex(t time.Time) uint64 {
	unix, err := safe.Uint64(t.Unix())
	if err != nil {
		return 0
	}
	return unix / SecondsPerDay
}

// DayStart returns the UTC start of the given day index.
func DayStart(day uint64) time.Time {
	return time.Unix(int64(day*SecondsPerDay), 0).UTC()
}

// RoundKind distinguishes regular submissions from admin backfills.
type RoundKind string

var (
	RoundTracked      RoundKind = "tracked"
	RoundComplemented RoundKind = "complemented"
)

// Round is one aggregated daily earnings value, in reward-asset base units
// per unit of hashrate.
type Round struct {
	Oracle     string
	Day        uint64
	Value      *uint256.Int
	Kind       RoundKind
	Pools      uint32
	Hashrate   uint64
	RecordedAt time.Time
}

// PoolReport is one pool's daily earnings per unit of hashrate together with
// the hashrate it was measured on.
type PoolReport struct {
	Pool     string
	Day      uint64
	Earnings uint64
	Hashrate uint64
}
