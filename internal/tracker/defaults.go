package tracker

import "time"

const (
	defaultWorkerCount = 8

	defaultSubmitOffset    = 23 * time.Hour
	defaultBackfillLimit   = 30
	idleSleepDuration      = time.Minute
	postBatchSleepDuration = 5 * time.Second
)
