// Package model defines domain models shared by the settlement engine, the
// earnings oracle and the services around them.
package model

// Stage is the lifecycle stage of a settlement contract. It is always derived
// from configuration, delivery progress and time, never stored.
type Stage uint8

const (
	StageInactive Stage = iota
	StageActiveCollection
	StageActiveObservation
	StageActive
	StageMatured
	StageDefaulted
)

var stageNames = map[Stage]string{
	StageInactive:          "inactive",
	StageActiveCollection:  "active_collection",
	StageActiveObservation: "active_observation",
	StageActive:            "active",
	StageMatured:           "matured",
	StageDefaulted:         "defaulted",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further transition can leave the stage.
func (s Stage) Terminal() bool {
	return s == StageMatured || s == StageDefaulted
}

// Asset names a fungible balance kept by the bank ledger.
type Asset string

var (
	// USDT is the default payment asset buyers escrow.
	USDT Asset = "USDT"
	// WBTC is the default reward asset the issuer delivers.
	WBTC Asset = "WBTC"
)

// InstrumentID identifies an instrument issued by the registry.
type InstrumentID uint64
