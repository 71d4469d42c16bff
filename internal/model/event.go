package model

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// EventType names an observable state transition.
type EventType string

const (
	EventBind                      EventType = "settlement.bind"
	EventDeliver                   EventType = "settlement.deliver"
	EventInitialPaymentGenerated   EventType = "settlement.initial_payment.generated"
	EventInitialPaymentClaimed     EventType = "settlement.initial_payment.claimed"
	EventClaim                     EventType = "settlement.claim"
	EventLiquidate                 EventType = "settlement.liquidate"
	EventLiquidationShareClaimed   EventType = "settlement.liquidation.share_claimed"
	EventIssuerChanged             EventType = "settlement.issuer_changed"
	EventRegistryChanged           EventType = "settlement.registry_changed"
	EventTaxClaimed                EventType = "settlement.tax_claimed"
	EventOptionClaimed             EventType = "settlement.option_claimed"
	EventWithdraw                  EventType = "settlement.withdraw"
	EventDustSwept                 EventType = "settlement.dust_swept"
	EventDailyEarningsTracked      EventType = "oracle.daily_earnings.tracked"
	EventDailyEarningsComplemented EventType = "oracle.daily_earnings.complemented"
	EventTrackerAdded              EventType = "oracle.tracker.added"
	EventTrackerRemoved            EventType = "oracle.tracker.removed"
	EventInstrumentMinted          EventType = "registry.minted"
	EventInstrumentTransferred     EventType = "registry.transferred"
	EventInstrumentBurned          EventType = "registry.burned"
)

// Event is emitted by the engine and the oracle after a successful
// transition. Amount and Ratio carry the exact computed values; oracle
// rounds put the aggregated hashrate in Reference and the report count in
// Pools.
type Event struct {
	Source       string
	Type         EventType
	Seq          uint64
	Time         time.Time
	Day          uint64
	Instrument   InstrumentID
	Account      common.Address
	Counterparty common.Address
	Amount       *uint256.Int
	Ratio        uint64
	Clamped      bool
	Reference    uint64
	Pools        uint32
}

// AmountString renders Amount as a decimal string, "0" when unset.
func (e Event) AmountString() string {
	if e.Amount == nil {
		return "0"
	}
	return e.Amount.Dec()
}

// JournalEntry is an event with its deterministic journal id.
type JournalEntry struct {
	ID string
	Event
}

// EventSink receives events. Implementations must not call back into the
// emitting component.
type EventSink interface {
	Emit(e Event)
}

// NopSink drops every event.
type NopSink struct{}

// Emit implements EventSink.
func (NopSink) Emit(Event) {}
