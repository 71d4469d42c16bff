package settlement

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"github.com/goodnatureofminers/hashyield-backend/pkg/safe"
	"github.com/holiman/uint256"
)

const day = model.SecondsPerDay * time.Second

// Profile selects the deployment variant of the economic model.
type Profile struct {
	// MintDuringObservation keeps binding open through the observation window.
	MintDuringObservation bool
	// BurnOnClaim destroys the instrument on claim and refuses claims while a
	// transfer approval is pending.
	BurnOnClaim bool
}

// Config is the immutable configuration of one settlement contract.
type Config struct {
	Name              string
	Start             time.Time
	CollectionPeriod  time.Duration
	ObservationPeriod time.Duration
	// Term is measured from Start. Term-CollectionPeriod must be whole days.
	Term   time.Duration
	Supply uint64
	// BasePrice is the payment-asset amount escrowed per unit of hashrate.
	BasePrice *uint256.Int
	TaxBps    uint64
	OptionBps uint64
	// InitialPaymentRatio selects the fixed-ratio profile when non-zero.
	InitialPaymentRatio uint64
	Profile             Profile
	PaymentAsset        model.Asset
	RewardAsset         model.Asset
	Admin               common.Address
	Issuer              common.Address
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	switch {
	case c.Name == "":
		return errors.New("settlement name is required")
	case c.Start.IsZero():
		return errors.New("settlement start is required")
	case c.CollectionPeriod <= 0:
		return fmt.Errorf("collection period %s must be positive", c.CollectionPeriod)
	case c.ObservationPeriod < 0:
		return fmt.Errorf("observation period %s must not be negative", c.ObservationPeriod)
	case c.Term <= c.CollectionPeriod:
		return fmt.Errorf("term %s must exceed collection period %s", c.Term, c.CollectionPeriod)
	case (c.Term-c.CollectionPeriod)%day != 0:
		return fmt.Errorf("term minus collection period %s is not a whole number of days", c.Term-c.CollectionPeriod)
	case c.ObservationPeriod > c.Term-c.CollectionPeriod:
		return fmt.Errorf("observation period %s exceeds delivery period", c.ObservationPeriod)
	case c.Supply == 0:
		return errors.New("supply must be positive")
	case c.BasePrice == nil || c.BasePrice.IsZero():
		return errors.New("base price must be positive")
	case c.TaxBps > safe.BPS || c.OptionBps > safe.BPS:
		return fmt.Errorf("tax %d / option %d bps out of range", c.TaxBps, c.OptionBps)
	case c.InitialPaymentRatio > safe.BPS:
		return fmt.Errorf("initial payment ratio %d bps out of range", c.InitialPaymentRatio)
	case c.PaymentAsset == "" || c.RewardAsset == "":
		return errors.New("payment and reward assets are required")
	case c.Admin == (common.Address{}):
		return errors.New("admin is required")
	case c.Issuer == (common.Address{}):
		return errors.New("issuer is required")
	}
	if _, err := safe.Mul(c.Price(), uint256.NewInt(c.Supply)); err != nil {
		return fmt.Errorf("price times supply: %w", err)
	}
	return nil
}

// DeliveryDays is the number of daily deliveries the contract runs for.
func (c Config) DeliveryDays() uint64 {
	secs, err := safe.Seconds(c.Term - c.CollectionPeriod)
	if err != nil {
		return 0
	}
	return secs / model.SecondsPerDay
}

// Price is the payment per unit of hashrate including tax and option premiums.
func (c Config) Price() *uint256.Int {
	p, err := safe.MulDiv(c.BasePrice, safe.U(safe.BPS+c.TaxBps+c.OptionBps), safe.U(safe.BPS))
	if err != nil {
		return new(uint256.Int).SetAllOne()
	}
	return p
}

// FixedRatio reports whether the initial payment uses the configured ratio.
func (c Config) FixedRatio() bool {
	return c.InitialPaymentRatio > 0
}

func (c Config) collectionEnd() time.Time {
	return c.Start.Add(c.CollectionPeriod)
}

func (c Config) observationEnd() time.Time {
	return c.collectionEnd().Add(c.ObservationPeriod)
}

// unitCosts splits Price into its per-unit base, tax and option legs.
func (c Config) unitCosts() (base, tax, option *uint256.Int) {
	base = new(uint256.Int).Set(c.BasePrice)
	tax, err := safe.ApplyBPS(c.BasePrice, c.TaxBps)
	if err != nil {
		tax = new(uint256.Int)
	}
	option = new(uint256.Int).Sub(c.Price(), base)
	option.Sub(option, tax)
	return base, tax, option
}
