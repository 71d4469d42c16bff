package model

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every state-changing operation. Components wrap
// these with context; callers match with errors.Is.
var (
	ErrStageMismatch        = errors.New("stage mismatch")
	ErrAccessDenied         = errors.New("access denied")
	ErrAlreadyDone          = errors.New("already done")
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInvalidInput         = errors.New("invalid input")
)

// Refinements of the taxonomy.
var (
	ErrDeliveryNotDue     = fmt.Errorf("delivery not due: %w", ErrStageMismatch)
	ErrLiquidationPending = fmt.Errorf("liquidation pending: %w", ErrStageMismatch)
	ErrRoundMissing       = fmt.Errorf("earnings round missing: %w", ErrInvalidInput)
	ErrTransferPending    = fmt.Errorf("transfer approval pending: %w", ErrAccessDenied)
)
