// Package safe provides overflow-checked integer conversions and uint256
// fixed-point arithmetic for settlement amounts.
package safe

import (
	"errors"
	"fmt"
	"time"

	"github.com/holiman/uint256"
)

// BPS is the basis-point denominator used by every ratio.
const BPS = 10_000

// ErrOverflow is returned when a result does not fit into 256 bits.
var ErrOverflow = errors.New("uint256 overflow")

// ErrDivisionByZero is returned by MulDiv for a zero divisor.
var ErrDivisionByZero = errors.New("division by zero")

// Uint64 converts signed or unsigned integers to uint64 while guarding against negatives.
func Uint64[T ~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64](v T) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("value %d out of uint64 range", v)
	}
	return uint64(v), nil
}

// Seconds converts a non-negative duration to whole seconds.
func Seconds(d time.Duration) (uint64, error) {
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", d)
	}
	return uint64(d / time.Second), nil
}

// U returns v as a fresh uint256.
func U(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

// Clone copies v, treating nil as zero.
func Clone(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(v)
}

// Add returns x+y or ErrOverflow.
func Add(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// Sub returns x-y or ErrOverflow when y > x.
func Sub(x, y *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// Mul returns x*y or ErrOverflow.
func Mul(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// MulDiv returns floor(x*y/d) with a 512-bit intermediate product.
func MulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, ErrDivisionByZero
	}
	z, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// MulDivRem returns floor(x*y/d) and the remainder (x*y) mod d. The product
// must fit into 256 bits.
func MulDivRem(x, y, d *uint256.Int) (*uint256.Int, *uint256.Int, error) {
	if d.IsZero() {
		return nil, nil, ErrDivisionByZero
	}
	product, err := Mul(x, y)
	if err != nil {
		return nil, nil, err
	}
	quo, rem := new(uint256.Int), new(uint256.Int)
	quo.DivMod(product, d, rem)
	return quo, rem, nil
}

// ApplyBPS returns floor(amount*bps/BPS).
func ApplyBPS(amount *uint256.Int, bps uint64) (*uint256.Int, error) {
	return MulDiv(amount, U(bps), U(BPS))
}

// Clamp bounds v to [lo, hi] and reports whether it had to.
func Clamp(v, lo, hi uint64) (uint64, bool) {
	switch {
	case v < lo:
		return lo, true
	case v > hi:
		return hi, true
	default:
		return v, false
	}
}
