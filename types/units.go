// Package types declares the shared type vocabulary of the gtaco client:
// token unit tags, ritual and phase identifiers, and the contract agent
// bound used by the agent layer.
//
// The unit tags are nominal only. At runtime all three are the same 256-bit
// integer and nothing stops a caller from converting between them; the
// distinct types exist so that an amount denominated in NuNits cannot reach
// a TuNits parameter without a visible conversion at the call site. No
// arithmetic is defined on the tags.
package types

import (
	"math/big"

	"github.com/holiman/uint256"
)

// ERC20Units is a raw token amount counted in the smallest denomination of
// an ERC20 token. It is a comparable value type and may be used as a map key.
type ERC20Units uint256.Int

// NuNits is an ERC20Units amount denominated in NuNits, the smallest unit of
// the NU token.
type NuNits ERC20Units

// TuNits is an ERC20Units amount denominated in TuNits, the smallest unit of
// the T token.
type TuNits ERC20Units

// NewERC20Units returns v as an untagged base-unit amount.
func NewERC20Units(v uint64) ERC20Units {
	return ERC20Units(*uint256.NewInt(v))
}

// NewNuNits returns v tagged as NuNits.
func NewNuNits(v uint64) NuNits {
	return NuNits(NewERC20Units(v))
}

// NewTuNits returns v tagged as TuNits.
func NewTuNits(v uint64) TuNits {
	return TuNits(NewERC20Units(v))
}

// ERC20UnitsFromBig converts b to ERC20Units. The second return value is
// true if b is negative or does not fit in 256 bits.
func ERC20UnitsFromBig(b *big.Int) (ERC20Units, bool) {
	u, overflow := uint256.FromBig(b)
	if overflow || b.Sign() < 0 {
		return ERC20Units{}, true
	}
	return ERC20Units(*u), false
}

// NuNitsFromBig converts b to NuNits.
func NuNitsFromBig(b *big.Int) (NuNits, bool) {
	u, overflow := ERC20UnitsFromBig(b)
	return NuNits(u), overflow
}

// TuNitsFromBig converts b to TuNits.
func TuNitsFromBig(b *big.Int) (TuNits, bool) {
	u, overflow := ERC20UnitsFromBig(b)
	return TuNits(u), overflow
}

// Base strips the NuNits tag.
func (n NuNits) Base() ERC20Units { return ERC20Units(n) }

// Base strips the TuNits tag.
func (t TuNits) Base() ERC20Units { return ERC20Units(t) }

// ToBig returns the amount as a fresh *big.Int.
func (u ERC20Units) ToBig() *big.Int {
	i := uint256.Int(u)
	return i.ToBig()
}

// ToBig returns the amount as a fresh *big.Int.
func (n NuNits) ToBig() *big.Int { return ERC20Units(n).ToBig() }

// ToBig returns the amount as a fresh *big.Int.
func (t TuNits) ToBig() *big.Int { return ERC20Units(t).ToBig() }

// Uint64 returns the amount as a uint64, with overflow reported.
func (u ERC20Units) Uint64() (uint64, bool) {
	i := uint256.Int(u)
	return i.Uint64(), !i.IsUint64()
}

func (u ERC20Units) String() string {
	i := uint256.Int(u)
	return i.Dec()
}

func (n NuNits) String() string { return ERC20Units(n).String() + " NuNit" }

func (t TuNits) String() string { return ERC20Units(t).String() + " TuNit" }
