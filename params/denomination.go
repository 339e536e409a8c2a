package params

// These are the multipliers for token denominations.
// Example: to get the NuNit value of an amount in 'NU', use
//
//	new(big.Int).Mul(value, big.NewInt(params.Nu))
const (
	NuNit = 1
	Nu    = 1e18

	TuNit = 1
	T     = 1e18
)
