package types

import "github.com/ethereum/go-ethereum/common"

// ContractAgent is the bound satisfied by every typed contract wrapper in
// the agent package. Code that works uniformly over agents (caching,
// dispatch, logging) constrains its type parameter with it instead of
// naming a concrete agent.
type ContractAgent interface {
	// ContractName returns the protocol-level name of the wrapped contract.
	ContractName() string
	// ChecksumAddress returns the deployment address of the wrapped contract.
	ChecksumAddress() common.Address
}
