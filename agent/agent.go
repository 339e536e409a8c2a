// Package agent implements typed read wrappers ("agents") around the TACo
// protocol contracts.
//
// Every agent couples a deployed contract address with its parsed ABI and a
// chain caller, and exposes the contract surface as plain Go methods with
// vocabulary types from the types package. Agents are read-oriented:
// state-changing methods are exposed as calldata builders so that callers
// own signing and submission.
package agent

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// BoundContract is the base of every agent: an address, a parsed ABI and a
// caller. *ethclient.Client satisfies ethereum.ContractCaller.
type BoundContract struct {
	name    string
	address common.Address
	abi     abi.ABI
	caller  ethereum.ContractCaller
	log     log.Logger
}

func newBoundContract(name string, address common.Address, rawABI string, caller ethereum.ContractCaller) (*BoundContract, error) {
	parsed, err := abi.JSON(strings.NewReader(rawABI))
	if err != nil {
		return nil, fmt.Errorf("agent: parse %s ABI: %w", name, err)
	}
	return &BoundContract{
		name:    name,
		address: address,
		abi:     parsed,
		caller:  caller,
		log:     log.New("agent", name),
	}, nil
}

// ContractName returns the protocol-level name of the wrapped contract.
func (b *BoundContract) ContractName() string { return b.name }

// ChecksumAddress returns the deployment address of the wrapped contract.
func (b *BoundContract) ChecksumAddress() common.Address { return b.address }

// call performs eth_call of method against the contract at the latest block
// and returns the unpacked outputs.
func (b *BoundContract) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := b.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("agent: pack %s.%s: %w", b.name, method, err)
	}
	msg := ethereum.CallMsg{To: &b.address, Data: data}
	out, err := b.caller.CallContract(ctx, msg, nil)
	if err != nil {
		b.log.Debug("Contract call failed", "method", method, "err", err)
		return nil, fmt.Errorf("agent: call %s.%s: %w", b.name, method, err)
	}
	results, err := b.abi.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("agent: unpack %s.%s: %w", b.name, method, err)
	}
	return results, nil
}

// calldata packs method and args into transaction input data.
func (b *BoundContract) calldata(method string, args ...interface{}) ([]byte, error) {
	data, err := b.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("agent: pack %s.%s: %w", b.name, method, err)
	}
	return data, nil
}

// asBig normalizes an unpacked numeric output to *big.Int.
func asBig(v interface{}) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		return n, nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), nil
	default:
		return nil, fmt.Errorf("agent: unexpected numeric output type %T", v)
	}
}
