package agent

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/taco-network/gtaco/types"
)

const nuTokenABI = `[
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]}
]`

// TokenAgent wraps the NU ERC20 token contract. Amounts cross the agent
// boundary tagged as types.NuNits.
type TokenAgent struct {
	*BoundContract
}

// NewTokenAgent binds a TokenAgent to the token contract at address.
func NewTokenAgent(address common.Address, caller ethereum.ContractCaller) (*TokenAgent, error) {
	bound, err := newBoundContract("NuCypherToken", address, nuTokenABI, caller)
	if err != nil {
		return nil, err
	}
	return &TokenAgent{BoundContract: bound}, nil
}

// BalanceOf returns the NuNit balance of account.
func (t *TokenAgent) BalanceOf(ctx context.Context, account common.Address) (types.NuNits, error) {
	out, err := t.call(ctx, "balanceOf", account)
	if err != nil {
		return types.NuNits{}, err
	}
	raw, err := asBig(out[0])
	if err != nil {
		return types.NuNits{}, err
	}
	balance, overflow := types.NuNitsFromBig(raw)
	if overflow {
		return types.NuNits{}, fmt.Errorf("agent: balanceOf(%s) out of range: %s", account, raw)
	}
	return balance, nil
}

// TotalSupply returns the token supply in NuNits.
func (t *TokenAgent) TotalSupply(ctx context.Context) (types.NuNits, error) {
	out, err := t.call(ctx, "totalSupply")
	if err != nil {
		return types.NuNits{}, err
	}
	raw, err := asBig(out[0])
	if err != nil {
		return types.NuNits{}, err
	}
	supply, overflow := types.NuNitsFromBig(raw)
	if overflow {
		return types.NuNits{}, fmt.Errorf("agent: totalSupply out of range: %s", raw)
	}
	return supply, nil
}
