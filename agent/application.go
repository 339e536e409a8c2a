package agent

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/taco-network/gtaco/types"
)

const applicationABI = `[
  {"type":"function","name":"authorizedStake","stateMutability":"view","inputs":[{"name":"stakingProvider","type":"address"}],"outputs":[{"name":"","type":"uint96"}]},
  {"type":"function","name":"authorizedOverall","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint96"}]},
  {"type":"function","name":"isAuthorized","stateMutability":"view","inputs":[{"name":"stakingProvider","type":"address"}],"outputs":[{"name":"","type":"bool"}]}
]`

// ApplicationAgent wraps the TACoApplication contract, the staking adapter
// that authorizes providers with T stake. Amounts cross the agent boundary
// tagged as types.TuNits.
type ApplicationAgent struct {
	*BoundContract
}

// NewApplicationAgent binds an ApplicationAgent to the contract at address.
func NewApplicationAgent(address common.Address, caller ethereum.ContractCaller) (*ApplicationAgent, error) {
	bound, err := newBoundContract("TACoApplication", address, applicationABI, caller)
	if err != nil {
		return nil, err
	}
	return &ApplicationAgent{BoundContract: bound}, nil
}

// AuthorizedStake returns the TuNit stake authorized to provider.
func (a *ApplicationAgent) AuthorizedStake(ctx context.Context, provider common.Address) (types.TuNits, error) {
	out, err := a.call(ctx, "authorizedStake", provider)
	if err != nil {
		return types.TuNits{}, err
	}
	raw, err := asBig(out[0])
	if err != nil {
		return types.TuNits{}, err
	}
	stake, overflow := types.TuNitsFromBig(raw)
	if overflow {
		return types.TuNits{}, fmt.Errorf("agent: authorizedStake(%s) out of range: %s", provider, raw)
	}
	return stake, nil
}

// AuthorizedOverall returns the total TuNit stake authorized to the
// application.
func (a *ApplicationAgent) AuthorizedOverall(ctx context.Context) (types.TuNits, error) {
	out, err := a.call(ctx, "authorizedOverall")
	if err != nil {
		return types.TuNits{}, err
	}
	raw, err := asBig(out[0])
	if err != nil {
		return types.TuNits{}, err
	}
	total, overflow := types.TuNitsFromBig(raw)
	if overflow {
		return types.TuNits{}, fmt.Errorf("agent: authorizedOverall out of range: %s", raw)
	}
	return total, nil
}

// IsAuthorized reports whether provider holds any authorized stake.
func (a *ApplicationAgent) IsAuthorized(ctx context.Context, provider common.Address) (bool, error) {
	out, err := a.call(ctx, "isAuthorized", provider)
	if err != nil {
		return false, err
	}
	authorized, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("agent: unexpected isAuthorized output %T", out[0])
	}
	return authorized, nil
}
