package conditions

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// TimeMethod is the only method a TimeCondition may name.
const TimeMethod = "blocktime"

// TimeCondition compares the head block timestamp of a chain against the
// return value test, e.g. "not before epoch second X".
type TimeCondition struct {
	ConditionType   string          `json:"conditionType"`
	Name            string          `json:"name,omitempty"`
	Chain           uint64          `json:"chain"`
	Method          string          `json:"method"`
	ReturnValueTest ReturnValueTest `json:"returnValueTest"`

	chains map[uint64][]string
}

func (c *TimeCondition) Type() string { return TypeTime }

func (c *TimeCondition) decode(raw []byte, cfg *config) error {
	if err := unmarshalNumbers(raw, c); err != nil {
		return err
	}
	c.chains = cfg.chains
	return c.validate()
}

func (c *TimeCondition) validate() error {
	if c.ConditionType != TypeTime {
		return fmt.Errorf("%w: time condition must have type %q, got %q",
			ErrInvalidCondition, TypeTime, c.ConditionType)
	}
	if c.Method != TimeMethod {
		return fmt.Errorf("%w: time condition method must be %q, got %q",
			ErrInvalidCondition, TimeMethod, c.Method)
	}
	return c.ReturnValueTest.validate()
}

// SetChainEndpoints overrides the endpoints used for this condition's
// chain, for conditions constructed directly rather than decoded.
func (c *TimeCondition) SetChainEndpoints(chains map[uint64][]string) { c.chains = chains }

// Verify reads the head block timestamp and compares it.
func (c *TimeCondition) Verify(ctx context.Context, reqCtx Context) (bool, interface{}, error) {
	var head struct {
		Timestamp hexutil.Uint64 `json:"timestamp"`
	}
	err := callWithFailover(ctx, c.chains[c.Chain], func(ctx context.Context, client *rpc.Client) error {
		return client.CallContext(ctx, &head, "eth_getBlockByNumber", "latest", false)
	})
	if err != nil {
		return false, nil, err
	}

	timestamp := uint64(head.Timestamp)
	resolved, err := c.ReturnValueTest.withResolvedContext(reqCtx)
	if err != nil {
		return false, nil, err
	}
	ok, err := resolved.eval(timestamp)
	if err != nil {
		return false, nil, err
	}
	return ok, timestamp, nil
}
