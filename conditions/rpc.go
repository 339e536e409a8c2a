package conditions

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
)

// allowedRPCMethods is the closed set of EVM methods an RPCCondition may
// call. Nodes evaluate third-party documents; an open set would let anyone
// drive arbitrary RPC traffic through them.
var allowedRPCMethods = map[string]bool{
	"eth_getBalance": true,
}

// RPCCondition evaluates a read-only EVM JSON-RPC method on a configured
// chain and applies the return value test to the numeric result.
type RPCCondition struct {
	ConditionType   string          `json:"conditionType"`
	Name            string          `json:"name,omitempty"`
	Chain           uint64          `json:"chain"`
	Method          string          `json:"method"`
	Parameters      []interface{}   `json:"parameters,omitempty"`
	ReturnValueTest ReturnValueTest `json:"returnValueTest"`

	chains map[uint64][]string
}

func (c *RPCCondition) Type() string { return TypeRPC }

func (c *RPCCondition) decode(raw []byte, cfg *config) error {
	if err := unmarshalNumbers(raw, c); err != nil {
		return err
	}
	c.chains = cfg.chains
	return c.validate()
}

func (c *RPCCondition) validate() error {
	if c.ConditionType != TypeRPC {
		return fmt.Errorf("%w: rpc condition must have type %q, got %q",
			ErrInvalidCondition, TypeRPC, c.ConditionType)
	}
	if !allowedRPCMethods[c.Method] {
		return fmt.Errorf("%w: method %q is not allowed", ErrInvalidCondition, c.Method)
	}
	return c.ReturnValueTest.validate()
}

// Verify calls the method against the chain's endpoints with failover and
// compares the numeric result.
func (c *RPCCondition) Verify(ctx context.Context, reqCtx Context) (bool, interface{}, error) {
	params, err := resolveValue(c.Parameters, reqCtx)
	if err != nil {
		return false, nil, err
	}
	paramList, _ := params.([]interface{})

	var result hexutil.Big
	err = callWithFailover(ctx, c.endpoints(), func(ctx context.Context, client *rpc.Client) error {
		return client.CallContext(ctx, &result, c.Method, paramList...)
	})
	if err != nil {
		return false, nil, err
	}

	value := result.ToInt()
	resolved, err := c.ReturnValueTest.withResolvedContext(reqCtx)
	if err != nil {
		return false, nil, err
	}
	ok, err := resolved.eval(value)
	if err != nil {
		return false, nil, err
	}
	return ok, value, nil
}

func (c *RPCCondition) endpoints() []string {
	return c.chains[c.Chain]
}

// SetChainEndpoints overrides the endpoints used for this condition's
// chain, for conditions constructed directly rather than decoded.
func (c *RPCCondition) SetChainEndpoints(chains map[uint64][]string) { c.chains = chains }

// callWithFailover tries each endpoint in order until one answers.
func callWithFailover(ctx context.Context, endpoints []string, call func(context.Context, *rpc.Client) error) error {
	if len(endpoints) == 0 {
		return ErrNoConnectionToChain
	}
	var lastErr error
	for _, endpoint := range endpoints {
		client, err := rpc.DialContext(ctx, endpoint)
		if err != nil {
			lastErr = err
			continue
		}
		err = call(ctx, client)
		client.Close()
		if err == nil {
			return nil
		}
		log.Debug("RPC condition endpoint failed", "endpoint", endpoint, "err", err)
		lastErr = err
	}
	return fmt.Errorf("%w: all endpoints failed, last error: %v", ErrNoConnectionToChain, lastErr)
}
