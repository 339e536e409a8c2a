// Package conditions implements the TACo access-condition lingo: a JSON
// grammar of verifiable clauses gating access to ritual material. A clause
// is anything from "this wallet holds at least X" (checked over chain RPC)
// to the result of an arbitrary JSON API read, and clauses compose with
// boolean operators, sequential pipelines and if/then/else branches.
package conditions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Condition type discriminators carried in the conditionType field.
const (
	TypeTime       = "time"
	TypeRPC        = "rpc"
	TypeCompound   = "compound"
	TypeJSONAPI    = "json-api"
	TypeJSONRPC    = "json-rpc"
	TypeSequential = "sequential"
	TypeIfThenElse = "if-then-else"
)

// Condition is one access-control clause. Verify returns the boolean
// outcome plus the raw value the decision was based on, so callers can
// surface it to the requester.
type Condition interface {
	Type() string
	Verify(ctx context.Context, reqCtx Context) (bool, interface{}, error)
}

// config collects the evaluation environment injected at decode time.
type config struct {
	chains map[uint64][]string
	client *http.Client
}

// Option adjusts the evaluation environment of decoded conditions.
type Option func(*config)

// WithChainEndpoints supplies the RPC endpoints (chain id to URLs) that
// chain-reading conditions evaluate against, typically the output of
// rpchealth.HealthyEndpoints.
func WithChainEndpoints(chains map[uint64][]string) Option {
	return func(cfg *config) { cfg.chains = chains }
}

// WithHTTPClient overrides the HTTP client used by offchain conditions.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *config) { cfg.client = client }
}

const httpCallTimeout = 5 * time.Second

func newConfig(opts []Option) *config {
	cfg := &config{client: &http.Client{Timeout: httpCallTimeout}}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// DecodeCondition parses one condition object (without the lingo envelope).
func DecodeCondition(data []byte, opts ...Option) (Condition, error) {
	return decodeCondition(data, newConfig(opts))
}

func decodeCondition(raw []byte, cfg *config) (Condition, error) {
	var probe struct {
		ConditionType string `json:"conditionType"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConditionLingo, err)
	}

	var (
		cond interface {
			Condition
			decode(raw []byte, cfg *config) error
		}
	)
	switch probe.ConditionType {
	case TypeTime:
		cond = new(TimeCondition)
	case TypeRPC:
		cond = new(RPCCondition)
	case TypeCompound:
		cond = new(CompoundCondition)
	case TypeJSONAPI:
		cond = new(JSONAPICondition)
	case TypeJSONRPC:
		cond = new(JSONRPCCondition)
	case TypeSequential:
		cond = new(SequentialCondition)
	case TypeIfThenElse:
		cond = new(IfThenElseCondition)
	default:
		return nil, fmt.Errorf("%w: unknown condition type %q", ErrInvalidConditionLingo, probe.ConditionType)
	}
	if err := cond.decode(raw, cfg); err != nil {
		return nil, err
	}
	return cond, nil
}

// unmarshalNumbers decodes JSON keeping numbers as json.Number, so 256-bit
// chain values survive the trip.
func unmarshalNumbers(raw []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConditionLingo, err)
	}
	return nil
}
