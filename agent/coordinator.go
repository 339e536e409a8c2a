package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/taco-network/gtaco/params"
	"github.com/taco-network/gtaco/types"
)

// RitualState mirrors the Coordinator contract's ritual lifecycle enum.
type RitualState uint8

const (
	RitualNonInitiated         RitualState = 0
	RitualAwaitingTranscripts  RitualState = 1
	RitualAwaitingAggregations RitualState = 2
	RitualTimeout              RitualState = 3
	RitualInvalid              RitualState = 4
	RitualActive               RitualState = 5
	RitualExpired              RitualState = 6
)

func (s RitualState) String() string {
	switch s {
	case RitualNonInitiated:
		return "non-initiated"
	case RitualAwaitingTranscripts:
		return "awaiting-transcripts"
	case RitualAwaitingAggregations:
		return "awaiting-aggregations"
	case RitualTimeout:
		return "timeout"
	case RitualInvalid:
		return "invalid"
	case RitualActive:
		return "active"
	case RitualExpired:
		return "expired"
	}
	return fmt.Sprintf("unknown(%d)", uint8(s))
}

// Ritual is the on-chain record of one DKG ritual.
type Ritual struct {
	Initiator           common.Address
	InitTimestamp       uint32
	EndTimestamp        uint32
	TotalTranscripts    uint16
	TotalAggregations   uint16
	Authority           common.Address
	DkgSize             uint16
	Threshold           uint16
	AggregationMismatch bool
}

// ErrNoActivePhase is returned when a ritual is not currently accepting
// phase submissions.
var ErrNoActivePhase = errors.New("agent: ritual has no active phase")

const coordinatorABI = `[
  {"type":"function","name":"getRitualState","stateMutability":"view","inputs":[{"name":"ritualId","type":"uint32"}],"outputs":[{"name":"","type":"uint8"}]},
  {"type":"function","name":"isRitualActive","stateMutability":"view","inputs":[{"name":"ritualId","type":"uint32"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"numberOfRituals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getRitual","stateMutability":"view","inputs":[{"name":"ritualId","type":"uint32"}],"outputs":[{"name":"","type":"tuple","components":[
    {"name":"initiator","type":"address"},
    {"name":"initTimestamp","type":"uint32"},
    {"name":"endTimestamp","type":"uint32"},
    {"name":"totalTranscripts","type":"uint16"},
    {"name":"totalAggregations","type":"uint16"},
    {"name":"authority","type":"address"},
    {"name":"dkgSize","type":"uint16"},
    {"name":"threshold","type":"uint16"},
    {"name":"aggregationMismatch","type":"bool"}]}]},
  {"type":"function","name":"postTranscript","stateMutability":"nonpayable","inputs":[{"name":"ritualId","type":"uint32"},{"name":"transcript","type":"bytes"}],"outputs":[]},
  {"type":"function","name":"postAggregation","stateMutability":"nonpayable","inputs":[{"name":"ritualId","type":"uint32"},{"name":"aggregatedTranscript","type":"bytes"},{"name":"dkgPublicKey","type":"bytes"},{"name":"decryptionRequestStaticKey","type":"bytes"}],"outputs":[]}
]`

// CoordinatorAgent wraps the Coordinator contract, the on-chain authority
// for DKG ritual lifecycle.
type CoordinatorAgent struct {
	*BoundContract
}

// NewCoordinatorAgent binds a CoordinatorAgent to the contract at address.
func NewCoordinatorAgent(address common.Address, caller ethereum.ContractCaller) (*CoordinatorAgent, error) {
	bound, err := newBoundContract("Coordinator", address, coordinatorABI, caller)
	if err != nil {
		return nil, err
	}
	return &CoordinatorAgent{BoundContract: bound}, nil
}

// GetRitualState returns the lifecycle state of a ritual.
func (c *CoordinatorAgent) GetRitualState(ctx context.Context, id types.RitualID) (RitualState, error) {
	out, err := c.call(ctx, "getRitualState", id)
	if err != nil {
		return RitualNonInitiated, err
	}
	raw, ok := out[0].(uint8)
	if !ok {
		return RitualNonInitiated, fmt.Errorf("agent: unexpected getRitualState output %T", out[0])
	}
	return RitualState(raw), nil
}

// IsRitualActive reports whether a ritual has completed its DKG and is
// currently usable for encryption.
func (c *CoordinatorAgent) IsRitualActive(ctx context.Context, id types.RitualID) (bool, error) {
	out, err := c.call(ctx, "isRitualActive", id)
	if err != nil {
		return false, err
	}
	active, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("agent: unexpected isRitualActive output %T", out[0])
	}
	return active, nil
}

// NumberOfRituals returns the total ritual count ever initiated.
func (c *CoordinatorAgent) NumberOfRituals(ctx context.Context) (uint64, error) {
	out, err := c.call(ctx, "numberOfRituals")
	if err != nil {
		return 0, err
	}
	n, err := asBig(out[0])
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// GetRitual returns the on-chain record of a ritual.
func (c *CoordinatorAgent) GetRitual(ctx context.Context, id types.RitualID) (Ritual, error) {
	out, err := c.call(ctx, "getRitual", id)
	if err != nil {
		return Ritual{}, err
	}
	ritual := *abi.ConvertType(out[0], new(Ritual)).(*Ritual)
	return ritual, nil
}

// ActivePhase maps the ritual's current state to the phase it is accepting
// submissions for. It returns ErrNoActivePhase when the ritual is finished,
// failed or never initiated.
func (c *CoordinatorAgent) ActivePhase(ctx context.Context, id types.RitualID) (types.PhaseID, error) {
	state, err := c.GetRitualState(ctx, id)
	if err != nil {
		return types.PhaseID{}, err
	}
	switch state {
	case RitualAwaitingTranscripts:
		return types.PhaseID{RitualID: id, Phase: params.PhaseTranscript}, nil
	case RitualAwaitingAggregations:
		return types.PhaseID{RitualID: id, Phase: params.PhaseAggregation}, nil
	}
	return types.PhaseID{}, fmt.Errorf("%w: ritual %d is %s", ErrNoActivePhase, id, state)
}

// PostTranscriptCalldata builds the input data of a postTranscript
// transaction. The caller signs and submits it.
func (c *CoordinatorAgent) PostTranscriptCalldata(id types.RitualID, transcript []byte) ([]byte, error) {
	return c.calldata("postTranscript", id, transcript)
}

// PostAggregationCalldata builds the input data of a postAggregation
// transaction.
func (c *CoordinatorAgent) PostAggregationCalldata(id types.RitualID, aggregated, dkgPublicKey, requestStaticKey []byte) ([]byte, error) {
	return c.calldata("postAggregation", id, aggregated, dkgPublicKey, requestStaticKey)
}
