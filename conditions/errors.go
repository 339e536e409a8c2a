package conditions

import "errors"

// Sentinel errors returned by condition parsing and evaluation.
var (
	// ErrInvalidCondition means a condition's own fields are unusable.
	ErrInvalidCondition = errors.New("conditions: invalid condition")

	// ErrInvalidConditionLingo means a condition document does not parse
	// against the lingo grammar at all.
	ErrInvalidConditionLingo = errors.New("conditions: invalid condition grammar")

	// ErrEvaluationFailed means a structurally valid condition could not be
	// evaluated, e.g. an endpoint misbehaved or a result was incomparable.
	ErrEvaluationFailed = errors.New("conditions: evaluation failed")

	// ErrRequiredContextVariable means the caller did not supply a context
	// variable the condition references.
	ErrRequiredContextVariable = errors.New("conditions: missing required context variable")

	// ErrInvalidContextVariable means a supplied context key does not follow
	// the :name form.
	ErrInvalidContextVariable = errors.New("conditions: invalid context variable")

	// ErrNoConnectionToChain means no configured endpoint for the requested
	// chain could serve the condition.
	ErrNoConnectionToChain = errors.New("conditions: no connection to chain")
)
