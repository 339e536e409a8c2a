package conditions

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// LingoVersion is the grammar version this package emits. Documents with a
// newer major version are rejected; minor and patch revisions are assumed
// backward compatible.
const LingoVersion = "1.0.0"

// Lingo is the versioned envelope wrapping one (possibly compound)
// condition.
type Lingo struct {
	Version   string
	Condition Condition
}

// ParseLingo validates and decodes a condition document.
func ParseLingo(data []byte, opts ...Option) (*Lingo, error) {
	if err := validateLingoSchema(data); err != nil {
		return nil, err
	}
	var frame struct {
		Version   string          `json:"version"`
		Condition json.RawMessage `json:"condition"`
	}
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConditionLingo, err)
	}
	if err := checkVersion(frame.Version); err != nil {
		return nil, err
	}
	cond, err := decodeCondition(frame.Condition, newConfig(opts))
	if err != nil {
		return nil, err
	}
	return &Lingo{Version: frame.Version, Condition: cond}, nil
}

// checkVersion gates on the major version only.
func checkVersion(version string) error {
	major, ok := majorOf(version)
	if !ok {
		return fmt.Errorf("%w: malformed version %q", ErrInvalidConditionLingo, version)
	}
	supported, _ := majorOf(LingoVersion)
	if major > supported {
		return fmt.Errorf("%w: lingo version %s is not supported (max %s)",
			ErrInvalidConditionLingo, version, LingoVersion)
	}
	return nil
}

func majorOf(version string) (int, bool) {
	head, _, found := strings.Cut(version, ".")
	if !found {
		return 0, false
	}
	major, err := strconv.Atoi(head)
	if err != nil || major < 0 {
		return 0, false
	}
	return major, true
}

// Eval verifies the wrapped condition against the request context.
func (l *Lingo) Eval(ctx context.Context, reqCtx Context) (bool, error) {
	if err := reqCtx.Validate(); err != nil {
		return false, err
	}
	ok, _, err := l.Condition.Verify(ctx, reqCtx)
	return ok, err
}

// MarshalJSON emits the envelope form understood by ParseLingo.
func (l *Lingo) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"version":   l.Version,
		"condition": l.Condition,
	})
}
