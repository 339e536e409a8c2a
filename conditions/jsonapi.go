package conditions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/ethereum/go-ethereum/log"
)

// JSONAPICondition reads a JSON HTTPS endpoint, optionally narrows the
// response with a JSONPath query, and applies the return value test to the
// result.
type JSONAPICondition struct {
	ConditionType      string                 `json:"conditionType"`
	Name               string                 `json:"name,omitempty"`
	Endpoint           string                 `json:"endpoint"`
	Parameters         map[string]interface{} `json:"parameters,omitempty"`
	Query              string                 `json:"query,omitempty"`
	AuthorizationToken string                 `json:"authorizationToken,omitempty"`
	ReturnValueTest    ReturnValueTest        `json:"returnValueTest"`

	client *http.Client
}

func (c *JSONAPICondition) Type() string { return TypeJSONAPI }

func (c *JSONAPICondition) decode(raw []byte, cfg *config) error {
	if err := unmarshalNumbers(raw, c); err != nil {
		return err
	}
	c.client = cfg.client
	return c.validate()
}

func (c *JSONAPICondition) validate() error {
	if c.ConditionType != TypeJSONAPI {
		return fmt.Errorf("%w: json-api condition must have type %q, got %q",
			ErrInvalidCondition, TypeJSONAPI, c.ConditionType)
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%w: endpoint must be an absolute https URL, got %q", ErrInvalidCondition, c.Endpoint)
	}
	if c.AuthorizationToken != "" && !IsContextVariable(c.AuthorizationToken) {
		return fmt.Errorf("%w: authorization token must be a context variable, got %q",
			ErrInvalidCondition, c.AuthorizationToken)
	}
	if c.Query != "" {
		if _, err := jsonpath.New(c.Query); err != nil {
			return fmt.Errorf("%w: %q is not a valid JSONPath expression", ErrInvalidCondition, c.Query)
		}
	}
	return c.ReturnValueTest.validate()
}

// Verify fetches the endpoint and applies the query and return value test.
func (c *JSONAPICondition) Verify(ctx context.Context, reqCtx Context) (bool, interface{}, error) {
	result, err := c.fetch(ctx, reqCtx)
	if err != nil {
		return false, nil, err
	}
	if c.Query != "" {
		if result, err = queryJSONPath(c.Query, result); err != nil {
			return false, nil, err
		}
	}
	resolved, err := c.ReturnValueTest.withResolvedContext(reqCtx)
	if err != nil {
		return false, nil, err
	}
	ok, err := resolved.eval(result)
	if err != nil {
		return false, nil, err
	}
	return ok, result, nil
}

func (c *JSONAPICondition) fetch(ctx context.Context, reqCtx Context) (interface{}, error) {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: endpoint %q: %v", ErrEvaluationFailed, c.Endpoint, err)
	}
	query := u.Query()
	for key, value := range c.Parameters {
		resolved, err := resolveValue(value, reqCtx)
		if err != nil {
			return nil, err
		}
		query.Set(key, fmt.Sprint(resolved))
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrEvaluationFailed, err)
	}
	if c.AuthorizationToken != "" {
		token, err := resolveValue(c.AuthorizationToken, reqCtx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+fmt.Sprint(token))
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		log.Debug("JSON API fetch failed", "endpoint", c.Endpoint, "err", err)
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrEvaluationFailed, c.Endpoint, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %s: status %d", ErrEvaluationFailed, c.Endpoint, resp.StatusCode)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var data interface{}
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: parse response from %s: %v", ErrEvaluationFailed, c.Endpoint, err)
	}
	return data, nil
}

func (c *JSONAPICondition) httpClient() *http.Client {
	if c.client != nil {
		return c.client
	}
	return &http.Client{Timeout: httpCallTimeout}
}

// queryJSONPath narrows data with a JSONPath expression. A query with no
// match fails the evaluation rather than comparing against nothing, and a
// wildcard query matching more than one element is ambiguous: there is no
// single value to compare, so it fails too.
func queryJSONPath(query string, data interface{}) (interface{}, error) {
	result, err := jsonpath.Get(query, data)
	if err != nil {
		return nil, fmt.Errorf("%w: no match for JSONPath query %q: %v", ErrEvaluationFailed, query, err)
	}
	if isMultiMatchQuery(query) {
		matches, ok := result.([]interface{})
		if !ok || len(matches) == 0 {
			return nil, fmt.Errorf("%w: no match for JSONPath query %q", ErrEvaluationFailed, query)
		}
		if len(matches) > 1 {
			return nil, fmt.Errorf("%w: ambiguous JSONPath query %q: %d matches", ErrEvaluationFailed, query, len(matches))
		}
		return matches[0], nil
	}
	return result, nil
}

// isMultiMatchQuery reports whether query can select more than one element,
// in which case Get returns the match set instead of a single value.
func isMultiMatchQuery(query string) bool {
	return strings.Contains(query, "*") || strings.Contains(query, "..")
}
