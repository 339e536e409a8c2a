package conditions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PaesslerAG/jsonpath"
)

// JSONRPCCondition performs a JSON-RPC 2.0 call against an arbitrary HTTPS
// endpoint and applies the return value test to the (optionally queried)
// result member.
type JSONRPCCondition struct {
	ConditionType   string          `json:"conditionType"`
	Name            string          `json:"name,omitempty"`
	Endpoint        string          `json:"endpoint"`
	Method          string          `json:"method"`
	Params          interface{}     `json:"params,omitempty"`
	Query           string          `json:"query,omitempty"`
	ReturnValueTest ReturnValueTest `json:"returnValueTest"`

	client *http.Client
}

func (c *JSONRPCCondition) Type() string { return TypeJSONRPC }

func (c *JSONRPCCondition) decode(raw []byte, cfg *config) error {
	if err := unmarshalNumbers(raw, c); err != nil {
		return err
	}
	c.client = cfg.client
	return c.validate()
}

func (c *JSONRPCCondition) validate() error {
	if c.ConditionType != TypeJSONRPC {
		return fmt.Errorf("%w: json-rpc condition must have type %q, got %q",
			ErrInvalidCondition, TypeJSONRPC, c.ConditionType)
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%w: endpoint must be an absolute https URL, got %q", ErrInvalidCondition, c.Endpoint)
	}
	if c.Method == "" {
		return fmt.Errorf("%w: json-rpc condition needs a method", ErrInvalidCondition)
	}
	if c.Query != "" {
		if _, err := jsonpath.New(c.Query); err != nil {
			return fmt.Errorf("%w: %q is not a valid JSONPath expression", ErrInvalidCondition, c.Query)
		}
	}
	return c.ReturnValueTest.validate()
}

// Verify posts the call and applies the query and return value test to the
// result member. An error member in the response fails the evaluation.
func (c *JSONRPCCondition) Verify(ctx context.Context, reqCtx Context) (bool, interface{}, error) {
	result, err := c.post(ctx, c.Endpoint, reqCtx)
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

func (c *JSONRPCCondition) post(ctx context.Context, endpoint string, reqCtx Context) (interface{}, error) {
	params := c.Params
	if params == nil {
		params = []interface{}{}
	}
	resolvedParams, err := resolveValue(params, reqCtx)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  c.Method,
		"params":  resolvedParams,
		"id":      1, // any id will do
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrEvaluationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrEvaluationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: httpCallTimeout}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: call %s: %v", ErrEvaluationFailed, endpoint, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: call %s: status %d", ErrEvaluationFailed, endpoint, resp.StatusCode)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var rpcResp struct {
		Result interface{}     `json:"result"`
		Error  json.RawMessage `json:"error"`
	}
	if err := dec.Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("%w: parse response from %s: %v", ErrEvaluationFailed, endpoint, err)
	}
	if len(rpcResp.Error) > 0 && string(rpcResp.Error) != "null" {
		return nil, fmt.Errorf("%w: rpc error from %s: %s", ErrEvaluationFailed, endpoint, rpcResp.Error)
	}
	return rpcResp.Result, nil
}
