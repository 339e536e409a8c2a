package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/taco-network/gtaco/conditions"
	"github.com/taco-network/gtaco/internal/flags"
	"github.com/taco-network/gtaco/rpchealth"
)

var (
	conditionFileFlag = &cli.StringFlag{
		Name:     "file",
		Usage:    "path of the condition lingo document",
		Required: true,
		Category: flags.ConditionCategory,
	}
	contextFlag = &cli.StringSliceFlag{
		Name:     "context",
		Usage:    "context variable as name=value, repeatable (the leading colon is optional)",
		Category: flags.ConditionCategory,
	}
)

var commandCondition = &cli.Command{
	Name:  "condition",
	Usage: "work with access condition documents",
	Subcommands: []*cli.Command{
		commandConditionVerify,
		commandConditionCheck,
	},
}

var commandConditionVerify = &cli.Command{
	Name:  "verify",
	Usage: "evaluate a condition document",
	Description: `
Parse a condition lingo document and evaluate it against the domain's
healthy RPC endpoints. Context variables referenced by the document are
supplied with --context, e.g. --context userAddress=0x1234...`,
	Flags: []cli.Flag{
		domainFlag,
		conditionFileFlag,
		contextFlag,
	},
	Action: func(ctx *cli.Context) error {
		cfg, err := domainConfig(ctx)
		if err != nil {
			return err
		}
		doc, err := os.ReadFile(ctx.String(conditionFileFlag.Name))
		if err != nil {
			return err
		}
		reqCtx, err := parseContextFlags(ctx.StringSlice(contextFlag.Name))
		if err != nil {
			return err
		}

		endpoints, err := rpchealth.HealthyEndpoints(ctx.Context, cfg.Name)
		if err != nil {
			return err
		}
		lingo, err := conditions.ParseLingo(doc, conditions.WithChainEndpoints(endpoints))
		if err != nil {
			return err
		}
		ok, err := lingo.Eval(ctx.Context, reqCtx)
		if err != nil {
			return err
		}
		if !ok {
			return cli.Exit(color.RedString("condition not satisfied"), 1)
		}
		fmt.Println(color.GreenString("condition satisfied"))
		return nil
	},
}

var commandConditionCheck = &cli.Command{
	Name:  "check",
	Usage: "validate a condition document without evaluating it",
	Flags: []cli.Flag{
		conditionFileFlag,
	},
	Action: func(ctx *cli.Context) error {
		doc, err := os.ReadFile(ctx.String(conditionFileFlag.Name))
		if err != nil {
			return err
		}
		if _, err := conditions.ParseLingo(doc); err != nil {
			return err
		}
		fmt.Println(color.GreenString("condition document is valid"))
		return nil
	},
}

// parseContextFlags turns repeated name=value flags into a request context.
// Values that parse as JSON keep their type; everything else is a string.
func parseContextFlags(pairs []string) (conditions.Context, error) {
	reqCtx := make(conditions.Context, len(pairs))
	for _, pair := range pairs {
		name, raw, found := strings.Cut(pair, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("malformed context variable %q, expected name=value", pair)
		}
		if !strings.HasPrefix(name, ":") {
			name = ":" + name
		}
		dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
		dec.UseNumber()
		var value interface{}
		if err := dec.Decode(&value); err != nil || dec.More() {
			value = raw
		}
		reqCtx[name] = value
	}
	return reqCtx, nil
}
