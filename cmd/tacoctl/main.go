package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/taco-network/gtaco/internal/flags"
	"github.com/taco-network/gtaco/params"
	"github.com/urfave/cli/v2"
)

// Git SHA1 commit hash of the release (set via linker flags)
var gitCommit = ""
var gitDate = ""

var app *cli.App

func init() {
	app = flags.NewApp(gitCommit, gitDate, "a TACo network operator toolkit")
	app.Commands = []*cli.Command{
		commandEndpoints,
		commandRitual,
		commandCondition,
	}
}

// Commonly used command line flags.
var (
	domainFlag = &cli.StringFlag{
		Name:     "domain",
		Usage:    `TACo domain to operate on ("mainnet", "lynx" or "tapir")`,
		Value:    string(params.MainnetDomain),
		Category: flags.DomainCategory,
	}
	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "output JSON instead of human-readable format",
	}
)

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// domainConfig resolves the --domain flag.
func domainConfig(ctx *cli.Context) (params.DomainConfig, error) {
	name := params.Domain(ctx.String(domainFlag.Name))
	cfg, ok := params.DomainConfigOf(name)
	if !ok {
		return params.DomainConfig{}, fmt.Errorf("unknown domain %q", name)
	}
	return cfg, nil
}

// mustPrintJSON prints the JSON encoding of the given object and exits the
// program with an error message when the marshaling fails.
func mustPrintJSON(jsonObject interface{}) {
	str, err := json.MarshalIndent(jsonObject, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to marshal JSON object: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(str))
}

func formatUint(n uint64) string {
	return strconv.FormatUint(n, 10)
}
