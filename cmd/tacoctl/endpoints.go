package main

import (
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/taco-network/gtaco/rpchealth"
)

var healthyOnlyFlag = &cli.BoolFlag{
	Name:  "healthy-only",
	Usage: "omit unhealthy endpoints from the output",
}

var commandEndpoints = &cli.Command{
	Name:  "endpoints",
	Usage: "probe the default RPC endpoints of a domain",
	Description: `
Fetch the domain's default public RPC endpoints from the chainlist and
probe each one for liveness and head block freshness.`,
	Flags: []cli.Flag{
		domainFlag,
		jsonFlag,
		healthyOnlyFlag,
	},
	Action: func(ctx *cli.Context) error {
		cfg, err := domainConfig(ctx)
		if err != nil {
			return err
		}
		defaults, err := rpchealth.DefaultEndpoints(ctx.Context, cfg.Name)
		if err != nil {
			return err
		}

		type probed struct {
			ChainID  uint64 `json:"chainId"`
			Endpoint string `json:"endpoint"`
			Healthy  bool   `json:"healthy"`
		}
		chainIDs := make([]uint64, 0, len(defaults))
		for chainID := range defaults {
			chainIDs = append(chainIDs, chainID)
		}
		sort.Slice(chainIDs, func(i, j int) bool { return chainIDs[i] < chainIDs[j] })

		var results []probed
		for _, chainID := range chainIDs {
			for _, endpoint := range defaults[chainID] {
				healthy := rpchealth.CheckEndpoint(ctx.Context, endpoint)
				if !healthy && ctx.Bool(healthyOnlyFlag.Name) {
					continue
				}
				results = append(results, probed{chainID, endpoint, healthy})
			}
		}

		if ctx.Bool(jsonFlag.Name) {
			mustPrintJSON(results)
			return nil
		}
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Chain", "Endpoint", "Status"})
		for _, r := range results {
			status := color.GreenString("healthy")
			if !r.Healthy {
				status = color.RedString("unhealthy")
			}
			table.Append([]string{formatUint(r.ChainID), r.Endpoint, status})
		}
		table.Render()
		return nil
	},
}
