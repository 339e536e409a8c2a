package main

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/urfave/cli/v2"

	"github.com/taco-network/gtaco/agent"
	"github.com/taco-network/gtaco/types"
)

var (
	rpcFlag = &cli.StringFlag{
		Name:     "rpc",
		Usage:    "JSON-RPC endpoint of the chain carrying the Coordinator",
		Required: true,
	}
	ritualIDFlag = &cli.UintFlag{
		Name:  "id",
		Usage: "ritual id to inspect",
	}
)

type outputRitual struct {
	ID                  types.RitualID `json:"id"`
	State               string         `json:"state"`
	Active              bool           `json:"active"`
	Initiator           string         `json:"initiator"`
	Authority           string         `json:"authority"`
	InitTimestamp       string         `json:"initTimestamp"`
	EndTimestamp        string         `json:"endTimestamp"`
	DkgSize             uint16         `json:"dkgSize"`
	Threshold           uint16         `json:"threshold"`
	TotalTranscripts    uint16         `json:"totalTranscripts"`
	TotalAggregations   uint16         `json:"totalAggregations"`
	AggregationMismatch bool           `json:"aggregationMismatch"`
}

var commandRitual = &cli.Command{
	Name:  "ritual",
	Usage: "inspect a DKG ritual on the Coordinator contract",
	Flags: []cli.Flag{
		domainFlag,
		rpcFlag,
		ritualIDFlag,
		jsonFlag,
	},
	Action: func(ctx *cli.Context) error {
		cfg, err := domainConfig(ctx)
		if err != nil {
			return err
		}
		client, err := ethclient.DialContext(ctx.Context, ctx.String(rpcFlag.Name))
		if err != nil {
			return fmt.Errorf("dial %s: %w", ctx.String(rpcFlag.Name), err)
		}
		defer client.Close()

		agency, err := agent.NewAgency(client)
		if err != nil {
			return err
		}
		coordinator, err := agent.Coordinator(agency, cfg)
		if err != nil {
			return err
		}

		id := types.RitualID(ctx.Uint(ritualIDFlag.Name))
		ritual, err := coordinator.GetRitual(ctx.Context, id)
		if err != nil {
			return err
		}
		state, err := coordinator.GetRitualState(ctx.Context, id)
		if err != nil {
			return err
		}
		active, err := coordinator.IsRitualActive(ctx.Context, id)
		if err != nil {
			return err
		}

		out := outputRitual{
			ID:                  id,
			State:               state.String(),
			Active:              active,
			Initiator:           ritual.Initiator.Hex(),
			Authority:           ritual.Authority.Hex(),
			InitTimestamp:       time.Unix(int64(ritual.InitTimestamp), 0).UTC().Format(time.RFC3339),
			EndTimestamp:        time.Unix(int64(ritual.EndTimestamp), 0).UTC().Format(time.RFC3339),
			DkgSize:             ritual.DkgSize,
			Threshold:           ritual.Threshold,
			TotalTranscripts:    ritual.TotalTranscripts,
			TotalAggregations:   ritual.TotalAggregations,
			AggregationMismatch: ritual.AggregationMismatch,
		}
		if ctx.Bool(jsonFlag.Name) {
			mustPrintJSON(out)
			return nil
		}
		fmt.Println("Ritual:             ", out.ID)
		fmt.Println("State:              ", out.State)
		fmt.Println("Active:             ", out.Active)
		fmt.Println("Initiator:          ", out.Initiator)
		fmt.Println("Authority:          ", out.Authority)
		fmt.Println("Initiated:          ", out.InitTimestamp)
		fmt.Println("Ends:               ", out.EndTimestamp)
		fmt.Println("DKG size:           ", out.DkgSize)
		fmt.Println("Threshold:          ", out.Threshold)
		fmt.Println("Transcripts:        ", out.TotalTranscripts)
		fmt.Println("Aggregations:       ", out.TotalAggregations)
		if out.AggregationMismatch {
			fmt.Println("Aggregation mismatch: true")
		}
		return nil
	},
}
