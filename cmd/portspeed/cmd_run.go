package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/newtron-network/portspeed/pkg/cli"
	"github.com/newtron-network/portspeed/pkg/speedtest"
	"github.com/newtron-network/portspeed/pkg/util"
)

func newRunCmd() *cobra.Command {
	var maxLaneSpeed int
	var junitPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the port speed test",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := userSettings.SpeedConfig()
			if cmd.Flags().Changed("max-lane-speed") {
				cfg.MaxLaneSpeed = maxLaneSpeed
			}
			if !cmd.Flags().Changed("junit") {
				junitPath = userSettings.JUnitPath
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			sw, err := connectSwitch(ctx)
			if err != nil {
				return err
			}
			defer sw.Close()

			report, runErr := speedtest.NewRunner(sw, cfg).Run(ctx)
			printReport(report)

			if junitPath != "" {
				if err := report.WriteJUnit(junitPath); err != nil {
					util.Warnf("Failed to write JUnit report: %v", err)
				}
			}
			return runErr
		},
	}

	cmd.Flags().IntVar(&maxLaneSpeed, "max-lane-speed", speedtest.DefaultMaxLaneSpeed, "maximum lane speed to test")
	cmd.Flags().StringVar(&junitPath, "junit", "", "JUnit XML output path")

	return cmd
}

func printReport(report *speedtest.Report) {
	fmt.Printf("%d up ports\n\n", len(report.Ports))

	t := cli.NewTable("PORT", "LANE SPEED", "SPEED", "RESULT", "DETAIL")
	for _, r := range report.Results {
		t.Row(r.Port, strconv.Itoa(r.LaneSpeed), strconv.Itoa(r.Speed), cli.Status(string(r.Status)), r.Message)
	}
	t.Flush()

	fmt.Printf("\n%s (%s)\n", cli.Bold(report.Summary()), report.Duration.Round(time.Millisecond))
}
