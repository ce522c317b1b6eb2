package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/newtron-network/portspeed/pkg/cli"
	"github.com/newtron-network/portspeed/pkg/speedtest"
)

func newPortsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List the ports the speed test would exercise",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := userSettings.SpeedConfig()
			ctx := cmd.Context()

			sw, err := connectSwitch(ctx)
			if err != nil {
				return err
			}
			defer sw.Close()

			ports, err := speedtest.DiscoverPorts(ctx, sw, cfg.DB, cfg.PortPattern)
			if err != nil {
				return &speedtest.HostError{Op: "discover", Err: err}
			}
			if len(ports) == 0 {
				fmt.Println("No up ports found")
				return nil
			}

			t := cli.NewTable("PORT", "INTERFACE", "LANES", "SPEED", "ADMIN", "OPER")
			for _, p := range ports {
				t.Row(p.Name, speedtest.InterfaceName(p.Name), strconv.Itoa(p.LanesQty),
					strconv.Itoa(p.Speed), p.AdminStatus, p.OperStatus)
			}
			t.Flush()
			return nil
		},
	}
}
