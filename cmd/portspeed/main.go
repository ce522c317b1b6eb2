// Portspeed - SONiC port speed test
//
// Discovers the ports of a SONiC switch that are admin and oper up, sets
// each one to every speed its lanes support, and checks that the port
// comes back up at the new speed. Every port is set back to its original
// speed at the end.
//
// Examples:
//
//	portspeed --host 10.0.0.5 --user admin run
//	portspeed --host 10.0.0.5 --user admin run --max-lane-speed 10000 --junit out/junit.xml
//	portspeed --host 10.0.0.5 --user admin --store redis ports
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/newtron-network/portspeed/pkg/settings"
	"github.com/newtron-network/portspeed/pkg/util"
	"github.com/newtron-network/portspeed/pkg/version"
)

var (
	settingsPath string
	verbose      bool
	jsonLog      bool

	// Connection flags override the settings file when set.
	hostFlag      string
	userFlag      string
	passFlag      string
	sshPortFlag   int
	storeFlag     string
	redisAddrFlag string
	dbFlag        int
	patternFlag   string

	userSettings *settings.Settings
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "portspeed",
		Short: "SONiC port speed test",
		Long: `Portspeed checks that a SONiC switch applies port speed changes.

For every port that is admin and oper up, each lane speed (10000, 25000 by
default) up to --max-lane-speed is multiplied by the port's lane count and
applied with "config interface speed". The port must stay up and report the
new speed. All failures are reported together at the end.

  portspeed --host <ip> --user <user> run
  portspeed --host <ip> --user <user> ports`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}

			if verbose {
				util.SetLogLevel("debug")
			}
			if jsonLog {
				util.SetJSONFormat()
			}

			var err error
			if settingsPath != "" {
				userSettings, err = settings.LoadFrom(settingsPath)
			} else {
				userSettings, err = settings.Load()
			}
			if err != nil {
				return fmt.Errorf("loading settings: %w", err)
			}
			applyFlags(cmd, userSettings)
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&settingsPath, "settings", "", "settings file (default ~/.portspeed/settings.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	pf.BoolVar(&jsonLog, "json-log", false, "Log in JSON format")
	pf.StringVar(&hostFlag, "host", "", "switch management address")
	pf.StringVarP(&userFlag, "user", "u", "", "SSH user")
	pf.StringVar(&passFlag, "password", "", "SSH password (prompted when omitted)")
	pf.IntVar(&sshPortFlag, "ssh-port", 22, "SSH port")
	pf.StringVar(&storeFlag, "store", "cli", "state store access: cli (redis-cli over SSH) or redis (forwarded Redis)")
	pf.StringVar(&redisAddrFlag, "redis-addr", "", "direct Redis address for --store redis")
	pf.IntVar(&dbFlag, "db", 0, "Redis database holding the port table")
	pf.StringVar(&patternFlag, "pattern", "*PORT*", "key pattern of port records")

	rootCmd.AddCommand(
		newRunCmd(),
		newPortsCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Println(version.Line("portspeed"))
			},
		},
	)

	return rootCmd
}

// applyFlags overlays explicitly set persistent flags on s.
func applyFlags(cmd *cobra.Command, s *settings.Settings) {
	flags := cmd.Flags()
	if flags.Changed("host") {
		s.Host = hostFlag
	}
	if flags.Changed("user") {
		s.SSHUser = userFlag
	}
	if flags.Changed("password") {
		s.SSHPass = passFlag
	}
	if flags.Changed("ssh-port") || s.SSHPort == 0 {
		s.SSHPort = sshPortFlag
	}
	if flags.Changed("store") || s.Store == "" {
		s.Store = storeFlag
	}
	if flags.Changed("redis-addr") {
		s.RedisAddr = redisAddrFlag
	}
	if flags.Changed("db") {
		s.DB = dbFlag
	}
	if flags.Changed("pattern") {
		s.PortPattern = patternFlag
	}
}
