package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/newtron-network/portspeed/pkg/cli"
	"github.com/newtron-network/portspeed/pkg/device"
	"github.com/newtron-network/portspeed/pkg/speedtest"
	"github.com/newtron-network/portspeed/pkg/util"
)

// Exit codes: 1 = test failure, 2 = infrastructure or usage error.
const (
	exitOK      = 0
	exitFailed  = 1
	exitInfra = 2
)

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, util.ErrAssertionFailed):
		return exitFailed
	default:
		return exitInfra
	}
}

// connectSwitch builds a profile from the loaded settings, prompting for the
// SSH password when none is configured, and connects.
func connectSwitch(ctx context.Context) (*device.Switch, error) {
	profile := userSettings.Profile()
	if profile.MgmtIP == "" {
		return nil, fmt.Errorf("no switch address: use --host or set host in the settings file")
	}
	if profile.SSHUser == "" {
		return nil, fmt.Errorf("no SSH user: use --user or set ssh_user in the settings file")
	}
	if profile.SSHPass == "" {
		pw, err := cli.PromptPassword(fmt.Sprintf("%s@%s's password: ", profile.SSHUser, profile.MgmtIP))
		if err != nil {
			return nil, fmt.Errorf("reading SSH password: %w", err)
		}
		profile.SSHPass = pw
	}

	sw := device.NewSwitch(profile.MgmtIP, profile)
	if err := sw.Connect(ctx); err != nil {
		return nil, &speedtest.HostError{Op: "connect", Err: err}
	}
	return sw, nil
}
