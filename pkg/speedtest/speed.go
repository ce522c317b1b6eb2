package speedtest

import (
	"context"
	"fmt"
	"strings"

	"github.com/newtron-network/portspeed/pkg/util"
)

// InterfaceName returns the interface part of a port identifier: the text
// after the last ':' ("PORT_TABLE:Ethernet0" -> "Ethernet0").
func InterfaceName(port string) string {
	if i := strings.LastIndex(port, ":"); i >= 0 {
		return port[i+1:]
	}
	return port
}

// SpeedCommand returns the command that sets port's speed.
func SpeedCommand(port string, speed int) string {
	return fmt.Sprintf("sudo config interface speed \"%s\" %d", InterfaceName(port), speed)
}

// ChangeSpeed sets port's speed on the switch and on its fanout peer.
// It does not check that the change took effect.
func ChangeSpeed(ctx context.Context, host Host, port string, speed int) error {
	if err := host.RunConfig(ctx, SpeedCommand(port, speed)); err != nil {
		return err
	}
	changeFanoutSpeed(port, speed)
	return nil
}

// changeFanoutSpeed does nothing yet: peer ports are not updated.
// TODO: set the speed on the fanout switch port once fanout topology is available.
func changeFanoutSpeed(port string, speed int) {
	util.WithPort(port, speed).Debug("Fanout speed change not implemented, skipping")
}
