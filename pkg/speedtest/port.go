// Package speedtest checks that a switch applies port-speed changes for every
// lane-speed combination its active ports support.
package speedtest

import (
	"context"
	"strconv"
	"strings"
)

// StatusUp is the admin and oper status a port must report.
const StatusUp = "up"

// Host is what the speed test needs from a switch: reads from its Redis
// databases and a way to run configuration commands.
type Host interface {
	ListKeys(ctx context.Context, db int, pattern string) ([]string, error)
	ReadHash(ctx context.Context, db int, key string) (map[string]string, error)
	RunConfig(ctx context.Context, command string) error
}

// Port is an active port as read from the state store.
type Port struct {
	Name        string
	LanesQty    int
	AdminStatus string
	OperStatus  string
	Speed       int
}

// PortState is the raw state of a port, used to verify a speed change.
// Fields are empty when absent from the store.
type PortState struct {
	AdminStatus string
	OperStatus  string
	Lanes       string
	Speed       string
}

func portStateFromHash(vals map[string]string) PortState {
	return PortState{
		AdminStatus: vals["admin_status"],
		OperStatus:  vals["oper_status"],
		Lanes:       vals["lanes"],
		Speed:       vals["speed"],
	}
}

// Port builds a Port named name from the state. ok is false unless the port
// is admin up, oper up, has at least one lane and a numeric speed.
func (s PortState) Port(name string) (p Port, ok bool) {
	if s.OperStatus != StatusUp || s.AdminStatus != StatusUp || s.Lanes == "" {
		return Port{}, false
	}
	speed, err := strconv.Atoi(strings.TrimSpace(s.Speed))
	if err != nil {
		return Port{}, false
	}
	return Port{
		Name:        name,
		LanesQty:    len(strings.Split(s.Lanes, ",")),
		AdminStatus: s.AdminStatus,
		OperStatus:  s.OperStatus,
		Speed:       speed,
	}, true
}

// ReadPortState reads the raw state of port name from db.
func ReadPortState(ctx context.Context, host Host, db int, name string) (PortState, error) {
	vals, err := host.ReadHash(ctx, db, name)
	if err != nil {
		return PortState{}, err
	}
	return portStateFromHash(vals), nil
}

// ReadPort reads port name from db. ok is false for ports that are not up
// or whose record is incomplete.
func ReadPort(ctx context.Context, host Host, db int, name string) (p Port, ok bool, err error) {
	state, err := ReadPortState(ctx, host, db, name)
	if err != nil {
		return Port{}, false, err
	}
	p, ok = state.Port(name)
	return p, ok, nil
}

// DiscoverPorts returns the up ports among the keys in db matching pattern,
// in the order the store lists them. Invalid records are dropped silently.
func DiscoverPorts(ctx context.Context, host Host, db int, pattern string) ([]Port, error) {
	keys, err := host.ListKeys(ctx, db, pattern)
	if err != nil {
		return nil, err
	}

	var ports []Port
	for _, key := range keys {
		p, ok, err := ReadPort(ctx, host, db, key)
		if err != nil {
			return nil, err
		}
		if ok {
			ports = append(ports, p)
		}
	}
	return ports, nil
}
