package speedtest

import (
	"context"
	"fmt"
	"strings"
)

// fakeSwitch is an in-memory Host. Speed commands update the "speed" field
// of the matching port; react lets a test change other fields too.
type fakeSwitch struct {
	keys     []string
	hashes   map[string]map[string]string
	commands []string

	react     func(f *fakeSwitch, key string, speed int)
	listErr   error
	readErr   map[string]error
	configErr map[string]error
}

func newFakeSwitch() *fakeSwitch {
	return &fakeSwitch{
		hashes:    map[string]map[string]string{},
		readErr:   map[string]error{},
		configErr: map[string]error{},
	}
}

func (f *fakeSwitch) addPort(key string, fields map[string]string) {
	f.keys = append(f.keys, key)
	f.hashes[key] = fields
}

func (f *fakeSwitch) ListKeys(_ context.Context, _ int, _ string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.keys, nil
}

func (f *fakeSwitch) ReadHash(_ context.Context, _ int, key string) (map[string]string, error) {
	if err := f.readErr[key]; err != nil {
		return nil, err
	}
	out := map[string]string{}
	for k, v := range f.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeSwitch) RunConfig(_ context.Context, command string) error {
	f.commands = append(f.commands, command)
	if err := f.configErr[command]; err != nil {
		return err
	}

	var iface string
	var speed int
	if _, err := fmt.Sscanf(command, "sudo config interface speed %q %d", &iface, &speed); err != nil {
		return fmt.Errorf("unexpected command %q", command)
	}
	for key, fields := range f.hashes {
		if InterfaceName(key) != iface {
			continue
		}
		fields["speed"] = fmt.Sprint(speed)
		if f.react != nil {
			f.react(f, key, speed)
		}
	}
	return nil
}

// speedCommands returns the commands issued for iface, in order.
func (f *fakeSwitch) speedCommands(iface string) []string {
	var out []string
	for _, c := range f.commands {
		if strings.Contains(c, `"`+iface+`"`) {
			out = append(out, c)
		}
	}
	return out
}

func upPort(lanes, speed string) map[string]string {
	return map[string]string{
		"admin_status": "up",
		"oper_status":  "up",
		"lanes":        lanes,
		"speed":        speed,
		"mtu":          "9100",
	}
}
