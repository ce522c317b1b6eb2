package device

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/newtron-network/portspeed/pkg/util"
)

type fakeStore struct {
	keys   []string
	hashes map[string]map[string]string
	closed bool
}

func (f *fakeStore) ListKeys(_ context.Context, _ int, _ string) ([]string, error) {
	return f.keys, nil
}

func (f *fakeStore) ReadHash(_ context.Context, _ int, key string) (map[string]string, error) {
	return f.hashes[key], nil
}

func (f *fakeStore) Close() error {
	f.closed = true
	return nil
}

func TestSwitch_NotConnected(t *testing.T) {
	sw := NewSwitch("switch1", Profile{MgmtIP: "10.0.0.1"})
	ctx := context.Background()

	if sw.Profile.Store != StoreCLI {
		t.Errorf("default store = %q, want %q", sw.Profile.Store, StoreCLI)
	}
	if sw.IsConnected() {
		t.Error("new switch should not be connected")
	}
	if _, err := sw.ListKeys(ctx, 0, "*"); !errors.Is(err, util.ErrNotConnected) {
		t.Errorf("ListKeys error = %v, want ErrNotConnected", err)
	}
	if _, err := sw.ReadHash(ctx, 0, "k"); !errors.Is(err, util.ErrNotConnected) {
		t.Errorf("ReadHash error = %v, want ErrNotConnected", err)
	}
	if err := sw.RunConfig(ctx, "true"); !errors.Is(err, util.ErrNotConnected) {
		t.Errorf("RunConfig error = %v, want ErrNotConnected", err)
	}
	if err := sw.Close(); err != nil {
		t.Errorf("Close on unconnected switch: %v", err)
	}
}

func TestSwitch_Delegates(t *testing.T) {
	exec := &fakeExecutor{}
	store := &fakeStore{
		keys:   []string{"PORT_TABLE:Ethernet0"},
		hashes: map[string]map[string]string{"PORT_TABLE:Ethernet0": {"speed": "10000"}},
	}
	sw := NewSwitchWith("switch1", exec, store)
	ctx := context.Background()

	keys, err := sw.ListKeys(ctx, 0, "*PORT*")
	if err != nil || len(keys) != 1 {
		t.Fatalf("ListKeys = %v, %v", keys, err)
	}
	vals, err := sw.ReadHash(ctx, 0, "PORT_TABLE:Ethernet0")
	if err != nil || vals["speed"] != "10000" {
		t.Fatalf("ReadHash = %v, %v", vals, err)
	}

	cmd := `sudo config interface speed "Ethernet0" 40000`
	if err := sw.RunConfig(ctx, cmd); err != nil {
		t.Fatalf("RunConfig: %v", err)
	}
	if len(exec.ran) != 1 || exec.ran[0] != cmd {
		t.Errorf("ran = %v, want [%s]", exec.ran, cmd)
	}

	if err := sw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !store.closed {
		t.Error("Close should close the store")
	}
	if sw.IsConnected() {
		t.Error("switch still connected after Close")
	}
}

func TestSwitch_RunConfigError(t *testing.T) {
	cmd := `sudo config interface speed "Ethernet0" 1`
	exec := &fakeExecutor{errs: map[string]error{cmd: errors.New("exit status 1")}}
	sw := NewSwitchWith("switch1", exec, &fakeStore{})

	err := sw.RunConfig(context.Background(), cmd)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "exit status 1") {
		t.Errorf("error should wrap exec failure: %v", err)
	}
}
