// Package device connects to a SONiC switch over SSH and reads its Redis
// databases, either with redis-cli on the switch or with a Redis client
// through an SSH port forward.
package device

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/newtron-network/portspeed/pkg/util"
)

// StoreKind selects how the switch's Redis databases are read.
type StoreKind string

const (
	StoreCLI   StoreKind = "cli"   // redis-cli over SSH
	StoreRedis StoreKind = "redis" // go-redis over an SSH forward or direct address
)

// Profile holds the connection parameters for one switch.
type Profile struct {
	MgmtIP  string
	SSHUser string
	SSHPass string
	SSHPort int

	Store StoreKind
	// RedisAddr, when set with StoreRedis, is dialed directly instead of
	// forwarding through SSH.
	RedisAddr string
}

// Store is the read side of the switch's Redis databases.
type Store interface {
	ListKeys(ctx context.Context, db int, pattern string) ([]string, error)
	ReadHash(ctx context.Context, db int, key string) (map[string]string, error)
	Close() error
}

// Switch is a connected SONiC switch. It satisfies the host interface used
// by the speed test: store reads plus configuration commands over SSH.
type Switch struct {
	Name    string
	Profile Profile

	tunnel    *SSHTunnel
	exec      Executor
	store     Store
	connected bool

	mu sync.RWMutex
}

// NewSwitch creates a switch handle. Call Connect before use.
func NewSwitch(name string, profile Profile) *Switch {
	if profile.Store == "" {
		profile.Store = StoreCLI
	}
	return &Switch{Name: name, Profile: profile}
}

// NewSwitchWith creates a connected switch from an existing executor and
// store. Used when the transport is provided by the caller.
func NewSwitchWith(name string, exec Executor, store Store) *Switch {
	return &Switch{
		Name:      name,
		exec:      exec,
		store:     store,
		connected: true,
	}
}

// Connect opens the SSH session and the configured store.
func (s *Switch) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return nil
	}

	tun, err := NewSSHTunnel(s.Profile.MgmtIP, s.Profile.SSHUser, s.Profile.SSHPass, s.Profile.SSHPort)
	if err != nil {
		return fmt.Errorf("SSH to %s: %w", s.Name, err)
	}
	s.tunnel = tun
	s.exec = tun

	switch s.Profile.Store {
	case StoreCLI:
		s.store = NewCLIStore(tun)
	case StoreRedis:
		addr := s.Profile.RedisAddr
		if addr == "" {
			addr, err = tun.Forward(DefaultRedisAddr)
			if err != nil {
				tun.Close()
				return fmt.Errorf("forwarding redis on %s: %w", s.Name, err)
			}
		}
		rs := NewRedisStore(addr)
		if err := rs.Ping(ctx, 0); err != nil {
			rs.Close()
			tun.Close()
			return fmt.Errorf("connecting to redis on %s: %w", s.Name, err)
		}
		s.store = rs
	default:
		tun.Close()
		return fmt.Errorf("%w: %q", util.ErrUnsupportedStore, s.Profile.Store)
	}

	s.connected = true
	util.WithDevice(s.Name).Infof("Connected (store=%s)", s.Profile.Store)
	return nil
}

// Close releases the store and the SSH connection.
func (s *Switch) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			util.WithDevice(s.Name).Warnf("Failed to close store: %v", err)
		}
	}
	if s.tunnel != nil {
		s.tunnel.Close()
		s.tunnel = nil
	}

	s.connected = false
	util.WithDevice(s.Name).Info("Disconnected")
	return nil
}

// IsConnected returns true if connected to the switch
func (s *Switch) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// ListKeys lists keys in db matching pattern.
func (s *Switch) ListKeys(ctx context.Context, db int, pattern string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.connected {
		return nil, util.ErrNotConnected
	}
	return s.store.ListKeys(ctx, db, pattern)
}

// ReadHash reads every field of the hash at key in db.
func (s *Switch) ReadHash(ctx context.Context, db int, key string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.connected {
		return nil, util.ErrNotConnected
	}
	return s.store.ReadHash(ctx, db, key)
}

// RunConfig runs a configuration command on the switch. The output is only
// logged; the caller verifies the effect by reading state back.
func (s *Switch) RunConfig(ctx context.Context, command string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.connected {
		return util.ErrNotConnected
	}
	output, err := s.exec.ExecCommandContext(ctx, command)
	if err != nil {
		return fmt.Errorf("%s failed: %w (output: %s)", command, err, strings.TrimSpace(output))
	}
	if out := strings.TrimSpace(output); out != "" {
		util.WithDevice(s.Name).Debugf("%s: %s", command, out)
	}
	return nil
}
