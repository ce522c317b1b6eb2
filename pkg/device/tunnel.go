package device

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/newtron-network/portspeed/pkg/util"
)

// DefaultRedisAddr is where SONiC's Redis listens inside the switch.
const DefaultRedisAddr = "127.0.0.1:6379"

// SSHTunnel holds an SSH connection to a switch. It runs commands in
// per-call sessions and can forward a local TCP port to Redis on the switch,
// since Redis has no authentication and is not reachable from outside.
type SSHTunnel struct {
	sshClient  *ssh.Client
	remoteAddr string

	mu        sync.Mutex
	localAddr string // "127.0.0.1:<port>", empty until Forward
	listener  net.Listener
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewSSHTunnel dials SSH on host:port. If port is 0, defaults to 22.
func NewSSHTunnel(host, user, pass string, port int) (*SSHTunnel, error) {
	if port == 0 {
		port = 22
	}
	config := &ssh.ClientConfig{
		User: user,
		Auth: []ssh.AuthMethod{
			ssh.Password(pass),
		},
		// Lab/test environment: production would need known_hosts verification.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         30 * time.Second,
	}

	addr := net.JoinHostPort(host, fmt.Sprint(port))
	util.Logger.Debugf("SSH to %s: host key verification disabled (InsecureIgnoreHostKey)", addr)
	sshClient, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("SSH dial %s@%s: %w", user, addr, err)
	}

	return &SSHTunnel{
		sshClient:  sshClient,
		remoteAddr: DefaultRedisAddr,
		done:       make(chan struct{}),
	}, nil
}

// Forward opens a local listener on a random port whose connections are
// forwarded to remoteAddr inside the SSH host, and returns the local address.
// Calling Forward again returns the existing address.
func (t *SSHTunnel) Forward(remoteAddr string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.listener != nil {
		return t.localAddr, nil
	}
	if remoteAddr != "" {
		t.remoteAddr = remoteAddr
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("local listen: %w", err)
	}
	t.listener = listener
	t.localAddr = listener.Addr().String()

	t.wg.Add(1)
	go t.acceptLoop()

	return t.localAddr, nil
}

// LocalAddr returns the forwarded local address, or "" if Forward was not called.
func (t *SSHTunnel) LocalAddr() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.localAddr
}

// Close stops the listener, closes the SSH connection, and waits for
// all forwarding goroutines to finish.
func (t *SSHTunnel) Close() error {
	close(t.done)
	t.mu.Lock()
	if t.listener != nil {
		t.listener.Close()
	}
	t.mu.Unlock()
	// Close SSH client first to tear down all forwarded connections,
	// unblocking any io.Copy goroutines waiting on remote reads.
	t.sshClient.Close()
	t.wg.Wait()
	return nil
}

func (t *SSHTunnel) acceptLoop() {
	defer t.wg.Done()
	for {
		local, err := t.listener.Accept()
		if err != nil {
			select {
			case <-t.done:
				return
			default:
				continue
			}
		}
		t.wg.Add(1)
		go t.forward(local)
	}
}

// ExecCommandContext runs a command on the switch and returns the combined output.
// If the context is cancelled the session is killed and ctx.Err() is wrapped.
func (t *SSHTunnel) ExecCommandContext(ctx context.Context, cmd string) (string, error) {
	session, err := t.sshClient.NewSession()
	if err != nil {
		return "", fmt.Errorf("SSH session: %w", err)
	}
	defer session.Close()

	var outputBuf bytes.Buffer
	session.Stdout = &outputBuf
	session.Stderr = &outputBuf

	if err := session.Start(cmd); err != nil {
		return "", fmt.Errorf("SSH start '%s': %w", cmd, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- session.Wait()
	}()

	select {
	case <-ctx.Done():
		session.Signal(ssh.SIGKILL)
		session.Close()
		<-done
		return outputBuf.String(), fmt.Errorf("SSH exec '%s': %w", cmd, ctx.Err())
	case err := <-done:
		if err != nil {
			return outputBuf.String(), fmt.Errorf("SSH exec '%s': %w", cmd, err)
		}
		return outputBuf.String(), nil
	}
}

func (t *SSHTunnel) forward(local net.Conn) {
	defer t.wg.Done()
	defer local.Close()

	remote, err := t.sshClient.Dial("tcp", t.remoteAddr)
	if err != nil {
		return
	}
	defer remote.Close()

	done := make(chan struct{}, 2)
	go func() {
		io.Copy(remote, local)
		done <- struct{}{}
	}()
	go func() {
		io.Copy(local, remote)
		done <- struct{}{}
	}()
	<-done
}
