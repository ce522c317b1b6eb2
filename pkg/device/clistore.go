package device

import (
	"context"
	"fmt"
	"strings"
)

// Executor runs a shell command on the switch and returns its output.
type Executor interface {
	ExecCommandContext(ctx context.Context, cmd string) (string, error)
}

// CLIStore reads the switch's Redis databases by running redis-cli over SSH
// and parsing its plain-text output.
type CLIStore struct {
	exec Executor
}

// NewCLIStore creates a CLIStore that runs redis-cli through exec.
func NewCLIStore(exec Executor) *CLIStore {
	return &CLIStore{exec: exec}
}

// ListKeys runs KEYS on db and returns the matching keys in the order
// redis-cli prints them.
func (s *CLIStore) ListKeys(ctx context.Context, db int, pattern string) ([]string, error) {
	cmd := fmt.Sprintf("redis-cli -n %d KEYS %s", db, shellQuote(pattern))
	out, err := s.exec.ExecCommandContext(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if msg, ok := replyError(out); ok {
		return nil, fmt.Errorf("redis-cli KEYS %s: %s", pattern, msg)
	}
	return ParseKeys(out), nil
}

// ReadHash runs HGETALL on db. A key holding a non-hash value reads as an
// empty map, the same as a missing key.
func (s *CLIStore) ReadHash(ctx context.Context, db int, key string) (map[string]string, error) {
	cmd := fmt.Sprintf("redis-cli -n %d HGETALL %s", db, shellQuote(key))
	out, err := s.exec.ExecCommandContext(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if msg, ok := replyError(out); ok {
		if strings.HasPrefix(msg, "WRONGTYPE") {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("redis-cli HGETALL %s: %s", key, msg)
	}
	return ParseHash(out), nil
}

// Close is a no-op; the executor is owned by the caller.
func (s *CLIStore) Close() error {
	return nil
}

// ParseKeys splits redis-cli KEYS output into key names, one per line.
// Blank lines are dropped.
func ParseKeys(out string) []string {
	var keys []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		keys = append(keys, line)
	}
	return keys
}

// ParseHash turns redis-cli HGETALL output (alternating field and value
// lines) into a map. Values may be empty lines. A trailing field without a
// value is ignored.
func ParseHash(out string) map[string]string {
	vals := map[string]string{}
	out = strings.TrimSuffix(strings.ReplaceAll(out, "\r\n", "\n"), "\n")
	if out == "" {
		return vals
	}
	lines := strings.Split(out, "\n")
	for i := 0; i+1 < len(lines); i += 2 {
		vals[lines[i]] = lines[i+1]
	}
	return vals
}

// replyError reports whether out is a Redis error reply, in either the
// raw ("ERR ...") or tty ("(error) ERR ...") rendering.
func replyError(out string) (string, bool) {
	first := strings.TrimSpace(strings.SplitN(out, "\n", 2)[0])
	first = strings.TrimPrefix(first, "(error) ")
	for _, prefix := range []string{"ERR ", "WRONGTYPE ", "NOAUTH ", "LOADING "} {
		if strings.HasPrefix(first, prefix) {
			return first, true
		}
	}
	return "", false
}

// shellQuote wraps s in single quotes for a POSIX shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
