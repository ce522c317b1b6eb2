package speedtest

import "fmt"

// HostError is a failure talking to the switch. It aborts the run.
type HostError struct {
	Op   string // "connect", "discover", "change-speed", "read"
	Port string // empty for discovery
	Err  error
}

func (e *HostError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("speedtest: %s %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("speedtest: %s: %v", e.Op, e.Err)
}

func (e *HostError) Unwrap() error {
	return e.Err
}
