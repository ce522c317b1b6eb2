package speedtest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/newtron-network/portspeed/pkg/util"
)

// Runner exercises every candidate speed on every up port of one switch.
type Runner struct {
	host Host
	cfg  Config
}

// NewRunner creates a runner for host.
func NewRunner(host Host, cfg Config) *Runner {
	return &Runner{host: host, cfg: cfg}
}

// Run discovers the up ports, applies each candidate speed, and checks that
// the port stays up at the new speed. Failed checks do not stop the run;
// they are returned together as a *util.FailureError. Host errors abort the
// run with a *HostError. Either way every discovered port is set back to
// its original speed before Run returns.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{Config: r.cfg}

	if err := r.cfg.Validate(); err != nil {
		return report, err
	}

	ports, err := DiscoverPorts(ctx, r.host, r.cfg.DB, r.cfg.PortPattern)
	if err != nil {
		return report, &HostError{Op: "discover", Err: err}
	}
	report.Ports = ports
	util.Infof("Discovered %d up ports", len(ports))

	err = r.exercise(ctx, report)

	r.restore(context.WithoutCancel(ctx), ports)
	report.Duration = time.Since(start)
	return report, err
}

func (r *Runner) exercise(ctx context.Context, report *Report) error {
	var failures util.FailureLog

	for _, port := range report.Ports {
		for _, cand := range r.cfg.Candidates(port.LanesQty) {
			if cand.SkipReason != "" {
				util.WithPort(port.Name, cand.Speed).Debugf("Skipping: %s", cand.SkipReason)
				report.Results = append(report.Results, Result{
					Port:      port.Name,
					LaneSpeed: cand.LaneSpeed,
					Speed:     cand.Speed,
					Status:    StatusSkipped,
					Message:   cand.SkipReason,
				})
				continue
			}

			res, err := r.apply(ctx, port, cand)
			report.Results = append(report.Results, res)
			if err != nil {
				report.Failures = failures.Failures()
				return err
			}
			if res.Status == StatusFailed {
				failures.Addf("Port: %s, speed: %d: %s", port.Name, cand.Speed, res.Message)
			}
		}
	}

	report.Failures = failures.Failures()
	return failures.Build()
}

// apply sets one candidate speed and verifies it.
func (r *Runner) apply(ctx context.Context, port Port, cand Candidate) (Result, error) {
	start := time.Now()
	res := Result{Port: port.Name, LaneSpeed: cand.LaneSpeed, Speed: cand.Speed}
	log := util.WithPort(port.Name, cand.Speed)

	log.Infof("Test for %s with speed: %d", port.Name, cand.Speed)
	if err := ChangeSpeed(ctx, r.host, port.Name, cand.Speed); err != nil {
		res.Status = StatusError
		res.Message = err.Error()
		res.Duration = time.Since(start)
		return res, &HostError{Op: "change-speed", Port: port.Name, Err: err}
	}

	state, err := ReadPortState(ctx, r.host, r.cfg.DB, port.Name)
	if err != nil {
		res.Status = StatusError
		res.Message = err.Error()
		res.Duration = time.Since(start)
		return res, &HostError{Op: "read", Port: port.Name, Err: err}
	}

	res.Duration = time.Since(start)
	if detail := verify(state, cand.Speed); detail != "" {
		log.Warnf("Check failed: %s", detail)
		res.Status = StatusFailed
		res.Message = detail
		return res, nil
	}
	res.Status = StatusPassed
	return res, nil
}

// verify checks, in order, oper status, admin status and speed, and
// describes the first one that does not hold. It returns "" when all hold.
func verify(state PortState, speed int) string {
	if state.OperStatus != StatusUp {
		return fmt.Sprintf("oper_status is %q, want %q", state.OperStatus, StatusUp)
	}
	if state.AdminStatus != StatusUp {
		return fmt.Sprintf("admin_status is %q, want %q", state.AdminStatus, StatusUp)
	}
	got, err := strconv.Atoi(strings.TrimSpace(state.Speed))
	if err != nil {
		return fmt.Sprintf("speed %q is not a number", state.Speed)
	}
	if got != speed {
		return fmt.Sprintf("speed is %d, want %d", got, speed)
	}
	return ""
}

// restore sets every port back to the speed it had at discovery. Errors are
// logged and the result is not checked.
func (r *Runner) restore(ctx context.Context, ports []Port) {
	for _, port := range ports {
		if err := ChangeSpeed(ctx, r.host, port.Name, port.Speed); err != nil {
			util.WithPort(port.Name, port.Speed).Warnf("Failed to restore speed: %v", err)
			continue
		}
		util.WithPort(port.Name, port.Speed).Debug("Speed restored")
	}
}
