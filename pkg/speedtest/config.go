package speedtest

import (
	"fmt"

	"github.com/newtron-network/portspeed/pkg/util"
)

// Defaults for a SONiC switch. Port records live in APPL_DB (DB 0).
const (
	DefaultMaxLaneSpeed = 25000
	DefaultDB           = 0
	DefaultPortPattern  = "*PORT*"
)

// DefaultLaneSpeeds are the per-lane speeds tried on every port, in order.
var DefaultLaneSpeeds = []int{10000, 25000}

// DefaultExcludedSpeeds are aggregate speeds known to be invalid.
var DefaultExcludedSpeeds = []int{20000}

// Config controls which speeds are exercised and where ports are read from.
type Config struct {
	MaxLaneSpeed   int
	LaneSpeeds     []int
	ExcludedSpeeds []int
	DB             int
	PortPattern    string
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		MaxLaneSpeed:   DefaultMaxLaneSpeed,
		LaneSpeeds:     append([]int(nil), DefaultLaneSpeeds...),
		ExcludedSpeeds: append([]int(nil), DefaultExcludedSpeeds...),
		DB:             DefaultDB,
		PortPattern:    DefaultPortPattern,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.MaxLaneSpeed <= 0 {
		return util.NewConfigError("max_lane_speed", fmt.Sprintf("%d is not positive", c.MaxLaneSpeed))
	}
	if len(c.LaneSpeeds) == 0 {
		return util.NewConfigError("lane_speeds", "at least one lane speed is required")
	}
	for _, s := range c.LaneSpeeds {
		if s <= 0 {
			return util.NewConfigError("lane_speeds", fmt.Sprintf("%d is not positive", s))
		}
	}
	if c.DB < 0 {
		return util.NewConfigError("db", fmt.Sprintf("%d is negative", c.DB))
	}
	if c.PortPattern == "" {
		return util.NewConfigError("port_pattern", "must not be empty")
	}
	return nil
}

// Candidate is one speed to try on a port.
type Candidate struct {
	LaneSpeed  int
	Speed      int    // lanes × lane speed
	SkipReason string // non-empty when the candidate is not applied
}

// Candidates returns one candidate per configured lane speed for a port
// with the given number of lanes. Lane speeds above the ceiling and excluded
// aggregate speeds are marked skipped.
func (c Config) Candidates(lanes int) []Candidate {
	out := make([]Candidate, 0, len(c.LaneSpeeds))
	for _, ls := range c.LaneSpeeds {
		cand := Candidate{LaneSpeed: ls, Speed: lanes * ls}
		switch {
		case ls > c.MaxLaneSpeed:
			cand.SkipReason = fmt.Sprintf("lane speed %d exceeds max lane speed %d", ls, c.MaxLaneSpeed)
		case c.excluded(cand.Speed):
			cand.SkipReason = fmt.Sprintf("speed %d is excluded", cand.Speed)
		}
		out = append(out, cand)
	}
	return out
}

func (c Config) excluded(speed int) bool {
	for _, s := range c.ExcludedSpeeds {
		if s == speed {
			return true
		}
	}
	return false
}
