package speedtest

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Status is the outcome of one port/speed combination.
type Status string

const (
	StatusPassed  Status = "PASS"
	StatusFailed  Status = "FAIL"
	StatusSkipped Status = "SKIP"
	StatusError   Status = "ERROR"
)

// Result is the outcome of one port/speed combination.
type Result struct {
	Port      string
	LaneSpeed int
	Speed     int
	Status    Status
	Message   string
	Duration  time.Duration
}

// Report collects everything a run did.
type Report struct {
	Config   Config
	Ports    []Port
	Results  []Result
	Failures []string
	Duration time.Duration
}

// Count returns how many results have status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Summary returns a one-line tally, e.g. "3 passed, 1 failed, 2 skipped".
func (r *Report) Summary() string {
	s := fmt.Sprintf("%d passed, %d failed, %d skipped",
		r.Count(StatusPassed), r.Count(StatusFailed), r.Count(StatusSkipped))
	if n := r.Count(StatusError); n > 0 {
		s += fmt.Sprintf(", %d errored", n)
	}
	return s
}

// WriteJUnit writes a JUnit XML report for CI integration. Each port is a
// test suite and each candidate speed a test case.
func (r *Report) WriteJUnit(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	suites := junitTestSuites{}
	index := map[string]int{}

	for _, res := range r.Results {
		i, ok := index[res.Port]
		if !ok {
			i = len(suites.Suites)
			index[res.Port] = i
			suites.Suites = append(suites.Suites, junitTestSuite{Name: res.Port})
		}
		suite := &suites.Suites[i]
		suite.Tests++
		suite.Time += res.Duration.Seconds()

		tc := junitTestCase{
			Name:      fmt.Sprintf("speed %d (lane %d)", res.Speed, res.LaneSpeed),
			ClassName: res.Port,
			Time:      res.Duration.Seconds(),
		}
		switch res.Status {
		case StatusFailed:
			suite.Failures++
			tc.Failure = &junitFailure{Message: res.Message, Type: "assertion"}
		case StatusSkipped:
			suite.Skipped++
			tc.Skipped = &junitSkipped{Message: res.Message}
		case StatusError:
			suite.Errors++
			tc.Error = &junitError{Message: res.Message, Type: "host"}
		}
		suite.Cases = append(suite.Cases, tc)
	}

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, append([]byte(xml.Header), data...), 0o644)
}

// JUnit XML types

type junitTestSuites struct {
	XMLName xml.Name         `xml:"testsuites"`
	Suites  []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Errors   int             `xml:"errors,attr"`
	Skipped  int             `xml:"skipped,attr"`
	Time     float64         `xml:"time,attr"`
	Cases    []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
	Error     *junitError   `xml:"error,omitempty"`
	Skipped   *junitSkipped `xml:"skipped,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
}

type junitError struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
}

type junitSkipped struct {
	Message string `xml:"message,attr"`
}
