// Package observ summarizes how long the units of a build took.
package observ

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Sample is the time spent on one unit.
type Sample struct {
	Unit   string
	Wave   int
	Dur    time.Duration
	Cached bool
}

// Timer collects samples from concurrently checked units.
type Timer struct {
	mu      sync.Mutex
	started time.Time
	samples []Sample
}

// NewTimer starts a Timer; the wall clock total is measured from here.
func NewTimer() *Timer { return &Timer{started: time.Now(), samples: make([]Sample, 0, 8)} }

func (t *Timer) Record(s Sample) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.samples = append(t.samples, s)
}

// UnitReport is one unit in a Report.
type UnitReport struct {
	Unit       string  `json:"unit"`
	Wave       int     `json:"wave"`
	DurationMS float64 `json:"duration_ms"`
	Cached     bool    `json:"cached,omitempty"`
}

// Report is the serializable form of a Timer. CheckMS sums unit times and
// exceeds WallMS when units ran in parallel.
type Report struct {
	WallMS  float64      `json:"wall_ms"`
	CheckMS float64      `json:"check_ms"`
	Units   []UnitReport `json:"units"`
}

// Report orders samples by wave, then by unit name.
func (t *Timer) Report() Report {
	t.mu.Lock()
	samples := append([]Sample(nil), t.samples...)
	t.mu.Unlock()

	sort.SliceStable(samples, func(i, j int) bool {
		if samples[i].Wave != samples[j].Wave {
			return samples[i].Wave < samples[j].Wave
		}
		return samples[i].Unit < samples[j].Unit
	})
	report := Report{
		WallMS: durationToMillis(time.Since(t.started)),
		Units:  make([]UnitReport, len(samples)),
	}
	var total time.Duration
	for i, s := range samples {
		total += s.Dur
		report.Units[i] = UnitReport{
			Unit:       s.Unit,
			Wave:       s.Wave,
			DurationMS: durationToMillis(s.Dur),
			Cached:     s.Cached,
		}
	}
	report.CheckMS = durationToMillis(total)
	return report
}

// Summary renders the report grouped by wave.
func (t *Timer) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	wave := -1
	for _, u := range report.Units {
		if u.Wave != wave {
			wave = u.Wave
			fmt.Fprintf(&sb, "  wave %d\n", wave)
		}
		fmt.Fprintf(&sb, "    %-24s %8.2f ms", u.Unit, u.DurationMS)
		if u.Cached {
			sb.WriteString("  (cached)")
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "  %-26s %8.2f ms\n", "units", report.CheckMS)
	fmt.Fprintf(&sb, "  %-26s %8.2f ms\n", "wall", report.WallMS)
	return sb.String()
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
