package ui

import (
	"strings"
	"testing"

	"github.com/slaakko/cmajor-sub007/internal/driver"
)

func TestApplyEventTracksUnits(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("build demo", []string{"core", "app", "tools"}, events).(*progressModel)

	m.applyEvent(driver.Event{Unit: "core", Stage: driver.StageBind, Status: driver.StatusWorking})
	if got := m.items[0].status; got != "binding" {
		t.Fatalf("core status = %q", got)
	}
	m.applyEvent(driver.Event{Unit: "core", Stage: driver.StageExport, Status: driver.StatusDone})
	m.applyEvent(driver.Event{Unit: "app", Stage: driver.StageExport, Status: driver.StatusCached})
	m.applyEvent(driver.Event{Unit: "tools", Stage: driver.StageExport, Status: driver.StatusError})
	m.applyEvent(driver.Event{Unit: "unknown", Stage: driver.StageBind, Status: driver.StatusWorking})

	if got := m.summary(); got != "3/3 units, 1 cached, 1 failed" {
		t.Fatalf("summary = %q", got)
	}
	view := m.View()
	for _, want := range []string{"build demo", "core", "cached", "error"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view misses %q:\n%s", want, view)
		}
	}
}

func TestBuildStageLabel(t *testing.T) {
	m := NewProgressModel("build", []string{"core"}, nil).(*progressModel)
	m.applyEvent(driver.Event{Stage: driver.StageLoad, Status: driver.StatusWorking})
	if m.stageLabel != "loading" {
		t.Fatalf("stage label = %q", m.stageLabel)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"core", 10, "core"},
		{"collections.sequence", 10, "coll..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
