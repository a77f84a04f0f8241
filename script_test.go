package arbor

import (
	"strings"
	"testing"
)

const sampleScript = `
[[step]]
action = "screenshot"
label = "initial"

[[step]]
action = "move"
node = "panel"
x = 100.0
y = 80.0

[[step]]
action = "wait"
frames = 3

[[step]]
action = "debug"
node = "panel"
on = true
`

func TestLoadScript(t *testing.T) {
	sc, err := LoadScript([]byte(sampleScript))
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.steps) != 4 {
		t.Fatalf("steps = %d, want 4", len(sc.steps))
	}
	if sc.steps[1].Action != "move" || sc.steps[1].Node != "panel" || sc.steps[1].X != 100 {
		t.Errorf("step 2 = %+v", sc.steps[1])
	}
	if sc.steps[2].Frames != 3 {
		t.Errorf("step 3 frames = %d, want 3", sc.steps[2].Frames)
	}
}

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name, doc, want string
	}{
		{"syntax", "[[step]\n", "parse script"},
		{"empty", "", "no steps"},
		{"unknown action", "[[step]]\naction = \"click\"", "unknown action"},
		{"missing node", "[[step]]\naction = \"move\"", "needs a node"},
		{"unknown key", "[[step]]\naction = \"wait\"\nframe = 2", "unknown key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScript([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestScriptRunsAcrossFrames(t *testing.T) {
	s := NewScene()
	panel := NewContainer("panel")
	s.Root().Add(panel)
	sc, err := LoadScript([]byte(sampleScript))
	if err != nil {
		t.Fatal(err)
	}
	s.SetScript(sc)

	// Frame 1: screenshot queued.
	if err := s.update(0.1); err != nil {
		t.Fatal(err)
	}
	if len(s.screenshotQueue) != 1 || s.screenshotQueue[0] != "initial" {
		t.Fatalf("queue = %v, want [initial]", s.screenshotQueue)
	}

	// Frame 2: move.
	if err := s.update(0.1); err != nil {
		t.Fatal(err)
	}
	if panel.Outer.X != 100 || panel.Outer.Y != 80 || !panel.IsDirty() {
		t.Errorf("panel outer = %+v, want moved to (100, 80) and dirty", panel.Outer)
	}

	// Frames 3-5: wait.
	for range 3 {
		if err := s.update(0.1); err != nil {
			t.Fatal(err)
		}
	}
	if panel.Debug {
		t.Fatal("debug step ran before the wait elapsed")
	}

	// Frame 6: debug on, script done.
	if err := s.update(0.1); err != nil {
		t.Fatal(err)
	}
	if !panel.Debug {
		t.Error("debug step should enable the grid")
	}
	if !sc.Done() {
		t.Error("script should be done")
	}
}

func TestScriptMissingNodeFails(t *testing.T) {
	s := NewScene()
	sc, err := LoadScript([]byte("[[step]]\naction = \"rotate\"\nnode = \"ghost\"\nrot = 1.0"))
	if err != nil {
		t.Fatal(err)
	}
	s.SetScript(sc)
	if err := s.update(0.1); err == nil || !strings.Contains(err.Error(), "ghost") {
		t.Errorf("err = %v, want missing node error", err)
	}
	if !sc.Done() {
		t.Error("failed script should stop")
	}
}
