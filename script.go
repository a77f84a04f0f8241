package arbor

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// scriptStep is one action of a frame script.
type scriptStep struct {
	Action string  `toml:"action"`
	Node   string  `toml:"node"`
	Label  string  `toml:"label"`
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	Rot    float64 `toml:"rot"`
	Frames int     `toml:"frames"`
	On     bool    `toml:"on"`
}

type scriptDoc struct {
	Steps []scriptStep `toml:"step"`
}

var scriptActions = map[string]bool{
	"screenshot": true,
	"wait":       true,
	"move":       true,
	"rotate":     true,
	"debug":      true,
}

// Script sequences scene edits and screenshots across frames for automated
// visual checks. Attach it with Scene.SetScript; it advances one step per
// Update.
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a TOML frame script:
//
//	[[step]]
//	action = "screenshot"
//	label = "initial"
//
//	[[step]]
//	action = "move"      # also "rotate" (rot) and "debug" (on)
//	node = "panel"
//	x = 100.0
//	y = 80.0
//
//	[[step]]
//	action = "wait"
//	frames = 3
func LoadScript(data []byte) (*Script, error) {
	var doc scriptDoc
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse script: unknown key %q", undecoded[0].String())
	}
	if len(doc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range doc.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i+1, st.Action)
		}
		switch st.Action {
		case "move", "rotate", "debug":
			if st.Node == "" {
				return nil, fmt.Errorf("parse script: step %d: %s needs a node", i+1, st.Action)
			}
		}
	}
	return &Script{steps: doc.Steps}, nil
}

// SetScript attaches a frame script to the scene. Nil detaches it.
func (s *Scene) SetScript(sc *Script) {
	s.script = sc
}

// Done reports whether every step has run.
func (sc *Script) Done() bool {
	return sc.done
}

// step runs the next action. Called from Scene.update before the update hook.
func (sc *Script) step(s *Scene) error {
	if sc.done {
		return nil
	}
	if sc.waitCount > 0 {
		sc.waitCount--
		return nil
	}
	if sc.cursor >= len(sc.steps) {
		sc.done = true
		return nil
	}

	st := sc.steps[sc.cursor]
	sc.cursor++

	var target *Node
	if st.Node != "" {
		if target = s.root.FindByName(st.Node); target == nil {
			sc.done = true
			return fmt.Errorf("script step %d: no node named %q", sc.cursor, st.Node)
		}
	}

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "move":
		target.SetPosition(st.X, st.Y)
	case "rotate":
		target.SetRotation(st.Rot)
	case "debug":
		target.Debug = st.On
	case "wait":
		if st.Frames > 0 {
			sc.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if sc.cursor >= len(sc.steps) && sc.waitCount == 0 {
		sc.done = true
	}
	return nil
}
