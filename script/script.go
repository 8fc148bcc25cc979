// Package script builds glide sequences from YAML timeline files.
//
// A script names its targets, properties and callbacks; the host supplies
// the actual objects through Bindings:
//
//	id: intro
//	loops: 2
//	loop_type: yoyo
//	steps:
//	  - action: tween
//	    target: hero
//	    duration: 1
//	    ease: OutBack
//	    to: {x: 320, y: 200}
//	  - action: interval
//	    duration: 0.5
//	  - action: callback
//	    name: chime
//	    at: 0.25
package script

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
	"github.com/phanxgames/glide"
	"gopkg.in/yaml.v3"
)

// Step is one timeline entry. Action selects which fields apply.
type Step struct {
	Action   string             `yaml:"action"` // tween, interval or callback
	At       *float64           `yaml:"at,omitempty"`
	Prepend  bool               `yaml:"prepend,omitempty"`
	ID       string             `yaml:"id,omitempty"`
	Target   string             `yaml:"target,omitempty"`
	Duration float64            `yaml:"duration,omitempty"`
	Ease     string             `yaml:"ease,omitempty"`
	To       map[string]float64 `yaml:"to,omitempty"`
	From     bool               `yaml:"from,omitempty"`
	Relative bool               `yaml:"relative,omitempty"`
	Loops    int                `yaml:"loops,omitempty"`
	LoopType string             `yaml:"loop_type,omitempty"`
	Delay    float64            `yaml:"delay,omitempty"`
	Name     string             `yaml:"name,omitempty"` // callback name
}

// Script is the top-level YAML document.
type Script struct {
	ID       string  `yaml:"id,omitempty"`
	Loops    int     `yaml:"loops,omitempty"`
	LoopType string  `yaml:"loop_type,omitempty"`
	Delay    float64 `yaml:"delay,omitempty"`
	Steps    []Step  `yaml:"steps"`
}

// Bindings resolves the names used in a script.
type Bindings struct {
	Targets    map[string]any
	Properties map[string]glide.Property[float64]
	Callbacks  map[string]func()
}

// Parse decodes and validates a script. Unknown keys are rejected. A script
// without an id gets a random one.
func Parse(data []byte) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("parse script %s: %w", s.ID, err)
	}
	return &s, nil
}

// ParseFile reads and parses the script at path.
func ParseFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Parse(data)
}

// Marshal encodes the script back to YAML.
func (s *Script) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal script: %w", err)
	}
	return data, nil
}

var actions = []string{"tween", "interval", "callback"}

func (s *Script) validate() error {
	if s.LoopType != "" {
		if _, err := glide.ParseLoopType(s.LoopType); err != nil {
			return err
		}
	}
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

func (st *Step) validate() error {
	switch st.Action {
	case "tween":
		if st.Target == "" {
			return fmt.Errorf("tween needs a target")
		}
		if len(st.To) == 0 {
			return fmt.Errorf("tween needs at least one property in to")
		}
		if st.Duration < 0 {
			return fmt.Errorf("negative duration %g", st.Duration)
		}
		if st.Ease != "" {
			if _, ok := glide.EaseByName(st.Ease); !ok {
				if hint, found := glide.SuggestEase(st.Ease); found {
					return fmt.Errorf("unknown ease %q (did you mean %q?)", st.Ease, hint)
				}
				return fmt.Errorf("unknown ease %q", st.Ease)
			}
		}
		if st.LoopType != "" {
			if _, err := glide.ParseLoopType(st.LoopType); err != nil {
				return err
			}
		}
	case "interval":
		if st.Duration <= 0 {
			return fmt.Errorf("interval needs a positive duration")
		}
	case "callback":
		if st.Name == "" {
			return fmt.Errorf("callback needs a name")
		}
	default:
		return fmt.Errorf("unknown action %q%s", st.Action, hint(st.Action, actions))
	}
	if st.At != nil && st.Prepend {
		return fmt.Errorf("at and prepend are exclusive")
	}
	return nil
}

// Build creates a sequence on e holding every step of s. The sequence is
// registered and starts on the next Engine.Update. On error nothing is left
// registered.
func Build(e *glide.Engine, s *Script, b Bindings) (*glide.Sequence, error) {
	p := e.Params()
	p.ID = s.ID
	p.Delay = s.Delay
	if s.Loops != 0 {
		p.Loops = s.Loops
	}
	if s.LoopType != "" {
		lt, err := glide.ParseLoopType(s.LoopType)
		if err != nil {
			return nil, fmt.Errorf("build script %s: %w", s.ID, err)
		}
		p.LoopType = lt
	}

	seq := e.NewSequence(p)
	for i := range s.Steps {
		if err := addStep(e, seq, &s.Steps[i], b); err != nil {
			seq.Kill()
			return nil, fmt.Errorf("build script %s: step %d: %w", s.ID, i, err)
		}
	}
	return seq, nil
}

func addStep(e *glide.Engine, seq *glide.Sequence, st *Step, b Bindings) error {
	switch st.Action {
	case "tween":
		tw, err := buildTween(e, st, b)
		if err != nil {
			return err
		}
		switch {
		case st.At != nil:
			seq.Insert(*st.At, tw)
		case st.Prepend:
			seq.Prepend(tw)
		default:
			seq.Append(tw)
		}
	case "interval":
		if st.Prepend {
			seq.PrependInterval(st.Duration)
		} else {
			seq.AppendInterval(st.Duration)
		}
	case "callback":
		fn, ok := b.Callbacks[st.Name]
		if !ok {
			return fmt.Errorf("unknown callback %q%s", st.Name, hint(st.Name, keys(b.Callbacks)))
		}
		if st.At != nil {
			seq.InsertCallback(*st.At, fn)
		} else {
			seq.AppendCallback(fn)
		}
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

func buildTween(e *glide.Engine, st *Step, b Bindings) (*glide.Tween, error) {
	target, ok := b.Targets[st.Target]
	if !ok {
		return nil, fmt.Errorf("unknown target %q%s", st.Target, hint(st.Target, keys(b.Targets)))
	}

	// Sorted so plugin order does not depend on map iteration.
	names := keys(st.To)
	plugins := make([]glide.ValuePlugin, 0, len(names))
	for _, name := range names {
		prop, ok := b.Properties[name]
		if !ok {
			return nil, fmt.Errorf("unknown property %q%s", name, hint(name, keys(b.Properties)))
		}
		pl := glide.FloatTo(prop, st.To[name])
		if st.From {
			pl.From()
		}
		if st.Relative {
			pl.Relative()
		}
		plugins = append(plugins, pl)
	}

	p := e.Params()
	p.ID = st.ID
	p.Ease = st.Ease
	p.Delay = st.Delay
	if st.Loops != 0 {
		p.Loops = st.Loops
	}
	if st.LoopType != "" {
		lt, err := glide.ParseLoopType(st.LoopType)
		if err != nil {
			return nil, err
		}
		p.LoopType = lt
	}
	tw := e.To(target, st.Duration, p, plugins...)
	if tw == nil {
		return nil, fmt.Errorf("target %q rejected every property", st.Target)
	}
	return tw, nil
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// hint suggests the closest candidate within two edits.
func hint(name string, candidates []string) string {
	best, bestDist := "", 3
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}
