package script

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phanxgames/glide"
)

type hero struct{ X, Y float64 }

func bindings(h *hero, calls map[string]int) Bindings {
	return Bindings{
		Targets: map[string]any{"hero": h},
		Properties: map[string]glide.Property[float64]{
			"x": {
				Name: "x",
				Get:  func(t any) float64 { return t.(*hero).X },
				Set:  func(t any, v float64) { t.(*hero).X = v },
			},
			"y": {
				Name: "y",
				Get:  func(t any) float64 { return t.(*hero).Y },
				Set:  func(t any, v float64) { t.(*hero).Y = v },
			},
		},
		Callbacks: map[string]func(){
			"chime": func() { calls["chime"]++ },
			"flash": func() { calls["flash"]++ },
		},
	}
}

func newEngine() *glide.Engine {
	e := glide.New()
	e.SetLogOutput(nil)
	return e
}

const intro = `
id: intro
steps:
  - action: tween
    target: hero
    duration: 1
    ease: Linear
    to: {x: 10, y: 20}
  - action: callback
    name: chime
  - action: tween
    target: hero
    duration: 1
    ease: Linear
    to: {x: 0}
  - action: callback
    name: flash
    at: 0.5
`

func TestBuildRunsTimeline(t *testing.T) {
	s, err := Parse([]byte(intro))
	if err != nil {
		t.Fatal(err)
	}
	e := newEngine()
	h := &hero{}
	calls := map[string]int{}
	seq, err := Build(e, s, bindings(h, calls))
	if err != nil {
		t.Fatal(err)
	}
	if seq.ID != "intro" || seq.Duration() != 2 || seq.Len() != 4 {
		t.Fatalf("sequence %q: duration %f, %d items", seq.ID, seq.Duration(), seq.Len())
	}

	e.Update(glide.UpdateNormal, 1.5)
	if math.Abs(h.X-5) > 1e-6 || h.Y != 20 {
		t.Errorf("hero = %+v, want X=5 Y=20", *h)
	}
	if calls["chime"] != 1 || calls["flash"] != 1 {
		t.Errorf("calls = %v", calls)
	}
	e.Update(glide.UpdateNormal, 1)
	if !seq.IsDestroyed() || h.X != 0 {
		t.Errorf("sequence should finish and auto-kill, X = %f", h.X)
	}
}

func TestBuildLoopsAndFlags(t *testing.T) {
	s, err := Parse([]byte(`
loops: 2
loop_type: yoyo
steps:
  - action: tween
    target: hero
    duration: 1
    ease: Linear
    relative: true
    to: {x: 5}
  - action: interval
    duration: 1
    prepend: true
`))
	if err != nil {
		t.Fatal(err)
	}
	e := newEngine()
	h := &hero{X: 100}
	seq, err := Build(e, s, bindings(h, map[string]int{}))
	if err != nil {
		t.Fatal(err)
	}
	if seq.Loops() != 2 || seq.LoopType() != glide.LoopYoyo || seq.Duration() != 2 {
		t.Fatalf("loops %d, type %v, duration %f", seq.Loops(), seq.LoopType(), seq.Duration())
	}
	seq.Update(2)
	if h.X != 105 {
		t.Errorf("X = %f at the turn, want 105", h.X)
	}
	seq.Update(2)
	if h.X != 100 {
		t.Errorf("X = %f after the yoyo, want 100", h.X)
	}
}

func TestParseGeneratesID(t *testing.T) {
	s, err := Parse([]byte("steps:\n  - action: interval\n    duration: 1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(s.ID); err != nil {
		t.Errorf("generated id %q is not a uuid: %v", s.ID, err)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", "id: x\n", "no steps"},
		{"unknown field", "steps:\n  - action: interval\n    duraton: 1\n", "duraton"},
		{"action typo", "steps:\n  - action: tweem\n", `did you mean "tween"?`},
		{"ease typo", "steps:\n  - action: tween\n    target: hero\n    ease: OutBounse\n    to: {x: 1}\n", `did you mean "OutBounce"?`},
		{"loop type", "loop_type: sideways\nsteps:\n  - action: interval\n    duration: 1\n", "sideways"},
		{"empty interval", "steps:\n  - action: interval\n", "positive duration"},
		{"no properties", "steps:\n  - action: tween\n    target: hero\n", "at least one property"},
		{"at and prepend", "steps:\n  - action: callback\n    name: chime\n    at: 1\n    prepend: true\n", "exclusive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestBuildUnknownBindings(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"target", "steps:\n  - action: tween\n    target: hreo\n    to: {x: 1}\n", `unknown target "hreo" (did you mean "hero"?)`},
		{"property", "steps:\n  - action: tween\n    target: hero\n    to: {z: 1}\n", `unknown property "z"`},
		{"callback", "steps:\n  - action: tween\n    target: hero\n    duration: 1\n    to: {x: 1}\n  - action: callback\n    name: chim\n", `did you mean "chime"?`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse([]byte(tt.doc))
			if err != nil {
				t.Fatal(err)
			}
			e := newEngine()
			_, err = Build(e, s, bindings(&hero{}, map[string]int{}))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
			if n := e.Count(glide.All()); n != 0 {
				t.Errorf("failed build left %d units registered", n)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intro.yaml")
	if err := os.WriteFile(path, []byte(intro), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data, err := s.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	again, err := Parse(data)
	if err != nil {
		t.Fatalf("re-parse: %v\n%s", err, data)
	}
	if again.ID != "intro" || len(again.Steps) != 4 || *again.Steps[3].At != 0.5 {
		t.Errorf("re-parsed script differs: %+v", again)
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}
