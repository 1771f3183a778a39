package config

import (
	"errors"
	"testing"

	"github.com/golang/geo/r3"

	"github.com/san-kum/fdmsim/internal/dynamo"
)

const testTree = `
name: test
mass:
  empty_mass: 680
  center_of_mass: [0.1, 0, 0.2]
  inertia_tensor: "600 0 0  0 1800 0  0 0 1500"
  variable_mass:
    - name: fuel
      mass_max: 130
      coordinates: [0.2, 0, -0.3]
    - name: pilot
      mass_max: 120
      coordinates: "1.0 0.3 0.1"
flags:
  enabled: true
bad:
  value: abc
  short: [1, 2]
  inf: .inf
`

func mustParse(t *testing.T) *Node {
	t.Helper()
	root, err := Parse([]byte(testTree))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return root
}

func TestNode_Navigate(t *testing.T) {
	root := mustParse(t)

	mass, err := root.Child("mass")
	if err != nil {
		t.Fatalf("child: %v", err)
	}
	if mass.Path() != "/mass" {
		t.Errorf("unexpected path %s", mass.Path())
	}

	m, err := mass.PositiveFloat("empty_mass")
	if err != nil || m != 680 {
		t.Errorf("empty_mass: %v %v", m, err)
	}

	cm, err := mass.Vector3("center_of_mass")
	if err != nil || cm != (r3.Vector{X: 0.1, Y: 0, Z: 0.2}) {
		t.Errorf("center_of_mass: %v %v", cm, err)
	}

	it, err := mass.Matrix3("inertia_tensor")
	if err != nil {
		t.Fatalf("inertia_tensor: %v", err)
	}
	if it[1][1] != 1800 || it[0][1] != 0 {
		t.Errorf("unexpected tensor %v", it)
	}

	vms, err := mass.Children("variable_mass")
	if err != nil || len(vms) != 2 {
		t.Fatalf("variable_mass: %d %v", len(vms), err)
	}
	name, _ := vms[1].String("name")
	if name != "pilot" {
		t.Errorf("expected pilot, got %s", name)
	}
	r, err := vms[1].Vector3("coordinates")
	if err != nil || r.Y != 0.3 {
		t.Errorf("coordinates: %v %v", r, err)
	}
}

func TestNode_Defaults(t *testing.T) {
	root := mustParse(t)

	v, err := root.FloatOr("absent", 2.5)
	if err != nil || v != 2.5 {
		t.Errorf("FloatOr: %v %v", v, err)
	}
	b, err := root.BoolOr("absent", true)
	if err != nil || !b {
		t.Errorf("BoolOr: %v %v", b, err)
	}
	flags, _ := root.Child("flags")
	if b, err := flags.Bool("enabled"); err != nil || !b {
		t.Errorf("Bool: %v %v", b, err)
	}
	kids, err := root.Children("absent")
	if err != nil || kids != nil {
		t.Errorf("absent children should be empty, got %v %v", kids, err)
	}
}

func TestNode_Errors(t *testing.T) {
	root := mustParse(t)
	bad, _ := root.Child("bad")

	tests := []struct {
		name string
		fn   func() error
		want error
	}{
		{"missing", func() error { _, err := root.Float("absent"); return err }, ErrMissingField},
		{"not a number", func() error { _, err := bad.Float("value"); return err }, ErrInvalidValue},
		{"malformed fallback", func() error { _, err := bad.FloatOr("value", 1); return err }, ErrInvalidValue},
		{"short vector", func() error { _, err := bad.Vector3("short"); return err }, ErrInvalidValue},
		{"non-finite", func() error { _, err := bad.Float("inf"); return err }, ErrInvalidValue},
		{"not positive", func() error { _, err := root.PositiveFloat("name"); return err }, ErrInvalidValue},
		{"scalar child", func() error { _, err := root.Child("name"); return err }, ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, dynamo.ErrConfiguration) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, doc := range []string{"", "- a\n- b\n", "a: [\n"} {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("expected error for %q", doc)
		}
	}
}
