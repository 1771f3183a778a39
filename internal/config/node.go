package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fdmsim/internal/dynamo"
	"github.com/san-kum/fdmsim/internal/geom"
)

var (
	// ErrMissingField indicates a required field is absent.
	ErrMissingField = fmt.Errorf("%w: missing field", dynamo.ErrConfiguration)

	// ErrInvalidValue indicates a field that cannot be decoded or is out of
	// physical range.
	ErrInvalidValue = fmt.Errorf("%w: invalid value", dynamo.ErrConfiguration)
)

// Node is a read-only view of one mapping in an aircraft data tree. Typed
// accessors never invent defaults: a missing field is an error unless the
// caller asks for an explicit fallback with one of the Or variants.
type Node struct {
	path string
	n    *yaml.Node
}

// Parse decodes a YAML document into its root node.
func Parse(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(ErrInvalidValue, "parse data tree: %v", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, errors.Wrap(ErrMissingField, "empty data tree")
		}
		root = root.Content[0]
	}
	root = resolve(root)
	if root.Kind != yaml.MappingNode {
		return nil, errors.Wrap(ErrInvalidValue, "data tree root must be a mapping")
	}
	return &Node{path: "", n: root}, nil
}

// LoadNode reads and parses a data file.
func LoadNode(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func (n *Node) Path() string {
	if n.path == "" {
		return "/"
	}
	return n.path
}

func (n *Node) fieldPath(name string) string {
	return n.path + "/" + name
}

func (n *Node) lookup(name string) *yaml.Node {
	for i := 0; i+1 < len(n.n.Content); i += 2 {
		if n.n.Content[i].Value == name {
			return resolve(n.n.Content[i+1])
		}
	}
	return nil
}

func (n *Node) Has(name string) bool {
	return n.lookup(name) != nil
}

// Keys returns the mapping keys in document order.
func (n *Node) Keys() []string {
	keys := make([]string, 0, len(n.n.Content)/2)
	for i := 0; i+1 < len(n.n.Content); i += 2 {
		keys = append(keys, n.n.Content[i].Value)
	}
	return keys
}

// Child returns the mapping stored under name.
func (n *Node) Child(name string) (*Node, error) {
	v := n.lookup(name)
	if v == nil {
		return nil, errors.Wrap(ErrMissingField, n.fieldPath(name))
	}
	if v.Kind != yaml.MappingNode {
		return nil, errors.Wrapf(ErrInvalidValue, "%s: expected mapping", n.fieldPath(name))
	}
	return &Node{path: n.fieldPath(name), n: v}, nil
}

// Children returns the mappings of the sequence stored under name. An
// absent field yields no children.
func (n *Node) Children(name string) ([]*Node, error) {
	v := n.lookup(name)
	if v == nil {
		return nil, nil
	}
	if v.Kind != yaml.SequenceNode {
		return nil, errors.Wrapf(ErrInvalidValue, "%s: expected sequence", n.fieldPath(name))
	}
	out := make([]*Node, 0, len(v.Content))
	for i, c := range v.Content {
		c = resolve(c)
		p := fmt.Sprintf("%s[%d]", n.fieldPath(name), i)
		if c.Kind != yaml.MappingNode {
			return nil, errors.Wrapf(ErrInvalidValue, "%s: expected mapping", p)
		}
		out = append(out, &Node{path: p, n: c})
	}
	return out, nil
}

func (n *Node) scalar(name string) (*yaml.Node, error) {
	v := n.lookup(name)
	if v == nil {
		return nil, errors.Wrap(ErrMissingField, n.fieldPath(name))
	}
	if v.Kind != yaml.ScalarNode {
		return nil, errors.Wrapf(ErrInvalidValue, "%s: expected scalar", n.fieldPath(name))
	}
	return v, nil
}

func (n *Node) String(name string) (string, error) {
	v, err := n.scalar(name)
	if err != nil {
		return "", err
	}
	return v.Value, nil
}

func (n *Node) StringOr(name, def string) (string, error) {
	if !n.Has(name) {
		return def, nil
	}
	return n.String(name)
}

func parseFloat(path, s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidValue, "%s: %q is not a number", path, s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.Wrapf(ErrInvalidValue, "%s: non-finite value", path)
	}
	return f, nil
}

func (n *Node) Float(name string) (float64, error) {
	v, err := n.scalar(name)
	if err != nil {
		return 0, err
	}
	return parseFloat(n.fieldPath(name), v.Value)
}

// FloatOr returns def when name is absent. A present but malformed value is
// still an error.
func (n *Node) FloatOr(name string, def float64) (float64, error) {
	if !n.Has(name) {
		return def, nil
	}
	return n.Float(name)
}

// PositiveFloat reads a required value that must be strictly positive.
func (n *Node) PositiveFloat(name string) (float64, error) {
	f, err := n.Float(name)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, errors.Wrapf(ErrInvalidValue, "%s: must be positive, got %v", n.fieldPath(name), f)
	}
	return f, nil
}

func (n *Node) Bool(name string) (bool, error) {
	v, err := n.scalar(name)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.Value))
	if err != nil {
		return false, errors.Wrapf(ErrInvalidValue, "%s: %q is not a boolean", n.fieldPath(name), v.Value)
	}
	return b, nil
}

func (n *Node) BoolOr(name string, def bool) (bool, error) {
	if !n.Has(name) {
		return def, nil
	}
	return n.Bool(name)
}

// Floats reads exactly count numbers stored either as a YAML sequence or as
// a whitespace separated scalar.
func (n *Node) Floats(name string, count int) ([]float64, error) {
	v := n.lookup(name)
	if v == nil {
		return nil, errors.Wrap(ErrMissingField, n.fieldPath(name))
	}
	p := n.fieldPath(name)

	var raw []string
	switch v.Kind {
	case yaml.SequenceNode:
		for _, c := range v.Content {
			c = resolve(c)
			if c.Kind != yaml.ScalarNode {
				return nil, errors.Wrapf(ErrInvalidValue, "%s: expected numbers", p)
			}
			raw = append(raw, c.Value)
		}
	case yaml.ScalarNode:
		raw = strings.Fields(v.Value)
	default:
		return nil, errors.Wrapf(ErrInvalidValue, "%s: expected numbers", p)
	}

	if len(raw) != count {
		return nil, errors.Wrapf(ErrInvalidValue, "%s: expected %d values, got %d", p, count, len(raw))
	}
	out := make([]float64, count)
	for i, s := range raw {
		f, err := parseFloat(p, s)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func (n *Node) Vector3(name string) (r3.Vector, error) {
	f, err := n.Floats(name, 3)
	if err != nil {
		return r3.Vector{}, err
	}
	return r3.Vector{X: f[0], Y: f[1], Z: f[2]}, nil
}

func (n *Node) Vector3Or(name string, def r3.Vector) (r3.Vector, error) {
	if !n.Has(name) {
		return def, nil
	}
	return n.Vector3(name)
}

// Matrix3 reads nine row-major values.
func (n *Node) Matrix3(name string) (geom.Matrix3, error) {
	f, err := n.Floats(name, 9)
	if err != nil {
		return geom.Matrix3{}, err
	}
	var v [9]float64
	copy(v[:], f)
	return geom.NewMatrix3(v), nil
}
