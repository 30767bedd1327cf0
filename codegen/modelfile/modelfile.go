// Package modelfile loads model descriptions written in YAML and expands them
// into an ir.Model.
//
// A description lists nodes in insertion order. A node with a size expands
// into that many vector elements; the token {i} in its prior parameters is
// replaced by the element index. Numeric parameters are emitted as floating
// point literals, string parameters are spliced verbatim.
package modelfile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/dnest4/modelgen/codegen/ir"
	"github.com/dnest4/modelgen/codegen/naming"
	"github.com/dnest4/modelgen/codegen/prior"
)

const indexToken = "{i}"

type (
	// Document is the decoded form of a model description.
	Document struct {
		Name  string     `yaml:"name"`
		Nodes []NodeSpec `yaml:"nodes"`
	}

	// NodeSpec describes one scalar node or one vector.
	NodeSpec struct {
		Name   string     `yaml:"name"`
		Role   string     `yaml:"role"`
		Index  *int       `yaml:"index"`
		Size   int        `yaml:"size"`
		Value  *float64   `yaml:"value"`
		Values []float64  `yaml:"values"`
		Prior  *PriorSpec `yaml:"prior"`
	}

	// PriorSpec names a prior family and its parameters.
	PriorSpec struct {
		Family string  `yaml:"family"`
		Params []Param `yaml:"params"`
	}

	// Param is a prior parameter as written in the description.
	Param struct {
		prior.Param
	}

	// Description is a loaded model ready for generation.
	Description struct {
		// Class is the generated class name.
		Class string
		// Model holds the expanded nodes.
		Model *ir.Model
	}
)

// ErrUnknownFamily indicates a prior family missing from the registry.
var ErrUnknownFamily = errors.New("unknown prior family")

//go:embed schema.json
var schemaJSON []byte

//go:embed example.yaml
var exampleYAML []byte

// Example returns the linear regression description shipped with the tool.
func Example() []byte {
	return bytes.Clone(exampleYAML)
}

// UnmarshalYAML keeps the text of string parameters and turns numbers into
// floating point literals.
func (p *Param) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: prior parameter must be a scalar", n.Line)
	}
	switch n.ShortTag() {
	case "!!int", "!!float":
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		p.Param = prior.Const(v)
	default:
		p.Param = prior.Expr(n.Value)
	}
	return nil
}

// Load reads, validates and expands the description stored at path.
func Load(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model description: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse validates and expands a YAML description.
func Parse(data []byte) (*Description, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode model description: %w", err)
	}
	m, err := doc.Build()
	if err != nil {
		return nil, err
	}
	return &Description{Class: naming.ClassName(doc.Name), Model: m}, nil
}

// Validate checks data against the description schema.
func Validate(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode model description: %w", err)
	}
	// Round trip through JSON so numbers and maps take the JSON shapes the
	// validator expects.
	js, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("normalize model description: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(js))
	if err != nil {
		return fmt.Errorf("normalize model description: %w", err)
	}

	schema, err := compileSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("invalid model description: %w", err)
	}
	return nil
}

func compileSchema() (*jsonschema.Schema, error) {
	var doc any
	if err := json.Unmarshal(schemaJSON, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("model.json", doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := c.Compile("model.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// Build expands the document into a model, in document order.
func (d *Document) Build() (*ir.Model, error) {
	m := ir.NewModel()
	for i, spec := range d.Nodes {
		if err := spec.add(m); err != nil {
			return nil, fmt.Errorf("node %d (%s): %w", i, spec.Name, err)
		}
	}
	return m, nil
}

func (s *NodeSpec) add(m *ir.Model) error {
	role, err := ir.ParseRole(s.Role)
	if err != nil {
		return err
	}
	if s.Size == 0 {
		if len(s.Values) > 0 {
			return errors.New("values requires size")
		}
		opts := []ir.NodeOption{ir.WithRole(role)}
		elem := -1
		if s.Index != nil {
			elem = *s.Index
			opts = append(opts, ir.WithIndex(elem))
		}
		if s.Value != nil {
			opts = append(opts, ir.WithValue(*s.Value))
		}
		family, err := s.family(elem)
		if err != nil {
			return err
		}
		return m.AddNode(ir.NewNode(s.Name, family, opts...))
	}

	if len(s.Values) > 0 && len(s.Values) != s.Size {
		return fmt.Errorf("%d values for size %d", len(s.Values), s.Size)
	}
	for i := range s.Size {
		opts := []ir.NodeOption{ir.WithRole(role), ir.WithIndex(i)}
		switch {
		case len(s.Values) > 0:
			opts = append(opts, ir.WithValue(s.Values[i]))
		case s.Value != nil:
			opts = append(opts, ir.WithValue(*s.Value))
		}
		family, err := s.family(i)
		if err != nil {
			return err
		}
		if err := m.AddNode(ir.NewNode(s.Name, family, opts...)); err != nil {
			return err
		}
	}
	return nil
}

// family builds the prior of element elem, or of a scalar when elem < 0.
func (s *NodeSpec) family(elem int) (prior.Family, error) {
	if s.Prior == nil {
		return nil, nil
	}
	ctor, ok := prior.Lookup(s.Prior.Family)
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownFamily, s.Prior.Family, strings.Join(prior.Names(), ", "))
	}
	params := make([]prior.Param, len(s.Prior.Params))
	for i, p := range s.Prior.Params {
		params[i] = p.Param
		if elem >= 0 {
			params[i] = prior.Param(strings.ReplaceAll(string(p.Param), indexToken, strconv.Itoa(elem)))
		}
	}
	return ctor(params...)
}
