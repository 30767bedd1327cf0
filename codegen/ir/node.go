package ir

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dnest4/modelgen/codegen/prior"
)

type (
	// Role identifies how a node participates in the generated model.
	Role int

	// Node is a single parameter, derived quantity or known value.
	Node struct {
		// Base is the name given at construction. Elements of a vector share it.
		Base string
		// Prior is the family rendering the node's fragments. It may be shared
		// by several nodes and is nil for known values without a distribution.
		Prior prior.Family
		// Role selects the aggregation passes the node takes part in.
		Role Role
		// Index is the vector element index, nil for scalars.
		Index *int
		// Value is the constant of a known node, nil when supplied elsewhere.
		Value *float64
	}

	// NodeOption configures a Node.
	NodeOption func(*Node)
)

const (
	// RoleCoordinate marks a free parameter drawn from its prior and perturbed.
	RoleCoordinate Role = iota + 1
	// RoleDerived marks a quantity computed from coordinates.
	RoleDerived
	// RoleData marks an observed value contributing to the likelihood.
	RoleData
	// RolePriorInfo marks a fixed hyperparameter.
	RolePriorInfo
)

// ErrNoPrior indicates that a node taking part in a prior dependent pass has
// no prior family.
var ErrNoPrior = errors.New("node has no prior")

// ErrInvalidIndex indicates a vector element node with a negative index.
var ErrInvalidIndex = errors.New("vector index must be non-negative")

var roleNames = map[Role]string{
	RoleCoordinate: "coordinate",
	RoleDerived:    "derived",
	RoleData:       "data",
	RolePriorInfo:  "prior_info",
}

// String returns the lower snake case role name.
func (r Role) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return "role(" + strconv.Itoa(int(r)) + ")"
}

// Unknown reports whether nodes with this role are sampled state.
func (r Role) Unknown() bool {
	return r == RoleCoordinate || r == RoleDerived
}

// ParseRole returns the role named s. The empty string maps to RoleCoordinate.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return RoleCoordinate, nil
	}
	for r, name := range roleNames {
		if strings.EqualFold(name, s) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown node role %q", s)
}

// WithRole sets the node role. Nodes default to RoleCoordinate.
func WithRole(r Role) NodeOption {
	return func(n *Node) { n.Role = r }
}

// WithIndex binds the node to element i of the vector named after its base.
func WithIndex(i int) NodeOption {
	return func(n *Node) { n.Index = &i }
}

// WithValue attaches the constant of a known node.
func WithValue(v float64) NodeOption {
	return func(n *Node) { n.Value = &v }
}

// NewNode returns a node named name using the given prior family. family may
// be nil for known values.
func NewNode(name string, family prior.Family, opts ...NodeOption) *Node {
	n := &Node{Base: name, Prior: family, Role: RoleCoordinate}
	for _, o := range opts {
		o(n)
	}
	return n
}

// validate reports an error wrapping ErrInvalidIndex for a negative index.
func (n *Node) validate() error {
	if n.Index != nil && *n.Index < 0 {
		return fmt.Errorf("%s[%d]: %w", n.Base, *n.Index, ErrInvalidIndex)
	}
	return nil
}

// Name returns the effective name: Base for scalars, Base[Index] for vector
// elements.
func (n *Node) Name() string {
	if n.Index == nil {
		return n.Base
	}
	return n.Base + "[" + strconv.Itoa(*n.Index) + "]"
}

// String implements fmt.Stringer so nodes can be used as prior parameters.
func (n *Node) String() string {
	return n.Name()
}

// IsVector reports whether the node is a vector element.
func (n *Node) IsVector() bool {
	return n.Index != nil
}

// FromPrior returns the prior draw fragment bound to the node.
func (n *Node) FromPrior() (string, error) {
	return n.bind(prior.Family.FromPrior)
}

// Perturb returns the perturbation fragment bound to the node.
func (n *Node) Perturb() (string, error) {
	return n.bind(prior.Family.Perturb)
}

// LogDensity returns the log density fragment bound to the node.
func (n *Node) LogDensity() (string, error) {
	return n.bind(prior.Family.LogDensity)
}

func (n *Node) bind(fragment func(prior.Family) string) (string, error) {
	if n.Prior == nil {
		return "", fmt.Errorf("%s: %w", n.Name(), ErrNoPrior)
	}
	return strings.ReplaceAll(fragment(n.Prior), prior.Placeholder, n.Name()), nil
}
