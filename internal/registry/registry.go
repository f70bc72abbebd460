// Package registry holds the intake questionnaire: every field key, its
// summary label, the section it belongs to and the conditions under which it
// is shown.
package registry

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/models"
)

// Kind is the input control a field is rendered with. All values are strings.
type Kind string

const (
	KindText     Kind = "text"
	KindDate     Kind = "date"
	KindMoney    Kind = "money"
	KindPhone    Kind = "tel"
	KindEmail    Kind = "email"
	KindSelect   Kind = "select"
	KindTextArea Kind = "textarea"
)

// Field describes one answer slot.
type Field struct {
	Key string
	// Label is the short form used in summaries and exports.
	Label string
	// Prompt is the question shown in the wizard.
	Prompt   string
	Kind     Kind
	Options  []string
	Required bool
}

// Group is a run of fields sharing a visibility condition. An empty When is
// always visible.
type Group struct {
	Title  string
	When   string
	Fields []Field
}

// Section is one wizard step.
type Section struct {
	Name   string
	Groups []Group
}

// SectionKeys is a section name with its field keys in display order.
type SectionKeys struct {
	Name string
	Keys []string
}

type compiledGroup struct {
	group   Group
	program *exprvm.Program
}

// Registry is immutable after construction and safe for concurrent use.
type Registry struct {
	sections []Section
	groups   [][]compiledGroup
	labels   map[string]string
	order    []SectionKeys
}

// New validates sections and compiles every group condition. Duplicate keys
// and malformed conditions are rejected.
func New(sections []Section) (*Registry, error) {
	r := &Registry{
		sections: sections,
		groups:   make([][]compiledGroup, len(sections)),
		labels:   make(map[string]string),
		order:    make([]SectionKeys, 0, len(sections)),
	}
	for i, s := range sections {
		sk := SectionKeys{Name: s.Name}
		for _, g := range s.Groups {
			cg := compiledGroup{group: g}
			if g.When != "" {
				program, err := exprlang.Compile(g.When,
					exprlang.Env(map[string]any{}),
					exprlang.AllowUndefinedVariables(),
					exprlang.AsBool(),
				)
				if err != nil {
					return nil, fmt.Errorf("registry: section %q group %q: %w", s.Name, g.Title, err)
				}
				cg.program = program
			}
			for _, f := range g.Fields {
				if f.Key == "" {
					return nil, fmt.Errorf("registry: section %q has a field without key", s.Name)
				}
				if _, dup := r.labels[f.Key]; dup {
					return nil, fmt.Errorf("registry: duplicate key %q", f.Key)
				}
				r.labels[f.Key] = f.Label
				sk.Keys = append(sk.Keys, f.Key)
			}
			r.groups[i] = append(r.groups[i], cg)
		}
		r.order = append(r.order, sk)
	}
	return r, nil
}

// MustNew is New for package-level data; it panics on error.
func MustNew(sections []Section) *Registry {
	r, err := New(sections)
	if err != nil {
		panic(err)
	}
	return r
}

// LabelOf returns the registered label, or key itself when unknown.
func (r *Registry) LabelOf(key string) string {
	if l, ok := r.labels[key]; ok && l != "" {
		return l
	}
	return key
}

// Known reports whether key is registered.
func (r *Registry) Known(key string) bool {
	_, ok := r.labels[key]
	return ok
}

// Sections returns the sections in wizard order with every key of each.
func (r *Registry) Sections() []SectionKeys {
	out := make([]SectionKeys, len(r.order))
	for i, s := range r.order {
		out[i] = SectionKeys{Name: s.Name, Keys: append([]string(nil), s.Keys...)}
	}
	return out
}

// Len is the number of wizard steps.
func (r *Registry) Len() int { return len(r.sections) }

// Section returns step i. It panics when i is out of range.
func (r *Registry) Section(i int) Section { return r.sections[i] }

// VisibleGroups returns the groups of step i whose condition holds for state.
// Out-of-range steps have no groups.
func (r *Registry) VisibleGroups(i int, state models.FormState) []Group {
	if i < 0 || i >= len(r.groups) {
		return nil
	}
	env := environment(state)
	var out []Group
	for _, cg := range r.groups[i] {
		if cg.visible(env) {
			out = append(out, cg.group)
		}
	}
	return out
}

// VisibleFields flattens VisibleGroups.
func (r *Registry) VisibleFields(i int, state models.FormState) []Field {
	var out []Field
	for _, g := range r.VisibleGroups(i, state) {
		out = append(out, g.Fields...)
	}
	return out
}

func (cg compiledGroup) visible(env map[string]any) bool {
	if cg.program == nil {
		return true
	}
	v, err := exprlang.Run(cg.program, env)
	if err != nil {
		return false
	}
	b, _ := v.(bool)
	return b
}

func environment(state models.FormState) map[string]any {
	env := make(map[string]any, len(state))
	for k, v := range state {
		env[k] = v
	}
	return env
}
