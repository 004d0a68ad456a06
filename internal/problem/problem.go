// Package problem loads constraint problems from JSON or YAML files and
// builds solvable models from them.
package problem

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	yaml "gopkg.in/yaml.v2"

	"github.com/gitrdm/regin/pkg/fd"
)

// VariableSpec declares one variable. Values lists the admissible values;
// when empty the variable gets the full range [1, Problem.Domain].
type VariableSpec struct {
	Name   string
	Values []int
}

// Problem is the on-disk description of a CSP: a default domain bound, a
// list of variables, and groups of variable names that must be pairwise
// distinct.
type Problem struct {
	Name         string
	Domain       int
	Variables    []VariableSpec
	AllDifferent [][]string `mapstructure:"allDifferent"`
}

// Load reads a problem file. The format is chosen by extension: .yaml and
// .yml parse as YAML, everything else as JSON.
func Load(path string) (Problem, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Problem{}, errors.Wrapf(err, "reading problem file %s", path)
	}

	var doc map[string]interface{}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		var node interface{}
		if err := yaml.Unmarshal(raw, &node); err != nil {
			return Problem{}, errors.Wrapf(err, "parsing YAML problem %s", path)
		}
		m, ok := normalize(node).(map[string]interface{})
		if !ok {
			return Problem{}, errors.Errorf("problem %s: top level must be a mapping", path)
		}
		doc = m
	default:
		if err := json.Unmarshal(raw, &doc); err != nil {
			return Problem{}, errors.Wrapf(err, "parsing JSON problem %s", path)
		}
	}

	var p Problem
	if err := mapstructure.Decode(doc, &p); err != nil {
		return Problem{}, errors.Wrapf(err, "decoding problem %s", path)
	}
	return p, nil
}

// normalize rewrites yaml.v2's map[interface{}]interface{} nodes into
// map[string]interface{} so mapstructure can decode them.
func normalize(node interface{}) interface{} {
	switch n := node.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(n))
		for k, v := range n {
			key, ok := k.(string)
			if !ok {
				continue
			}
			m[key] = normalize(v)
		}
		return m
	case []interface{}:
		for i, v := range n {
			n[i] = normalize(v)
		}
		return n
	default:
		return node
	}
}

// Build turns the problem description into a model with all-different
// constraints posted.
func (p Problem) Build() (*fd.Model, error) {
	if p.Domain <= 0 {
		return nil, errors.Errorf("problem %q: domain bound must be positive, got %d", p.Name, p.Domain)
	}
	if len(p.Variables) == 0 {
		return nil, errors.Errorf("problem %q declares no variables", p.Name)
	}

	model := fd.NewModel()
	byName := make(map[string]*fd.Variable, len(p.Variables))

	for _, spec := range p.Variables {
		if spec.Name == "" {
			return nil, errors.Errorf("problem %q: variable without a name", p.Name)
		}
		if _, dup := byName[spec.Name]; dup {
			return nil, errors.Errorf("problem %q: duplicate variable %q", p.Name, spec.Name)
		}

		var dom fd.Domain
		if len(spec.Values) == 0 {
			dom = fd.NewBitSetDomain(p.Domain)
		} else {
			if bad, found := lo.Find(spec.Values, func(v int) bool {
				return v < 1 || v > p.Domain
			}); found {
				return nil, errors.Errorf("problem %q: variable %q value %d outside [1,%d]",
					p.Name, spec.Name, bad, p.Domain)
			}
			dom = fd.NewBitSetDomainFromValues(p.Domain, spec.Values)
		}
		byName[spec.Name] = model.NewVariableWithName(dom, spec.Name)
	}

	for i, group := range p.AllDifferent {
		vars := make([]*fd.Variable, 0, len(group))
		for _, name := range group {
			v, ok := byName[name]
			if !ok {
				return nil, errors.Errorf("problem %q: allDifferent group %d references unknown variable %q",
					p.Name, i, name)
			}
			vars = append(vars, v)
		}
		c, err := fd.NewAllDifferent(vars)
		if err != nil {
			return nil, errors.Wrapf(err, "problem %q: allDifferent group %d", p.Name, i)
		}
		model.AddConstraint(c)
	}

	return model, nil
}
