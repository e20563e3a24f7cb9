package optimize

import "errors"

// Param is one tunable parameter and its candidate values.
type Param struct {
	Name   string `yaml:"name" json:"name"`
	Values []any  `yaml:"values" json:"values"`
}

// Grid is an ordered parameter grid. Declaration order fixes both the
// combination enumeration order and the parameter column order in outputs.
type Grid []Param

func (g Grid) Validate() error {
	if len(g) == 0 {
		return errors.New("empty parameter grid")
	}
	seen := make(map[string]bool, len(g))
	for _, p := range g {
		if p.Name == "" {
			return errors.New("grid parameter with empty name")
		}
		if seen[p.Name] {
			return errors.New("duplicate grid parameter: " + p.Name)
		}
		seen[p.Name] = true
		if len(p.Values) == 0 {
			return errors.New("grid parameter " + p.Name + " has no values")
		}
	}
	return nil
}

// Names returns the parameter names in declaration order.
func (g Grid) Names() []string {
	names := make([]string, len(g))
	for i, p := range g {
		names[i] = p.Name
	}
	return names
}

// Size is the number of combinations in the Cartesian product.
func (g Grid) Size() int {
	n := 1
	for _, p := range g {
		n *= len(p.Values)
	}
	return n
}

// Combinations enumerates the Cartesian product of all candidate sets in
// standard product order: the last declared parameter varies fastest.
func (g Grid) Combinations() []map[string]any {
	out := make([]map[string]any, 0, g.Size())
	idx := make([]int, len(g))
	for {
		combo := make(map[string]any, len(g))
		for i, p := range g {
			combo[p.Name] = p.Values[idx[i]]
		}
		out = append(out, combo)

		i := len(g) - 1
		for i >= 0 {
			idx[i]++
			if idx[i] < len(g[i].Values) {
				break
			}
			idx[i] = 0
			i--
		}
		if i < 0 {
			return out
		}
	}
}
