package schema

import "fmt"

// DependencyGraph orders tables so every table comes after the tables its
// foreign keys point to.
type DependencyGraph struct {
	tables map[string][]string
	names  []string
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{tables: make(map[string][]string)}
}

// AddTable registers a table and the tables it references. Registration
// order breaks ties, so the result is stable.
func (g *DependencyGraph) AddTable(name string, deps ...string) {
	if _, ok := g.tables[name]; !ok {
		g.names = append(g.names, name)
	}
	g.tables[name] = deps
}

func (g *DependencyGraph) BuildInsertionOrder() ([]string, error) {
	visited := make(map[string]bool)
	temp := make(map[string]bool)
	var order []string

	var visit func(string) error
	visit = func(name string) error {
		if temp[name] {
			return fmt.Errorf("circular dependency detected involving table: %s", name)
		}
		if visited[name] {
			return nil
		}
		deps, ok := g.tables[name]
		if !ok {
			return fmt.Errorf("table %s is referenced but not registered", name)
		}

		temp[name] = true
		for _, dep := range deps {
			if dep == name {
				continue
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		temp[name] = false
		visited[name] = true
		order = append(order, name)
		return nil
	}

	for _, name := range g.names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}
