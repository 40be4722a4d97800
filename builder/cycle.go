package builder

import "sort"

// checkCycles walks the dependency graph depth-first from the view under
// construction and rejects any path that returns to a node already on the
// walk. Dependencies whose builders are themselves view builders contribute
// their own dependency edges; single-table builders are leaves.
//
// The graph must be a DAG: a view that transitively depends on itself would
// otherwise recurse without bound at build time.
func checkCycles(view string, deps map[string]Loader) error {
	onPath := map[string]bool{view: true}
	return walkDeps(view, deps, []string{view}, onPath)
}

func walkDeps(view string, deps map[string]Loader, path []string, onPath map[string]bool) error {
	// Sorted iteration keeps the reported cycle path deterministic.
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if onPath[name] {
			return NewCycleError(path[0], append(append([]string{}, path...), name))
		}
		vb, ok := deps[name].QueryBuilder().(*ViewQueryBuilder)
		if !ok {
			continue
		}
		onPath[name] = true
		if err := walkDeps(name, vb.deps, append(path, name), onPath); err != nil {
			return err
		}
		delete(onPath, name)
	}
	return nil
}
