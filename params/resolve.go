package params

import "sort"

// Resolve builds the nested parameter structure passed to the engine
// constructor from a flat set of supplied arguments (option name -> value,
// containing only options the caller actually set).
//
// For each supplied name, in sorted order: a direct schema match wins and is
// assigned as-is; otherwise a mapped external name is resolved through the
// inverse mapping, nesting one level when the canonical path is dotted.
// Names that match neither table are ignored. Values pass through unchanged;
// range validation is the engine's concern.
func Resolve(supplied map[string]any) map[string]any {
	resolved := make(map[string]any)

	names := make([]string, 0, len(supplied))
	for name := range supplied {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := supplied[name]
		if value == nil {
			continue
		}
		if _, ok := Schema[name]; ok {
			resolved[name] = value
			continue
		}
		path, ok := Canonical(name)
		if !ok {
			continue
		}
		group, field := SplitPath(path)
		if field == "" {
			resolved[group] = value
			continue
		}
		nested, ok := resolved[group].(map[string]any)
		if !ok {
			nested = make(map[string]any)
			resolved[group] = nested
		}
		nested[field] = value
	}

	return resolved
}
