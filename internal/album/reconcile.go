package album

import (
	"slices"
)

// Reconcile merges previously persisted filenames with the filenames found on
// disk. Previous entries still on disk keep their order (duplicates dropped),
// then new entries follow in lexicographic order. Running it again on its own
// output with an unchanged disk returns the same list.
func Reconcile(previous, onDisk []string) []string {
	present := make(map[string]struct{}, len(onDisk))
	for _, name := range onDisk {
		present[name] = struct{}{}
	}

	merged := make([]string, 0, len(onDisk))
	seen := make(map[string]struct{}, len(onDisk))
	for _, name := range previous {
		if _, ok := present[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		merged = append(merged, name)
	}

	var added []string
	for _, name := range onDisk {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		added = append(added, name)
	}
	slices.Sort(added)
	return append(merged, added...)
}
