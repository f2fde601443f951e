package domain

import (
	"sort"
	"strings"
)

// GroupSet is a set of group names. Membership is exact-match only;
// the comma-delimited string form exists solely at the storage boundary.
type GroupSet map[string]struct{}

// ParseGroupSet builds a GroupSet from a comma-delimited string.
// Empty segments and surrounding whitespace are discarded.
func ParseGroupSet(s string) GroupSet {
	gs := make(GroupSet)
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		if name != "" {
			gs[name] = struct{}{}
		}
	}
	return gs
}

// NewGroupSet builds a GroupSet from individual group names.
func NewGroupSet(names ...string) GroupSet {
	gs := make(GroupSet, len(names))
	for _, n := range names {
		if n != "" {
			gs[n] = struct{}{}
		}
	}
	return gs
}

// Contains reports whether name is a member of the set.
func (gs GroupSet) Contains(name string) bool {
	_, ok := gs[name]
	return ok
}

// Add inserts a group name into the set.
func (gs GroupSet) Add(name string) {
	if name != "" {
		gs[name] = struct{}{}
	}
}

// Names returns the group names sorted for stable output.
func (gs GroupSet) Names() []string {
	names := make([]string, 0, len(gs))
	for n := range gs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// String serializes the set to its comma-delimited storage form.
func (gs GroupSet) String() string {
	return strings.Join(gs.Names(), ",")
}
