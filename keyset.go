package dirsync

import "sort"

// KeySet is a set of object keys or relative file paths.
type KeySet map[string]struct{}

func NewKeySet(keys ...string) KeySet {
	set := make(KeySet, len(keys))
	for _, key := range keys {
		set.Add(key)
	}

	return set
}

func (s KeySet) Add(key string) {
	s[key] = struct{}{}
}

func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s KeySet) Len() int {
	return len(s)
}

// Sorted returns the members in lexicographic order.
func (s KeySet) Sorted() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}

// Difference returns the members of s that are not in other, sorted.
func (s KeySet) Difference(other KeySet) []string {
	missing := make([]string, 0)
	for key := range s {
		if !other.Has(key) {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)

	return missing
}
