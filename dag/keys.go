package dag

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// IndexedKey returns the key for position i under prefix, e.g. "chunk_3".
func IndexedKey(prefix string, i int) string {
	return prefix + "_" + strconv.Itoa(i)
}

// IndexedKeys returns the keys for positions 0..n-1 under prefix.
func IndexedKeys(prefix string, n int) []string {
	keys := make([]string, n)
	for i := range n {
		keys[i] = IndexedKey(prefix, i)
	}
	return keys
}

// ParseIndexedKey extracts the position from a key built by IndexedKey.
func ParseIndexedKey(prefix, key string) (int, error) {
	suffix, ok := strings.CutPrefix(key, prefix+"_")
	if !ok {
		return 0, fmt.Errorf("dag: key %q has no %q prefix", key, prefix+"_")
	}
	i, err := strconv.Atoi(suffix)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("dag: key %q has no valid index", key)
	}
	return i, nil
}

// SortByIndex returns the payloads of values ordered by the numeric index
// encoded in their keys, ascending. Ordering is numeric: chunk_10 follows
// chunk_9.
func SortByIndex[V any](prefix string, values Values[V]) ([]V, error) {
	type entry struct {
		index int
		value V
	}
	entries := make([]entry, 0, len(values))
	for key, v := range values {
		i, err := ParseIndexedKey(prefix, key)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{index: i, value: v})
	}
	slices.SortFunc(entries, func(a, b entry) int { return cmp.Compare(a.index, b.index) })

	out := make([]V, len(entries))
	for i, e := range entries {
		out[i] = e.value
	}
	return out, nil
}
