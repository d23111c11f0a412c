// Package vmid allocates numeric container identifiers.
package vmid

import "errors"

// ErrNoFreeID is returned when every identifier in the candidate range is
// already in use on the host.
var ErrNoFreeID = errors.New("no free container ID in range")

// Next returns the smallest identifier in [lo, hi] that is not present in
// used. The used set is re-read from the host on every call; there is no
// cursor, so the result only depends on the arguments.
func Next(used []int, lo, hi int) (int, error) {
	taken := make(map[int]struct{}, len(used))
	for _, id := range used {
		taken[id] = struct{}{}
	}

	for id := lo; id <= hi; id++ {
		if _, ok := taken[id]; !ok {
			return id, nil
		}
	}

	return 0, ErrNoFreeID
}
