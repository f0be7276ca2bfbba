package algo

import "fmt"

// Fit compares a key with a lock. It returns a negative number when the key
// is too small, a positive number when it is too large and 0 when it fits.
//
// It is the only comparison [MatchKeysLocks] uses: keys are never compared
// with keys and locks never with locks.
func Fit(key, lock int) int {
	switch {
	case key < lock:
		return -1
	case key > lock:
		return 1
	default:
		return 0
	}
}

// MatchKeysLocks rearranges keys and locks in place so that keys[i] fits
// locks[i] for every i and the pairs are ascending by size.
//
// Both slices must have the same length, and keys and locks must be the same
// multiset of sizes. Repeated sizes are allowed. The matching is a
// quicksort where a lock partitions the keys and the key that fits it
// partitions the locks.
func MatchKeysLocks(keys, locks []int) error {
	if len(keys) != len(locks) {
		return fmt.Errorf("%w: %d keys, %d locks", ErrInvalidInput, len(keys), len(locks))
	}

	return matchRange(keys, locks, 0, len(keys)-1)
}

func matchRange(keys, locks []int, lo, hi int) error {
	for lo < hi {
		pivotLock := locks[lo+(hi-lo)/2]

		p, err := partitionBy(keys, lo, hi, func(key int) int { return Fit(key, pivotLock) })
		if err != nil {
			return fmt.Errorf("%w: lock %d", err, pivotLock)
		}

		pivotKey := keys[p]

		q, err := partitionBy(locks, lo, hi, func(lock int) int { return -Fit(pivotKey, lock) })
		if err != nil {
			return fmt.Errorf("%w: key %d", err, pivotKey)
		}

		// Every lock smaller than pivotKey must have a key smaller than
		// pivotLock, so both partitions split at the same index.
		if p != q {
			return fmt.Errorf("%w: sizes around %d do not pair up", ErrNoMatch, pivotKey)
		}

		if p-lo < hi-p {
			err = matchRange(keys, locks, lo, p-1)
			lo = p + 1
		} else {
			err = matchRange(keys, locks, p+1, hi)
			hi = p - 1
		}

		if err != nil {
			return err
		}
	}

	if lo == hi && Fit(keys[lo], locks[lo]) != 0 {
		return fmt.Errorf("%w: key %d, lock %d", ErrNoMatch, keys[lo], locks[lo])
	}

	return nil
}

// partitionBy arranges s[lo:hi+1] into elements with order(e) < 0, exactly
// one element with order(e) == 0, then elements with order(e) > 0. It
// returns the index of the middle element. order must compare against a
// value from the other set.
func partitionBy(s []int, lo, hi int, order func(int) int) (int, error) {
	match := -1

	for j := lo; j <= hi; j++ {
		if order(s[j]) == 0 {
			match = j

			break
		}
	}

	if match == -1 {
		return 0, ErrNoMatch
	}

	s[match], s[hi] = s[hi], s[match]

	i := lo
	for j := lo; j < hi; j++ {
		if order(s[j]) < 0 {
			s[i], s[j] = s[j], s[i]
			i++
		}
	}

	s[i], s[hi] = s[hi], s[i]

	return i, nil
}
