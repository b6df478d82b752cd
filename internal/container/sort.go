package container

import "alore.dev/runtime/internal/value"

// Sort orders an Array in place using the given comparator (spec
// §4.5 "Sort"), via Go's introsort-backed sort.Sort would hide the
// user comparator's error return, so this is a direct quicksort with
// an insertion-sort cutoff, grounded on
// _examples/original_source/src/std_module.c's Array sort routine.
// cmp may return a non-nil error (e.g. from a user `_lt` overload
// raising), which aborts the sort immediately.
func Sort(a *Array, cmp CompareFn) error {
	return quicksort(a.backing, 0, a.length-1, cmp)
}

const insertionCutoff = 16

func quicksort(s value.FixArray, lo, hi int, cmp CompareFn) error {
	for lo < hi {
		if hi-lo < insertionCutoff {
			return insertionSort(s, lo, hi, cmp)
		}
		p, err := partition(s, lo, hi, cmp)
		if err != nil {
			return err
		}
		// Recurse into the smaller side, loop over the larger, to
		// bound stack depth at O(log n).
		if p-lo < hi-p {
			if err := quicksort(s, lo, p-1, cmp); err != nil {
				return err
			}
			lo = p + 1
		} else {
			if err := quicksort(s, p+1, hi, cmp); err != nil {
				return err
			}
			hi = p - 1
		}
	}
	return nil
}

func partition(s value.FixArray, lo, hi int, cmp CompareFn) (int, error) {
	mid := lo + (hi-lo)/2
	if err := medianOfThree(s, lo, mid, hi, cmp); err != nil {
		return 0, err
	}
	pivot := s[mid]
	s[mid], s[hi-1] = s[hi-1], s[mid]
	i := lo
	for j := lo; j < hi-1; j++ {
		c, err := cmp(s[j], pivot)
		if err != nil {
			return 0, err
		}
		if c < 0 {
			s[i], s[j] = s[j], s[i]
			i++
		}
	}
	s[i], s[hi-1] = s[hi-1], s[i]
	return i, nil
}

func medianOfThree(s value.FixArray, a, b, c int, cmp CompareFn) error {
	if ab, err := cmp(s[a], s[b]); err != nil {
		return err
	} else if ab > 0 {
		s[a], s[b] = s[b], s[a]
	}
	if bc, err := cmp(s[b], s[c]); err != nil {
		return err
	} else if bc > 0 {
		s[b], s[c] = s[c], s[b]
		if ab, err := cmp(s[a], s[b]); err != nil {
			return err
		} else if ab > 0 {
			s[a], s[b] = s[b], s[a]
		}
	}
	return nil
}

func insertionSort(s value.FixArray, lo, hi int, cmp CompareFn) error {
	for i := lo + 1; i <= hi; i++ {
		v := s[i]
		j := i - 1
		for j >= lo {
			c, err := cmp(s[j], v)
			if err != nil {
				return err
			}
			if c <= 0 {
				break
			}
			s[j+1] = s[j]
			j--
		}
		s[j+1] = v
	}
	return nil
}
