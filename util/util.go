package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

var ErrMalformedPixel = errors.New("malformed pixel value")

// ParsePx parses a css pixel value like "120px" into an int.
func ParsePx(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(strings.ReplaceAll(s, "px", "")))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedPixel, s)
	}
	return v, nil
}

// FloorDiv rounds toward negative infinity, unlike Go's / operator.
func FloorDiv[A constraints.Integer](a A, b A) A {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod always has the sign of b.
func FloorMod[A constraints.Integer](a A, b A) A {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}
