package cli

import (
	"strconv"
	"strings"

	"github.com/matzehuels/tilestitch/pkg/errors"
	"github.com/matzehuels/tilestitch/pkg/region"
	"github.com/matzehuels/tilestitch/pkg/tiles"
)

// parsePair splits "<a>x<b>" into two integers. The separator is a single
// 'x' (or 'X'); both sides may be signed.
func parsePair(s string) (int, int, error) {
	a, b, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "%q is not of the form <a>x<b>", s)
	}
	x, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "%q: bad first value", s)
	}
	y, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "%q: bad second value", s)
	}
	return x, y, nil
}

// parseOrigin parses --origin "<x>x<y>". An empty string means unset.
func parseOrigin(s string) (*tiles.Coord, error) {
	if s == "" {
		return nil, nil
	}
	x, y, err := parsePair(s)
	if err != nil {
		return nil, err
	}
	return &tiles.Coord{X: x, Y: y}, nil
}

// parseSize parses --size "<w>x<h>". An empty string means unset; both
// values must be positive.
func parseSize(s string) (*region.Size, error) {
	if s == "" {
		return nil, nil
	}
	w, h, err := parsePair(s)
	if err != nil {
		return nil, err
	}
	if w < 1 || h < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "size %q must be positive", s)
	}
	return &region.Size{W: w, H: h}, nil
}
