package cli

import (
	"fmt"
	"strconv"
	"strings"

	"loupe/pkg/geom"
)

// parseSize parses a "WxH" string into a size.
func parseSize(s string) (geom.Size, error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return geom.Size{}, fmt.Errorf("invalid size %q, expected WxH", s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return geom.Size{}, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return geom.Size{}, fmt.Errorf("invalid height in %q: %w", s, err)
	}
	size := geom.Sz(w, h)
	if size.IsEmpty() {
		return geom.Size{}, fmt.Errorf("size %q must be positive", s)
	}
	return size, nil
}
