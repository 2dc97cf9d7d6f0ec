package util

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseColor parses an embed color written as "#b01e66", "0xb01e66" or a
// plain decimal integer.
func ParseColor(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty color")
	}

	base := 10
	switch {
	case strings.HasPrefix(s, "#"):
		s, base = s[1:], 16
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s, base = s[2:], 16
	}

	v, err := strconv.ParseInt(s, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if v < 0 || v > 0xffffff {
		return 0, fmt.Errorf("color %q out of range", s)
	}
	return int(v), nil
}

// FormatColor renders a color the way ParseColor accepts it back.
func FormatColor(c int) string {
	return fmt.Sprintf("#%06x", c)
}
