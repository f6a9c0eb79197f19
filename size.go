package bench

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var sizeRE = regexp.MustCompile(`(?i)^([0-9]+)\s*([kmg]?b)?$`)

// ParseSize parses a size with B, KB, MB, GB unit and returns its value in bytes.
func ParseSize(s string) (int, error) {
	m := sizeRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %v", s, err)
	}
	switch strings.ToLower(m[2]) {
	case "kb":
		v *= 1024
	case "mb":
		v *= 1024 * 1024
	case "gb":
		v *= 1024 * 1024 * 1024
	}
	return v, nil
}
