package domain

import "regexp"

type Metal string

const (
	Gold   Metal = "XAU"
	Silver Metal = "XAG"
)

var SupportedMetal = map[Metal]bool{
	Gold:   true,
	Silver: true,
}

// Metals lists supported metals in the order the pipeline processes them.
func Metals() []Metal { return []Metal{Gold, Silver} }

func (m Metal) Name() string {
	switch m {
	case Gold:
		return "gold"
	case Silver:
		return "silver"
	default:
		return string(m)
	}
}

var symbolRe = regexp.MustCompile(`^[A-Z]{3}$`)

func ValidateMetal(s string) bool {
	// First validate format via shared precompiled regex
	if !symbolRe.MatchString(s) {
		return false
	}
	return SupportedMetal[Metal(s)]
}
