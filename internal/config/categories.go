package config

// GroupWeights orders command groups in help output; unknown groups sort last.
var GroupWeights = map[string]int{
	"Utility":  0,
	"Settings": 50,
}

// GroupWeight returns the sort weight for a command group.
func GroupWeight(group string) int {
	if w, ok := GroupWeights[group]; ok {
		return w
	}
	return 100
}
