// Package optimization provides shared data structures for capacity search results.
package optimization

// Summary captures the result of a single capacity search.
type Summary struct {
	Scope           string   `json:"scope" yaml:"scope"`
	TargetName      string   `json:"targetName" yaml:"targetName"`
	Field           string   `json:"field" yaml:"field"`
	Original        float64  `json:"original" yaml:"original"`
	Value           float64  `json:"value" yaml:"value"`
	Floor           float64  `json:"floor" yaml:"floor"`
	MinimumCash     float64  `json:"minimumCash" yaml:"minimumCash"`
	Headroom        float64  `json:"headroom" yaml:"headroom"`
	Iterations      int      `json:"iterations" yaml:"iterations"`
	Converged       bool     `json:"converged" yaml:"converged"`
	Notes           []string `json:"notes,omitempty" yaml:"notes,omitempty"`
	OriginalDisplay string   `json:"originalDisplay,omitempty" yaml:"originalDisplay,omitempty"`
	ValueDisplay    string   `json:"valueDisplay,omitempty" yaml:"valueDisplay,omitempty"`
}

// Improved reports whether the search moved the value away from the original.
func (s Summary) Improved() bool {
	return s.Value != s.Original
}
