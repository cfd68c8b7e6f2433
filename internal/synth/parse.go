package synth

import (
	"fmt"
	"strconv"
	"strings"
)

// parseFloats extracts numeric values from engine print output. Values arrive
// whitespace-separated across multiple wrapped lines.
func parseFloats(lines []string) ([]float64, error) {
	var values []float64
	for _, line := range lines {
		for _, token := range strings.Fields(line) {
			value, err := strconv.ParseFloat(token, 64)
			if err != nil {
				return nil, fmt.Errorf("malformed value %q in engine output: %w", token, err)
			}
			values = append(values, value)
		}
	}
	return values, nil
}
