package screen

import "fmt"

var humanSymbols = []string{"K", "M", "G", "T", "P", "E", "Z", "Y"}

// BytesToHuman formats n in the largest binary unit it fills at least once,
// truncated to an integer: 1023 is "1023B", 1536 is "1K".
func BytesToHuman(n float64) string {
	for i := len(humanSymbols) - 1; i >= 0; i-- {
		unit := 1.0
		for j := 0; j <= i; j++ {
			unit *= 1024
		}
		if n >= unit {
			return fmt.Sprintf("%d%s", int64(n/unit), humanSymbols[i])
		}
	}
	return fmt.Sprintf("%dB", int64(n))
}
