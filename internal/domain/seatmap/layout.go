package seatmap

// AisleMarker is the non-seat token placed in the column sequence.
const AisleMarker = "|"

// DeriveLetters places aisle markers into columns (already in document order).
//
// Adjacent aisle-flagged columns get a marker at their shared boundary. When no
// two flagged columns touch but at least two are flagged (the twin-aisle case,
// where only the outer aisle seats carry the code), one marker goes after the
// first flagged column and one before the last. Anything else yields no marker.
func DeriveLetters(columns []string, aisle map[string]bool) []string {
	flagged := make([]int, 0, len(columns))
	for i, c := range columns {
		if aisle[c] {
			flagged = append(flagged, i)
		}
	}

	boundaries := make(map[int]bool) // marker goes after columns[i]
	for k := 0; k+1 < len(flagged); k++ {
		if flagged[k+1] == flagged[k]+1 {
			boundaries[flagged[k]] = true
		}
	}
	if len(boundaries) == 0 && len(flagged) >= 2 {
		first, last := flagged[0], flagged[len(flagged)-1]
		boundaries[first] = true
		if last-1 != first {
			boundaries[last-1] = true
		}
	}

	out := make([]string, 0, len(columns)+len(boundaries))
	for i, c := range columns {
		out = append(out, c)
		if boundaries[i] && i+1 < len(columns) {
			out = append(out, AisleMarker)
		}
	}
	return out
}
