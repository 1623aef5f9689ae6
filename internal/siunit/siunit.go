// Package siunit formats quantities with metric (SI) prefixes, e.g.
// "1.23 Ginst/s" or "542.00 ms". It exists because the execution summary
// log line reports retired-instruction counts, elapsed durations, and
// retirement rates, and none of those quantities are byte sizes (the
// domain go-humanize and similar libraries cover) — they're plain counts
// and rates that want generic k/M/G or m/µ/n prefixing.
package siunit

import "fmt"

// prefixes above 1, indexed by power-of-1000 step.
var bigPrefixes = []string{"", "k", "M", "G", "T", "P"}

// prefixes below 1, indexed by power-of-1000 step.
var smallPrefixes = []string{"", "m", "µ", "n", "p", "f"}

// Format renders v with a metric prefix and the given unit suffix, e.g.
// Format(1.23e9, "inst/s") == "1.23 Ginst/s".
func Format(v float64, unit string) string {
	if v == 0 || isNaNOrInf(v) {
		return fmt.Sprintf("%.2f %s", v, unit)
	}
	av := v
	if av < 0 {
		av = -av
	}
	switch {
	case av >= 1:
		step := 0
		for av >= 1000 && step < len(bigPrefixes)-1 {
			av /= 1000
			v /= 1000
			step++
		}
		return fmt.Sprintf("%.2f %s%s", v, bigPrefixes[step], unit)
	default:
		step := 0
		for av < 1 && step < len(smallPrefixes)-1 {
			av *= 1000
			v *= 1000
			step++
		}
		return fmt.Sprintf("%.2f %s%s", v, smallPrefixes[step], unit)
	}
}

func isNaNOrInf(v float64) bool {
	return v != v || v > maxFloat || v < -maxFloat
}

const maxFloat = 1.7976931348623157e+308
