package tex2html

import (
	"tex2html/internal/texscan"
)

// SyntaxReport summarizes advisory syntax problems in LaTeX source.
// Extraction and splitting stay best-effort regardless; the report exists so
// the UI can warn the author before conversion.
type SyntaxReport struct {
	// BraceDelta is opening minus closing braces; zero means balanced.
	BraceDelta int
	// EnvMismatches maps environment name to begin count minus end count,
	// for environments whose counts differ.
	EnvMismatches map[string]int
}

// OK reports whether no problems were found.
func (r SyntaxReport) OK() bool {
	return r.BraceDelta == 0 && len(r.EnvMismatches) == 0
}

// CheckSyntax scans source for unbalanced braces and mismatched environment
// tags. Commented-out content is excluded from all counts.
func CheckSyntax(source string) SyntaxReport {
	report := SyntaxReport{
		BraceDelta:    texscan.BraceDelta(source),
		EnvMismatches: make(map[string]int),
	}

	counts := make(map[string]int)
	for _, t := range texscan.ActiveTags(source) {
		if t.Begin {
			counts[t.Name]++
		} else {
			counts[t.Name]--
		}
	}
	for name, delta := range counts {
		if delta != 0 {
			report.EnvMismatches[name] = delta
		}
	}
	return report
}
