package core

import "strings"

// Severity ranks diagnostics. Lower values are more severe.
type Severity int

const (
	// SeverityError marks a statement that could not be converted.
	SeverityError Severity = iota
	// SeverityWarning marks output that needs review.
	SeverityWarning
	// SeverityInfo is informational.
	SeverityInfo
)

var severityNames = [...]string{"error", "warning", "info"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "unknown"
	}
	return severityNames[s]
}

// AtLeast reports whether s is as severe as threshold or more.
func (s Severity) AtLeast(threshold Severity) bool {
	return s <= threshold
}

// ParseSeverity parses a severity name, ignoring case. Unknown names yield
// SeverityWarning and false.
func ParseSeverity(name string) (Severity, bool) {
	for i, n := range severityNames {
		if strings.EqualFold(n, name) {
			return Severity(i), true
		}
	}
	return SeverityWarning, false
}
