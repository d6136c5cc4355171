package diag

import (
	"fmt"
	"strings"
)

// Severity is the LSP level of a diagnostic. Порядок совпадает с
// важностью: Hint < Info < Warning < Error.
type Severity uint8

const (
	SevHint Severity = iota
	SevInfo
	SevWarning
	SevError
)

var severityNames = [...]string{"HINT", "INFO", "WARNING", "ERROR"}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// severityAliases maps CLI and LSP spellings to levels.
var severityAliases = map[string]Severity{
	"hint":        SevHint,
	"info":        SevInfo,
	"information": SevInfo,
	"warn":        SevWarning,
	"warning":     SevWarning,
	"error":       SevError,
}

// ParseSeverity accepts LSP and CLI spellings of a level, in any case.
func ParseSeverity(s string) (Severity, error) {
	if sev, ok := severityAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return sev, nil
	}
	return SevHint, fmt.Errorf("unknown severity %q", s)
}
