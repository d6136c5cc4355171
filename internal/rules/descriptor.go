package rules

import (
	"fmt"
	"strings"

	"bslcheck/internal/config"
	"bslcheck/internal/diag"
	"bslcheck/internal/metadata"
)

// Type classifies a rule finding.
type Type uint8

const (
	TypeCodeSmell Type = iota
	TypeError
	TypeVulnerability
	TypeSecurityHotspot
)

var typeNames = [...]string{
	TypeCodeSmell:       "CODE_SMELL",
	TypeError:           "ERROR",
	TypeVulnerability:   "VULNERABILITY",
	TypeSecurityHotspot: "SECURITY_HOTSPOT",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "CODE_SMELL"
}

// ParseType accepts CODE_SMELL, codeSmell and similar spellings.
func ParseType(s string) (Type, error) {
	key := strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	for i, name := range typeNames {
		if strings.EqualFold(strings.ReplaceAll(name, "_", ""), key) {
			return Type(i), nil
		}
	}
	return TypeCodeSmell, fmt.Errorf("unknown rule type %q", s)
}

func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Severity is the rule's own importance scale, mapped to LSP levels by LSPSeverity.
type Severity uint8

const (
	SeverityInfo Severity = iota
	SeverityMinor
	SeverityMajor
	SeverityCritical
	SeverityBlocker
)

var severityNames = [...]string{
	SeverityInfo:     "INFO",
	SeverityMinor:    "MINOR",
	SeverityMajor:    "MAJOR",
	SeverityCritical: "CRITICAL",
	SeverityBlocker:  "BLOCKER",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "INFO"
}

func ParseSeverity(s string) (Severity, error) {
	for i, name := range severityNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Severity(i), nil
		}
	}
	return SeverityInfo, fmt.Errorf("unknown rule severity %q", s)
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// LSPSeverity maps a rule type and severity to the level shown by clients.
// Запахи кода INFO/MINOR понижаются до подсказки и информации.
func LSPSeverity(t Type, s Severity) diag.Severity {
	switch t {
	case TypeCodeSmell:
		switch s {
		case SeverityInfo:
			return diag.SevHint
		case SeverityMinor:
			return diag.SevInfo
		default:
			return diag.SevWarning
		}
	case TypeSecurityHotspot:
		return diag.SevWarning
	default:
		return diag.SevError
	}
}

// Scope tells which file kinds a rule applies to.
type Scope uint8

const (
	ScopeAll Scope = iota
	// ScopeBSL: только модули конфигурации.
	ScopeBSL
	// ScopeOS: только скрипты OneScript.
	ScopeOS
)

func (s Scope) String() string {
	switch s {
	case ScopeBSL:
		return "BSL"
	case ScopeOS:
		return "OS"
	}
	return "ALL"
}

func (s Scope) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Matches reports whether the scope admits a file kind.
func (s Scope) Matches(k metadata.FileKind) bool {
	switch s {
	case ScopeBSL:
		return k == metadata.FileBSL
	case ScopeOS:
		return k == metadata.FileOS
	}
	return true
}

type Tag string

const (
	TagStandard      Tag = "standard"
	TagBadPractice   Tag = "badpractice"
	TagSuspicious    Tag = "suspicious"
	TagBrainOverload Tag = "brainoverload"
	TagUnpredictable Tag = "unpredictable"
	TagClumsy        Tag = "clumsy"
	TagDesign        Tag = "design"
	TagDeprecated    Tag = "deprecated"
	TagUnused        Tag = "unused"
	TagError         Tag = "error"
	TagPerformance   Tag = "performance"
	TagLockInOS      Tag = "lockinos"
)

type ParamType uint8

const (
	ParamInt ParamType = iota
	ParamBool
	ParamString
	ParamFloat
)

func (t ParamType) String() string {
	switch t {
	case ParamBool:
		return "Boolean"
	case ParamString:
		return "String"
	case ParamFloat:
		return "Float"
	}
	return "Integer"
}

func (t ParamType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Param is one entry of a rule's parameter schema.
type Param struct {
	Name        string
	Type        ParamType
	Default     any
	Description string
}

// Descriptor is the static metadata of a rule plus its factory.
type Descriptor struct {
	Code string
	// Name is the short human title.
	Name string
	// Message is a fmt format for diagnostic text; arguments come from Pass.Reportf.
	Message     string
	Description string

	Type     Type
	Severity Severity
	Scope    Scope
	// ModuleKinds restricts the rule to these module kinds; empty means all.
	ModuleKinds []metadata.ModuleKind
	// MinCompat/MaxCompat bound the compatibility mode; zero is open.
	MinCompat metadata.Version
	MaxCompat metadata.Version

	ActivatedByDefault bool
	Tags               []Tag
	MinutesToFix       int
	Params             []Param

	// Applicable is an optional extra gate; returning false excludes the rule.
	Applicable func(ctx metadata.Context, s *config.Settings) bool

	New func() Rule
}

// HasFixes reports whether instances of the rule provide quick fixes.
func (d *Descriptor) HasFixes() bool {
	if d.New == nil {
		return false
	}
	_, ok := d.New().(QuickFixer)
	return ok
}

// Effective applies a metadata override; bad values keep descriptor values.
func (d *Descriptor) Effective(md config.MetadataOverride) (Type, Severity) {
	t, s := d.Type, d.Severity
	if md.Type != "" {
		if v, err := ParseType(md.Type); err == nil {
			t = v
		}
	}
	if md.Severity != "" {
		if v, err := ParseSeverity(md.Severity); err == nil {
			s = v
		}
	}
	return t, s
}

// Param looks up a schema entry by name.
func (d *Descriptor) Param(name string) (Param, bool) {
	for _, p := range d.Params {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Param{}, false
}
