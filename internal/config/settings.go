package config

import (
	"crypto/sha256"
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"bslcheck/internal/diag"
)

// Override is a per-rule entry of [diagnostics.parameters]: a boolean
// shortcut or a parameter table. Таблица включает правило.
type Override struct {
	Enabled bool
	Params  map[string]any
}

// IsMap reports whether the override was given as a parameter table.
func (o Override) IsMap() bool { return o.Params != nil }

// MetadataOverride replaces descriptor severity/type for one rule.
type MetadataOverride struct {
	Severity string `toml:"severity" json:"severity"`
	Type     string `toml:"type" json:"type"`
}

// SubsystemsFilter restricts analysis to modules of the listed subsystems.
type SubsystemsFilter struct {
	Include []string `toml:"include" json:"include"`
	Exclude []string `toml:"exclude" json:"exclude"`
}

// Empty reports whether the filter lets everything through.
func (f SubsystemsFilter) Empty() bool { return len(f.Include) == 0 && len(f.Exclude) == 0 }

// Allows checks a document's subsystems against the filter. Документ без
// подсистем (нет объекта метаданных) проходит всегда.
func (f SubsystemsFilter) Allows(subsystems []string) bool {
	if len(subsystems) == 0 || f.Empty() {
		return true
	}
	has := func(list []string, name string) bool {
		return slices.ContainsFunc(list, func(s string) bool { return strings.EqualFold(s, name) })
	}
	for _, s := range subsystems {
		if has(f.Exclude, s) {
			return false
		}
	}
	if len(f.Include) == 0 {
		return true
	}
	for _, s := range subsystems {
		if has(f.Include, s) {
			return true
		}
	}
	return false
}

// Settings is one immutable view of the diagnostic configuration.
type Settings struct {
	Mode               Mode
	SkipSupport        SkipSupport
	MinimumLevel       diag.Severity
	OrdinaryAppSupport bool
	Subsystems         SubsystemsFilter
	// Parameters keyed by rule code as written by the user; lookups fold case.
	Parameters map[string]Override
	Metadata   map[string]MetadataOverride
	// Ignored lists entries dropped while decoding (bad values, unknown shapes).
	Ignored []string
}

// Default is the configuration used without a settings file.
func Default() Settings {
	return Settings{
		Mode:               ModeOn,
		SkipSupport:        SkipNever,
		MinimumLevel:       diag.SevHint,
		OrdinaryAppSupport: true,
		Parameters:         map[string]Override{},
		Metadata:           map[string]MetadataOverride{},
	}
}

// Override returns the entry for a rule code.
func (s *Settings) Override(code string) (Override, bool) {
	if o, ok := s.Parameters[code]; ok {
		return o, true
	}
	for k, o := range s.Parameters {
		if strings.EqualFold(k, code) {
			return o, true
		}
	}
	return Override{}, false
}

// MetadataFor returns the metadata override of a rule code.
func (s *Settings) MetadataFor(code string) (MetadataOverride, bool) {
	if o, ok := s.Metadata[code]; ok {
		return o, true
	}
	for k, o := range s.Metadata {
		if strings.EqualFold(k, code) {
			return o, true
		}
	}
	return MetadataOverride{}, false
}

// Clone returns a deep copy; parameter tables are copied one level deep.
func (s Settings) Clone() Settings {
	out := s
	out.Parameters = make(map[string]Override, len(s.Parameters))
	for k, o := range s.Parameters {
		if o.Params != nil {
			o.Params = maps.Clone(o.Params)
		}
		out.Parameters[k] = o
	}
	out.Metadata = maps.Clone(s.Metadata)
	if out.Metadata == nil {
		out.Metadata = map[string]MetadataOverride{}
	}
	out.Subsystems.Include = slices.Clone(s.Subsystems.Include)
	out.Subsystems.Exclude = slices.Clone(s.Subsystems.Exclude)
	out.Ignored = slices.Clone(s.Ignored)
	return out
}

type fingerprintView struct {
	Mode       string
	Skip       string
	Min        string
	Ordinary   bool
	Subsystems SubsystemsFilter
	Parameters map[string]any
	Metadata   map[string]MetadataOverride
}

// Fingerprint identifies the settings for cache keys. encoding/json сортирует
// ключи map, поэтому отпечаток стабилен.
func (s *Settings) Fingerprint() [32]byte {
	view := fingerprintView{
		Mode:       s.Mode.String(),
		Skip:       s.SkipSupport.String(),
		Min:        s.MinimumLevel.String(),
		Ordinary:   s.OrdinaryAppSupport,
		Subsystems: s.Subsystems,
		Parameters: make(map[string]any, len(s.Parameters)),
		Metadata:   s.Metadata,
	}
	for k, o := range s.Parameters {
		if o.IsMap() {
			view.Parameters[strings.ToLower(k)] = o.Params
		} else {
			view.Parameters[strings.ToLower(k)] = o.Enabled
		}
	}
	data, err := json.Marshal(view)
	if err != nil {
		return [32]byte{}
	}
	return sha256.Sum256(data)
}
