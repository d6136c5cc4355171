package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"bslcheck/internal/diag"
)

// FileName is the settings file looked up from the analyzed path upwards.
const FileName = "bslcheck.toml"

type diagnosticsSection struct {
	Mode               string                      `toml:"mode" json:"mode"`
	SkipSupport        string                      `toml:"skipSupport" json:"skipSupport"`
	MinimumLevel       string                      `toml:"minimumLSPDiagnosticLevel" json:"minimumLSPDiagnosticLevel"`
	OrdinaryAppSupport *bool                       `toml:"ordinaryAppSupport" json:"ordinaryAppSupport"`
	SubsystemsFilter   SubsystemsFilter            `toml:"subsystemsFilter" json:"subsystemsFilter"`
	Parameters         map[string]any              `toml:"parameters" json:"parameters"`
	Metadata           map[string]MetadataOverride `toml:"metadata" json:"metadata"`
}

type settingsFile struct {
	Diagnostics diagnosticsSection `toml:"diagnostics" json:"diagnostics"`
}

// LoadFile decodes the [diagnostics] section of a TOML settings file.
// Missing section gives Default().
func LoadFile(path string) (Settings, error) {
	var raw settingsFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Default(), fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("diagnostics") {
		return Default(), nil
	}
	s, err := raw.Diagnostics.resolve()
	if err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// DecodeTOML is LoadFile for in-memory data.
func DecodeTOML(data []byte) (Settings, error) {
	var raw settingsFile
	meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&raw)
	if err != nil {
		return Default(), fmt.Errorf("failed to parse TOML: %w", err)
	}
	if !meta.IsDefined("diagnostics") {
		return Default(), nil
	}
	return raw.Diagnostics.resolve()
}

// DecodeJSON reads the same shape from JSON, as sent by LSP clients in
// workspace/didChangeConfiguration. Принимаются обе формы: с обёрткой
// {"diagnostics": {...}} и без неё.
func DecodeJSON(data []byte) (Settings, error) {
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return Default(), nil
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return Default(), fmt.Errorf("failed to parse settings JSON: %w", err)
	}
	var section diagnosticsSection
	target := data
	if inner, ok := probe["diagnostics"]; ok {
		target = inner
	}
	if err := json.Unmarshal(target, &section); err != nil {
		return Default(), fmt.Errorf("failed to parse settings JSON: %w", err)
	}
	return section.resolve()
}

func (d diagnosticsSection) resolve() (Settings, error) {
	s := Default()
	var err error
	if s.Mode, err = ParseMode(d.Mode); err != nil {
		return Default(), err
	}
	if s.SkipSupport, err = ParseSkipSupport(d.SkipSupport); err != nil {
		return Default(), err
	}
	if strings.TrimSpace(d.MinimumLevel) != "" {
		lvl, perr := diag.ParseSeverity(d.MinimumLevel)
		if perr != nil {
			s.Ignored = append(s.Ignored, fmt.Sprintf("minimumLSPDiagnosticLevel: %v", perr))
		} else {
			s.MinimumLevel = lvl
		}
	}
	if d.OrdinaryAppSupport != nil {
		s.OrdinaryAppSupport = *d.OrdinaryAppSupport
	}
	s.Subsystems = d.SubsystemsFilter
	for code, m := range d.Metadata {
		s.Metadata[code] = m
	}

	codes := make([]string, 0, len(d.Parameters))
	for code := range d.Parameters {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		switch v := d.Parameters[code].(type) {
		case bool:
			s.Parameters[code] = Override{Enabled: v}
		case map[string]any:
			s.Parameters[code] = Override{Enabled: true, Params: v}
		default:
			s.Ignored = append(s.Ignored, fmt.Sprintf("parameters.%s: expected bool or table, got %T", code, v))
		}
	}
	return s, nil
}

// Flags are CLI overrides; empty fields keep the file value.
type Flags struct {
	Mode        string
	SkipSupport string
	MinLevel    string
}

// Apply returns s with the non-empty flags applied.
func (f Flags) Apply(s Settings) (Settings, error) {
	out := s.Clone()
	var err error
	if f.Mode != "" {
		if out.Mode, err = ParseMode(f.Mode); err != nil {
			return s, err
		}
	}
	if f.SkipSupport != "" {
		if out.SkipSupport, err = ParseSkipSupport(f.SkipSupport); err != nil {
			return s, err
		}
	}
	if f.MinLevel != "" {
		if out.MinimumLevel, err = diag.ParseSeverity(f.MinLevel); err != nil {
			return s, fmt.Errorf("--min-level: %w", err)
		}
	}
	return out, nil
}
