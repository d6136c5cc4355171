package metadata

import (
	"strings"
)

// ModuleKind is the role of a BSL module inside a configuration.
type ModuleKind uint8

const (
	// KindUnknown: вид не определён (одиночный файл, OneScript).
	KindUnknown ModuleKind = iota
	KindCommonModule
	KindObjectModule
	KindManagerModule
	KindFormModule
	KindCommandModule
	KindRecordSetModule
	KindValueManagerModule
	KindSessionModule
	KindManagedApplicationModule
	KindOrdinaryApplicationModule
	KindExternalConnectionModule
	KindHTTPServiceModule
	KindWebServiceModule
)

var kindNames = [...]string{
	KindUnknown:                   "Unknown",
	KindCommonModule:              "CommonModule",
	KindObjectModule:              "ObjectModule",
	KindManagerModule:             "ManagerModule",
	KindFormModule:                "FormModule",
	KindCommandModule:             "CommandModule",
	KindRecordSetModule:           "RecordSetModule",
	KindValueManagerModule:        "ValueManagerModule",
	KindSessionModule:             "SessionModule",
	KindManagedApplicationModule:  "ManagedApplicationModule",
	KindOrdinaryApplicationModule: "OrdinaryApplicationModule",
	KindExternalConnectionModule:  "ExternalConnectionModule",
	KindHTTPServiceModule:         "HTTPServiceModule",
	KindWebServiceModule:          "WebServiceModule",
}

func (k ModuleKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// ParseModuleKind accepts the names printed by String, case-insensitively.
func ParseModuleKind(s string) (ModuleKind, bool) {
	s = strings.TrimSpace(s)
	for i, name := range kindNames {
		if strings.EqualFold(name, s) {
			return ModuleKind(i), true
		}
	}
	return KindUnknown, false
}

// MarshalText lets kinds appear as strings in TOML, YAML and JSON.
func (k ModuleKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *ModuleKind) UnmarshalText(b []byte) error {
	v, ok := ParseModuleKind(string(b))
	if !ok {
		return &ValueError{Field: "kind", Value: string(b)}
	}
	*k = v
	return nil
}

// FileKind distinguishes configuration modules from OneScript scripts.
type FileKind uint8

const (
	// FileBSL is a module of a 1C configuration (.bsl).
	FileBSL FileKind = iota
	// FileOS is a standalone OneScript script (.os).
	FileOS
)

func (k FileKind) String() string {
	if k == FileOS {
		return "os"
	}
	return "bsl"
}

// SupportVariant is the vendor-support state of a module for one support
// configuration. Значения упорядочены от самого строгого к самому свободному.
type SupportVariant uint8

const (
	SupportNotEditable SupportVariant = iota
	SupportEditableSupportEnabled
	SupportNotSupported
	SupportNone
)

var supportNames = [...]string{
	SupportNotEditable:            "notEditable",
	SupportEditableSupportEnabled: "editableSupportEnabled",
	SupportNotSupported:           "notSupported",
	SupportNone:                   "none",
}

func (v SupportVariant) String() string {
	if int(v) < len(supportNames) {
		return supportNames[v]
	}
	return "none"
}

// ParseSupportVariant accepts camelCase and UPPER_SNAKE spellings.
func ParseSupportVariant(s string) (SupportVariant, bool) {
	key := strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	for i, name := range supportNames {
		if strings.EqualFold(name, key) {
			return SupportVariant(i), true
		}
	}
	return SupportNone, false
}

func (v SupportVariant) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *SupportVariant) UnmarshalText(b []byte) error {
	p, ok := ParseSupportVariant(string(b))
	if !ok {
		return &ValueError{Field: "support", Value: string(b)}
	}
	*v = p
	return nil
}

// MostRestrictive returns the strictest variant of the set; SupportNone for an empty set.
func MostRestrictive(variants map[string]SupportVariant) SupportVariant {
	out := SupportNone
	for _, v := range variants {
		if v < out {
			out = v
		}
	}
	return out
}
