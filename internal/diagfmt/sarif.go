package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"

	"bslcheck/internal/diag"
	"bslcheck/internal/source"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
)

// SarifRule describes one reportingDescriptor of the tool.
type SarifRule struct {
	ID          string
	Name        string
	Description string
	// Level is the default SARIF level: "error", "warning" or "note".
	Level string
	Tags  []string
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InformationURI string
	InvocationArgs []string
	Rules          []SarifRule
}

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	// columnKind объявлен явно: колонки в UTF-16, как в LSP
	ColumnKind string        `json:"columnKind"`
	Results    []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string                     `json:"name"`
	Version        string                     `json:"version,omitempty"`
	InformationURI string                     `json:"informationUri,omitempty"`
	Rules          []sarifReportingDescriptor `json:"rules,omitempty"`
}

type sarifReportingDescriptor struct {
	ID                   string              `json:"id"`
	Name                 string              `json:"name,omitempty"`
	ShortDescription     *sarifMessage       `json:"shortDescription,omitempty"`
	DefaultConfiguration *sarifConfiguration `json:"defaultConfiguration,omitempty"`
	Properties           *sarifProperties    `json:"properties,omitempty"`
}

type sarifConfiguration struct {
	Level string `json:"level"`
}

type sarifProperties struct {
	Tags []string `json:"tags,omitempty"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID           string          `json:"ruleId"`
	RuleIndex        *int            `json:"ruleIndex,omitempty"`
	Level            string          `json:"level"`
	Message          sarifMessage    `json:"message"`
	Locations        []sarifLocation `json:"locations"`
	RelatedLocations []sarifLocation `json:"relatedLocations,omitempty"`
}

type sarifLocation struct {
	ID               *int                  `json:"id,omitempty"`
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
	Message          *sarifMessage         `json:"message,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
}

// SarifLevel maps a severity to a SARIF result level.
func SarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0).
// Пути выводятся относительно fs.BaseDir() с прямыми слешами.
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildSarif(bag, fs, meta))
}

func buildSarif(bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) sarifLog {
	name := meta.ToolName
	if name == "" {
		name = "bslcheck"
	}
	driver := sarifDriver{Name: name, Version: meta.ToolVersion, InformationURI: meta.InformationURI}
	ruleIndex := make(map[string]int, len(meta.Rules))
	for i, r := range meta.Rules {
		ruleIndex[r.ID] = i
		desc := sarifReportingDescriptor{ID: r.ID, Name: r.Name}
		if r.Description != "" {
			desc.ShortDescription = &sarifMessage{Text: r.Description}
		}
		if r.Level != "" {
			desc.DefaultConfiguration = &sarifConfiguration{Level: r.Level}
		}
		if len(r.Tags) > 0 {
			desc.Properties = &sarifProperties{Tags: r.Tags}
		}
		driver.Rules = append(driver.Rules, desc)
	}

	run := sarifRun{
		Tool:       sarifTool{Driver: driver},
		ColumnKind: "utf16CodeUnits",
		Results:    []sarifResult{},
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{Arguments: meta.InvocationArgs, ExecutionSuccessful: true}}
	}
	if bag != nil && fs != nil {
		for _, d := range bag.Items() {
			res := sarifResult{
				RuleID:    d.Code.ID(),
				Level:     SarifLevel(d.Severity),
				Message:   sarifMessage{Text: d.Message},
				Locations: []sarifLocation{sarifLoc(fs, d.Primary)},
			}
			if idx, ok := ruleIndex[string(d.Code)]; ok {
				res.RuleIndex = &idx
			}
			for i, n := range d.Notes {
				loc := sarifLoc(fs, n.Span)
				id := i + 1
				loc.ID = &id
				loc.Message = &sarifMessage{Text: n.Msg}
				res.RelatedLocations = append(res.RelatedLocations, loc)
			}
			run.Results = append(run.Results, res)
		}
	}
	return sarifLog{Schema: sarifSchema, Version: sarifVersion, Runs: []sarifRun{run}}
}

func sarifLoc(fs *source.FileSet, sp source.Span) sarifLocation {
	f := fs.Get(sp.File)
	if f == nil {
		return sarifLocation{}
	}
	uri := filepath.ToSlash(f.FormatPath("relative", fs.BaseDir()))
	start, end := f.RangeOf(sp)
	return sarifLocation{PhysicalLocation: sarifPhysicalLocation{
		ArtifactLocation: sarifArtifactLocation{URI: uri},
		Region: &sarifRegion{
			StartLine:   start.Line + 1,
			StartColumn: start.Character + 1,
			EndLine:     end.Line + 1,
			EndColumn:   end.Character + 1,
		},
	}}
}
