package rules

import (
	"strings"
	"testing"

	"bslcheck/internal/config"
	"bslcheck/internal/diag"
)

type nopRule struct{}

func (nopRule) Run(*Pass) error { return nil }

func sampleDescriptor(code string) *Descriptor {
	return &Descriptor{
		Code:     code,
		Name:     "Пример",
		Message:  "Строка длиннее %d символов",
		Type:     TypeCodeSmell,
		Severity: SeverityMinor,
		Tags:     []Tag{TagStandard},
		Params: []Param{
			{Name: "maxLineLength", Type: ParamInt, Default: 120, Description: "Максимальная длина строки"},
			{Name: "checkComments", Type: ParamBool, Default: false, Description: "Проверять комментарии"},
		},
		New: func() Rule { return nopRule{} },
	}
}

func TestRegistryOrderAndLookup(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(sampleDescriptor("Second"), sampleDescriptor("First"))
	all := r.All()
	if len(all) != 2 || all[0].Code != "Second" {
		t.Fatalf("registration order lost: %v", all)
	}
	if _, ok := r.Lookup("first"); !ok {
		t.Fatalf("lookup must ignore case")
	}
	if err := r.Register(sampleDescriptor("FIRST")); err == nil {
		t.Fatalf("duplicate code accepted")
	}
	a, err := r.Instantiate("Second")
	if err != nil || a.Config.Int("maxLineLength") != 120 {
		t.Fatalf("Instantiate = %+v, %v", a, err)
	}
	if _, err := r.Instantiate("Nope"); err == nil {
		t.Fatalf("expected error for unknown code")
	}
}

func TestValidate(t *testing.T) {
	r := NewRegistry()
	if err := r.Validate(); err == nil {
		t.Fatalf("empty catalog must fail")
	}
	bad := sampleDescriptor("bad_code")
	bad.Tags = nil
	bad.Params[0].Description = ""
	bad.Params[1].Default = "x"
	r.MustRegister(sampleDescriptor("Good"), bad)
	err := r.Validate()
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	for _, want := range []string{"CamelCase", "tags", "no description", "is not Boolean"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("missing %q in %v", want, err)
		}
	}
}

func TestResolveConfig(t *testing.T) {
	schema := sampleDescriptor("X").Params
	c, ignored := ResolveConfig(schema, map[string]any{
		"MaxLineLength": int64(80),
		"checkComments": "oops-not-bool",
		"unknown":       1,
	})
	if c.Int("maxlinelength") != 80 {
		t.Fatalf("override not applied: %v", c.Values())
	}
	if c.Bool("checkComments") {
		t.Fatalf("malformed value must fall back to default")
	}
	if len(ignored) != 2 {
		t.Fatalf("ignored = %v", ignored)
	}
	c, _ = ResolveConfig(schema, map[string]any{"maxLineLength": 99.5})
	if c.Int("maxLineLength") != 120 {
		t.Fatalf("fractional value must fall back")
	}
}

func TestLSPSeverityAndOverride(t *testing.T) {
	cases := []struct {
		t    Type
		s    Severity
		want diag.Severity
	}{
		{TypeCodeSmell, SeverityInfo, diag.SevHint},
		{TypeCodeSmell, SeverityMinor, diag.SevInfo},
		{TypeCodeSmell, SeverityCritical, diag.SevWarning},
		{TypeSecurityHotspot, SeverityBlocker, diag.SevWarning},
		{TypeError, SeverityInfo, diag.SevError},
		{TypeVulnerability, SeverityMinor, diag.SevError},
	}
	for _, c := range cases {
		if got := LSPSeverity(c.t, c.s); got != c.want {
			t.Fatalf("LSPSeverity(%v,%v) = %v, want %v", c.t, c.s, got, c.want)
		}
	}
	d := sampleDescriptor("X")
	typ, sev := d.Effective(config.MetadataOverride{Type: "error", Severity: "bogus"})
	if typ != TypeError || sev != SeverityMinor {
		t.Fatalf("Effective = %v %v", typ, sev)
	}
}

func TestPassReport(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(sampleDescriptor("LineLength"))
	a, _ := r.Instantiate("LineLength")
	p := NewPass(t.Context(), a, &Document{}, nil)
	p.Reportf(testSpan(), 120)
	p.Report(diag.Diagnostic{Message: "raw", Code: "Other", Severity: diag.SevError})
	ds := p.Diagnostics()
	if len(ds) != 2 || ds[0].Message != "Строка длиннее 120 символов" {
		t.Fatalf("unexpected %+v", ds)
	}
	if ds[1].Code != "LineLength" || ds[1].Severity != diag.SevInfo {
		t.Fatalf("Report must force code and severity: %+v", ds[1])
	}
}
