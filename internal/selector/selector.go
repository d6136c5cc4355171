package selector

import (
	"log/slog"
	"slices"

	"bslcheck/internal/config"
	"bslcheck/internal/metadata"
	"bslcheck/internal/rules"
)

// Selector turns the catalog into the active rule set of one document.
type Selector struct {
	registry *rules.Registry
	logger   *slog.Logger
}

func New(reg *rules.Registry, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Selector{registry: reg, logger: logger}
}

// Select returns fresh rule instances in catalog order. Стадии идут в
// фиксированном порядке, каждая может только исключить правило.
func (s *Selector) Select(ctx metadata.Context, settings *config.Settings) []*rules.Active {
	if settings == nil {
		def := config.Default()
		settings = &def
	}
	if settings.Mode == config.ModeOff {
		return nil
	}
	if !documentGate(ctx, settings) {
		s.logger.Debug("document skipped by support or subsystem filter",
			"path", ctx.Path, "support", ctx.MostRestrictiveSupport().String())
		return nil
	}

	var out []*rules.Active
	for _, d := range s.registry.All() {
		override, named := settings.Override(d.Code)
		if !modeGate(settings.Mode, d, override, named) {
			continue
		}
		if !kindGate(d, ctx) || !compatGate(d, ctx) {
			continue
		}
		if !overrideGate(settings.Mode, override, named) {
			continue
		}
		if d.Applicable != nil && !d.Applicable(ctx, settings) {
			continue
		}
		out = append(out, s.activate(d, override, settings))
	}
	return out
}

// Activate instantiates d with the parameters and metadata override from
// settings, without any gate. Quick fixes use it to rebuild a rule.
func (s *Selector) Activate(d *rules.Descriptor, settings *config.Settings) *rules.Active {
	if settings == nil {
		def := config.Default()
		settings = &def
	}
	o, _ := settings.Override(d.Code)
	return s.activate(d, o, settings)
}

func (s *Selector) activate(d *rules.Descriptor, o config.Override, settings *config.Settings) *rules.Active {
	cfg, ignored := rules.ResolveConfig(d.Params, o.Params)
	for _, msg := range ignored {
		s.logger.Debug("rule parameter ignored", "rule", d.Code, "reason", msg)
	}
	typ, sev := d.Type, d.Severity
	if md, ok := settings.MetadataFor(d.Code); ok {
		typ, sev = d.Effective(md)
	}
	return &rules.Active{Descriptor: d, Rule: d.New(), Config: cfg, Type: typ, Severity: sev}
}

// modeGate picks the base set. EXCEPT берёт базу ALL и убирает всё, что
// упомянуто в параметрах, независимо от значения.
func modeGate(mode config.Mode, d *rules.Descriptor, o config.Override, named bool) bool {
	switch mode {
	case config.ModeOn:
		if named {
			return o.Enabled
		}
		return d.ActivatedByDefault
	case config.ModeAll:
		return true
	case config.ModeOnly:
		return named && o.Enabled
	case config.ModeExcept:
		return !named
	}
	return false
}

// overrideGate applies boolean shortcuts; in ALL mode an explicit false still disables.
func overrideGate(mode config.Mode, o config.Override, named bool) bool {
	if !named || mode == config.ModeExcept {
		return true
	}
	return o.Enabled
}

func kindGate(d *rules.Descriptor, ctx metadata.Context) bool {
	if !d.Scope.Matches(ctx.File) {
		return false
	}
	if ctx.File == metadata.FileOS || len(d.ModuleKinds) == 0 {
		return true
	}
	return slices.Contains(d.ModuleKinds, ctx.Kind)
}

func compatGate(d *rules.Descriptor, ctx metadata.Context) bool {
	return ctx.Compatibility.InRange(d.MinCompat, d.MaxCompat)
}

// documentGate is the support-protection check plus the subsystem filter;
// both depend only on the document.
func documentGate(ctx metadata.Context, settings *config.Settings) bool {
	if !settings.Subsystems.Allows(ctx.Subsystems) {
		return false
	}
	if settings.SkipSupport == config.SkipNever || len(ctx.Support) == 0 {
		return true
	}
	// снятый с поддержки модуль правится свободно, его проверяют всегда
	variant := ctx.MostRestrictiveSupport()
	switch {
	case variant == metadata.SupportNone, variant == metadata.SupportNotSupported:
		return true
	case settings.SkipSupport == config.SkipWithSupportLocked:
		return variant != metadata.SupportNotEditable
	default:
		return false
	}
}
