package metadata

// Context holds the per-document facts the rule selector and rules consume.
// Строится один раз на документ и не меняется во время анализа.
type Context struct {
	Path          string
	Kind          ModuleKind
	File          FileKind
	Compatibility Version
	Support       map[string]SupportVariant
	Subsystems    []string
	// Provider answers cross-module questions; may be nil.
	Provider Provider
}

// ContextFor collects the facts for one document. A nil provider gives a
// context with path inference only.
func ContextFor(p Provider, docPath string) Context {
	ctx := Context{Path: docPath, File: FileKindOf(docPath), Provider: p}
	if p == nil {
		ctx.Kind = InferKind(docPath)
		return ctx
	}
	if ctx.File == FileBSL {
		ctx.Kind = p.ModuleKind(docPath)
	}
	ctx.Compatibility = p.CompatibilityVersion(docPath)
	ctx.Support = p.SupportVariants(docPath)
	ctx.Subsystems = p.Subsystems(docPath)
	return ctx
}

// MostRestrictiveSupport is the strictest support variant of the document.
func (c Context) MostRestrictiveSupport() SupportVariant {
	return MostRestrictive(c.Support)
}
