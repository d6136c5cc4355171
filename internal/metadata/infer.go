package metadata

import (
	"path"
	"strings"
)

// byFileName maps the module file name of a configuration export to its kind.
var byFileName = map[string]ModuleKind{
	"objectmodule.bsl":              KindObjectModule,
	"managermodule.bsl":             KindManagerModule,
	"recordsetmodule.bsl":           KindRecordSetModule,
	"valuemanagermodule.bsl":        KindValueManagerModule,
	"commandmodule.bsl":             KindCommandModule,
	"sessionmodule.bsl":             KindSessionModule,
	"managedapplicationmodule.bsl":  KindManagedApplicationModule,
	"ordinaryapplicationmodule.bsl": KindOrdinaryApplicationModule,
	"externalconnectionmodule.bsl":  KindExternalConnectionModule,
}

// FileKindOf classifies by extension: .os is a OneScript script.
func FileKindOf(p string) FileKind {
	if strings.EqualFold(path.Ext(slash(p)), ".os") {
		return FileOS
	}
	return FileBSL
}

// InferKind guesses the module kind from the path layout of a Designer or
// EDT export:
//
//	CommonModules/<Имя>/Ext/Module.bsl       CommonModule
//	.../Forms/<Форма>/Ext/Form/Module.bsl    FormModule
//	CommonForms/<Имя>/Module.bsl (EDT)       FormModule
//	HTTPServices/<Имя>/Ext/Module.bsl        HTTPServiceModule
//	.../ObjectModule.bsl                     ObjectModule
func InferKind(p string) ModuleKind {
	parts := splitPath(p)
	if len(parts) == 0 || FileKindOf(p) == FileOS {
		return KindUnknown
	}
	base := strings.ToLower(parts[len(parts)-1])
	if k, ok := byFileName[base]; ok {
		return k
	}
	if base != "module.bsl" {
		return KindUnknown
	}
	for i := len(parts) - 2; i >= 0; i-- {
		switch strings.ToLower(parts[i]) {
		case "forms", "commonforms":
			return KindFormModule
		case "commonmodules":
			return KindCommonModule
		case "httpservices":
			return KindHTTPServiceModule
		case "webservices":
			return KindWebServiceModule
		}
	}
	return KindUnknown
}

// CommonModuleName returns <Имя> for a common module path.
func CommonModuleName(p string) (string, bool) {
	parts := splitPath(p)
	for i := len(parts) - 2; i >= 0; i-- {
		if strings.EqualFold(parts[i], "CommonModules") {
			return parts[i+1], true
		}
	}
	return "", false
}

func slash(p string) string { return strings.ReplaceAll(p, "\\", "/") }

func splitPath(p string) []string {
	p = strings.Trim(slash(p), "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
