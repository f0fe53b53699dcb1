package registry

import (
	"github.com/vuecraft-labs/vuecraft/internal/jobspec"
)

// Feature describes one optional unit of extra dependencies and patches.
type Feature struct {
	Key         string            `json:"key"`
	Label       string            `json:"label,omitempty"`
	Description string            `json:"desc,omitempty"`
	Packages    []string          `json:"packages,omitempty"`
	Package     string            `json:"package,omitempty"`
	Versions    map[string]string `json:"versions,omitempty"`
	Supported   *Support          `json:"supported,omitempty"`
	Dev         bool              `json:"dev,omitempty"`
}

// Support is the feature's compatibility matrix. A nil flag means supported.
type Support struct {
	Vue2 *bool `json:"vue2,omitempty"`
	Vue3 *bool `json:"vue3,omitempty"`
	TS   *bool `json:"ts,omitempty"`
	JS   *bool `json:"js,omitempty"`
}

// Document is the persisted registry file.
type Document struct {
	Components []Feature `json:"components"`
}

// PackageNames returns the ordered package list, accepting either the plural
// "packages" array or the singular "package" field.
func (f *Feature) PackageNames() []string {
	if len(f.Packages) > 0 {
		return f.Packages
	}
	if f.Package != "" {
		return []string{f.Package}
	}
	return nil
}

// Supports reports whether the feature applies to kind and lang. Both the
// template flag and the language flag must allow it.
func (f *Feature) Supports(kind jobspec.TemplateKind, lang jobspec.Language) bool {
	if f.Supported == nil {
		return true
	}
	s := f.Supported

	var kindOK, langOK *bool
	switch kind {
	case jobspec.TemplateV2:
		kindOK = s.Vue2
	case jobspec.TemplateV3:
		kindOK = s.Vue3
	}
	switch lang {
	case jobspec.LangTS:
		langOK = s.TS
	case jobspec.LangJS:
		langOK = s.JS
	}
	return flag(kindOK) && flag(langOK)
}

// VersionFor returns the pinned version range for kind, if any.
func (f *Feature) VersionFor(kind jobspec.TemplateKind) (string, bool) {
	v, ok := f.Versions[kind.RegistryKey()]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func flag(b *bool) bool {
	return b == nil || *b
}

func boolPtr(b bool) *bool { return &b }
