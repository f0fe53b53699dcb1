package registry

import (
	"github.com/vuecraft-labs/vuecraft/internal/jobspec"
)

// Match returns the first feature with key that supports kind and lang.
// Keys are not assumed unique; the linear scan stops at the first key match,
// so a later duplicate never overrides an unsupported earlier one.
func Match(features []Feature, key string, kind jobspec.TemplateKind, lang jobspec.Language) (*Feature, bool) {
	for i := range features {
		if features[i].Key != key {
			continue
		}
		if !features[i].Supports(kind, lang) {
			return nil, false
		}
		return &features[i], true
	}
	return nil, false
}

// PackageSpecs returns "name" or "name@version" for every package of f,
// using the version pinned for kind when present.
func PackageSpecs(f *Feature, kind jobspec.TemplateKind) []string {
	names := f.PackageNames()
	specs := make([]string, 0, len(names))
	version, pinned := f.VersionFor(kind)
	for _, name := range names {
		if pinned {
			specs = append(specs, name+"@"+version)
		} else {
			specs = append(specs, name)
		}
	}
	return specs
}

// Skip reasons recorded in a plan.
const (
	SkipUnknown     = "not in registry"
	SkipUnsupported = "not supported for this template/language"
	SkipNoPackages  = "no packages"
)

// Step is one requested feature resolved against the registry.
type Step struct {
	Key     string
	Feature *Feature // nil when skipped
	Specs   []string
	Dev     bool
	Skipped string // non-empty when the feature installs nothing
}

// Plan resolves requested keys, in request order, into install steps.
func Plan(features []Feature, requested []string, kind jobspec.TemplateKind, lang jobspec.Language) []Step {
	steps := make([]Step, 0, len(requested))
	for _, key := range requested {
		step := Step{Key: key}
		f, ok := Match(features, key, kind, lang)
		switch {
		case !ok && hasKey(features, key):
			step.Skipped = SkipUnsupported
		case !ok:
			step.Skipped = SkipUnknown
		default:
			step.Feature = f
			step.Dev = f.Dev
			step.Specs = PackageSpecs(f, kind)
			if len(step.Specs) == 0 {
				step.Skipped = SkipNoPackages
			}
		}
		steps = append(steps, step)
	}
	return steps
}

// Matched returns the keys of steps whose feature matched, including those
// with no packages.
func Matched(steps []Step) map[string]bool {
	out := make(map[string]bool, len(steps))
	for _, s := range steps {
		if s.Feature != nil {
			out[s.Key] = true
		}
	}
	return out
}

func hasKey(features []Feature, key string) bool {
	for i := range features {
		if features[i].Key == key {
			return true
		}
	}
	return false
}
