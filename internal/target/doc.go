// Package target validates the directory a new project will be generated
// into. The check is advisory: no lock is held, so callers repeat it right
// before the generator runs.
package target
