// Package versions lists the published versions of an npm package through
// the package manager, bounded by a timeout.
package versions
