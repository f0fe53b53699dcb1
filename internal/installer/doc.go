// Package installer runs the package manager inside a generated project:
// the bulk install verb once, then one add invocation per package so every
// failure is attributable to a single package.
package installer
