// Package registry persists the feature registry: the mapping from feature
// key to the packages it installs, their version pins per template kind,
// and the template/language combinations the feature supports.
//
// The registry is read fresh from disk for every job and replaced as a
// whole file on save. Entries that fail validation are skipped when loading
// so a hand-edited registry can never break project creation.
package registry
