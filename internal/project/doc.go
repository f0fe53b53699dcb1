// Package project is the entry point used by the presentation layer. A
// Service binds one configuration root and its settings to the scaffold
// pipeline, the feature registry, and the version query.
package project
