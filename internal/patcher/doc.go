// Package patcher applies feature patches to a freshly generated project:
// import lines prepended to the entry file, a persistence-plugin rewrite of
// the Pinia setup, and supplementary asset files.
//
// Every operation is idempotent. Lines are only added when absent, the Pinia
// rewrite is skipped once a registration exists, and asset files are never
// overwritten. The rewrite is a bounded text heuristic, not a parser: when
// no recognizable call shape is found the file is left unchanged.
package patcher
