// Package scaffold invokes the upstream project generator for a job. It
// selects create-vue for Vue 3 and @vue/cli for Vue 2, forces non-interactive
// execution, and reports generator output when the process fails.
package scaffold
