// Package cli defines the Cobra command tree for the vuecraft CLI. Each file
// in this package registers one top-level command (create, check, features,
// etc.) with the root command. Command implementations delegate to the
// project service for business logic and only handle flag parsing, I/O
// formatting, and user interaction.
package cli
