package branding

import "testing"

func TestEnvVar(t *testing.T) {
	if got := EnvVar("home"); got != "VUECRAFT_HOME" {
		t.Errorf("EnvVar(\"home\") = %q, want %q", got, "VUECRAFT_HOME")
	}
}

func TestEmbeddedValues(t *testing.T) {
	if CLIName() != "vuecraft" {
		t.Errorf("CLIName() = %q, want %q", CLIName(), "vuecraft")
	}
	if HomeDir() != ".vuecraft" {
		t.Errorf("HomeDir() = %q, want %q", HomeDir(), ".vuecraft")
	}
}
