package app

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestRegisterFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)

	for _, name := range []string{
		"transport", "host", "port",
		"auth-type", "auth-basic-username", "auth-basic-password", "auth-api-keys",
		"conduit-url", "conduit-token", "conduit-timeout",
		"context-radius", "max-search-results",
	} {
		if flags.Lookup(name) == nil {
			t.Errorf("Expected flag %q to be registered", name)
		}
	}
}

func TestRegisterFlags_Parse(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)

	err := flags.Parse([]string{
		"--transport", "sse",
		"--port", "9000",
		"--conduit-url", "https://phab.example.org/api",
		"--context-radius", "5",
	})
	if err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	transport, err := flags.GetString("transport")
	if err != nil || transport != "sse" {
		t.Errorf("Expected transport sse, got %q (%v)", transport, err)
	}
	radius, err := flags.GetInt("context-radius")
	if err != nil || radius != 5 {
		t.Errorf("Expected context-radius 5, got %d (%v)", radius, err)
	}
}
