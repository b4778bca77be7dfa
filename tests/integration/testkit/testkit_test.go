package testkit

import (
	"testing"
)

func TestGetFreePort(t *testing.T) {
	port, err := GetFreePort()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if port <= 0 {
		t.Errorf("Expected positive port, got %d", port)
	}
}

func TestMustGetFreePort(t *testing.T) {
	port := MustGetFreePort(t)
	if port <= 0 {
		t.Errorf("Expected positive port, got %d", port)
	}
}

func TestGetFreePortWithAddr_InvalidAddr(t *testing.T) {
	_, err := getFreePortWithAddr("invalid:address:format")
	if err == nil {
		t.Error("Expected error for invalid address")
	}
}

func TestNewTestFlags(t *testing.T) {
	t.Run("default options", func(t *testing.T) {
		flags := NewTestFlags(t, nil)

		transport, _ := flags.GetString("transport")
		if transport != "sse" {
			t.Errorf("Expected transport 'sse', got %s", transport)
		}

		authType, _ := flags.GetString("auth-type")
		if authType != "none" {
			t.Errorf("Expected auth-type 'none', got %s", authType)
		}

		port, _ := flags.GetInt("port")
		if port <= 0 {
			t.Errorf("Expected positive port, got %d", port)
		}
	})

	t.Run("custom options", func(t *testing.T) {
		flags := NewTestFlags(t, &FlagOptions{
			Port:       9999,
			Transport:  "stdio",
			ConduitURL: "https://phab.example.org/api",
			APIToken:   "api-test",
		})

		port, _ := flags.GetInt("port")
		if port != 9999 {
			t.Errorf("Expected port 9999, got %d", port)
		}

		transport, _ := flags.GetString("transport")
		if transport != "stdio" {
			t.Errorf("Expected transport 'stdio', got %s", transport)
		}

		conduitURL, _ := flags.GetString("conduit-url")
		if conduitURL != "https://phab.example.org/api" {
			t.Errorf("Expected conduit URL to be set, got %s", conduitURL)
		}
	})
}
