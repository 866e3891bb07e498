package config

import (
	"os"
	"testing"

	"github.com/jpuleo/mcgate/server"
)

func TestParseMethod(t *testing.T) {
	cases := map[string]server.ConnectionMethod{
		"":            server.Unencrypted,
		"unencrypted": server.Unencrypted,
		"velocity":    server.Velocity,
		"bungeecord":  server.BungeeCord,
	}
	for s, want := range cases {
		got, err := parseMethod(s)
		if err != nil {
			t.Fatalf("parseMethod(%q): %v", s, err)
		}
		if got != want {
			t.Fatalf("parseMethod(%q) = %v, want %v", s, got, want)
		}
	}
	if _, err := parseMethod("not-a-method"); err == nil {
		t.Fatalf("parseMethod accepted an unknown method")
	}
}

func TestLoadDefaultsWithNoFileOrEnv(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("does-not-exist.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BindAddr != ":25565" {
		t.Fatalf("BindAddr = %q, want :25565", cfg.BindAddr)
	}
	if cfg.Upstream != nil {
		t.Fatalf("Upstream = %+v, want nil", cfg.Upstream)
	}
}

func TestLoadEnvOverridesBindAddr(t *testing.T) {
	clearEnv(t)
	t.Setenv("MCGATE_BIND_ADDR", ":1234")
	cfg, err := Load("does-not-exist.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BindAddr != ":1234" {
		t.Fatalf("BindAddr = %q, want :1234", cfg.BindAddr)
	}
}

func TestLoadEnvUpstream(t *testing.T) {
	clearEnv(t)
	t.Setenv("MCGATE_UPSTREAM_ADDR", "10.0.0.5")
	t.Setenv("MCGATE_UPSTREAM_PORT", "25566")
	t.Setenv("MCGATE_UPSTREAM_METHOD", "unencrypted")

	cfg, err := Load("does-not-exist.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Upstream == nil {
		t.Fatalf("Upstream is nil")
	}
	if cfg.Upstream.Address != "10.0.0.5" || cfg.Upstream.Port != 25566 || cfg.Upstream.Method != server.Unencrypted {
		t.Fatalf("Upstream = %+v", cfg.Upstream)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MCGATE_BIND_ADDR", "MCGATE_UPSTREAM_ADDR", "MCGATE_UPSTREAM_PORT", "MCGATE_UPSTREAM_METHOD",
	} {
		if v, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, v) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}
