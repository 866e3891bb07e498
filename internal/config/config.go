// Package config loads mcgate's external configuration: the bind
// address and the optional upstream descriptor a proxied session is
// relayed to. Resolution order is an optional YAML file, an optional
// .env file, then environment variables. The upstream descriptor
// (address, port, connection method) lives in the YAML document;
// the environment can override or supply it with flat variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jpuleo/mcgate/server"
)

// Config is the fully-resolved server configuration.
type Config struct {
	BindAddr string
	Upstream *server.UpstreamConfig
}

// File is the optional mcgate.yaml document shape.
type File struct {
	BindAddr string `yaml:"bind_addr"`
	Upstream *struct {
		Address string `yaml:"address"`
		Port    uint16 `yaml:"port"`
		Method  string `yaml:"method"`
	} `yaml:"upstream"`
}

// Load resolves configuration in increasing priority: defaults, an
// optional mcgate.yaml next to the working directory, an optional
// .env file, then environment variables.
func Load(yamlPath string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{BindAddr: fmt.Sprintf(":%d", server.DefaultPort)}

	if yamlPath != "" {
		if err := loadYAML(yamlPath, cfg); err != nil {
			return nil, err
		}
	}

	if addr := os.Getenv("MCGATE_BIND_ADDR"); addr != "" {
		cfg.BindAddr = addr
	}

	if addr := os.Getenv("MCGATE_UPSTREAM_ADDR"); addr != "" {
		port, method := uint16(25565), server.Unencrypted
		if portStr := os.Getenv("MCGATE_UPSTREAM_PORT"); portStr != "" {
			p, err := strconv.ParseUint(portStr, 10, 16)
			if err != nil {
				return nil, fmt.Errorf("config: invalid MCGATE_UPSTREAM_PORT: %w", err)
			}
			port = uint16(p)
		}
		if methodStr := os.Getenv("MCGATE_UPSTREAM_METHOD"); methodStr != "" {
			m, err := parseMethod(methodStr)
			if err != nil {
				return nil, err
			}
			method = m
		}
		cfg.Upstream = &server.UpstreamConfig{Address: addr, Port: port, Method: method}
	}

	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: opening %s: %w", path, err)
	}
	defer f.Close()

	var doc File
	if err := yaml.NewDecoder(f).Decode(&doc); err != nil {
		return fmt.Errorf("config: decoding %s: %w", path, err)
	}

	if doc.BindAddr != "" {
		cfg.BindAddr = doc.BindAddr
	}
	if doc.Upstream != nil {
		method, err := parseMethod(doc.Upstream.Method)
		if err != nil {
			return err
		}
		cfg.Upstream = &server.UpstreamConfig{
			Address: doc.Upstream.Address,
			Port:    doc.Upstream.Port,
			Method:  method,
		}
	}
	return nil
}

func parseMethod(s string) (server.ConnectionMethod, error) {
	switch s {
	case "", "unencrypted":
		return server.Unencrypted, nil
	case "velocity":
		return server.Velocity, nil
	case "bungeecord":
		return server.BungeeCord, nil
	default:
		return 0, fmt.Errorf("config: unknown connection_method %q", s)
	}
}
