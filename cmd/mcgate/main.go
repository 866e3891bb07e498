// Command mcgate runs the Minecraft Java Edition protocol core as a
// standalone server: it answers server-list status queries, accepts
// logins, and, when an upstream is configured, transparently proxies
// the raw byte stream to a backend Minecraft server.
package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jpuleo/mcgate/internal/config"
	"github.com/jpuleo/mcgate/server"
)

var (
	configPath string
	bindAddr   string
)

var rootCmd = &cobra.Command{
	Use:   "mcgate",
	Short: "Minecraft Java Edition protocol core: handshake, status, login and proxy",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Bind the listener and accept connections",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "mcgate.yaml", "optional YAML config file")
	serveCmd.Flags().StringVar(&bindAddr, "bind", "", "listen address (host:port), overrides config")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if bindAddr != "" {
		cfg.BindAddr = bindAddr
	}

	listener := server.NewListener(cfg.BindAddr)
	if cfg.Upstream != nil {
		listener.SetUpstream(*cfg.Upstream)
		logrus.WithField("upstream", cfg.Upstream.Address).Info("proxy mode enabled")
	}

	return listener.ListenAndServe()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}
