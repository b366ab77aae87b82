// Package cli implements the oceanctl command tree.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/oceanic/internal/app"
	"github.com/samvad-hq/oceanic/internal/config"
	"github.com/samvad-hq/oceanic/internal/logger"
	"github.com/samvad-hq/oceanic/pkg/httpclient"
)

// eventSource identifies lifecycle events emitted by the CLI.
const eventSource = "oceanctl"

// session carries the state built once flags are parsed.
type session struct {
	out       io.Writer
	errOut    io.Writer
	transport httpclient.Client

	cfg     *config.Config
	log     logger.Logger
	clients *app.Clients
}

// NewRootCommand builds the oceanctl command tree. Results go to out, logs to
// errOut. A nil transport selects the default resty client.
func NewRootCommand(out, errOut io.Writer, transport httpclient.Client) *cobra.Command {
	s := &session{out: out, errOut: errOut, transport: transport}

	rootCmd := &cobra.Command{
		Use:           "oceanctl",
		Short:         "DigitalOcean account and droplet operations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			return s.init(cmd)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	pf := rootCmd.PersistentFlags()
	pf.String("token", "", "API token (defaults to DIGITALOCEAN_TOKEN)")
	pf.StringP("output", "o", "", "output format: json or yaml")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.Int64("timeout", 0, "HTTP timeout in seconds")
	pf.String("templates", "", "droplet templates file (YAML/JSON)")
	pf.String("publishers", "", "publishers registry file (YAML/JSON)")

	rootCmd.AddCommand(newAccountCommand(s))
	rootCmd.AddCommand(newDropletsCommand(s))
	return rootCmd
}

func (s *session) init(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.InitWithWriter(cfg, s.errOut)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	clients, err := app.NewClients(cfg, log, s.transport)
	if err != nil {
		return err
	}

	s.cfg = cfg
	s.log = log
	s.clients = clients
	log.DebugObj("oceanctl configured", "config", cfg.Redacted())
	return nil
}
