package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/samvad-hq/oceanic/internal/config"
	"github.com/samvad-hq/oceanic/internal/logger"
	"github.com/samvad-hq/oceanic/pkg/digitalocean"
	"github.com/samvad-hq/oceanic/pkg/httpclient"
	"github.com/samvad-hq/oceanic/pkg/publishers"
)

// Clients bundles the API clients built from one configuration.
type Clients struct {
	Account  *digitalocean.AccountClient
	Droplets *digitalocean.DropletClient
}

// NewClients builds API clients for cfg. A nil transport selects a resty
// client honouring cfg.HTTPTimeout.
func NewClients(cfg *config.Config, log logger.Logger, transport httpclient.Client) (*Clients, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("digitalocean token is not configured (set DIGITALOCEAN_TOKEN or --token)")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if transport == nil {
		transport = httpclient.NewRestyClient(cfg.HTTPTimeout)
	}

	opts := []digitalocean.Option{
		digitalocean.WithTransport(transport),
		digitalocean.WithLogger(log),
	}
	return &Clients{
		Account:  digitalocean.NewAccountClient(cfg.Token, opts...),
		Droplets: digitalocean.NewDropletClient(cfg.Token, opts...),
	}, nil
}

// LoadPublishers builds the fanout declared in path. An empty path yields an
// empty fanout.
func LoadPublishers(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(path) == "" {
		return publishers.NewFanout(nil), nil
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	publisherReg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}
