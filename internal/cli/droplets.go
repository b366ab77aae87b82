package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/oceanic/internal/domain"
	"github.com/samvad-hq/oceanic/pkg/digitalocean"
	"github.com/samvad-hq/oceanic/pkg/publishers"
)

func newDropletsCommand(s *session) *cobra.Command {
	dropletsCmd := &cobra.Command{
		Use:     "droplets",
		Aliases: []string{"droplet"},
		Short:   "Droplet operations",
	}

	dropletsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List droplets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.run(cmd.Context(), s.clients.Droplets.ListDroplets)
		},
	})

	dropletsCmd.AddCommand(&cobra.Command{
		Use:   "upgrades",
		Short: "List droplets scheduled for upgrades",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.run(cmd.Context(), s.clients.Droplets.ListDropletUpgrades)
		},
	})

	type byIDCall func(*digitalocean.DropletClient, context.Context, string) (digitalocean.Result, error)
	byID := []struct {
		use   string
		short string
		call  byIDCall
	}{
		{"get", "Get a droplet by ID", (*digitalocean.DropletClient).GetDropletByID},
		{"kernels", "List kernels available to a droplet", (*digitalocean.DropletClient).AvailableKernelsForDroplet},
		{"snapshots", "List snapshots of a droplet", (*digitalocean.DropletClient).GetSnapshotsForDroplet},
		{"backups", "List backups of a droplet", (*digitalocean.DropletClient).GetBackupsForDroplet},
		{"actions", "List actions executed on a droplet", (*digitalocean.DropletClient).GetActionsForDroplet},
	}
	for _, op := range byID {
		dropletsCmd.AddCommand(&cobra.Command{
			Use:   op.use + " DROPLET_ID",
			Short: op.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return s.run(cmd.Context(), func(ctx context.Context) (digitalocean.Result, error) {
					return op.call(s.clients.Droplets, ctx, args[0])
				})
			},
		})
	}

	dropletsCmd.AddCommand(newCreateCommand(s))

	dropletsCmd.AddCommand(&cobra.Command{
		Use:   "delete DROPLET_ID",
		Short: "Delete a droplet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			res, err := s.clients.Droplets.DeleteDroplet(ctx, args[0])
			if err != nil {
				return err
			}
			s.publish(ctx, publishers.EventDropletDeleted, domain.Droplet{ID: args[0]})
			return s.render(res)
		},
	})

	return dropletsCmd
}

// run executes call and renders its result.
func (s *session) run(ctx context.Context, call func(context.Context) (digitalocean.Result, error)) error {
	res, err := call(ctx)
	if err != nil {
		return err
	}
	return s.render(res)
}
