package cli

import "github.com/spf13/cobra"

func newAccountCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show account information for the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := s.clients.Account.GetUserInfo(cmd.Context())
			if err != nil {
				return err
			}
			return s.render(res)
		},
	}
}
