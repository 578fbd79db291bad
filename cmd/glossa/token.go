package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/glossa/internal/common"
)

func newTokenCmd(opts *options) *cobra.Command {
	var (
		subject string
		role    string
		ttl     string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the admin API",
		Long:  "Token signs a JWT with auth.jwt_secret. The default role may call POST /api/admin/glossary/reload.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			auth := cfg.Auth
			if ttl != "" {
				auth.TokenExpiry = ttl
			}
			tok, err := common.SignToken(&auth, subject, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "admin", "token subject")
	cmd.Flags().StringVar(&role, "role", common.RoleAdmin, "token role")
	cmd.Flags().StringVar(&ttl, "ttl", "", "token lifetime, e.g. 1h (default auth.token_expiry)")
	return cmd
}
