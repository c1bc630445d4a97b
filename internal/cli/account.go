package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nerrad567/impt/internal/entity"
	"github.com/nerrad567/impt/internal/identifier"
	"github.com/nerrad567/impt/internal/resolver"
)

// The "me" sentinel always names the logged in account, so an account whose
// username is literally "me" is addressed by id or email instead.
const accountFlagUsage = `account identifier: id, email or username ("me" is the logged in account)`

func (a *app) accountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Show platform accounts",
	}
	cmd.AddCommand(a.accountInfoCommand())
	return cmd
}

func (a *app) accountInfoCommand() *cobra.Command {
	var ref string
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Display information about an account (default: the logged in one)",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var (
				account *entity.Entity
				err     error
			)
			if strings.TrimSpace(ref) == "" || ref == identifier.MeSentinel {
				account, err = a.client.CurrentAccount(ctx)
				if err != nil {
					err = &resolver.UpstreamError{Op: "loading current account", Err: err}
				}
			} else {
				account, err = a.resolver.Resolve(ctx, entity.TypeAccount, ref, nil)
			}
			if err != nil {
				return err
			}
			return a.showInfo(ctx, account, false)
		},
	}
	cmd.Flags().StringVarP(&ref, "user", "u", "", accountFlagUsage)
	return cmd
}

func (a *app) loginCommand() *cobra.Command {
	var ref, endpoint string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the platform and store the access token",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlag("user", ref); err != nil {
				return err
			}
			if endpoint != "" {
				a.cfg.Platform.Endpoint = endpoint
				if err := a.connect(); err != nil {
					return err
				}
			}

			resp, err := a.client.Login(cmd.Context(), ref)
			if err != nil {
				return err
			}
			a.cfg.Platform.Token = resp.AccessToken
			if err := a.cfg.SavePlatform(a.cfgFile); err != nil {
				return fmt.Errorf("saving credentials: %w", err)
			}

			account := resp.Account.Entity()
			a.logger.Debug("access token stored", "path", a.cfgFile, "expires_in", resp.ExpiresIn)
			return a.formatter.Result(a.out, entityTree(&account), "Login is successful.")
		},
	}
	cmd.Flags().StringVarP(&ref, "user", "u", "", accountFlagUsage)
	cmd.Flags().StringVarP(&endpoint, "endpoint", "e", "", "platform endpoint URL to store with the token")
	return cmd
}
