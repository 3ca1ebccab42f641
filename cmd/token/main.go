package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	httpHandler "github.com/sm8ta/webike_cache_microservice/internal/adapter/handler/http"
	"github.com/sm8ta/webike_cache_microservice/internal/adapter/logger"
	"github.com/sm8ta/webike_cache_microservice/internal/config"
	"github.com/sm8ta/webike_cache_microservice/internal/core/domain"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd issues bearer tokens for the /cache routes, signed with the
// same TOKEN_SECRET and TOKEN_DURATION the service loads.
func newRootCmd(out io.Writer) *cobra.Command {
	var (
		subject string
		role    string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the cache API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := domain.Role(role)
			if r != domain.Admin && r != domain.Reader {
				return fmt.Errorf("unknown role %q, want %q or %q", role, domain.Admin, domain.Reader)
			}

			cfg, err := config.New()
			if err != nil {
				return err
			}

			tokens := httpHandler.NewJWTTokenService(cfg.Token.Secret, cfg.Token.Duration, logger.NewLoggerAdapter(cfg.App.Env))
			token, err := tokens.CreateToken(subject, r)
			if err != nil {
				return fmt.Errorf("create token: %w", err)
			}

			fmt.Fprintln(out, token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "token subject, e.g. the calling service name")
	cmd.Flags().StringVar(&role, "role", string(domain.Reader), "admin (read/write) or reader (read only)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
