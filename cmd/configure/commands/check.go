package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anshupriya0510/EchoSkill-project/internal/config"
)

// NewCheckCmd creates the check command
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate deployment configuration",
		Long:  "Load configuration from the environment and report which features are enabled",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("configuration invalid: %w", err)
			}

			fmt.Println("Configuration loaded successfully.")
			fmt.Printf("Server port:        %s\n", cfg.ServerPort)
			fmt.Printf("Frontend URL:       %s\n", cfg.FrontendURL)

			if cfg.ProviderConfigured() {
				fmt.Printf("Identity provider:  %s\n", cfg.ProviderURL())
				if cfg.SupabasePublicURL != "" && cfg.SupabaseServerURL != "" && cfg.SupabasePublicURL != cfg.SupabaseServerURL {
					fmt.Println("WARNING: public and server provider URLs disagree; the public URL is used for all operations")
				}
				if cfg.SupabaseServiceKey == "" {
					fmt.Println("WARNING: no service role key set; admin endpoints and profile provisioning are disabled")
				}
			} else {
				fmt.Printf("Identity provider:  none (local store at %s)\n", cfg.LocalStorePath)
			}

			if cfg.AdminEmail == "" {
				fmt.Println("WARNING: ADMIN_EMAIL not set; admin endpoints will refuse all callers")
			} else {
				fmt.Printf("Admin email:        %s\n", cfg.AdminEmail)
			}

			if cfg.RedisURL == "" {
				fmt.Println("WARNING: REDIS_URL not set; auth rate limiting is disabled")
			} else {
				fmt.Printf("Auth rate limit:    %s\n", cfg.AuthRateLimit)
			}

			return nil
		},
	}

	return cmd
}
