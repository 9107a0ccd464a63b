package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/anshupriya0510/EchoSkill-project/internal/config"
	"github.com/anshupriya0510/EchoSkill-project/internal/supabase"
)

// NewPingCmd creates the ping command
func NewPingCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Probe the identity provider",
		Long:  "Check that the configured identity provider's auth endpoint is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if !cfg.ProviderConfigured() {
				return fmt.Errorf("no identity provider configured; the server would run against the local store")
			}

			client, err := supabase.New(supabase.Config{
				URL:     cfg.ProviderURL(),
				AnonKey: cfg.SupabaseAnonKey,
			})
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			fmt.Printf("Probing %s ...\n", cfg.ProviderURL())
			if err := client.Ping(ctx); err != nil {
				return fmt.Errorf("provider unreachable: %w", err)
			}
			fmt.Println("Provider is reachable.")
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Probe timeout")

	return cmd
}
