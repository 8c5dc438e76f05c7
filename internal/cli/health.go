package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check server health and uptime",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult

			if err := client.Get("/api/health", &result); err != nil {
				return err
			}
			if result.Status != "ok" {
				return fmt.Errorf("server reported status %q", result.Status)
			}

			if !quiet {
				out := NewOutput(cfg.Output)
				out.Print(result)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only report health through the exit code")

	return cmd
}
