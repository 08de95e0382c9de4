package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the backend is reachable",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	if healthService == nil {
		return errors.New("health service not configured")
	}

	res, err := healthService.Check(cmd.Context())
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	if services != nil && services.BaseURL != "" {
		cmd.Printf("Backend: %s\n", services.BaseURL)
	}
	cmd.Printf("Status: %s\n", res.Value.Status)
	noteSimulated(cmd, res.Simulated)
	return nil
}
