package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/busradar/busradar/config"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Roster related commands",
}

var rosterRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Reload the subscriber roster from the directory service",
	RunE:  runRosterRefresh,
}

func init() {
	rosterCmd.AddCommand(rosterRefreshCmd)
	rootCmd.AddCommand(rosterCmd)
}

func runRosterRefresh(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cli := &http.Client{Timeout: 30 * time.Second}
	resp, err := cli.Post(apiBase(cfg)+"/api/roster/refresh", "application/json", nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("roster refresh returned %d", resp.StatusCode)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "roster refreshed")
	return nil
}
