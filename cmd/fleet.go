package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/busradar/busradar/config"
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Fleet related commands",
}

var fleetLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List active route keys",
	RunE:  runFleetLs,
}

var fleetResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the active route set",
	RunE:  runFleetReset,
}

func init() {
	fleetCmd.AddCommand(fleetLsCmd)
	fleetCmd.AddCommand(fleetResetCmd)
	rootCmd.AddCommand(fleetCmd)
}

func apiBase(cfg *config.Config) string {
	addr := cfg.HTTP.Addr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

func fetchActiveRoutes(cli *http.Client, base string) ([]string, error) {
	resp, err := cli.Get(base + "/api/fleet")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fleet query returned %d", resp.StatusCode)
	}
	var body struct {
		ActiveRoutes []string `json:"active_routes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body.ActiveRoutes, nil
}

func runFleetLs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cli := &http.Client{Timeout: 5 * time.Second}
	routes, err := fetchActiveRoutes(cli, apiBase(cfg))
	if err != nil {
		return err
	}
	for _, r := range routes {
		fmt.Fprintln(cmd.OutOrStdout(), r)
	}
	return nil
}

func runFleetReset(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cli := &http.Client{Timeout: 5 * time.Second}
	resp, err := cli.Post(apiBase(cfg)+"/api/fleet/reset", "application/json", nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("fleet reset returned %d", resp.StatusCode)
	}
	return nil
}
