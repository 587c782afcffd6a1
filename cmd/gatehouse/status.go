// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gatehouse/gatehouse/internal/config"
)

// ServiceStatus holds the probe results for a running gatehouse process.
type ServiceStatus struct {
	MetricsAddr string `json:"metrics_addr"`
	Alive       bool   `json:"alive"`
	Ready       bool   `json:"ready"`
	Error       string `json:"error,omitempty"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	metricsAddr string
	jsonOutput  bool
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show status of a running gatehouse process",
		Long:  `Query the liveness and readiness probes of a running gatehouse process.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.metricsAddr, "metrics_addr", config.DefaultMetricsAddr, "metrics/health HTTP address to query")
	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")

	return cmd
}

func runStatus(cmd *cobra.Command, cfg *statusConfig) error {
	status := queryStatus(cfg.metricsAddr)

	if cfg.jsonOutput {
		out, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		cmd.Println(string(out))
		return nil
	}

	cmd.Print(formatStatusTable(status))
	return nil
}

// queryStatus probes the liveness and readiness endpoints.
func queryStatus(metricsAddr string) ServiceStatus {
	status := ServiceStatus{MetricsAddr: metricsAddr}
	client := &http.Client{Timeout: 3 * time.Second}

	alive, err := probe(client, "http://"+metricsAddr+"/healthz/liveness")
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Alive = alive

	ready, err := probe(client, "http://"+metricsAddr+"/healthz/readiness")
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Ready = ready

	return status
}

func probe(client *http.Client, url string) (bool, error) {
	resp, err := client.Get(url)
	if err != nil {
		return false, err
	}
	defer func() {
		_ = resp.Body.Close() //nolint:errcheck // probe response body is discarded
	}()
	return resp.StatusCode == http.StatusOK, nil
}

func formatStatusTable(status ServiceStatus) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "ADDR\tALIVE\tREADY\tERROR")
	errText := status.Error
	if errText == "" {
		errText = "-"
	}
	fmt.Fprintf(w, "%s\t%t\t%t\t%s\n", status.MetricsAddr, status.Alive, status.Ready, errText)

	_ = w.Flush() //nolint:errcheck // strings.Builder writes cannot fail
	return b.String()
}
