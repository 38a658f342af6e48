// deskctl is a small operator CLI for a running signal-desk instance. It
// manages the webhook registry and triggers maintenance actions over the
// service HTTP API.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	client    = &http.Client{Timeout: 15 * time.Second}
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "deskctl",
		Short:        "Operator CLI for signal-desk",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("DESK_SERVER_URL", "http://localhost:9020"), "signal-desk base URL")

	webhooksCmd := &cobra.Command{
		Use:   "webhooks",
		Short: "Manage the webhook registry",
	}
	webhooksCmd.AddCommand(webhooksListCmd(), webhooksSetCmd(), webhooksRemoveCmd())

	rootCmd.AddCommand(webhooksCmd, sweepCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func webhooksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured webhooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := doRequest(http.MethodGet, "/v1/webhooks", nil)
			if err != nil {
				return err
			}
			var resp struct {
				Webhooks []struct {
					Name string `json:"name"`
					URL  string `json:"url"`
				} `json:"webhooks"`
			}
			if err := json.Unmarshal(body, &resp); err != nil {
				return fmt.Errorf("unexpected response: %w", err)
			}
			if len(resp.Webhooks) == 0 {
				fmt.Println("no webhooks configured")
				return nil
			}
			for _, wh := range resp.Webhooks {
				fmt.Printf("%-10s %s\n", wh.Name, wh.URL)
			}
			return nil
		},
	}
}

func webhooksSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <job> <url>",
		Short: "Set the target URL for a job webhook",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, _ := json.Marshal(map[string]string{"url": args[1]})
			if _, err := doRequest(http.MethodPut, "/v1/webhooks/"+args[0], payload); err != nil {
				return err
			}
			fmt.Printf("webhook %s -> %s\n", args[0], args[1])
			return nil
		},
	}
}

func webhooksRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <job>",
		Short: "Remove a job webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := doRequest(http.MethodDelete, "/v1/webhooks/"+args[0], nil); err != nil {
				return err
			}
			fmt.Printf("webhook %s removed\n", args[0])
			return nil
		},
	}
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Revert insights stuck in an in-flight status",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := doRequest(http.MethodPost, "/v1/insights/sweep", nil)
			if err != nil {
				return err
			}
			var resp struct {
				Reverted int `json:"reverted"`
			}
			if err := json.Unmarshal(body, &resp); err != nil {
				return fmt.Errorf("unexpected response: %w", err)
			}
			fmt.Printf("reverted %d stuck insight(s)\n", resp.Reverted)
			return nil
		},
	}
}

func doRequest(method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, serverURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return nil, fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	return body, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
