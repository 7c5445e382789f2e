package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health via the status API",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			httpClient := &http.Client{Timeout: 10 * time.Second}
			url := strings.TrimSuffix(cfg.StatusURL, "/") + "/health"

			resp, err := httpClient.Get(url)
			if err != nil {
				out.PrintError(err)
				return err
			}
			defer func() { _ = resp.Body.Close() }()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				out.PrintError(err)
				return err
			}

			if resp.StatusCode != http.StatusOK {
				err := fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
				out.PrintError(err)
				return err
			}

			var result HealthResult
			if err := json.Unmarshal(body, &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}
}
