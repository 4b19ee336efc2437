package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Cabdinasir64/portfolio-backend/internal/auth"
	"github.com/Cabdinasir64/portfolio-backend/internal/iplookup"
)

func NewIPCommand() *cobra.Command {
	var (
		apiKey  string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "ip",
		Short: "Query the IP lookup proxy",
		Long:  "Query GET /ip. The API key defaults to $PORTFOLIO_IP_LOOKUP_API_KEY.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if apiKey == "" {
				apiKey = os.Getenv("PORTFOLIO_IP_LOOKUP_API_KEY")
			}

			resp, err := rt.client().R().
				SetContext(cmd.Context()).
				SetHeader(auth.HeaderAPIKey, apiKey).
				Get("/ip")
			if err != nil {
				return fmt.Errorf("get ip: %w", err)
			}

			w := rt.Writer()
			if verbose {
				for _, h := range []string{"RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset"} {
					if v := resp.Header().Get(h); v != "" {
						_, _ = fmt.Fprintf(w, "%s: %s\n", h, v)
					}
				}
			}

			if !resp.IsSuccess() {
				var msg apiMessage
				_ = json.Unmarshal(resp.Body(), &msg)
				_, _ = fmt.Fprintf(w, "%d %s\n", resp.StatusCode(), msg.Message)
				return fmt.Errorf("ip lookup failed with status %d", resp.StatusCode())
			}

			var res iplookup.Result
			if err := json.Unmarshal(resp.Body(), &res); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			_, _ = fmt.Fprintln(w, res.IP)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "Shared secret sent as x-api-key")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print rate limit headers")

	return cmd
}
