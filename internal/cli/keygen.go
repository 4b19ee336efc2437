package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Cabdinasir64/portfolio-backend/internal/auth"
)

func NewKeygenCommand() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Print a random shared secret for ip_lookup.api_key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := auth.GenerateSecret(size)
			if err != nil {
				return fmt.Errorf("generate key: %w", err)
			}

			w := cmd.OutOrStdout()
			if rt, err := getRuntime(cmd); err == nil {
				w = rt.Writer()
			}
			_, _ = fmt.Fprintln(w, key)
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "bytes", auth.DefaultSecretBytes, "random bytes in the secret (hex output is twice as long)")
	return cmd
}
