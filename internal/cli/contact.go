package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Cabdinasir64/portfolio-backend/internal/contact"
)

func NewContactCommand() *cobra.Command {
	var sub contact.Submission

	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Submit the contact form",
		Example: `  portfolioctl contact --name "Ada" --email ada@example.com --message "Hello"
  portfolioctl contact --server https://api.example.com --name Ada --email ada@example.com --message Hi`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}

			body, err := json.Marshal(sub)
			if err != nil {
				return fmt.Errorf("encode submission: %w", err)
			}

			resp, err := rt.client().R().
				SetContext(cmd.Context()).
				SetHeader("Content-Type", "application/json").
				SetBody(body).
				Post("/contact")
			if err != nil {
				return fmt.Errorf("post contact: %w", err)
			}

			var msg apiMessage
			if err := json.Unmarshal(resp.Body(), &msg); err != nil {
				return fmt.Errorf("decode response (status %d): %w", resp.StatusCode(), err)
			}

			_, _ = fmt.Fprintf(rt.Writer(), "%d %s\n", resp.StatusCode(), msg.Message)
			if !resp.IsSuccess() {
				return fmt.Errorf("contact rejected with status %d", resp.StatusCode())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sub.Name, "name", "", "Sender name")
	cmd.Flags().StringVar(&sub.Email, "email", "", "Sender email address")
	cmd.Flags().StringVar(&sub.Message, "message", "", "Message text")

	return cmd
}
