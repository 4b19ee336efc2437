// Package cli implements portfolioctl, a small client for exercising a
// running portfolio backend from the command line.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

const (
	defaultServer  = "http://localhost:5000"
	defaultTimeout = 30 * time.Second
)

// Config holds what the root command needs from its caller.
type Config struct {
	Server       string
	OutputWriter io.Writer
}

type runtimeState struct {
	server  string
	timeout time.Duration
	writer  io.Writer
}

type runtimeKey struct{}

// DefaultConfig reads the server from PORTFOLIOCTL_SERVER and writes to stdout.
func DefaultConfig() Config {
	server := os.Getenv("PORTFOLIOCTL_SERVER")
	if server == "" {
		server = defaultServer
	}
	return Config{
		Server:       server,
		OutputWriter: os.Stdout,
	}
}

// NewRootCommand builds the portfolioctl command tree.
func NewRootCommand(cfg Config) *cobra.Command {
	rt := &runtimeState{server: cfg.Server, writer: cfg.OutputWriter}

	root := &cobra.Command{
		Use:          "portfolioctl",
		Short:        "Client for the portfolio backend",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&rt.server, "server", rt.server, "Base URL of the portfolio backend")
	root.PersistentFlags().DurationVar(&rt.timeout, "timeout", defaultTimeout, "Request timeout")

	root.SetContext(context.WithValue(context.Background(), runtimeKey{}, rt))

	root.AddCommand(
		NewContactCommand(),
		NewIPCommand(),
		NewKeygenCommand(),
	)

	return root
}

func getRuntime(cmd *cobra.Command) (*runtimeState, error) {
	rt, ok := cmd.Context().Value(runtimeKey{}).(*runtimeState)
	if !ok || rt == nil {
		return nil, errors.New("runtime not initialized")
	}
	return rt, nil
}

func (rt *runtimeState) Writer() io.Writer {
	if rt.writer != nil {
		return rt.writer
	}
	return os.Stdout
}

func (rt *runtimeState) client() *resty.Client {
	server := rt.server
	if server == "" {
		server = defaultServer
	}
	return resty.New().
		SetBaseURL(server).
		SetTimeout(rt.timeout).
		SetHeader("Accept", "application/json")
}

// apiMessage is the {"message": ...} body every non-2xx response carries.
type apiMessage struct {
	Message string `json:"message"`
}
