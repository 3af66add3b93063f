package main

import (
	"github.com/mark3labs/mcp-go/server"
	gymmcp "github.com/meltforce/gymtrack/internal/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the training log to an MCP client over stdio",
		Long:  "Runs an MCP server on stdin/stdout. With --server the tools read from a remote GymTrack API, otherwise from the local store.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, done, err := a.source(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			a.log.Info("mcp stdio server starting", "remote", a.serverURL)
			return server.ServeStdio(gymmcp.New(ds, Version, a.log))
		},
	}
}
