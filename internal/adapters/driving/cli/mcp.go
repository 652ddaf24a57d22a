package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aswinpillai2222/Ai-Capstone/internal/adapters/driving/mcp"
)

func newMCPCmd(backend Backend) *cobra.Command {
	var port int

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol server so AI assistants can retrieve
from and ask questions about the indexed papers.

By default, the server communicates over stdio using JSON-RPC.
Use --port to serve streamable HTTP instead.

Examples:
  # Stdio mode (default)
  capstone mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  capstone mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "capstone": {
        "command": "/path/to/capstone",
        "args": ["mcp", "serve"]
      }
    }
  }`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			ports := &mcp.Ports{}
			var err error
			if ports.Retriever, err = backend.Retriever(ctx); err != nil {
				return err
			}
			if ports.Answerer, err = backend.Answerer(ctx); err != nil {
				return err
			}
			if ports.Documents, err = backend.Documents(ctx); err != nil {
				return err
			}

			server, err := mcp.NewServer(ports, version)
			if err != nil {
				return err
			}

			if port > 0 {
				addr := fmt.Sprintf(":%d", port)
				fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
				return server.RunHTTP(ctx, addr)
			}
			return server.Run(ctx)
		},
	}
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP port (0 = use stdio)")

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
	}
	cmd.AddCommand(serveCmd)
	return cmd
}
