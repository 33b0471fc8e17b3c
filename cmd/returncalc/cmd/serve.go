// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/returnproj/returncalc/internal/tool"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the computation tools over MCP stdio",
	Long: `Run an MCP server on stdio exposing the compute_return_totals and
marginal_rate_table tools.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "returncalc",
		Version: "0.1.0",
	}, nil)

	mcp.AddTool(server, tool.MetadataComputeReturnTotals, tool.ComputeReturnTotals)
	mcp.AddTool(server, tool.MetadataMarginalRateTable, tool.MarginalRateTable)

	log.Info().Msg("starting MCP server on stdio")
	return server.Run(cmd.Context(), &mcp.StdioTransport{})
}
