package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/parley-bot/parley/internal/engine"
	"github.com/parley-bot/parley/internal/knowledge"
	"github.com/parley-bot/parley/internal/session"
)

// mcpCmd exposes the chatbot as a Model Context Protocol tool over stdio,
// so MCP-capable clients can call it like any other tool server.
func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the chatbot as an MCP tool over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			knowledgePath, _ := cmd.Flags().GetString("knowledge")
			threshold, _ := cmd.Flags().GetFloat64("threshold")

			// Logs go to stderr; stdout carries the MCP protocol.
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelWarn,
			}))

			eng, err := engine.New(engine.Options{
				Logger:    logger,
				Contexts:  session.NewStore(nil, logger),
				Threshold: threshold,
			})
			if err != nil {
				return err
			}

			source := knowledge.NewFileSource(knowledgePath)
			entries, err := source.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading knowledge: %w", err)
			}
			eng.Build(entries)

			srv := server.NewMCPServer("parley", version)

			chatTool := mcp.NewTool("chat",
				mcp.WithDescription("Send a message to the parley retrieval chatbot and get its reply."),
				mcp.WithString("message",
					mcp.Required(),
					mcp.Description("The user message to respond to."),
				),
				mcp.WithString("session_id",
					mcp.Description("Session identifier for multi-turn context. Omit to start a new session."),
				),
			)
			srv.AddTool(chatTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				message, err := req.RequireString("message")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				sessionID := req.GetString("session_id", "")
				if sessionID == "" {
					sessionID = uuid.NewString()
				}

				result := eng.Respond(ctx, message, sessionID)
				return mcp.NewToolResultText(fmt.Sprintf(
					"%s\n\n(session_id: %s, confidence: %.2f, intent: %s)",
					result.Response, result.SessionID, result.Confidence, result.Intent.Primary,
				)), nil
			})

			return server.ServeStdio(srv)
		},
	}
	cmd.Flags().StringP("knowledge", "k", "knowledge.yaml", "Path to the YAML knowledge file")
	cmd.Flags().Float64P("threshold", "t", engine.DefaultThreshold, "Minimum similarity for a knowledge match")
	return cmd
}
