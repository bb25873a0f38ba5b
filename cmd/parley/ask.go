package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/parley-bot/parley/internal/engine"
	"github.com/parley-bot/parley/internal/knowledge"
	"github.com/parley-bot/parley/internal/session"
)

// askCmd answers a single question (or runs an interactive loop) against a
// knowledge file, without starting the module runtime.
func askCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Ask the chatbot directly from the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			knowledgePath, _ := cmd.Flags().GetString("knowledge")
			threshold, _ := cmd.Flags().GetFloat64("threshold")

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

			ctx := context.Background()
			source := knowledge.NewFileSource(knowledgePath)
			entries, err := source.Load(ctx)
			if err != nil {
				return fmt.Errorf("loading knowledge: %w", err)
			}
			eng.Build(entries)

			sessionID := uuid.NewString()

			if len(args) == 1 {
				result := eng.Respond(ctx, args[0], sessionID)
				fmt.Println(result.Response)
				return nil
			}

			// No message given: interactive loop until EOF or a goodbye.
			fmt.Println("parley interactive mode (ctrl-d to exit)")
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					fmt.Println()
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				result := eng.Respond(ctx, line, sessionID)
				fmt.Println(result.Response)
			}
		},
	}
	cmd.Flags().StringP("knowledge", "k", "knowledge.yaml", "Path to the YAML knowledge file")
	cmd.Flags().Float64P("threshold", "t", engine.DefaultThreshold, "Minimum similarity for a knowledge match")
	return cmd
}
