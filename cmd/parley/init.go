package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

const starterKnowledge = `- category: general
  question: "What can you help me with?"
  answer: "I can answer questions from my knowledge base. Ask me anything!"
  keywords: "help, capabilities"
- category: general
  question: "How do I add more answers?"
  answer: "Edit the knowledge YAML file and reload via the admin API or a restart."
  keywords: "knowledge, edit, add"
`

// initCmd walks the user through creating a starter configuration and
// knowledge file in the current directory.
func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a starter configuration interactively",
		RunE: func(_ *cobra.Command, _ []string) error {
			var (
				bind      = "127.0.0.1:8080"
				storage   = "file"
				knowledge = "knowledge.yaml"
				cleanup   = true
			)

			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Gateway bind address").
						Value(&bind),
					huh.NewSelect[string]().
						Title("Knowledge storage").
						Options(
							huh.NewOption("YAML file (simple, git-friendly)", "file"),
							huh.NewOption("SQLite (persistent sessions and chat log)", "sqlite"),
						).
						Value(&storage),
					huh.NewInput().
						Title("Knowledge file path").
						Value(&knowledge),
					huh.NewConfirm().
						Title("Enable periodic idle-session cleanup?").
						Value(&cleanup),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}

			cfg := renderConfig(bind, storage, knowledge, cleanup)
			if err := writeIfAbsent("parley.yaml", []byte(cfg)); err != nil {
				return err
			}
			if storage == "file" {
				if err := writeIfAbsent(knowledge, []byte(starterKnowledge)); err != nil {
					return err
				}
			}

			fmt.Println("Wrote parley.yaml — start with: parley start -c parley.yaml")
			return nil
		},
	}
}

func renderConfig(bind, storage, knowledgePath string, cleanup bool) string {
	cfg := "version: \"1\"\n\nmodules:\n"

	cfg += "  engine.chat:\n"
	if storage == "file" {
		cfg += fmt.Sprintf("    knowledge_path: %s\n", knowledgePath)
		cfg += "    watch: true\n"
	}
	cfg += "    threshold: 0.3\n"

	cfg += "\n  gateway.http:\n"
	cfg += fmt.Sprintf("    bind: %s\n", bind)

	if storage == "sqlite" {
		cfg += "\n  storage.sqlite:\n"
		cfg += "    path: ${PARLEY_DB_PATH:-parley.db}\n"
		cfg += "    seed: true\n"
	}

	if cleanup {
		cfg += "\n  cron.scheduler:\n"
		cfg += "    session_cleanup:\n"
		cfg += "      enabled: true\n"
		cfg += "      schedule: \"*/5 * * * *\"\n"
		cfg += "    max_idle: 30m\n"
	}

	return cfg
}

func writeIfAbsent(path string, data []byte) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite", filepath.Base(path))
	}
	return os.WriteFile(path, data, 0o644)
}
