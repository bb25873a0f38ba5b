package main

import (
	"fmt"
	"log/slog"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"

	"github.com/parley-bot/parley/pkg/app"
)

// program adapts the app runner to the service manager's Start/Stop calls.
type program struct {
	params app.RunParams
	errCh  chan error
}

func (p *program) Start(_ service.Service) error {
	p.errCh = make(chan error, 1)
	go func() { p.errCh <- app.Run(p.params) }()
	return nil
}

func (p *program) Stop(_ service.Service) error {
	// app.Run exits on SIGTERM which the service manager sends; nothing
	// extra to tear down here.
	return nil
}

// serviceCmd manages parley as a system service (systemd, launchd, SCM).
func serviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "service [install|uninstall|start|stop|run]",
		Short:     "Manage parley as a system service",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"install", "uninstall", "start", "stop", "run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")

			svcConfig := &service.Config{
				Name:        "parley",
				DisplayName: "Parley Chatbot",
				Description: "Retrieval chatbot engine with HTTP gateway",
				Arguments:   []string{"service", "run"},
			}
			if cfgPath != "" {
				svcConfig.Arguments = append(svcConfig.Arguments, "--config", cfgPath)
			}

			prg := &program{params: app.RunParams{
				ConfigPath: cfgPath,
				Version:    version,
				Commit:     commit,
				Date:       date,
				LogLevel:   slog.LevelInfo,
			}}

			svc, err := service.New(prg, svcConfig)
			if err != nil {
				return err
			}

			switch args[0] {
			case "run":
				return svc.Run()
			case "install", "uninstall", "start", "stop":
				if err := service.Control(svc, args[0]); err != nil {
					return err
				}
				fmt.Printf("service %s: ok\n", args[0])
				return nil
			default:
				return fmt.Errorf("unknown action %q", args[0])
			}
		},
	}
	cmd.Flags().StringP("config", "c", "", "Path to configuration file")
	return cmd
}
