package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"academic-integrity-simulator/internal/model"
	"academic-integrity-simulator/internal/service"
	"academic-integrity-simulator/internal/shell"
	"academic-integrity-simulator/internal/utils"
)

func newChatCmd(a *app) *cobra.Command {
	var noCheck bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the AI student in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
			defer stop()

			check := a.cfg.Session.IntegrityCheck && !noCheck
			conv := model.NewConversation(utils.NewSessionID(), check)

			// The shell observes pipeline states, the pipeline is handed to the
			// shell: bind the observer through a closure.
			var sh *shell.Shell
			pipeline := a.newPipeline(service.WithStateObserver(func(s service.State) {
				if sh != nil {
					sh.OnState(s)
				}
			}))

			var err error
			sh, err = shell.New(conv, pipeline, os.Stdin, os.Stdout)
			if err != nil {
				return err
			}
			return sh.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&noCheck, "no-check", false, "Start with the integrity check disabled")
	return cmd
}
