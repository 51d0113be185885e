package chatcmder

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gynocare-chat/internal/config"
	"gynocare-chat/internal/frontend"
	"gynocare-chat/internal/tui"
)

const chatLongDesc string = `Open the terminal chat.

Each message is relayed to the backend together with the conversation so
far. The conversation lives only for the duration of the session.

Examples:
  gynocare chat
  BACKEND_URL=http://localhost:8000 gynocare chat`

const chatShortDesc string = "Chat with the FAQ assistant in the terminal"

func NewChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = config.DefaultFrontendConfigPath()
			}
			cfg, err := config.LoadFrontend(path)
			if err != nil {
				return err
			}

			// The TUI owns the terminal, so nothing else may write to stdout.
			zap.ReplaceGlobals(zap.NewNop())

			session := frontend.NewSession(frontend.NewClient(cfg.BackendURL, cfg.BackendTimeout))
			if err := tui.Run(cmd.Context(), session); err != nil {
				return fmt.Errorf("terminal chat failed: %w", err)
			}
			return nil
		},
	}
}
