package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	chatcmder "gynocare-chat/cmd/gynocare/chatcmder"
	ingestcmder "gynocare-chat/cmd/gynocare/ingestcmder"
	webcmder "gynocare-chat/cmd/gynocare/webcmder"
)

const rootLongDesc string = `Gynocare clinic FAQ assistant.

Chat with the FAQ relay from the terminal or a browser, or build the
FAQ collection from a spreadsheet.`

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gynocare",
		Short:         "Gynocare clinic FAQ assistant",
		Long:          rootLongDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to the frontend TOML config (default ~/.gynocare/config.toml)")

	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(webcmder.NewWebCmd())
	cmd.AddCommand(ingestcmder.NewIngestCmd())

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
