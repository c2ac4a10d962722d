package main

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Veraticus/pennywise/internal/chef"
	"github.com/Veraticus/pennywise/internal/cli"
	"github.com/spf13/cobra"
)

func chefCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chef",
		Short: "Chat with a Michelin-starred chef about home cooking",
		Long: `Ask a two Michelin star chef for help with home cooking.

Stay on topic: questions outside of cooking are not taken kindly.

Examples:
  penny chef
  penny chef --once "How do I keep rice from going mushy?"`,
		RunE: runChef,
	}

	cmd.Flags().String("once", "", "Ask a single question without the chat screen")

	return cmd
}

func runChef(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	client, err := newCompletionService()
	if err != nil {
		return err
	}
	chat := chef.New(client, slog.Default())

	question, _ := cmd.Flags().GetString("once")
	if strings.TrimSpace(question) == "" {
		return chef.Run(ctx, chat, cmd.InOrStdin(), cmd.OutOrStdout())
	}

	reply, err := cli.RunPending(ctx, cmd.ErrOrStderr(), "Asking the chef...",
		func(ctx context.Context) (string, error) {
			return chat.Ask(ctx, question)
		})
	if err != nil {
		return err
	}

	printLine(cmd.OutOrStdout(), reply)
	return nil
}
