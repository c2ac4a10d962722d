package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/pennywise/internal/cli"
	"github.com/Veraticus/pennywise/internal/story"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func storyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "story",
		Short: "Create a short storybook with AI cover art",
		Long: `Write a short story about a topic and generate cover art for it.

Example:
  penny story --topic "a lost umbrella at KL Sentral"`,
		RunE: runStory,
	}

	cmd.Flags().String("topic", "", "Give me a topic for a storybook")

	return cmd
}

func runStory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	topic, _ := cmd.Flags().GetString("topic")

	client, err := newCompletionService()
	if err != nil {
		return err
	}
	writer := story.New(client, viper.GetString("llm.image_model"), slog.Default())

	book, err := cli.RunPending(ctx, cmd.ErrOrStderr(), "Creating story...",
		func(ctx context.Context) (story.Book, error) {
			return writer.Create(ctx, topic)
		})
	if err != nil {
		return err
	}

	printLine(out, cli.TitleStyle.Render(cli.BookIcon+" "+book.Topic))
	printLine(out, fmt.Sprintf("Cover: %s", book.CoverURL))
	printLine(out, cli.SubtleStyle.Render(book.Caption))
	printLine(out, cli.SubtleStyle.Render("────────────────────────────────────────"))
	printLine(out, book.Story)
	return nil
}
