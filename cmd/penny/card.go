package main

import (
	"github.com/Veraticus/pennywise/internal/cli"
	"github.com/spf13/cobra"
)

const cakeImageURL = "https://stordfkenticomedia.blob.core.windows.net/df-us/rms/media/recipesmedia/recipes/retail/x17/2003/sep/16714-birthday-cake-600x600.jpg?ext=.jpg"

func cardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Show a birthday card",
		RunE:  runCard,
	}

	cmd.Flags().Bool("celebrate", false, "HAPPY BIRTHDAY!")

	return cmd
}

func runCard(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	celebrate, _ := cmd.Flags().GetBool("celebrate")

	printLine(out, cli.TitleStyle.Render(cli.CakeIcon+" A Card For You"))
	printLine(out, "Today is your day")
	printLine(out, "")

	if !celebrate {
		printLine(out, "Goodbye")
		return nil
	}

	printLine(out, cli.SuccessStyle.Render("🎈 Hope you have a great day 🎈"))
	printLine(out, cakeImageURL)
	return nil
}
