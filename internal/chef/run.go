package chef

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the chat screen until the user quits or ctx is canceled.
func Run(ctx context.Context, chat *Chat, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(NewModel(ctx, chat),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen())

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("chef chat failed: %w", err)
	}
	return nil
}
