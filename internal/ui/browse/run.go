package browse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	core "github.com/popguide/catalog-server/internal/browse"
	"github.com/popguide/catalog-server/internal/classify"
)

// Run shows session in the terminal until the user quits or ctx is done.
// The session's scroll listener is held for the lifetime of the program.
func Run(ctx context.Context, session *core.Session, classifier *classify.Classifier, opts ...tea.ProgramOption) error {
	listener, err := session.Listen()
	if err != nil {
		return fmt.Errorf("failed to register scroll listener: %w", err)
	}
	defer listener.Close()

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(New(session, listener, classifier), opts...)

	slog.Debug("Starting terminal browser", "session_id", session.ID())

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("terminal browser failed: %w", err)
	}
	return nil
}
