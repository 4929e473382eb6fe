package ui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"crust/internal/pipeline"
)

// RunWithProgress runs work in the background, feeding its events into a
// progress view rendered on out. It returns work's error unless the UI itself failed.
func RunWithProgress(out io.Writer, title string, files []string, work func(sink pipeline.ProgressSink) error) error {
	events := make(chan pipeline.Event, 256)
	errCh := make(chan error, 1)

	go func() {
		err := work(pipeline.ChannelSink{Ch: events})
		close(events)
		errCh <- err
	}()

	model := NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil))
	_, uiErr := program.Run()
	if uiErr != nil {
		// дренируем канал, чтобы work не застрял на отправке
		for range events {
		}
		<-errCh
		return uiErr
	}
	return <-errCh
}
