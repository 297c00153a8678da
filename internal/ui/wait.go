package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// Waiter shows a status line while a blocking step runs.
type Waiter struct {
	program *tea.Program
	done    chan struct{}
	err     error
}

// stopMsg ends the wait program.
type stopMsg struct{}

// waitModel is a one-line bubbletea model: a spinner followed by a label.
type waitModel struct {
	spinner spinner.Model
	label   string
	stopped bool
}

func newWaitModel(label string) waitModel {
	return waitModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.title)),
		label:   label,
	}
}

func (m waitModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m waitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stopMsg:
		m.stopped = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m waitModel) View() string {
	if m.stopped {
		return ""
	}
	return m.spinner.View() + " " + m.label
}

// Wait displays label on w until Stop is called. Terminals get an animated spinner; any other
// writer gets the label printed once.
func Wait(w io.Writer, label string) *Waiter {
	return startWait(w, label, IsTerminal(w))
}

func startWait(w io.Writer, label string, animate bool) *Waiter {
	wt := &Waiter{done: make(chan struct{})}
	if !animate {
		fmt.Fprintf(w, "→ %s\n", label)
		close(wt.done)
		return wt
	}

	wt.program = tea.NewProgram(newWaitModel(label),
		tea.WithOutput(w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	go func() {
		defer close(wt.done)
		_, wt.err = wt.program.Run()
	}()
	return wt
}

// Stop clears the status line and waits for the spinner to exit.
func (w *Waiter) Stop() error {
	if w.program != nil {
		w.program.Send(stopMsg{})
	}
	<-w.done
	return w.err
}

// IsTerminal reports whether w is attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
