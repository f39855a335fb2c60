package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	infoStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
)

func (a *app) info(format string, args ...any) {
	fmt.Fprintln(a.stderr, infoStyle.Render(fmt.Sprintf(format, args...)))
}

func (a *app) error(format string, args ...any) {
	fmt.Fprintln(a.stderr, errorStyle.Render(fmt.Sprintf(format, args...)))
}

func (a *app) warn(format string, args ...any) {
	fmt.Fprintln(a.stderr, warnStyle.Render(fmt.Sprintf(format, args...)))
}
