package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/toodo-app/toodo/internal/models"
)

// View renders the board.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	sections := []string{
		renderHeader(m.todos, m.width),
		renderTabs(m.todos, m.selected, m.width),
		m.renderBody(),
	}
	if m.inputMode != inputNone {
		sections = append(sections, m.renderInput())
	}
	if m.showHelp {
		sections = append(sections, m.help.View(keys))
	}
	sections = append(sections, renderStatusBar(&m, m.width))
	return strings.Join(sections, "\n")
}

func renderHeader(todos []*models.Todo, width int) string {
	dot := lipgloss.NewStyle().Foreground(colorGreen).Render("●")
	left := fmt.Sprintf(" %s %s", dot, lipgloss.NewStyle().Bold(true).Render("toodo"))
	right := dimStyle.Render(fmt.Sprintf("%d active ", len(todos)))

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return headerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func renderTabs(todos []*models.Todo, selected string, width int) string {
	if len(todos) == 0 {
		return ""
	}
	parts := make([]string, 0, len(todos))
	for _, t := range todos {
		label := fmt.Sprintf("%s %d/%d", t.Name, t.CompletedCount(), len(t.Steps))
		if t.Key == selected {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, inactiveTabStyle.Render(label))
		}
	}
	line := " " + strings.Join(parts, tabSepStyle.Render(" | "))
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

func (m Model) renderBody() string {
	width := m.width - 2
	if width < 20 {
		width = 20
	}

	t := m.current()
	if t == nil {
		msg := "Loading…"
		if m.loaded {
			msg = "No active todos. Press n to create one."
		}
		return panelStyle.Width(width).Render(dimStyle.Render(msg))
	}

	lines := []string{
		todoTitleStyle.Render(t.Name),
		renderExpiry(t, m.now()),
		"",
	}
	if len(t.Steps) == 0 {
		lines = append(lines, dimStyle.Render("(no steps yet)"))
	}
	for i, s := range t.Steps {
		mark, style := "[ ]", stepOpenStyle
		if s.Completed {
			mark, style = "[✓]", stepDoneStyle
		}
		line := fmt.Sprintf("%2d. %s %s", i, mark, style.Render(s.Description))
		if i == m.cursor {
			line = selectedItemStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return panelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func renderExpiry(t *models.Todo, now time.Time) string {
	left := t.ExpiresAt.Sub(now).Truncate(time.Second)
	text := fmt.Sprintf("expires in %s · updated %s", left, t.LastUpdatedAt.Local().Format("15:04:05"))
	if left < 5*time.Minute {
		return expiringStyle.Render(text)
	}
	return dimStyle.Render(text)
}

func (m Model) renderInput() string {
	title := "Add step"
	if m.inputMode == inputNewTodo {
		title = "New todo"
	}
	return " " + keyStyle.Render(title) + " " + m.input.View()
}

func renderStatusBar(m *Model, width int) string {
	if m.confirmDelete {
		name := ""
		if t := m.current(); t != nil {
			name = t.Name
		}
		return renderConfirmBar(fmt.Sprintf("Delete '%s'? (y/n)", name), width)
	}

	if m.err != nil {
		return renderErrorBar(m.err.Error(), width)
	}

	left := " " + hintsFor(m)
	right := ""
	if m.status != "" {
		right = lipgloss.NewStyle().Foreground(colorGreen).Render(m.status) + " "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return statusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func hintsFor(m *Model) string {
	if m.inputMode != inputNone {
		return keyHint("Enter", "save") + "  " + keyHint("Esc", "cancel")
	}
	return keyHint("q", "quit") + "  " + keyHint("?", "help") + "  " +
		keyHint("←/→", "todo") + "  " + keyHint("space", "complete") + "  " +
		keyHint("a", "add") + "  " + keyHint("x", "delete step")
}

func keyHint(k, desc string) string {
	return keyStyle.Render(k) + " " + hintStyle.Render(desc)
}

func renderConfirmBar(msg string, width int) string {
	return statusBarStyle.
		Background(colorYellow).
		Foreground(lipgloss.AdaptiveColor{Light: "0", Dark: "0"}).
		Width(width).
		Render(" " + msg)
}

func renderErrorBar(msg string, width int) string {
	return statusBarStyle.
		Background(colorRed).
		Width(width).
		Render(" " + msg)
}
