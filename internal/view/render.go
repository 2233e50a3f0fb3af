package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"chatsync/internal/app/session"
)

const sidebarWidth = 24

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sidebarStyle = lipgloss.NewStyle().
			Width(sidebarWidth).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			PaddingRight(1)
	selfStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	senderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	unknownStyle = lipgloss.NewStyle().Faint(true)
	imageStyle   = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("13"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle    = lipgloss.NewStyle().Faint(true)
)

// View implements tea.Model.
func (model Model) View() string {
	if model.width == 0 {
		return "Loading..."
	}

	header := headerStyle.Render(fmt.Sprintf("chat as %s", model.source.Username())) +
		helpStyle.Render(fmt.Sprintf("  [%s]", model.conn.State()))

	// header, input and status/help lines
	bodyHeight := max(model.height-3, 1)

	sidebar := sidebarStyle.Height(bodyHeight).Render(model.renderRoster())
	feed := lipgloss.NewStyle().Height(bodyHeight).Render(model.renderFeed(bodyHeight))
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", feed)

	footer := helpStyle.Render("enter send · esc quit")
	if model.status != "" {
		footer = statusStyle.Render(model.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, model.input.View(), footer)
}

func (model Model) renderRoster() string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Users (%d)\n", len(model.roster)))

	self := model.source.Username()
	for _, profile := range model.roster {
		if profile.Name == self {
			builder.WriteString(selfStyle.Render("● "+profile.Name) + "\n")
			continue
		}
		builder.WriteString("● " + profile.Name + "\n")
	}
	return strings.TrimRight(builder.String(), "\n")
}

// renderFeed renders the newest entries that fit in height lines.
func (model Model) renderFeed(height int) string {
	if len(model.feed) == 0 {
		return unknownStyle.Render("No messages yet.")
	}

	start := max(len(model.feed)-height, 0)
	lines := make([]string, 0, len(model.feed)-start)
	for _, entry := range model.feed[start:] {
		lines = append(lines, renderEntry(entry))
	}
	return strings.Join(lines, "\n")
}

func renderEntry(entry session.FeedEntry) string {
	body := entry.Body
	if isImage(body) {
		body = imageStyle.Render("[image] " + strings.TrimSpace(body))
	}

	if !entry.Known {
		return unknownStyle.Render(entry.Sender+": ") + body
	}
	return senderStyle.Render("● "+entry.Sender) + ": " + body
}
