package tui

import (
	"strings"

	"github.com/bryantinsley/dashtailor/dashboard/pkg/layout"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/ui/styles"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderHelpModal())
	}
	if m.screen == screenPicker {
		return m.renderPicker()
	}
	return m.renderDashboard()
}

func (m Model) renderPicker() string {
	title := styles.TitleStyle.Render("dashtailor")
	subtitle := styles.MutedStyle.Render("Choose the dashboard you want to customize")

	var b strings.Builder
	b.WriteString(title + "\n" + subtitle + "\n\n")
	y := 3

	for _, item := range m.pickerItems {
		rendered := item.Render()
		w, h := item.Size()
		item.SetBounds(0, y, w, h)
		y += h + 1
		b.WriteString(rendered + "\n\n")
	}

	b.WriteString(m.help.ShortHelpView([]key.Binding{keys.Up, keys.Down, keys.Select, keys.Quit}))
	return b.String()
}

func (m Model) renderDashboard() string {
	persona := layout.PersonaFor(m.profile)
	header := styles.TitleStyle.Render(persona.Icon + "  " + profileLabel(m.profile) + " dashboard")

	gridY := lipgloss.Height(header) + 1
	m.grid.SetOrigin(0, gridY)
	gridView := m.grid.View()

	parts := []string{header, "", gridView}

	if m.chatOpen {
		chatY := gridY + lipgloss.Height(gridView) + 1
		parts = append(parts, "", m.renderChat(chatY))
	}

	parts = append(parts, m.help.ShortHelpView(keys.ShortHelp()))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderChat draws the chat panel whose top border sits at row y, placing the
// header buttons for mouse hit testing.
func (m Model) renderChat(y int) string {
	persona := layout.PersonaFor(m.profile)
	title := styles.ChatHeaderStyle.Render(persona.Icon + " " + persona.Title)
	back := m.backBtn.Render()
	closeBtn := m.closeBtn.Render()

	// Border plus left padding.
	innerX, innerY := 2, y+1
	backX := innerX + lipgloss.Width(title) + 2
	bw, bh := m.backBtn.Size()
	m.backBtn.SetBounds(backX, innerY, bw, bh)
	cw, ch := m.closeBtn.Size()
	m.closeBtn.SetBounds(backX+bw+1, innerY, cw, ch)

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", back, " ", closeBtn)

	body := []string{headerRow, "", m.viewport.View()}
	if m.pending > 0 {
		body = append(body, styles.ThinkingStyle.Render(m.spinner.View()+" Thinking..."))
	} else {
		body = append(body, "")
	}
	body = append(body, m.input.View())

	return styles.ChatPanelStyle.Width(m.viewport.Width + 2).Render(lipgloss.JoinVertical(lipgloss.Left, body...))
}

func (m Model) renderHistory() string {
	persona := layout.PersonaFor(m.profile)
	wrap := lipgloss.NewStyle().Width(m.viewport.Width - 3)

	var lines []string
	for _, e := range m.history {
		if e.fromUser {
			lines = append(lines, styles.UserMessageStyle.Render(joinAvatar("👤", wrap.Render(e.text))))
		} else {
			lines = append(lines, styles.BotMessageStyle.Render(joinAvatar(persona.Icon, wrap.Render(e.text))))
		}
	}
	return strings.Join(lines, "\n\n")
}

func joinAvatar(avatar, text string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, avatar+" ", text)
}

func (m Model) renderHelpModal() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Keyboard shortcuts") + "\n\n")
	b.WriteString(m.help.FullHelpView(keys.FullHelp()) + "\n\n")
	b.WriteString("Chat commands: show layout · add [card] · remove [card] · swap [card1] and [card2]\n\n")
	b.WriteString(styles.MutedStyle.Render("Press any key to dismiss"))
	return styles.ModalStyle.Render(b.String())
}
