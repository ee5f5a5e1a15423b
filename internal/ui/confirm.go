package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yolodolo42/msgsign/internal/ethmsg"
)

const (
	defaultWidth    = 80
	maxBodyHeight   = 10
	bodyChromeWidth = 4 // border + padding
)

// ConfirmModel asks the user to accept or reject a title/body pair.
type ConfirmModel struct {
	title      string
	body       string
	scrollable bool
	viewport   viewport.Model
	width      int
	answered   bool
	accepted   bool
}

// NewConfirmModel creates a confirmation screen for params.
func NewConfirmModel(params ethmsg.ConfirmParams) ConfirmModel {
	m := ConfirmModel{
		title:      strings.ReplaceAll(params.Title, "\n", " "),
		body:       SanitizeBody(params.Body),
		scrollable: params.Scrollable,
		width:      defaultWidth,
	}
	m.resize(defaultWidth)
	return m
}

// Accepted reports whether the user accepted.
func (m ConfirmModel) Accepted() bool {
	return m.answered && m.accepted
}

// Answered reports whether the user has responded.
func (m ConfirmModel) Answered() bool {
	return m.answered
}

// Init implements tea.Model.
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update handles key presses and resizes.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width)
		return m, nil

	case tea.KeyMsg:
		// Enter is ignored so a repeated keypress from the previous
		// screen cannot accept this one.
		switch msg.String() {
		case "y", "Y":
			m.answered = true
			m.accepted = true
			return m, tea.Quit
		case "n", "N", "q", "esc", "ctrl+c":
			m.answered = true
			m.accepted = false
			return m, tea.Quit
		}
	}

	if m.scrollable {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the confirmation screen.
func (m ConfirmModel) View() string {
	if m.answered {
		if m.accepted {
			return AcceptStyle.Render(SymbolCheck+" "+m.title) + "\n"
		}
		return RejectStyle.Render(SymbolCross+" "+m.title) + "\n"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(SymbolArrow + " " + m.title))
	b.WriteString("\n")

	content := m.wrapped()
	if m.scrollable {
		content = m.viewport.View()
	}
	b.WriteString(BodyStyle.Render(content))
	b.WriteString("\n")

	help := "y accept, n/esc reject"
	if m.scrollable && m.viewport.TotalLineCount() > m.viewport.Height {
		help += ", ↑/↓ scroll"
	}
	b.WriteString(HelpStyle.Render(help))
	b.WriteString("\n")
	return b.String()
}

func (m *ConfirmModel) resize(width int) {
	if width <= bodyChromeWidth {
		width = defaultWidth
	}
	m.width = width

	content := m.wrapped()
	height := strings.Count(content, "\n") + 1
	if height > maxBodyHeight {
		height = maxBodyHeight
	}
	m.viewport = viewport.New(width-bodyChromeWidth, height)
	m.viewport.SetContent(content)
}

// wrapped hard-wraps the body at the inner body width.
func (m ConfirmModel) wrapped() string {
	inner := m.width - bodyChromeWidth
	runes := []rune(m.body)
	if inner <= 0 || len(runes) <= inner {
		return m.body
	}

	var b strings.Builder
	for i := 0; i < len(runes); i += inner {
		end := i + inner
		if end > len(runes) {
			end = len(runes)
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(runes[i:end]))
	}
	return b.String()
}

// SanitizeBody replaces C0 control characters and DEL with their Unicode
// control pictures so the body cannot move the cursor or emit escape
// sequences. Every input byte stays visible as exactly one rune.
func SanitizeBody(body string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r < 0x20:
			return 0x2400 + r
		case r == 0x7f:
			return 0x2421
		default:
			return r
		}
	}, body)
}
