// Package viewer provides the Bubble Tea pager for chart documents.
package viewer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const helpText = "Page: left/right  Scroll: up/down/pgup/pgdn  Top/Bottom: g/G  Quit: q"

var (
	tabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true)
	activeTabStyle = tabStyle.
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveTabStyle = tabStyle.
				Foreground(lipgloss.Color("#B0B0B0")).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	moreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

// Model implements the Bubble Tea document pager.
type Model struct {
	name      string
	pages     []Page
	activeTab int
	viewports []viewport.Model

	width  int
	height int
}

// NewModel constructs a pager over pages. name is shown in the header.
func NewModel(name string, pages []Page) *Model {
	m := &Model{name: name, pages: pages}
	m.viewports = make([]viewport.Model, len(pages))
	for i, page := range pages {
		m.viewports[i] = viewport.New(0, 0)
		m.viewports[i].SetContent(page.Body)
	}
	return m
}

// Run shows pages full screen until the user quits.
func Run(path string, pages []Page) error {
	p := tea.NewProgram(NewModel(filepath.Base(path), pages), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		if len(m.pages) == 0 {
			return m, nil
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "g", "home":
			m.viewports[m.activeTab].GotoTop()
			return m, nil
		case "G", "end":
			m.viewports[m.activeTab].GotoBottom()
			return m, nil
		default:
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	tabs := m.tabsHeight()
	return strings.Join([]string{
		fit(m.renderTabs(), m.width, tabs),
		fit(m.renderStatus(), m.width, 1),
		fit(m.renderBody(), m.width, m.bodyHeight()),
		fit(statusStyle.Render(helpText), m.width, 1),
	}, "\n")
}

func (m *Model) tabsHeight() int {
	return max(1, lipgloss.Height(activeTabStyle.Render("X")))
}

// bodyHeight is what remains after the tab bar, status line and help line.
func (m *Model) bodyHeight() int {
	return max(1, m.height-m.tabsHeight()-2)
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = m.bodyHeight()
	}
}

func (m *Model) moveTab(delta int) {
	n := len(m.pages)
	if n == 0 {
		return
	}
	m.activeTab = ((m.activeTab+delta)%n + n) % n
}

// visibleTabs returns the widest run of tabs around the active one that
// fits in width.
func (m *Model) visibleTabs(width int) (first, last int) {
	first, last = m.activeTab, m.activeTab
	used := tabWidth(m.pages[m.activeTab].Title, true)
	for {
		grown := false
		if last+1 < len(m.pages) {
			if w := tabWidth(m.pages[last+1].Title, false); used+w <= width {
				used += w
				last++
				grown = true
			}
		}
		if first > 0 {
			if w := tabWidth(m.pages[first-1].Title, false); used+w <= width {
				used += w
				first--
				grown = true
			}
		}
		if !grown {
			return first, last
		}
	}
}

func (m *Model) renderTabs() string {
	if len(m.pages) == 0 {
		return ""
	}
	// Reserve room for the overflow markers.
	first, last := m.visibleTabs(m.width - 4)
	parts := make([]string, 0, last-first+3)
	if first > 0 {
		parts = append(parts, moreStyle.Render("‹ "))
	}
	for i := first; i <= last; i++ {
		label := tabLabel(m.pages[i].Title)
		style := inactiveTabStyle
		if i == m.activeTab {
			style = activeTabStyle
		}
		parts = append(parts, style.Render(label))
	}
	if last < len(m.pages)-1 {
		parts = append(parts, moreStyle.Render(" ›"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m *Model) renderStatus() string {
	if len(m.pages) == 0 {
		return statusStyle.Render("No pages.")
	}
	vp := m.viewports[m.activeTab]
	status := fmt.Sprintf("%s  page %d/%d  %3.0f%%", m.name, m.activeTab+1, len(m.pages), vp.ScrollPercent()*100)
	return statusStyle.Render(status)
}

func (m *Model) renderBody() string {
	if len(m.pages) == 0 {
		return "Document has no pages."
	}
	return m.viewports[m.activeTab].View()
}

func tabLabel(title string) string {
	if n, ok := strings.CutPrefix(title, "Challenge "); ok {
		return "#" + n
	}
	return title
}

func tabWidth(title string, active bool) int {
	style := inactiveTabStyle
	if active {
		style = activeTabStyle
	}
	return lipgloss.Width(style.Render(tabLabel(title)))
}

// fit clips or pads s to exactly width columns and height rows.
func fit(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	clip := lipgloss.NewStyle().MaxWidth(width)
	for i, line := range lines {
		w := lipgloss.Width(line)
		if w > width {
			line, w = clip.Render(line), width
		}
		lines[i] = line + strings.Repeat(" ", max(0, width-w))
	}
	return strings.Join(lines, "\n")
}
