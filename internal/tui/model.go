// Package tui provides the Bubble Tea interface for watching subtitles.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/kovocab/internal/model"
	"github.com/verte-zerg/kovocab/internal/playback"
	"github.com/verte-zerg/kovocab/internal/session"
	"github.com/verte-zerg/kovocab/internal/subtitle"
)

const (
	seekStep     = 5.0
	refreshEvery = 200 * time.Millisecond
)

// UpdateMsg carries a session update into the program.
type UpdateMsg session.Update

type refreshMsg time.Time

var (
	titleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	clockStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	pausedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	contentStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	surfaceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	headwordStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	definitionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#BFBFBF"))
	idleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")).Italic(true)
	footerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))

	tierStyles = map[model.Tier]lipgloss.Style{
		model.TierA: lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")),
		model.TierB: lipgloss.NewStyle().Foreground(lipgloss.Color("#1890FF")),
		model.TierC: lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14")),
		model.TierD: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
	}
	unrankedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

func tierStyle(t model.Tier) lipgloss.Style {
	if s, ok := tierStyles[t]; ok {
		return s
	}
	return unrankedStyle
}

type keyMap struct {
	Pause    key.Binding
	Back     key.Binding
	Forward  key.Binding
	PrevCue  key.Binding
	NextCue  key.Binding
	Help     key.Binding
	Quit     key.Binding
	ScrollUp key.Binding
	ScrollDn key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Pause:    key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause")),
		Back:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "-5s")),
		Forward:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "+5s")),
		PrevCue:  key.NewBinding(key.WithKeys("b", "["), key.WithHelp("b", "prev cue")),
		NextCue:  key.NewBinding(key.WithKeys("n", "]"), key.WithHelp("n", "next cue")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		ScrollUp: key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "scroll up")),
		ScrollDn: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "scroll down")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Back, k.Forward, k.NextCue, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Back, k.Forward},
		{k.PrevCue, k.NextCue},
		{k.ScrollUp, k.ScrollDn},
		{k.Help, k.Quit},
	}
}

// Model implements the Bubble Tea watch UI.
type Model struct {
	title   string
	clock   *playback.Clock
	blocks  []subtitle.Block
	dropped int

	keys     keyMap
	help     help.Model
	viewport viewport.Model

	width  int
	height int

	current    session.Update
	hasCurrent bool
}

// NewModel constructs a watch model. blocks are used for cue navigation
// only; glosses arrive as UpdateMsg.
func NewModel(title string, clock *playback.Clock, blocks []subtitle.Block, dropped int) *Model {
	return &Model{
		title:    title,
		clock:    clock,
		blocks:   blocks,
		dropped:  dropped,
		keys:     defaultKeyMap(),
		help:     help.New(),
		viewport: viewport.New(0, 0),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return refresh()
}

func refresh() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil
	case UpdateMsg:
		m.current = session.Update(msg)
		m.hasCurrent = true
		m.viewport.SetContent(m.renderBody())
		m.viewport.GotoTop()
		return m, nil
	case refreshMsg:
		return m, refresh()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Pause):
		m.clock.Toggle()
	case key.Matches(msg, m.keys.Back):
		m.clock.Seek(-seekStep)
	case key.Matches(msg, m.keys.Forward):
		m.clock.Seek(seekStep)
	case key.Matches(msg, m.keys.NextCue):
		if b, ok := nextCue(m.blocks, m.clock.Position()); ok {
			m.clock.Set(b.Start)
		}
	case key.Matches(msg, m.keys.PrevCue):
		if b, ok := prevCue(m.blocks, m.clock.Position()); ok {
			m.clock.Set(b.Start)
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// nextCue returns the first block starting after pos.
func nextCue(blocks []subtitle.Block, pos float64) (subtitle.Block, bool) {
	for _, b := range blocks {
		if b.Start > pos {
			return b, true
		}
	}
	return subtitle.Block{}, false
}

// prevCue returns the block before the one at pos. Between cues it is the
// last block that already ended.
func prevCue(blocks []subtitle.Block, pos float64) (subtitle.Block, bool) {
	last := -1
	for i, b := range blocks {
		if b.Start >= pos {
			break
		}
		last = i
	}
	if last < 0 {
		return subtitle.Block{}, false
	}
	if blocks[last].Contains(pos) {
		last--
	}
	if last < 0 {
		return subtitle.Block{}, false
	}
	return blocks[last], true
}

func (m *Model) resize() {
	footerHeight := lipgloss.Height(m.renderFooter())
	bodyHeight := m.height - 1 - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = bodyHeight
	m.viewport.SetContent(m.renderBody())
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return m.renderHeader() + "\n" + m.renderBody()
	}
	return m.renderHeader() + "\n" + m.viewport.View() + "\n" + m.renderFooter()
}

func (m *Model) renderHeader() string {
	pos := subtitle.FormatTimestamp(m.clock.Position())
	if d := m.clock.Duration(); d > 0 {
		pos += " / " + subtitle.FormatTimestamp(d)
	}
	segments := []string{titleStyle.Render(m.title), clockStyle.Render(pos)}
	if m.clock.Paused() {
		segments = append(segments, pausedStyle.Render("paused"))
	}
	return strings.Join(segments, "  ")
}

func (m *Model) renderBody() string {
	if !m.hasCurrent {
		return idleStyle.Render("waiting for the first cue…")
	}
	lines := []string{
		contentStyle.Render(m.current.Block.Content),
		"",
	}
	if len(m.current.Words) == 0 {
		lines = append(lines, idleStyle.Render("no glosses for this cue"))
	}
	for _, w := range m.current.Words {
		lines = append(lines, wrapStyledRunes(glossRunes(w), m.width))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	stats := fmt.Sprintf("%d cues", len(m.blocks))
	if m.dropped > 0 {
		stats += fmt.Sprintf(" · %d dropped", m.dropped)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, footerStyle.Render(stats)+"  ", m.help.View(m.keys))
}
