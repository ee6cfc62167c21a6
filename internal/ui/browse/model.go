// Package browse is the terminal host for a browsing session. It renders the
// visible window, routes key presses into filter actions and reports scroll
// positions to the session's listener.
package browse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	core "github.com/popguide/catalog-server/internal/browse"
	"github.com/popguide/catalog-server/internal/catalog"
	"github.com/popguide/catalog-server/internal/classify"
	"github.com/popguide/catalog-server/internal/facets"
	"github.com/popguide/catalog-server/internal/filtering"
	"github.com/popguide/catalog-server/internal/paging"
)

// RowHeight is the pixel height assumed for one rendered row when converting
// cursor movement into scroll positions
const RowHeight = 20

// header and footer lines around the item list
const chromeLines = 5

// Model is the bubbletea model for a browsing session
type Model struct {
	session    *core.Session
	listener   *core.Listener
	classifier *classify.Classifier

	search      textinput.Model
	view        core.View
	cursor      int
	offset      int
	statusFocus int
	width       int
	height      int
	err         error
}

// New creates a model over session. The listener must belong to session and
// stays owned by the caller.
func New(session *core.Session, listener *core.Listener, classifier *classify.Classifier) Model {
	if classifier == nil {
		classifier = classify.New()
	}

	search := textinput.New()
	search.Placeholder = "Search name, series, number, UPC..."
	search.Prompt = "/ "
	search.CharLimit = 120
	search.Focus()

	m := Model{
		session:    session,
		listener:   listener,
		classifier: classifier,
		search:     search,
		height:     24,
		width:      80,
	}
	m.view = session.View()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.Width = max(msg.Width-4, 10)
		m.clampOffset()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "up":
		m.moveCursor(-1)
		return m, nil
	case "down":
		m.moveCursor(1)
		return m, nil
	case "pgup":
		m.moveCursor(-m.listHeight())
		return m, nil
	case "pgdown":
		m.moveCursor(m.listHeight())
		return m, nil

	case "ctrl+v":
		m.apply(m.session.SetVaultedMode(nextVaultedMode(m.view.State.VaultedMode())))
		return m, nil

	case "tab":
		m.statusFocus = (m.statusFocus + 1) % len(facets.StatusValues)
		return m, nil
	case "shift+tab":
		m.statusFocus = (m.statusFocus + len(facets.StatusValues) - 1) % len(facets.StatusValues)
		return m, nil
	case "ctrl+s":
		m.toggleStatus(m.statusFocus)
		return m, nil

	case "ctrl+r":
		m.search.SetValue("")
		m.apply(m.session.ClearFilters())
		return m, nil

	default:
		if i, ok := functionKeyIndex(key); ok {
			m.toggleStatus(i)
			return m, nil
		}
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		m.apply(m.session.SetSearchTerm(after))
	}
	return m, cmd
}

func (m *Model) toggleStatus(i int) {
	if i < 0 || i >= len(facets.StatusValues) {
		return
	}
	m.statusFocus = i
	m.apply(m.session.ToggleFacetValue(filtering.FacetStatus, facets.StatusValues[i]))
}

// apply refreshes the view after a filter action. A changed state puts the
// cursor back at the top since the window was reset.
func (m *Model) apply(err error) {
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	prev := m.view.State
	m.view = m.session.View()
	if m.view.State != prev {
		m.cursor = 0
		m.offset = 0
	}
}

func (m *Model) moveCursor(delta int) {
	n := len(m.view.Items)
	if n == 0 {
		m.cursor, m.offset = 0, 0
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), n-1)

	if m.listener.Scroll(cursorPosition(m.cursor, n)) {
		m.view = m.session.View()
	}
	m.clampOffset()
}

func (m *Model) clampOffset() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.offset = max(m.offset, 0)
}

func (m Model) listHeight() int {
	return max(m.height-chromeLines, 1)
}

// cursorPosition describes the cursor on row `cursor` of n rendered rows as a
// scroll position, so the pixel threshold applies to rows below the cursor.
func cursorPosition(cursor, n int) paging.Position {
	return paging.Position{
		ScrollTop:     float64(cursor+1) * RowHeight,
		ContentHeight: float64(n) * RowHeight,
	}
}

func nextVaultedMode(mode filtering.VaultedMode) filtering.VaultedMode {
	switch mode {
	case filtering.VaultedAll:
		return filtering.VaultedOnly
	case filtering.VaultedOnly:
		return filtering.VaultedAvailable
	default:
		return filtering.VaultedAll
	}
}

// functionKeyIndex maps f1..f7 onto the status vocabulary
func functionKeyIndex(key string) (int, bool) {
	digits, ok := strings.CutPrefix(key, "f")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > len(facets.StatusValues) {
		return 0, false
	}
	return n - 1, true
}

// View renders the model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("PopGuide catalog"))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d of %d shown", m.view.VisibleCount, m.view.FilteredCount)))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n")
	b.WriteString(m.renderFilters())
	b.WriteString("\n")

	rules := m.classifier.Now()
	end := min(m.offset+m.listHeight(), len(m.view.Items))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(rules, m.view.Items[i], i == m.cursor))
		b.WriteString("\n")
	}
	if len(m.view.Items) == 0 {
		b.WriteString(mutedStyle.Render("No items match the current filters"))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
	} else {
		b.WriteString(mutedStyle.Render("F1-F7 status  tab/ctrl+s focus/toggle  ctrl+v vaulted  ctrl+r clear  esc quit"))
	}
	return b.String()
}

func (m Model) renderFilters() string {
	state := m.view.State
	parts := make([]string, 0, len(facets.StatusValues)+1)
	for i, value := range facets.StatusValues {
		label := fmt.Sprintf("F%d %s", i+1, value)
		style := lipgloss.NewStyle()
		if state.IsSelected(filtering.FacetStatus, value) {
			style = activeStatusStyle
		}
		if i == m.statusFocus {
			style = style.Inherit(focusedStatusStyle)
		}
		parts = append(parts, style.Render(label))
	}
	parts = append(parts, mutedStyle.Render("vaulted: "+string(state.VaultedMode())))
	return strings.Join(parts, " ")
}

func (m Model) renderRow(rules classify.Rules, item *catalog.Item, selected bool) string {
	line := item.Name
	if item.Number != "" {
		line = fmt.Sprintf("%s #%s", line, item.Number)
	}
	if item.Series != "" {
		line += mutedStyle.Render("  " + item.Series)
	}
	line += mutedStyle.Render("  " + item.ValueLabel())

	if badges := rules.Badges(item); len(badges) > 0 {
		names := make([]string, len(badges))
		for i, badge := range badges {
			names[i] = string(badge)
		}
		line += "  " + badgeStyle.Render(strings.Join(names, ", "))
	}

	if selected {
		return selectedRowStyle.Render("> ") + line
	}
	return "  " + line
}
