package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gobblegen/gobble/pkg/manifest"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// CardPickerModel - Interactive card selection
// =============================================================================

// CardPickerModel is the bubbletea model for choosing which cards of a deck
// to generate.
type CardPickerModel struct {
	Numbers []int
	Symbols [][]string
	Cursor  int
	Offset  int
	Height  int
	Chosen  map[int]bool

	// Done is set when the user confirms, Aborted when they quit.
	Done    bool
	Aborted bool
}

// NewCardPickerModel lists the cards of m with their resolved symbols.
func NewCardPickerModel(m *manifest.Manifest) CardPickerModel {
	model := CardPickerModel{
		Height: 15,
		Chosen: map[int]bool{},
	}
	for _, c := range m.Cards {
		model.Numbers = append(model.Numbers, c.Number)
		model.Symbols = append(model.Symbols, m.Resolved(c))
	}
	return model
}

func (m CardPickerModel) Init() tea.Cmd {
	return nil
}

func (m CardPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Aborted = true
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Numbers)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Numbers) > 0 {
				n := m.Numbers[m.Cursor]
				m.Chosen[n] = !m.Chosen[n]
			}
		case "a":
			all := len(m.Selection()) < len(m.Numbers)
			for _, n := range m.Numbers {
				m.Chosen[n] = all
			}
		case "enter":
			if len(m.Selection()) == 0 && len(m.Numbers) > 0 {
				m.Chosen[m.Numbers[m.Cursor]] = true
			}
			m.Done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

// Selection returns the chosen card numbers in manifest order.
func (m CardPickerModel) Selection() []int {
	var out []int
	for _, n := range m.Numbers {
		if m.Chosen[n] {
			out = append(out, n)
		}
	}
	return out
}

func (m CardPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Cards"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ generate  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Numbers))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := "[ ]"
		if m.Chosen[m.Numbers[i]] {
			mark = "[x]"
		}
		rows = append(rows, []string{cursor, mark, strconv.Itoa(m.Numbers[i]), strings.Join(m.Symbols[i], ", ")})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Card", "Symbols").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Numbers) {
				return lipgloss.NewStyle()
			}
			switch {
			case idx == m.Cursor:
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			case m.Chosen[m.Numbers[idx]]:
				return lipgloss.NewStyle().Foreground(colorGreen)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d selected · [%d/%d]", len(m.Selection()), m.Cursor+1, len(m.Numbers))))

	return b.String()
}

// pickCards runs the picker on the terminal and returns the chosen card
// numbers. Quitting returns context.Canceled.
func pickCards(ctx context.Context, m *manifest.Manifest) ([]int, error) {
	p := tea.NewProgram(NewCardPickerModel(m), tea.WithContext(ctx), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("card picker: %w", err)
	}
	model := final.(CardPickerModel)
	if model.Aborted || !model.Done {
		return nil, context.Canceled
	}
	return model.Selection(), nil
}
