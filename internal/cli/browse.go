package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gitlanes/pkg/graph"
	"github.com/matzehuels/gitlanes/pkg/render/sink"
	"github.com/matzehuels/gitlanes/pkg/visual"
)

// Lane glyphs
const (
	glyphCommit = "●"
	glyphMerge  = "◆"
	glyphLane   = "│"
	glyphFree   = " "
)

var (
	browseCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	browseIDStyle     = lipgloss.NewStyle().Foreground(colorWhite)
	browseDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command, a terminal view of a lane
// layout driven by the same visual state machine as interactive SVGs.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		flags  layoutFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "browse <input>",
		Short: "Explore a lane layout in the terminal",
		Long: `Explore a lane layout in the terminal.

Move between commits with the arrow keys; the commit under the cursor and its
connectors are hovered. Enter toggles the selection of a commit and its
edges, h highlights them until the cursor moves, r resets every element.

With -o the final selection is written as an SVG when browsing ends.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.cfg)
			if err := resolveInput(args[0], cmd.InOrStdin(), &opts); err != nil {
				return err
			}
			runner := c.newRunner(cmd.Context())
			defer runner.Close()

			l, _, _, err := runner.Layout(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if !l.IsLanes() {
				return fmt.Errorf("browse needs a lanes layout, got %s", l.VizType)
			}

			ctrl := visual.NewController(visual.WithBaseWidth(opts.StrokeWidth), visual.WithLogger(c.Logger))
			graph.Register(ctrl, l)
			graph.Select(ctrl, l, opts.Selected...)

			m, err := c.runBrowse(cmd.Context(), NewBrowseModel(l, ctrl))
			if err != nil {
				return err
			}
			if output == "" {
				return nil
			}
			graph.ApplyStyles(ctrl, &m.Layout)
			svg := sink.RenderSVG(m.Layout, sink.WithStrokeWidth(opts.StrokeWidth), sink.WithLabels())
			if err := os.WriteFile(output, svg, 0o644); err != nil {
				return fmt.Errorf("write output %s: %w", output, err)
			}
			printSuccess("Saved %d selected elements", len(ctrl.Selected()))
			printFile(output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the final view as SVG")
	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, m BrowseModel) (BrowseModel, error) {
	final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil {
		return m, fmt.Errorf("browse: %w", err)
	}
	return final.(BrowseModel), nil
}

// =============================================================================
// BrowseModel - Interactive lane view
// =============================================================================

// BrowseModel is the bubbletea model of the browse command. One line is
// drawn per row, newest commit last.
type BrowseModel struct {
	Layout graph.Layout
	Ctrl   *visual.Controller
	Cursor int
	Height int
	Offset int

	byRow   []int          // row → node index
	byID    map[string]int // commit → node index
	edgesOf map[string][]string
}

// NewBrowseModel creates a model over l. ctrl must have l registered.
func NewBrowseModel(l graph.Layout, ctrl *visual.Controller) BrowseModel {
	m := BrowseModel{
		Layout:  l,
		Ctrl:    ctrl,
		Height:  20,
		byRow:   make([]int, len(l.Rows)),
		byID:    make(map[string]int, len(l.Nodes)),
		edgesOf: make(map[string][]string, len(l.Nodes)),
	}
	for i := range m.byRow {
		m.byRow[i] = -1
	}
	for i, n := range l.Nodes {
		m.byID[n.ID] = i
		if n.Row >= 0 && n.Row < len(m.byRow) {
			m.byRow[n.Row] = i
		}
	}
	for _, e := range l.Edges {
		key := graph.EdgeKey(e.ID)
		m.edgesOf[e.From] = append(m.edgesOf[e.From], key)
		m.edgesOf[e.To] = append(m.edgesOf[e.To], key)
	}
	m.hover(true)
	return m
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "enter", " ":
			m.toggle()
		case "h":
			m.apply(visual.Highlight)
		case "r":
			m.Ctrl.Reset()
			m.hover(true)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-4, 5)
		m.scroll()
	}
	return m, nil
}

// current returns the commit under the cursor.
func (m *BrowseModel) current() (graph.Node, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.byRow) || m.byRow[m.Cursor] < 0 {
		return graph.Node{}, false
	}
	return m.Layout.Nodes[m.byRow[m.Cursor]], true
}

// keys returns the controller keys of the commit under the cursor and its
// edges.
func (m *BrowseModel) keys() []string {
	n, ok := m.current()
	if !ok {
		return nil
	}
	return append([]string{graph.NodeKey(n.ID)}, m.edgesOf[n.ID]...)
}

func (m *BrowseModel) hover(on bool) {
	for _, k := range m.keys() {
		if on {
			m.Ctrl.PointerEnter(k)
		} else {
			m.Ctrl.PointerLeave(k)
		}
	}
}

func (m *BrowseModel) move(delta int) {
	next := m.Cursor + delta
	if next < 0 || next >= len(m.byRow) {
		return
	}
	m.hover(false)
	m.Cursor = next
	m.hover(true)
	m.scroll()
}

func (m *BrowseModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m *BrowseModel) toggle() {
	n, ok := m.current()
	if !ok {
		return
	}
	s := visual.Selected
	if m.Ctrl.State(graph.NodeKey(n.ID)) == visual.Selected {
		s = visual.Default
	}
	m.apply(s)
	// Persisting a state drops hover; the cursor is still here.
	m.hover(true)
}

func (m *BrowseModel) apply(s visual.State) {
	for _, k := range m.keys() {
		m.Ctrl.SetState(k, s)
	}
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Commit Lanes"))
	b.WriteString("\n")
	b.WriteString(browseDimStyle.Render("↑/↓ move  ⏎ select  h highlight  r reset  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Layout.Rows))
	for r := m.Offset; r < end; r++ {
		b.WriteString(m.line(r))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(browseDimStyle.Render(fmt.Sprintf("  [%d/%d] %d lanes · %d selected",
		m.Cursor+1, len(m.Layout.Rows), m.Layout.Lanes, len(m.Ctrl.Selected()))))
	return b.String()
}

// line draws row r: the cursor, one glyph per lane and the commit ID.
func (m BrowseModel) line(r int) string {
	var b strings.Builder
	if r == m.Cursor {
		b.WriteString(browseCursorStyle.Render("▸ "))
	} else {
		b.WriteString("  ")
	}

	var node graph.Node
	if i := m.byRow[r]; i >= 0 {
		node = m.Layout.Nodes[i]
	}

	for lane, occupant := range m.Layout.Rows[r] {
		switch {
		case node.ID != "" && lane == node.Lane:
			glyph := glyphCommit
			if node.IsMerge() {
				glyph = glyphMerge
			}
			b.WriteString(m.styled(node, glyph))
		case occupant != "":
			b.WriteString(m.laneStyle(occupant).Render(glyphLane))
		default:
			b.WriteString(glyphFree)
		}
		b.WriteString(" ")
	}

	if node.ID != "" {
		id := node.ShortID()
		if r == m.Cursor {
			b.WriteString(browseCursorStyle.Render(id))
		} else {
			b.WriteString(browseIDStyle.Render(id))
		}
		if state := m.stateLabel(graph.NodeKey(node.ID)); state != "" {
			b.WriteString(" " + browseDimStyle.Render(state))
		}
	}
	return b.String()
}

// styled renders glyph in the commit's current color, bold when its stroke
// is wider than at rest.
func (m BrowseModel) styled(n graph.Node, glyph string) string {
	s := m.Ctrl.Style(graph.NodeKey(n.ID))
	st := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color))
	if s.Width > m.Ctrl.Base(n.Color).Width {
		st = st.Bold(true)
	}
	return st.Render(glyph)
}

func (m BrowseModel) laneStyle(owner string) lipgloss.Style {
	if i, ok := m.byID[owner]; ok {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(m.Layout.Nodes[i].Color))
	}
	return browseDimStyle
}

func (m BrowseModel) stateLabel(key string) string {
	if m.Ctrl.Highlighted(key) {
		return visual.Highlight.String()
	}
	if s := m.Ctrl.State(key); s != visual.Default {
		return s.String()
	}
	return ""
}
