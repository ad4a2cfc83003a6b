package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phroun/flatmenu"
	"github.com/phroun/flatmenu/layout"
	"github.com/phroun/flatmenu/menutree"
)

var (
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true)
	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 1)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// reloadMsg reports a change of the layout file on disk.
type reloadMsg struct {
	op fsnotify.Op
}

// selection keeps the cursor on the row it was on while rows are inserted
// and removed around it.
type selection struct {
	proxy  *flatmenu.Proxy
	cursor int
}

func (s *selection) BeginInsert(first, last int) {
	if s.proxy.Count() > 0 && s.cursor >= first {
		s.cursor += last - first + 1
	}
}

func (s *selection) EndInsert() {}

func (s *selection) BeginRemove(first, last int) {
	switch {
	case s.cursor > last:
		s.cursor -= last - first + 1
	case s.cursor >= first:
		s.cursor = first
	}
}

func (s *selection) EndRemove()             { s.clamp() }
func (s *selection) BeginReset()            {}
func (s *selection) EndReset()              { s.clamp() }
func (s *selection) CountChanged(count int) { s.clamp() }

func (s *selection) clamp() {
	if s.cursor >= s.proxy.Count() {
		s.cursor = s.proxy.Count() - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *selection) move(delta int) {
	s.cursor += delta
	s.clamp()
}

type viewModel struct {
	src    *layout.Source
	proxy  *flatmenu.Proxy
	sel    *selection
	offset int
	width  int
	height int
	status string
	err    error
}

func newViewModel(src *layout.Source, proxy *flatmenu.Proxy) viewModel {
	sel := &selection{proxy: proxy}
	proxy.AddListener(sel)
	return viewModel{src: src, proxy: proxy, sel: sel, height: 24}
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

// rows is the number of list lines that fit between title and status bar.
func (m viewModel) rows() int {
	if m.height < 3 {
		return 1
	}
	return m.height - 2
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case reloadMsg:
		m.err = m.src.Reload()
		m.status = fmt.Sprintf("file %s", strings.ToLower(msg.op.String()))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			m.sel.move(-1)
		case "down", "j":
			m.sel.move(1)
		case "pgup":
			m.sel.move(-m.rows())
		case "pgdown", " ":
			m.sel.move(m.rows())
		case "home", "g":
			m.sel.move(-m.proxy.Count())
		case "end", "G":
			m.sel.move(m.proxy.Count())
		case "r":
			m.err = m.src.Reload()
			m.status = "reloaded"
		}
	}

	m.scroll()
	return m, nil
}

// scroll moves the window so the cursor stays visible.
func (m *viewModel) scroll() {
	rows := m.rows()
	if m.sel.cursor < m.offset {
		m.offset = m.sel.cursor
	}
	if m.sel.cursor >= m.offset+rows {
		m.offset = m.sel.cursor - rows + 1
	}
	if last := m.proxy.Count() - rows; m.offset > last {
		m.offset = last
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m viewModel) View() string {
	var b strings.Builder

	title := fmt.Sprintf("%s [%s]", m.src.ObjectPath(), m.src.BusName())
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	rows := m.rows()
	for i := m.offset; i < m.offset+rows; i++ {
		if i >= m.proxy.Count() {
			b.WriteString("\n")
			continue
		}
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}

	status := fmt.Sprintf("%d/%d  %s", m.sel.cursor+1, m.proxy.Count(), m.src.Status())
	if m.status != "" {
		status += "  " + m.status
	}
	if m.err != nil {
		status += "  " + errorStyle.Render(m.err.Error())
	}
	b.WriteString(statusBarStyle.Render(status + "  (q quit, r reload)"))
	return b.String()
}

func (m viewModel) renderRow(i int) string {
	path, _ := m.proxy.Path(i)
	item := m.proxy.Item(i)

	label, _ := item[menutree.AttrLabel].(string)
	line := indent(path) + label
	if action, _ := item[menutree.AttrAction].(string); action != "" {
		line += "  " + actionStyle.Render(action)
	}

	enabled, _ := item[menutree.AttrEnabled].(bool)
	switch {
	case i == m.sel.cursor:
		return selectedStyle.Render("> " + line)
	case !enabled:
		return disabledStyle.Render("  " + line)
	default:
		return "  " + line
	}
}

func runView(cmd *cobra.Command, args []string) error {
	path, menu, err := layoutArgs(args)
	if err != nil {
		return err
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("view needs a terminal, use dump instead")
	}

	// The program owns the tree: file changes are handed to it as messages
	// and reloaded from its update loop.
	var prog *tea.Program
	src := layout.NewSource(path, menu,
		layout.WithLogger(logger.Named("layout")),
		layout.WithChangeHandler(func(_ *layout.Source, op fsnotify.Op) {
			prog.Send(reloadMsg{op: op})
		}),
	)
	proxy := flatmenu.New(src, flatmenu.WithLogger(logger.Named("proxy")), flatmenu.WithMetrics(metrics))
	defer proxy.Close()

	prog = tea.NewProgram(newViewModel(src, proxy), tea.WithAltScreen())
	if err := src.Start(); err != nil {
		return err
	}
	defer func() {
		if err := src.Stop(); err != nil {
			logger.Warn("stop layout source", zap.Error(err))
		}
	}()

	_, err = prog.Run()
	return err
}
