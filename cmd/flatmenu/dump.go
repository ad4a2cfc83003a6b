package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/phroun/flatmenu"
	"github.com/phroun/flatmenu/layout"
	"github.com/phroun/flatmenu/menutree"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	indexStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true)
	actionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("109"))
)

func runDump(cmd *cobra.Command, args []string) error {
	path, menu, err := layoutArgs(args)
	if err != nil {
		return err
	}

	src := layout.NewSource(path, menu, layout.WithLogger(logger.Named("layout")))
	if err := src.Reload(); err != nil {
		return err
	}
	p := flatmenu.New(src, flatmenu.WithLogger(logger.Named("proxy")), flatmenu.WithMetrics(metrics))
	defer p.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s [%s] - %d rows", path, menu, p.Count())))
	dumpRows(out, p)
	return nil
}

// indent returns two spaces per level below the top; rows without a path
// get none.
func indent(path flatmenu.Path) string {
	if len(path) < 2 {
		return ""
	}
	return strings.Repeat("  ", len(path)-1)
}

// dumpRows writes one line per flat row: index, dotted path and the label
// indented by depth.
func dumpRows(w io.Writer, p *flatmenu.Proxy) {
	for i := 0; i < p.Count(); i++ {
		path, _ := p.Path(i)
		item := p.Item(i)

		label, _ := item[menutree.AttrLabel].(string)
		label = indent(path) + label
		if enabled, ok := item[menutree.AttrEnabled].(bool); ok && !enabled {
			label = disabledStyle.Render(label)
		}
		if action, _ := item[menutree.AttrAction].(string); action != "" {
			label += "  " + actionStyle.Render(action)
		}

		fmt.Fprintf(w, "%s %-10s %s\n", indexStyle.Render(fmt.Sprintf("%4d", i)), path, label)
	}
}
