package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phroun/flatmenu"
	"github.com/phroun/flatmenu/layout"
	"github.com/phroun/flatmenu/menutree"
)

// REPL holds the state of the interactive session
type REPL struct {
	tree   *menutree.Tree
	proxy  *flatmenu.Proxy
	reader *bufio.Reader
	out    io.Writer
}

func runREPL(cmd *cobra.Command, args []string) error {
	fmt.Println("flatmenu REPL - edit a menu tree, watch its flat rows")
	fmt.Println("Type 'help' for available commands, 'quit' to exit")
	fmt.Println()

	r := newREPL(os.Stdin, os.Stdout)
	defer r.proxy.Close()
	r.run("flatmenu> ")
	return nil
}

func newREPL(in io.Reader, out io.Writer) *REPL {
	tree := menutree.New(menutree.WithLogger(logger.Named("tree")))
	r := &REPL{
		tree:   tree,
		reader: bufio.NewReader(in),
		out:    out,
	}
	r.proxy = flatmenu.New(tree,
		flatmenu.WithLogger(logger.Named("proxy")),
		flatmenu.WithMetrics(metrics),
	)
	r.proxy.AddListener(printer{out})
	return r
}

// run reads commands until quit or end of input.
func (r *REPL) run(prompt string) {
	for {
		fmt.Fprint(r.out, prompt)
		input, err := r.reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input != "" && !r.handleCommand(input) {
			return
		}
		if err != nil {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
	}
}

func (r *REPL) handleCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help":
		r.printHelp()

	case "quit", "exit":
		fmt.Fprintln(r.out, "Goodbye!")
		return false

	case "add":
		r.cmdAdd(args)

	case "insert":
		r.cmdInsert(args)

	case "remove":
		r.cmdRemove(args)

	case "reset":
		r.cmdReset(args)

	case "load":
		r.cmdLoad(args)

	case "list", "ls":
		r.cmdList()

	case "get":
		r.cmdGet(args)

	case "path":
		r.cmdPath(args)

	case "index":
		r.cmdIndex(args)

	case "count":
		fmt.Fprintf(r.out, "%d rows\n", r.proxy.Count())

	case "verify":
		r.cmdVerify()

	default:
		if guess := suggest(cmd); guess != "" {
			fmt.Fprintf(r.out, "Unknown command: %s. Did you mean '%s'?\n", cmd, guess)
			break
		}
		fmt.Fprintf(r.out, "Unknown command: %s. Type 'help' for available commands.\n", cmd)
	}

	return true
}

// commands in suggestion order: earlier entries win ties.
var commands = []string{
	"list", "ls", "get", "path", "index", "count", "verify",
	"add", "insert", "remove", "reset", "load", "help", "quit", "exit",
}

// suggest returns the command closest to a mistyped one, or "".
func suggest(cmd string) string {
	best, bestDist := "", 3
	for _, c := range commands {
		if d := levenshtein.ComputeDistance(cmd, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func (r *REPL) printHelp() {
	help := `
Available Commands:
-------------------

Parents and nodes are given as dotted paths ("0.2"); "/" is the root.
Items are written as "Label" or "Label:Child,Child" to insert a subtree.

TREE EDITS:
  add <parent> <item>...            Append items under parent
  insert <parent> <row> <item>...   Insert items under parent at row
  remove <parent> <first> [last]    Remove rows first..last of parent
  reset [item...]                   Replace the whole tree
  load <file> [menu]                Sync the tree with a layout file menu

FLAT VIEW:
  list                              Show every flat row
  count                             Show the number of flat rows
  get <index>                       Show the attributes of a flat row
  path <index>                      Show the dotted path of a flat row
  index <path>                      Show the flat rows a node occupies
  verify                            Check the projection against the tree

OTHER:
  help                              Show this help message
  quit, exit                        Exit the REPL
`
	fmt.Fprintln(r.out, help)
}

// parseItem builds an item from "Label" or "Label:Child,Child".
func parseItem(spec string) *menutree.Item {
	label, rest, _ := strings.Cut(spec, ":")
	it := menutree.NewItem(label)
	for _, child := range strings.Split(rest, ",") {
		if child != "" {
			it.Add(menutree.NewItem(child))
		}
	}
	return it
}

func parseItems(specs []string) []*menutree.Item {
	items := make([]*menutree.Item, len(specs))
	for i, spec := range specs {
		items[i] = parseItem(spec)
	}
	return items
}

// parent resolves a dotted path to an item; the empty path is the root.
func (r *REPL) parent(s string) (*menutree.Item, error) {
	p, err := flatmenu.ParsePath(s)
	if err != nil {
		return nil, err
	}
	if len(p) == 0 {
		return nil, nil
	}
	it := r.tree.ItemAt(p)
	if it == nil {
		return nil, fmt.Errorf("no item at %s", p)
	}
	return it, nil
}

func (r *REPL) cmdAdd(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(r.out, "Usage: add <parent> <item>...")
		return
	}
	parent, err := r.parent(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	if err := r.tree.Append(parent, parseItems(args[1:])...); err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
	}
}

func (r *REPL) cmdInsert(args []string) {
	if len(args) < 3 {
		fmt.Fprintln(r.out, "Usage: insert <parent> <row> <item>...")
		return
	}
	parent, err := r.parent(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	row, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(r.out, "Invalid row: %v\n", err)
		return
	}
	if err := r.tree.Insert(parent, row, parseItems(args[2:])...); err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
	}
}

func (r *REPL) cmdRemove(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(r.out, "Usage: remove <parent> <first> [last]")
		return
	}
	parent, err := r.parent(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	first, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(r.out, "Invalid row: %v\n", err)
		return
	}
	last := first
	if len(args) > 2 {
		if last, err = strconv.Atoi(args[2]); err != nil {
			fmt.Fprintf(r.out, "Invalid row: %v\n", err)
			return
		}
	}
	removed, err := r.tree.Remove(parent, first, last)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "Removed %d item(s)\n", len(removed))
}

func (r *REPL) cmdReset(args []string) {
	if err := r.tree.Replace(parseItems(args)...); err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
	}
}

func (r *REPL) cmdLoad(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(r.out, "Usage: load <file> [menu]")
		return
	}
	menu := cfg.Layout.Menu
	if len(args) > 1 {
		menu = args[1]
	}
	if menu == "" {
		menu = "main"
	}

	doc, err := layout.LoadFile(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	items, err := doc.Menu(menu)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v (menus: %s)\n", err, strings.Join(doc.Names(), ", "))
		return
	}
	if err := r.tree.Sync(items...); err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	logger.Debug("layout loaded", zap.String("file", args[0]), zap.String("menu", menu))
	fmt.Fprintf(r.out, "Loaded menu %q: %d rows\n", menu, r.proxy.Count())
}

func (r *REPL) cmdList() {
	if r.proxy.Count() == 0 {
		fmt.Fprintln(r.out, "(empty)")
		return
	}
	for i := 0; i < r.proxy.Count(); i++ {
		path, _ := r.proxy.Path(i)
		item := r.proxy.Item(i)
		label, _ := item[menutree.AttrLabel].(string)
		line := fmt.Sprintf("%4d  %-10s %s%s", i, path, indent(path), label)
		if enabled, ok := item[menutree.AttrEnabled].(bool); ok && !enabled {
			line += " (disabled)"
		}
		fmt.Fprintln(r.out, line)
	}
}

func (r *REPL) index(args []string) (int, bool) {
	if len(args) < 1 {
		fmt.Fprintln(r.out, "Usage: <command> <index>")
		return 0, false
	}
	i, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "Invalid index: %v\n", err)
		return 0, false
	}
	if i < 0 || i >= r.proxy.Count() {
		fmt.Fprintf(r.out, "Index %d out of range [0, %d)\n", i, r.proxy.Count())
		return 0, false
	}
	return i, true
}

func (r *REPL) cmdGet(args []string) {
	i, ok := r.index(args)
	if !ok {
		return
	}
	item := r.proxy.Item(i)
	keys := make([]string, 0, len(item))
	for k := range item {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(r.out, "  %-8s %v\n", k+":", item[k])
	}
}

func (r *REPL) cmdPath(args []string) {
	i, ok := r.index(args)
	if !ok {
		return
	}
	path, _ := r.proxy.Path(i)
	fmt.Fprintln(r.out, path)
}

func (r *REPL) cmdIndex(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(r.out, "Usage: index <path>")
		return
	}
	it, err := r.parent(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	if it == nil {
		fmt.Fprintln(r.out, "The root has no flat row")
		return
	}
	fmt.Fprintf(r.out, "%s occupies rows %d..%d\n",
		args[0], r.proxy.FlatIndexOf(it), r.proxy.LastFlatIndexOf(it))
}

func (r *REPL) cmdVerify() {
	if err := r.proxy.Verify(); err != nil {
		fmt.Fprintf(r.out, "FAILED: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "OK: %d rows, %d cached paths\n", r.proxy.Count(), r.proxy.CachedPaths())
}

// printer writes every flat notification as it arrives.
type printer struct {
	out io.Writer
}

func (p printer) print(c flatmenu.Change) { fmt.Fprintf(p.out, "  ~ %s\n", c) }

func (p printer) BeginInsert(first, last int) {
	p.print(flatmenu.Change{Kind: flatmenu.BeginInsert, First: first, Last: last})
}
func (p printer) EndInsert() { p.print(flatmenu.Change{Kind: flatmenu.EndInsert}) }
func (p printer) BeginRemove(first, last int) {
	p.print(flatmenu.Change{Kind: flatmenu.BeginRemove, First: first, Last: last})
}
func (p printer) EndRemove()  { p.print(flatmenu.Change{Kind: flatmenu.EndRemove}) }
func (p printer) BeginReset() { p.print(flatmenu.Change{Kind: flatmenu.BeginReset}) }
func (p printer) EndReset()   { p.print(flatmenu.Change{Kind: flatmenu.EndReset}) }
func (p printer) CountChanged(count int) {
	p.print(flatmenu.Change{Kind: flatmenu.CountChanged, Count: count})
}
