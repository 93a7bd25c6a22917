package exprlang

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/joshuapare/dryad"
	"github.com/joshuapare/dryad/arena"
	"github.com/joshuapare/dryad/symbol"
)

// DumpOptions controls Dump.
type DumpOptions struct {
	// Events prefixes every line with its traversal event and prints exit
	// events too.
	Events bool

	// Indent is repeated once per depth level. Empty selects two spaces.
	Indent string
}

// Label describes n on one line: its kind followed by its data.
func (u *Unit) Label(n dryad.Node[Kind]) string {
	switch x := n.(type) {
	case *Program:
		return fmt.Sprintf("Program (%d statements)", x.Len())
	case *Let:
		return "Let " + u.Symbols.Text(x.Name)
	case *LetIn:
		return "LetIn " + u.Symbols.Text(x.Name)
	case *Number:
		return fmt.Sprintf("Number %d", x.Value)
	case *Name:
		return "Name " + u.Symbols.Text(x.Sym)
	case *Binary:
		return "Binary " + x.Op.String()
	case *Call:
		return fmt.Sprintf("Call %s/%d", u.Symbols.Text(x.Fn), x.Len())
	case *Group:
		if !x.HasChild() {
			return "Group ()"
		}
	}
	return n.Kind().String()
}

// Dump writes the tree of u, one node per line, indented by depth.
func Dump(w io.Writer, u *Unit, opts DumpOptions) error {
	indent := opts.Indent
	if indent == "" {
		indent = "  "
	}
	bw := bufio.NewWriter(w)
	depth := 0
	for ev, n := range dryad.Traverse[Kind](u.Program) {
		if ev == dryad.EventExit {
			depth--
			if !opts.Events {
				continue
			}
		}
		bw.WriteString(strings.Repeat(indent, depth))
		if opts.Events {
			fmt.Fprintf(bw, "%-5s ", ev)
		}
		bw.WriteString(u.Label(n))
		bw.WriteByte('\n')
		if ev == dryad.EventEnter {
			depth++
		}
	}
	return bw.Flush()
}

// Stats gathers the memory and structure figures of a unit.
type Stats struct {
	Nodes   map[string]int `json:"nodes"`
	Total   int            `json:"total_nodes"`
	Arena   arena.Stats    `json:"arena"`
	Symbols symbol.Stats   `json:"symbols"`
	CSE     CSEReport      `json:"cse"`
}

// CollectStats counts the nodes of u by kind and reports the usage of its
// arena and interner along with a CSE report.
func CollectStats(u *Unit) Stats {
	st := Stats{Nodes: make(map[string]int)}
	dryad.VisitTree[Kind](u.Program, dryad.OnAny(func(n dryad.Node[Kind]) {
		st.Nodes[n.Kind().String()]++
		st.Total++
	}))
	st.Arena = u.Tree.Arena().Stats()
	st.Symbols = u.Symbols.Stats()
	st.CSE = CSE(u, dryad.DefaultTableOptions())
	return st
}
