package tools

// dot -Tpng g.dot > g.png

import (
	"fmt"
	"io"
	"sort"

	"github.com/fcmkit/fcm/machine"
)

// Dot writes a Graphviz dot rendering of m's transition table to w.
// fromState and toState, if non-empty, highlight one transition (the
// edge just taken) in red.
//
// Grounded on tools/dot.go, generalized from a sheens Spec's
// Nodes/Branches to a machine.Functional's States/Edges.
func Dot(m *machine.Functional, w io.Writer, fromState, toState string) error {
	fmt.Fprintf(w, "digraph G {\n")
	fmt.Fprintf(w, "  graph [ordering=out,rankdir=TB,nodesep=0.3,ranksep=0.6]\n")
	fmt.Fprintf(w, "  node [shape=\"record\" style=\"rounded,filled\"]\n")
	fmt.Fprintf(w, "  edge [fontsize=\"12\"]\n")

	for _, state := range m.States() {
		fillcolor := "#99ddc8"
		if isChoicePoint(m, state) {
			fillcolor = "#2d93ad"
		}
		fmt.Fprintf(w, "  %q [fillcolor=%q]\n", state, fillcolor)
	}

	edges := m.Edges()
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].State != edges[j].State {
			return edges[i].State < edges[j].State
		}
		return edges[i].Interface+":"+edges[i].Message < edges[j].Interface+":"+edges[j].Message
	})

	for _, e := range edges {
		color := "black"
		if e.State == fromState && e.NextState == toState {
			color = "red"
		}
		label := e.Interface + ":" + e.Message
		if e.HasAction {
			label += "\\n(action)"
		}
		fmt.Fprintf(w, "  %q -> %q [color=%q label=%q]\n", e.State, displayState(e.NextState), color, label)
	}

	fmt.Fprintf(w, "}\n")
	return nil
}

func displayState(next string) string {
	if next == machine.HistoryState {
		return "H"
	}
	return next
}

func isChoicePoint(m *machine.Functional, state string) bool {
	for _, e := range m.Edges() {
		if e.State == state && e.IsChoice {
			return true
		}
	}
	return false
}
