package tools

import (
	"fmt"
	"io"
	"sort"

	md "github.com/russross/blackfriday/v2"

	"github.com/fcmkit/fcm/machine"
)

// HTML writes an HTML table of m's states and transitions to w, one
// row per (state, interface, message) -> nextState entry, grouped by
// state in declaration order, with wildcard-state transitions last.
// doc, if non-empty, is rendered above the
// table as Markdown.
//
// Grounded on tools/spec-html.go's RenderSpecHTML, generalized from a
// sheens Spec's nodes/branches to a machine.Functional's
// states/transitions.
func HTML(m *machine.Functional, name, doc string, w io.Writer) error {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(w, format+"\n", args...)
	}

	f(`<div class="componentName"><h1>%s</h1></div>`, name)
	if doc != "" {
		f(`<div class="doc">%s</div>`, md.Run([]byte(doc)))
	}

	byState := map[string][]machine.Edge{}
	for _, e := range m.Edges() {
		byState[e.State] = append(byState[e.State], e)
	}

	f(`<table class="transitions"><thead><tr><th>State</th><th>Interface</th><th>Message</th><th>Next</th><th>Action</th></tr></thead><tbody>`)
	states := m.States()
	if _, have := byState[machine.WildcardState]; have {
		states = append(append([]string{}, states...), machine.WildcardState)
	}
	for _, state := range states {
		edges := byState[state]
		sort.Slice(edges, func(i, j int) bool {
			return edges[i].Interface+":"+edges[i].Message < edges[j].Interface+":"+edges[j].Message
		})
		for i, e := range edges {
			stateCell := ""
			if i == 0 {
				stateCell = fmt.Sprintf(`<span id="%s">%s</span>`, state, state)
			}
			action := ""
			if e.HasAction {
				action = "yes"
			}
			f(`<tr><td>%s</td><td>%s</td><td>%s</td><td><a href="#%s">%s</a></td><td>%s</td></tr>`,
				stateCell, e.Interface, e.Message, displayState(e.NextState), displayState(e.NextState), action)
		}
		if len(edges) == 0 {
			f(`<tr><td><span id="%s">%s</span></td><td colspan="4"><em>no transitions</em></td></tr>`, state, state)
		}
	}
	f(`</tbody></table>`)

	return nil
}
