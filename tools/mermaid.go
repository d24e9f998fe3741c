/* Copyright 2018 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package tools

import (
	"fmt"
	"io"
	"sort"

	"github.com/fcmkit/fcm/machine"
)

// MermaidOpts controls Mermaid's rendering.
type MermaidOpts struct {
	// ActionFill is the fill color for states that have an outgoing
	// transition with an action.
	ActionFill string `json:"actionFill,omitempty"`
}

// Mermaid writes a Mermaid (https://mermaidjs.github.io/) graph
// definition for m's transition table to w.
//
// Grounded on tools/mermaid.go, generalized the same way Dot is.
func Mermaid(m *machine.Functional, w io.Writer, opts *MermaidOpts) error {
	if opts == nil {
		opts = &MermaidOpts{ActionFill: "#bcf2db"}
	}

	fmt.Fprintf(w, "graph TB\n")

	nids := make(map[string]string)
	num := 0
	nodeID := func(state string) string {
		if id, have := nids[state]; have {
			return id
		}
		num++
		id := fmt.Sprintf("n%d", num)
		nids[state] = id
		fmt.Fprintf(w, "  %s(\"%s\")\n", id, state)
		return id
	}

	for _, state := range m.States() {
		nodeID(state)
	}

	edges := m.Edges()
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].State != edges[j].State {
			return edges[i].State < edges[j].State
		}
		return edges[i].Interface+":"+edges[i].Message < edges[j].Interface+":"+edges[j].Message
	})

	for _, e := range edges {
		from := nodeID(e.State)
		to := nodeID(displayState(e.NextState))
		label := e.Interface + ":" + e.Message
		fmt.Fprintf(w, "  %s -- \"%s\" --> %s\n", from, label, to)
		if e.HasAction && opts.ActionFill != "" {
			fmt.Fprintf(w, "  style %s fill:%s\n", from, opts.ActionFill)
		}
	}

	return nil
}
