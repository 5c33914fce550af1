// Copyright 2026 © The Screenplay Authors
// SPDX-License-Identifier: Apache-2.0

package narration

// record is a buffered emit. level is the open-scope depth at emit time;
// failure receives the error fn returned, if any.
type record struct {
	entry   Entry
	fn      Func
	level   int
	failure *error
}

type node struct {
	record
	children []*node
}

// KinkTheCable starts buffering emits. The returned func releases the kink:
// a nested kink hands its records to the enclosing one, the outermost
// replays them to the adapters with their original nesting and reports
// the errors the buffered scopes failed with.
func (n *Narrator) KinkTheCable() (release func()) {
	n.backups = append(n.backups, nil)
	return once(n.flushBackup)
}

// CableKinked reports whether emits are currently buffered.
func (n *Narrator) CableKinked() bool {
	return len(n.backups) > 0
}

// ClearBackup discards the records of the innermost kink.
func (n *Narrator) ClearBackup() {
	if len(n.backups) == 0 {
		return
	}
	n.backups[len(n.backups)-1] = nil
}

func (n *Narrator) flushBackup() {
	if len(n.backups) == 0 {
		return
	}
	top := len(n.backups) - 1
	records := n.backups[top]
	n.backups = n.backups[:top]
	if len(n.backups) > 0 {
		parent := len(n.backups) - 1
		n.backups[parent] = append(n.backups[parent], records...)
		return
	}
	if !n.onAir {
		return
	}
	n.replay(buildTree(records))
}

func (n *Narrator) replay(nodes []*node) {
	for _, nd := range nodes {
		_, done := n.entangle(nd.entry, nd.fn)
		n.replay(nd.children)
		if nd.failure != nil && *nd.failure != nil {
			for _, a := range n.adapters {
				a.Error(*nd.failure)
			}
		}
		done()
	}
}

// buildTree rebuilds nesting from a flat record list in one pass. The
// stack holds the child lists along the current path; a record deeper than
// the stack descends into its predecessor, a shallower one pops back.
func buildTree(records []record) []*node {
	if len(records) == 0 {
		return nil
	}
	var roots []*node
	stack := []*[]*node{&roots}
	base := records[0].level
	for _, r := range records {
		depth := max(r.level-base+1, 1)
		for len(stack) > depth {
			stack = stack[:len(stack)-1]
		}
		for len(stack) < depth {
			siblings := *stack[len(stack)-1]
			if len(siblings) == 0 {
				break
			}
			last := siblings[len(siblings)-1]
			stack = append(stack, &last.children)
		}
		top := stack[len(stack)-1]
		*top = append(*top, &node{record: r})
	}
	return roots
}
