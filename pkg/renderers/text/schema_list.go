package text

import (
	"sort"
	"strings"
)

// SchemaList renders schema identifiers as a tree grouped on their dotted
// segments, the way installed schemas are usually browsed:
//
//	org
//	  example
//	    editor
//	    terminal
func SchemaList(ids []string, indent string) string {
	if indent == "" {
		indent = defaultIndent
	}
	root := newListNode("")
	for _, id := range ids {
		node := root
		for _, seg := range strings.Split(id, ".") {
			if seg == "" {
				continue
			}
			node = node.child(seg)
		}
	}

	var b strings.Builder
	root.write(&b, indent, 0)
	return b.String()
}

type listNode struct {
	name     string
	children map[string]*listNode
}

func newListNode(name string) *listNode {
	return &listNode{name: name, children: map[string]*listNode{}}
}

func (n *listNode) child(name string) *listNode {
	if c, ok := n.children[name]; ok {
		return c
	}
	c := newListNode(name)
	n.children[name] = c
	return c
}

func (n *listNode) write(b *strings.Builder, indent string, depth int) {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for i := 0; i < depth; i++ {
			b.WriteString(indent)
		}
		b.WriteString(name)
		b.WriteByte('\n')
		n.children[name].write(b, indent, depth+1)
	}
}
