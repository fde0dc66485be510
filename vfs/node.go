package vfs

import (
	"sort"
	"strings"
)

// Kind tells a file apart from a directory.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

func (k Kind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "file"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Node is one entry of the tree. A file carries content, a directory carries
// children keyed by their stored (authoritative) name. The kind is fixed at
// construction.
type Node struct {
	kind     Kind
	content  string
	children map[string]*Node
}

func NewFile(content string) *Node {
	return &Node{kind: KindFile, content: content}
}

func NewDirectory() *Node {
	return &Node{kind: KindDirectory, children: make(map[string]*Node)}
}

func (n *Node) Kind() Kind { return n.kind }

func (n *Node) IsDir() bool { return n.kind == KindDirectory }

// Content returns the payload of a file, or "" for a directory.
func (n *Node) Content() string { return n.content }

// Size is the content length in bytes for files and the child count for
// directories.
func (n *Node) Size() int64 {
	if n.IsDir() {
		return int64(len(n.children))
	}
	return int64(len(n.content))
}

// Child returns the child stored under exactly name.
func (n *Node) Child(name string) (*Node, bool) {
	if !n.IsDir() {
		return nil, false
	}
	c, ok := n.children[name]
	return c, ok
}

// Names returns the stored child names sorted ascending.
func (n *Node) Names() []string {
	if !n.IsDir() {
		return nil
	}
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Match finds the child whose name equals segment ignoring case. An exact
// match wins; otherwise the first candidate in name order is returned.
func (n *Node) Match(segment string) (string, *Node, bool) {
	if !n.IsDir() {
		return "", nil, false
	}
	if c, ok := n.children[segment]; ok {
		return segment, c, true
	}
	for _, name := range n.Names() {
		if strings.EqualFold(name, segment) {
			return name, n.children[name], true
		}
	}
	return "", nil, false
}

func (n *Node) set(name string, child *Node) {
	n.children[name] = child
}

func (n *Node) remove(name string) {
	delete(n.children, name)
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *Node) Clone() *Node {
	if !n.IsDir() {
		return NewFile(n.content)
	}
	c := NewDirectory()
	for name, child := range n.children {
		c.children[name] = child.Clone()
	}
	return c
}
