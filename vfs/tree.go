package vfs

import "strings"

// Entry is one row of a directory listing.
type Entry struct {
	Name   string `json:"name"`
	Hidden bool   `json:"hidden"`
	Type   Kind   `json:"type"`
}

// NodeInfo describes a looked-up node. Items is set for directories (sorted
// by name), Contents for files.
type NodeInfo struct {
	Type     Kind
	Items    []Entry
	Contents string
}

// Tree is the in-memory filesystem. It is not safe for concurrent use: a
// session applies one command at a time.
type Tree struct {
	root *Node
}

func NewTree() *Tree {
	return &Tree{root: NewDirectory()}
}

// NewTreeFrom wraps an existing directory node as a tree root.
func NewTreeFrom(root *Node) *Tree {
	if root == nil || !root.IsDir() {
		root = NewDirectory()
	}
	return &Tree{root: root}
}

func (t *Tree) Root() *Node { return t.root }

// Clone deep-copies the tree so a session can mutate it without touching the
// snapshot it was seeded from.
func (t *Tree) Clone() *Tree {
	return &Tree{root: t.root.Clone()}
}

// Node returns the node at p. An empty name addresses the parent directory
// itself.
func (t *Tree) Node(p ParsedPath) (*Node, bool) {
	dir, ok := t.dir(p.Parent)
	if !ok {
		return nil, false
	}
	if p.Name == "" {
		return dir, true
	}
	return dir.Child(p.Name)
}

// Lookup classifies the node at p and returns its listing or contents.
func (t *Tree) Lookup(p ParsedPath) (*NodeInfo, bool) {
	n, ok := t.Node(p)
	if !ok {
		return nil, false
	}
	if !n.IsDir() {
		return &NodeInfo{Type: KindFile, Contents: n.Content()}, true
	}
	return &NodeInfo{Type: KindDirectory, Items: List(n)}, true
}

// List returns the entries of dir sorted by name.
func List(dir *Node) []Entry {
	names := dir.Names()
	items := make([]Entry, 0, len(names))
	for _, name := range names {
		child := dir.children[name]
		items = append(items, Entry{
			Name:   name,
			Hidden: strings.HasPrefix(name, "."),
			Type:   child.Kind(),
		})
	}
	return items
}

// Write stores n as p.Name inside p.Parent, replacing whatever was there. The
// parent must already exist; missing ancestors are never created. It reports
// whether the tree changed.
func (t *Tree) Write(p ParsedPath, n *Node) bool {
	if p.Name == "" || n == nil {
		return false
	}
	dir, ok := t.dir(p.Parent)
	if !ok {
		return false
	}
	dir.set(p.Name, n)
	return true
}

// Remove deletes p.Name from p.Parent together with its whole subtree.
func (t *Tree) Remove(p ParsedPath) bool {
	if p.Name == "" {
		return false
	}
	dir, ok := t.dir(p.Parent)
	if !ok {
		return false
	}
	if _, ok := dir.Child(p.Name); !ok {
		return false
	}
	dir.remove(p.Name)
	return true
}

// EnsureHome creates the profile's home directory, and any missing parent,
// unless a file is in the way.
func (t *Tree) EnsureHome(profile string) {
	dir := t.root
	for _, seg := range Segments(HomeDir(profile)) {
		next, ok := dir.Child(seg)
		if !ok {
			next = NewDirectory()
			dir.set(seg, next)
		}
		if !next.IsDir() {
			return
		}
		dir = next
	}
}

// dir walks parent segment by segment using exact names.
func (t *Tree) dir(parent string) (*Node, bool) {
	cur := t.root
	for _, seg := range Segments(parent) {
		next, ok := cur.Child(seg)
		if !ok || !next.IsDir() {
			return nil, false
		}
		cur = next
	}
	return cur, true
}
