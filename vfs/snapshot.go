package vfs

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed snapshot.yaml
var defaultSnapshot []byte

// DefaultSnapshot returns a fresh copy of the built-in seed tree.
func DefaultSnapshot() *Tree {
	t, err := LoadSnapshot(bytes.NewReader(defaultSnapshot))
	if err != nil {
		panic(fmt.Sprintf("vfs: embedded snapshot: %v", err))
	}
	return t
}

// LoadSnapshotFile reads a seed tree from a YAML or JSON file.
func LoadSnapshotFile(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	return LoadSnapshot(f)
}

// LoadSnapshot decodes a nested name -> (mapping | leaf) document. Mappings
// become directories, including empty ones. Every other value becomes a file:
// strings verbatim, booleans and null as zero-byte files, sequences one item
// per line, other scalars in their printed form.
func LoadSnapshot(r io.Reader) (*Tree, error) {
	var doc any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return NewTree(), nil
		}
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if doc == nil {
		return NewTree(), nil
	}

	root := toNode(doc)
	if !root.IsDir() {
		return nil, fmt.Errorf("decode snapshot: top level must be a mapping, got %T", doc)
	}
	return NewTreeFrom(root), nil
}

func toNode(v any) *Node {
	switch v := v.(type) {
	case map[string]any:
		dir := NewDirectory()
		for name, child := range v {
			dir.set(name, toNode(child))
		}
		return dir
	case map[any]any:
		dir := NewDirectory()
		for name, child := range v {
			dir.set(fmt.Sprint(name), toNode(child))
		}
		return dir
	case nil, bool:
		return NewFile("")
	case string:
		return NewFile(v)
	case []any:
		lines := make([]string, 0, len(v))
		for _, item := range v {
			lines = append(lines, fmt.Sprint(item))
		}
		return NewFile(strings.Join(lines, "\n"))
	default:
		return NewFile(fmt.Sprint(v))
	}
}

// WriteSnapshot encodes the tree as YAML with keys in name order.
func (t *Tree) WriteSnapshot(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toYAML(t.root)); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return enc.Close()
}

func toYAML(n *Node) *yaml.Node {
	if !n.IsDir() {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.Content()}
	}
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m.Content = append(m.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			toYAML(n.children[name]),
		)
	}
	return m
}
