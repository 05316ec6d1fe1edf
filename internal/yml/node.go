// Package yml navigates decoded YAML nodes.
package yml

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type (
	Node yaml.Node
)

// Root decodes data and returns its top level node, unwrapping the document.
func Root(data []byte) (*Node, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	root := &node
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, fmt.Errorf("empty yaml document")
		}
		root = root.Content[0]
	}
	return (*Node)(root), nil
}

// IsMap reports whether n is a mapping node.
func (n *Node) IsMap() bool { return n != nil && n.Kind == yaml.MappingNode }

// Lookup returns the value of a mapping key, or nil.
func (n *Node) Lookup(name string) *Node {
	if !n.IsMap() {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == name {
			return (*Node)(n.Content[i+1])
		}
	}
	return nil
}

func (n *Node) Items(callback func(index int, node *Node) error) error {
	for i := 0; i < len(n.Content); i++ {
		if err := callback(i, (*Node)(n.Content[i])); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) Pairs(callback func(key string, node *Node) error) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := callback(n.Content[i].Value, (*Node)(n.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

// Decode decodes n into dest.
func (n *Node) Decode(dest interface{}) error {
	return (*yaml.Node)(n).Decode(dest)
}
