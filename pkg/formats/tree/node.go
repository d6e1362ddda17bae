// Package tree implements the serial encoder and decoder over an ordered
// in-memory value tree. The byte-level formats parse into and render from
// this tree, so field order on the wire is preserved end to end.
package tree

import "fmt"

// Kind identifies the type of a Node.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindMap
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Node is one value. Maps keep Keys and Items in parallel, in wire order;
// duplicate keys are kept as they appeared.
type Node struct {
	Kind  Kind
	Str   string
	Int   int64
	Float float64
	Bool  bool
	Keys  []string
	Items []*Node
}

// Pair is one key/value entry of a map node.
type Pair struct {
	Key   string
	Value *Node
}

func Null() *Node                { return &Node{Kind: KindNull} }
func String(s string) *Node      { return &Node{Kind: KindString, Str: s} }
func Int(i int64) *Node          { return &Node{Kind: KindInt, Int: i} }
func Float(f float64) *Node      { return &Node{Kind: KindFloat, Float: f} }
func Bool(b bool) *Node          { return &Node{Kind: KindBool, Bool: b} }
func P(key string, v *Node) Pair { return Pair{Key: key, Value: v} }

// Map builds a map node from pairs, keeping their order.
func Map(pairs ...Pair) *Node {
	n := &Node{Kind: KindMap, Keys: []string{}, Items: []*Node{}}
	for _, p := range pairs {
		n.Set(p.Key, p.Value)
	}
	return n
}

// List builds a list node.
func List(items ...*Node) *Node {
	if items == nil {
		items = []*Node{}
	}
	return &Node{Kind: KindList, Items: items}
}

// Set appends a key/value entry to a map node.
func (n *Node) Set(key string, v *Node) {
	n.Keys = append(n.Keys, key)
	n.Items = append(n.Items, v)
}

// Get returns the last value stored under key in a map node.
func (n *Node) Get(key string) (*Node, bool) {
	for i := len(n.Keys) - 1; i >= 0; i-- {
		if n.Keys[i] == key {
			return n.Items[i], true
		}
	}
	return nil, false
}

// Len returns the number of entries of a map or list node.
func (n *Node) Len() int {
	return len(n.Items)
}
