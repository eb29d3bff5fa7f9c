package fedreg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// Node is one element or text run of a parsed Federal Register document.
type Node struct {
	Type     NodeType
	Name     string
	Attrs    []xml.Attr
	Children []*Node
	Text     string
}

func Element(name string, attrs map[string]string, children ...*Node) *Node {
	n := &Node{Type: ElementNode, Name: name, Children: children}
	for k, v := range attrs {
		n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Local: k}, Value: v})
	}
	return n
}

func Text(s string) *Node {
	return &Node{Type: TextNode, Text: s}
}

// Attr looks up an attribute by local name, ignoring case.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value, true
		}
	}
	return "", false
}

// Find returns the first descendant element with the given name in document order.
func (n *Node) Find(name string) *Node {
	for _, child := range n.Children {
		if child.Type != ElementNode {
			continue
		}
		if strings.EqualFold(child.Name, name) {
			return child
		}
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Parse builds a document tree from XML and returns its root element.
func Parse(data []byte) (*Node, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Entity = xml.HTMLEntity
	decoder.CharsetReader = charsetReader

	var root *Node
	var stack []*Node

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse XML: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			node := &Node{Type: ElementNode, Name: t.Name.Local, Attrs: t.Copy().Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("failed to parse XML: multiple root elements")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, Text(string(t)))
		}
	}

	if root == nil {
		return nil, errors.New("failed to parse XML: no root element")
	}

	return root, nil
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}
