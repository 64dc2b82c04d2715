// Package svgdoc is a small SVG markup reader and writer.
// It keeps the document tree as it was written, exposing only what is needed
// to rewrite the geometry of an icon: reading and updating attributes and
// listing the drawable elements. Namespace prefixes, comments and processing
// instructions are preserved on output.
package svgdoc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Kind identifies the type of a node in the document tree.
type Kind int

const (
	ElementNode Kind = iota
	TextNode
	CommentNode
	ProcInstNode
	DirectiveNode
)

// Node is an element or a piece of character data in the document tree.
type Node struct {
	Kind     Kind
	Name     xml.Name // element name, Space holds the raw prefix
	Attr     []xml.Attr
	Target   string // processing instruction target
	Data     []byte
	Children []*Node
}

// Document is a parsed SVG file.
type Document struct {
	Nodes []*Node // top level nodes, in document order
	Root  *Node   // the outermost <svg> element
}

// Parse reads an SVG document from r.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	doc := &Document{}

	var stack []*Node
	appendNode := func(n *Node) {
		if len(stack) == 0 {
			doc.Nodes = append(doc.Nodes, n)
			return
		}
		top := stack[len(stack)-1]
		top.Children = append(top.Children, n)
	}

	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("svgdoc: %w", err)
		}

		switch t := xml.CopyToken(tok).(type) {
		case xml.StartElement:
			n := &Node{Kind: ElementNode, Name: t.Name, Attr: t.Attr}
			if len(stack) == 0 {
				if doc.Root != nil {
					return nil, fmt.Errorf("svgdoc: multiple root elements")
				}
				doc.Root = n
			}
			appendNode(n)
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("svgdoc: unexpected end element </%s>", qualified(t.Name))
			}
			top := stack[len(stack)-1]
			if top.Name != t.Name {
				return nil, fmt.Errorf("svgdoc: element <%s> closed by </%s>", qualified(top.Name), qualified(t.Name))
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			appendNode(&Node{Kind: TextNode, Data: t})
		case xml.Comment:
			appendNode(&Node{Kind: CommentNode, Data: t})
		case xml.ProcInst:
			appendNode(&Node{Kind: ProcInstNode, Target: t.Target, Data: t.Inst})
		case xml.Directive:
			appendNode(&Node{Kind: DirectiveNode, Data: t})
		}
	}

	if len(stack) != 0 {
		return nil, fmt.Errorf("svgdoc: unclosed element <%s>", qualified(stack[len(stack)-1].Name))
	}
	if doc.Root == nil {
		return nil, fmt.Errorf("svgdoc: no root element")
	}
	if doc.Root.Name.Local != "svg" {
		return nil, fmt.Errorf("svgdoc: root element is <%s>, not <svg>", qualified(doc.Root.Name))
	}
	return doc, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Get returns the value of the named attribute.
// Prefixed attributes are addressed as "prefix:local".
func (n *Node) Get(name string) (string, bool) {
	for _, a := range n.Attr {
		if qualified(a.Name) == name {
			return a.Value, true
		}
	}
	return "", false
}

// Set updates the named attribute, appending it when not present.
func (n *Node) Set(name, value string) {
	for i, a := range n.Attr {
		if qualified(a.Name) == name {
			n.Attr[i].Value = value
			return
		}
	}
	n.Attr = append(n.Attr, xml.Attr{Name: splitName(name), Value: value})
}

// Remove deletes the named attribute.
func (n *Node) Remove(name string) {
	for i, a := range n.Attr {
		if qualified(a.Name) == name {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// Elements returns every element below the root, in document order.
func (d *Document) Elements() []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			if c.Kind != ElementNode {
				continue
			}
			out = append(out, c)
			walk(c)
		}
	}
	walk(d.Root)
	return out
}

// Paths returns the <path> elements of the document.
func (d *Document) Paths() []*Node {
	var out []*Node
	for _, n := range d.Elements() {
		if n.Name.Local == "path" {
			out = append(out, n)
		}
	}
	return out
}

// WriteTo serializes the document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	for _, n := range d.Nodes {
		writeNode(&buf, n)
	}
	return buf.WriteTo(w)
}

// Bytes returns the serialized document.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	d.WriteTo(&buf)
	return buf.Bytes()
}

func writeNode(buf *bytes.Buffer, n *Node) {
	switch n.Kind {
	case ElementNode:
		buf.WriteByte('<')
		buf.WriteString(qualified(n.Name))
		for _, a := range n.Attr {
			buf.WriteByte(' ')
			buf.WriteString(qualified(a.Name))
			buf.WriteString(`="`)
			escape(buf, a.Value, true)
			buf.WriteByte('"')
		}
		if len(n.Children) == 0 {
			buf.WriteString("/>")
			return
		}
		buf.WriteByte('>')
		for _, c := range n.Children {
			writeNode(buf, c)
		}
		buf.WriteString("</")
		buf.WriteString(qualified(n.Name))
		buf.WriteByte('>')
	case TextNode:
		escape(buf, string(n.Data), false)
	case CommentNode:
		buf.WriteString("<!--")
		buf.Write(n.Data)
		buf.WriteString("-->")
	case ProcInstNode:
		buf.WriteString("<?")
		buf.WriteString(n.Target)
		if len(n.Data) > 0 {
			buf.WriteByte(' ')
			buf.Write(n.Data)
		}
		buf.WriteString("?>")
	case DirectiveNode:
		buf.WriteString("<!")
		buf.Write(n.Data)
		buf.WriteByte('>')
	}
}

func escape(buf *bytes.Buffer, s string, attr bool) {
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			if attr {
				buf.WriteString("&quot;")
			} else {
				buf.WriteRune(r)
			}
		case '\n':
			if attr {
				buf.WriteString("&#xA;")
			} else {
				buf.WriteRune(r)
			}
		default:
			buf.WriteRune(r)
		}
	}
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func splitName(s string) xml.Name {
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return xml.Name{Space: s[:i], Local: s[i+1:]}
	}
	return xml.Name{Local: s}
}
