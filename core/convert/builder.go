package convert

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// builder assembles nested element structure without the caller juggling
// node pointers. done returns to the parent builder; build returns the root.
type builder struct {
	node   *html.Node
	parent *builder
}

func newContainer(tag string, classes ...string) *builder {
	return &builder{node: newElement(tag, classes...)}
}

func (b *builder) attr(key, val string) *builder {
	b.node.Attr = append(b.node.Attr, html.Attribute{Key: key, Val: val})
	return b
}

func (b *builder) text(s string) *builder {
	b.node.AppendChild(textNode(s))
	return b
}

func (b *builder) child(tag string, classes ...string) *builder {
	c := newElement(tag, classes...)
	b.node.AppendChild(c)
	return &builder{node: c, parent: b}
}

func (b *builder) done() *builder {
	return b.parent
}

func (b *builder) build() *html.Node {
	root := b
	for root.parent != nil {
		root = root.parent
	}
	return root.node
}

func newElement(tag string, classes ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	if len(classes) > 0 {
		n.Attr = append(n.Attr, html.Attribute{
			Key: "class",
			Val: strings.Join(classes, " "),
		})
	}
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
