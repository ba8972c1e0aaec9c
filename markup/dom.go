package markup

// Node is one element of a materialized document. Text holds only the last
// character run seen directly inside the element; earlier runs, such as
// text before a child element, are overwritten.
type Node struct {
	Name       string
	Space      string
	Attributes []Attribute
	Text       string
	HasText    bool
	Children   []*Node
}

// Child returns the first direct child with the given local name.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every direct child with the given local name, in
// document order.
func (n *Node) ChildrenNamed(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// ChildText returns the text of the first direct child named name. The
// second result is false when the child is missing or has no text.
func (n *Node) ChildText(name string) (string, bool) {
	c := n.Child(name)
	if c == nil || !c.HasText {
		return "", false
	}
	return c.Text, true
}

func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

type Document struct {
	Root *Node
}

type pending struct {
	name     Name
	attrs    []Attribute
	text     string
	hasText  bool
	children []int
}

// Builder is a Handler that collects events into an arena of pending
// nodes, linked by index, and turns them into a Document once the input
// ends.
type Builder struct {
	nodes []pending
	stack []int
	doc   *Document
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) StartDocument() {
	b.nodes = b.nodes[:0]
	b.stack = b.stack[:0]
	b.doc = nil
}

func (b *Builder) EndDocument() {
	if len(b.nodes) > 0 {
		b.doc = &Document{Root: b.materialize(0)}
	}
	b.nodes = nil
	b.stack = nil
}

func (b *Builder) StartPrefixMapping(prefix, uri string) {}

func (b *Builder) StartElement(name Name, attrs []Attribute) {
	id := len(b.nodes)
	b.nodes = append(b.nodes, pending{name: name, attrs: attrs})
	if len(b.stack) > 0 {
		parent := b.stack[len(b.stack)-1]
		b.nodes[parent].children = append(b.nodes[parent].children, id)
	}
	b.stack = append(b.stack, id)
}

// EndElement pops the open element. The root stays on the stack so stray
// text after it still has somewhere to land.
func (b *Builder) EndElement(name Name) {
	if len(b.stack) > 1 {
		b.stack = b.stack[:len(b.stack)-1]
	}
}

func (b *Builder) Characters(text string) {
	if len(b.stack) == 0 {
		return
	}
	top := b.stack[len(b.stack)-1]
	b.nodes[top].text = text
	b.nodes[top].hasText = true
}

// Document returns the tree built by the last complete parse, or nil.
func (b *Builder) Document() *Document {
	return b.doc
}

func (b *Builder) materialize(id int) *Node {
	p := b.nodes[id]
	n := &Node{
		Name:       p.name.Local,
		Space:      p.name.Space,
		Attributes: p.attrs,
		Text:       p.text,
		HasText:    p.hasText,
	}
	if len(p.children) > 0 {
		n.Children = make([]*Node, 0, len(p.children))
		for _, c := range p.children {
			n.Children = append(n.Children, b.materialize(c))
		}
	}
	return n
}

// ParseDocument parses input into a tree. On failure no partial tree is
// returned.
func ParseDocument(input string) (*Document, error) {
	b := NewBuilder()
	if err := Parse(input, b); err != nil {
		return nil, err
	}
	return b.Document(), nil
}
