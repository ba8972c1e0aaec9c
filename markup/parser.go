// Package markup is a small, single-pass XML reader for build descriptors.
//
// It understands exactly what pom.xml and settings.xml files need: the
// fixed UTF-8 prolog, elements, double-quoted attributes, comments, text,
// default namespaces and prefixed namespaces. DTDs, CDATA sections,
// processing instructions and entity expansion are not supported.
//
// Parse streams events to a Handler. ParseDocument builds a Document tree
// from those events.
package markup

import (
	"strings"
	"unicode"
)

// Prolog is the only accepted XML declaration.
const Prolog = `<?xml version="1.0" encoding="UTF-8"?>`

const xmlnsAttr = "xmlns"

type frame struct {
	raw      string
	name     Name
	defaults int
}

type Parser struct {
	s        *Scanner
	h        Handler
	prefixes map[string]string
	defaults []string
	open     []frame
	sawRoot  bool
}

func NewParser(input string, h Handler) *Parser {
	return &Parser{
		s:        NewScanner(input),
		h:        h,
		prefixes: make(map[string]string),
	}
}

// Parse reads input and reports its structure to h. The first error stops
// the parse; events already delivered are not retracted.
func Parse(input string, h Handler) error {
	return NewParser(input, h).Parse()
}

func (p *Parser) Parse() error {
	if err := p.s.Expect(Prolog, "content is not allowed in prolog"); err != nil {
		return err
	}
	p.s.SkipWhitespace()
	p.h.StartDocument()

	for !p.s.AtEnd() {
		if p.s.Current() != '<' {
			if err := p.parseText(); err != nil {
				return err
			}
			continue
		}
		if _, err := p.s.Advance(); err != nil {
			return err
		}

		var err error
		switch p.s.Current() {
		case '!':
			err = p.parseComment()
		case '/':
			err = p.parseEndTag()
		case '?':
			err = p.s.errorf(ErrUnexpectedCharacter, "processing instructions are not supported")
		default:
			err = p.parseStartTag()
		}
		if err != nil {
			return err
		}
	}

	if len(p.open) > 0 {
		return p.s.errorf(ErrUnexpectedEndOfInput, "unclosed element <"+p.open[len(p.open)-1].raw+">")
	}
	if !p.sawRoot {
		return p.s.errorf(ErrUnexpectedEndOfInput, "document has no root element")
	}
	p.h.EndDocument()
	return nil
}

// parseComment starts on the '!' of "<!--".
func (p *Parser) parseComment() error {
	if err := p.s.Expect("!--", "expected comment start '<!--'"); err != nil {
		return err
	}
	dashes := 0
	for {
		if p.s.AtEnd() {
			return p.s.errorf(ErrUnexpectedEndOfInput, "unterminated comment")
		}
		c := p.s.Current()
		switch {
		case dashes == 2:
			if c != '>' {
				return p.s.errorf(ErrBadCharacter, "'--' must be followed by '>'")
			}
			if _, err := p.s.Advance(); err != nil {
				return err
			}
			p.s.SkipWhitespace()
			return nil
		case c == '-':
			dashes++
		default:
			dashes = 0
		}
		if _, err := p.s.Advance(); err != nil {
			return err
		}
	}
}

// parseStartTag starts on the first rune of the element name.
func (p *Parser) parseStartTag() error {
	start := p.s.Position()
	raw, err := p.s.ReadUntil(" \t\r\n/>")
	if err != nil {
		return err
	}
	if raw == "" {
		return p.s.errorf(ErrUnexpectedCharacter, "expected element name")
	}
	if len(p.open) == 0 && p.sawRoot {
		return &SyntaxError{Err: ErrUnexpectedCharacter, Detail: "content after the root element", Pos: start}
	}

	f := frame{raw: raw}
	var attrs []Attribute
	for {
		p.s.SkipWhitespace()
		if p.s.AtEnd() {
			return p.s.errorf(ErrUnexpectedEndOfInput, "unterminated start tag <"+raw+">")
		}
		if c := p.s.Current(); c == '/' || c == '>' {
			break
		}
		attr, err := p.parseAttribute()
		if err != nil {
			return err
		}
		switch {
		case attr.Name == xmlnsAttr:
			attr.Space = attr.Value
			p.defaults = append(p.defaults, attr.Value)
			f.defaults++
		case strings.HasPrefix(attr.Name, xmlnsAttr+":"):
			prefix := attr.Name[len(xmlnsAttr)+1:]
			p.prefixes[prefix] = attr.Value
			p.h.StartPrefixMapping(prefix, attr.Value)
		}
		attrs = append(attrs, attr)

		if c := p.s.Current(); !p.s.AtEnd() && !unicode.IsSpace(c) && c != '/' && c != '>' {
			return p.s.errorf(ErrUnexpectedCharacter, "expected whitespace after attribute "+attr.Name)
		}
	}

	f.name, err = p.resolve(raw, start)
	if err != nil {
		return err
	}
	for i := range attrs {
		if err := p.resolveAttribute(&attrs[i], start); err != nil {
			return err
		}
	}

	p.open = append(p.open, f)
	p.sawRoot = true
	p.h.StartElement(f.name, attrs)

	if p.s.Current() == '/' {
		if err := p.s.Expect("/>", "expected '/>' to close <"+raw+">"); err != nil {
			return err
		}
		p.closeElement()
		return nil
	}
	if err := p.s.Expect(">", "expected '>' to close <"+raw+">"); err != nil {
		return err
	}
	p.s.SkipWhitespace()
	return nil
}

// parseAttribute reads name="value" and leaves the cursor after the
// closing quote.
func (p *Parser) parseAttribute() (Attribute, error) {
	name, err := p.s.ReadUntil("= \t\r\n/>")
	if err != nil {
		return Attribute{}, err
	}
	if name == "" {
		return Attribute{}, p.s.errorf(ErrUnexpectedCharacter, "expected attribute name")
	}
	p.s.SkipWhitespace()
	if err := p.s.Expect("=", "expected '=' after attribute "+name); err != nil {
		return Attribute{}, err
	}
	p.s.SkipWhitespace()
	if err := p.s.Expect(`"`, "expected '\"' to open value of attribute "+name); err != nil {
		return Attribute{}, err
	}
	value, err := p.s.ReadUntil(`"`)
	if err != nil {
		return Attribute{}, err
	}
	if err := p.s.Expect(`"`, "expected '\"' to close value of attribute "+name); err != nil {
		return Attribute{}, err
	}
	return Attribute{Name: name, Value: value}, nil
}

// parseEndTag starts on the '/' of "</".
func (p *Parser) parseEndTag() error {
	start := p.s.Position()
	if _, err := p.s.Advance(); err != nil {
		return err
	}
	raw, err := p.s.ReadUntil(">")
	if err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if err := p.s.Expect(">", "expected '>' to close </"+raw+">"); err != nil {
		return err
	}
	if len(p.open) == 0 {
		return &SyntaxError{Err: ErrUnexpectedCharacter, Detail: "end tag </" + raw + "> without start tag", Pos: start}
	}
	if top := p.open[len(p.open)-1]; top.raw != raw {
		return &SyntaxError{Err: ErrUnexpectedCharacter, Detail: "end tag </" + raw + "> does not match <" + top.raw + ">", Pos: start}
	}
	p.closeElement()
	return nil
}

// parseText emits the run up to the next '<'. Whitespace directly after
// markup was already skipped, so runs never start with whitespace.
func (p *Parser) parseText() error {
	if len(p.open) == 0 {
		return p.s.errorf(ErrUnexpectedCharacter, "text outside the root element")
	}
	text, err := p.s.ReadUntil("<")
	if err != nil {
		return err
	}
	p.h.Characters(text)
	return nil
}

func (p *Parser) closeElement() {
	f := p.open[len(p.open)-1]
	p.open = p.open[:len(p.open)-1]
	p.defaults = p.defaults[:len(p.defaults)-f.defaults]
	p.h.EndElement(f.name)
	p.s.SkipWhitespace()
}

func (p *Parser) resolve(raw string, at Position) (Name, error) {
	if prefix, local, ok := strings.Cut(raw, ":"); ok {
		uri, found := p.prefixes[prefix]
		if !found {
			return Name{}, &SyntaxError{Err: ErrUndeclaredPrefix, Detail: prefix, Pos: at}
		}
		return Name{Space: uri, Local: local}, nil
	}
	return Name{Space: p.currentDefault(), Local: raw}, nil
}

// resolveAttribute maps prefixed attribute names to their namespace.
// Namespace declarations themselves are left as written.
func (p *Parser) resolveAttribute(attr *Attribute, at Position) error {
	if attr.Name == xmlnsAttr || strings.HasPrefix(attr.Name, xmlnsAttr+":") {
		return nil
	}
	prefix, local, ok := strings.Cut(attr.Name, ":")
	if !ok {
		return nil
	}
	uri, found := p.prefixes[prefix]
	if !found {
		return &SyntaxError{Err: ErrUndeclaredPrefix, Detail: prefix, Pos: at}
	}
	attr.Name = local
	attr.Space = uri
	return nil
}

// currentDefault is the innermost default namespace; inner declarations
// shadow outer ones.
func (p *Parser) currentDefault() string {
	if len(p.defaults) == 0 {
		return ""
	}
	return p.defaults[len(p.defaults)-1]
}
