// Package xmltree converts XML documents to a tree of Go structs.
//
// The xmltree package provides routines for accessing an XML document
// as a tree, along with functionality to resolve namespace-prefixed
// strings at any point in the tree. XML Schema documents put QNames in
// attribute values (type="javaee:string"); those can only be resolved
// against the prefixes in scope at the element that carries them, so
// every Element records its scope.
package xmltree // import "github.com/CognitoIQ/jeegen/xmltree"

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html/charset"
)

const recursionLimit = 3000

// The xml prefix is bound by definition and never declared.
const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

var errDeepXML = errors.New("xmltree: xml document too deeply nested")

// An Element represents a single element in an XML document. Elements
// may have zero or more children. The byte slice used by the Content
// field is shared among all elements in the document, and should not
// be modified.
type Element struct {
	xml.StartElement
	// Raw content between the start and end tags, including any
	// markup of child elements.
	Content  []byte
	Children []Element
	// A list of defined XML namespace prefixes, from least specific to
	// most specific. The Space field is the canonical xml namespace,
	// and the Local field is the prefix.
	Scope []xml.Name
}

// Attr gets the value of the first attribute whose name matches the
// space and local arguments. If space is the empty string, only
// attributes' local names are considered when looking for a match.
// If an attribute could not be found, the empty string is returned.
func (el *Element) Attr(space, local string) string {
	v, _ := el.LookupAttr(space, local)
	return v
}

// LookupAttr is like Attr, but reports whether the attribute was
// present at all, so that an empty value can be told apart from a
// missing one.
func (el *Element) LookupAttr(space, local string) (string, bool) {
	for _, v := range el.StartElement.Attr {
		if v.Name.Local != local {
			continue
		}
		if space == "" || space == v.Name.Space {
			return v.Value, true
		}
	}
	return "", false
}

// Text returns the character data of the element with any child
// markup removed. Entities and CDATA sections are decoded.
func (el *Element) Text() string {
	d := xml.NewDecoder(bytes.NewReader(el.Content))
	d.Strict = false
	var buf strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			break
		}
		if cdata, ok := tok.(xml.CharData); ok {
			buf.Write(cdata)
		}
	}
	return buf.String()
}

// ResolveNS translates an XML QName such as "javaee:fooType" into an
// xml.Name using the namespace prefixes in scope at el. An unprefixed
// qname takes the default namespace. The second return value is false
// if the prefix is not declared; the Space field then holds the
// prefix.
func (el *Element) ResolveNS(qname string) (xml.Name, bool) {
	qname = strings.TrimSpace(qname)
	prefix, local, ok := strings.Cut(qname, ":")
	if !ok {
		prefix, local = "", qname
	}
	for i := len(el.Scope) - 1; i >= 0; i-- {
		if el.Scope[i].Local == prefix {
			return xml.Name{Space: el.Scope[i].Space, Local: local}, true
		}
	}
	if prefix == "xml" {
		return xml.Name{Space: xmlNamespace, Local: local}, true
	}
	return xml.Name{Space: prefix, Local: local}, prefix == ""
}

// Prefix is the inverse of ResolveNS. It uses the closest prefix
// defined for a namespace to create a string of the form
// prefix:local. If the namespace cannot be found, the local name
// is returned unchanged.
func (el *Element) Prefix(name xml.Name) string {
	for i := len(el.Scope) - 1; i >= 0; i-- {
		if el.Scope[i].Space != name.Space {
			continue
		}
		if el.Scope[i].Local == "" {
			return name.Local
		}
		return el.Scope[i].Local + ":" + name.Local
	}
	return name.Local
}

func (el *Element) pushNS(tag xml.StartElement) {
	var scope []xml.Name
	for _, attr := range tag.Attr {
		if attr.Name.Space == "xmlns" {
			scope = append(scope, xml.Name{Space: attr.Value, Local: attr.Name.Local})
		} else if attr.Name.Space == "" && attr.Name.Local == "xmlns" {
			scope = append(scope, xml.Name{Space: attr.Value})
		}
	}
	if len(scope) > 0 {
		el.Scope = append(el.Scope, scope...)
		// Ensure that future additions to the scope create
		// a new backing array. This prevents the scope of a
		// sibling from being clobbered during parsing.
		el.Scope = el.Scope[:len(el.Scope):len(el.Scope)]
	}
}

// Save some typing when scanning xml
type scanner struct {
	*xml.Decoder
	tok xml.Token
	err error
}

func (s *scanner) scan() bool {
	if s.err != nil {
		return false
	}
	s.tok, s.err = s.Token()
	return s.err == nil
}

// Parse builds a tree of Elements by reading an XML document. The
// byte slice passed to Parse is expected to be a valid XML document
// with a single root element. Documents declaring a non-UTF-8
// encoding in their prolog are transcoded before parsing.
func Parse(doc []byte) (*Element, error) {
	doc, err := utf8Document(doc)
	if err != nil {
		return nil, err
	}
	d := xml.NewDecoder(bytes.NewReader(doc))
	scanner := scanner{Decoder: d}
	root := new(Element)

	for scanner.scan() {
		if start, ok := scanner.tok.(xml.StartElement); ok {
			root.StartElement = start.Copy()
			break
		}
	}
	if scanner.err != nil {
		return nil, scanner.err
	}
	if err := root.parse(&scanner, doc, 0); err != nil {
		return nil, err
	}
	return root, nil
}

// The Content field of every Element slices into the document, so the
// whole document is transcoded up front rather than through the
// decoder's CharsetReader hook; offsets would otherwise not line up.
func utf8Document(doc []byte) ([]byte, error) {
	label, ok := declaredEncoding(doc)
	if !ok {
		return doc, nil
	}
	switch strings.ToLower(label) {
	case "utf-8", "utf8", "us-ascii", "ascii":
		return doc, nil
	}
	r, err := charset.NewReaderLabel(label, bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("xmltree: %v", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return rewriteEncoding(buf.Bytes(), label), nil
}

func declaredEncoding(doc []byte) (string, bool) {
	if !bytes.HasPrefix(doc, []byte("<?xml")) {
		return "", false
	}
	end := bytes.Index(doc, []byte("?>"))
	if end < 0 {
		return "", false
	}
	prolog := string(doc[:end])
	i := strings.Index(prolog, "encoding=")
	if i < 0 {
		return "", false
	}
	rest := prolog[i+len("encoding="):]
	if len(rest) < 2 {
		return "", false
	}
	quote := rest[0]
	rest = rest[1:]
	j := strings.IndexByte(rest, quote)
	if j < 0 {
		return "", false
	}
	return rest[:j], true
}

// encoding/xml refuses documents that still declare a non-UTF-8
// encoding when no CharsetReader is set.
func rewriteEncoding(doc []byte, label string) []byte {
	for _, q := range []string{`"`, `'`} {
		old := []byte("encoding=" + q + label + q)
		if bytes.Contains(doc, old) {
			return bytes.Replace(doc, old, []byte(`encoding="UTF-8"`), 1)
		}
	}
	return doc
}

func (el *Element) parse(scanner *scanner, data []byte, depth int) error {
	if depth > recursionLimit {
		return errDeepXML
	}
	el.pushNS(el.StartElement)

	begin := scanner.InputOffset()
	end := begin
walk:
	for scanner.scan() {
		switch tok := scanner.tok.(type) {
		case xml.StartElement:
			child := Element{StartElement: tok.Copy(), Scope: el.Scope}
			if err := child.parse(scanner, data, depth+1); err != nil {
				return err
			}
			el.Children = append(el.Children, child)
		case xml.EndElement:
			if tok.Name != el.Name {
				return fmt.Errorf("Expecting </%s>, got </%s>", el.Prefix(el.Name), el.Prefix(tok.Name))
			}
			el.Content = data[int(begin):int(end)]
			break walk
		}
		end = scanner.InputOffset()
	}
	if scanner.err != nil {
		return scanner.err
	}
	return nil
}

// ChildrenNamed returns the direct children of el with the given
// name, in document order.
func (el *Element) ChildrenNamed(space, local string) []*Element {
	var result []*Element
	for i := range el.Children {
		c := &el.Children[i]
		if c.Name.Local == local && (space == "" || c.Name.Space == space) {
			result = append(result, c)
		}
	}
	return result
}
