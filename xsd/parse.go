package xsd

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/CognitoIQ/jeegen/xmltree"
)

// Parse decodes a single XML Schema document. The location is
// recorded in the returned Schema and is not opened; callers load the
// bytes themselves and follow includes as they see fit.
func Parse(data []byte, location string) (*Schema, error) {
	root, err := xmltree.Parse(data)
	if err != nil {
		return nil, err
	}
	if root.Name.Space != Namespace || root.Name.Local != "schema" {
		return nil, fmt.Errorf("%s: root element is <%s>, not an XML schema", location, root.Prefix(root.Name))
	}
	return parseSchema(root, location)
}

func parseSchema(root *xmltree.Element, location string) (schema *Schema, err error) {
	defer catchParseError(&err)

	schema = &Schema{
		Location: location,
		TargetNS: root.Attr("", "targetNamespace"),
		Doc:      documentation(root),
	}
	walk(root, func(el *xmltree.Element) {
		switch el.Name.Local {
		case "include":
			schema.Directives = append(schema.Directives, &Include{
				SchemaLocation: requireAttr(el, "schemaLocation"),
			})
		case "import":
			schema.Directives = append(schema.Directives, &Import{
				Namespace:      el.Attr("", "namespace"),
				SchemaLocation: el.Attr("", "schemaLocation"),
			})
		case "group":
			schema.Decls = append(schema.Decls, parseGroup(el))
		case "complexType":
			schema.Decls = append(schema.Decls, parseComplexType(el))
		case "simpleType":
			schema.Decls = append(schema.Decls, parseSimpleType(el))
		}
	})
	return schema, nil
}

func requireAttr(el *xmltree.Element, name string) string {
	v, ok := el.LookupAttr("", name)
	if !ok || strings.TrimSpace(v) == "" {
		stop("missing %s attribute", name)
	}
	return strings.TrimSpace(v)
}

// typeName resolves a QName-valued attribute against the prefixes in
// scope at el. A missing attribute yields the zero Name.
func typeName(el *xmltree.Element, attr string) xml.Name {
	v := el.Attr("", attr)
	if v == "" {
		return xml.Name{}
	}
	name, ok := el.ResolveNS(v)
	if !ok {
		stop("could not resolve namespace prefix of %s %q", attr, v)
	}
	return name
}

func documentation(el *xmltree.Element) string {
	for _, ann := range el.ChildrenNamed(Namespace, "annotation") {
		for _, doc := range ann.ChildrenNamed(Namespace, "documentation") {
			return doc.Text()
		}
	}
	return ""
}

func parseOccurs(el *xmltree.Element, attr string) int {
	v, ok := el.LookupAttr("", attr)
	if !ok {
		return 1
	}
	v = strings.TrimSpace(v)
	if v == "unbounded" {
		return Unbounded
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		stop("invalid %s %q", attr, v)
	}
	return n
}

func parseGroup(el *xmltree.Element) *Group {
	g := &Group{
		Name: requireAttr(el, "name"),
		Doc:  documentation(el),
	}
	walk(el, func(el *xmltree.Element) {
		switch el.Name.Local {
		case "annotation":
		case "sequence", "choice", "all":
			if g.Model != nil {
				stop("group has more than one model group")
			}
			g.Model = parseModelGroup(el)
		default:
			stop("unexpected <%s> in group", el.Name.Local)
		}
	})
	if g.Model == nil {
		stop("group has no model group")
	}
	return g
}

func groupKind(local string) GroupKind {
	switch local {
	case "choice":
		return Choice
	case "all":
		return All
	}
	return Sequence
}

func parseModelGroup(el *xmltree.Element) *ModelGroup {
	compositor := el.Name.Local
	m := &ModelGroup{
		Kind:      groupKind(compositor),
		MinOccurs: parseOccurs(el, "minOccurs"),
		MaxOccurs: parseOccurs(el, "maxOccurs"),
	}
	walk(el, func(el *xmltree.Element) {
		switch el.Name.Local {
		case "annotation":
		case "element":
			m.Particles = append(m.Particles, parseElement(el))
		case "group":
			m.Particles = append(m.Particles, parseGroupRef(el))
		case "sequence", "choice", "all":
			m.Particles = append(m.Particles, parseModelGroup(el))
		case "any":
			m.Particles = append(m.Particles, &Any{
				Namespace: el.Attr("", "namespace"),
				MinOccurs: parseOccurs(el, "minOccurs"),
				MaxOccurs: parseOccurs(el, "maxOccurs"),
			})
		default:
			stop("unexpected <%s> in %s", el.Name.Local, compositor)
		}
	})
	return m
}

func parseGroupRef(el *xmltree.Element) *GroupRef {
	if el.Attr("", "ref") == "" {
		stop("nested group without ref")
	}
	return &GroupRef{
		Ref:       typeName(el, "ref"),
		MinOccurs: parseOccurs(el, "minOccurs"),
		MaxOccurs: parseOccurs(el, "maxOccurs"),
	}
}

func parseElement(el *xmltree.Element) *Element {
	e := &Element{
		Name:      el.Attr("", "name"),
		Doc:       documentation(el),
		Type:      typeName(el, "type"),
		Ref:       typeName(el, "ref"),
		MinOccurs: parseOccurs(el, "minOccurs"),
		MaxOccurs: parseOccurs(el, "maxOccurs"),
	}
	if e.Name == "" && e.Ref.Local == "" {
		stop("element has neither name nor ref")
	}
	return e
}

func parseComplexType(el *xmltree.Element) *ComplexType {
	t := &ComplexType{
		Name: requireAttr(el, "name"),
		Doc:  documentation(el),
	}
	setContent := func(c Content) {
		if t.Content != nil {
			stop("complexType has more than one content model")
		}
		t.Content = c
	}
	walk(el, func(el *xmltree.Element) {
		switch el.Name.Local {
		case "annotation", "anyAttribute":
		case "simpleContent":
			setContent(parseSimpleContent(el))
		case "complexContent":
			setContent(parseComplexContent(el))
		case "sequence", "choice", "all":
			setContent(parseModelGroup(el))
		case "group":
			// A bare group reference is shorthand for a sequence
			// holding it.
			setContent(&ModelGroup{
				Kind:      Sequence,
				Particles: []Particle{parseGroupRef(el)},
				MinOccurs: 1,
				MaxOccurs: 1,
			})
		case "attribute", "attributeGroup":
			t.Attributes = append(t.Attributes, parseAttributeUse(el))
		default:
			stop("unexpected <%s> in complexType", el.Name.Local)
		}
	})
	return t
}

func parseSimpleContent(el *xmltree.Element) *SimpleContent {
	c := &SimpleContent{Doc: documentation(el)}
	walk(el, func(el *xmltree.Element) {
		switch el.Name.Local {
		case "annotation":
		case "extension":
			c.Extension = parseExtension(el)
		case "restriction":
			c.Restriction = parseRestriction(el)
		default:
			stop("unexpected <%s> in simpleContent", el.Name.Local)
		}
	})
	if (c.Extension == nil) == (c.Restriction == nil) {
		stop("simpleContent needs exactly one of extension or restriction")
	}
	return c
}

func parseComplexContent(el *xmltree.Element) *ComplexContent {
	var c *ComplexContent
	walk(el, func(el *xmltree.Element) {
		switch el.Name.Local {
		case "annotation":
		case "extension", "restriction":
			c = &ComplexContent{
				Base:   typeName(el, "base"),
				Method: el.Name.Local,
			}
		default:
			stop("unexpected <%s> in complexContent", el.Name.Local)
		}
	})
	if c == nil {
		stop("complexContent without derivation")
	}
	return c
}

func parseExtension(el *xmltree.Element) *Extension {
	ext := &Extension{Base: typeName(el, "base")}
	if ext.Base.Local == "" {
		stop("extension without base")
	}
	walk(el, func(el *xmltree.Element) {
		switch el.Name.Local {
		case "attribute", "attributeGroup":
			ext.Attributes = append(ext.Attributes, parseAttributeUse(el))
		}
	})
	return ext
}

func parseRestriction(el *xmltree.Element) *Restriction {
	r := &Restriction{Base: typeName(el, "base")}
	walk(el, func(el *xmltree.Element) {
		kind, ok := parseFacetKind(el.Name.Local)
		if !ok {
			// annotations, attributes and anonymous base types
			return
		}
		r.Facets = append(r.Facets, Facet{
			Kind:  kind,
			Value: el.Attr("", "value"),
		})
	})
	return r
}

func parseAttributeUse(el *xmltree.Element) AttributeUse {
	if el.Name.Local == "attributeGroup" {
		if el.Attr("", "ref") == "" {
			stop("attributeGroup without ref")
		}
		return &AttributeGroupRef{Ref: typeName(el, "ref")}
	}
	a := &Attribute{
		Name: el.Attr("", "name"),
		Ref:  typeName(el, "ref"),
		Type: typeName(el, "type"),
		Doc:  documentation(el),
		Use:  el.Attr("", "use"),
	}
	if a.Name == "" && a.Ref.Local == "" {
		stop("attribute has neither name nor ref")
	}
	return a
}

func parseSimpleType(el *xmltree.Element) *SimpleType {
	t := &SimpleType{
		Name: requireAttr(el, "name"),
		Doc:  documentation(el),
	}
	walk(el, func(el *xmltree.Element) {
		switch el.Name.Local {
		case "annotation":
			return
		case "restriction":
			t.Derivation = parseRestriction(el)
		case "list":
			t.Derivation = &List{ItemType: typeName(el, "itemType")}
		case "union":
			u := &Union{}
			for _, member := range strings.Fields(el.Attr("", "memberTypes")) {
				name, ok := el.ResolveNS(member)
				if !ok {
					stop("could not resolve namespace prefix of member type %q", member)
				}
				u.MemberTypes = append(u.MemberTypes, name)
			}
			t.Derivation = u
		default:
			stop("unexpected <%s> in simpleType", el.Name.Local)
		}
	})
	if t.Derivation == nil {
		stop("simpleType has no restriction, list or union")
	}
	return t
}
