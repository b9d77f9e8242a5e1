// Package xsd parses declarations in XML Schema documents.
//
// The xsd package implements a parser for the subset of the XML Schema
// standard used by deployment-descriptor schemas. Unlike a validator,
// it keeps the shape of a schema document intact: top-level
// declarations stay in document order, model groups and group
// references are preserved rather than flattened, and restriction
// facets keep their order. Type references are recorded as resolved
// QNames and are not linked to their declarations; following a
// reference across schema documents is left to the consumer.
//
// Every construct variant is a distinct Go type behind a sealed
// interface (Decl, Directive, Content, Derivation, Particle,
// AttributeUse), so consumers can switch over the variants.
package xsd // import "github.com/CognitoIQ/jeegen/xsd"

import (
	"encoding/xml"
	"strconv"
)

// Namespace is the XML Schema namespace. Built-in types such as
// xsd:string are declared in it.
const Namespace = "http://www.w3.org/2001/XMLSchema"

// Unbounded is the MaxOccurs value of a particle declared with
// maxOccurs="unbounded".
const Unbounded = -1

// A Schema is the decoded form of an XSD <schema> element.
type Schema struct {
	// Where the document was loaded from.
	Location string
	// The target namespace of the schema. All top-level declarations
	// in this schema are in this name space. May be empty.
	TargetNS string
	// Annotation of the <schema> element, if any.
	Doc string
	// <include> and <import> directives in document order.
	Directives []Directive
	// Named groups, complex types and simple types in document
	// order. Top-level elements and attributes are not recorded.
	Decls []Decl
}

// Includes returns the <include> directives of the schema.
func (s *Schema) Includes() []*Include {
	var result []*Include
	for _, d := range s.Directives {
		if inc, ok := d.(*Include); ok {
			result = append(result, inc)
		}
	}
	return result
}

// Lookup returns the top-level declaration with the given local name,
// or nil. Declarations of different kinds can share a name; the first
// one in document order wins.
func (s *Schema) Lookup(local string) Decl {
	for _, d := range s.Decls {
		if d.DeclName() == local {
			return d
		}
	}
	return nil
}

// A Directive is one of *Include or *Import.
type Directive interface {
	isDirective()
}

// http://www.w3.org/TR/xmlschema-1/#element-include
type Include struct {
	SchemaLocation string
}

// http://www.w3.org/TR/xmlschema-1/#element-import
type Import struct {
	Namespace      string
	SchemaLocation string
}

func (*Include) isDirective() {}
func (*Import) isDirective()  {}

// A Decl is a named top-level declaration: one of *Group,
// *ComplexType or *SimpleType.
type Decl interface {
	DeclName() string
	Documentation() string
	isDecl()
}

// A Group is a named model group.
//
// http://www.w3.org/TR/xmlschema-1/#element-group
type Group struct {
	Name string
	Doc  string
	// The single sequence or choice of the group.
	Model *ModelGroup
}

// A ComplexType describes an element that may carry attributes and
// element or character content.
//
// http://www.w3.org/TR/xmlschema-1/#element-complexType
type ComplexType struct {
	Name string
	Doc  string
	// Nil if the type declares no content model at all.
	Content Content
	// Attributes declared directly on the complex type.
	Attributes []AttributeUse
}

// A SimpleType describes character data without markup.
//
// http://www.w3.org/TR/xmlschema-2/#element-simpleType
type SimpleType struct {
	Name string
	Doc  string
	// One of *Restriction, *List or *Union.
	Derivation Derivation
}

func (g *Group) DeclName() string       { return g.Name }
func (t *ComplexType) DeclName() string { return t.Name }
func (t *SimpleType) DeclName() string  { return t.Name }

func (g *Group) Documentation() string       { return g.Doc }
func (t *ComplexType) Documentation() string { return t.Doc }
func (t *SimpleType) Documentation() string  { return t.Doc }

func (*Group) isDecl()       {}
func (*ComplexType) isDecl() {}
func (*SimpleType) isDecl()  {}

// Content is the content model of a complex type: one of
// *SimpleContent, *ModelGroup or *ComplexContent.
type Content interface {
	isContent()
}

// SimpleContent holds character data derived from a simple type.
// Exactly one of Extension and Restriction is set.
type SimpleContent struct {
	Doc         string
	Extension   *Extension
	Restriction *Restriction
}

// ComplexContent derives element content from another complex type.
// It is recorded so consumers can report it; its particles are not
// parsed.
type ComplexContent struct {
	Base xml.Name
	// "extension" or "restriction"
	Method string
}

func (*SimpleContent) isContent()  {}
func (*ModelGroup) isContent()     {}
func (*ComplexContent) isContent() {}

// A Derivation describes how a simple type or simple content is
// derived: one of *Extension, *Restriction, *List or *Union.
type Derivation interface {
	isDerivation()
}

// An Extension adds attributes to a base type.
type Extension struct {
	Base       xml.Name
	Attributes []AttributeUse
}

// A Restriction narrows the values of a base type through facets.
type Restriction struct {
	Base   xml.Name
	Facets []Facet
}

// A List is a whitespace-separated list of ItemType values.
type List struct {
	ItemType xml.Name
}

// A Union accepts the values of any of its member types.
type Union struct {
	MemberTypes []xml.Name
}

func (*Extension) isDerivation()   {}
func (*Restriction) isDerivation() {}
func (*List) isDerivation()        {}
func (*Union) isDerivation()       {}

// FirstIsPattern reports whether the first facet of the restriction
// is a pattern. A restriction with no facets reports false.
func (r *Restriction) FirstIsPattern() bool {
	return len(r.Facets) > 0 && r.Facets[0].Kind == Pattern
}

// Enumerates reports whether the restriction defines a set of values
// of its own: it has facets, and the first one is not a pattern.
func (r *Restriction) Enumerates() bool {
	return len(r.Facets) > 0 && !r.FirstIsPattern()
}

// A FacetKind identifies a constraining facet.
type FacetKind int

const (
	Enumeration FacetKind = iota
	Pattern
	Length
	MinLength
	MaxLength
	MinInclusive
	MaxInclusive
	MinExclusive
	MaxExclusive
	TotalDigits
	FractionDigits
	WhiteSpace
)

var facetNames = [...]string{
	Enumeration:    "enumeration",
	Pattern:        "pattern",
	Length:         "length",
	MinLength:      "minLength",
	MaxLength:      "maxLength",
	MinInclusive:   "minInclusive",
	MaxInclusive:   "maxInclusive",
	MinExclusive:   "minExclusive",
	MaxExclusive:   "maxExclusive",
	TotalDigits:    "totalDigits",
	FractionDigits: "fractionDigits",
	WhiteSpace:     "whiteSpace",
}

func (k FacetKind) String() string {
	if k >= 0 && int(k) < len(facetNames) {
		return facetNames[k]
	}
	return "FacetKind(" + strconv.Itoa(int(k)) + ")"
}

func parseFacetKind(local string) (FacetKind, bool) {
	for i, name := range facetNames {
		if name == local {
			return FacetKind(i), true
		}
	}
	return 0, false
}

// A Facet is a single constraint of a restriction.
//
// http://www.w3.org/TR/xmlschema-2/#rf-facets
type Facet struct {
	Kind  FacetKind
	Value string
}

// A GroupKind distinguishes the compositors of a model group.
type GroupKind int

const (
	Sequence GroupKind = iota
	Choice
	All
)

func (k GroupKind) String() string {
	switch k {
	case Sequence:
		return "sequence"
	case Choice:
		return "choice"
	case All:
		return "all"
	}
	return "GroupKind(" + strconv.Itoa(int(k)) + ")"
}

// A Particle is a member of a model group: one of *Element,
// *GroupRef, *ModelGroup or *Any.
type Particle interface {
	isParticle()
}

// A ModelGroup is an ordered list of particles, either anonymous
// (nested inside another group or a complex type) or the body of a
// named group.
type ModelGroup struct {
	Kind      GroupKind
	Particles []Particle
	MinOccurs int
	MaxOccurs int
}

// An Element is a local element declaration.
//
// http://www.w3.org/TR/xmlschema-1/#element-element
type Element struct {
	Name string
	Doc  string
	// The declared type. Zero if the element declares an anonymous
	// type or refers to a top-level element instead.
	Type xml.Name
	// Set for <element ref="..."/>.
	Ref       xml.Name
	MinOccurs int
	// Unbounded if maxOccurs="unbounded".
	MaxOccurs int
}

// Unbounded reports whether the element may occur any number of
// times.
func (e *Element) Unbounded() bool {
	return e.MaxOccurs == Unbounded
}

// A GroupRef references a named group.
type GroupRef struct {
	Ref       xml.Name
	MinOccurs int
	MaxOccurs int
}

// An Any is an element wildcard.
type Any struct {
	Namespace string
	MinOccurs int
	MaxOccurs int
}

func (*Element) isParticle()    {}
func (*GroupRef) isParticle()   {}
func (*ModelGroup) isParticle() {}
func (*Any) isParticle()        {}

// An AttributeUse is one of *Attribute or *AttributeGroupRef.
type AttributeUse interface {
	isAttributeUse()
}

// An Attribute declares a single attribute. Either Name or Ref is
// set.
//
// http://www.w3.org/TR/xmlschema-1/#element-attribute
type Attribute struct {
	Name string
	Ref  xml.Name
	Type xml.Name
	Doc  string
	Use  string
}

// LocalName returns the name of the attribute, or the local name of
// the attribute it refers to.
func (a *Attribute) LocalName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Ref.Local
}

// An AttributeGroupRef references a named attribute group.
type AttributeGroupRef struct {
	Ref xml.Name
}

func (*Attribute) isAttributeUse()         {}
func (*AttributeGroupRef) isAttributeUse() {}
