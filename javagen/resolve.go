package javagen

import (
	"encoding/xml"

	"github.com/CognitoIQ/jeegen/internal/gen"
	"github.com/CognitoIQ/jeegen/xsd"
)

// A TypeRef is the Java type a schema type reference resolves to: a
// Scalar, a Named generated type, or a List.
type TypeRef interface {
	// Java returns the type as written in source belonging to
	// package pkg.
	Java(pkg string) string
	isTypeRef()
}

// A Scalar is a Java library type, such as String or java.net.URI.
type Scalar string

// A Named type is generated from a schema declaration.
type Named struct {
	Package string
	// The raw schema name of the declaration.
	Name string
}

// A List is java.util.List of Elem.
type List struct {
	Elem TypeRef
}

const (
	javaBoolean = Scalar("Boolean")
	javaInteger = Scalar("Integer")
	javaString  = Scalar("String")
	javaURI     = Scalar("java.net.URI")
	javaQName   = Scalar("javax.xml.namespace.QName")
)

func (s Scalar) Java(string) string { return string(s) }

// Java qualifies the type name with its package unless it is pkg.
func (n Named) Java(pkg string) string {
	if n.Package == pkg {
		return gen.Identifier(n.Name)
	}
	return n.Package + "." + gen.Identifier(n.Name)
}

func (l List) Java(pkg string) string {
	return "java.util.List<" + l.Elem.Java(pkg) + ">"
}

func (Scalar) isTypeRef() {}
func (Named) isTypeRef()  {}
func (List) isTypeRef()   {}

var builtins = map[string]Scalar{
	"boolean":            javaBoolean,
	"integer":            javaInteger,
	"nonNegativeInteger": javaInteger,
	"string":             javaString,
	"token":              javaString,
	"anyURI":             javaURI,
	"QName":              javaQName,
}

func xmlName(space, local string) xml.Name {
	return xml.Name{Space: space, Local: local}
}

// An enumRef is a simple type that resolution found to be an
// enumeration. It still needs a file of its own.
type enumRef struct {
	decl  *xsd.SimpleType
	owner *schemaEntry
}

func (e enumRef) key() string {
	return e.owner.url + "#" + e.decl.Name
}

// A resolver maps schema type references to Java types on behalf of
// one generator. Enumerated simple types it passes through are
// collected in reached.
type resolver struct {
	cfg     *Config
	reg     *registry
	reached []enumRef
}

// resolve maps a type reference found in any schema to a Java type.
func (r *resolver) resolve(name xml.Name) (TypeRef, error) {
	if name.Space == xsd.Namespace {
		if t, ok := builtins[name.Local]; ok {
			return t, nil
		}
		return nil, &ResolveError{Name: name, Reason: "unsupported built-in type"}
	}
	if r.cfg.booleanAlias(name.Local) {
		return javaBoolean, nil
	}
	for _, e := range r.reg.lookup(name.Space) {
		decl := e.schema.Lookup(name.Local)
		if decl == nil {
			continue
		}
		r.cfg.debugf("resolving {%s}%s in %s", name.Space, name.Local, e.url)
		switch decl := decl.(type) {
		case *xsd.Group:
			return r.named(e, decl.Name)
		case *xsd.ComplexType:
			return r.complexType(e, decl)
		case *xsd.SimpleType:
			return r.simpleType(e, decl)
		default:
			return nil, &ShapeError{Owner: name.Local, Value: describe(decl)}
		}
	}
	return nil, &ResolveError{Name: name, Reason: "no such declaration in any loaded schema"}
}

func (r *resolver) named(e *schemaEntry, name string) (TypeRef, error) {
	pkg, err := r.reg.packageFor(e, name)
	if err != nil {
		return nil, err
	}
	return Named{Package: pkg, Name: name}, nil
}

func (r *resolver) complexType(e *schemaEntry, t *xsd.ComplexType) (TypeRef, error) {
	switch c := t.Content.(type) {
	case *xsd.SimpleContent:
		return r.simpleContent(e, t.Name, c)
	case *xsd.ModelGroup, nil:
		return r.named(e, t.Name)
	default:
		return nil, &ShapeError{Owner: t.Name, Value: describe(c)}
	}
}

func (r *resolver) simpleType(e *schemaEntry, t *xsd.SimpleType) (TypeRef, error) {
	switch d := t.Derivation.(type) {
	case *xsd.Restriction:
		if !d.Enumerates() {
			return r.resolve(d.Base)
		}
		ref, err := r.named(e, t.Name)
		if err != nil {
			return nil, err
		}
		r.reached = append(r.reached, enumRef{decl: t, owner: e})
		return ref, nil
	case *xsd.List:
		elem, err := r.resolve(d.ItemType)
		if err != nil {
			return nil, err
		}
		return List{Elem: elem}, nil
	default:
		// TODO: unions map to an opaque URI until their members are
		// resolved and merged into one Java type.
		r.cfg.logf("%s: no mapping for %s, using %s", t.Name, describe(d), javaURI)
		return javaURI, nil
	}
}

// simpleContent resolves a complex type with simple content. owner is
// the complex type's name, used when the content gets a type of its
// own.
func (r *resolver) simpleContent(e *schemaEntry, owner string, c *xsd.SimpleContent) (TypeRef, error) {
	if ext := c.Extension; ext != nil {
		if len(ext.Attributes) == 0 {
			return r.resolve(ext.Base)
		}
		first, err := attribute(owner, ext.Attributes[0])
		if err != nil {
			return nil, err
		}
		if first.LocalName() == "id" {
			return r.resolve(ext.Base)
		}
		return r.named(e, owner)
	}
	if c.Restriction.Enumerates() {
		return r.named(e, owner)
	}
	return r.resolve(c.Restriction.Base)
}

func attribute(owner string, use xsd.AttributeUse) (*xsd.Attribute, error) {
	a, ok := use.(*xsd.Attribute)
	if !ok {
		return nil, &ShapeError{Owner: owner, Value: describe(use)}
	}
	return a, nil
}
