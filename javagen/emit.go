package javagen

import (
	"fmt"

	"github.com/CognitoIQ/jeegen/internal/gen"
	"github.com/CognitoIQ/jeegen/xsd"
)

// unitFor builds the Java unit for a top-level declaration. A nil
// unit with a nil error means the declaration produces no file.
func (g *Generator) unitFor(decl xsd.Decl) (gen.Unit, error) {
	switch decl := decl.(type) {
	case *xsd.Group:
		if decl.Model.Kind == xsd.All {
			return nil, &ShapeError{Owner: decl.Name, Value: describe(decl.Model)}
		}
		return g.interfaceFor(decl.Name, decl.Doc, decl.Model)
	case *xsd.ComplexType:
		if g.cfg.skipped(decl.Name) {
			g.cfg.logf("skipping %s", decl.Name)
			return nil, nil
		}
		switch c := decl.Content.(type) {
		case nil:
			return g.interfaceFor(decl.Name, decl.Doc, &xsd.ModelGroup{Kind: xsd.Sequence})
		case *xsd.ModelGroup:
			if c.Kind != xsd.Sequence {
				return nil, &ShapeError{Owner: decl.Name, Value: describe(c)}
			}
			return g.interfaceFor(decl.Name, decl.Doc, c)
		case *xsd.SimpleContent:
			return g.simpleContentUnit(decl.Name, decl.Doc, c)
		default:
			return nil, &ShapeError{Owner: decl.Name, Value: describe(c)}
		}
	case *xsd.SimpleType:
		// Simple types only get a file when a property refers to
		// them; see enumUnit.
		g.cfg.debugf("skipping top-level simple type %s", decl.Name)
		return nil, nil
	default:
		return nil, &ShapeError{Owner: decl.DeclName(), Value: describe(decl)}
	}
}

// interfaceFor flattens a model group into properties and
// extensions. Particles of groups nested one level deep are hoisted
// into the interface; anything nested deeper is an error.
func (g *Generator) interfaceFor(name, doc string, model *xsd.ModelGroup) (*gen.Interface, error) {
	iface := &gen.Interface{Name: name, Doc: doc}

	add := func(p xsd.Particle) error {
		switch p := p.(type) {
		case *xsd.Element:
			prop, err := g.property(name, p)
			if err != nil {
				return err
			}
			iface.Properties = append(iface.Properties, prop)
		case *xsd.GroupRef:
			t, err := g.resolver.resolve(p.Ref)
			if err != nil {
				return err
			}
			iface.Extends = append(iface.Extends, t.Java(g.pkg))
		default:
			return &ShapeError{Owner: name, Value: describe(p)}
		}
		return nil
	}

	for _, p := range model.Particles {
		if nested, ok := p.(*xsd.ModelGroup); ok {
			for _, p2 := range nested.Particles {
				if err := add(p2); err != nil {
					return nil, err
				}
			}
			continue
		}
		if err := add(p); err != nil {
			return nil, err
		}
	}
	return iface, nil
}

func (g *Generator) property(owner string, el *xsd.Element) (gen.Property, error) {
	if el.Type.Local == "" {
		return gen.Property{}, &ShapeError{Owner: owner, Value: describe(el)}
	}
	t, err := g.resolver.resolve(el.Type)
	if err != nil {
		return gen.Property{}, err
	}
	if el.Unbounded() {
		t = List{Elem: t}
	}
	return gen.Property{
		Name: el.Name,
		Type: t.Java(g.pkg),
		Doc:  el.Doc,
	}, nil
}

// simpleContentUnit mirrors the decisions of resolver.simpleContent:
// exactly the complex types that resolve to themselves get a file.
func (g *Generator) simpleContentUnit(name, doc string, c *xsd.SimpleContent) (gen.Unit, error) {
	if ext := c.Extension; ext != nil {
		if len(ext.Attributes) == 0 {
			g.cfg.logf("skipping %s: extension of %s without attributes", name, ext.Base.Local)
			return nil, nil
		}
		first, err := attribute(name, ext.Attributes[0])
		if err != nil {
			return nil, err
		}
		if first.LocalName() == "id" {
			g.cfg.logf("skipping %s: extension of %s with only an id", name, ext.Base.Local)
			return nil, nil
		}
		iface := &gen.Interface{
			Name:       name,
			Doc:        doc,
			Properties: []gen.Property{{Name: "value", Type: javaString.Java(g.pkg)}},
			Compact:    true,
		}
		for _, use := range ext.Attributes {
			a, err := attribute(name, use)
			if err != nil {
				return nil, err
			}
			iface.Properties = append(iface.Properties, gen.Property{
				Name: a.LocalName(),
				Type: javaString.Java(g.pkg),
			})
		}
		return iface, nil
	}
	if !c.Restriction.Enumerates() {
		g.cfg.logf("skipping %s: restriction of %s without enumerated values", name, c.Restriction.Base.Local)
		return nil, nil
	}
	return enumUnit(name, doc, c.Restriction), nil
}

// enumUnit declares one constant per facet value, verbatim. Pattern
// facets constrain spelling and add no constants.
func enumUnit(name, doc string, r *xsd.Restriction) *gen.Enum {
	enum := &gen.Enum{Name: name, Doc: doc}
	for _, f := range r.Facets {
		if f.Kind == xsd.Pattern {
			continue
		}
		enum.Values = append(enum.Values, f.Value)
	}
	return enum
}

// describe names a schema construct in error and log messages.
func describe(v interface{}) string {
	switch v := v.(type) {
	case *xsd.Element:
		if v.Ref.Local != "" {
			return fmt.Sprintf("element ref=%q", v.Ref.Local)
		}
		return fmt.Sprintf("element %q without a named type", v.Name)
	case *xsd.GroupRef:
		return fmt.Sprintf("group ref=%q", v.Ref.Local)
	case *xsd.ModelGroup:
		return fmt.Sprintf("%s with %d particles", v.Kind, len(v.Particles))
	case *xsd.Any:
		return "any"
	case *xsd.ComplexContent:
		return fmt.Sprintf("complexContent %s of %q", v.Method, v.Base.Local)
	case *xsd.AttributeGroupRef:
		return fmt.Sprintf("attributeGroup ref=%q", v.Ref.Local)
	case *xsd.Union:
		return fmt.Sprintf("union of %d member types", len(v.MemberTypes))
	case xsd.Decl:
		return fmt.Sprintf("%T %q", v, v.DeclName())
	}
	return fmt.Sprintf("%T", v)
}
