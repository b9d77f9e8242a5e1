// Package gen renders Java source files.
//
// The gen package holds a small structured model of the Java source
// files jeegen writes (one public interface or enum per file) and the
// templates that print them, along with the identifier helpers used
// to turn schema names into Java names.
package gen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"
)

// A File is a single Java compilation unit.
type File struct {
	// Dotted package name, such as org.jboss.metadata.javaee.
	Package string
	Unit    Unit
}

// A Unit is the one top-level declaration of a File: an *Interface
// or an *Enum.
type Unit interface {
	// The raw schema name; see Identifier.
	UnitName() string
	Documentation() string
	isUnit()
}

// An Interface declares a getter/setter pair per property.
type Interface struct {
	Name string
	Doc  string
	// Java type names, printed in order after "extends".
	Extends    []string
	Properties []Property
	// If set, accessor pairs are not separated by blank lines. Used
	// for the value-and-attributes interfaces of simple content.
	Compact bool
}

// A Property is one accessor pair of an Interface.
type Property struct {
	// The raw schema name, e.g. "env-entry-name".
	Name string
	// The Java type, e.g. "java.util.List<String>".
	Type string
	Doc  string
}

// An Enum declares one constant per value. Values are printed
// verbatim.
type Enum struct {
	Name   string
	Doc    string
	Values []string
}

func (i *Interface) UnitName() string { return i.Name }
func (e *Enum) UnitName() string      { return e.Name }

func (i *Interface) Documentation() string { return i.Doc }
func (e *Enum) Documentation() string      { return e.Doc }

func (*Interface) isUnit() {}
func (*Enum) isUnit()      {}

// FileName returns the name of the file holding f's unit, with the
// given extension appended.
func (f *File) FileName(ext string) string {
	return Identifier(f.Unit.UnitName()) + ext
}

// PackageDir converts a dotted package name into a slash-separated
// relative path.
func PackageDir(pkg string) string {
	return strings.ReplaceAll(pkg, ".", "/")
}

// Source renders the file as Java source.
func (f *File) Source() ([]byte, error) {
	var name string
	switch f.Unit.(type) {
	case *Interface:
		name = "interface"
	case *Enum:
		name = "enum"
	default:
		return nil, fmt.Errorf("gen: cannot render %T", f.Unit)
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var templates = template.Must(template.New("java").Funcs(template.FuncMap{
	"comment":    CommentBlock,
	"identifier": Identifier,
	"param":      Parameter,
	"join":       strings.Join,
}).Parse(`
{{- define "header" -}}
package {{.Package}};

{{with .Unit.Documentation}}{{comment "" .}}
{{end}}
{{- end}}

{{- define "interface" -}}
{{template "header" .}}
{{- with .Unit -}}
{{- $compact := .Compact -}}
public interface {{identifier .Name}}{{if .Extends}} extends {{join .Extends ", "}}{{end}}
{
{{range .Properties}}{{with .Doc}}{{comment "   " .}}
{{end}}   {{.Type}} get{{identifier .Name}}();
   void set{{identifier .Name}}({{.Type}} {{param .Name}});
{{if not $compact}}
{{end}}{{end}}}
{{end}}
{{- end}}

{{- define "enum" -}}
{{template "header" .}}
{{- with .Unit -}}
public enum {{identifier .Name}}
{
{{range .Values}}   {{.}},
{{end}}}
{{end}}
{{- end}}
`))

// CommentBlock wraps text in a Javadoc comment, each line prefixed by
// indent. Empty lines are dropped and the rest are trimmed, so a line
// holding only spaces, such as the indentation before a closing
// </documentation> tag, prints as a bare " * ". The result has no
// trailing newline.
func CommentBlock(indent, text string) string {
	var buf strings.Builder
	buf.WriteString(indent + "/**\n")
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		buf.WriteString(indent + " * " + strings.TrimSpace(line) + "\n")
	}
	buf.WriteString(indent + " */")
	return buf.String()
}

// Normalize joins the dash-separated segments of name, capitalizing
// the first letter of each segment after the first. Empty segments are
// dropped.
//
//	Normalize("env-entry-name") == "envEntryName"
func Normalize(name string) string {
	var buf strings.Builder
	first := true
	for _, seg := range strings.Split(name, "-") {
		if seg == "" {
			continue
		}
		if first {
			buf.WriteString(seg)
			first = false
			continue
		}
		buf.WriteString(upperFirst(seg))
	}
	return buf.String()
}

// Identifier turns a schema name into a Java type or accessor name by
// capitalizing its first letter and normalizing the rest.
//
//	Identifier("env-entryType") == "EnvEntryType"
func Identifier(name string) string {
	return Normalize(upperFirst(name))
}

// Parameter returns the setter parameter name for a property.
func Parameter(name string) string {
	return Sanitize(Normalize(name))
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Sanitize modifies any names that are reserved in
// Java, so that they may be used as identifiers without
// causing a syntax error.
func Sanitize(name string) string {
	switch name {
	case "abstract", "assert", "boolean", "break", "byte",
		"case", "catch", "char", "class", "const",
		"continue", "default", "do", "double", "else",
		"enum", "extends", "final", "finally", "float",
		"for", "goto", "if", "implements", "import",
		"instanceof", "int", "interface", "long", "native",
		"new", "package", "private", "protected", "public",
		"return", "short", "static", "strictfp", "super",
		"switch", "synchronized", "this", "throw", "throws",
		"transient", "try", "void", "volatile", "while",
		"true", "false", "null", "_":
		return name + "_"
	}
	return name
}
