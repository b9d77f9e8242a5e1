package xsd

import (
	"fmt"
	"strings"

	"github.com/CognitoIQ/jeegen/xmltree"
)

// Schema documents nest deeply, so the parser bubbles errors up with
// panic/recover instead of threading them through every helper. Each
// walk level appends the element it was visiting, which gives the
// error a path. The panics never escape Parse.
type parseError struct {
	message string
	path    []*xmltree.Element
}

func (err parseError) Error() string {
	breadcrumbs := make([]string, 0, len(err.path))
	for i := len(err.path) - 1; i >= 0; i-- {
		piece := err.path[i].Name.Local
		if name := err.path[i].Attr("", "name"); name != "" {
			piece = fmt.Sprintf("%s(%s)", piece, name)
		} else if ref := err.path[i].Attr("", "ref"); ref != "" {
			piece = fmt.Sprintf("%s(%s)", piece, ref)
		}
		breadcrumbs = append(breadcrumbs, piece)
	}
	return "Error at " + strings.Join(breadcrumbs, ">") + ": " + err.message
}

func stop(format string, v ...interface{}) {
	panic(parseError{message: fmt.Sprintf(format, v...)})
}

// walk calls fn on every child of root in the XML Schema namespace.
// Foreign elements, such as appinfo payloads, are ignored.
func walk(root *xmltree.Element, fn func(*xmltree.Element)) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(parseError); ok {
				err.path = append(err.path, root)
				panic(err)
			}
			panic(r)
		}
	}()
	for i := range root.Children {
		if root.Children[i].Name.Space != Namespace {
			continue
		}
		fn(&root.Children[i])
	}
}

// defer catchParseError(&err)
func catchParseError(err *error) {
	if r := recover(); r != nil {
		perr, ok := r.(parseError)
		if !ok {
			panic(r)
		}
		*err = perr
	}
}
