// Package commandline contains helper types for collecting
// command-line arguments.
package commandline // import "github.com/CognitoIQ/jeegen/internal/commandline"

import (
	"bytes"
	"fmt"
	"strings"
)

// A PackageRule maps a schema location to the Java package its types
// are generated into. On the command line, PackageRules are provided
// as strings separated by "->".
type PackageRule struct {
	Schema  string
	Package string
}

// A PackageRuleList is used to collect multiple package rules from
// the command line. It implements the pflag.Value interface.
type PackageRuleList []PackageRule

func (r *PackageRuleList) String() string {
	var buf bytes.Buffer
	for i, item := range *r {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%s -> %s", item.Schema, item.Package)
	}
	return buf.String()
}

// Set adds a package rule to the PackageRuleList, in the order
// provided on the command line.
func (r *PackageRuleList) Set(s string) error {
	parts := strings.SplitN(s, "->", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid package rule %q. must be \"schema.xsd -> package\"", s)
	}
	schema := strings.TrimSpace(parts[0])
	pkg := strings.TrimSpace(parts[1])
	if schema == "" || pkg == "" {
		return fmt.Errorf("invalid package rule %q. schema and package must not be empty", s)
	}
	if strings.ContainsAny(pkg, " \t/") || strings.HasPrefix(pkg, ".") || strings.HasSuffix(pkg, ".") {
		return fmt.Errorf("invalid package name %q", pkg)
	}
	*r = append(*r, PackageRule{Schema: schema, Package: pkg})
	return nil
}

// Type names the flag's value type in usage messages.
func (r *PackageRuleList) Type() string {
	return "rule"
}
