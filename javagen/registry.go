package javagen

import (
	"context"
	"fmt"

	"github.com/CognitoIQ/jeegen/xsd"
	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// A schemaEntry is one loaded schema document.
type schemaEntry struct {
	url    string
	schema *xsd.Schema
	// The Java package types of this schema are generated into. Empty
	// for schemas loaded only because another schema includes them.
	pkg string
	// Set for schemas added as generation targets.
	target bool
}

// The registry owns every schema loaded during one generation run.
// Entries are kept in load order; lookups scan them in that order.
type registry struct {
	cfg     *Config
	fs      afs.Service
	entries []*schemaEntry
	byURL   map[string]*schemaEntry
	targets []*schemaEntry
}

func newRegistry(cfg *Config) *registry {
	return &registry{
		cfg:   cfg,
		fs:    cfg.fileSystem(),
		byURL: make(map[string]*schemaEntry),
	}
}

// load reads the schema at location and, recursively, every schema it
// includes. Included schemas are registered without a package. A
// schema that is already registered is not read again; if it had no
// package, it takes on pkg.
func (r *registry) load(ctx context.Context, location, pkg string, target bool) (*schemaEntry, error) {
	URL := url.Normalize(location, file.Scheme)
	if e, ok := r.byURL[URL]; ok {
		if err := r.assign(e, pkg, target); err != nil {
			return nil, err
		}
		return e, nil
	}

	data, err := r.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load schema: %v", URL)
	}
	schema, err := xsd.Parse(data, URL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse schema: %v", URL)
	}
	r.cfg.debugf("loaded %s (targetNamespace %q, %d declarations)", URL, schema.TargetNS, len(schema.Decls))

	e := &schemaEntry{url: URL, schema: schema}
	r.entries = append(r.entries, e)
	r.byURL[URL] = e
	if err := r.assign(e, pkg, target); err != nil {
		return nil, err
	}

	parent, _ := url.Split(URL, file.Scheme)
	for _, inc := range schema.Includes() {
		loc := inc.SchemaLocation
		if url.IsRelative(loc) {
			loc = url.JoinUNC(parent, loc)
		}
		if _, err := r.load(ctx, loc, "", false); err != nil {
			return nil, errors.Wrapf(err, "failed to load include of %v", URL)
		}
	}
	return e, nil
}

func (r *registry) assign(e *schemaEntry, pkg string, target bool) error {
	if pkg != "" {
		switch e.pkg {
		case "":
			e.pkg = pkg
		case pkg:
		default:
			return fmt.Errorf("schema %s is mapped to both package %s and %s", e.url, e.pkg, pkg)
		}
	}
	if target && !e.target {
		e.target = true
		r.targets = append(r.targets, e)
	}
	return nil
}

// lookup returns the schemas with the given target namespace, in load
// order.
func (r *registry) lookup(ns string) []*schemaEntry {
	var result []*schemaEntry
	for _, e := range r.entries {
		if e.schema.TargetNS == ns {
			result = append(result, e)
		}
	}
	return result
}

// packageFor returns the package that generated types of e live in.
// Asking for the package of a pure dependency is a configuration
// error: the referenced type is never generated anywhere.
func (r *registry) packageFor(e *schemaEntry, name string) (string, error) {
	if e.pkg == "" {
		return "", &ResolveError{
			Name:   xmlName(e.schema.TargetNS, name),
			Reason: "no package name known for schema " + e.url,
		}
	}
	return e.pkg, nil
}
