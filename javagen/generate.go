package javagen

import (
	"bytes"
	"context"

	"github.com/CognitoIQ/jeegen/internal/gen"
	"github.com/CognitoIQ/jeegen/xsd"
	"github.com/pkg/errors"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// A Generator generates Java source for the schemas added to it,
// writing one file per type into a single package. A Generator is
// meant for one run: add schemas, then call Generate once.
type Generator struct {
	cfg       *Config
	outputDir string
	pkg       string
	reg       *registry
	resolver  *resolver
	// URLs of files written so far.
	written []string
	// Enumerations already written, by enumRef.key.
	enums map[string]bool
}

// NewGenerator returns a Generator writing into the package pkg below
// outputDir. If pkg is empty, the package configured with the
// PackageName option is used.
func NewGenerator(cfg *Config, outputDir, pkg string) *Generator {
	if pkg == "" {
		pkg = cfg.pkgname
	}
	reg := newRegistry(cfg)
	return &Generator{
		cfg:       cfg,
		outputDir: url.Normalize(outputDir, file.Scheme),
		pkg:       pkg,
		reg:       reg,
		resolver:  &resolver{cfg: cfg, reg: reg},
		enums:     make(map[string]bool),
	}
}

// Add loads the schema at location, and the schemas it includes, and
// marks it for generation into the Generator's package.
func (g *Generator) Add(ctx context.Context, location string) error {
	if g.pkg == "" {
		return errors.New("no output package name")
	}
	_, err := g.reg.load(ctx, location, g.pkg, true)
	return err
}

// Known loads a schema whose types are generated into package pkg by
// another run. References to its types are qualified with pkg; no
// files are written for it.
func (g *Generator) Known(ctx context.Context, location, pkg string) error {
	if pkg == "" {
		return errors.New("no package name for known schema " + location)
	}
	_, err := g.reg.load(ctx, location, pkg, false)
	return err
}

// Generate writes a file for every top-level declaration of the added
// schemas, in the order they were added and declared. It returns the
// URLs of the files written. Generation stops at the first error;
// files written before it are left in place and included in the
// returned list.
func (g *Generator) Generate(ctx context.Context) ([]string, error) {
	if err := g.mkdir(ctx); err != nil {
		return nil, err
	}
	for _, e := range g.reg.targets {
		for _, decl := range e.schema.Decls {
			if err := g.emit(ctx, decl); err != nil {
				return g.written, errors.Wrapf(err, "%s", e.url)
			}
		}
	}
	return g.written, nil
}

func (g *Generator) emit(ctx context.Context, decl xsd.Decl) error {
	g.resolver.reached = g.resolver.reached[:0]
	unit, err := g.unitFor(decl)
	if err != nil {
		return err
	}
	if unit != nil {
		if err := g.write(ctx, unit); err != nil {
			return err
		}
	}
	return g.emitReached(ctx)
}

// emitReached writes the enumerations that resolution passed through
// while building the last unit. Enumerations of other packages are
// written by the runs generating those packages.
func (g *Generator) emitReached(ctx context.Context) error {
	for _, ref := range g.resolver.reached {
		if ref.owner.pkg != g.pkg || g.enums[ref.key()] {
			continue
		}
		g.enums[ref.key()] = true
		restriction := ref.decl.Derivation.(*xsd.Restriction)
		if err := g.write(ctx, enumUnit(ref.decl.Name, ref.decl.Doc, restriction)); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) dir() string {
	return url.Join(g.outputDir, gen.PackageDir(g.pkg))
}

func (g *Generator) mkdir(ctx context.Context) error {
	fs := g.cfg.fileSystem()
	dir := g.dir()
	exists, err := fs.Exists(ctx, dir)
	if err != nil {
		return errors.Wrapf(err, "failed to check output directory: %v", dir)
	}
	if exists {
		return nil
	}
	if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
		return errors.Wrapf(err, "failed to create output directory: %v", dir)
	}
	return nil
}

func (g *Generator) write(ctx context.Context, unit gen.Unit) error {
	f := &gen.File{Package: g.pkg, Unit: unit}
	src, err := f.Source()
	if err != nil {
		return err
	}
	URL := url.Join(g.dir(), f.FileName(g.cfg.extension()))
	if err := g.cfg.fileSystem().Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(src)); err != nil {
		return errors.Wrapf(err, "failed to write: %v", URL)
	}
	g.written = append(g.written, URL)
	g.cfg.logf("Created %s", URL)
	return nil
}

// Generate generates Java source for the schema files into package
// pkg below outputDir, using DefaultOptions, and returns the URLs of
// the files written.
func Generate(ctx context.Context, outputDir, pkg string, files ...string) ([]string, error) {
	var cfg Config
	cfg.Option(DefaultOptions...)
	g := NewGenerator(&cfg, outputDir, pkg)
	for _, f := range files {
		if err := g.Add(ctx, f); err != nil {
			return nil, err
		}
	}
	return g.Generate(ctx)
}
