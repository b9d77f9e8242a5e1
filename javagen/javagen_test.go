package javagen

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/CognitoIQ/jeegen/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"golang.org/x/tools/txtar"
)

type testLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *testLogger) Printf(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func (l *testLogger) contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// A fixture is a txtar archive uploaded to its own mem:// root.
type fixture struct {
	fs   afs.Service
	root string
	urls map[string]string
	cfg  *Config
	log  *testLogger
}

func newFixture(t *testing.T, ar *txtar.Archive, opts ...Option) *fixture {
	fs := afs.New()
	root := testutil.Root(t)
	f := &fixture{
		fs:   fs,
		root: root,
		urls: testutil.Load(t, fs, root, ar),
		cfg:  new(Config),
		log:  new(testLogger),
	}
	f.cfg.Option(DefaultOptions...)
	f.cfg.Option(FileSystem(fs), LogOutput(f.log), LogLevel(5))
	f.cfg.Option(opts...)
	return f
}

func (f *fixture) out() string {
	return f.root + "/out"
}

func (f *fixture) generator(pkg string) *Generator {
	return NewGenerator(f.cfg, f.out(), pkg)
}

// generate adds the named schemas and runs the generator, returning
// the written files by path relative to the output directory.
func (f *fixture) generate(t *testing.T, pkg string, schemas ...string) (map[string]string, []string, error) {
	t.Helper()
	ctx := context.Background()
	g := f.generator(pkg)
	for _, s := range schemas {
		require.Contains(t, f.urls, s)
		if err := g.Add(ctx, f.urls[s]); err != nil {
			return nil, nil, err
		}
	}
	written, err := g.Generate(ctx)
	return f.read(t, written), f.relative(t, written), err
}

func (f *fixture) relative(t *testing.T, written []string) []string {
	var names []string
	for _, u := range written {
		require.True(t, strings.HasPrefix(u, f.out()+"/"), u)
		names = append(names, strings.TrimPrefix(u, f.out()+"/"))
	}
	return names
}

func (f *fixture) read(t *testing.T, written []string) map[string]string {
	files := make(map[string]string)
	for i, name := range f.relative(t, written) {
		files[name] = testutil.Read(t, f.fs, written[i])
	}
	return files
}

func paletteFixture(t *testing.T, opts ...Option) *fixture {
	return newFixture(t, testutil.ArchiveFile(t, "testdata/palette.txtar"), opts...)
}

func TestGenerateGolden(t *testing.T) {
	f := paletteFixture(t)
	files, order, err := f.generate(t, "org.example.dd", "schemas/main.xsd", "schemas/types.xsd")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"org/example/dd/Foo.java",
		"org/example/dd/PaletteType.java",
		"org/example/dd/Color.java",
		"org/example/dd/DescriptionGroup.java",
		"org/example/dd/DescriptionType.java",
	}, order)

	want := testutil.Expected(testutil.ArchiveFile(t, "testdata/palette.txtar"), ".java")
	require.Len(t, files, len(want))
	for name, src := range want {
		got, ok := files[strings.TrimPrefix(name, "want/")]
		if !assert.True(t, ok, "missing %s", name) {
			continue
		}
		testutil.Golden(t, name, src, got)
	}
	assert.True(t, f.log.contains("Created "+f.out()+"/org/example/dd/Foo.java"))
	assert.True(t, f.log.contains("skipping emptyType"))
}

func TestSimpleContentLayout(t *testing.T) {
	f := newFixture(t, testutil.Archive(`
-- handler.xsd --
<xsd:schema xmlns:xsd="http://www.w3.org/2001/XMLSchema"
            targetNamespace="urn:handler">
  <xsd:complexType name="handlerType">
    <xsd:annotation>
      <xsd:documentation>A handler.</xsd:documentation>
    </xsd:annotation>
    <xsd:simpleContent>
      <xsd:extension base="xsd:string">
        <xsd:attribute name="lang" type="xsd:string">
          <xsd:annotation>
            <xsd:documentation>Not printed.</xsd:documentation>
          </xsd:annotation>
        </xsd:attribute>
        <xsd:attribute name="default" type="xsd:boolean"/>
      </xsd:extension>
    </xsd:simpleContent>
  </xsd:complexType>
</xsd:schema>
`))
	files, _, err := f.generate(t, "p", "handler.xsd")
	require.NoError(t, err)
	testutil.Golden(t, "HandlerType.java", `package p;

/**
 * A handler.
 */
public interface HandlerType
{
   String getValue();
   void setValue(String value);
   String getLang();
   void setLang(String lang);
   String getDefault();
   void setDefault(String default_);
}
`, files["p/HandlerType.java"])
}

func TestDefaultLogLevelReportsWrittenFiles(t *testing.T) {
	f := paletteFixture(t)
	f.cfg = new(Config)
	f.cfg.Option(DefaultOptions...)
	f.cfg.Option(FileSystem(f.fs), LogOutput(f.log))

	_, order, err := f.generate(t, "org.example.dd", "schemas/main.xsd", "schemas/types.xsd")
	require.NoError(t, err)
	for _, name := range order {
		assert.True(t, f.log.contains("Created "+f.out()+"/"+name), name)
	}
	assert.False(t, f.log.contains("resolving "), "debug output at the default level")
}

func TestGenerateDeterministic(t *testing.T) {
	first, order1, err := paletteFixture(t).generate(t, "org.example.dd", "schemas/main.xsd", "schemas/types.xsd")
	require.NoError(t, err)
	second, order2, err := paletteFixture(t).generate(t, "org.example.dd", "schemas/main.xsd", "schemas/types.xsd")
	require.NoError(t, err)

	assert.Equal(t, order1, order2)
	assert.Equal(t, first, second)
}

func TestIncludeWithoutPackage(t *testing.T) {
	// types.xsd is only included, so its types have no package.
	f := paletteFixture(t)
	files, order, err := f.generate(t, "org.example.dd", "schemas/main.xsd")

	var rerr *ResolveError
	require.True(t, errors.As(err, &rerr), "got %v", err)
	assert.Contains(t, rerr.Reason, "no package name known")
	assert.Equal(t, "Color", rerr.Name.Local)

	// files written before the failure stay in place
	assert.Equal(t, []string{"org/example/dd/Foo.java"}, order)
	assert.Contains(t, files["org/example/dd/Foo.java"], "String getBar();")
}

func TestIncludePromotion(t *testing.T) {
	f := paletteFixture(t)
	ctx := context.Background()
	g := f.generator("org.example.dd")
	require.NoError(t, g.Add(ctx, f.urls["schemas/main.xsd"]))
	require.NoError(t, g.Add(ctx, f.urls["schemas/types.xsd"]))
	require.NoError(t, g.Add(ctx, f.urls["schemas/types.xsd"]))

	require.Len(t, g.reg.entries, 2)
	require.Len(t, g.reg.targets, 2)
	for _, e := range g.reg.entries {
		assert.Equal(t, "org.example.dd", e.pkg, e.url)
	}
}

func TestSkippedTypesAreExact(t *testing.T) {
	ar := testutil.Archive(`
-- a.xsd --
<schema xmlns="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:a">
  <complexType name="emptyType"/>
  <complexType name="emptyType2"/>
  <complexType name="generic-booleanType"><sequence/></complexType>
</schema>
`)
	files, order, err := newFixture(t, ar).generate(t, "p", "a.xsd")
	require.NoError(t, err)
	assert.Equal(t, []string{"p/EmptyType2.java"}, order)
	assert.Equal(t, "package p;\n\npublic interface EmptyType2\n{\n}\n", files["p/EmptyType2.java"])

	// with no skip rules, the marker types are ordinary
	_, order, err = newFixture(t, ar, SkipTypes()).generate(t, "p", "a.xsd")
	require.NoError(t, err)
	assert.Equal(t, []string{"p/EmptyType.java", "p/EmptyType2.java", "p/GenericBooleanType.java"}, order)
}

const commonSchema = `
-- common.xsd --
<xsd:schema xmlns:xsd="http://www.w3.org/2001/XMLSchema"
            xmlns:c="urn:common" targetNamespace="urn:common">
  <xsd:complexType name="iconType">
    <xsd:sequence>
      <xsd:element name="small-icon" type="xsd:string"/>
    </xsd:sequence>
  </xsd:complexType>
  <xsd:simpleType name="res-authType">
    <xsd:restriction base="xsd:string">
      <xsd:enumeration value="Application"/>
      <xsd:enumeration value="Container"/>
    </xsd:restriction>
  </xsd:simpleType>
</xsd:schema>
-- web.xsd --
<xsd:schema xmlns:xsd="http://www.w3.org/2001/XMLSchema"
            xmlns:c="urn:common" xmlns:w="urn:web" targetNamespace="urn:web">
  <xsd:import namespace="urn:common" schemaLocation="common.xsd"/>
  <xsd:complexType name="servletType">
    <xsd:sequence>
      <xsd:element name="icon" type="c:iconType" maxOccurs="unbounded"/>
      <xsd:element name="res-auth" type="c:res-authType"/>
      <xsd:element name="local" type="w:localType"/>
    </xsd:sequence>
  </xsd:complexType>
  <xsd:complexType name="localType">
    <xsd:sequence/>
  </xsd:complexType>
</xsd:schema>
`

func TestCrossPackageQualification(t *testing.T) {
	f := newFixture(t, testutil.Archive(commonSchema))
	ctx := context.Background()
	g := f.generator("org.example.web")
	require.NoError(t, g.Known(ctx, f.urls["common.xsd"], "org.example.common"))
	require.NoError(t, g.Add(ctx, f.urls["web.xsd"]))
	written, err := g.Generate(ctx)
	require.NoError(t, err)

	// the enum belongs to the other package's run
	assert.Equal(t, []string{
		"org/example/web/ServletType.java",
		"org/example/web/LocalType.java",
	}, f.relative(t, written))

	src := f.read(t, written)["org/example/web/ServletType.java"]
	assert.Contains(t, src, "   java.util.List<org.example.common.IconType> getIcon();\n")
	assert.Contains(t, src, "   org.example.common.ResAuthType getResAuth();\n")
	assert.Contains(t, src, "   LocalType getLocal();\n")
}

func TestSamePackageKnownSchemaIsBare(t *testing.T) {
	f := newFixture(t, testutil.Archive(commonSchema))
	ctx := context.Background()
	g := f.generator("org.example")
	require.NoError(t, g.Known(ctx, f.urls["common.xsd"], "org.example"))
	require.NoError(t, g.Add(ctx, f.urls["web.xsd"]))
	written, err := g.Generate(ctx)
	require.NoError(t, err)

	files := f.read(t, written)
	assert.Contains(t, files["org/example/ServletType.java"], "   java.util.List<IconType> getIcon();\n")
	assert.Contains(t, files["org/example/ResAuthType.java"], "   Application,\n   Container,\n")
}

func TestConflictingPackages(t *testing.T) {
	f := newFixture(t, testutil.Archive(commonSchema))
	ctx := context.Background()
	g := f.generator("org.example.web")
	require.NoError(t, g.Known(ctx, f.urls["common.xsd"], "org.example.common"))
	err := g.Known(ctx, f.urls["common.xsd"], "org.example.other")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both package")
}

func TestUnresolvedReference(t *testing.T) {
	f := newFixture(t, testutil.Archive(commonSchema))
	_, _, err := f.generate(t, "org.example.web", "web.xsd")

	var rerr *ResolveError
	require.True(t, errors.As(err, &rerr), "got %v", err)
	assert.Equal(t, "urn:common", rerr.Name.Space)
	assert.Equal(t, "iconType", rerr.Name.Local)
	assert.Contains(t, err.Error(), "web.xsd")
}

func TestShapeErrors(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{
			name: "deep nesting",
			body: `<complexType name="t"><sequence><choice><sequence><element name="a" type="string"/></sequence></choice></sequence></complexType>`,
			want: "sequence with 1 particles in t",
		},
		{
			name: "wildcard",
			body: `<group name="g"><sequence><any/></sequence></group>`,
			want: "any in g",
		},
		{
			name: "element ref",
			body: `<complexType name="t"><sequence><element ref="x:top"/></sequence></complexType>`,
			want: `element ref="top" in t`,
		},
		{
			name: "anonymous type",
			body: `<complexType name="t"><sequence><element name="a"><complexType/></element></sequence></complexType>`,
			want: `element "a" without a named type in t`,
		},
		{
			name: "choice content",
			body: `<complexType name="t"><choice><element name="a" type="string"/></choice></complexType>`,
			want: "choice with 1 particles in t",
		},
		{
			name: "complex content",
			body: `<complexType name="t"><complexContent><extension base="x:u"/></complexContent></complexType>`,
			want: `complexContent extension of "u" in t`,
		},
		{
			name: "attribute group in simple content",
			body: `<complexType name="t"><simpleContent><extension base="string"><attributeGroup ref="x:ag"/></extension></simpleContent></complexType>`,
			want: `attributeGroup ref="ag" in t`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ar := testutil.Archive(`-- a.xsd --
<schema xmlns="http://www.w3.org/2001/XMLSchema" xmlns:x="urn:a" targetNamespace="urn:a">
` + tt.body + `
</schema>
`)
			_, _, err := newFixture(t, ar).generate(t, "p", "a.xsd")
			var serr *ShapeError
			require.True(t, errors.As(err, &serr), "got %v", err)
			assert.Contains(t, serr.Error(), tt.want)
		})
	}
}

func TestLoadFailures(t *testing.T) {
	f := newFixture(t, testutil.Archive(`-- bad.xsd --
<schema xmlns="http://www.w3.org/2001/XMLSchema"><complexType>
-- broken-include.xsd --
<schema xmlns="http://www.w3.org/2001/XMLSchema"><include schemaLocation="nowhere.xsd"/></schema>
`))
	ctx := context.Background()
	g := f.generator("p")

	err := g.Add(ctx, f.root+"/missing.xsd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load schema")

	err = g.Add(ctx, f.urls["bad.xsd"])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse schema")

	err = g.Add(ctx, f.urls["broken-include.xsd"])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nowhere.xsd")
}

func TestAddWithoutPackage(t *testing.T) {
	var cfg Config
	g := NewGenerator(&cfg, "mem://localhost/nopkg", "")
	assert.Error(t, g.Add(context.Background(), "mem://localhost/nopkg/a.xsd"))

	cfg.Option(PackageName("org.example"))
	g = NewGenerator(&cfg, "mem://localhost/nopkg", "")
	assert.Equal(t, "org.example", g.pkg)
}

func TestTopLevelGenerate(t *testing.T) {
	f := paletteFixture(t)
	written, err := Generate(context.Background(), f.out(), "org.example.dd",
		f.urls["schemas/main.xsd"], f.urls["schemas/types.xsd"])
	require.NoError(t, err)
	names := f.relative(t, written)
	sort.Strings(names)
	assert.Equal(t, []string{
		"org/example/dd/Color.java",
		"org/example/dd/DescriptionGroup.java",
		"org/example/dd/DescriptionType.java",
		"org/example/dd/Foo.java",
		"org/example/dd/PaletteType.java",
	}, names)
}

func TestFileExtension(t *testing.T) {
	f := paletteFixture(t, FileExtension(".txt"))
	_, order, err := f.generate(t, "org.example.dd", "schemas/main.xsd", "schemas/types.xsd")
	require.NoError(t, err)
	assert.Equal(t, "org/example/dd/Foo.txt", order[0])
}

func TestOptionRevert(t *testing.T) {
	var cfg Config
	cfg.Option(DefaultOptions...)
	prev := cfg.Option(SkipTypes("fooType"))
	assert.True(t, cfg.skipped("fooType"))
	assert.False(t, cfg.skipped("emptyType"))

	cfg.Option(prev)
	assert.True(t, cfg.skipped("emptyType"))
	assert.False(t, cfg.skipped("fooType"))
}
