package javagen

import (
	"context"
	"fmt"
	"io"

	"github.com/CognitoIQ/jeegen/internal/commandline"
	"github.com/CognitoIQ/jeegen/xsd"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// GenCLI runs the jeegen command line with the given arguments. It is
// meant to be called from a main package, and can be used to change
// the behavior of the jeegen command in ways that its command-line
// arguments do not allow. A failure is reported to the configured
// Logger before it is returned.
func (cfg *Config) GenCLI(arguments ...string) error {
	cmd := cfg.Command()
	cmd.SetArgs(arguments)
	if err := cmd.Execute(); err != nil {
		cfg.errorf("%v", err)
		return err
	}
	return nil
}

// Command returns the jeegen command tree. Options already set on cfg
// apply to every subcommand; flags and the configuration file are
// applied on top of them.
func (cfg *Config) Command() *cobra.Command {
	v := viper.New()
	root := &cobra.Command{
		Use:   "jeegen",
		Short: "Generate Java interfaces and enums from XML Schema",
		Long: `jeegen reads XML Schema documents, such as the Java EE deployment
descriptor schemas, and writes a Java interface for every named group
and complex type and a Java enum for every enumerated simple type they
use.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "YAML configuration file")
	root.PersistentFlags().CountP("verbose", "v", "log more than the files written (repeatable)")
	_ = v.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			return nil
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config: %v", path)
		}
		return nil
	}

	root.AddCommand(cfg.generateCommand(v), cfg.inspectCommand(v))
	return root
}

// applyVerbosity raises the log level by one per -v.
func (cfg *Config) applyVerbosity(v *viper.Viper) {
	if n := v.GetInt("verbose"); n > 0 {
		cfg.Option(LogLevel(cfg.loglevel + n))
	}
}

func (cfg *Config) generateCommand(v *viper.Viper) *cobra.Command {
	var known commandline.PackageRuleList
	cmd := &cobra.Command{
		Use:   "generate [flags] schema.xsd ...",
		Short: "Generate Java source from schema files",
		Long: `Generate writes one Java source file per named group, complex type and
enumerated simple type of the given schemas. Files are written below the
output directory, in the directory of the package given with -p.

Schemas that were generated into another package are passed with
--known, so that references to their types are qualified:

	jeegen generate -o src -p org.jboss.metadata.web \
		--known "javaee_6.xsd -> org.jboss.metadata.javaee" web-app_3_0.xsd`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.applyVerbosity(v)
			schemas := args
			if len(schemas) == 0 {
				schemas = v.GetStringSlice("schemas")
			}
			if len(schemas) == 0 {
				return errors.New("no schema files given")
			}
			for _, rule := range v.GetStringSlice("known") {
				if err := known.Set(rule); err != nil {
					return err
				}
			}
			pkg := v.GetString("package")
			if pkg == "" && cfg.pkgname == "" {
				return errors.New("no output package given, use -p")
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			g := NewGenerator(cfg, v.GetString("output"), pkg)
			for _, rule := range known {
				if err := g.Known(ctx, rule.Schema, rule.Package); err != nil {
					return err
				}
			}
			for _, s := range schemas {
				if err := g.Add(ctx, s); err != nil {
					return err
				}
			}
			_, err := g.Generate(ctx)
			return err
		},
	}
	cmd.Flags().StringP("output", "o", ".", "root directory of the generated source")
	cmd.Flags().StringP("package", "p", "", "Java package of the generated source")
	cmd.Flags().Var(&known, "known", `schema generated elsewhere, as "schema.xsd -> package" (repeatable)`)
	_ = v.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = v.BindPFlag("package", cmd.Flags().Lookup("package"))
	return cmd
}

func (cfg *Config) inspectCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect schema.xsd ...",
		Short: "List the declarations of schema files and their includes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.applyVerbosity(v)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			reg := newRegistry(cfg)
			for _, s := range args {
				if _, err := reg.load(ctx, s, "", false); err != nil {
					return err
				}
			}
			for _, e := range reg.entries {
				printSchema(cmd.OutOrStdout(), e.url, e.schema)
			}
			return nil
		},
	}
}

func printSchema(w io.Writer, location string, s *xsd.Schema) {
	fmt.Fprintf(w, "%s\n", location)
	if s.TargetNS != "" {
		fmt.Fprintf(w, "\ttargetNamespace %s\n", s.TargetNS)
	}
	for _, d := range s.Directives {
		switch d := d.(type) {
		case *xsd.Include:
			fmt.Fprintf(w, "\tinclude %s\n", d.SchemaLocation)
		case *xsd.Import:
			fmt.Fprintf(w, "\timport %s %s\n", d.Namespace, d.SchemaLocation)
		}
	}
	for _, d := range s.Decls {
		fmt.Fprintf(w, "\t%s\n", summary(d))
	}
}

func summary(d xsd.Decl) string {
	switch d := d.(type) {
	case *xsd.Group:
		return fmt.Sprintf("group %s (%s)", d.Name, d.Model.Kind)
	case *xsd.ComplexType:
		switch c := d.Content.(type) {
		case nil:
			return fmt.Sprintf("complexType %s (empty)", d.Name)
		case *xsd.ModelGroup:
			return fmt.Sprintf("complexType %s (%s)", d.Name, c.Kind)
		case *xsd.SimpleContent:
			if c.Extension != nil {
				return fmt.Sprintf("complexType %s (simpleContent extension of %s)", d.Name, c.Extension.Base.Local)
			}
			return fmt.Sprintf("complexType %s (simpleContent restriction of %s)", d.Name, c.Restriction.Base.Local)
		default:
			return fmt.Sprintf("complexType %s (%s)", d.Name, describe(c))
		}
	case *xsd.SimpleType:
		switch r := d.Derivation.(type) {
		case *xsd.Restriction:
			return fmt.Sprintf("simpleType %s (restriction of %s, %d facets)", d.Name, r.Base.Local, len(r.Facets))
		case *xsd.List:
			return fmt.Sprintf("simpleType %s (list of %s)", d.Name, r.ItemType.Local)
		default:
			return fmt.Sprintf("simpleType %s (%s)", d.Name, describe(r))
		}
	}
	return describe(d)
}
