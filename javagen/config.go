package javagen

import (
	"github.com/viant/afs"
)

// A Config holds user-defined overrides that are used when generating
// Java source code from an xsd document.
type Config struct {
	logger   Logger
	loglevel int
	pkgname  string
	// Complex types with these names never produce a file.
	skipTypes []string
	// Types with these names map to Boolean in any namespace.
	booleanAliases []string
	ext            string
	fs             afs.Service
}

func (cfg *Config) errorf(format string, v ...interface{}) {
	if cfg.logger != nil {
		cfg.logger.Printf(format, v...)
	}
}
func (cfg *Config) logf(format string, v ...interface{}) {
	if cfg.logger != nil && cfg.loglevel > 0 {
		cfg.logger.Printf(format, v...)
	}
}
func (cfg *Config) debugf(format string, v ...interface{}) {
	if cfg.logger != nil && cfg.loglevel > 3 {
		cfg.logger.Printf(format, v...)
	}
}

func (cfg *Config) skipped(name string) bool {
	return contains(cfg.skipTypes, name)
}

func (cfg *Config) booleanAlias(name string) bool {
	return contains(cfg.booleanAliases, name)
}

func (cfg *Config) extension() string {
	if cfg.ext == "" {
		return ".java"
	}
	return cfg.ext
}

func (cfg *Config) fileSystem() afs.Service {
	if cfg.fs == nil {
		cfg.fs = afs.New()
	}
	return cfg.fs
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// An Option is used to customize a Config.
type Option func(*Config) Option

// DefaultOptions are the default options for Java source code
// generation. They match the conventions of the Java EE deployment
// descriptor schemas. The top-level Generate function of the javagen
// package uses these options. Every written file is reported to the
// Logger, if one is set.
var DefaultOptions = []Option{
	LogLevel(1),
	SkipTypes("emptyType", "generic-booleanType"),
	BooleanAliases("generic-booleanType"),
	FileExtension(".java"),
}

// The Option method is used to configure an existing configuration.
// The return value of the Option method can be used to revert the
// final option to its previous setting.
func (cfg *Config) Option(opts ...Option) (previous Option) {
	for _, opt := range opts {
		previous = opt(cfg)
	}
	return previous
}

// Types implementing the Logger interface can receive
// debug information from the code generation process.
// The Logger interface is implemented by *log.Logger.
type Logger interface {
	Printf(format string, v ...interface{})
}

// LogOutput specifies an optional Logger for warnings and debug
// information about the code generation process.
func LogOutput(l Logger) Option {
	return func(cfg *Config) Option {
		prev := cfg.logger
		cfg.logger = l
		return LogOutput(prev)
	}
}

// LogLevel sets the verbosity of messages sent to the error log
// configured with the LogOutput option. At level 1 every written
// file and every skipped type is reported; level 4 and above adds
// schema loads and type resolution traces.
func LogLevel(level int) Option {
	return func(cfg *Config) Option {
		prev := cfg.loglevel
		cfg.loglevel = level
		return LogLevel(prev)
	}
}

// PackageName specifies the default Java package of generated files.
// It is used by NewGenerator when no package is passed explicitly.
func PackageName(name string) Option {
	return func(cfg *Config) Option {
		prev := cfg.pkgname
		cfg.pkgname = name
		return PackageName(prev)
	}
}

// SkipTypes lists complex types, by local name, for which no file is
// generated regardless of their content.
func SkipTypes(names ...string) Option {
	return func(cfg *Config) Option {
		prev := cfg.skipTypes
		cfg.skipTypes = names
		return SkipTypes(prev...)
	}
}

// BooleanAliases lists types, by local name, that resolve to Boolean
// in any namespace instead of to a generated type.
func BooleanAliases(names ...string) Option {
	return func(cfg *Config) Option {
		prev := cfg.booleanAliases
		cfg.booleanAliases = names
		return BooleanAliases(prev...)
	}
}

// FileExtension sets the extension of generated files.
func FileExtension(ext string) Option {
	return func(cfg *Config) Option {
		prev := cfg.ext
		cfg.ext = ext
		return FileExtension(prev)
	}
}

// FileSystem sets the storage service schemas are read from and
// generated files are written to. Any URL scheme supported by the
// service may be used for schema locations and the output
// directory. The default is afs.New().
func FileSystem(fs afs.Service) Option {
	return func(cfg *Config) Option {
		prev := cfg.fs
		cfg.fs = fs
		return FileSystem(prev)
	}
}
