/*
jeegen is a tool to generate Java interfaces and enums from XML Schema
documents, such as the Java EE deployment descriptor schemas.

Usage:

	jeegen generate [-v] [-o dir] -p package [--known "file.xsd -> package"] file.xsd ...
	jeegen inspect file.xsd ...

For every named group and complex type of the given schemas, generate
writes an interface with a getter and setter per element, extending the
interfaces of the groups it references. Complex types with simple
content and attributes get a Value property plus one String property
per attribute. Enumerated simple types become enums when a property
refers to them. Files are written below the output directory, in the
directory of the package, one file per type.

Included schemas are loaded as well, relative to the including file.
Their types can be referred to, but are only generated if the schema
is also passed on the command line. Schemas whose types were generated
into another package are named with --known; references to their types
are qualified with that package.

Schema locations and the output directory may be local paths or any
URL supported by github.com/viant/afs.

Every file written and every type skipped is reported on standard
error. With -vvv, schema loads and type resolution are traced too.

The --config flag names a YAML file providing defaults for output,
package, schemas, known and verbose.

Inspect lists the include directives and top-level declarations of
each schema and of the schemas it includes.
*/
package main
