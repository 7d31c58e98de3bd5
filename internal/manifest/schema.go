package manifest

// File represents the root of a YAML manifest.
type File struct {
	// Version of the manifest schema.
	Version string `yaml:"version,omitempty"`

	// Package is the package path the declared types belong to.
	Package string `yaml:"package"`

	// Types are the declarations, in any order.
	Types []TypeDecl `yaml:"types"`
}

// TypeDecl declares one type.
type TypeDecl struct {
	Name string `yaml:"name"`

	// Kind is "class" (the default, "struct" is accepted) or "interface".
	Kind string `yaml:"kind,omitempty"`

	// Params makes the declaration a generic definition.
	Params []string `yaml:"params,omitempty"`

	// Base is the type expression of the base type. Classes without a base
	// derive from Object.
	Base string `yaml:"base,omitempty"`

	// Interfaces are type expressions of directly implemented interfaces.
	Interfaces StringOrArray `yaml:"interfaces,omitempty"`

	Constructors []ConstructorDecl `yaml:"constructors,omitempty"`
}

// IsGeneric reports whether the declaration has type parameters.
func (d *TypeDecl) IsGeneric() bool {
	return len(d.Params) > 0
}

// ConstructorDecl declares a constructor.
type ConstructorDecl struct {
	Name string `yaml:"name"`

	// Exported defaults to true.
	Exported *bool `yaml:"exported,omitempty"`

	Params ParamDecls `yaml:"params,omitempty"`
}

// IsExported reports whether the constructor is publicly accessible.
func (c *ConstructorDecl) IsExported() bool {
	return c.Exported == nil || *c.Exported
}

// ParamDecl declares a constructor parameter.
type ParamDecl struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// ParamDecls is a parameter list. YAML accepts {name: x, type: T} objects
// and the {x: T} shorthand.
type ParamDecls []ParamDecl

// StringOrArray accepts a single string or a list of strings.
type StringOrArray []string
