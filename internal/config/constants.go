package config

// Version is the bladec release.
const Version = "0.1.0"

// Config file names searched by Find, in order.
var ConfigFileNames = []string{"bladec.yaml", "bladec.yml"}

// Output defaults
const (
	DefaultOutDir  = "."
	DefaultPolicy  = "first"
	GeneratedExt   = ".go"
	MarkdownReport = "ALGEBRA.md"
)

// Manifest location, relative to the output directory
const (
	ManifestDir  = ".bladec"
	ManifestFile = "manifest.db"
)

// Names of the operands in generated operators
const (
	SelfName  = "self"
	OtherName = "other"
)

// Name of the scalar coefficient type in generated code
const ScalarTypeName = "float32"
