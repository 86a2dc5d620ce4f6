package utils

import (
	"path/filepath"

	"github.com/funvibe/bladec/internal/config"
)

// ResolvePath resolves p relative to baseDir unless it is absolute.
// An empty p stays empty.
func ResolvePath(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) || baseDir == "" || baseDir == "." {
		return p
	}
	return filepath.Join(baseDir, p)
}

// ManifestPath returns the location of the generation manifest for an
// output directory.
func ManifestPath(outDir string) string {
	return filepath.Join(outDir, config.ManifestDir, config.ManifestFile)
}

// GeneratedFileName names the generated file of an operator group.
// Example: "AntiGeometric" -> "anti_geometric.go".
func GeneratedFileName(group string) string {
	return SnakeCase(group) + config.GeneratedExt
}
