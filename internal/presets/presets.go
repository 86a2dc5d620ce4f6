// Package presets ships ready-made algebra configurations.
package presets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/funvibe/bladec/internal/config"
)

//go:embed *.yaml
var files embed.FS

const ext = ".yaml"

// Names lists the available presets in lexical order.
func Names() []string {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ext); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Load parses the named preset.
func Load(name string) (*config.Algebra, error) {
	file := path.Clean(name) + ext
	data, err := files.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return config.Parse(data, "preset:"+file)
}
