package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/bladec/internal/config"
	"github.com/funvibe/bladec/internal/output"
	"github.com/funvibe/bladec/internal/utils"
)

func run(load *LoadStage, out string, dryRun, markdown bool) *PipelineContext {
	p := New(
		load,
		&CompileStage{Parallelism: 4, Cache: true},
		&RenderStage{Markdown: markdown},
		&WriteStage{OutDir: out, DryRun: dryRun},
	)
	return p.Run(NewPipelineContext(context.Background()))
}

func statuses(ctx *PipelineContext) map[string]output.Status {
	out := make(map[string]output.Status, len(ctx.Written))
	for _, w := range ctx.Written {
		out[w.Filename] = w.Status
	}
	return out
}

func TestPresetEndToEnd(t *testing.T) {
	out := t.TempDir()
	ctx := run(&LoadStage{Preset: "pga2d"}, out, false, true)
	require.Empty(t, ctx.Errors)

	assert.Equal(t, "preset pga2d", ctx.Source)
	assert.NotEmpty(t, ctx.RunID)
	written := statuses(ctx)
	assert.Equal(t, output.Created, written["types.go"])
	assert.Equal(t, output.Created, written[config.MarkdownReport])
	assert.FileExists(t, filepath.Join(out, "wedge.go"))
	assert.FileExists(t, utils.ManifestPath(out))

	data, err := os.ReadFile(filepath.Join(out, "types.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "package pga2d")

	// A second run over the same algebra changes nothing.
	again := run(&LoadStage{Preset: "pga2d"}, out, false, true)
	require.Empty(t, again.Errors)
	for name, status := range statuses(again) {
		assert.Equal(t, output.Unchanged, status, name)
	}
}

const planeAlgebra = `name: Plane Algebra
grammar: [1, 1]
blades:
  - {name: X, factors: [0]}
  - {name: Y, factors: [1]}
  - {name: XY, factors: [0, 1]}
aggregates:
  - name: Vector
    members:
      - {name: x, type: X}
      - {name: y, type: Y}
package: plane
`

func TestConfigFileIsFound(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileNames[0]), []byte(planeAlgebra), 0o644))

	out := t.TempDir()
	ctx := run(&LoadStage{Dir: nested}, out, true, false)
	require.Empty(t, ctx.Errors)
	assert.Equal(t, filepath.Join(dir, config.ConfigFileNames[0]), ctx.Source)
	assert.Equal(t, "Plane Algebra", ctx.Algebra.Name)

	// Dry runs report statuses without writing.
	assert.Equal(t, output.Created, statuses(ctx)["types.go"])
	assert.NoFileExists(t, filepath.Join(out, "types.go"))
	require.NotEmpty(t, ctx.Files)
	assert.Contains(t, ctx.Files[0].Content, "package plane")
}

func TestConfigPathIsRelativeToDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plane.yaml"), []byte(planeAlgebra), 0o644))

	ctx := run(&LoadStage{Dir: dir, ConfigPath: "plane.yaml"}, t.TempDir(), true, false)
	require.Empty(t, ctx.Errors)
	assert.Equal(t, filepath.Join(dir, "plane.yaml"), ctx.Source)
	assert.Equal(t, "plane", ctx.Algebra.Package)
}

func TestNoAlgebra(t *testing.T) {
	ctx := run(&LoadStage{Dir: t.TempDir()}, t.TempDir(), true, false)
	require.Len(t, ctx.Errors, 1)
	assert.ErrorIs(t, ctx.Errors[0], ErrNoAlgebra)
	assert.Nil(t, ctx.Table)
	assert.Empty(t, ctx.Written)
}

func TestLaterStagesSkipAfterFailure(t *testing.T) {
	ctx := run(&LoadStage{Preset: "nope"}, t.TempDir(), false, false)
	require.Len(t, ctx.Errors, 1)
	assert.Contains(t, ctx.Errors[0].Error(), "unknown preset")
	assert.Nil(t, ctx.Registry)
	assert.Nil(t, ctx.Files)
}

func TestCancelledCompile(t *testing.T) {
	c, cancel := context.WithCancel(context.Background())
	cancel()
	p := New(&LoadStage{Preset: "pga3d"}, &CompileStage{Parallelism: 2})
	ctx := p.Run(NewPipelineContext(c))
	require.Len(t, ctx.Errors, 1)
	assert.ErrorIs(t, ctx.Errors[0], context.Canceled)
}
