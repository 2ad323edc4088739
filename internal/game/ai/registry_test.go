package ai_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/witchery/internal/game/ai"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := ai.NewRegistry()
	h := ai.NewHeuristic(table(t))
	require.NoError(t, reg.Register(h))
	p, ok := reg.Lookup(ai.HeuristicName)
	require.True(t, ok)
	assert.Same(t, h, p)

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistry_Register_CollisionError(t *testing.T) {
	reg := ai.NewRegistry()
	h := ai.NewHeuristic(table(t))
	require.NoError(t, reg.Register(h))
	assert.Error(t, reg.Register(h))
}

func TestBuildRegistry(t *testing.T) {
	defs := []*ai.Definition{
		{Name: "classic", Kind: ai.KindHeuristic},
		{Name: "aggressive", Kind: ai.KindScript, Scripts: "agg"},
	}
	reg, err := ai.BuildRegistry(defs, table(t), &mockScriptCaller{}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"aggressive", "classic", ai.HeuristicName}, reg.Names())

	p, ok := reg.Lookup("classic")
	require.True(t, ok)
	assert.Equal(t, "classic", p.Name())
}

func TestBuildRegistry_Errors(t *testing.T) {
	_, err := ai.BuildRegistry([]*ai.Definition{{Name: "s", Kind: ai.KindScript}}, table(t), nil, nil)
	assert.Error(t, err, "script policy without caller")

	_, err = ai.BuildRegistry([]*ai.Definition{{Name: ai.HeuristicName, Kind: ai.KindHeuristic}}, table(t), nil, nil)
	assert.Error(t, err, "collides with the built-in")
}

func TestDefinition_Validate(t *testing.T) {
	assert.Error(t, (&ai.Definition{}).Validate())
	assert.Error(t, (&ai.Definition{Name: "x", Kind: "oracle"}).Validate())
	assert.NoError(t, (&ai.Definition{Name: "x", Kind: ai.KindScript}).Validate())
}

func TestDefinition_ScriptSet(t *testing.T) {
	assert.Equal(t, "x", (&ai.Definition{Name: "x"}).ScriptSet())
	assert.Equal(t, "s", (&ai.Definition{Name: "x", Scripts: "s"}).ScriptSet())
}

func TestLoadDefinitions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(`
policies:
  - name: bold
    kind: script
    hook: pick
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	defs, err := ai.LoadDefinitions(dir)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "pick", defs[0].Hook)
	assert.Equal(t, "bold", defs[0].ScriptSet())
}

func TestLoadDefinitions_Errors(t *testing.T) {
	dup := t.TempDir()
	body := []byte("policies:\n  - {name: a, kind: heuristic}\n")
	require.NoError(t, os.WriteFile(filepath.Join(dup, "a.yaml"), body, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dup, "b.yaml"), body, 0644))
	_, err := ai.LoadDefinitions(dup)
	assert.Error(t, err)

	bad := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(bad, "a.yaml"), []byte("policies:\n  - {name: a, kind: psychic}\n"), 0644))
	_, err = ai.LoadDefinitions(bad)
	assert.Error(t, err)

	_, err = ai.LoadDefinitions(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestLoadDefinitions_ShippedContent(t *testing.T) {
	defs, err := ai.LoadDefinitions("../../../content/policies")
	require.NoError(t, err)
	names := map[string]bool{}
	for _, d := range defs {
		names[d.Name] = true
	}
	assert.True(t, names["aggressive"])
	assert.True(t, names["cautious"])
}
