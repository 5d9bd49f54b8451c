package world

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const arenaYAML = `
map:
  id: map19
  name: The Pit
  arena: true
  spawn_x: 100
  spawn_y: 100
`

const townYAML = `
map:
  id: map1
  name: Town Square
  arena: false
  spawn_x: 240
  spawn_y: 160
`

func TestLoadMapFromBytes(t *testing.T) {
	m, err := LoadMapFromBytes([]byte(arenaYAML))
	require.NoError(t, err)
	assert.Equal(t, "map19", m.ID)
	assert.Equal(t, "The Pit", m.Name)
	assert.True(t, m.Arena)
	assert.Equal(t, 100.0, m.SpawnX)
	assert.Equal(t, 100.0, m.SpawnY)
}

func TestLoadMapFromBytes_InvalidYAML(t *testing.T) {
	_, err := LoadMapFromBytes([]byte("map: [not a map"))
	assert.Error(t, err)
}

func TestLoadMapFromBytes_MissingID(t *testing.T) {
	_, err := LoadMapFromBytes([]byte("map:\n  name: Nameless\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must have an id")
}

func TestNewCatalog_DuplicateID(t *testing.T) {
	_, err := NewCatalog([]*Map{
		{ID: "map19", Name: "A"},
		{ID: "map19", Name: "B"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate map id")
}

func TestCatalogLookup(t *testing.T) {
	c, err := NewCatalog([]*Map{
		{ID: "map19", Name: "The Pit", Arena: true},
		{ID: "map1", Name: "Town Square"},
	})
	require.NoError(t, err)

	m, ok := c.Lookup("map19")
	require.True(t, ok)
	assert.True(t, m.Arena)

	_, ok = c.Lookup("map404")
	assert.False(t, ok)
	assert.True(t, c.Contains("map1"))
	assert.Equal(t, 2, c.Len())
}

func TestLoadCatalogFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "map19.yaml"), []byte(arenaYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "map1.yaml"), []byte(townYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	c, err := LoadCatalogFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	m, ok := c.Lookup("map1")
	require.True(t, ok)
	assert.Equal(t, 240.0, m.SpawnX)
}

func TestLoadCatalogFromDir_Empty(t *testing.T) {
	_, err := LoadCatalogFromDir(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no map files found")
}
