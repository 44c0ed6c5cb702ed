package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCaseInsensitive(t *testing.T) {
	s := NewSource()
	s.Merge(map[string]interface{}{"Email": "user@corp.example"})

	v, ok := s.Lookup("email")
	require.True(t, ok)
	assert.Equal(t, "user@corp.example", v)

	v, ok = s.Lookup("EMAIL")
	require.True(t, ok)
	assert.Equal(t, "user@corp.example", v)

	_, ok = s.Lookup("missing")
	assert.False(t, ok)
}

func TestLookupNilSourceIsSafe(t *testing.T) {
	var s *Source

	_, ok := s.Lookup("anything")
	assert.False(t, ok)
}

func TestMergeKeepsExistingValues(t *testing.T) {
	s := NewSource()
	s.Merge(map[string]interface{}{"name": "from-file"})
	s.Merge(map[string]interface{}{"name": "from-db", "city": "Berlin"})

	v, _ := s.Lookup("name")
	assert.Equal(t, "from-file", v, "first source wins on conflict")
	v, _ = s.Lookup("city")
	assert.Equal(t, "Berlin", v)
	assert.Equal(t, 2, s.Len())
}

func TestMergeSkipsNilValues(t *testing.T) {
	s := NewSource()
	s.Merge(map[string]interface{}{"empty": nil})

	_, ok := s.Lookup("empty")
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.json")
	content := `{
	  "fields": {"email": "seeded@corp.example", "age": 33},
	  "endpoints": {
	    "POST /users": {"username": "jdoe"}
	  }
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s := NewSource()
	require.NoError(t, LoadFile(s, path))

	v, ok := s.Lookup("email")
	require.True(t, ok)
	assert.Equal(t, "seeded@corp.example", v)

	v, ok = s.Lookup("username")
	require.True(t, ok)
	assert.Equal(t, "jdoe", v)

	assert.Equal(t, 3, s.Len())
}

func TestLoadFileMissing(t *testing.T) {
	s := NewSource()
	assert.Error(t, LoadFile(s, "/nonexistent/seeds.json"))
}

func TestLoadFileInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	s := NewSource()
	assert.Error(t, LoadFile(s, path))
}
