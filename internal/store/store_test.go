package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGet_RoundTrip(t *testing.T) {
	s := New(t.TempDir())

	err := s.Put("abc12345", "plan_generation", "test_plan.json", []byte(`{"test_plan":{}}`))
	require.NoError(t, err)

	content, err := s.Get("abc12345", "plan_generation", "test_plan.json")
	require.NoError(t, err)
	assert.Equal(t, `{"test_plan":{}}`, string(content))
}

func TestPut_OverwritesPreviousValue(t *testing.T) {
	s := New(t.TempDir())

	require.NoError(t, s.Put("abc12345", "rendering", "test_plan.md", []byte("v1")))
	require.NoError(t, s.Put("abc12345", "rendering", "test_plan.md", []byte("v2")))

	content, err := s.Get("abc12345", "rendering", "test_plan.md")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(content))
}

func TestGet_Missing(t *testing.T) {
	s := New(t.TempDir())

	_, err := s.Get("abc12345", "plan_generation", "test_plan.json")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "test_plan.json")
	assert.Contains(t, err.Error(), "abc12345")
}

func TestExists(t *testing.T) {
	s := New(t.TempDir())

	assert.False(t, s.Exists("abc12345", "rendering", "test_plan.md"))
	require.NoError(t, s.Put("abc12345", "rendering", "test_plan.md", []byte("x")))
	assert.True(t, s.Exists("abc12345", "rendering", "test_plan.md"))
}

func TestSessionExists(t *testing.T) {
	s := New(t.TempDir())

	assert.False(t, s.SessionExists("abc12345"))
	require.NoError(t, s.Put("abc12345", "rendering", "test_plan.md", []byte("x")))
	assert.True(t, s.SessionExists("abc12345"))
}

func TestSessions_AreIsolated(t *testing.T) {
	s := New(t.TempDir())

	require.NoError(t, s.Put("aaaa1111", "rendering", "test_plan.md", []byte("a")))
	require.NoError(t, s.Put("bbbb2222", "rendering", "test_plan.md", []byte("b")))

	a, err := s.Get("aaaa1111", "rendering", "test_plan.md")
	require.NoError(t, err)
	b, err := s.Get("bbbb2222", "rendering", "test_plan.md")
	require.NoError(t, err)
	assert.Equal(t, "a", string(a))
	assert.Equal(t, "b", string(b))
}
