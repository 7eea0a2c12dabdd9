package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_Default(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing", "content.txt"))
	text, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, DefaultContent, text)
}

func TestWriteRead(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nested", "content.txt"))
	require.NoError(t, s.Write(context.Background(), "千树万树梨花开"))
	text, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, "千树万树梨花开", text)
	assert.NoFileExists(t, s.Path()+".tmp")

	// Empty content falls back to the default.
	require.NoError(t, s.Write(context.Background(), ""))
	text, err = s.Read()
	require.NoError(t, err)
	assert.Equal(t, DefaultContent, text)
}

func TestWrite_Concurrent(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "content.txt"))
	texts := []string{"忽如一夜春风来", "千树万树梨花开", "北风卷地白草折"}
	var wg sync.WaitGroup
	for _, text := range texts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Write(context.Background(), text))
		}()
	}
	wg.Wait()
	got, err := s.Read()
	require.NoError(t, err)
	assert.Contains(t, texts, got)
}

func TestRead_Error(t *testing.T) {
	dir := t.TempDir()
	// A directory can't be read as the store file.
	s := New(dir)
	_, err := s.Read()
	assert.Error(t, err)
	assert.NotEmpty(t, DefaultPath())
	_, statErr := os.Stat(dir)
	require.NoError(t, statErr)
}
