package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveAndOpen(t *testing.T) {
	d := NewDisk(t.TempDir())

	name, err := d.Save([]byte("hello"))
	require.NoError(t, err)
	require.NotEmpty(t, name)

	rc, size, err := d.Open(name)
	require.NoError(t, err)
	defer rc.Close()

	require.Equal(t, int64(5), size)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	d := NewDisk(t.TempDir())

	a, err := d.Save([]byte("same"))
	require.NoError(t, err)
	b, err := d.Save([]byte("same"))
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestSaveCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "storage")
	d := NewDisk(root)

	_, err := d.Save([]byte("x"))
	require.NoError(t, err)

	info, err := os.Stat(root)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestOpenMissingObject(t *testing.T) {
	d := NewDisk(t.TempDir())

	_, _, err := d.Open("no-such-object")
	require.True(t, os.IsNotExist(err))
}

func TestVariantNaming(t *testing.T) {
	require.Equal(t, "abc_100", VariantName("abc", 100))

	root := t.TempDir()
	d := NewDisk(root)

	name, err := d.Save([]byte("original"))
	require.NoError(t, err)

	require.NoError(t, d.SaveVariant(name, 250, []byte("small")))

	_, statErr := os.Stat(filepath.Join(root, name+"_250"))
	require.NoError(t, statErr)

	rc, size, err := d.OpenVariant(name, 250)
	require.NoError(t, err)
	defer rc.Close()
	require.Equal(t, int64(5), size)
}

func TestRemoveVariant(t *testing.T) {
	d := NewDisk(t.TempDir())

	name, err := d.Save([]byte("original"))
	require.NoError(t, err)
	require.NoError(t, d.SaveVariant(name, 100, []byte("v")))
	require.NoError(t, d.RemoveVariant(name, 100))

	_, _, err = d.OpenVariant(name, 100)
	require.True(t, os.IsNotExist(err))
}
