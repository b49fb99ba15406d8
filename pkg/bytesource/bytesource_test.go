package bytesource_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andreyxaxa/Photo-QC/pkg/bytesource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_ReaderIsRepeatable(t *testing.T) {
	src, err := bytesource.FromReader(strings.NewReader("payload"))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		b, err := io.ReadAll(src.Reader())
		require.NoError(t, err)
		assert.Equal(t, "payload", string(b))
	}
	assert.Equal(t, 7, src.Len())
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte{0xFF, 0xD8}, 0o600))

	src, err := bytesource.FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8}, src.Bytes())

	_, err = bytesource.FromFile(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.Error(t, err)
}

func TestFromBytes_Empty(t *testing.T) {
	assert.True(t, bytesource.FromBytes(nil).Empty())
}
