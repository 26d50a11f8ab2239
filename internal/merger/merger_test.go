package merger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	rgerrors "github.com/arl/rget/pkg/errors"
	rgtypes "github.com/arl/rget/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePart(t *testing.T, outputPath string, index int, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(rgtypes.PartPath(outputPath, index), []byte(data), 0o644))
}

func TestMergeConcatenatesInOrderAndDeletesPartials(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "final")

	writePart(t, out, 0, "hello ")
	writePart(t, out, 1, "world")

	require.NoError(t, Merge(out, 2, nil))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	_, err = os.Stat(rgtypes.PartPath(out, 0))
	assert.True(t, os.IsNotExist(err))
}

func TestMergeFailsOnMissingPartial(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "final")
	writePart(t, out, 0, "only-part-0")

	err := Merge(out, 2, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, rgerrors.ErrPartialMissing))
}
