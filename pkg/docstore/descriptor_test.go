package docstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DBDescriptor_RoundTrips_Through_Save_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "database.desc")

	d := defaultDBDescriptor()
	require.NoError(t, saveDBDescriptor(path, d))

	got, err := loadDBDescriptor(path)
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func Test_SaveDBDescriptor_Fails_If_Path_Exists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "database.desc")

	require.NoError(t, saveDBDescriptor(path, defaultDBDescriptor()))

	err := saveDBDescriptor(path, defaultDBDescriptor())
	assert.Error(t, err)
}

func Test_LoadDBDescriptor_Fails_If_Missing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := loadDBDescriptor(filepath.Join(dir, "nope.desc"))
	assert.ErrorIs(t, err, ErrPathNotFound)
}
