package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toodo-app/toodo/internal/models"
)

func TestDaemonOwnership(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	owner, err := LiveDaemon()
	require.NoError(t, err)
	assert.Nil(t, owner)

	first := models.NewDaemonInfo("instance-a", os.Getpid(), true, "/tmp/todos")
	owner, claimed, err := ClaimDaemon(first)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, "instance-a", owner.InstanceID)

	// A second daemon sees the live owner and does not overwrite it.
	second := models.NewDaemonInfo("instance-b", os.Getpid(), true, "/tmp/todos")
	owner, claimed, err = ClaimDaemon(second)
	require.NoError(t, err)
	assert.False(t, claimed)
	require.NotNil(t, owner)
	assert.Equal(t, "instance-a", owner.InstanceID)
	assert.True(t, owner.TrayOwner)
	assert.Equal(t, "/tmp/todos", owner.TodosDir)

	// Only the owner can release the record.
	require.NoError(t, ReleaseDaemon("instance-b"))
	owner, err = LiveDaemon()
	require.NoError(t, err)
	require.NotNil(t, owner)
	assert.Equal(t, "instance-a", owner.InstanceID)

	require.NoError(t, ReleaseDaemon("instance-a"))
	owner, err = LiveDaemon()
	require.NoError(t, err)
	assert.Nil(t, owner)

	// Releasing with no record is a no-op.
	require.NoError(t, ReleaseDaemon("instance-a"))
}

func TestStaleDaemonRecordIsReplaced(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path, err := GlobalDaemonFile()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, SaveYAML(path, models.NewDaemonInfo("dead", -1, true, "/tmp/todos")))

	owner, err := LiveDaemon()
	require.NoError(t, err)
	assert.Nil(t, owner)
	assert.NoFileExists(t, path)

	require.NoError(t, SaveYAML(path, models.NewDaemonInfo("dead", -1, true, "/tmp/todos")))
	owner, claimed, err := ClaimDaemon(models.NewDaemonInfo("fresh", os.Getpid(), false, "/tmp/todos"))
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, "fresh", owner.InstanceID)
}
