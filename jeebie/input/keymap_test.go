package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xponent123/gb-emulator/jeebie/input/action"
)

func writeKeymapFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keymap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadKeymapOverrides_OverridesAndExtends(t *testing.T) {
	original := DefaultKeyMap["z"]
	defer func() { DefaultKeyMap["z"] = original }()

	path := writeKeymapFile(t, "z: GBButtonB\nk: EmulatorPauseToggle\n")

	require.NoError(t, LoadKeymapOverrides(path))

	assert.Equal(t, action.GBButtonB, DefaultKeyMap["z"])
	assert.Equal(t, action.EmulatorPauseToggle, DefaultKeyMap["k"])

	// keys not mentioned in the file keep their built-in binding
	assert.Equal(t, action.GBButtonStart, DefaultKeyMap["Enter"])
}

func TestLoadKeymapOverrides_UnknownAction(t *testing.T) {
	path := writeKeymapFile(t, "z: NotARealAction\n")

	err := LoadKeymapOverrides(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "NotARealAction")
}

func TestLoadKeymapOverrides_MissingFile(t *testing.T) {
	err := LoadKeymapOverrides(filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	require.Error(t, err)
}
