package input

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Xponent123/gb-emulator/jeebie/input/action"
)

// keymapFile is the YAML shape of a --keymap override file: physical key
// name to action identifier, e.g. `z: GBButtonA`.
type keymapFile map[string]string

// LoadKeymapOverrides reads a YAML key-binding file and merges its entries
// into DefaultKeyMap, overriding or adding individual bindings. Keys not
// mentioned in the file keep their built-in default.
func LoadKeymapOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read keymap file: %w", err)
	}

	var overrides keymapFile
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("parse keymap file: %w", err)
	}

	for key, actionName := range overrides {
		act, ok := action.ByName(actionName)
		if !ok {
			return fmt.Errorf("keymap file: unknown action %q for key %q", actionName, key)
		}
		DefaultKeyMap[key] = act
		slog.Debug("keymap override applied", "key", key, "action", actionName)
	}

	return nil
}
