package action

// names maps the identifier used by --keymap YAML override files to the
// Action it selects. Kept separate from actionInfoMap's human-readable
// Description field, which is not meant to be a stable parse target.
var names = map[string]Action{
	"GBButtonA":      GBButtonA,
	"GBButtonB":      GBButtonB,
	"GBButtonStart":  GBButtonStart,
	"GBButtonSelect": GBButtonSelect,
	"GBDPadUp":       GBDPadUp,
	"GBDPadDown":     GBDPadDown,
	"GBDPadLeft":     GBDPadLeft,
	"GBDPadRight":    GBDPadRight,

	"EmulatorDebugToggle":      EmulatorDebugToggle,
	"EmulatorDebugUpdate":      EmulatorDebugUpdate,
	"EmulatorSnapshot":         EmulatorSnapshot,
	"EmulatorPauseToggle":      EmulatorPauseToggle,
	"EmulatorStepFrame":        EmulatorStepFrame,
	"EmulatorStepInstruction":  EmulatorStepInstruction,
	"EmulatorTestPatternCycle": EmulatorTestPatternCycle,
	"EmulatorQuit":             EmulatorQuit,

	"AudioToggleChannel1": AudioToggleChannel1,
	"AudioToggleChannel2": AudioToggleChannel2,
	"AudioToggleChannel3": AudioToggleChannel3,
	"AudioToggleChannel4": AudioToggleChannel4,
	"AudioSoloChannel1":   AudioSoloChannel1,
	"AudioSoloChannel2":   AudioSoloChannel2,
	"AudioSoloChannel3":   AudioSoloChannel3,
	"AudioSoloChannel4":   AudioSoloChannel4,
	"AudioShowStatus":     AudioShowStatus,

	"DebugLogLevelIncrease": DebugLogLevelIncrease,
	"DebugLogLevelDecrease": DebugLogLevelDecrease,
}

// ByName resolves a --keymap YAML override file's action identifier back to
// its Action value.
func ByName(name string) (Action, bool) {
	act, ok := names[name]
	return act, ok
}
