package jeebie

import (
	"github.com/Xponent123/gb-emulator/jeebie/debug"
	"github.com/Xponent123/gb-emulator/jeebie/input/action"
	"github.com/Xponent123/gb-emulator/jeebie/timing"
	"github.com/Xponent123/gb-emulator/jeebie/video"
)

// Emulator is the interface for all emulator implementations
type Emulator interface {
	RunUntilFrame() error
	GetCurrentFrame() *video.FrameBuffer
	HandleAction(act action.Action, pressed bool)
	ExtractDebugData() *debug.CompleteDebugData
	SetFrameLimiter(limiter timing.Limiter)
	ResetFrameTiming()
}

var _ Emulator = (*DMG)(nil)
