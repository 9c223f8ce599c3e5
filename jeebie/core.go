package jeebie

import (
	"errors"
	"fmt"
	"io/ioutil"
	"log/slog"
	"sync"

	"github.com/Xponent123/gb-emulator/jeebie/cpu"
	"github.com/Xponent123/gb-emulator/jeebie/memory"
	"github.com/Xponent123/gb-emulator/jeebie/video"
)

// ErrCartridgeLoad wraps any failure to read a ROM file, letting
// the CLI distinguish it from other runtime errors for its exit code.
var ErrCartridgeLoad = errors.New("cartridge load failed")

// DebuggerState represents the current debugger mode
type DebuggerState int

const (
	DebuggerRunning   DebuggerState = iota // Normal execution
	DebuggerPaused                         // Paused, waiting for commands
	DebuggerStep                           // Execute one instruction then pause
	DebuggerStepFrame                      // Execute one frame then pause
)

// Emulator represents the root struct and entry point for running the emulation
type Emulator struct {
	cpu     *cpu.CPU
	gpu     *video.GPU
	mem     *memory.MMU
	romPath string // source ROM path, used to locate the .gbsave sibling

	// Debugger state
	debuggerState    DebuggerState
	debuggerMutex    sync.RWMutex
	stepRequested    bool
	frameRequested   bool
	instructionCount uint64
	frameCount       uint64
}

func (e *Emulator) init(mem *memory.MMU) {
	e.cpu = cpu.New(mem)
	e.gpu = video.NewGpu(mem)
	e.mem = mem

	mem.SetTimerSeed(0xABCC)
}

// New creates a new emulator instance
func New() *Emulator {
	e := &Emulator{}
	e.init(memory.NewWithCartridge(memory.NewCartridge()))

	return e
}

// NewWithFile creates a new emulator instance and loads the file specified into it.
func NewWithFile(path string) (*Emulator, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartridgeLoad, err)
	}

	slog.Debug("Loaded ROM data", "size", len(data))

	e := &Emulator{romPath: path}
	e.init(memory.NewWithCartridge(memory.NewCartridgeWithData(data)))

	if err := memory.LoadBatteryBacked(e.mem, path); err != nil {
		slog.Warn("failed to load save file", "rom", path, "error", err)
	}

	return e, nil
}

// SaveRAM persists battery-backed cartridge RAM (and RTC state for MBC3) to
// the .gbsave sibling of the loaded ROM, if the RAM has changed and the ROM
// was loaded from a file. Safe to call repeatedly, e.g. on every shutdown
// path; a no-op when nothing is dirty.
func (e *Emulator) SaveRAM() {
	if e.romPath == "" {
		return
	}
	memory.SaveBatteryBacked(e.mem, e.romPath)
}

func (e *Emulator) RunUntilFrame() {
	e.debuggerMutex.RLock()
	state := e.debuggerState
	e.debuggerMutex.RUnlock()

	// Handle paused state - don't execute anything
	if state == DebuggerPaused {
		return
	}

	// Handle step instruction - execute one instruction then pause
	if state == DebuggerStep {
		e.debuggerMutex.Lock()
		if e.stepRequested {
			e.stepRequested = false
			e.debuggerMutex.Unlock()

			// Execute one CPU instruction
			oldPC := e.cpu.GetPC()
			cycles := e.cpu.Tick()
			e.tickPeripherals(cycles)
			e.instructionCount++

			// Log the executed instruction
			slog.Debug("Step executed", "pc", fmt.Sprintf("0x%04X", oldPC), "new_pc", fmt.Sprintf("0x%04X", e.cpu.GetPC()))

			// Pause after execution
			e.SetDebuggerState(DebuggerPaused)
		} else {
			e.debuggerMutex.Unlock()
		}
		return
	}

	// Handle step frame - execute one frame then pause
	if state == DebuggerStepFrame {
		e.debuggerMutex.Lock()
		frameRequested := e.frameRequested
		if frameRequested {
			e.frameRequested = false
		}
		e.debuggerMutex.Unlock()

		if frameRequested {
			// Execute one full frame
			total := 0
			for {
				cycles := e.cpu.Tick()
				total += e.tickPeripherals(cycles)
				e.instructionCount++

				if total >= 70224 {
					break
				}
			}
			e.frameCount++
			slog.Debug("Frame step completed", "frame", e.frameCount, "instructions", e.instructionCount)
			e.SetDebuggerState(DebuggerPaused)
		}
		return
	}

	// Normal execution (DebuggerRunning)
	total := 0
	for {
		cycles := e.cpu.Tick()
		total += e.tickPeripherals(cycles)
		e.instructionCount++

		if total >= 70224 {
			e.frameCount++
			// Log every 60 frames (once per second at 60 FPS) only when running
			if e.frameCount%60 == 0 {
				slog.Debug("Frame completed", "frame", e.frameCount, "pc", fmt.Sprintf("0x%04X", e.cpu.GetPC()))
			}
			return
		}
	}
}

func (e *Emulator) GetCurrentFrame() *video.FrameBuffer {
	return e.gpu.GetFrameBuffer()
}

func (e *Emulator) HandleKeyPress(key memory.JoypadKey) {
	e.mem.HandleKeyPress(key)
}

func (e *Emulator) HandleKeyRelease(key memory.JoypadKey) {
	e.mem.HandleKeyRelease(key)
}

func (e *Emulator) GetCPU() *cpu.CPU {
	return e.cpu
}

// Debugger control methods
func (e *Emulator) SetDebuggerState(state DebuggerState) {
	e.debuggerMutex.Lock()
	defer e.debuggerMutex.Unlock()
	e.debuggerState = state
	slog.Debug("Debugger state changed", "state", state)
}

func (e *Emulator) GetDebuggerState() DebuggerState {
	e.debuggerMutex.RLock()
	defer e.debuggerMutex.RUnlock()
	return e.debuggerState
}

func (e *Emulator) DebuggerPause() {
	e.SetDebuggerState(DebuggerPaused)
	slog.Info("Emulator paused")
}

func (e *Emulator) DebuggerResume() {
	e.SetDebuggerState(DebuggerRunning)
	slog.Info("Emulator resumed")
}

func (e *Emulator) DebuggerStepInstruction() {
	e.debuggerMutex.Lock()
	defer e.debuggerMutex.Unlock()
	e.stepRequested = true
	e.debuggerState = DebuggerStep
	slog.Info("Step instruction requested")
}

func (e *Emulator) DebuggerStepFrame() {
	e.debuggerMutex.Lock()
	defer e.debuggerMutex.Unlock()
	e.frameRequested = true
	e.debuggerState = DebuggerStepFrame
	slog.Info("Step frame requested")
}

func (e *Emulator) GetInstructionCount() uint64 {
	return e.instructionCount
}

func (e *Emulator) GetFrameCount() uint64 {
	return e.frameCount
}

func (e *Emulator) GetMMU() *memory.MMU {
	return e.mem
}

// tickPeripherals advances every peripheral but the CPU by the CPU's
// reported cycle count, adjusted for CGB double-speed mode: the CPU itself
// runs at up to twice the normal rate, but the timer, serial port, GPU and
// APU all see the same absolute time regardless of CPU speed, so the CPU's
// cycle count is halved before being forwarded to them. Returns the number
// of peripheral (real-time) cycles actually applied, which is what frame
// and instruction timing should accumulate against.
func (e *Emulator) tickPeripherals(cpuCycles int) int {
	peripheralCycles := cpuCycles / e.mem.SpeedMultiplier()
	e.mem.Tick(peripheralCycles)
	e.mem.APU.Tick(peripheralCycles)
	e.gpu.Tick(peripheralCycles)
	return peripheralCycles
}
