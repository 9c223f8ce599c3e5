package cpu

import (
	"github.com/Xponent123/gb-emulator/jeebie/addr"
	"github.com/Xponent123/gb-emulator/jeebie/bit"
	"github.com/Xponent123/gb-emulator/jeebie/memory"
)

// Flag is one of the 4 possible flags used in the flag register (high part of AF)
type Flag uint8

const (
	zeroFlag      Flag = 0x80
	subFlag       Flag = 0x40
	halfCarryFlag Flag = 0x20
	carryFlag     Flag = 0x10
)

// interruptVectors maps an IF/IE bit index to its service routine address.
var interruptVectors = [5]uint16{0x0040, 0x0048, 0x0050, 0x0058, 0x0060}

// CPU holds the register file and instruction interpreter state. It talks
// to memory exclusively through the shared MMU, so peripherals observe side
// effects (timer, GPU, APU ticking) through the bus' own Tick rather than
// through any back-reference to the CPU.
type CPU struct {
	memory *memory.MMU

	a, b, c, d, e, h, l, f uint8
	sp, pc                 uint16

	interruptsEnabled bool
	eiPending         bool
	halted            bool
	haltBug           bool
	stopped           bool

	cycles        uint64
	currentOpcode uint16
}

// New creates a CPU wired to the given MMU, with register state matching
// the classic console's post-boot-ROM values.
func New(mem *memory.MMU) *CPU {
	return &CPU{
		memory:            mem,
		a:                 0x01,
		f:                 0xB0,
		b:                 0x00,
		c:                 0x13,
		d:                 0x00,
		e:                 0xD8,
		h:                 0x01,
		l:                 0x4D,
		sp:                0xFFFE,
		pc:                0x0100,
		interruptsEnabled: true,
	}
}

func (c *CPU) setFlag(flag Flag) {
	c.f |= uint8(flag)
}

func (c *CPU) resetFlag(flag Flag) {
	c.f &^= uint8(flag)
}

func (c *CPU) setFlagToCondition(flag Flag, condition bool) {
	if condition {
		c.setFlag(flag)
	} else {
		c.resetFlag(flag)
	}
}

func (c *CPU) isSetFlag(flag Flag) bool {
	return c.f&uint8(flag) != 0
}

func (c *CPU) flagToBit(flag Flag) uint8 {
	if c.isSetFlag(flag) {
		return 1
	}
	return 0
}

func (c *CPU) getBC() uint16 { return bit.Combine(c.b, c.c) }
func (c *CPU) getDE() uint16 { return bit.Combine(c.d, c.e) }
func (c *CPU) getHL() uint16 { return bit.Combine(c.h, c.l) }

func (c *CPU) setBC(value uint16) {
	c.b = bit.High(value)
	c.c = bit.Low(value)
}

func (c *CPU) setDE(value uint16) {
	c.d = bit.High(value)
	c.e = bit.Low(value)
}

func (c *CPU) setHL(value uint16) {
	c.h = bit.High(value)
	c.l = bit.Low(value)
}

// readImmediate fetches the byte at PC and advances PC, honouring the HALT
// bug: the first fetch after the bug triggers re-presents the same byte
// without moving PC forward.
func (c *CPU) readImmediate() uint8 {
	value := c.memory.Read(c.pc)
	if c.haltBug {
		c.haltBug = false
	} else {
		c.pc++
	}
	return value
}

func (c *CPU) readSignedImmediate() int8 {
	return int8(c.readImmediate())
}

func (c *CPU) readImmediateWord() uint16 {
	low := c.readImmediate()
	high := c.readImmediate()
	return bit.Combine(high, low)
}

// handleInterrupts reports whether any enabled interrupt is pending, and if
// IME is set, services the highest-priority one (lowest bit wins): pushes
// PC, jumps to the vector, clears IME and the serviced IF bit. Pending is
// independent of IME, since a HALTed CPU must wake on a pending interrupt
// even when IME is false.
func (c *CPU) handleInterrupts() bool {
	ifReg := c.memory.Read(addr.IF)
	ieReg := c.memory.Read(addr.IE)
	pending := ifReg & ieReg & 0x1F

	if pending == 0 {
		return false
	}

	if !c.interruptsEnabled {
		return true
	}

	var bitIndex uint8
	for bitIndex = 0; bitIndex < 5; bitIndex++ {
		if pending&(1<<bitIndex) != 0 {
			break
		}
	}

	c.interruptsEnabled = false
	c.memory.Write(addr.IF, ifReg&^(1<<bitIndex))
	c.pushStack(c.pc)
	c.pc = interruptVectors[bitIndex]
	c.cycles += 16

	return true
}

// updateIME applies the one-instruction delay for a pending EI: the enable
// takes effect only after the instruction following EI has executed. DI
// takes effect immediately and has no pending state.
func (c *CPU) updateIME() {
	if c.eiPending {
		c.eiPending = false
		c.interruptsEnabled = true
	}
}

// GetPC returns the current program counter, for debuggers/disassemblers.
func (c *CPU) GetPC() uint16 {
	return c.pc
}

// GetSP returns the current stack pointer, for debuggers/disassemblers.
func (c *CPU) GetSP() uint16 {
	return c.sp
}

// Tick services pending interrupts if any, then fetches and executes a
// single instruction (or advances a no-op cycle while halted). It returns
// the number of clock cycles (T-states) consumed, for MMU.Tick to apply uniformly.
func (c *CPU) Tick() int {
	startCycles := c.cycles

	interruptPending := c.handleInterrupts()
	if c.halted && interruptPending {
		c.halted = false
		if !c.interruptsEnabled {
			c.haltBug = true
		}
	}

	if c.halted {
		c.cycles += 4
		return int(c.cycles - startCycles)
	}

	opcode := fetchAndDecode(c)
	cycles := opcode(c)
	c.updateIME()
	c.cycles += uint64(cycles)

	return int(c.cycles - startCycles)
}
