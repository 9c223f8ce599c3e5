package cpu

import "github.com/Xponent123/gb-emulator/jeebie/bit"

func (c *CPU) pushStack(r uint16) {
	c.sp--
	c.memory.Write(c.sp, bit.Low(r))
	c.sp--
	c.memory.Write(c.sp, bit.High(r))
}

func (c *CPU) popStack() uint16 {
	high := c.memory.Read(c.sp)
	c.sp++
	low := c.memory.Read(c.sp)
	c.sp++

	return bit.Combine(high, low)
}

func (c *CPU) inc(r *uint8) {
	*r++
	value := *r

	c.setFlagToCondition(zeroFlag, value == 0)
	c.setFlagToCondition(halfCarryFlag, (value&0xF) == 0x0)
	c.resetFlag(subFlag)
}

func (c *CPU) dec(r *uint8) {
	*r--
	value := *r

	c.setFlagToCondition(zeroFlag, value == 0)
	c.setFlagToCondition(halfCarryFlag, (value&0xF) == 0xF)
	c.setFlag(subFlag)
}

func (c *CPU) rlc(r *uint8) {
	value := *r

	c.setFlagToCondition(carryFlag, value > 0x7F)
	c.resetFlag(zeroFlag)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)

	value = (value << 1) | (value >> 7)
	*r = value
}

func (c *CPU) rl(r *uint8) {
	value := *r
	carry := c.flagToBit(carryFlag)

	c.setFlagToCondition(carryFlag, value > 0x7F)
	c.resetFlag(zeroFlag)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)

	value = (value << 1) | carry
	*r = value
}

func (c *CPU) rrc(r *uint8) {
	value := *r

	c.setFlagToCondition(carryFlag, value&0x01 != 0)
	c.resetFlag(zeroFlag)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)

	value = (value >> 1) | ((value & 1) << 7)
	*r = value
}

func (c *CPU) rr(r *uint8) {
	value := *r
	carry := c.flagToBit(carryFlag) << 7

	c.setFlagToCondition(carryFlag, value&0x01 != 0)
	c.resetFlag(zeroFlag)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)

	value = (value >> 1) | carry
	*r = value
}

// add sets the result of adding an 8 bit register to A, while setting all relevant flags.
func (c *CPU) addToA(value uint8) {
	a := c.a
	result := a + value

	carry := (uint16(a) + uint16(value)) > 0xFF
	halfCarry := (a&0xF)+(value&0xF) > 0xF

	c.setFlagToCondition(zeroFlag, result == 0)
	c.resetFlag(subFlag)
	c.setFlagToCondition(carryFlag, carry)
	c.setFlagToCondition(halfCarryFlag, halfCarry)

	c.a = result
}

// adc adds value and the carry flag (0 or 1) to A, setting all relevant flags.
func (c *CPU) adc(value uint8) {
	a := c.a
	carry := c.flagToBit(carryFlag)

	result := uint16(a) + uint16(value) + uint16(carry)
	halfCarry := (a&0xF)+(value&0xF)+carry > 0xF

	c.a = uint8(result)

	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.setFlagToCondition(carryFlag, result > 0xFF)
	c.setFlagToCondition(halfCarryFlag, halfCarry)
}

// cp compares value against A, setting flags as SUB would without storing the result.
func (c *CPU) cp(value uint8) {
	a := c.a
	c.sub(value)
	c.a = a
}

// addToHL sets the result of adding a 16 bit register to HL, while setting relevant flags.
func (c *CPU) addToHL(reg uint16) {
	hl := bit.Combine(c.h, c.l)
	result := hl + reg

	carry := (uint32(hl) + uint32(reg)) > 0xFFFF
	halfCarry := (hl&0xFFF)+(reg&0xFFF) > 0xFFF

	c.resetFlag(subFlag)
	c.setFlagToCondition(carryFlag, carry)
	c.setFlagToCondition(halfCarryFlag, halfCarry)

	c.h = bit.High(result)
	c.l = bit.Low(result)
}

// sub will subtract the value from register A and set all relevant flags.
func (c *CPU) sub(value uint8) {
	a := c.a
	c.a = a - value

	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(carryFlag, a < value)
	c.setFlagToCondition(halfCarryFlag, (int(a)&0xF)-(int(value)&0xF) < 0)
}

// sbc will subtract the value and carry (1 if set, 0 otherwise) from the register A.
func (c *CPU) sbc(value uint8) {
	a := c.a
	carry := 0
	if c.isSetFlag(carryFlag) {
		carry = 1
	}

	result := int(c.a) - int(value) - carry
	c.a = uint8(result)

	c.setFlagToCondition(zeroFlag, result == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(carryFlag, result < 0)
	c.setFlagToCondition(halfCarryFlag, (int(a)&0xF)-(int(value)&0xF)-carry < 0)
}

func (c *CPU) and(value uint8) {
	c.a &= value
	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.setFlag(halfCarryFlag)
}

func (c *CPU) or(value uint8) {
	c.a |= value
	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.resetFlag(carryFlag)
	c.resetFlag(halfCarryFlag)
}

func (c *CPU) xor(value uint8) {
	c.a ^= value
	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.resetFlag(carryFlag)
	c.resetFlag(halfCarryFlag)
}

// addSPSigned computes sp + signed 8-bit offset, setting Z=0, N=0, and H/C
// from the unsigned low-byte addition (the flags the real hardware computes
// regardless of the immediate's sign), shared by ADD SP,i8 and LD HL,SP+i8.
func (c *CPU) addSPSigned(offset int8) uint16 {
	sp := int32(c.sp)
	n := int32(offset)
	result := sp + n

	c.resetFlag(zeroFlag)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, ((sp^n^(result&0xFFFF))&0x10) == 0x10)
	c.setFlagToCondition(carryFlag, ((sp^n^(result&0xFFFF))&0x100) == 0x100)

	return uint16(result)
}

// jr adds a signed 8-bit immediate (fetched from PC) to PC. The target is
// relative to the address immediately following the instruction, so the
// immediate must be consumed before the addition.
func (c *CPU) jr() {
	offset := c.readSignedImmediate()
	c.pc = uint16(int32(c.pc) + int32(offset))
}

// jp sets PC to an absolute 16-bit immediate fetched from PC.
func (c *CPU) jp() {
	c.pc = c.readImmediateWord()
}

// daa performs binary-coded-decimal correction on A after an ADD/ADC/SUB/SBC,
// using the current N/H/C flags to decide which nibble(s) to adjust.
func (c *CPU) daa() {
	a := c.a
	var adjust uint8

	if c.isSetFlag(carryFlag) {
		adjust = 0x60
	}
	if c.isSetFlag(halfCarryFlag) {
		adjust |= 0x06
	}

	if !c.isSetFlag(subFlag) {
		if a&0x0F > 0x09 {
			adjust |= 0x06
		}
		if a > 0x99 {
			adjust |= 0x60
		}
		a += adjust
	} else {
		a -= adjust
	}

	c.setFlagToCondition(carryFlag, adjust >= 0x60)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(zeroFlag, a == 0)
	c.a = a
}

// cbRLC rotates value left, carry out of bit 7 into the carry flag and back
// into bit 0. Z reflects the rotated result, unlike the A-register form.
func (c *CPU) cbRLC(value uint8) uint8 {
	carry := value&0x80 != 0
	result := value << 1
	if carry {
		result |= 0x01
	}
	c.setCBShiftFlags(result, carry)
	return result
}

// cbRL rotates value left through the carry flag. Z reflects the result.
func (c *CPU) cbRL(value uint8) uint8 {
	carryIn := c.flagToBit(carryFlag)
	carryOut := value&0x80 != 0
	result := (value << 1) | carryIn
	c.setCBShiftFlags(result, carryOut)
	return result
}

// cbRRC rotates value right, carry out of bit 0 into the carry flag and
// back into bit 7. Z reflects the rotated result.
func (c *CPU) cbRRC(value uint8) uint8 {
	carry := value&0x01 != 0
	result := value >> 1
	if carry {
		result |= 0x80
	}
	c.setCBShiftFlags(result, carry)
	return result
}

// cbRR rotates value right through the carry flag. Z reflects the result.
func (c *CPU) cbRR(value uint8) uint8 {
	carryIn := c.flagToBit(carryFlag)
	carryOut := value&0x01 != 0
	result := (value >> 1) | (carryIn << 7)
	c.setCBShiftFlags(result, carryOut)
	return result
}

// cbSLA shifts value left, carry out of bit 7, bit 0 cleared.
func (c *CPU) cbSLA(value uint8) uint8 {
	carry := value&0x80 != 0
	result := value << 1
	c.setCBShiftFlags(result, carry)
	return result
}

// cbSRA shifts value right, carry out of bit 0, bit 7 preserved (sign extend).
func (c *CPU) cbSRA(value uint8) uint8 {
	carry := value&0x01 != 0
	result := (value >> 1) | (value & 0x80)
	c.setCBShiftFlags(result, carry)
	return result
}

// cbSRL shifts value right, carry out of bit 0, bit 7 cleared.
func (c *CPU) cbSRL(value uint8) uint8 {
	carry := value&0x01 != 0
	result := value >> 1
	c.setCBShiftFlags(result, carry)
	return result
}

// cbSWAP exchanges the high and low nibbles; clears N, H, C, sets Z on zero.
func (c *CPU) cbSWAP(value uint8) uint8 {
	result := (value >> 4) | (value << 4)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
	c.setFlagToCondition(zeroFlag, result == 0)
	return result
}

// setCBShiftFlags applies the common flag outcome for CB-prefixed rotate
// and shift operations: N and H cleared, Z from the result, C from the bit
// shifted out.
func (c *CPU) setCBShiftFlags(result uint8, carryOut bool) {
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(zeroFlag, result == 0)
	c.setFlagToCondition(carryFlag, carryOut)
}

// bit tests bit n of value: Z set when the bit is clear, H always set, N
// always clear, C untouched.
func (c *CPU) bit(n uint8, value uint8) {
	c.resetFlag(subFlag)
	c.setFlag(halfCarryFlag)
	c.setFlagToCondition(zeroFlag, value&(1<<n) == 0)
}

// sla, sra, srl and swap are pointer-register wrappers around the CB shift
// helpers, mirroring rlc/rl/rrc/rr for callers that hold a register pointer.
func (c *CPU) sla(r *uint8) { *r = c.cbSLA(*r) }
func (c *CPU) sra(r *uint8) { *r = c.cbSRA(*r) }
func (c *CPU) srl(r *uint8) { *r = c.cbSRL(*r) }
func (c *CPU) swap(r *uint8) { *r = c.cbSWAP(*r) }

// set and res set/clear bit n of a register in place, without touching flags.
func (c *CPU) set(n uint8, r *uint8) { *r |= 1 << n }
func (c *CPU) res(n uint8, r *uint8) { *r &^= 1 << n }
