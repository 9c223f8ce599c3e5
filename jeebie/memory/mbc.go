package memory

import (
	"encoding/binary"
	"fmt"
	"time"
)

// MBC represents a Memory Bank Controller interface that all MBC types must implement
type MBC interface {
	// Read reads a byte from the specified address
	Read(addr uint16) uint8
	// Write writes a byte to the specified address, returns the written value
	Write(addr uint16, value uint8) uint8
}

// BatteryBacked is implemented by MBCs whose external RAM survives a reset
// via a battery. Checked with a type assertion on the MBC interface, since
// NoMBC never carries RAM and never needs it.
type BatteryBacked interface {
	IsBatteryBacked() bool
	DumpRAM() []uint8
	LoadRAM(data []uint8)
	// TakeAndClearDirtyFlag reports whether RAM changed since the last call
	// and resets the flag, so the caller only rewrites the save file when needed.
	TakeAndClearDirtyFlag() bool
}

// RTCBacked is implemented by MBC3 to persist its real-time clock alongside
// battery-backed RAM (spec.md §6's 48-byte RTC append).
type RTCBacked interface {
	DumpRTC() []uint8
	LoadRTC(data []uint8) error
}

// NoMBC represents cartridges with no memory banking capabilities.
// These are typically smaller games (32KB or less) that fit entirely in the
// base memory region. The cartridge ROM is directly mapped to 0x0000-0x7FFF
// and cannot be banked/switched. These cartridges cannot have external RAM.
type NoMBC struct {
	rom []uint8 // ROM data
}

// NewNoMBC creates a new NoMBC controller
func NewNoMBC(romData []uint8) *NoMBC {
	return &NoMBC{
		rom: romData,
	}
}

func (m *NoMBC) Read(addr uint16) uint8 {
	// For NoMBC, we just read directly from ROM
	return m.rom[addr]
}

func (m *NoMBC) Write(addr uint16, value uint8) uint8 {
	// NoMBC doesn't support writing to ROM
	return 0
}

// MBC1 is the first and most common MBC chip. Features include:
// - Supports up to 2MB ROM (125 16KB banks)
// - Up to 32KB RAM (4 8KB banks)
// - Bank 0 always mapped to 0x0000-0x3FFF
// - Switchable ROM bank at 0x4000-0x7FFF
// - Optional RAM banking at 0xA000-0xBFFF
// - Two banking modes:
//   - Mode 0 (ROM): Allows access to full ROM but only 8KB RAM
//   - Mode 1 (RAM): Restricts ROM banking but allows full RAM access
// - Optional battery backup for RAM persistence
type MBC1 struct {
	rom          []uint8
	ram          []uint8
	romBank      uint8
	ramBank      uint8
	ramEnabled   bool
	bankingMode  uint8
	hasBattery   bool
	ramBankCount uint8
	dirty        bool
}

func (m *MBC1) IsBatteryBacked() bool { return m.hasBattery }
func (m *MBC1) DumpRAM() []uint8      { return append([]uint8(nil), m.ram...) }
func (m *MBC1) LoadRAM(data []uint8)  { copy(m.ram, data) }
func (m *MBC1) TakeAndClearDirtyFlag() bool {
	d := m.dirty
	m.dirty = false
	return d
}

// NewMBC1 creates a new MBC1 controller
func NewMBC1(romData []uint8, hasBattery bool, ramBankCount uint8) *MBC1 {
	ramSize := uint32(ramBankCount) * 0x2000 // 8KB per RAM bank
	return &MBC1{
		rom:          romData,
		ram:          make([]uint8, ramSize),
		romBank:      1,
		ramBank:      0,
		ramEnabled:   false,
		bankingMode:  0,
		hasBattery:   hasBattery,
		ramBankCount: ramBankCount,
	}
}

func (m *MBC1) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		// ROM Bank 0
		return m.rom[addr]
	case addr >= 0x4000 && addr <= 0x7FFF:
		// Switchable ROM Bank
		offset := uint32(m.romBank) * 0x4000
		if offset >= uint32(len(m.rom)) {
			// If bank would be out of bounds, wrap around
			offset = offset % uint32(len(m.rom))
		}
		return m.rom[offset+uint32(addr-0x4000)]
	case addr >= 0xA000 && addr <= 0xBFFF:
		// RAM Bank
		if !m.ramEnabled {
			return 0xFF
		}
		offset := uint32(m.ramBank) * 0x2000
		if offset >= uint32(len(m.ram)) {
			// If bank would be out of bounds, wrap around
			offset = offset % uint32(len(m.ram))
		}
		return m.ram[offset+uint32(addr-0xA000)]
	default:
		return 0xFF
	}
}

func (m *MBC1) Write(addr uint16, value uint8) uint8 {
	switch {
	case addr <= 0x1FFF:
		// RAM Enable
		m.ramEnabled = (value & 0x0F) == 0x0A
	case addr >= 0x2000 && addr <= 0x3FFF:
		// ROM Bank Number (lower 5 bits)
		bank := value & 0x1F
		if bank == 0 {
			bank = 1
		}
		m.romBank = (m.romBank & 0x60) | bank
	case addr >= 0x4000 && addr <= 0x5FFF:
		// RAM Bank Number or Upper ROM Bank Number
		if m.bankingMode == 0 {
			// ROM Banking mode - value goes to upper bits of ROM bank
			m.romBank = (m.romBank & 0x1F) | ((value & 0x03) << 5)
		} else {
			// RAM Banking mode - value goes to RAM bank
			m.ramBank = value & 0x03
		}
	case addr >= 0x6000 && addr <= 0x7FFF:
		// Banking Mode Select
		m.bankingMode = value & 0x01
		if m.bankingMode == 1 {
			// When switching to RAM banking mode, clear the upper bits of ROM bank
			m.romBank &= 0x1F
		}
	case addr >= 0xA000 && addr <= 0xBFFF:
		// RAM Bank
		if !m.ramEnabled {
			return 0xFF
		}
		offset := uint32(m.ramBank) * 0x2000
		if offset >= uint32(len(m.ram)) {
			offset = (offset % uint32(len(m.ram)))
		}
		m.ram[offset+uint32(addr-0xA000)] = value
		m.dirty = true
	}
	return value
}

// MBC2 is a simpler MBC chip with built-in RAM. Features include:
// - Supports up to 256KB ROM (16 16KB banks)
// - Built-in 512x4 bits RAM (not external)
// - RAM must be enabled (0x0A written with address bit 8 clear) before use
// - ROM banking similar to MBC1 but simpler
// - The least significant bit of the upper address byte selects between
//   ROM banking and RAM access
// - RAM is limited to 4-bit values (upper 4 bits are ignored)
// - Optional battery backup for the built-in RAM
type MBC2 struct {
	rom        []uint8
	ram        []uint8 // 512x4 bits RAM
	romBank    uint8
	ramEnabled bool
	hasBattery bool
	dirty      bool
}

// NewMBC2 creates a new MBC2 controller
func NewMBC2(romData []uint8, hasBattery bool) *MBC2 {
	return &MBC2{
		rom:        romData,
		ram:        make([]uint8, 512),
		romBank:    1,
		ramEnabled: false,
		hasBattery: hasBattery,
	}
}

func (m *MBC2) IsBatteryBacked() bool { return m.hasBattery }
func (m *MBC2) DumpRAM() []uint8      { return append([]uint8(nil), m.ram...) }
func (m *MBC2) LoadRAM(data []uint8)  { copy(m.ram, data) }
func (m *MBC2) TakeAndClearDirtyFlag() bool {
	d := m.dirty
	m.dirty = false
	return d
}

func (m *MBC2) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return m.rom[addr]
	case addr >= 0x4000 && addr <= 0x7FFF:
		offset := uint32(m.romBank) * 0x4000
		if offset >= uint32(len(m.rom)) {
			offset %= uint32(len(m.rom))
		}
		return m.rom[offset+uint32(addr-0x4000)]
	case addr >= 0xA000 && addr <= 0xA1FF:
		if !m.ramEnabled {
			return 0xFF
		}
		return m.ram[addr-0xA000]&0x0F | 0xF0
	case addr >= 0xA200 && addr <= 0xBFFF:
		// built-in RAM is only 512 nibbles, echoed across the rest of the region
		if !m.ramEnabled {
			return 0xFF
		}
		return m.ram[(addr-0xA000)%0x200]&0x0F | 0xF0
	default:
		return 0xFF
	}
}

func (m *MBC2) Write(addr uint16, value uint8) uint8 {
	switch {
	case addr <= 0x3FFF:
		// bit 8 of the address selects RAM-enable vs ROM-bank-select behavior
		if addr&0x0100 == 0 {
			m.ramEnabled = (value & 0x0F) == 0x0A
		} else {
			bank := value & 0x0F
			if bank == 0 {
				bank = 1
			}
			m.romBank = bank
		}
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		m.ram[(addr-0xA000)%0x200] = value & 0x0F
		m.dirty = true
	}
	return value
}

// MBC3 is an advanced MBC chip with RTC support. Features include:
// - Supports up to 2MB ROM (128 16KB banks)
// - Up to 32KB RAM (4 8KB banks)
// - Real-Time Clock (RTC) functionality
// - RTC has 5 registers: Seconds, Minutes, Hours, Days (lower), Days (upper)/Flags
// - Similar banking to MBC1 but with different register layout
// - RAM and RTC can be battery backed
// - Used in games that needed to track real time (e.g. Pokémon Gold/Silver)
// rtcSecondsIdx..rtcDayHighIdx index the 5 RTC registers, in the order they
// appear in the battery save file's RTC append (spec.md §6).
const (
	rtcSecondsIdx = iota
	rtcMinutesIdx
	rtcHoursIdx
	rtcDayLowIdx
	rtcDayHighIdx
)

// rtcDayHighHalt is bit 6 of the day-high register: when set, the clock
// stops advancing. Bit 0 is the 9th bit of the day counter.
const rtcDayHighHalt = 0x40

type MBC3 struct {
	rom        []uint8
	ram        []uint8
	romBank    uint8
	ramBank    uint8 // also doubles as the RTC register select (0x08-0x0C)
	ramEnabled bool
	hasRTC     bool
	hasBattery bool
	dirty      bool

	rtc        [5]uint8
	rtcLatched [5]uint8
	latchStep  uint8 // tracks the 0x00-then-0x01 write sequence that latches the clock
	lastTick   time.Time
}

// NewMBC3 creates a new MBC3 controller. seed, when non-nil, fixes the RTC's
// starting wall-clock reference (used by tests); a nil seed uses time.Now.
func NewMBC3(romData []uint8, ramBankCount uint8, hasRTC bool, seed *time.Time) *MBC3 {
	return NewMBC3WithBattery(romData, ramBankCount, hasRTC, false, seed)
}

// NewMBC3WithBattery is NewMBC3 plus the battery-backup flag, used when the
// cartridge header reports one (spec.md §6's save-file feature).
func NewMBC3WithBattery(romData []uint8, ramBankCount uint8, hasRTC, hasBattery bool, seed *time.Time) *MBC3 {
	ramSize := uint32(ramBankCount) * 0x2000
	start := time.Now()
	if seed != nil {
		start = *seed
	}
	return &MBC3{
		rom:        romData,
		ram:        make([]uint8, ramSize),
		romBank:    1,
		ramEnabled: false,
		hasRTC:     hasRTC,
		hasBattery: hasBattery,
		lastTick:   start,
	}
}

func (m *MBC3) IsBatteryBacked() bool { return m.hasBattery }
func (m *MBC3) DumpRAM() []uint8      { return append([]uint8(nil), m.ram...) }
func (m *MBC3) LoadRAM(data []uint8)  { copy(m.ram, data) }
func (m *MBC3) TakeAndClearDirtyFlag() bool {
	d := m.dirty
	m.dirty = false
	return d
}

// DumpRTC returns the 48-byte little-endian RTC snapshot appended to the
// save file: live registers, latched registers, then the last wall-clock
// timestamp as unix seconds (spec.md §6).
func (m *MBC3) DumpRTC() []uint8 {
	out := make([]uint8, 48)
	copy(out[0:5], m.rtc[:])
	copy(out[5:10], m.rtcLatched[:])
	binary.LittleEndian.PutUint64(out[40:48], uint64(m.lastTick.Unix()))
	return out
}

// LoadRTC restores a previously dumped RTC snapshot.
func (m *MBC3) LoadRTC(data []uint8) error {
	if len(data) != 48 {
		return fmt.Errorf("rtc snapshot: want 48 bytes, got %d", len(data))
	}
	copy(m.rtc[:], data[0:5])
	copy(m.rtcLatched[:], data[5:10])
	m.lastTick = time.Unix(int64(binary.LittleEndian.Uint64(data[40:48])), 0)
	return nil
}

// advanceRTC folds elapsed wall-clock time into the RTC registers, carrying
// seconds into minutes, minutes into hours, hours into the 9-bit day
// counter. A halted clock (day-high bit 6 set) does not advance.
func (m *MBC3) advanceRTC() {
	if m.rtc[rtcDayHighIdx]&rtcDayHighHalt != 0 {
		m.lastTick = time.Now()
		return
	}

	now := time.Now()
	elapsed := int(now.Sub(m.lastTick).Seconds())
	if elapsed <= 0 {
		return
	}
	m.lastTick = now

	seconds := int(m.rtc[rtcSecondsIdx]) + elapsed
	minutes := int(m.rtc[rtcMinutesIdx]) + seconds/60
	seconds %= 60
	hours := int(m.rtc[rtcHoursIdx]) + minutes/60
	minutes %= 60
	day := (int(m.rtc[rtcDayHighIdx]&0x01)<<8 | int(m.rtc[rtcDayLowIdx])) + hours/24
	hours %= 24

	m.rtc[rtcSecondsIdx] = uint8(seconds)
	m.rtc[rtcMinutesIdx] = uint8(minutes)
	m.rtc[rtcHoursIdx] = uint8(hours)
	m.rtc[rtcDayLowIdx] = uint8(day & 0xFF)

	dayHigh := m.rtc[rtcDayHighIdx] &^ 0x01
	if day > 0x1FF {
		dayHigh |= 0x80 // day counter carry flag
	}
	dayHigh |= uint8((day >> 8) & 0x01)
	m.rtc[rtcDayHighIdx] = dayHigh
}

func (m *MBC3) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return m.rom[addr]
	case addr >= 0x4000 && addr <= 0x7FFF:
		offset := uint32(m.romBank) * 0x4000
		if offset >= uint32(len(m.rom)) {
			offset %= uint32(len(m.rom))
		}
		return m.rom[offset+uint32(addr-0x4000)]
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		if m.hasRTC && m.ramBank >= 0x08 && m.ramBank <= 0x0C {
			return m.rtcLatched[m.ramBank-0x08]
		}
		if len(m.ram) == 0 {
			return 0xFF
		}
		offset := uint32(m.ramBank) * 0x2000
		if offset >= uint32(len(m.ram)) {
			offset %= uint32(len(m.ram))
		}
		return m.ram[offset+uint32(addr-0xA000)]
	default:
		return 0xFF
	}
}

func (m *MBC3) Write(addr uint16, value uint8) uint8 {
	switch {
	case addr <= 0x1FFF:
		// RAM and RTC register Enable
		m.ramEnabled = (value & 0x0F) == 0x0A
	case addr >= 0x2000 && addr <= 0x3FFF:
		// ROM Bank Number, all 7 bits; 0 is coerced to 1, as on MBC1
		bank := value & 0x7F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case addr >= 0x4000 && addr <= 0x5FFF:
		// RAM Bank Number, or RTC Register Select when 0x08-0x0C
		m.ramBank = value
	case addr >= 0x6000 && addr <= 0x7FFF:
		// Latch Clock Data: a 0x00 write followed by a 0x01 write snapshots
		// the live RTC registers into the latched copy read back by 0xA000-0xBFFF.
		if m.hasRTC {
			if value == 0x00 {
				m.latchStep = 1
			} else if value == 0x01 && m.latchStep == 1 {
				m.advanceRTC()
				m.rtcLatched = m.rtc
				m.latchStep = 0
			} else {
				m.latchStep = 0
			}
		}
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		if m.hasRTC && m.ramBank >= 0x08 && m.ramBank <= 0x0C {
			m.advanceRTC()
			m.rtc[m.ramBank-0x08] = value
			m.dirty = true
			return value
		}
		if len(m.ram) == 0 {
			return 0xFF
		}
		offset := uint32(m.ramBank) * 0x2000
		if offset >= uint32(len(m.ram)) {
			offset %= uint32(len(m.ram))
		}
		m.ram[offset+uint32(addr-0xA000)] = value
		m.dirty = true
	}
	return value
}

// MBC5 is the most advanced MBC chip. Features include:
// - Supports up to 8MB ROM (512 16KB banks)
// - Up to 128KB RAM (16 8KB banks)
// - Simple ROM/RAM banking with no quirks (unlike MBC1)
// - 9-bit ROM bank number (allows all 512 banks to be directly accessed)
// - Optional rumble motor support
// - Used in Game Boy Color games that needed more ROM/RAM
// - Backwards compatible with Game Boy
type MBC5 struct {
	rom        []uint8
	ram        []uint8
	romBank    uint16 // MBC5 supports up to 512 ROM banks
	ramBank    uint8
	ramEnabled bool
	hasRumble  bool
	hasBattery bool
	dirty      bool
}

// NewMBC5 creates a new MBC5 controller
func NewMBC5(romData []uint8, hasRumble, hasBattery bool, ramBankCount uint8) *MBC5 {
	ramSize := uint32(ramBankCount) * 0x2000
	return &MBC5{
		rom:        romData,
		ram:        make([]uint8, ramSize),
		romBank:    1,
		ramEnabled: false,
		hasRumble:  hasRumble,
		hasBattery: hasBattery,
	}
}

func (m *MBC5) IsBatteryBacked() bool { return m.hasBattery }
func (m *MBC5) DumpRAM() []uint8      { return append([]uint8(nil), m.ram...) }
func (m *MBC5) LoadRAM(data []uint8)  { copy(m.ram, data) }
func (m *MBC5) TakeAndClearDirtyFlag() bool {
	d := m.dirty
	m.dirty = false
	return d
}

func (m *MBC5) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return m.rom[addr]
	case addr >= 0x4000 && addr <= 0x7FFF:
		offset := uint32(m.romBank) * 0x4000
		if offset >= uint32(len(m.rom)) {
			offset %= uint32(len(m.rom))
		}
		return m.rom[offset+uint32(addr-0x4000)]
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		offset := uint32(m.ramBank) * 0x2000
		if offset >= uint32(len(m.ram)) {
			offset %= uint32(len(m.ram))
		}
		return m.ram[offset+uint32(addr-0xA000)]
	default:
		return 0xFF
	}
}

func (m *MBC5) Write(addr uint16, value uint8) uint8 {
	switch {
	case addr <= 0x1FFF:
		// RAM Enable (also gates the rumble motor on carts that have one)
		m.ramEnabled = (value & 0x0F) == 0x0A
	case addr >= 0x2000 && addr <= 0x2FFF:
		// ROM Bank Number, low 8 bits. No bank-0 coercion on MBC5.
		m.romBank = (m.romBank & 0x100) | uint16(value)
	case addr >= 0x3000 && addr <= 0x3FFF:
		// ROM Bank Number, bit 8
		m.romBank = (m.romBank & 0xFF) | (uint16(value&0x01) << 8)
	case addr >= 0x4000 && addr <= 0x5FFF:
		// RAM Bank Number, low 4 bits. Bit 3 drives the rumble motor on carts
		// with one; the mask keeps it as part of the bank number.
		m.ramBank = value & 0x0F
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		offset := uint32(m.ramBank) * 0x2000
		if offset >= uint32(len(m.ram)) {
			offset %= uint32(len(m.ram))
		}
		m.ram[offset+uint32(addr-0xA000)] = value
		m.dirty = true
	}
	return value
}
