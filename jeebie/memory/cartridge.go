package memory

import "github.com/Xponent123/gb-emulator/jeebie/util"

const titleLength = 11

const (
	entryPointAddress       = 0x100
	logoAddress             = 0x104
	titleAddress            = 0x134
	manufacturerCodeAddress = 0x13F
	cgbFlagAddress          = 0x143
	newLicenseCodeAddress   = 0x144
	sgbFlagAddress          = 0x146
	cartridgeTypeAddress    = 0x147
	romSizeAddress          = 0x148
	ramSizeAddress          = 0x149
	destinationCodeAddress  = 0x14A
	oldLicenseCodeAddress   = 0x14B
	versionNumberAddress    = 0x14C
	headerChecksumAddress   = 0x14D
	globalChecksumAddress   = 0x14E
)

// MBCKind identifies which memory bank controller family a cartridge uses,
// derived from the cartridge type byte at 0x147.
type MBCKind uint8

const (
	NoMBCType MBCKind = iota
	MBC1Type
	MBC1MultiType
	MBC2Type
	MBC3Type
	MBC5Type
	MBCUnknownType
)

// cartridgeTypeTable maps the raw byte at 0x147 to an MBC family and its
// feature flags (battery backup, RTC, rumble). Multicart MBC1 carts (bundling
// multiple games) carry the same 0x147 values as plain MBC1, are not
// distinguishable from the header alone and are treated as plain MBC1,
// matching common emulator behavior.
var cartridgeTypeTable = map[uint8]struct {
	kind       MBCKind
	hasBattery bool
	hasRTC     bool
	hasRumble  bool
}{
	0x00: {NoMBCType, false, false, false},
	0x01: {MBC1Type, false, false, false},
	0x02: {MBC1Type, false, false, false},
	0x03: {MBC1Type, true, false, false},
	0x05: {MBC2Type, false, false, false},
	0x06: {MBC2Type, true, false, false},
	0x08: {NoMBCType, false, false, false},
	0x09: {NoMBCType, true, false, false},
	0x0F: {MBC3Type, true, true, false},
	0x10: {MBC3Type, true, true, false},
	0x11: {MBC3Type, false, false, false},
	0x12: {MBC3Type, false, false, false},
	0x13: {MBC3Type, true, false, false},
	0x19: {MBC5Type, false, false, false},
	0x1A: {MBC5Type, false, false, false},
	0x1B: {MBC5Type, true, false, false},
	0x1C: {MBC5Type, false, false, true},
	0x1D: {MBC5Type, false, false, true},
	0x1E: {MBC5Type, true, false, true},
}

// ConsoleMode identifies which physical console the cartridge expects to run
// on, derived from the CGB flag byte at 0x143. This affects rendering details
// the hardware itself changes behavior on, such as sprite-to-sprite priority
// ordering (see video.SpritePriorityBuffer).
type ConsoleMode uint8

const (
	// ConsoleClassic is a DMG-only cartridge (0x143 has neither CGB bit set).
	ConsoleClassic ConsoleMode = iota
	// ConsoleColorAsClassic supports CGB but also runs unmodified on DMG
	// hardware (0x143 == 0x80). Still renders using classic priority rules
	// unless running on real CGB hardware, which this emulator doesn't model
	// separately, so it is treated the same as ConsoleClassic for priority.
	ConsoleColorAsClassic
	// ConsoleColor is CGB-exclusive (0x143 == 0xC0).
	ConsoleColor
)

func consoleModeFromFlag(flag byte) ConsoleMode {
	switch flag {
	case 0xC0:
		return ConsoleColor
	case 0x80:
		return ConsoleColorAsClassic
	default:
		return ConsoleClassic
	}
}

// ramBankCountTable maps the raw byte at 0x149 to a count of 8KB RAM banks.
var ramBankCountTable = map[uint8]uint8{
	0x00: 0,
	0x01: 1,
	0x02: 1,
	0x03: 4,
	0x04: 16,
	0x05: 8,
}

type Cartridge struct {
	data           []byte
	title          string
	headerChecksum uint16
	globalChecksum uint16
	version        uint8
	cartType       uint8
	romSize        uint8
	ramSize        uint8

	mbcType      MBCKind
	hasBattery   bool
	hasRTC       bool
	hasRumble    bool
	ramBankCount uint8
	consoleMode  ConsoleMode
}

// NewCartridge creates an empty cartridge, useful only for debugging purposes.
func NewCartridge() *Cartridge {
	return &Cartridge{
		data:        make([]byte, 0x10000),
		mbcType:     NoMBCType,
		consoleMode: ConsoleClassic,
	}
}

// NewCartridgeWithData initializes a new Cartridge from a slice of bytes,
// parsing the header to determine title, checksums and MBC configuration.
func NewCartridgeWithData(bytes []byte) *Cartridge {
	titleBytes := bytes[titleAddress : titleAddress+titleLength]
	cartType := bytes[cartridgeTypeAddress]

	entry, known := cartridgeTypeTable[cartType]
	if !known {
		entry.kind = MBCUnknownType
	}

	cart := &Cartridge{
		data:           make([]byte, len(bytes)),
		title:          cleanGameboyTitle(titleBytes),
		headerChecksum: util.CombineBytes(bytes[headerChecksumAddress+1], bytes[headerChecksumAddress]),
		globalChecksum: util.CombineBytes(bytes[globalChecksumAddress+1], bytes[globalChecksumAddress]),
		version:        bytes[versionNumberAddress],
		cartType:       cartType,
		romSize:        bytes[romSizeAddress],
		ramSize:        bytes[ramSizeAddress],
		mbcType:        entry.kind,
		hasBattery:     entry.hasBattery,
		hasRTC:         entry.hasRTC,
		hasRumble:      entry.hasRumble,
		ramBankCount:   ramBankCountTable[bytes[ramSizeAddress]],
		consoleMode:    consoleModeFromFlag(bytes[cgbFlagAddress]),
	}

	copy(cart.data, bytes)

	return cart
}

// Title returns the cleaned-up game title parsed from the header.
func (c Cartridge) Title() string {
	return c.title
}

// ConsoleMode reports which console the cartridge declares support for.
func (c Cartridge) ConsoleMode() ConsoleMode {
	return c.consoleMode
}

// ReadByte reads a byte at the specified address. Does not check bounds, so the caller must make sure the
// address is valid for the cartridge.
func (c Cartridge) ReadByte(addr uint16) uint8 {
	return c.data[addr]
}

// WriteByte attempts a write to the specified address. Writing to a cartridge has sense if the cartridge
// has extra RAM or for some special operations, like switching ROM banks.
func (c Cartridge) WriteByte(addr uint16, value uint8) uint8 {
	return c.data[addr]
}
