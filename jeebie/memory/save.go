package memory

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const rtcSnapshotSize = 48

// SavePath returns the sibling file spec.md §6 calls for: the ROM path with
// its extension replaced by .gbsave.
func SavePath(romPath string) string {
	ext := filepath.Ext(romPath)
	return strings.TrimSuffix(romPath, ext) + ".gbsave"
}

// LoadBatteryBacked restores a .gbsave file's RAM (and RTC state, for MBC3)
// into mmu's cartridge RAM, if the ROM has a save file and the loaded MBC
// supports it. A missing save file is not an error: it simply means this is
// the cartridge's first run.
func LoadBatteryBacked(mmu *MMU, romPath string) error {
	backed, ok := mmu.MBC().(BatteryBacked)
	if !ok || !backed.IsBatteryBacked() {
		return nil
	}

	data, err := os.ReadFile(SavePath(romPath))
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no save file found", "rom", romPath)
		return nil
	}
	if err != nil {
		return err
	}

	ramData := data
	if rtc, ok := mmu.MBC().(RTCBacked); ok && len(data) >= rtcSnapshotSize {
		ramData = data[:len(data)-rtcSnapshotSize]
		if err := rtc.LoadRTC(data[len(data)-rtcSnapshotSize:]); err != nil {
			return err
		}
	}

	backed.LoadRAM(ramData)
	slog.Debug("loaded save file", "rom", romPath, "bytes", len(data))
	return nil
}

// SaveBatteryBacked writes mmu's cartridge RAM (plus the RTC snapshot, for
// MBC3) to the ROM's .gbsave sibling, but only when the dirty flag is set.
// Write failures are logged and ignored per spec.md §7(c): they must never
// abort a running session.
func SaveBatteryBacked(mmu *MMU, romPath string) {
	backed, ok := mmu.MBC().(BatteryBacked)
	if !ok || !backed.IsBatteryBacked() || !backed.TakeAndClearDirtyFlag() {
		return
	}

	data := backed.DumpRAM()
	if rtc, ok := mmu.MBC().(RTCBacked); ok {
		data = append(data, rtc.DumpRTC()...)
	}

	if err := os.WriteFile(SavePath(romPath), data, 0644); err != nil {
		slog.Warn("failed to write save file", "rom", romPath, "error", err)
	}
}
