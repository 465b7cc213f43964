// Package config persists host-facing settings (window title and scale,
// ROMs directory, last ROM path, audio stereo flag, per-ROM compat
// palette) to a TOML file. Key bindings are not among them.
//
// Grounded on the teacher's internal/ui/config.go Config struct and its
// Defaults() method; the teacher persists settings through an ad hoc
// format inside ebitenapp.go's saveSettings, which this package replaces
// with github.com/BurntSushi/toml (carried in the retrieval pack via
// RetroCodeRamen-Nitro-Core-DX's dependency list) for a real on-disk
// settings format instead of a bespoke one.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Settings mirrors the teacher's ui.Config fields relevant outside the
// graphics layer, plus the per-ROM compat-palette map already modeled
// there.
type Settings struct {
	Title   string `toml:"title"`
	Scale   int    `toml:"scale"`
	ROMsDir string `toml:"roms_dir"`
	LastROM string `toml:"last_rom"`

	AudioStereo bool `toml:"audio_stereo"`

	// PerROMCompatPalette maps a ROM path to a chosen compat-palette ID.
	// It is saved and loaded with the other settings; emu.Machine.LoadROM
	// does not read it and always picks the palette through
	// autoCompatPaletteFromHeader.
	PerROMCompatPalette map[string]int `toml:"per_rom_compat_palette"`
}

// Defaults fills zero-valued fields with the teacher's own defaults.
func (s *Settings) Defaults() {
	if s.Title == "" {
		s.Title = "lr35902"
	}
	if s.Scale <= 0 {
		s.Scale = 3
	}
	if s.ROMsDir == "" {
		s.ROMsDir = "roms"
	}
	if s.PerROMCompatPalette == nil {
		s.PerROMCompatPalette = make(map[string]int)
	}
}

// Load reads Settings from a TOML file, applying Defaults to whatever
// the file leaves unset. A missing file is not an error: it returns
// defaults as if the file were empty.
func Load(path string) (*Settings, error) {
	s := &Settings{}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, s); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	s.Defaults()
	return s, nil
}

// Save writes Settings to a TOML file, overwriting any existing content.
func Save(path string, s *Settings) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(s)
}
