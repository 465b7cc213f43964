package emu

// Config contains settings that affect emulation behavior, as opposed
// to host presentation (see internal/config.Settings for that).
type Config struct {
	// Trace raises New's diag.Logger to LevelTrace, logging the
	// cartridge load and a line per completed frame.
	Trace bool
}
