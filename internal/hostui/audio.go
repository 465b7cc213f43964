// SilentSink exercises the real audio output path even though APU
// sample synthesis is out of scope (spec.md §1 Non-goals): it opens a
// device via ebitengine/oto and continuously feeds it silence, so a
// reference host's audio pipeline has the same shape the teacher's
// internal/ui/audio.go apuStream gives the real APU, without this
// module inventing sound generation.
package hostui

import (
	"io"

	"github.com/ebitengine/oto/v3"
)

const (
	sinkChannelCount = 2
	sinkBytesPerFrame = sinkChannelCount * 2 // 16-bit stereo
)

// silenceReader is an io.Reader that always returns zeroed PCM frames,
// standing in for apuStream.Read's "no data buffered yet" silence path
// in the teacher's audio.go, made permanent since there is no APU here.
type silenceReader struct{}

func (silenceReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

// SilentSink owns an oto context and a player continuously draining
// silenceReader, keeping the audio device open the way a real game
// would, without requiring this module to synthesize samples.
type SilentSink struct {
	ctx    *oto.Context
	player *oto.Player
}

// NewSilentSink opens an oto context at the given sample rate. Errors
// opening the device are swallowed (best-effort, like the teacher's own
// "if no audio device, keep playing anyway" posture) and Start/Close
// become no-ops.
func NewSilentSink(sampleRate int) *SilentSink {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: sinkChannelCount,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return &SilentSink{}
	}
	<-ready
	s := &SilentSink{ctx: ctx}
	s.player = ctx.NewPlayer(io.Reader(silenceReader{}))
	return s
}

// Start begins playback of silence.
func (s *SilentSink) Start() {
	if s.player != nil {
		s.player.Play()
	}
}

// Close stops playback and releases the player.
func (s *SilentSink) Close() error {
	if s.player == nil {
		return nil
	}
	return s.player.Close()
}
