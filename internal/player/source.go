// Package player provides audio decoding and the speaker-backed output.
package player

import (
	"os"
	"time"

	"github.com/gopxl/beep/v2"
)

// Source is a decoded audio stream ready for playback. A source is
// consumed once by Output.Enqueue and must be closed by whoever owns it
// last (the output, once enqueued).
type Source interface {
	// Streamer returns the seekable sample stream.
	Streamer() beep.StreamSeekCloser
	// Format returns the stream's sample format.
	Format() beep.Format
	// TotalDuration returns the total stream duration.
	TotalDuration() time.Duration
	// Close releases the underlying resources.
	Close() error
}

// fileSource streams samples from an open file.
type fileSource struct {
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
}

func (s *fileSource) Streamer() beep.StreamSeekCloser { return s.streamer }

func (s *fileSource) Format() beep.Format { return s.format }

func (s *fileSource) TotalDuration() time.Duration {
	return s.format.SampleRate.D(s.streamer.Len())
}

func (s *fileSource) Close() error {
	err := s.streamer.Close()
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// memorySource streams samples fully buffered in memory.
type memorySource struct {
	buffer   *beep.Buffer
	streamer beep.StreamSeekCloser
}

// NewMemorySource buffers the given streamer entirely in memory and
// returns it as a Source. Useful for short sounds and for tests.
func NewMemorySource(format beep.Format, streamer beep.Streamer) Source {
	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	return &memorySource{buffer: buf}
}

// Streamer returns the sample stream. The same streamer is handed out
// on every call so that position and seeking stay consistent.
func (s *memorySource) Streamer() beep.StreamSeekCloser {
	if s.streamer == nil {
		s.streamer = nopCloser{s.buffer.Streamer(0, s.buffer.Len())}
	}
	return s.streamer
}

func (s *memorySource) Format() beep.Format { return s.buffer.Format() }

func (s *memorySource) TotalDuration() time.Duration {
	return s.buffer.Format().SampleRate.D(s.buffer.Len())
}

func (s *memorySource) Close() error { return nil }

// nopCloser adds a no-op Close to a StreamSeeker.
type nopCloser struct {
	beep.StreamSeeker
}

func (nopCloser) Close() error { return nil }
