// Package probe reads WAV headers to validate sources and report their
// audio parameters before a worker is spent on conversion.
package probe

import (
	"os"
	"time"

	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

// Result holds the parameters of a probed WAV file.
type Result struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
	SizeBytes  int64
}

// Probe opens path and reads its WAV header. It fails on unreadable files
// and on files that are not valid RIFF/WAVE, which catches zero-byte and
// truncated sources up front.
func Probe(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, errors.Errorf("invalid WAV file %q", path)
	}

	res := &Result{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
		SizeBytes:  fi.Size(),
	}
	// Duration needs the data chunk length; leave zero if the header is
	// readable but the length is not.
	if d, err := dec.Duration(); err == nil {
		res.Duration = d
	}
	return res, nil
}
