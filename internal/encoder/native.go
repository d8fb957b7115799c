package encoder

import (
	"context"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
	"github.com/pkg/errors"
)

// Native encodes in-process with the pure-Go FLAC encoder. Samples are
// written as verbatim subframes, so output is lossless but uncompressed;
// the compression level only applies to the process backend.
type Native struct{}

// Name implements [Encoder].
func (Native) Name() string { return "native" }

// encodeBlockSize is the fixed FLAC block size in inter-channel samples.
const encodeBlockSize = 4096

// Encode decodes src with the WAV decoder and streams its PCM samples into
// a FLAC encoder writing to dest, one frame per block. A partial destination
// file is removed on any error, including cancellation.
func (Native) Encode(ctx context.Context, src, dest string, level int) error {
	r, err := os.Open(src)
	if err != nil {
		return errors.WithStack(err)
	}
	defer r.Close()

	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return errors.Errorf("invalid WAV file %q", src)
	}
	if err := dec.FwdToPCM(); err != nil {
		return errors.WithStack(err)
	}
	info := streamInfo(dec)

	w, err := os.Create(dest)
	if err != nil {
		return errors.WithStack(err)
	}

	enc, err := flac.NewEncoder(w, info)
	if err != nil {
		w.Close()
		os.Remove(dest)
		return errors.WithStack(err)
	}

	if err := encodePCM(ctx, dec, enc, info); err != nil {
		enc.Close()
		os.Remove(dest)
		return err
	}

	// Close rewrites the STREAMINFO header and closes the destination file.
	if err := enc.Close(); err != nil {
		os.Remove(dest)
		return errors.WithStack(err)
	}
	return nil
}

// streamInfo builds the STREAMINFO block from the decoded WAV header. The
// decoder must already be forwarded to the PCM chunk so the chunk size, and
// with it the total sample count, is known.
func streamInfo(dec *wav.Decoder) *meta.StreamInfo {
	info := &meta.StreamInfo{
		BlockSizeMin:  encodeBlockSize,
		BlockSizeMax:  encodeBlockSize,
		SampleRate:    dec.SampleRate,
		NChannels:     uint8(dec.NumChans),
		BitsPerSample: uint8(dec.BitDepth),
	}
	if frameBytes := int(dec.NumChans) * int(dec.BitDepth) / 8; frameBytes > 0 {
		info.NSamples = uint64(dec.PCMSize / frameBytes)
	}
	return info
}

// encodePCM pumps PCM samples from the WAV decoder into the FLAC encoder one
// block at a time, checking for cancellation between blocks.
func encodePCM(ctx context.Context, dec *wav.Decoder, enc *flac.Encoder, info *meta.StreamInfo) error {
	nchannels := int(info.NChannels)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: nchannels,
			SampleRate:  int(info.SampleRate),
		},
		Data:           make([]int, encodeBlockSize*nchannels),
		SourceBitDepth: int(info.BitsPerSample),
	}

	for !dec.EOF() {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := dec.PCMBuffer(buf)
		if err != nil {
			return errors.WithStack(err)
		}
		if n == 0 {
			break
		}
		if err := enc.WriteFrame(pcmFrame(buf.Data[:n], info)); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// pcmFrame packs one block of interleaved samples into a FLAC frame with one
// verbatim subframe per channel. Channel assignments 0-7 encode 1-8
// independent channels, so the assignment is the channel count minus one.
func pcmFrame(interleaved []int, info *meta.StreamInfo) *frame.Frame {
	nchannels := int(info.NChannels)
	nsamples := len(interleaved) / nchannels
	f := &frame.Frame{
		Header: frame.Header{
			HasFixedBlockSize: true,
			BlockSize:         uint16(nsamples),
			SampleRate:        info.SampleRate,
			Channels:          frame.Channels(info.NChannels - 1),
			BitsPerSample:     info.BitsPerSample,
		},
		Subframes: make([]*frame.Subframe, nchannels),
	}
	for ch := range f.Subframes {
		samples := make([]int32, nsamples)
		for i := range samples {
			samples[i] = int32(interleaved[i*nchannels+ch])
		}
		f.Subframes[ch] = &frame.Subframe{
			SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
			Samples:   samples,
			NSamples:  nsamples,
		}
	}
	return f
}
