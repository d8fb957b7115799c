package encoder

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/flacpress/flacpress/internal/config"
)

// writeWAV writes a small mono 16-bit PCM file to encode in tests.
func writeWAV(t *testing.T, path string, samples int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	e := wav.NewEncoder(f, 8000, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 8000},
		Data:           make([]int, samples),
		SourceBitDepth: 16,
	}
	for i := range buf.Data {
		buf.Data[i] = int(int16(i * 251))
	}
	if err := e.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNativeEncode_ProducesFLAC(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tone.wav")
	dest := filepath.Join(dir, "tone.flac")
	writeWAV(t, src, 4000)

	if err := (Native{}).Encode(context.Background(), src, dest, 8); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if len(b) == 0 {
		t.Fatal("output file is empty")
	}
	if !bytes.HasPrefix(b, []byte("fLaC")) {
		t.Errorf("output does not start with the FLAC signature: % x", b[:4])
	}
}

func TestNativeEncode_MultipleBlocks(t *testing.T) {
	// More samples than one 4096-sample block, so the encode loop emits
	// several frames before rewriting the stream header on Close.
	dir := t.TempDir()
	src := filepath.Join(dir, "long.wav")
	dest := filepath.Join(dir, "long.flac")
	writeWAV(t, src, 10000)

	if err := (Native{}).Encode(context.Background(), src, dest, 8); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("fLaC")) {
		t.Error("output does not start with the FLAC signature")
	}
	// Verbatim 16-bit subframes cannot fit 10000 samples in much less than
	// the raw PCM size; anything close to empty means frames were dropped.
	if len(b) < 10000 {
		t.Errorf("output is %d bytes, suspiciously small for 10000 samples", len(b))
	}
}

func TestNativeEncode_Stereo(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "pair.wav")
	dest := filepath.Join(dir, "pair.flac")

	f, err := os.Create(src)
	if err != nil {
		t.Fatal(err)
	}
	e := wav.NewEncoder(f, 8000, 16, 2, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: 8000},
		Data:           make([]int, 6000*2),
		SourceBitDepth: 16,
	}
	for i := range buf.Data {
		buf.Data[i] = int(int16(i * 173))
	}
	if err := e.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if err := (Native{}).Encode(context.Background(), src, dest, 8); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("fLaC")) {
		t.Error("output does not start with the FLAC signature")
	}
}

func TestNativeEncode_InvalidSourceLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "noise.wav")
	dest := filepath.Join(dir, "noise.flac")
	if err := os.WriteFile(src, []byte("not RIFF data"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := (Native{}).Encode(context.Background(), src, dest, 8); err == nil {
		t.Fatal("Encode should fail on non-WAV data")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("a failed encode must not leave a destination file behind")
	}
}

func TestNativeEncode_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := (Native{}).Encode(context.Background(),
		filepath.Join(dir, "gone.wav"), filepath.Join(dir, "gone.flac"), 8)
	if err == nil {
		t.Error("Encode should fail on a missing source")
	}
}

func TestNativeEncode_Cancelled(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tone.wav")
	dest := filepath.Join(dir, "tone.flac")
	writeWAV(t, src, 4000)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := (Native{}).Encode(ctx, src, dest, 8); err == nil {
		t.Fatal("Encode should fail under a cancelled context")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("a cancelled encode must not leave a destination file behind")
	}
}

func TestFFmpegArgs(t *testing.T) {
	args := FFmpeg{Bin: "ffmpeg"}.Args("/in/a.wav", "/out/a.flac", 5)
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"-i /in/a.wav",
		"-compression_level 5",
		"-c:a flac",
		"-loglevel error",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q missing %q", joined, want)
		}
	}
	if args[len(args)-1] != "/out/a.flac" {
		t.Errorf("last arg = %q, want the destination path", args[len(args)-1])
	}
}

func TestClassifyStderr(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   string
	}{
		{"permission", "out.flac: Permission denied", "destination not writable"},
		{"invalid data", "in.wav: Invalid data found when processing input", "source is not valid WAV data"},
		{"missing input", "in.wav: No such file or directory", "source file missing or unreadable"},
		{"no flac encoder", "Unknown encoder 'flac'", "ffmpeg build lacks the FLAC encoder"},
		{"unclassified", "something exploded", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStderr(tt.stderr)
			if got != tt.want {
				t.Errorf("ClassifyStderr(%q) = %q, want %q", tt.stderr, got, tt.want)
			}
		})
	}
}

func TestStderrTail(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		n      int
		want   string
	}{
		{"empty", "", 3, ""},
		{"single line", "boom", 3, "boom"},
		{"keeps last n", "a\nb\nc\nd", 2, "c; d"},
		{"skips blanks", "a\n\n\nb\n", 3, "a; b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StderrTail(tt.stderr, tt.n)
			if got != tt.want {
				t.Errorf("StderrTail(%q, %d) = %q, want %q", tt.stderr, tt.n, got, tt.want)
			}
		})
	}
}

func TestForMode(t *testing.T) {
	cfg := config.DefaultConfig()
	if got := ForMode(&cfg).Name(); got != "native" {
		t.Errorf("default mode encoder = %q, want native", got)
	}

	cfg.Mode = config.ModeProcess
	cfg.FFmpegBin = "/usr/bin/ffmpeg"
	enc := ForMode(&cfg)
	if enc.Name() != "ffmpeg" {
		t.Errorf("process mode encoder = %q, want ffmpeg", enc.Name())
	}
	if f, ok := enc.(FFmpeg); !ok || f.Bin != "/usr/bin/ffmpeg" {
		t.Errorf("process mode encoder should carry the configured binary, got %#v", enc)
	}
}
