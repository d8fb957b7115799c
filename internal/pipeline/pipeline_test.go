package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// --- Discover tests ---

func TestDiscover_FiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.wav")
	touch(t, dir, "b.WAV")
	touch(t, dir, "c.Wav")
	touch(t, dir, "music.mp3")
	touch(t, dir, "cover.jpg")
	touch(t, dir, "notes.txt")

	files, err := Discover(dir, "")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	want := []string{"a.wav", "b.WAV", "c.Wav"}
	got := basenames(files)
	if !sliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDiscover_RecursesAndSorts(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "sub", "deep"), 0o755)
	touch(t, filepath.Join(dir, "sub", "deep"), "z.wav")
	touch(t, filepath.Join(dir, "sub"), "m.wav")
	touch(t, dir, "a.wav")

	files, err := Discover(dir, "")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files, want 3", len(files))
	}
	for i := 1; i < len(files); i++ {
		if files[i-1] >= files[i] {
			t.Errorf("files not sorted: %v", files)
		}
	}
}

func TestDiscover_PrunesArchiveDir(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "wav_raw")
	os.MkdirAll(archive, 0o755)
	touch(t, dir, "keep.wav")
	touch(t, archive, "already_done.wav")

	files, err := Discover(dir, archive)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "keep.wav" {
		t.Errorf("got %v, want only keep.wav (archive dir should be pruned)", files)
	}
}

func TestDiscover_MissingRoot(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "nope"), ""); err == nil {
		t.Error("Discover should fail on a nonexistent root")
	}
}

// --- BuildJobs tests ---

func TestBuildJobs_OneJobPerFile(t *testing.T) {
	files := []string{"/in/a.wav", "/in/sub/b.wav"}
	jobs, err := BuildJobs(files, "/in", "", 8)
	if err != nil {
		t.Fatalf("BuildJobs: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}
	if jobs[0].Dest != "/in/a.flac" || jobs[1].Dest != "/in/sub/b.flac" {
		t.Errorf("destinations = %q, %q", jobs[0].Dest, jobs[1].Dest)
	}
	for _, j := range jobs {
		if j.CompressionLevel != 8 {
			t.Errorf("job %s level = %d, want 8", j.Source, j.CompressionLevel)
		}
		if j.ID == "" {
			t.Errorf("job %s has no ID", j.Source)
		}
	}
	if jobs[0].ID == jobs[1].ID {
		t.Error("job IDs should be unique")
	}
}

func TestBuildJobs_MirroredRoot(t *testing.T) {
	jobs, err := BuildJobs([]string{"/in/sub/b.wav"}, "/in", "/out", 4)
	if err != nil {
		t.Fatalf("BuildJobs: %v", err)
	}
	if jobs[0].Dest != "/out/sub/b.flac" {
		t.Errorf("Dest = %q, want /out/sub/b.flac", jobs[0].Dest)
	}
}

func TestBuildJobs_RejectsDuplicateDestinations(t *testing.T) {
	// Case-insensitive extension matching makes a.wav and a.WAV map to the
	// same destination.
	files := []string{"/in/a.WAV", "/in/a.wav"}
	if _, err := BuildJobs(files, "/in", "", 8); err == nil {
		t.Error("BuildJobs should reject two sources claiming one destination")
	}
}

// --- helpers ---

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func basenames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}
