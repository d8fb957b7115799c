// Package pipeline orchestrates file discovery, job building, the bounded
// worker pool that executes conversions, and batch summary reporting.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/mewkiz/pkg/osutil"

	"github.com/flacpress/flacpress/internal/config"
	"github.com/flacpress/flacpress/internal/display"
	"github.com/flacpress/flacpress/internal/encoder"
	"github.com/flacpress/flacpress/internal/logging"
	"github.com/flacpress/flacpress/internal/naming"
	"github.com/flacpress/flacpress/internal/probe"
)

// Run is the top-level batch entry point. It discovers files, builds jobs,
// dispatches them to the worker pool, and returns aggregate stats. The
// returned stats drive the process exit code: Failed > 0 means exit 1.
func Run(ctx context.Context, cfg *config.Config, enc encoder.Encoder, log *logging.Logger) RunStats {
	var stats RunStats

	files, err := Discover(cfg.InputDir, cfg.ArchiveDir)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		// Counted as a failure so the run exits nonzero.
		stats.Failed++
		return stats
	}

	stats.Total = len(files)
	if stats.Total == 0 {
		log.Warn("No .wav files found under %s", cfg.InputDir)
		return stats
	}

	jobs, err := BuildJobs(files, cfg.InputDir, cfg.OutputDir, cfg.CompressionLevel)
	if err != nil {
		log.Error("Cannot build conversion jobs: %v", err)
		stats.Failed++
		return stats
	}

	logBatchHeader(cfg, log, &stats, enc)

	results := dispatch(ctx, cfg, log, enc, jobs)
	mergeResults(&stats, results)

	logSummary(cfg, log, &stats)
	return stats
}

// jobResult is what a worker reports back for one job. Exactly one of
// failed/skipped may be set; neither means the job converted.
type jobResult struct {
	job      Job
	skipped  bool
	failed   bool
	reason   string
	inBytes  int64
	outBytes int64
}

// dispatch runs jobs on up to cfg.Workers goroutines pulling from a shared
// channel until it is drained. The WaitGroup barrier is the only
// synchronization point; workers share nothing but the channel and the
// mutex-guarded result slice. Cancellation stops dispatch between jobs.
func dispatch(ctx context.Context, cfg *config.Config, log *logging.Logger, enc encoder.Encoder, jobs []Job) []jobResult {
	workers := cfg.Workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	jobCh := make(chan Job)
	results := make([]jobResult, 0, len(jobs))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				r := runJob(ctx, cfg, log, enc, job)
				mu.Lock()
				results = append(results, r)
				mu.Unlock()
			}
		}()
	}

	for _, job := range jobs {
		if ctx.Err() != nil {
			log.Warn("Interrupted, dropping queued jobs")
			break
		}
		jobCh <- job
	}
	close(jobCh)
	wg.Wait()

	return results
}

// runJob handles one conversion: probe, skip-existing, dry-run, encode,
// verify, archive. Failures are contained here and never abort sibling jobs.
func runJob(ctx context.Context, cfg *config.Config, log *logging.Logger, enc encoder.Encoder, job Job) jobResult {
	r := jobResult{job: job}
	base := filepath.Base(job.Source)

	pr, err := probe.Probe(job.Source)
	if err != nil {
		log.Error("[%s] %s: %v", job.ID, base, err)
		r.failed = true
		r.reason = fmt.Sprintf("%v", err)
		return r
	}
	r.inBytes = pr.SizeBytes

	log.Debug(cfg.Verbose, "[%s] %s: %d Hz, %d ch, %d bit, %s",
		job.ID, base, pr.SampleRate, pr.Channels, pr.BitDepth, display.FormatDuration(pr.Duration))

	if cfg.SkipExisting && osutil.Exists(job.Dest) {
		log.Warn("[%s] Skip (exists): %s", job.ID, filepath.Base(job.Dest))
		r.skipped = true
		return r
	}

	if err := os.MkdirAll(filepath.Dir(job.Dest), 0o755); err != nil {
		log.Error("[%s] Cannot create output directory: %v", job.ID, err)
		r.failed = true
		r.reason = fmt.Sprintf("cannot create output directory: %v", err)
		return r
	}

	if cfg.DryRun {
		log.Success("[%s] [DRY] Would convert %s -> %s", job.ID, base, filepath.Base(job.Dest))
		return r
	}

	start := time.Now()
	if err := enc.Encode(ctx, job.Source, job.Dest, job.CompressionLevel); err != nil {
		if ctx.Err() != nil {
			log.Warn("[%s] Interrupted: %s", job.ID, base)
		} else {
			log.Error("[%s] Convert failed: %s: %v", job.ID, base, err)
		}
		r.failed = true
		r.reason = fmt.Sprintf("%v", err)
		return r
	}

	fi, err := os.Stat(job.Dest)
	if err != nil || fi.Size() == 0 {
		os.Remove(job.Dest)
		log.Error("[%s] Encoder produced no output: %s", job.ID, base)
		r.failed = true
		r.reason = "encoder produced no output"
		return r
	}
	r.outBytes = fi.Size()

	if cfg.ArchiveDir != "" {
		if err := archiveSource(cfg.ArchiveDir, job.Source); err != nil {
			log.Warn("[%s] Converted but could not archive source: %v", job.ID, err)
		} else {
			log.Debug(cfg.Verbose, "[%s] Archived source to %s", job.ID, cfg.ArchiveDir)
		}
	}

	elapsed := time.Since(start)
	ratio := int64(100)
	if r.inBytes > 0 {
		ratio = r.outBytes * 100 / r.inBytes
	}
	log.Success("[%s] %s -> %s in %.1fs (%d%% of original)",
		job.ID, base, filepath.Base(job.Dest), elapsed.Seconds(), ratio)
	return r
}

// archiveSource moves a converted source into archiveDir, creating the
// directory on first use. The destination is reserved with an exclusive
// create so concurrent workers archiving same-named sources cannot claim the
// same file.
func archiveSource(archiveDir, src string) error {
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return err
	}
	dest, err := naming.ReserveArchivePath(archiveDir, src)
	if err != nil {
		return err
	}
	if err := moveFile(src, dest); err != nil {
		os.Remove(dest)
		return err
	}
	return nil
}

// moveFile renames src onto dest, an already reserved placeholder, copying
// and deleting instead when the rename fails (e.g. archive dir on another
// filesystem).
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}

// mergeResults folds per-job results into the aggregate stats. Failures are
// sorted by path so the report is deterministic regardless of completion order.
func mergeResults(stats *RunStats, results []jobResult) {
	for _, r := range results {
		switch {
		case r.failed:
			stats.Failed++
			stats.Failures = append(stats.Failures, JobFailure{Path: r.job.Source, Reason: r.reason})
		case r.skipped:
			stats.Skipped++
		default:
			stats.Converted++
			stats.TotalInputBytes += r.inBytes
			stats.TotalOutputBytes += r.outBytes
		}
	}
	sort.Slice(stats.Failures, func(i, j int) bool {
		return stats.Failures[i].Path < stats.Failures[j].Path
	})
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, stats *RunStats, enc encoder.Encoder) {
	log.Info("Found %d files", stats.Total)
	log.Info("Mode: %s, compression level %d, %d workers", enc.Name(), cfg.CompressionLevel, cfg.Workers)
	if cfg.OutputDir != "" {
		log.Info("Output root: %s", cfg.OutputDir)
	}
	if cfg.ArchiveDir != "" {
		log.Info("Archive: converted sources move to %s", cfg.ArchiveDir)
	}
	if cfg.Mode == config.ModeNative {
		log.Debug(cfg.Verbose, "Compression level applies to process mode only; the native encoder writes verbatim frames")
	}
	if !cfg.SkipExisting {
		log.Info("Overwrite: existing .flac outputs will be replaced")
	}
	fmt.Println()
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Done: %d converted, %d skipped, %d failed", stats.Converted, stats.Skipped, stats.Failed)

	if len(stats.Failures) > 0 {
		log.Error("Failed conversions:")
		for _, f := range stats.Failures {
			log.Error("  %s: %s", f.Path, f.Reason)
		}
	}

	if cfg.DryRun {
		log.Info("  Total space saved: n/a (dry run)")
		return
	}

	saved := stats.SpaceSaved()
	if saved < 0 {
		log.Warn("  Net size change: %s (output is larger than the input)",
			display.FormatBytesWithSign(-saved))
		return
	}
	log.Success("  Total space saved: %s (input %s -> output %s)",
		display.FormatBytes(saved),
		display.FormatBytes(stats.TotalInputBytes),
		display.FormatBytes(stats.TotalOutputBytes))
}
