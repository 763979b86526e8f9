// Package ffmpeg converts videos to browser-safe progressive mp4 with ffmpeg subprocesses.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"lesson-media/internal/config"
	"lesson-media/internal/core/domain"
	"lesson-media/internal/metrics"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

const (
	inputName  = "input"
	outputName = "output.mp4"

	// how long Wait keeps the output pipes open after the process was killed
	waitDelay = 2 * time.Second
)

// Transcoder runs ffmpeg to produce H.264/AAC mp4 files with the moov atom up front
type Transcoder struct {
	cfg       config.TranscoderConfig
	logger    *slog.Logger
	slots     *semaphore.Weighted
	processes map[string]*exec.Cmd
	processMu sync.Mutex
}

// New creates a Transcoder, MaxConcurrent <= 0 means no limit
func New(cfg config.TranscoderConfig, logger *slog.Logger) *Transcoder {
	t := &Transcoder{
		cfg:       cfg,
		logger:    logger,
		processes: make(map[string]*exec.Cmd),
	}
	if cfg.MaxConcurrent > 0 {
		t.slots = semaphore.NewWeighted(cfg.MaxConcurrent)
	}
	return t
}

// Convert spools input to disk, converts it and returns the complete mp4.
// The returned video must be closed to remove the temporary files.
func (t *Transcoder) Convert(ctx context.Context, input io.Reader, onProgress domain.ProgressFunc) (*domain.ConvertedVideo, error) {
	parent := ctx
	if t.cfg.MaxDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.MaxDuration)
		defer cancel()
	}

	if t.slots != nil {
		if err := t.slots.Acquire(ctx, 1); err != nil {
			return nil, t.contextError(parent, ctx, err)
		}
		defer t.slots.Release(1)
	}

	workDir, err := os.MkdirTemp(t.cfg.WorkDir, "convert-*")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create work dir: %w", domain.ErrConversion, err)
	}
	keep := false
	defer func() {
		if !keep {
			if err := os.RemoveAll(workDir); err != nil {
				t.logger.Warn("failed to remove work dir", "dir", workDir, "error", err)
			}
		}
	}()

	inPath := filepath.Join(workDir, inputName)
	if err := spool(inPath, input); err != nil {
		return nil, fmt.Errorf("%w: failed to spool input: %w", domain.ErrConversion, err)
	}

	progress := newMonotonic(onProgress)
	progress.report(0)

	duration, err := t.probeDuration(ctx, inPath)
	if err != nil {
		if ctx.Err() != nil {
			return nil, t.contextError(parent, ctx, ctx.Err())
		}
		// progress falls back to 0 then 100, conversion may still succeed
		t.logger.Warn("failed to probe duration", "error", err)
	}

	outPath := filepath.Join(workDir, outputName)
	start := time.Now()
	if err := t.run(ctx, workDir, inPath, outPath, duration, progress); err != nil {
		if ctx.Err() != nil {
			return nil, t.contextError(parent, ctx, ctx.Err())
		}
		return nil, err
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: missing output: %w", domain.ErrConversion, err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%w: ffmpeg produced an empty file", domain.ErrConversion)
	}

	file, err := os.Open(outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open output: %w", domain.ErrConversion, err)
	}

	keep = true
	progress.report(100)
	t.logger.Info("video converted",
		"input_size", fileSize(inPath),
		"output_size", info.Size(),
		"duration", duration,
		"elapsed", time.Since(start))

	return &domain.ConvertedVideo{
		Reader:      &tempFile{File: file, dir: workDir},
		SizeBytes:   info.Size(),
		ContentType: domain.MimeTypeMP4,
	}, nil
}

// Args returns the ffmpeg arguments used to convert in to out
func (t *Transcoder) Args(in, out string) []string {
	audioBitrate := t.cfg.AudioBitrate
	if audioBitrate == "" {
		audioBitrate = "128k"
	}
	preset := t.cfg.Preset
	if preset == "" {
		preset = "fast"
	}
	crf := t.cfg.CRF
	if crf <= 0 {
		crf = 23
	}

	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", in,
		"-map", "0:v:0",
		"-map", "0:a:0?",
		"-c:v", "libx264",
		"-preset", preset,
		"-crf", strconv.Itoa(crf),
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", audioBitrate,
		"-movflags", "+faststart",
		"-f", "mp4",
		"-progress", "pipe:1",
		"-nostats",
		out,
	}
}

func (t *Transcoder) run(ctx context.Context, id, inPath, outPath string, duration time.Duration, progress *monotonic) error {
	cmd := exec.CommandContext(ctx, binary(t.cfg.FFmpegPath, "ffmpeg"), t.Args(inPath, outPath)...)
	cmd.WaitDelay = waitDelay

	stderr := &tailBuffer{limit: 4096}
	cmd.Stdout = newProgressWriter(duration, progress.report)
	cmd.Stderr = stderr

	// Track the process
	t.processMu.Lock()
	t.processes[id] = cmd
	t.processMu.Unlock()
	metrics.ConversionsInFlight.Inc()

	defer func() {
		t.processMu.Lock()
		delete(t.processes, id)
		t.processMu.Unlock()
		metrics.ConversionsInFlight.Dec()
	}()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: failed to start ffmpeg: %w", domain.ErrConversion, err)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%w: ffmpeg failed: %w - %s", domain.ErrConversion, err, stderr.String())
	}
	return nil
}

func (t *Transcoder) probeDuration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, binary(t.cfg.FFprobePath, "ffprobe"),
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe error: %w - %s", err, stderr.String())
	}
	return parseDuration(stdout.String())
}

// contextError tells a caller cancellation apart from the conversion timeout
func (t *Transcoder) contextError(parent, ctx context.Context, err error) error {
	if parent.Err() != nil {
		return fmt.Errorf("%w: conversion cancelled: %w", domain.ErrConversion, parent.Err())
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: conversion timed out after %s", domain.ErrConversion, t.cfg.MaxDuration)
	}
	return fmt.Errorf("%w: %w", domain.ErrConversion, err)
}

// Cleanup stops all active conversion processes.
func (t *Transcoder) Cleanup() {
	t.processMu.Lock()
	defer t.processMu.Unlock()

	for id, cmd := range t.processes {
		if cmd.Process != nil {
			t.logger.Info("killing conversion process", "id", id)
			if err := cmd.Process.Kill(); err != nil {
				t.logger.Warn("failed to kill conversion process", "id", id, "error", err)
			}
		}
	}
}

// Running returns the number of ffmpeg processes currently tracked
func (t *Transcoder) Running() int {
	t.processMu.Lock()
	defer t.processMu.Unlock()
	return len(t.processes)
}

func parseDuration(out string) (time.Duration, error) {
	value := strings.TrimSpace(out)
	if value == "" || value == "N/A" {
		return 0, fmt.Errorf("no duration reported")
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", value, err)
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("invalid duration %q", value)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

func spool(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func binary(configured, fallback string) string {
	if configured == "" {
		return fallback
	}
	return configured
}

// tempFile removes its work dir once closed
type tempFile struct {
	*os.File
	dir  string
	once sync.Once
}

func (f *tempFile) Close() error {
	var err error
	f.once.Do(func() {
		err = f.File.Close()
		if rmErr := os.RemoveAll(f.dir); rmErr != nil && err == nil {
			err = rmErr
		}
	})
	return err
}
