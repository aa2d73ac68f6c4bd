package hostenv

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/raven-betanet/envcheck/internal/utils"
)

// ErrProbeFailed is returned when the PHP binary cannot produce a snapshot.
var ErrProbeFailed = errors.New("php probe failed")

const defaultProbeTimeout = 10 * time.Second

//go:embed probe.php
var probeScript string

// ProbeScript returns the PHP code run by Probe. It prints the snapshot as
// JSON and works on PHP 5.2 and later, so runtimes too old for any rule set
// are still reported.
func ProbeScript() string { return probeScript }

// Runner executes a command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Prober captures a Snapshot by running the PHP CLI once.
type Prober struct {
	Binary  string
	Timeout time.Duration
	Logger  *utils.Logger
	// Run defaults to exec.CommandContext.
	Run Runner
}

// NewProber creates a prober for the given php binary.
func NewProber(binary string, timeout time.Duration, logger *utils.Logger) *Prober {
	return &Prober{Binary: binary, Timeout: timeout, Logger: logger}
}

// Probe runs the probe script and decodes its output.
func (p *Prober) Probe(ctx context.Context) (*Snapshot, error) {
	binary := p.Binary
	if binary == "" {
		binary = "php"
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	run := p.Run
	if run == nil {
		run = execRunner
	}
	logger := p.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger.WithComponent("probe").Debugf("Probing PHP runtime: binary=%s timeout=%v", binary, timeout)
	start := time.Now()

	out, err := run(ctx, binary, "-r", probeScript)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrProbeFailed, binary, err)
	}

	snap, err := decodeProbeOutput(out)
	if err != nil {
		return nil, err
	}

	logger.WithComponent("probe").Debugf("Probed PHP %s in %v: %d extensions, %d directives",
		snap.Version, time.Since(start), len(snap.Extensions), len(snap.Directives))
	return snap, nil
}

func decodeProbeOutput(out []byte) (*Snapshot, error) {
	// Startup warnings printed before the JSON document are skipped.
	start := bytes.IndexByte(out, '{')
	if start < 0 {
		return nil, fmt.Errorf("%w: no JSON in output %q", ErrProbeFailed, truncate(string(out), 200))
	}

	var snap Snapshot
	if err := json.Unmarshal(out[start:], &snap); err != nil {
		return nil, fmt.Errorf("%w: decode output: %w", ErrProbeFailed, err)
	}
	if snap.Version == "" {
		return nil, fmt.Errorf("%w: output has no version", ErrProbeFailed)
	}
	return &snap, nil
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, truncate(msg, 200))
		}
		return nil, err
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
