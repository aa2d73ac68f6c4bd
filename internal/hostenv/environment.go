// Package hostenv exposes a PHP runtime to rule sets: interpreter facts come
// from a Snapshot, paths are probed through an afero.Fs.
package hostenv

import (
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/raven-betanet/envcheck/internal/requirements"
)

// Environment is the read-only view of a host runtime that rule sets
// evaluate against. Implementations must be idempotent.
type Environment interface {
	requirements.DirectiveReader
	requirements.ConfigFileLocator

	// Version is the interpreter version, as phpversion() reports it.
	Version() string
	// OS is the operating system family the interpreter was built for.
	OS() string
	ExtensionLoaded(name string) bool
	// ExtensionVersion returns "" when the extension is not loaded or has
	// no version.
	ExtensionVersion(name string) string
	// ExtensionInfo returns the extension's diagnostic output, if captured.
	ExtensionInfo(name string) (string, bool)
	FunctionExists(name string) bool
	ClassExists(name string) bool
	Constant(name string) (string, bool)
	DefaultTimezone() string
	TimezoneIdentifiers() []string
	PDODrivers() []string
	CollatorAvailable(locale string) bool
	IsDir(path string) bool
	IsWritable(path string) bool
}

// Host implements Environment over a Snapshot and a filesystem.
type Host struct {
	snap      *Snapshot
	fs        afero.Fs
	functions map[string]struct{}
	classes   map[string]struct{}
}

var _ Environment = (*Host)(nil)

// NewHost wraps snap. A nil fs means the OS filesystem.
func NewHost(snap *Snapshot, fs afero.Fs) *Host {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if snap == nil {
		snap = &Snapshot{}
	}
	return &Host{
		snap:      snap,
		fs:        fs,
		functions: lowerSet(snap.Functions),
		classes:   lowerSet(snap.Classes),
	}
}

// Snapshot returns the wrapped snapshot.
func (h *Host) Snapshot() *Snapshot { return h.snap }

func (h *Host) Version() string { return h.snap.Version }

func (h *Host) OS() string { return h.snap.OS }

func (h *Host) ExtensionLoaded(name string) bool {
	_, ok := h.snap.Extensions[strings.ToLower(name)]
	return ok
}

func (h *Host) ExtensionVersion(name string) string {
	return h.snap.Extensions[strings.ToLower(name)]
}

func (h *Host) ExtensionInfo(name string) (string, bool) {
	info, ok := h.snap.ExtensionInfo[strings.ToLower(name)]
	return info, ok
}

// FunctionExists matches case-insensitively, like PHP function names.
func (h *Host) FunctionExists(name string) bool {
	_, ok := h.functions[strings.ToLower(name)]
	return ok
}

// ClassExists matches case-insensitively, like PHP class names.
func (h *Host) ClassExists(name string) bool {
	_, ok := h.classes[strings.ToLower(name)]
	return ok
}

func (h *Host) Constant(name string) (string, bool) {
	v, ok := h.snap.Constants[name]
	return v, ok
}

// Directive returns the unset sentinel for directives missing from the
// snapshot.
func (h *Host) Directive(name string) requirements.DirectiveValue {
	if v, ok := h.snap.Directives[name]; ok {
		return v
	}
	return requirements.Unset()
}

func (h *Host) ConfigFilePath() (string, bool) {
	if h.snap.ConfigFile == nil || *h.snap.ConfigFile == "" {
		return "", false
	}
	return *h.snap.ConfigFile, true
}

func (h *Host) DefaultTimezone() string { return h.snap.Timezone }

func (h *Host) TimezoneIdentifiers() []string {
	return append([]string(nil), h.snap.Timezones...)
}

func (h *Host) PDODrivers() []string {
	return append([]string(nil), h.snap.PDODrivers...)
}

func (h *Host) CollatorAvailable(locale string) bool {
	return slices.Contains(h.snap.Collators, locale)
}

func (h *Host) IsDir(path string) bool {
	ok, err := afero.IsDir(h.fs, path)
	return err == nil && ok
}

// IsWritable uses access(2) on the OS filesystem where available and a
// create/remove probe otherwise.
func (h *Host) IsWritable(path string) bool {
	if _, ok := h.fs.(*afero.OsFs); ok {
		if writable, supported := accessWritable(path); supported {
			return writable
		}
	}
	return probeWritable(h.fs, path)
}

func lowerSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return set
}
