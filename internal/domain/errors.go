package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for common conditions.
var (
	ErrConfig = errors.New("invalid template configuration")
	ErrCycle  = errors.New("section reference cycle")
)

// ConfigError is a fatal template configuration problem, surfaced before
// resolution starts. No output file is written after one.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid template configuration: " + e.Reason
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// CycleError reports a shared-reference chain that includes itself,
// directly or transitively. It aborts the whole build, not just the
// offending branch.
type CycleError struct {
	Name string
	Path []string
}

func (e *CycleError) Error() string {
	path := append([]string{}, e.Path...)
	sort.Strings(path)
	return fmt.Sprintf("section reference cycle: %q reached again via [%s]", e.Name, strings.Join(path, ", "))
}

func (e *CycleError) Is(target error) bool {
	return target == ErrCycle || target == ErrConfig
}
