package scraper

import (
	"errors"
	"fmt"

	"github.com/project-tktt/go-jobspy/internal/domain"
)

// Kind classifies a per-source failure. All kinds are non-fatal to the
// overall run; the orchestrator records them and keeps going.
type Kind string

const (
	// KindBlocked means the source's anti-automation defense triggered
	// (captcha page, interstitial, or repeated 403/429 responses).
	KindBlocked Kind = "blocked"
	// KindTimeout means the per-invocation deadline elapsed while the
	// source task was still running.
	KindTimeout Kind = "timeout"
	// KindNetwork is a transport-level failure after the session's
	// retry budget was exhausted.
	KindNetwork Kind = "network"
	// KindParse means the payload did not have the expected shape.
	KindParse Kind = "parse"
	// KindStatus is a non-success HTTP status that is not a block.
	KindStatus Kind = "status"
)

// SourceError is a typed failure attached to one source's RawResult.
type SourceError struct {
	Source domain.Source
	Kind   Kind
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// NewError wraps err as a SourceError of the given kind. If err already
// is a SourceError its kind is preserved.
func NewError(source domain.Source, kind Kind, err error) *SourceError {
	var se *SourceError
	if errors.As(err, &se) {
		return &SourceError{Source: source, Kind: se.Kind, Err: se.Err}
	}
	return &SourceError{Source: source, Kind: kind, Err: err}
}

// KindOf extracts the failure kind from err, or "" for non-source errors.
func KindOf(err error) Kind {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
