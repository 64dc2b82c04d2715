package iconpack

import (
	"fmt"
	"strings"
)

// SourceFetchError is returned when the icon source repository
// could not be cloned, updated or its version could not be resolved.
type SourceFetchError struct {
	Repo string
	Err  error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("unable to fetch icon source %s: %v", e.Repo, e.Err)
}

func (e *SourceFetchError) Unwrap() error { return e.Err }

// MalformedSourceError is returned when the geometry of a single icon
// could not be extracted or transformed.
type MalformedSourceError struct {
	Name   string
	Reason string
	Err    error
}

func (e *MalformedSourceError) Error() string {
	msg := fmt.Sprintf("malformed icon %q: %s", e.Name, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedSourceError) Unwrap() error { return e.Err }

// InconsistentMappingError lists the mapped icon names without a source file.
type InconsistentMappingError struct {
	Missing []string
}

func (e *InconsistentMappingError) Error() string {
	return fmt.Sprintf("mapping references %d icon(s) without a source file: %s",
		len(e.Missing), strings.Join(e.Missing, ", "))
}

// TemplateReadError is returned when the manifest template is missing or invalid.
type TemplateReadError struct {
	Path string
	Err  error
}

func (e *TemplateReadError) Error() string {
	return fmt.Sprintf("unable to read manifest template %s: %v", e.Path, e.Err)
}

func (e *TemplateReadError) Unwrap() error { return e.Err }

// AssetCopyError is returned when a static asset could not be copied into the package.
type AssetCopyError struct {
	Path string
	Err  error
}

func (e *AssetCopyError) Error() string {
	return fmt.Sprintf("unable to copy asset %s: %v", e.Path, e.Err)
}

func (e *AssetCopyError) Unwrap() error { return e.Err }

// IconFailure pairs a failed icon with the reason it failed.
type IconFailure struct {
	Name string
	Err  error
}

// BatchError aggregates every per-icon failure of a normalization run.
type BatchError struct {
	Total    int
	Failures []IconFailure
}

func (e *BatchError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d of %d icons failed to normalize", len(e.Failures), e.Total)
	for _, f := range e.Failures {
		fmt.Fprintf(&sb, "\n\t%s: %v", f.Name, f.Err)
	}
	return sb.String()
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}
