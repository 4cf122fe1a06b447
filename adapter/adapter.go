package adapter

import (
	"fmt"

	"go.uber.org/zap"

	gtidsets "github.com/wippyai/gtid-sets"
	"github.com/wippyai/gtid-sets/conv"
	"github.com/wippyai/gtid-sets/errors"
	"github.com/wippyai/gtid-sets/gtids"
)

// Code is a numeric error code of the server's error channel.
type Code uint16

const (
	// ErrOutOfResources reports an allocation failure.
	ErrOutOfResources Code = 1041
	// ErrMalformedGtidSetSpecification reports a GTID set that does not
	// parse, with an excerpt of the offending input.
	ErrMalformedGtidSetSpecification Code = 1772
)

// String returns the symbolic name of the code.
func (c Code) String() string {
	switch c {
	case ErrOutOfResources:
		return "ER_OUT_OF_RESOURCES"
	case ErrMalformedGtidSetSpecification:
		return "ER_MALFORMED_GTID_SET_SPECIFICATION"
	}
	return fmt.Sprintf("ER_%d", uint16(c))
}

// ExcerptLen bounds the diagnostic attached to a malformed
// specification. The length is fixed by the server's message
// catalogue.
const ExcerptLen = 200

// Error is a failure mapped onto the server error channel.
type Error struct {
	Code       Code
	Diagnostic string
	Cause      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Diagnostic == "" {
		return fmt.Sprintf("%s (%d)", e.Code, uint16(e.Code))
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, uint16(e.Code), e.Diagnostic)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target carries the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// OutOfResources wraps an allocation failure from a set operation for
// the error channel.
func OutOfResources(cause error) *Error {
	return &Error{Code: ErrOutOfResources, Cause: cause}
}

// ParseSet decodes the text form of a GTID set into a new set drawing
// from res. Input that does not parse, or that leaves text behind, is
// rejected as ErrMalformedGtidSetSpecification carrying a diagnostic
// excerpt; an allocation failure during the parse is rejected as
// ErrOutOfResources. On failure the sources parsed so far are
// discarded.
func ParseSet(res gtidsets.Resource, input string) (*gtids.Set, error) {
	set := gtids.NewSet(res)
	r := conv.Decode(conv.In(gtids.TextFormat{}), input, set)
	switch {
	case r.IsOk():
		debugf("parsed GTID set: %d sources", set.SourceCount())
		return set, nil
	case r.IsStoreError():
		Logger().Warn("GTID set parse ran out of resources",
			zap.String("message", r.Message()))
		return nil, &Error{
			Code:  ErrOutOfResources,
			Cause: errors.New(errors.PhaseDecode, errors.KindAllocation).Detail("%s", r.Message()).Build(),
		}
	default:
		kind := errors.KindMalformed
		if r.IsFullmatchError() {
			kind = errors.KindTrailingData
		}
		diag := excerpt(r)
		Logger().Debug("malformed GTID set specification",
			zap.String("diagnostic", diag),
			zap.Int("position", r.Pos()))
		return nil, &Error{
			Code:       ErrMalformedGtidSetSpecification,
			Diagnostic: diag,
			Cause:      errors.New(errors.PhaseDecode, kind).Detail("%s", r.String()).Build(),
		}
	}
}

// FormatSet encodes set in its text form through a growable output
// wrapper charged to the set's resource.
func FormatSet(set *gtids.Set) (string, error) {
	var buf []byte
	o := conv.NewOutStrGrowable(&buf, set.Resource())
	if err := conv.Encode(conv.Text{}, o, set); err != nil {
		Logger().Warn("GTID set encode ran out of resources",
			zap.Error(err))
		return "", OutOfResources(err)
	}
	return string(o.Data()), nil
}

// excerpt renders the rejection diagnostic through a fixed-capacity,
// zero-terminated buffer. A render that does not fit is cut at the
// capacity, the way the server's message catalogue truncates its
// parameters.
func excerpt(r conv.Result) string {
	var buf [ExcerptLen + 1]byte
	var n int
	if err := conv.Encode(conv.Text{}, conv.NewOutStrFixedZ(buf[:], &n), r); err == nil {
		return string(buf[:n])
	}
	return r.String()[:ExcerptLen]
}
