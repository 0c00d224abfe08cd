package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/tidwall/gjson"
)

// Kind classifies a failure independently of the transport that caused it.
type Kind int

const (
	// KindValidation is a request rejected locally, before any network call.
	KindValidation Kind = iota + 1
	// KindTimeout is a call that exceeded its budget.
	KindTimeout
	// KindUnreachable is a transport failure: DNS, refused connection, abort.
	KindUnreachable
	// KindServer is a non-2xx status or an undecodable success body.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTimeout:
		return "timeout"
	case KindUnreachable:
		return "unreachable"
	case KindServer:
		return "server_error"
	default:
		return "unknown"
	}
}

// Operation names used in errors and logs.
const (
	OpHealth = "health"
	OpQuery  = "query"
)

// ErrEmptyQuestion is the cause of a validation error for a blank question.
var ErrEmptyQuestion = errors.New("question is empty")

// Error is the error type returned by every Client call.
type Error struct {
	Kind   Kind
	Op     string
	Status int    // HTTP status, KindServer only
	Body   string // response body, KindServer only
	Err    error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Op)
	sb.WriteString(": ")
	sb.WriteString(e.Kind.String())
	if e.Kind == KindServer && e.Status != 0 {
		fmt.Fprintf(&sb, " (HTTP %d)", e.Status)
		if d := e.Detail(); d != "" {
			sb.WriteString(": ")
			sb.WriteString(d)
		}
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Detail returns the human-readable message of a server error body. FastAPI
// reports errors as {"detail": "..."} or {"detail": [{"msg": "..."}]}; any
// other body is returned trimmed.
func (e *Error) Detail() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return ""
	}
	if !gjson.Valid(body) {
		return body
	}
	detail := gjson.Get(body, "detail")
	switch {
	case detail.Type == gjson.String:
		return detail.String()
	case detail.IsArray():
		var msgs []string
		for _, item := range detail.Array() {
			if msg := item.Get("msg"); msg.Exists() {
				msgs = append(msgs, msg.String())
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return body
}

// KindOf returns the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsTimeout reports whether err is a Timeout failure.
func IsTimeout(err error) bool { return KindOf(err) == KindTimeout }

// IsUnreachable reports whether err is a transport failure.
func IsUnreachable(err error) bool { return KindOf(err) == KindUnreachable }

// IsServerError reports whether err is a non-success response.
func IsServerError(err error) bool { return KindOf(err) == KindServer }

// IsValidation reports whether err was raised locally without a network call.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsNetwork reports whether err came from the network: timeout, unreachable
// or server error.
func IsNetwork(err error) bool {
	switch KindOf(err) {
	case KindTimeout, KindUnreachable, KindServer:
		return true
	}
	return false
}

// NewValidationError builds a KindValidation error for op.
func NewValidationError(op string, cause error) *Error {
	return &Error{Kind: KindValidation, Op: op, Err: cause}
}

// classifyTransport maps a failed exchange onto Timeout or Unreachable.
// ctx is the per-call context.
func classifyTransport(ctx context.Context, op string, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Op: op, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Op: op, Err: err}
	}
	return &Error{Kind: KindUnreachable, Op: op, Err: err}
}
