package sharing

import (
	"errors"
	"fmt"
)

// Store-level sentinels. Repositories return these and services translate
// them into a Kind.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateCode  = errors.New("code already in use")
	ErrSpaceExhausted = errors.New("no free code found")
	ErrBlobExists     = errors.New("blob already exists")
)

// Kind classifies a failure so transports can pick a status code.
type Kind string

const (
	KindBadRequest       Kind = "bad_request"
	KindNotFound         Kind = "not_found"
	KindExpired          Kind = "expired"
	KindConflict         Kind = "conflict"
	KindKeyRequired      Kind = "key_required"
	KindDecryptionFailed Kind = "decryption_failed"
	KindTooLarge         Kind = "too_large"
	KindStorage          Kind = "storage_error"
)

// Error is the structured error returned by every service operation.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so errors.Is(err, sharing.Expired("")) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Kind == e.Kind
}

// KindOf returns the Kind of err, or KindStorage for anything unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindStorage
}

func BadRequest(msg string) error {
	return &Error{Kind: KindBadRequest, Message: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Expired(msg string) error {
	return &Error{Kind: KindExpired, Message: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

func KeyRequired(msg string) error {
	return &Error{Kind: KindKeyRequired, Message: msg}
}

func DecryptionFailed(err error) error {
	return &Error{Kind: KindDecryptionFailed, Message: "decryption failed", Err: err}
}

func TooLarge(msg string) error {
	return &Error{Kind: KindTooLarge, Message: msg}
}

func Storage(msg string, err error) error {
	return &Error{Kind: KindStorage, Message: msg, Err: err}
}
