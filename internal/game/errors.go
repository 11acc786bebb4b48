package game

import (
	"errors"
	"fmt"
)

// Kind classifies a failure returned by a table operation.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuthorization
	KindNotFound
	KindInvariant
)

// String returns the string representation of an error kind
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindAuthorization:
		return "AuthorizationError"
	case KindNotFound:
		return "NotFoundError"
	case KindInvariant:
		return "InvariantViolation"
	default:
		return "UnknownError"
	}
}

// Error is a typed, human-readable table failure. Sentinels below are
// *Error values and are usually returned wrapped with call details.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// NewError returns a sentinel of the given kind for packages that share the
// taxonomy.
func NewError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

var (
	ErrNoSuchSeat    = NewError(KindValidation, "no such seat")
	ErrNoIdentity    = NewError(KindValidation, "caller identity is empty")
	ErrSeatTaken     = NewError(KindValidation, "seat already taken")
	ErrAlreadySeated = NewError(KindValidation, "player already seated")
	ErrSeatEmpty     = NewError(KindValidation, "seat is empty")
	ErrStillPlaying  = NewError(KindValidation, "player can't stand while playing")
	ErrNotYourTurn   = NewError(KindValidation, "not this seat's turn")
	ErrAlreadyBid    = NewError(KindValidation, "player can bid only on the first action of the turn")
	ErrBidFirst      = NewError(KindValidation, "player must bid first")
	ErrZeroAmount    = NewError(KindValidation, "amount should be set")
	ErrFundsMismatch = NewError(KindValidation, "attached funds do not match the bid")
	ErrBidTooLarge   = NewError(KindValidation, "bid exceeds the table limit")
	ErrHandClosed    = NewError(KindValidation, "player can't hit with this score")
	ErrIllegalAction = NewError(KindValidation, "action not allowed in this player state")
	ErrNotIdle       = NewError(KindValidation, "player can be kicked only after the idle threshold")

	ErrWrongIdentity = NewError(KindAuthorization, "wrong identity for seated player")
	ErrUnauthorized  = NewError(KindAuthorization, "unauthorized")

	ErrPlayerNotFound = NewError(KindNotFound, "player not found")

	ErrIllegalTransition = NewError(KindInvariant, "unexpected phase transition")
	ErrDeckExhausted     = NewError(KindInvariant, "no cards left to deal")
	ErrCorruptState      = NewError(KindInvariant, "inconsistent table state")
)

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Wrapf annotates a sentinel with call details, keeping it matchable with
// errors.Is.
func Wrapf(sentinel *Error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
