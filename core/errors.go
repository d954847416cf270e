package core

import (
	"errors"
	"fmt"
)

// Kind is the closed error taxonomy from spec §7. Every error the SDK
// returns carries one of these so callers can switch on machine-readable
// kind instead of parsing messages.
type Kind string

const (
	// Configuration
	KindInvalidNetwork       Kind = "INVALID_NETWORK"
	KindInvalidRPCURL        Kind = "INVALID_RPC_URL"
	KindInvalidProgramID     Kind = "INVALID_PROGRAM_ID"
	KindMissingRequiredField Kind = "MISSING_REQUIRED_FIELD"

	// Validation
	KindInvalidTiming        Kind = "INVALID_TIMING"
	KindInvalidBinCount      Kind = "INVALID_BIN_COUNT"
	KindInvalidBinParam      Kind = "INVALID_BIN_PARAM"
	KindInvalidBinID         Kind = "INVALID_BIN_ID"
	KindInvalidAmount        Kind = "INVALID_AMOUNT"
	KindCommitCapExceeded    Kind = "COMMIT_CAP_EXCEEDED"

	// State
	KindStaleCache          Kind = "STALE_CACHE"
	KindAccountNotFound     Kind = "ACCOUNT_NOT_FOUND"
	KindInvalidAccountData  Kind = "INVALID_ACCOUNT_DATA"

	// Timing
	KindAuctionNotStarted    Kind = "AUCTION_NOT_STARTED"
	KindCommitPeriodEnded    Kind = "COMMIT_PERIOD_ENDED"
	KindClaimPeriodNotStarted Kind = "CLAIM_PERIOD_NOT_STARTED"

	// Whitelist / custody
	KindWhitelistNotEnabled      Kind = "WHITELIST_NOT_ENABLED"
	KindMissingWhitelistAuthority Kind = "MISSING_WHITELIST_AUTHORITY"
	KindWrongWhitelistAuthority  Kind = "WRONG_WHITELIST_AUTHORITY"
	KindPayloadMismatch          Kind = "PAYLOAD_MISMATCH"
	KindSignatureExpired         Kind = "SIGNATURE_EXPIRED"
	KindMalformedEd25519Ix       Kind = "MALFORMED_ED25519_IX"
	KindNonceOverflow            Kind = "NONCE_OVERFLOW"

	// Arithmetic
	KindMathOverflow    Kind = "MATH_OVERFLOW"
	KindDivisionByZero  Kind = "DIVISION_BY_ZERO"

	// Transport
	KindNetworkError Kind = "NETWORK_ERROR"
	KindRPCError     Kind = "RPC_ERROR"
	KindTimeoutError Kind = "TIMEOUT_ERROR"
)

// Error is the single error type the SDK returns. It carries a Kind for
// program logic, an Op naming the failing operation, a human message and
// an optional wrapped cause.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Op, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error with a formatted message and no wrapped cause.
func New(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error that carries err as its cause, following the
// fmt.Errorf("%s: %w", …) wrapping idiom generalized into a typed helper.
// Returns nil if err is nil.
func Wrap(kind Kind, op string, err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the Kind from err if it is (or wraps) an *Error.
func KindOf(err error) (Kind, bool) {
	var sdkErr *Error
	if !errors.As(err, &sdkErr) {
		return "", false
	}
	return sdkErr.Kind, true
}

// Format produces a single-line human-readable diagnostic from any error,
// matching spec §7's "format helper" requirement. Non-SDK errors are
// passed through as-is.
func Format(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := err.(*Error); ok {
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Op, e.Message)
	}
	return err.Error()
}
