package core

import (
	"context"
	"encoding/base64"
	"strings"
	"time"
)

// RPCClient is the external collaborator the SDK drives all chain reads
// through (spec §1 scope: transport is out of scope, consumed via a
// minimal interface). A caller supplies a concrete implementation that
// talks to whatever cluster/transport they use; the SDK never assumes a
// particular wire protocol beyond these method shapes.
type RPCClient interface {
	// GetAccountInfo returns the raw account bytes at address, or a
	// KindAccountNotFound error if the account does not exist.
	GetAccountInfo(ctx context.Context, address Address) ([]byte, error)

	// GetProgramAccountsFiltered returns every program-owned account whose
	// bytes match filterBytes at the given byte offset (spec §4.H's
	// memcmp-style enumeration).
	GetProgramAccountsFiltered(ctx context.Context, programID Address, offset int, filterBytes []byte) ([]RawAccount, error)

	// GetAllProgramAccounts returns every account owned by programID.
	GetAllProgramAccounts(ctx context.Context, programID Address) ([]RawAccount, error)

	// FindClosedCommittedEvent searches transaction history for a
	// CommittedAccountClosed event emitted against the derived PDA,
	// returning its decoded log lines (spec §4.H, §9).
	FindClosedCommittedEvent(ctx context.Context, committedAddress Address) ([]string, error)
}

// RawAccount is a program-owned account as returned by a program-accounts
// scan.
type RawAccount struct {
	Address Address
	Data    []byte
}

// RetryBackoff selects how delays grow between RPC read retries.
type RetryBackoff int

const (
	BackoffLinear RetryBackoff = iota
	BackoffExponential
)

// RetryPolicy governs retries applied to RPC reads only; builder-local
// failures (validation, codec, allocation) are never retried (spec §5).
type RetryPolicy struct {
	Attempts    int
	Backoff     RetryBackoff
	BaseDelayMS int
}

// DefaultRetryPolicy applies a single attempt (no retry), matching an SDK
// that does nothing surprising until the caller opts in.
var DefaultRetryPolicy = RetryPolicy{Attempts: 1, Backoff: BackoffLinear, BaseDelayMS: 0}

func (p RetryPolicy) delay(attempt int) time.Duration {
	switch p.Backoff {
	case BackoffExponential:
		ms := p.BaseDelayMS
		for i := 0; i < attempt; i++ {
			ms *= 2
		}
		return time.Duration(ms) * time.Millisecond
	default:
		return time.Duration(p.BaseDelayMS*(attempt+1)) * time.Millisecond
	}
}

// withRetry runs fn up to policy.Attempts times, sleeping policy's backoff
// between attempts, and returns the last error if every attempt fails.
// Only transport-shaped errors are worth retrying; the caller decides that
// by what fn returns, not withRetry.
func withRetry(ctx context.Context, policy RetryPolicy, fn func() error) error {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < policy.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Wrap(KindTimeoutError, "withRetry", err, "context cancelled before attempt %d", attempt)
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt < policy.Attempts-1 {
			select {
			case <-time.After(policy.delay(attempt)):
			case <-ctx.Done():
				return Wrap(KindTimeoutError, "withRetry", ctx.Err(), "context cancelled during backoff")
			}
		}
	}
	return lastErr
}

//---------------------------------------------------------------------
// CommittedAccountClosed event recovery (spec §4.H, §9)
//---------------------------------------------------------------------

const committedAccountClosedEventName = "CommittedAccountClosed"

// ParseClosedCommittedEvent decodes a CommittedAccountClosed event from the
// program-data log line that follows its event-name line, per spec §9:
// "the event carries a complete snapshot; implementations must parse the
// program-data log line following the event name line and decode it using
// the codec."
func ParseClosedCommittedEvent(logLines []string) (*Committed, error) {
	for i, line := range logLines {
		if !strings.Contains(line, committedAccountClosedEventName) {
			continue
		}
		if i+1 >= len(logLines) {
			return nil, New(KindAccountNotFound, "ParseClosedCommittedEvent", "event name line has no following program-data line")
		}
		dataLine := logLines[i+1]
		raw, err := decodeProgramDataLine(dataLine)
		if err != nil {
			return nil, Wrap(KindInvalidAccountData, "ParseClosedCommittedEvent", err, "decode program-data line")
		}
		return DecodeCommitted(raw)
	}
	return nil, New(KindAccountNotFound, "ParseClosedCommittedEvent", "no %s event found in log", committedAccountClosedEventName)
}

// decodeProgramDataLine strips the well-known "Program data: " prefix and
// base64-decodes the remainder. Transport log formats vary; callers whose
// RPCClient already returns bare base64 can skip the prefix entirely.
func decodeProgramDataLine(line string) ([]byte, error) {
	const prefix = "Program data: "
	trimmed := strings.TrimPrefix(line, prefix)
	return base64.StdEncoding.DecodeString(trimmed)
}
