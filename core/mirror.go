package core

import (
	"context"
	"sync"
	"time"

	"github.com/keroro520/solana-launchpad-sub001/pkg/logging"
)

var mirrorLog = logging.WithComponent("mirror")

// CacheStatus reports the mirror's freshness for diagnostics (spec §4.D).
type CacheStatus struct {
	IsStale         bool
	LastRefreshedAt time.Time
	HasData         bool
}

// AuctionMirror holds at most one parsed Auction snapshot plus its
// staleness flag. It owns its snapshot exclusively and shares only a
// read-only ProgramContext handle; it holds no back-reference to whatever
// facade refreshed it (spec §9's cyclic-reference note).
type AuctionMirror struct {
	ctx     *ProgramContext
	rpc     RPCClient
	address Address

	mu              sync.RWMutex
	snapshot        *Auction
	isStale         bool
	lastRefreshedAt time.Time
}

// NewAuctionMirror creates a mirror for the auction at address, starting
// stale with no snapshot.
func NewAuctionMirror(ctx *ProgramContext, rpc RPCClient, address Address) *AuctionMirror {
	return &AuctionMirror{ctx: ctx, rpc: rpc, address: address, isStale: true}
}

// Address returns the mirrored auction's account address.
func (m *AuctionMirror) Address() Address { return m.address }

// Refresh fetches the auction account, decodes it, and atomically replaces
// the snapshot. On failure the mirror stays stale and the underlying error
// is surfaced; no partial snapshot is ever written (spec §5 cancellation
// semantics apply equally to any other failure mode).
func (m *AuctionMirror) Refresh(ctx context.Context) error {
	data, err := m.rpc.GetAccountInfo(ctx, m.address)
	if err != nil {
		m.mu.Lock()
		m.isStale = true
		m.mu.Unlock()
		mirrorLog.WithField("auction", m.address).WithError(err).Warn("refresh failed")
		return Wrap(KindRPCError, "AuctionMirror.Refresh", err, "fetch auction account %s", m.address)
	}
	auction, err := DecodeAuction(data)
	if err != nil {
		m.mu.Lock()
		m.isStale = true
		m.mu.Unlock()
		return Wrap(KindInvalidAccountData, "AuctionMirror.Refresh", err, "decode auction account %s", m.address)
	}

	m.mu.Lock()
	m.snapshot = auction
	m.isStale = false
	m.lastRefreshedAt = time.Now()
	m.mu.Unlock()

	mirrorLog.WithField("auction", m.address).Debug("refreshed")
	return nil
}

func (m *AuctionMirror) staleErr() error {
	m.mu.RLock()
	ts := m.lastRefreshedAt
	m.mu.RUnlock()
	return New(KindStaleCache, "AuctionMirror", "snapshot is stale, last refreshed at %s", ts)
}

// Snapshot returns a deep copy of the mirrored Auction, refusing to return
// data while stale (spec §4.D).
func (m *AuctionMirror) Snapshot() (*Auction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.isStale || m.snapshot == nil {
		return nil, m.staleErr()
	}
	return deepCopyAuction(m.snapshot), nil
}

// Bins returns a deep copy of the mirrored auction's bins.
func (m *AuctionMirror) Bins() ([]AuctionBin, error) {
	a, err := m.Snapshot()
	if err != nil {
		return nil, err
	}
	out := make([]AuctionBin, len(a.Bins))
	copy(out, a.Bins)
	return out, nil
}

// CacheStatus exposes freshness diagnostics without requiring a fresh
// snapshot (spec §4.D).
func (m *AuctionMirror) CacheStatus() CacheStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return CacheStatus{
		IsStale:         m.isStale,
		LastRefreshedAt: m.lastRefreshedAt,
		HasData:         m.snapshot != nil,
	}
}

// Status derives the auction's lifecycle phase at now from its three
// timestamps (spec §4.D).
func (m *AuctionMirror) Status(now time.Time) (AuctionStatus, error) {
	a, err := m.Snapshot()
	if err != nil {
		return 0, err
	}
	return deriveStatus(a, now), nil
}

func deriveStatus(a *Auction, now time.Time) AuctionStatus {
	ts := now.Unix()
	switch {
	case ts < a.CommitStart:
		return StatusUpcoming
	case ts < a.CommitEnd:
		return StatusActive
	case ts < a.ClaimStart:
		return StatusEnded
	default:
		return StatusClaiming
	}
}

// CanWithdrawFunds reports whether the admin can currently withdraw unsold
// and effective payment funds: status==claiming AND not already withdrawn
// (spec §4.D).
func (m *AuctionMirror) CanWithdrawFunds(now time.Time) (bool, error) {
	a, err := m.Snapshot()
	if err != nil {
		return false, err
	}
	status := deriveStatus(a, now)
	return status == StatusClaiming && !a.UnsoldAndEffectivePaymentWithdrawn, nil
}

// BinFillRate returns min(1, payment_token_raised/bin_target) for binID.
func (m *AuctionMirror) BinFillRate(binID uint8) (float64, error) {
	a, err := m.Snapshot()
	if err != nil {
		return 0, err
	}
	if int(binID) >= len(a.Bins) {
		return 0, New(KindInvalidBinID, "AuctionMirror.BinFillRate", "bin_id %d out of range [0,%d)", binID, len(a.Bins))
	}
	bin := a.Bins[binID]
	target := bin.BinTarget()
	if target == 0 {
		return 0, nil
	}
	rate := float64(bin.PaymentTokenRaised) / float64(target)
	if rate > 1 {
		rate = 1
	}
	return rate, nil
}

// TotalPaymentRaised sums payment_token_raised across every bin.
func (m *AuctionMirror) TotalPaymentRaised() (uint64, error) {
	a, err := m.Snapshot()
	if err != nil {
		return 0, err
	}
	return a.TotalPaymentRaised(), nil
}

func deepCopyAuction(a *Auction) *Auction {
	out := *a
	out.Bins = make([]AuctionBin, len(a.Bins))
	copy(out.Bins, a.Bins)
	if a.Extensions != nil {
		ext := *a.Extensions
		if a.Extensions.WhitelistAuthority != nil {
			addr := *a.Extensions.WhitelistAuthority
			ext.WhitelistAuthority = &addr
		}
		if a.Extensions.CommitCapPerUser != nil {
			v := *a.Extensions.CommitCapPerUser
			ext.CommitCapPerUser = &v
		}
		if a.Extensions.ClaimFeeRateBps != nil {
			v := *a.Extensions.ClaimFeeRateBps
			ext.ClaimFeeRateBps = &v
		}
		out.Extensions = &ext
	}
	return &out
}
