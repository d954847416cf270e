package core

import (
	"fmt"
	"time"

	"github.com/keroro520/solana-launchpad-sub001/pkg/logging"
)

var validationLog = logging.WithComponent("validation")

// ValidationResult is the uniform shape every Validate* function returns
// (spec §4.G): IsValid is false iff Errors is non-empty; Warnings flag
// risky-but-legal inputs; Suggestions are purely advisory.
type ValidationResult struct {
	IsValid     bool
	Errors      []error
	Warnings    []string
	Suggestions []string
}

func newResult() *ValidationResult {
	return &ValidationResult{IsValid: true}
}

func (r *ValidationResult) fail(err error) {
	r.IsValid = false
	r.Errors = append(r.Errors, err)
}

func (r *ValidationResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) suggest(format string, args ...any) {
	r.Suggestions = append(r.Suggestions, fmt.Sprintf(format, args...))
}

//---------------------------------------------------------------------
// init_auction
//---------------------------------------------------------------------

// ValidateInitAuction checks timing ordering and bin parameters (spec
// §4.G), using time.Now() as the current time.
func ValidateInitAuction(p InitAuctionParams) *ValidationResult {
	return ValidateInitAuctionAt(p, time.Now())
}

// ValidateInitAuctionAt is ValidateInitAuction with an explicit clock, for
// deterministic tests.
func ValidateInitAuctionAt(p InitAuctionParams, now time.Time) *ValidationResult {
	r := newResult()

	if p.CommitStart >= p.CommitEnd {
		r.fail(New(KindInvalidTiming, "ValidateInitAuction", "commit_start (%d) must be before commit_end (%d)", p.CommitStart, p.CommitEnd))
	}
	if p.CommitEnd > p.ClaimStart {
		r.fail(New(KindInvalidTiming, "ValidateInitAuction", "commit_end (%d) must not be after claim_start (%d)", p.CommitEnd, p.ClaimStart))
	}
	if p.CommitStart < now.Unix() {
		r.warn("commit_start (%d) is already in the past relative to now (%d)", p.CommitStart, now.Unix())
	}

	if len(p.Bins) < 1 || len(p.Bins) > 10 {
		r.fail(New(KindInvalidBinCount, "ValidateInitAuction", "bin count %d out of [1,10]", len(p.Bins)))
	}

	var lastPrice uint64
	increasing := false
	for i, b := range p.Bins {
		if b.Price == 0 {
			r.fail(New(KindInvalidBinParam, "ValidateInitAuction", "bin %d price must be positive", i))
		}
		if b.Cap == 0 {
			r.fail(New(KindInvalidBinParam, "ValidateInitAuction", "bin %d cap must be positive", i))
		}
		if i > 0 && b.Price > lastPrice {
			increasing = true
		}
		lastPrice = b.Price
	}
	if increasing {
		r.warn("bin prices are not monotonically non-increasing; a later bin is priced higher than an earlier one")
	}

	if !r.IsValid {
		validationLog.WithField("errors", len(r.Errors)).Debug("init_auction validation failed")
	}
	return r
}

//---------------------------------------------------------------------
// commit
//---------------------------------------------------------------------

// ValidateCommit checks bin_id range, amount positivity, and warns on
// likely over-subscription (spec §4.G). It does not check wallet balance;
// that is the caller's responsibility since the SDK has no wallet access.
func ValidateCommit(auction *Auction, p CommitParams) *ValidationResult {
	return ValidateCommitAt(auction, p, time.Now())
}

func ValidateCommitAt(auction *Auction, p CommitParams, now time.Time) *ValidationResult {
	r := newResult()

	if auction == nil {
		r.fail(New(KindAccountNotFound, "ValidateCommit", "auction snapshot is nil"))
		return r
	}

	ts := now.Unix()
	if ts < auction.CommitStart {
		r.fail(New(KindAuctionNotStarted, "ValidateCommit", "commit period starts at %d, now %d", auction.CommitStart, ts))
	}
	if ts >= auction.CommitEnd {
		r.fail(New(KindCommitPeriodEnded, "ValidateCommit", "commit period ended at %d, now %d", auction.CommitEnd, ts))
	}

	if int(p.BinID) >= len(auction.Bins) {
		r.fail(New(KindInvalidBinID, "ValidateCommit", "bin_id %d out of range [0,%d)", p.BinID, len(auction.Bins)))
	} else {
		bin := auction.Bins[p.BinID]
		target := bin.BinTarget()
		if target > 0 {
			projected := bin.PaymentTokenRaised + p.Amount
			if projected > 2*target {
				r.warn("bin %d would be over-subscribed beyond 2x target after this commit (%d > %d)", p.BinID, projected, 2*target)
			}
		}
	}

	if p.Amount == 0 {
		r.fail(New(KindInvalidAmount, "ValidateCommit", "amount must be positive"))
	}

	if auction.Extensions != nil && auction.Extensions.CommitCapPerUser != nil && p.Amount > *auction.Extensions.CommitCapPerUser {
		r.fail(New(KindCommitCapExceeded, "ValidateCommit", "amount %d exceeds per-user cap %d", p.Amount, *auction.Extensions.CommitCapPerUser))
	}

	if auction.EmergencyState&EmergencyFlagCommit != 0 {
		r.fail(New(KindInvalidTiming, "ValidateCommit", "commit is currently paused by emergency control"))
	}

	return r
}

//---------------------------------------------------------------------
// decrease_commit
//---------------------------------------------------------------------

// ValidateDecreaseCommit checks that the bin exists in the committed
// account and that the reverted amount does not exceed what remains
// committed (spec §4.G).
func ValidateDecreaseCommit(committed *Committed, p DecreaseCommitParams) *ValidationResult {
	r := newResult()
	if committed == nil {
		r.fail(New(KindAccountNotFound, "ValidateDecreaseCommit", "committed snapshot is nil"))
		return r
	}
	cb := committed.BinByID(p.BinID)
	if cb == nil {
		r.fail(New(KindInvalidBinID, "ValidateDecreaseCommit", "no commitment recorded for bin_id %d", p.BinID))
		return r
	}
	if p.AmountReverted == 0 {
		r.fail(New(KindInvalidAmount, "ValidateDecreaseCommit", "amount_reverted must be positive"))
	}
	if p.AmountReverted > cb.PaymentTokenCommitted {
		r.fail(New(KindInvalidAmount, "ValidateDecreaseCommit", "amount_reverted %d exceeds committed %d", p.AmountReverted, cb.PaymentTokenCommitted))
	}
	return r
}

//---------------------------------------------------------------------
// claim
//---------------------------------------------------------------------

// ValidateClaim checks that the claim period has started, that the
// committed account has a commitment recorded in the named bin, and that
// the amounts requested do not exceed what is claimable (spec §4.G).
func ValidateClaim(auction *Auction, committed *Committed, p ClaimParams) *ValidationResult {
	return ValidateClaimAt(auction, committed, p, time.Now())
}

func ValidateClaimAt(auction *Auction, committed *Committed, p ClaimParams, now time.Time) *ValidationResult {
	r := newResult()
	if auction == nil {
		r.fail(New(KindAccountNotFound, "ValidateClaim", "auction snapshot is nil"))
		return r
	}
	if committed == nil {
		r.fail(New(KindAccountNotFound, "ValidateClaim", "committed snapshot is nil"))
		return r
	}
	if now.Unix() < auction.ClaimStart {
		r.fail(New(KindClaimPeriodNotStarted, "ValidateClaim", "claim period starts at %d, now %d", auction.ClaimStart, now.Unix()))
	}
	if auction.EmergencyState&EmergencyFlagClaim != 0 {
		r.fail(New(KindInvalidTiming, "ValidateClaim", "claim is currently paused by emergency control"))
	}

	if int(p.BinID) >= len(auction.Bins) {
		r.fail(New(KindInvalidBinID, "ValidateClaim", "bin_id %d out of range [0,%d)", p.BinID, len(auction.Bins)))
		return r
	}
	cb := committed.BinByID(p.BinID)
	if cb == nil {
		r.fail(New(KindInvalidBinID, "ValidateClaim", "no commitment recorded for bin_id %d", p.BinID))
		return r
	}

	var feeBps uint16
	if auction.Extensions != nil && auction.Extensions.ClaimFeeRateBps != nil {
		feeBps = *auction.Extensions.ClaimFeeRateBps
	}
	delta, err := ComputeClaimableDelta(auction.Bins[p.BinID], *cb, feeBps)
	if err != nil {
		r.fail(err)
		return r
	}
	if p.SaleToClaim > delta.SaleDelta {
		r.fail(New(KindInvalidAmount, "ValidateClaim", "sale_to_claim %d exceeds claimable %d", p.SaleToClaim, delta.SaleDelta))
	}
	if p.PaymentToRefund > delta.RefundDelta {
		r.fail(New(KindInvalidAmount, "ValidateClaim", "payment_to_refund %d exceeds claimable %d", p.PaymentToRefund, delta.RefundDelta))
	}

	return r
}
