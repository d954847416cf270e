package core

import (
	"testing"
	"time"
)

func TestValidateInitAuctionAtCatchesBadTiming(t *testing.T) {
	now := time.Unix(1000, 0)
	r := ValidateInitAuctionAt(InitAuctionParams{
		CommitStart: 2000,
		CommitEnd:   1500, // before commit_start
		ClaimStart:  1400, // before commit_end
		Bins:        []BinParams{{Price: 1, Cap: 1}},
	}, now)
	if r.IsValid {
		t.Fatalf("expected invalid result")
	}
	if len(r.Errors) < 2 {
		t.Fatalf("expected at least 2 errors, got %d", len(r.Errors))
	}
}

func TestValidateInitAuctionAtWarnsOnPastCommitStart(t *testing.T) {
	now := time.Unix(2000, 0)
	r := ValidateInitAuctionAt(InitAuctionParams{
		CommitStart: 1000, // already past
		CommitEnd:   3000,
		ClaimStart:  4000,
		Bins:        []BinParams{{Price: 1, Cap: 1}},
	}, now)
	if !r.IsValid {
		t.Fatalf("expected valid result (past commit_start is a warning, not an error)")
	}
	if len(r.Warnings) == 0 {
		t.Fatalf("expected a warning about commit_start already past")
	}
}

func TestValidateInitAuctionBinCountBoundaries(t *testing.T) {
	now := time.Now()
	base := InitAuctionParams{CommitStart: now.Unix() + 10, CommitEnd: now.Unix() + 20, ClaimStart: now.Unix() + 30}

	zero := base
	zero.Bins = nil
	if ValidateInitAuctionAt(zero, now).IsValid {
		t.Fatalf("0 bins must be invalid")
	}

	one := base
	one.Bins = []BinParams{{Price: 1, Cap: 1}}
	if !ValidateInitAuctionAt(one, now).IsValid {
		t.Fatalf("1 bin must be valid")
	}

	ten := base
	for i := 0; i < 10; i++ {
		ten.Bins = append(ten.Bins, BinParams{Price: 1, Cap: 1})
	}
	if !ValidateInitAuctionAt(ten, now).IsValid {
		t.Fatalf("10 bins must be valid")
	}

	eleven := base
	for i := 0; i < 11; i++ {
		eleven.Bins = append(eleven.Bins, BinParams{Price: 1, Cap: 1})
	}
	if ValidateInitAuctionAt(eleven, now).IsValid {
		t.Fatalf("11 bins must be invalid")
	}
}

func TestValidateInitAuctionWarnsOnIncreasingPrice(t *testing.T) {
	now := time.Now()
	r := ValidateInitAuctionAt(InitAuctionParams{
		CommitStart: now.Unix() + 10, CommitEnd: now.Unix() + 20, ClaimStart: now.Unix() + 30,
		Bins: []BinParams{{Price: 3, Cap: 1}, {Price: 5, Cap: 1}},
	}, now)
	if !r.IsValid {
		t.Fatalf("price increase across bins is only a warning")
	}
	if len(r.Warnings) == 0 {
		t.Fatalf("expected a bin-price-increase warning")
	}
}

func TestValidateInitAuctionNoWarningOnNonIncreasingPrice(t *testing.T) {
	now := time.Now()
	r := ValidateInitAuctionAt(InitAuctionParams{
		CommitStart: now.Unix() + 10, CommitEnd: now.Unix() + 20, ClaimStart: now.Unix() + 30,
		Bins: []BinParams{{Price: 5, Cap: 1}, {Price: 3, Cap: 1}, {Price: 3, Cap: 1}},
	}, now)
	if len(r.Warnings) != 0 {
		t.Fatalf("expected no warning for a monotonically non-increasing price sequence, got %v", r.Warnings)
	}
}

func TestValidateCommitBinIDBoundaries(t *testing.T) {
	now := time.Unix(1000, 0)
	auction := &Auction{
		CommitStart: 0, CommitEnd: 99999999999,
		Bins: []AuctionBin{{SaleTokenPrice: 1, SaleTokenCap: 100}},
	}

	valid0 := ValidateCommitAt(auction, CommitParams{BinID: 0, Amount: 1}, now)
	if !valid0.IsValid {
		t.Fatalf("bin_id 0 must be valid for a single-bin auction")
	}

	invalid1 := ValidateCommitAt(auction, CommitParams{BinID: 1, Amount: 1}, now)
	if invalid1.IsValid {
		t.Fatalf("bin_id 1 must be invalid for a single-bin auction")
	}
}

func TestValidateCommitRejectsZeroAmount(t *testing.T) {
	auction := &Auction{CommitStart: 0, CommitEnd: 99999999999, Bins: []AuctionBin{{SaleTokenPrice: 1, SaleTokenCap: 100}}}
	r := ValidateCommitAt(auction, CommitParams{BinID: 0, Amount: 0}, time.Unix(1000, 0))
	if r.IsValid {
		t.Fatalf("zero amount must be invalid")
	}
}

func TestValidateCommitWarnsOnOversubscriptionBeyond2x(t *testing.T) {
	auction := &Auction{
		CommitStart: 0, CommitEnd: 99999999999,
		Bins: []AuctionBin{{SaleTokenPrice: 1, SaleTokenCap: 100, PaymentTokenRaised: 150}},
	}
	r := ValidateCommitAt(auction, CommitParams{BinID: 0, Amount: 100}, time.Unix(1000, 0))
	if !r.IsValid {
		t.Fatalf("over-subscription warning must not invalidate the commit")
	}
	if len(r.Warnings) == 0 {
		t.Fatalf("expected an over-subscription warning")
	}
}

func TestValidateCommitRejectsWhenEmergencyPaused(t *testing.T) {
	auction := &Auction{
		CommitStart: 0, CommitEnd: 99999999999,
		Bins:           []AuctionBin{{SaleTokenPrice: 1, SaleTokenCap: 100}},
		EmergencyState: EmergencyFlagCommit,
	}
	r := ValidateCommitAt(auction, CommitParams{BinID: 0, Amount: 1}, time.Unix(1000, 0))
	if r.IsValid {
		t.Fatalf("commit must be invalid while paused")
	}
}

func TestValidateCommitRejectsOverPerUserCap(t *testing.T) {
	cap := uint64(50)
	auction := &Auction{
		CommitStart: 0, CommitEnd: 99999999999,
		Bins:       []AuctionBin{{SaleTokenPrice: 1, SaleTokenCap: 100}},
		Extensions: &Extensions{CommitCapPerUser: &cap},
	}
	r := ValidateCommitAt(auction, CommitParams{BinID: 0, Amount: 100}, time.Unix(1000, 0))
	if r.IsValid {
		t.Fatalf("amount exceeding per-user cap must be invalid")
	}
	if kind, _ := KindOf(r.Errors[0]); kind != KindCommitCapExceeded {
		t.Fatalf("got kind %s, want %s", kind, KindCommitCapExceeded)
	}
}

func TestValidateClaimRejectsOverEntitlement(t *testing.T) {
	auction := &Auction{
		ClaimStart: 0,
		Bins:       []AuctionBin{{SaleTokenPrice: 1, SaleTokenCap: 100, PaymentTokenRaised: 50}},
	}
	committed := &Committed{Bins: []CommittedBin{{BinID: 0, PaymentTokenCommitted: 50}}}

	r := ValidateClaimAt(auction, committed, ClaimParams{BinID: 0, SaleToClaim: 999}, time.Unix(1000, 0))
	if r.IsValid {
		t.Fatalf("claiming beyond entitlement must be invalid")
	}
}

func TestValidateClaimRejectsBeforeClaimStart(t *testing.T) {
	auction := &Auction{
		ClaimStart: 5000,
		Bins:       []AuctionBin{{SaleTokenPrice: 1, SaleTokenCap: 100, PaymentTokenRaised: 50}},
	}
	committed := &Committed{Bins: []CommittedBin{{BinID: 0, PaymentTokenCommitted: 50}}}

	r := ValidateClaimAt(auction, committed, ClaimParams{BinID: 0, SaleToClaim: 1}, time.Unix(1000, 0))
	if r.IsValid {
		t.Fatalf("claiming before claim_start must be invalid")
	}
	if kind, _ := KindOf(r.Errors[0]); kind != KindClaimPeriodNotStarted {
		t.Fatalf("got kind %s, want %s", kind, KindClaimPeriodNotStarted)
	}
}
