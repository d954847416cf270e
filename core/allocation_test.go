package core

import "testing"

func TestAllocateUndersubscribed(t *testing.T) {
	entitled, refund, err := Allocate(10_000_000, 1_000_000_000, 10_000_000, 1_000_000)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if entitled != 10 || refund != 0 {
		t.Fatalf("got entitled=%d refund=%d, want entitled=10 refund=0", entitled, refund)
	}
}

func TestAllocateExactlyFilled(t *testing.T) {
	entitled, refund, err := Allocate(400, 500, 1000, 2)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if entitled != 200 || refund != 0 {
		t.Fatalf("got entitled=%d refund=%d, want entitled=200 refund=0", entitled, refund)
	}
}

func TestAllocateOversubscribed(t *testing.T) {
	entitled, refund, err := Allocate(100, 100, 400, 1)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if entitled != 25 || refund != 75 {
		t.Fatalf("got entitled=%d refund=%d, want entitled=25 refund=75", entitled, refund)
	}
}

func TestAllocateZeroPriceRefundsEverything(t *testing.T) {
	entitled, refund, err := Allocate(1000, 500, 2000, 0)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if entitled != 0 || refund != 1000 {
		t.Fatalf("got entitled=%d refund=%d, want entitled=0 refund=1000", entitled, refund)
	}
}

func TestAllocateZeroRaised(t *testing.T) {
	entitled, refund, err := Allocate(0, 500, 0, 2)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if entitled != 0 || refund != 0 {
		t.Fatalf("got entitled=%d refund=%d, want 0,0", entitled, refund)
	}
}

func TestApplyFeeRoundsDown(t *testing.T) {
	net, fee, err := ApplyFee(1001, 250) // 2.5%
	if err != nil {
		t.Fatalf("apply fee: %v", err)
	}
	if fee != 25 { // 1001*250/10000 = 25.025 -> floor 25
		t.Fatalf("got fee=%d, want 25", fee)
	}
	if net != 1001-25 {
		t.Fatalf("got net=%d, want %d", net, 1001-25)
	}
}

func TestApplyFeeZeroBps(t *testing.T) {
	net, fee, err := ApplyFee(1000, 0)
	if err != nil {
		t.Fatalf("apply fee: %v", err)
	}
	if fee != 0 || net != 1000 {
		t.Fatalf("got net=%d fee=%d, want net=1000 fee=0", net, fee)
	}
}

func TestComputeClaimableDeltaOutstandingOnly(t *testing.T) {
	bin := AuctionBin{SaleTokenPrice: 2, SaleTokenCap: 500, PaymentTokenRaised: 1000}
	committedBin := CommittedBin{BinID: 0, PaymentTokenCommitted: 400, SaleTokenClaimed: 50, PaymentTokenRefunded: 0}

	delta, err := ComputeClaimableDelta(bin, committedBin, 0)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	// entitled = 400/2 = 200 (exactly filled bin, no haircut)
	if delta.EntitledSale != 200 {
		t.Fatalf("got entitled sale=%d, want 200", delta.EntitledSale)
	}
	if delta.SaleDelta != 150 {
		t.Fatalf("got sale delta=%d, want 150", delta.SaleDelta)
	}
}

func TestComputeClaimableDeltaRejectsOverclaimed(t *testing.T) {
	bin := AuctionBin{SaleTokenPrice: 2, SaleTokenCap: 500, PaymentTokenRaised: 1000}
	committedBin := CommittedBin{BinID: 0, PaymentTokenCommitted: 400, SaleTokenClaimed: 999999, PaymentTokenRefunded: 0}

	if _, err := ComputeClaimableDelta(bin, committedBin, 0); err == nil {
		t.Fatalf("expected error when already-claimed exceeds entitled")
	}
}
