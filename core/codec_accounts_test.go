package core

import (
	"bytes"
	"testing"
)

func sampleAuction() *Auction {
	return &Auction{
		Authority:   testMint(1),
		Custody:     testMint(2),
		SaleMint:    testMint(3),
		PaymentMint: testMint(4),
		CommitStart: 10,
		CommitEnd:   20,
		ClaimStart:  30,
		Bins: []AuctionBin{
			{SaleTokenPrice: 1, SaleTokenCap: 100, PaymentTokenRaised: 50, SaleTokenClaimed: 0},
		},
		EmergencyState:     0,
		TotalParticipants:  5,
		TotalFeesCollected: 10,
		TotalFeesWithdrawn: 2,
		Bump:               254,
		VaultSaleBump:      253,
		VaultPaymentBump:   252,
	}
}

func TestEncodeDecodeAuctionRoundTrip(t *testing.T) {
	want := sampleAuction()
	data, err := EncodeAuction(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeAuction(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Authority != want.Authority || got.SaleMint != want.SaleMint || got.PaymentMint != want.PaymentMint {
		t.Fatalf("address fields mismatch")
	}
	if len(got.Bins) != 1 || got.Bins[0] != want.Bins[0] {
		t.Fatalf("bins mismatch: got %+v", got.Bins)
	}
	if got.Bump != want.Bump || got.VaultSaleBump != want.VaultSaleBump || got.VaultPaymentBump != want.VaultPaymentBump {
		t.Fatalf("bump fields mismatch")
	}
}

func TestEncodeAuctionRejectsBadBinCount(t *testing.T) {
	a := sampleAuction()
	a.Bins = nil
	if _, err := EncodeAuction(a); err == nil {
		t.Fatalf("expected error for zero bins")
	}
}

func TestEncodeDecodeCommittedRoundTrip(t *testing.T) {
	want := &Committed{
		Auction: testMint(8),
		User:    testMint(9),
		Bins: []CommittedBin{
			{BinID: 0, PaymentTokenCommitted: 100, SaleTokenClaimed: 10, PaymentTokenRefunded: 0},
			{BinID: 1, PaymentTokenCommitted: 50, SaleTokenClaimed: 0, PaymentTokenRefunded: 5},
		},
		Nonce: 7,
		Bump:  250,
	}
	data := EncodeCommitted(want)
	got, err := DecodeCommitted(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Auction != want.Auction || got.User != want.User || got.Nonce != want.Nonce || got.Bump != want.Bump {
		t.Fatalf("top-level fields mismatch")
	}
	if len(got.Bins) != len(want.Bins) {
		t.Fatalf("bin count mismatch")
	}
	for i := range want.Bins {
		if got.Bins[i] != want.Bins[i] {
			t.Fatalf("bin %d mismatch: got %+v want %+v", i, got.Bins[i], want.Bins[i])
		}
	}
}

// TestCommittedUserFieldAtOffset locks in the memcmp enumeration contract
// from spec §6: the user pubkey must sit at byte offset 8..40, immediately
// after the discriminator, regardless of the struct's declaration order.
func TestCommittedUserFieldAtOffset(t *testing.T) {
	c := &Committed{
		Auction: testMint(1),
		User:    testMint(2),
		Bins:    nil,
		Nonce:   0,
		Bump:    0,
	}
	data := EncodeCommitted(c)
	if len(data) < CommittedUserOffset+32 {
		t.Fatalf("encoded committed account too short")
	}
	got := data[CommittedUserOffset : CommittedUserOffset+32]
	if !bytes.Equal(got, c.User.Bytes()) {
		t.Fatalf("user field not at offset %d", CommittedUserOffset)
	}
}

func TestDecodeCommittedRejectsDuplicateBinID(t *testing.T) {
	e := newEncoder()
	e.buf.Write(discAccountCommitted[:])
	e.writeAddress(testMint(1))
	e.writeAddress(testMint(2))
	e.writeU32(2)
	e.writeU8(0)
	e.writeU64(1)
	e.writeU64(0)
	e.writeU64(0)
	e.writeU8(0) // duplicate bin_id
	e.writeU64(1)
	e.writeU64(0)
	e.writeU64(0)
	e.writeU64(0)
	e.writeU8(0)

	if _, err := DecodeCommitted(e.bytes()); err == nil {
		t.Fatalf("expected error for duplicate bin_id")
	}
}
