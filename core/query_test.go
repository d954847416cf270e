package core

import (
	"context"
	"encoding/base64"
	"testing"
	"time"
)

func TestQueryFacadeGetAuctionCaches(t *testing.T) {
	addr := testMint(1)
	auction := sampleAuction()
	data, err := EncodeAuction(auction)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	rpc := &fakeRPCClient{accounts: map[Address][]byte{addr: data}}
	f := NewQueryFacade(&ProgramContext{}, rpc, WithCache(10, time.Minute))

	got, err := f.GetAuction(context.Background(), addr)
	if err != nil {
		t.Fatalf("get auction: %v", err)
	}
	if got.SaleMint != auction.SaleMint {
		t.Fatalf("mismatch")
	}

	// Remove from the underlying RPC to prove the second call is served
	// from cache, not a fresh fetch.
	delete(rpc.accounts, addr)
	got2, err := f.GetAuction(context.Background(), addr)
	if err != nil {
		t.Fatalf("get auction (cached): %v", err)
	}
	if got2.SaleMint != auction.SaleMint {
		t.Fatalf("cached mismatch")
	}
}

func TestQueryFacadeGetCommittedFallsBackToClosureEvent(t *testing.T) {
	programCtx := &ProgramContext{ProgramID: testProgramID()}
	auctionAddr := testMint(5)
	user := testMint(6)

	closed := &Committed{Auction: auctionAddr, User: user, Nonce: 3, Bump: 1}
	data := EncodeCommitted(closed)
	encoded := "Program data: " + base64.StdEncoding.EncodeToString(data)

	rpc := &fakeRPCClient{
		accounts: map[Address][]byte{}, // committed account no longer exists
		logLines: []string{"Program log: CommittedAccountClosed", encoded},
	}

	f := NewQueryFacade(programCtx, rpc)
	got, err := f.GetCommitted(context.Background(), auctionAddr, user)
	if err != nil {
		t.Fatalf("get committed: %v", err)
	}
	if got.Nonce != 3 {
		t.Fatalf("got nonce %d, want 3", got.Nonce)
	}
}

func TestQueryFacadeGetUserCommitmentsDecodesEach(t *testing.T) {
	c1 := &Committed{Auction: testMint(1), User: testMint(9), Nonce: 1}
	c2 := &Committed{Auction: testMint(2), User: testMint(9), Nonce: 2}
	rpc := &fakeRPCClient{
		filtered: []RawAccount{
			{Address: testMint(100), Data: EncodeCommitted(c1)},
			{Address: testMint(101), Data: EncodeCommitted(c2)},
		},
	}
	f := NewQueryFacade(&ProgramContext{}, rpc)
	got, err := f.GetUserCommitments(context.Background(), testMint(9))
	if err != nil {
		t.Fatalf("get user commitments: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d commitments, want 2", len(got))
	}
}

func TestQueryFacadeGetAllAuctionsSkipsNonAuctionAccounts(t *testing.T) {
	auction := sampleAuction()
	auctionData, err := EncodeAuction(auction)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	committedData := EncodeCommitted(&Committed{Auction: testMint(1), User: testMint(2)})

	rpc := &fakeRPCClient{
		all: []RawAccount{
			{Address: testMint(10), Data: auctionData},
			{Address: testMint(11), Data: committedData},
		},
	}
	f := NewQueryFacade(&ProgramContext{}, rpc)
	got, err := f.GetAllAuctions(context.Background())
	if err != nil {
		t.Fatalf("get all auctions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d auctions, want 1 (committed account should be skipped)", len(got))
	}
}
