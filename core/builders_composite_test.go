package core

import "testing"

func TestBuildClaimAllAvailablePartitionsWithoutSplittingInstructions(t *testing.T) {
	ctx := sampleProgramContext()
	auctionAddr := testMint(30)

	var bins []AuctionBin
	var committedBins []CommittedBin
	for i := 0; i < 7; i++ {
		bins = append(bins, AuctionBin{SaleTokenPrice: 1, SaleTokenCap: 1000, PaymentTokenRaised: 500})
		committedBins = append(committedBins, CommittedBin{BinID: uint8(i), PaymentTokenCommitted: 100})
	}
	auction := &Auction{
		SaleMint: testMint(2), PaymentMint: testMint(3),
		ClaimStart: 0,
		Bins:       bins,
	}
	committed := &Committed{Bins: committedBins}

	groups, err := BuildClaimAllAvailable(ClaimAllAvailableRequest{
		ProgramContext: ctx,
		User:           testMint(40),
		Auction:        auction,
		AuctionAddr:    auctionAddr,
		Committed:      committed,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	total := 0
	for _, g := range groups {
		total += len(g)
	}
	if total != 7 {
		t.Fatalf("got %d total instructions across groups, want 7", total)
	}

	// Every instruction must appear whole in exactly one group; none may be
	// split, so re-summing group sizes must equal the flat total checked
	// above. Additionally no group may exceed the byte budget.
	for _, g := range groups {
		size := 0
		for _, ix := range g {
			size += len(ix.Data)
		}
		if size > MaxTransactionBytes {
			t.Fatalf("group exceeds MaxTransactionBytes: %d", size)
		}
	}
}

func TestBuildBatchCommitBestEffortContinuesAfterFailure(t *testing.T) {
	ctx := sampleProgramContext()
	validAuction := &Auction{
		SaleMint: testMint(2), PaymentMint: testMint(3),
		CommitStart: 0, CommitEnd: 99999999999, ClaimStart: 99999999999,
		Bins: []AuctionBin{{SaleTokenPrice: 1, SaleTokenCap: 1000}},
	}

	requests := []CommitRequest{
		{ProgramContext: ctx, User: testMint(1), Auction: validAuction, AuctionAddr: testMint(30), Params: CommitParams{BinID: 99, Amount: 10}}, // invalid bin
		{ProgramContext: ctx, User: testMint(2), Auction: validAuction, AuctionAddr: testMint(30), Params: CommitParams{BinID: 0, Amount: 10}},  // valid
	}

	results := BuildBatchCommit(requests, BestEffort)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 (best-effort continues past failure)", len(results))
	}
	if results[0].Err == nil {
		t.Fatalf("expected first request to fail")
	}
	if results[1].Err != nil {
		t.Fatalf("expected second request to succeed, got %v", results[1].Err)
	}
}

func TestBuildBatchCommitAllOrNothingStopsAtFirstFailure(t *testing.T) {
	ctx := sampleProgramContext()
	validAuction := &Auction{
		SaleMint: testMint(2), PaymentMint: testMint(3),
		CommitStart: 0, CommitEnd: 99999999999, ClaimStart: 99999999999,
		Bins: []AuctionBin{{SaleTokenPrice: 1, SaleTokenCap: 1000}},
	}

	requests := []CommitRequest{
		{ProgramContext: ctx, User: testMint(1), Auction: validAuction, AuctionAddr: testMint(30), Params: CommitParams{BinID: 99, Amount: 10}}, // invalid bin
		{ProgramContext: ctx, User: testMint(2), Auction: validAuction, AuctionAddr: testMint(30), Params: CommitParams{BinID: 0, Amount: 10}},  // would succeed
	}

	results := BuildBatchCommit(requests, AllOrNothing)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 (remainder marked skipped, not dropped)", len(results))
	}
	if results[0].Err == nil || results[0].Skipped {
		t.Fatalf("expected first result to be the failure itself, not skipped")
	}
	if !results[1].Skipped {
		t.Fatalf("expected second result to be skipped after the abort")
	}
	if results[1].Instruction != nil || results[1].Err != nil {
		t.Fatalf("skipped result must carry no instruction or error")
	}
	if results[1].Request.User != requests[1].User {
		t.Fatalf("skipped result must still correlate positionally with its request")
	}
}
