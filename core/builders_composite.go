package core

import "github.com/google/uuid"

// MaxTransactionBytes bounds how much instruction data a composite builder
// will pack into one logical transaction group, matching a Solana
// transaction's practical payload ceiling (spec §4.F).
const MaxTransactionBytes = 1232

//---------------------------------------------------------------------
// claim_all_available
//---------------------------------------------------------------------

// ClaimAllAvailableRequest bundles what BuildClaimAllAvailable needs beyond
// the already-known auction/committed snapshots.
type ClaimAllAvailableRequest struct {
	ProgramContext *ProgramContext
	User           Address
	Auction        *Auction
	AuctionAddr    Address
	Committed      *Committed
	Tokens         TokenAccounts
}

// BuildClaimAllAvailable computes every bin's outstanding claimable delta
// and emits one claim instruction per bin with a non-zero delta, grouped
// into transaction-sized batches that never split a single instruction
// across a boundary (spec §4.F "claim_all_available"). Every emitted
// instruction carries the same CorrelationID.
func BuildClaimAllAvailable(req ClaimAllAvailableRequest) ([][]*Instruction, error) {
	runID := uuid.NewString()
	var feeBps uint16
	if req.Auction.Extensions != nil && req.Auction.Extensions.ClaimFeeRateBps != nil {
		feeBps = *req.Auction.Extensions.ClaimFeeRateBps
	}

	var instructions []*Instruction
	for _, cb := range req.Committed.Bins {
		if int(cb.BinID) >= len(req.Auction.Bins) {
			continue
		}
		delta, err := ComputeClaimableDelta(req.Auction.Bins[cb.BinID], cb, feeBps)
		if err != nil {
			return nil, err
		}
		if delta.SaleDelta == 0 && delta.RefundDelta == 0 {
			continue
		}
		ix, err := BuildClaim(ClaimRequest{
			ProgramContext: req.ProgramContext,
			User:           req.User,
			Auction:        req.Auction,
			AuctionAddr:    req.AuctionAddr,
			Committed:      req.Committed,
			Params:         ClaimParams{BinID: cb.BinID, SaleToClaim: delta.SaleDelta, PaymentToRefund: delta.RefundDelta},
			Tokens:         req.Tokens,
		})
		if err != nil {
			return nil, err
		}
		ix.CorrelationID = runID
		instructions = append(instructions, ix)
	}

	return partitionInstructions(instructions), nil
}

// partitionInstructions packs instructions into groups whose summed
// payload size stays under MaxTransactionBytes, never splitting a single
// instruction across two groups.
func partitionInstructions(instructions []*Instruction) [][]*Instruction {
	var groups [][]*Instruction
	var current []*Instruction
	currentSize := 0

	for _, ix := range instructions {
		size := len(ix.Data)
		if len(current) > 0 && currentSize+size > MaxTransactionBytes {
			groups = append(groups, current)
			current = nil
			currentSize = 0
		}
		current = append(current, ix)
		currentSize += size
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

//---------------------------------------------------------------------
// batch_commit
//---------------------------------------------------------------------

// BatchCommitPolicy selects how BuildBatchCommit handles a failing
// individual commitment (spec §4.F "batch_commit").
type BatchCommitPolicy int

const (
	BestEffort BatchCommitPolicy = iota
	AllOrNothing
)

// BatchCommitResult is one commitment's build outcome within a batch.
// Skipped is set for entries never attempted because an earlier entry
// failed under AllOrNothing; Request is still populated so callers can
// correlate results[i] with requests[i] positionally.
type BatchCommitResult struct {
	Request     CommitRequest
	Instruction *Instruction
	Err         error
	Skipped     bool
}

// BuildBatchCommit builds a commit instruction for each request in order.
// Under BestEffort, a failing request is recorded and the rest still
// build; under AllOrNothing, the first failure aborts the group and every
// remaining request is recorded as Skipped rather than dropped, so the
// returned slice always has len(results) == len(requests) (spec §4.F).
// Every instruction built in one call carries the same CorrelationID.
func BuildBatchCommit(requests []CommitRequest, policy BatchCommitPolicy) []BatchCommitResult {
	runID := uuid.NewString()
	results := make([]BatchCommitResult, 0, len(requests))
	aborted := false
	for _, req := range requests {
		if aborted {
			results = append(results, BatchCommitResult{Request: req, Skipped: true})
			continue
		}
		ix, err := BuildCommit(req)
		if ix != nil {
			ix.CorrelationID = runID
		}
		results = append(results, BatchCommitResult{Request: req, Instruction: ix, Err: err})
		if err != nil {
			builderLog.WithField("user", req.User).WithError(err).Warn("batch_commit entry failed")
			if policy == AllOrNothing {
				aborted = true
			}
		}
	}
	return results
}
