package core

import "math/big"

// Allocate computes a committer's entitled sale tokens and refund for one
// bin, given the bin's current cap/price/raised state (spec §4.C). All
// intermediate products are carried in math/big to stay overflow-safe
// above u64 scale.
func Allocate(paymentCommitted, saleTokenCap, paymentTokenRaised, saleTokenPrice uint64) (entitledSale, refund uint64, err error) {
	if saleTokenPrice == 0 {
		// Edge case (spec §4.C): price=0 means the bin cannot sell
		// anything; the full commitment comes back as a refund.
		return 0, paymentCommitted, nil
	}
	if paymentTokenRaised == 0 {
		return 0, 0, nil
	}

	binTarget := new(big.Int).Mul(big.NewInt(0).SetUint64(saleTokenCap), new(big.Int).SetUint64(saleTokenPrice))
	raised := new(big.Int).SetUint64(paymentTokenRaised)
	price := new(big.Int).SetUint64(saleTokenPrice)
	committed := new(big.Int).SetUint64(paymentCommitted)

	var effectivePayment *big.Int
	if raised.Cmp(binTarget) <= 0 {
		// Under- or exactly-subscribed: no pro-rata haircut.
		effectivePayment = committed
	} else {
		// Over-subscribed: effective_payment = committed * bin_target / raised,
		// numerator first then divide, per spec §4.C.
		num := new(big.Int).Mul(committed, binTarget)
		effectivePayment = new(big.Int).Quo(num, raised)
	}

	entitledBig := new(big.Int).Quo(effectivePayment, price)
	if !entitledBig.IsUint64() {
		return 0, 0, New(KindMathOverflow, "Allocate", "entitled sale tokens overflow u64")
	}
	entitledSale = entitledBig.Uint64()

	spent := new(big.Int).Mul(entitledBig, price)
	refundBig := new(big.Int).Sub(committed, spent)
	if refundBig.Sign() < 0 {
		// Cannot happen given the arithmetic above; guard it explicitly
		// rather than let a silent underflow through.
		return 0, 0, New(KindMathOverflow, "Allocate", "negative refund computed")
	}
	if !refundBig.IsUint64() {
		return 0, 0, New(KindMathOverflow, "Allocate", "refund overflows u64")
	}
	refund = refundBig.Uint64()

	return entitledSale, refund, nil
}

// ApplyFee deducts claim_fee_rate_bps from entitledSale, rounding the fee
// down (spec §4.C: "Fee math never rounds up"). Returns the net payout and
// the fee retained.
func ApplyFee(entitledSale uint64, bps uint16) (net uint64, fee uint64, err error) {
	if bps == 0 {
		return entitledSale, 0, nil
	}
	num := new(big.Int).Mul(new(big.Int).SetUint64(entitledSale), big.NewInt(int64(bps)))
	feeBig := new(big.Int).Quo(num, big.NewInt(10_000))
	if !feeBig.IsUint64() {
		return 0, 0, New(KindMathOverflow, "ApplyFee", "fee overflows u64")
	}
	fee = feeBig.Uint64()
	if fee > entitledSale {
		return 0, 0, New(KindMathOverflow, "ApplyFee", "fee %d exceeds entitled %d", fee, entitledSale)
	}
	return entitledSale - fee, fee, nil
}

// ClaimableDelta is the claimable amount still outstanding for one
// CommittedBin, relative to the entitlement computed from the matching
// AuctionBin.
type ClaimableDelta struct {
	BinID          uint8
	SaleDelta      uint64
	RefundDelta    uint64
	FeeDelta       uint64
	EntitledSale   uint64
	EntitledRefund uint64
}

// ComputeClaimableDelta computes the outstanding claimable sale tokens and
// refund for a single committed bin: entitled minus already-claimed and
// already-refunded (spec §4.C "Claimable deltas"). feeBps is the auction's
// optional claim_fee_rate_bps extension (0 if unset).
func ComputeClaimableDelta(bin AuctionBin, committedBin CommittedBin, feeBps uint16) (ClaimableDelta, error) {
	entitledSale, entitledRefund, err := Allocate(committedBin.PaymentTokenCommitted, bin.SaleTokenCap, bin.PaymentTokenRaised, bin.SaleTokenPrice)
	if err != nil {
		return ClaimableDelta{}, err
	}

	netEntitled, fee, err := ApplyFee(entitledSale, feeBps)
	if err != nil {
		return ClaimableDelta{}, err
	}

	if netEntitled < committedBin.SaleTokenClaimed {
		return ClaimableDelta{}, New(KindInvalidAmount, "ComputeClaimableDelta", "already claimed %d exceeds entitled %d", committedBin.SaleTokenClaimed, netEntitled)
	}
	if entitledRefund < committedBin.PaymentTokenRefunded {
		return ClaimableDelta{}, New(KindInvalidAmount, "ComputeClaimableDelta", "already refunded %d exceeds entitled %d", committedBin.PaymentTokenRefunded, entitledRefund)
	}

	return ClaimableDelta{
		BinID:          committedBin.BinID,
		SaleDelta:      netEntitled - committedBin.SaleTokenClaimed,
		RefundDelta:    entitledRefund - committedBin.PaymentTokenRefunded,
		FeeDelta:       fee,
		EntitledSale:   netEntitled,
		EntitledRefund: entitledRefund,
	}, nil
}
