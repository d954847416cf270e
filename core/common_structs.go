// Package core implements the bin-auction protocol contract: address
// derivation, instruction encoding, allocation math, state mirroring,
// whitelist signing and validation. Everything in this package must match
// the on-chain program byte-for-byte; there is no tolerance for "close
// enough" here.
package core

import (
	"github.com/mr-tron/base58"
)

// Address is a 32-byte program account identifier (the protocol's
// Pubkey-equivalent). It renders as base58, matching every Solana-family
// client's address encoding.
type Address [32]byte

// String returns the base58 encoding of the address.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// Bytes returns a copy of the address's raw bytes.
func (a Address) Bytes() []byte {
	out := make([]byte, 32)
	copy(out, a[:])
	return out
}

// IsZero reports whether the address is the all-zero sentinel.
func (a Address) IsZero() bool {
	return a == Address{}
}

// AddressFromBase58 decodes a base58 string into an Address.
func AddressFromBase58(s string) (Address, error) {
	var a Address
	b, err := base58.Decode(s)
	if err != nil {
		return a, Wrap(KindInvalidAccountData, "AddressFromBase58", err, "decode base58 address")
	}
	if len(b) != 32 {
		return a, New(KindInvalidAccountData, "AddressFromBase58", "address must be 32 bytes, got %d", len(b))
	}
	copy(a[:], b)
	return a, nil
}

// AddressZero is the sentinel zero address.
var AddressZero = Address{}

//---------------------------------------------------------------------
// Emergency bitmask (spec §3, resolved per SPEC_FULL.md Open Questions)
//---------------------------------------------------------------------

const (
	EmergencyFlagCommit        uint64 = 0x1
	EmergencyFlagClaim         uint64 = 0x2
	EmergencyFlagWithdrawFees  uint64 = 0x4
	EmergencyFlagWithdrawFunds uint64 = 0x8
	EmergencyFlagUpdation      uint64 = 0x10
)

// EmergencyControlParams is the instruction-level shape: five independent
// booleans that the on-chain program folds into Auction.EmergencyState.
type EmergencyControlParams struct {
	PauseCommit        bool
	PauseClaim         bool
	PauseWithdrawFees  bool
	PauseWithdrawFunds bool
	PauseUpdation      bool
}

// ComposeEmergencyBitmask folds the five instruction-level booleans into
// the single on-chain bitmask.
func ComposeEmergencyBitmask(p EmergencyControlParams) uint64 {
	var mask uint64
	if p.PauseCommit {
		mask |= EmergencyFlagCommit
	}
	if p.PauseClaim {
		mask |= EmergencyFlagClaim
	}
	if p.PauseWithdrawFees {
		mask |= EmergencyFlagWithdrawFees
	}
	if p.PauseWithdrawFunds {
		mask |= EmergencyFlagWithdrawFunds
	}
	if p.PauseUpdation {
		mask |= EmergencyFlagUpdation
	}
	return mask
}

// DecomposeEmergencyBitmask is the inverse of ComposeEmergencyBitmask, used
// when reading a mirrored Auction snapshot.
func DecomposeEmergencyBitmask(mask uint64) EmergencyControlParams {
	return EmergencyControlParams{
		PauseCommit:        mask&EmergencyFlagCommit != 0,
		PauseClaim:         mask&EmergencyFlagClaim != 0,
		PauseWithdrawFees:  mask&EmergencyFlagWithdrawFees != 0,
		PauseWithdrawFunds: mask&EmergencyFlagWithdrawFunds != 0,
		PauseUpdation:      mask&EmergencyFlagUpdation != 0,
	}
}

//---------------------------------------------------------------------
// Data model (spec §3)
//---------------------------------------------------------------------

// AuctionBin is one price/cap tier of an Auction.
type AuctionBin struct {
	SaleTokenPrice     uint64
	SaleTokenCap       uint64
	PaymentTokenRaised uint64
	SaleTokenClaimed   uint64
}

// BinTarget is the payment value needed to sell the bin out at its listed
// price: sale_token_cap * sale_token_price.
func (b AuctionBin) BinTarget() uint64 {
	return b.SaleTokenCap * b.SaleTokenPrice
}

// Extensions holds the optional auction extensions.
type Extensions struct {
	WhitelistAuthority *Address
	CommitCapPerUser   *uint64
	ClaimFeeRateBps    *uint16
}

// Auction mirrors one on-chain Auction account: one per distinct
// sale-token mint.
type Auction struct {
	Authority    Address
	Custody      Address
	SaleMint     Address
	PaymentMint  Address

	CommitStart int64
	CommitEnd   int64
	ClaimStart  int64

	Bins []AuctionBin

	Extensions *Extensions

	EmergencyState uint64

	TotalParticipants                     uint64
	TotalFeesCollected                    uint64
	TotalFeesWithdrawn                    uint64
	UnsoldAndEffectivePaymentWithdrawn    bool

	Bump             byte
	VaultSaleBump    byte
	VaultPaymentBump byte
}

// TotalPaymentRaised sums payment_token_raised across every bin.
func (a *Auction) TotalPaymentRaised() uint64 {
	var total uint64
	for _, b := range a.Bins {
		total += b.PaymentTokenRaised
	}
	return total
}

// AuctionStatus is the derived lifecycle phase of an Auction at a point in
// time (spec §4.D).
type AuctionStatus int

const (
	StatusUpcoming AuctionStatus = iota
	StatusActive
	StatusEnded
	StatusClaiming
)

func (s AuctionStatus) String() string {
	switch s {
	case StatusUpcoming:
		return "upcoming"
	case StatusActive:
		return "active"
	case StatusEnded:
		return "ended"
	case StatusClaiming:
		return "claiming"
	default:
		return "unknown"
	}
}

// CommittedBin is one user's commitment to a single bin.
type CommittedBin struct {
	BinID                 uint8
	PaymentTokenCommitted uint64
	SaleTokenClaimed      uint64
	PaymentTokenRefunded  uint64
}

// Committed mirrors one on-chain Committed account: one per (auction, user)
// pair.
type Committed struct {
	Auction Address
	User    Address
	Bins    []CommittedBin
	Nonce   uint64
	Bump    byte
}

// BinByID returns a pointer to the CommittedBin with the given id, or nil.
func (c *Committed) BinByID(binID uint8) *CommittedBin {
	for i := range c.Bins {
		if c.Bins[i].BinID == binID {
			return &c.Bins[i]
		}
	}
	return nil
}

// WhitelistPayload is the tuple serialized and signed by the whitelist
// authority (spec §4.E).
type WhitelistPayload struct {
	User                  Address
	Auction               Address
	BinID                 uint8
	PaymentTokenCommitted uint64
	Nonce                 uint64
	Expiry                int64
}

// ProgramContext is the immutable handle shared by every mirror/facade
// instance: the program id plus the associated-token, token and system
// program addresses the builders place in account lists.
type ProgramContext struct {
	ProgramID            Address
	AssociatedTokenProg  Address
	TokenProgram         Address
	SystemProgram        Address
}
