package core

import (
	"github.com/google/uuid"

	"github.com/keroro520/solana-launchpad-sub001/pkg/logging"
)

var builderLog = logging.WithComponent("builders")

// AccountMeta is one entry of an instruction's account list.
type AccountMeta struct {
	Address    Address
	IsSigner   bool
	IsWritable bool
}

// Instruction is an immutable, ready-to-submit instruction: the account
// list (order is part of the protocol), the encoded payload, and a map of
// resolved auxiliary addresses for caller convenience (spec §4.F).
type Instruction struct {
	ProgramID Address
	Accounts  []AccountMeta
	Data      []byte
	Resolved  map[string]Address

	// Ed25519Preamble is set for a `commit` instruction when whitelisting
	// is enabled; the caller MUST place it immediately before this
	// instruction in the same transaction (spec §4.E, §5).
	Ed25519Preamble *Ed25519Instruction

	// CorrelationID tags this build for log correlation. A standalone
	// build gets a fresh id; the composite builders give every instruction
	// of one run the same id.
	CorrelationID string
}

func meta(a Address, signer, writable bool) AccountMeta {
	return AccountMeta{Address: a, IsSigner: signer, IsWritable: writable}
}

// TokenAccounts lets a caller override the canonical associated-token
// accounts an instruction would otherwise derive (spec §4.F).
type TokenAccounts struct {
	UserSale    *Address
	UserPayment *Address
}

//---------------------------------------------------------------------
// init_auction
//---------------------------------------------------------------------

// InitAuctionRequest carries everything BuildInitAuction needs beyond what
// it derives itself.
type InitAuctionRequest struct {
	ProgramContext  *ProgramContext
	Authority       Address
	SaleMint        Address
	PaymentMint     Address
	SellerToken     Address
	SellerAuthority Address
	Params          InitAuctionParams
}

// BuildInitAuction assembles the init_auction instruction: validates
// inputs, derives the auction and vault PDAs, and encodes the payload.
func BuildInitAuction(req InitAuctionRequest) (*Instruction, error) {
	if res := ValidateInitAuction(req.Params); !res.IsValid {
		return nil, res.Errors[0]
	}

	auctionAddr, bump, err := DeriveAuction(req.ProgramContext.ProgramID, req.SaleMint)
	if err != nil {
		return nil, err
	}
	vaultSale, vsBump, err := DeriveVaultSale(req.ProgramContext.ProgramID, auctionAddr)
	if err != nil {
		return nil, err
	}
	vaultPayment, vpBump, err := DeriveVaultPayment(req.ProgramContext.ProgramID, auctionAddr)
	if err != nil {
		return nil, err
	}

	data, err := EncodeInitAuction(req.Params)
	if err != nil {
		return nil, err
	}

	ix := &Instruction{
		ProgramID: req.ProgramContext.ProgramID,
		Accounts: []AccountMeta{
			meta(req.Authority, true, true),
			meta(auctionAddr, false, true),
			meta(req.SaleMint, false, false),
			meta(req.PaymentMint, false, false),
			meta(req.SellerToken, false, true),
			meta(req.SellerAuthority, true, true),
			meta(vaultSale, false, true),
			meta(vaultPayment, false, true),
			meta(req.ProgramContext.TokenProgram, false, false),
			meta(req.ProgramContext.SystemProgram, false, false),
		},
		Data: data,
		Resolved: map[string]Address{
			"auction":       auctionAddr,
			"vault_sale":    vaultSale,
			"vault_payment": vaultPayment,
		},
		CorrelationID: uuid.NewString(),
	}
	builderLog.WithField("auction", auctionAddr).WithField("bump", bump).WithField("vault_sale_bump", vsBump).WithField("vault_payment_bump", vpBump).Debug("built init_auction")
	return ix, nil
}

//---------------------------------------------------------------------
// commit
//---------------------------------------------------------------------

// CommitRequest carries everything BuildCommit needs. WhitelistAuth is nil
// unless the auction has a whitelist authority configured.
type CommitRequest struct {
	ProgramContext *ProgramContext
	User           Address
	Auction        *Auction
	AuctionAddr    Address
	Params         CommitParams
	Tokens         TokenAccounts
	WhitelistAuth  *WhitelistCommitAuth
}

// WhitelistCommitAuth bundles the payload and signed authorization a
// caller attaches to a whitelisted commit.
type WhitelistCommitAuth struct {
	Payload WhitelistPayload
	Auth    WhitelistAuthorization
}

// BuildCommit assembles the commit instruction, attaching the Ed25519
// preamble when the auction requires whitelisting (spec §4.F).
func BuildCommit(req CommitRequest) (*Instruction, error) {
	if res := ValidateCommit(req.Auction, req.Params); !res.IsValid {
		return nil, res.Errors[0]
	}

	committedAddr, bump, err := DeriveCommitted(req.ProgramContext.ProgramID, req.AuctionAddr, req.User)
	if err != nil {
		return nil, err
	}

	userPayment, err := resolveOrDerive(req.Tokens.UserPayment, req.ProgramContext, req.User, req.Auction.PaymentMint)
	if err != nil {
		return nil, err
	}
	vaultPayment, _, err := DeriveVaultPayment(req.ProgramContext.ProgramID, req.AuctionAddr)
	if err != nil {
		return nil, err
	}

	var preamble *Ed25519Instruction
	if req.Auction.Extensions != nil && req.Auction.Extensions.WhitelistAuthority != nil {
		if req.WhitelistAuth == nil {
			return nil, New(KindMissingWhitelistAuthority, "BuildCommit", "auction requires a whitelist authorization")
		}
		p := BuildEd25519Preamble(*req.Auction.Extensions.WhitelistAuthority, req.WhitelistAuth.Payload, req.WhitelistAuth.Auth.Signature)
		preamble = &p
	}

	data := EncodeCommit(req.Params)

	ix := &Instruction{
		ProgramID: req.ProgramContext.ProgramID,
		Accounts: []AccountMeta{
			meta(req.User, true, true),
			meta(req.AuctionAddr, false, true),
			meta(committedAddr, false, true),
			meta(userPayment, false, true),
			meta(vaultPayment, false, true),
			meta(req.ProgramContext.TokenProgram, false, false),
			meta(req.ProgramContext.SystemProgram, false, false),
		},
		Data:            data,
		Resolved:        map[string]Address{"committed": committedAddr, "user_payment": userPayment, "vault_payment": vaultPayment},
		Ed25519Preamble: preamble,
		CorrelationID:   uuid.NewString(),
	}
	builderLog.WithField("committed", committedAddr).WithField("bump", bump).Debug("built commit")
	return ix, nil
}

//---------------------------------------------------------------------
// decrease_commit
//---------------------------------------------------------------------

type DecreaseCommitRequest struct {
	ProgramContext *ProgramContext
	User           Address
	Auction        *Auction
	AuctionAddr    Address
	Committed      *Committed
	Params         DecreaseCommitParams
	Tokens         TokenAccounts
}

func BuildDecreaseCommit(req DecreaseCommitRequest) (*Instruction, error) {
	if res := ValidateDecreaseCommit(req.Committed, req.Params); !res.IsValid {
		return nil, res.Errors[0]
	}
	committedAddr, _, err := DeriveCommitted(req.ProgramContext.ProgramID, req.AuctionAddr, req.User)
	if err != nil {
		return nil, err
	}
	userPayment, err := resolveOrDerive(req.Tokens.UserPayment, req.ProgramContext, req.User, req.Auction.PaymentMint)
	if err != nil {
		return nil, err
	}
	vaultPayment, _, err := DeriveVaultPayment(req.ProgramContext.ProgramID, req.AuctionAddr)
	if err != nil {
		return nil, err
	}

	ix := &Instruction{
		ProgramID: req.ProgramContext.ProgramID,
		Accounts: []AccountMeta{
			meta(req.User, true, true),
			meta(req.AuctionAddr, false, true),
			meta(committedAddr, false, true),
			meta(userPayment, false, true),
			meta(vaultPayment, false, true),
			meta(req.ProgramContext.TokenProgram, false, false),
		},
		Data:          EncodeDecreaseCommit(req.Params),
		Resolved:      map[string]Address{"committed": committedAddr, "user_payment": userPayment, "vault_payment": vaultPayment},
		CorrelationID: uuid.NewString(),
	}
	return ix, nil
}

//---------------------------------------------------------------------
// claim
//---------------------------------------------------------------------

type ClaimRequest struct {
	ProgramContext *ProgramContext
	User           Address
	Auction        *Auction
	AuctionAddr    Address
	Committed      *Committed
	Params         ClaimParams
	Tokens         TokenAccounts
}

func BuildClaim(req ClaimRequest) (*Instruction, error) {
	if res := ValidateClaim(req.Auction, req.Committed, req.Params); !res.IsValid {
		return nil, res.Errors[0]
	}

	committedAddr, _, err := DeriveCommitted(req.ProgramContext.ProgramID, req.AuctionAddr, req.User)
	if err != nil {
		return nil, err
	}
	userSale, err := resolveOrDerive(req.Tokens.UserSale, req.ProgramContext, req.User, req.Auction.SaleMint)
	if err != nil {
		return nil, err
	}
	userPayment, err := resolveOrDerive(req.Tokens.UserPayment, req.ProgramContext, req.User, req.Auction.PaymentMint)
	if err != nil {
		return nil, err
	}
	vaultSale, _, err := DeriveVaultSale(req.ProgramContext.ProgramID, req.AuctionAddr)
	if err != nil {
		return nil, err
	}
	vaultPayment, _, err := DeriveVaultPayment(req.ProgramContext.ProgramID, req.AuctionAddr)
	if err != nil {
		return nil, err
	}

	ix := &Instruction{
		ProgramID: req.ProgramContext.ProgramID,
		Accounts: []AccountMeta{
			meta(req.User, true, true),
			meta(req.AuctionAddr, false, true),
			meta(committedAddr, false, true),
			meta(req.Auction.SaleMint, false, false),
			meta(userSale, false, true),
			meta(userPayment, false, true),
			meta(vaultSale, false, true),
			meta(vaultPayment, false, true),
			meta(req.ProgramContext.TokenProgram, false, false),
			meta(req.ProgramContext.AssociatedTokenProg, false, false),
			meta(req.ProgramContext.SystemProgram, false, false),
		},
		Data:          EncodeClaim(req.Params),
		Resolved:      map[string]Address{"committed": committedAddr, "user_sale": userSale, "user_payment": userPayment, "vault_sale": vaultSale, "vault_payment": vaultPayment},
		CorrelationID: uuid.NewString(),
	}
	return ix, nil
}

//---------------------------------------------------------------------
// withdraw_funds / withdraw_fees
//---------------------------------------------------------------------

type WithdrawFundsRequest struct {
	ProgramContext   *ProgramContext
	Authority        Address
	Auction          *Auction
	AuctionAddr      Address
	SaleRecipient    Address
	PaymentRecipient Address
}

func BuildWithdrawFunds(req WithdrawFundsRequest) (*Instruction, error) {
	vaultSale, _, err := DeriveVaultSale(req.ProgramContext.ProgramID, req.AuctionAddr)
	if err != nil {
		return nil, err
	}
	vaultPayment, _, err := DeriveVaultPayment(req.ProgramContext.ProgramID, req.AuctionAddr)
	if err != nil {
		return nil, err
	}
	ix := &Instruction{
		ProgramID: req.ProgramContext.ProgramID,
		Accounts: []AccountMeta{
			meta(req.Authority, true, true),
			meta(req.AuctionAddr, false, true),
			meta(req.Auction.SaleMint, false, false),
			meta(req.Auction.PaymentMint, false, false),
			meta(vaultSale, false, true),
			meta(vaultPayment, false, true),
			meta(req.SaleRecipient, false, true),
			meta(req.PaymentRecipient, false, true),
			meta(req.ProgramContext.TokenProgram, false, false),
			meta(req.ProgramContext.AssociatedTokenProg, false, false),
			meta(req.ProgramContext.SystemProgram, false, false),
		},
		Data:          EncodeWithdrawFunds(),
		Resolved:      map[string]Address{"vault_sale": vaultSale, "vault_payment": vaultPayment},
		CorrelationID: uuid.NewString(),
	}
	return ix, nil
}

type WithdrawFeesRequest struct {
	ProgramContext *ProgramContext
	Authority      Address
	Auction        *Auction
	AuctionAddr    Address
	FeeRecipient   Address
}

func BuildWithdrawFees(req WithdrawFeesRequest) (*Instruction, error) {
	vaultSale, _, err := DeriveVaultSale(req.ProgramContext.ProgramID, req.AuctionAddr)
	if err != nil {
		return nil, err
	}
	ix := &Instruction{
		ProgramID: req.ProgramContext.ProgramID,
		Accounts: []AccountMeta{
			meta(req.Authority, true, true),
			meta(req.AuctionAddr, false, true),
			meta(req.Auction.SaleMint, false, false),
			meta(vaultSale, false, true),
			meta(req.FeeRecipient, false, true),
			meta(req.ProgramContext.TokenProgram, false, false),
			meta(req.ProgramContext.AssociatedTokenProg, false, false),
			meta(req.ProgramContext.SystemProgram, false, false),
		},
		Data:          EncodeWithdrawFees(),
		Resolved:      map[string]Address{"vault_sale": vaultSale},
		CorrelationID: uuid.NewString(),
	}
	return ix, nil
}

//---------------------------------------------------------------------
// set_price / emergency_control
//---------------------------------------------------------------------

type SetPriceRequest struct {
	ProgramContext *ProgramContext
	Authority      Address
	AuctionAddr    Address
	Params         SetPriceParams
}

func BuildSetPrice(req SetPriceRequest) (*Instruction, error) {
	if req.Params.NewPrice == 0 {
		return nil, New(KindInvalidBinParam, "BuildSetPrice", "new_price must be positive")
	}
	return &Instruction{
		ProgramID: req.ProgramContext.ProgramID,
		Accounts: []AccountMeta{
			meta(req.Authority, true, true),
			meta(req.AuctionAddr, false, true),
		},
		Data:          EncodeSetPrice(req.Params),
		Resolved:      map[string]Address{},
		CorrelationID: uuid.NewString(),
	}, nil
}

type EmergencyControlRequest struct {
	ProgramContext *ProgramContext
	Authority      Address
	AuctionAddr    Address
	Params         EmergencyControlParams
}

func BuildEmergencyControl(req EmergencyControlRequest) (*Instruction, error) {
	return &Instruction{
		ProgramID: req.ProgramContext.ProgramID,
		Accounts: []AccountMeta{
			meta(req.Authority, true, true),
			meta(req.AuctionAddr, false, true),
		},
		Data:          EncodeEmergencyControl(req.Params),
		Resolved:      map[string]Address{},
		CorrelationID: uuid.NewString(),
	}, nil
}

// BuildGetLaunchpadAdmin assembles the read-only get_launchpad_admin call.
// spec §6's account table does not enumerate this operation (see
// EncodeGetLaunchpadAdmin's comment); we model it as needing only the
// auction account, no signer.
func BuildGetLaunchpadAdmin(ctx *ProgramContext, auctionAddr Address) *Instruction {
	return &Instruction{
		ProgramID: ctx.ProgramID,
		Accounts: []AccountMeta{
			meta(auctionAddr, false, false),
		},
		Data:          EncodeGetLaunchpadAdmin(),
		Resolved:      map[string]Address{},
		CorrelationID: uuid.NewString(),
	}
}

//---------------------------------------------------------------------
// Token-account resolution helper
//---------------------------------------------------------------------

func resolveOrDerive(override *Address, ctx *ProgramContext, owner, mint Address) (Address, error) {
	if override != nil {
		return *override, nil
	}
	ata, _, err := DeriveAssociatedTokenAccount(ctx.AssociatedTokenProg, owner, ctx.TokenProgram, mint)
	return ata, err
}
