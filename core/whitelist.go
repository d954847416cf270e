package core

import (
	"crypto/ed25519"
	"time"

	"github.com/keroro520/solana-launchpad-sub001/pkg/logging"
)

var whitelistLog = logging.WithComponent("whitelist")

// whitelistPayloadBytes serializes a WhitelistPayload as the exact
// Pubkey-Pubkey-u8-u64-u64-u64 concatenation spec §4.E requires: no length
// prefix, no padding.
func whitelistPayloadBytes(p WhitelistPayload) []byte {
	e := newEncoder()
	e.writeAddress(p.User)
	e.writeAddress(p.Auction)
	e.writeU8(p.BinID)
	e.writeU64(p.PaymentTokenCommitted)
	e.writeU64(p.Nonce)
	e.writeU64(uint64(p.Expiry))
	return e.bytes()
}

// WhitelistAuthorization is what the SDK's signer produces for the caller
// to attach to a transaction.
type WhitelistAuthorization struct {
	Signature [64]byte
	Expiry    int64
}

// SignWhitelistCommit signs payload with the whitelist authority's
// keypair. The SDK never holds or derives this key itself (spec §1: key
// management is an external collaborator).
func SignWhitelistCommit(priv ed25519.PrivateKey, payload WhitelistPayload) (WhitelistAuthorization, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return WhitelistAuthorization{}, New(KindMalformedEd25519Ix, "SignWhitelistCommit", "private key must be %d bytes", ed25519.PrivateKeySize)
	}
	msg := whitelistPayloadBytes(payload)
	sig := ed25519.Sign(priv, msg)
	var out [64]byte
	copy(out[:], sig)
	whitelistLog.WithField("user", payload.User).WithField("bin_id", payload.BinID).Debug("signed whitelist commit")
	return WhitelistAuthorization{Signature: out, Expiry: payload.Expiry}, nil
}

// Ed25519Instruction is the minimal shape of the standard Ed25519-verify
// instruction the on-chain program expects immediately before `commit`
// when whitelisting is enabled (spec §4.E, §6).
type Ed25519Instruction struct {
	PublicKey Address
	Message   []byte
	Signature [64]byte
}

// BuildEd25519Preamble assembles the Ed25519-verify instruction the caller
// must place immediately before the commit instruction in the same
// transaction.
func BuildEd25519Preamble(whitelistAuthority Address, payload WhitelistPayload, sig [64]byte) Ed25519Instruction {
	return Ed25519Instruction{
		PublicKey: whitelistAuthority,
		Message:   whitelistPayloadBytes(payload),
		Signature: sig,
	}
}

// VerifyCommitAuthorization reproduces, client-side, the checks the
// on-chain program performs before accepting a whitelisted commit (spec
// §4.E): whitelist must be enabled, the preamble must be signed by the
// configured whitelist authority over the exact payload bytes, the
// signature must not be expired (strict "now < expiry", i.e. now == expiry
// is rejected per spec §8's boundary case), and nonce must equal
// committed.Nonce + 1.
func VerifyCommitAuthorization(auction *Auction, committedNonce uint64, payload WhitelistPayload, ix Ed25519Instruction, now time.Time) error {
	if auction.Extensions == nil || auction.Extensions.WhitelistAuthority == nil {
		return New(KindWhitelistNotEnabled, "VerifyCommitAuthorization", "auction has no whitelist authority configured")
	}
	authority := *auction.Extensions.WhitelistAuthority
	if authority.IsZero() {
		return New(KindMissingWhitelistAuthority, "VerifyCommitAuthorization", "whitelist authority is the zero address")
	}
	if ix.PublicKey != authority {
		return New(KindWrongWhitelistAuthority, "VerifyCommitAuthorization", "ed25519 ix signer %s does not match whitelist authority %s", ix.PublicKey, authority)
	}

	expected := whitelistPayloadBytes(payload)
	if len(ix.Message) != len(expected) {
		return New(KindMalformedEd25519Ix, "VerifyCommitAuthorization", "ed25519 ix message length %d, expected %d", len(ix.Message), len(expected))
	}
	for i := range expected {
		if ix.Message[i] != expected[i] {
			return New(KindPayloadMismatch, "VerifyCommitAuthorization", "ed25519 ix message does not match whitelist payload")
		}
	}

	if !ed25519.Verify(ed25519.PublicKey(authority[:]), expected, ix.Signature[:]) {
		return New(KindPayloadMismatch, "VerifyCommitAuthorization", "signature does not verify against whitelist authority")
	}

	if now.Unix() >= payload.Expiry {
		return New(KindSignatureExpired, "VerifyCommitAuthorization", "expiry %d not strictly after now %d", payload.Expiry, now.Unix())
	}

	if committedNonce == ^uint64(0) {
		return New(KindNonceOverflow, "VerifyCommitAuthorization", "committed nonce at max u64, cannot advance")
	}
	if payload.Nonce != committedNonce+1 {
		return New(KindPayloadMismatch, "VerifyCommitAuthorization", "payload nonce %d does not equal committed.nonce+1 (%d)", payload.Nonce, committedNonce+1)
	}

	return nil
}
