package core

import (
	"crypto/ed25519"
	"testing"
	"time"
)

func TestWhitelistSignAndVerifyAcceptsNextNonce(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	var authority Address
	copy(authority[:], pub)

	auction := &Auction{Extensions: &Extensions{WhitelistAuthority: &authority}}

	payload := WhitelistPayload{
		User:                  testMint(1),
		Auction:               testMint(2),
		BinID:                 0,
		PaymentTokenCommitted: 100,
		Nonce:                 1,
		Expiry:                time.Now().Add(time.Hour).Unix(),
	}

	auth, err := SignWhitelistCommit(priv, payload)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	ix := BuildEd25519Preamble(authority, payload, auth.Signature)

	if err := VerifyCommitAuthorization(auction, 0, payload, ix, time.Now()); err != nil {
		t.Fatalf("expected valid authorization, got %v", err)
	}
}

func TestWhitelistRejectsReplayedNonce(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	var authority Address
	copy(authority[:], pub)
	auction := &Auction{Extensions: &Extensions{WhitelistAuthority: &authority}}

	payload := WhitelistPayload{
		User: testMint(1), Auction: testMint(2), BinID: 0,
		PaymentTokenCommitted: 100, Nonce: 1, Expiry: time.Now().Add(time.Hour).Unix(),
	}
	auth, err := SignWhitelistCommit(priv, payload)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	ix := BuildEd25519Preamble(authority, payload, auth.Signature)

	// committedNonce already at 1: payload.Nonce (1) != committedNonce+1 (2).
	if err := VerifyCommitAuthorization(auction, 1, payload, ix, time.Now()); err == nil {
		t.Fatalf("expected replay to be rejected")
	}
}

func TestWhitelistRejectsExpiryAtNow(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	var authority Address
	copy(authority[:], pub)
	auction := &Auction{Extensions: &Extensions{WhitelistAuthority: &authority}}

	now := time.Now()
	payload := WhitelistPayload{
		User: testMint(1), Auction: testMint(2), BinID: 0,
		PaymentTokenCommitted: 100, Nonce: 1, Expiry: now.Unix(),
	}
	auth, err := SignWhitelistCommit(priv, payload)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	ix := BuildEd25519Preamble(authority, payload, auth.Signature)

	err = VerifyCommitAuthorization(auction, 0, payload, ix, now)
	if err == nil {
		t.Fatalf("expected expiry-at-now to be rejected")
	}
	if kind, _ := KindOf(err); kind != KindSignatureExpired {
		t.Fatalf("got kind %s, want %s", kind, KindSignatureExpired)
	}
}

func TestWhitelistRejectsWrongAuthority(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	otherPub, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	var configuredAuthority Address
	copy(configuredAuthority[:], otherPub)
	auction := &Auction{Extensions: &Extensions{WhitelistAuthority: &configuredAuthority}}

	payload := WhitelistPayload{
		User: testMint(1), Auction: testMint(2), BinID: 0,
		PaymentTokenCommitted: 100, Nonce: 1, Expiry: time.Now().Add(time.Hour).Unix(),
	}
	auth, err := SignWhitelistCommit(priv, payload)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	var signerPub Address
	copy(signerPub[:], priv.Public().(ed25519.PublicKey))
	ix := BuildEd25519Preamble(signerPub, payload, auth.Signature)

	err = VerifyCommitAuthorization(auction, 0, payload, ix, time.Now())
	if err == nil {
		t.Fatalf("expected wrong-authority rejection")
	}
	if kind, _ := KindOf(err); kind != KindWrongWhitelistAuthority {
		t.Fatalf("got kind %s, want %s", kind, KindWrongWhitelistAuthority)
	}
}

func TestVerifyCommitAuthorizationRequiresWhitelistExtension(t *testing.T) {
	auction := &Auction{}
	payload := WhitelistPayload{}
	ix := Ed25519Instruction{}
	err := VerifyCommitAuthorization(auction, 0, payload, ix, time.Now())
	if err == nil {
		t.Fatalf("expected error when auction has no whitelist authority")
	}
	if kind, _ := KindOf(err); kind != KindWhitelistNotEnabled {
		t.Fatalf("got kind %s, want %s", kind, KindWhitelistNotEnabled)
	}
}
