package core

import (
	"crypto/sha256"
	"math/big"

	"github.com/keroro520/solana-launchpad-sub001/pkg/logging"
)

var addrLog = logging.WithComponent("address")

// Seed family literal prefixes (spec §4.A). These are namespaced by the
// program id and are part of the wire protocol: changing a byte here
// changes every derived address.
var (
	seedAuction       = []byte("auction")
	seedCommitted     = []byte("committed")
	seedVaultSale     = []byte("vault_sale")
	seedVaultPayment  = []byte("vault_payment")
	seedATA           = []byte("ata") // associated-token-account marker, scheme-internal
)

// maxBumpSearch bounds the bump-seed search. Exhausting it is a fatal
// configuration error per spec §4.A ("vanishingly rare").
const maxBumpSearch = 256

// Derive computes a deterministic program-derived address for the given
// seed parts under programID, scanning bump seeds from 255 down to 0 and
// returning the first off-curve candidate. Derivation is total for any
// seed set this package uses; it only fails if the full bump range is
// exhausted, which indicates a broken seed scheme rather than bad luck.
func Derive(programID Address, seeds ...[]byte) (Address, byte, error) {
	for bump := 255; bump >= 0; bump-- {
		h := sha256.New()
		for _, s := range seeds {
			h.Write(s)
		}
		h.Write(programID.Bytes())
		h.Write([]byte{byte(bump)})
		h.Write([]byte("ProgramDerivedAddress"))
		sum := h.Sum(nil)

		var candidate Address
		copy(candidate[:], sum)

		if !isOnCurve(candidate) {
			return candidate, byte(bump), nil
		}
	}
	addrLog.Errorf("bump search exhausted for program %s", programID)
	return Address{}, 0, New(KindInvalidProgramID, "Derive", "bump seed search exhausted (256 values) for program %s", programID)
}

// DeriveAuction computes the auction account address for a sale-token mint.
func DeriveAuction(programID, saleMint Address) (Address, byte, error) {
	return Derive(programID, seedAuction, saleMint.Bytes())
}

// DeriveCommitted computes the Committed account address for a
// (auction, user) pair.
func DeriveCommitted(programID, auction, user Address) (Address, byte, error) {
	return Derive(programID, seedCommitted, auction.Bytes(), user.Bytes())
}

// DeriveCommittedLegacy reproduces the deprecated per-bin Committed
// derivation (spec §4.A: "a legacy derivation appended a bin-id byte to
// committed"). Retained only for historical reads; new commitments must
// use DeriveCommitted.
//
// Deprecated: use DeriveCommitted. This alias exists solely so the SDK can
// still resolve addresses written under the old scheme.
func DeriveCommittedLegacy(programID, auction, user Address, binID uint8) (Address, byte, error) {
	return Derive(programID, seedCommitted, auction.Bytes(), user.Bytes(), []byte{binID})
}

// DeriveVaultSale computes an auction's sale-token vault address.
func DeriveVaultSale(programID, auction Address) (Address, byte, error) {
	return Derive(programID, seedVaultSale, auction.Bytes())
}

// DeriveVaultPayment computes an auction's payment-token vault address.
func DeriveVaultPayment(programID, auction Address) (Address, byte, error) {
	return Derive(programID, seedVaultPayment, auction.Bytes())
}

// DeriveAssociatedTokenAccount computes the canonical associated-token
// account for (owner, mint) under the well-known ATA program, namespaced
// by the SPL token program in use. Instruction builders call this when the
// caller does not supply an explicit token-account override (spec §4.F).
func DeriveAssociatedTokenAccount(ataProgram, owner, tokenProgram, mint Address) (Address, byte, error) {
	return Derive(ataProgram, owner.Bytes(), tokenProgram.Bytes(), mint.Bytes(), seedATA)
}

//---------------------------------------------------------------------
// Edwards25519 curve membership check
//---------------------------------------------------------------------
//
// A program-derived address must lie off the curve (no corresponding
// private key can exist). We test that by treating the 32 derived bytes as
// a candidate y-coordinate on the twisted Edwards curve
//
//	-x^2 + y^2 = 1 + d*x^2*y^2  (mod p),  p = 2^255 - 19
//
// and checking whether x^2 = (y^2-1) / (d*y^2+1) mod p is a quadratic
// residue via Euler's criterion. If it is not, no x exists for this y and
// the point (hence the address) is off-curve.

var (
	curveP = func() *big.Int {
		p := new(big.Int).Lsh(big.NewInt(1), 255)
		p.Sub(p, big.NewInt(19))
		return p
	}()
	// d = -121665/121666 mod p, the Edwards25519 curve constant.
	curveD = func() *big.Int {
		num := big.NewInt(-121665)
		den := big.NewInt(121666)
		denInv := new(big.Int).ModInverse(den, curveP)
		d := new(big.Int).Mul(num, denInv)
		return d.Mod(d, curveP)
	}()
)

func isOnCurve(a Address) bool {
	// The top bit of the last byte is a sign bit in the compressed
	// encoding, not part of the field element; mask it off.
	yb := make([]byte, 32)
	copy(yb, a[:])
	yb[31] &= 0x7f
	// Little-endian field element.
	for i, j := 0, len(yb)-1; i < j; i, j = i+1, j-1 {
		yb[i], yb[j] = yb[j], yb[i]
	}
	y := new(big.Int).SetBytes(yb)
	if y.Cmp(curveP) >= 0 {
		return false
	}

	y2 := new(big.Int).Mul(y, y)
	y2.Mod(y2, curveP)

	u := new(big.Int).Sub(y2, big.NewInt(1))
	u.Mod(u, curveP)

	v := new(big.Int).Mul(curveD, y2)
	v.Add(v, big.NewInt(1))
	v.Mod(v, curveP)

	if v.Sign() == 0 {
		return false
	}

	vInv := new(big.Int).ModInverse(v, curveP)
	if vInv == nil {
		return false
	}
	x2 := new(big.Int).Mul(u, vInv)
	x2.Mod(x2, curveP)

	if x2.Sign() == 0 {
		// x = 0 is a valid point (the curve's distinguished point has x=0
		// only if u is also 0); treat as on-curve conservatively.
		return true
	}

	// Euler's criterion: x2^((p-1)/2) mod p == 1 iff x2 is a QR.
	exp := new(big.Int).Sub(curveP, big.NewInt(1))
	exp.Div(exp, big.NewInt(2))
	res := new(big.Int).Exp(x2, exp, curveP)
	return res.Cmp(big.NewInt(1)) == 0
}
