package core

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
)

//---------------------------------------------------------------------
// Discriminators (spec §4.B, Open Question resolved in SPEC_FULL.md §1)
//---------------------------------------------------------------------

// MethodName enumerates the instruction methods carried on the wire.
type MethodName string

const (
	MethodInitAuction        MethodName = "init_auction"
	MethodCommit             MethodName = "commit"
	MethodDecreaseCommit     MethodName = "decrease_commit"
	MethodClaim              MethodName = "claim"
	MethodWithdrawFunds      MethodName = "withdraw_funds"
	MethodWithdrawFees       MethodName = "withdraw_fees"
	MethodSetPrice           MethodName = "set_price"
	MethodEmergencyControl   MethodName = "emergency_control"
	MethodGetLaunchpadAdmin  MethodName = "get_launchpad_admin"
)

// instructionDiscriminator computes the 8-byte discriminator for an
// instruction method. No authoritative on-chain IDL was available to this
// SDK, so we use the same convention the rest of the ecosystem does for
// Anchor-style programs: sha256("global:"+name)[:8]. Replace the disc*
// package-level vars below with literal bytes from a real IDL if one
// becomes available.
func instructionDiscriminator(name MethodName) [8]byte {
	sum := sha256.Sum256([]byte("global:" + string(name)))
	var d [8]byte
	copy(d[:], sum[:8])
	return d
}

// accountDiscriminator computes the 8-byte discriminator for an
// account-type header, using the matching "account:Name" convention.
func accountDiscriminator(name string) [8]byte {
	sum := sha256.Sum256([]byte("account:" + name))
	var d [8]byte
	copy(d[:], sum[:8])
	return d
}

var (
	discInitAuction      = instructionDiscriminator(MethodInitAuction)
	discCommit           = instructionDiscriminator(MethodCommit)
	discDecreaseCommit   = instructionDiscriminator(MethodDecreaseCommit)
	discClaim            = instructionDiscriminator(MethodClaim)
	discWithdrawFunds    = instructionDiscriminator(MethodWithdrawFunds)
	discWithdrawFees     = instructionDiscriminator(MethodWithdrawFees)
	discSetPrice         = instructionDiscriminator(MethodSetPrice)
	discEmergencyControl = instructionDiscriminator(MethodEmergencyControl)
	discGetLaunchpadAdmin = instructionDiscriminator(MethodGetLaunchpadAdmin)

	discAccountAuction   = accountDiscriminator("Auction")
	discAccountCommitted = accountDiscriminator("Committed")
)

//---------------------------------------------------------------------
// Primitive writers/readers
//---------------------------------------------------------------------
//
// Layout (spec §4.B): little-endian integers, Pubkey as 32 raw bytes, bool
// as one byte, Option<T> as a tag byte (0=None,1=Some) then T if Some,
// Vec<T> as a u32 length then elements.

type encoder struct{ buf bytes.Buffer }

func newEncoder() *encoder { return &encoder{} }

func (e *encoder) bytes() []byte { return e.buf.Bytes() }

func (e *encoder) writeU8(v uint8)   { e.buf.WriteByte(v) }
func (e *encoder) writeBool(v bool) {
	if v {
		e.buf.WriteByte(1)
	} else {
		e.buf.WriteByte(0)
	}
}
func (e *encoder) writeU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	e.buf.Write(b[:])
}
func (e *encoder) writeU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
}
func (e *encoder) writeU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf.Write(b[:])
}
func (e *encoder) writeI64(v int64) { e.writeU64(uint64(v)) }
func (e *encoder) writeAddress(a Address) { e.buf.Write(a[:]) }
func (e *encoder) writeOptionU64(v *uint64) {
	if v == nil {
		e.writeU8(0)
		return
	}
	e.writeU8(1)
	e.writeU64(*v)
}
func (e *encoder) writeOptionU16(v *uint16) {
	if v == nil {
		e.writeU8(0)
		return
	}
	e.writeU8(1)
	e.writeU16(*v)
}
func (e *encoder) writeOptionAddress(v *Address) {
	if v == nil {
		e.writeU8(0)
		return
	}
	e.writeU8(1)
	e.writeAddress(*v)
}

type decoder struct {
	data []byte
	pos  int
}

func newDecoder(data []byte) *decoder { return &decoder{data: data} }

func (d *decoder) remaining() int { return len(d.data) - d.pos }

func (d *decoder) need(n int) error {
	if d.remaining() < n {
		return New(KindInvalidAccountData, "decoder", "need %d bytes, have %d", n, d.remaining())
	}
	return nil
}

func (d *decoder) readU8() (uint8, error) {
	if err := d.need(1); err != nil {
		return 0, err
	}
	v := d.data[d.pos]
	d.pos++
	return v, nil
}
func (d *decoder) readBool() (bool, error) {
	v, err := d.readU8()
	if err != nil {
		return false, err
	}
	if v != 0 && v != 1 {
		return false, New(KindInvalidAccountData, "decoder", "invalid bool byte %d", v)
	}
	return v == 1, nil
}
func (d *decoder) readU16() (uint16, error) {
	if err := d.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(d.data[d.pos:])
	d.pos += 2
	return v, nil
}
func (d *decoder) readU32() (uint32, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(d.data[d.pos:])
	d.pos += 4
	return v, nil
}
func (d *decoder) readU64() (uint64, error) {
	if err := d.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(d.data[d.pos:])
	d.pos += 8
	return v, nil
}
func (d *decoder) readI64() (int64, error) {
	v, err := d.readU64()
	return int64(v), err
}
func (d *decoder) readAddress() (Address, error) {
	var a Address
	if err := d.need(32); err != nil {
		return a, err
	}
	copy(a[:], d.data[d.pos:d.pos+32])
	d.pos += 32
	return a, nil
}
func (d *decoder) readOptionU64() (*uint64, error) {
	tag, err := d.readU8()
	if err != nil {
		return nil, err
	}
	if tag == 0 {
		return nil, nil
	}
	v, err := d.readU64()
	if err != nil {
		return nil, err
	}
	return &v, nil
}
func (d *decoder) readOptionU16() (*uint16, error) {
	tag, err := d.readU8()
	if err != nil {
		return nil, err
	}
	if tag == 0 {
		return nil, nil
	}
	v, err := d.readU16()
	if err != nil {
		return nil, err
	}
	return &v, nil
}
func (d *decoder) readOptionAddress() (*Address, error) {
	tag, err := d.readU8()
	if err != nil {
		return nil, err
	}
	if tag == 0 {
		return nil, nil
	}
	v, err := d.readAddress()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func checkDiscriminator(op string, data []byte, want [8]byte) error {
	if len(data) < 8 {
		return New(KindInvalidAccountData, op, "data too short for discriminator: %d bytes", len(data))
	}
	var got [8]byte
	copy(got[:], data[:8])
	if got != want {
		return New(KindInvalidAccountData, op, "discriminator mismatch: got %x want %x", got, want)
	}
	return nil
}

//---------------------------------------------------------------------
// Instruction payload schemas (spec §4.B)
//---------------------------------------------------------------------

// BinParams describes one bin at auction-creation time.
type BinParams struct {
	Price uint64
	Cap   uint64
}

// InitAuctionParams is the payload for init_auction.
type InitAuctionParams struct {
	CommitStart int64
	CommitEnd   int64
	ClaimStart  int64
	Bins        []BinParams
	Custody     Address
	Extensions  *InitExtensions
}

// InitExtensions is the optional extensions bag carried by init_auction.
type InitExtensions struct {
	WhitelistAuthority *Address
	CommitCapPerUser   *uint64
	ClaimFeeRateBps    *uint16
}

// EncodeInitAuction serializes init_auction's instruction data.
func EncodeInitAuction(p InitAuctionParams) ([]byte, error) {
	if len(p.Bins) > 10 || len(p.Bins) < 1 {
		return nil, New(KindInvalidBinCount, "EncodeInitAuction", "bin count %d out of [1,10]", len(p.Bins))
	}
	e := newEncoder()
	e.buf.Write(discInitAuction[:])
	e.writeI64(p.CommitStart)
	e.writeI64(p.CommitEnd)
	e.writeI64(p.ClaimStart)
	e.writeU32(uint32(len(p.Bins)))
	for _, b := range p.Bins {
		e.writeU64(b.Price)
		e.writeU64(b.Cap)
	}
	e.writeAddress(p.Custody)
	if p.Extensions == nil {
		e.writeU8(0)
	} else {
		e.writeU8(1)
		e.writeOptionAddress(p.Extensions.WhitelistAuthority)
		e.writeOptionU64(p.Extensions.CommitCapPerUser)
		e.writeOptionU16(p.Extensions.ClaimFeeRateBps)
	}
	return e.bytes(), nil
}

// DecodeInitAuction parses init_auction's instruction data.
func DecodeInitAuction(data []byte) (InitAuctionParams, error) {
	var p InitAuctionParams
	if err := checkDiscriminator("DecodeInitAuction", data, discInitAuction); err != nil {
		return p, err
	}
	d := newDecoder(data[8:])
	var err error
	if p.CommitStart, err = d.readI64(); err != nil {
		return p, err
	}
	if p.CommitEnd, err = d.readI64(); err != nil {
		return p, err
	}
	if p.ClaimStart, err = d.readI64(); err != nil {
		return p, err
	}
	n, err := d.readU32()
	if err != nil {
		return p, err
	}
	p.Bins = make([]BinParams, n)
	for i := range p.Bins {
		price, err := d.readU64()
		if err != nil {
			return p, err
		}
		cap_, err := d.readU64()
		if err != nil {
			return p, err
		}
		p.Bins[i] = BinParams{Price: price, Cap: cap_}
	}
	if p.Custody, err = d.readAddress(); err != nil {
		return p, err
	}
	hasExt, err := d.readU8()
	if err != nil {
		return p, err
	}
	if hasExt == 1 {
		ext := &InitExtensions{}
		if ext.WhitelistAuthority, err = d.readOptionAddress(); err != nil {
			return p, err
		}
		if ext.CommitCapPerUser, err = d.readOptionU64(); err != nil {
			return p, err
		}
		if ext.ClaimFeeRateBps, err = d.readOptionU16(); err != nil {
			return p, err
		}
		p.Extensions = ext
	}
	return p, nil
}

// CommitParams is the payload for commit.
type CommitParams struct {
	BinID  uint8
	Amount uint64
}

func EncodeCommit(p CommitParams) []byte {
	e := newEncoder()
	e.buf.Write(discCommit[:])
	e.writeU8(p.BinID)
	e.writeU64(p.Amount)
	return e.bytes()
}

func DecodeCommit(data []byte) (CommitParams, error) {
	var p CommitParams
	if err := checkDiscriminator("DecodeCommit", data, discCommit); err != nil {
		return p, err
	}
	d := newDecoder(data[8:])
	var err error
	if p.BinID, err = d.readU8(); err != nil {
		return p, err
	}
	if p.Amount, err = d.readU64(); err != nil {
		return p, err
	}
	return p, nil
}

// DecreaseCommitParams is the payload for decrease_commit.
type DecreaseCommitParams struct {
	BinID          uint8
	AmountReverted uint64
}

func EncodeDecreaseCommit(p DecreaseCommitParams) []byte {
	e := newEncoder()
	e.buf.Write(discDecreaseCommit[:])
	e.writeU8(p.BinID)
	e.writeU64(p.AmountReverted)
	return e.bytes()
}

func DecodeDecreaseCommit(data []byte) (DecreaseCommitParams, error) {
	var p DecreaseCommitParams
	if err := checkDiscriminator("DecodeDecreaseCommit", data, discDecreaseCommit); err != nil {
		return p, err
	}
	d := newDecoder(data[8:])
	var err error
	if p.BinID, err = d.readU8(); err != nil {
		return p, err
	}
	if p.AmountReverted, err = d.readU64(); err != nil {
		return p, err
	}
	return p, nil
}

// ClaimParams is the payload for claim.
type ClaimParams struct {
	BinID           uint8
	SaleToClaim     uint64
	PaymentToRefund uint64
}

func EncodeClaim(p ClaimParams) []byte {
	e := newEncoder()
	e.buf.Write(discClaim[:])
	e.writeU8(p.BinID)
	e.writeU64(p.SaleToClaim)
	e.writeU64(p.PaymentToRefund)
	return e.bytes()
}

func DecodeClaim(data []byte) (ClaimParams, error) {
	var p ClaimParams
	if err := checkDiscriminator("DecodeClaim", data, discClaim); err != nil {
		return p, err
	}
	d := newDecoder(data[8:])
	var err error
	if p.BinID, err = d.readU8(); err != nil {
		return p, err
	}
	if p.SaleToClaim, err = d.readU64(); err != nil {
		return p, err
	}
	if p.PaymentToRefund, err = d.readU64(); err != nil {
		return p, err
	}
	return p, nil
}

// EncodeWithdrawFunds serializes withdraw_funds (no payload fields).
func EncodeWithdrawFunds() []byte {
	return append([]byte{}, discWithdrawFunds[:]...)
}

func DecodeWithdrawFunds(data []byte) error {
	return checkDiscriminator("DecodeWithdrawFunds", data, discWithdrawFunds)
}

// EncodeWithdrawFees serializes withdraw_fees (no payload fields).
func EncodeWithdrawFees() []byte {
	return append([]byte{}, discWithdrawFees[:]...)
}

func DecodeWithdrawFees(data []byte) error {
	return checkDiscriminator("DecodeWithdrawFees", data, discWithdrawFees)
}

// SetPriceParams is the payload for set_price.
type SetPriceParams struct {
	BinID    uint8
	NewPrice uint64
}

func EncodeSetPrice(p SetPriceParams) []byte {
	e := newEncoder()
	e.buf.Write(discSetPrice[:])
	e.writeU8(p.BinID)
	e.writeU64(p.NewPrice)
	return e.bytes()
}

func DecodeSetPrice(data []byte) (SetPriceParams, error) {
	var p SetPriceParams
	if err := checkDiscriminator("DecodeSetPrice", data, discSetPrice); err != nil {
		return p, err
	}
	d := newDecoder(data[8:])
	var err error
	if p.BinID, err = d.readU8(); err != nil {
		return p, err
	}
	if p.NewPrice, err = d.readU64(); err != nil {
		return p, err
	}
	return p, nil
}

// EncodeEmergencyControl serializes emergency_control's five pause flags.
func EncodeEmergencyControl(p EmergencyControlParams) []byte {
	e := newEncoder()
	e.buf.Write(discEmergencyControl[:])
	e.writeBool(p.PauseCommit)
	e.writeBool(p.PauseClaim)
	e.writeBool(p.PauseWithdrawFees)
	e.writeBool(p.PauseWithdrawFunds)
	e.writeBool(p.PauseUpdation)
	return e.bytes()
}

func DecodeEmergencyControl(data []byte) (EmergencyControlParams, error) {
	var p EmergencyControlParams
	if err := checkDiscriminator("DecodeEmergencyControl", data, discEmergencyControl); err != nil {
		return p, err
	}
	d := newDecoder(data[8:])
	var err error
	if p.PauseCommit, err = d.readBool(); err != nil {
		return p, err
	}
	if p.PauseClaim, err = d.readBool(); err != nil {
		return p, err
	}
	if p.PauseWithdrawFees, err = d.readBool(); err != nil {
		return p, err
	}
	if p.PauseWithdrawFunds, err = d.readBool(); err != nil {
		return p, err
	}
	if p.PauseUpdation, err = d.readBool(); err != nil {
		return p, err
	}
	return p, nil
}

// EncodeGetLaunchpadAdmin serializes get_launchpad_admin. spec §6's account
// table does not enumerate this operation's accounts (only 8 of the 9
// discriminators in §4.B appear there); we treat it as a read-only query
// requiring no instruction data beyond the discriminator.
func EncodeGetLaunchpadAdmin() []byte {
	return append([]byte{}, discGetLaunchpadAdmin[:]...)
}

func DecodeGetLaunchpadAdmin(data []byte) error {
	return checkDiscriminator("DecodeGetLaunchpadAdmin", data, discGetLaunchpadAdmin)
}
