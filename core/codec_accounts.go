package core

// Account on-disk layout (spec §6): 8-byte discriminator, then fields in
// declaration order using the same primitive encodings as the instruction
// codec. The Committed account is laid out with `user` immediately after
// the discriminator (byte offset 8..40) so the Query Facade can enumerate
// by memcmp without decoding the whole account.

// EncodeAuction serializes an Auction account, including its discriminator.
func EncodeAuction(a *Auction) ([]byte, error) {
	if len(a.Bins) < 1 || len(a.Bins) > 10 {
		return nil, New(KindInvalidBinCount, "EncodeAuction", "bin count %d out of [1,10]", len(a.Bins))
	}
	e := newEncoder()
	e.buf.Write(discAccountAuction[:])
	e.writeAddress(a.Authority)
	e.writeAddress(a.Custody)
	e.writeAddress(a.SaleMint)
	e.writeAddress(a.PaymentMint)
	e.writeI64(a.CommitStart)
	e.writeI64(a.CommitEnd)
	e.writeI64(a.ClaimStart)
	e.writeU32(uint32(len(a.Bins)))
	for _, b := range a.Bins {
		e.writeU64(b.SaleTokenPrice)
		e.writeU64(b.SaleTokenCap)
		e.writeU64(b.PaymentTokenRaised)
		e.writeU64(b.SaleTokenClaimed)
	}
	if a.Extensions == nil {
		e.writeU8(0)
	} else {
		e.writeU8(1)
		e.writeOptionAddress(a.Extensions.WhitelistAuthority)
		e.writeOptionU64(a.Extensions.CommitCapPerUser)
		e.writeOptionU16(a.Extensions.ClaimFeeRateBps)
	}
	e.writeU64(a.EmergencyState)
	e.writeU64(a.TotalParticipants)
	e.writeU64(a.TotalFeesCollected)
	e.writeU64(a.TotalFeesWithdrawn)
	e.writeBool(a.UnsoldAndEffectivePaymentWithdrawn)
	e.writeU8(a.Bump)
	e.writeU8(a.VaultSaleBump)
	e.writeU8(a.VaultPaymentBump)
	return e.bytes(), nil
}

// DecodeAuction parses an Auction account's bytes.
func DecodeAuction(data []byte) (*Auction, error) {
	if err := checkDiscriminator("DecodeAuction", data, discAccountAuction); err != nil {
		return nil, err
	}
	d := newDecoder(data[8:])
	a := &Auction{}
	var err error
	if a.Authority, err = d.readAddress(); err != nil {
		return nil, err
	}
	if a.Custody, err = d.readAddress(); err != nil {
		return nil, err
	}
	if a.SaleMint, err = d.readAddress(); err != nil {
		return nil, err
	}
	if a.PaymentMint, err = d.readAddress(); err != nil {
		return nil, err
	}
	if a.CommitStart, err = d.readI64(); err != nil {
		return nil, err
	}
	if a.CommitEnd, err = d.readI64(); err != nil {
		return nil, err
	}
	if a.ClaimStart, err = d.readI64(); err != nil {
		return nil, err
	}
	n, err := d.readU32()
	if err != nil {
		return nil, err
	}
	if n < 1 || n > 10 {
		return nil, New(KindInvalidBinCount, "DecodeAuction", "bin count %d out of [1,10]", n)
	}
	a.Bins = make([]AuctionBin, n)
	for i := range a.Bins {
		price, err := d.readU64()
		if err != nil {
			return nil, err
		}
		cap_, err := d.readU64()
		if err != nil {
			return nil, err
		}
		raised, err := d.readU64()
		if err != nil {
			return nil, err
		}
		claimed, err := d.readU64()
		if err != nil {
			return nil, err
		}
		a.Bins[i] = AuctionBin{SaleTokenPrice: price, SaleTokenCap: cap_, PaymentTokenRaised: raised, SaleTokenClaimed: claimed}
	}
	hasExt, err := d.readU8()
	if err != nil {
		return nil, err
	}
	if hasExt == 1 {
		ext := &Extensions{}
		if ext.WhitelistAuthority, err = d.readOptionAddress(); err != nil {
			return nil, err
		}
		if ext.CommitCapPerUser, err = d.readOptionU64(); err != nil {
			return nil, err
		}
		if ext.ClaimFeeRateBps, err = d.readOptionU16(); err != nil {
			return nil, err
		}
		a.Extensions = ext
	}
	if a.EmergencyState, err = d.readU64(); err != nil {
		return nil, err
	}
	if a.TotalParticipants, err = d.readU64(); err != nil {
		return nil, err
	}
	if a.TotalFeesCollected, err = d.readU64(); err != nil {
		return nil, err
	}
	if a.TotalFeesWithdrawn, err = d.readU64(); err != nil {
		return nil, err
	}
	if a.UnsoldAndEffectivePaymentWithdrawn, err = d.readBool(); err != nil {
		return nil, err
	}
	if a.Bump, err = d.readU8(); err != nil {
		return nil, err
	}
	if a.VaultSaleBump, err = d.readU8(); err != nil {
		return nil, err
	}
	if a.VaultPaymentBump, err = d.readU8(); err != nil {
		return nil, err
	}
	return a, nil
}

// CommittedUserOffset is the byte offset of the user field within a
// Committed account, per spec §6. The Query Facade's memcmp-style
// enumeration filters on this offset.
const CommittedUserOffset = 8

// EncodeCommitted serializes a Committed account, user first (offset 8..40)
// per spec §6.
func EncodeCommitted(c *Committed) []byte {
	e := newEncoder()
	e.buf.Write(discAccountCommitted[:])
	e.writeAddress(c.User)
	e.writeAddress(c.Auction)
	e.writeU32(uint32(len(c.Bins)))
	for _, b := range c.Bins {
		e.writeU8(b.BinID)
		e.writeU64(b.PaymentTokenCommitted)
		e.writeU64(b.SaleTokenClaimed)
		e.writeU64(b.PaymentTokenRefunded)
	}
	e.writeU64(c.Nonce)
	e.writeU8(c.Bump)
	return e.bytes()
}

// DecodeCommitted parses a Committed account's bytes.
func DecodeCommitted(data []byte) (*Committed, error) {
	if err := checkDiscriminator("DecodeCommitted", data, discAccountCommitted); err != nil {
		return nil, err
	}
	d := newDecoder(data[8:])
	c := &Committed{}
	var err error
	if c.User, err = d.readAddress(); err != nil {
		return nil, err
	}
	if c.Auction, err = d.readAddress(); err != nil {
		return nil, err
	}
	n, err := d.readU32()
	if err != nil {
		return nil, err
	}
	seen := make(map[uint8]bool, n)
	c.Bins = make([]CommittedBin, n)
	for i := range c.Bins {
		binID, err := d.readU8()
		if err != nil {
			return nil, err
		}
		if seen[binID] {
			return nil, New(KindInvalidAccountData, "DecodeCommitted", "duplicate bin_id %d", binID)
		}
		seen[binID] = true
		committed, err := d.readU64()
		if err != nil {
			return nil, err
		}
		claimed, err := d.readU64()
		if err != nil {
			return nil, err
		}
		refunded, err := d.readU64()
		if err != nil {
			return nil, err
		}
		c.Bins[i] = CommittedBin{BinID: binID, PaymentTokenCommitted: committed, SaleTokenClaimed: claimed, PaymentTokenRefunded: refunded}
	}
	if c.Nonce, err = d.readU64(); err != nil {
		return nil, err
	}
	if c.Bump, err = d.readU8(); err != nil {
		return nil, err
	}
	return c, nil
}
