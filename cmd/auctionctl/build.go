package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/keroro520/solana-launchpad-sub001/core"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build unsigned instructions",
}

func printInstruction(cmd *cobra.Command, ix *core.Instruction) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "program_id=%s\n", ix.ProgramID)
	for i, a := range ix.Accounts {
		fmt.Fprintf(out, "  account[%d]=%s signer=%v writable=%v\n", i, a.Address, a.IsSigner, a.IsWritable)
	}
	fmt.Fprintf(out, "data=%s\n", hex.EncodeToString(ix.Data))
	for name, addr := range ix.Resolved {
		fmt.Fprintf(out, "resolved.%s=%s\n", name, addr)
	}
	if ix.Ed25519Preamble != nil {
		fmt.Fprintf(out, "ed25519_preamble.public_key=%s\n", ix.Ed25519Preamble.PublicKey)
	}
}

func parseBins(spec string) ([]core.BinParams, error) {
	var bins []core.BinParams
	if spec == "" {
		return bins, nil
	}
	for _, pair := range strings.Split(spec, ",") {
		parts := strings.Split(pair, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid bin spec %q, want price:cap", pair)
		}
		price, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid bin price %q: %w", parts[0], err)
		}
		cap_, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid bin cap %q: %w", parts[1], err)
		}
		bins = append(bins, core.BinParams{Price: price, Cap: cap_})
	}
	return bins, nil
}

var buildInitAuctionCmd = &cobra.Command{
	Use:   "init-auction <program-id> <authority> <sale-mint> <payment-mint> <seller-token> <seller-authority> <bins>",
	Short: `Build an init_auction instruction; bins is "price:cap,price:cap,..."`,
	Args:  cobra.ExactArgs(7),
	RunE: func(cmd *cobra.Command, args []string) error {
		programID, err := parseAddrArg(args[0])
		if err != nil {
			return err
		}
		authority, err := parseAddrArg(args[1])
		if err != nil {
			return err
		}
		saleMint, err := parseAddrArg(args[2])
		if err != nil {
			return err
		}
		paymentMint, err := parseAddrArg(args[3])
		if err != nil {
			return err
		}
		sellerToken, err := parseAddrArg(args[4])
		if err != nil {
			return err
		}
		sellerAuthority, err := parseAddrArg(args[5])
		if err != nil {
			return err
		}
		bins, err := parseBins(args[6])
		if err != nil {
			return err
		}

		ctx := &core.ProgramContext{ProgramID: programID}
		now := time.Now().Unix()
		ix, err := core.BuildInitAuction(core.InitAuctionRequest{
			ProgramContext:  ctx,
			Authority:       authority,
			SaleMint:        saleMint,
			PaymentMint:     paymentMint,
			SellerToken:     sellerToken,
			SellerAuthority: sellerAuthority,
			Params: core.InitAuctionParams{
				CommitStart: now + 60,
				CommitEnd:   now + 3600,
				ClaimStart:  now + 3660,
				Bins:        bins,
				Custody:     authority,
			},
		})
		if err != nil {
			return err
		}
		printInstruction(cmd, ix)
		return nil
	},
}

var buildCommitCmd = &cobra.Command{
	Use:   "commit <program-id> <user> <auction> <sale-mint> <payment-mint> <bin-id> <amount>",
	Short: "Build a commit instruction against a known auction snapshot (unvalidated against chain state)",
	Args:  cobra.ExactArgs(7),
	RunE: func(cmd *cobra.Command, args []string) error {
		programID, err := parseAddrArg(args[0])
		if err != nil {
			return err
		}
		user, err := parseAddrArg(args[1])
		if err != nil {
			return err
		}
		auctionAddr, err := parseAddrArg(args[2])
		if err != nil {
			return err
		}
		saleMint, err := parseAddrArg(args[3])
		if err != nil {
			return err
		}
		paymentMint, err := parseAddrArg(args[4])
		if err != nil {
			return err
		}
		binID, err := strconv.ParseUint(args[5], 10, 8)
		if err != nil {
			return fmt.Errorf("invalid bin_id: %w", err)
		}
		amount, err := strconv.ParseUint(args[6], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}

		ctx := &core.ProgramContext{ProgramID: programID}
		now := time.Now().Unix()
		auction := &core.Auction{
			SaleMint:    saleMint,
			PaymentMint: paymentMint,
			CommitStart: now - 60,
			CommitEnd:   now + 3600,
			ClaimStart:  now + 3660,
			Bins:        []core.AuctionBin{{SaleTokenPrice: 1, SaleTokenCap: 1_000_000}},
		}

		ix, err := core.BuildCommit(core.CommitRequest{
			ProgramContext: ctx,
			User:           user,
			Auction:        auction,
			AuctionAddr:    auctionAddr,
			Params:         core.CommitParams{BinID: uint8(binID), Amount: amount},
		})
		if err != nil {
			return err
		}
		printInstruction(cmd, ix)
		return nil
	},
}

func init() {
	buildCmd.AddCommand(buildInitAuctionCmd, buildCommitCmd)
}
