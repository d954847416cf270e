package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/keroro520/solana-launchpad-sub001/core"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate operation parameters without submitting anything",
}

func printValidation(cmd *cobra.Command, r *core.ValidationResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "valid=%v\n", r.IsValid)
	for _, e := range r.Errors {
		fmt.Fprintf(out, "error: %s\n", e)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	for _, s := range r.Suggestions {
		fmt.Fprintf(out, "suggestion: %s\n", s)
	}
}

var validateInitAuctionCmd = &cobra.Command{
	Use:   `init-auction <commit-start> <commit-end> <claim-start> <bins>`,
	Short: `Validate init_auction timing and bins; bins is "price:cap,price:cap,..."`,
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		commitStart, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}
		commitEnd, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return err
		}
		claimStart, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return err
		}
		bins, err := parseBins(args[3])
		if err != nil {
			return err
		}
		r := core.ValidateInitAuctionAt(core.InitAuctionParams{
			CommitStart: commitStart,
			CommitEnd:   commitEnd,
			ClaimStart:  claimStart,
			Bins:        bins,
		}, time.Now())
		printValidation(cmd, r)
		return nil
	},
}

func init() {
	validateCmd.AddCommand(validateInitAuctionCmd)
}
