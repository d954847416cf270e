package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keroro520/solana-launchpad-sub001/core"
)

func parseAddrArg(s string) (core.Address, error) {
	return core.AddressFromBase58(s)
}

var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive program-derived addresses",
}

var deriveAuctionCmd = &cobra.Command{
	Use:   "auction <program-id> <sale-mint>",
	Short: "Derive an auction account address",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		programID, err := parseAddrArg(args[0])
		if err != nil {
			return err
		}
		mint, err := parseAddrArg(args[1])
		if err != nil {
			return err
		}
		addr, bump, err := core.DeriveAuction(programID, mint)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "auction=%s bump=%d\n", addr, bump)
		return nil
	},
}

var deriveCommittedCmd = &cobra.Command{
	Use:   "committed <program-id> <auction> <user>",
	Short: "Derive a committed account address",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		programID, err := parseAddrArg(args[0])
		if err != nil {
			return err
		}
		auction, err := parseAddrArg(args[1])
		if err != nil {
			return err
		}
		user, err := parseAddrArg(args[2])
		if err != nil {
			return err
		}
		addr, bump, err := core.DeriveCommitted(programID, auction, user)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "committed=%s bump=%d\n", addr, bump)
		return nil
	},
}

var deriveVaultCmd = &cobra.Command{
	Use:   "vaults <program-id> <auction>",
	Short: "Derive an auction's sale and payment vault addresses",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		programID, err := parseAddrArg(args[0])
		if err != nil {
			return err
		}
		auction, err := parseAddrArg(args[1])
		if err != nil {
			return err
		}
		sale, saleBump, err := core.DeriveVaultSale(programID, auction)
		if err != nil {
			return err
		}
		payment, paymentBump, err := core.DeriveVaultPayment(programID, auction)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "vault_sale=%s bump=%d\nvault_payment=%s bump=%d\n", sale, saleBump, payment, paymentBump)
		return nil
	},
}

func init() {
	deriveCmd.AddCommand(deriveAuctionCmd, deriveCommittedCmd, deriveVaultCmd)
}
