// Command auctionctl is a thin operator CLI over the launchpad SDK: derive
// protocol addresses, build unsigned instructions, and validate operation
// parameters without needing a running cluster.
package main

import (
	"fmt"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/keroro520/solana-launchpad-sub001/pkg/config"
	"github.com/keroro520/solana-launchpad-sub001/pkg/logging"
)

var (
	initOnce sync.Once
	initErr  error
	cfg      *config.Config
)

func rootInit(cmd *cobra.Command, _ []string) error {
	initOnce.Do(func() {
		profile := viper.GetString("profile")
		cfg, initErr = config.Load(profile)
		if initErr != nil {
			return
		}
		if lvl, err := log.ParseLevel(cfg.Logging.Level); err == nil {
			logging.Logger().SetLevel(lvl)
		}
	})
	return initErr
}

var rootCmd = &cobra.Command{
	Use:               "auctionctl",
	Short:             "Operate on bin-auction launchpad accounts and instructions",
	PersistentPreRunE: rootInit,
}

func init() {
	rootCmd.PersistentFlags().String("profile", "development", "configuration profile (development|testing|production|performance)")
	viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))

	rootCmd.AddCommand(deriveCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
