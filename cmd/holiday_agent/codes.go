package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/holiday-collector/internal/nager"
)

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "List the country codes the holiday service supports",
	RunE:  runCodes,
}

var (
	codesOffline bool
	codesTimeout float64
)

func init() {
	codesCmd.Flags().BoolVar(&codesOffline, "offline", false, "Force offline mode (embedded code list)")
	codesCmd.Flags().Float64Var(&codesTimeout, "timeout", 15, "HTTP timeout in seconds")

	rootCmd.AddCommand(codesCmd)
}

func runCodes(_ *cobra.Command, _ []string) error {
	client := nager.NewClient(nager.ClientOptions{
		Timeout: time.Duration(codesTimeout * float64(time.Second)),
		Offline: codesOffline,
	})

	codes, err := client.AvailableCountryCodes(context.Background())
	if err != nil {
		return fmt.Errorf("failed to fetch available country codes: %w", err)
	}

	for _, code := range codes {
		_, _ = fmt.Fprintln(os.Stdout, code)
	}
	_, _ = fmt.Fprintf(os.Stderr, "%d codes\n", len(codes))
	return nil
}
