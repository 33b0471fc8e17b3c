// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/returnproj/returncalc/internal/facts"
	"github.com/returnproj/returncalc/internal/loader"
	"github.com/returnproj/returncalc/internal/policy"
)

var (
	factsPath  string
	policyPath string
	year       int
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "returncalc",
	Short: "Tax return computation and verification engine",
	Long: `returncalc recomputes a full tax return from extracted facts and a
per-year policy document: the federal Form 1040 chain down to line 24 and the
New York IT-201 chain down to line 62. It can verify every intermediate line
against expected values, record a per-line computation trace, and estimate
marginal rates by numerical differentiation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q", logLevel)
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
		return nil
	},
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&factsPath, "facts", "", "Path to the YAML facts document")
	rootCmd.PersistentFlags().StringVar(&policyPath, "policy", "", "Path to the YAML policy document")
	rootCmd.PersistentFlags().IntVar(&year, "year", 0, "Tax year, echoed into trace output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
}

// loadInputs reads and decodes the facts and policy documents named by the
// persistent flags.
func loadInputs() (*facts.Store, policy.Policy, error) {
	if factsPath == "" {
		return nil, nil, fmt.Errorf("--facts is required")
	}
	if policyPath == "" {
		return nil, nil, fmt.Errorf("--policy is required")
	}
	factsData, err := os.ReadFile(factsPath)
	if err != nil {
		return nil, nil, err
	}
	store, err := loader.Facts(factsData)
	if err != nil {
		return nil, nil, err
	}
	policyData, err := os.ReadFile(policyPath)
	if err != nil {
		return nil, nil, err
	}
	pol, err := loader.PolicyDoc(policyData)
	if err != nil {
		return nil, nil, err
	}
	log.Debug().
		Str("facts", factsPath).
		Str("policy", policyPath).
		Int("records", store.Len()).
		Msg("inputs loaded")
	return store, pol, nil
}
