// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/returnproj/returncalc/internal/check"
	"github.com/returnproj/returncalc/internal/lines"
	"github.com/returnproj/returncalc/internal/loader"
	"github.com/returnproj/returncalc/internal/trace"
)

var (
	expectedPath string
	withTrace    bool
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute federal and NY total tax",
	Long: `Compute the federal Form 1040 line 24 and NY IT-201 line 62 totals
from the facts and policy documents. With --expected, every intermediate line
is verified and the first mismatch aborts with its label and both values.`,
	RunE: runCompute,
}

func init() {
	computeCmd.Flags().StringVar(&expectedPath, "expected", "", "Path to a YAML expected-values document (enables checked mode)")
	computeCmd.Flags().BoolVar(&withTrace, "trace", false, "Print a per-line computation trace")
	rootCmd.AddCommand(computeCmd)
}

func runCompute(cmd *cobra.Command, args []string) error {
	store, pol, err := loadInputs()
	if err != nil {
		return err
	}

	run := &lines.Run{Year: year}
	if expectedPath != "" {
		data, err := os.ReadFile(expectedPath)
		if err != nil {
			return err
		}
		expected, err := loader.Expected(data)
		if err != nil {
			return err
		}
		run.Checker = &check.Checker{Expected: expected, Context: expectedPath}
	}
	var rec *trace.Recorder
	if withTrace {
		rec = &trace.Recorder{}
		run.Tracer = rec
	}

	totals, err := lines.ComputeAllTaxes(store, pol, run)
	if err != nil {
		return err
	}

	if run.Checker != nil {
		log.Info().Msg("all checked lines match expected values")
	}
	fmt.Printf("federal: %s\n", totals.Federal)
	fmt.Printf("ny:      %s\n", totals.NY)
	fmt.Printf("total:   %s\n", totals.Total)

	if withTrace {
		fmt.Println()
		for _, n := range rec.Nodes() {
			printTraceNode(n)
		}
	}
	return nil
}

func printTraceNode(n trace.Node) {
	fmt.Printf("%s = %s", n.Label, n.Value)
	if n.Formula != "" {
		fmt.Printf("  [%s]", n.Formula)
	}
	if len(n.DependsOn) > 0 {
		fmt.Printf("  <- %s", strings.Join(n.DependsOn, ", "))
	}
	if len(n.Sources) > 0 {
		fmt.Printf("  (from %s)", strings.Join(n.Sources, ", "))
	}
	fmt.Println()
}
