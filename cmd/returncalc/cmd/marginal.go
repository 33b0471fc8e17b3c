// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/returnproj/returncalc/internal/marginal"
)

var (
	marginalBy    string
	marginalDelta string
)

var marginalCmd = &cobra.Command{
	Use:   "marginal",
	Short: "Estimate marginal tax rates",
	Long: `Estimate marginal tax rates by central-difference perturbation and
print a pipe-delimited table: one row per input record (--by input) or one
row per tag (--by tag).`,
	RunE: runMarginal,
}

func init() {
	marginalCmd.Flags().StringVar(&marginalBy, "by", "tag", "Table granularity: input or tag")
	marginalCmd.Flags().StringVar(&marginalDelta, "delta", "1000", "Perturbation size (exact decimal, positive)")
	rootCmd.AddCommand(marginalCmd)
}

func runMarginal(cmd *cobra.Command, args []string) error {
	store, pol, err := loadInputs()
	if err != nil {
		return err
	}
	delta, err := decimal.NewFromString(marginalDelta)
	if err != nil {
		return fmt.Errorf("invalid delta %q", marginalDelta)
	}

	var table string
	switch marginalBy {
	case "input":
		table, err = marginal.TableByInput(store, pol, delta)
	case "tag":
		table, err = marginal.TableByTag(store, pol, delta)
	default:
		return fmt.Errorf("--by must be input or tag, got %q", marginalBy)
	}
	if err != nil {
		return err
	}
	fmt.Println(table)
	return nil
}
