package main

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ecleak/ecleak/internal/ec/formula"
	"github.com/ecleak/ecleak/internal/ec/model"
	"github.com/ecleak/ecleak/internal/ec/mult"
	"github.com/ecleak/ecleak/internal/ec/trace"
)

// buildMultiplier parses a multiplier description like "ltr", "rtl-always",
// "ladder", "simple-ladder", "diff-ladder", "bnaf", "wnaf:4",
// "sliding:3:rtl" or "fixed:8" against the formulas registered for the
// coordinate model.
func buildMultiplier(desc string, coords *model.CoordinateModel) (mult.Multiplier, error) {
	byRole := func(r formula.Role) formula.Formula {
		f, err := formula.ByRole(coords, r)
		if err != nil {
			return nil
		}
		return f
	}
	add := byRole(formula.Addition)
	dbl := byRole(formula.Doubling)
	neg := byRole(formula.Negation)
	scl := byRole(formula.Scaling)
	ladd := byRole(formula.Ladder)
	dadd := byRole(formula.DifferentialAddition)

	parts := strings.Split(desc, ":")
	width := 0
	if len(parts) > 1 {
		w, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("bad width %q in %q", parts[1], desc)
		}
		width = w
	}
	dir := mult.LeftToRight
	if len(parts) > 2 && parts[2] == "rtl" {
		dir = mult.RightToLeft
	}

	switch parts[0] {
	case "ltr":
		return mult.NewLTR(add, dbl, scl, mult.AccumulatorFirst, false, true, true)
	case "ltr-always":
		return mult.NewLTR(add, dbl, scl, mult.AccumulatorFirst, true, true, true)
	case "rtl":
		return mult.NewRTL(add, dbl, scl, mult.AccumulatorFirst, false, true, true)
	case "rtl-always":
		return mult.NewRTL(add, dbl, scl, mult.AccumulatorFirst, true, true, true)
	case "ladder":
		return mult.NewLadder(ladd, dbl, scl, true, true)
	case "simple-ladder":
		return mult.NewSimpleLadder(add, dbl, scl, true, true)
	case "diff-ladder":
		return mult.NewDifferentialLadder(dadd, dbl, scl, true, true)
	case "bnaf":
		return mult.NewBinaryNAF(add, dbl, neg, scl, dir, true)
	case "wnaf":
		return mult.NewWindowNAF(add, dbl, neg, scl, width, mult.AccumulatorFirst, true)
	case "sliding":
		return mult.NewSlidingWindow(add, dbl, scl, width, dir, mult.AccumulatorFirst, true)
	case "fixed":
		return mult.NewFixedWindowLTR(add, dbl, scl, width, mult.AccumulatorFirst, true)
	}
	return nil, fmt.Errorf("unknown multiplier %q", desc)
}

func multiplyCommand() *cobra.Command {
	var (
		curveName  string
		coordsName string
		paramsFile string
		multDesc   string
		scalarHex  string
		showTrace  bool
	)
	cmd := &cobra.Command{
		Use:   "multiply",
		Short: "Run a configured scalar multiplier on a curve generator",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadParams(curveName, coordsName, paramsFile)
			if err != nil {
				return err
			}
			k, ok := new(big.Int).SetString(strings.TrimPrefix(scalarHex, "0x"), 16)
			if !ok {
				return fmt.Errorf("bad scalar %q", scalarHex)
			}
			m, err := buildMultiplier(multDesc, p.Curve.Coordinates())
			if err != nil {
				return err
			}
			if err := m.Init(p, p.Generator); err != nil {
				return err
			}
			ctx := trace.NewCountingContext()
			if showTrace {
				m.Trace(ctx)
			}
			r, err := m.Multiply(k)
			if err != nil {
				return err
			}
			aff, err := p.Curve.ToAffine(r)
			if err != nil {
				return err
			}
			fmt.Printf("curve:      %s\n", p.Name)
			fmt.Printf("multiplier: %s\n", m)
			fmt.Printf("scalar:     %s\n", k.Text(16))
			fmt.Printf("result:     %s\n", aff)
			if showTrace {
				counts := map[string]int{}
				for _, act := range ctx.Actions() {
					counts[act.Formula.Name()]++
				}
				fmt.Printf("formula applications (%d total):\n", len(ctx.Actions()))
				for name, n := range counts {
					fmt.Printf("  %-24s %d\n", name, n)
				}
				fmt.Printf("distinct point values: %d\n", len(ctx.Points()))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&curveName, "curve", "secp256k1", "built-in curve name")
	cmd.Flags().StringVar(&coordsName, "coords", "", "coordinate system (default per curve form)")
	cmd.Flags().StringVar(&paramsFile, "params", "", "JSON curve parameter file overriding --curve")
	cmd.Flags().StringVar(&multDesc, "mult", "ltr", "multiplier description")
	cmd.Flags().StringVar(&scalarHex, "scalar", "2a", "scalar, hex")
	cmd.Flags().BoolVar(&showTrace, "trace", false, "print a trace summary")
	return cmd
}
