package main

import (
	"fmt"
	"math/rand"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ecleak/ecleak/internal/ec/model"
	"github.com/ecleak/ecleak/internal/ec/params"
	"github.com/ecleak/ecleak/internal/sca/rpa"
)

// demoCurve is a 64-bit short Weierstrass curve carrying both kinds of
// zero-coordinate points, small enough for an interactive run.
func demoCurve() (*params.DomainParameters, error) {
	return params.FromSpec(params.Spec{
		Name: "demo64",
		Form: model.ShortWeierstrass,
		P:    "85d265945a4f5681",
		Params: map[string]string{
			"a": "7fc57b4110698bc0",
			"b": "37113ea591b04527",
		},
		Gx: "80d2d78fddb97597",
		Gy: "5586d818b7910930",
		N:  "85d265932d90785c",
		H:  "1",
	}, "projective")
}

func distinguishCommand() *cobra.Command {
	var (
		realDesc   string
		paramsFile string
		seed       int64
		tries      int
		verbose    bool
	)
	cmd := &cobra.Command{
		Use:   "distinguish",
		Short: "Identify a simulated multiplier with the RPA distinguisher",
		Long: "Runs the zero-coordinate distinguisher against a simulated " +
			"implementation and reports which candidate multipliers are " +
			"consistent with its leakage.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var p *params.DomainParameters
			var err error
			if paramsFile != "" {
				p, err = loadParams("", "projective", paramsFile)
			} else {
				p, err = demoCurve()
			}
			if err != nil {
				return err
			}
			device, err := buildMultiplier(realDesc, p.Curve.Coordinates())
			if err != nil {
				return err
			}
			candidates, err := rpa.DefaultBattery()
			if err != nil {
				return err
			}

			logger := log.New()
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
			fmt.Printf("curve:      %s\n", p.Name)
			fmt.Printf("simulated:  %s\n", device)
			fmt.Printf("candidates: %s\n", rpa.String(candidates))

			got, err := rpa.Distinguish(p, candidates, rpa.SimulatedOracle(device, p), rpa.Options{
				Rand:     rand.New(rand.NewSource(seed)),
				MaxTries: tries,
				Logger:   logger,
			})
			if err != nil {
				return err
			}
			fmt.Printf("result:     %s\n", rpa.String(got))
			return nil
		},
	}
	cmd.Flags().StringVar(&realDesc, "real", "ltr", "multiplier to simulate")
	cmd.Flags().StringVar(&paramsFile, "params", "", "JSON curve parameter file (short Weierstrass)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed for scalar choices")
	cmd.Flags().IntVar(&tries, "tries", 0, "maximum oracle queries (0 for default)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log each distinguishing step")
	return cmd
}
