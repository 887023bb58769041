package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/ecleak/ecleak/internal/ec/model"
	"github.com/ecleak/ecleak/internal/ec/params"
)

// curveFile is the on-disk JSON shape accepted by --params.
type curveFile struct {
	Name   string            `json:"name"`
	Form   string            `json:"form"`
	P      string            `json:"p"`
	Params map[string]string `json:"params"`
	Gx     string            `json:"gx"`
	Gy     string            `json:"gy"`
	N      string            `json:"n"`
	H      string            `json:"h"`
}

// loadParams resolves the --curve / --coords / --params flag triple into
// domain parameters.
func loadParams(name, coords, file string) (*params.DomainParameters, error) {
	if file == "" {
		return params.ByName(name, coords)
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var cf curveFile
	if err := json.Unmarshal(raw, &cf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}
	form, err := model.ParseModel(cf.Form)
	if err != nil {
		return nil, err
	}
	if coords == "" {
		coords = params.DefaultCoordinates(form)
	}
	return params.FromSpec(params.Spec{
		Name:   cf.Name,
		Form:   form,
		P:      cf.P,
		Params: cf.Params,
		Gx:     cf.Gx,
		Gy:     cf.Gy,
		N:      cf.N,
		H:      cf.H,
	}, coords)
}

func curvesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "curves",
		Short: "List the built-in named curves",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range params.Names() {
				p, err := params.ByName(name, "")
				if err != nil {
					return err
				}
				fmt.Printf("%-12s %-8s %4d bits  cofactor %v\n",
					name, p.Curve.Model(), p.Curve.Prime().BitLen(), p.Cofactor)
			}
			return nil
		},
	}
}
