// Command sivfit runs the full estimation pipeline on a simulated SiV
// spectrum and reports posterior parameter estimates.
//
// Usage:
//
//	sivfit [flags]
//
// Examples:
//
//	sivfit
//	sivfit -walkers 40 -steps 4000 -burnin 1000
//	sivfit -seed 7 -refine
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/ruffinevans/sivtempfit/infer"
	"github.com/ruffinevans/sivtempfit/internal/testutil"
	"github.com/ruffinevans/sivtempfit/likelihood"
	"github.com/ruffinevans/sivtempfit/posterior"
)

var paramNames = [likelihood.NumParams]string{
	"Amp1", "Amp2", "CenterOffset", "CalibCenter",
	"FWHM1", "FWHM2", "LightBackground", "CCDBackground", "CCDStdev",
}

func main() {
	var (
		walkers = flag.Int("walkers", 20, "number of ensemble walkers")
		steps   = flag.Int("steps", 2000, "number of sampler steps")
		burnIn  = flag.Int("burnin", 500, "steps to discard before summarizing")
		thin    = flag.Int("thin", 1, "keep every n-th step")
		seed    = flag.Uint64("seed", 1, "random seed for simulation and sampling")
		refine  = flag.Bool("refine", false, "refine the starting guess with a least-squares fit")
	)
	flag.Parse()

	if err := run(*walkers, *steps, *burnIn, *thin, *seed, *refine); err != nil {
		fmt.Fprintln(os.Stderr, "sivfit:", err)
		os.Exit(1)
	}
}

func run(walkers, steps, burnIn, thin int, seed uint64, refine bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := testutil.DefaultSynthConfig()
	spec, err := testutil.SimulateSiVSpectrum(cfg, seed)
	if err != nil {
		return err
	}

	fmt.Printf("simulated spectrum: %d points, %.0f-%.0f nm\n",
		spec.Len(), spec.Wavelength[0], spec.Wavelength[spec.Len()-1])
	fmt.Printf("sampling: %d walkers x %d steps\n\n", walkers, steps)

	opts := []infer.Option{
		infer.WithWalkers(walkers),
		infer.WithSteps(steps),
		infer.WithSeed(seed),
	}
	if refine {
		opts = append(opts, infer.WithLMRefinement())
	}

	chain, err := infer.SampleLikelihood(ctx, spec, cfg.Truth.CalibCenter, opts...)
	if err != nil {
		return err
	}

	sums, err := posterior.Summarize(chain, burnIn, thin)
	if err != nil {
		return err
	}

	truth := likelihood.Params{
		Amp1:            cfg.Truth.Amp1,
		Amp2:            cfg.Truth.Amp2,
		CenterOffset:    cfg.Truth.CenterOffset,
		CalibCenter:     cfg.Truth.CalibCenter,
		FWHM1:           cfg.Truth.FWHM1,
		FWHM2:           cfg.Truth.FWHM2,
		LightBackground: cfg.Truth.Background,
		CCDBackground:   cfg.CCDBackground,
		CCDStdev:        cfg.CCDStdev,
	}.Vector()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "parameter\ttruth\tmedian\t68% interval\tmode")
	for d, s := range sums {
		fmt.Fprintf(w, "%s\t%.4g\t%.4g\t[%.4g, %.4g]\t%.4g\n",
			paramNames[d], truth[d], s.Median, s.CredLo, s.CredHi, s.Mode)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	ess, err := posterior.EffectiveSampleSize(chain, 2, burnIn)
	if err != nil {
		return err
	}
	fmt.Printf("\nacceptance: %.2f  effective samples (CenterOffset): %.0f\n",
		chain.MeanAcceptance(), ess)
	return nil
}
