package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"cultivation-service/internal/adaptive"
	"cultivation-service/internal/calculator"
	"cultivation-service/internal/genetics"
	"cultivation-service/internal/phase"

	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

type outputOptions struct {
	asJSON bool
}

func newRootCmd() *cobra.Command {
	opts := &outputOptions{}

	rootCmd := &cobra.Command{
		Use:          "growcalc",
		Short:        "Offline cultivation cost and timeline calculator",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print results as JSON")

	rootCmd.AddCommand(calcCmd(opts))
	rootCmd.AddCommand(adaptiveCmd(opts))
	rootCmd.AddCommand(phaseCmd(opts))
	rootCmd.AddCommand(harvestCmd(opts))
	return rootCmd
}

func calcCmd(opts *outputOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "calc [scenario.yaml]",
		Short: "Compute costs, revenue and ROI for a fixed cycle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var s Scenario
			if err := loadScenario(args[0], &s); err != nil {
				return err
			}
			result := calculator.CalculateResults(s.Setup, s.Cycle, s.Market)
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return writeResult(cmd.OutOrStdout(), result)
		},
	}
}

func adaptiveCmd(opts *outputOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "adaptive [scenario.yaml]",
		Short: "Compute results for a cycle driven by plant type and genetics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var s AdaptiveScenario
			if err := loadScenario(args[0], &s); err != nil {
				return err
			}

			cycle := genetics.ApplyGeneticsPreset(s.Cycle)
			result, err := adaptive.CalculateAdaptiveResults(s.Setup, cycle, s.Market)
			if err != nil {
				return err
			}
			warnings := genetics.ValidateCycleConfig(cycle).Warnings

			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"result":   result,
					"cycle":    cycle,
					"warnings": warnings,
				})
			}
			return writeAdaptive(cmd.OutOrStdout(), result, warnings)
		},
	}
}

type timelineFlags struct {
	plantType string
	genetics  string
	start     string
}

func (f *timelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.plantType, "type", "t", string(phase.Photoperiod), "plant type: photoperiod, autoflowering or fast_version")
	cmd.Flags().StringVarP(&f.genetics, "genetics", "g", "", "strain name whose tuned timeline overrides the defaults")
	cmd.Flags().StringVarP(&f.start, "start", "s", "", "cultivation start date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("start")
}

func (f *timelineFlags) resolve() (time.Time, phase.PlantType, *phase.Overrides, error) {
	start, err := time.Parse(dateLayout, f.start)
	if err != nil {
		return time.Time{}, "", nil, fmt.Errorf("invalid --start %q: expected YYYY-MM-DD", f.start)
	}
	pt, err := phase.ParsePlantType(f.plantType)
	if err != nil {
		return time.Time{}, "", nil, err
	}

	var overrides *phase.Overrides
	if f.genetics != "" {
		o, ok := genetics.TimelineOverrides(f.genetics)
		if !ok {
			return time.Time{}, "", nil, fmt.Errorf("unknown genetics %q", f.genetics)
		}
		overrides = o
	}
	return start, pt, overrides, nil
}

func phaseCmd(opts *outputOptions) *cobra.Command {
	flags := &timelineFlags{}
	var at string

	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Show the current growth phase of a cultivation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, pt, overrides, err := flags.resolve()
			if err != nil {
				return err
			}

			now := time.Now()
			if at != "" {
				if now, err = time.Parse(dateLayout, at); err != nil {
					return fmt.Errorf("invalid --at %q: expected YYYY-MM-DD", at)
				}
			}

			info, err := phase.CalculateCultivationPhase(start, pt, overrides, now)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			return writePhase(cmd.OutOrStdout(), info, phase.ShouldTransitionToFlowering(info, pt, false))
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&at, "at", "", "evaluate on this date instead of today (YYYY-MM-DD)")
	return cmd
}

func harvestCmd(opts *outputOptions) *cobra.Command {
	flags := &timelineFlags{}

	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Predict harvest, drying and completion dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, pt, overrides, err := flags.resolve()
			if err != nil {
				return err
			}

			schedule, err := phase.PredictHarvestSchedule(start, pt, overrides)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), schedule)
			}
			return writeSchedule(cmd.OutOrStdout(), schedule)
		},
	}
	flags.register(cmd)
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeResult(w io.Writer, r calculator.CalculationResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total investment\t%.2f\n", r.TotalInvestment)
	fmt.Fprintf(tw, "Operating cost per cycle\t%.2f\n", r.TotalOperatingCost)
	for _, category := range calculator.CostCategories() {
		fmt.Fprintf(tw, "  %s\t%.2f\n", category, r.OperatingCosts.Get(category))
	}
	fmt.Fprintf(tw, "Gross revenue\t%.2f\n", r.GrossRevenue)
	fmt.Fprintf(tw, "Net profit\t%.2f\n", r.NetProfit)
	fmt.Fprintf(tw, "Cost per gram\t%.2f\n", r.CostPerGram)
	fmt.Fprintf(tw, "Grams per watt\t%.2f\n", r.GramsPerWatt)
	fmt.Fprintf(tw, "Grams per m2\t%.2f\n", r.GramsPerM2)
	fmt.Fprintf(tw, "Energy (kWh)\t%.2f\n", r.EnergyKWh)
	fmt.Fprintf(tw, "Cycle length (days)\t%d\n", r.TotalCycleDays)
	fmt.Fprintf(tw, "Cycles per year\t%d\n", r.CyclesPerYear)
	fmt.Fprintf(tw, "Payback (cycles)\t%.2f\n", r.PaybackCycles)
	fmt.Fprintf(tw, "ROI (1 year, %%)\t%.2f\n", r.AnnualROI)
	if r.InformalGrossRevenue > 0 {
		fmt.Fprintf(tw, "Informal market revenue\t%.2f\n", r.InformalGrossRevenue)
		fmt.Fprintf(tw, "Informal market profit\t%.2f\n", r.InformalNetProfit)
	}
	return tw.Flush()
}

func writeAdaptive(w io.Writer, r adaptive.Result, warnings []string) error {
	if err := writeResult(w, r.CalculationResult); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Daily yield (g)\t%.2f\n", r.CycleEfficiency.DailyYield)
	fmt.Fprintf(tw, "Energy efficiency (g/kWh)\t%.2f\n", r.CycleEfficiency.EnergyEfficiency)
	fmt.Fprintf(tw, "Typical yield range (g)\t%.0f-%.0f\n", r.PlantTypeMetrics.TypicalRangeMin, r.PlantTypeMetrics.TypicalRangeMax)
	for _, warning := range warnings {
		fmt.Fprintf(tw, "Warning\t%s\n", warning)
	}
	return tw.Flush()
}

func writePhase(w io.Writer, info phase.PhaseInfo, shouldFlower bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Phase\t%s\n", info.Phase)
	fmt.Fprintf(tw, "Day of cycle\t%d of %d\n", info.DaysSinceStart, info.TotalCycleDays)
	fmt.Fprintf(tw, "Day in phase\t%d of %d\n", info.DaysInCurrentPhase, info.CurrentPhaseDays)
	fmt.Fprintf(tw, "Progress\t%.1f%%\n", info.ProgressPercent)
	if info.NextPhase != "" {
		fmt.Fprintf(tw, "Next phase\t%s\n", info.NextPhase)
	}
	if shouldFlower {
		fmt.Fprintf(tw, "Action\tswitch lights to 12/12\n")
	}
	fmt.Fprintf(tw, "\t%s\n", info.Description)
	return tw.Flush()
}

func writeSchedule(w io.Writer, s phase.HarvestSchedule) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Harvest\t%s\n", s.HarvestDate.Format(dateLayout))
	fmt.Fprintf(tw, "Dry\t%s\n", s.DryDate.Format(dateLayout))
	fmt.Fprintf(tw, "Complete\t%s\n", s.CompletionDate.Format(dateLayout))
	fmt.Fprintf(tw, "Total days\t%d\n", s.TotalDays)
	fmt.Fprintf(tw, "Confidence\t%s\n", s.Confidence)
	return tw.Flush()
}
