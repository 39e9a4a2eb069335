package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/meditationhr/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// filterFlags mirrors the dashboard controls on the command line.
type filterFlags struct {
	techniques []string
	gender     string
	view       string
	selected   string
	format     string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.techniques, "technique", nil, "Technique to include (repeatable, default all)")
	cmd.Flags().StringVar(&f.gender, "gender", "All", "Gender filter: All, M or F")
	cmd.Flags().StringVar(&f.view, "view", "individual", "View: individual or average")
	cmd.Flags().StringVar(&f.selected, "select", "", "Isolate one series by id (person id or avg-<technique>)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "text", "Output format: text, json or yaml")
}

// state replays the flags through the reducer, the same path dashboard clicks take.
func (f *filterFlags) state(store *models.SampleStore) (models.FilterState, error) {
	gender, err := models.ParseGender(f.gender)
	if err != nil {
		return models.FilterState{}, err
	}
	view, err := models.ParseView(f.view)
	if err != nil {
		return models.FilterState{}, err
	}

	actions := []models.Action{
		models.SetGender{Gender: gender},
		models.SetView{View: view},
	}
	if len(f.techniques) > 0 {
		actions = append(actions, models.SetTechniques{Techniques: f.techniques})
	}
	if f.selected != "" {
		actions = append(actions, models.SelectSeries{ID: f.selected})
	}

	state := models.NewFilterState(store)
	for _, a := range actions {
		state = models.Reduce(state, a)
	}
	return state, nil
}

func newInsightsCmd() *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Summarize heart rate for the current filters",
		Long: `Print participant count, bpm range and per-technique averages for the
filtered samples, or statistics for one series when --select is given.

Example: meditationhr insights --technique Chi --technique Athlete --gender F`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, _, err := loadDataset(cmd.Context())
			if err != nil {
				return err
			}
			state, err := flags.state(store)
			if err != nil {
				return err
			}

			insights := models.Summarize(store, state)
			if flags.format == "text" {
				return writeInsightsText(cmd.OutOrStdout(), insights)
			}
			return writeStructured(cmd.OutOrStdout(), flags.format, insights)
		},
	}

	flags.register(cmd)
	return cmd
}

func newSeriesCmd() *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "series",
		Short: "List the chart lines for the current filters",
		Long: `List the lines the dashboard would draw: one per participant, or one
averaged line per technique with --view average.

Example: meditationhr series --view average --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, _, err := loadDataset(cmd.Context())
			if err != nil {
				return err
			}
			state, err := flags.state(store)
			if err != nil {
				return err
			}

			series := models.ComputeSeries(store, state)
			if flags.format == "text" {
				return writeSeriesText(cmd.OutOrStdout(), series)
			}
			return writeStructured(cmd.OutOrStdout(), flags.format, series)
		},
	}

	flags.register(cmd)
	return cmd
}

func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	}
	return fmt.Errorf("unknown format %q (use text, json or yaml)", format)
}

func writeInsightsText(w io.Writer, in models.Insights) error {
	var b strings.Builder
	switch in.Kind {
	case models.Aggregate:
		a := in.Aggregate
		fmt.Fprintf(&b, "Number of participants: %d\n", a.Participants)
		fmt.Fprintf(&b, "Heart rate range: %.1f - %.1f bpm\n", a.MinBPM, a.MaxBPM)
		for _, t := range a.Techniques {
			fmt.Fprintf(&b, "  %s: %.1f bpm\n", t.Technique, t.MeanBPM)
		}
		fmt.Fprintf(&b, "Highest average: %s (%.1f bpm)\n", a.Highest.Technique, a.Highest.MeanBPM)
		fmt.Fprintf(&b, "Lowest average: %s (%.1f bpm)\n", a.Lowest.Technique, a.Lowest.MeanBPM)
	case models.Single:
		s := in.Single
		fmt.Fprintf(&b, "Line: %s\nTechnique: %s\n", s.SeriesID, s.Technique)
		fmt.Fprintf(&b, "Avg BPM: %.1f\nMin BPM: %.1f\nMax BPM: %.1f\n", s.MeanBPM, s.MinBPM, s.MaxBPM)
		fmt.Fprintf(&b, "Duration: %.1f seconds\n", s.Duration)
	default:
		b.WriteString("No data available for the selected filters.\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeSeriesText(w io.Writer, series []models.Series) error {
	if len(series) == 0 {
		_, err := fmt.Fprintln(w, "No data for these filters.")
		return err
	}
	for _, s := range series {
		first, last := s.Points[0], s.Points[len(s.Points)-1]
		if _, err := fmt.Fprintf(w, "%-20s %-12s %4d points  %.1fs-%.1fs\n",
			s.ID, s.Technique, len(s.Points), first.Time, last.Time); err != nil {
			return err
		}
	}
	return nil
}
