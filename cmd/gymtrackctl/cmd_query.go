package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/meltforce/gymtrack/internal/analytics"
	"github.com/meltforce/gymtrack/internal/models"
	"github.com/spf13/cobra"
)

func newPRsCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "prs",
		Short: "List recent personal records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, done, err := a.source(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			workouts, err := ds.Workouts(cmd.Context())
			if err != nil {
				return err
			}
			prs := analytics.RecentPRs(workouts)
			if all {
				prs = analytics.AllPRs(workouts)
			}
			if a.jsonOut {
				return a.printJSON(prs)
			}
			if len(prs) == 0 {
				fmt.Fprintln(a.out, "no records yet")
				return nil
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DAY\tEXERCISE\tSET\tPREVIOUS\tTYPE")
			for _, pr := range prs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					analytics.DayKey(pr.Date), pr.ExerciseName,
					analytics.FormatSet(pr.Weight, pr.Reps), pr.PreviousBest, pr.Type)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "list every record in history order")
	return cmd
}

func newBestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "best <exercise>",
		Short: "Show the heaviest set logged for an exercise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, done, err := a.source(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			workouts, err := ds.Workouts(cmd.Context())
			if err != nil {
				return err
			}
			best, ok := analytics.BestSetFor(args[0], workouts)
			if a.jsonOut {
				if !ok {
					return a.printJSON(nil)
				}
				return a.printJSON(best)
			}
			if !ok {
				fmt.Fprintf(a.out, "%s: no weighted sets\n", args[0])
				return nil
			}
			fmt.Fprintf(a.out, "%s: %s\n", args[0], best)
			return nil
		},
	}
}

func newProgressCmd(a *app) *cobra.Command {
	var minPoints int
	cmd := &cobra.Command{
		Use:   "progress [exercise]",
		Short: "Show the top-set series of one exercise, or every chart group",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, done, err := a.source(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			workouts, err := ds.Workouts(cmd.Context())
			if err != nil {
				return err
			}

			if len(args) == 1 {
				series := analytics.ExerciseSeries{Exercise: args[0], Points: analytics.SeriesFor(args[0], workouts)}
				if a.jsonOut {
					return a.printJSON(series)
				}
				return a.printSeries(series)
			}

			routines, err := ds.Routines(cmd.Context())
			if err != nil {
				return err
			}
			groups := analytics.Progress(routines, workouts, minPoints)
			if a.jsonOut {
				return a.printJSON(groups)
			}
			for _, g := range groups {
				fmt.Fprintf(a.out, "== %s ==\n", g.Name)
				for _, s := range g.Charts {
					if err := a.printSeries(s); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&minPoints, "min-points", analytics.MinChartPoints, "minimum points for an exercise to be charted")
	return cmd
}

func (a *app) printSeries(s analytics.ExerciseSeries) error {
	fmt.Fprintf(a.out, "%s (%d sessions)\n", s.Exercise, len(s.Points))
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, p := range s.Points {
		fmt.Fprintf(tw, "  %s\t%s\t%skg volume\n", p.Day, analytics.FormatSet(p.Weight, p.Reps), analytics.FormatWeight(p.VolumeLoad))
	}
	return tw.Flush()
}

func newCalendarCmd(a *app) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show workout counts per day for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := time.Now()
			if month != "" {
				t, err := time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("--month must be YYYY-MM: %w", err)
				}
				m = t
			}

			ds, done, err := a.source(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			workouts, err := ds.Workouts(cmd.Context())
			if err != nil {
				return err
			}
			days := analytics.MonthDays(analytics.IndexByDate(workouts), m.Year(), m.Month())
			if a.jsonOut {
				return a.printJSON(days)
			}
			total := 0
			for _, d := range days {
				if d.Workouts > 0 {
					fmt.Fprintf(a.out, "%s  %d\n", d.Day, d.Workouts)
					total += d.Workouts
				}
			}
			fmt.Fprintf(a.out, "%d workouts in %s\n", total, m.Format("2006-01"))
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current month)")
	return cmd
}

func newDayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "day <YYYY-MM-DD>",
		Short: "List the workouts logged on a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := time.Parse("2006-01-02", args[0]); err != nil {
				return fmt.Errorf("day must be YYYY-MM-DD: %w", err)
			}

			ds, done, err := a.source(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			workouts, err := ds.Workouts(cmd.Context())
			if err != nil {
				return err
			}
			matched := analytics.IndexByDate(workouts)[args[0]]
			if matched == nil {
				matched = []models.Workout{}
			}
			if a.jsonOut {
				return a.printJSON(matched)
			}
			if len(matched) == 0 {
				fmt.Fprintf(a.out, "no workouts on %s\n", args[0])
				return nil
			}
			for _, w := range matched {
				fmt.Fprintf(a.out, "%s (%d min)\n", w.Name, w.Duration/60)
				for _, ex := range w.Exercises {
					fmt.Fprintf(a.out, "  %s\n", ex.Name)
					for _, s := range ex.Sets {
						fmt.Fprintf(a.out, "    %s\n", analytics.FormatSet(s.Weight, s.Reps))
					}
				}
			}
			return nil
		},
	}
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
