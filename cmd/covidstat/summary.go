package main

import (
	"fmt"
	"github.com/fatih/color"
	"github.com/ougirez/covidstat/internal/api/controller"
	"github.com/ougirez/covidstat/internal/service/regions"
	"github.com/spf13/cobra"
	"io"
	"text/tabwriter"
)

var (
	colorBold  = color.New(color.Bold)
	colorRed   = color.New(color.FgRed)
	colorFaint = color.New(color.Faint)
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Load the dataset and print totals per region",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := loadRegions(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		return printSummary(cmd.OutOrStdout(), svc)
	},
}

func printSummary(w io.Writer, svc *regions.Service) error {
	totals := svc.GrandTotals()

	fmt.Fprintln(w, colorBold.Sprint("Covid-19 Statistik Sverige"))
	fmt.Fprintf(w, "Totalt antal avlidna: %s\n", colorRed.Sprint(controller.FormatCount(totals.TotalDeaths)))
	fmt.Fprintf(w, "Totalt antal fall: %s\n", controller.FormatCount(totals.TotalCases))
	fmt.Fprintf(w, "Totalt antal intensivvårdade: %s\n\n", controller.FormatCount(totals.TotalICU))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Region\tFall\tPer 100 000\tIVA\tAvlidna\t")
	for _, name := range svc.ListRegionNames() {
		r, err := svc.RegionSummary(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%d\t%.0f\t%d\t%d\t\n", r.Name, r.TotalCases, r.CasesPer100k, r.TotalICU, r.TotalDeaths)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("tabwriter.Flush: %w", err)
	}

	if meta := svc.Metadata(); meta != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, colorFaint.Sprint(meta))
	}
	return nil
}
