package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"stockmeta/internal/media"
	"stockmeta/internal/pipeline"
)

func printReport(w io.Writer, report pipeline.Report, opts pipeline.RunOptions, colorize bool) {
	if report.DryRun {
		printPlan(w, report.Plan)
		return
	}
	if !opts.ExportOnly {
		printRaster(w, report.Raster, colorize)
		printVector(w, report.Vector, colorize)
	}
	if !opts.NoExport {
		printExport(w, report.Export, report.Exported, colorize)
	}
}

func printRaster(w io.Writer, summary pipeline.RasterSummary, colorize bool) {
	if len(summary.Results) > 0 {
		rows := make([][]string, 0, len(summary.Results))
		for _, result := range summary.Results {
			rows = append(rows, []string{
				result.Name,
				string(result.Outcome),
				keySlotLabel(result.KeySlot),
				result.Category,
				errorDetail(result.Err),
			})
		}
		fmt.Fprintln(w, renderTable(tableSpec{
			Title:    "Files",
			Headers:  []string{"File", "Outcome", "Key", "Category", "Detail"},
			Rows:     rows,
			Aligns:   []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			MaxWidth: map[int]int{4: 60},
		}))
	}
	kind := statusOK
	if summary.Failed > 0 {
		kind = statusWarn
	}
	message := fmt.Sprintf("%d processed, %d already processed, %d failed", summary.Succeeded, summary.Skipped, summary.Failed)
	fmt.Fprintln(w, renderStatusLine("Raster pass", kind, message, colorize))
}

func printVector(w io.Writer, summary pipeline.VectorSummary, colorize bool) {
	message := fmt.Sprintf("%d linked, %d already processed, %d without raster match", len(summary.Linked), len(summary.Skipped), len(summary.Unmatched))
	if len(summary.Unmatched) > 0 {
		message += " (" + strings.Join(summary.Unmatched, ", ") + ")"
	}
	kind := statusOK
	if len(summary.Rejected) > 0 {
		message += fmt.Sprintf(", %d with unsupported names", len(summary.Rejected))
		kind = statusWarn
	}
	fmt.Fprintln(w, renderStatusLine("Vector pass", kind, message, colorize))
}

func printExport(w io.Writer, summary pipeline.ExportSummary, exported bool, colorize bool) {
	if !exported {
		fmt.Fprintln(w, renderStatusLine("Export pass", statusError, "not completed", colorize))
		return
	}
	if len(summary.Paths) == 0 {
		fmt.Fprintln(w, renderStatusLine("Export pass", statusInfo, "no metadata to export", colorize))
		return
	}
	message := fmt.Sprintf("%d rows from %s into %d files", summary.Rows, summary.Source, len(summary.Paths))
	fmt.Fprintln(w, renderStatusLine("Export pass", statusOK, message, colorize))
	for _, path := range summary.Paths {
		fmt.Fprintf(w, "  %s\n", path)
	}
}

func printPlan(w io.Writer, plan []pipeline.PlannedFile) {
	rows := make([][]string, 0, len(plan))
	pending := 0
	for _, item := range plan {
		status := "pending"
		switch {
		case item.Processed:
			status = "already processed"
		case item.Kind == media.KindVector:
			status = "link only"
		default:
			pending++
		}
		rows = append(rows, []string{item.Name, item.Kind.String(), status})
	}
	fmt.Fprintln(w, renderTable(tableSpec{
		Title:   "Dry run",
		Headers: []string{"File", "Kind", "Status"},
		Rows:    rows,
	}))
	fmt.Fprintf(w, "%d files would be sent to the provider\n", pending)
}

func keySlotLabel(slot int) string {
	if slot <= 0 {
		return "-"
	}
	return strconv.Itoa(slot)
}

func errorDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
