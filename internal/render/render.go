// Package render draws console tables for plans and run reports.
//
// Entity ids in a column are aligned on their first dot so the domain
// prefixes line up, which makes scanning a long plan for typos much
// easier:
//
//	       sensor.temp
//	binary_sensor.door_front
//	        light.kitchen
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/nerrad567/hub-renamer/internal/rename"
)

// PlanTable renders a plan (or listing) as a table with dot-aligned
// entity id columns. Rows without targets render with an empty New
// Entity ID column.
func PlanTable(w io.Writer, rows []rename.Row) {
	oldIDs := make([]string, len(rows))
	newIDs := make([]string, len(rows))
	for i, r := range rows {
		oldIDs[i] = r.OldEntityID
		newIDs[i] = r.NewEntityID
	}
	oldIDs = alignDots(oldIDs)
	newIDs = alignDots(newIDs)

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Friendly Name", "Current Entity ID", "New Entity ID"})
	for i, r := range rows {
		tw.AppendRow(table.Row{r.OldFriendlyName, oldIDs[i], newIDs[i]})
	}
	tw.Render()
}

// ReportTable renders per-row outcomes followed by the summary line.
func ReportTable(w io.Writer, report rename.Report) {
	ids := make([]string, len(report.Outcomes))
	for i, o := range report.Outcomes {
		ids[i] = o.Row.OldEntityID
	}
	ids = alignDots(ids)

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Entity ID", "Status", "Detail"})
	for i, o := range report.Outcomes {
		tw.AppendRow(table.Row{ids[i], o.Status.String(), o.Detail})
	}
	tw.Render()

	fmt.Fprintln(w, report.Summary())
}

// alignDots right-pads the part before the first dot to a common width
// so the dots line up down the column. Values without a dot are left
// untouched, and a column with no dotted values comes back unchanged.
func alignDots(values []string) []string {
	maxPrefix := 0
	for _, v := range values {
		if idx := strings.Index(v, "."); idx > maxPrefix {
			maxPrefix = idx
		}
	}
	if maxPrefix == 0 {
		return values
	}

	out := make([]string, len(values))
	for i, v := range values {
		idx := strings.Index(v, ".")
		if idx < 0 {
			out[i] = v
			continue
		}
		out[i] = fmt.Sprintf("%*s%s", maxPrefix, v[:idx], v[idx:])
	}
	return out
}
