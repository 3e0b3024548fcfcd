/*
Package status tracks the counters of a normalization run and reports them.

	+-------------+
	|   Summary   |
	| (Counters)  |
	+------+------+
	       |
	+------+------+-----------+
	|             |           |
	+-----+-----+ +----+----+ +----+----+
	|  Console  | |  Batch  | |  JSON   |
	|  Block    | |  Lines  | | Report  |
	+-----------+ +---------+ +---------+

🎯 Purpose:
- Holds total/completed/empty/incorrect counters for one input file
- Formats the end-of-run summary block
- Writes a machine-readable JSON report of one or more runs

📝 Design Philosophy:
The pipeline returns a Summary value instead of mutating shared counters, so a
run can be inspected and tested without reading console output. The report is
written with a temp file and rename so readers never see a half written file.

🔍 Example:

	summary := status.NewSummary("acme", "acme.csv", "acme-normalized.csv")
	summary.Total++
	summary.Completed++
	summary.Finish(nil)

	fmt.Print(status.NewDefaultSummaryFormatter().FormatSummary(summary))
	err := status.WriteReport(ctx, "report.json", []*status.Summary{summary})
*/
package status
