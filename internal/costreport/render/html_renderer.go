// Package render produces the HTML body of period cost reports.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"

	costdomain "github.com/devrecap/devrecap/internal/costreport/domain"
)

const reportHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>
    body { font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; }
    h1 { color: #333; }
    table { width: 100%; border-collapse: collapse; margin: 20px 0; }
    th, td { padding: 12px; text-align: left; border-bottom: 1px solid #ddd; }
    th { background-color: #f8f9fa; font-weight: 600; }
    .total { font-size: 18px; font-weight: 600; margin: 20px 0; }
    .warning { background-color: #fff3cd; border: 1px solid #ffc107; padding: 15px; border-radius: 5px; margin-top: 20px; }
  </style>
</head>
<body>
  <h1>LLM API Usage Report</h1>
  <p><strong>{{.Period}}</strong></p>

  <table>
    <thead>
      <tr>
        <th>Model</th>
        <th>Requests</th>
        <th>Input / Output Tokens</th>
        <th>Cost</th>
      </tr>
    </thead>
    <tbody>
      {{- if .Models}}
      {{- range .Models}}
      <tr>
        <td>{{.Name}}</td>
        <td>{{.Requests}}</td>
        <td>{{.InputTokens}} / {{.OutputTokens}}</td>
        <td>{{.Cost}}</td>
      </tr>
      {{- end}}
      {{- else}}
      <tr><td colspan="4">No API usage during this period.</td></tr>
      {{- end}}
    </tbody>
  </table>

  <div class="total">
    Total cost: {{.TotalCost}}
    {{- if .Threshold}}<br>Threshold: {{.Threshold}}{{end}}
    {{- if .RemainingBalance}}<br><br>Remaining credit: {{.RemainingBalance}}{{end}}
  </div>

  {{- if .Exceeded}}
  <div class="warning">
    <strong>Warning:</strong> threshold exceeded by {{.Excess}}
  </div>
  {{- end}}

  <p style="margin-top: 30px; color: #666; font-size: 14px;">
    Generated at: {{.GeneratedAt}}
  </p>
</body>
</html>
`

var reportTmpl = template.Must(template.New("cost_report").Parse(reportHTMLTemplate))

type modelRow struct {
	Name         string
	Requests     int64
	InputTokens  int64
	OutputTokens int64
	Cost         string
}

type reportView struct {
	Period           string
	Models           []modelRow
	TotalCost        string
	Threshold        string
	RemainingBalance string
	Exceeded         bool
	Excess           string
	GeneratedAt      string
}

// RenderHTML renders the HTML email body for a period report. Pure: the
// generation timestamp comes from the report window end, not the wall clock.
func RenderHTML(report costdomain.PeriodReport) (string, error) {
	view := reportView{
		Period:      report.Period,
		TotalCost:   report.TotalCost.Format(),
		Exceeded:    report.ThresholdExceeded,
		GeneratedAt: report.End.Format("2006-01-02 15:04:05 MST"),
	}
	if report.Threshold != nil {
		view.Threshold = report.Threshold.FormatCents()
	}
	if report.RemainingBalance != nil {
		view.RemainingBalance = report.RemainingBalance.FormatCents()
	}
	if report.ThresholdExceeded {
		view.Excess = report.Excess.Format()
	}

	models := make([]string, 0, len(report.ModelBreakdown))
	for name := range report.ModelBreakdown {
		models = append(models, name)
	}
	sort.Strings(models)
	for _, name := range models {
		stats := report.ModelBreakdown[name]
		view.Models = append(view.Models, modelRow{
			Name:         name,
			Requests:     stats.Requests,
			InputTokens:  stats.InputTokens,
			OutputTokens: stats.OutputTokens,
			Cost:         stats.TotalCost.Format(),
		})
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render cost report: %w", err)
	}
	return buf.String(), nil
}
