// Package format renders period cost reports as plain text.
//
// Formatting is PURE: no I/O, no store access, fully deterministic for a
// given report, which keeps snapshot tests stable.
package format

import (
	"fmt"
	"sort"
	"strings"

	costdomain "github.com/devrecap/devrecap/internal/costreport/domain"
	ledgerdomain "github.com/devrecap/devrecap/internal/ledger/domain"
	"github.com/devrecap/devrecap/pkg/money"
)

const rule = "================================================="

// FormatText renders a report for plain-text email bodies and CLI output.
// Optional lines (threshold, excess, remaining balance) are omitted
// entirely when the corresponding field is absent.
func FormatText(report costdomain.PeriodReport) string {
	var b strings.Builder

	b.WriteString("LLM API Usage Report\n")
	b.WriteString(report.Period + "\n")
	b.WriteString(rule + "\n\n")

	if len(report.ModelBreakdown) == 0 {
		b.WriteString("No API usage during this period.\n")
	} else {
		for _, modelID := range sortedModels(report.ModelBreakdown) {
			stats := report.ModelBreakdown[modelID]
			fmt.Fprintf(&b, "Model: %s\n", modelID)
			fmt.Fprintf(&b, "  Requests:      %d\n", stats.Requests)
			fmt.Fprintf(&b, "  Input tokens:  %d\n", stats.InputTokens)
			fmt.Fprintf(&b, "  Output tokens: %d\n", stats.OutputTokens)
			fmt.Fprintf(&b, "  Cost:          %s\n\n", stats.TotalCost.Format())
		}
	}

	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Total cost: %s\n", report.TotalCost.Format())

	if report.Threshold != nil {
		fmt.Fprintf(&b, "Threshold:  %s\n", report.Threshold.FormatCents())
		if report.ThresholdExceeded {
			fmt.Fprintf(&b, "WARNING: threshold exceeded by %s\n", report.Excess.Format())
		}
	}

	if report.RemainingBalance != nil {
		fmt.Fprintf(&b, "Remaining credit: %s\n", report.RemainingBalance.FormatCents())
	}

	b.WriteString(rule + "\n")
	return b.String()
}

// FormatThresholdAlert renders the standalone alert sent when a period's
// cost crosses its configured ceiling.
func FormatThresholdAlert(kind costdomain.PeriodKind, total, threshold money.Money) string {
	var b strings.Builder
	b.WriteString("LLM API Cost Alert\n")
	b.WriteString(rule + "\n\n")
	fmt.Fprintf(&b, "Period:       %s\n", strings.ToUpper(string(kind)))
	fmt.Fprintf(&b, "Current cost: %s\n", total.Format())
	fmt.Fprintf(&b, "Threshold:    %s\n", threshold.FormatCents())
	fmt.Fprintf(&b, "Exceeded by:  %s\n\n", (total - threshold).Format())
	b.WriteString("Please review your API usage.\n")
	b.WriteString(rule + "\n")
	return b.String()
}

func sortedModels(breakdown map[string]ledgerdomain.ModelUsage) []string {
	models := make([]string, 0, len(breakdown))
	for modelID := range breakdown {
		models = append(models, modelID)
	}
	sort.Strings(models)
	return models
}
