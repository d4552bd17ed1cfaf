package format

import (
	"strings"
	"testing"
	"time"

	costdomain "github.com/devrecap/devrecap/internal/costreport/domain"
	ledgerdomain "github.com/devrecap/devrecap/internal/ledger/domain"
	"github.com/devrecap/devrecap/pkg/money"
	"github.com/stretchr/testify/assert"
)

func sampleReport() costdomain.PeriodReport {
	return costdomain.PeriodReport{
		Period: "Daily report - 2025-03-12",
		Kind:   costdomain.PeriodDaily,
		Start:  time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC),
		ModelBreakdown: map[string]ledgerdomain.ModelUsage{
			"claude-3-5-haiku-20241022": {
				Requests:     3,
				InputTokens:  1200,
				OutputTokens: 400,
				TotalCost:    2560,
			},
		},
		TotalCost: 2560,
	}
}

func TestFormatText_Basic(t *testing.T) {
	out := FormatText(sampleReport())

	assert.Contains(t, out, "LLM API Usage Report")
	assert.Contains(t, out, "Daily report - 2025-03-12")
	assert.Contains(t, out, "Model: claude-3-5-haiku-20241022")
	assert.Contains(t, out, "Requests:      3")
	assert.Contains(t, out, "Total cost: $0.0026")
	assert.NotContains(t, out, "Threshold")
	assert.NotContains(t, out, "Remaining credit")
}

func TestFormatText_WithThresholdAndBalance(t *testing.T) {
	report := sampleReport()
	threshold := money.FromDollars(0.001)
	remaining := money.FromDollars(95.5)
	report.Threshold = &threshold
	report.ThresholdExceeded = true
	report.Excess = report.TotalCost - threshold
	report.RemainingBalance = &remaining

	out := FormatText(report)
	assert.Contains(t, out, "Threshold:  $0.00")
	assert.Contains(t, out, "WARNING: threshold exceeded by $0.0016")
	assert.Contains(t, out, "Remaining credit: $95.50")
}

func TestFormatText_EmptyPeriod(t *testing.T) {
	report := sampleReport()
	report.ModelBreakdown = map[string]ledgerdomain.ModelUsage{}
	report.TotalCost = 0

	out := FormatText(report)
	assert.Contains(t, out, "No API usage during this period.")
	assert.Contains(t, out, "Total cost: $0.0000")
}

func TestFormatText_ModelsSorted(t *testing.T) {
	report := sampleReport()
	report.ModelBreakdown["claude-3-5-sonnet-20241022"] = ledgerdomain.ModelUsage{Requests: 1, TotalCost: 100}
	report.ModelBreakdown["claude-3-opus-20240229"] = ledgerdomain.ModelUsage{Requests: 1, TotalCost: 100}

	out := FormatText(report)
	haiku := strings.Index(out, "claude-3-5-haiku")
	sonnet := strings.Index(out, "claude-3-5-sonnet")
	opus := strings.Index(out, "claude-3-opus")
	assert.True(t, haiku < sonnet && sonnet < opus)
}

func TestFormatThresholdAlert(t *testing.T) {
	out := FormatThresholdAlert(costdomain.PeriodWeekly, money.FromDollars(1.5), money.FromDollars(1))

	assert.Contains(t, out, "LLM API Cost Alert")
	assert.Contains(t, out, "Period:       WEEKLY")
	assert.Contains(t, out, "Current cost: $1.5000")
	assert.Contains(t, out, "Threshold:    $1.00")
	assert.Contains(t, out, "Exceeded by:  $0.5000")
}
