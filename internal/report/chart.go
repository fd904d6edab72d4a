package report

import (
	"fmt"

	"github.com/go-analyze/charts"
)

// GenerateDistributionChart renders a pie chart of the month's spend per
// operation. Returns PNG image bytes.
func GenerateDistributionChart(rep MonthlyReport) ([]byte, error) {
	if len(rep.Operations) == 0 {
		return nil, fmt.Errorf("no operation totals to chart")
	}

	values := make([]float64, 0, len(rep.Operations))
	names := make([]string, 0, len(rep.Operations))
	for _, row := range rep.Operations {
		names = append(names, row.OperationName)
		values = append(values, row.Total.InexactFloat64())
	}

	p, err := charts.PieRender(
		values,
		charts.TitleOptionFunc(charts.TitleOption{
			Text: fmt.Sprintf("Distribution - %s %d", rep.Month.String(), rep.Year),
		}),
		charts.LegendLabelsOptionFunc(names),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	return buf, nil
}

// ChartFilename names the monthly distribution chart like
// "distribution_2026-08.png".
func ChartFilename(rep MonthlyReport) string {
	return fmt.Sprintf("distribution_%04d-%02d.png", rep.Year, int(rep.Month))
}
