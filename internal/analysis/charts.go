package analysis

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"salespipe/internal/config"
	"salespipe/pkg/contracts/domain"
)

const (
	chartWidth  = 1200
	chartHeight = 600

	marginLeft   = 140.0
	marginRight  = 40.0
	marginTop    = 60.0
	marginBottom = 60.0

	topProductsLimit = 10
)

// ChartRenderer draws the analysis charts from the transform summaries.
type ChartRenderer struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewChartRenderer creates a renderer writing into the configured charts
// directory.
func NewChartRenderer(paths *config.Paths, logger *slog.Logger) *ChartRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartRenderer{paths: paths, logger: logger}
}

// RenderAll draws the three chart artifacts. Empty summaries produce charts
// with axes but no bars.
func (r *ChartRenderer) RenderAll(set domain.SummarySet) error {
	if err := os.MkdirAll(r.paths.ChartsDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create charts directory: %w", err)
	}
	if err := r.RenderTopProducts(set.Products); err != nil {
		return err
	}
	if err := r.RenderRevenueBreakdown(set.Categories, set.Regions); err != nil {
		return err
	}
	return r.RenderMonthlyTrends(set.Monthly)
}

// RenderTopProducts draws a horizontal bar chart of the highest-revenue
// products.
func (r *ChartRenderer) RenderTopProducts(products []domain.ProductSummary) error {
	ranked := make([]domain.ProductSummary, len(products))
	copy(ranked, products)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalRevenue.GreaterThan(ranked[j].TotalRevenue)
	})
	if len(ranked) > topProductsLimit {
		ranked = ranked[:topProductsLimit]
	}

	labels := make([]string, len(ranked))
	values := make([]float64, len(ranked))
	for i, p := range ranked {
		labels[i] = p.ProductName
		values[i] = p.TotalRevenue.InexactFloat64()
	}

	dc := newChartContext("Top Products by Revenue")
	drawHorizontalBars(dc, labels, values)

	path := r.paths.ChartFile(config.TopProductsChartName)
	return r.save(dc, path)
}

// RenderRevenueBreakdown draws category revenue on the left half and region
// revenue on the right half of one image.
func (r *ChartRenderer) RenderRevenueBreakdown(categories []domain.CategorySummary, regions []domain.RegionSummary) error {
	dc := newChartContext("Revenue by Category and Region")

	catLabels := make([]string, len(categories))
	catValues := make([]float64, len(categories))
	for i, c := range categories {
		catLabels[i] = c.Category
		catValues[i] = c.TotalRevenue.InexactFloat64()
	}
	regLabels := make([]string, len(regions))
	regValues := make([]float64, len(regions))
	for i, rg := range regions {
		regLabels[i] = rg.Region
		regValues[i] = rg.TotalRevenue.InexactFloat64()
	}

	half := float64(chartWidth) / 2
	drawVerticalBarsIn(dc, catLabels, catValues, marginLeft, half-marginRight, "Category")
	drawVerticalBarsIn(dc, regLabels, regValues, half+marginLeft, float64(chartWidth)-marginRight, "Region")

	path := r.paths.ChartFile(config.RevenueChartName)
	return r.save(dc, path)
}

// RenderMonthlyTrends draws the month-over-month revenue line. Months are
// plotted in the chronological order the summary carries.
func (r *ChartRenderer) RenderMonthlyTrends(monthly []domain.MonthlySummary) error {
	labels := make([]string, len(monthly))
	values := make([]float64, len(monthly))
	for i, m := range monthly {
		labels[i] = fmt.Sprintf("%04d-%02d", m.Year, m.Month)
		values[i] = m.MonthlyRevenue.InexactFloat64()
	}

	dc := newChartContext("Monthly Revenue Trend")
	drawLineSeries(dc, labels, values)

	path := r.paths.ChartFile(config.MonthlyTrendsChartName)
	return r.save(dc, path)
}

func (r *ChartRenderer) save(dc *gg.Context, path string) error {
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save chart %s: %w", path, err)
	}
	r.logger.Info("wrote chart", slog.String("path", path))
	return nil
}

// newChartContext creates a white canvas with the title drawn along the top.
func newChartContext(title string) *gg.Context {
	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawStringAnchored(title, float64(chartWidth)/2, marginTop/2, 0.5, 0.5)
	return dc
}

func maxValue(values []float64) float64 {
	max := 0.0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		max = 1
	}
	return max
}

// drawHorizontalBars lays bars top to bottom across the full plot area with
// the label to the left and the value at the bar end.
func drawHorizontalBars(dc *gg.Context, labels []string, values []float64) {
	if len(values) == 0 {
		return
	}
	plotWidth := float64(chartWidth) - marginLeft - marginRight
	plotHeight := float64(chartHeight) - marginTop - marginBottom
	max := maxValue(values)

	slot := plotHeight / float64(len(values))
	barHeight := slot * 0.6

	for i, v := range values {
		y := marginTop + float64(i)*slot + (slot-barHeight)/2
		barWidth := plotWidth * (v / max)

		dc.SetRGB(0.2, 0.4, 0.7)
		dc.DrawRectangle(marginLeft, y, barWidth, barHeight)
		dc.Fill()

		dc.SetRGB(0.1, 0.1, 0.1)
		dc.DrawStringAnchored(labels[i], marginLeft-8, y+barHeight/2, 1, 0.5)
		dc.DrawStringAnchored(fmt.Sprintf("$%.2f", v), marginLeft+barWidth+8, y+barHeight/2, 0, 0.5)
	}
}

// drawVerticalBarsIn draws a labelled column chart inside the given x range.
func drawVerticalBarsIn(dc *gg.Context, labels []string, values []float64, x0, x1 float64, caption string) {
	baseline := float64(chartHeight) - marginBottom
	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawStringAnchored(caption, (x0+x1)/2, marginTop, 0.5, 0.5)

	if len(values) == 0 {
		return
	}
	plotHeight := float64(chartHeight) - marginTop - marginBottom - 20
	max := maxValue(values)

	slot := (x1 - x0) / float64(len(values))
	barWidth := slot * 0.6

	for i, v := range values {
		h := plotHeight * (v / max)
		x := x0 + float64(i)*slot + (slot-barWidth)/2

		dc.SetRGB(0.2, 0.6, 0.4)
		dc.DrawRectangle(x, baseline-h, barWidth, h)
		dc.Fill()

		dc.SetRGB(0.1, 0.1, 0.1)
		dc.DrawStringAnchored(labels[i], x+barWidth/2, baseline+14, 0.5, 0.5)
		dc.DrawStringAnchored(fmt.Sprintf("$%.0f", v), x+barWidth/2, baseline-h-10, 0.5, 0.5)
	}
}

// drawLineSeries plots one point per label, connected left to right.
func drawLineSeries(dc *gg.Context, labels []string, values []float64) {
	if len(values) == 0 {
		return
	}
	plotWidth := float64(chartWidth) - marginLeft - marginRight
	plotHeight := float64(chartHeight) - marginTop - marginBottom
	baseline := float64(chartHeight) - marginBottom
	max := maxValue(values)

	step := plotWidth
	if len(values) > 1 {
		step = plotWidth / float64(len(values)-1)
	}

	xAt := func(i int) float64 { return marginLeft + float64(i)*step }
	yAt := func(v float64) float64 { return baseline - plotHeight*(v/max) }

	dc.SetRGB(0.7, 0.3, 0.2)
	dc.SetLineWidth(2)
	for i := 1; i < len(values); i++ {
		dc.DrawLine(xAt(i-1), yAt(values[i-1]), xAt(i), yAt(values[i]))
		dc.Stroke()
	}
	for i, v := range values {
		dc.DrawCircle(xAt(i), yAt(v), 4)
		dc.Fill()
	}

	dc.SetRGB(0.1, 0.1, 0.1)
	for i, label := range labels {
		dc.DrawStringAnchored(label, xAt(i), baseline+14, 0.5, 0.5)
	}
}
