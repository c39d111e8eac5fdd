package cli

import (
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/theirongolddev/tripcost/internal/model"
)

// RenderSeasonChart plots the seasonal trend as a line chart, Winter to Fall.
// Seasons without data are gaps. Fewer than two seasons with data cannot
// form a line, so the result is empty.
func RenderSeasonChart(points []model.SeasonPoint, width, height int, caption string) string {
	data := make([]float64, len(points))
	withData := 0
	for i, p := range points {
		if !p.HasData() {
			data[i] = math.NaN()
			continue
		}
		data[i] = *p.Average
		withData++
	}
	if withData < 2 {
		return ""
	}

	width = max(width, 20)
	height = max(height, 3)

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(0),
		asciigraph.Caption(caption),
	)
}
