package chart

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ba0f3/persp/internal/diversity"
)

// approachOrder fixes the series order so charts are comparable across runs.
var approachOrder = []string{
	"criteria-based",
	"1-shot-criteria-based",
	"free-form",
	"1-shot-free-form",
}

// displayLabels maps stored approach names to chart labels. Unprefixed
// approaches use five examples, so they are labeled explicitly.
var displayLabels = map[string]string{
	"criteria-based": "5-shot-criteria-based",
	"free-form":      "5-shot-free-form",
}

// DisplayLabel returns the chart label for an approach name.
func DisplayLabel(approach string) string {
	if label, ok := displayLabels[approach]; ok {
		return label
	}
	return approach
}

// TopicLabel turns a topic id into a readable axis label.
func TopicLabel(topic string) string {
	return strings.ReplaceAll(topic, "_", " ")
}

// Render writes a grouped bar chart of diversity scores as a standalone HTML
// page. Topics go on the X axis in topicOrder, one series per approach.
// Approaches absent for a topic get a zero bar.
func Render(w io.Writer, results []diversity.Result, topicOrder []string) error {
	if len(results) == 0 {
		return fmt.Errorf("no scores to chart")
	}

	byKey := make(map[string]float64)
	present := make(map[string]bool)
	for _, r := range results {
		byKey[r.Approach+"\x00"+r.Topic] = r.Score
		present[r.Approach] = true
	}

	var extra []string
	for _, r := range results {
		known := false
		for _, a := range approachOrder {
			if r.Approach == a {
				known = true
				break
			}
		}
		if !known && !containsString(extra, r.Approach) {
			extra = append(extra, r.Approach)
		}
	}
	approaches := append(append([]string{}, approachOrder...), extra...)

	xLabels := make([]string, len(topicOrder))
	for i, topic := range topicOrder {
		xLabels[i] = TopicLabel(topic)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Semantic Diversity of Perspectives by Topic and Prompting Approach",
			Subtitle: "Mean pairwise cosine distance between reasoning embeddings",
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Diversity score"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(xLabels)

	for _, approach := range approaches {
		if !present[approach] {
			continue
		}
		data := make([]opts.BarData, len(topicOrder))
		for i, topic := range topicOrder {
			data[i] = opts.BarData{Value: byKey[approach+"\x00"+topic]}
		}
		bar.AddSeries(DisplayLabel(approach), data)
	}

	return bar.Render(w)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
