// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package visualization

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Generator builds ECharts option JSON from a result set. Generation is
// deterministic: identical datasets yield byte-identical JSON.
type Generator struct {
	style *StyleConfig
}

// NewGenerator creates an ECharts option generator.
func NewGenerator(style *StyleConfig) *Generator {
	if style == nil {
		style = DefaultStyleConfig()
	}
	return &Generator{style: style}
}

// Generate creates the ECharts option JSON for a dataset and recommendation.
func (g *Generator) Generate(ds *Dataset, rec *Recommendation) (string, error) {
	var config map[string]any

	switch rec.ChartType {
	case ChartTypeLine:
		config = g.lineChart(ds, rec)
	case ChartTypePie:
		config = g.pieChart(ds, rec)
	case ChartTypeScatter:
		config = g.scatterChart(ds, rec)
	default:
		config = g.barChart(ds, rec)
	}

	jsonBytes, err := json.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chart config: %w", err)
	}
	return string(jsonBytes), nil
}

func (g *Generator) barChart(ds *Dataset, rec *Recommendation) map[string]any {
	labels, values := g.labelValues(ds)

	return map[string]any{
		"backgroundColor":   g.style.ColorBackground,
		"animation":         true,
		"animationDuration": g.style.AnimationDuration,
		"animationEasing":   g.style.AnimationEasing,
		"title":             g.titleConfig(rec.Title),
		"grid":              g.gridConfig(),
		"tooltip":           g.tooltipConfig(),
		"xAxis": map[string]any{
			"type":      "category",
			"data":      labels,
			"axisLine":  g.axisLineStyle(),
			"axisLabel": g.axisLabelStyle(),
		},
		"yAxis": map[string]any{
			"type":      "value",
			"axisLine":  g.axisLineStyle(),
			"axisLabel": g.axisLabelStyle(),
			"splitLine": g.splitLineStyle(),
		},
		"series": []any{
			map[string]any{
				"type": "bar",
				"data": values,
				"itemStyle": map[string]any{
					"color": map[string]any{
						"type": "linear",
						"x":    0,
						"y":    0,
						"x2":   0,
						"y2":   1,
						"colorStops": []any{
							map[string]any{"offset": 0, "color": g.style.ColorPrimary},
							map[string]any{"offset": 1, "color": darkenColor(g.style.ColorPrimary, 0.2)},
						},
					},
					"borderRadius": []int{4, 4, 0, 0},
					"shadowBlur":   g.style.ShadowBlur,
					"shadowColor":  fmt.Sprintf("%s66", g.style.ColorPrimary),
				},
				"label": map[string]any{
					"show":       true,
					"position":   "top",
					"color":      g.style.ColorTextMuted,
					"fontFamily": g.style.FontFamily,
					"fontSize":   g.style.FontSizeLabel,
				},
			},
		},
	}
}

func (g *Generator) lineChart(ds *Dataset, rec *Recommendation) map[string]any {
	labels, values := g.labelValues(ds)

	return map[string]any{
		"backgroundColor":   g.style.ColorBackground,
		"animation":         true,
		"animationDuration": g.style.AnimationDuration,
		"animationEasing":   g.style.AnimationEasing,
		"title":             g.titleConfig(rec.Title),
		"grid":              g.gridConfig(),
		"tooltip":           g.tooltipConfig(),
		"xAxis": map[string]any{
			"type":      "category",
			"data":      labels,
			"axisLine":  g.axisLineStyle(),
			"axisLabel": g.axisLabelStyle(),
		},
		"yAxis": map[string]any{
			"type":      "value",
			"axisLine":  g.axisLineStyle(),
			"axisLabel": g.axisLabelStyle(),
			"splitLine": g.splitLineStyle(),
		},
		"series": []any{
			map[string]any{
				"type":   "line",
				"data":   values,
				"smooth": true,
				"lineStyle": map[string]any{
					"color":       g.style.ColorPrimary,
					"width":       2,
					"shadowBlur":  g.style.ShadowBlur,
					"shadowColor": fmt.Sprintf("%s66", g.style.ColorPrimary),
				},
				"itemStyle": map[string]any{
					"color": g.style.ColorPrimary,
				},
				"areaStyle": map[string]any{
					"color": map[string]any{
						"type": "linear",
						"x":    0,
						"y":    0,
						"x2":   0,
						"y2":   1,
						"colorStops": []any{
							map[string]any{"offset": 0, "color": fmt.Sprintf("%s66", g.style.ColorPrimary)},
							map[string]any{"offset": 1, "color": fmt.Sprintf("%s00", g.style.ColorPrimary)},
						},
					},
				},
			},
		},
	}
}

func (g *Generator) pieChart(ds *Dataset, rec *Recommendation) map[string]any {
	labels, values := g.labelValues(ds)

	var data []any
	for i, label := range labels {
		if i < len(values) {
			data = append(data, map[string]any{
				"name":  label,
				"value": values[i],
			})
		}
	}

	return map[string]any{
		"backgroundColor":   g.style.ColorBackground,
		"animation":         true,
		"animationDuration": g.style.AnimationDuration,
		"animationEasing":   g.style.AnimationEasing,
		"title":             g.titleConfig(rec.Title),
		"tooltip":           g.tooltipConfig(),
		"color":             g.style.ColorPalette,
		"legend": map[string]any{
			"orient": "vertical",
			"left":   "left",
			"textStyle": map[string]any{
				"color":      g.style.ColorText,
				"fontFamily": g.style.FontFamily,
				"fontSize":   g.style.FontSizeLabel,
			},
		},
		"series": []any{
			map[string]any{
				"type":   "pie",
				"radius": "55%",
				"center": []string{"50%", "50%"},
				"data":   data,
				"label": map[string]any{
					"color":      g.style.ColorText,
					"fontFamily": g.style.FontFamily,
					"fontSize":   g.style.FontSizeLabel,
				},
			},
		},
	}
}

func (g *Generator) scatterChart(ds *Dataset, rec *Recommendation) map[string]any {
	data := make([]any, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		if len(row) >= 2 {
			data = append(data, []any{row[0], row[1]})
		}
	}

	xName, yName := "X", "Y"
	if len(ds.Columns) >= 2 {
		xName = toTitle(ds.Columns[0])
		yName = toTitle(ds.Columns[1])
	}

	return map[string]any{
		"backgroundColor":   g.style.ColorBackground,
		"animation":         true,
		"animationDuration": g.style.AnimationDuration,
		"animationEasing":   g.style.AnimationEasing,
		"title":             g.titleConfig(rec.Title),
		"grid":              g.gridConfig(),
		"tooltip":           g.tooltipConfig(),
		"xAxis": map[string]any{
			"type":          "value",
			"name":          xName,
			"nameLocation":  "middle",
			"nameGap":       30,
			"nameTextStyle": g.axisLabelStyle(),
			"axisLine":      g.axisLineStyle(),
			"axisLabel":     g.axisLabelStyle(),
			"splitLine":     g.splitLineStyle(),
		},
		"yAxis": map[string]any{
			"type":          "value",
			"name":          yName,
			"nameLocation":  "middle",
			"nameGap":       40,
			"nameTextStyle": g.axisLabelStyle(),
			"axisLine":      g.axisLineStyle(),
			"axisLabel":     g.axisLabelStyle(),
			"splitLine":     g.splitLineStyle(),
		},
		"series": []any{
			map[string]any{
				"type":       "scatter",
				"symbolSize": 10,
				"data":       data,
				"itemStyle": map[string]any{
					"color":       g.style.ColorPrimary,
					"shadowBlur":  g.style.ShadowBlur,
					"shadowColor": fmt.Sprintf("%s66", g.style.ColorPrimary),
				},
			},
		},
	}
}

// labelValues splits a dataset into the label axis (first column, rendered
// as strings) and the value series (first numeric column after it).
func (g *Generator) labelValues(ds *Dataset) ([]string, []any) {
	labels := make([]string, 0, len(ds.Rows))
	values := make([]any, 0, len(ds.Rows))

	valueIdx := 1
	if len(ds.Columns) < 2 {
		valueIdx = 0
	}

	for _, row := range ds.Rows {
		if len(row) == 0 {
			continue
		}
		labels = append(labels, formatLabel(row[0]))
		if valueIdx < len(row) {
			values = append(values, row[valueIdx])
		} else {
			values = append(values, nil)
		}
	}
	return labels, values
}

func formatLabel(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (g *Generator) titleConfig(title string) map[string]any {
	return map[string]any{
		"text": title,
		"left": "center",
		"textStyle": map[string]any{
			"color":      g.style.ColorText,
			"fontFamily": g.style.FontFamily,
			"fontSize":   g.style.FontSizeTitle,
		},
	}
}

func (g *Generator) gridConfig() map[string]any {
	return map[string]any{
		"left":         "10%",
		"right":        "5%",
		"bottom":       "10%",
		"top":          "15%",
		"containLabel": true,
	}
}

func (g *Generator) tooltipConfig() map[string]any {
	return map[string]any{
		"trigger":         "item",
		"backgroundColor": g.style.ColorGlass,
		"borderColor":     g.style.ColorPrimary,
		"borderWidth":     1,
		"textStyle": map[string]any{
			"color":      g.style.ColorText,
			"fontFamily": g.style.FontFamily,
			"fontSize":   g.style.FontSizeTooltip,
		},
	}
}

func (g *Generator) axisLineStyle() map[string]any {
	return map[string]any{
		"lineStyle": map[string]any{
			"color": g.style.ColorBorder,
		},
	}
}

func (g *Generator) axisLabelStyle() map[string]any {
	return map[string]any{
		"color":      g.style.ColorTextMuted,
		"fontFamily": g.style.FontFamily,
		"fontSize":   g.style.FontSizeLabel,
	}
}

func (g *Generator) splitLineStyle() map[string]any {
	return map[string]any{
		"lineStyle": map[string]any{
			"color": fmt.Sprintf("%s0d", g.style.ColorText),
			"type":  "dashed",
		},
	}
}

// darkenColor darkens a #RRGGBB color by a fraction between 0 and 1.
func darkenColor(hexColor string, amount float64) string {
	color := strings.TrimPrefix(hexColor, "#")
	if len(color) != 6 {
		return hexColor
	}
	rgb, err := strconv.ParseUint(color, 16, 24)
	if err != nil {
		return hexColor
	}
	r := uint8(float64((rgb>>16)&0xFF) * (1.0 - amount))
	g := uint8(float64((rgb>>8)&0xFF) * (1.0 - amount))
	b := uint8(float64(rgb&0xFF) * (1.0 - amount))
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func toFloat64(val any) float64 {
	switch v := val.(type) {
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case float32:
		return float64(v)
	case float64:
		return v
	default:
		return 0.0
	}
}
