package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docindex/ocr"
)

func TestReduceGeometry(t *testing.T) {
	testCases := []struct {
		name     string
		geometry [][2]float64
		expected BoundingBox
		ok       bool
	}{
		{
			name:     "two corner points",
			geometry: [][2]float64{{0.1, 0.2}, {0.5, 0.6}},
			expected: BoundingBox{0.1, 0.2, 0.5, 0.6},
			ok:       true,
		},
		{
			name: "four corner polygon uses top-left and bottom-right",
			geometry: [][2]float64{
				{0.1, 0.2}, {0.5, 0.2}, {0.5, 0.6}, {0.1, 0.6},
			},
			expected: BoundingBox{0.1, 0.2, 0.5, 0.6},
			ok:       true,
		},
		{
			name:     "out of range values are clamped",
			geometry: [][2]float64{{-0.05, 0.2}, {1.2, 0.6}},
			expected: BoundingBox{0, 0.2, 1, 0.6},
			ok:       true,
		},
		{
			name:     "single point is degenerate",
			geometry: [][2]float64{{0.1, 0.2}},
			ok:       false,
		},
		{
			name: "empty geometry is degenerate",
			ok:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			box, ok := reduceGeometry(tc.geometry)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expected, box)
				assert.True(t, box.Valid())
			}
		})
	}
}

func TestFlattenResult(t *testing.T) {
	result := &ocr.Result{
		Pages: []ocr.Page{
			{
				Number: 1,
				Blocks: []ocr.Block{
					{
						Lines: []ocr.Line{
							{Words: []ocr.Word{
								{Text: "Invoice", Geometry: [][2]float64{{0.1, 0.1}, {0.3, 0.15}}},
								{Text: "Total", Geometry: [][2]float64{{0.35, 0.1}, {0.5, 0.15}}},
							}},
							{Words: []ocr.Word{
								{Text: "42", Geometry: [][2]float64{{0.1, 0.2}, {0.15, 0.25}}},
							}},
						},
					},
				},
			},
			{
				Number: 2,
				Blocks: []ocr.Block{
					{
						Lines: []ocr.Line{
							{Words: []ocr.Word{
								{Text: "Invoice", Geometry: [][2]float64{{0.2, 0.3}, {0.4, 0.35}}},
								{Text: "broken", Geometry: [][2]float64{{0.2, 0.3}}}, // dropped
							}},
						},
					},
				},
			},
		},
	}

	records := flattenResult("invoice.pdf", result)
	require.Len(t, records, 4)

	// Reading order is preserved: page order, then in-page order.
	words := make([]string, len(records))
	for i, r := range records {
		words[i] = r.Word
	}
	assert.Equal(t, []string{"Invoice", "Total", "42", "Invoice"}, words)

	for _, record := range records {
		assert.Equal(t, "invoice.pdf", record.Document)
		assert.GreaterOrEqual(t, record.Page, 1)
		assert.True(t, record.BoundingBox.Valid(), "record %q has invalid box", record.Word)
	}

	assert.Equal(t, 1, records[0].Page)
	assert.Equal(t, 2, records[3].Page)
}
