// Package format provides the pluggable output formatters for position
// reports. Formatting is presentation only: every formatter receives the
// canonical "X,Y,FACING" report string and renders it for its medium.
package format

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Formatter renders a canonical report string for presentation.
type Formatter interface {
	Format(report string) string
}

// Text renders reports unchanged, in the canonical "X,Y,FACING" form.
type Text struct{}

// Format returns the report as-is.
func (Text) Format(report string) string { return report }

// JSON renders reports as a single-line JSON object:
//
//	{"x":1,"y":2,"facing":"NORTH"}
//
// Reports that do not parse as "X,Y,FACING" pass through unchanged.
type JSON struct{}

type jsonReport struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Facing string `json:"facing"`
}

// Format renders the report as JSON.
func (JSON) Format(report string) string {
	parts := strings.Split(report, ",")
	if len(parts) != 3 {
		return report
	}
	x, errX := strconv.Atoi(strings.TrimSpace(parts[0]))
	y, errY := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errX != nil || errY != nil {
		return report
	}

	data, err := json.Marshal(jsonReport{
		X:      x,
		Y:      y,
		Facing: strings.TrimSpace(parts[2]),
	})
	if err != nil {
		return report
	}
	return string(data)
}

// ByName returns the formatter registered under the given name, or Text
// for unknown names.
func ByName(name string) Formatter {
	switch strings.ToLower(name) {
	case "json":
		return JSON{}
	default:
		return Text{}
	}
}
