// Package render turns a discovered route map into the report formats the
// CLI offers: machine-readable JSON and a colored text listing.
package render

import (
	"fmt"
	"io"

	"github.com/toyz/routemap/pkg/routemap"
)

// Format selects a report format.
type Format string

const (
	// FormatText is the human listing, the default.
	FormatText Format = "text"
	// FormatJSON is the machine-readable form.
	FormatJSON Format = "json"
)

// Render writes the route map to w in the given format. An empty format
// renders text.
func Render(w io.Writer, routes routemap.RouteMap, format Format) error {
	switch format {
	case FormatJSON:
		return JSON(w, routes)
	case FormatText, "":
		return Text(w, routes)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
