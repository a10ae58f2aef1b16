package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/toyz/routemap/pkg/routemap"
)

// JSON writes the route map as pretty-printed JSON: controller names as
// keys (sorted, as Go marshals maps), route records as objects. A trailing
// newline makes the output shell-friendly.
func JSON(w io.Writer, routes routemap.RouteMap) error {
	if routes == nil {
		routes = routemap.RouteMap{}
	}
	data, err := json.MarshalIndent(routes, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding route map: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
