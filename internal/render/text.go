package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/toyz/routemap/pkg/routemap"
)

// Text writes the human listing: controllers sorted by name, each with its
// routes sorted by path, the verb in a left-justified column wide enough
// for OPTIONS.
//
//	Discovered routes
//
//	[UsersController]
//	  GET     /users
//	  POST    /users
//
//	2 routes across 1 controller
func Text(w io.Writer, routes routemap.RouteMap) error {
	header := color.New(color.FgCyan)
	marker := color.New(color.FgBlue, color.Bold)
	verb := color.New(color.FgGreen)
	summary := color.New(color.Bold)

	if _, err := fmt.Fprintln(w, header.Sprint("Discovered routes")); err != nil {
		return err
	}

	for _, name := range routes.ControllerNames() {
		if _, err := fmt.Fprintf(w, "\n%s\n", marker.Sprintf("[%s]", name)); err != nil {
			return err
		}
		for _, record := range sortedRecords(routes[name]) {
			if _, err := fmt.Fprintf(w, "  %s %s\n", verb.Sprintf("%-7s", record.Method), record.Path); err != nil {
				return err
			}
		}
	}

	line := summaryLine(routes.TotalRoutes(), len(routes))
	_, err := fmt.Fprintf(w, "\n%s\n", summary.Sprint(line))
	return err
}

// sortedRecords orders a controller's routes by path, ties by method,
// without disturbing the caller's slice.
func sortedRecords(records []routemap.RouteRecord) []routemap.RouteRecord {
	out := append([]routemap.RouteRecord(nil), records...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

func summaryLine(routes, controllers int) string {
	return fmt.Sprintf("%d %s across %d %s",
		routes, plural(routes, "route"),
		controllers, plural(controllers, "controller"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
