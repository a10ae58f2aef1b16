package routemap

import "strings"

// Normalize merges a global prefix, a controller base path and an endpoint
// path into one canonical route path. Empty segments are dropped, the
// survivors are joined with single slashes, and the result always starts
// with "/" and never ends with one, except for the bare root "/" when all
// three inputs are empty. Parameter placeholders pass through untouched.
func Normalize(prefix, basePath, routePath string) string {
	segments := make([]string, 0, 8)
	for _, part := range [3]string{prefix, basePath, routePath} {
		for _, segment := range strings.Split(part, "/") {
			if segment == "" {
				continue
			}
			segments = append(segments, segment)
		}
	}
	if len(segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(segments, "/")
}
