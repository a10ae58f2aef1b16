package routemap

import (
	"fmt"
	"strings"
)

// verbCodes maps the numeric verb codes used by metadata emitters that store
// methods as enum ordinals rather than names.
var verbCodes = map[int64]string{
	0: "GET",
	1: "POST",
	2: "PUT",
	3: "DELETE",
	4: "PATCH",
	5: "ALL",
	6: "OPTIONS",
	7: "HEAD",
}

// NormalizeVerb converts raw method metadata into a canonical upper-case HTTP
// verb. Strings are trimmed and upper-cased, known numeric codes map to their
// verb, and anything else is stringified and upper-cased. It never fails; an
// unrecognized code like 99 simply comes back as "99".
func NormalizeVerb(value any) string {
	switch v := value.(type) {
	case string:
		return strings.ToUpper(strings.TrimSpace(v))
	default:
		if code, ok := verbCode(value); ok {
			if verb, known := verbCodes[code]; known {
				return verb
			}
		}
		return strings.ToUpper(strings.TrimSpace(fmt.Sprint(value)))
	}
}

// verbCode widens the numeric types metadata decoders produce (TOML int64,
// JSON float64, plain Go ints) to a single code.
func verbCode(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float32:
		if v == float32(int64(v)) {
			return int64(v), true
		}
	case float64:
		if v == float64(int64(v)) {
			return int64(v), true
		}
	}
	return 0, false
}
