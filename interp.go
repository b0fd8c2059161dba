package transcat

import (
	"fmt"
	"strconv"
)

// Params carries the values substituted into a template's markers.
type Params map[string]interface{}

// Interpolate substitutes parameter values into a template using
// locale-agnostic formatting. A marker whose name is absent from params is
// left verbatim in the output: a missing optional parameter degrades visibly
// instead of crashing the caller. The engine turns "missing required
// parameter" into a hard error before this point.
func Interpolate(template string, params Params) string {
	return interpolate(template, params, "", plainFormatter{})
}

func interpolate(template string, params Params, locale string, formatter Formatter) string {
	if formatter == nil {
		formatter = plainFormatter{}
	}
	return markerRegex.ReplaceAllStringFunc(template, func(token string) string {
		match := markerRegex.FindStringSubmatch(token)
		value, ok := params[match[2]]
		if !ok {
			return token
		}
		switch kindOfMarker(match[1]) {
		case ParamNumber:
			if formatted, ok := formatter.FormatNumber(locale, value); ok {
				return formatted
			}
			return token
		case ParamDate:
			if formatted, ok := formatter.FormatDate(locale, value); ok {
				return formatted
			}
			return token
		default:
			return stringify(value)
		}
	})
}

// stringify renders a value for display: numbers as plain decimal with no
// grouping, everything else via fmt.
func stringify(value interface{}) string {
	switch typed := value.(type) {
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", value)
	}
}
