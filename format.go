package transcat

import (
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders typed marker values ({{num:...}}, {{date:...}}) for
// display. Locale-aware formatting is a collaborator concern: the engine only
// ships a locale-agnostic default and this pluggable seam. A false return
// means the value is not of a formattable type and the marker stays verbatim.
type Formatter interface {
	FormatNumber(locale string, value interface{}) (string, bool)
	FormatDate(locale string, value interface{}) (string, bool)
}

// plainFormatter is the locale-agnostic default: decimal numbers without
// grouping, ISO dates.
type plainFormatter struct{}

func (plainFormatter) FormatNumber(_ string, value interface{}) (string, bool) {
	switch typed := value.(type) {
	case int:
		return strconv.Itoa(typed), true
	case int8:
		return strconv.FormatInt(int64(typed), 10), true
	case int16:
		return strconv.FormatInt(int64(typed), 10), true
	case int32:
		return strconv.FormatInt(int64(typed), 10), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case uint:
		return strconv.FormatUint(uint64(typed), 10), true
	case uint8:
		return strconv.FormatUint(uint64(typed), 10), true
	case uint16:
		return strconv.FormatUint(uint64(typed), 10), true
	case uint32:
		return strconv.FormatUint(uint64(typed), 10), true
	case uint64:
		return strconv.FormatUint(typed, 10), true
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	default:
		return "", false
	}
}

func (plainFormatter) FormatDate(_ string, value interface{}) (string, bool) {
	date, ok := asTime(value)
	if !ok {
		return "", false
	}
	return date.Format("2006-01-02"), true
}

// LocaleFormatter formats numbers with CLDR grouping and decimal separators
// via x/text and dates with a per-language layout. Plug it into
// Config.Formatter when display strings should follow the resolved locale.
type LocaleFormatter struct{}

func NewLocaleFormatter() *LocaleFormatter {
	return &LocaleFormatter{}
}

func (f *LocaleFormatter) FormatNumber(locale string, value interface{}) (string, bool) {
	if !isNumeric(value) {
		return "", false
	}
	tag, err := language.Parse(NormalizeLocale(locale))
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag).Sprint(number.Decimal(value)), true
}

func (f *LocaleFormatter) FormatDate(locale string, value interface{}) (string, bool) {
	date, ok := asTime(value)
	if !ok {
		return "", false
	}
	layout := "01/02/2006"
	switch baseLocale(NormalizeLocale(locale)) {
	case "es", "pt", "fr", "de", "it":
		layout = "02/01/2006"
	}
	return date.Format(layout), true
}

func isNumeric(value interface{}) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

func asTime(value interface{}) (time.Time, bool) {
	switch typed := value.(type) {
	case time.Time:
		return typed, true
	case *time.Time:
		if typed == nil {
			return time.Time{}, false
		}
		return *typed, true
	default:
		return time.Time{}, false
	}
}
