package transcat

import "fmt"

// Error is the typed call-time failure surface. Every error identifies the
// key path and locale of the violated contract so callers can decide to fall
// back to a hardcoded string, log and continue, or propagate. The engine
// never silently returns an empty string.
type Error interface {
	error
	ErrorKey() string    // Joined key path of the failed lookup.
	ErrorLocale() string // Requested locale.
}

// KeyNotFoundError reports a key absent from both the requested locale and
// the reference locale.
type KeyNotFoundError struct {
	MessageKey      string
	RequestedLocale string
	ReferenceLocale string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("transcat: key %q not found in locale %q nor in reference %q",
		e.MessageKey, e.RequestedLocale, e.ReferenceLocale)
}

func (e *KeyNotFoundError) ErrorKey() string    { return e.MessageKey }
func (e *KeyNotFoundError) ErrorLocale() string { return e.RequestedLocale }

// MissingParameterError reports a parameter required by the key's contract
// that was absent from the supplied params.
type MissingParameterError struct {
	MessageKey      string
	RequestedLocale string
	Parameter       string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("transcat: key %q in locale %q requires parameter %q",
		e.MessageKey, e.RequestedLocale, e.Parameter)
}

func (e *MissingParameterError) ErrorKey() string    { return e.MessageKey }
func (e *MissingParameterError) ErrorLocale() string { return e.RequestedLocale }

// WrongArityError reports a quantity supplied for a non-plural key, or
// omitted for a plural key.
type WrongArityError struct {
	MessageKey      string
	RequestedLocale string
	// NeedsQuantity is true when the key is plural and no quantity was
	// given; false when a quantity was given for a non-plural key.
	NeedsQuantity bool
}

func (e *WrongArityError) Error() string {
	if e.NeedsQuantity {
		return fmt.Sprintf("transcat: key %q in locale %q is plural, use TranslateN",
			e.MessageKey, e.RequestedLocale)
	}
	return fmt.Sprintf("transcat: key %q in locale %q is not plural, use Translate",
		e.MessageKey, e.RequestedLocale)
}

func (e *WrongArityError) ErrorKey() string    { return e.MessageKey }
func (e *WrongArityError) ErrorLocale() string { return e.RequestedLocale }
