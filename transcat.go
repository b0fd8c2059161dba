// Package transcat is a build-time-verified translation catalog engine.
// Locale catalogs are nested trees of message templates; the engine derives a
// flat schema per catalog, validates every secondary locale against the
// reference locale's schema, and resolves keys at call time with locale
// fallback, pluralization and parameter-contract enforcement.
package transcat

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

//go:generate mockgen -source=$GOFILE -package mock_transcat -destination=test/mock/$GOFILE

// ContextKey is the context value key carrying the request locale.
type ContextKey string

// Loader supplies locale catalogs from an external source (files, bundles,
// a translation service). The engine never does I/O itself.
type Loader interface {
	LoadCatalog(locale string) (LocaleCatalog, error)
}

type Config struct {
	// ReferenceLocale is the locale every other catalog is validated
	// against and the terminal lookup fallback. Defaults to "en".
	ReferenceLocale string
	// FallbackLocales are consulted between the requested locale's parent
	// chain and the reference locale.
	FallbackLocales []string
	// CtxLocaleKey is the context key read by the WithCtx call variants.
	// Defaults to "locale".
	CtxLocaleKey ContextKey
	// Strict rejects (does not publish) a catalog whose validation report
	// contains blocking divergences.
	Strict bool
	// Observer receives engine events asynchronously.
	Observer       Observer
	ObserverBuffer int
	StatsMaxKeys   int
	// Formatter renders {{num:...}} and {{date:...}} marker values.
	// Defaults to locale-agnostic decimal/ISO formatting.
	Formatter Formatter
	NowFn     func() time.Time
}

type localeSnapshot struct {
	catalog LocaleCatalog
	schema  *Schema
	gen     uint64
}

// Engine is the runtime facade. Reads are lock-light and never block on I/O;
// catalog loads build and validate a schema fully off to the side and publish
// it with an atomic swap, so readers never observe a partially-built schema.
type Engine struct {
	mu      sync.RWMutex
	locales map[string]*localeSnapshot
	loadSeq map[string]uint64
	rules   map[string]Rule

	cfg          Config
	stats        engineStats
	observerCh   chan observerEvent
	observerDone chan struct{}
	// observerClosed guards double-close; set under mu by Close.
	observerClosed bool
}

// New creates an engine. The built-in CLDR plural rules are pre-registered;
// RegisterRule overrides or extends them per locale.
func New(cfg Config) *Engine {
	if cfg.ReferenceLocale == "" {
		cfg.ReferenceLocale = "en"
	}
	cfg.ReferenceLocale = NormalizeLocale(cfg.ReferenceLocale)
	if cfg.CtxLocaleKey == "" {
		cfg.CtxLocaleKey = "locale"
	}
	if cfg.NowFn == nil {
		cfg.NowFn = time.Now
	}
	if cfg.ObserverBuffer <= 0 {
		cfg.ObserverBuffer = 1024
	}
	if cfg.StatsMaxKeys <= 0 {
		cfg.StatsMaxKeys = 512
	}
	if cfg.Formatter == nil {
		cfg.Formatter = plainFormatter{}
	}

	e := &Engine{
		locales: map[string]*localeSnapshot{},
		loadSeq: map[string]uint64{},
		rules:   map[string]Rule{},
		cfg:     cfg,
		stats:   newEngineStats(cfg.StatsMaxKeys),
	}
	for _, locale := range defaultRuleLocales() {
		e.rules[locale] = DefaultRule(locale)
	}
	e.startObserverWorker()
	return e
}

// Reference returns the configured reference locale.
func (e *Engine) Reference() string {
	return e.cfg.ReferenceLocale
}

// RegisterRule registers (or replaces) the plural rule for a locale.
func (e *Engine) RegisterRule(locale string, rule Rule) {
	if rule == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules[NormalizeLocale(locale)] = rule
}

// Load derives and validates the schema for a catalog, then publishes both as
// the active snapshot for that locale. The returned report compares the
// catalog against the reference locale (or, for the reference itself and for
// catalogs loaded before any reference, only self-invariants). Divergences
// never fail the load; a malformed catalog (kind conflicts, invalid
// segments) does. In Strict mode a blocking report also fails the load and
// the previous snapshot stays published.
//
// Concurrent loads of the same locale are safe: the most recently started
// load wins and a superseded one is discarded, never partially applied.
func (e *Engine) Load(cat LocaleCatalog) (*Report, error) {
	locale := NormalizeLocale(cat.Locale)
	if locale == "" {
		return nil, fmt.Errorf("transcat: catalog locale is required")
	}
	cat.Locale = locale

	e.mu.Lock()
	e.loadSeq[locale]++
	gen := e.loadSeq[locale]
	refSnap := e.locales[e.cfg.ReferenceLocale]
	e.mu.Unlock()

	schema, err := BuildSchema(cat)
	if err != nil {
		return nil, err
	}

	var report *Report
	if locale == e.cfg.ReferenceLocale || refSnap == nil {
		report = SelfCheck(schema)
	} else {
		report = Check(refSnap.schema, schema, locale)
	}

	if e.cfg.Strict && report.Blocking() {
		return report, fmt.Errorf("transcat: catalog %q rejected with %d divergence(s)",
			locale, len(report.Divergences))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if current, ok := e.locales[locale]; ok && current.gen > gen {
		e.stats.incrementDroppedEvent("superseded_load")
		return report, nil
	}
	e.locales[locale] = &localeSnapshot{catalog: cat, schema: schema, gen: gen}
	e.stats.setLastReloadAt(e.cfg.NowFn())
	return report, nil
}

// LoadFrom pulls the named locales through a Loader and loads each catalog.
// The reference locale is loaded first so secondary reports are complete.
// Returns the report per locale; stops at the first load failure.
func (e *Engine) LoadFrom(loader Loader, locales ...string) (map[string]*Report, error) {
	ordered := make([]string, 0, len(locales))
	for _, locale := range locales {
		if NormalizeLocale(locale) == e.cfg.ReferenceLocale {
			ordered = append([]string{locale}, ordered...)
			continue
		}
		ordered = append(ordered, locale)
	}

	reports := make(map[string]*Report, len(ordered))
	for _, locale := range ordered {
		cat, err := loader.LoadCatalog(locale)
		if err != nil {
			return reports, fmt.Errorf("transcat: load %q: %w", locale, err)
		}
		if cat.Locale == "" {
			cat.Locale = locale
		}
		report, err := e.Load(cat)
		if report != nil {
			reports[NormalizeLocale(locale)] = report
		}
		if err != nil {
			return reports, err
		}
	}
	return reports, nil
}

// CheckAll revalidates every published locale against the current reference
// schema: the reference's self-check first, then each secondary sorted by
// locale. Returns nil when no reference is loaded.
func (e *Engine) CheckAll() []*Report {
	e.mu.RLock()
	refSnap, ok := e.locales[e.cfg.ReferenceLocale]
	secondaries := make([]*localeSnapshot, 0, len(e.locales))
	for locale, snap := range e.locales {
		if locale != e.cfg.ReferenceLocale {
			secondaries = append(secondaries, snap)
		}
	}
	e.mu.RUnlock()
	if !ok {
		return nil
	}

	sort.Slice(secondaries, func(i, j int) bool {
		return secondaries[i].schema.Locale < secondaries[j].schema.Locale
	})
	reports := make([]*Report, 0, len(secondaries)+1)
	reports = append(reports, SelfCheck(refSnap.schema))
	for _, snap := range secondaries {
		reports = append(reports, Check(refSnap.schema, snap.schema, snap.schema.Locale))
	}
	return reports
}

// Locales returns the published locales, sorted.
func (e *Engine) Locales() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	locales := make([]string, 0, len(e.locales))
	for locale := range e.locales {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	return locales
}

// Schema returns the published schema for a locale.
func (e *Engine) Schema(locale string) (*Schema, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	snap, ok := e.locales[NormalizeLocale(locale)]
	if !ok {
		return nil, false
	}
	return snap.schema, true
}

// Translate resolves a non-plural key in the given locale, validates params
// against the key's contract and returns the interpolated string.
func (e *Engine) Translate(locale, key string, params Params) (string, error) {
	return e.translate(locale, key, params, nil)
}

// TranslateN resolves a plural key for a quantity. The quantity is injected
// into params as "count" unless the caller supplied its own value.
func (e *Engine) TranslateN(locale, key string, quantity int, params Params) (string, error) {
	return e.translate(locale, key, params, &quantity)
}

// TranslateWithCtx is Translate with the locale taken from the context.
func (e *Engine) TranslateWithCtx(ctx context.Context, key string, params Params) (string, error) {
	return e.translate(e.localeFromCtx(ctx), key, params, nil)
}

// TranslateNWithCtx is TranslateN with the locale taken from the context.
func (e *Engine) TranslateNWithCtx(ctx context.Context, key string, quantity int, params Params) (string, error) {
	return e.translate(e.localeFromCtx(ctx), key, params, &quantity)
}

func (e *Engine) localeFromCtx(ctx context.Context) string {
	if ctx == nil {
		return e.cfg.ReferenceLocale
	}
	// Plain string keys kept for callers that do not use the typed key.
	if v := ctx.Value(e.cfg.CtxLocaleKey); v != nil {
		return fmt.Sprintf("%v", v)
	}
	if v := ctx.Value(string(e.cfg.CtxLocaleKey)); v != nil {
		return fmt.Sprintf("%v", v)
	}
	return e.cfg.ReferenceLocale
}

func (e *Engine) translate(requestedLocale, key string, params Params, quantity *int) (string, error) {
	if _, err := ParseKeyPath(key); err != nil {
		return "", fmt.Errorf("transcat: %w", err)
	}
	requested := NormalizeLocale(requestedLocale)
	if requested == "" {
		requested = e.cfg.ReferenceLocale
	}

	entry, resolvedLocale, found := e.lookup(requested, key)
	if !found {
		return "", &KeyNotFoundError{
			MessageKey:      key,
			RequestedLocale: requested,
			ReferenceLocale: e.cfg.ReferenceLocale,
		}
	}

	switch entry.Kind {
	case KindBranch:
		// A subtree is not a message.
		return "", &KeyNotFoundError{
			MessageKey:      key,
			RequestedLocale: requested,
			ReferenceLocale: e.cfg.ReferenceLocale,
		}
	case KindPlural:
		if quantity == nil {
			return "", &WrongArityError{MessageKey: key, RequestedLocale: requested, NeedsQuantity: true}
		}
	default:
		if quantity != nil {
			return "", &WrongArityError{MessageKey: key, RequestedLocale: requested}
		}
	}

	if quantity != nil {
		merged := make(Params, len(params)+1)
		merged["count"] = *quantity
		for name, value := range params {
			merged[name] = value
		}
		params = merged
	}

	for _, param := range entry.Contract.Params() {
		if _, ok := params[param.Name]; !ok {
			e.onParamIssue(resolvedLocale, key, "missing_param_"+param.Name)
			return "", &MissingParameterError{
				MessageKey:      key,
				RequestedLocale: requested,
				Parameter:       param.Name,
			}
		}
	}

	template := entry.Template
	if entry.Kind == KindPlural {
		template, _ = ResolvePlural(entry.Group, e.ruleFor(requested), *quantity)
	}
	return interpolate(template, params, resolvedLocale, e.cfg.Formatter), nil
}

// lookup walks the locale candidate chain under the read lock and returns the
// first entry found plus the locale it came from. Fallback and miss events
// are emitted after the lock is released.
func (e *Engine) lookup(requested, key string) (*Entry, string, bool) {
	candidates := localeCandidates(requested, e.cfg.FallbackLocales, e.cfg.ReferenceLocale)

	var (
		entry       *Entry
		entryLocale string
		firstLoaded string
		missedIn    []string
	)
	e.mu.RLock()
	for _, candidate := range candidates {
		snap, ok := e.locales[candidate]
		if !ok {
			continue
		}
		if firstLoaded == "" {
			firstLoaded = candidate
		}
		if found, ok := snap.schema.Lookup(key); ok {
			entry = found
			entryLocale = candidate
			break
		}
		missedIn = append(missedIn, candidate)
	}
	e.mu.RUnlock()

	if firstLoaded == "" {
		e.onLocaleMissing(requested)
		return nil, "", false
	}
	if firstLoaded != requested {
		e.onLocaleFallback(requested, firstLoaded)
	}
	for _, locale := range missedIn {
		e.onKeyMissing(locale, key)
	}
	if entry == nil {
		return nil, "", false
	}
	return entry, entryLocale, true
}

// ruleFor resolves the plural rule for a locale: exact registration, then the
// locale's parent chain, then the built-in default. Anything but an exact hit
// is reported at missing-rule severity.
func (e *Engine) ruleFor(locale string) Rule {
	chain := parentChain(locale)
	e.mu.RLock()
	for i, candidate := range chain {
		if rule, ok := e.rules[candidate]; ok {
			e.mu.RUnlock()
			if i > 0 {
				e.onPluralRuleMissing(locale, candidate)
			}
			return rule
		}
	}
	e.mu.RUnlock()
	e.onPluralRuleMissing(locale, "default")
	return DefaultRule(locale)
}

// SnapshotStats returns a copy of the engine counters.
func (e *Engine) SnapshotStats() Stats {
	return e.stats.snapshot()
}

// ResetStats zeroes the engine counters.
func (e *Engine) ResetStats() {
	e.stats.reset()
}

// Close stops the observer worker. The engine stays usable for translation;
// further events are dropped.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopObserverWorker()
}
