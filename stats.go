package transcat

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const overflowStatKey = "__overflow__"

// Observer receives engine events on a background worker goroutine. Callbacks
// must not block for long; the event channel is bounded and overflow is
// counted, not delivered.
type Observer interface {
	OnLocaleFallback(requestedLocale string, resolvedLocale string)
	OnLocaleMissing(locale string)
	OnKeyMissing(locale string, key string)
	OnPluralRuleMissing(requestedLocale string, resolvedRule string)
	OnParamIssue(locale string, key string, issue string)
}

// Stats is a point-in-time copy of the engine counters.
type Stats struct {
	LocaleFallbacks    map[string]int
	MissingLocales     map[string]int
	MissingKeys        map[string]int
	MissingPluralRules map[string]int
	ParamIssues        map[string]int
	DroppedEvents      map[string]int
	LastReloadAt       time.Time
}

type observerEventType int

const (
	observerEventLocaleFallback observerEventType = iota
	observerEventLocaleMissing
	observerEventKeyMissing
	observerEventPluralRuleMissing
	observerEventParamIssue
)

type observerEvent struct {
	kind      observerEventType
	requested string
	resolved  string
	locale    string
	key       string
	issue     string
}

type engineStats struct {
	mu                 sync.Mutex
	localeFallbacks    map[string]int
	missingLocales     map[string]int
	missingKeys        map[string]int
	missingPluralRules map[string]int
	paramIssues        map[string]int
	droppedEvents      map[string]int
	maxKeys            int
	lastReloadAt       time.Time
}

func newEngineStats(maxKeys int) engineStats {
	return engineStats{
		localeFallbacks:    map[string]int{},
		missingLocales:     map[string]int{},
		missingKeys:        map[string]int{},
		missingPluralRules: map[string]int{},
		paramIssues:        map[string]int{},
		droppedEvents:      map[string]int{},
		maxKeys:            maxKeys,
	}
}

func sanitizeStatKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "unknown"
	}
	if len(key) > 120 {
		return key[:120]
	}
	return key
}

func (s *engineStats) increment(target map[string]int, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if target == nil {
		return
	}
	key = sanitizeStatKey(key)
	if s.maxKeys > 0 {
		if _, exists := target[key]; !exists {
			if _, hasOverflow := target[overflowStatKey]; hasOverflow {
				if len(target) >= s.maxKeys {
					key = overflowStatKey
				}
			} else if len(target) >= s.maxKeys-1 {
				key = overflowStatKey
			}
		}
	}
	target[key]++
}

func (s *engineStats) incrementLocaleFallback(requested, resolved string) {
	s.increment(s.localeFallbacks, fmt.Sprintf("%s->%s", requested, resolved))
}

func (s *engineStats) incrementMissingLocale(locale string) {
	s.increment(s.missingLocales, locale)
}

func (s *engineStats) incrementMissingKey(locale, key string) {
	s.increment(s.missingKeys, fmt.Sprintf("%s:%s", locale, key))
}

func (s *engineStats) incrementMissingPluralRule(requested, resolved string) {
	s.increment(s.missingPluralRules, fmt.Sprintf("%s->%s", requested, resolved))
}

func (s *engineStats) incrementParamIssue(locale, key, issue string) {
	s.increment(s.paramIssues, fmt.Sprintf("%s:%s:%s", locale, key, issue))
}

func (s *engineStats) incrementDroppedEvent(reason string) {
	s.increment(s.droppedEvents, reason)
}

func (s *engineStats) setLastReloadAt(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastReloadAt = t
}

func (s *engineStats) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.localeFallbacks = map[string]int{}
	s.missingLocales = map[string]int{}
	s.missingKeys = map[string]int{}
	s.missingPluralRules = map[string]int{}
	s.paramIssues = map[string]int{}
	s.droppedEvents = map[string]int{}
	s.lastReloadAt = time.Time{}
}

func (s *engineStats) snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	copyMap := func(input map[string]int) map[string]int {
		output := make(map[string]int, len(input))
		for k, v := range input {
			output[k] = v
		}
		return output
	}

	return Stats{
		LocaleFallbacks:    copyMap(s.localeFallbacks),
		MissingLocales:     copyMap(s.missingLocales),
		MissingKeys:        copyMap(s.missingKeys),
		MissingPluralRules: copyMap(s.missingPluralRules),
		ParamIssues:        copyMap(s.paramIssues),
		DroppedEvents:      copyMap(s.droppedEvents),
		LastReloadAt:       s.lastReloadAt,
	}
}

func safeObserverCall(fn func()) {
	defer func() {
		_ = recover()
	}()
	fn()
}

func (e *Engine) startObserverWorker() {
	if e.cfg.Observer == nil || e.observerCh != nil {
		return
	}
	e.observerCh = make(chan observerEvent, e.cfg.ObserverBuffer)
	e.observerDone = make(chan struct{})
	go func() {
		defer close(e.observerDone)
		for evt := range e.observerCh {
			switch evt.kind {
			case observerEventLocaleFallback:
				safeObserverCall(func() {
					e.cfg.Observer.OnLocaleFallback(evt.requested, evt.resolved)
				})
			case observerEventLocaleMissing:
				safeObserverCall(func() {
					e.cfg.Observer.OnLocaleMissing(evt.locale)
				})
			case observerEventKeyMissing:
				safeObserverCall(func() {
					e.cfg.Observer.OnKeyMissing(evt.locale, evt.key)
				})
			case observerEventPluralRuleMissing:
				safeObserverCall(func() {
					e.cfg.Observer.OnPluralRuleMissing(evt.requested, evt.resolved)
				})
			case observerEventParamIssue:
				safeObserverCall(func() {
					e.cfg.Observer.OnParamIssue(evt.locale, evt.key, evt.issue)
				})
			}
		}
	}()
}

// stopObserverWorker closes the event channel and waits for the worker to
// drain it. The channel field is written once at construction and never
// cleared: emission paths read it without a lock, and a send racing a close
// lands in publishObserverEvent's recover as a dropped event.
func (e *Engine) stopObserverWorker() {
	if e.observerCh == nil || e.observerClosed {
		return
	}
	e.observerClosed = true
	close(e.observerCh)
	<-e.observerDone
}

func (e *Engine) publishObserverEvent(evt observerEvent) {
	if e.cfg.Observer == nil || e.observerCh == nil {
		return
	}
	defer func() {
		if recover() != nil {
			e.stats.incrementDroppedEvent("observer_closed")
		}
	}()
	select {
	case e.observerCh <- evt:
	default:
		e.stats.incrementDroppedEvent("observer_queue_full")
	}
}

func (e *Engine) onLocaleFallback(requested, resolved string) {
	e.stats.incrementLocaleFallback(requested, resolved)
	e.publishObserverEvent(observerEvent{
		kind:      observerEventLocaleFallback,
		requested: requested,
		resolved:  resolved,
	})
}

func (e *Engine) onLocaleMissing(locale string) {
	e.stats.incrementMissingLocale(locale)
	e.publishObserverEvent(observerEvent{
		kind:   observerEventLocaleMissing,
		locale: locale,
	})
}

func (e *Engine) onKeyMissing(locale, key string) {
	e.stats.incrementMissingKey(locale, key)
	e.publishObserverEvent(observerEvent{
		kind:   observerEventKeyMissing,
		locale: locale,
		key:    key,
	})
}

func (e *Engine) onPluralRuleMissing(requested, resolved string) {
	e.stats.incrementMissingPluralRule(requested, resolved)
	e.publishObserverEvent(observerEvent{
		kind:      observerEventPluralRuleMissing,
		requested: requested,
		resolved:  resolved,
	})
}

func (e *Engine) onParamIssue(locale, key, issue string) {
	e.stats.incrementParamIssue(locale, key, issue)
	e.publishObserverEvent(observerEvent{
		kind:   observerEventParamIssue,
		locale: locale,
		key:    key,
		issue:  issue,
	})
}
