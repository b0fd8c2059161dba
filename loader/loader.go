// Package loader reads locale catalogs from disk in the nested wire format:
// a string value is a Leaf, a mapping whose keys are all plural category
// names (with string values) is a PluralGroup, and any other mapping is a
// Branch. YAML and JSON files are supported.
package loader

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/loopcontext/transcat"
)

var extensions = []string{".yaml", ".yml", ".json"}

// DirLoader loads <locale>.yaml|yml|json catalogs from one directory. It
// implements transcat.Loader.
type DirLoader struct {
	Dir string
	// Retries and RetryDelay smooth over transient read failures while a
	// file is being replaced on disk.
	Retries    int
	RetryDelay time.Duration
}

// Locales lists the locales available in the directory, sorted.
func (l *DirLoader) Locales() ([]string, error) {
	files, err := ioutil.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("loader: read dir: %w", err)
	}
	seen := map[string]struct{}{}
	locales := make([]string, 0, len(files))
	for _, file := range files {
		locale, ok := localeOfFile(file.Name())
		if !ok {
			continue
		}
		if _, dup := seen[locale]; dup {
			continue
		}
		seen[locale] = struct{}{}
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	return locales, nil
}

// LoadCatalog reads and decodes one locale's catalog file.
func (l *DirLoader) LoadCatalog(locale string) (transcat.LocaleCatalog, error) {
	locale = transcat.NormalizeLocale(locale)
	var lastErr error
	for attempt := 0; attempt <= l.retries(); attempt++ {
		cat, err := l.readCatalog(locale)
		if err == nil {
			return cat, nil
		}
		lastErr = err
		if attempt < l.retries() {
			time.Sleep(l.retryDelay())
		}
	}
	return transcat.LocaleCatalog{}, lastErr
}

// LoadAll loads every catalog in the directory.
func (l *DirLoader) LoadAll() ([]transcat.LocaleCatalog, error) {
	locales, err := l.Locales()
	if err != nil {
		return nil, err
	}
	catalogs := make([]transcat.LocaleCatalog, 0, len(locales))
	for _, locale := range locales {
		cat, err := l.LoadCatalog(locale)
		if err != nil {
			return nil, err
		}
		catalogs = append(catalogs, cat)
	}
	return catalogs, nil
}

func (l *DirLoader) readCatalog(locale string) (transcat.LocaleCatalog, error) {
	for _, ext := range extensions {
		path := filepath.Join(l.Dir, locale+ext)
		data, err := ioutil.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return transcat.LocaleCatalog{}, fmt.Errorf("loader: read %s: %w", path, err)
		}
		root, err := Decode(data, ext)
		if err != nil {
			return transcat.LocaleCatalog{}, fmt.Errorf("loader: %s: %w", path, err)
		}
		return transcat.LocaleCatalog{Locale: locale, Root: root}, nil
	}
	return transcat.LocaleCatalog{}, fmt.Errorf("loader: no catalog file for locale %q in %s", locale, l.Dir)
}

func (l *DirLoader) retries() int {
	if l.Retries < 0 {
		return 0
	}
	return l.Retries
}

func (l *DirLoader) retryDelay() time.Duration {
	if l.RetryDelay <= 0 {
		return 50 * time.Millisecond
	}
	return l.RetryDelay
}

// Decode parses catalog bytes in the named format (".yaml", ".yml" or
// ".json") into a Branch tree.
func Decode(data []byte, format string) (transcat.Branch, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "yaml", "yml":
		return DecodeYAML(data)
	case "json":
		return DecodeJSON(data)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
}

// DecodeYAML parses a YAML document into a Branch tree.
func DecodeYAML(data []byte) (transcat.Branch, error) {
	var raw map[interface{}]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	converted := yamlMap(raw)
	if converted == nil {
		return nil, fmt.Errorf("non-string mapping key at catalog root")
	}
	return branchOf(nil, converted)
}

// DecodeJSON parses a JSON object into a Branch tree.
func DecodeJSON(data []byte) (transcat.Branch, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return branchOf(nil, raw)
}

// branchOf converts one raw mapping level into a Branch, classifying each
// child per the wire format.
func branchOf(path transcat.KeyPath, raw map[string]interface{}) (transcat.Branch, error) {
	branch := make(transcat.Branch, len(raw))
	for name, value := range raw {
		child := path.Child(name)
		node, err := nodeOf(child, value)
		if err != nil {
			return nil, err
		}
		branch[name] = node
	}
	return branch, nil
}

func nodeOf(path transcat.KeyPath, value interface{}) (transcat.Node, error) {
	switch typed := value.(type) {
	case string:
		return transcat.Leaf(typed), nil
	case map[string]interface{}:
		if group, ok := pluralGroupOf(typed); ok {
			return group, nil
		}
		return branchOf(path, typed)
	case map[interface{}]interface{}:
		converted := yamlMap(typed)
		if converted == nil {
			return nil, fmt.Errorf("non-string mapping key at %q", path.String())
		}
		if group, ok := pluralGroupOf(converted); ok {
			return group, nil
		}
		return branchOf(path, converted)
	default:
		return nil, fmt.Errorf("unsupported value %T at %q (templates must be strings)", value, path.String())
	}
}

// pluralGroupOf treats a mapping as a PluralGroup when every key names a
// plural category and every value is a string template.
func pluralGroupOf(raw map[string]interface{}) (transcat.PluralGroup, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	group := make(transcat.PluralGroup, len(raw))
	for name, value := range raw {
		if !transcat.IsForm(name) {
			return nil, false
		}
		template, ok := value.(string)
		if !ok {
			return nil, false
		}
		group[transcat.Form(name)] = template
	}
	return group, true
}

// yamlMap converts yaml.v2's interface-keyed maps to string-keyed ones.
// Returns nil when a key is not a string.
func yamlMap(raw map[interface{}]interface{}) map[string]interface{} {
	converted := make(map[string]interface{}, len(raw))
	for key, value := range raw {
		name, ok := key.(string)
		if !ok {
			return nil
		}
		converted[name] = value
	}
	return converted
}

func localeOfFile(name string) (string, bool) {
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return transcat.NormalizeLocale(strings.TrimSuffix(name, ext)), true
		}
	}
	return "", false
}
