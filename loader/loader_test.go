package loader

import (
	"io/ioutil"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/loopcontext/transcat"
)

const yamlCatalog = `
user:
  profile:
    greeting: "Hello, {{name}}!"
product:
  reviews:
    zero: "No reviews yet"
    one: "1 review"
    other: "{{count}} reviews"
`

const jsonCatalog = `{
  "user": {
    "profile": {
      "greeting": "¡Hola, {{name}}!"
    }
  },
  "product": {
    "reviews": {
      "one": "1 reseña",
      "other": "{{count}} reseñas"
    }
  }
}`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := ioutil.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDecodeYAML(t *testing.T) {
	root, err := DecodeYAML([]byte(yamlCatalog))
	if err != nil {
		t.Fatal(err)
	}

	profile := root["user"].(transcat.Branch)["profile"].(transcat.Branch)
	if leaf, ok := profile["greeting"].(transcat.Leaf); !ok || string(leaf) != "Hello, {{name}}!" {
		t.Errorf("greeting = %#v", profile["greeting"])
	}

	group, ok := root["product"].(transcat.Branch)["reviews"].(transcat.PluralGroup)
	if !ok {
		t.Fatalf("reviews = %#v", root["product"])
	}
	wantForms := []transcat.Form{transcat.FormZero, transcat.FormOne, transcat.FormOther}
	if !reflect.DeepEqual(group.Forms(), wantForms) {
		t.Errorf("forms = %v", group.Forms())
	}
}

func TestDecodeJSON(t *testing.T) {
	root, err := DecodeJSON([]byte(jsonCatalog))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := root["product"].(transcat.Branch)["reviews"].(transcat.PluralGroup); !ok {
		t.Errorf("reviews not classified as plural group: %#v", root["product"])
	}
}

func TestDecode_classification(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want transcat.NodeKind
	}{
		// Only a mapping made entirely of category names with string
		// values is a plural group.
		{
			"all categories",
			"key:\n  one: a\n  other: b\n",
			transcat.KindPlural,
		},
		{
			"category name plus ordinary key",
			"key:\n  one: a\n  extra: b\n",
			transcat.KindBranch,
		},
		{
			"category names with nested values",
			"key:\n  one:\n    deep: a\n  other: b\n",
			transcat.KindBranch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := DecodeYAML([]byte(tt.yaml))
			if err != nil {
				t.Fatal(err)
			}
			if got := root["key"].Kind(); got != tt.want {
				t.Errorf("kind = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecode_errors(t *testing.T) {
	if _, err := DecodeYAML([]byte("key: 42\n")); err == nil {
		t.Error("numeric template should fail")
	}
	if _, err := DecodeYAML([]byte("1: one\n")); err == nil {
		t.Error("non-string key should fail")
	}
	if _, err := Decode([]byte("a: b"), ".toml"); err == nil {
		t.Error("unsupported format should fail")
	}
}

func TestDirLoader(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "en.yaml", yamlCatalog)
	writeFile(t, dir, "es.json", jsonCatalog)
	writeFile(t, dir, "README.md", "not a catalog")

	l := &DirLoader{Dir: dir}

	locales, err := l.Locales()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(locales, []string{"en", "es"}) {
		t.Errorf("Locales() = %v", locales)
	}

	cat, err := l.LoadCatalog("en")
	if err != nil {
		t.Fatal(err)
	}
	if cat.Locale != "en" {
		t.Errorf("locale = %q", cat.Locale)
	}

	if _, err := l.LoadCatalog("fr"); err == nil {
		t.Error("missing locale should fail")
	}

	catalogs, err := l.LoadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(catalogs) != 2 {
		t.Errorf("LoadAll() = %d catalogs", len(catalogs))
	}
}

func TestDirLoader_feedsEngine(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "en.yaml", yamlCatalog)
	writeFile(t, dir, "es.json", jsonCatalog)

	e := transcat.New(transcat.Config{})
	defer e.Close()

	l := &DirLoader{Dir: dir}
	reports, err := e.LoadFrom(l, "en", "es")
	if err != nil {
		t.Fatal(err)
	}
	if !reports["es"].Empty() {
		t.Errorf("es report:\n%s", reports["es"].String())
	}

	got, err := e.Translate("es", "user.profile.greeting", transcat.Params{"name": "Ada"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "¡Hola, Ada!" {
		t.Errorf("Translate = %q", got)
	}
}

func TestDirLoader_retry(t *testing.T) {
	dir := t.TempDir()
	l := &DirLoader{Dir: dir, Retries: 2, RetryDelay: time.Millisecond}

	if _, err := l.LoadCatalog("en"); err == nil {
		t.Fatal("expected failure for missing file")
	}

	// A file that appears between attempts is picked up by the retry.
	writeErr := make(chan error, 1)
	go func() {
		time.Sleep(500 * time.Microsecond)
		writeErr <- ioutil.WriteFile(filepath.Join(dir, "en.yaml"), []byte(yamlCatalog), 0o644)
	}()
	cat, err := (&DirLoader{Dir: dir, Retries: 50, RetryDelay: 5 * time.Millisecond}).LoadCatalog("en")
	if werr := <-writeErr; werr != nil {
		t.Fatal(werr)
	}
	if err != nil {
		t.Fatal(err)
	}
	if cat.Locale != "en" {
		t.Errorf("locale = %q", cat.Locale)
	}
}
