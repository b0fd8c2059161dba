package transcat

import (
	"reflect"
	"testing"
)

func mustSchema(t *testing.T, cat LocaleCatalog) *Schema {
	t.Helper()
	schema, err := BuildSchema(cat)
	if err != nil {
		t.Fatal(err)
	}
	return schema
}

func TestCheck_identicalSchemas(t *testing.T) {
	en := mustSchema(t, LocaleCatalog{
		Locale: "en",
		Root: Branch{
			"user": Branch{"profile": Branch{"greeting": Leaf("Hello, {{name}}!")}},
		},
	})
	es := mustSchema(t, LocaleCatalog{
		Locale: "es",
		Root: Branch{
			"user": Branch{"profile": Branch{"greeting": Leaf("¡Hola, {{name}}!")}},
		},
	})

	report := Check(en, es, "es")
	if !report.Empty() {
		t.Errorf("expected empty report, got:\n%s", report.String())
	}
}

func TestCheck_missingKey(t *testing.T) {
	en := mustSchema(t, LocaleCatalog{
		Locale: "en",
		Root: Branch{
			"user": Branch{"profile": Branch{"greeting": Leaf("Hello, {{name}}!")}},
		},
	})
	es := mustSchema(t, LocaleCatalog{
		Locale: "es",
		Root: Branch{
			"user": Branch{"profile": Branch{}},
		},
	})

	report := Check(en, es, "es")
	if len(report.Divergences) != 1 {
		t.Fatalf("expected exactly one divergence, got:\n%s", report.String())
	}
	d := report.Divergences[0]
	if d.Kind != MissingKey || d.Path != "user.profile.greeting" || d.Locale != "es" {
		t.Errorf("divergence = %+v", d)
	}
	if !report.Blocking() {
		t.Error("missing key must be blocking")
	}
}

func TestCheck_symmetry(t *testing.T) {
	a := mustSchema(t, LocaleCatalog{
		Locale: "en",
		Root:   Branch{"only_a": Leaf("A"), "shared": Leaf("S")},
	})
	b := mustSchema(t, LocaleCatalog{
		Locale: "es",
		Root:   Branch{"only_b": Leaf("B"), "shared": Leaf("S")},
	})

	ab := Check(a, b, "es")
	ba := Check(b, a, "en")

	pathsOf := func(r *Report, kind DivergenceKind) []string {
		var paths []string
		for _, d := range r.Divergences {
			if d.Kind == kind {
				paths = append(paths, d.Path)
			}
		}
		return paths
	}

	if !reflect.DeepEqual(pathsOf(ab, MissingKey), pathsOf(ba, ExtraKey)) {
		t.Errorf("missing(ab)=%v extra(ba)=%v", pathsOf(ab, MissingKey), pathsOf(ba, ExtraKey))
	}
	if !reflect.DeepEqual(pathsOf(ab, ExtraKey), pathsOf(ba, MissingKey)) {
		t.Errorf("extra(ab)=%v missing(ba)=%v", pathsOf(ab, ExtraKey), pathsOf(ba, MissingKey))
	}
}

func TestCheck_idempotent(t *testing.T) {
	en := mustSchema(t, testCatalog("en"))
	es := mustSchema(t, LocaleCatalog{
		Locale: "es",
		Root: Branch{
			"user": Branch{"profile": Branch{"greeting": Leaf("Hola, {{nombre}}")}},
		},
	})

	first := Check(en, es, "es").String()
	second := Check(en, es, "es").String()
	if first != second {
		t.Errorf("reports differ:\n%s\nvs\n%s", first, second)
	}
}

func TestCheck_kindMismatch(t *testing.T) {
	en := mustSchema(t, LocaleCatalog{
		Locale: "en",
		Root:   Branch{"reviews": PluralGroup{FormOther: "{{count}} reviews"}},
	})
	es := mustSchema(t, LocaleCatalog{
		Locale: "es",
		Root:   Branch{"reviews": Leaf("Reseñas")},
	})

	report := Check(en, es, "es")
	if len(report.Divergences) != 1 || report.Divergences[0].Kind != KindMismatch {
		t.Errorf("report = %s", report.String())
	}
}

func TestCheck_parameterMismatch(t *testing.T) {
	en := mustSchema(t, LocaleCatalog{
		Locale: "en",
		Root:   Branch{"greeting": Leaf("Hello, {{name}}!")},
	})
	dropped := mustSchema(t, LocaleCatalog{
		Locale: "es",
		Root:   Branch{"greeting": Leaf("Hola")},
	})
	retyped := mustSchema(t, LocaleCatalog{
		Locale: "fr",
		Root:   Branch{"greeting": Leaf("Bonjour {{num:name}} {{name}}")},
	})

	report := Check(en, dropped, "es")
	if len(report.Divergences) != 1 || report.Divergences[0].Kind != ParameterMismatch {
		t.Errorf("dropped param report = %s", report.String())
	}

	// ParamAny in the reference unifies with an explicit kind: not a mismatch.
	report = Check(en, retyped, "fr")
	if !report.Empty() {
		t.Errorf("any-vs-number should not diverge:\n%s", report.String())
	}

	enTyped := mustSchema(t, LocaleCatalog{
		Locale: "en",
		Root:   Branch{"total": Leaf("{{num:amount}}")},
	})
	esTyped := mustSchema(t, LocaleCatalog{
		Locale: "es",
		Root:   Branch{"total": Leaf("{{date:amount}}")},
	})
	report = Check(enTyped, esTyped, "es")
	if len(report.Divergences) != 1 || report.Divergences[0].Kind != ParameterMismatch {
		t.Errorf("retyped param report = %s", report.String())
	}
}

func TestCheck_extraCandidateParamIsNotADivergence(t *testing.T) {
	en := mustSchema(t, LocaleCatalog{
		Locale: "en",
		Root:   Branch{"greeting": Leaf("Hello")},
	})
	es := mustSchema(t, LocaleCatalog{
		Locale: "es",
		Root:   Branch{"greeting": Leaf("Hola, {{nombre}}")},
	})
	if report := Check(en, es, "es"); !report.Empty() {
		t.Errorf("candidate-only params must not diverge:\n%s", report.String())
	}
}

func TestCheck_missingOtherForm(t *testing.T) {
	en := mustSchema(t, LocaleCatalog{
		Locale: "en",
		Root:   Branch{"reviews": PluralGroup{FormOne: "1 review", FormOther: "{{count}} reviews"}},
	})
	es := mustSchema(t, LocaleCatalog{
		Locale: "es",
		Root:   Branch{"reviews": PluralGroup{FormOne: "1 reseña"}},
	})

	report := Check(en, es, "es")
	found := false
	for _, d := range report.Divergences {
		if d.Kind == MissingOtherForm && d.Path == "reviews" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected missing_other_form divergence:\n%s", report.String())
	}
	if !report.Blocking() {
		t.Error("missing other form must be blocking")
	}
}

func TestSelfCheck(t *testing.T) {
	ok := mustSchema(t, testCatalog("en"))
	if report := SelfCheck(ok); !report.Empty() {
		t.Errorf("expected clean self-check:\n%s", report.String())
	}

	bad := mustSchema(t, LocaleCatalog{
		Locale: "en",
		Root:   Branch{"reviews": PluralGroup{FormOne: "1 review"}},
	})
	report := SelfCheck(bad)
	if report.Empty() || report.Divergences[0].Kind != MissingOtherForm {
		t.Errorf("self-check report = %s", report.String())
	}
}

func TestReport_sortedOutput(t *testing.T) {
	en := mustSchema(t, LocaleCatalog{
		Locale: "en",
		Root:   Branch{"b": Leaf("B"), "a": Leaf("A"), "c": Leaf("C")},
	})
	es := mustSchema(t, LocaleCatalog{
		Locale: "es",
		Root:   Branch{},
	})

	report := Check(en, es, "es")
	var paths []string
	for _, d := range report.Divergences {
		paths = append(paths, d.Path)
	}
	if !reflect.DeepEqual(paths, []string{"a", "b", "c"}) {
		t.Errorf("paths not sorted: %v", paths)
	}
}
