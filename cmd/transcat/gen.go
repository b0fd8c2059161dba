package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/loopcontext/transcat"
	"github.com/loopcontext/transcat/loader"
)

// genConfig holds flags for the gen command.
type genConfig struct {
	dir string
	ref string
	out string
	pkg string
}

func usageGen() {
	fmt.Fprintf(os.Stderr, `usage: transcat gen [options]

Gen emits a Go source file of typed accessors derived from the reference
locale's schema: a key constant per message plus a function whose signature
carries the parameters the message requires (and a quantity for plural keys).
Application code calling through the accessors cannot misspell a key or omit
a required parameter without failing to compile.

Flags:
`)
	flag.CommandLine.PrintDefaults()
}

func parseGenFlags(args []string) (*genConfig, error) {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	fs.Usage = usageGen
	var cfg genConfig
	fs.StringVar(&cfg.dir, "dir", "./resources/catalogs", "Directory containing <locale>.yaml|yml|json catalog files.")
	fs.StringVar(&cfg.ref, "ref", "en", "Reference locale tag to generate from.")
	fs.StringVar(&cfg.out, "out", "", "Output file (default stdout).")
	fs.StringVar(&cfg.pkg, "pkg", "messages", "Package name for the generated file.")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func runGen(cfg *genConfig) error {
	l := &loader.DirLoader{Dir: cfg.dir}
	cat, err := l.LoadCatalog(cfg.ref)
	if err != nil {
		return err
	}
	schema, err := transcat.BuildSchema(cat)
	if err != nil {
		return err
	}
	src, err := generateAccessors(schema, cfg.pkg)
	if err != nil {
		return err
	}
	if cfg.out == "" {
		_, err = os.Stdout.Write(src)
		return err
	}
	return os.WriteFile(cfg.out, src, 0o644)
}

// generateAccessors renders the accessor source for every message entry of a
// schema, in sorted key order.
func generateAccessors(schema *transcat.Schema, pkg string) ([]byte, error) {
	type accessor struct {
		name  string
		key   string
		entry *transcat.Entry
	}

	var (
		accessors []accessor
		needsTime bool
		seen      = map[string]string{}
	)
	for _, key := range schema.Keys() {
		entry, _ := schema.Lookup(key)
		if entry.Kind == transcat.KindBranch {
			continue
		}
		name := exportIdent(key)
		if name == "" || unicode.IsDigit(rune(name[0])) {
			name = "X" + name
		}
		if prev, dup := seen[name]; dup {
			return nil, fmt.Errorf("gen: keys %q and %q map to the same accessor %s", prev, key, name)
		}
		seen[name] = key
		accessors = append(accessors, accessor{name: name, key: key, entry: entry})
		for _, param := range entry.Contract.Params() {
			if param.Kind == transcat.ParamDate {
				needsTime = true
			}
		}
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "// Code generated by transcat gen from the %q catalog. DO NOT EDIT.\n\n", schema.Locale)
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	b.WriteString("import (\n")
	if needsTime {
		b.WriteString("\t\"time\"\n\n")
	}
	b.WriteString("\t\"github.com/loopcontext/transcat\"\n)\n\n")

	b.WriteString("const (\n")
	for _, acc := range accessors {
		fmt.Fprintf(&b, "\tKey%s = %q\n", acc.name, acc.key)
	}
	b.WriteString(")\n")

	for _, acc := range accessors {
		writeAccessorFunc(&b, acc.name, acc.entry)
	}
	return b.Bytes(), nil
}

func writeAccessorFunc(b *bytes.Buffer, name string, entry *transcat.Entry) {
	plural := entry.Kind == transcat.KindPlural

	var args, fields []string
	for _, param := range entry.Contract.Params() {
		if plural && param.Name == "count" {
			// Injected from the quantity argument.
			continue
		}
		ident := paramIdent(param.Name)
		args = append(args, ident+" "+paramType(param.Kind))
		fields = append(fields, fmt.Sprintf("%q: %s", param.Name, ident))
	}

	fmt.Fprintf(b, "\n// %s translates %q.\n", name, entry.Path.String())
	if plural {
		fmt.Fprintf(b, "func %s(e *transcat.Engine, locale string, quantity int%s) (string, error) {\n",
			name, prefixEach(args))
		fmt.Fprintf(b, "\treturn e.TranslateN(locale, Key%s, quantity, %s)\n", name, paramsLiteral(fields))
	} else {
		fmt.Fprintf(b, "func %s(e *transcat.Engine, locale string%s) (string, error) {\n",
			name, prefixEach(args))
		fmt.Fprintf(b, "\treturn e.Translate(locale, Key%s, %s)\n", name, paramsLiteral(fields))
	}
	b.WriteString("}\n")
}

func prefixEach(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return ", " + strings.Join(args, ", ")
}

func paramsLiteral(fields []string) string {
	if len(fields) == 0 {
		return "nil"
	}
	return "transcat.Params{" + strings.Join(fields, ", ") + "}"
}

func paramType(kind transcat.ParamKind) string {
	switch kind {
	case transcat.ParamNumber:
		return "float64"
	case transcat.ParamDate:
		return "time.Time"
	default:
		return "interface{}"
	}
}

// exportIdent mangles a dotted key into an exported identifier:
// "user.profile.greeting" -> "UserProfileGreeting".
func exportIdent(key string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// goKeywords blocks parameter identifiers that would not compile.
var goKeywords = map[string]struct{}{
	"break": {}, "case": {}, "chan": {}, "const": {}, "continue": {},
	"default": {}, "defer": {}, "else": {}, "fallthrough": {}, "for": {},
	"func": {}, "go": {}, "goto": {}, "if": {}, "import": {},
	"interface": {}, "map": {}, "package": {}, "range": {}, "return": {},
	"select": {}, "struct": {}, "switch": {}, "type": {}, "var": {},
}

// paramIdent mangles a parameter name into an unexported identifier.
func paramIdent(name string) string {
	ident := exportIdent(name)
	if ident == "" {
		return "param"
	}
	ident = string(unicode.ToLower(rune(ident[0]))) + ident[1:]
	if _, reserved := goKeywords[ident]; reserved {
		return ident + "Arg"
	}
	return ident
}
