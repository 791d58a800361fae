package template_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-view/pkg/render/template/gotemplate"
	"github.com/goliatone/go-view/pkg/testsupport"
)

var templatesRoot = filepath.Join("testdata", "templates")

func TestGoTemplateEngine_Execute(t *testing.T) {
	engine := newEngine(t)

	_, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return "", engine.Execute(w, templatesRoot, "hello.tpl", map[string]any{"name": "Ada"})
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "hello.golden"))
	if written != want {
		t.Fatalf("execute template mismatch\nwant: %q\n got: %q", want, written)
	}
}

func TestGoTemplateEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	got := execute(t, engine, "use-global.tpl", nil)

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-global.golden"))
	if got != want {
		t.Fatalf("execute template mismatch\nwant: %q\n got: %q", want, got)
	}

	shadowed := execute(t, engine, "use-global.tpl", map[string]any{
		"settings": map[string]any{"env": "local"},
	})
	if shadowed != "env=local" {
		t.Fatalf("render data should shadow globals, got %q", shadowed)
	}
}

func TestGoTemplateEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) { return input, nil }); err == nil {
		t.Fatalf("expected duplicate filter registration to fail")
	}

	got := execute(t, engine, "use-filter.tpl", map[string]any{"name": "Ada"})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-filter.golden"))
	if got != want {
		t.Fatalf("execute template mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestGoTemplateEngine_IncludeResolvesAgainstRoot(t *testing.T) {
	engine := newEngine(t)

	got := execute(t, engine, "list.tpl", map[string]any{"items": []string{"Alpha", "Beta"}})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "list.golden"))
	if got != want {
		t.Fatalf("execute template mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestGoTemplateEngine_SanitizeFunction(t *testing.T) {
	engine := newEngine(t)

	got := execute(t, engine, "sanitize.tpl", map[string]any{
		"html": `<b>bold</b><script>alert(1)</script>`,
	})
	if got != "<b>bold</b>" {
		t.Fatalf("sanitize filter output: %q", got)
	}
}

func TestGoTemplateEngine_SanitizePolicyIsPerEngine(t *testing.T) {
	lenient := newEngine(t)
	strict, err := gotemplate.New(gotemplate.WithSanitizePolicy(bluemonday.StrictPolicy()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	data := map[string]any{"html": "<b>bold</b>"}
	if got := execute(t, strict, "sanitize.tpl", data); got != "bold" {
		t.Fatalf("strict sanitize output: %q", got)
	}
	if got := execute(t, lenient, "sanitize.tpl", data); got != "<b>bold</b>" {
		t.Fatalf("default sanitize output changed by another engine: %q", got)
	}
}

func TestGoTemplateEngine_ContentIsNotEscapedAgain(t *testing.T) {
	engine := newEngine(t)
	root := testsupport.WriteTemplates(t, map[string]string{
		"layout.tpl": "<main>{{ content }}</main><p>{{ title }}</p>",
	})

	var buf bytes.Buffer
	err := engine.Execute(&buf, root, "layout.tpl", map[string]any{
		"content": "<p>Hello</p>",
		"title":   "<i>x</i>",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	want := "<main><p>Hello</p></main><p>&lt;i&gt;x&lt;/i&gt;</p>"
	if buf.String() != want {
		t.Fatalf("layout output mismatch\nwant: %q\n got: %q", want, buf.String())
	}
}

func TestGoTemplateEngine_WithSafeKeys(t *testing.T) {
	engine, err := gotemplate.New(gotemplate.WithSafeKeys("body"))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	root := testsupport.WriteTemplates(t, map[string]string{
		"page.tpl": "{{ body }}|{{ content }}",
	})

	var buf bytes.Buffer
	err = engine.Execute(&buf, root, "page.tpl", map[string]any{
		"body":    "<b>a</b>",
		"content": "<b>b</b>",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	want := "<b>a</b>|&lt;b&gt;b&lt;/b&gt;"
	if buf.String() != want {
		t.Fatalf("safe keys output mismatch\nwant: %q\n got: %q", want, buf.String())
	}
}

func TestGoTemplateEngine_FunctionErrorPropagates(t *testing.T) {
	engine := newEngine(t)
	boom := errors.New("boom")

	var buf bytes.Buffer
	err := engine.Execute(&buf, templatesRoot, "fail.tpl", map[string]any{
		"fail": func() (string, error) { return "", boom },
	})
	if err == nil {
		t.Fatalf("expected execution error")
	}
	var tplErr *pongo2.Error
	if !errors.As(err, &tplErr) {
		t.Fatalf("expected *pongo2.Error, got %T: %v", err, err)
	}
	if tplErr.OrigError == nil || !strings.Contains(tplErr.OrigError.Error(), "boom") {
		t.Fatalf("expected OrigError to carry the cause message, got %v", tplErr.OrigError)
	}
	if errors.Is(err, boom) {
		t.Fatalf("pongo2 is not expected to keep the error chain")
	}
}

func TestGoTemplateEngine_FunctionMayUpdateGlobals(t *testing.T) {
	engine := newEngine(t)
	root := testsupport.WriteTemplates(t, map[string]string{
		"remember.tpl": "{{ remember() }}",
		"recall.tpl":   "{{ seen }}",
	})

	remember := func() (string, error) {
		return "ok", engine.GlobalContext(map[string]any{"seen": "yes"})
	}

	done := make(chan error, 1)
	go func() {
		var buf bytes.Buffer
		done <- engine.Execute(&buf, root, "remember.tpl", map[string]any{"remember": remember})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("execute: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("template function calling GlobalContext did not return")
	}

	var buf bytes.Buffer
	if err := engine.Execute(&buf, root, "recall.tpl", nil); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if buf.String() != "yes" {
		t.Fatalf("expected global set from template function, got %q", buf.String())
	}
}

func TestGoTemplateEngine_ReadsTemplateOnEveryCall(t *testing.T) {
	engine := newEngine(t)
	root := testsupport.WriteTemplates(t, map[string]string{"page.tpl": "v1"})

	var first bytes.Buffer
	if err := engine.Execute(&first, root, "page.tpl", nil); err != nil {
		t.Fatalf("first execute: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "page.tpl"), []byte("v2"), 0o644); err != nil {
		t.Fatalf("rewrite template: %v", err)
	}
	var second bytes.Buffer
	if err := engine.Execute(&second, root, "page.tpl", nil); err != nil {
		t.Fatalf("second execute: %v", err)
	}
	if first.String() != "v1" || second.String() != "v2" {
		t.Fatalf("expected v1 then v2, got %q then %q", first.String(), second.String())
	}
}

func TestGoTemplateEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)

	var buf bytes.Buffer
	err := engine.Execute(&buf, templatesRoot, "nope.tpl", nil)
	if err == nil || !strings.Contains(err.Error(), "gotemplate: load template") {
		t.Fatalf("expected load error, got %v", err)
	}
}

func TestGoTemplateEngine_TemplateFuncOption(t *testing.T) {
	engine, err := gotemplate.New(gotemplate.WithTemplateFunc(map[string]any{
		"greet": func(name string) string { return "hi " + name },
	}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	root := testsupport.WriteTemplates(t, map[string]string{"greet.tpl": `{{ greet("Ada") }}`})

	var buf bytes.Buffer
	if err := engine.Execute(&buf, root, "greet.tpl", nil); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if buf.String() != "hi Ada" {
		t.Fatalf("template func output: %q", buf.String())
	}

	if _, err := gotemplate.New(gotemplate.WithTemplateFunc(map[string]any{"bad": 42})); err == nil {
		t.Fatalf("expected non-function template func to fail")
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	engine, err := gotemplate.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func execute(t *testing.T, engine *gotemplate.Engine, name string, data map[string]any) string {
	t.Helper()

	var buf bytes.Buffer
	if err := engine.Execute(&buf, templatesRoot, name, data); err != nil {
		t.Fatalf("execute %s: %v", name, err)
	}
	return buf.String()
}
