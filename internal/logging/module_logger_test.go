package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

type recordingLogger struct {
	fields map[string]any
	names  []string
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger { return r }

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := make(map[string]any, len(r.fields)+len(fields))
	for k, v := range r.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &recordingLogger{fields: merged}
}

type recordingProvider struct {
	logger *recordingLogger
}

func (p *recordingProvider) GetLogger(name string) interfaces.Logger {
	p.logger.names = append(p.logger.names, name)
	return p.logger
}

func TestModuleLoggerAttachesModuleField(t *testing.T) {
	provider := &recordingProvider{logger: &recordingLogger{}}

	logger := ModuleLogger(provider, "docsite.tree")

	rec, ok := logger.(*recordingLogger)
	if !ok {
		t.Fatalf("expected fields-capable logger, got %T", logger)
	}
	if rec.fields["module"] != "docsite.tree" {
		t.Fatalf("expected module field, got %+v", rec.fields)
	}
	if len(provider.logger.names) != 1 || provider.logger.names[0] != "docsite.tree" {
		t.Fatalf("expected scoped lookup, got %v", provider.logger.names)
	}
}

func TestModuleLoggerDefaultsWithoutProvider(t *testing.T) {
	logger := ModuleLogger(nil, "")
	if logger == nil {
		t.Fatal("expected a usable logger")
	}
	// must not panic
	logger.Info("noop sink")
}

func TestNamespaceHelpers(t *testing.T) {
	provider := &recordingProvider{logger: &recordingLogger{}}

	TreeLogger(provider)
	SearchLogger(provider)
	HTTPLogger(provider)

	want := []string{"docsite.tree", "docsite.search", "docsite.http"}
	if len(provider.logger.names) != len(want) {
		t.Fatalf("expected %d lookups, got %v", len(want), provider.logger.names)
	}
	for i, name := range want {
		if provider.logger.names[i] != name {
			t.Fatalf("expected %q, got %q", name, provider.logger.names[i])
		}
	}
}

func TestWithDocumentContextSkipsEmptyValues(t *testing.T) {
	base := &recordingLogger{}

	logger := WithDocumentContext(base, "guides/install", "", "abc-123")

	rec, ok := logger.(*recordingLogger)
	if !ok {
		t.Fatalf("expected fields-capable logger, got %T", logger)
	}
	if rec.fields["doc_path"] != "guides/install" || rec.fields["build_id"] != "abc-123" {
		t.Fatalf("unexpected fields %+v", rec.fields)
	}
	if _, present := rec.fields["source_file"]; present {
		t.Fatal("empty source file should be omitted")
	}
}

func TestWithFieldsFallsBackForPlainLoggers(t *testing.T) {
	plain := NoOp()
	if got := WithFields(plain, map[string]any{"k": "v"}); got == nil {
		t.Fatal("expected the original logger back")
	}

	if got := WithFields(nil, map[string]any{"k": "v"}); got != nil {
		t.Fatal("nil logger should stay nil")
	}
	base := &recordingLogger{}
	if got := WithFields(base, nil); got != base {
		t.Fatal("empty fields should return the logger unchanged")
	}
}
