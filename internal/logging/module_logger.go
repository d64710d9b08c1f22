package logging

import (
	"context"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

const (
	rootModule     = "docsite"
	treeModule     = "docsite.tree"
	renderModule   = "docsite.render"
	searchModule   = "docsite.search"
	watchModule    = "docsite.watch"
	httpModule     = "docsite.http"
	commandsModule = "docsite.commands"
)

const (
	fieldDocPath    = "doc_path"
	fieldSourceFile = "source_file"
	fieldBuildID    = "build_id"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// TreeLogger returns the logger namespace reserved for document tree scans.
func TreeLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, treeModule)
}

// RenderLogger returns the logger namespace reserved for markdown rendering.
func RenderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, renderModule)
}

// SearchLogger returns the logger namespace reserved for the search index.
func SearchLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, searchModule)
}

// WatchLogger returns the logger namespace reserved for the reload watcher.
func WatchLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, watchModule)
}

// HTTPLogger returns the logger namespace reserved for the HTTP surface.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// CommandsLogger returns the logger namespace reserved for command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithDocumentContext enriches the provided logger with common document fields
// such as URL path, source file, and tree build id. Empty values are ignored.
func WithDocumentContext(logger interfaces.Logger, path, sourceFile, buildID string) interfaces.Logger {
	fields := map[string]any{}
	if path != "" {
		fields[fieldDocPath] = path
	}
	if sourceFile != "" {
		fields[fieldSourceFile] = sourceFile
	}
	if buildID != "" {
		fields[fieldBuildID] = buildID
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
