package docscmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-docsite/internal/commands"
	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

const (
	refreshOperation = "docs.refresh_tree"
	reindexOperation = "docs.reindex_search"
)

var (
	_ command.Commander[RefreshTreeCommand]   = (*RefreshTreeHandler)(nil)
	_ command.Commander[ReindexSearchCommand] = (*ReindexSearchHandler)(nil)
)

// TreeRefresher is the slice of the docsite module the refresh handler needs.
type TreeRefresher interface {
	Refresh(ctx context.Context) error
}

// SearchReindexer rebuilds the search index from the live tree snapshot.
type SearchReindexer interface {
	Reindex(ctx context.Context) error
}

// RefreshTreeHandler orchestrates full document tree rescans.
type RefreshTreeHandler struct {
	inner *commands.Handler[RefreshTreeCommand]
}

// NewRefreshTreeHandler creates a handler bound to the supplied refresher.
// The search reindexer may be nil when search is disabled.
func NewRefreshTreeHandler(tree TreeRefresher, index SearchReindexer, logger interfaces.Logger, opts ...commands.HandlerOption[RefreshTreeCommand]) *RefreshTreeHandler {
	if tree == nil {
		panic("docscmd: tree refresher cannot be nil")
	}

	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg RefreshTreeCommand) error {
		if err := tree.Refresh(ctx); err != nil {
			return err
		}
		if index != nil {
			if err := index.Reindex(ctx); err != nil {
				return err
			}
		}
		logging.WithFields(baseLogger, map[string]any{
			"reason": msg.Reason,
		}).Info("docs.command.refresh_tree.completed")
		return nil
	}

	handlerOpts := append([]commands.HandlerOption[RefreshTreeCommand]{
		commands.WithLogger[RefreshTreeCommand](baseLogger),
		commands.WithOperation[RefreshTreeCommand](refreshOperation),
	}, opts...)

	return &RefreshTreeHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute implements command.Commander.
func (h *RefreshTreeHandler) Execute(ctx context.Context, msg RefreshTreeCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ReindexSearchHandler rebuilds the search index on demand.
type ReindexSearchHandler struct {
	inner *commands.Handler[ReindexSearchCommand]
}

// NewReindexSearchHandler creates a handler bound to the supplied reindexer.
func NewReindexSearchHandler(index SearchReindexer, logger interfaces.Logger, opts ...commands.HandlerOption[ReindexSearchCommand]) *ReindexSearchHandler {
	if index == nil {
		panic("docscmd: search reindexer cannot be nil")
	}

	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ReindexSearchCommand) error {
		if err := index.Reindex(ctx); err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"reason": msg.Reason,
		}).Info("docs.command.reindex_search.completed")
		return nil
	}

	handlerOpts := append([]commands.HandlerOption[ReindexSearchCommand]{
		commands.WithLogger[ReindexSearchCommand](baseLogger),
		commands.WithOperation[ReindexSearchCommand](reindexOperation),
	}, opts...)

	return &ReindexSearchHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute implements command.Commander.
func (h *ReindexSearchHandler) Execute(ctx context.Context, msg ReindexSearchCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CommandRegistry is the minimal registration contract expected when wiring
// command handlers into a host dispatcher.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the handlers produced by RegisterDocsCommands.
type HandlerSet struct {
	Refresh *RefreshTreeHandler
	Reindex *ReindexSearchHandler
}

// RegisterDocsCommands builds the documentation command handlers and
// registers them with the provided registry. The returned HandlerSet lets
// callers wire additional integrations (dispatcher, cron) as needed.
func RegisterDocsCommands(reg CommandRegistry, tree TreeRefresher, index SearchReindexer, provider interfaces.LoggerProvider) (*HandlerSet, error) {
	if tree == nil {
		return nil, errors.New("docs command registration: tree refresher is nil")
	}

	logger := commands.CommandLogger(provider, "docs")

	refreshHandler := NewRefreshTreeHandler(tree, index, logger)

	set := &HandlerSet{Refresh: refreshHandler}
	if index != nil {
		set.Reindex = NewReindexSearchHandler(index, logger)
	}

	if reg != nil {
		if err := reg.RegisterCommand(refreshHandler); err != nil {
			return nil, err
		}
		if set.Reindex != nil {
			if err := reg.RegisterCommand(set.Reindex); err != nil {
				return nil, err
			}
		}
	}

	return set, nil
}
