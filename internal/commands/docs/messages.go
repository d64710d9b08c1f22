// Package docscmd exposes the documentation maintenance operations as
// go-command messages so hosts can trigger them from dispatchers, cron
// registries, or CLI surfaces.
package docscmd

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	refreshTreeMessageType   = "docsite.tree.refresh"
	reindexSearchMessageType = "docsite.search.reindex"
)

// Refresh reasons accepted by command validation.
const (
	ReasonManual   = "manual"
	ReasonWatcher  = "watcher"
	ReasonHTTP     = "http"
	ReasonStartup  = "startup"
	ReasonSchedule = "schedule"
)

// RefreshTreeCommand triggers a full rescan of the documentation directory.
// The Reason is recorded on log entries so operators can tell editor-driven
// reloads from manual ones.
type RefreshTreeCommand struct {
	Reason string `json:"reason"`
}

// Type implements command.Message.
func (RefreshTreeCommand) Type() string { return refreshTreeMessageType }

// Validate ensures the reason is one of the known triggers.
func (cmd RefreshTreeCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Reason,
			validation.Required,
			validation.In(ReasonManual, ReasonWatcher, ReasonHTTP, ReasonStartup, ReasonSchedule),
		),
	)
}

// ReindexSearchCommand rebuilds the search index from the current tree
// snapshot. Refresh handlers dispatch it after a successful rescan.
type ReindexSearchCommand struct {
	Reason string `json:"reason"`
}

// Type implements command.Message.
func (ReindexSearchCommand) Type() string { return reindexSearchMessageType }

// Validate ensures the reason is one of the known triggers.
func (cmd ReindexSearchCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Reason,
			validation.Required,
			validation.In(ReasonManual, ReasonWatcher, ReasonHTTP, ReasonStartup, ReasonSchedule),
		),
	)
}
