package sync

import (
	"time"

	"github.com/sidkik/libsync/pkg/galaxy"
	"github.com/sidkik/libsync/pkg/manifest"
)

// Reason explains why a dataset is or isn't synced.
type Reason string

const (
	// ReasonNew means the dataset has no library yet.
	ReasonNew Reason = "new"

	// ReasonModified means the dataset was transferred after its library was
	// created.
	ReasonModified Reason = "modified since last sync"

	// ReasonStale means the library is at least as new as the transfer.
	ReasonStale Reason = "already transferred"

	// ReasonForced means the dataset is stale, but syncing was forced.
	ReasonForced Reason = "forced"

	// ReasonNotSelected means the dataset was filtered out by name.
	ReasonNotSelected Reason = "not selected"
)

// Decision is the outcome of comparing one dataset with its library.
type Decision struct {
	Dataset     string
	Transferred time.Time

	// Library is the existing library for the dataset, if any.
	Library *galaxy.Library

	Sync   bool
	Reason Reason
}

// Plan holds a Decision for every dataset, sorted by dataset name.
type Plan []Decision

// SelectModified decides which datasets need to be synced. A dataset's
// library is the first library with the same name.
func SelectModified(datasets manifest.Datasets, libs []galaxy.Library) Plan {
	libsByName := map[string]*galaxy.Library{}
	for i := range libs {
		if _, ok := libsByName[libs[i].Name]; !ok {
			libsByName[libs[i].Name] = &libs[i]
		}
	}

	var plan Plan
	for _, name := range datasets.Names() {
		decision := Decision{
			Dataset:     name,
			Transferred: datasets[name],
			Library:     libsByName[name],
		}

		switch {
		case decision.Library == nil:
			decision.Sync, decision.Reason = true, ReasonNew
		case decision.Transferred.After(decision.Library.CreateTime.Time):
			decision.Sync, decision.Reason = true, ReasonModified
		default:
			decision.Reason = ReasonStale
		}
		plan = append(plan, decision)
	}
	return plan
}

// Only returns a copy of the plan where datasets not in `names` are never
// synced. An empty list selects every dataset.
func (plan Plan) Only(names []string) Plan {
	if len(names) == 0 {
		return plan
	}

	selected := map[string]struct{}{}
	for _, name := range names {
		selected[name] = struct{}{}
	}

	filtered := make(Plan, 0, len(plan))
	for _, decision := range plan {
		if _, ok := selected[decision.Dataset]; !ok {
			decision.Sync, decision.Reason = false, ReasonNotSelected
		}
		filtered = append(filtered, decision)
	}
	return filtered
}

// Force returns a copy of the plan where stale datasets are synced anyway.
func (plan Plan) Force() Plan {
	forced := make(Plan, 0, len(plan))
	for _, decision := range plan {
		if decision.Reason == ReasonStale {
			decision.Sync, decision.Reason = true, ReasonForced
		}
		forced = append(forced, decision)
	}
	return forced
}

// ToSync returns the decisions for the datasets that will be synced.
func (plan Plan) ToSync() (toSync []Decision) {
	for _, decision := range plan {
		if decision.Sync {
			toSync = append(toSync, decision)
		}
	}
	return toSync
}

// Skipped returns the decisions for the datasets that won't be synced.
func (plan Plan) Skipped() (skipped []Decision) {
	for _, decision := range plan {
		if !decision.Sync {
			skipped = append(skipped, decision)
		}
	}
	return skipped
}

// Unknown returns the names in `names` that aren't in the plan.
func (plan Plan) Unknown(names []string) (unknown []string) {
	known := map[string]struct{}{}
	for _, decision := range plan {
		known[decision.Dataset] = struct{}{}
	}
	for _, name := range names {
		if _, ok := known[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}
