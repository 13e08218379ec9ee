package layout

import "log/slog"

// Diff computes the pane-ID set difference between two layout trees.
// Under normal tmux operation exactly one pane is added or removed per
// layout-change notification (the single-split invariant); when more than
// one pane is added in the same diff this is logged as an anomaly and the
// caller should treat it as a signal to bulk re-sync rather than attempt
// incremental UI surgery for "the" new pane.
func Diff(old, new Node, log *slog.Logger) (added, removed []Pane) {
	if log == nil {
		log = slog.Default()
	}

	old_panes := AllPanes(old)
	new_panes := AllPanes(new)

	for id, p := range old_panes {
		if _, ok := new_panes[id]; !ok {
			removed = append(removed, p)
		}
	}
	for id, p := range new_panes {
		if _, ok := old_panes[id]; !ok {
			added = append(added, p)
		}
	}

	if len(added) > 1 {
		log.Warn("layout: more than one pane added in a single diff, skipping incremental update",
			"added_count", len(added))
	}

	return added, removed
}
