package watch

import (
	"context"

	"github.com/wangxiyuan/pr-notification/cmd/prmon/watch/style"
	"github.com/wangxiyuan/pr-notification/monitor"
)

// item is one watched pull request in the list. Only the URL is
// persisted; the ref is re-parsed on load and the status is rebuilt by
// polling.
type item struct {
	URL string `json:"url"`

	ref    monitor.PullRequestRef
	status *monitor.Status
	err    error
}

func newItem(ref monitor.PullRequestRef) item {
	return item{URL: ref.URL(), ref: ref}
}

func (i item) Key() string {
	return i.ref.String()
}

func (i item) Completed() bool {
	if i.status == nil {
		return false
	}
	return i.status.Completed()
}

// FilterValue satisfies list.Item interface, required even if filtering is not enabled for the list.
func (i item) FilterValue() string {
	if i.status == nil {
		return "pull " + i.ref.String()
	}
	return "pull " + i.ref.String() + " " + i.status.Title + " " + string(i.status.State)
}

func (i item) Title() string {
	if i.status == nil {
		return "[pr] " + i.ref.String()
	}
	return "[pr] " + i.ref.String() + " " + i.status.Title
}

func (i item) Description() string {
	if i.err != nil {
		return style.Badge("error", style.Red) + " " + i.err.Error()
	}
	if i.status == nil {
		return style.Badge("unavailable", style.Contrast) + " waiting for first fetch"
	}

	desc := style.StateBadge(i.status.State, i.status.Draft)
	if check := style.CheckMarker(i.status.CIState); check != "" {
		desc += " " + check
	}
	desc += " " + style.ReviewBadge(i.status.ReviewState)
	return desc
}

// refresh fetches a new snapshot for the item. A failed fetch keeps the
// previous snapshot and records the error next to it.
func (i item) refresh(ctx context.Context, fetcher monitor.StatusFetcher) item {
	status, err := fetcher.Fetch(ctx, i.ref)
	if err != nil {
		i.err = err
		return i
	}
	i.status = status
	i.err = nil
	return i
}
