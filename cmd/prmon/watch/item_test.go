package watch

import (
	"errors"
	"strings"
	"testing"

	"github.com/wangxiyuan/pr-notification/monitor"
)

func TestItemListView(t *testing.T) {
	ref := monitor.PullRequestRef{Owner: "o", Repo: "r", Number: 42}

	tests := []struct {
		name          string
		item          item
		wantTitle     string
		descHas       []string
		wantFilter    string
		wantCompleted bool
	}{
		{
			name:       "no status yet",
			item:       newItem(ref),
			wantTitle:  "[pr] o/r#42",
			descHas:    []string{"unavailable", "waiting for first fetch"},
			wantFilter: "pull o/r#42",
		},
		{
			name: "open with passing checks",
			item: item{
				ref: ref,
				status: &monitor.Status{
					Title:       "Fix flaky retry",
					State:       monitor.StateOpen,
					CIState:     monitor.CISuccess,
					ReviewState: monitor.ReviewApproved,
				},
			},
			wantTitle:  "[pr] o/r#42 Fix flaky retry",
			descHas:    []string{"    open    ", "✔", "  approved  "},
			wantFilter: "pull o/r#42 Fix flaky retry open",
		},
		{
			name: "draft with pending checks",
			item: item{
				ref: ref,
				status: &monitor.Status{
					Title:       "WIP",
					State:       monitor.StateOpen,
					Draft:       true,
					CIState:     monitor.CIPending,
					ReviewState: monitor.ReviewNone,
				},
			},
			wantTitle:  "[pr] o/r#42 WIP",
			descHas:    []string{"   draft    ", "•", " no reviews "},
			wantFilter: "pull o/r#42 WIP open",
		},
		{
			name: "merged",
			item: item{
				ref: ref,
				status: &monitor.Status{
					Title:       "Add cache",
					State:       monitor.StateMerged,
					CIState:     monitor.CISuccess,
					ReviewState: monitor.ReviewApproved,
				},
			},
			wantTitle:     "[pr] o/r#42 Add cache",
			descHas:       []string{"   merged   "},
			wantFilter:    "pull o/r#42 Add cache merged",
			wantCompleted: true,
		},
		{
			name: "failed fetch",
			item: item{
				ref: ref,
				err: errors.New("api rate limit exceeded"),
			},
			wantTitle:  "[pr] o/r#42",
			descHas:    []string{"error", "api rate limit exceeded"},
			wantFilter: "pull o/r#42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.Title(); got != tt.wantTitle {
				t.Errorf("Title() = %q, want %q", got, tt.wantTitle)
			}
			desc := tt.item.Description()
			for _, want := range tt.descHas {
				if !strings.Contains(desc, want) {
					t.Errorf("Description() = %q, missing %q", desc, want)
				}
			}
			if got := tt.item.FilterValue(); got != tt.wantFilter {
				t.Errorf("FilterValue() = %q, want %q", got, tt.wantFilter)
			}
			if got := tt.item.Completed(); got != tt.wantCompleted {
				t.Errorf("Completed() = %v, want %v", got, tt.wantCompleted)
			}
		})
	}
}
