package monitor

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-github/v39/github"
)

type fakePullRequests struct {
	pr        *github.PullRequest
	prErr     error
	reviews   []*github.PullRequestReview
	reviewErr error
}

func (f *fakePullRequests) Get(_ context.Context, _, _ string, _ int) (*github.PullRequest, *github.Response, error) {
	return f.pr, nil, f.prErr
}

func (f *fakePullRequests) ListReviews(_ context.Context, _, _ string, _ int, _ *github.ListOptions) ([]*github.PullRequestReview, *github.Response, error) {
	return f.reviews, nil, f.reviewErr
}

type fakeRepositories struct {
	combined *github.CombinedStatus
	err      error
}

func (f *fakeRepositories) GetCombinedStatus(_ context.Context, _, _, _ string, _ *github.ListOptions) (*github.CombinedStatus, *github.Response, error) {
	return f.combined, nil, f.err
}

func review(login, state string) *github.PullRequestReview {
	return &github.PullRequestReview{
		User:  &github.User{Login: github.String(login)},
		State: github.String(state),
	}
}

var testRef = PullRequestRef{Owner: "o", Repo: "r", Number: 123}

func TestFetchAssemblesStatus(t *testing.T) {
	created := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	updated := created.Add(48 * time.Hour)

	prs := &fakePullRequests{
		pr: &github.PullRequest{
			Title:     github.String("Fix flaky startup"),
			User:      &github.User{Login: github.String("octocat")},
			HTMLURL:   github.String("https://github.com/o/r/pull/123"),
			State:     github.String("open"),
			Merged:    github.Bool(false),
			Mergeable: github.Bool(true),
			Draft:     github.Bool(false),
			CreatedAt: &created,
			UpdatedAt: &updated,
			Head:      &github.PullRequestBranch{SHA: github.String("abc123")},
		},
		reviews: []*github.PullRequestReview{review("alice", "APPROVED")},
	}
	repos := &fakeRepositories{
		combined: &github.CombinedStatus{
			State:      github.String("success"),
			TotalCount: github.Int(2),
		},
	}

	f := &Fetcher{PullRequests: prs, Repositories: repos}
	status, err := f.Fetch(context.Background(), testRef)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	want := &Status{
		Title:       "Fix flaky startup",
		Author:      "octocat",
		URL:         "https://github.com/o/r/pull/123",
		State:       StateOpen,
		CIState:     CISuccess,
		ReviewState: ReviewApproved,
		Mergeable:   MergeableYes,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}
	if *status != *want {
		t.Errorf("Fetch() = %+v, want %+v", status, want)
	}
}

func TestFetchStateMapping(t *testing.T) {
	tests := []struct {
		name      string
		pr        *github.PullRequest
		wantState State
		wantMerge Mergeable
	}{
		{
			name: "merged wins over closed",
			pr: &github.PullRequest{
				State:  github.String("closed"),
				Merged: github.Bool(true),
			},
			wantState: StateMerged,
			wantMerge: MergeableUnknown,
		},
		{
			name: "closed",
			pr: &github.PullRequest{
				State:     github.String("closed"),
				Merged:    github.Bool(false),
				Mergeable: github.Bool(false),
			},
			wantState: StateClosed,
			wantMerge: MergeableNo,
		},
		{
			name: "open with mergeability not yet computed",
			pr: &github.PullRequest{
				State:  github.String("open"),
				Merged: github.Bool(false),
			},
			wantState: StateOpen,
			wantMerge: MergeableUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Fetcher{
				PullRequests: &fakePullRequests{pr: tt.pr},
				Repositories: &fakeRepositories{},
			}
			status, err := f.Fetch(context.Background(), testRef)
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if status.State != tt.wantState {
				t.Errorf("State = %s, want %s", status.State, tt.wantState)
			}
			if status.Mergeable != tt.wantMerge {
				t.Errorf("Mergeable = %s, want %s", status.Mergeable, tt.wantMerge)
			}
			// No head SHA provided, so CI stays unknown.
			if status.CIState != CIUnknown {
				t.Errorf("CIState = %s, want %s", status.CIState, CIUnknown)
			}
		})
	}
}

func TestFetchCIStateMapping(t *testing.T) {
	tests := []struct {
		name     string
		combined *github.CombinedStatus
		want     CIState
	}{
		{
			name:     "success",
			combined: &github.CombinedStatus{State: github.String("success"), TotalCount: github.Int(1)},
			want:     CISuccess,
		},
		{
			name:     "pending",
			combined: &github.CombinedStatus{State: github.String("pending"), TotalCount: github.Int(1)},
			want:     CIPending,
		},
		{
			name:     "failure",
			combined: &github.CombinedStatus{State: github.String("failure"), TotalCount: github.Int(3)},
			want:     CIFailure,
		},
		{
			name:     "error folds into failure",
			combined: &github.CombinedStatus{State: github.String("error"), TotalCount: github.Int(1)},
			want:     CIFailure,
		},
		{
			name:     "no contexts",
			combined: &github.CombinedStatus{State: github.String("pending"), TotalCount: github.Int(0)},
			want:     CIUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Fetcher{
				PullRequests: &fakePullRequests{
					pr: &github.PullRequest{
						State:  github.String("open"),
						Merged: github.Bool(false),
						Head:   &github.PullRequestBranch{SHA: github.String("abc123")},
					},
				},
				Repositories: &fakeRepositories{combined: tt.combined},
			}
			status, err := f.Fetch(context.Background(), testRef)
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if status.CIState != tt.want {
				t.Errorf("CIState = %s, want %s", status.CIState, tt.want)
			}
		})
	}
}

func TestFetchErrorClassification(t *testing.T) {
	notFound := &github.ErrorResponse{
		Response: &http.Response{StatusCode: 404},
		Message:  "Not Found",
	}
	rateLimited := &github.RateLimitError{
		Rate: github.Rate{
			Remaining: 0,
			Reset:     github.Timestamp{Time: time.Now().Add(time.Hour)},
		},
	}
	network := &url.Error{Op: "Get", URL: "https://api.github.com", Err: errors.New("connection refused")}
	serverErr := &github.ErrorResponse{
		Response: &http.Response{StatusCode: 500},
		Message:  "oops",
	}

	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{
			name: "404 yields NotFoundError",
			err:  notFound,
			check: func(err error) bool {
				var e *NotFoundError
				return errors.As(err, &e)
			},
		},
		{
			name: "rate limit yields RateLimitedError",
			err:  rateLimited,
			check: func(err error) bool {
				var e *RateLimitedError
				return errors.As(err, &e) && !e.ResetAt.IsZero()
			},
		},
		{
			name: "connection failure yields NetworkError",
			err:  network,
			check: func(err error) bool {
				var e *NetworkError
				return errors.As(err, &e)
			},
		},
		{
			name: "other non-2xx yields APIError",
			err:  serverErr,
			check: func(err error) bool {
				var e *APIError
				return errors.As(err, &e) && e.StatusCode == 500
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Fetcher{
				PullRequests: &fakePullRequests{prErr: tt.err},
				Repositories: &fakeRepositories{},
			}
			status, err := f.Fetch(context.Background(), testRef)
			if status != nil {
				t.Error("expected no snapshot on failure")
			}
			if err == nil || !tt.check(err) {
				t.Errorf("unexpected error classification: %v", err)
			}
		})
	}
}

func TestReduceReviews(t *testing.T) {
	tests := []struct {
		name    string
		reviews []*github.PullRequestReview
		want    ReviewState
	}{
		{
			name: "no reviews",
			want: ReviewNone,
		},
		{
			name:    "single approval",
			reviews: []*github.PullRequestReview{review("alice", "APPROVED")},
			want:    ReviewApproved,
		},
		{
			name: "changes requested overrides approval",
			reviews: []*github.PullRequestReview{
				review("alice", "APPROVED"),
				review("bob", "CHANGES_REQUESTED"),
			},
			want: ReviewChangesRequested,
		},
		{
			name: "latest review per reviewer wins",
			reviews: []*github.PullRequestReview{
				review("alice", "CHANGES_REQUESTED"),
				review("alice", "APPROVED"),
			},
			want: ReviewApproved,
		},
		{
			name: "comments only",
			reviews: []*github.PullRequestReview{
				review("alice", "COMMENTED"),
				review("bob", "COMMENTED"),
			},
			want: ReviewPending,
		},
		{
			name: "dismissed approval no longer counts",
			reviews: []*github.PullRequestReview{
				review("alice", "APPROVED"),
				review("alice", "DISMISSED"),
			},
			want: ReviewPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReduceReviews(tt.reviews); got != tt.want {
				t.Errorf("ReduceReviews() = %s, want %s", got, tt.want)
			}
		})
	}
}
