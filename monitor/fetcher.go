package monitor

import (
	"context"

	"github.com/google/go-github/v39/github"
	"golang.org/x/sync/errgroup"
)

// PullRequestsService is the subset of the go-github pull request API the
// fetcher needs, so tests can substitute a fake.
type PullRequestsService interface {
	Get(ctx context.Context, owner string, repo string, number int) (*github.PullRequest, *github.Response, error)
	ListReviews(ctx context.Context, owner string, repo string, number int, opts *github.ListOptions) ([]*github.PullRequestReview, *github.Response, error)
}

// RepositoryStatusGetter fetches the combined commit status for a ref.
type RepositoryStatusGetter interface {
	GetCombinedStatus(ctx context.Context, owner string, repo string, ref string, opts *github.ListOptions) (*github.CombinedStatus, *github.Response, error)
}

// Fetcher assembles a Status snapshot from up to three read-only API
// calls: pull request metadata, combined status for the head commit, and
// the review list. It performs no retries; each call is one attempt.
type Fetcher struct {
	PullRequests PullRequestsService
	Repositories RepositoryStatusGetter
}

// NewFetcher returns a Fetcher backed by the given client.
func NewFetcher(client *github.Client) *Fetcher {
	return &Fetcher{
		PullRequests: client.PullRequests,
		Repositories: client.Repositories,
	}
}

// Fetch retrieves the current snapshot for ref. Failures are classified
// into the monitor error taxonomy; a failed fetch returns no partial
// snapshot.
func (f *Fetcher) Fetch(ctx context.Context, ref PullRequestRef) (*Status, error) {
	pr, _, err := f.PullRequests.Get(ctx, ref.Owner, ref.Repo, ref.Number)
	if err != nil {
		return nil, classify(err, ref)
	}

	status := &Status{
		Title:     pr.GetTitle(),
		Author:    pr.GetUser().GetLogin(),
		URL:       pr.GetHTMLURL(),
		State:     prState(pr),
		Draft:     pr.GetDraft(),
		Mergeable: mergeable(pr),
		CIState:   CIUnknown,
	}
	if pr.CreatedAt != nil {
		status.CreatedAt = *pr.CreatedAt
	}
	if pr.UpdatedAt != nil {
		status.UpdatedAt = *pr.UpdatedAt
	}

	// The combined status and review list are independent once the head
	// SHA is known, so they run concurrently.
	g, gctx := errgroup.WithContext(ctx)

	if sha := pr.GetHead().GetSHA(); sha != "" {
		g.Go(func() error {
			combined, _, err := f.Repositories.GetCombinedStatus(gctx, ref.Owner, ref.Repo, sha, nil)
			if err != nil {
				return classify(err, ref)
			}
			status.CIState = ciState(combined)
			return nil
		})
	}

	g.Go(func() error {
		reviews, _, err := f.PullRequests.ListReviews(gctx, ref.Owner, ref.Repo, ref.Number, nil)
		if err != nil {
			return classify(err, ref)
		}
		status.ReviewState = ReduceReviews(reviews)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return status, nil
}

func prState(pr *github.PullRequest) State {
	if pr.GetMerged() {
		return StateMerged
	}
	if pr.GetState() == "closed" {
		return StateClosed
	}
	return StateOpen
}

func mergeable(pr *github.PullRequest) Mergeable {
	// GitHub computes mergeability lazily; nil means not computed yet.
	if pr.Mergeable == nil {
		return MergeableUnknown
	}
	if *pr.Mergeable {
		return MergeableYes
	}
	return MergeableNo
}

func ciState(combined *github.CombinedStatus) CIState {
	if combined == nil || combined.GetTotalCount() == 0 {
		return CIUnknown
	}
	switch combined.GetState() {
	case "success":
		return CISuccess
	case "pending":
		return CIPending
	case "failure", "error":
		return CIFailure
	}
	return CIUnknown
}

// ReduceReviews collapses a review list into a single decision. Only the
// latest review per reviewer counts; changes requested overrides approval,
// approval overrides pending. An empty list means nobody has reviewed.
func ReduceReviews(reviews []*github.PullRequestReview) ReviewState {
	if len(reviews) == 0 {
		return ReviewNone
	}

	// Reviews arrive in submission order, so later entries replace
	// earlier ones for the same reviewer.
	latest := make(map[string]string)
	for _, review := range reviews {
		login := review.GetUser().GetLogin()
		state := review.GetState()
		if login == "" || state == "" {
			continue
		}
		latest[login] = state
	}

	var approved bool
	for _, state := range latest {
		switch state {
		case "CHANGES_REQUESTED":
			return ReviewChangesRequested
		case "APPROVED":
			approved = true
		}
	}
	if approved {
		return ReviewApproved
	}
	return ReviewPending
}
