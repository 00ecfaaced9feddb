package monitor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// prURLPattern matches the canonical GitHub pull request URL shape:
// https://github.com/<owner>/<repo>/pull/<number>
var prURLPattern = regexp.MustCompile(`^https?://github\.com/([^/]+)/([^/]+)/pull/(\d+)`)

// PullRequestRef identifies a single pull request. It is immutable once
// parsed; changing the watched URL means creating a new ref.
type PullRequestRef struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Number int    `json:"number"`
}

func (r PullRequestRef) String() string {
	return r.Owner + "/" + r.Repo + "#" + strconv.Itoa(r.Number)
}

// URL returns the canonical web URL for the ref.
func (r PullRequestRef) URL() string {
	return fmt.Sprintf("https://github.com/%s/%s/pull/%d", r.Owner, r.Repo, r.Number)
}

// ParseURL extracts a PullRequestRef from a GitHub pull request URL.
// Surrounding whitespace is tolerated. No network access is performed.
func ParseURL(rawURL string) (PullRequestRef, error) {
	m := prURLPattern.FindStringSubmatch(strings.TrimSpace(rawURL))
	if m == nil {
		return PullRequestRef{}, ErrInvalidURL
	}

	number, err := strconv.Atoi(m[3])
	if err != nil || number <= 0 {
		return PullRequestRef{}, ErrInvalidURL
	}

	return PullRequestRef{
		Owner:  m[1],
		Repo:   m[2],
		Number: number,
	}, nil
}

// State is the lifecycle state of a pull request.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
	StateMerged State = "merged"
)

// CIState is the aggregate result of the CI checks on the head commit.
type CIState string

const (
	CISuccess CIState = "success"
	CIFailure CIState = "failure"
	CIPending CIState = "pending"
	CIUnknown CIState = "unknown"
)

// ReviewState is the reduced review decision for a pull request.
type ReviewState string

const (
	ReviewApproved         ReviewState = "approved"
	ReviewChangesRequested ReviewState = "changes_requested"
	ReviewPending          ReviewState = "pending"
	ReviewNone             ReviewState = "none"
)

// Mergeable reflects the platform-computed mergeability flag. GitHub
// computes it asynchronously, so "unknown" is a normal transient answer.
type Mergeable string

const (
	MergeableYes     Mergeable = "yes"
	MergeableNo      Mergeable = "no"
	MergeableUnknown Mergeable = "unknown"
)

// Status is a flat snapshot of a pull request, rebuilt from scratch on
// every poll. There is no history; the latest snapshot is the only state.
type Status struct {
	Title       string      `json:"title" yaml:"title"`
	Author      string      `json:"author" yaml:"author"`
	URL         string      `json:"url" yaml:"url"`
	State       State       `json:"state" yaml:"state"`
	Draft       bool        `json:"draft" yaml:"draft"`
	CIState     CIState     `json:"ci_state" yaml:"ci_state"`
	ReviewState ReviewState `json:"review_state" yaml:"review_state"`
	Mergeable   Mergeable   `json:"mergeable" yaml:"mergeable"`
	CreatedAt   time.Time   `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" yaml:"updated_at"`
}

// Completed reports whether the pull request reached a terminal state and
// no longer needs watching.
func (s Status) Completed() bool {
	return s.State == StateMerged || s.State == StateClosed
}
