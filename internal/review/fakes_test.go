package review_test

import (
	"context"
	"fmt"
	"strings"

	"diffstack.dev/diffstack/internal/conduit"
	diffstackerrors "diffstack.dev/diffstack/internal/errors"
	"diffstack.dev/diffstack/internal/git"
	"diffstack.dev/diffstack/internal/output"
)

func testSplog() *output.Splog {
	return output.NewSplogWithWriters(&strings.Builder{}, &strings.Builder{})
}

func alwaysYes(string) (bool, error) { return true, nil }

// fakeGit implements git.Runner in memory.
type fakeGit struct {
	commits  map[string]*git.Commit
	parents  map[string]string
	branches map[string]bool
	position git.Position

	checkouts    []string
	created      []string
	cherryPicked []string
	committed    []fakeCommitCall

	cherryPickErr map[string]error
}

type fakeCommitCall struct {
	Message string
	Edit    bool
}

func newFakeGit() *fakeGit {
	return &fakeGit{
		commits:       map[string]*git.Commit{},
		parents:       map[string]string{},
		branches:      map[string]bool{},
		position:      git.Position{Branch: "work", SHA: "work-sha"},
		cherryPickErr: map[string]error{},
	}
}

// addCommit registers a linear commit whose parent is the previously added
// commit, and returns it.
func (f *fakeGit) addCommit(sha, subject, body string) *git.Commit {
	message := subject
	if body != "" {
		message = subject + "\n\n" + body
	}
	commit := &git.Commit{SHA: sha, Subject: subject, Message: message}
	f.commits[sha] = commit
	f.parents[sha] = "parent-of-" + sha
	return commit
}

func (f *fakeGit) ResolveCommit(spec string) (*git.Commit, error) {
	commit, ok := f.commits[spec]
	if !ok {
		return nil, diffstackerrors.NewInvalidCommitError(spec, nil)
	}
	return commit, nil
}

func (f *fakeGit) ResolveRange(lower, upper string) ([]*git.Commit, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeGit) ParentSHA(sha string) (string, error) {
	parent, ok := f.parents[sha]
	if !ok {
		return "", fmt.Errorf("unknown commit %s", sha)
	}
	return parent, nil
}

func (f *fakeGit) CurrentPosition() (git.Position, error) {
	return f.position, nil
}

func (f *fakeGit) Checkout(_ context.Context, ref string) error {
	f.checkouts = append(f.checkouts, ref)
	return nil
}

func (f *fakeGit) CreateAndCheckoutBranch(_ context.Context, name, base string) error {
	f.created = append(f.created, name+" from "+base)
	f.branches[name] = true
	return nil
}

func (f *fakeGit) BranchExists(name string) (bool, error) {
	return f.branches[name], nil
}

func (f *fakeGit) IsClean(context.Context) (bool, error) {
	return true, nil
}

func (f *fakeGit) CherryPickNoCommit(_ context.Context, sha string) error {
	if err := f.cherryPickErr[sha]; err != nil {
		return err
	}
	f.cherryPicked = append(f.cherryPicked, sha)
	return nil
}

func (f *fakeGit) Commit(_ context.Context, message string, edit bool) error {
	f.committed = append(f.committed, fakeCommitCall{Message: message, Edit: edit})
	return nil
}

// fakeConduit implements conduit.Client in memory.
type fakeConduit struct {
	open      []*conduit.Revision
	revisions map[int]*conduit.Revision
	usernames map[string]string

	nextID      int
	searchCalls int
	submits     []conduit.SubmitDiffOptions
	edits       []fakeEdit
	patched     []int

	submitErr map[string]error // keyed by head revision
}

type fakeEdit struct {
	ObjectPHID string
	Txns       []conduit.Transaction
}

func newFakeConduit() *fakeConduit {
	return &fakeConduit{
		revisions: map[int]*conduit.Revision{},
		usernames: map[string]string{},
		nextID:    100,
		submitErr: map[string]error{},
	}
}

// addOpenRevision registers an open revision visible to title searches.
func (f *fakeConduit) addOpenRevision(id int, title string, reviewers ...conduit.Reviewer) *conduit.Revision {
	revision := &conduit.Revision{
		ID:        id,
		PHID:      fmt.Sprintf("PHID-DREV-%d", id),
		Title:     title,
		Status:    conduit.StatusNeedsReview,
		URI:       fmt.Sprintf("https://phab.example.com/D%d", id),
		Reviewers: reviewers,
	}
	f.open = append(f.open, revision)
	f.revisions[id] = revision
	return revision
}

func (f *fakeConduit) SearchOpenRevisions(_ context.Context, query string) ([]*conduit.Revision, error) {
	f.searchCalls++
	var matches []*conduit.Revision
	for _, revision := range f.open {
		if query == "" || strings.Contains(revision.Title, query) {
			matches = append(matches, revision)
		}
	}
	return matches, nil
}

func (f *fakeConduit) GetRevision(_ context.Context, id int) (*conduit.Revision, error) {
	revision, ok := f.revisions[id]
	if !ok {
		return nil, diffstackerrors.NewRemoteCallError("differential.revision.search",
			fmt.Errorf("revision D%d does not exist", id))
	}
	return revision, nil
}

func (f *fakeConduit) LookupPHID(_ context.Context, id int) (string, error) {
	if _, ok := f.revisions[id]; !ok {
		return "", diffstackerrors.NewRemoteCallError("phid.lookup",
			fmt.Errorf("no object handle for D%d", id))
	}
	return fmt.Sprintf("PHID-DREV-%d", id), nil
}

func (f *fakeConduit) EditRevision(_ context.Context, objectPHID string, txns []conduit.Transaction) error {
	f.edits = append(f.edits, fakeEdit{ObjectPHID: objectPHID, Txns: txns})
	return nil
}

func (f *fakeConduit) ResolveUsernames(_ context.Context, phids []string) ([]string, error) {
	var names []string
	for _, phid := range phids {
		if name, ok := f.usernames[phid]; ok {
			names = append(names, name)
		}
	}
	return names, nil
}

func (f *fakeConduit) SubmitDiff(_ context.Context, opts conduit.SubmitDiffOptions) (int, error) {
	if err := f.submitErr[opts.HeadRevision]; err != nil {
		return 0, err
	}
	f.submits = append(f.submits, opts)

	if opts.UpdateRevision != 0 {
		return opts.UpdateRevision, nil
	}

	f.nextID++
	id := f.nextID
	title := strings.SplitN(opts.Message, "\n", 2)[0]
	f.addOpenRevision(id, title)
	return id, nil
}

func (f *fakeConduit) ApplyPatch(_ context.Context, id int) error {
	f.patched = append(f.patched, id)
	return nil
}
