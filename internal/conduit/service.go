package conduit

import (
	"context"
	"fmt"
)

// Service is the production Client: Conduit over HTTP for lookups and edits,
// arcanist for diff transport.
type Service struct {
	http *httpClient
	arc  *arcRunner
}

// Options configures a Service.
type Options struct {
	// URI is the Phabricator installation base, e.g. https://phab.example.com.
	URI string

	// Token is the Conduit API token.
	Token string

	// WorkingDir is where arc runs; normally the repository root.
	WorkingDir string

	// Verbose streams arc output to the terminal instead of suppressing it.
	Verbose bool
}

// NewService creates a Service. The URI is required; diff submission also
// requires a usable arc install, which is not validated up front.
func NewService(opts Options) (*Service, error) {
	if opts.URI == "" {
		return nil, fmt.Errorf("conduit.uri is not configured")
	}
	return &Service{
		http: newHTTPClient(opts.URI, opts.Token),
		arc:  &arcRunner{workingDir: opts.WorkingDir, verbose: opts.Verbose},
	}, nil
}

func (s *Service) SearchOpenRevisions(ctx context.Context, query string) ([]*Revision, error) {
	return s.http.searchOpenRevisions(ctx, query)
}

func (s *Service) GetRevision(ctx context.Context, id int) (*Revision, error) {
	return s.http.getRevision(ctx, id)
}

func (s *Service) LookupPHID(ctx context.Context, id int) (string, error) {
	return s.http.lookupPHID(ctx, id)
}

func (s *Service) EditRevision(ctx context.Context, objectPHID string, txns []Transaction) error {
	return s.http.editRevision(ctx, objectPHID, txns)
}

func (s *Service) ResolveUsernames(ctx context.Context, phids []string) ([]string, error) {
	return s.http.resolveUsernames(ctx, phids)
}

func (s *Service) SubmitDiff(ctx context.Context, opts SubmitDiffOptions) (int, error) {
	return s.arc.submitDiff(ctx, opts)
}

func (s *Service) ApplyPatch(ctx context.Context, id int) error {
	return s.arc.applyPatch(ctx, id)
}

var _ Client = (*Service)(nil)
