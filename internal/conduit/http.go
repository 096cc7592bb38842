package conduit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	diffstackerrors "diffstack.dev/diffstack/internal/errors"
)

const defaultHTTPTimeout = 30 * time.Second

// httpClient speaks the Conduit JSON API: POST api/<method> with a JSON
// "params" form field carrying the token, JSON envelope in the response.
type httpClient struct {
	baseURI string
	token   string
	client  *http.Client
}

func newHTTPClient(baseURI, token string) *httpClient {
	return &httpClient{
		baseURI: strings.TrimRight(baseURI, "/"),
		token:   token,
		client:  &http.Client{Timeout: defaultHTTPTimeout},
	}
}

type conduitEnvelope struct {
	Result    json.RawMessage `json:"result"`
	ErrorCode string          `json:"error_code"`
	ErrorInfo string          `json:"error_info"`
}

// call performs one Conduit method call and decodes result into out.
func (c *httpClient) call(ctx context.Context, method string, params map[string]interface{}, out interface{}) error {
	if params == nil {
		params = map[string]interface{}{}
	}
	params["__conduit__"] = map[string]string{"token": c.token}

	encoded, err := json.Marshal(params)
	if err != nil {
		return diffstackerrors.NewRemoteCallError(method, err)
	}

	form := url.Values{}
	form.Set("params", string(encoded))
	form.Set("output", "json")

	endpoint := c.baseURI + "/api/" + method
	log.Debug().Str("method", method).Str("endpoint", endpoint).Msg("conduit call")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return diffstackerrors.NewRemoteCallError(method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return diffstackerrors.NewRemoteCallError(method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return diffstackerrors.NewRemoteCallError(method, err)
	}

	if resp.StatusCode != http.StatusOK {
		return diffstackerrors.NewRemoteCallError(method,
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var envelope conduitEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return diffstackerrors.NewRemoteCallError(method, fmt.Errorf("malformed response: %w", err))
	}
	if envelope.ErrorCode != "" {
		return diffstackerrors.NewRemoteCallError(method,
			fmt.Errorf("%s: %s", envelope.ErrorCode, envelope.ErrorInfo))
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return diffstackerrors.NewRemoteCallError(method, fmt.Errorf("malformed result: %w", err))
		}
	}
	return nil
}

// Wire shapes for differential.revision.search.
type revisionSearchResult struct {
	Data []struct {
		ID     int    `json:"id"`
		PHID   string `json:"phid"`
		Fields struct {
			Title  string `json:"title"`
			Status struct {
				Value string `json:"value"`
			} `json:"status"`
		} `json:"fields"`
		Attachments struct {
			Reviewers struct {
				Reviewers []struct {
					ReviewerPHID string `json:"reviewerPHID"`
					Status       string `json:"status"`
				} `json:"reviewers"`
			} `json:"reviewers"`
		} `json:"attachments"`
	} `json:"data"`
}

func (c *httpClient) searchRevisions(ctx context.Context, constraints map[string]interface{}) ([]*Revision, error) {
	params := map[string]interface{}{
		"constraints": constraints,
		"attachments": map[string]bool{"reviewers": true},
	}

	var result revisionSearchResult
	if err := c.call(ctx, "differential.revision.search", params, &result); err != nil {
		return nil, err
	}

	revisions := make([]*Revision, 0, len(result.Data))
	for _, entry := range result.Data {
		revision := &Revision{
			ID:     entry.ID,
			PHID:   entry.PHID,
			Title:  entry.Fields.Title,
			Status: statusFromWire(entry.Fields.Status.Value),
			URI:    fmt.Sprintf("%s/D%d", c.baseURI, entry.ID),
		}
		for _, reviewer := range entry.Attachments.Reviewers.Reviewers {
			revision.Reviewers = append(revision.Reviewers, Reviewer{
				PHID:   reviewer.ReviewerPHID,
				Status: reviewer.Status,
			})
		}
		revisions = append(revisions, revision)
	}
	return revisions, nil
}

func (c *httpClient) searchOpenRevisions(ctx context.Context, query string) ([]*Revision, error) {
	constraints := map[string]interface{}{
		"statuses": []string{"open()"},
	}
	if query != "" {
		constraints["query"] = query
	}
	return c.searchRevisions(ctx, constraints)
}

func (c *httpClient) getRevision(ctx context.Context, id int) (*Revision, error) {
	revisions, err := c.searchRevisions(ctx, map[string]interface{}{"ids": []int{id}})
	if err != nil {
		return nil, err
	}
	if len(revisions) == 0 {
		return nil, diffstackerrors.NewRemoteCallError("differential.revision.search",
			fmt.Errorf("revision %s does not exist", FormatRevisionID(id)))
	}
	return revisions[0], nil
}

func (c *httpClient) lookupPHID(ctx context.Context, id int) (string, error) {
	name := FormatRevisionID(id)
	params := map[string]interface{}{"names": []string{name}}

	result := map[string]struct {
		PHID string `json:"phid"`
	}{}
	if err := c.call(ctx, "phid.lookup", params, &result); err != nil {
		return "", err
	}

	entry, ok := result[name]
	if !ok || entry.PHID == "" {
		return "", diffstackerrors.NewRemoteCallError("phid.lookup",
			fmt.Errorf("no object handle for %s", name))
	}
	return entry.PHID, nil
}

func (c *httpClient) editRevision(ctx context.Context, objectPHID string, txns []Transaction) error {
	params := map[string]interface{}{
		"objectIdentifier": objectPHID,
		"transactions":     txns,
	}
	return c.call(ctx, "differential.revision.edit", params, nil)
}

type userSearchResult struct {
	Data []struct {
		PHID   string `json:"phid"`
		Fields struct {
			Username string `json:"username"`
		} `json:"fields"`
	} `json:"data"`
}

func (c *httpClient) resolveUsernames(ctx context.Context, phids []string) ([]string, error) {
	if len(phids) == 0 {
		return nil, nil
	}

	params := map[string]interface{}{
		"constraints": map[string]interface{}{"phids": phids},
	}

	var result userSearchResult
	if err := c.call(ctx, "user.search", params, &result); err != nil {
		return nil, err
	}

	// Preserve the caller's order.
	byPHID := make(map[string]string, len(result.Data))
	for _, entry := range result.Data {
		byPHID[entry.PHID] = entry.Fields.Username
	}

	usernames := make([]string, 0, len(phids))
	for _, phid := range phids {
		if username, ok := byPHID[phid]; ok {
			usernames = append(usernames, username)
		}
	}
	return usernames, nil
}
