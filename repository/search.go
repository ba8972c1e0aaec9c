package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/dhamidi/undeepend/config"
	"github.com/dhamidi/undeepend/pom"
)

var ErrNoVersions = errors.New("no versions found")

// Searcher queries the search.maven.org Solr endpoint.
type Searcher struct {
	BaseURL    string
	httpClient *http.Client
}

func NewSearcher(cfg config.Config) *Searcher {
	base := cfg.SearchURL
	if base == "" {
		base = config.DefaultSearchURL
	}
	return &Searcher{
		BaseURL:    base,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type SearchQuery struct {
	Text       string
	GroupID    string
	ArtifactID string
	Version    string
	Packaging  string
	Classifier string
	ClassName  string
	Rows       int
	Start      int
	Core       string // "gav" for all versions
}

type SearchResponse struct {
	Response Response `json:"response"`
}

type Response struct {
	NumFound int         `json:"numFound"`
	Start    int         `json:"start"`
	Docs     []SearchDoc `json:"docs"`
}

type SearchDoc struct {
	ID            string `json:"id"`
	GroupID       string `json:"g"`
	ArtifactID    string `json:"a"`
	Version       string `json:"v"`
	LatestVersion string `json:"latestVersion"`
	Packaging     string `json:"p"`
	Timestamp     int64  `json:"timestamp"`
	VersionCount  int    `json:"versionCount"`
}

func (s *Searcher) Search(ctx context.Context, q SearchQuery) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("q", buildQuery(q))
	params.Set("wt", "json")
	rows := q.Rows
	if rows <= 0 {
		rows = 20
	}
	params.Set("rows", strconv.Itoa(rows))
	if q.Start > 0 {
		params.Set("start", strconv.Itoa(q.Start))
	}
	if q.Core != "" {
		params.Set("core", q.Core)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request returned HTTP %d", resp.StatusCode)
	}

	var result SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &result, nil
}

func buildQuery(q SearchQuery) string {
	var parts []string
	add := func(field, value string) {
		if value == "" {
			return
		}
		if field == "" {
			parts = append(parts, value)
			return
		}
		parts = append(parts, field+":"+value)
	}
	add("", q.Text)
	add("g", q.GroupID)
	add("a", q.ArtifactID)
	add("v", q.Version)
	add("p", q.Packaging)
	add("l", q.Classifier)
	add("c", q.ClassName)

	if len(parts) == 0 {
		return "*:*"
	}
	return strings.Join(parts, " AND ")
}

// LatestVersion returns the newest version the index reports for an
// artifact.
func (s *Searcher) LatestVersion(ctx context.Context, groupID, artifactID string) (string, error) {
	resp, err := s.Search(ctx, SearchQuery{GroupID: groupID, ArtifactID: artifactID, Rows: 1})
	if err != nil {
		return "", err
	}
	for _, doc := range resp.Response.Docs {
		if doc.LatestVersion != "" {
			return doc.LatestVersion, nil
		}
		if doc.Version != "" {
			return doc.Version, nil
		}
	}
	return "", fmt.Errorf("%s:%s: %w", groupID, artifactID, ErrNoVersions)
}

// Versions returns every published version of an artifact, newest first
// in Maven order.
func (s *Searcher) Versions(ctx context.Context, groupID, artifactID string) ([]*pom.Version, error) {
	resp, err := s.Search(ctx, SearchQuery{GroupID: groupID, ArtifactID: artifactID, Core: "gav", Rows: 100})
	if err != nil {
		return nil, err
	}
	var versions []*pom.Version
	for _, doc := range resp.Response.Docs {
		if doc.Version != "" {
			versions = append(versions, pom.ParseVersion(doc.Version))
		}
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("%s:%s: %w", groupID, artifactID, ErrNoVersions)
	}
	slices.SortFunc(versions, func(a, b *pom.Version) int { return pom.CompareVersions(b, a) })
	return versions, nil
}

// Newest picks the highest release version in versions allowed by req.
// A nil req allows everything. The result is nil when nothing qualifies.
func Newest(versions []*pom.Version, req *pom.VersionRequirement) *pom.Version {
	var best *pom.Version
	for _, v := range versions {
		if v.IsSnapshot() || (req != nil && !req.Allows(v)) {
			continue
		}
		if best == nil || best.Less(v) {
			best = v
		}
	}
	return best
}
