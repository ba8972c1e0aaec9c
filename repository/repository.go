// Package repository maps dependencies onto a Maven repository layout and
// downloads missing artifacts into the local repository.
package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dhamidi/undeepend/config"
	"github.com/dhamidi/undeepend/pom"
	"github.com/dhamidi/undeepend/settings"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
)

var log = commonlog.GetLogger("undeepend.repository")

// CentralID is the repository id Maven uses for Maven Central; mirrors
// are looked up for it.
const CentralID = "central"

var (
	ErrUnresolvedVersion = errors.New("dependency has no resolved version")
	ErrNotFound          = errors.New("artifact not found")
	ErrOffline           = errors.New("artifact missing and settings are offline")
)

type Repository struct {
	Local    string
	Remote   string
	RemoteID string

	client      *http.Client
	retries     int
	backoff     time.Duration
	concurrency int
	offline     bool
	username    string
	password    string
}

// New combines configuration and settings. The settings' localRepository
// wins over the configured one; a mirror of central wins over the
// configured remote. Credentials come from the server entry whose id
// matches the remote, and an active proxy is used for downloads.
func New(cfg config.Config, s *settings.Settings) *Repository {
	if s == nil {
		s = settings.Default()
	}
	r := &Repository{
		Local:       cfg.LocalRepository,
		Remote:      strings.TrimSuffix(cfg.RemoteRepository, "/"),
		RemoteID:    CentralID,
		retries:     cfg.Retries,
		backoff:     500 * time.Millisecond,
		concurrency: max(cfg.Concurrency, 1),
		offline:     s.Offline,
	}
	if s.LocalRepository != "" {
		r.Local = s.LocalRepository
	}
	if m, ok := s.MirrorFor(CentralID); ok && m.URL != "" {
		log.Infof("using mirror %s for %s: %s", m.ID, CentralID, m.URL)
		r.Remote = strings.TrimSuffix(m.URL, "/")
		r.RemoteID = m.ID
	}
	if srv, ok := s.Server(r.RemoteID); ok {
		r.username, r.password = srv.Username, srv.Password
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if p, ok := s.ActiveProxy(schemeOf(r.Remote)); ok {
		proxy := &url.URL{Scheme: "http", Host: p.Host + ":" + strconv.Itoa(p.Port)}
		if p.Username != "" {
			proxy.User = url.UserPassword(p.Username, p.Password)
		}
		transport.Proxy = http.ProxyURL(proxy)
	}
	r.client = &http.Client{Timeout: cfg.Timeout, Transport: transport}
	return r
}

func schemeOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return "http"
	}
	return u.Scheme
}

// LocalPath is where dep's jar lives in the local repository.
func (r *Repository) LocalPath(dep pom.Dependency) string {
	return filepath.Join(r.Local, filepath.FromSlash(dep.JarPath()))
}

// URL is where dep's jar is downloaded from.
func (r *Repository) URL(dep pom.Dependency) string {
	return r.Remote + "/" + dep.JarPath()
}

// Fetch makes sure dep's jar is in the local repository and returns its
// path. Existing files are not downloaded again.
func (r *Repository) Fetch(ctx context.Context, dep pom.Dependency) (string, error) {
	if !dep.HasVersion() {
		return "", fmt.Errorf("%s: %w", dep, ErrUnresolvedVersion)
	}
	path := r.LocalPath(dep)
	if _, err := os.Stat(path); err == nil {
		log.Debugf("%s already in %s", dep, path)
		return path, nil
	}
	if r.offline {
		return "", fmt.Errorf("%s: %w", dep, ErrOffline)
	}

	src := r.URL(dep)
	err := Retry(ctx, r.retries, r.backoff, func() error {
		return r.download(ctx, src, path)
	})
	if err != nil {
		return "", fmt.Errorf("download %s: %w", dep, err)
	}
	log.Infof("downloaded %s", dep)
	return path, nil
}

func (r *Repository) download(ctx context.Context, src, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return err
	}
	if r.username != "" {
		req.SetBasicAuth(r.username, r.password)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", src, ErrNotFound)
	case resp.StatusCode >= 500:
		return &RetryableError{Err: fmt.Errorf("HTTP %d for %s", resp.StatusCode, src)}
	default:
		return fmt.Errorf("HTTP %d for %s", resp.StatusCode, src)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return &RetryableError{Err: fmt.Errorf("write file: %w", err)}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return os.Rename(tmp.Name(), dest)
}

// Fetched is the outcome of fetching one dependency.
type Fetched struct {
	Dependency pom.Dependency
	Path       string
	Err        error
}

// FetchAll fetches deps concurrently, at most Concurrency at a time.
// Individual failures are reported in the results; the returned error is
// only set when ctx ends first.
func (r *Repository) FetchAll(ctx context.Context, deps []pom.Dependency) ([]Fetched, error) {
	out := make([]Fetched, len(deps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, dep := range deps {
		g.Go(func() error {
			path, err := r.Fetch(gctx, dep)
			out[i] = Fetched{Dependency: dep, Path: path, Err: err}
			if err != nil && !errors.Is(err, ErrUnresolvedVersion) {
				log.Warningf("%v", err)
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}

// ParseCoordinate reads group:artifact:version or
// group:artifact:classifier:version.
func ParseCoordinate(coord string) (pom.Dependency, error) {
	parts := strings.Split(coord, ":")
	switch len(parts) {
	case 3:
		return pom.Dependency{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2]}, nil
	case 4:
		return pom.Dependency{GroupID: parts[0], ArtifactID: parts[1], Classifier: parts[2], Version: parts[3]}, nil
	default:
		return pom.Dependency{}, fmt.Errorf("invalid Maven coordinate: %s (expected groupId:artifactId:version or groupId:artifactId:classifier:version)", coord)
	}
}
