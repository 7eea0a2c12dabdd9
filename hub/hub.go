// Package hub fetches tip streams for a piece of source text from the typing tips service, and caches
// them in memory and, optionally, on disk.
//
// Example:
//
//	client := hub.New(hub.DefaultBaseURL).WithCacheDir(cacheDir)
//	tokens, err := client.Fetch(ctx, "忽如一夜春风来")
package hub

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/bbtyping/go-typingtips/tips/api"
	"github.com/bbtyping/go-typingtips/tips/segment"
	"github.com/bbtyping/go-typingtips/tips/tipjson"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
	"k8s.io/klog/v2"
)

const (
	// DefaultBaseURL of the typing tips service.
	DefaultBaseURL = "https://bb-typing.tyu.wiki/"

	// DefaultPath of the tip stream endpoint, relative to the base URL.
	DefaultPath = "/typing-service/version/test/typingTips"

	// DefaultTimeout for one request to the service.
	DefaultTimeout = 15 * time.Second

	// DefaultTTL of tip streams kept in memory.
	DefaultTTL = 10 * time.Minute

	// DefaultCleanupInterval of expired in-memory entries.
	DefaultCleanupInterval = 30 * time.Minute
)

// ServiceError is returned when the service answers with an envelope code other than tipjson.CodeOK.
type ServiceError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("typing tips service returned code %d: %s", e.Code, e.Message)
}

// Client fetches tip streams. It is safe for concurrent use.
//
// Create it with New and configure it with the With* methods before first use.
type Client struct {
	baseURL    string
	path       string
	httpClient *http.Client
	cacheDir   string
	ttl        time.Duration
	memory     *gocache.Cache
}

// New creates a Client for the service at baseURL, with no disk cache.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		path:       DefaultPath,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		ttl:        DefaultTTL,
		memory:     gocache.New(DefaultTTL, DefaultCleanupInterval),
	}
}

// WithPath sets the endpoint path, relative to the base URL.
func (c *Client) WithPath(path string) *Client {
	c.path = path
	return c
}

// WithHTTPClient sets the http.Client used for requests.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

// WithCacheDir enables the disk cache in cacheDir. An empty cacheDir disables it.
func (c *Client) WithCacheDir(cacheDir string) *Client {
	c.cacheDir = cacheDir
	return c
}

// WithTTL sets for how long fetched tip streams are kept in memory. A ttl <= 0 disables the memory cache.
func (c *Client) WithTTL(ttl time.Duration) *Client {
	c.ttl = ttl
	return c
}

// URL returns the endpoint URL.
func (c *Client) URL() string {
	return strings.TrimSuffix(c.baseURL, "/") + "/" + strings.TrimPrefix(c.path, "/")
}

// Normalize returns the form of text that is sent to the service and used as cache key.
func Normalize(text string) string {
	return norm.NFC.String(text)
}

// cacheKey returns the file name stem used to cache the tip stream of the normalized text.
func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// CachePath returns the disk cache file of the tip stream for text, or "" if the disk cache is disabled.
func (c *Client) CachePath(text string) string {
	if c.cacheDir == "" {
		return ""
	}
	return filepath.Join(c.cacheDir, cacheKey(Normalize(text))+".json")
}

// Fetch returns the validated tip stream for text, from cache if available.
func (c *Client) Fetch(ctx context.Context, text string) ([]api.Token, error) {
	return c.fetch(ctx, text, false)
}

// Refetch is like Fetch, but ignores and replaces any cached tip stream.
func (c *Client) Refetch(ctx context.Context, text string) ([]api.Token, error) {
	return c.fetch(ctx, text, true)
}

func (c *Client) fetch(ctx context.Context, text string, force bool) ([]api.Token, error) {
	text = Normalize(text)
	if text == "" {
		return nil, errors.Wrapf(api.ErrInvalidArgument, "no text to fetch tips for")
	}
	key := cacheKey(text)
	if !force && c.ttl > 0 {
		if value, found := c.memory.Get(key); found {
			if tokens, ok := value.([]api.Token); ok {
				klog.V(2).Infof("tip stream for %q found in memory", text)
				return tokens, nil
			}
			klog.Warningf("wrong type %T in memory cache for %q", value, text)
		}
	}

	var (
		content []byte
		err     error
	)
	cachePath := filepath.Join(c.cacheDir, key+".json")
	if c.cacheDir != "" {
		content, err = c.cachedDownload(ctx, text, cachePath, force)
	} else {
		content, err = c.request(ctx, text)
	}
	if err != nil {
		return nil, err
	}
	tokens, err := decode(content)
	if err != nil && c.cacheDir != "" && !force {
		// Cached responses were valid when written, so the file is damaged: fetch it once more.
		klog.Warningf("discarding invalid cached tip stream %q: %v", cachePath, err)
		content, err = c.cachedDownload(ctx, text, cachePath, true)
		if err != nil {
			return nil, err
		}
		tokens, err = decode(content)
	}
	if err != nil {
		return nil, errors.WithMessagef(err, "tip stream for %q", text)
	}
	if c.ttl > 0 {
		c.memory.Set(key, tokens, c.ttl)
	}
	return tokens, nil
}

// decode parses and validates a tip stream response.
func decode(content []byte) ([]api.Token, error) {
	stream, err := tipjson.NewFromContent(content)
	if err != nil {
		return nil, err
	}
	if !stream.OK() {
		return nil, &ServiceError{Code: stream.Code, Message: stream.Message}
	}
	if err := segment.Validate(stream.Result); err != nil {
		return nil, err
	}
	return stream.Result, nil
}
