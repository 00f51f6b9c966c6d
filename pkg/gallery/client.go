package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/glorpus-work/imgurdl/internal/logger"
	"github.com/glorpus-work/imgurdl/pkg/auth"
	pkgerrors "github.com/glorpus-work/imgurdl/pkg/errors"
	"github.com/glorpus-work/imgurdl/pkg/model"
)

// DefaultBaseURL is the public Imgur API endpoint.
const DefaultBaseURL = "https://api.imgur.com"

// subredditSort is the gallery order used for subreddit listings, newest first.
const subredditSort = "time"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Options configure a Client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Auth       auth.Authenticator
	UserAgent  string
}

// Client talks to the Imgur v3 API.
type Client struct {
	baseURL   *url.URL
	client    *http.Client
	auth      auth.Authenticator
	userAgent string
}

// NewClient validates opts and returns a ready Client.
func NewClient(opts Options) (*Client, error) {
	if opts.Auth == nil {
		return nil, pkgerrors.ErrMissingClientID
	}
	raw := opts.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "invalid api base url %q", raw)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid api base url %q: scheme must be http or https", raw)
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "imgurdl"
	}
	return &Client{baseURL: base, client: hc, auth: opts.Auth, userAgent: ua}, nil
}

// GetAlbum returns the metadata of album id.
func (c *Client) GetAlbum(ctx context.Context, id string) (Album, error) {
	var album Album
	if err := c.get(ctx, "album", id, []string{"3", "album", id}, &album); err != nil {
		return Album{}, err
	}
	return album, nil
}

// ListAlbumItems returns the images of album id in album order.
func (c *Client) ListAlbumItems(ctx context.Context, id string) ([]model.ItemDescriptor, error) {
	var images []image
	if err := c.get(ctx, "album images", id, []string{"3", "album", id, "images"}, &images); err != nil {
		return nil, err
	}
	return descriptors(images), nil
}

// ListSubredditPageItems returns one page (zero-based) of a subreddit gallery, newest first.
// Entries that are albums come back with IsGallery set.
func (c *Client) ListSubredditPageItems(ctx context.Context, name string, page int) ([]model.ItemDescriptor, error) {
	var images []image
	segments := []string{"3", "gallery", "r", name, subredditSort, strconv.Itoa(page)}
	if err := c.get(ctx, "subreddit", name, segments, &images); err != nil {
		return nil, err
	}
	return descriptors(images), nil
}

func descriptors(images []image) []model.ItemDescriptor {
	items := make([]model.ItemDescriptor, 0, len(images))
	for _, img := range images {
		items = append(items, img.descriptor())
	}
	return items
}

func (c *Client) endpoint(segments []string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u := *c.baseURL
	u.RawPath = strings.TrimSuffix(u.EscapedPath(), "/") + "/" + strings.Join(escaped, "/")
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.Join(segments, "/")
	return u.String()
}

func (c *Client) get(ctx context.Context, op, ref string, segments []string, out any) error {
	fail := func(status int, cause error) error {
		return &ResolverError{Op: op, Ref: ref, StatusCode: status, Cause: cause}
	}
	if ref == "" {
		return fail(0, pkgerrors.ErrInvalidGalleryRef)
	}

	endpoint := c.endpoint(segments)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fail(0, pkgerrors.Wrap(err, "failed to create request"))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if err := c.auth.Apply(req); err != nil {
		return fail(0, err)
	}

	logger.Debug("imgur api request", logger.Fields{"url": endpoint, "auth": string(c.auth.Type())})
	resp, err := c.client.Do(req)
	if err != nil {
		return fail(0, pkgerrors.Wrap(err, "request failed"))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fail(resp.StatusCode, apiFailure(resp))
	}

	env := envelope[json.RawMessage]{}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fail(resp.StatusCode, pkgerrors.Wrap(err, "failed to decode response"))
	}
	if !env.Success {
		return fail(env.Status, fmt.Errorf("api reported failure"))
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fail(resp.StatusCode, pkgerrors.Wrap(err, "unexpected response data"))
	}
	return nil
}

// apiFailure extracts the message of an error envelope, falling back to the status text.
func apiFailure(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var env envelope[apiError]
	if err := json.Unmarshal(body, &env); err == nil {
		switch msg := env.Data.Error.(type) {
		case string:
			if msg != "" {
				return fmt.Errorf("%s", msg)
			}
		case map[string]any:
			if m, ok := msg["message"].(string); ok && m != "" {
				return fmt.Errorf("%s", m)
			}
		}
	}
	return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
}
