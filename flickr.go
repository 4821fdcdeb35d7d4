// Copyright 2026 The flickrtag authors.
// SPDX-License-Identifier: Apache-2.0

package flickrtag

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	aia "github.com/fcjr/aia-transport-go"
	"github.com/gregjones/httpcache"
)

// apiEndpoint is Flickr's REST endpoint.  Overridable on the Client for
// tests.
const apiEndpoint = "https://api.flickr.com/services/rest/"

// ResolutionError reports a failed network lookup.  Callers treat it as a
// soft failure: the tag is left unrendered for this run.
type ResolutionError struct {
	URL   string
	Cause error
}

func (e ResolutionError) Error() string {
	return fmt.Sprintf("error resolving %q: %v", e.URL, e.Cause)
}

func (e ResolutionError) Unwrap() error { return e.Cause }

// NotFoundError reports that the provider has no photo for the given
// identifier.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("photo %q not found", e.ID)
}

// Photo is the resolved metadata for one photo at one size.
type Photo struct {
	ID       string
	ImageURL string // direct image URL for the requested size
	Width    int    // pixel width of the requested size, 0 if unknown
	Height   int    // pixel height of the requested size, 0 if unknown
	Title    string // photo title, used as the caption
}

// LookupService resolves short URLs and fetches photo metadata.  It is the
// only seam that touches the network, so document processing can be tested
// against a stub.
type LookupService interface {
	// ResolveID converts a photo short URL or photo page URL into the
	// provider's photo ID.
	ResolveID(ctx context.Context, shortURL string) (string, error)

	// FetchMetadata retrieves title and size-specific image URL and
	// dimensions for a photo.
	FetchMetadata(ctx context.Context, id string, size Size) (*Photo, error)
}

// Client is a LookupService backed by Flickr's public endpoints.
type Client struct {
	Client  *http.Client // client used for provider requests
	APIKey  string       // Flickr API key, required for metadata calls
	Verbose bool

	endpoint string // REST endpoint, overridden in tests
}

// NewClient constructs a Client.  The provided http RoundTripper will be
// used for provider requests; if nil, an AIA-chasing transport is used.  If
// cache is non-nil, provider responses are additionally cached at the HTTP
// layer.
func NewClient(transport http.RoundTripper, apiKey string, cache Cache) *Client {
	if transport == nil {
		var err error
		transport, err = aia.NewTransport()
		if err != nil {
			transport = http.DefaultTransport
		}
	}
	if cache != nil {
		transport = &httpcache.Transport{
			Transport:           transport,
			Cache:               cache,
			MarkCachedResponses: true,
		}
	}

	return &Client{
		Client:   &http.Client{Transport: transport},
		APIKey:   apiKey,
		endpoint: apiEndpoint,
	}
}

// photosPathID extracts the photo ID from a flickr.com photo page path like
// "/photos/jhowarth/16736042621/in/album-123/".
func photosPathID(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 3 || parts[0] != "photos" {
		return "", false
	}
	id := parts[2]
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return "", false
	}
	return id, true
}

// ResolveID implements LookupService.  flic.kr short URLs encode the photo
// ID in base58 and are decoded locally; photo page URLs carry the ID in the
// path.  Anything else costs one GET that follows redirects to the photo
// page.
func (c *Client) ResolveID(ctx context.Context, shortURL string) (string, error) {
	u, err := url.Parse(shortURL)
	if err != nil {
		return "", ResolutionError{URL: shortURL, Cause: err}
	}

	host := strings.TrimPrefix(u.Host, "www.")
	if host == "flic.kr" {
		code := strings.TrimPrefix(strings.Trim(u.Path, "/"), "p/")
		id, err := DecodeShortID(code)
		if err != nil {
			return "", ResolutionError{URL: shortURL, Cause: err}
		}
		return strconv.FormatUint(id, 10), nil
	}
	if strings.HasSuffix(host, "flickr.com") {
		if id, ok := photosPathID(u.Path); ok {
			return id, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, shortURL, nil)
	if err != nil {
		return "", ResolutionError{URL: shortURL, Cause: err}
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return "", ResolutionError{URL: shortURL, Cause: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return "", NotFoundError{ID: shortURL}
	}
	if resp.StatusCode != http.StatusOK {
		return "", ResolutionError{URL: shortURL, Cause: fmt.Errorf("provider returned status %v", resp.Status)}
	}

	// the redirect chain ends on the photo page
	if id, ok := photosPathID(resp.Request.URL.Path); ok {
		return id, nil
	}
	return "", ResolutionError{URL: shortURL, Cause: fmt.Errorf("no photo ID in final URL %q", resp.Request.URL)}
}

// restResponse is the envelope common to Flickr REST responses.
type restResponse struct {
	Stat    string `json:"stat"`
	Code    int    `json:"code"`
	Message string `json:"message"`

	Photo struct {
		ID     string `json:"id"`
		Secret string `json:"secret"`
		Server string `json:"server"`
		Title  struct {
			Content string `json:"_content"`
		} `json:"title"`
	} `json:"photo"`

	Sizes struct {
		Size []photoSize `json:"size"`
	} `json:"sizes"`
}

// photoSize is one entry of a flickr.photos.getSizes response.  Width and
// height are sometimes returned as strings, so they need a lenient decoder.
type photoSize struct {
	Label  string  `json:"label"`
	Width  flexInt `json:"width"`
	Height flexInt `json:"height"`
	Source string  `json:"source"`
}

type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

// FetchMetadata implements LookupService.  It combines flickr.photos.getInfo
// (title and the building blocks of the image URL) with
// flickr.photos.getSizes (exact dimensions and pre-sized source URL).  The
// sizes call is best effort: if it fails, the image URL is constructed from
// the getInfo fields and dimensions are left unknown.
func (c *Client) FetchMetadata(ctx context.Context, id string, size Size) (*Photo, error) {
	var info restResponse
	if err := c.call(ctx, "flickr.photos.getInfo", id, &info); err != nil {
		return nil, err
	}

	photo := &Photo{
		ID:    id,
		Title: info.Photo.Title.Content,
		ImageURL: fmt.Sprintf("https://live.staticflickr.com/%s/%s_%s_%s.jpg",
			info.Photo.Server, info.Photo.ID, info.Photo.Secret, size.Suffix()),
	}

	var sizes restResponse
	if err := c.call(ctx, "flickr.photos.getSizes", id, &sizes); err != nil {
		if c.Verbose {
			log.Printf("sizes lookup failed for photo %v: %v", id, err)
		}
		return photo, nil
	}
	for _, s := range sizes.Sizes.Size {
		if s.Label != size.Label() {
			continue
		}
		photo.Width = int(s.Width)
		photo.Height = int(s.Height)
		if s.Source != "" {
			photo.ImageURL = s.Source
		}
		break
	}

	return photo, nil
}

// call invokes one REST method for a photo and decodes the response into v.
func (c *Client) call(ctx context.Context, method, photoID string, v *restResponse) error {
	params := url.Values{
		"method":         {method},
		"api_key":        {c.APIKey},
		"photo_id":       {photoID},
		"format":         {"json"},
		"nojsoncallback": {"1"},
	}
	endpoint := c.endpoint
	if endpoint == "" {
		endpoint = apiEndpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return ResolutionError{URL: photoID, Cause: err}
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return ResolutionError{URL: photoID, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ResolutionError{URL: photoID, Cause: fmt.Errorf("%s returned status %v", method, resp.Status)}
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return ResolutionError{URL: photoID, Cause: err}
	}
	if v.Stat != "ok" {
		// code 1 is "Photo not found"
		if v.Code == 1 {
			return NotFoundError{ID: photoID}
		}
		return ResolutionError{URL: photoID, Cause: fmt.Errorf("%s failed: %s (code %d)", method, v.Message, v.Code)}
	}
	return nil
}
