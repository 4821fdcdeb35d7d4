// Copyright 2026 The flickrtag authors.
// SPDX-License-Identifier: Apache-2.0

package flickrtag

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// stubService is a LookupService with canned responses and call counting.
type stubService struct {
	ids    map[string]string // short URL -> photo ID
	photos map[string]*Photo // photo ID -> metadata

	resolveCalls int
	fetchCalls   int
}

func (s *stubService) ResolveID(_ context.Context, shortURL string) (string, error) {
	s.resolveCalls++
	id, ok := s.ids[shortURL]
	if !ok {
		return "", ResolutionError{URL: shortURL, Cause: errors.New("stub: unknown URL")}
	}
	return id, nil
}

func (s *stubService) FetchMetadata(_ context.Context, id string, size Size) (*Photo, error) {
	s.fetchCalls++
	photo, ok := s.photos[id]
	if !ok {
		return nil, NotFoundError{ID: id}
	}
	return photo, nil
}

func newTestService() *stubService {
	return &stubService{
		ids: map[string]string{
			"https://flic.kr/p/BWmPQ5": "123",
		},
		photos: map[string]*Photo{
			"123": {
				ID:       "123",
				ImageURL: "https://live.staticflickr.com/x/123_small240.jpg",
				Width:    240,
				Height:   160,
				Title:    "Truckee",
			},
		},
	}
}

func TestProcessor_Process(t *testing.T) {
	svc := newTestService()
	p := NewProcessor(svc, mapCache{})

	in := "before\n[flickr:url=https://flic.kr/p/BWmPQ5,size=small240,caption=true,float=right]\nafter"
	out := p.Process(context.Background(), in)

	if strings.Contains(out, "[flickr:") {
		t.Errorf("Process left tag in output:\n%s", out)
	}
	for _, want := range []string{
		"before\n",
		"\nafter",
		`src="https://live.staticflickr.com/x/123_small240.jpg"`,
		"pull-right",
		`<p class="desc_content">Truckee</p>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Process output missing %q:\n%s", want, out)
		}
	}
}

func TestProcessor_UnresolvableURLLeavesTag(t *testing.T) {
	svc := newTestService()
	p := NewProcessor(svc, mapCache{})

	in := "a [flickr:url=https://flic.kr/p/unknown123] b"
	if got := p.Process(context.Background(), in); got != in {
		t.Errorf("Process returned %q, want input unchanged", got)
	}
}

func TestProcessor_NotFoundLeavesTag(t *testing.T) {
	svc := newTestService()
	svc.ids["https://flic.kr/p/deleted"] = "404404"

	p := NewProcessor(svc, mapCache{})
	in := "a [flickr:url=https://flic.kr/p/deleted] b"
	if got := p.Process(context.Background(), in); got != in {
		t.Errorf("Process returned %q, want input unchanged", got)
	}
}

func TestProcessor_MissingURLLeavesTextUnchanged(t *testing.T) {
	svc := newTestService()
	p := NewProcessor(svc, mapCache{})

	in := "a [flickr:size=small240,caption=true] b"
	if got := p.Process(context.Background(), in); got != in {
		t.Errorf("Process returned %q, want input unchanged", got)
	}
	if svc.resolveCalls != 0 {
		t.Errorf("malformed tag triggered %d resolve calls", svc.resolveCalls)
	}
}

func TestProcessor_NoTags(t *testing.T) {
	p := NewProcessor(newTestService(), mapCache{})
	in := "plain text, no tags at all"
	if got := p.Process(context.Background(), in); got != in {
		t.Errorf("Process returned %q, want input unchanged", got)
	}
}

func TestProcessor_CacheSuppressesLookups(t *testing.T) {
	svc := newTestService()
	p := NewProcessor(svc, mapCache{})

	in := "[flickr:url=https://flic.kr/p/BWmPQ5,size=small240]"
	first := p.Process(context.Background(), in)
	second := p.Process(context.Background(), in)

	if first != second {
		t.Errorf("repeated Process differs:\n%s\n---\n%s", first, second)
	}
	if got, want := svc.resolveCalls, 1; got != want {
		t.Errorf("resolveCalls = %d, want %d", got, want)
	}
	if got, want := svc.fetchCalls, 1; got != want {
		t.Errorf("fetchCalls = %d, want %d", got, want)
	}
}

func TestProcessor_SizesCachedSeparately(t *testing.T) {
	svc := newTestService()
	p := NewProcessor(svc, mapCache{})

	p.Process(context.Background(), "[flickr:url=https://flic.kr/p/BWmPQ5,size=small240]")
	p.Process(context.Background(), "[flickr:url=https://flic.kr/p/BWmPQ5,size=large1024]")

	if got, want := svc.fetchCalls, 2; got != want {
		t.Errorf("fetchCalls = %d, want %d (one per size)", got, want)
	}
	if got, want := svc.resolveCalls, 1; got != want {
		t.Errorf("resolveCalls = %d, want %d", got, want)
	}
}

func TestProcessor_RefreshWindow(t *testing.T) {
	svc := newTestService()
	p := NewProcessor(svc, mapCache{})

	now := time.Unix(1700000000, 0)
	p.now = func() time.Time { return now }
	p.intn = func(int64) int64 { return 0 }

	in := "[flickr:url=https://flic.kr/p/BWmPQ5]"
	p.Process(context.Background(), in)

	// within the session window: served from cache
	now = now.Add(30 * time.Minute)
	p.Process(context.Background(), in)
	if got, want := svc.fetchCalls, 1; got != want {
		t.Fatalf("fetchCalls = %d, want %d", got, want)
	}

	// past the refresh deadline: re-fetched
	now = now.Add(recentInterval + updateIncrement + time.Hour)
	p.Process(context.Background(), in)
	if got, want := svc.fetchCalls, 2; got != want {
		t.Errorf("fetchCalls after refresh window = %d, want %d", got, want)
	}
}

// failAfterService serves one fetch, then fails.
type failAfterService struct {
	*stubService
	served bool
}

func (s *failAfterService) FetchMetadata(ctx context.Context, id string, size Size) (*Photo, error) {
	if s.served {
		return nil, ResolutionError{URL: id, Cause: errors.New("stub: provider down")}
	}
	s.served = true
	return s.stubService.FetchMetadata(ctx, id, size)
}

func TestProcessor_ServesStaleOnRefreshFailure(t *testing.T) {
	svc := &failAfterService{stubService: newTestService()}
	p := NewProcessor(svc, mapCache{})

	now := time.Unix(1700000000, 0)
	p.now = func() time.Time { return now }
	p.intn = func(int64) int64 { return 0 }

	in := "[flickr:url=https://flic.kr/p/BWmPQ5]"
	first := p.Process(context.Background(), in)

	// entry is past its refresh deadline and the provider is down; the
	// stale entry keeps the tag rendered
	now = now.Add(refreshInterval + time.Hour)
	second := p.Process(context.Background(), in)

	if first != second {
		t.Errorf("stale render differs from original:\n%s\n---\n%s", first, second)
	}
	if strings.Contains(second, "[flickr:") {
		t.Errorf("tag left unrendered on refresh failure:\n%s", second)
	}
}

func TestProcessor_MultipleTags(t *testing.T) {
	svc := newTestService()
	svc.ids["https://flic.kr/p/7Afjsu"] = "456"
	svc.photos["456"] = &Photo{
		ID:       "456",
		ImageURL: "https://live.staticflickr.com/x/456_z.jpg",
		Title:    "Donner Pass",
	}

	p := NewProcessor(svc, mapCache{})
	in := "[flickr:url=https://flic.kr/p/BWmPQ5]\n\n" +
		"[flickr:url=https://flic.kr/p/broken]\n\n" +
		"[flickr:url=https://flic.kr/p/7Afjsu,float=left]"
	out := p.Process(context.Background(), in)

	if !strings.Contains(out, "123_small240.jpg") && !strings.Contains(out, "123_") {
		t.Errorf("first tag not rendered:\n%s", out)
	}
	if !strings.Contains(out, "[flickr:url=https://flic.kr/p/broken]") {
		t.Errorf("broken tag should remain unchanged:\n%s", out)
	}
	if !strings.Contains(out, "456_z.jpg") {
		t.Errorf("third tag not rendered:\n%s", out)
	}
}
