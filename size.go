// Copyright 2026 The flickrtag authors.
// SPDX-License-Identifier: Apache-2.0

package flickrtag

import "strings"

// Size identifies one of Flickr's predefined image sizes by its URL suffix
// letter.  See https://www.flickr.com/services/api/misc.urls.html.
type Size string

const (
	SizeSquare      Size = "s" // 75x75 square
	SizeThumbnail   Size = "t" // 100 on longest side
	SizeLargeSquare Size = "q" // 150x150 square
	SizeSmall       Size = "m" // 240 on longest side
	SizeMedium640   Size = "z" // 640 on longest side
	SizeLarge       Size = "b" // 1024 on longest side
)

// DefaultSize is used when a tag omits the size parameter or names a size
// that isn't recognized.
const DefaultSize = SizeMedium640

// sizeAliases maps the author-facing size names accepted in tags to suffix
// letters.  Several spellings are accepted for each size.
var sizeAliases = map[string]Size{
	"smallsq": SizeSquare, "sq75": SizeSquare, "75": SizeSquare,
	"thumb": SizeThumbnail, "th100": SizeThumbnail, "100": SizeThumbnail,
	"largesq": SizeLargeSquare, "sq150": SizeLargeSquare, "150": SizeLargeSquare,
	"small": SizeSmall, "small240": SizeSmall, "240": SizeSmall,
	"medium": SizeMedium640, "medium640": SizeMedium640, "640": SizeMedium640,
	"large": SizeLarge, "large1024": SizeLarge, "1024": SizeLarge,
}

// sizeLabels maps suffix letters to the labels used by the
// flickr.photos.getSizes API.
var sizeLabels = map[Size]string{
	SizeSquare:      "Square",
	SizeThumbnail:   "Thumbnail",
	SizeLargeSquare: "Large Square",
	SizeSmall:       "Small",
	SizeMedium640:   "Medium 640",
	SizeLarge:       "Large",
}

// LookupSize resolves an author-facing size name to a Size.  Names are
// matched case-insensitively.
func LookupSize(name string) (Size, bool) {
	s, ok := sizeAliases[strings.ToLower(name)]
	return s, ok
}

// Label returns the size label used by the provider's sizes API.
func (s Size) Label() string {
	if l, ok := sizeLabels[s]; ok {
		return l
	}
	return sizeLabels[DefaultSize]
}

// Suffix returns the staticflickr URL suffix for the size.
func (s Size) Suffix() string {
	if _, ok := sizeLabels[s]; ok {
		return string(s)
	}
	return string(DefaultSize)
}

// CaptionDefault reports whether captions are shown for this size when the
// tag doesn't say.  Captions clutter the small sizes, so only the two large
// sizes show them by default.
func (s Size) CaptionDefault() bool {
	if s == "" {
		s = DefaultSize
	}
	return s == SizeMedium640 || s == SizeLarge
}
