// Copyright 2026 The flickrtag authors.
// SPDX-License-Identifier: Apache-2.0

package flickrtag

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// MalformedTagError reports a tag whose parameter list could not be parsed.
type MalformedTagError struct {
	Tag     string // full tag text as it appears in the document
	Message string
}

func (e MalformedTagError) Error() string {
	return fmt.Sprintf("malformed tag %q: %s", e.Tag, e.Message)
}

// FloatPosition controls horizontal float of the rendered image.  Floated
// images get a pull-left or pull-right class; non-floated images are
// full-width and followed by a clearfix.
type FloatPosition string

const (
	FloatNone  FloatPosition = ""
	FloatLeft  FloatPosition = "left"
	FloatRight FloatPosition = "right"
)

// Params holds the parsed parameters of a single tag.
type Params struct {
	URL   string // photo short URL or photo page URL (required)
	Size  Size   // requested image size
	Float FloatPosition

	// Caption indicates whether to render the photo title as a caption.
	// It only takes effect when CaptionSet is true; otherwise the
	// per-size default applies (captions on for the two large sizes).
	Caption    bool
	CaptionSet bool
}

var emptyParams = Params{}

// ShowCaption reports whether a caption should be rendered, applying the
// per-size default when the tag did not specify one.
func (p Params) ShowCaption() bool {
	if p.CaptionSet {
		return p.Caption
	}
	return p.Size.CaptionDefault()
}

func (p Params) String() string {
	var parts []string
	parts = append(parts, "url="+p.URL)
	if p.Size != "" {
		parts = append(parts, "size="+string(p.Size))
	}
	if p.CaptionSet {
		parts = append(parts, fmt.Sprintf("caption=%t", p.Caption))
	}
	if p.Float != FloatNone {
		parts = append(parts, "float="+string(p.Float))
	}
	return strings.Join(parts, ",")
}

// booleanStates are the literals accepted for the caption parameter,
// matching ConfigParser-style boolean handling.
var booleanStates = map[string]bool{
	"1": true, "yes": true, "y": true, "true": true, "on": true,
	"0": false, "no": false, "n": false, "false": false, "off": false,
}

// tagRegexp matches the inline tag syntax.  Markdown renderers tend to wrap
// a tag on its own line in a paragraph, so the tag may be preceded and
// followed by <p></p>; only the bracketed tag itself is replaced.
var tagRegexp = regexp.MustCompile(`(?i)\[flickr:([^\]]*)\]`)

// Tag is a single occurrence of the tag syntax found in document text.
type Tag struct {
	Raw    string // complete tag text, e.g. "[flickr:url=...,size=small]"
	Params Params
	Err    error // non-nil if the parameter list was malformed
}

// FindTags scans document text and returns all tags in document order.
// Malformed tags are returned with Err set rather than omitted, so callers
// can log them; their Raw text is still exact enough to be left in place.
func FindTags(text string) []Tag {
	matches := tagRegexp.FindAllStringSubmatch(text, -1)
	if matches == nil {
		return nil
	}

	tags := make([]Tag, 0, len(matches))
	for _, m := range matches {
		tag := Tag{Raw: m[0]}
		tag.Params, tag.Err = ParseParams(m[1])
		if tag.Err != nil {
			if e, ok := tag.Err.(MalformedTagError); ok {
				e.Tag = tag.Raw
				tag.Err = e
			}
		}
		tags = append(tags, tag)
	}
	return tags
}

// ParseParams parses a tag parameter list of the form
// "url=...,size=...,caption=...,float=...".  Only url is required; unknown
// keys are ignored.  Parsing is pure: the same input always yields the same
// Params.
func ParseParams(body string) (Params, error) {
	var p Params

	for _, part := range strings.Split(body, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, value, found := strings.Cut(part, "=")
		if !found {
			return emptyParams, MalformedTagError{Message: fmt.Sprintf("parameter %q is not key=value", part)}
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "url":
			p.URL = value
		case "size":
			// misspelled or unknown sizes fall back to the default
			if s, ok := LookupSize(value); ok {
				p.Size = s
			}
		case "caption", "show_caption":
			p.CaptionSet = true
			// unrecognized literals enable the caption, matching the
			// original plugin's lenient handling
			b, ok := booleanStates[strings.ToLower(value)]
			if !ok {
				b = true
			}
			p.Caption = b
		case "float":
			switch strings.ToLower(value) {
			case "left":
				p.Float = FloatLeft
			case "right":
				p.Float = FloatRight
			default:
				p.Float = FloatNone
			}
		}
	}

	if p.URL == "" {
		return emptyParams, MalformedTagError{Message: "missing required url parameter"}
	}
	u, err := url.Parse(p.URL)
	if err != nil {
		return emptyParams, MalformedTagError{Message: fmt.Sprintf("unable to parse url: %v", err)}
	}
	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return emptyParams, MalformedTagError{Message: "url must be absolute http or https"}
	}
	// photo pages are always served over https
	p.URL = strings.Replace(p.URL, "http://", "https://", 1)

	return p, nil
}
