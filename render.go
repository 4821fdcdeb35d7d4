// Copyright 2026 The flickrtag authors.
// SPDX-License-Identifier: Apache-2.0

package flickrtag

import (
	"html/template"
	"strings"
)

// ResolvedImage is the fully-resolved input to markup rendering.
type ResolvedImage struct {
	ImageURL    string        // direct image URL for the requested size
	PageURL     string        // photo page the rendered image links to
	Width       int           // pixel width, 0 if unknown
	Height      int           // pixel height, 0 if unknown
	Caption     string        // caption text (the photo title)
	Float       FloatPosition // left, right, or none (full width)
	ShowCaption bool
}

// DefaultTemplate is the markup emitted in place of a tag.  The pull-left
// and pull-right classes match Bootstrap's float helpers; non-floated images
// are followed by a clearfix.
const DefaultTemplate = `<div class="caption-container">
    <a class="caption" href="{{.PageURL}}" target="_blank">
    <div class="image-wrapper{{if .Float}} pull-{{.Float}}{{end}}">
        <img src="{{.ImageURL}}"
            alt="{{.Caption}}"
            title="{{.Caption}}"
            class="img-polaroid"{{if .Width}}
            width="{{.Width}}"
            height="{{.Height}}"{{end}} />
        {{if .ShowCaption}}<div class="desc">
            <p class="desc_content">{{.Caption}}</p>
        </div>
        {{end}}</div>
    </a>
</div>
{{if not .Float}}<div class="clearfix"></div>{{end}}`

var defaultTemplate = template.Must(template.New("flickrtag").Parse(DefaultTemplate))

// Render substitutes the resolved image into tmpl and returns the markup.
// If tmpl is nil, DefaultTemplate is used.  Render is a pure function: it
// has no side effects and fails only on a broken custom template.
func Render(tmpl *template.Template, img ResolvedImage) (string, error) {
	if tmpl == nil {
		tmpl = defaultTemplate
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, img); err != nil {
		return "", err
	}
	return sb.String(), nil
}
