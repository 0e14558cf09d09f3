package site

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Page copy, kept as markdown.
var (
	HeroIntro = `A curated collection of visual stories, exploring the beauty of light,
shadow, and emotion through the lens.`

	AboutStory = `Every photograph in this gallery captures a unique moment in time. From
breathtaking landscapes to intimate portraits, each image tells a story waiting
to be discovered.

Our collection spans various categories including **nature**, **urban
exploration**, and **artistic portraits**, showcasing the beauty found in
everyday moments and extraordinary places alike.`

	ContactIntro = `Interested in collaborating or licensing images? Reach out to us.`
)

// Stat is one figure in the about section.
type Stat struct {
	Value string
	Label string
}

// Content is the rendered page copy.
type Content struct {
	HeroIntro    template.HTML
	About        template.HTML
	ContactIntro template.HTML
	Stats        []Stat
	ContactEmail string
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Typographer))
}

func newCopyPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("p", "span", "strong", "em")
	policy.RequireNoFollowOnLinks(true)
	return policy
}

// RenderMarkdown converts markdown copy to sanitized HTML.
func RenderMarkdown(md goldmark.Markdown, policy *bluemonday.Policy, src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes())), nil
}

// LoadContent renders the built-in page copy.
func LoadContent(contactEmail string) (*Content, error) {
	md := newMarkdown()
	policy := newCopyPolicy()

	c := &Content{
		ContactEmail: contactEmail,
		Stats: []Stat{
			{Value: "500+", Label: "Photos"},
			{Value: "50+", Label: "Categories"},
			{Value: "10K+", Label: "Views"},
		},
	}
	var err error
	if c.HeroIntro, err = RenderMarkdown(md, policy, HeroIntro); err != nil {
		return nil, err
	}
	if c.About, err = RenderMarkdown(md, policy, AboutStory); err != nil {
		return nil, err
	}
	if c.ContactIntro, err = RenderMarkdown(md, policy, ContactIntro); err != nil {
		return nil, err
	}
	return c, nil
}
