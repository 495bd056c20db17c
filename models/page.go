package models

// PageContent is the normalised view of a page handed to the roast prompt
// builder. It is built once per acquisition attempt and never mutated.
type PageContent struct {
	// SourceURL is the URL the content was acquired for.
	SourceURL string `json:"source_url"`

	// Title is the first <title> text, or nil when the page has none.
	Title *string `json:"title,omitempty"`

	// Description is the meta description, or nil when absent.
	Description *string `json:"description,omitempty"`

	// Headings holds at most 10 h1/h2/h3 texts in tag-priority order.
	Headings []string `json:"headings"`

	// BodySummary is the leading paragraph text, at most 500 characters
	// plus a trailing "..." when truncated.
	BodySummary string `json:"body_summary"`
}

// NewPageContent builds a PageContent. The headings slice is copied so the
// caller cannot mutate the result afterwards.
func NewPageContent(sourceURL string, title, description *string, headings []string, bodySummary string) *PageContent {
	hs := make([]string, len(headings))
	copy(hs, headings)
	return &PageContent{
		SourceURL:   sourceURL,
		Title:       cloneString(title),
		Description: cloneString(description),
		Headings:    hs,
		BodySummary: bodySummary,
	}
}

// TitleOr returns the title or fallback when the title is absent.
func (p *PageContent) TitleOr(fallback string) string {
	if p == nil || p.Title == nil {
		return fallback
	}
	return *p.Title
}

// DescriptionOr returns the description or fallback when it is absent.
func (p *PageContent) DescriptionOr(fallback string) string {
	if p == nil || p.Description == nil {
		return fallback
	}
	return *p.Description
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
