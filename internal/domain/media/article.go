// Package media models the articles and news items served by the media
// service.
package media

// Article types as used by the media service's type discriminator
const (
	TypeArticle = "article"
	TypeNews    = "news"
)

// FeaturedImage is the image shown on cards and detail headers,
// referenced by relative path
type FeaturedImage struct {
	ImageID string `json:"image_id"`
	Path    string `json:"path"`
	AltText string `json:"alt_text"`
}

// Tag is a name+slug label attached to an article
type Tag struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Article is one published article or news item
type Article struct {
	ArticleID       string          `json:"article_id"`
	Title           string          `json:"title"`
	Summary         string          `json:"summary"`
	Content         string          `json:"content"`
	PublishedDate   string          `json:"published_date"`
	Author          string          `json:"author"`
	Type            string          `json:"type"`
	FeaturedImageID string          `json:"featured_image_id"`
	FeaturedImage   *FeaturedImage  `json:"featured_image"`
	Images          []FeaturedImage `json:"images"`
	Tags            []Tag           `json:"tags"`
}

// IsNews reports whether the item carries the news discriminator
func (a *Article) IsNews() bool {
	return a.Type == TypeNews
}

// GalleryImages returns the non-featured images shown in the detail
// gallery
func (a *Article) GalleryImages() []FeaturedImage {
	if len(a.Images) <= 1 {
		return nil
	}
	var gallery []FeaturedImage
	for _, img := range a.Images {
		if img.ImageID != a.FeaturedImageID {
			gallery = append(gallery, img)
		}
	}
	return gallery
}
