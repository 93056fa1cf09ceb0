package models

// Media is an image attached to a recipe. Its bytes live in blob storage
// under Path; Content carries them in transport form and is never a column.
type Media struct {
	ID       int    `gorm:"column:id;primaryKey" json:"id"`
	Path     string `gorm:"column:path;size:1024" json:"path"`
	Title    string `gorm:"column:title;size:255" json:"title"`
	Tag      string `gorm:"column:tag;size:100" json:"tag"`
	RecipeID int    `gorm:"column:recipe_id;index" json:"recipeId"`
	// Content is a data-url or raw base64 string.
	Content string `gorm:"-" json:"content,omitempty"`
}

// TableName overrides the table name.
func (Media) TableName() string {
	return "medias"
}

// Identity returns the media id.
func (m *Media) Identity() int { return m.ID }

// ResetIdentity clears the id and the path derived from it.
func (m *Media) ResetIdentity() {
	m.ID = 0
	m.Path = ""
}

// Equal compares the persisted fields. A pending content payload always
// makes the media differ, since only the file holds the stored bytes.
func (m *Media) Equal(o *Media) bool {
	if o == nil {
		return false
	}
	return m.ID == o.ID &&
		m.Path == o.Path &&
		m.Title == o.Title &&
		m.Tag == o.Tag &&
		m.RecipeID == o.RecipeID &&
		m.Content == "" && o.Content == ""
}

// PendingMedia is a media item that has no row yet.
type PendingMedia struct {
	RecipeID int
	Title    string
	Tag      string
	Content  []byte
}

// StoredMedia is a media item with its row id and file path.
type StoredMedia struct {
	ID       int
	RecipeID int
	Title    string
	Tag      string
	Path     string
}

// Stored returns the stored variant of m.
func (m *Media) Stored() StoredMedia {
	return StoredMedia{ID: m.ID, RecipeID: m.RecipeID, Title: m.Title, Tag: m.Tag, Path: m.Path}
}

// Media returns the row form of s.
func (s StoredMedia) Media() *Media {
	return &Media{ID: s.ID, RecipeID: s.RecipeID, Title: s.Title, Tag: s.Tag, Path: s.Path}
}
