package domain

import "time"

// Document represents an uploaded document awaiting or holding an extracted
// transcript. Records are created elsewhere; this pipeline only ever fills in
// PageContentURL, WordCount, and TokenCountEstimate, together, after a
// transcript has been produced and stored. A nil PageContentURL marks the
// record as not yet processed.
type Document struct {
	ID                 string    `gorm:"type:text;primaryKey" json:"id"`
	URL                string    `gorm:"type:text;not null" json:"url"`
	Title              string    `gorm:"type:text" json:"title,omitempty"`
	PageContentURL     *string   `gorm:"column:page_content_url;index:idx_documents_page_content" json:"page_content_url,omitempty"`
	WordCount          *int      `json:"word_count,omitempty"`
	TokenCountEstimate *int      `json:"token_count_estimate,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName returns the database table name for Document.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (Document) TableName() string {
	return "documents"
}

// Processed reports whether a transcript has already been extracted.
func (d *Document) Processed() bool {
	return d.PageContentURL != nil
}
