package repository

import (
	"context"

	"github.com/timmy/docscribe/internal/domain"
	"gorm.io/gorm"
)

// DocumentRepository handles document record operations.
type DocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new DocumentRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *DocumentRepository: repository instance bound to db.
func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// ListUnprocessed retrieves documents without an extracted transcript.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - limit: maximum number of records to return; 0 means all.
// Returns:
//   - []domain.Document: records where page_content_url is NULL, oldest first.
//   - error: non-nil if the query fails.
func (r *DocumentRepository) ListUnprocessed(ctx context.Context, limit int) ([]domain.Document, error) {
	var docs []domain.Document
	query := r.db.WithContext(ctx).
		Where("page_content_url IS NULL").
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// CountUnprocessed counts documents without an extracted transcript.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - int64: number of candidate records.
//   - error: non-nil if the query fails.
func (r *DocumentRepository) CountUnprocessed(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Document{}).
		Where("page_content_url IS NULL").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetByID retrieves a document by its ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: document ID.
// Returns:
//   - *domain.Document: document record if found.
//   - error: non-nil if lookup fails.
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	var doc domain.Document
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpdateExtraction records a stored transcript against a document. All three
// fields are written in a single update so a record is either untouched or
// fully processed.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: document ID.
//   - pageContentURL: public locator of the stored transcript.
//   - wordCount: naive word count of the transcript.
//   - tokenCountEstimate: approximate token count of the transcript.
// Returns:
//   - error: non-nil if the update fails or matches no record.
func (r *DocumentRepository) UpdateExtraction(ctx context.Context, id string, pageContentURL string, wordCount, tokenCountEstimate int) error {
	result := r.db.WithContext(ctx).Model(&domain.Document{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"page_content_url":     pageContentURL,
			"word_count":           wordCount,
			"token_count_estimate": tokenCountEstimate,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
