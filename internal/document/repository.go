package document

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/careshare/careshare-api/internal/database"
)

var ErrNotFound = errors.New("document not found")

// Store is the persistence contract one collection exposes to its handlers
type Store interface {
	List(ctx context.Context) ([]Document, error)
	Get(ctx context.Context, id uuid.UUID) (*Document, error)
	Create(ctx context.Context, data map[string]any) (*Document, error)
	Update(ctx context.Context, id uuid.UUID, partial map[string]any) (*UpdateResult, error)
	Delete(ctx context.Context, id uuid.UUID) (*DeleteResult, error)
}

// Repository is a Store over one named collection in the shared
// documents table
type Repository struct {
	db         *bun.DB
	collection string
}

func NewRepository(db *bun.DB, collection string) *Repository {
	return &Repository{db: db, collection: collection}
}

// List returns all documents of the collection in insertion order
func (r *Repository) List(ctx context.Context) ([]Document, error) {
	var dbDocs []database.Document
	err := r.db.NewSelect().
		Model(&dbDocs).
		Where("collection = ?", r.collection).
		Order("created_at", "id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s documents: %w", r.collection, err)
	}

	docs := make([]Document, 0, len(dbDocs))
	for i := range dbDocs {
		docs = append(docs, *mapDBDocumentToModel(&dbDocs[i]))
	}
	return docs, nil
}

// Get retrieves a single document by id
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Document, error) {
	dbDoc := new(database.Document)
	err := r.db.NewSelect().
		Model(dbDoc).
		Where("collection = ?", r.collection).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s document: %w", r.collection, err)
	}

	return mapDBDocumentToModel(dbDoc), nil
}

// Create stores a new document and returns it with its generated id
func (r *Repository) Create(ctx context.Context, data map[string]any) (*Document, error) {
	if data == nil {
		data = map[string]any{}
	}

	dbDoc := &database.Document{
		Collection: r.collection,
		Data:       data,
	}

	_, err := r.db.NewInsert().
		Model(dbDoc).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s document: %w", r.collection, err)
	}

	return mapDBDocumentToModel(dbDoc), nil
}

// Update merges the partial payload into the stored document: fields in
// partial overwrite, absent fields are preserved. An absent id is a
// no-op reported through MatchedCount.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, partial map[string]any) (*UpdateResult, error) {
	patch, err := json.Marshal(partial)
	if err != nil {
		return nil, fmt.Errorf("failed to encode partial document: %w", err)
	}

	result, err := r.db.NewUpdate().
		Model((*database.Document)(nil)).
		Set("data = data || ?::jsonb", string(patch)).
		Where("collection = ?", r.collection).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s document: %w", r.collection, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}

	return &UpdateResult{MatchedCount: rowsAffected, ModifiedCount: rowsAffected}, nil
}

// Delete removes a document by id; deleting an absent id reports zero
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (*DeleteResult, error) {
	result, err := r.db.NewDelete().
		Model((*database.Document)(nil)).
		Where("collection = ?", r.collection).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to delete %s document: %w", r.collection, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}

	return &DeleteResult{DeletedCount: rowsAffected}, nil
}

// mapDBDocumentToModel converts database model to domain model
func mapDBDocumentToModel(dbd *database.Document) *Document {
	return &Document{
		ID:        dbd.ID,
		Data:      dbd.Data,
		CreatedAt: dbd.CreatedAt,
	}
}
