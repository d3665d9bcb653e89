package document

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Document is a schemaless payload with a store-generated identity.
// The backend imposes no shape on Data; "id" is the one reserved field.
type Document struct {
	ID        uuid.UUID
	Data      map[string]any
	CreatedAt time.Time
}

// MarshalJSON flattens the payload and merges the generated id into it,
// the way a document store returns its records
func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Data)+1)
	for k, v := range d.Data {
		out[k] = v
	}
	out["id"] = d.ID.String()
	return json.Marshal(out)
}

// CreateResult reports a successful insert
type CreateResult struct {
	InsertedID uuid.UUID `json:"insertedId"`
}

// UpdateResult reports how many documents an update touched.
// MatchedCount of zero means the id was absent; that is not an error.
type UpdateResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// DeleteResult reports how many documents a delete removed.
// Deleting an absent id reports zero, it does not fail.
type DeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}
