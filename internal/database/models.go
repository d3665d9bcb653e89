package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the database model for registered accounts.
// Email carries a unique index so concurrent registrations for the same
// address cannot both succeed.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID           uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name         string    `bun:"name,notnull"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:now()"`
}

// Document is the database model for schemaless resource payloads.
// All collections share one table; Collection is the discriminator.
type Document struct {
	bun.BaseModel `bun:"table:documents"`

	ID         uuid.UUID      `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Collection string         `bun:"collection,notnull"`
	Data       map[string]any `bun:"data,type:jsonb,notnull"`
	CreatedAt  time.Time      `bun:"created_at,notnull,default:now()"`
}
