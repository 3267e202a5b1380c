package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PetSitterStore interface {
	Insert(ctx context.Context, sitter *PetSitter) (*PetSitter, error)
	Get(ctx context.Context, id primitive.ObjectID) (*PetSitter, error)
	GetByOwner(ctx context.Context, ownerID primitive.ObjectID) (*PetSitter, error)
	GetPage(ctx context.Context, page int) ([]*PetSitter, int64, error)
	Update(ctx context.Context, sitter *PetSitter) (*PetSitter, error)
	UpdateUnavailableDates(ctx context.Context, id primitive.ObjectID, dates []string) error
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error

	// Filter runs the composed discovery query twice against the same
	// criteria: a paginated fetch and an unlimited count.
	Filter(ctx context.Context, query *DiscoveryQuery) ([]*PetSitter, int64, error)
}
