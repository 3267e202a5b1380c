package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PetStore interface {
	Insert(ctx context.Context, pet *Pet) (*Pet, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Pet, error)
	GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*Pet, error)
	Update(ctx context.Context, pet *Pet) (*Pet, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
