package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PetOwnerStore interface {
	Register(ctx context.Context, owner *PetOwner) (*PetOwner, error)
	Get(ctx context.Context, id primitive.ObjectID) (*PetOwner, error)
	GetByEmail(ctx context.Context, email string) (*PetOwner, error)
	GetAll(ctx context.Context) ([]*PetOwner, error)
	Update(ctx context.Context, owner *PetOwner) (*PetOwner, error)
	UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatarURL string) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	SetVerified(ctx context.Context, id primitive.ObjectID) error
	Deactivate(ctx context.Context, id primitive.ObjectID) error
	LinkPetSitter(ctx context.Context, ownerID, sitterID primitive.ObjectID) error
	LinkPet(ctx context.Context, ownerID, petID primitive.ObjectID) error
}
