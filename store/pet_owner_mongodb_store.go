package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/petNanny/pn-server/domain"
)

const OWNER_COLLECTION = "petOwners"

type PetOwnerMongoDBStore struct {
	owners *mongo.Collection
	tracer trace.Tracer
}

func NewPetOwnerMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.PetOwnerStore {
	owners := client.Database(DATABASE).Collection(OWNER_COLLECTION)
	return &PetOwnerMongoDBStore{
		owners: owners,
		tracer: tracer,
	}
}

func (store *PetOwnerMongoDBStore) Register(ctx context.Context, owner *domain.PetOwner) (*domain.PetOwner, error) {
	ctx, span := store.tracer.Start(ctx, "PetOwnerStore.Register")
	defer span.End()

	owner.ID = primitive.NewObjectID()
	result, err := store.owners.InsertOne(ctx, owner)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	owner.ID = result.InsertedID.(primitive.ObjectID)
	return owner, nil
}

func (store *PetOwnerMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.PetOwner, error) {
	ctx, span := store.tracer.Start(ctx, "PetOwnerStore.Get")
	defer span.End()

	filter := bson.M{"_id": id}
	return store.filterOne(ctx, filter)
}

func (store *PetOwnerMongoDBStore) GetByEmail(ctx context.Context, email string) (*domain.PetOwner, error) {
	ctx, span := store.tracer.Start(ctx, "PetOwnerStore.GetByEmail")
	defer span.End()

	filter := bson.M{"email": email}
	return store.filterOne(ctx, filter)
}

func (store *PetOwnerMongoDBStore) GetAll(ctx context.Context) ([]*domain.PetOwner, error) {
	ctx, span := store.tracer.Start(ctx, "PetOwnerStore.GetAll")
	defer span.End()

	cursor, err := store.owners.Find(ctx, bson.M{})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeOwners(ctx, cursor)
}

func (store *PetOwnerMongoDBStore) Update(ctx context.Context, owner *domain.PetOwner) (*domain.PetOwner, error) {
	ctx, span := store.tracer.Start(ctx, "PetOwnerStore.Update")
	defer span.End()

	updateData := bson.M{
		"firstName": owner.FirstName,
		"lastName":  owner.LastName,
		"userName":  owner.UserName,
		"phone":     owner.Phone,
		"updatedAt": owner.UpdatedAt,
	}

	filter := bson.M{"_id": owner.ID}
	update := bson.M{"$set": updateData}

	result, err := store.owners.UpdateOne(ctx, filter, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return owner, nil
}

func (store *PetOwnerMongoDBStore) UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatarURL string) error {
	ctx, span := store.tracer.Start(ctx, "PetOwnerStore.UpdateAvatar")
	defer span.End()

	update := bson.M{"$set": bson.M{"avatar": avatarURL}}
	result, err := store.owners.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (store *PetOwnerMongoDBStore) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	ctx, span := store.tracer.Start(ctx, "PetOwnerStore.UpdatePassword")
	defer span.End()

	update := bson.M{"$set": bson.M{"password": passwordHash}}
	result, err := store.owners.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (store *PetOwnerMongoDBStore) SetVerified(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "PetOwnerStore.SetVerified")
	defer span.End()

	update := bson.M{"$set": bson.M{"verified": true}}
	_, err := store.owners.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (store *PetOwnerMongoDBStore) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "PetOwnerStore.Deactivate")
	defer span.End()

	update := bson.M{"$set": bson.M{"isActive": false}}
	result, err := store.owners.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (store *PetOwnerMongoDBStore) LinkPetSitter(ctx context.Context, ownerID, sitterID primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "PetOwnerStore.LinkPetSitter")
	defer span.End()

	update := bson.M{"$set": bson.M{"petSitter": sitterID}}
	_, err := store.owners.UpdateOne(ctx, bson.M{"_id": ownerID}, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (store *PetOwnerMongoDBStore) LinkPet(ctx context.Context, ownerID, petID primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "PetOwnerStore.LinkPet")
	defer span.End()

	update := bson.M{"$addToSet": bson.M{"pets": petID}}
	_, err := store.owners.UpdateOne(ctx, bson.M{"_id": ownerID}, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (store *PetOwnerMongoDBStore) filterOne(ctx context.Context, filter interface{}) (owner *domain.PetOwner, err error) {
	result := store.owners.FindOne(ctx, filter)
	err = result.Decode(&owner)
	return
}

func decodeOwners(ctx context.Context, cursor *mongo.Cursor) (owners []*domain.PetOwner, err error) {
	for cursor.Next(ctx) {
		var owner domain.PetOwner
		err = cursor.Decode(&owner)
		if err != nil {
			return
		}
		owners = append(owners, &owner)
	}
	err = cursor.Err()
	return
}
