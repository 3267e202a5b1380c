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

const PET_COLLECTION = "pets"

type PetMongoDBStore struct {
	pets   *mongo.Collection
	tracer trace.Tracer
}

func NewPetMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.PetStore {
	pets := client.Database(DATABASE).Collection(PET_COLLECTION)
	return &PetMongoDBStore{
		pets:   pets,
		tracer: tracer,
	}
}

func (store *PetMongoDBStore) Insert(ctx context.Context, pet *domain.Pet) (*domain.Pet, error) {
	ctx, span := store.tracer.Start(ctx, "PetStore.Insert")
	defer span.End()

	pet.ID = primitive.NewObjectID()
	result, err := store.pets.InsertOne(ctx, pet)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	pet.ID = result.InsertedID.(primitive.ObjectID)
	return pet, nil
}

func (store *PetMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Pet, error) {
	ctx, span := store.tracer.Start(ctx, "PetStore.Get")
	defer span.End()

	var pet *domain.Pet
	err := store.pets.FindOne(ctx, bson.M{"_id": id}).Decode(&pet)
	return pet, err
}

func (store *PetMongoDBStore) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*domain.Pet, error) {
	ctx, span := store.tracer.Start(ctx, "PetStore.GetByOwner")
	defer span.End()

	cursor, err := store.pets.Find(ctx, bson.M{"petOwner": ownerID})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	var pets []*domain.Pet
	for cursor.Next(ctx) {
		var pet domain.Pet
		if err := cursor.Decode(&pet); err != nil {
			return nil, err
		}
		pets = append(pets, &pet)
	}
	return pets, cursor.Err()
}

func (store *PetMongoDBStore) Update(ctx context.Context, pet *domain.Pet) (*domain.Pet, error) {
	ctx, span := store.tracer.Start(ctx, "PetStore.Update")
	defer span.End()

	updateData := PetUpdateDocument(pet)
	if len(updateData) == 0 {
		return store.Get(ctx, pet.ID)
	}

	result, err := store.pets.UpdateOne(ctx, bson.M{"_id": pet.ID}, bson.M{"$set": updateData})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return pet, nil
}

// PetUpdateDocument builds the $set document for a pet update from the
// fields the request actually carries. The owner link is set at creation
// and never rewritten here.
func PetUpdateDocument(pet *domain.Pet) bson.M {
	updateData := bson.M{}
	if pet.Name != "" {
		updateData["name"] = pet.Name
	}
	if pet.Species != "" {
		updateData["species"] = pet.Species
	}
	if pet.Breed != "" {
		updateData["breed"] = pet.Breed
	}
	if pet.Size != "" {
		updateData["size"] = pet.Size
	}
	if pet.Age > 0 {
		updateData["age"] = pet.Age
	}
	if pet.Notes != "" {
		updateData["notes"] = pet.Notes
	}
	return updateData
}

func (store *PetMongoDBStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "PetStore.Delete")
	defer span.End()

	result, err := store.pets.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
