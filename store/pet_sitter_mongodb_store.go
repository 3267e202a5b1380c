package store

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/petNanny/pn-server/domain"
)

const (
	DATABASE          = "petnanny"
	SITTER_COLLECTION = "petSitters"

	// PageSize is the fixed discovery page size.
	PageSize = 8

	// MaxSearchRadiusMeters bounds every proximity query.
	MaxSearchRadiusMeters = 50000

	earthRadiusMeters = 6378100
)

type PetSitterMongoDBStore struct {
	sitters *mongo.Collection
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewPetSitterMongoDBStore(client *mongo.Client, tracer trace.Tracer, logger *logrus.Logger) domain.PetSitterStore {
	sitters := client.Database(DATABASE).Collection(SITTER_COLLECTION)
	return &PetSitterMongoDBStore{
		sitters: sitters,
		tracer:  tracer,
		logger:  logger,
	}
}

func (store *PetSitterMongoDBStore) Insert(ctx context.Context, sitter *domain.PetSitter) (*domain.PetSitter, error) {
	ctx, span := store.tracer.Start(ctx, "PetSitterStore.Insert")
	defer span.End()

	sitter.ID = primitive.NewObjectID()
	result, err := store.sitters.InsertOne(ctx, sitter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	sitter.ID = result.InsertedID.(primitive.ObjectID)
	return sitter, nil
}

func (store *PetSitterMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.PetSitter, error) {
	ctx, span := store.tracer.Start(ctx, "PetSitterStore.Get")
	defer span.End()

	filter := bson.M{"_id": id}
	return store.filterOne(ctx, filter)
}

func (store *PetSitterMongoDBStore) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) (*domain.PetSitter, error) {
	ctx, span := store.tracer.Start(ctx, "PetSitterStore.GetByOwner")
	defer span.End()

	filter := bson.M{"petOwner": ownerID}
	return store.filterOne(ctx, filter)
}

// GetPage returns one page of the unfiltered listing, newest profiles first,
// together with the collection total.
func (store *PetSitterMongoDBStore) GetPage(ctx context.Context, page int) ([]*domain.PetSitter, int64, error) {
	ctx, span := store.tracer.Start(ctx, "PetSitterStore.GetPage")
	defer span.End()

	total, err := store.sitters.CountDocuments(ctx, bson.M{})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	if page < 1 {
		return []*domain.PetSitter{}, total, nil
	}

	opts := options.Find().
		SetSort(bson.M{"_id": -1}).
		SetLimit(PageSize).
		SetSkip(int64(page-1) * PageSize)

	cursor, err := store.sitters.Find(ctx, bson.M{}, opts)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	sitters, err := decodeSitters(ctx, cursor)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}
	return sitters, total, nil
}

func (store *PetSitterMongoDBStore) Update(ctx context.Context, sitter *domain.PetSitter) (*domain.PetSitter, error) {
	ctx, span := store.tracer.Start(ctx, "PetSitterStore.Update")
	defer span.End()

	filter := bson.M{"_id": sitter.ID}
	update := bson.M{"$set": SitterUpdateDocument(sitter)}

	result, err := store.sitters.UpdateOne(ctx, filter, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return sitter, nil
}

// SitterUpdateDocument builds the $set document for a profile update from
// the fields the request actually carries. The owner link, isActive,
// createdAt and the availability calendar have their own operations and are
// never written here.
func SitterUpdateDocument(sitter *domain.PetSitter) bson.M {
	updateData := bson.M{"updatedAt": sitter.UpdatedAt}
	if sitter.Address != (domain.Address{}) {
		updateData["address"] = sitter.Address
	}
	if sitter.Location != nil {
		updateData["location"] = sitter.Location
	}
	if len(sitter.Images) > 0 {
		updateData["images"] = sitter.Images
	}
	if sitter.Introduction != "" {
		updateData["introduction"] = sitter.Introduction
	}
	if sitter.Description != "" {
		updateData["description"] = sitter.Description
	}
	if len(sitter.Service) > 0 {
		updateData["service"] = sitter.Service
	}
	if len(sitter.Preference.Sizes) > 0 || len(sitter.Preference.PetTypes) > 0 || len(sitter.Preference.Ages) > 0 {
		updateData["preference"] = sitter.Preference
	}
	if sitter.Home != (domain.Home{}) {
		updateData["home"] = sitter.Home
	}
	return updateData
}

func (store *PetSitterMongoDBStore) UpdateUnavailableDates(ctx context.Context, id primitive.ObjectID, dates []string) error {
	ctx, span := store.tracer.Start(ctx, "PetSitterStore.UpdateUnavailableDates")
	defer span.End()

	update := bson.M{"$set": bson.M{"unavailableDates": dates}}
	result, err := store.sitters.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (store *PetSitterMongoDBStore) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	ctx, span := store.tracer.Start(ctx, "PetSitterStore.SetActive")
	defer span.End()

	update := bson.M{"$set": bson.M{"isActive": active}}
	result, err := store.sitters.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Filter composes the discovery criteria into a single query and runs it
// twice: a paginated fetch and an unlimited count. The two round trips are
// independent, so they are issued concurrently.
func (store *PetSitterMongoDBStore) Filter(ctx context.Context, query *domain.DiscoveryQuery) ([]*domain.PetSitter, int64, error) {
	ctx, span := store.tracer.Start(ctx, "PetSitterStore.Filter")
	defer span.End()

	var (
		wg       sync.WaitGroup
		sitters  []*domain.PetSitter
		total    int64
		findErr  error
		countErr error
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		sitters, findErr = store.findFiltered(ctx, query)
	}()

	go func() {
		defer wg.Done()
		total, countErr = store.sitters.CountDocuments(ctx, ComposeSitterFilter(query, true))
	}()

	wg.Wait()

	if findErr != nil {
		span.SetStatus(codes.Error, findErr.Error())
		return nil, 0, findErr
	}
	if countErr != nil {
		span.SetStatus(codes.Error, countErr.Error())
		return nil, 0, countErr
	}
	return sitters, total, nil
}

func (store *PetSitterMongoDBStore) findFiltered(ctx context.Context, query *domain.DiscoveryQuery) ([]*domain.PetSitter, error) {
	// A page number below one would produce a negative skip; return the
	// empty slice instead of handing Mongo a faulty offset.
	if query.Page < 1 {
		return []*domain.PetSitter{}, nil
	}

	// Proximity via $near is the only explicit ordering; without
	// coordinates the results come back in collection order.
	opts := options.Find().
		SetLimit(PageSize).
		SetSkip(int64(query.Page-1) * PageSize)

	cursor, err := store.sitters.Find(ctx, ComposeSitterFilter(query, false), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeSitters(ctx, cursor)
}

// ComposeSitterFilter translates the sparse criteria into one bson filter,
// combining every present criterion with logical AND. Counting uses
// $geoWithin for the proximity constraint because the server rejects $near
// inside a count; the selected radius is identical either way.
func ComposeSitterFilter(query *domain.DiscoveryQuery, forCount bool) bson.M {
	filter := bson.M{"isActive": true}

	if query.PetService != "" {
		filter["service.service"] = bson.M{"$eq": query.PetService}
	}

	if len(query.SelectedDates) > 0 {
		filter["unavailableDates"] = bson.M{"$nin": query.SelectedDates}
	}

	if sizes := query.SelectedSizes(); len(sizes) > 0 {
		filter["preference.sizes"] = bson.M{"$all": sizes}
	}

	if petTypes := query.SelectedPetTypes(); len(petTypes) > 0 {
		filter["preference.petTypes"] = bson.M{"$all": petTypes}
	}

	if query.FencedBackyard {
		filter["home.fenced"] = true
	}

	if query.NoChildren {
		filter["home.kids"] = domain.KidsNone
	}

	if query.HasCoordinates() {
		coordinates := []float64{*query.Longitude, *query.Latitude}
		if forCount {
			filter["location"] = bson.M{
				"$geoWithin": bson.M{
					"$centerSphere": bson.A{coordinates, float64(MaxSearchRadiusMeters) / earthRadiusMeters},
				},
			}
		} else {
			filter["location"] = bson.M{
				"$near": bson.M{
					"$geometry": bson.M{
						"type":        "Point",
						"coordinates": coordinates,
					},
					"$maxDistance": MaxSearchRadiusMeters,
				},
			}
		}
	}

	return filter
}

func (store *PetSitterMongoDBStore) filterOne(ctx context.Context, filter interface{}) (sitter *domain.PetSitter, err error) {
	result := store.sitters.FindOne(ctx, filter)
	err = result.Decode(&sitter)
	return
}

func decodeSitters(ctx context.Context, cursor *mongo.Cursor) (sitters []*domain.PetSitter, err error) {
	for cursor.Next(ctx) {
		var sitter domain.PetSitter
		err = cursor.Decode(&sitter)
		if err != nil {
			return
		}
		sitters = append(sitters, &sitter)
	}
	err = cursor.Err()
	return
}
