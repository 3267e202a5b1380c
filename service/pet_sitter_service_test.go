package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petNanny/pn-server/domain"
	"github.com/petNanny/pn-server/errors"
)

func TestDistanceBucket(t *testing.T) {
	cases := []struct {
		meters float64
		want   string
	}{
		{0, "< 1 km"},
		{999.9, "< 1 km"},
		{1000, "< 1 km"},
		{1000.001, "< 5 km"},
		{5000, "< 5 km"},
		{5001, "< 10 km"},
		{10000, "< 10 km"},
		{10001, "< 20 km"},
		{20000, "< 20 km"},
		{20001, "< 50 km"},
		{50000, "< 50 km"},
		{50001, "> 50 km"},
	}

	for _, c := range cases {
		assert.Equalf(t, c.want, DistanceBucket(c.meters), "meters=%v", c.meters)
	}
}

func newSitterService(sitters *fakeSitterStore, owners *fakeOwnerStore, geocoder domain.Geocoder) *PetSitterService {
	return NewPetSitterService(sitters, owners, geocoder, testTracer(), testLogger())
}

func sydneyQuery(page int) *domain.DiscoveryQuery {
	lat, lng := -33.8688, 151.2093
	return &domain.DiscoveryQuery{Latitude: &lat, Longitude: &lng, Page: page}
}

func TestFilter_AnnotatesOwnerAndDistance(t *testing.T) {
	ownerID := primitive.NewObjectID()
	sitter := &domain.PetSitter{
		ID:       primitive.NewObjectID(),
		PetOwner: ownerID,
		// A few hundred meters from the requester.
		Location: domain.NewGeoPoint(151.2100, -33.8700),
		IsActive: true,
	}

	sitters := &fakeSitterStore{
		FilterFn: func(ctx context.Context, query *domain.DiscoveryQuery) ([]*domain.PetSitter, int64, error) {
			return []*domain.PetSitter{sitter}, 1, nil
		},
	}
	owners := &fakeOwnerStore{
		GetFn: func(ctx context.Context, id primitive.ObjectID) (*domain.PetOwner, error) {
			return &domain.PetOwner{
				ID:        id,
				FirstName: "Mia",
				LastName:  "Nguyen",
				Password:  "secret-hash",
			}, nil
		},
	}

	result, err := newSitterService(sitters, owners, nil).Filter(context.Background(), sydneyQuery(1))
	require.NoError(t, err)

	require.Len(t, result.UpdatedResults, 1)
	annotated := result.UpdatedResults[0]
	assert.Equal(t, "< 1 km", annotated.Distance)

	require.NotNil(t, annotated.Owner)
	assert.Equal(t, "Mia", annotated.Owner.FirstName)
	assert.Equal(t, ownerID, annotated.Owner.ID)

	assert.Equal(t, 1, result.CurrentPage)
	assert.Equal(t, 1, result.TotalPages)
}

func TestFilter_FarSitterFallsInOuterBucket(t *testing.T) {
	sitters := &fakeSitterStore{
		FilterFn: func(ctx context.Context, query *domain.DiscoveryQuery) ([]*domain.PetSitter, int64, error) {
			return []*domain.PetSitter{{
				ID:       primitive.NewObjectID(),
				PetOwner: primitive.NewObjectID(),
				// Roughly 80 km up the coast.
				Location: domain.NewGeoPoint(151.3210, -33.1460),
			}}, 1, nil
		},
	}

	result, err := newSitterService(sitters, &fakeOwnerStore{}, nil).Filter(context.Background(), sydneyQuery(1))
	require.NoError(t, err)

	require.Len(t, result.UpdatedResults, 1)
	assert.Equal(t, "> 50 km", result.UpdatedResults[0].Distance)
}

func TestFilter_NoRequesterCoordinatesSkipsDistance(t *testing.T) {
	sitters := &fakeSitterStore{
		FilterFn: func(ctx context.Context, query *domain.DiscoveryQuery) ([]*domain.PetSitter, int64, error) {
			return []*domain.PetSitter{{
				ID:       primitive.NewObjectID(),
				PetOwner: primitive.NewObjectID(),
				Location: domain.NewGeoPoint(151.2100, -33.8700),
			}}, 1, nil
		},
	}

	result, err := newSitterService(sitters, &fakeOwnerStore{}, nil).Filter(context.Background(), &domain.DiscoveryQuery{Page: 1})
	require.NoError(t, err)

	require.Len(t, result.UpdatedResults, 1)
	assert.Empty(t, result.UpdatedResults[0].Distance)
}

func TestFilter_MalformedStoredLocationFailsRequest(t *testing.T) {
	sitters := &fakeSitterStore{
		FilterFn: func(ctx context.Context, query *domain.DiscoveryQuery) ([]*domain.PetSitter, int64, error) {
			return []*domain.PetSitter{{
				ID:       primitive.NewObjectID(),
				PetOwner: primitive.NewObjectID(),
				Location: &domain.GeoPoint{Type: "Point", Coordinates: []float64{380.0, 95.0}},
			}}, 1, nil
		},
	}

	_, err := newSitterService(sitters, &fakeOwnerStore{}, nil).Filter(context.Background(), sydneyQuery(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), errors.MalformedLocationError)
}

func TestFilter_TotalPagesRoundsUp(t *testing.T) {
	sitters := &fakeSitterStore{
		FilterFn: func(ctx context.Context, query *domain.DiscoveryQuery) ([]*domain.PetSitter, int64, error) {
			return nil, 17, nil
		},
	}

	result, err := newSitterService(sitters, &fakeOwnerStore{}, nil).Filter(context.Background(), &domain.DiscoveryQuery{Page: 3})
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, 3, result.CurrentPage)
	assert.Empty(t, result.UpdatedResults)
}

func TestCreatePetSitter_RejectsSecondProfile(t *testing.T) {
	ownerID := primitive.NewObjectID()
	owners := &fakeOwnerStore{
		GetFn: func(ctx context.Context, id primitive.ObjectID) (*domain.PetOwner, error) {
			return &domain.PetOwner{ID: id}, nil
		},
	}
	sitters := &fakeSitterStore{
		GetByOwnerFn: func(ctx context.Context, id primitive.ObjectID) (*domain.PetSitter, error) {
			return &domain.PetSitter{ID: primitive.NewObjectID(), PetOwner: id}, nil
		},
	}

	_, err := newSitterService(sitters, owners, nil).CreatePetSitter(context.Background(), ownerID, &domain.PetSitter{})
	require.Error(t, err)
	assert.Equal(t, errors.SitterProfileExistsError, err.Error())
}

func TestCreatePetSitter_GeocodesAddressAndLinksOwner(t *testing.T) {
	ownerID := primitive.NewObjectID()
	owners := &fakeOwnerStore{
		GetFn: func(ctx context.Context, id primitive.ObjectID) (*domain.PetOwner, error) {
			return &domain.PetOwner{ID: id}, nil
		},
	}
	geocoder := &fakeGeocoder{
		GeocodeFn: func(ctx context.Context, address domain.Address) (*domain.GeoPoint, error) {
			return domain.NewGeoPoint(151.2093, -33.8688), nil
		},
	}

	sitter := &domain.PetSitter{Address: domain.Address{City: "Sydney", Country: "Australia"}}
	created, err := newSitterService(&fakeSitterStore{}, owners, geocoder).CreatePetSitter(context.Background(), ownerID, sitter)
	require.NoError(t, err)

	require.NotNil(t, created.Location)
	assert.Equal(t, 151.2093, created.Location.Lng())
	assert.Equal(t, -33.8688, created.Location.Lat())
	assert.Equal(t, created.ID, owners.linkedSitters[ownerID])
}

func TestCreatePetSitter_GeocoderOutageLeavesLocationUnset(t *testing.T) {
	ownerID := primitive.NewObjectID()
	owners := &fakeOwnerStore{
		GetFn: func(ctx context.Context, id primitive.ObjectID) (*domain.PetOwner, error) {
			return &domain.PetOwner{ID: id}, nil
		},
	}
	geocoder := &fakeGeocoder{
		GeocodeFn: func(ctx context.Context, address domain.Address) (*domain.GeoPoint, error) {
			return nil, fmt.Errorf(errors.GeocodingUnavailable)
		},
	}

	sitter := &domain.PetSitter{Address: domain.Address{City: "Sydney"}}
	created, err := newSitterService(&fakeSitterStore{}, owners, geocoder).CreatePetSitter(context.Background(), ownerID, sitter)
	require.NoError(t, err)

	assert.Nil(t, created.Location)
}

func TestCreatePetSitter_UnknownOwner(t *testing.T) {
	_, err := newSitterService(&fakeSitterStore{}, &fakeOwnerStore{}, nil).CreatePetSitter(context.Background(), primitive.NewObjectID(), &domain.PetSitter{})
	require.Error(t, err)
	assert.Equal(t, errors.PetOwnerNotFoundError, err.Error())
}
