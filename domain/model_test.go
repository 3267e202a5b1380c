package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGeoPoint_Valid(t *testing.T) {
	assert.True(t, NewGeoPoint(151.2093, -33.8688).Valid())
	assert.True(t, NewGeoPoint(-180, 90).Valid())

	var nilPoint *GeoPoint
	assert.False(t, nilPoint.Valid())
	assert.False(t, (&GeoPoint{Type: "Point", Coordinates: []float64{151.2093}}).Valid())
	assert.False(t, (&GeoPoint{Type: "Polygon", Coordinates: []float64{151.2093, -33.8688}}).Valid())
	assert.False(t, NewGeoPoint(200, 0).Valid())
	assert.False(t, NewGeoPoint(0, -95).Valid())
}

func TestDiscoveryQuery_HasCoordinates(t *testing.T) {
	lat, lng := -33.8688, 151.2093

	assert.True(t, (&DiscoveryQuery{Latitude: &lat, Longitude: &lng}).HasCoordinates())
	assert.False(t, (&DiscoveryQuery{Latitude: &lat}).HasCoordinates())
	assert.False(t, (&DiscoveryQuery{Longitude: &lng}).HasCoordinates())
	assert.False(t, (&DiscoveryQuery{}).HasCoordinates())
}

func TestDiscoveryQuery_SelectedSizes(t *testing.T) {
	query := &DiscoveryQuery{SmallDog: 2, LargeDog: 1}

	assert.Equal(t, []PetSize{SizeSmall, SizeLarge}, query.SelectedSizes())
	assert.Empty(t, (&DiscoveryQuery{}).SelectedSizes())
}

func TestDiscoveryQuery_SelectedPetTypes(t *testing.T) {
	assert.Equal(t, []PetType{TypeCats}, (&DiscoveryQuery{Cat: 1}).SelectedPetTypes())
	assert.Equal(t, []PetType{TypeCats, TypeSmallAnimals}, (&DiscoveryQuery{Cat: 1, SmallAnimal: 1}).SelectedPetTypes())
	assert.Empty(t, (&DiscoveryQuery{}).SelectedPetTypes())
}

func TestValidateOwner(t *testing.T) {
	owner := PetOwner{
		Email:     "mia@example.com",
		FirstName: "Mia",
		LastName:  "Nguyen",
		UserName:  "mia_n-99",
		Password:  "hunter22",
	}
	require.NoError(t, owner.ValidateOwner())

	invalid := owner
	invalid.FirstName = "Mia99"
	assert.Error(t, invalid.ValidateOwner())

	invalid = owner
	invalid.Email = "not-an-email"
	assert.Error(t, invalid.ValidateOwner())

	invalid = owner
	invalid.Password = ""
	assert.Error(t, invalid.ValidateOwner())
}

func TestPetOwner_PublicStripsPrivateFields(t *testing.T) {
	owner := PetOwner{
		ID:        primitive.NewObjectID(),
		Email:     "mia@example.com",
		FirstName: "Mia",
		LastName:  "Nguyen",
		UserName:  "mia",
		Password:  "secret-hash",
		Avatar:    "/api/petOwners/x/attachments/avatar.png",
		Phone:     "0400000000",
	}

	public := owner.Public()

	assert.Equal(t, owner.ID, public.ID)
	assert.Equal(t, "Mia", public.FirstName)
	assert.Equal(t, owner.Avatar, public.Avatar)
}
