package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petNanny/pn-server/domain"
)

func TestSitterUpdateDocument_PartialUpdateKeepsLifecycleFields(t *testing.T) {
	// A profile edit sends only the changed fields, exactly what the
	// updateInfo handler decodes.
	var sitter domain.PetSitter
	require.NoError(t, json.Unmarshal([]byte(`{"introduction":"updated intro"}`), &sitter))
	sitter.ID = primitive.NewObjectID()

	updateData := SitterUpdateDocument(&sitter)

	assert.Equal(t, "updated intro", updateData["introduction"])
	assert.NotContains(t, updateData, "petOwner")
	assert.NotContains(t, updateData, "isActive")
	assert.NotContains(t, updateData, "createdAt")
	assert.NotContains(t, updateData, "unavailableDates")
	assert.NotContains(t, updateData, "_id")
}

func TestSitterUpdateDocument_OmittedProfileFieldsStayUntouched(t *testing.T) {
	sitter := domain.PetSitter{Description: "Backyard with shade"}

	updateData := SitterUpdateDocument(&sitter)

	assert.Equal(t, "Backyard with shade", updateData["description"])
	assert.NotContains(t, updateData, "address")
	assert.NotContains(t, updateData, "location")
	assert.NotContains(t, updateData, "images")
	assert.NotContains(t, updateData, "introduction")
	assert.NotContains(t, updateData, "service")
	assert.NotContains(t, updateData, "preference")
	assert.NotContains(t, updateData, "home")
}

func TestSitterUpdateDocument_FullProfile(t *testing.T) {
	sitter := domain.PetSitter{
		Address:      domain.Address{City: "Melbourne", Country: "Australia"},
		Location:     domain.NewGeoPoint(144.9631, -37.8136),
		Images:       []string{"front.jpg"},
		Introduction: "Hi there",
		Description:  "Quiet street, big yard",
		Service:      []domain.SitterService{{Service: "Dog boarding", Rate: 45}},
		Preference:   domain.Preference{Sizes: []domain.PetSize{domain.SizeSmall}},
		Home:         domain.Home{Fenced: true, Kids: domain.KidsNone},
	}

	updateData := SitterUpdateDocument(&sitter)

	for _, key := range []string{"address", "location", "images", "introduction", "description", "service", "preference", "home", "updatedAt"} {
		assert.Contains(t, updateData, key)
	}
	assert.NotContains(t, updateData, "petOwner")
	assert.NotContains(t, updateData, "isActive")
}

func TestPetUpdateDocument_PartialPatchKeepsOwnerAndName(t *testing.T) {
	var pet domain.Pet
	require.NoError(t, json.Unmarshal([]byte(`{"notes":"sensitive stomach"}`), &pet))
	pet.ID = primitive.NewObjectID()

	updateData := PetUpdateDocument(&pet)

	assert.Equal(t, "sensitive stomach", updateData["notes"])
	assert.NotContains(t, updateData, "petOwner")
	assert.NotContains(t, updateData, "name")
	assert.NotContains(t, updateData, "_id")
}

func TestPetUpdateDocument_ProvidedFieldsOnly(t *testing.T) {
	pet := domain.Pet{Name: "Biscuit", Age: 4}

	updateData := PetUpdateDocument(&pet)

	assert.Equal(t, "Biscuit", updateData["name"])
	assert.Equal(t, 4, updateData["age"])
	assert.NotContains(t, updateData, "species")
	assert.NotContains(t, updateData, "breed")
	assert.NotContains(t, updateData, "size")
	assert.NotContains(t, updateData, "notes")
}
