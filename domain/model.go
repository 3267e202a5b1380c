package domain

import (
	"encoding/json"
	"io"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PetOwner struct {
	ID        primitive.ObjectID   `bson:"_id" json:"id"`
	Email     string               `bson:"email" json:"email" validate:"required,email"`
	FirstName string               `bson:"firstName" json:"firstName" validate:"required,onlyChar"`
	LastName  string               `bson:"lastName" json:"lastName" validate:"required,onlyChar"`
	UserName  string               `bson:"userName,omitempty" json:"userName,omitempty" validate:"omitempty,onlyCharAndNum"`
	Password  string               `bson:"password" json:"password,omitempty" validate:"required"`
	Avatar    string               `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Phone     string               `bson:"phone,omitempty" json:"phone,omitempty"`
	Roles     []string             `bson:"roles" json:"roles"`
	IsActive  bool                 `bson:"isActive" json:"isActive"`
	Verified  bool                 `bson:"verified" json:"verified"`
	PetSitter primitive.ObjectID   `bson:"petSitter,omitempty" json:"petSitter,omitempty"`
	Pets      []primitive.ObjectID `bson:"pets,omitempty" json:"pets,omitempty"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// PublicOwner is the owner shape embedded in sitter responses, with the
// private fields stripped.
type PublicOwner struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
	UserName  string             `bson:"userName,omitempty" json:"userName,omitempty"`
	Avatar    string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

type ServiceKind string

const (
	DogBoarding  ServiceKind = "Dog boarding"
	DoggyDayCare ServiceKind = "Doggy day care"
	DogWalking   ServiceKind = "Dog walking"
	HomeVisits   ServiceKind = "Home visits"
	HouseSitting ServiceKind = "House sitting"
)

type PetSize string

const (
	SizeSmall  PetSize = "Small"
	SizeMedium PetSize = "Medium"
	SizeLarge  PetSize = "Large"
	SizeGiant  PetSize = "Giant"
)

type PetType string

const (
	TypeCats         PetType = "Cats"
	TypeFerret       PetType = "Ferret"
	TypeSmallAnimals PetType = "Small animals"
)

type SitterService struct {
	Service     ServiceKind `bson:"service" json:"service"`
	ServiceDesc string      `bson:"serviceDesc,omitempty" json:"serviceDesc,omitempty"`
	Rate        float64     `bson:"rate" json:"rate"`
	IsActive    bool        `bson:"isActive" json:"isActive"`
}

type Address struct {
	Street       string `bson:"street,omitempty" json:"street,omitempty"`
	StreetNumber string `bson:"streetNumber,omitempty" json:"streetNumber,omitempty"`
	City         string `bson:"city,omitempty" json:"city,omitempty"`
	Postcode     string `bson:"postcode,omitempty" json:"postcode,omitempty"`
	State        string `bson:"state,omitempty" json:"state,omitempty"`
	Country      string `bson:"country,omitempty" json:"country,omitempty"`
}

// GeoPoint is a GeoJSON point, coordinates ordered [longitude, latitude].
// The sitter collection carries a 2dsphere index over it.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

func NewGeoPoint(lng, lat float64) *GeoPoint {
	return &GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

func (p *GeoPoint) Valid() bool {
	if p == nil || p.Type != "Point" || len(p.Coordinates) != 2 {
		return false
	}
	lng, lat := p.Coordinates[0], p.Coordinates[1]
	return lng >= -180 && lng <= 180 && lat >= -90 && lat <= 90
}

func (p *GeoPoint) Lng() float64 { return p.Coordinates[0] }
func (p *GeoPoint) Lat() float64 { return p.Coordinates[1] }

type Preference struct {
	Sizes    []PetSize `bson:"sizes,omitempty" json:"sizes,omitempty"`
	PetTypes []PetType `bson:"petTypes,omitempty" json:"petTypes,omitempty"`
	Ages     []string  `bson:"ages,omitempty" json:"ages,omitempty"`
}

type KidsCategory string

const (
	KidsNone     KidsCategory = "none"
	KidsYounger  KidsCategory = "younger"
	KidsOlder    KidsCategory = "older"
	KidsAllViews KidsCategory = "both"
)

type Home struct {
	PropertyType string       `bson:"propertyType,omitempty" json:"propertyType,omitempty"`
	OutdoorArea  string       `bson:"outdoorArea,omitempty" json:"outdoorArea,omitempty"`
	Fenced       bool         `bson:"fenced" json:"fenced"`
	Kids         KidsCategory `bson:"kids,omitempty" json:"kids,omitempty"`
}

type PetSitter struct {
	ID               primitive.ObjectID `bson:"_id" json:"id"`
	PetOwner         primitive.ObjectID `bson:"petOwner" json:"petOwner"`
	Address          Address            `bson:"address,omitempty" json:"address,omitempty"`
	Location         *GeoPoint          `bson:"location,omitempty" json:"location,omitempty"`
	Images           []string           `bson:"images,omitempty" json:"images,omitempty"`
	Introduction     string             `bson:"introduction,omitempty" json:"introduction,omitempty"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	Service          []SitterService    `bson:"service,omitempty" json:"service,omitempty"`
	Preference       Preference         `bson:"preference,omitempty" json:"preference,omitempty"`
	Home             Home               `bson:"home,omitempty" json:"home,omitempty"`
	UnavailableDates []string           `bson:"unavailableDates,omitempty" json:"unavailableDates,omitempty"`
	IsActive         bool               `bson:"isActive" json:"isActive"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Pet struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	PetOwner primitive.ObjectID `bson:"petOwner" json:"petOwner"`
	Name     string             `bson:"name" json:"name"`
	Species  string             `bson:"species,omitempty" json:"species,omitempty"`
	Breed    string             `bson:"breed,omitempty" json:"breed,omitempty"`
	Size     PetSize            `bson:"size,omitempty" json:"size,omitempty"`
	Age      int                `bson:"age,omitempty" json:"age,omitempty"`
	Notes    string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

type Conversation struct {
	ID        primitive.ObjectID   `bson:"_id" json:"id"`
	Members   []primitive.ObjectID `bson:"members" json:"members"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
}

type Message struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	ConversationID primitive.ObjectID `bson:"conversationId" json:"conversationId"`
	Sender         primitive.ObjectID `bson:"sender" json:"sender"`
	Text           string             `bson:"text" json:"text"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (owner *PetOwner) ValidateOwner() error {
	validate := validator.New()

	err := validate.RegisterValidation("onlyChar", onlyCharactersField)
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("onlyCharAndNum", onlyCharactersAndNumbersField)
	if err != nil {
		return err
	}

	return validate.Struct(owner)
}

// Allows only letters
func onlyCharactersField(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(`^[a-zA-Z]+$`)
	return re.MatchString(fl.Field().String())
}

// Allows only letters, numbers, underscores and hyphens
func onlyCharactersAndNumbersField(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(`^[-_a-zA-Z0-9]+$`)
	return re.MatchString(fl.Field().String())
}

func (owner *PetOwner) FromJSON(reader io.Reader) error {
	d := json.NewDecoder(reader)
	return d.Decode(owner)
}

func (owner *PetOwner) Public() *PublicOwner {
	return &PublicOwner{
		ID:        owner.ID,
		FirstName: owner.FirstName,
		LastName:  owner.LastName,
		UserName:  owner.UserName,
		Avatar:    owner.Avatar,
	}
}
