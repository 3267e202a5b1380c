package application

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"

	"github.com/petNanny/pn-server/domain"
)

func testTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("test")
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeSitterStore answers through overridable function fields so each test
// scripts exactly the calls it expects.
type fakeSitterStore struct {
	InsertFn     func(ctx context.Context, sitter *domain.PetSitter) (*domain.PetSitter, error)
	GetFn        func(ctx context.Context, id primitive.ObjectID) (*domain.PetSitter, error)
	GetByOwnerFn func(ctx context.Context, ownerID primitive.ObjectID) (*domain.PetSitter, error)
	GetPageFn    func(ctx context.Context, page int) ([]*domain.PetSitter, int64, error)
	FilterFn     func(ctx context.Context, query *domain.DiscoveryQuery) ([]*domain.PetSitter, int64, error)
}

func (f *fakeSitterStore) Insert(ctx context.Context, sitter *domain.PetSitter) (*domain.PetSitter, error) {
	if f.InsertFn != nil {
		return f.InsertFn(ctx, sitter)
	}
	sitter.ID = primitive.NewObjectID()
	return sitter, nil
}

func (f *fakeSitterStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.PetSitter, error) {
	if f.GetFn != nil {
		return f.GetFn(ctx, id)
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeSitterStore) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) (*domain.PetSitter, error) {
	if f.GetByOwnerFn != nil {
		return f.GetByOwnerFn(ctx, ownerID)
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeSitterStore) GetPage(ctx context.Context, page int) ([]*domain.PetSitter, int64, error) {
	if f.GetPageFn != nil {
		return f.GetPageFn(ctx, page)
	}
	return nil, 0, nil
}

func (f *fakeSitterStore) Update(ctx context.Context, sitter *domain.PetSitter) (*domain.PetSitter, error) {
	return sitter, nil
}

func (f *fakeSitterStore) UpdateUnavailableDates(ctx context.Context, id primitive.ObjectID, dates []string) error {
	return nil
}

func (f *fakeSitterStore) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	return nil
}

func (f *fakeSitterStore) Filter(ctx context.Context, query *domain.DiscoveryQuery) ([]*domain.PetSitter, int64, error) {
	if f.FilterFn != nil {
		return f.FilterFn(ctx, query)
	}
	return nil, 0, nil
}

type fakeOwnerStore struct {
	GetFn        func(ctx context.Context, id primitive.ObjectID) (*domain.PetOwner, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.PetOwner, error)
	RegisterFn   func(ctx context.Context, owner *domain.PetOwner) (*domain.PetOwner, error)

	linkedSitters map[primitive.ObjectID]primitive.ObjectID
	linkedPets    map[primitive.ObjectID][]primitive.ObjectID
	passwords     map[primitive.ObjectID]string
}

func (f *fakeOwnerStore) Register(ctx context.Context, owner *domain.PetOwner) (*domain.PetOwner, error) {
	if f.RegisterFn != nil {
		return f.RegisterFn(ctx, owner)
	}
	owner.ID = primitive.NewObjectID()
	return owner, nil
}

func (f *fakeOwnerStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.PetOwner, error) {
	if f.GetFn != nil {
		return f.GetFn(ctx, id)
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeOwnerStore) GetByEmail(ctx context.Context, email string) (*domain.PetOwner, error) {
	if f.GetByEmailFn != nil {
		return f.GetByEmailFn(ctx, email)
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeOwnerStore) GetAll(ctx context.Context) ([]*domain.PetOwner, error) {
	return nil, nil
}

func (f *fakeOwnerStore) Update(ctx context.Context, owner *domain.PetOwner) (*domain.PetOwner, error) {
	return owner, nil
}

func (f *fakeOwnerStore) UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatarURL string) error {
	return nil
}

func (f *fakeOwnerStore) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	if f.passwords == nil {
		f.passwords = make(map[primitive.ObjectID]string)
	}
	f.passwords[id] = passwordHash
	return nil
}

func (f *fakeOwnerStore) SetVerified(ctx context.Context, id primitive.ObjectID) error {
	return nil
}

func (f *fakeOwnerStore) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	return nil
}

func (f *fakeOwnerStore) LinkPetSitter(ctx context.Context, ownerID, sitterID primitive.ObjectID) error {
	if f.linkedSitters == nil {
		f.linkedSitters = make(map[primitive.ObjectID]primitive.ObjectID)
	}
	f.linkedSitters[ownerID] = sitterID
	return nil
}

func (f *fakeOwnerStore) LinkPet(ctx context.Context, ownerID, petID primitive.ObjectID) error {
	if f.linkedPets == nil {
		f.linkedPets = make(map[primitive.ObjectID][]primitive.ObjectID)
	}
	f.linkedPets[ownerID] = append(f.linkedPets[ownerID], petID)
	return nil
}

type fakeGeocoder struct {
	GeocodeFn func(ctx context.Context, address domain.Address) (*domain.GeoPoint, error)
}

func (f *fakeGeocoder) Geocode(ctx context.Context, address domain.Address) (*domain.GeoPoint, error) {
	if f.GeocodeFn != nil {
		return f.GeocodeFn(ctx, address)
	}
	return nil, mongo.ErrNoDocuments
}

type fakeConversationStore struct {
	InsertFn       func(ctx context.Context, conversation *domain.Conversation) (*domain.Conversation, error)
	GetFn          func(ctx context.Context, id primitive.ObjectID) (*domain.Conversation, error)
	GetByMembersFn func(ctx context.Context, first, second primitive.ObjectID) (*domain.Conversation, error)
	GetByMemberFn  func(ctx context.Context, memberID primitive.ObjectID) ([]*domain.Conversation, error)
}

func (f *fakeConversationStore) Insert(ctx context.Context, conversation *domain.Conversation) (*domain.Conversation, error) {
	if f.InsertFn != nil {
		return f.InsertFn(ctx, conversation)
	}
	conversation.ID = primitive.NewObjectID()
	return conversation, nil
}

func (f *fakeConversationStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Conversation, error) {
	if f.GetFn != nil {
		return f.GetFn(ctx, id)
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeConversationStore) GetByMembers(ctx context.Context, first, second primitive.ObjectID) (*domain.Conversation, error) {
	if f.GetByMembersFn != nil {
		return f.GetByMembersFn(ctx, first, second)
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeConversationStore) GetByMember(ctx context.Context, memberID primitive.ObjectID) ([]*domain.Conversation, error) {
	if f.GetByMemberFn != nil {
		return f.GetByMemberFn(ctx, memberID)
	}
	return nil, nil
}

type fakeMessageStore struct {
	InsertFn func(ctx context.Context, message *domain.Message) (*domain.Message, error)
	inserted []*domain.Message
}

func (f *fakeMessageStore) Insert(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if f.InsertFn != nil {
		return f.InsertFn(ctx, message)
	}
	message.ID = primitive.NewObjectID()
	f.inserted = append(f.inserted, message)
	return message, nil
}

func (f *fakeMessageStore) GetByConversation(ctx context.Context, conversationID primitive.ObjectID) ([]*domain.Message, error) {
	return f.inserted, nil
}
