package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"

	"github.com/petNanny/pn-server/domain"
	application "github.com/petNanny/pn-server/service"
)

// stubSitterStore serves canned discovery results so the handler's request
// handling can be exercised without a database.
type stubSitterStore struct {
	sitters []*domain.PetSitter
	total   int64

	lastQuery *domain.DiscoveryQuery
}

func (s *stubSitterStore) Insert(ctx context.Context, sitter *domain.PetSitter) (*domain.PetSitter, error) {
	sitter.ID = primitive.NewObjectID()
	return sitter, nil
}

func (s *stubSitterStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.PetSitter, error) {
	return nil, mongo.ErrNoDocuments
}

func (s *stubSitterStore) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) (*domain.PetSitter, error) {
	return nil, mongo.ErrNoDocuments
}

func (s *stubSitterStore) GetPage(ctx context.Context, page int) ([]*domain.PetSitter, int64, error) {
	return s.sitters, s.total, nil
}

func (s *stubSitterStore) Update(ctx context.Context, sitter *domain.PetSitter) (*domain.PetSitter, error) {
	return sitter, nil
}

func (s *stubSitterStore) UpdateUnavailableDates(ctx context.Context, id primitive.ObjectID, dates []string) error {
	return nil
}

func (s *stubSitterStore) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	return nil
}

func (s *stubSitterStore) Filter(ctx context.Context, query *domain.DiscoveryQuery) ([]*domain.PetSitter, int64, error) {
	s.lastQuery = query
	return s.sitters, s.total, nil
}

type stubOwnerStore struct{}

func (s *stubOwnerStore) Register(ctx context.Context, owner *domain.PetOwner) (*domain.PetOwner, error) {
	return owner, nil
}

func (s *stubOwnerStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.PetOwner, error) {
	return &domain.PetOwner{ID: id, FirstName: "Mia", LastName: "Nguyen"}, nil
}

func (s *stubOwnerStore) GetByEmail(ctx context.Context, email string) (*domain.PetOwner, error) {
	return nil, mongo.ErrNoDocuments
}

func (s *stubOwnerStore) GetAll(ctx context.Context) ([]*domain.PetOwner, error) {
	return nil, nil
}

func (s *stubOwnerStore) Update(ctx context.Context, owner *domain.PetOwner) (*domain.PetOwner, error) {
	return owner, nil
}

func (s *stubOwnerStore) UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatarURL string) error {
	return nil
}

func (s *stubOwnerStore) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	return nil
}

func (s *stubOwnerStore) SetVerified(ctx context.Context, id primitive.ObjectID) error {
	return nil
}

func (s *stubOwnerStore) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	return nil
}

func (s *stubOwnerStore) LinkPetSitter(ctx context.Context, ownerID, sitterID primitive.ObjectID) error {
	return nil
}

func (s *stubOwnerStore) LinkPet(ctx context.Context, ownerID, petID primitive.ObjectID) error {
	return nil
}

func newTestSitterHandler(store *stubSitterStore) *PetSitterHandler {
	tracer := trace.NewNoopTracerProvider().Tracer("test")
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	service := application.NewPetSitterService(store, &stubOwnerStore{}, nil, tracer, logger)
	return NewPetSitterHandler(service, tracer, logger)
}

func newSitterRouter(store *stubSitterStore) *mux.Router {
	router := mux.NewRouter()
	newTestSitterHandler(store).Init(router.PathPrefix("/api/petSitters").Subrouter())
	return router
}

func TestFilterEndpoint_EmptyCriteria(t *testing.T) {
	store := &stubSitterStore{
		sitters: []*domain.PetSitter{{ID: primitive.NewObjectID(), PetOwner: primitive.NewObjectID()}},
		total:   9,
	}
	router := newSitterRouter(store)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/petSitters/filter", strings.NewReader(`{}`)))

	require.Equal(t, http.StatusOK, recorder.Code)

	var result domain.DiscoveryResult
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&result))
	assert.Equal(t, 1, result.CurrentPage)
	assert.Equal(t, 2, result.TotalPages)
	require.Len(t, result.UpdatedResults, 1)
	assert.Empty(t, result.UpdatedResults[0].Distance)

	// Unset page defaults to the first one.
	require.NotNil(t, store.lastQuery)
	assert.Equal(t, 1, store.lastQuery.Page)
}

func TestFilterEndpoint_LoneCoordinateRejected(t *testing.T) {
	router := newSitterRouter(&stubSitterStore{})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/petSitters/filter", strings.NewReader(`{"latitude":-33.8688}`)))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestFilterEndpoint_OutOfRangeCoordinatesRejected(t *testing.T) {
	router := newSitterRouter(&stubSitterStore{})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/petSitters/filter", strings.NewReader(`{"latitude":95.0,"longitude":151.2}`)))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestFilterEndpoint_MalformedBodyRejected(t *testing.T) {
	router := newSitterRouter(&stubSitterStore{})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/petSitters/filter", strings.NewReader(`{"page":`)))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetPetSitterEndpoint_InvalidID(t *testing.T) {
	router := newSitterRouter(&stubSitterStore{})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/petSitters/not-a-hex-id", nil))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetPetSitterEndpoint_NotFound(t *testing.T) {
	router := newSitterRouter(&stubSitterStore{})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/petSitters/"+primitive.NewObjectID().Hex(), nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
