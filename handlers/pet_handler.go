package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"

	"github.com/petNanny/pn-server/domain"
	"github.com/petNanny/pn-server/errors"
	application "github.com/petNanny/pn-server/service"
)

type PetHandler struct {
	service *application.PetService
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewPetHandler(service *application.PetService, tracer trace.Tracer, logger *logrus.Logger) *PetHandler {
	return &PetHandler{
		service: service,
		tracer:  tracer,
		logger:  logger,
	}
}

func (handler *PetHandler) Init(router *mux.Router) {
	router.Use(ExtractTraceInfoMiddleware)
	router.HandleFunc("/owner/{ownerId}", handler.Create).Methods("POST")
	router.HandleFunc("/owner/{ownerId}", handler.GetByOwner).Methods("GET")
	router.HandleFunc("/{id}", handler.Get).Methods("GET")
	router.HandleFunc("/{id}", handler.Update).Methods("PATCH")
	router.HandleFunc("/{id}", handler.Delete).Methods("DELETE")
}

func (handler *PetHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PetHandler.Create")
	defer span.End()

	ownerID, ok := objectIDVar(writer, req, "ownerId")
	if !ok {
		return
	}

	var pet domain.Pet
	if err := json.NewDecoder(req.Body).Decode(&pet); err != nil {
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	created, err := handler.service.CreatePet(ctx, ownerID, &pet)
	if err != nil {
		if err.Error() == errors.PetOwnerNotFoundError {
			http.Error(writer, err.Error(), http.StatusNotFound)
			return
		}
		handler.logger.Error(err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	writer.WriteHeader(http.StatusCreated)
	jsonResponse(created, writer)
}

func (handler *PetHandler) Get(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PetHandler.Get")
	defer span.End()

	id, ok := objectIDVar(writer, req, "id")
	if !ok {
		return
	}

	pet, err := handler.service.GetPet(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(writer, errors.PetNotFoundError, http.StatusNotFound)
			return
		}
		handler.logger.Error(err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(pet, writer)
}

func (handler *PetHandler) GetByOwner(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PetHandler.GetByOwner")
	defer span.End()

	ownerID, ok := objectIDVar(writer, req, "ownerId")
	if !ok {
		return
	}

	pets, err := handler.service.GetPetsByOwner(ctx, ownerID)
	if err != nil {
		handler.logger.Error(err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(pets, writer)
}

func (handler *PetHandler) Update(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PetHandler.Update")
	defer span.End()

	id, ok := objectIDVar(writer, req, "id")
	if !ok {
		return
	}

	var pet domain.Pet
	if err := json.NewDecoder(req.Body).Decode(&pet); err != nil {
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}
	pet.ID = id

	updated, err := handler.service.UpdatePet(ctx, &pet)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(writer, errors.PetNotFoundError, http.StatusNotFound)
			return
		}
		handler.logger.Error(err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(updated, writer)
}

func (handler *PetHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PetHandler.Delete")
	defer span.End()

	id, ok := objectIDVar(writer, req, "id")
	if !ok {
		return
	}

	if err := handler.service.DeletePet(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(writer, errors.PetNotFoundError, http.StatusNotFound)
			return
		}
		handler.logger.Error(err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	writer.WriteHeader(http.StatusOK)
}
