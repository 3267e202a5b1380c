package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"

	"github.com/petNanny/pn-server/domain"
	"github.com/petNanny/pn-server/errors"
	application "github.com/petNanny/pn-server/service"
)

type PetSitterHandler struct {
	service *application.PetSitterService
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewPetSitterHandler(service *application.PetSitterService, tracer trace.Tracer, logger *logrus.Logger) *PetSitterHandler {
	return &PetSitterHandler{
		service: service,
		tracer:  tracer,
		logger:  logger,
	}
}

func (handler *PetSitterHandler) Init(router *mux.Router) {
	router.Use(ExtractTraceInfoMiddleware)
	router.HandleFunc("/filter", handler.Filter).Methods("POST")
	router.HandleFunc("", handler.GetPetSitters).Methods("GET")
	router.HandleFunc("/{id}", handler.GetPetSitter).Methods("GET")
	router.HandleFunc("/petSitterInfo/{ownerId}", handler.CreatePetSitter).Methods("POST")
	router.HandleFunc("/updateInfo/{id}", handler.UpdatePetSitter).Methods("POST")
	router.HandleFunc("/{id}/unavailableDates", handler.UpdateUnavailableDates).Methods("PUT")
	router.HandleFunc("/{id}/activate", handler.Activate).Methods("POST")
	router.HandleFunc("/{id}/deactivate", handler.Deactivate).Methods("POST")
}

// Filter runs the sitter discovery query. Every criterion is optional; an
// empty body lists all active sitters page by page.
func (handler *PetSitterHandler) Filter(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PetSitterHandler.Filter")
	defer span.End()

	var query domain.DiscoveryQuery
	if err := json.NewDecoder(req.Body).Decode(&query); err != nil {
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	// A lone latitude or longitude cannot anchor a proximity search.
	if (query.Latitude == nil) != (query.Longitude == nil) {
		http.Error(writer, "Both latitude and longitude are required for proximity search", http.StatusBadRequest)
		return
	}
	if query.HasCoordinates() {
		if *query.Latitude < -90 || *query.Latitude > 90 || *query.Longitude < -180 || *query.Longitude > 180 {
			http.Error(writer, "Coordinates out of range", http.StatusBadRequest)
			return
		}
	}

	if query.Page == 0 {
		query.Page = 1
	}

	result, err := handler.service.Filter(ctx, &query)
	if err != nil {
		handler.logger.Error(err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(result, writer)
}

func (handler *PetSitterHandler) GetPetSitters(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PetSitterHandler.GetPetSitters")
	defer span.End()

	page := 1
	if raw := req.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(writer, "Invalid page number", http.StatusBadRequest)
			return
		}
		page = parsed
	}

	result, err := handler.service.GetPetSitters(ctx, page)
	if err != nil {
		handler.logger.Error(err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(result, writer)
}

func (handler *PetSitterHandler) GetPetSitter(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PetSitterHandler.GetPetSitter")
	defer span.End()

	id, ok := objectIDVar(writer, req, "id")
	if !ok {
		return
	}

	sitter, err := handler.service.GetPetSitter(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(writer, errors.PetSitterNotFoundError, http.StatusNotFound)
			return
		}
		handler.logger.Error(err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(sitter, writer)
}

func (handler *PetSitterHandler) CreatePetSitter(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PetSitterHandler.CreatePetSitter")
	defer span.End()

	ownerID, ok := objectIDVar(writer, req, "ownerId")
	if !ok {
		return
	}

	var sitter domain.PetSitter
	if err := json.NewDecoder(req.Body).Decode(&sitter); err != nil {
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	created, err := handler.service.CreatePetSitter(ctx, ownerID, &sitter)
	if err != nil {
		switch err.Error() {
		case errors.PetOwnerNotFoundError:
			http.Error(writer, err.Error(), http.StatusNotFound)
		case errors.SitterProfileExistsError:
			http.Error(writer, err.Error(), http.StatusConflict)
		default:
			handler.logger.Error(err)
			http.Error(writer, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	writer.WriteHeader(http.StatusCreated)
	jsonResponse(created, writer)
}

func (handler *PetSitterHandler) UpdatePetSitter(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PetSitterHandler.UpdatePetSitter")
	defer span.End()

	id, ok := objectIDVar(writer, req, "id")
	if !ok {
		return
	}

	var sitter domain.PetSitter
	if err := json.NewDecoder(req.Body).Decode(&sitter); err != nil {
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}
	sitter.ID = id

	updated, err := handler.service.UpdatePetSitter(ctx, &sitter)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(writer, errors.PetSitterNotFoundError, http.StatusNotFound)
			return
		}
		handler.logger.Error(err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(updated, writer)
}

func (handler *PetSitterHandler) UpdateUnavailableDates(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PetSitterHandler.UpdateUnavailableDates")
	defer span.End()

	id, ok := objectIDVar(writer, req, "id")
	if !ok {
		return
	}

	var request struct {
		UnavailableDates []string `json:"unavailableDates"`
	}
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	if err := handler.service.UpdateUnavailableDates(ctx, id, request.UnavailableDates); err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(writer, errors.PetSitterNotFoundError, http.StatusNotFound)
			return
		}
		handler.logger.Error(err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	writer.WriteHeader(http.StatusOK)
}

func (handler *PetSitterHandler) Activate(writer http.ResponseWriter, req *http.Request) {
	handler.setActive(writer, req, true)
}

func (handler *PetSitterHandler) Deactivate(writer http.ResponseWriter, req *http.Request) {
	handler.setActive(writer, req, false)
}

func (handler *PetSitterHandler) setActive(writer http.ResponseWriter, req *http.Request, active bool) {
	ctx, span := handler.tracer.Start(req.Context(), "PetSitterHandler.SetActive")
	defer span.End()

	id, ok := objectIDVar(writer, req, "id")
	if !ok {
		return
	}

	if err := handler.service.SetActive(ctx, id, active); err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(writer, errors.PetSitterNotFoundError, http.StatusNotFound)
			return
		}
		handler.logger.Error(err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	writer.WriteHeader(http.StatusOK)
}
