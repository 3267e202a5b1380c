package application

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/petNanny/pn-server/domain"
	"github.com/petNanny/pn-server/errors"
	"github.com/petNanny/pn-server/store"
)

type PetSitterService struct {
	sitters  domain.PetSitterStore
	owners   domain.PetOwnerStore
	geocoder domain.Geocoder
	tracer   trace.Tracer
	logger   *logrus.Logger
}

func NewPetSitterService(sitters domain.PetSitterStore, owners domain.PetOwnerStore, geocoder domain.Geocoder, tracer trace.Tracer, logger *logrus.Logger) *PetSitterService {
	return &PetSitterService{
		sitters:  sitters,
		owners:   owners,
		geocoder: geocoder,
		tracer:   tracer,
		logger:   logger,
	}
}

// Filter composes the discovery query, fetches one page plus the unlimited
// count over the same criteria and annotates every match with its distance
// bucket relative to the requester.
func (service *PetSitterService) Filter(ctx context.Context, query *domain.DiscoveryQuery) (*domain.DiscoveryResult, error) {
	ctx, span := service.tracer.Start(ctx, "PetSitterService.Filter")
	defer span.End()

	sitters, total, err := service.sitters.Filter(ctx, query)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	results := make([]*domain.FilteredSitter, 0, len(sitters))
	for _, sitter := range sitters {
		annotated, err := service.annotate(ctx, sitter, query)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		results = append(results, annotated)
	}

	return &domain.DiscoveryResult{
		UpdatedResults: results,
		CurrentPage:    query.Page,
		TotalPages:     totalPages(total),
	}, nil
}

func (service *PetSitterService) annotate(ctx context.Context, sitter *domain.PetSitter, query *domain.DiscoveryQuery) (*domain.FilteredSitter, error) {
	annotated := &domain.FilteredSitter{PetSitter: *sitter}

	owner, err := service.owners.Get(ctx, sitter.PetOwner)
	if err == nil {
		annotated.Owner = owner.Public()
	} else if err != mongo.ErrNoDocuments {
		return nil, err
	}

	// No requester coordinates means no distance computation at all.
	if !query.HasCoordinates() || sitter.Location == nil {
		return annotated, nil
	}

	if !sitter.Location.Valid() {
		return nil, fmt.Errorf("%s: %s", errors.MalformedLocationError, sitter.ID.Hex())
	}

	requester := orb.Point{*query.Longitude, *query.Latitude}
	point := orb.Point{sitter.Location.Lng(), sitter.Location.Lat()}
	annotated.Distance = DistanceBucket(geo.Distance(requester, point))

	return annotated, nil
}

// DistanceBucket maps a great-circle distance in meters to its label.
// Thresholds are inclusive.
func DistanceBucket(meters float64) string {
	switch {
	case meters <= 1000:
		return "< 1 km"
	case meters <= 5000:
		return "< 5 km"
	case meters <= 10000:
		return "< 10 km"
	case meters <= 20000:
		return "< 20 km"
	case meters <= 50000:
		return "< 50 km"
	default:
		return "> 50 km"
	}
}

func totalPages(total int64) int {
	return int(math.Ceil(float64(total) / float64(store.PageSize)))
}

// GetPetSitters returns the plain paginated listing, owner populated minus
// the private fields.
func (service *PetSitterService) GetPetSitters(ctx context.Context, page int) (*domain.DiscoveryResult, error) {
	ctx, span := service.tracer.Start(ctx, "PetSitterService.GetPetSitters")
	defer span.End()

	sitters, total, err := service.sitters.GetPage(ctx, page)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	results := make([]*domain.FilteredSitter, 0, len(sitters))
	for _, sitter := range sitters {
		annotated := &domain.FilteredSitter{PetSitter: *sitter}
		owner, err := service.owners.Get(ctx, sitter.PetOwner)
		if err == nil {
			annotated.Owner = owner.Public()
		} else if err != mongo.ErrNoDocuments {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		results = append(results, annotated)
	}

	return &domain.DiscoveryResult{
		UpdatedResults: results,
		CurrentPage:    page,
		TotalPages:     totalPages(total),
	}, nil
}

func (service *PetSitterService) GetPetSitter(ctx context.Context, id primitive.ObjectID) (*domain.FilteredSitter, error) {
	ctx, span := service.tracer.Start(ctx, "PetSitterService.GetPetSitter")
	defer span.End()

	sitter, err := service.sitters.Get(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	annotated := &domain.FilteredSitter{PetSitter: *sitter}
	owner, err := service.owners.Get(ctx, sitter.PetOwner)
	if err == nil {
		annotated.Owner = owner.Public()
	} else if err != mongo.ErrNoDocuments {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return annotated, nil
}

// CreatePetSitter creates the sitter profile for an owner, at most one per
// account. The address is geocoded so the profile is reachable by proximity
// search; a geocoder outage leaves the location unset rather than failing
// the whole creation.
func (service *PetSitterService) CreatePetSitter(ctx context.Context, ownerID primitive.ObjectID, sitter *domain.PetSitter) (*domain.PetSitter, error) {
	ctx, span := service.tracer.Start(ctx, "PetSitterService.CreatePetSitter")
	defer span.End()

	owner, err := service.owners.Get(ctx, ownerID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf(errors.PetOwnerNotFoundError)
	}

	if existing, err := service.sitters.GetByOwner(ctx, owner.ID); err == nil && existing != nil {
		return nil, fmt.Errorf(errors.SitterProfileExistsError)
	} else if err != nil && err != mongo.ErrNoDocuments {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	sitter.PetOwner = owner.ID
	service.fillLocation(ctx, sitter)

	created, err := service.sitters.Insert(ctx, sitter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := service.owners.LinkPetSitter(ctx, owner.ID, created.ID); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return created, nil
}

func (service *PetSitterService) UpdatePetSitter(ctx context.Context, sitter *domain.PetSitter) (*domain.PetSitter, error) {
	ctx, span := service.tracer.Start(ctx, "PetSitterService.UpdatePetSitter")
	defer span.End()

	service.fillLocation(ctx, sitter)
	sitter.UpdatedAt = time.Now()

	updated, err := service.sitters.Update(ctx, sitter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return updated, nil
}

func (service *PetSitterService) UpdateUnavailableDates(ctx context.Context, id primitive.ObjectID, dates []string) error {
	ctx, span := service.tracer.Start(ctx, "PetSitterService.UpdateUnavailableDates")
	defer span.End()

	return service.sitters.UpdateUnavailableDates(ctx, id, dates)
}

func (service *PetSitterService) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	ctx, span := service.tracer.Start(ctx, "PetSitterService.SetActive")
	defer span.End()

	return service.sitters.SetActive(ctx, id, active)
}

func (service *PetSitterService) fillLocation(ctx context.Context, sitter *domain.PetSitter) {
	if service.geocoder == nil || sitter.Address == (domain.Address{}) {
		return
	}

	point, err := service.geocoder.Geocode(ctx, sitter.Address)
	if err != nil {
		service.logger.Warnf("geocoding failed for sitter address, leaving location unset: %s", err)
		return
	}
	sitter.Location = point
}
