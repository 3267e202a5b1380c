package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/petNanny/pn-server/domain"
	"github.com/petNanny/pn-server/errors"
)

type PetService struct {
	pets   domain.PetStore
	owners domain.PetOwnerStore
	tracer trace.Tracer
	logger *logrus.Logger
}

func NewPetService(pets domain.PetStore, owners domain.PetOwnerStore, tracer trace.Tracer, logger *logrus.Logger) *PetService {
	return &PetService{
		pets:   pets,
		owners: owners,
		tracer: tracer,
		logger: logger,
	}
}

func (service *PetService) CreatePet(ctx context.Context, ownerID primitive.ObjectID, pet *domain.Pet) (*domain.Pet, error) {
	ctx, span := service.tracer.Start(ctx, "PetService.CreatePet")
	defer span.End()

	owner, err := service.owners.Get(ctx, ownerID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf(errors.PetOwnerNotFoundError)
	}

	pet.PetOwner = owner.ID
	created, err := service.pets.Insert(ctx, pet)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := service.owners.LinkPet(ctx, owner.ID, created.ID); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return created, nil
}

func (service *PetService) GetPet(ctx context.Context, id primitive.ObjectID) (*domain.Pet, error) {
	ctx, span := service.tracer.Start(ctx, "PetService.GetPet")
	defer span.End()

	return service.pets.Get(ctx, id)
}

func (service *PetService) GetPetsByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*domain.Pet, error) {
	ctx, span := service.tracer.Start(ctx, "PetService.GetPetsByOwner")
	defer span.End()

	return service.pets.GetByOwner(ctx, ownerID)
}

func (service *PetService) UpdatePet(ctx context.Context, pet *domain.Pet) (*domain.Pet, error) {
	ctx, span := service.tracer.Start(ctx, "PetService.UpdatePet")
	defer span.End()

	return service.pets.Update(ctx, pet)
}

func (service *PetService) DeletePet(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := service.tracer.Start(ctx, "PetService.DeletePet")
	defer span.End()

	return service.pets.Delete(ctx, id)
}
