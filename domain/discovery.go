package domain

// DiscoveryQuery carries the optional sitter search criteria. Every field is
// optional; an absent criterion adds no constraint. The dog/cat counters keep
// the client's counter semantics: any value above zero toggles the filter on.
type DiscoveryQuery struct {
	SelectedDates  []string `json:"selectedDates,omitempty"`
	PetService     string   `json:"petService,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	SmallDog       int      `json:"smallDog,omitempty"`
	MediumDog      int      `json:"mediumDog,omitempty"`
	LargeDog       int      `json:"largeDog,omitempty"`
	GiantDog       int      `json:"giantDog,omitempty"`
	Cat            int      `json:"cat,omitempty"`
	SmallAnimal    int      `json:"smallAnimal,omitempty"`
	NoChildren     bool     `json:"noChildren,omitempty"`
	FencedBackyard bool     `json:"fencedBackyard,omitempty"`
	Page           int      `json:"page,omitempty"`
}

func (q *DiscoveryQuery) HasCoordinates() bool {
	return q.Latitude != nil && q.Longitude != nil
}

// SelectedSizes lists every size toggled on. The store requires a sitter to
// accept all of them, not just one.
func (q *DiscoveryQuery) SelectedSizes() []PetSize {
	var sizes []PetSize
	if q.SmallDog > 0 {
		sizes = append(sizes, SizeSmall)
	}
	if q.MediumDog > 0 {
		sizes = append(sizes, SizeMedium)
	}
	if q.LargeDog > 0 {
		sizes = append(sizes, SizeLarge)
	}
	if q.GiantDog > 0 {
		sizes = append(sizes, SizeGiant)
	}
	return sizes
}

func (q *DiscoveryQuery) SelectedPetTypes() []PetType {
	var types []PetType
	if q.Cat > 0 {
		types = append(types, TypeCats)
	}
	if q.SmallAnimal > 0 {
		types = append(types, TypeSmallAnimals)
	}
	return types
}

// FilteredSitter is a sitter profile annotated for a discovery response: the
// owning account reduced to its public fields and, when the requester sent
// coordinates, a human-readable distance bucket.
type FilteredSitter struct {
	PetSitter `bson:",inline"`
	Owner     *PublicOwner `bson:"owner,omitempty" json:"petOwner,omitempty"`
	Distance  string       `bson:"-" json:"distance,omitempty"`
}

type DiscoveryResult struct {
	UpdatedResults []*FilteredSitter `json:"updatedResults"`
	CurrentPage    int               `json:"currentPage"`
	TotalPages     int               `json:"totalPages"`
}
