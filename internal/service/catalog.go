package service

import (
	"time"

	"github.com/deppfellow/request-tour/internal/model"
)

// CatalogService serves the fixed, read-only data sets.
type CatalogService struct {
	legacy   []model.CatalogItem
	books    []model.Book
	vehicles map[string]model.Vehicle
}

func NewCatalogService() *CatalogService {
	planeSize := 5

	return &CatalogService{
		legacy: []model.CatalogItem{
			{ItemName: "Foo"},
			{ItemName: "Bar"},
			{ItemName: "Baz"},
		},
		books: []model.Book{
			{ID: "isbn-9781529046137", Name: "The Hitchhiker's Guide to the Galaxy"},
			{ID: "imdb-tt0371724", Name: "The Hitchhiker's Guide to the Galaxy"},
			{ID: "isbn-9781439512982", Name: "Isaac Asimov: The Complete Stories, Vol. 2"},
		},
		vehicles: map[string]model.Vehicle{
			"item1": {Description: "All my friends drive a low rider", Type: model.VehicleCar},
			"item2": {Description: "Music is my aeroplane, it's my aeroplane", Type: model.VehiclePlane, Size: &planeSize},
		},
	}
}

// Legacy returns catalogue[skip : skip+limit]. Negative bounds count from
// the end of the catalogue, so skip=-1 is the last entry and limit=-1
// drops one entry from the end.
func (s *CatalogService) Legacy(skip, limit int) []model.CatalogItem {
	start := sliceBound(skip, len(s.legacy))
	end := sliceBound(skip+limit, len(s.legacy))
	if end < start {
		return []model.CatalogItem{}
	}
	return append([]model.CatalogItem{}, s.legacy[start:end]...)
}

// sliceBound resolves a possibly negative index against length n and
// clamps it to [0, n].
func sliceBound(i, n int) int {
	if i < 0 {
		i += n
	}
	return min(max(i, 0), n)
}

// Protected is the listing behind the header checks.
func (s *CatalogService) Protected() []model.ProtectedItem {
	return []model.ProtectedItem{{Item: "Foo"}, {Item: "Bar"}}
}

// Book looks a book up by id. Without an id the first book is returned.
// Unknown ids map to a placeholder name rather than an error.
func (s *CatalogService) Book(id *string) model.Book {
	if id == nil {
		return s.books[0]
	}
	for _, b := range s.books {
		if b.ID == *id {
			return b
		}
	}
	return model.Book{ID: *id, Name: "Unknown book"}
}

// Vehicle returns the car or plane stored under id.
func (s *CatalogService) Vehicle(id string) (model.Vehicle, error) {
	v, ok := s.vehicles[id]
	if !ok {
		return model.Vehicle{}, ErrItemNotFound
	}
	if v.Size != nil {
		size := *v.Size
		v.Size = &size
	}
	return v, nil
}

// Bounded echoes an integer-keyed item lookup.
func (s *CatalogService) Bounded(req *model.BoundedItemRequest) model.BoundedItemResponse {
	return model.BoundedItemResponse{ItemID: req.ItemID, Q: req.Q}
}

// UpdateBounded echoes the embedded item, user and importance.
func (s *CatalogService) UpdateBounded(req *model.UpdateBoundedItemRequest) model.UpdateBoundedItemResponse {
	return model.UpdateBoundedItemResponse{
		ItemID:     req.ItemID,
		Item:       req.Item,
		User:       req.User,
		Importance: req.Importance,
	}
}

// Schedule computes when processing starts (start + process_after) and
// how long it lasts (end - start_process, in seconds).
func (s *CatalogService) Schedule(req *model.ScheduleItemRequest) model.ScheduleItemResponse {
	startProcess := req.StartDatetime.Add(time.Duration(req.ProcessAfter) * time.Second)

	return model.ScheduleItemResponse{
		ItemID:        req.ItemID,
		StartDatetime: req.StartDatetime,
		EndDatetime:   req.EndDatetime,
		ProcessAfter:  req.ProcessAfter,
		RepeatAt:      req.RepeatAt,
		StartProcess:  startProcess,
		Duration:      req.EndDatetime.Sub(startProcess).Seconds(),
	}
}
