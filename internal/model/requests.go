package model

import (
	"mime/multipart"
	"time"

	"github.com/deppfellow/request-tour/internal/validation"
	"github.com/google/uuid"
)

// Empty is the request of routes that bind nothing.
type Empty struct{}

// Message is the {"message": ...} response.
type Message struct {
	Message string `json:"message"`
}

// ----- items -----

type CreateItemRequest struct {
	Item
}

type GetItemRequest struct {
	ItemID string `path:"item_id"`
}

type UpdateItemRequest struct {
	ItemID string `path:"item_id"`
	Item
}

type LegacyItemsRequest struct {
	Skip  int `query:"skip" description:"Negative values count from the end"`
	Limit int `query:"limit" default:"10"`
}

type BoundedItemRequest struct {
	ItemID int     `path:"item_id" validate:"gte=1,lte=100" minimum:"1" maximum:"100" description:"The ID of the item to get"`
	Q      *string `query:"q"`
}

type BoundedItemResponse struct {
	ItemID int     `json:"item_id"`
	Q      *string `json:"q,omitempty"`
}

type UpdateBoundedItemRequest struct {
	ItemID     int  `path:"item_id" validate:"gte=1,lte=100" minimum:"1" maximum:"100"`
	Item       Item `json:"item"`
	User       User `json:"user"`
	Importance int  `json:"importance" validate:"gt=0" exclusiveMinimum:"0"`
}

type UpdateBoundedItemResponse struct {
	ItemID     int  `json:"item_id"`
	Item       Item `json:"item"`
	User       User `json:"user"`
	Importance int  `json:"importance"`
}

type ScheduleItemRequest struct {
	ItemID        uuid.UUID `path:"item_id" format:"uuid"`
	StartDatetime time.Time `json:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime"`
	ProcessAfter  int       `json:"process_after" validate:"gte=0" description:"Seconds to wait after start_datetime"`
	RepeatAt      *string   `json:"repeat_at" validate:"omitnil,datetime=15:04:05" pattern:"^\\d{2}:\\d{2}:\\d{2}$"`
}

type ScheduleItemResponse struct {
	ItemID        uuid.UUID `json:"item_id"`
	StartDatetime time.Time `json:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime"`
	ProcessAfter  int       `json:"process_after"`
	RepeatAt      *string   `json:"repeat_at"`
	StartProcess  time.Time `json:"start_process"`
	Duration      float64   `json:"duration"`
}

type VehicleRequest struct {
	ItemID string `path:"item_id"`
}

type BooksRequest struct {
	ID *string `query:"id" validate:"omitnil,idprefix=isbn- imdb-"`
}

// ----- models -----

type ModelRequest struct {
	ModelName ModelName `path:"model_name" validate:"oneof=alexnet resnet lenet" enum:"alexnet,resnet,lenet"`
}

type ModelResponse struct {
	ModelName ModelName `json:"model_name"`
	Message   string    `json:"message"`
}

// ----- offers -----

type CreateOfferRequest struct {
	Offer
}

// ----- users -----

type CreateUserRequest struct {
	UserIn
}

type LoginRequest struct {
	Username string `formData:"username"`
	Password string `formData:"password"`
}

type LoginResponse struct {
	Username string `json:"username"`
}

// ----- files -----

type FileRequest struct {
	File *multipart.FileHeader `formData:"file"`
}

type FilesRequest struct {
	Files []*multipart.FileHeader `formData:"files"`
}

type FileSizeResponse struct {
	FileSize int64 `json:"file_size"`
}

type FileSizesResponse struct {
	FileSizes []int64 `json:"file_sizes"`
}

type FilenameResponse struct {
	Filename string `json:"filename"`
}

type FilenamesResponse struct {
	Filenames []string `json:"filenames"`
}

type ComplexFormRequest struct {
	File  *multipart.FileHeader `formData:"file"`
	FileB *multipart.FileHeader `formData:"fileb"`
	Token string                `formData:"token"`
}

type ComplexFormResponse struct {
	FileSize         int64  `json:"file_size"`
	Token            string `json:"token"`
	FileBContentType string `json:"fileb_content_type"`
}

// ----- unicorns -----

type UnicornRequest struct {
	Name string `path:"name"`
}

type UnicornResponse struct {
	UnicornName string `json:"unicorn_name"`
}

// Validate rejects windows that end before they start.
func (r *ScheduleItemRequest) Validate() error {
	if r.EndDatetime.Before(r.StartDatetime) {
		return validation.CustomValidationErrors{{
			Source:  validation.SourceBody,
			Field:   "end_datetime",
			Message: "end_datetime must not be before start_datetime",
		}}
	}
	return nil
}
