package service

import (
	"fmt"
	"net/http"

	"github.com/deppfellow/request-tour/internal/errs"
	"github.com/deppfellow/request-tour/internal/model"
)

// UnicornError is raised for the one unicorn that misbehaves.
type UnicornError struct {
	Name string
}

func (e *UnicornError) Error() string {
	return fmt.Sprintf("unicorn %q did something", e.Name)
}

// RegisterErrors teaches the registry the domain errors of this package.
func RegisterErrors(r *errs.Registry) {
	errs.Register(r, func(e *UnicornError) errs.Response {
		return errs.Response{
			Status: http.StatusTeapot,
			Body:   map[string]string{"message": fmt.Sprintf("Oops! %s did something. There goes a rainbow...", e.Name)},
		}
	})
}

type UnicornService struct {
	troublemaker string
}

func NewUnicornService() *UnicornService {
	return &UnicornService{troublemaker: "yolo"}
}

func (s *UnicornService) Read(name string) (model.UnicornResponse, error) {
	if name == s.troublemaker {
		return model.UnicornResponse{}, &UnicornError{Name: name}
	}
	return model.UnicornResponse{UnicornName: name}, nil
}
