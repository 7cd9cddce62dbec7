// Package service holds the logic behind each route. Handlers pass it
// validated requests; it talks to the repositories and returns response
// values or errors for the global error handler to translate.
package service

import (
	"github.com/deppfellow/request-tour/internal/lib/job"
	"github.com/deppfellow/request-tour/internal/repository"
	"github.com/deppfellow/request-tour/internal/server"
)

type Services struct {
	Auth     *AuthService
	Items    *ItemService
	Catalog  *CatalogService
	Users    *UserService
	Models   *ModelService
	Files    *FileService
	Unicorns *UnicornService
	Job      *job.JobService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var welcome WelcomeEnqueuer
	if s.Job != nil {
		welcome = s.Job
	}

	return &Services{
		Auth:     NewAuthService(s.Config.Auth),
		Items:    NewItemService(repos.Items),
		Catalog:  NewCatalogService(),
		Users:    NewUserService(welcome, s.Logger),
		Models:   NewModelService(),
		Files:    NewFileService(),
		Unicorns: NewUnicornService(),
		Job:      s.Job,
	}, nil
}
