package handler

import (
	"github.com/deppfellow/request-tour/internal/model"
	"github.com/deppfellow/request-tour/internal/server"
	"github.com/deppfellow/request-tour/internal/service"
	"github.com/labstack/echo/v4"
)

// FileHandler serves the multipart upload routes. Uploads are measured or
// named, never kept.
type FileHandler struct {
	Handler
	files *service.FileService
}

func NewFileHandler(s *server.Server, files *service.FileService) *FileHandler {
	return &FileHandler{
		Handler: NewHandler(s),
		files:   files,
	}
}

func (h *FileHandler) FileSize(c echo.Context, req *model.FileRequest) (model.FileSizeResponse, error) {
	size, err := h.files.Size(req.File)
	if err != nil {
		return model.FileSizeResponse{}, err
	}
	return model.FileSizeResponse{FileSize: size}, nil
}

func (h *FileHandler) FileSizes(c echo.Context, req *model.FilesRequest) (model.FileSizesResponse, error) {
	sizes, err := h.files.Sizes(req.Files)
	if err != nil {
		return model.FileSizesResponse{}, err
	}
	return model.FileSizesResponse{FileSizes: sizes}, nil
}

func (h *FileHandler) UploadFile(c echo.Context, req *model.FileRequest) (model.FilenameResponse, error) {
	return model.FilenameResponse{Filename: req.File.Filename}, nil
}

func (h *FileHandler) UploadFiles(c echo.Context, req *model.FilesRequest) (model.FilenamesResponse, error) {
	return model.FilenamesResponse{Filenames: h.files.Filenames(req.Files)}, nil
}

func (h *FileHandler) ComplexForm(c echo.Context, req *model.ComplexFormRequest) (model.ComplexFormResponse, error) {
	return h.files.ComplexForm(req)
}
