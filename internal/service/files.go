package service

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/deppfellow/request-tour/internal/model"
)

type FileService struct{}

func NewFileService() *FileService {
	return &FileService{}
}

// Size counts the bytes of an uploaded file by reading it.
func (s *FileService) Size(fh *multipart.FileHeader) (int64, error) {
	f, err := fh.Open()
	if err != nil {
		return 0, fmt.Errorf("opening upload %q: %w", fh.Filename, err)
	}
	defer f.Close()

	n, err := io.Copy(io.Discard, f)
	if err != nil {
		return 0, fmt.Errorf("reading upload %q: %w", fh.Filename, err)
	}
	return n, nil
}

// Sizes returns the size of each upload in upload order.
func (s *FileService) Sizes(files []*multipart.FileHeader) ([]int64, error) {
	sizes := make([]int64, 0, len(files))
	for _, fh := range files {
		n, err := s.Size(fh)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

// Filenames returns the client-supplied names in upload order.
func (s *FileService) Filenames(files []*multipart.FileHeader) []string {
	names := make([]string, 0, len(files))
	for _, fh := range files {
		names = append(names, fh.Filename)
	}
	return names
}

// ComplexForm reports the size of file, the token and fileb's content
// type.
func (s *FileService) ComplexForm(req *model.ComplexFormRequest) (model.ComplexFormResponse, error) {
	size, err := s.Size(req.File)
	if err != nil {
		return model.ComplexFormResponse{}, err
	}
	return model.ComplexFormResponse{
		FileSize:         size,
		Token:            req.Token,
		FileBContentType: req.FileB.Header.Get("Content-Type"),
	}, nil
}
