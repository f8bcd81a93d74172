package dtos

import (
	"strings"

	"github.com/xdoubleu/essentia/v2/pkg/validate"
	"olympiad.xdoubleu.com/apps/olympiad/internal/storage"
)

type CreateSubmissionDto struct {
	Title       string `schema:"title"`
	Description string `schema:"description"`
	// filled from the multipart form by the handler
	FileName  string `schema:"-"`
	VideoName string `schema:"-"`
}

func (dto *CreateSubmissionDto) Validate() (bool, map[string]string) {
	v := validate.New()

	dto.Title = strings.TrimSpace(dto.Title)
	dto.Description = strings.TrimSpace(dto.Description)

	validate.Check(v, "title", dto.Title, validate.IsNotEmpty)
	validate.Check(v, "file", dto.FileName+dto.VideoName, hasUpload)

	if dto.FileName != "" {
		validate.Check(v, "file", dto.FileName, allowed(storage.KindFile))
	}
	if dto.VideoName != "" {
		validate.Check(v, "video", dto.VideoName, allowed(storage.KindVideo))
	}

	return v.Valid(), v.Errors()
}

func hasUpload(names string) (bool, string) {
	return names != "", "add a file or a video"
}

func allowed(kind storage.Kind) func(string) (bool, string) {
	return func(name string) (bool, string) {
		return storage.IsAllowed(kind, name),
			"allowed formats: " + strings.Join(storage.AllowedExtensions(kind), ", ")
	}
}
