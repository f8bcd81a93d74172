package dtos_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"olympiad.xdoubleu.com/apps/olympiad/internal/dtos"
)

func TestCreateSubmissionDtoValidate(t *testing.T) {
	//nolint:exhaustruct //other fields are optional
	dto := dtos.CreateSubmissionDto{Title: "  Теория чисел ", FileName: "notes.pdf"}
	ok, errs := dto.Validate()
	assert.True(t, ok)
	assert.Empty(t, errs)
	assert.Equal(t, "Теория чисел", dto.Title)

	//nolint:exhaustruct //other fields are optional
	dto = dtos.CreateSubmissionDto{Title: " ", VideoName: "clip.webm"}
	ok, errs = dto.Validate()
	assert.False(t, ok)
	assert.Contains(t, errs, "title")

	//nolint:exhaustruct //other fields are optional
	dto = dtos.CreateSubmissionDto{Title: "Геометрия"}
	ok, errs = dto.Validate()
	assert.False(t, ok)
	assert.Contains(t, errs, "file")

	//nolint:exhaustruct //other fields are optional
	dto = dtos.CreateSubmissionDto{
		Title:     "Геометрия",
		FileName:  "notes.exe",
		VideoName: "clip.avi",
	}
	ok, errs = dto.Validate()
	assert.False(t, ok)
	assert.Equal(t, "allowed formats: pdf, doc, docx, txt, zip", errs["file"])
	assert.Equal(t, "allowed formats: mp4, webm, mov", errs["video"])
}
