package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zinhocoder/Aproovi-Back-end/internal/apperr"
	"github.com/zinhocoder/Aproovi-Back-end/internal/service"
)

// maxUploadBytes caps how much of an upload part is read into memory. The
// service enforces the real per-kind limits; this is just the read ceiling.
const maxUploadBytes = 50*1024*1024 + 1

// optionalFormFile reads a multipart file field, returning nil when the
// field is absent.
func optionalFormFile(c echo.Context, field string) (*service.FilePayload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperr.Validation("invalid upload", "could not read the uploaded file")
	}
	return readFilePayload(fh)
}

// requiredFormFile reads a multipart file field, failing when absent.
func requiredFormFile(c echo.Context, field string) (*service.FilePayload, error) {
	payload, err := optionalFormFile(c, field)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, apperr.Validation("upload data not found", "the file was not sent or not processed correctly")
	}
	return payload, nil
}

// formFiles reads every file of a multipart field in order.
func formFiles(c echo.Context, field string) ([]service.FilePayload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperr.Validation("upload data not found", "the files were not sent or not processed correctly")
	}
	headers := form.File[field]
	payloads := make([]service.FilePayload, 0, len(headers))
	for _, fh := range headers {
		payload, err := readFilePayload(fh)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, *payload)
	}
	return payloads, nil
}

func readFilePayload(fh *multipart.FileHeader) (*service.FilePayload, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, apperr.Validation("invalid upload", "could not read the uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes))
	if err != nil {
		return nil, apperr.Validation("invalid upload", "could not read the uploaded file")
	}
	return &service.FilePayload{Name: fh.Filename, Data: data}, nil
}

// optionalFormValue returns the form value and whether the field was sent,
// so partial updates can tell "absent" from "empty".
func optionalFormValue(c echo.Context, key string) (string, bool) {
	params, err := c.FormParams()
	if err != nil {
		return "", false
	}
	values, ok := params[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}
