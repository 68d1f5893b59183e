package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"screening-sync/internal/delivery/http/middleware"
	"screening-sync/internal/usecase"
)

// WorkspaceProvider hands out the workspace of a session.
type WorkspaceProvider interface {
	Get(ctx context.Context, sessionID, token string) *usecase.Workspace
}

func workspace(c fiber.Ctx, p WorkspaceProvider) *usecase.Workspace {
	return p.Get(c.Context(), middleware.SessionID(c), middleware.Token(c))
}

var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func bindJSON(c fiber.Ctx, out any) error {
	if err := c.Bind().Body(out); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := requestValidator.Struct(out); err != nil {
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, validationMessage(err), nil, err)
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "min", "max":
		return fmt.Sprintf("%s must be %s %s", fe.Field(), map[string]string{"min": "at least", "max": "at most"}[fe.Tag()], fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// readUpload reads a multipart file field. The size cap itself is checked
// by the workspace; limit only bounds how much is read.
func readUpload(c fiber.Ctx, field string, limit int64) (string, []byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil, middleware.NewAppError(fiber.StatusBadRequest, field+" is required", nil, err)
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	defer f.Close()

	b, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return "", nil, middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	return fh.Filename, b, nil
}

func parseQueryIntPtr(c fiber.Ctx, key string) (*int, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseQueryBoolPtr(c fiber.Ctx, key string) (*bool, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrValidation):
		return middleware.NewAppError(fiber.StatusBadRequest, message(err), nil, err)
	case errors.Is(err, usecase.ErrUnsupported):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, message(err), nil, err)
	case errors.Is(err, usecase.ErrFileTooBig):
		return middleware.NewAppError(fiber.StatusRequestEntityTooLarge, message(err), nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, message(err), nil, err)
	case errors.Is(err, usecase.ErrLocalOnly):
		return middleware.NewAppError(fiber.StatusConflict, message(err), nil, err)
	case errors.Is(err, usecase.ErrCancelled), errors.Is(err, usecase.ErrJobDeleted):
		return middleware.NewAppError(fiber.StatusConflict, message(err), nil, err)
	case errors.Is(err, usecase.ErrRemote):
		return middleware.NewAppError(fiber.StatusBadGateway, "", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
}

// message capitalizes a usecase error for display.
func message(err error) string {
	s := err.Error()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
