package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/pkg/apperr"
	"github.com/Alijeyrad/clinica_backend/pkg/constants"
	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
)

var errBody = apperr.Validation("request body must be valid JSON")

func bindJSON(c fiber.Ctx, out any) error {
	if err := c.Bind().JSON(out); err != nil {
		return errBody
	}
	return nil
}

func paramID(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Validationf("%s must be a UUID", name)
	}
	return id, nil
}

func queryUUID(c fiber.Ctx, name string) (*uuid.UUID, error) {
	s := strings.TrimSpace(c.Query(name))
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, apperr.Validationf("%s must be a UUID", name)
	}
	return &id, nil
}

func queryDate(c fiber.Ctx, name string) (*timerange.Date, error) {
	s := strings.TrimSpace(c.Query(name))
	if s == "" {
		return nil, nil
	}
	d, err := timerange.ParseDate(s)
	if err != nil {
		return nil, apperr.Validationf("%s must be a date in YYYY-MM-DD format", name)
	}
	return &d, nil
}

func queryBool(c fiber.Ctx, name string) (bool, error) {
	s := strings.TrimSpace(c.Query(name))
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, apperr.Validationf("%s must be true or false", name)
	}
	return b, nil
}

func queryInt(c fiber.Ctx, name string) (int, error) {
	s := strings.TrimSpace(c.Query(name))
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperr.Validationf("%s must be an integer", name)
	}
	return n, nil
}

// pageQuery reads page and limit. page must be within [1, constants.MaxPage]
// when given; limit is clamped by model.Page.Normalize.
func pageQuery(c fiber.Ctx) (model.Page, error) {
	p, err := queryInt(c, "page")
	if err != nil {
		return model.Page{}, err
	}
	if c.Query("page") != "" && p < 1 {
		return model.Page{}, apperr.Validation("page must be greater than or equal to 1")
	}
	if p > constants.MaxPage {
		return model.Page{}, apperr.Validationf("page must be at most %d", constants.MaxPage)
	}
	l, err := queryInt(c, "limit")
	if err != nil {
		return model.Page{}, err
	}
	return model.Page{Page: p, Limit: l}, nil
}
