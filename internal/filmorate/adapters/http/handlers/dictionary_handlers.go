package handlers

import (
	"github.com/gofiber/fiber/v3"

	"filmorate/internal/filmorate/adapters/http/dto"
	"filmorate/internal/filmorate/adapters/http/middleware"
	"filmorate/internal/filmorate/ports/api"
)

// DictionaryHandler обрабатывает запросы к справочникам жанров и рейтингов.
type DictionaryHandler struct {
	dictionaries api.DictionaryUseCase
}

// NewDictionaryHandler создает обработчик справочников.
func NewDictionaryHandler(dictionaries api.DictionaryUseCase) *DictionaryHandler {
	return &DictionaryHandler{dictionaries: dictionaries}
}

func (h *DictionaryHandler) ListGenres(ctx fiber.Ctx) error {
	genres, err := h.dictionaries.ListGenres(middleware.RequestContext(ctx))
	if err != nil {
		return err
	}
	return sendJSON(ctx, fiber.StatusOK, dto.NewGenreListResponse(genres))
}

func (h *DictionaryHandler) GetGenre(ctx fiber.Ctx) error {
	id, err := pathIntID(ctx, "id")
	if err != nil {
		return err
	}
	genre, err := h.dictionaries.GetGenre(middleware.RequestContext(ctx), id)
	if err != nil {
		return err
	}
	return sendJSON(ctx, fiber.StatusOK, dto.NewGenreResponse(genre))
}

func (h *DictionaryHandler) ListMpa(ctx fiber.Ctx) error {
	ratings, err := h.dictionaries.ListMpa(middleware.RequestContext(ctx))
	if err != nil {
		return err
	}
	return sendJSON(ctx, fiber.StatusOK, dto.NewMpaListResponse(ratings))
}

func (h *DictionaryHandler) GetMpa(ctx fiber.Ctx) error {
	id, err := pathIntID(ctx, "id")
	if err != nil {
		return err
	}
	mpa, err := h.dictionaries.GetMpa(middleware.RequestContext(ctx), id)
	if err != nil {
		return err
	}
	return sendJSON(ctx, fiber.StatusOK, dto.NewMpaResponse(mpa))
}
