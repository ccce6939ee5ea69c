package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"filmorate/internal/filmorate/adapters/http/dto"
	"filmorate/internal/filmorate/adapters/http/middleware"
	"filmorate/internal/filmorate/domain/entities"
	"filmorate/internal/filmorate/ports/api"
	"filmorate/pkg/logger"
)

const (
	LogHandlerCreateFilm   = "handling create film request"
	LogHandlerUpdateFilm   = "handling update film request"
	LogHandlerGetFilm      = "handling get film request"
	LogHandlerListFilms    = "handling list films request"
	LogHandlerDeleteFilm   = "handling delete film request"
	LogHandlerAddLike      = "handling add like request"
	LogHandlerDeleteLike   = "handling delete like request"
	LogHandlerPopularFilms = "handling popular films request"

	// DefaultPopularCount - размер выборки популярных фильмов по умолчанию.
	DefaultPopularCount = 10
)

// FilmHandler обрабатывает запросы к фильмам и лайкам.
type FilmHandler struct {
	films api.FilmUseCase
}

// NewFilmHandler создает новый экземпляр обработчика фильмов.
func NewFilmHandler(films api.FilmUseCase) *FilmHandler {
	return &FilmHandler{films: films}
}

// Create обрабатывает POST /films.
func (h *FilmHandler) Create(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerCreateFilm)

	var req dto.FilmRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}
	film, err := req.ToEntity()
	if err != nil {
		return err
	}

	created, err := h.films.CreateFilm(requestCtx, film)
	if err != nil {
		return err
	}
	return sendJSON(ctx, fiber.StatusCreated, dto.NewFilmResponse(created))
}

// Update обрабатывает PUT /films.
func (h *FilmHandler) Update(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)

	var req dto.FilmRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerUpdateFilm, zap.Int64("id", req.ID))

	film, err := req.ToEntity()
	if err != nil {
		return err
	}

	updated, err := h.films.UpdateFilm(requestCtx, film)
	if err != nil {
		return err
	}
	return sendJSON(ctx, fiber.StatusOK, dto.NewFilmResponse(updated))
}

// Get обрабатывает GET /films/:id.
func (h *FilmHandler) Get(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerGetFilm)

	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}

	film, err := h.films.GetFilm(requestCtx, id)
	if err != nil {
		return err
	}
	return sendJSON(ctx, fiber.StatusOK, dto.NewFilmResponse(film))
}

// List обрабатывает GET /films.
func (h *FilmHandler) List(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerListFilms)

	films, err := h.films.ListFilms(requestCtx)
	if err != nil {
		return err
	}
	return sendJSON(ctx, fiber.StatusOK, dto.NewFilmListResponse(films))
}

// Delete обрабатывает DELETE /films/:id.
func (h *FilmHandler) Delete(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerDeleteFilm)

	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}

	if err := h.films.DeleteFilm(requestCtx, id); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// AddLike обрабатывает PUT /films/:id/like/:userId.
func (h *FilmHandler) AddLike(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerAddLike)

	filmID, userID, err := filmUser(ctx)
	if err != nil {
		return err
	}

	if err := h.films.AddLike(requestCtx, filmID, userID); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// DeleteLike обрабатывает DELETE /films/:id/like/:userId.
func (h *FilmHandler) DeleteLike(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerDeleteLike)

	filmID, userID, err := filmUser(ctx)
	if err != nil {
		return err
	}

	if err := h.films.DeleteLike(requestCtx, filmID, userID); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// Popular обрабатывает GET /films/popular?count=N.
func (h *FilmHandler) Popular(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)

	countStr := ctx.Query("count", strconv.Itoa(DefaultPopularCount))
	count, err := strconv.Atoi(countStr)
	if err != nil {
		return fmt.Errorf("%w: count=%q", entities.ErrInvalidCount, countStr)
	}
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerPopularFilms, zap.Int("count", count))

	films, err := h.films.PopularFilms(requestCtx, count)
	if err != nil {
		return err
	}
	return sendJSON(ctx, fiber.StatusOK, dto.NewFilmListResponse(films))
}

func filmUser(ctx fiber.Ctx) (int64, int64, error) {
	filmID, err := pathID(ctx, "id")
	if err != nil {
		return 0, 0, err
	}
	userID, err := pathID(ctx, "userId")
	if err != nil {
		return 0, 0, err
	}
	return filmID, userID, nil
}
