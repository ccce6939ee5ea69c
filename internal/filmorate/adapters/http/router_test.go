package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	filmhttp "filmorate/internal/filmorate/adapters/http"
	"filmorate/internal/filmorate/adapters/http/dto"
	"filmorate/internal/filmorate/adapters/http/middleware"
	"filmorate/internal/filmorate/adapters/memory"
	"filmorate/internal/filmorate/app"
	"filmorate/pkg/logger"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	return newTestAppWithMetrics(t, nil)
}

func newTestAppWithMetrics(t *testing.T, metrics *middleware.Metrics) *fiber.App {
	t.Helper()
	testLogger, err := logger.NewLogger(logger.Development, "info")
	require.NoError(t, err)

	repos := memory.NewRepositoryFactory(nil, nil)
	return filmhttp.NewApp(filmhttp.Options{Logger: testLogger, Metrics: metrics}, filmhttp.Services{
		Users:        app.NewUserUseCase(repos.UserRepository()),
		Films:        app.NewFilmUseCase(repos.FilmRepository()),
		Dictionaries: app.NewDictionaryUseCase(repos.GenreRepository(), repos.MpaRepository()),
	})
}

func doRequest(t *testing.T, a *fiber.App, method, path string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func userBody(login string) map[string]any {
	return map[string]any{
		"email":    login + "@mail.ru",
		"login":    login,
		"name":     "",
		"birthday": "1946-08-20",
	}
}

func filmBody(name string) map[string]any {
	return map[string]any{
		"name":        name,
		"description": "adipisicing",
		"releaseDate": "1967-03-25",
		"duration":    100,
		"mpa":         map[string]any{"id": 1},
	}
}

func createUser(t *testing.T, a *fiber.App, login string) dto.UserResponse {
	t.Helper()
	status, data := doRequest(t, a, http.MethodPost, "/users", userBody(login))
	require.Equal(t, http.StatusCreated, status, string(data))
	return decode[dto.UserResponse](t, data)
}

func createFilm(t *testing.T, a *fiber.App, name string) dto.FilmResponse {
	t.Helper()
	status, data := doRequest(t, a, http.MethodPost, "/films", filmBody(name))
	require.Equal(t, http.StatusCreated, status, string(data))
	return decode[dto.FilmResponse](t, data)
}

func TestUserRoutes(t *testing.T) {
	a := newTestApp(t)

	t.Run("создание подставляет логин вместо пустого имени", func(t *testing.T) {
		user := createUser(t, a, "dolore")
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, "dolore", user.Name)
		assert.Equal(t, "1946-08-20", user.Birthday)
		assert.Empty(t, user.Friends)
	})

	t.Run("невалидный email", func(t *testing.T) {
		body := userBody("mailless")
		body["email"] = "mail.ru"
		status, _ := doRequest(t, a, http.MethodPost, "/users", body)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("неверный формат даты", func(t *testing.T) {
		body := userBody("datebad")
		body["birthday"] = "20.08.1946"
		status, _ := doRequest(t, a, http.MethodPost, "/users", body)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("повторный логин", func(t *testing.T) {
		status, data := doRequest(t, a, http.MethodPost, "/users", userBody("dolore"))
		assert.Equal(t, http.StatusConflict, status)
		assert.Contains(t, decode[dto.ErrorResponse](t, data).Error, "login already taken")
	})

	t.Run("обновление и получение", func(t *testing.T) {
		body := userBody("doloreUpdate")
		body["id"] = 1
		body["name"] = "est adipisicing"
		status, data := doRequest(t, a, http.MethodPut, "/users", body)
		require.Equal(t, http.StatusOK, status, string(data))

		status, data = doRequest(t, a, http.MethodGet, "/users/1", nil)
		require.Equal(t, http.StatusOK, status)
		user := decode[dto.UserResponse](t, data)
		assert.Equal(t, "doloreUpdate", user.Login)
		assert.Equal(t, "est adipisicing", user.Name)
	})

	t.Run("обновление несуществующего", func(t *testing.T) {
		body := userBody("ghost")
		body["id"] = 9999
		status, _ := doRequest(t, a, http.MethodPut, "/users", body)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("нечисловой id", func(t *testing.T) {
		status, _ := doRequest(t, a, http.MethodGet, "/users/abc", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("список", func(t *testing.T) {
		status, data := doRequest(t, a, http.MethodGet, "/users", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Len(t, decode[[]dto.UserResponse](t, data), 1)
	})
}

func TestFriendRoutes(t *testing.T) {
	a := newTestApp(t)
	first := createUser(t, a, "first")
	second := createUser(t, a, "second")
	common := createUser(t, a, "common")

	status, _ := doRequest(t, a, http.MethodPut, "/users/1/friends/3", nil)
	require.Equal(t, http.StatusNoContent, status)
	status, _ = doRequest(t, a, http.MethodPut, "/users/2/friends/3", nil)
	require.Equal(t, http.StatusNoContent, status)

	status, data := doRequest(t, a, http.MethodGet, "/users/3/friends", nil)
	require.Equal(t, http.StatusOK, status)
	friends := decode[[]dto.UserResponse](t, data)
	require.Len(t, friends, 2)
	assert.Equal(t, first.ID, friends[0].ID)
	assert.Equal(t, second.ID, friends[1].ID)

	status, data = doRequest(t, a, http.MethodGet, "/users/1/friends/common/2", nil)
	require.Equal(t, http.StatusOK, status)
	shared := decode[[]dto.UserResponse](t, data)
	require.Len(t, shared, 1)
	assert.Equal(t, common.ID, shared[0].ID)

	status, _ = doRequest(t, a, http.MethodPut, "/users/1/friends/1", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doRequest(t, a, http.MethodPut, "/users/1/friends/-1", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doRequest(t, a, http.MethodDelete, "/users/1/friends/3", nil)
	require.Equal(t, http.StatusNoContent, status)

	status, data = doRequest(t, a, http.MethodGet, "/users/1/friends", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]dto.UserResponse](t, data))
}

func TestFilmRoutes(t *testing.T) {
	a := newTestApp(t)
	createUser(t, a, "liker")

	t.Run("создание с рейтингом и жанрами", func(t *testing.T) {
		body := filmBody("nisi eiusmod")
		body["genres"] = []map[string]any{{"id": 2}, {"id": 1}, {"id": 2}}
		status, data := doRequest(t, a, http.MethodPost, "/films", body)
		require.Equal(t, http.StatusCreated, status, string(data))

		film := decode[dto.FilmResponse](t, data)
		assert.Equal(t, int64(1), film.ID)
		assert.Equal(t, "1967-03-25", film.ReleaseDate)
		require.NotNil(t, film.Mpa)
		assert.Equal(t, "G", film.Mpa.Name)
		assert.Equal(t, []dto.GenreDTO{{ID: 1, Name: "Комедия"}, {ID: 2, Name: "Драма"}}, film.Genres)
	})

	t.Run("ранняя дата релиза", func(t *testing.T) {
		body := filmBody("early")
		body["releaseDate"] = "1890-03-25"
		status, _ := doRequest(t, a, http.MethodPost, "/films", body)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("неизвестный рейтинг", func(t *testing.T) {
		body := filmBody("unknown mpa")
		body["mpa"] = map[string]any{"id": 999}
		status, _ := doRequest(t, a, http.MethodPost, "/films", body)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("дубликат", func(t *testing.T) {
		status, _ := doRequest(t, a, http.MethodPost, "/films", filmBody("nisi eiusmod"))
		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("лайки и популярное", func(t *testing.T) {
		second := createFilm(t, a, "second film")

		status, _ := doRequest(t, a, http.MethodPut, "/films/2/like/1", nil)
		require.Equal(t, http.StatusNoContent, status)

		status, data := doRequest(t, a, http.MethodGet, "/films/popular?count=1", nil)
		require.Equal(t, http.StatusOK, status)
		popular := decode[[]dto.FilmResponse](t, data)
		require.Len(t, popular, 1)
		assert.Equal(t, second.ID, popular[0].ID)
		assert.Equal(t, []int64{1}, popular[0].Likes)

		status, _ = doRequest(t, a, http.MethodPut, "/films/2/like/42", nil)
		assert.Equal(t, http.StatusNotFound, status)

		status, _ = doRequest(t, a, http.MethodDelete, "/films/2/like/1", nil)
		require.Equal(t, http.StatusNoContent, status)

		status, _ = doRequest(t, a, http.MethodGet, "/films/popular?count=0", nil)
		assert.Equal(t, http.StatusBadRequest, status)

		status, _ = doRequest(t, a, http.MethodGet, "/films/popular?count=many", nil)
		assert.Equal(t, http.StatusBadRequest, status)

		status, data = doRequest(t, a, http.MethodGet, "/films/popular", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Len(t, decode[[]dto.FilmResponse](t, data), 2)
	})

	t.Run("обновление без жанров сохраняет жанры", func(t *testing.T) {
		body := filmBody("nisi eiusmod updated")
		body["id"] = 1
		status, data := doRequest(t, a, http.MethodPut, "/films", body)
		require.Equal(t, http.StatusOK, status, string(data))
		film := decode[dto.FilmResponse](t, data)
		assert.Equal(t, "nisi eiusmod updated", film.Name)
		assert.Len(t, film.Genres, 2)
	})

	t.Run("удаление", func(t *testing.T) {
		status, _ := doRequest(t, a, http.MethodDelete, "/films/1", nil)
		require.Equal(t, http.StatusNoContent, status)

		status, _ = doRequest(t, a, http.MethodGet, "/films/1", nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestDictionaryRoutes(t *testing.T) {
	a := newTestApp(t)

	status, data := doRequest(t, a, http.MethodGet, "/genres", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]dto.GenreDTO](t, data), 6)

	status, data = doRequest(t, a, http.MethodGet, "/mpa/4", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, dto.MpaDTO{ID: 4, Name: "R"}, decode[dto.MpaDTO](t, data))

	status, _ = doRequest(t, a, http.MethodGet, "/genres/9999", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doRequest(t, a, http.MethodGet, "/mpa/x", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestMiddleware(t *testing.T) {
	a := newTestApp(t)

	t.Run("неизвестный маршрут", func(t *testing.T) {
		status, data := doRequest(t, a, http.MethodGet, "/unknown", nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Route not found", decode[dto.ErrorResponse](t, data).Error)
	})

	t.Run("идентификатор запроса возвращается клиенту", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/genres", nil)
		req.Header.Set(middleware.HeaderRequestID, "req-42")
		resp, err := a.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, "req-42", resp.Header.Get(middleware.HeaderRequestID))

		resp, err = a.Test(httptest.NewRequest(http.MethodGet, "/genres", nil))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.NotEmpty(t, resp.Header.Get(middleware.HeaderRequestID))
	})

	t.Run("паника превращается в 500", func(t *testing.T) {
		panicking := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
		panicking.Use(middleware.NewRequestContextMiddleware(nil))
		panicking.Use(middleware.NewLoggerMiddleware())
		panicking.Use(middleware.NewRecoveryMiddleware())
		panicking.Get("/boom", func(_ fiber.Ctx) error {
			panic("boom")
		})

		status, data := doRequest(t, panicking, http.MethodGet, "/boom", nil)
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "Internal Server Error", decode[dto.ErrorResponse](t, data).Error)
	})
}

func TestMetricsRoute(t *testing.T) {
	a := newTestAppWithMetrics(t, middleware.NewMetrics(prometheus.NewRegistry()))

	createUser(t, a, "metered")
	status, _ := doRequest(t, a, http.MethodGet, "/users/1", nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = doRequest(t, a, http.MethodGet, "/users/404", nil)
	require.Equal(t, http.StatusNotFound, status)

	status, data := doRequest(t, a, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, status)

	body := string(data)
	assert.Contains(t, body, "filmorate_http_requests_total")
	assert.Contains(t, body, `route="/users/:id",status="200"`)
	assert.Contains(t, body, `route="/users/:id",status="404"`)
	assert.Contains(t, body, "filmorate_http_request_duration_seconds_bucket")
}

func TestMetricsDisabled(t *testing.T) {
	a := newTestApp(t)

	status, _ := doRequest(t, a, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
