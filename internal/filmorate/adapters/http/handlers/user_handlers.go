package handlers

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"filmorate/internal/filmorate/adapters/http/dto"
	"filmorate/internal/filmorate/adapters/http/middleware"
	"filmorate/internal/filmorate/ports/api"
	"filmorate/pkg/logger"
)

const (
	LogHandlerCreateUser    = "handling create user request"
	LogHandlerUpdateUser    = "handling update user request"
	LogHandlerGetUser       = "handling get user request"
	LogHandlerListUsers     = "handling list users request"
	LogHandlerDeleteUser    = "handling delete user request"
	LogHandlerAddFriend     = "handling add friend request"
	LogHandlerDeleteFriend  = "handling delete friend request"
	LogHandlerListFriends   = "handling list friends request"
	LogHandlerCommonFriends = "handling common friends request"
)

// UserHandler обрабатывает запросы к пользователям и дружбе.
type UserHandler struct {
	users api.UserUseCase
}

// NewUserHandler создает новый экземпляр обработчика пользователей.
func NewUserHandler(users api.UserUseCase) *UserHandler {
	return &UserHandler{users: users}
}

// Create обрабатывает POST /users.
func (h *UserHandler) Create(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerCreateUser)

	var req dto.UserRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}
	user, err := req.ToEntity()
	if err != nil {
		return err
	}

	created, err := h.users.CreateUser(requestCtx, user)
	if err != nil {
		return err
	}
	return sendJSON(ctx, fiber.StatusCreated, dto.NewUserResponse(created))
}

// Update обрабатывает PUT /users.
func (h *UserHandler) Update(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)

	var req dto.UserRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerUpdateUser, zap.Int64("id", req.ID))

	user, err := req.ToEntity()
	if err != nil {
		return err
	}

	updated, err := h.users.UpdateUser(requestCtx, user)
	if err != nil {
		return err
	}
	return sendJSON(ctx, fiber.StatusOK, dto.NewUserResponse(updated))
}

// Get обрабатывает GET /users/:id.
func (h *UserHandler) Get(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerGetUser)

	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}

	user, err := h.users.GetUser(requestCtx, id)
	if err != nil {
		return err
	}
	return sendJSON(ctx, fiber.StatusOK, dto.NewUserResponse(user))
}

// List обрабатывает GET /users.
func (h *UserHandler) List(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerListUsers)

	users, err := h.users.ListUsers(requestCtx)
	if err != nil {
		return err
	}
	return sendJSON(ctx, fiber.StatusOK, dto.NewUserListResponse(users))
}

// Delete обрабатывает DELETE /users/:id.
func (h *UserHandler) Delete(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerDeleteUser)

	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}

	if err := h.users.DeleteUser(requestCtx, id); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// AddFriend обрабатывает PUT /users/:id/friends/:friendId.
func (h *UserHandler) AddFriend(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerAddFriend)

	id, friendID, err := userPair(ctx, "friendId")
	if err != nil {
		return err
	}

	if err := h.users.AddFriend(requestCtx, id, friendID); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// DeleteFriend обрабатывает DELETE /users/:id/friends/:friendId.
func (h *UserHandler) DeleteFriend(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerDeleteFriend)

	id, friendID, err := userPair(ctx, "friendId")
	if err != nil {
		return err
	}

	if err := h.users.DeleteFriend(requestCtx, id, friendID); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// ListFriends обрабатывает GET /users/:id/friends.
func (h *UserHandler) ListFriends(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerListFriends)

	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}

	friends, err := h.users.ListFriends(requestCtx, id)
	if err != nil {
		return err
	}
	return sendJSON(ctx, fiber.StatusOK, dto.NewUserListResponse(friends))
}

// CommonFriends обрабатывает GET /users/:id/friends/common/:otherId.
func (h *UserHandler) CommonFriends(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerCommonFriends)

	id, otherID, err := userPair(ctx, "otherId")
	if err != nil {
		return err
	}

	common, err := h.users.ListCommonFriends(requestCtx, id, otherID)
	if err != nil {
		return err
	}
	return sendJSON(ctx, fiber.StatusOK, dto.NewUserListResponse(common))
}

func userPair(ctx fiber.Ctx, other string) (int64, int64, error) {
	id, err := pathID(ctx, "id")
	if err != nil {
		return 0, 0, err
	}
	otherID, err := pathID(ctx, other)
	if err != nil {
		return 0, 0, err
	}
	return id, otherID, nil
}
