package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"userapi/internal/domain"
	applog "userapi/internal/log"
	"userapi/internal/repos"
	"userapi/internal/services"
	"userapi/internal/validate"
)

type UserHandler struct {
	Users    *services.UserService
	Patterns validate.Patterns
	// Strict answers 404 for unknown ids and refuses updates to them.
	Strict bool
}

type createUserRequest struct {
	Email    string `json:"email" form:"email" query:"email"`
	Password string `json:"password" form:"password" query:"password"`
	Name     string `json:"name" form:"name" query:"name"`
	School   string `json:"school" form:"school" query:"school"`
}

func (r createUserRequest) fields() []validate.Field {
	return []validate.Field{
		{Name: "email", Value: r.Email},
		{Name: "password", Value: r.Password},
		{Name: "name", Value: r.Name},
		{Name: "school", Value: r.School},
	}
}

// updateUserRequest is also the echoed "user" object of a successful update.
type updateUserRequest struct {
	Email  string `json:"email" form:"email" query:"email"`
	Name   string `json:"name" form:"name" query:"name"`
	School string `json:"school" form:"school" query:"school"`
}

func (r updateUserRequest) fields() []validate.Field {
	return []validate.Field{
		{Name: "email", Value: r.Email},
		{Name: "name", Value: r.Name},
		{Name: "school", Value: r.School},
	}
}

type usersResponse struct {
	Error  bool          `json:"error"`
	Status string        `json:"status"`
	Users  []domain.User `json:"users"`
}

type userResponse struct {
	Error  bool        `json:"error"`
	Status string      `json:"status"`
	Users  domain.User `json:"users"`
}

type updateResponse struct {
	Error  bool              `json:"error"`
	Status string            `json:"status"`
	User   updateUserRequest `json:"user"`
}

// userID parses the :id route param. A malformed id cannot match a row.
func userID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *UserHandler) notFound(c *fiber.Ctx) error {
	status := fiber.StatusOK
	if h.Strict {
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(envelope{Error: true, Status: "No user found"})
}

// GET|POST /users
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.Users.List(c.UserContext())
	if err != nil {
		applog.Error(c, "users.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "Could not load users")
	}
	return c.JSON(usersResponse{Status: "successfull", Users: users})
}

// GET /user/:id
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, ok := userID(c)
	if !ok {
		return h.notFound(c)
	}
	u, err := h.Users.ByID(c.UserContext(), id)
	if err != nil {
		applog.Error(c, "users.get.fail", err, map[string]any{"user_id": id})
		return fail(c, fiber.StatusInternalServerError, "Could not load user")
	}
	if !u.Exists() {
		return h.notFound(c)
	}
	return c.JSON(userResponse{Status: "successfull", Users: u})
}

// POST /user
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req createUserRequest
	if err := parseBody(c, &req); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"reason": "bad_body"})
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid request body")
	}
	if missing := validate.Required(req.fields()...); len(missing) > 0 {
		applog.Security(c, "validation.fail", map[string]any{"missing": missing})
		return fail(c, fiber.StatusUnprocessableEntity, validate.MissingMessage(missing))
	}
	email, ok := h.Patterns.Email(req.Email)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "email"})
		return fail(c, fiber.StatusUnprocessableEntity, "Bad email format")
	}
	if !h.Patterns.Password(req.Password) {
		applog.Security(c, "validation.fail", map[string]any{"field": "password"})
		return fail(c, fiber.StatusUnprocessableEntity, "Bad password format")
	}

	res, err := h.Users.Create(c.UserContext(), email, req.Password, req.Name, req.School)
	if err != nil {
		applog.Error(c, "users.create.fail", err, map[string]any{"email": email})
	}
	switch res {
	case domain.UserCreated:
		applog.Audit(c, "users.create", map[string]any{"email": email})
		return c.Status(fiber.StatusCreated).JSON(envelope{Message: "User created successfully"})
	case domain.UserFailure:
		return fail(c, fiber.StatusUnprocessableEntity, "Some error occured")
	case domain.UserExists:
		applog.Info(c, "users.create.exists", map[string]any{"email": email})
		return fail(c, fiber.StatusUnprocessableEntity, "User already exist!")
	}
	return fail(c, fiber.StatusUnprocessableEntity, "An error occured")
}

// PUT /user/:id
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var req updateUserRequest
	if err := parseBody(c, &req); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"reason": "bad_body"})
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid request body")
	}
	if missing := validate.Required(req.fields()...); len(missing) > 0 {
		applog.Security(c, "validation.fail", map[string]any{"missing": missing})
		return fail(c, fiber.StatusUnprocessableEntity, validate.MissingMessage(missing))
	}
	email, ok := h.Patterns.Email(req.Email)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "email"})
		return fail(c, fiber.StatusUnprocessableEntity, "Bad email format")
	}

	id, ok := userID(c)
	if h.Strict {
		if !ok {
			return h.notFound(c)
		}
		exists, err := h.Users.Exists(c.UserContext(), id)
		if err != nil {
			applog.Error(c, "users.update.fail", err, map[string]any{"user_id": id})
			return fail(c, fiber.StatusUnprocessableEntity, "Some error occured")
		}
		if !exists {
			return h.notFound(c)
		}
	}

	var affected int64
	if ok {
		n, err := h.Users.Update(c.UserContext(), id, email, req.Name, req.School)
		if errors.Is(err, repos.ErrEmailTaken) {
			applog.Info(c, "users.update.exists", map[string]any{"user_id": id, "email": email})
			return fail(c, fiber.StatusUnprocessableEntity, "User already exist!")
		}
		if err != nil {
			applog.Error(c, "users.update.fail", err, map[string]any{"user_id": id})
			return fail(c, fiber.StatusUnprocessableEntity, "Some error occured")
		}
		affected = n
	}
	applog.Audit(c, "users.update", map[string]any{"user_id": c.Params("id"), "rows": affected})
	return c.JSON(updateResponse{Status: "User Updated!", User: req})
}

// DELETE /user/:id
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, ok := userID(c)
	if !ok {
		return h.notFound(c)
	}
	u, err := h.Users.ByID(c.UserContext(), id)
	if err != nil {
		applog.Error(c, "users.delete.fail", err, map[string]any{"user_id": id})
		return fail(c, fiber.StatusInternalServerError, "Could not load user")
	}
	if !u.Exists() {
		return h.notFound(c)
	}
	if err := h.Users.Delete(c.UserContext(), id); err != nil {
		applog.Error(c, "users.delete.fail", err, map[string]any{"user_id": id})
		return fail(c, fiber.StatusUnprocessableEntity, "Some error occured")
	}
	applog.Audit(c, "users.delete", map[string]any{"user_id": id})
	return c.JSON(envelope{Status: fmt.Sprintf("User %d Deleted!", id)})
}
