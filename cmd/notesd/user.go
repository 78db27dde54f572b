package main

import (
	"encoding/json"
	errs "errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/jahandaniyal/notes-api/internal/engine"
	"github.com/jahandaniyal/notes-api/types"
)

type credentials struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type userPayload struct {
	Name string `json:"name"`
}

func userExists(name string, db *gorm.DB) bool {
	var user types.User
	err := db.First(&user, "name = ?", name).Error

	return !errs.Is(err, gorm.ErrRecordNotFound)
}

func register(cfg types.Config, db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var creds credentials
		if err := c.Bind(&creds); err != nil {
			return engine.ValidationError{Reason: "body must be a JSON object with name and password"}
		}

		if !cfg.AllowSignup {
			return engine.ErrPermissionDenied
		}

		if creds.Name == "" || creds.Password == "" {
			return engine.ValidationError{Reason: "name and password are required"}
		}

		if userExists(creds.Name, db) {
			return engine.ValidationError{Reason: fmt.Sprintf("name %q is already registered", creds.Name)}
		}

		// The first account gets the admin role.
		var count int64
		if err := db.Model(&types.User{}).Count(&count).Error; err != nil {
			return errors.Wrap(err, "counting users")
		}
		role := types.RoleUser
		if count == 0 {
			role = types.RoleAdmin
		}

		user := types.User{
			Name: creds.Name,
			Role: role,
		}
		if err := user.SetPassword(creds.Password); err != nil {
			return err
		}

		if err := db.Create(&user).Error; err != nil {
			if errs.Is(err, gorm.ErrDuplicatedKey) {
				return engine.ValidationError{Reason: fmt.Sprintf("name %q is already registered", creds.Name)}
			}
			return errors.Wrap(err, "saving user")
		}

		return c.JSON(http.StatusCreated, map[string]any{"id": user.ID, "name": user.Name})
	}
}

func login(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var creds credentials
		if err := c.Bind(&creds); err != nil {
			return engine.ValidationError{Reason: "body must be a JSON object with name and password"}
		}

		var user types.User
		db.First(&user, "name = ?", creds.Name)
		if !user.CheckPassword(creds.Password) {
			return engine.ErrUnauthenticated
		}

		sess, _ := session.Get("session", c)
		sess.Options = &sessions.Options{
			Path:     "/",
			MaxAge:   3600 * 24 * 365,
			HttpOnly: true,
		}

		userBytes, err := json.Marshal(user)
		if err != nil {
			return errors.Wrap(err, "marshalling user value")
		}

		sess.Values["user"] = userBytes

		if err := sess.Save(c.Request(), c.Response()); err != nil {
			return errors.Wrap(err, "saving session")
		}

		return c.JSON(http.StatusOK, map[string]any{"id": user.ID, "name": user.Name})
	}
}

func logout() echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, _ := session.Get("session", c)
		sess.Options.MaxAge = -1
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			return errors.Wrap(err, "saving session")
		}

		return c.NoContent(http.StatusOK)
	}
}

func getUser(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := userByParam(c, db)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]string{"user is": user.Name})
	}
}

// updateUser changes a user's name. Only the user themselves or an admin
// may do it; a payload without a name leaves it unchanged.
func updateUser(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		requester, ok := GetSessionUser(c)
		if !ok {
			return engine.ErrUnauthenticated
		}

		user, err := userByParam(c, db)
		if err != nil {
			return err
		}
		if user.ID != requester.ID && !requester.IsAdmin() {
			return engine.ErrPermissionDenied
		}

		var payload userPayload
		if err := c.Bind(&payload); err != nil {
			return engine.ValidationError{Reason: "body must be a JSON object"}
		}
		if payload.Name != "" {
			user.Name = payload.Name
		}

		if err := db.Save(&user).Error; err != nil {
			if errs.Is(err, gorm.ErrDuplicatedKey) {
				return engine.ValidationError{Reason: fmt.Sprintf("name %q is already registered", payload.Name)}
			}
			return errors.Wrapf(err, "saving user %d", user.ID)
		}

		return c.JSON(http.StatusOK, map[string]string{
			fmt.Sprintf("user %s has been updated", requester.Name): user.Name,
		})
	}
}

func deleteUser(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		requester, ok := GetSessionUser(c)
		if !ok {
			return engine.ErrUnauthenticated
		}

		user, err := userByParam(c, db)
		if err != nil {
			return err
		}
		if user.ID != requester.ID && !requester.IsAdmin() {
			return engine.ErrPermissionDenied
		}

		// Soft delete: the row stays so existing notes keep a valid owner.
		if err := db.Delete(&user).Error; err != nil {
			return errors.Wrapf(err, "deleting user %d", user.ID)
		}

		return c.JSON(http.StatusOK, fmt.Sprintf("User %s has been deleted", user.Name))
	}
}

func userByParam(c echo.Context, db *gorm.DB) (types.User, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return types.User{}, engine.ErrNotFound
	}

	var user types.User
	err = db.First(&user, uint(id)).Error
	if errs.Is(err, gorm.ErrRecordNotFound) {
		return types.User{}, engine.ErrNotFound
	}
	if err != nil {
		return types.User{}, errors.Wrapf(err, "loading user %d", id)
	}
	return user, nil
}
