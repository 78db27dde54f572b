package main

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/oliverisaac/goli"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jahandaniyal/notes-api/internal/engine"
	"github.com/jahandaniyal/notes-api/types"
)

func init() {
	goli.InitLogrus(logrus.DebugLevel)
}

const UserKey = "session-user"

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("error loading godotenv")
	}

	cfg, err := types.ConfigFromEnv()
	if err != nil {
		logrus.Fatal(errors.Wrap(err, "Loading config"))
	}

	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatal(errors.Wrap(err, "failed to connect database"))
	}

	err = db.AutoMigrate(&types.User{}, &types.Note{}, &types.Tag{})
	if err != nil {
		logrus.Fatal(errors.Wrap(err, "Failed to migrate"))
	}

	e := newServer(cfg, db)
	e.Logger.Fatal(e.Start(cfg.ListenAddr))
}

func newServer(cfg types.Config, db *gorm.DB) *echo.Echo {
	e := echo.New()

	e.Use(middleware.Recover())

	e.Use(middleware.Secure())

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "method=${method}, uri=${uri}, status=${status}\n",
	}))

	store := sessions.NewCookieStore(cfg.CookieSecret)
	e.Use(session.Middleware(store))
	e.Use(UserMiddleware(db))

	e.HTTPErrorHandler = httpErrorHandler()

	mut := engine.NewMutation(db)
	vis := engine.NewVisibility(db)

	// users
	e.POST("/register", register(cfg, db))
	e.POST("/login", login(db))
	e.POST("/logout", logout())
	e.GET("/user/:id", getUser(db))
	e.PUT("/user/:id", updateUser(db))
	e.DELETE("/user/:id", deleteUser(db))

	// notes
	e.GET("/notes", listNotes(vis))
	e.POST("/notes", createNote(mut))
	e.GET("/note/:id", getNote(vis))
	e.PUT("/note/:id", updateNote(mut))
	e.DELETE("/note/:id", deleteNote(mut))

	return e
}

// UserMiddleware resolves the session into a fresh user row. The session
// only proves who the caller is; role and name always come from the
// database, and a deleted user degrades to anonymous.
func UserMiddleware(db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, _ := session.Get("session", c)
			if sess.Values["user"] != nil {
				var sessionUser types.User
				err := json.Unmarshal(sess.Values["user"].([]byte), &sessionUser)
				if err != nil {
					fmt.Println("error unmarshalling user value")
					return err
				}
				var user types.User
				if err := db.First(&user, sessionUser.ID).Error; err == nil {
					c.Set(UserKey, user)
				}
			}
			return next(c)
		}
	}
}

func GetSessionUser(c echo.Context) (types.User, bool) {
	u := c.Get(UserKey)
	if u != nil {
		user := u.(types.User)
		logrus.Debugf("Found session user %s", user.Name)
		return user, true
	}
	return types.User{}, false
}

func requesterFrom(c echo.Context) engine.Requester {
	if user, ok := GetSessionUser(c); ok {
		return engine.AsUser(user)
	}
	return engine.Anonymous()
}
