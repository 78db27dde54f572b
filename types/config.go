package types

import (
	errs "errors"
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/oliverisaac/goli"
	"github.com/pkg/errors"
)

type Config struct {
	ListenAddr   string
	AllowSignup  bool
	CookieSecret []byte
	DBPath       string
}

func ConfigFromEnv() (Config, error) {
	ret := Config{}
	var retErr error
	var err error

	ret.ListenAddr = goli.DefaultEnv("NOTES_LISTEN_ADDR", ":8080")

	ret.AllowSignup, err = strconv.ParseBool(goli.DefaultEnv("NOTES_ALLOW_SIGNUP", "true"))
	if err != nil {
		retErr = errs.Join(retErr, errors.Wrap(err, "parsing NOTES_ALLOW_SIGNUP"))
	}

	cookieSecret, ok := os.LookupEnv("NOTES_COOKIE_STORE_SECRET")
	if !ok {
		retErr = errs.Join(retErr, fmt.Errorf("You must define env NOTES_COOKIE_STORE_SECRET"))
	} else {
		ret.CookieSecret = []byte(cookieSecret)
	}

	ret.DBPath, ok = os.LookupEnv("NOTES_DB_PATH")
	if !ok {
		retErr = errs.Join(retErr, fmt.Errorf("You must define env NOTES_DB_PATH"))
	} else if _, err := os.Stat(path.Dir(ret.DBPath)); err != nil {
		retErr = errs.Join(retErr, errors.Wrap(err, "Directory for NOTES_DB_PATH must exist"))
	}

	return ret, retErr
}
