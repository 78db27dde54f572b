package main

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jahandaniyal/notes-api/internal/engine"
	"github.com/jahandaniyal/notes-api/types"
)

type tagJSON struct {
	Title string `json:"title"`
}

type noteJSON struct {
	ID      uint      `json:"id"`
	Owner   *string   `json:"owner"`
	Title   string    `json:"title"`
	Body    string    `json:"body"`
	Private bool      `json:"private"`
	Tags    []tagJSON `json:"tags"`
}

func renderNote(n types.Note) noteJSON {
	ret := noteJSON{
		ID:      n.ID,
		Title:   n.Title,
		Body:    n.Body,
		Private: n.Private,
		Tags:    []tagJSON{},
	}
	if n.User.IsSet() {
		name := n.User.Name
		ret.Owner = &name
	}
	for _, t := range n.Tags {
		ret.Tags = append(ret.Tags, tagJSON{Title: t.Title})
	}
	return ret
}

func renderNotes(notes []types.Note) []noteJSON {
	ret := make([]noteJSON, len(notes))
	for i, n := range notes {
		ret[i] = renderNote(n)
	}
	return ret
}

func listNotes(vis *engine.Visibility) echo.HandlerFunc {
	return func(c echo.Context) error {
		filter := engine.Filter{
			Tags:    c.QueryParams()["tag"],
			Keyword: c.QueryParam("keyword"),
		}

		notes, err := vis.VisibleSet(requesterFrom(c), filter)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, map[string]any{"results": renderNotes(notes)})
	}
}

func createNote(mut *engine.Mutation) echo.HandlerFunc {
	return func(c echo.Context) error {
		requester := requesterFrom(c)
		if !requester.Authenticated() {
			return engine.ErrUnauthenticated
		}

		payload, err := bindNotePayload(c)
		if err != nil {
			return err
		}

		note, err := mut.Create(requester, payload)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusCreated, renderNote(*note))
	}
}

func getNote(vis *engine.Visibility) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := noteIDParam(c)
		if err != nil {
			return err
		}

		note, err := vis.VisibleOne(requesterFrom(c), id)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, renderNote(*note))
	}
}

func updateNote(mut *engine.Mutation) echo.HandlerFunc {
	return func(c echo.Context) error {
		requester := requesterFrom(c)
		if !requester.Authenticated() {
			return engine.ErrUnauthenticated
		}

		id, err := noteIDParam(c)
		if err != nil {
			return err
		}

		payload, err := bindNotePayload(c)
		if err != nil {
			return err
		}

		note, err := mut.Update(requester, id, payload)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, renderNote(*note))
	}
}

func deleteNote(mut *engine.Mutation) echo.HandlerFunc {
	return func(c echo.Context) error {
		requester := requesterFrom(c)
		if !requester.Authenticated() {
			return engine.ErrUnauthenticated
		}

		id, err := noteIDParam(c)
		if err != nil {
			return err
		}

		if err := mut.Delete(requester, id); err != nil {
			return err
		}

		return c.NoContent(http.StatusNoContent)
	}
}

func bindNotePayload(c echo.Context) (engine.NotePayload, error) {
	var payload engine.NotePayload
	if err := c.Bind(&payload); err != nil {
		return engine.NotePayload{}, engine.ValidationError{Reason: "body must be a JSON note object with optional tags list of {title} objects"}
	}
	return payload, nil
}

func noteIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, engine.ErrNotFound
	}
	return uint(id), nil
}
