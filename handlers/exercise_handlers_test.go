package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omrhub/admin-api/models"
)

func exerciseRow(id uuid.UUID, overrides map[string]interface{}) map[string]interface{} {
	row := map[string]interface{}{
		"id":            id.String(),
		"title":         "Push Up",
		"exercise_type": "strength",
		"gender":        "both",
		"created_at":    time.Now().UTC().Format(time.RFC3339),
		"updated_at":    time.Now().UTC().Format(time.RFC3339),
	}
	for key, val := range overrides {
		row[key] = val
	}
	return row
}

func TestCreateExerciseAppliesDefaults(t *testing.T) {
	stub := newSupabaseStub(t)
	id := uuid.New()

	var inserted map[string]interface{}
	stub.handle("/rest/v1/exercises", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		body, _ := readBody(r)
		require.NoError(t, json.Unmarshal(body, &inserted))
		writeRows(w, 1, []map[string]interface{}{exerciseRow(id, nil)})
	})

	h := newTestHandler(t, stub)
	app := newAuthedApp(h)
	app.Post("/api/admin/exercises", h.CreateExercise)

	resp := doJSON(t, app, http.MethodPost, "/api/admin/exercises", map[string]interface{}{
		"title": "Push Up",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		Exercise models.Exercise `json:"exercise"`
	}
	decodeBody(t, resp, &out)
	assert.Equal(t, "Push Up", out.Exercise.Title)

	// Omitted optional fields are written with explicit defaults.
	assert.Equal(t, "strength", inserted["exercise_type"])
	assert.Equal(t, "both", inserted["gender"])
	assert.NotContains(t, inserted, "description")
	assert.Contains(t, inserted, "created_at")
	assert.Contains(t, inserted, "updated_at")
}

func TestCreateExerciseRequiresTitle(t *testing.T) {
	stub := newSupabaseStub(t)
	h := newTestHandler(t, stub)
	app := newAuthedApp(h)
	app.Post("/api/admin/exercises", h.CreateExercise)

	resp := doJSON(t, app, http.MethodPost, "/api/admin/exercises", map[string]interface{}{
		"description": "no title",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &out)
	assert.Contains(t, out.Error, "Title")

	// Required-field validation happens before any backend call.
	assert.Zero(t, stub.requestCount())
}

func TestListExercisesEmpty(t *testing.T) {
	stub := newSupabaseStub(t)
	stub.handle("/rest/v1/exercises", func(w http.ResponseWriter, r *http.Request) {
		writeRows(w, 0, nil)
	})

	h := newTestHandler(t, stub)
	app := newAuthedApp(h)
	app.Get("/api/admin/exercises", h.ListExercises)

	resp := doJSON(t, app, http.MethodGet, "/api/admin/exercises", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Exercises []models.Exercise `json:"exercises"`
	}
	decodeBody(t, resp, &out)
	require.NotNil(t, out.Exercises)
	assert.Len(t, out.Exercises, 0)
}

func TestListExercisesFiltersByType(t *testing.T) {
	stub := newSupabaseStub(t)
	stub.handle("/rest/v1/exercises", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.cardio", r.URL.Query().Get("exercise_type"))
		writeRows(w, 1, []map[string]interface{}{exerciseRow(uuid.New(), map[string]interface{}{"exercise_type": "cardio"})})
	})

	h := newTestHandler(t, stub)
	app := newAuthedApp(h)
	app.Get("/api/admin/exercises", h.ListExercises)

	resp := doJSON(t, app, http.MethodGet, "/api/admin/exercises?exercise_type=cardio", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetExerciseNotFound(t *testing.T) {
	stub := newSupabaseStub(t)
	stub.handle("/rest/v1/exercises", func(w http.ResponseWriter, r *http.Request) {
		writeRows(w, 0, nil)
	})

	h := newTestHandler(t, stub)
	app := newAuthedApp(h)
	app.Get("/api/admin/exercises/:id", h.GetExercise)

	resp := doJSON(t, app, http.MethodGet, "/api/admin/exercises/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateExercisePartialSemantics(t *testing.T) {
	stub := newSupabaseStub(t)
	id := uuid.New()

	var updates map[string]interface{}
	stub.handle("/rest/v1/exercises", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq."+id.String(), r.URL.Query().Get("id"))
		body, _ := readBody(r)
		require.NoError(t, json.Unmarshal(body, &updates))
		writeRows(w, 1, []map[string]interface{}{exerciseRow(id, map[string]interface{}{"title": "Pull Up"})})
	})

	h := newTestHandler(t, stub)
	app := newAuthedApp(h)
	app.Patch("/api/admin/exercises/:id", h.UpdateExercise)

	resp := doJSON(t, app, http.MethodPatch, "/api/admin/exercises/"+id.String(), map[string]interface{}{
		"title":       "Pull Up",
		"description": nil,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Present fields overwrite, explicit null clears, omitted fields are
	// absent from the update set entirely.
	assert.Equal(t, "Pull Up", updates["title"])
	val, exists := updates["description"]
	assert.True(t, exists)
	assert.Nil(t, val)
	assert.NotContains(t, updates, "gender")
	assert.NotContains(t, updates, "exercise_type")
	assert.Contains(t, updates, "updated_at")
}

func TestUpdateExerciseRejectsWrongType(t *testing.T) {
	stub := newSupabaseStub(t)
	h := newTestHandler(t, stub)
	app := newAuthedApp(h)
	app.Patch("/api/admin/exercises/:id", h.UpdateExercise)

	resp := doJSON(t, app, http.MethodPatch, "/api/admin/exercises/"+uuid.NewString(), map[string]interface{}{
		"title": 42,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &out)
	assert.Contains(t, out.Error, "title")
	assert.Zero(t, stub.requestCount())
}

func TestUpdateExerciseNotFound(t *testing.T) {
	stub := newSupabaseStub(t)
	stub.handle("/rest/v1/exercises", func(w http.ResponseWriter, r *http.Request) {
		writeRows(w, 0, nil)
	})

	h := newTestHandler(t, stub)
	app := newAuthedApp(h)
	app.Patch("/api/admin/exercises/:id", h.UpdateExercise)

	resp := doJSON(t, app, http.MethodPatch, "/api/admin/exercises/"+uuid.NewString(), map[string]interface{}{
		"title": "Ghost",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteExerciseIdempotent(t *testing.T) {
	stub := newSupabaseStub(t)
	deleted := false
	stub.handle("/rest/v1/exercises", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		if deleted {
			writeRows(w, 0, nil)
			return
		}
		deleted = true
		writeRows(w, 1, nil)
	})

	h := newTestHandler(t, stub)
	app := newAuthedApp(h)
	app.Delete("/api/admin/exercises/:id", h.DeleteExercise)

	target := "/api/admin/exercises/" + uuid.NewString()
	resp := doJSON(t, app, http.MethodDelete, target, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Deleting again reports not-found rather than failing hard.
	resp = doJSON(t, app, http.MethodDelete, target, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
