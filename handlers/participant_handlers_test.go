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

func participantRow(id, challengeID uuid.UUID, status string) map[string]interface{} {
	return map[string]interface{}{
		"id":           id.String(),
		"challenge_id": challengeID.String(),
		"user_id":      uuid.NewString(),
		"status":       status,
		"created_at":   time.Now().UTC().Format(time.RFC3339),
		"updated_at":   time.Now().UTC().Format(time.RFC3339),
	}
}

func TestListParticipantsEmbedsProfiles(t *testing.T) {
	stub := newSupabaseStub(t)
	challengeID := uuid.New()

	stub.handle("/rest/v1/challenge_participants", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq."+challengeID.String(), r.URL.Query().Get("challenge_id"))
		assert.Contains(t, r.URL.Query().Get("select"), "profiles(full_name,email)")
		row := participantRow(uuid.New(), challengeID, models.ParticipantPending)
		row["profiles"] = map[string]interface{}{"full_name": "Jo Runner", "email": "jo@omrhub.test"}
		writeRows(w, 1, []map[string]interface{}{row})
	})

	h := newTestHandler(t, stub)
	app := newAuthedApp(h)
	app.Get("/api/admin/challenges/:id/participants", h.ListParticipants)

	resp := doJSON(t, app, http.MethodGet, "/api/admin/challenges/"+challengeID.String()+"/participants", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Participants []models.ChallengeParticipant `json:"participants"`
	}
	decodeBody(t, resp, &out)
	require.Len(t, out.Participants, 1)
	require.NotNil(t, out.Participants[0].Profile)
	assert.Equal(t, "jo@omrhub.test", out.Participants[0].Profile.Email)
}

func TestApproveParticipantStampsTodayAndScopes(t *testing.T) {
	stub := newSupabaseStub(t)
	challengeID := uuid.New()
	participantID := uuid.New()

	var updates map[string]interface{}
	stub.handle("/rest/v1/challenge_participants", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		// The update must match on both keys, never on the participant ID
		// alone.
		assert.Equal(t, "eq."+participantID.String(), r.URL.Query().Get("id"))
		assert.Equal(t, "eq."+challengeID.String(), r.URL.Query().Get("challenge_id"))
		body, _ := readBody(r)
		require.NoError(t, json.Unmarshal(body, &updates))
		row := participantRow(participantID, challengeID, models.ParticipantOnboarded)
		row["start_date"] = updates["start_date"]
		writeRows(w, 1, []map[string]interface{}{row})
	})

	h := newTestHandler(t, stub)
	app := newAuthedApp(h)
	app.Post("/api/admin/challenges/:id/participants/:participantId/approve", h.ApproveParticipant)

	resp := doJSON(t, app, http.MethodPost,
		"/api/admin/challenges/"+challengeID.String()+"/participants/"+participantID.String()+"/approve", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, models.ParticipantOnboarded, updates["status"])
	// The start date is the approval date, never a stored or client value.
	assert.Equal(t, today(), updates["start_date"])

	var out struct {
		Participant models.ChallengeParticipant `json:"participant"`
	}
	decodeBody(t, resp, &out)
	assert.Equal(t, models.ParticipantOnboarded, out.Participant.Status)
}

func TestApproveParticipantWrongChallengeIsNotFound(t *testing.T) {
	stub := newSupabaseStub(t)
	stub.handle("/rest/v1/challenge_participants", func(w http.ResponseWriter, r *http.Request) {
		// The scoped predicate matches nothing; no row is mutated.
		writeRows(w, 0, nil)
	})

	h := newTestHandler(t, stub)
	app := newAuthedApp(h)
	app.Post("/api/admin/challenges/:id/participants/:participantId/approve", h.ApproveParticipant)

	resp := doJSON(t, app, http.MethodPost,
		"/api/admin/challenges/"+uuid.NewString()+"/participants/"+uuid.NewString()+"/approve", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 1, stub.requestCount())
}

func TestRemoveParticipantScopedDelete(t *testing.T) {
	stub := newSupabaseStub(t)
	challengeID := uuid.New()
	participantID := uuid.New()

	stub.handle("/rest/v1/challenge_participants", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "eq."+participantID.String(), r.URL.Query().Get("id"))
		assert.Equal(t, "eq."+challengeID.String(), r.URL.Query().Get("challenge_id"))
		writeRows(w, 1, nil)
	})

	h := newTestHandler(t, stub)
	app := newAuthedApp(h)
	app.Delete("/api/admin/challenges/:id/participants/:participantId", h.RemoveParticipant)

	resp := doJSON(t, app, http.MethodDelete,
		"/api/admin/challenges/"+challengeID.String()+"/participants/"+participantID.String(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
