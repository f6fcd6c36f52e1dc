package webapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWebAPI_AuthStatus(t *testing.T) {
	// Env-var secrets keep init offline.
	t.Setenv("STRAVA_CLIENT_ID", "client")
	t.Setenv("STRAVA_CLIENT_SECRET", "secret")
	t.Setenv("STRAVA_REFRESH_TOKEN", "refresh")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OUTPUT_DIR", t.TempDir())
	t.Setenv("ENABLE_PUBLISH", "")
	t.Setenv("ENABLE_FIRESTORE", "")
	t.Setenv("GCS_ARTIFACT_BUCKET", "")

	req := httptest.NewRequest("GET", "/api/auth/status", nil)
	rec := httptest.NewRecorder()
	WebAPI(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["authenticated"] {
		t.Error("fresh service should not be authenticated")
	}
}
