package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/candidate-tracker/internal/db"
	"github.com/jonathan/candidate-tracker/internal/notify"
	"github.com/jonathan/candidate-tracker/internal/store"
	"github.com/jonathan/candidate-tracker/internal/tracker"
	"github.com/jonathan/candidate-tracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var fixedNow = time.Date(2025, 11, 3, 14, 5, 6, 0, time.UTC)

// testServer wires a real tracker over a temp file store
type testServer struct {
	*Server
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	backend := db.NewFileBackend(filepath.Join(t.TempDir(), "candidates.json"))
	st, err := store.Open(context.Background(), backend, nil)
	require.NoError(t, err)

	n := 0
	banner := notify.NewBanner(time.Minute)
	t.Cleanup(banner.Close)

	svc := tracker.New(st,
		tracker.WithNotifier(banner),
		tracker.WithClock(func() time.Time { return fixedNow }),
		tracker.WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	)

	s := New(Config{Port: 0}, svc, banner, nil)
	return &testServer{Server: s, handler: s.Handler()}
}

func (ts *testServer) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func (ts *testServer) upload(t *testing.T, target, fileName, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func createBody(email string) map[string]string {
	return map[string]string{
		"nom":         "Dupont",
		"prenom":      "Jean",
		"email":       email,
		"typeContrat": "CDI",
		"dateDebut":   "2025-10-13",
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])
}

func TestCreateCandidate(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/candidates", createBody("jean@example.com"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	c := decode[types.Candidate](t, w)
	assert.Equal(t, "id-1", c.ID)
	assert.Equal(t, types.StatusInProgress, c.Status)

	w = s.do(t, http.MethodGet, "/notice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	notice := decode[notify.Notice](t, w)
	assert.Equal(t, notify.LevelSuccess, notice.Level)
	assert.Equal(t, "Candidat ajouté avec succès !", notice.Message)
}

func TestCreateCandidate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantError  string
	}{
		{
			name:       "duplicate email",
			body:       createBody("JEAN@example.com"),
			wantStatus: http.StatusConflict,
			wantError:  "Un candidat avec cet email existe déjà.",
		},
		{
			name:       "invalid email",
			body:       createBody("not-an-email"),
			wantStatus: http.StatusBadRequest,
			wantError:  "L'adresse email n'est pas valide.",
		},
		{
			name:       "missing fields",
			body:       map[string]string{"email": "x@y.co"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Le champ Nom est obligatoire.",
		},
		{
			name:       "malformed body",
			body:       "just a string",
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/candidates", createBody("jean@example.com")).Code)

			w := s.do(t, http.MethodPost, "/candidates", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantError, decode[map[string]string](t, w)["error"])
		})
	}
}

func TestGetUpdateDeleteCandidate(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/candidates", createBody("jean@example.com")).Code)

	w := s.do(t, http.MethodGet, "/candidates/id-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jean@example.com", decode[types.Candidate](t, w).Email)

	w = s.do(t, http.MethodPut, "/candidates/id-1/tracking", map[string]any{
		"optimisationCV": true,
		"nbCandidatures": 4,
		"statutActuel":   "en pause",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[types.Candidate](t, w)
	assert.True(t, updated.CVReview)
	assert.Equal(t, 4, updated.ApplicationCount)
	assert.Equal(t, types.StatusPaused, updated.Status)

	w = s.do(t, http.MethodPut, "/candidates/id-1/tracking", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/candidates/missing/tracking", map[string]any{"optimisationCV": true})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodDelete, "/candidates/id-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/candidates/id-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(t, http.MethodDelete, "/candidates/id-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateTracking_CoercesApplicationCount(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/candidates", createBody("jean@example.com")).Code)

	tests := []struct {
		name     string
		count    any
		expected int
	}{
		{"numeric string", "3", 3},
		{"non-numeric string", "abc", 0},
		{"negative number", -4, 0},
		{"number", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPut, "/candidates/id-1/tracking", map[string]any{"nbCandidatures": tt.count})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.expected, decode[types.Candidate](t, w).ApplicationCount)
		})
	}

	w := s.do(t, http.MethodPut, "/candidates/id-1/tracking", map[string]any{"nbCandidatures": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCandidatesAndStats(t *testing.T) {
	s := newTestServer(t)
	for _, email := range []string{"jean@example.com", "claire@example.org"} {
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/candidates", createBody(email)).Code)
	}

	w := s.do(t, http.MethodGet, "/candidates", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string][]types.Candidate](t, w)["candidates"], 2)

	w = s.do(t, http.MethodGet, "/candidates?q=EXAMPLE.ORG", nil)
	assert.Len(t, decode[map[string][]types.Candidate](t, w)["candidates"], 1)

	w = s.do(t, http.MethodGet, "/candidates?q=zzz", nil)
	assert.Empty(t, decode[map[string][]types.Candidate](t, w)["candidates"])

	w = s.do(t, http.MethodGet, "/stats", nil)
	assert.Equal(t, types.Stats{Total: 2, InProgress: 2}, decode[types.Stats](t, w))
}

func TestExport(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/candidates", createBody("jean@example.com")).Code)

	w := s.do(t, http.MethodGet, "/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="candidats-export-2025-11-03.json"`, w.Header().Get("Content-Disposition"))

	env := decode[types.ExportEnvelope](t, w)
	assert.Len(t, env.Candidates, 1)
	assert.Equal(t, types.ExportVersion, env.Version)
}

const csvHeader = "Horodateur,Nom d'utilisateur,Nom & Prénom,Email pro ou perso"

func TestImport(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/candidates", createBody("jean@example.com")).Code)

	content := strings.Join([]string{
		csvHeader,
		"2025/10/13,a,Dupont Jean,jean@example.com",
		"2025/10/13,b,Martin Claire,claire@example.com",
		"2025/10/13,c,Durand",
	}, "\n")

	w := s.upload(t, "/import", "export.csv", content)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	report := decode[map[string]any](t, w)
	assert.EqualValues(t, 1, report["added"])
	assert.EqualValues(t, 1, report["duplicates"])
	assert.EqualValues(t, 1, report["failed"])
	assert.Equal(t, "merge", report["mode"])
	assert.Len(t, report["failures"], 1)

	w = s.upload(t, "/import?mode=replace", "export.csv", content)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, w)["replaced"])

	w = s.do(t, http.MethodGet, "/stats", nil)
	assert.Equal(t, 2, decode[types.Stats](t, w).Total)
}

func TestImport_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		fileName   string
		content    string
		wantStatus int
	}{
		{"bad mode", "/import?mode=append", "export.csv", csvHeader, http.StatusBadRequest},
		{"unsupported type", "/import", "export.xlsx", "x", http.StatusUnsupportedMediaType},
		{"header only", "/import", "export.csv", csvHeader + "\n", http.StatusUnprocessableEntity},
		{"invalid json", "/import", "export.json", `{"candidates": 3}`, http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			w := s.upload(t, tt.target, tt.fileName, tt.content)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}

	t.Run("not multipart", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(t, http.MethodPost, "/import", map[string]string{"file": "x"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("too large", func(t *testing.T) {
		s := newTestServer(t)
		w := s.upload(t, "/import", "big.csv", strings.Repeat("a", maxImportBytes+1))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestNotice_EmptyWhenNothingHappened(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/notice", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestImportSchema(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/schemas/import", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/schema+json", w.Header().Get("Content-Type"))

	schema := decode[map[string]any](t, w)
	assert.Equal(t, []any{"candidates"}, schema["required"])
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodOptions, "/candidates", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	s := newTestServer(t)
	s.httpServer.Addr = fmt.Sprintf("127.0.0.1:%d", port)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/health", port))
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	http.DefaultClient.CloseIdleConnections()
}
