package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hr-agent/internal/config"
	"github.com/jonathan/hr-agent/internal/pipeline"
	"github.com/jonathan/hr-agent/internal/types"
)

// fakeSender records the last send instead of calling Gmail.
type fakeSender struct {
	lastTo      string
	lastSubject string
	lastBody    string
	lastAttach  []string
	err         error
}

func (f *fakeSender) Send(_ context.Context, to, subject, body string, attachments []string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.lastTo = to
	f.lastSubject = subject
	f.lastBody = body
	f.lastAttach = attachments
	return "msg-123", nil
}

// newTestServer builds a server over a model-free agent with temp
// storage and no database.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	agent, err := pipeline.New(pipeline.Options{
		ProfilesDir:   t.TempDir(),
		OutputsDir:    t.TempDir(),
		DefaultUserID: "default_user",
		DisablePDF:    true,
		Out:           io.Discard,
	})
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	srv, err := New(&config.Config{Port: 8080, DefaultUserID: "default_user"}, agent)
	require.NoError(t, err)
	return srv
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestEmailInterpreter(t *testing.T) {
	srv := newTestServer(t)

	c := types.NewContext(types.Input{EmailText: "Opening for a software engineer at Acme."})
	w := postJSON(t, srv.Handler(), "/tools/email_interpreter", c)

	require.Equal(t, http.StatusOK, w.Code)

	var out types.Context
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotNil(t, out.Output.JobInfo)
	assert.Equal(t, types.KindGeneralPosting, out.Output.JobInfo.RequestKind)
	assert.NotEmpty(t, out.Output.JobInfo.Sector)
}

func TestEmailInterpreter_EmptyText(t *testing.T) {
	srv := newTestServer(t)

	w := postJSON(t, srv.Handler(), "/tools/email_interpreter", types.Context{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileRetriever_DefaultUser(t *testing.T) {
	srv := newTestServer(t)

	c := types.NewContext(types.Input{EmailText: "Opening for a software engineer."})
	w := postJSON(t, srv.Handler(), "/tools/profile_retriever", c)

	require.Equal(t, http.StatusOK, w.Code)

	var out types.Context
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "default_user", out.Output.SelectedUserID)
	require.NotNil(t, out.Output.Profile)
}

func TestProfileRetriever_NoProfilesForBestCandidate(t *testing.T) {
	srv := newTestServer(t)

	c := types.NewContext(types.Input{EmailText: "Please find the best candidate for this role."})
	w := postJSON(t, srv.Handler(), "/tools/profile_retriever", c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResumeBuilder_RequiresProfile(t *testing.T) {
	srv := newTestServer(t)

	c := types.NewContext(types.Input{EmailText: "Opening."})
	w := postJSON(t, srv.Handler(), "/tools/resume_builder", c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "profile_retriever")
}

func TestToolChain_EndToEnd(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.Handler()

	c := types.NewContext(types.Input{EmailText: "Opening for a software engineer at Acme."})

	for _, path := range []string{
		"/tools/email_interpreter",
		"/tools/profile_retriever",
		"/tools/resume_builder",
		"/tools/cover_letter_writer",
		"/tools/reply_email_generator",
	} {
		w := postJSON(t, handler, path, c)
		require.Equal(t, http.StatusOK, w.Code, "step %s failed: %s", path, w.Body.String())
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c))
	}

	assert.NotEmpty(t, c.Output.ResumePath)
	assert.NotEmpty(t, c.Output.CoverLetterPath)
	assert.NotEmpty(t, c.Output.EmailSubject)
	assert.Contains(t, c.Output.EmailBody, "Best regards")
}

func TestSendReply(t *testing.T) {
	srv := newTestServer(t)
	sender := &fakeSender{}
	srv.mail = sender

	c := types.Context{}
	c.Output.EmailSubject = "Application for Engineer - Jane Smith"
	c.Output.EmailBody = "Dear Hiring Team, ..."
	c.Output.ResumePath = "/tmp/resume.pdf"

	// a run id without a connected ledger must not break the send
	w := postJSON(t, srv.Handler(), "/tools/send_reply_email", SendRequest{
		To:      "recruiter@acme.com",
		Context: c,
		RunID:   uuid.New(),
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "msg-123")
	assert.Equal(t, "recruiter@acme.com", sender.lastTo)
	assert.Equal(t, []string{"/tmp/resume.pdf"}, sender.lastAttach)
}

// countingSender is safe for concurrent sends.
type countingSender struct {
	calls atomic.Int64
}

func (c *countingSender) Send(_ context.Context, _, _, _ string, _ []string) (string, error) {
	c.calls.Add(1)
	return "msg-123", nil
}

func TestSendReply_ConcurrentRequestsShareSender(t *testing.T) {
	srv := newTestServer(t)
	sender := &countingSender{}
	srv.mail = sender

	c := types.Context{}
	c.Output.EmailSubject = "Application for Engineer - Jane Smith"
	c.Output.EmailBody = "Dear Hiring Team, ..."

	payload, err := json.Marshal(SendRequest{To: "recruiter@acme.com", Context: c})
	require.NoError(t, err)

	const parallel = 8
	var wg sync.WaitGroup
	codes := make([]int, parallel)
	for i := 0; i < parallel; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/tools/send_reply_email", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, req)
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	for _, code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}
	assert.Equal(t, int64(parallel), sender.calls.Load())
}

func TestSendReply_Validation(t *testing.T) {
	srv := newTestServer(t)
	srv.mail = &fakeSender{}

	// missing recipient
	w := postJSON(t, srv.Handler(), "/tools/send_reply_email", SendRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// missing body
	w = postJSON(t, srv.Handler(), "/tools/send_reply_email", SendRequest{To: "a@b.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendReply_GatewayFailure(t *testing.T) {
	srv := newTestServer(t)
	srv.mail = &fakeSender{err: fmt.Errorf("quota exceeded")}

	c := types.Context{}
	c.Output.EmailBody = "body"

	w := postJSON(t, srv.Handler(), "/tools/send_reply_email", SendRequest{To: "a@b.com", Context: c})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestProcess(t *testing.T) {
	srv := newTestServer(t)

	w := postJSON(t, srv.Handler(), "/process", ProcessRequest{
		EmailText: "Opening for a software engineer at Acme.",
		Sender:    "recruiter@acme.com",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var result pipeline.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "completed", result.Status)
	assert.Equal(t, "default_user", result.Context.Output.SelectedUserID)
}

func TestProcess_EmptyText(t *testing.T) {
	srv := newTestServer(t)

	w := postJSON(t, srv.Handler(), "/process", ProcessRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRuns_UnavailableWithoutDatabase(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/runs", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAuth_ProtectedWhenConfigured(t *testing.T) {
	agent, err := pipeline.New(pipeline.Options{
		ProfilesDir:   t.TempDir(),
		OutputsDir:    t.TempDir(),
		DefaultUserID: "default_user",
		DisablePDF:    true,
		Out:           io.Discard,
	})
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("BCRYPT_COST", "10")

	pwCfg := &config.PasswordConfig{BcryptCost: 10}
	hash, err := pwCfg.HashPassword("hunter2")
	require.NoError(t, err)
	t.Setenv("ADMIN_PASSWORD_HASH", hash)

	srv, err := New(&config.Config{Port: 8080, DefaultUserID: "default_user"}, agent)
	require.NoError(t, err)
	handler := srv.Handler()

	// health stays open
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// tools require a token
	w = postJSON(t, handler, "/process", ProcessRequest{EmailText: "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// wrong password is rejected
	w = postJSON(t, handler, "/auth/login", LoginRequest{Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// login issues a usable token
	w = postJSON(t, handler, "/auth/login", LoginRequest{Password: "hunter2"})
	require.Equal(t, http.StatusOK, w.Code)

	var login LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	data, err := json.Marshal(ProcessRequest{EmailText: "Opening for an engineer."})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/process", bytes.NewReader(data))
	req.Header.Set("Authorization", "Bearer "+login.Token)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin_DisabledWithoutConfig(t *testing.T) {
	srv := newTestServer(t)

	w := postJSON(t, srv.Handler(), "/auth/login", LoginRequest{Password: "x"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
