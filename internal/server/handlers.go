package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/hr-agent/internal/db"
	"github.com/jonathan/hr-agent/internal/mailbox"
	"github.com/jonathan/hr-agent/internal/types"
)

// ProcessRequest represents the request body for /process
type ProcessRequest struct {
	EmailText string `json:"email_text"`
	UserID    string `json:"user_id,omitempty"`
	Sender    string `json:"sender,omitempty"`
	Subject   string `json:"subject,omitempty"`
}

// SendRequest represents the request body for /tools/send_reply_email
type SendRequest struct {
	To      string        `json:"to"`
	Context types.Context `json:"context"`
	RunID   uuid.UUID     `json:"run_id,omitempty"` // ledger run to record the send on
}

// SendResponse represents the response for /tools/send_reply_email
type SendResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

// decodeContext reads a pipeline context blob from a request body.
func (s *Server) decodeContext(w http.ResponseWriter, r *http.Request) (types.Context, bool) {
	var c types.Context
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return c, false
	}
	return c, true
}

// handleEmailInterpreter runs the extraction stage on a context blob.
func (s *Server) handleEmailInterpreter(w http.ResponseWriter, r *http.Request) {
	c, ok := s.decodeContext(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(c.Input.EmailText) == "" {
		err := &ErrValidation{Field: "input.email_text", Message: "must not be empty"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, s.agent.Extract(r.Context(), c))
}

// handleProfileRetriever runs the selection stage on a context blob.
func (s *Server) handleProfileRetriever(w http.ResponseWriter, r *http.Request) {
	c, ok := s.decodeContext(w, r)
	if !ok {
		return
	}

	c, err := s.agent.Select(r.Context(), c)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, c)
}

// handleResumeBuilder renders the resume for the selected profile.
func (s *Server) handleResumeBuilder(w http.ResponseWriter, r *http.Request) {
	c, ok := s.decodeContext(w, r)
	if !ok {
		return
	}
	if c.Output.Profile == nil {
		err := &ErrValidation{Field: "output.user_profile", Message: "no profile selected; run profile_retriever first"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	c, err := s.agent.BuildResume(r.Context(), c)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, c)
}

// handleCoverLetterWriter renders the cover letter for the selected profile.
func (s *Server) handleCoverLetterWriter(w http.ResponseWriter, r *http.Request) {
	c, ok := s.decodeContext(w, r)
	if !ok {
		return
	}
	if c.Output.Profile == nil {
		err := &ErrValidation{Field: "output.user_profile", Message: "no profile selected; run profile_retriever first"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	c, err := s.agent.BuildCoverLetter(r.Context(), c)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, c)
}

// handleReplyGenerator composes the reply email for a context blob.
func (s *Server) handleReplyGenerator(w http.ResponseWriter, r *http.Request) {
	c, ok := s.decodeContext(w, r)
	if !ok {
		return
	}

	s.jsonResponse(w, http.StatusOK, s.agent.ComposeReply(r.Context(), c))
}

// handleSendReply sends the composed reply through the mail gateway.
func (s *Server) handleSendReply(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.To) == "" {
		err := &ErrValidation{Field: "to", Message: "recipient is required"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if strings.TrimSpace(req.Context.Output.EmailBody) == "" {
		err := &ErrValidation{Field: "context.output.email_body", Message: "no reply composed; run reply_email_generator first"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sender, err := s.mailSender(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	out := req.Context.Output
	var attachments []string
	if out.ResumePath != "" {
		attachments = append(attachments, out.ResumePath)
	}
	if out.CoverLetterPath != "" {
		attachments = append(attachments, out.CoverLetterPath)
	}

	id, err := sender.Send(r.Context(), req.To, out.EmailSubject, out.EmailBody, attachments)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, err.Error())
		return
	}

	if s.database != nil && req.RunID != uuid.Nil {
		_ = s.database.SaveArtifact(r.Context(), req.RunID, db.StepSend, map[string]string{
			"to":         req.To,
			"message_id": id,
		})
	}

	s.jsonResponse(w, http.StatusOK, SendResponse{MessageID: id, Status: "sent"})
}

// mailSender returns the injected sender or builds a Gmail gateway from
// the configured credential files. Concurrent send requests share one
// gateway; the first to arrive builds it.
func (s *Server) mailSender(r *http.Request) (MailSender, error) {
	s.mailMu.Lock()
	defer s.mailMu.Unlock()

	if s.mail != nil {
		return s.mail, nil
	}

	gateway, err := mailbox.NewGateway(r.Context(), s.cfg.GmailCredentials, s.cfg.GmailToken)
	if err != nil {
		return nil, &ErrUnavailable{Dependency: "mail gateway"}
	}
	s.mail = gateway
	return gateway, nil
}

// handleProcess runs the full pipeline for one email.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.EmailText) == "" {
		err := &ErrValidation{Field: "email_text", Message: "must not be empty"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := s.agent.Run(r.Context(), types.Input{
		EmailText: req.EmailText,
		UserID:    req.UserID,
		Sender:    req.Sender,
		Subject:   req.Subject,
	})
	if err != nil {
		s.jsonResponse(w, HTTPStatus(err), result)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleListRuns lists recent pipeline runs from the ledger.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.database == nil {
		err := &ErrUnavailable{Dependency: "database"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	runs, err := s.database.ListRuns(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs})
}

// handleGetRun returns one run from the ledger.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.database == nil {
		err := &ErrUnavailable{Dependency: "database"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID")
		return
	}

	run, err := s.database.GetRun(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}

	steps, err := s.database.ListRunSteps(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"run":   run,
		"steps": steps,
	})
}

// handleGetArtifact returns one stage artifact of a run.
func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	if s.database == nil {
		err := &ErrUnavailable{Dependency: "database"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID")
		return
	}
	step := r.PathValue("step")

	content, err := s.database.GetArtifact(r.Context(), runID, step)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if content == nil {
		s.errorResponse(w, http.StatusNotFound, "Artifact not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"run_id":  runID.String(),
		"step":    step,
		"content": json.RawMessage(content),
	})
}
