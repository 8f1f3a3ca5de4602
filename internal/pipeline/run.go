// Package pipeline provides the high-level orchestration for processing
// one inbound recruiting email end to end.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/jonathan/hr-agent/internal/compose"
	"github.com/jonathan/hr-agent/internal/db"
	"github.com/jonathan/hr-agent/internal/extraction"
	"github.com/jonathan/hr-agent/internal/llm"
	"github.com/jonathan/hr-agent/internal/matching"
	"github.com/jonathan/hr-agent/internal/observability"
	"github.com/jonathan/hr-agent/internal/profile"
	"github.com/jonathan/hr-agent/internal/ranking"
	"github.com/jonathan/hr-agent/internal/rendering"
	"github.com/jonathan/hr-agent/internal/routing"
	"github.com/jonathan/hr-agent/internal/types"
)

// Stage names reported in failure results. They match the artifact
// step names the database ledger uses.
const (
	StageExtraction  = db.StepJobInfo
	StageSelection   = db.StepSelection
	StageResume      = db.StepResume
	StageCoverLetter = db.StepCoverLetter
	StageReply       = db.StepReply
)

// Options holds configuration for building an Agent.
type Options struct {
	Client        llm.Client // may be nil; every stage has a deterministic fallback
	ProfilesDir   string
	OutputsDir    string
	DefaultUserID string
	DatabaseURL   string
	DisablePDF    bool
	Verbose       bool
	Out           io.Writer // progress output, defaults to os.Stdout
}

// Agent wires the five pipeline stages together. Build one with New
// and reuse it across emails; it is safe for concurrent runs.
type Agent struct {
	extractor *extraction.Extractor
	store     *profile.Store
	router    *routing.Router
	renderer  *rendering.Renderer
	composer  *compose.Composer

	databaseURL string
	verbose     bool
	out         io.Writer
	printer     *observability.Printer
}

// Result summarizes one pipeline run.
type Result struct {
	RunID       uuid.UUID     `json:"run_id,omitempty"`
	Context     types.Context `json:"context"`
	Status      string        `json:"status"`
	FailedStage string        `json:"failed_stage,omitempty"`
	Message     string        `json:"message,omitempty"`
}

// New builds an Agent from the given options.
func New(opts Options) (*Agent, error) {
	store, err := profile.NewStore(opts.ProfilesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile store: %w", err)
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	scorer := matching.NewScorer(opts.Client)
	ranker := ranking.NewRanker(scorer)
	renderer := rendering.NewRenderer(opts.OutputsDir, opts.Client)
	renderer.DisablePDF = opts.DisablePDF

	return &Agent{
		extractor:   extraction.NewExtractor(opts.Client),
		store:       store,
		router:      routing.NewRouter(store, ranker, opts.DefaultUserID),
		renderer:    renderer,
		composer:    compose.NewComposer(opts.Client),
		databaseURL: opts.DatabaseURL,
		verbose:     opts.Verbose,
		out:         out,
		printer:     observability.NewPrinter(out),
	}, nil
}

// Store exposes the agent's profile store for CLI subcommands.
func (a *Agent) Store() *profile.Store {
	return a.store
}

// RecordSend stores a send artifact on the run ledger. Best effort:
// without a configured database or run id it is a no-op.
func (a *Agent) RecordSend(ctx context.Context, runID uuid.UUID, to, messageID string) {
	if a.databaseURL == "" || runID == uuid.Nil {
		return
	}

	database, err := db.Connect(ctx, a.databaseURL)
	if err != nil {
		fmt.Fprintf(a.out, "Warning: Failed to record send: %v\n", err)
		return
	}
	defer database.Close()

	_ = database.SaveArtifact(ctx, runID, db.StepSend, map[string]string{
		"to":         to,
		"message_id": messageID,
	})
}

// Run processes one inbound email through all five stages. Routing
// failures abort the run; rendering failures are downgraded to
// warnings so a reply still goes out without the missing attachment.
func (a *Agent) Run(ctx context.Context, in types.Input) (*Result, error) {
	c := types.NewContext(in)

	// Connect the run ledger if configured
	var database *db.DB
	var runID uuid.UUID
	if a.databaseURL != "" {
		var err error
		database, err = db.Connect(ctx, a.databaseURL)
		if err != nil {
			fmt.Fprintf(a.out, "Warning: Failed to connect to database: %v\n", err)
			fmt.Fprintf(a.out, "Continuing without database persistence...\n")
			database = nil
		} else {
			defer database.Close()
			if err := database.EnsureSchema(ctx); err != nil {
				fmt.Fprintf(a.out, "Warning: Failed to apply database schema: %v\n", err)
				fmt.Fprintf(a.out, "Continuing without database persistence...\n")
				database = nil
			} else if a.verbose {
				fmt.Fprintf(a.out, "[VERBOSE] Connected to database\n")
			}
		}
	}

	fmt.Fprintf(a.out, "Stage 1/5: Extracting job information...\n")
	job := a.extractor.Extract(ctx, in.EmailText)
	c = c.WithJobInfo(job)
	if a.verbose {
		a.printer.PrintJobInfo(job)
	}

	if database != nil {
		var err error
		runID, err = database.CreateRun(ctx, in.Sender, in.Subject, string(job.RequestKind))
		if err != nil {
			fmt.Fprintf(a.out, "Warning: Failed to create database run: %v\n", err)
		} else {
			if a.verbose {
				fmt.Fprintf(a.out, "[VERBOSE] Created database run: %s\n", runID)
			}
			_ = database.SaveArtifact(ctx, runID, db.StepJobInfo, job)
		}
	}

	fmt.Fprintf(a.out, "Stage 2/5: Selecting applicant profile...\n")
	c, err := a.router.Route(ctx, c)
	if err != nil {
		if database != nil && runID != uuid.Nil {
			_ = database.CompleteRun(ctx, runID, db.StatusFailed, StageSelection)
		}
		return &Result{
			RunID:       runID,
			Context:     c,
			Status:      db.StatusFailed,
			FailedStage: StageSelection,
			Message:     err.Error(),
		}, fmt.Errorf("profile selection failed: %w", err)
	}
	if a.verbose {
		if c.Output.Matching != nil {
			a.printer.PrintRanking(c.Output.Matching)
		}
		a.printer.PrintProfile(c.Output.Profile, c.Output.SelectionMethod)
	}

	if database != nil && runID != uuid.Nil {
		_ = database.SetSelectedUser(ctx, runID, c.Output.SelectedUserID, c.Output.SelectionMethod)
		_ = database.SaveArtifact(ctx, runID, db.StepSelection, c.Output)
	}

	selected := c.Output.Profile

	fmt.Fprintf(a.out, "Stage 3/5: Rendering resume...\n")
	resumePath := documentPath(selected.ResumePath)
	if resumePath != "" {
		fmt.Fprintf(a.out, "Reusing existing resume: %s\n", resumePath)
	} else {
		resumePath, err = a.renderer.RenderResume(ctx, selected, job)
		if err != nil {
			fmt.Fprintf(a.out, "Warning: Failed to render resume: %v\n", err)
			resumePath = ""
		}
	}
	if resumePath != "" {
		c = c.WithResumePath(resumePath)
		if database != nil && runID != uuid.Nil {
			_ = database.SaveArtifact(ctx, runID, db.StepResume, map[string]string{"path": resumePath})
		}
	}

	fmt.Fprintf(a.out, "Stage 4/5: Rendering cover letter...\n")
	coverLetterPath := documentPath(selected.CoverLetterPath)
	if coverLetterPath != "" {
		fmt.Fprintf(a.out, "Reusing existing cover letter: %s\n", coverLetterPath)
	} else {
		coverLetterPath, err = a.renderer.RenderCoverLetter(ctx, selected, job)
		if err != nil {
			fmt.Fprintf(a.out, "Warning: Failed to render cover letter: %v\n", err)
			coverLetterPath = ""
		}
	}
	if coverLetterPath != "" {
		c = c.WithCoverLetterPath(coverLetterPath)
		if database != nil && runID != uuid.Nil {
			_ = database.SaveArtifact(ctx, runID, db.StepCoverLetter, map[string]string{"path": coverLetterPath})
		}
	}

	if resumePath != "" || coverLetterPath != "" {
		if err := a.store.UpdatePaths(c.Output.SelectedUserID, resumePath, coverLetterPath); err != nil {
			fmt.Fprintf(a.out, "Warning: Failed to record document paths: %v\n", err)
		}
	}

	fmt.Fprintf(a.out, "Stage 5/5: Composing reply email...\n")
	subject := compose.Subject(job, selected)
	body := a.composer.Reply(ctx, selected, job, resumePath, coverLetterPath)
	c = c.WithReply(subject, body)
	if database != nil && runID != uuid.Nil {
		_ = database.SaveArtifact(ctx, runID, db.StepReply, map[string]string{
			"subject": subject,
			"body":    body,
		})
		_ = database.CompleteRun(ctx, runID, db.StatusCompleted, "")
	}

	fmt.Fprintf(a.out, "Done! Reply drafted for %s.\n", selected.Email)
	return &Result{
		RunID:   runID,
		Context: c,
		Status:  db.StatusCompleted,
	}, nil
}

// Stage accessors below expose each pipeline stage individually for
// the HTTP tool endpoints, which operate on a context blob per call.

// Extract runs the extraction stage on the context's email text.
func (a *Agent) Extract(ctx context.Context, c types.Context) types.Context {
	return c.WithJobInfo(a.extractor.Extract(ctx, c.Input.EmailText))
}

// Select runs the routing stage. The context must already carry a job
// record; callers without one should run Extract first.
func (a *Agent) Select(ctx context.Context, c types.Context) (types.Context, error) {
	if c.Output.JobInfo == nil {
		c = a.Extract(ctx, c)
	}
	return a.router.Route(ctx, c)
}

// BuildResume renders the resume for the selected profile.
func (a *Agent) BuildResume(ctx context.Context, c types.Context) (types.Context, error) {
	if c.Output.Profile == nil {
		return c, fmt.Errorf("no profile selected")
	}
	path, err := a.renderer.RenderResume(ctx, c.Output.Profile, c.Output.JobInfo)
	if err != nil {
		return c, err
	}
	if err := a.store.UpdatePaths(c.Output.SelectedUserID, path, ""); err != nil {
		fmt.Fprintf(a.out, "Warning: Failed to record resume path: %v\n", err)
	}
	return c.WithResumePath(path), nil
}

// BuildCoverLetter renders the cover letter for the selected profile.
func (a *Agent) BuildCoverLetter(ctx context.Context, c types.Context) (types.Context, error) {
	if c.Output.Profile == nil {
		return c, fmt.Errorf("no profile selected")
	}
	path, err := a.renderer.RenderCoverLetter(ctx, c.Output.Profile, c.Output.JobInfo)
	if err != nil {
		return c, err
	}
	if err := a.store.UpdatePaths(c.Output.SelectedUserID, "", path); err != nil {
		fmt.Fprintf(a.out, "Warning: Failed to record cover letter path: %v\n", err)
	}
	return c.WithCoverLetterPath(path), nil
}

// ComposeReply runs the reply composition stage.
func (a *Agent) ComposeReply(ctx context.Context, c types.Context) types.Context {
	subject := compose.Subject(c.Output.JobInfo, c.Output.Profile)
	body := a.composer.Reply(ctx, c.Output.Profile, c.Output.JobInfo, c.Output.ResumePath, c.Output.CoverLetterPath)
	return c.WithReply(subject, body)
}

// documentPath returns path if it still exists on disk, else "".
// Profiles may reference documents from earlier runs that were since
// moved or deleted.
func documentPath(path string) string {
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
