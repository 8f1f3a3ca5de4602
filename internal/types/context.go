package types

// Input is the read-only portion of a pipeline Context, fixed when the
// run starts.
type Input struct {
	EmailText string `json:"email_text"`
	UserID    string `json:"user_id,omitempty"`
	Sender    string `json:"sender,omitempty"`
	Subject   string `json:"subject,omitempty"`
}

// Output accumulates stage results as the pipeline advances.
type Output struct {
	JobInfo         *JobInfo          `json:"job_info,omitempty"`
	Profile         *Profile          `json:"user_profile,omitempty"`
	SelectedUserID  string            `json:"selected_user_id,omitempty"`
	SelectionMethod string            `json:"selection_method,omitempty"`
	Matching        *RankedCandidates `json:"candidate_matching_result,omitempty"`
	ResumePath      string            `json:"resume_path,omitempty"`
	CoverLetterPath string            `json:"cover_letter_path,omitempty"`
	EmailSubject    string            `json:"email_subject,omitempty"`
	EmailBody       string            `json:"email_body,omitempty"`
}

// Context is the record threaded through pipeline stages. It is passed
// by value: each stage returns a new Context with its additions rather
// than mutating shared state, so a run never aliases another.
type Context struct {
	Input  Input  `json:"input"`
	Output Output `json:"output"`
}

// NewContext builds a Context for one inbound email.
func NewContext(in Input) Context {
	return Context{Input: in}
}

// WithJobInfo returns a copy of the context carrying the extracted job record.
func (c Context) WithJobInfo(job *JobInfo) Context {
	c.Output.JobInfo = job
	return c
}

// WithSelection returns a copy carrying the routing decision.
func (c Context) WithSelection(profile *Profile, userID, method string, ranking *RankedCandidates) Context {
	c.Output.Profile = profile
	c.Output.SelectedUserID = userID
	c.Output.SelectionMethod = method
	c.Output.Matching = ranking
	return c
}

// WithResumePath returns a copy recording the rendered resume artifact.
func (c Context) WithResumePath(path string) Context {
	c.Output.ResumePath = path
	return c
}

// WithCoverLetterPath returns a copy recording the rendered cover letter artifact.
func (c Context) WithCoverLetterPath(path string) Context {
	c.Output.CoverLetterPath = path
	return c
}

// WithReply returns a copy carrying the composed reply email.
func (c Context) WithReply(subject, body string) Context {
	c.Output.EmailSubject = subject
	c.Output.EmailBody = body
	return c
}
