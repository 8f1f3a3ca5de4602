package rendering

import (
	"html/template"
	"strings"
	"time"

	"github.com/jonathan/hr-agent/internal/types"
)

var resumeTemplate = template.Must(template.New("resume").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Resume - {{.Name}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 40px; line-height: 1.6; }
h1 { color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px; }
h2 { color: #34495e; margin-top: 30px; }
.contact { margin-bottom: 20px; }
.section { margin-bottom: 25px; }
ul { padding-left: 20px; }
li { margin-bottom: 5px; }
.highlight { color: #e74c3c; font-weight: bold; }
</style>
</head>
<body>
<h1>{{.Name}}</h1>
<div class="contact">
<strong>Email:</strong> {{.Email}}<br>
{{if .JobTitle}}<strong>Position Applied:</strong> <span class="highlight">{{.JobTitle}}</span>{{end}}
</div>
{{if .Education}}
<div class="section">
<h2>Education</h2>
<ul>
{{range .Education}}<li>{{.}}</li>
{{end}}</ul>
</div>
{{end}}
{{if .Experience}}
<div class="section">
<h2>Experience</h2>
<ul>
{{range .Experience}}<li>{{.}}</li>
{{end}}</ul>
</div>
{{end}}
{{if .Skills}}
<div class="section">
<h2>Skills</h2>
<ul>
{{range .Skills}}<li>{{.}}</li>
{{end}}</ul>
</div>
{{end}}
{{if .RelevantSkills}}
<div class="section">
<h2>Relevant Skills for {{.JobTitle}}</h2>
<ul>
{{range .RelevantSkills}}<li class="highlight">{{.}}</li>
{{end}}</ul>
</div>
{{end}}
</body>
</html>
`))

var coverLetterTemplate = template.Must(template.New("cover_letter").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Cover Letter - {{.Name}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 40px; line-height: 1.8; }
.header { margin-bottom: 30px; }
.date { margin-bottom: 20px; }
.content { margin-bottom: 30px; }
.signature { margin-top: 40px; }
p { margin-bottom: 15px; }
.highlight { color: #2c3e50; font-weight: bold; }
</style>
</head>
<body>
<div class="header">
<strong>{{.Name}}</strong><br>
{{.Email}}<br>
{{if .Phone}}{{.Phone}}<br>{{end}}
</div>
<div class="date">Date: {{.Date}}</div>
{{if .Company}}
<div class="recipient">
<strong>{{.Company}}</strong><br>
Hiring Team<br>
</div>
{{end}}
<div class="content">
<p><strong>Subject: Application for <span class="highlight">{{.JobTitle}}</span></strong></p>
{{.Body}}
</div>
<div class="signature">
<p>Sincerely,<br>
<strong>{{.Name}}</strong></p>
</div>
</body>
</html>
`))

// resumeData feeds the resume template.
type resumeData struct {
	Name           string
	Email          string
	JobTitle       string
	Education      []string
	Experience     []string
	Skills         []string
	RelevantSkills []string
}

// coverLetterData feeds the cover letter template. Body is pre-rendered
// paragraph HTML, either model-written or the deterministic fallback.
type coverLetterData struct {
	Name     string
	Email    string
	Phone    string
	Company  string
	JobTitle string
	Date     string
	Body     template.HTML
}

func newResumeData(p *types.Profile, job *types.JobInfo) resumeData {
	data := resumeData{
		Name:       p.Name,
		Email:      p.Email,
		Education:  entryStrings(p.Education),
		Experience: entryStrings(p.Experience),
		Skills:     p.Skills,
	}
	if data.Name == "" {
		data.Name = p.UserID
	}
	if job != nil {
		data.JobTitle = job.JobTitle
		data.RelevantSkills = relevantSkills(p.Skills, job.Skills)
	}
	return data
}

func newCoverLetterData(p *types.Profile, job *types.JobInfo, body string) coverLetterData {
	data := coverLetterData{
		Name:  p.Name,
		Email: p.Email,
		Phone: p.Phone,
		Date:  time.Now().Format("January 2, 2006"),
		Body:  template.HTML(body),
	}
	if data.Name == "" {
		data.Name = p.UserID
	}
	if job != nil {
		data.Company = job.Company
		data.JobTitle = job.JobTitle
	}
	if data.JobTitle == "" {
		data.JobTitle = "Position"
	}
	return data
}

func entryStrings(entries []types.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if s := e.String(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// relevantSkills lists job skills that overlap the candidate's, by
// substring containment in either direction.
func relevantSkills(userSkills, jobSkills []string) []string {
	var relevant []string
	for _, js := range jobSkills {
		jl := strings.ToLower(js)
		for _, us := range userSkills {
			ul := strings.ToLower(us)
			if strings.Contains(ul, jl) || strings.Contains(jl, ul) {
				relevant = append(relevant, js)
				break
			}
		}
	}
	return relevant
}
