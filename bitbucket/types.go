package bitbucket

import (
	"time"

	"github.com/blang/semver"
)

// Link is a hypermedia link
type Link struct {
	Href string `json:"href"`
	Name string `json:"name,omitempty"`
}

// Links holds the links of a resource
type Links struct {
	Self  []Link `json:"self,omitempty"`
	Clone []Link `json:"clone,omitempty"`
}

// SelfURL returns the first self link, if any
func (l Links) SelfURL() string {
	if len(l.Self) == 0 {
		return ""
	}
	return l.Self[0].Href
}

// CloneURL returns the clone link with the given name ("http" or "ssh")
func (l Links) CloneURL(name string) string {
	for _, link := range l.Clone {
		if link.Name == name {
			return link.Href
		}
	}
	return ""
}

// ProjectDefinition holds the fields used to create a project
type ProjectDefinition struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

// Project represents a Bitbucket project
type Project struct {
	ProjectDefinition
	ID     int    `json:"id"`
	Public bool   `json:"public"`
	Type   string `json:"type"`
	Links  Links  `json:"links"`
}

func (p Project) String() string {
	return p.Name
}

// Repository represents a Bitbucket repository
type Repository struct {
	ID            int     `json:"id"`
	Slug          string  `json:"slug"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	ScmID         string  `json:"scmId"`
	State         string  `json:"state"`
	StatusMessage string  `json:"statusMessage"`
	Forkable      bool    `json:"forkable"`
	Public        bool    `json:"public"`
	Archived      bool    `json:"archived"`
	Project       Project `json:"project"`
	Links         Links   `json:"links"`
}

// FullName returns "PROJECT/slug"
func (r Repository) FullName() string {
	return r.Project.Key + "/" + r.Slug
}

// ProjectRef identifies a project by key
type ProjectRef struct {
	Key string `json:"key"`
}

// RepositoryRef identifies a repository
type RepositoryRef struct {
	Slug    string     `json:"slug"`
	Name    string     `json:"name,omitempty"`
	Project ProjectRef `json:"project"`
}

// RepositorySize is the disk usage of a repository in bytes
type RepositorySize struct {
	SizeBytes   int64 `json:"repository"`
	Attachments int64 `json:"attachments"`
}

// Total returns repository plus attachment bytes
func (s RepositorySize) Total() int64 {
	return s.SizeBytes + s.Attachments
}

// FromToRef is one side of a pull request
type FromToRef struct {
	ID           string        `json:"id"`
	DisplayID    string        `json:"displayId"`
	LatestCommit string        `json:"latestCommit"`
	Repository   RepositoryRef `json:"repository"`
}

// User represents a Bitbucket user
type User struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	EmailAddress string `json:"emailAddress,omitempty"`
	DisplayName  string `json:"displayName"`
	Active       bool   `json:"active"`
	Type         string `json:"type"`
}

// PullRequestParticipant is a user taking part in a pull request
type PullRequestParticipant struct {
	User     User   `json:"user"`
	Role     Roles  `json:"role"`
	Approved bool   `json:"approved"`
	Status   string `json:"status,omitempty"`
}

// PullRequest represents a Bitbucket pull request
type PullRequest struct {
	ID           int                      `json:"id"`
	Version      int                      `json:"version"`
	Title        string                   `json:"title"`
	Description  string                   `json:"description,omitempty"`
	State        PullRequestState         `json:"state"`
	Open         bool                     `json:"open"`
	Closed       bool                     `json:"closed"`
	Locked       bool                     `json:"locked"`
	CreatedDate  int64                    `json:"createdDate"`
	UpdatedDate  int64                    `json:"updatedDate"`
	FromRef      FromToRef                `json:"fromRef"`
	ToRef        FromToRef                `json:"toRef"`
	Author       PullRequestParticipant   `json:"author"`
	Reviewers    []PullRequestParticipant `json:"reviewers"`
	Participants []PullRequestParticipant `json:"participants"`
	Links        Links                    `json:"links"`
}

// Created returns the creation time; Bitbucket sends epoch milliseconds
func (pr PullRequest) Created() time.Time {
	return time.UnixMilli(pr.CreatedDate)
}

// Updated returns the last update time
func (pr PullRequest) Updated() time.Time {
	return time.UnixMilli(pr.UpdatedDate)
}

// ApprovalCount returns the number of reviewers who approved
func (pr PullRequest) ApprovalCount() int {
	var n int
	for _, r := range pr.Reviewers {
		if r.Approved {
			n++
		}
	}
	return n
}

// ApplicationProperties describes the Bitbucket server
type ApplicationProperties struct {
	Version     string `json:"version"`
	BuildNumber string `json:"buildNumber"`
	BuildDate   string `json:"buildDate"`
	DisplayName string `json:"displayName"`
}

// SemVer parses the server version. Versions like "8.9" are accepted.
func (a ApplicationProperties) SemVer() (semver.Version, error) {
	return semver.ParseTolerant(a.Version)
}

// PageOptions controls pagination of list calls
type PageOptions struct {
	// MaxPages caps the number of pages fetched; nil means all pages
	MaxPages *int
	// Limit is the page size requested from the server
	Limit *int
	// Start is the offset of the first page
	Start *int
}

func (o PageOptions) params() Params {
	return Params{
		"limit": o.Limit,
		"start": o.Start,
	}
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}
