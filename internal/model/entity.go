// Package model defines the canonical entities shared by the reader, the
// index store and the query engine.
package model

// Kind identifies one of the closed set of entity kinds found in an export.
type Kind string

const (
	KindCompany    Kind = "company"
	KindPerson     Kind = "person"
	KindMail       Kind = "mail"
	KindAudit      Kind = "audit"
	KindEvaluation Kind = "evaluation"
	KindSummary    Kind = "summary"
)

// Kinds lists the entity kinds in reading order.
var Kinds = []Kind{KindCompany, KindPerson, KindMail, KindAudit, KindEvaluation, KindSummary}

// DomainStatus is the verification outcome of a company's guessed domain.
type DomainStatus string

const (
	DomainVerified     DomainStatus = "verified"
	DomainUnknown      DomainStatus = "unknown"
	DomainWrongCompany DomainStatus = "wrong_company"
)

// Company is one registered company. Optional fields are nil when the source
// did not carry them; FolderID and OrgNumber are never nil.
type Company struct {
	FolderID       string   `json:"folder_id"`
	RegistrationID string   `json:"registration_id"`
	OrgNumber      string   `json:"org_number"`
	Name           *string  `json:"name,omitempty"`
	RegisteredAt   *string  `json:"registered_at,omitempty"`
	PublishedAt    *string  `json:"published_at,omitempty"`
	Region         *string  `json:"region,omitempty"`
	Seat           *string  `json:"seat,omitempty"`
	Address        *string  `json:"address,omitempty"`
	Business       *string  `json:"business,omitempty"`
	ShareCapital   *float64 `json:"share_capital,omitempty"`
	ShareCount     *float64 `json:"share_count,omitempty"`
	Signatory      *string  `json:"signatory,omitempty"`
	BoardMembers   *string  `json:"board_members,omitempty"`
	Segment        *string  `json:"segment,omitempty"`

	DomainGuess      *string       `json:"domain_guess,omitempty"`
	DomainVerified   *string       `json:"domain_verified,omitempty"`
	DomainConfidence *float64      `json:"domain_confidence,omitempty"`
	DomainStatus     *DomainStatus `json:"domain_status,omitempty"`
	Emails           *string       `json:"emails,omitempty"`
	Phones           *string       `json:"phones,omitempty"`
	PersonCount      *float64      `json:"person_count,omitempty"`
	ResearchDone     *string       `json:"research_done,omitempty"`

	WorthSite  *string  `json:"worth_site,omitempty"`
	WorthConf  *float64 `json:"worth_confidence,omitempty"`
	PreviewURL *string  `json:"preview_url,omitempty"`
}

// Key returns the company's natural key within one date: the folder id when
// present, otherwise the organisation number.
func (c Company) Key() string {
	if c.FolderID != "" {
		return c.FolderID
	}
	return c.OrgNumber
}

// IdentityKey identifies the legal entity across dates. Folder ids are
// allocated per export run, so the organisation number is preferred.
func (c Company) IdentityKey() string {
	if c.OrgNumber != "" {
		return c.OrgNumber
	}
	return c.FolderID
}

// Role classifies a person's free-text role label.
type Role string

const (
	RoleBoardMember Role = "board_member"
	RoleDeputy      Role = "deputy"
	RoleOther       Role = "other"
)

// Person is a board member, deputy or other officer of a company.
type Person struct {
	FolderID       string  `json:"folder_id"`
	RegistrationID string  `json:"registration_id"`
	PersonalID     string  `json:"personal_id"`
	FirstName      *string `json:"first_name,omitempty"`
	MiddleName     *string `json:"middle_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	RoleLabel      *string `json:"role_label,omitempty"`
	Role           Role    `json:"role"`
	Street         *string `json:"street,omitempty"`
	PostalCode     *string `json:"postal_code,omitempty"`
	City           *string `json:"city,omitempty"`
}

// Mail is a generated outreach message for a company.
type Mail struct {
	FolderID     string  `json:"folder_id"`
	Email        string  `json:"email"`
	Subject      string  `json:"subject"`
	Body         *string `json:"body,omitempty"`
	DomainStatus *string `json:"domain_status,omitempty"`
	PreviewURL   *string `json:"preview_url,omitempty"`
	CompanyName  *string `json:"company_name,omitempty"`
}

// Audit is a website quality assessment. Scores are in [0,10].
type Audit struct {
	FolderID        string   `json:"folder_id"`
	URL             string   `json:"url"`
	AuditDate       string   `json:"audit_date"`
	CompanyName     *string  `json:"company_name,omitempty"`
	Overall         *float64 `json:"overall,omitempty"`
	Design          *float64 `json:"design,omitempty"`
	Content         *float64 `json:"content,omitempty"`
	Usability       *float64 `json:"usability,omitempty"`
	Mobile          *float64 `json:"mobile,omitempty"`
	SEO             *float64 `json:"seo,omitempty"`
	Strengths       *string  `json:"strengths,omitempty"`
	Weaknesses      *string  `json:"weaknesses,omitempty"`
	Recommendations *string  `json:"recommendations,omitempty"`
}

// Evaluation is the worth-a-site verdict for a company.
type Evaluation struct {
	FolderID   string   `json:"folder_id"`
	Verdict    *string  `json:"verdict,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Reasoning  *string  `json:"reasoning,omitempty"`
	PreviewURL *string  `json:"preview_url,omitempty"`
}

// Summary is the free-form key/value overview some exports carry.
type Summary map[string]string

// Str dereferences an optional string, returning "" for nil.
func Str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Float dereferences an optional number, returning 0 for nil.
func Float(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
