package model

import "time"

// Provenance labels the source format that supplied a date's winning
// company/person data.
type Provenance string

const (
	ProvenanceEmbeddedDB       Provenance = "embedded-db"
	ProvenanceSpreadsheetFinal Provenance = "spreadsheet-final"
	ProvenanceSpreadsheetOther Provenance = "spreadsheet-other"
	ProvenanceUnknown          Provenance = "unknown"
)

// Flags are the capability flags derived for a company by cross-referencing
// the other entity lists. They are never read from source files.
type Flags struct {
	HasMail    bool `json:"has_mail"`
	HasAudit   bool `json:"has_audit"`
	HasPreview bool `json:"has_preview"`
	WorthySite bool `json:"worthy_site"`
	HasEmail   bool `json:"has_email"`
	HasDomain  bool `json:"has_domain"`
}

// EnrichedCompany is a company together with its derived flags.
type EnrichedCompany struct {
	Date string `json:"date"`
	Company
	Flags
}

// DatedPerson is a person row tagged with its export date.
type DatedPerson struct {
	Date string `json:"date"`
	Person
}

// NormalizedData is the reconciled, deduplicated content of one date.
type NormalizedData struct {
	Companies   []Company    `json:"companies"`
	People      []Person     `json:"people"`
	Mails       []Mail       `json:"mails"`
	Audits      []Audit      `json:"audits"`
	Evaluations []Evaluation `json:"evaluations"`
	Summary     Summary      `json:"summary,omitempty"`
	Provenance  Provenance   `json:"provenance"`
}

// DateStats are per-date counts.
type DateStats struct {
	Companies   int `json:"companies"`
	People      int `json:"people"`
	Mails       int `json:"mails"`
	Audits      int `json:"audits"`
	Evaluations int `json:"evaluations"`
	WithMail    int `json:"with_mail"`
	WithAudit   int `json:"with_audit"`
	WithPreview int `json:"with_preview"`
	WorthySite  int `json:"worthy_site"`
	WithEmail   int `json:"with_email"`
	WithDomain  int `json:"with_domain"`
}

// DateEntry is one row of the date listing.
type DateEntry struct {
	Date         string `json:"date"`
	DisplayLabel string `json:"display_label"`
}

// DateData is the full content of one date as served to callers.
type DateData struct {
	Date        string            `json:"date"`
	Companies   []EnrichedCompany `json:"companies"`
	People      []Person          `json:"people"`
	Mails       []Mail            `json:"mails"`
	Audits      []Audit           `json:"audits"`
	Evaluations []Evaluation      `json:"evaluations"`
	Summary     Summary           `json:"summary,omitempty"`
	Stats       DateStats         `json:"stats"`
	Provenance  Provenance        `json:"provenance"`
}

// IndexedDate is the completion marker the index keeps per date.
type IndexedDate struct {
	Date         string     `json:"date"`
	IndexedAt    time.Time  `json:"indexed_at"`
	Provenance   Provenance `json:"provenance"`
	CompanyCount int        `json:"company_count"`
}

// Totals are whole-dataset aggregates. Counts are distinct by natural key.
type Totals struct {
	Dates          int            `json:"dates"`
	Companies      int            `json:"total_companies"`
	People         int            `json:"total_people"`
	Mails          int            `json:"total_mails"`
	Audits         int            `json:"total_audits"`
	Evaluations    int            `json:"total_evaluations"`
	WithMail       int            `json:"with_mail"`
	WithAudit      int            `json:"with_audit"`
	WithPreview    int            `json:"with_preview"`
	WorthySite     int            `json:"worthy_site"`
	WithEmail      int            `json:"with_email"`
	WithDomain     int            `json:"with_domain"`
	Segments       map[string]int `json:"segments"`
	Regions        map[string]int `json:"regions"`
	DomainStatuses map[string]int `json:"domain_statuses"`
}

// SearchFilter is the query vocabulary. A nil flag means "no filter".
type SearchFilter struct {
	Query      string `json:"query,omitempty"`
	Segment    string `json:"segment,omitempty"`
	Region     string `json:"region,omitempty"`
	HasMail    *bool  `json:"has_mail,omitempty"`
	HasAudit   *bool  `json:"has_audit,omitempty"`
	HasPreview *bool  `json:"has_preview,omitempty"`
	WorthySite *bool  `json:"worthy_site,omitempty"`
	HasEmail   *bool  `json:"has_email,omitempty"`
	HasDomain  *bool  `json:"has_domain,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

// SearchResult holds one page of matches plus totals ignoring the limit.
type SearchResult struct {
	Companies      []EnrichedCompany `json:"companies"`
	People         []DatedPerson     `json:"people"`
	TotalCompanies int               `json:"total_companies"`
	TotalPeople    int               `json:"total_people"`
}
