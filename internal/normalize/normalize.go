// Package normalize maps loosely shaped source rows onto the canonical
// entities in package model. Untyped rows never leave this package.
//
// Normalization never fails: unknown columns are ignored, unparsable numbers
// become nil, and a row that matches nothing yields an entity with empty keys
// and nil optional fields.
package normalize

import (
	"sort"
	"strings"

	"github.com/sells-group/leadindex/internal/model"
)

// RawRecord is one source row: column name to scalar (string, int64,
// float64, bool, []byte, time.Time or nil).
type RawRecord map[string]any

// record is a RawRecord re-keyed by folded column name. When two columns
// fold to the same key the one that sorts first wins.
type record map[string]any

func fold(raw RawRecord) record {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r := make(record, len(raw))
	for _, k := range keys {
		fk := FoldKey(k)
		if _, dup := r[fk]; dup {
			continue
		}
		r[fk] = raw[k]
	}
	return r
}

// get returns the value of the first synonym present in the record. A column
// that is present but blank does not stop the search.
func (r record) get(l lookup, field string) any {
	var first any
	found := false
	for _, key := range l[field] {
		v, ok := r[key]
		if !ok {
			continue
		}
		if _, nonBlank := toString(v); nonBlank {
			return v
		}
		if !found {
			first, found = v, true
		}
	}
	return first
}

// Company normalizes a raw row into a Company.
func Company(raw RawRecord) model.Company {
	r := fold(raw)
	l := companyLookup
	return model.Company{
		FolderID:         keyString(r.get(l, fFolderID)),
		RegistrationID:   keyString(r.get(l, fRegistrationID)),
		OrgNumber:        keyString(r.get(l, fOrgNumber)),
		Name:             optString(r.get(l, fName)),
		RegisteredAt:     optString(r.get(l, fRegisteredAt)),
		PublishedAt:      optString(r.get(l, fPublishedAt)),
		Region:           optString(r.get(l, fRegion)),
		Seat:             optString(r.get(l, fSeat)),
		Address:          optString(r.get(l, fAddress)),
		Business:         optString(r.get(l, fBusiness)),
		ShareCapital:     optNumber(r.get(l, fShareCapital)),
		ShareCount:       optNumber(r.get(l, fShareCount)),
		Signatory:        optString(r.get(l, fSignatory)),
		BoardMembers:     optString(r.get(l, fBoardMembers)),
		Segment:          optString(r.get(l, fSegment)),
		DomainGuess:      optString(r.get(l, fDomainGuess)),
		DomainVerified:   optString(r.get(l, fDomainVerified)),
		DomainConfidence: optConfidence(r.get(l, fDomainConf)),
		DomainStatus:     domainStatus(r.get(l, fDomainStatus)),
		Emails:           optString(r.get(l, fEmails)),
		Phones:           optString(r.get(l, fPhones)),
		PersonCount:      optNumber(r.get(l, fPersonCount)),
		ResearchDone:     optString(r.get(l, fResearchDone)),
		WorthSite:        optString(r.get(l, fWorthSite)),
		WorthConf:        optConfidence(r.get(l, fWorthConf)),
		PreviewURL:       optString(r.get(l, fPreviewURL)),
	}
}

// Person normalizes a raw row into a Person and classifies its role.
func Person(raw RawRecord) model.Person {
	r := fold(raw)
	l := personLookup
	p := model.Person{
		FolderID:       keyString(r.get(l, fFolderID)),
		RegistrationID: keyString(r.get(l, fRegistrationID)),
		PersonalID:     keyString(r.get(l, fPersonalID)),
		FirstName:      optString(r.get(l, fFirstName)),
		MiddleName:     optString(r.get(l, fMiddleName)),
		LastName:       optString(r.get(l, fLastName)),
		RoleLabel:      optString(r.get(l, fRole)),
		Street:         optString(r.get(l, fStreet)),
		PostalCode:     optString(r.get(l, fPostalCode)),
		City:           optString(r.get(l, fCity)),
	}
	p.Role = ClassifyRole(model.Str(p.RoleLabel))
	return p
}

// Mail normalizes a raw row into a Mail.
func Mail(raw RawRecord) model.Mail {
	r := fold(raw)
	l := mailLookup
	return model.Mail{
		FolderID:     keyString(r.get(l, fFolderID)),
		Email:        keyString(r.get(l, fEmail)),
		Subject:      keyString(r.get(l, fSubject)),
		Body:         optString(r.get(l, fBody)),
		DomainStatus: optString(r.get(l, fDomainStatus)),
		PreviewURL:   optString(r.get(l, fPreviewURL)),
		CompanyName:  optString(r.get(l, fCompanyName)),
	}
}

// Audit normalizes a raw row into an Audit. Scores outside [0,10] are nil.
func Audit(raw RawRecord) model.Audit {
	r := fold(raw)
	l := auditLookup
	return model.Audit{
		FolderID:        keyString(r.get(l, fFolderID)),
		URL:             keyString(r.get(l, fURL)),
		AuditDate:       keyString(r.get(l, fAuditDate)),
		CompanyName:     optString(r.get(l, fCompanyName)),
		Overall:         optScore(r.get(l, fOverall)),
		Design:          optScore(r.get(l, fDesign)),
		Content:         optScore(r.get(l, fContent)),
		Usability:       optScore(r.get(l, fUsability)),
		Mobile:          optScore(r.get(l, fMobile)),
		SEO:             optScore(r.get(l, fSEO)),
		Strengths:       optString(r.get(l, fStrengths)),
		Weaknesses:      optString(r.get(l, fWeaknesses)),
		Recommendations: optString(r.get(l, fRecommendations)),
	}
}

// Evaluation normalizes a raw row into an Evaluation.
func Evaluation(raw RawRecord) model.Evaluation {
	r := fold(raw)
	l := evaluationLookup
	return model.Evaluation{
		FolderID:   keyString(r.get(l, fFolderID)),
		Verdict:    optString(r.get(l, fVerdict)),
		Confidence: optConfidence(r.get(l, fConfidence)),
		Reasoning:  optString(r.get(l, fReasoning)),
		PreviewURL: optString(r.get(l, fPreviewURL)),
	}
}

// Summary collapses summary rows into a key/value map. Rows shaped as
// key/value pairs are read pairwise; otherwise the first row's columns are
// taken as keys.
func Summary(raws []RawRecord) model.Summary {
	out := model.Summary{}
	for _, raw := range raws {
		r := fold(raw)
		k, kok := toString(r.get(summaryLookup, fSummaryKey))
		v, vok := toString(r.get(summaryLookup, fSummaryValue))
		if kok && vok {
			if _, seen := out[k]; !seen {
				out[k] = v
			}
		}
	}
	if len(out) > 0 || len(raws) == 0 {
		return out
	}
	for k, v := range raws[0] {
		if s, ok := toString(v); ok {
			out[strings.TrimSpace(k)] = s
		}
	}
	return out
}

// ClassifyRole pattern-matches a free-text role label.
func ClassifyRole(label string) model.Role {
	l := Lower(label)
	switch {
	case strings.Contains(l, "suppleant"), strings.Contains(l, "deputy"):
		return model.RoleDeputy
	case strings.Contains(l, "ledamot"), strings.Contains(l, "ordförande"), strings.Contains(l, "board member"):
		return model.RoleBoardMember
	default:
		return model.RoleOther
	}
}

func domainStatus(v any) *model.DomainStatus {
	s, ok := toString(v)
	if !ok {
		return nil
	}
	var ds model.DomainStatus
	switch strings.ReplaceAll(Lower(s), " ", "_") {
	case "verified", "verifierad", "ok":
		ds = model.DomainVerified
	case "wrong_company", "fel_företag", "fel_foretag", "wrong":
		ds = model.DomainWrongCompany
	default:
		ds = model.DomainUnknown
	}
	return &ds
}
