// Package merge deduplicates one date's entity lists by natural key and
// derives the per-company capability flags. DeriveFlags is the only place
// flags are computed; the index write path and the live read path both use
// it.
package merge

import (
	"strings"

	"github.com/sells-group/leadindex/internal/model"
)

const sep = "\x00"

// dedup keeps the first item for each key. Items for which key reports
// false are always kept.
func dedup[T any](items []T, key func(T) (string, bool)) []T {
	if len(items) == 0 {
		return items
	}
	seen := make(map[string]bool, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		k, ok := key(it)
		if ok {
			if seen[k] {
				continue
			}
			seen[k] = true
		}
		out = append(out, it)
	}
	return out
}

// DedupCompanies keeps the first company per natural key and drops
// companies with no key at all.
func DedupCompanies(cs []model.Company) []model.Company {
	keyed := make([]model.Company, 0, len(cs))
	for _, c := range cs {
		if c.Key() != "" {
			keyed = append(keyed, c)
		}
	}
	return dedup(keyed, func(c model.Company) (string, bool) { return c.Key(), true })
}

// DedupPeople keeps the first person per (personal id, registration id).
// People without a personal id are never treated as duplicates.
func DedupPeople(ps []model.Person) []model.Person {
	return dedup(ps, func(p model.Person) (string, bool) {
		if p.PersonalID == "" {
			return "", false
		}
		return p.PersonalID + sep + p.RegistrationID, true
	})
}

// MailKey is the natural key of a mail.
func MailKey(m model.Mail) string {
	return m.FolderID + sep + m.Email + sep + m.Subject
}

// DedupMails keeps the first mail per (folder, email, subject).
func DedupMails(ms []model.Mail) []model.Mail {
	return dedup(ms, func(m model.Mail) (string, bool) { return MailKey(m), true })
}

// AuditKey is the natural key of an audit.
func AuditKey(a model.Audit) string {
	return a.FolderID + sep + a.URL + sep + a.AuditDate
}

// DedupAudits keeps the first audit per (folder, url, audit date).
func DedupAudits(as []model.Audit) []model.Audit {
	return dedup(as, func(a model.Audit) (string, bool) { return AuditKey(a), true })
}

// DedupEvaluations keeps the first evaluation per folder.
func DedupEvaluations(es []model.Evaluation) []model.Evaluation {
	return dedup(es, func(e model.Evaluation) (string, bool) { return e.FolderID, true })
}

// Merge deduplicates every entity list of one date.
func Merge(in model.NormalizedData) model.NormalizedData {
	out := in
	out.Companies = DedupCompanies(in.Companies)
	out.People = DedupPeople(in.People)
	out.Mails = DedupMails(in.Mails)
	out.Audits = DedupAudits(in.Audits)
	out.Evaluations = DedupEvaluations(in.Evaluations)
	if out.Provenance == "" {
		out.Provenance = model.ProvenanceUnknown
	}
	return out
}

// folderLinks is what the other entity lists say about one folder.
type folderLinks struct {
	mails      int
	audits     int
	mailEmail  bool
	preview    bool
	evaluation *model.Evaluation
}

// LinkIndex groups mails, audits and evaluations by folder id.
type LinkIndex struct {
	folders map[string]*folderLinks
}

// NewLinkIndex indexes the linked entity lists of one date.
func NewLinkIndex(mails []model.Mail, audits []model.Audit, evals []model.Evaluation) *LinkIndex {
	ix := &LinkIndex{folders: map[string]*folderLinks{}}
	for _, m := range mails {
		if m.FolderID == "" {
			continue
		}
		fl := ix.folder(m.FolderID)
		fl.mails++
		if m.Email != "" {
			fl.mailEmail = true
		}
		if model.Str(m.PreviewURL) != "" {
			fl.preview = true
		}
	}
	for _, a := range audits {
		if a.FolderID != "" {
			ix.folder(a.FolderID).audits++
		}
	}
	for i := range evals {
		e := evals[i]
		if e.FolderID == "" {
			continue
		}
		fl := ix.folder(e.FolderID)
		if fl.evaluation == nil {
			fl.evaluation = &e
		}
	}
	return ix
}

// IndexOf builds a LinkIndex over a NormalizedData bundle.
func IndexOf(d model.NormalizedData) *LinkIndex {
	return NewLinkIndex(d.Mails, d.Audits, d.Evaluations)
}

func (ix *LinkIndex) folder(id string) *folderLinks {
	fl, ok := ix.folders[id]
	if !ok {
		fl = &folderLinks{}
		ix.folders[id] = fl
	}
	return fl
}

func (ix *LinkIndex) lookup(id string) folderLinks {
	if ix == nil || id == "" {
		return folderLinks{}
	}
	if fl, ok := ix.folders[id]; ok {
		return *fl
	}
	return folderLinks{}
}

// worthyToken is the only verdict token that marks a company as worth a site.
const worthyToken = "ja"

// DeriveFlags computes a company's capability flags from its own fields and
// the linked entities in ix.
func DeriveFlags(c model.Company, ix *LinkIndex) model.Flags {
	fl := ix.lookup(c.FolderID)

	var f model.Flags
	f.HasMail = fl.mails > 0
	f.HasAudit = fl.audits > 0
	f.HasPreview = model.Str(c.PreviewURL) != "" || fl.preview
	f.WorthySite = strings.EqualFold(strings.TrimSpace(model.Str(c.WorthSite)), worthyToken)
	f.HasEmail = model.Str(c.Emails) != "" || fl.mailEmail
	f.HasDomain = model.Str(c.DomainVerified) != "" ||
		(model.Str(c.DomainGuess) != "" && (c.DomainStatus == nil || *c.DomainStatus != model.DomainWrongCompany))

	if e := fl.evaluation; e != nil {
		if strings.EqualFold(strings.TrimSpace(model.Str(e.Verdict)), worthyToken) {
			f.WorthySite = true
		}
		if model.Str(e.PreviewURL) != "" {
			f.HasPreview = true
		}
	}
	return f
}

// Enrich pairs every company with its derived flags.
func Enrich(date string, companies []model.Company, ix *LinkIndex) []model.EnrichedCompany {
	out := make([]model.EnrichedCompany, 0, len(companies))
	for _, c := range companies {
		out = append(out, model.EnrichedCompany{Date: date, Company: c, Flags: DeriveFlags(c, ix)})
	}
	return out
}

// Stats counts one date's entities and flags.
func Stats(d model.NormalizedData, enriched []model.EnrichedCompany) model.DateStats {
	s := model.DateStats{
		Companies:   len(d.Companies),
		People:      len(d.People),
		Mails:       len(d.Mails),
		Audits:      len(d.Audits),
		Evaluations: len(d.Evaluations),
	}
	for _, ec := range enriched {
		s.WithMail += b2i(ec.HasMail)
		s.WithAudit += b2i(ec.HasAudit)
		s.WithPreview += b2i(ec.HasPreview)
		s.WorthySite += b2i(ec.WorthySite)
		s.WithEmail += b2i(ec.HasEmail)
		s.WithDomain += b2i(ec.HasDomain)
	}
	return s
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
