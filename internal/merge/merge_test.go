package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadindex/internal/model"
)

func ptr[T any](v T) *T { return &v }

func TestDedupMails_FirstSeenWins(t *testing.T) {
	mails := []model.Mail{
		{FolderID: "ABC123", Email: "a@x.se", Subject: "Hej", Body: ptr("first")},
		{FolderID: "ABC123", Email: "a@x.se", Subject: "Hej", Body: ptr("second")},
		{FolderID: "ABC123", Email: "a@x.se", Subject: "Hej igen", Body: ptr("third")},
	}

	got := DedupMails(mails)
	require.Len(t, got, 2)
	assert.Equal(t, "first", model.Str(got[0].Body))
	assert.Equal(t, "Hej igen", got[1].Subject)
}

func TestDedupAudits(t *testing.T) {
	audits := []model.Audit{
		{FolderID: "X1", URL: "https://x.se", AuditDate: "2026-01-01", Overall: ptr(5.0)},
		{FolderID: "X1", URL: "https://x.se", AuditDate: "2026-01-01", Overall: ptr(9.0)},
		{FolderID: "X1", URL: "https://x.se", AuditDate: "2026-01-02"},
	}

	got := DedupAudits(audits)
	require.Len(t, got, 2)
	assert.InDelta(t, 5.0, model.Float(got[0].Overall), 0.001)
}

func TestDedupCompanies_KeyPrecedence(t *testing.T) {
	cs := []model.Company{
		{FolderID: "X1", OrgNumber: "1", Name: ptr("a")},
		{FolderID: "X1", OrgNumber: "2", Name: ptr("b")},
		{OrgNumber: "3", Name: ptr("c")},
		{OrgNumber: "3", Name: ptr("d")},
		{FolderID: "X3", OrgNumber: "3", Name: ptr("e")},
		{Name: ptr("keyless")},
	}

	got := DedupCompanies(cs)
	var names []string
	for _, c := range got {
		names = append(names, model.Str(c.Name))
	}
	assert.Equal(t, []string{"a", "c", "e"}, names)
}

func TestDedupPeople_EmptyPersonalIDNeverDeduplicated(t *testing.T) {
	ps := []model.Person{
		{PersonalID: "", RegistrationID: "K1", FirstName: ptr("a")},
		{PersonalID: "", RegistrationID: "K1", FirstName: ptr("b")},
		{PersonalID: "P1", RegistrationID: "K1", FirstName: ptr("c")},
		{PersonalID: "P1", RegistrationID: "K1", FirstName: ptr("d")},
		{PersonalID: "P1", RegistrationID: "K2", FirstName: ptr("e")},
	}

	got := DedupPeople(ps)
	require.Len(t, got, 4)
	assert.Equal(t, "c", model.Str(got[2].FirstName))
	assert.Equal(t, "e", model.Str(got[3].FirstName))
}

func TestDedupEvaluations(t *testing.T) {
	got := DedupEvaluations([]model.Evaluation{
		{FolderID: "X1", Verdict: ptr("ja")},
		{FolderID: "X1", Verdict: ptr("nej")},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "ja", model.Str(got[0].Verdict))
}

func TestMerge_Idempotent(t *testing.T) {
	in := model.NormalizedData{
		Companies: []model.Company{{FolderID: "X1"}, {FolderID: "X1"}},
		Mails:     []model.Mail{{FolderID: "X1", Email: "a"}, {FolderID: "X1", Email: "a"}},
	}

	once := Merge(in)
	twice := Merge(once)
	assert.Equal(t, once, twice)
	assert.Len(t, once.Companies, 1)
	assert.Len(t, once.Mails, 1)
	assert.Equal(t, model.ProvenanceUnknown, once.Provenance)
}

func TestDeriveFlags_HasMailIffMailExists(t *testing.T) {
	ix := NewLinkIndex([]model.Mail{{FolderID: "X1", Email: "info@acme.se", Subject: "Hej"}}, nil, nil)

	f := DeriveFlags(model.Company{FolderID: "X1"}, ix)
	assert.True(t, f.HasMail)
	assert.True(t, f.HasEmail, "a linked mail supplies an email")
	assert.False(t, f.HasDomain)
	assert.False(t, f.HasAudit)

	f = DeriveFlags(model.Company{FolderID: "X2"}, ix)
	assert.False(t, f.HasMail)
	assert.False(t, f.HasEmail)

	f = DeriveFlags(model.Company{OrgNumber: "5560001122"}, ix)
	assert.False(t, f.HasMail, "companies without a folder cannot link")
}

func TestDeriveFlags_WorthySite(t *testing.T) {
	tests := []struct {
		name    string
		company model.Company
		evals   []model.Evaluation
		want    bool
	}{
		{"own field ja", model.Company{FolderID: "X", WorthSite: ptr("JA")}, nil, true},
		{"own field yes is not ja", model.Company{FolderID: "X", WorthSite: ptr("yes")}, nil, false},
		{"evaluation ja", model.Company{FolderID: "X", WorthSite: ptr("nej")}, []model.Evaluation{{FolderID: "X", Verdict: ptr(" Ja ")}}, true},
		{"evaluation nej", model.Company{FolderID: "X"}, []model.Evaluation{{FolderID: "X", Verdict: ptr("nej")}}, false},
		{"other folder", model.Company{FolderID: "X"}, []model.Evaluation{{FolderID: "Y", Verdict: ptr("ja")}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DeriveFlags(tt.company, NewLinkIndex(nil, nil, tt.evals))
			assert.Equal(t, tt.want, f.WorthySite)
		})
	}
}

func TestDeriveFlags_DomainAndPreview(t *testing.T) {
	wrong := model.DomainWrongCompany
	verified := model.DomainVerified

	assert.True(t, DeriveFlags(model.Company{DomainGuess: ptr("acme.se")}, nil).HasDomain)
	assert.True(t, DeriveFlags(model.Company{DomainGuess: ptr("acme.se"), DomainStatus: &verified}, nil).HasDomain)
	assert.False(t, DeriveFlags(model.Company{DomainGuess: ptr("acme.se"), DomainStatus: &wrong}, nil).HasDomain)
	assert.True(t, DeriveFlags(model.Company{DomainVerified: ptr("acme.se"), DomainStatus: &wrong}, nil).HasDomain)

	ix := NewLinkIndex(
		[]model.Mail{{FolderID: "M", PreviewURL: ptr("https://preview/m")}},
		[]model.Audit{{FolderID: "A"}},
		[]model.Evaluation{{FolderID: "E", PreviewURL: ptr("https://preview/e")}},
	)
	assert.True(t, DeriveFlags(model.Company{FolderID: "M"}, ix).HasPreview)
	assert.True(t, DeriveFlags(model.Company{FolderID: "E"}, ix).HasPreview)
	assert.True(t, DeriveFlags(model.Company{FolderID: "P", PreviewURL: ptr("https://p")}, ix).HasPreview)
	assert.False(t, DeriveFlags(model.Company{FolderID: "A"}, ix).HasPreview)
	assert.True(t, DeriveFlags(model.Company{FolderID: "A"}, ix).HasAudit)
}

func TestEnrichAndStats(t *testing.T) {
	d := Merge(model.NormalizedData{
		Companies: []model.Company{{FolderID: "X1", Emails: ptr("a@x.se")}, {FolderID: "X2"}},
		People:    []model.Person{{FolderID: "X1"}},
		Mails:     []model.Mail{{FolderID: "X1", Email: "a@x.se", Subject: "Hej"}},
	})

	enriched := Enrich("20260115", d.Companies, IndexOf(d))
	require.Len(t, enriched, 2)
	assert.Equal(t, "20260115", enriched[0].Date)
	assert.True(t, enriched[0].HasMail)

	s := Stats(d, enriched)
	assert.Equal(t, 2, s.Companies)
	assert.Equal(t, 1, s.People)
	assert.Equal(t, 1, s.Mails)
	assert.Equal(t, 1, s.WithMail)
	assert.Equal(t, 1, s.WithEmail)
	assert.Equal(t, 0, s.WithDomain)
}
