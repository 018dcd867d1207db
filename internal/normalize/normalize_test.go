package normalize

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadindex/internal/model"
)

func TestCompany_SwedishLabels(t *testing.T) {
	c := Company(RawRecord{
		"Mapp":                "X1",
		"Organisationsnummer": "556000-1122",
		"Företagsnamn":        "  Acme AB ",
		"Län":                 "Stockholms län",
		"Aktiekapital":        "25 000,00",
		"Domänkonfidens":      "85%",
		"Domänstatus":         "Verifierad",
		"Ska få sajt":         "Ja",
	})

	assert.Equal(t, "X1", c.FolderID)
	assert.Equal(t, "556000-1122", c.OrgNumber)
	assert.Equal(t, "", c.RegistrationID)
	require.NotNil(t, c.Name)
	assert.Equal(t, "Acme AB", *c.Name)
	assert.Equal(t, "Stockholms län", model.Str(c.Region))
	require.NotNil(t, c.ShareCapital)
	assert.InDelta(t, 25000.0, *c.ShareCapital, 0.001)
	require.NotNil(t, c.DomainConfidence)
	assert.InDelta(t, 0.85, *c.DomainConfidence, 0.0001)
	require.NotNil(t, c.DomainStatus)
	assert.Equal(t, model.DomainVerified, *c.DomainStatus)
	assert.Equal(t, "Ja", model.Str(c.WorthSite), "confirmation tokens are kept verbatim")
}

func TestCompany_MachineNames(t *testing.T) {
	c := Company(RawRecord{
		"mapp":         "X1",
		"orgnr":        int64(5560001122),
		"foretagsnamn": "Acme AB",
		"segment":      "Bygg",
	})

	assert.Equal(t, "X1", c.FolderID)
	assert.Equal(t, "5560001122", c.OrgNumber)
	assert.Equal(t, "Acme AB", model.Str(c.Name))
	assert.Equal(t, "Bygg", model.Str(c.Segment))
	assert.Nil(t, c.Emails)
	assert.Nil(t, c.DomainGuess)
}

func TestCompany_NothingMatches(t *testing.T) {
	c := Company(RawRecord{"irrelevant": "value", "other": 12})

	assert.Equal(t, "", c.FolderID)
	assert.Equal(t, "", c.OrgNumber)
	assert.Equal(t, "", c.Key())
	assert.Nil(t, c.Name)
	assert.Nil(t, c.ShareCapital)
}

func TestCompany_EmptyStringsBecomeNil(t *testing.T) {
	c := Company(RawRecord{"mapp": "   ", "foretagsnamn": "", "aktiekapital": "n/a"})

	assert.Equal(t, "", c.FolderID)
	assert.Nil(t, c.Name)
	assert.Nil(t, c.ShareCapital, "unparsable numbers become nil")
}

func TestCompany_NonFiniteNumbersBecomeNil(t *testing.T) {
	c := Company(RawRecord{"mapp": "N1", "orgnr": "5561112233", "aktiekapital": "nan", "doman_konfidens": math.Inf(1)})

	assert.Nil(t, c.ShareCapital)
	assert.Nil(t, c.DomainConfidence)
	_, err := json.Marshal(c)
	assert.NoError(t, err)
}

func TestCompany_BlankSynonymFallsThrough(t *testing.T) {
	c := Company(RawRecord{"Företagsnamn": "", "namn": "Beta AB"})
	assert.Equal(t, "Beta AB", model.Str(c.Name))
}

func TestCompany_DecomposedUnicodeHeader(t *testing.T) {
	// "Län" with a combining diaeresis, as exported by some macOS tools.
	c := Company(RawRecord{"Län": "Skåne", "mapp": "A"})
	assert.Equal(t, "Skåne", model.Str(c.Region))
}

func TestPerson_RoleClassification(t *testing.T) {
	p := Person(RawRecord{
		"mapp":          "X1",
		"kungorelse_id": "K-1",
		"personnummer":  "19800101-1234",
		"fornamn":       "Anna",
		"efternamn":     "Svensson",
		"roll":          "Styrelseledamot, ordförande",
	})

	assert.Equal(t, "X1", p.FolderID)
	assert.Equal(t, "K-1", p.RegistrationID)
	assert.Equal(t, "19800101-1234", p.PersonalID)
	assert.Equal(t, "Anna", model.Str(p.FirstName))
	assert.Equal(t, model.RoleBoardMember, p.Role)
}

func TestClassifyRole(t *testing.T) {
	tests := []struct {
		label string
		want  model.Role
	}{
		{"Suppleant", model.RoleDeputy},
		{"Styrelsesuppleant", model.RoleDeputy},
		{"Ledamot", model.RoleBoardMember},
		{"ORDFÖRANDE", model.RoleBoardMember},
		{"Verkställande direktör", model.RoleOther},
		{"", model.RoleOther},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRole(tt.label))
		})
	}
}

func TestMail(t *testing.T) {
	m := Mail(RawRecord{"folder": "X1", "email": "info@acme.se", "subject": "Hej Acme", "Brödtext": "Hej!"})

	assert.Equal(t, "X1", m.FolderID)
	assert.Equal(t, "info@acme.se", m.Email)
	assert.Equal(t, "Hej Acme", m.Subject)
	assert.Equal(t, "Hej!", model.Str(m.Body))
	assert.Nil(t, m.PreviewURL)
}

func TestAudit_ScoresClampedToRange(t *testing.T) {
	a := Audit(RawRecord{
		"mapp":       "X1",
		"url":        "https://acme.se",
		"datum":      "2026-01-15",
		"Totalbetyg": "7,5",
		"design":     int64(11),
		"seo":        float64(3),
		"mobil":      "-1",
		"styrkor":    "Snabb",
	})

	assert.Equal(t, "X1", a.FolderID)
	assert.Equal(t, "https://acme.se", a.URL)
	assert.Equal(t, "2026-01-15", a.AuditDate)
	require.NotNil(t, a.Overall)
	assert.InDelta(t, 7.5, *a.Overall, 0.001)
	assert.Nil(t, a.Design)
	assert.Nil(t, a.Mobile)
	require.NotNil(t, a.SEO)
	assert.InDelta(t, 3.0, *a.SEO, 0.001)
	assert.Equal(t, "Snabb", model.Str(a.Strengths))
}

func TestEvaluation(t *testing.T) {
	e := Evaluation(RawRecord{"mapp": "X1", "ska_fa_sajt": "ja", "konfidens": "0,9", "motivering": "Saknar hemsida"})

	assert.Equal(t, "X1", e.FolderID)
	assert.Equal(t, "ja", model.Str(e.Verdict))
	require.NotNil(t, e.Confidence)
	assert.InDelta(t, 0.9, *e.Confidence, 0.0001)
	assert.Equal(t, "Saknar hemsida", model.Str(e.Reasoning))
}

func TestSummary_KeyValueRows(t *testing.T) {
	s := Summary([]RawRecord{
		{"Nyckel": "Antal företag", "Värde": int64(12)},
		{"Nyckel": "Körning", "Värde": "2026-01-15"},
		{"Nyckel": "Antal företag", "Värde": int64(99)},
	})
	assert.Equal(t, model.Summary{"Antal företag": "12", "Körning": "2026-01-15"}, s)
}

func TestSummary_WideRow(t *testing.T) {
	s := Summary([]RawRecord{{"companies": int64(3), "mails": "2", "empty": ""}})
	assert.Equal(t, model.Summary{"companies": "3", "mails": "2"}, s)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{"0,85", 0.85, true},
		{"0.85", 0.85, true},
		{"1 234,50", 1234.5, true},
		{"1 234,50", 1234.5, true},
		{"1.234,50", 1234.5, true},
		{"1,234.50", 1234.5, true},
		{"1.000.000", 1000000, true},
		{"25000 kr", 25000, true},
		{"", 0, false},
		{"abc", 0, false},
		{"nan", 0, false},
		{"NaN", 0, false},
		{"inf", 0, false},
		{"-Infinity", 0, false},
		{"+Inf", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseNumber(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 0.0001)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	for _, tok := range []string{"y", "YES", "Ja", "1", "true"} {
		v, ok := ParseBool(tok)
		assert.True(t, ok, tok)
		assert.True(t, v, tok)
		assert.True(t, IsYes(tok), tok)
	}
	for _, tok := range []string{"n", "No", "NEJ", "0", "false"} {
		v, ok := ParseBool(tok)
		assert.True(t, ok, tok)
		assert.False(t, v, tok)
	}
	_, ok := ParseBool("maybe")
	assert.False(t, ok)
}
