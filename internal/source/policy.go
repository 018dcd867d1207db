package source

import (
	"strings"

	"github.com/sells-group/leadindex/internal/model"
)

// Policy is the precedence configuration for reconciling several files in
// one date directory.
type Policy struct {
	// FinalMarkers lists, per kind, the filename markers whose files win
	// outright. Earlier markers are stronger. Only company and person data
	// are subject to markers.
	FinalMarkers map[model.Kind][]string
	// RegistryPrefix names raw registry exports; their first sheet is read
	// as company data when no company sheet is found.
	RegistryPrefix string
}

// DefaultPolicy is "final wins" for both companies and people.
func DefaultPolicy() Policy {
	return Policy{
		FinalMarkers: map[model.Kind][]string{
			model.KindCompany: {"final"},
			model.KindPerson:  {"final"},
		},
		RegistryPrefix: "kungorelser",
	}
}

// rank returns the index of the first marker for kind contained in the file
// name, or -1 when the file carries none.
func (p Policy) rank(kind model.Kind, fileName string) int {
	name := strings.ToLower(fileName)
	for i, m := range p.FinalMarkers[kind] {
		if m != "" && strings.Contains(name, strings.ToLower(m)) {
			return i
		}
	}
	return -1
}

func (p Policy) isFinal(fileName string) bool {
	return p.rank(model.KindCompany, fileName) >= 0
}

func (p Policy) isRegistryExport(fileName string) bool {
	return p.RegistryPrefix != "" && strings.HasPrefix(strings.ToLower(fileName), strings.ToLower(p.RegistryPrefix))
}

// sheetNames are the known sheet/table names per kind, tried in order and
// matched case-insensitively.
var sheetNames = map[model.Kind][]string{
	model.KindCompany:    {"Företag", "Foretag", "Bolag", "Kungörelser", "Kungorelser", "companies", "company"},
	model.KindPerson:     {"Personer", "Styrelse", "people", "persons", "person"},
	model.KindMail:       {"Mail", "Mejl", "Utskick", "mails"},
	model.KindAudit:      {"Audit", "Granskning", "Webbanalys", "audits"},
	model.KindEvaluation: {"Bedömning", "Bedomning", "Utvärdering", "evaluation", "evaluations"},
	model.KindSummary:    {"Sammanfattning", "Summary"},
}

// csvKinds maps a marker in a CSV file's stem to the kind it holds. Files
// matching none are company data.
var csvKinds = []struct {
	marker string
	kind   model.Kind
}{
	{"mail", model.KindMail},
	{"audit", model.KindAudit},
	{"granskning", model.KindAudit},
	{"person", model.KindPerson},
	{"people", model.KindPerson},
	{"styrelse", model.KindPerson},
	{"evaluation", model.KindEvaluation},
	{"bedomning", model.KindEvaluation},
	{"summary", model.KindSummary},
	{"sammanfattning", model.KindSummary},
}

func csvKind(stem string) model.Kind {
	s := strings.ToLower(stem)
	for _, ck := range csvKinds {
		if strings.Contains(s, ck.marker) {
			return ck.kind
		}
	}
	return model.KindCompany
}
