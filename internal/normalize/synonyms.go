package normalize

// Field names used as keys into the synonym tables. Each table maps a
// canonical field to the source column names that may carry it, in the order
// they are tried. Swedish labels come first; the canonical machine name is
// always the last entry.
const (
	fFolderID       = "folder_id"
	fRegistrationID = "registration_id"
	fOrgNumber      = "org_number"
	fName           = "name"
	fRegisteredAt   = "registered_at"
	fPublishedAt    = "published_at"
	fRegion         = "region"
	fSeat           = "seat"
	fAddress        = "address"
	fBusiness       = "business"
	fShareCapital   = "share_capital"
	fShareCount     = "share_count"
	fSignatory      = "signatory"
	fBoardMembers   = "board_members"
	fSegment        = "segment"
	fDomainGuess    = "domain_guess"
	fDomainVerified = "domain_verified"
	fDomainConf     = "domain_confidence"
	fDomainStatus   = "domain_status"
	fEmails         = "emails"
	fPhones         = "phones"
	fPersonCount    = "person_count"
	fResearchDone   = "research_done"
	fWorthSite      = "worth_site"
	fWorthConf      = "worth_confidence"
	fPreviewURL     = "preview_url"

	fPersonalID = "personal_id"
	fFirstName  = "first_name"
	fMiddleName = "middle_name"
	fLastName   = "last_name"
	fRole       = "role"
	fStreet     = "street"
	fPostalCode = "postal_code"
	fCity       = "city"

	fEmail       = "email"
	fSubject     = "subject"
	fBody        = "body"
	fCompanyName = "company_name"

	fURL             = "url"
	fAuditDate       = "audit_date"
	fOverall         = "overall"
	fDesign          = "design"
	fContent         = "content"
	fUsability       = "usability"
	fMobile          = "mobile"
	fSEO             = "seo"
	fStrengths       = "strengths"
	fWeaknesses      = "weaknesses"
	fRecommendations = "recommendations"

	fVerdict    = "verdict"
	fConfidence = "confidence"
	fReasoning  = "reasoning"

	fSummaryKey   = "summary_key"
	fSummaryValue = "summary_value"
)

type table map[string][]string

var (
	folderSyn       = []string{"Mapp", "mappnamn", "folder", fFolderID}
	registrationSyn = []string{"Kungörelse-id", "kungorelse_id", "kungörelseid", "kungorelseid", fRegistrationID}
	previewSyn      = []string{"Sajtlänk", "sajt_lank", "Förhandsvisning", "preview", fPreviewURL}
	domainStatusSyn = []string{"Domänstatus", "domanstatus", "domän_status", fDomainStatus}
	companyNameSyn  = []string{"Företagsnamn", "foretagsnamn", "bolagsnamn", "namn", fCompanyName}
)

var companyTable = table{
	fFolderID:       folderSyn,
	fRegistrationID: registrationSyn,
	fOrgNumber:      {"Organisationsnummer", "Org.nr", "orgnr", "org_nr", fOrgNumber},
	fName:           {"Företagsnamn", "foretagsnamn", "bolagsnamn", "namn", "company_name", fName},
	fRegisteredAt:   {"Registreringsdatum", "registreringsdatum", "registrerad", "registration_date", fRegisteredAt},
	fPublishedAt:    {"Publiceringsdatum", "publiceringsdatum", "publicerad", "publication_date", fPublishedAt},
	fRegion:         {"Län", "lan", fRegion},
	fSeat:           {"Säte", "sate", "kommun", fSeat},
	fAddress:        {"Adress", "postadress", fAddress},
	fBusiness:       {"Verksamhet", "verksamhetsbeskrivning", "description", fBusiness},
	fShareCapital:   {"Aktiekapital", "aktiekapital", fShareCapital},
	fShareCount:     {"Antal aktier", "antal_aktier", fShareCount},
	fSignatory:      {"Firmateckning", "firmateckning", "signing_authority", fSignatory},
	fBoardMembers:   {"Styrelseledamöter", "styrelseledamoter", "styrelse", fBoardMembers},
	fSegment:        {"Segment", "bransch", "kategori", fSegment},
	fDomainGuess:    {"Domän", "doman", "hemsida", "webbplats", "domain", fDomainGuess},
	fDomainVerified: {"Verifierad domän", "verifierad_doman", fDomainVerified},
	fDomainConf:     {"Domänkonfidens", "doman_konfidens", "domän_konfidens", fDomainConf},
	fDomainStatus:   domainStatusSyn,
	fEmails:         {"E-post", "epost", "mejl", "email", fEmails},
	fPhones:         {"Telefon", "telefon", "tel", "phone", fPhones},
	fPersonCount:    {"Antal personer", "antal_personer", fPersonCount},
	fResearchDone:   {"Research klar", "research_klar", fResearchDone},
	fWorthSite:      {"Ska få sajt", "ska_fa_sajt", "ska_få_sajt", fWorthSite},
	fWorthConf:      {"Konfidens", "konfidens", "sajt_konfidens", fWorthConf},
	fPreviewURL:     previewSyn,
}

var personTable = table{
	fFolderID:       folderSyn,
	fRegistrationID: registrationSyn,
	fPersonalID:     {"Personnummer", "personnummer", "pnr", fPersonalID},
	fFirstName:      {"Förnamn", "fornamn", fFirstName},
	fMiddleName:     {"Mellannamn", "mellannamn", fMiddleName},
	fLastName:       {"Efternamn", "efternamn", fLastName},
	fRole:           {"Roll", "befattning", "funktion", fRole},
	fStreet:         {"Gatuadress", "gatuadress", "adress", fStreet},
	fPostalCode:     {"Postnummer", "postnr", fPostalCode},
	fCity:           {"Postort", "ort", fCity},
}

var mailTable = table{
	fFolderID:     folderSyn,
	fEmail:        {"E-post", "epost", "mottagare", "till", "recipient", "to", fEmail},
	fSubject:      {"Ämne", "amne", "rubrik", fSubject},
	fBody:         {"Brödtext", "brodtext", "meddelande", "innehåll", "innehall", "text", fBody},
	fDomainStatus: domainStatusSyn,
	fPreviewURL:   previewSyn,
	fCompanyName:  companyNameSyn,
}

var auditTable = table{
	fFolderID:        folderSyn,
	fURL:             {"Webbplats", "hemsida", "audited_url", "website", fURL},
	fAuditDate:       {"Granskningsdatum", "datum", "date", fAuditDate},
	fCompanyName:     companyNameSyn,
	fOverall:         {"Totalbetyg", "helhet", "total", "overall_score", fOverall},
	fDesign:          {"Design", "design_score", fDesign},
	fContent:         {"Innehåll", "innehall", "content_score", fContent},
	fUsability:       {"Användbarhet", "anvandbarhet", "usability_score", fUsability},
	fMobile:          {"Mobil", "mobil", "mobile_score", fMobile},
	fSEO:             {"SEO", "seo_score", fSEO},
	fStrengths:       {"Styrkor", "styrkor", fStrengths},
	fWeaknesses:      {"Svagheter", "svagheter", fWeaknesses},
	fRecommendations: {"Rekommendationer", "rekommendationer", fRecommendations},
}

var evaluationTable = table{
	fFolderID:   folderSyn,
	fVerdict:    {"Ska få sajt", "ska_fa_sajt", "ska_få_sajt", "bedömning", "bedomning", "worth", fVerdict},
	fConfidence: {"Konfidens", "konfidens", fConfidence},
	fReasoning:  {"Motivering", "motivering", "rationale", fReasoning},
	fPreviewURL: previewSyn,
}

var summaryTable = table{
	fSummaryKey:   {"Nyckel", "nyckel", "fält", "falt", "key"},
	fSummaryValue: {"Värde", "varde", "value"},
}

// lookup is a table whose synonyms have been folded for matching.
type lookup map[string][]string

func compile(t table) lookup {
	l := make(lookup, len(t))
	for field, syns := range t {
		keys := make([]string, 0, len(syns))
		for _, s := range syns {
			keys = append(keys, FoldKey(s))
		}
		l[field] = keys
	}
	return l
}

var (
	companyLookup    = compile(companyTable)
	personLookup     = compile(personTable)
	mailLookup       = compile(mailTable)
	auditLookup      = compile(auditTable)
	evaluationLookup = compile(evaluationTable)
	summaryLookup    = compile(summaryTable)
)
