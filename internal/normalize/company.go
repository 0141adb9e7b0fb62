package normalize

import "strings"

// legalSuffixes are the legal-entity tokens stripped from company names
// so that spelling variants of one employer collide to the same id.
var legalSuffixes = map[string]struct{}{
	"ооо": {},
	"зао": {},
	"ао":  {},
	"оао": {},
	"пао": {},
	"ип":  {},
}

const companyPunctCutset = "\"«»'()[]{},."

// NormalizeCompanyName lower-cases the name, drops legal-entity suffix
// tokens and collapses the remaining tokens with single spaces.
func NormalizeCompanyName(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	kept := make([]string, 0, len(fields))
	for _, tok := range fields {
		if _, ok := legalSuffixes[strings.Trim(tok, companyPunctCutset)]; ok {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

// CompanyID derives the stable company id from the normalized name.
// "ООО Рога и Копыта" and "Рога и Копыта" map to the same id.
func CompanyID(name string) string {
	return contentID(NormalizeCompanyName(name))
}
