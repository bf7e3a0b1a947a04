package phase

// combinations maps a logical phase to the oracle labels that populate its
// table. P is the generic first-arriving P wave; there are gaps in the slope
// at the Pg-Pb-Pn transitions but not at P-Pdiff. S is the analogue for the
// first-arriving S wave. Pg and Sg are computed independently of P/S.
var combinations = map[string][]string{
	"P":   {"Pg", "Pb", "Pn", "P", "Pdiff", "PKPdf"},
	"PKP": {"PKPab", "PKPbc", "PKPdf"},

	"pP": {"pP", "pPn", "pPdiff"},
	"sP": {"sP", "sPn", "sPdiff"},
	"PP": {"PP", "PnPn"},

	"S":  {"S", "Sn", "Sg", "Sb", "Sdiff"},
	"sS": {"sS", "sSg", "sSb", "sSn", "sSdiff"},
	"SS": {"SS", "SnSn"},

	"Pg": {"Pg", "PgPg"},
	"Sg": {"Sg", "SgSg"},
}

// CombineSet returns the accepted oracle labels for a logical phase, or nil
// when only exact-name matching applies.
func CombineSet(name string) []string {
	return combinations[name]
}

// EffectiveName returns the lookup name used to match oracle arrivals at a
// given source depth. A depth phase coincides with its parent direct phase
// when the source is at the surface, so the leading reflection-leg letter is
// stripped at exactly zero depth.
func EffectiveName(name string, depthKm float64) string {
	if depthKm == 0 && len(name) > 1 && (name[0] == 'p' || name[0] == 's') {
		return name[1:]
	}
	return name
}
