package canon

// OfficialStates lists the 36 states and union territories as published
// in the Local Government Directory. Resolution targets exactly this
// vocabulary.
var OfficialStates = []string{
	"Andhra Pradesh",
	"Arunachal Pradesh",
	"Assam",
	"Bihar",
	"Chhattisgarh",
	"Goa",
	"Gujarat",
	"Haryana",
	"Himachal Pradesh",
	"Jharkhand",
	"Karnataka",
	"Kerala",
	"Madhya Pradesh",
	"Maharashtra",
	"Manipur",
	"Meghalaya",
	"Mizoram",
	"Nagaland",
	"Odisha",
	"Punjab",
	"Rajasthan",
	"Sikkim",
	"Tamil Nadu",
	"Telangana",
	"Tripura",
	"Uttar Pradesh",
	"Uttarakhand",
	"West Bengal",
	"Andaman and Nicobar Islands",
	"Chandigarh",
	"Dadra and Nagar Haveli and Daman and Diu",
	"Delhi",
	"Jammu and Kashmir",
	"Ladakh",
	"Lakshadweep",
	"Puducherry",
}

var officialIndex = make(map[string]bool, len(OfficialStates))

func init() {
	for _, s := range OfficialStates {
		officialIndex[s] = true
	}
}

// IsOfficialState reports whether s is an official name, spelled
// exactly.
func IsOfficialState(s string) bool {
	return officialIndex[s]
}

// bestOfficial returns the official name with the highest fuzzy score
// against s. Ties keep the earlier name in the vocabulary.
func bestOfficial(s string) (string, float64) {
	var best string
	bestScore := -1.0
	for _, official := range OfficialStates {
		if sc := Score(s, official); sc > bestScore {
			best, bestScore = official, sc
		}
	}
	return best, bestScore
}
