package gst

import (
	"strings"
	"unicode"
)

// stateCodes maps normalized state and union territory names to the two-digit
// codes used in GSTINs and place-of-supply fields.
var stateCodes = map[string]string{
	"jammu and kashmir":                        "01",
	"himachal pradesh":                         "02",
	"punjab":                                   "03",
	"chandigarh":                               "04",
	"uttarakhand":                              "05",
	"haryana":                                  "06",
	"delhi":                                    "07",
	"rajasthan":                                "08",
	"uttar pradesh":                            "09",
	"bihar":                                    "10",
	"sikkim":                                   "11",
	"arunachal pradesh":                        "12",
	"nagaland":                                 "13",
	"manipur":                                  "14",
	"mizoram":                                  "15",
	"tripura":                                  "16",
	"meghalaya":                                "17",
	"assam":                                    "18",
	"west bengal":                              "19",
	"jharkhand":                                "20",
	"odisha":                                   "21",
	"chhattisgarh":                             "22",
	"madhya pradesh":                           "23",
	"gujarat":                                  "24",
	"daman and diu":                            "25",
	"dadra and nagar haveli and daman and diu": "26",
	"dadra and nagar haveli":                   "26",
	"maharashtra":                              "27",
	"karnataka":                                "29",
	"goa":                                      "30",
	"lakshadweep":                              "31",
	"kerala":                                   "32",
	"tamil nadu":                               "33",
	"puducherry":                               "34",
	"andaman and nicobar islands":              "35",
	"telangana":                                "36",
	"andhra pradesh":                           "37",
	"ladakh":                                   "38",
	"other territory":                          "97",
}

// stateAliases are alternate spellings seen in address data, including the
// two-letter abbreviations used on vehicle plates and in e-way bills.
var stateAliases = map[string]string{
	"new delhi":            "delhi",
	"nct of delhi":         "delhi",
	"orissa":               "odisha",
	"pondicherry":          "puducherry",
	"j&k":                  "jammu and kashmir",
	"jammu & kashmir":      "jammu and kashmir",
	"andaman & nicobar":    "andaman and nicobar islands",
	"andaman and nicobar":  "andaman and nicobar islands",
	"uttaranchal":          "uttarakhand",
	"daman & diu":          "daman and diu",
	"dadra & nagar haveli": "dadra and nagar haveli",

	"jk": "jammu and kashmir",
	"hp": "himachal pradesh",
	"pb": "punjab",
	"ch": "chandigarh",
	"uk": "uttarakhand",
	"ut": "uttarakhand",
	"hr": "haryana",
	"dl": "delhi",
	"rj": "rajasthan",
	"up": "uttar pradesh",
	"br": "bihar",
	"sk": "sikkim",
	"ar": "arunachal pradesh",
	"nl": "nagaland",
	"mn": "manipur",
	"mz": "mizoram",
	"tr": "tripura",
	"ml": "meghalaya",
	"as": "assam",
	"wb": "west bengal",
	"jh": "jharkhand",
	"od": "odisha",
	"or": "odisha",
	"cg": "chhattisgarh",
	"ct": "chhattisgarh",
	"mp": "madhya pradesh",
	"gj": "gujarat",
	"dd": "daman and diu",
	"dn": "dadra and nagar haveli",
	"mh": "maharashtra",
	"ka": "karnataka",
	"ga": "goa",
	"ld": "lakshadweep",
	"kl": "kerala",
	"tn": "tamil nadu",
	"py": "puducherry",
	"an": "andaman and nicobar islands",
	"ts": "telangana",
	"tg": "telangana",
	"ap": "andhra pradesh",
	"la": "ladakh",
}

var knownCodes = func() map[string]bool {
	m := make(map[string]bool, len(stateCodes))
	for _, code := range stateCodes {
		m[code] = true
	}
	return m
}()

// NormalizeState lowercases s and collapses runs of whitespace.
func NormalizeState(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), unicode.IsSpace), " ")
}

// StateCode resolves a state name or two-digit code to its GST state code.
// The second return value is false for empty or unrecognized input.
func StateCode(s string) (string, bool) {
	n := NormalizeState(s)
	if n == "" {
		return "", false
	}
	if len(n) == 1 && n[0] >= '1' && n[0] <= '9' {
		n = "0" + n
	}
	if knownCodes[n] {
		return n, true
	}
	if alias, ok := stateAliases[n]; ok {
		n = alias
	}
	code, ok := stateCodes[n]
	return code, ok
}

// StateCodeFromGSTIN returns the state code embedded in the first two digits of
// a GSTIN.
func StateCodeFromGSTIN(gstin string) (string, bool) {
	g := strings.TrimSpace(gstin)
	if len(g) != 15 {
		return "", false
	}
	return StateCode(g[:2])
}
