package payload

// countryCodes maps customer-facing country display names to ISO 3166-1
// alpha-2 codes. The provider only accepts the 2-letter form.
var countryCodes = map[string]string{
	"Afghanistan":            "AF",
	"Albania":                "AL",
	"Algeria":                "DZ",
	"Argentina":              "AR",
	"Armenia":                "AM",
	"Australia":              "AU",
	"Austria":                "AT",
	"Azerbaijan":             "AZ",
	"Bahrain":                "BH",
	"Bangladesh":             "BD",
	"Belarus":                "BY",
	"Belgium":                "BE",
	"Bosnia and Herzegovina": "BA",
	"Brazil":                 "BR",
	"Bulgaria":               "BG",
	"Cameroon":               "CM",
	"Canada":                 "CA",
	"Chile":                  "CL",
	"China":                  "CN",
	"Colombia":               "CO",
	"Croatia":                "HR",
	"Cyprus":                 "CY",
	"Czech Republic":         "CZ",
	"Denmark":                "DK",
	"Egypt":                  "EG",
	"Eritrea":                "ER",
	"Estonia":                "EE",
	"Ethiopia":               "ET",
	"Finland":                "FI",
	"France":                 "FR",
	"Georgia":                "GE",
	"Germany":                "DE",
	"Ghana":                  "GH",
	"Greece":                 "GR",
	"Hong Kong":              "HK",
	"Hungary":                "HU",
	"Iceland":                "IS",
	"India":                  "IN",
	"Indonesia":              "ID",
	"Iran":                   "IR",
	"Iraq":                   "IQ",
	"Ireland":                "IE",
	"Israel":                 "IL",
	"Italy":                  "IT",
	"Japan":                  "JP",
	"Jordan":                 "JO",
	"Kazakhstan":             "KZ",
	"Kenya":                  "KE",
	"Kuwait":                 "KW",
	"Latvia":                 "LV",
	"Lebanon":                "LB",
	"Libya":                  "LY",
	"Lithuania":              "LT",
	"Luxembourg":             "LU",
	"Malaysia":               "MY",
	"Maldives":               "MV",
	"Malta":                  "MT",
	"Mexico":                 "MX",
	"Morocco":                "MA",
	"Myanmar":                "MM",
	"Nepal":                  "NP",
	"Netherlands":            "NL",
	"New Zealand":            "NZ",
	"Nigeria":                "NG",
	"North Korea":            "KP",
	"Norway":                 "NO",
	"Oman":                   "OM",
	"Pakistan":               "PK",
	"Philippines":            "PH",
	"Poland":                 "PL",
	"Portugal":               "PT",
	"Qatar":                  "QA",
	"Romania":                "RO",
	"Russia":                 "RU",
	"Saudi Arabia":           "SA",
	"Serbia":                 "RS",
	"Singapore":              "SG",
	"Slovakia":               "SK",
	"Slovenia":               "SI",
	"Somalia":                "SO",
	"South Africa":           "ZA",
	"South Korea":            "KR",
	"Spain":                  "ES",
	"Sri Lanka":              "LK",
	"Sudan":                  "SD",
	"Sweden":                 "SE",
	"Switzerland":            "CH",
	"Syria":                  "SY",
	"Taiwan":                 "TW",
	"Tanzania":               "TZ",
	"Thailand":               "TH",
	"Tunisia":                "TN",
	"Turkey":                 "TR",
	"Uganda":                 "UG",
	"Ukraine":                "UA",
	"United Arab Emirates":   "AE",
	"United Kingdom":         "GB",
	"United States":          "US",
	"Uzbekistan":             "UZ",
	"Venezuela":              "VE",
	"Vietnam":                "VN",
	"Yemen":                  "YE",
	"Zimbabwe":               "ZW",
}
