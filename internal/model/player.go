package model

// PlayerID uniquely identifies a professional player in the roster
type PlayerID string

// Role is a player's in-game role
type Role string

const (
	RoleAWPer   Role = "AWPer"
	RoleRifler  Role = "Rifler"
	RoleUnknown Role = "Unknown"
)

// ParseRole maps arbitrary roster data to a known role
func ParseRole(s string) Role {
	switch s {
	case string(RoleAWPer):
		return RoleAWPer
	case string(RoleRifler):
		return RoleRifler
	default:
		return RoleUnknown
	}
}

// Difficulty selects which slice of the roster a game draws from
type Difficulty string

const (
	DifficultyAll    Difficulty = "all"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// ValidDifficulty reports whether d is a known tier
func ValidDifficulty(d Difficulty) bool {
	return d == DifficultyAll || d == DifficultyNormal || d == DifficultyHard
}

// Player is one professional player's roster entry.
// Immutable once loaded by the roster service.
type Player struct {
	ID                PlayerID
	DisplayName       string
	Team              string
	Country           string
	BirthYear         int
	TournamentsPlayed int
	Role              Role

	// Precomputed search keys: LowerName is the lowercased display name,
	// FilterName additionally folds common leetspeak digits (1->i, 0->o,
	// 3->e) so "s1mple" matches "simple".
	LowerName  string
	FilterName string
}

// Region groups countries into competitive regions
type Region string

const (
	RegionEurope   Region = "Europe"
	RegionCIS      Region = "CIS"
	RegionAmericas Region = "Americas"
	RegionAPAC     Region = "APAC"
)

// RegionOf returns the competitive region for a country.
// Unmapped countries default to APAC.
func RegionOf(country string) Region {
	if r, ok := countryRegions[country]; ok {
		return r
	}
	return RegionAPAC
}

var countryRegions = map[string]Region{
	// Europe
	"Denmark": RegionEurope, "France": RegionEurope, "Germany": RegionEurope,
	"Sweden": RegionEurope, "Norway": RegionEurope, "Finland": RegionEurope,
	"Poland": RegionEurope, "Netherlands": RegionEurope, "Belgium": RegionEurope,
	"Spain": RegionEurope, "Portugal": RegionEurope, "Italy": RegionEurope,
	"Switzerland": RegionEurope, "Austria": RegionEurope, "Czech Republic": RegionEurope,
	"Slovakia": RegionEurope, "Hungary": RegionEurope, "Romania": RegionEurope,
	"Bulgaria": RegionEurope, "Croatia": RegionEurope, "Serbia": RegionEurope,
	"Montenegro": RegionEurope, "Bosnia and Herzegovina": RegionEurope,
	"Slovenia": RegionEurope, "Estonia": RegionEurope, "Latvia": RegionEurope,
	"Lithuania": RegionEurope, "Turkey": RegionEurope, "UK": RegionEurope,
	"United Kingdom": RegionEurope, "Ireland": RegionEurope, "Iceland": RegionEurope,
	"Greece": RegionEurope, "Cyprus": RegionEurope, "Malta": RegionEurope,
	"Luxembourg": RegionEurope, "Liechtenstein": RegionEurope, "Monaco": RegionEurope,
	"Andorra": RegionEurope, "San Marino": RegionEurope, "Vatican City": RegionEurope,

	// CIS
	"Russia": RegionCIS, "Ukraine": RegionCIS, "Belarus": RegionCIS,
	"Kazakhstan": RegionCIS, "Uzbekistan": RegionCIS, "Turkmenistan": RegionCIS,
	"Kyrgyzstan": RegionCIS, "Tajikistan": RegionCIS, "Armenia": RegionCIS,
	"Azerbaijan": RegionCIS, "Georgia": RegionCIS, "Moldova": RegionCIS,
	"CIS": RegionCIS,

	// Americas
	"USA": RegionAmericas, "United States": RegionAmericas, "Canada": RegionAmericas,
	"Brazil": RegionAmericas, "Argentina": RegionAmericas, "Chile": RegionAmericas,
	"Peru": RegionAmericas, "Colombia": RegionAmericas, "Mexico": RegionAmericas,
	"Uruguay": RegionAmericas, "Paraguay": RegionAmericas, "Bolivia": RegionAmericas,
	"Ecuador": RegionAmericas, "Venezuela": RegionAmericas, "Guyana": RegionAmericas,
	"Suriname": RegionAmericas, "French Guiana": RegionAmericas, "Guatemala": RegionAmericas,
	"Belize": RegionAmericas, "El Salvador": RegionAmericas, "Honduras": RegionAmericas,
	"Nicaragua": RegionAmericas, "Costa Rica": RegionAmericas, "Panama": RegionAmericas,
	"Cuba": RegionAmericas, "Jamaica": RegionAmericas, "Haiti": RegionAmericas,
	"Dominican Republic": RegionAmericas,

	// APAC
	"China": RegionAPAC, "Japan": RegionAPAC, "South Korea": RegionAPAC,
	"Thailand": RegionAPAC, "Vietnam": RegionAPAC, "Singapore": RegionAPAC,
	"India": RegionAPAC, "Israel": RegionAPAC, "UAE": RegionAPAC,
	"Saudi Arabia": RegionAPAC, "Egypt": RegionAPAC, "Iran": RegionAPAC,
	"Iraq": RegionAPAC, "Jordan": RegionAPAC, "Lebanon": RegionAPAC,
	"Syria": RegionAPAC, "Yemen": RegionAPAC, "Oman": RegionAPAC,
	"Qatar": RegionAPAC, "Bahrain": RegionAPAC, "Kuwait": RegionAPAC,
	"Pakistan": RegionAPAC, "Bangladesh": RegionAPAC, "Sri Lanka": RegionAPAC,
	"Myanmar": RegionAPAC, "Cambodia": RegionAPAC, "Laos": RegionAPAC,
	"Malaysia": RegionAPAC, "Indonesia": RegionAPAC, "Philippines": RegionAPAC,
	"Brunei": RegionAPAC, "Maldives": RegionAPAC, "Nepal": RegionAPAC,
	"Bhutan": RegionAPAC, "Mongolia": RegionAPAC, "North Korea": RegionAPAC,
	"Taiwan": RegionAPAC, "Hong Kong": RegionAPAC, "Macau": RegionAPAC,
	"Australia": RegionAPAC, "New Zealand": RegionAPAC, "Fiji": RegionAPAC,
	"Papua New Guinea": RegionAPAC, "Solomon Islands": RegionAPAC,
	"Vanuatu": RegionAPAC, "Samoa": RegionAPAC, "Tonga": RegionAPAC,
	"Kiribati": RegionAPAC, "Tuvalu": RegionAPAC, "Nauru": RegionAPAC,
	"Palau": RegionAPAC, "Marshall Islands": RegionAPAC, "Micronesia": RegionAPAC,
	"Unknown": RegionAPAC,
}
