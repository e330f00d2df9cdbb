package ergast

// Response shapes of the Ergast-compatible API. Numbers arrive as strings.

type response struct {
	MRData struct {
		StandingsTable standingsTable `json:"StandingsTable"`
		RaceTable      raceTable      `json:"RaceTable"`
	} `json:"MRData"`
}

type standingsTable struct {
	Season         string          `json:"season"`
	Round          string          `json:"round"`
	StandingsLists []standingsList `json:"StandingsLists"`
}

type standingsList struct {
	Season               string                `json:"season"`
	Round                string                `json:"round"`
	DriverStandings      []driverStanding      `json:"DriverStandings"`
	ConstructorStandings []constructorStanding `json:"ConstructorStandings"`
}

type driverStanding struct {
	Position     string        `json:"position"`
	Points       string        `json:"points"`
	Driver       driver        `json:"Driver"`
	Constructors []constructor `json:"Constructors"`
}

type constructorStanding struct {
	Position    string      `json:"position"`
	Points      string      `json:"points"`
	Constructor constructor `json:"Constructor"`
}

type driver struct {
	DriverID    string `json:"driverId"`
	Code        string `json:"code"`
	GivenName   string `json:"givenName"`
	FamilyName  string `json:"familyName"`
	Nationality string `json:"nationality"`
}

type constructor struct {
	ConstructorID string `json:"constructorId"`
	Name          string `json:"name"`
}

type raceTable struct {
	Season string `json:"season"`
	Round  string `json:"round"`
	Races  []race `json:"Races"`
}

type race struct {
	Season            string             `json:"season"`
	Round             string             `json:"round"`
	RaceName          string             `json:"raceName"`
	Date              string             `json:"date"`
	Time              string             `json:"time"`
	Circuit           circuit            `json:"Circuit"`
	QualifyingResults []qualifyingResult `json:"QualifyingResults"`
}

type circuit struct {
	CircuitName string `json:"circuitName"`
	Location    struct {
		Locality string `json:"locality"`
		Country  string `json:"country"`
	} `json:"Location"`
}

type qualifyingResult struct {
	Position    string      `json:"position"`
	Driver      driver      `json:"Driver"`
	Constructor constructor `json:"Constructor"`
}
