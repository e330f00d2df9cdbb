package types

import (
	"image/color"
	"time"
)

// TeamColors holds the band and text colours used for a constructor's rows
type TeamColors struct {
	Background color.RGBA
	Text       color.RGBA
}

// Constructor represents a team entered in the championship
type Constructor struct {
	ID     string
	Name   string
	Colors TeamColors
}

// Driver represents a driver and the team they race for
type Driver struct {
	ID          string
	Code        string
	GivenName   string
	FamilyName  string
	Nationality string
	Constructor Constructor
}

// DriverStanding is one row of the drivers' championship
type DriverStanding struct {
	Position int
	Points   float64
	Driver   Driver
}

// ConstructorStanding is one row of the constructors' championship
type ConstructorStanding struct {
	Position    int
	Points      float64
	Constructor Constructor
}

// GridSlot is a qualifying result, i.e. a starting position
type GridSlot struct {
	Position int
	Driver   Driver
}

// Qualifying represents the qualifying result of the upcoming race
type Qualifying struct {
	RaceName string
	Grid     []GridSlot
}

// Race represents a scheduled grand prix
type Race struct {
	Season   int
	Round    int
	Name     string
	Circuit  string
	Locality string
	Country  string
	Start    time.Time
}

// Snapshot is the complete data set of one successful fetch.
//
// Slices are in rank order. A Snapshot is never modified once it has been
// published; a refresh replaces it with a new value.
type Snapshot struct {
	FetchedAt    time.Time
	Season       int
	Round        int
	Drivers      []DriverStanding
	Constructors []ConstructorStanding
	Qualifying   *Qualifying
	NextRace     *Race
}
