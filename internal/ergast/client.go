// Package ergast fetches championship data from an Ergast-compatible API
// such as the jolpi.ca mirror.
package ergast

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/remeh/sizedwaitgroup"

	"github.com/fkcurrie/f1-led-golang/internal/types"
)

const maxBodySize = 4 << 20

// Endpoint paths relative to the base URL
const (
	DriverStandingsPath      = "/current/driverStandings.json"
	ConstructorStandingsPath = "/current/constructorStandings.json"
	NextQualifyingPath       = "/current/next/qualifying.json"
	NextRacePath             = "/current/next.json"
)

// Client fetches snapshots over HTTP
type Client struct {
	baseURL     string
	http        *http.Client
	parallelism int
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets a per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

// WithParallelism bounds the number of requests in flight
func WithParallelism(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.parallelism = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithClock sets the clock used to stamp snapshots
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a client for the API rooted at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        &http.Client{Timeout: 10 * time.Second},
		parallelism: 2,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchSnapshot downloads standings, the next race and its qualifying
// result. Any failed request fails the whole snapshot; a race without
// qualifying results yet is not a failure.
func (c *Client) FetchSnapshot(ctx context.Context) (*types.Snapshot, error) {
	var drivers, constructors, qualifying, next response
	errs := make([]error, 4)
	requests := []struct {
		path string
		dst  *response
	}{
		{DriverStandingsPath, &drivers},
		{ConstructorStandingsPath, &constructors},
		{NextQualifyingPath, &qualifying},
		{NextRacePath, &next},
	}

	swg := sizedwaitgroup.New(c.parallelism)
	for i, req := range requests {
		swg.Add()
		go func(i int, path string, dst *response) {
			defer swg.Done()
			errs[i] = c.get(ctx, path, dst)
		}(i, req.path, req.dst)
	}
	swg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	snap := &types.Snapshot{FetchedAt: c.now()}
	if err := decodeDriverStandings(snap, drivers); err != nil {
		return nil, err
	}
	if err := decodeConstructorStandings(snap, constructors); err != nil {
		return nil, err
	}
	snap.Qualifying = decodeQualifying(qualifying)
	race, err := decodeNextRace(next)
	if err != nil {
		return nil, err
	}
	snap.NextRace = race

	c.logger.Debug("fetched snapshot",
		"season", snap.Season,
		"round", snap.Round,
		"drivers", len(snap.Drivers),
		"constructors", len(snap.Constructors),
		"qualifying", snap.Qualifying != nil,
		"next_race", snap.NextRace != nil)
	return snap, nil
}

func (c *Client) get(ctx context.Context, path string, dst *response) error {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: unexpected status %s", path, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := sonic.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// decodeDriverStandings leaves the standings empty before the first round
// of a season, when the API returns no standings list.
func decodeDriverStandings(snap *types.Snapshot, r response) error {
	table := r.MRData.StandingsTable
	if len(table.StandingsLists) == 0 {
		snap.Season = atoi(table.Season)
		snap.Round = atoi(table.Round)
		snap.Drivers = []types.DriverStanding{}
		return nil
	}
	list := table.StandingsLists[0]
	snap.Season = atoi(list.Season)
	snap.Round = atoi(list.Round)
	snap.Drivers = make([]types.DriverStanding, 0, len(list.DriverStandings))
	for i, ds := range list.DriverStandings {
		points, err := parsePoints(ds.Points)
		if err != nil {
			return fmt.Errorf("driver standings: %s: %w", ds.Driver.DriverID, err)
		}
		var team constructor
		if n := len(ds.Constructors); n > 0 {
			// Drivers who changed team mid-season list their current one last
			team = ds.Constructors[n-1]
		}
		snap.Drivers = append(snap.Drivers, types.DriverStanding{
			Position: position(ds.Position, i),
			Points:   points,
			Driver:   newDriver(ds.Driver, team),
		})
	}
	return nil
}

func decodeConstructorStandings(snap *types.Snapshot, r response) error {
	lists := r.MRData.StandingsTable.StandingsLists
	if len(lists) == 0 {
		snap.Constructors = []types.ConstructorStanding{}
		return nil
	}
	list := lists[0]
	snap.Constructors = make([]types.ConstructorStanding, 0, len(list.ConstructorStandings))
	for i, cs := range list.ConstructorStandings {
		points, err := parsePoints(cs.Points)
		if err != nil {
			return fmt.Errorf("constructor standings: %s: %w", cs.Constructor.ConstructorID, err)
		}
		snap.Constructors = append(snap.Constructors, types.ConstructorStanding{
			Position:    position(cs.Position, i),
			Points:      points,
			Constructor: newConstructor(cs.Constructor),
		})
	}
	return nil
}

func decodeQualifying(r response) *types.Qualifying {
	races := r.MRData.RaceTable.Races
	if len(races) == 0 || len(races[0].QualifyingResults) == 0 {
		return nil
	}
	q := &types.Qualifying{
		RaceName: races[0].RaceName,
		Grid:     make([]types.GridSlot, 0, len(races[0].QualifyingResults)),
	}
	for i, qr := range races[0].QualifyingResults {
		q.Grid = append(q.Grid, types.GridSlot{
			Position: position(qr.Position, i),
			Driver:   newDriver(qr.Driver, qr.Constructor),
		})
	}
	return q
}

func decodeNextRace(r response) (*types.Race, error) {
	races := r.MRData.RaceTable.Races
	if len(races) == 0 {
		// Season is over
		return nil, nil
	}
	rc := races[0]
	start, err := raceStart(rc.Date, rc.Time)
	if err != nil {
		return nil, fmt.Errorf("next race: %w", err)
	}
	return &types.Race{
		Season:   atoi(rc.Season),
		Round:    atoi(rc.Round),
		Name:     rc.RaceName,
		Circuit:  rc.Circuit.CircuitName,
		Locality: rc.Circuit.Location.Locality,
		Country:  rc.Circuit.Location.Country,
		Start:    start,
	}, nil
}

func newConstructor(c constructor) types.Constructor {
	return types.Constructor{
		ID:     c.ConstructorID,
		Name:   c.Name,
		Colors: TeamColorsFor(c.ConstructorID),
	}
}

func newDriver(d driver, team constructor) types.Driver {
	code := d.Code
	if code == "" {
		code = fallbackCode(d.FamilyName)
	}
	return types.Driver{
		ID:          d.DriverID,
		Code:        code,
		GivenName:   d.GivenName,
		FamilyName:  d.FamilyName,
		Nationality: d.Nationality,
		Constructor: newConstructor(team),
	}
}

// fallbackCode derives a three letter code for drivers the API has none for
func fallbackCode(familyName string) string {
	r := []rune(strings.ToUpper(strings.ReplaceAll(familyName, " ", "")))
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}

func raceStart(date, clock string) (time.Time, error) {
	if clock == "" {
		return time.Parse(time.DateOnly, date)
	}
	return time.Parse(time.RFC3339, date+"T"+clock)
}

func parsePoints(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// position falls back to the list order for classified-out entries that
// carry no numeric position
func position(s string, index int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return index + 1
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
