package telemetry

import (
	"fmt"
	"strings"
	"time"
)

type SessionType string

const (
	Practice1  SessionType = "FP1"
	Practice2  SessionType = "FP2"
	Practice3  SessionType = "FP3"
	Qualifying SessionType = "Q"
	Sprint     SessionType = "S"
	Race       SessionType = "R"
)

var sessionTypeNames = map[string]SessionType{
	"fp1": Practice1, "practice 1": Practice1, "practice1": Practice1,
	"fp2": Practice2, "practice 2": Practice2, "practice2": Practice2,
	"fp3": Practice3, "practice 3": Practice3, "practice3": Practice3,
	"q": Qualifying, "qualifying": Qualifying,
	"s": Sprint, "sprint": Sprint,
	"r": Race, "race": Race,
}

// ParseSessionType resolves user-facing session names ("Race", "Practice 1")
// and short codes ("R", "FP1") to the canonical type.
func ParseSessionType(s string) (SessionType, error) {
	if st, ok := sessionTypeNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return "", fmt.Errorf("unknown session type %q", s)
}

func (t SessionType) Name() string {
	switch t {
	case Practice1:
		return "Practice 1"
	case Practice2:
		return "Practice 2"
	case Practice3:
		return "Practice 3"
	case Qualifying:
		return "Qualifying"
	case Sprint:
		return "Sprint"
	case Race:
		return "Race"
	}
	return string(t)
}

// SessionKey identifies a unique fetch target. Immutable.
type SessionKey struct {
	Year    int         `json:"year"`
	Event   string      `json:"event"`
	Session SessionType `json:"session"`
}

// Slug is the key's stable identifier used for cache paths and hot-cache
// keys. Anything outside [a-z0-9] becomes a dash so event names can never
// smuggle path separators into a file name.
func (k SessionKey) Slug() string {
	event := slugify(k.Event)
	return fmt.Sprintf("%d-%s-%s", k.Year, event, strings.ToLower(string(k.Session)))
}

func slugify(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, strings.TrimSpace(s))
}

func (k SessionKey) String() string {
	return fmt.Sprintf("%d %s %s", k.Year, k.Event, k.Session.Name())
}

// Lap is one row of the normalized timing table. Durations are seconds;
// zero means the value was not reported for that lap.
type Lap struct {
	DriverNumber   string  `json:"driver_number"`
	Driver         string  `json:"driver"`
	Team           string  `json:"team"`
	LapNumber      int     `json:"lap_number"`
	LapTime        float64 `json:"lap_time"`
	Sector1        float64 `json:"sector1"`
	Sector2        float64 `json:"sector2"`
	Sector3        float64 `json:"sector3"`
	Position       int     `json:"position"`
	Stint          int     `json:"stint"`
	Compound       string  `json:"compound"`
	IsPersonalBest bool    `json:"is_personal_best"`
}

type LapTable []Lap

func (t LapTable) Empty() bool { return len(t) == 0 }

// Frame is one telemetry sample of a driver's fastest lap. Time is seconds
// from the start of the lap, Speed is km/h, Distance is meters from the
// start line.
type Frame struct {
	Time     float64 `json:"time"`
	Speed    float64 `json:"speed"`
	RPM      float64 `json:"rpm"`
	Gear     int     `json:"gear"`
	Throttle float64 `json:"throttle"`
	Brake    bool    `json:"brake"`
	DRS      bool    `json:"drs"`
	Distance float64 `json:"distance"`
}

type Trace []Frame

func (t Trace) Empty() bool { return len(t) == 0 }

// TelemetrySet holds one fastest-lap trace per driver number.
type TelemetrySet map[string]Trace

func (s TelemetrySet) Empty() bool { return len(s) == 0 }

// WeatherSample is one weather report. Time is seconds from session start.
type WeatherSample struct {
	Time          float64 `json:"time"`
	AirTemp       float64 `json:"air_temp"`
	TrackTemp     float64 `json:"track_temp"`
	Humidity      float64 `json:"humidity"`
	Pressure      float64 `json:"pressure"`
	WindSpeed     float64 `json:"wind_speed"`
	WindDirection float64 `json:"wind_direction"`
	Rainfall      bool    `json:"rainfall"`
}

type WeatherTable []WeatherSample

func (t WeatherTable) Empty() bool { return len(t) == 0 }

// PositionSample is one entry of the running-order table.
type PositionSample struct {
	Time         float64 `json:"time"`
	DriverNumber string  `json:"driver_number"`
	Position     int     `json:"position"`
}

type PositionTable []PositionSample

func (t PositionTable) Empty() bool { return len(t) == 0 }

type Driver struct {
	Number       string `json:"number"`
	Abbreviation string `json:"abbreviation"`
	FullName     string `json:"full_name"`
	Team         string `json:"team"`
	TeamColor    string `json:"team_color"`
}

type DriverList []Driver

// ByNumber returns the driver entry for a car number.
func (l DriverList) ByNumber(number string) (Driver, bool) {
	for _, d := range l {
		if d.Number == number {
			return d, true
		}
	}
	return Driver{}, false
}

// ByAbbreviation returns the driver entry for a three-letter code.
func (l DriverList) ByAbbreviation(abbr string) (Driver, bool) {
	for _, d := range l {
		if strings.EqualFold(d.Abbreviation, abbr) {
			return d, true
		}
	}
	return Driver{}, false
}

type EventInfo struct {
	Name         string    `json:"name"`
	OfficialName string    `json:"official_name"`
	Country      string    `json:"country"`
	Location     string    `json:"location"`
	Round        int       `json:"round"`
	Date         time.Time `json:"date"`
	Session      string    `json:"session"`
}

// SessionData is the normalized result of a session load. All table slots
// are always present, each populated or explicitly empty. The bundle is
// owned by the caller and never mutated after construction.
type SessionData struct {
	Key       SessionKey   `json:"key"`
	Event     EventInfo    `json:"event"`
	Drivers   DriverList   `json:"drivers"`
	Laps      LapTable     `json:"laps"`
	Telemetry TelemetrySet `json:"telemetry"`
	Weather   WeatherTable `json:"weather"`
	Position  PositionTable `json:"position"`
}
