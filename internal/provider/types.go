package provider

import (
	"fmt"
	"strings"
	"time"
)

// Query identifies a session on the upstream timing API. It mirrors the
// gateway's SessionKey but keeps this package free of domain imports.
type Query struct {
	Year    int
	Event   string
	Session string
}

// slug names the disk cache entry. Anything outside [a-z0-9] becomes a dash
// so event names can never smuggle path separators into the cache path.
func (q Query) slug() string {
	event := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, strings.TrimSpace(q.Event))
	return fmt.Sprintf("%d-%s-%s", q.Year, event, strings.ToLower(q.Session))
}

// SessionMeta is the upstream session descriptor. SchemaVersion reports the
// payload generation; rows from older generations carry different column
// names and units.
type SessionMeta struct {
	SessionKey    int64     `json:"session_key"`
	EventName     string    `json:"event_name"`
	OfficialName  string    `json:"official_event_name"`
	Country       string    `json:"country"`
	Location      string    `json:"location"`
	Round         int       `json:"round"`
	DateStart     time.Time `json:"date_start"`
	SessionName   string    `json:"session_name"`
	SchemaVersion int       `json:"schema_version"`
}

type RawDriver struct {
	DriverNumber int    `json:"driver_number"`
	Acronym      string `json:"name_acronym"`
	FullName     string `json:"full_name"`
	TeamName     string `json:"team_name"`
	TeamColour   string `json:"team_colour"`
}

// Row is one record of a drifting upstream table. Column resolution is the
// gateway's job; this package stores rows as received.
type Row map[string]any

// RawSession is the un-normalized bundle persisted in the disk cache.
type RawSession struct {
	Meta      SessionMeta `json:"meta"`
	Drivers   []RawDriver `json:"drivers"`
	Laps      []Row       `json:"laps"`
	Car       []Row       `json:"car"`
	Weather   []Row       `json:"weather"`
	Position  []Row       `json:"position"`
	FetchedAt time.Time   `json:"fetched_at"`
}

// ScheduleEvent is one round of a season calendar.
type ScheduleEvent struct {
	Round        int       `json:"round"`
	EventName    string    `json:"event_name"`
	OfficialName string    `json:"official_event_name"`
	Country      string    `json:"country"`
	Location     string    `json:"location"`
	DateStart    time.Time `json:"date_start"`
	Sessions     []string  `json:"sessions"`
}
