package tournament

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

const (
	DefaultCurrency   = "usd"
	DefaultEventState = "CREATED"
	UnknownGamerTag   = "Unknown"

	DefaultEntrantLimit  = 100
	DefaultRetentionDays = 90

	webBaseURL = "https://www.start.gg/"
)

// Tournament is a locally persisted start.gg tournament. Slug is the stable
// external key.
type Tournament struct {
	ID                   int64
	StartggID            int64
	Slug                 string
	Name                 string
	StartAt              time.Time
	EndAt                *time.Time
	Timezone             string
	VenueName            string
	VenueAddress         string
	City                 string
	State                string
	CountryCode          string
	IsOnline             bool
	IsRegistrationOpen   bool
	RegistrationClosesAt *time.Time
	NumAttendees         int
	Rules                string
	Description          string
	ImageURL             string
	BannerURL            string
	URL                  string
	Currency             string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Event is one competition inside a tournament. (TournamentID, StartggEventID) is unique.
type Event struct {
	ID             int64
	TournamentID   int64
	StartggEventID int64
	Name           string
	Slug           string
	StartAt        *time.Time
	NumEntrants    int
	EntryFee       int64
	State          string
	BracketType    string
	IsOnline       bool
	VideogameID    int64
	VideogameName  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Entrant is a registered participant in an event. (EventID, StartggEntrantID) is unique.
type Entrant struct {
	ID               int64
	EventID          int64
	StartggEntrantID int64
	ParticipantID    int64
	GamerTag         string
	Prefix           string
	FinalPlacement   *int
	Seed             *int
	IsDisqualified   bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Stats struct {
	TotalTournaments int64 `json:"total_tournaments"`
	OpenRegistration int64 `json:"open_registration"`
	Upcoming         int64 `json:"upcoming"`
	TotalAttendees   int64 `json:"total_attendees"`
}

// Normalize fills defaults that storage relies on.
func (t Tournament) Normalize() Tournament {
	t.Slug = strings.TrimSpace(t.Slug)
	if t.Currency == "" {
		t.Currency = DefaultCurrency
	}
	if t.URL == "" && t.Slug != "" {
		t.URL = webBaseURL + t.Slug
	}
	return t
}

func (e Event) Normalize() Event {
	if strings.TrimSpace(e.State) == "" {
		e.State = DefaultEventState
	}
	return e
}

func (e Entrant) Normalize() Entrant {
	if strings.TrimSpace(e.GamerTag) == "" {
		e.GamerTag = UnknownGamerTag
	}
	return e
}

// IsUpcoming reports whether the tournament starts at or after now.
func (t Tournament) IsUpcoming(now time.Time) bool {
	return !t.StartAt.Before(now)
}

// Ended reports whether EndAt is set and already passed.
func (t Tournament) Ended(now time.Time) bool {
	return t.EndAt != nil && t.EndAt.Before(now)
}

func SortByStart(items []Tournament) {
	slices.SortStableFunc(items, func(a, b Tournament) int {
		if c := a.StartAt.Compare(b.StartAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func SortEvents(items []Event) {
	slices.SortStableFunc(items, func(a, b Event) int {
		if c := compareOptionalTime(a.StartAt, b.StartAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
}

// SortEntrants orders by seed ascending with unseeded entrants last, then gamer tag.
func SortEntrants(items []Entrant) {
	slices.SortStableFunc(items, func(a, b Entrant) int {
		switch {
		case a.Seed != nil && b.Seed != nil:
			if c := cmp.Compare(*a.Seed, *b.Seed); c != 0 {
				return c
			}
		case a.Seed != nil:
			return -1
		case b.Seed != nil:
			return 1
		}
		return cmp.Compare(a.GamerTag, b.GamerTag)
	})
}

func compareOptionalTime(a, b *time.Time) int {
	switch {
	case a != nil && b != nil:
		return a.Compare(*b)
	case a != nil:
		return -1
	case b != nil:
		return 1
	default:
		return 0
	}
}
