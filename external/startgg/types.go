package startgg

import (
	"encoding/json"
	"strings"
	"time"
)

const bannerImageType = "banner"

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type PageInfo struct {
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type Image struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

type Videogame struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type Phase struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	BracketType string `json:"bracketType"`
}

// Tournament is a tournament node as returned by the owner listing and the
// detail query. Events is nil when upstream did not embed them. IsPrivate is
// only present when a caller selects it; listings skip flagged nodes.
type Tournament struct {
	ID                   int64    `json:"id" validate:"gt=0"`
	Name                 string   `json:"name" validate:"required"`
	Slug                 string   `json:"slug" validate:"required"`
	StartAt              *int64   `json:"startAt" validate:"required"`
	EndAt                *int64   `json:"endAt"`
	Timezone             string   `json:"timezone"`
	RegistrationClosesAt *int64   `json:"registrationClosesAt"`
	IsRegistrationOpen   bool     `json:"isRegistrationOpen"`
	IsOnline             bool     `json:"isOnline"`
	NumAttendees         int      `json:"numAttendees"`
	VenueAddress         string   `json:"venueAddress"`
	VenueName            string   `json:"venueName"`
	City                 string   `json:"city"`
	AddrState            string   `json:"addrState"`
	CountryCode          string   `json:"countryCode"`
	Rules                string   `json:"rules"`
	IsPrivate            bool     `json:"isPrivate"`
	Images               []Image  `json:"images"`
	Events               *[]Event `json:"events"`
}

// Event is an event node. Entrants is nil unless upstream embedded them.
type Event struct {
	ID          int64              `json:"id" validate:"gt=0"`
	Name        string             `json:"name"`
	Slug        string             `json:"slug"`
	StartAt     *int64             `json:"startAt"`
	NumEntrants int                `json:"numEntrants"`
	Type        int                `json:"type"`
	State       string             `json:"state"`
	IsOnline    bool               `json:"isOnline"`
	Videogame   *Videogame         `json:"videogame"`
	Phases      []Phase            `json:"phases"`
	Entrants    *EntrantConnection `json:"entrants"`
}

type EntrantConnection struct {
	PageInfo PageInfo  `json:"pageInfo"`
	Nodes    []Entrant `json:"nodes"`
}

type Participant struct {
	ID       int64  `json:"id"`
	GamerTag string `json:"gamerTag"`
	Prefix   string `json:"prefix"`
}

type Standing struct {
	Placement *int `json:"placement"`
}

type Entrant struct {
	ID             int64         `json:"id" validate:"gt=0"`
	Name           string        `json:"name"`
	InitialSeedNum *int          `json:"initialSeedNum"`
	IsDisqualified bool          `json:"isDisqualified"`
	Standing       *Standing     `json:"standing"`
	Participants   []Participant `json:"participants"`
}

type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// RegistrationStatus summarizes the registration window of one tournament.
type RegistrationStatus struct {
	IsOpen    bool       `json:"is_open"`
	ClosesAt  *time.Time `json:"closes_at"`
	Attendees int        `json:"attendees"`
	Events    int        `json:"events"`
}

type TournamentPage struct {
	PageInfo PageInfo
	Nodes    []Tournament
}

type EntrantPage struct {
	PageInfo PageInfo
	Nodes    []Entrant
}

type tournamentConnection struct {
	PageInfo PageInfo     `json:"pageInfo"`
	Nodes    []Tournament `json:"nodes"`
}

type ownerTournamentsData struct {
	User *struct {
		Tournaments *tournamentConnection `json:"tournaments"`
	} `json:"user"`
}

type tournamentDetailData struct {
	Tournament *Tournament `json:"tournament"`
}

type eventEntrantsData struct {
	Event *struct {
		ID       int64              `json:"id"`
		Name     string             `json:"name"`
		Entrants *EntrantConnection `json:"entrants"`
	} `json:"event"`
}

type currentUserData struct {
	CurrentUser *User `json:"currentUser"`
}

type videogameTournamentsData struct {
	Tournaments *tournamentConnection `json:"tournaments"`
}

// HasEmbeddedEvents reports whether the node carried its event list.
func (t Tournament) HasEmbeddedEvents() bool {
	return t.Events != nil
}

func (t Tournament) EmbeddedEvents() []Event {
	if t.Events == nil {
		return nil
	}
	return *t.Events
}

// PrimaryImageURL is the first image regardless of type.
func (t Tournament) PrimaryImageURL() string {
	if len(t.Images) == 0 {
		return ""
	}
	return t.Images[0].URL
}

func (t Tournament) BannerURL() string {
	for _, img := range t.Images {
		if strings.EqualFold(img.Type, bannerImageType) {
			return img.URL
		}
	}
	return ""
}

func (t Tournament) StartTime() time.Time {
	if t.StartAt == nil {
		return time.Time{}
	}
	return time.Unix(*t.StartAt, 0).UTC()
}

// BracketType is the first phase's bracket type, when phases were loaded.
func (e Event) BracketType() string {
	for _, phase := range e.Phases {
		if phase.BracketType != "" {
			return phase.BracketType
		}
	}
	return ""
}

// FirstParticipant returns the participant display fields are derived from.
func (e Entrant) FirstParticipant() (Participant, bool) {
	if len(e.Participants) == 0 {
		return Participant{}, false
	}
	return e.Participants[0], true
}

func (e Entrant) Placement() *int {
	if e.Standing == nil {
		return nil
	}
	return e.Standing.Placement
}

// UnixTime converts an optional upstream epoch-seconds value.
func UnixTime(v *int64) *time.Time {
	if v == nil || *v <= 0 {
		return nil
	}
	t := time.Unix(*v, 0).UTC()
	return &t
}
