package tournament

import "time"

// MergeTournament applies a fresh remote observation over the stored row.
// Every mutable field is replaced; local identity and creation time are kept.
func MergeTournament(stored, incoming Tournament, now time.Time) Tournament {
	incoming = incoming.Normalize()

	merged := stored
	merged.StartggID = incoming.StartggID
	merged.Slug = incoming.Slug
	merged.Name = incoming.Name
	merged.StartAt = incoming.StartAt
	merged.EndAt = incoming.EndAt
	merged.Timezone = incoming.Timezone
	merged.VenueName = incoming.VenueName
	merged.VenueAddress = incoming.VenueAddress
	merged.City = incoming.City
	merged.State = incoming.State
	merged.CountryCode = incoming.CountryCode
	merged.IsOnline = incoming.IsOnline
	merged.IsRegistrationOpen = incoming.IsRegistrationOpen
	merged.RegistrationClosesAt = incoming.RegistrationClosesAt
	merged.NumAttendees = incoming.NumAttendees
	merged.Rules = incoming.Rules
	merged.Description = incoming.Description
	merged.ImageURL = incoming.ImageURL
	merged.BannerURL = incoming.BannerURL
	merged.URL = incoming.URL
	merged.Currency = incoming.Currency
	merged.UpdatedAt = now
	return merged
}

// MergeEvent replaces every mutable event field; ID, TournamentID and CreatedAt stay.
func MergeEvent(stored, incoming Event, now time.Time) Event {
	incoming = incoming.Normalize()

	merged := stored
	merged.StartggEventID = incoming.StartggEventID
	merged.Name = incoming.Name
	merged.Slug = incoming.Slug
	merged.StartAt = incoming.StartAt
	merged.NumEntrants = incoming.NumEntrants
	merged.EntryFee = incoming.EntryFee
	merged.State = incoming.State
	merged.BracketType = incoming.BracketType
	merged.IsOnline = incoming.IsOnline
	merged.VideogameID = incoming.VideogameID
	merged.VideogameName = incoming.VideogameName
	merged.UpdatedAt = now
	return merged
}

// MergeEntrant replaces every mutable entrant field; ID, EventID and CreatedAt stay.
// A nil placement or seed from upstream clears the stored value.
func MergeEntrant(stored, incoming Entrant, now time.Time) Entrant {
	incoming = incoming.Normalize()

	merged := stored
	merged.StartggEntrantID = incoming.StartggEntrantID
	merged.ParticipantID = incoming.ParticipantID
	merged.GamerTag = incoming.GamerTag
	merged.Prefix = incoming.Prefix
	merged.FinalPlacement = incoming.FinalPlacement
	merged.Seed = incoming.Seed
	merged.IsDisqualified = incoming.IsDisqualified
	merged.UpdatedAt = now
	return merged
}

// NewTournament prepares a first observation for insert.
func NewTournament(incoming Tournament, now time.Time) Tournament {
	t := incoming.Normalize()
	t.ID = 0
	t.CreatedAt = now
	t.UpdatedAt = now
	return t
}

func NewEvent(tournamentID int64, incoming Event, now time.Time) Event {
	e := incoming.Normalize()
	e.ID = 0
	e.TournamentID = tournamentID
	e.CreatedAt = now
	e.UpdatedAt = now
	return e
}

func NewEntrant(eventID int64, incoming Entrant, now time.Time) Entrant {
	e := incoming.Normalize()
	e.ID = 0
	e.EventID = eventID
	e.CreatedAt = now
	e.UpdatedAt = now
	return e
}
