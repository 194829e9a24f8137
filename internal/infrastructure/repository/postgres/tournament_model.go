package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/tournament-sync/internal/domain/tournament"
)

const (
	tournamentsTable = "startgg_tournaments"
	eventsTable      = "startgg_events"
	entrantsTable    = "startgg_entrants"
)

type tournamentTableModel struct {
	ID                   int64        `db:"id,readonly"`
	StartggID            int64        `db:"startgg_id"`
	Slug                 string       `db:"slug"`
	Name                 string       `db:"name"`
	StartAt              time.Time    `db:"start_at"`
	EndAt                sql.NullTime `db:"end_at"`
	Timezone             string       `db:"timezone"`
	VenueName            string       `db:"venue_name"`
	VenueAddress         string       `db:"venue_address"`
	City                 string       `db:"city"`
	State                string       `db:"state"`
	CountryCode          string       `db:"country_code"`
	IsOnline             bool         `db:"is_online"`
	IsRegistrationOpen   bool         `db:"is_registration_open"`
	RegistrationClosesAt sql.NullTime `db:"registration_closes_at"`
	NumAttendees         int          `db:"num_attendees"`
	Rules                string       `db:"rules"`
	Description          string       `db:"description"`
	ImageURL             string       `db:"image_url"`
	BannerURL            string       `db:"banner_url"`
	URL                  string       `db:"url"`
	Currency             string       `db:"currency"`
	CreatedAt            time.Time    `db:"created_at"`
	UpdatedAt            time.Time    `db:"updated_at"`
}

type eventTableModel struct {
	ID             int64        `db:"id,readonly"`
	TournamentID   int64        `db:"tournament_id"`
	StartggEventID int64        `db:"startgg_event_id"`
	Name           string       `db:"name"`
	Slug           string       `db:"slug"`
	StartAt        sql.NullTime `db:"start_at"`
	NumEntrants    int          `db:"num_entrants"`
	EntryFee       int64        `db:"entry_fee"`
	State          string       `db:"state"`
	BracketType    string       `db:"bracket_type"`
	IsOnline       bool         `db:"is_online"`
	VideogameID    int64        `db:"videogame_id"`
	VideogameName  string       `db:"videogame_name"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}

type entrantTableModel struct {
	ID               int64         `db:"id,readonly"`
	EventID          int64         `db:"event_id"`
	StartggEntrantID int64         `db:"startgg_entrant_id"`
	ParticipantID    int64         `db:"participant_id"`
	GamerTag         string        `db:"gamer_tag"`
	Prefix           string        `db:"prefix"`
	FinalPlacement   sql.NullInt64 `db:"final_placement"`
	Seed             sql.NullInt64 `db:"seed"`
	IsDisqualified   bool          `db:"is_disqualified"`
	CreatedAt        time.Time     `db:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at"`
}

type statsRow struct {
	TotalTournaments int64 `db:"total_tournaments"`
	OpenRegistration int64 `db:"open_registration"`
	Upcoming         int64 `db:"upcoming"`
	TotalAttendees   int64 `db:"total_attendees"`
}

func tournamentToRow(item tournament.Tournament) tournamentTableModel {
	return tournamentTableModel{
		ID:                   item.ID,
		StartggID:            item.StartggID,
		Slug:                 item.Slug,
		Name:                 item.Name,
		StartAt:              item.StartAt.UTC(),
		EndAt:                nullTime(item.EndAt),
		Timezone:             item.Timezone,
		VenueName:            item.VenueName,
		VenueAddress:         item.VenueAddress,
		City:                 item.City,
		State:                item.State,
		CountryCode:          item.CountryCode,
		IsOnline:             item.IsOnline,
		IsRegistrationOpen:   item.IsRegistrationOpen,
		RegistrationClosesAt: nullTime(item.RegistrationClosesAt),
		NumAttendees:         item.NumAttendees,
		Rules:                item.Rules,
		Description:          item.Description,
		ImageURL:             item.ImageURL,
		BannerURL:            item.BannerURL,
		URL:                  item.URL,
		Currency:             item.Currency,
		CreatedAt:            item.CreatedAt.UTC(),
		UpdatedAt:            item.UpdatedAt.UTC(),
	}
}

func tournamentFromRow(row tournamentTableModel) tournament.Tournament {
	return tournament.Tournament{
		ID:                   row.ID,
		StartggID:            row.StartggID,
		Slug:                 row.Slug,
		Name:                 row.Name,
		StartAt:              row.StartAt.UTC(),
		EndAt:                timePtr(row.EndAt),
		Timezone:             row.Timezone,
		VenueName:            row.VenueName,
		VenueAddress:         row.VenueAddress,
		City:                 row.City,
		State:                row.State,
		CountryCode:          row.CountryCode,
		IsOnline:             row.IsOnline,
		IsRegistrationOpen:   row.IsRegistrationOpen,
		RegistrationClosesAt: timePtr(row.RegistrationClosesAt),
		NumAttendees:         row.NumAttendees,
		Rules:                row.Rules,
		Description:          row.Description,
		ImageURL:             row.ImageURL,
		BannerURL:            row.BannerURL,
		URL:                  row.URL,
		Currency:             row.Currency,
		CreatedAt:            row.CreatedAt.UTC(),
		UpdatedAt:            row.UpdatedAt.UTC(),
	}
}

func eventToRow(item tournament.Event) eventTableModel {
	return eventTableModel{
		ID:             item.ID,
		TournamentID:   item.TournamentID,
		StartggEventID: item.StartggEventID,
		Name:           item.Name,
		Slug:           item.Slug,
		StartAt:        nullTime(item.StartAt),
		NumEntrants:    item.NumEntrants,
		EntryFee:       item.EntryFee,
		State:          item.State,
		BracketType:    item.BracketType,
		IsOnline:       item.IsOnline,
		VideogameID:    item.VideogameID,
		VideogameName:  item.VideogameName,
		CreatedAt:      item.CreatedAt.UTC(),
		UpdatedAt:      item.UpdatedAt.UTC(),
	}
}

func eventFromRow(row eventTableModel) tournament.Event {
	return tournament.Event{
		ID:             row.ID,
		TournamentID:   row.TournamentID,
		StartggEventID: row.StartggEventID,
		Name:           row.Name,
		Slug:           row.Slug,
		StartAt:        timePtr(row.StartAt),
		NumEntrants:    row.NumEntrants,
		EntryFee:       row.EntryFee,
		State:          row.State,
		BracketType:    row.BracketType,
		IsOnline:       row.IsOnline,
		VideogameID:    row.VideogameID,
		VideogameName:  row.VideogameName,
		CreatedAt:      row.CreatedAt.UTC(),
		UpdatedAt:      row.UpdatedAt.UTC(),
	}
}

func entrantToRow(item tournament.Entrant) entrantTableModel {
	return entrantTableModel{
		ID:               item.ID,
		EventID:          item.EventID,
		StartggEntrantID: item.StartggEntrantID,
		ParticipantID:    item.ParticipantID,
		GamerTag:         item.GamerTag,
		Prefix:           item.Prefix,
		FinalPlacement:   nullInt(item.FinalPlacement),
		Seed:             nullInt(item.Seed),
		IsDisqualified:   item.IsDisqualified,
		CreatedAt:        item.CreatedAt.UTC(),
		UpdatedAt:        item.UpdatedAt.UTC(),
	}
}

func entrantFromRow(row entrantTableModel) tournament.Entrant {
	return tournament.Entrant{
		ID:               row.ID,
		EventID:          row.EventID,
		StartggEntrantID: row.StartggEntrantID,
		ParticipantID:    row.ParticipantID,
		GamerTag:         row.GamerTag,
		Prefix:           row.Prefix,
		FinalPlacement:   intPtr(row.FinalPlacement),
		Seed:             intPtr(row.Seed),
		IsDisqualified:   row.IsDisqualified,
		CreatedAt:        row.CreatedAt.UTC(),
		UpdatedAt:        row.UpdatedAt.UTC(),
	}
}
