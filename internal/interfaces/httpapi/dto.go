package httpapi

import (
	"time"

	"github.com/riskibarqy/tournament-sync/internal/domain/tournament"
)

type tournamentDTO struct {
	ID                   int64      `json:"id"`
	StartggID            int64      `json:"startgg_id"`
	Slug                 string     `json:"slug"`
	Name                 string     `json:"name"`
	StartAt              time.Time  `json:"start_at"`
	EndAt                *time.Time `json:"end_at"`
	Timezone             string     `json:"timezone,omitempty"`
	VenueName            string     `json:"venue_name,omitempty"`
	VenueAddress         string     `json:"venue_address,omitempty"`
	City                 string     `json:"city,omitempty"`
	State                string     `json:"state,omitempty"`
	CountryCode          string     `json:"country_code,omitempty"`
	IsOnline             bool       `json:"is_online"`
	IsRegistrationOpen   bool       `json:"is_registration_open"`
	RegistrationClosesAt *time.Time `json:"registration_closes_at"`
	NumAttendees         int        `json:"num_attendees"`
	Rules                string     `json:"rules,omitempty"`
	Description          string     `json:"description,omitempty"`
	ImageURL             string     `json:"image_url,omitempty"`
	BannerURL            string     `json:"banner_url,omitempty"`
	URL                  string     `json:"url"`
	Currency             string     `json:"currency"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

type tournamentDetailDTO struct {
	Tournament tournamentDTO `json:"tournament"`
	Events     []eventDTO    `json:"events"`
}

type eventDTO struct {
	ID             int64      `json:"id"`
	TournamentID   int64      `json:"tournament_id"`
	StartggEventID int64      `json:"startgg_event_id"`
	Name           string     `json:"name"`
	Slug           string     `json:"slug"`
	StartAt        *time.Time `json:"start_at"`
	NumEntrants    int        `json:"num_entrants"`
	EntryFee       int64      `json:"entry_fee"`
	State          string     `json:"state"`
	BracketType    string     `json:"bracket_type,omitempty"`
	IsOnline       bool       `json:"is_online"`
	VideogameID    int64      `json:"videogame_id,omitempty"`
	VideogameName  string     `json:"videogame_name,omitempty"`
}

type entrantDTO struct {
	ID               int64  `json:"id"`
	EventID          int64  `json:"event_id"`
	StartggEntrantID int64  `json:"startgg_entrant_id"`
	ParticipantID    int64  `json:"participant_id,omitempty"`
	GamerTag         string `json:"gamer_tag"`
	Prefix           string `json:"prefix,omitempty"`
	FinalPlacement   *int   `json:"final_placement"`
	Seed             *int   `json:"seed"`
	IsDisqualified   bool   `json:"is_disqualified"`
}

func tournamentToDTO(v tournament.Tournament) tournamentDTO {
	return tournamentDTO{
		ID:                   v.ID,
		StartggID:            v.StartggID,
		Slug:                 v.Slug,
		Name:                 v.Name,
		StartAt:              v.StartAt,
		EndAt:                v.EndAt,
		Timezone:             v.Timezone,
		VenueName:            v.VenueName,
		VenueAddress:         v.VenueAddress,
		City:                 v.City,
		State:                v.State,
		CountryCode:          v.CountryCode,
		IsOnline:             v.IsOnline,
		IsRegistrationOpen:   v.IsRegistrationOpen,
		RegistrationClosesAt: v.RegistrationClosesAt,
		NumAttendees:         v.NumAttendees,
		Rules:                v.Rules,
		Description:          v.Description,
		ImageURL:             v.ImageURL,
		BannerURL:            v.BannerURL,
		URL:                  v.URL,
		Currency:             v.Currency,
		UpdatedAt:            v.UpdatedAt,
	}
}

func tournamentsToDTO(items []tournament.Tournament) []tournamentDTO {
	out := make([]tournamentDTO, 0, len(items))
	for _, item := range items {
		out = append(out, tournamentToDTO(item))
	}
	return out
}

func eventsToDTO(items []tournament.Event) []eventDTO {
	out := make([]eventDTO, 0, len(items))
	for _, v := range items {
		out = append(out, eventDTO{
			ID:             v.ID,
			TournamentID:   v.TournamentID,
			StartggEventID: v.StartggEventID,
			Name:           v.Name,
			Slug:           v.Slug,
			StartAt:        v.StartAt,
			NumEntrants:    v.NumEntrants,
			EntryFee:       v.EntryFee,
			State:          v.State,
			BracketType:    v.BracketType,
			IsOnline:       v.IsOnline,
			VideogameID:    v.VideogameID,
			VideogameName:  v.VideogameName,
		})
	}
	return out
}

func entrantsToDTO(items []tournament.Entrant) []entrantDTO {
	out := make([]entrantDTO, 0, len(items))
	for _, v := range items {
		out = append(out, entrantDTO{
			ID:               v.ID,
			EventID:          v.EventID,
			StartggEntrantID: v.StartggEntrantID,
			ParticipantID:    v.ParticipantID,
			GamerTag:         v.GamerTag,
			Prefix:           v.Prefix,
			FinalPlacement:   v.FinalPlacement,
			Seed:             v.Seed,
			IsDisqualified:   v.IsDisqualified,
		})
	}
	return out
}
