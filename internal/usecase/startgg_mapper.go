package usecase

import (
	"strings"

	"github.com/gosimple/slug"
	"github.com/riskibarqy/tournament-sync/external/startgg"
	"github.com/riskibarqy/tournament-sync/internal/domain/tournament"
)

// mapRemoteTournament leaves Description, Currency and URL empty since the
// queries do not select them. Normalize fills Currency and URL.
func mapRemoteTournament(node startgg.Tournament) tournament.Tournament {
	return tournament.Tournament{
		StartggID:            node.ID,
		Slug:                 strings.TrimSpace(node.Slug),
		Name:                 strings.TrimSpace(node.Name),
		StartAt:              node.StartTime(),
		EndAt:                startgg.UnixTime(node.EndAt),
		Timezone:             node.Timezone,
		VenueName:            node.VenueName,
		VenueAddress:         node.VenueAddress,
		City:                 node.City,
		State:                node.AddrState,
		CountryCode:          node.CountryCode,
		IsOnline:             node.IsOnline,
		IsRegistrationOpen:   node.IsRegistrationOpen,
		RegistrationClosesAt: startgg.UnixTime(node.RegistrationClosesAt),
		NumAttendees:         node.NumAttendees,
		Rules:                node.Rules,
		ImageURL:             node.PrimaryImageURL(),
		BannerURL:            node.BannerURL(),
	}
}

// mapRemoteEvent leaves EntryFee at zero.
func mapRemoteEvent(node startgg.Event) tournament.Event {
	out := tournament.Event{
		StartggEventID: node.ID,
		Name:           strings.TrimSpace(node.Name),
		Slug:           strings.TrimSpace(node.Slug),
		StartAt:        startgg.UnixTime(node.StartAt),
		NumEntrants:    node.NumEntrants,
		State:          node.State,
		BracketType:    node.BracketType(),
		IsOnline:       node.IsOnline,
	}
	if out.Slug == "" && out.Name != "" {
		out.Slug = slug.Make(out.Name)
	}
	if node.Videogame != nil {
		out.VideogameID = node.Videogame.ID
		out.VideogameName = node.Videogame.Name
		if out.VideogameName == "" {
			out.VideogameName = node.Videogame.DisplayName
		}
	}
	return out
}

// mapRemoteEntrant takes display fields from the first participant. An entrant
// without participants keeps the placeholder tag set by Normalize.
func mapRemoteEntrant(node startgg.Entrant) tournament.Entrant {
	out := tournament.Entrant{
		StartggEntrantID: node.ID,
		FinalPlacement:   node.Placement(),
		Seed:             node.InitialSeedNum,
		IsDisqualified:   node.IsDisqualified,
	}
	if participant, ok := node.FirstParticipant(); ok {
		out.ParticipantID = participant.ID
		out.GamerTag = strings.TrimSpace(participant.GamerTag)
		out.Prefix = strings.TrimSpace(participant.Prefix)
	}
	return out.Normalize()
}
