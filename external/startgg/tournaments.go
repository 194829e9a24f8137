package startgg

import (
	"context"
	"fmt"
	"strings"
	"time"
)

func (c *Client) TournamentsByOwner(ctx context.Context, ownerID string, page, perPage int) (TournamentPage, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return TournamentPage{}, fmt.Errorf("owner id is required")
	}
	page = positiveOr(page, 1)
	perPage = positiveOr(perPage, c.tournamentPageSize())

	var data ownerTournamentsData
	_, err := c.Query(ctx, tournamentsByOwnerQuery, map[string]any{
		"ownerId": ownerID,
		"page":    page,
		"perPage": perPage,
	}, &data)
	if err != nil {
		return TournamentPage{}, fmt.Errorf("fetch tournaments owner_id=%s page=%d: %w", ownerID, page, err)
	}
	if data.User == nil || data.User.Tournaments == nil {
		return TournamentPage{}, &ProtocolError{StatusCode: 200, Message: "Unexpected API response structure"}
	}

	return TournamentPage{PageInfo: data.User.Tournaments.PageInfo, Nodes: data.User.Tournaments.Nodes}, nil
}

// AllTournamentsByOwner drains every page of the owner's tournaments, stopping
// at the page cap.
func (c *Client) AllTournamentsByOwner(ctx context.Context, ownerID string) ([]Tournament, error) {
	out := make([]Tournament, 0, c.tournamentPageSize())
	for page := 1; ; page++ {
		if page > c.maxPages {
			c.logger.WarnContext(ctx, "startgg page cap reached", "operation", "TournamentsByOwner", "owner_id", ownerID, "max_pages", c.maxPages)
			break
		}
		result, err := c.TournamentsByOwner(ctx, ownerID, page, c.tournamentPageSize())
		if err != nil {
			return nil, err
		}
		out = append(out, result.Nodes...)
		if page >= maxInt(result.PageInfo.TotalPages, 1) {
			break
		}
	}
	return out, nil
}

// UpcomingTournaments returns the owner's tournaments starting at or after
// cutoff. A zero cutoff means now. Nodes flagged private are dropped.
func (c *Client) UpcomingTournaments(ctx context.Context, ownerID string, cutoff time.Time) ([]Tournament, error) {
	if cutoff.IsZero() {
		cutoff = c.now()
	}
	all, err := c.AllTournamentsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	threshold := cutoff.Unix()
	out := make([]Tournament, 0, len(all))
	for _, item := range all {
		if item.IsPrivate || item.StartAt == nil {
			continue
		}
		if *item.StartAt >= threshold {
			out = append(out, item)
		}
	}
	return out, nil
}

// PublicTournaments narrows the upcoming set to tournaments that accept
// registrations or have not started yet.
func (c *Client) PublicTournaments(ctx context.Context, ownerID string) ([]Tournament, error) {
	upcoming, err := c.UpcomingTournaments(ctx, ownerID, time.Time{})
	if err != nil {
		return nil, err
	}

	now := c.now().Unix()
	out := upcoming[:0]
	for _, item := range upcoming {
		if item.IsRegistrationOpen || *item.StartAt > now {
			out = append(out, item)
		}
	}
	return out, nil
}

// TournamentBySlug returns the detail node with embedded events. ok is false
// when upstream answers with a null tournament.
func (c *Client) TournamentBySlug(ctx context.Context, slug string) (Tournament, bool, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Tournament{}, false, fmt.Errorf("tournament slug is required")
	}

	var data tournamentDetailData
	if _, err := c.Query(ctx, tournamentBySlugQuery, map[string]any{"slug": slug}, &data); err != nil {
		return Tournament{}, false, fmt.Errorf("fetch tournament slug=%s: %w", slug, err)
	}
	if data.Tournament == nil {
		return Tournament{}, false, nil
	}
	return *data.Tournament, true, nil
}

func (c *Client) RegistrationStatus(ctx context.Context, slug string) (RegistrationStatus, error) {
	item, ok, err := c.TournamentBySlug(ctx, slug)
	if err != nil {
		return RegistrationStatus{}, err
	}
	if !ok {
		return RegistrationStatus{}, fmt.Errorf("%w: slug=%s", ErrTournamentNotFound, slug)
	}

	return RegistrationStatus{
		IsOpen:    item.IsRegistrationOpen,
		ClosesAt:  UnixTime(item.RegistrationClosesAt),
		Attendees: item.NumAttendees,
		Events:    len(item.EmbeddedEvents()),
	}, nil
}

// TournamentsByVideogame lists public upcoming tournaments for one game.
func (c *Client) TournamentsByVideogame(ctx context.Context, videogameID int64, page int) (TournamentPage, error) {
	if videogameID <= 0 {
		return TournamentPage{}, fmt.Errorf("videogame id must be greater than zero")
	}
	page = positiveOr(page, 1)

	var data videogameTournamentsData
	_, err := c.Query(ctx, tournamentsByVideogameQuery, map[string]any{
		"videogameId": videogameID,
		"page":        page,
		"perPage":     c.tournamentPageSize(),
	}, &data)
	if err != nil {
		return TournamentPage{}, fmt.Errorf("fetch tournaments videogame_id=%d page=%d: %w", videogameID, page, err)
	}
	if data.Tournaments == nil {
		return TournamentPage{}, nil
	}
	return TournamentPage{PageInfo: data.Tournaments.PageInfo, Nodes: data.Tournaments.Nodes}, nil
}

func (c *Client) EventEntrants(ctx context.Context, eventID int64, page, perPage int) (EntrantPage, error) {
	if eventID <= 0 {
		return EntrantPage{}, fmt.Errorf("event id must be greater than zero")
	}
	page = positiveOr(page, 1)
	perPage = positiveOr(perPage, c.entrantPageSize())

	var data eventEntrantsData
	_, err := c.Query(ctx, eventEntrantsQuery, map[string]any{
		"eventId": eventID,
		"page":    page,
		"perPage": perPage,
	}, &data)
	if err != nil {
		return EntrantPage{}, fmt.Errorf("fetch entrants event_id=%d page=%d: %w", eventID, page, err)
	}
	if data.Event == nil || data.Event.Entrants == nil {
		return EntrantPage{}, nil
	}
	return EntrantPage{PageInfo: data.Event.Entrants.PageInfo, Nodes: data.Event.Entrants.Nodes}, nil
}

func (c *Client) AllEventEntrants(ctx context.Context, eventID int64) ([]Entrant, error) {
	out := make([]Entrant, 0, c.entrantPageSize())
	for page := 1; ; page++ {
		if page > c.maxPages {
			c.logger.WarnContext(ctx, "startgg page cap reached", "operation", "EventEntrants", "event_id", eventID, "max_pages", c.maxPages)
			break
		}
		result, err := c.EventEntrants(ctx, eventID, page, c.entrantPageSize())
		if err != nil {
			return nil, err
		}
		out = append(out, result.Nodes...)
		if page >= maxInt(result.PageInfo.TotalPages, 1) {
			break
		}
	}
	return out, nil
}

// CurrentUser returns the account the token belongs to together with the raw
// response body.
func (c *Client) CurrentUser(ctx context.Context) (User, []byte, error) {
	var data currentUserData
	raw, err := c.Query(ctx, currentUserQuery, nil, &data)
	if err != nil {
		return User{}, raw, fmt.Errorf("fetch current user: %w", err)
	}
	if data.CurrentUser == nil {
		return User{}, raw, &ProtocolError{StatusCode: 200, Message: "API authentication failed"}
	}
	return *data.CurrentUser, raw, nil
}

func (c *Client) tournamentPageSize() int {
	return positiveOr(c.pageSize, DefaultTournamentPageSize)
}

func (c *Client) entrantPageSize() int {
	return positiveOr(c.entrants, DefaultEntrantPageSize)
}
