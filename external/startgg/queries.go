package startgg

const tournamentFields = `
      id
      name
      slug
      startAt
      endAt
      timezone
      registrationClosesAt
      isRegistrationOpen
      isOnline
      numAttendees
      venueAddress
      venueName
      city
      addrState
      countryCode
      rules
      images {
        url
        type
      }`

const eventFields = `
        id
        name
        slug
        startAt
        numEntrants
        type
        state
        isOnline
        videogame {
          id
          name
          displayName
        }
        phases {
          id
          name
          bracketType
        }`

const tournamentsByOwnerQuery = `query TournamentsByOwner($ownerId: ID!, $page: Int!, $perPage: Int!) {
  user(id: $ownerId) {
    tournaments(query: {page: $page, perPage: $perPage, sortBy: "startAt asc"}) {
      pageInfo {
        total
        totalPages
      }
      nodes {` + tournamentFields + `
        events {` + eventFields + `
        }
      }
    }
  }
}`

const tournamentBySlugQuery = `query TournamentDetails($slug: String!) {
  tournament(slug: $slug) {` + tournamentFields + `
    events {` + eventFields + `
    }
  }
}`

const eventEntrantsQuery = `query EventEntrants($eventId: ID!, $page: Int!, $perPage: Int!) {
  event(id: $eventId) {
    id
    name
    entrants(query: {page: $page, perPage: $perPage}) {
      pageInfo {
        total
        totalPages
      }
      nodes {
        id
        name
        initialSeedNum
        isDisqualified
        standing {
          placement
        }
        participants {
          id
          gamerTag
          prefix
        }
      }
    }
  }
}`

const currentUserQuery = `query CurrentUser {
  currentUser {
    id
    name
    slug
  }
}`

const tournamentsByVideogameQuery = `query TournamentsByVideogame($videogameId: ID!, $page: Int!, $perPage: Int!) {
  tournaments(query: {
    page: $page
    perPage: $perPage
    sortBy: "startAt asc"
    filter: {videogameIds: [$videogameId], upcoming: true}
  }) {
    pageInfo {
      total
      totalPages
    }
    nodes {
      id
      name
      slug
      startAt
      city
      addrState
      numAttendees
      isRegistrationOpen
    }
  }
}`
