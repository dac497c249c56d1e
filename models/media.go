package models

// Genre is a media genre. Name may be empty when the upstream source only
// provided numeric genre ids (TMDB list responses without expansion).
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Country is a production country. Origin-country codes are carried as-is
// in Name; they are not expanded to display names.
type Country struct {
	Name string `json:"name"`
}

// Media is the canonical shape every upstream record is reduced to before
// it leaves the metadata service. Constructed fresh per request, never
// persisted, never mutated after construction.
type Media struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	OriginalTitle string    `json:"originalTitle,omitempty"`
	Overview      string    `json:"overview,omitempty"`
	PosterPath    string    `json:"posterPath,omitempty"`
	BackdropPath  string    `json:"backdropPath,omitempty"`
	ReleaseDate   string    `json:"releaseDate,omitempty"`
	Year          string    `json:"year,omitempty"`
	VoteAverage   float64   `json:"voteAverage"`
	VoteCount     int       `json:"voteCount"`
	Genres        []Genre   `json:"genres"`
	Runtime       int       `json:"runtime,omitempty"`
	IMDBID        string    `json:"imdbId,omitempty"`
	KinopoiskID   int       `json:"kinopoiskId,omitempty"`
	MediaType     string    `json:"mediaType,omitempty"` // movie | tv
	IsSerial      bool      `json:"isSerial,omitempty"`
	Countries     []Country `json:"countries"`
}

// ExternalIDs carries cross-namespace identifiers for one title, as
// returned by the external-ids lookup endpoint.
type ExternalIDs struct {
	IMDBID      string `json:"imdb_id,omitempty"`
	KinopoiskID int    `json:"kinopoisk_id,omitempty"`
}
