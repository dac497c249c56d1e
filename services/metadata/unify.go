package metadata

import (
	"strconv"
	"strings"

	"kinolab/models"
)

// PlaceholderTitle is used when no upstream title field is present.
const PlaceholderTitle = "Untitled"

// kinopoiskCDNSubstring marks poster URLs served from Kinopoisk
// infrastructure; its presence classifies a record as Kinopoisk-shaped.
const kinopoiskCDNSubstring = "kinopoisk"

// Number accepts either a JSON number or a numeric string. Some upstreams
// return ratings and years as strings. Malformed values decode to zero
// instead of failing the whole record.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}

// RawGenre decodes a genre entry from any known source shape: Kinopoisk
// entries carry only {genre}, TMDB entries carry {id, name}.
type RawGenre struct {
	ID    *int    `json:"id"`
	Name  *string `json:"name"`
	Genre *string `json:"genre"`
}

// RawCountry decodes a country entry: Kinopoisk entries carry {country},
// TMDB production_countries carry {name}.
type RawCountry struct {
	Name    *string `json:"name"`
	Country *string `json:"country"`
}

// RawMedia is the optional-everything view of an upstream media record.
// It decodes any of the known source shapes (a TMDB movie/TV detail or
// list item, a Kinopoisk film or film-short response, a pre-unified
// search result) without enforcing a schema: no field is guaranteed
// present and all access goes through the first-present helpers below.
type RawMedia struct {
	ID               *int `json:"id"`
	KinopoiskID      *int `json:"kinopoiskId"`
	KinopoiskIDSnake *int `json:"kinopoisk_id"`
	FilmID           *int `json:"filmId"`

	IMDBID      *string `json:"imdbId"`
	IMDBIDSnake *string `json:"imdb_id"`

	NameRu        *string `json:"nameRu"`
	NameEn        *string `json:"nameEn"`
	NameOriginal  *string `json:"nameOriginal"`
	Title         *string `json:"title"`
	Name          *string `json:"name"`
	OriginalTitle *string `json:"original_title"`
	OriginalName  *string `json:"original_name"`

	Overview    *string `json:"overview"`
	Description *string `json:"description"`

	PosterURLPreview *string `json:"posterUrlPreview"`
	PosterURL        *string `json:"posterUrl"`
	PosterPath       *string `json:"poster_path"`
	CoverURL         *string `json:"coverUrl"`
	BackdropPath     *string `json:"backdrop_path"`

	RatingKinopoisk *float64 `json:"ratingKinopoisk"`
	RatingImdb      *float64 `json:"ratingImdb"`
	Rating          *Number  `json:"rating"`
	VoteAverage     *float64 `json:"vote_average"`

	VoteCount       *int `json:"vote_count"`
	RatingVoteCount *int `json:"ratingVoteCount"`

	Year         *Number `json:"year"`
	ReleaseDate  *string `json:"release_date"`
	FirstAirDate *string `json:"first_air_date"`

	Genres   []RawGenre `json:"genres"`
	GenreIDs []int      `json:"genre_ids"`

	Countries           []RawCountry `json:"countries"`
	ProductionCountries []RawCountry `json:"production_countries"`
	OriginCountry       []string     `json:"origin_country"`

	FilmLength *int    `json:"filmLength"`
	Runtime    *int    `json:"runtime"`
	MediaType  *string `json:"media_type"`
	Serial     *bool   `json:"serial"`
}

// firstString returns the first non-nil, non-empty candidate.
func firstString(candidates ...*string) string {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return *c
		}
	}
	return ""
}

// firstInt returns the first non-nil candidate and whether one was found.
func firstInt(candidates ...*int) (int, bool) {
	for _, c := range candidates {
		if c != nil {
			return *c, true
		}
	}
	return 0, false
}

// isKinopoiskShaped reports whether the record carries any field that only
// Kinopoisk-compatible responses have. Classification only disambiguates
// which numeric id belongs to which namespace; field probing itself is
// shape-agnostic.
func isKinopoiskShaped(raw RawMedia) bool {
	if raw.KinopoiskID != nil || raw.FilmID != nil || raw.KinopoiskIDSnake != nil {
		return true
	}
	if raw.NameRu != nil || raw.NameEn != nil || raw.NameOriginal != nil {
		return true
	}
	if raw.PosterURLPreview != nil || raw.PosterURL != nil || raw.RatingKinopoisk != nil {
		return true
	}
	poster := firstString(raw.PosterURLPreview, raw.PosterURL, raw.PosterPath)
	return strings.Contains(poster, kinopoiskCDNSubstring)
}

// isTMDBShaped reports whether a non-Kinopoisk record looks like a TMDB
// response, meaning its raw id lives in the TMDB namespace.
func isTMDBShaped(raw RawMedia) bool {
	if isKinopoiskShaped(raw) {
		return false
	}
	return raw.PosterPath != nil || raw.BackdropPath != nil || raw.VoteAverage != nil
}

// yearOf extracts the year portion of an ISO-like YYYY-MM-DD date.
func yearOf(date string) string {
	if len(date) >= 4 {
		if _, err := strconv.Atoi(date[:4]); err == nil {
			return date[:4]
		}
	}
	return ""
}

func unifyGenres(raw RawMedia) []models.Genre {
	if len(raw.Genres) > 0 {
		genres := make([]models.Genre, 0, len(raw.Genres))
		for i, g := range raw.Genres {
			switch {
			case g.Genre != nil:
				// Kinopoisk entries have no numeric ids; the positional
				// index stands in for one.
				genres = append(genres, models.Genre{ID: i, Name: *g.Genre})
			case g.Name != nil:
				id := i
				if g.ID != nil {
					id = *g.ID
				}
				genres = append(genres, models.Genre{ID: id, Name: *g.Name})
			}
		}
		return genres
	}
	if len(raw.GenreIDs) > 0 {
		// Unexpanded TMDB list shape. Names stay empty: this function does
		// not own a genre-id-to-name table.
		genres := make([]models.Genre, 0, len(raw.GenreIDs))
		for _, id := range raw.GenreIDs {
			genres = append(genres, models.Genre{ID: id})
		}
		return genres
	}
	return []models.Genre{}
}

func unifyCountries(raw RawMedia) []models.Country {
	fromEntries := func(entries []RawCountry) []models.Country {
		countries := make([]models.Country, 0, len(entries))
		for _, c := range entries {
			switch {
			case c.Country != nil:
				countries = append(countries, models.Country{Name: *c.Country})
			case c.Name != nil:
				countries = append(countries, models.Country{Name: *c.Name})
			}
		}
		return countries
	}
	if len(raw.Countries) > 0 {
		return fromEntries(raw.Countries)
	}
	if len(raw.ProductionCountries) > 0 {
		return fromEntries(raw.ProductionCountries)
	}
	if len(raw.OriginCountry) > 0 {
		// Country codes are carried as-is, not expanded to display names.
		countries := make([]models.Country, 0, len(raw.OriginCountry))
		for _, code := range raw.OriginCountry {
			countries = append(countries, models.Country{Name: code})
		}
		return countries
	}
	return []models.Country{}
}

func unifyRating(raw RawMedia) float64 {
	if raw.RatingKinopoisk != nil {
		return *raw.RatingKinopoisk
	}
	if raw.RatingImdb != nil {
		return *raw.RatingImdb
	}
	if raw.Rating != nil && *raw.Rating != 0 {
		return float64(*raw.Rating)
	}
	if raw.VoteAverage != nil {
		return *raw.VoteAverage
	}
	return 0
}

// Unify reduces an upstream record of any known shape to the canonical
// Media form. It is pure and total: every output field has a defined
// fallback and no input causes an error.
func Unify(raw RawMedia) models.Media {
	kinopoiskID, hasKinopoiskID := firstInt(raw.KinopoiskID, raw.FilmID, raw.KinopoiskIDSnake)
	if !hasKinopoiskID && isKinopoiskShaped(raw) && raw.ID != nil {
		// Kinopoisk responses that only carry a bare id: that id lives in
		// the Kinopoisk namespace.
		kinopoiskID = *raw.ID
		hasKinopoiskID = true
	}

	id := 0
	switch {
	case hasKinopoiskID:
		id = kinopoiskID
	case raw.ID != nil:
		id = *raw.ID
	}
	if id < 0 {
		id = 0
	}
	if kinopoiskID < 0 {
		kinopoiskID = 0
		hasKinopoiskID = false
	}

	title := firstString(raw.NameRu, raw.NameEn, raw.NameOriginal, raw.Title, raw.Name)
	if title == "" {
		title = PlaceholderTitle
	}

	releaseDate := firstString(raw.ReleaseDate, raw.FirstAirDate)

	year := ""
	if raw.Year != nil && *raw.Year > 0 {
		year = strconv.Itoa(int(*raw.Year))
	}
	if year == "" {
		year = yearOf(releaseDate)
	}

	voteCount, _ := firstInt(raw.VoteCount, raw.RatingVoteCount)
	if voteCount < 0 {
		voteCount = 0
	}

	runtime, _ := firstInt(raw.Runtime, raw.FilmLength)

	voteAverage := unifyRating(raw)
	if voteAverage < 0 {
		voteAverage = 0
	}

	mediaType := ""
	if raw.MediaType != nil && (*raw.MediaType == "movie" || *raw.MediaType == "tv") {
		mediaType = *raw.MediaType
	}
	isSerial := mediaType == "tv"
	if raw.Serial != nil {
		isSerial = *raw.Serial
	}

	out := models.Media{
		ID:            id,
		Title:         title,
		OriginalTitle: firstString(raw.NameOriginal, raw.NameEn, raw.OriginalTitle, raw.OriginalName),
		Overview:      firstString(raw.Overview, raw.Description),
		PosterPath:    firstString(raw.PosterURLPreview, raw.PosterURL, raw.PosterPath),
		BackdropPath:  firstString(raw.CoverURL, raw.BackdropPath),
		ReleaseDate:   releaseDate,
		Year:          year,
		VoteAverage:   voteAverage,
		VoteCount:     voteCount,
		Genres:        unifyGenres(raw),
		Runtime:       runtime,
		IMDBID:        firstString(raw.IMDBID, raw.IMDBIDSnake),
		MediaType:     mediaType,
		IsSerial:      isSerial,
		Countries:     unifyCountries(raw),
	}
	if hasKinopoiskID {
		out.KinopoiskID = kinopoiskID
	}
	return out
}
