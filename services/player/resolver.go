// Package player builds embeddable playback URLs for the supported
// third-party streaming backends from a resolved identifier set.
package player

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNotConfigured means the player base URL is missing from the
	// deployment configuration. Operator defect, not a data gap.
	ErrNotConfigured = errors.New("player base url is not configured")

	// ErrNoIdentifiers means none of the identifiers the requested backend
	// accepts is available for this title. Expected and frequent; callers
	// render it as "player unavailable".
	ErrNoIdentifiers = errors.New("no usable identifier for this player")
)

const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

// InferMediaType derives the media type from the presence of playback
// selectors: a request is TV if and only if both season and episode are
// supplied. A season without an episode still counts as a movie; that
// rule is inherited from the web clients and kept as-is.
func InferMediaType(season, episode int) string {
	if season > 0 && episode > 0 {
		return MediaTypeTV
	}
	return MediaTypeMovie
}

// Request carries everything needed to resolve one playback URL. It lives
// for the duration of a single Resolve call.
type Request struct {
	Player      string
	IMDBID      string
	KinopoiskID int
	InternalID  string
	Season      int
	Episode     int
}

type identifierKind int

const (
	kindKinopoisk identifierKind = iota
	kindIMDB
	kindInternal
)

type route struct {
	kind identifierKind
	path string
}

// backend describes one playback backend: which identifiers it accepts,
// in preference order, and whether it understands season/episode.
type backend struct {
	routes      []route // tried in order until an identifier is available
	tvRoutes    []route // replaces routes for TV requests; nil means no branch
	seasonQuery bool    // append ?season=&episode= when both are supplied
}

const defaultPlayer = "alloha"

// backends is the state-free dispatch table keyed by player name. Unknown
// players fall back to the alloha entry.
var backends = map[string]backend{
	"alloha": {
		routes:      []route{{kindKinopoisk, "alloha/kp/%s"}, {kindIMDB, "alloha/imdb/%s"}},
		seasonQuery: true,
	},
	"lumex": {
		routes: []route{{kindKinopoisk, "lumex/kp/%s"}, {kindIMDB, "lumex/imdb/%s"}},
	},
	"vibix": {
		routes: []route{{kindKinopoisk, "vibix/kp/%s"}, {kindIMDB, "vibix/imdb/%s"}},
	},
	"hdvb": {
		routes: []route{{kindKinopoisk, "hdvb/kp/%s"}, {kindIMDB, "hdvb/imdb/%s"}},
	},
	"vidsrc": {
		routes:      []route{{kindIMDB, "vidsrc/imdb/%s"}},
		seasonQuery: true,
	},
	"vidlink": {
		// vidlink has no kinopoisk or imdb path for TV content; the
		// internal id is the only handle it accepts there.
		routes:      []route{{kindIMDB, "vidlink/movie/%s"}},
		tvRoutes:    []route{{kindInternal, "vidlink/tv/%s"}},
		seasonQuery: true,
	},
}

// Resolver builds playback URLs against a configured embed base URL. It
// holds no mutable state and is safe for concurrent use.
type Resolver struct {
	Base string
}

// Resolve walks the identifier preference order of the requested backend
// and returns the first constructible URL. It returns ErrNoIdentifiers
// when the backend cannot address this title and ErrNotConfigured when
// the base URL is missing. Identical inputs always yield identical URLs.
func (r Resolver) Resolve(req Request) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(r.Base), "/")
	if base == "" {
		return "", ErrNotConfigured
	}

	b, ok := backends[req.Player]
	if !ok {
		b = backends[defaultPlayer]
	}

	mediaType := InferMediaType(req.Season, req.Episode)
	routes := b.routes
	if mediaType == MediaTypeTV && b.tvRoutes != nil {
		routes = b.tvRoutes
	}

	for _, rt := range routes {
		var id string
		switch rt.kind {
		case kindKinopoisk:
			if req.KinopoiskID > 0 {
				id = strconv.Itoa(req.KinopoiskID)
			}
		case kindIMDB:
			id = strings.TrimSpace(req.IMDBID)
		case kindInternal:
			id = strings.TrimSpace(req.InternalID)
		}
		if id == "" {
			continue
		}

		u := base + "/" + fmt.Sprintf(rt.path, id)
		if b.seasonQuery && mediaType == MediaTypeTV {
			u += fmt.Sprintf("?season=%d&episode=%d", req.Season, req.Episode)
		}
		return u, nil
	}

	return "", ErrNoIdentifiers
}
