package torrents

import "strings"

// ParseQuality extracts the resolution tag from a release name.
// Returns "" when no resolution token is present.
func ParseQuality(title string) string {
	switch resolution(title) {
	case 2160:
		return "2160p"
	case 1080:
		return "1080p"
	case 720:
		return "720p"
	case 576:
		return "576p"
	case 480:
		return "480p"
	}
	return ""
}

func resolution(title string) int {
	title = strings.ToLower(title)

	if strings.Contains(title, "2160p") || strings.Contains(title, "4k") || strings.Contains(title, "uhd") {
		return 2160
	}
	if strings.Contains(title, "1080p") || strings.Contains(title, "1080i") {
		return 1080
	}
	if strings.Contains(title, "720p") || strings.Contains(title, "720i") {
		return 720
	}
	if strings.Contains(title, "576p") || strings.Contains(title, "576i") {
		return 576
	}
	if strings.Contains(title, "480p") || strings.Contains(title, "480i") {
		return 480
	}
	return 0
}

func resolutionRank(quality string) int {
	switch quality {
	case "2160p":
		return 2160
	case "1080p":
		return 1080
	case "720p":
		return 720
	case "576p":
		return 576
	case "480p":
		return 480
	}
	return 0
}

// sourceTokens is ordered: the first matching token wins, so the more
// specific variants come before the generic ones.
var sourceTokens = []struct {
	token  string
	source string
}{
	{"remux", "Remux"},
	{"bluray", "BluRay"},
	{"blu-ray", "BluRay"},
	{"bdrip", "BDRip"},
	{"brrip", "BDRip"},
	{"web-dl", "WEB-DL"},
	{"webdl", "WEB-DL"},
	{"webrip", "WEBRip"},
	{"web-rip", "WEBRip"},
	{"hdtv", "HDTV"},
	{"dvdrip", "DVDRip"},
	{"dvdscr", "DVDScr"},
	{"hdrip", "HDRip"},
	{"camrip", "CAM"},
	{"hdcam", "CAM"},
	{"cam", "CAM"},
	{"telesync", "TS"},
	{"ts", "TS"},
}

// ParseSource extracts the rip source tag from a release name. Tokens
// shorter than four characters only match as separated words to keep
// titles like "Tsotsi" from reading as telesync rips.
func ParseSource(title string) string {
	lowered := strings.ToLower(title)
	words := releaseWords(lowered)

	for _, st := range sourceTokens {
		if len(st.token) >= 4 {
			if strings.Contains(lowered, st.token) {
				return st.source
			}
			continue
		}
		for _, w := range words {
			if w == st.token {
				return st.source
			}
		}
	}
	return ""
}

func releaseWords(lowered string) []string {
	return strings.FieldsFunc(lowered, func(r rune) bool {
		switch r {
		case '.', ' ', '-', '_', '[', ']', '(', ')':
			return true
		}
		return false
	})
}
