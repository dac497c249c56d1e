package handlers

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// maxImageBytes caps proxied downloads; upstream posters are well under this.
const maxImageBytes = 10 << 20

// allowedImageHosts are the poster/backdrop CDNs the proxy will fetch
// from. Matched against the host suffix so region subdomains pass.
var allowedImageHosts = []string{
	"image.tmdb.org",
	"kinopoiskapiunofficial.tech",
	"avatars.mds.yandex.net",
	"st.kp.yandex.net",
}

// ImageHandler proxies upstream artwork so web clients avoid mixed-content
// and referrer restrictions on the CDN hosts.
type ImageHandler struct {
	httpc *http.Client
}

func NewImageHandler(httpc *http.Client) *ImageHandler {
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	return &ImageHandler{httpc: httpc}
}

func hostAllowed(host string) bool {
	host = strings.ToLower(host)
	for _, allowed := range allowedImageHosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}

func (h *ImageHandler) Proxy(w http.ResponseWriter, r *http.Request) {
	sourceURL := r.URL.Query().Get("url")
	if sourceURL == "" {
		writeJSONError(w, "url parameter is required", http.StatusBadRequest)
		return
	}

	parsed, err := url.Parse(sourceURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		writeJSONError(w, "invalid url", http.StatusBadRequest)
		return
	}
	if !hostAllowed(parsed.Hostname()) {
		writeJSONError(w, "url host not allowed", http.StatusForbidden)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, sourceURL, nil)
	if err != nil {
		writeJSONError(w, "invalid url", http.StatusBadRequest)
		return
	}

	resp, err := h.httpc.Do(req)
	if err != nil {
		writeJSONError(w, "failed to fetch image", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		writeJSONError(w, "upstream returned "+resp.Status, http.StatusBadGateway)
		return
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		writeJSONError(w, "failed to read image", http.StatusBadGateway)
		return
	}

	// Trust the bytes over the upstream Content-Type header.
	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		writeJSONError(w, "upstream did not return an image", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", detected.String())
	w.Header().Set("Cache-Control", "public, max-age=2592000")
	w.Write(data)
}
