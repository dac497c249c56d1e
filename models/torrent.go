package models

// TorrentResult is a single normalized entry from the torrent aggregator.
type TorrentResult struct {
	Title       string `json:"title"`
	Tracker     string `json:"tracker,omitempty"`
	SizeBytes   int64  `json:"sizeBytes"`
	Seeders     int    `json:"seeders"`
	Leechers    int    `json:"leechers"`
	Magnet      string `json:"magnet,omitempty"`
	PageURL     string `json:"pageUrl,omitempty"`
	Quality     string `json:"quality,omitempty"` // 480p | 720p | 1080p | 2160p
	Source      string `json:"source,omitempty"`  // BluRay | WEB-DL | WEBRip | HDTV | CAM ...
	PublishedAt string `json:"publishedAt,omitempty"`
}
