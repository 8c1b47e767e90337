package fields

import (
	"regexp"
	"strings"
)

// MediaKind classifies a project media URL.
type MediaKind string

const (
	MediaNone    MediaKind = "none"
	MediaYouTube MediaKind = "youtube"
	MediaVideo   MediaKind = "video"
	MediaImage   MediaKind = "image"
)

// Media is the resolved form of a media cell. Kind is MediaNone iff Source is "".
type Media struct {
	Kind   MediaKind `json:"kind"`
	Source string    `json:"source"`
}

const (
	mediaHost        = "cloudinary.com"
	videoUploadPath  = "/video/upload/"
	youtubeEmbedBase = "https://www.youtube.com/embed/"
)

var (
	youtubeID      = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`)
	videoExtension = regexp.MustCompile(`(?i)\.(mp4|webm|ogg|mov)(\?|$)`)
	imageExtension = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp|svg)(\?|$)`)
)

// DetectMedia inspects raw and decides how it should be embedded.
// Host checks run before extension checks so hosted videos with image-like
// query strings stay videos.
func DetectMedia(raw string) Media {
	src := strings.TrimSpace(raw)
	if src == "" {
		return Media{Kind: MediaNone}
	}

	if m := youtubeID.FindStringSubmatch(src); m != nil {
		id := m[1]
		return Media{
			Kind:   MediaYouTube,
			Source: youtubeEmbedBase + id + "?autoplay=1&mute=1&controls=0&loop=1&playlist=" + id + "&rel=0",
		}
	}

	if strings.Contains(src, mediaHost) && strings.Contains(src, videoUploadPath) {
		return Media{Kind: MediaVideo, Source: src}
	}
	if videoExtension.MatchString(src) {
		return Media{Kind: MediaVideo, Source: src}
	}
	if strings.Contains(src, mediaHost) {
		return Media{Kind: MediaImage, Source: src}
	}
	if imageExtension.MatchString(src) {
		return Media{Kind: MediaImage, Source: src}
	}

	if resolved := ResolveImage(src); resolved != "" {
		return Media{Kind: MediaImage, Source: resolved}
	}
	return Media{Kind: MediaNone}
}
