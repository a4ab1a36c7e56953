// Package reconcile matches object-store listing entries against the
// database records that describe them, merging titles, durations and review
// state onto each object.
package reconcile

import (
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/wondertales/video-service/internal/types/media"
)

// Source tags carried on merged entries so the UI can show where a match
// came from.
const (
	SourceApprovedVideos  = "approved_videos"
	SourceAvailableVideos = "available_videos"
	SourcePublishedVideos = "published_videos"
	SourceAssets          = "assets"
)

// Record is one row pulled from a video or asset source table, reduced to
// the fields reconciliation reads.
type Record struct {
	ID             string
	URL            string
	Title          string
	AltTitle       string
	Duration       float64
	Metadata       map[string]interface{}
	Source         string
	ApprovalStatus string
	IsPublished    bool
	CreatedAt      time.Time
}

const uuidLiteral = `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`

var (
	uuidPattern       = regexp.MustCompile(uuidLiteral)
	uuidPrefixPattern = regexp.MustCompile(`^` + uuidLiteral + `-`)
	numericPrefix     = regexp.MustCompile(`^[0-9]+-`)
)

// StripHost reduces a stored media URL to the object key it addresses. The
// bucket host is dropped; for path-style URLs a leading bucket segment is
// dropped too. Inputs that do not parse as URLs are returned with any
// leading slash trimmed, so bare keys pass through unchanged.
func StripHost(raw, bucket string) string {
	key := raw
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		key = u.Path
	}
	key = strings.TrimPrefix(key, "/")
	if bucket != "" {
		key = strings.TrimPrefix(key, bucket+"/")
	}
	return key
}

// ExtractUUID returns the first UUID-shaped substring of s in canonical
// lowercase form.
func ExtractUUID(s string) (string, bool) {
	match := uuidPattern.FindString(s)
	if match == "" {
		return "", false
	}
	id, err := uuid.Parse(match)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// Lookup maps stripped object keys, and UUIDs embedded in record URLs, to
// source records.
type Lookup map[string]Record

// BuildLookup folds the source collections into one key lookup. Sources
// must be passed in ascending precedence order: when two sources claim the
// same key the later one wins. The listing endpoint passes generic assets,
// published, available, approved in that order, so approved videos take
// precedence over everything else.
func BuildLookup(bucket string, sources ...[]Record) Lookup {
	lookup := make(Lookup)
	for _, records := range sources {
		for _, rec := range records {
			if rec.URL == "" {
				continue
			}
			key := StripHost(rec.URL, bucket)
			if key == "" {
				continue
			}
			lookup[key] = rec
			if id, ok := ExtractUUID(rec.URL); ok {
				lookup[id] = rec
			}
		}
	}
	return lookup
}

// Match finds the record for an object key: exact stripped-key lookup
// first, then a second attempt under the UUID embedded in the key. The two
// paths can never disagree within one lookup since both were written from
// the same fold.
func (l Lookup) Match(key string) (Record, bool) {
	if rec, ok := l[key]; ok {
		return rec, true
	}
	if id, ok := ExtractUUID(key); ok {
		if rec, ok := l[id]; ok {
			return rec, true
		}
	}
	return Record{}, false
}

// Merge decorates every listed object with its matched database record.
// Objects with no match get a display title derived from the filename and
// nothing else; a derived title never carries a database identifier.
func Merge(objects []media.RemoteObject, lookup Lookup) []media.MergedEntry {
	entries := make([]media.MergedEntry, 0, len(objects))
	for _, obj := range objects {
		entry := media.MergedEntry{RemoteObject: obj}
		if rec, ok := lookup.Match(obj.Key); ok {
			entry.Title = rec.Title
			if entry.Title == "" {
				entry.Title = rec.AltTitle
			}
			entry.DatabaseID = rec.ID
			entry.Duration = rec.Duration
			entry.Metadata = rec.Metadata
			entry.Source = rec.Source
			entry.ApprovalStatus = rec.ApprovalStatus
			entry.IsPublished = rec.IsPublished
			if !rec.CreatedAt.IsZero() {
				entry.CreatedAt = rec.CreatedAt.UTC().Format(time.RFC3339)
			}
		} else {
			entry.Title = DeriveTitle(obj.Key)
		}
		entries = append(entries, entry)
	}
	return entries
}

var videoExtensions = []string{".mp4", ".mov", ".webm", ".avi", ".mkv", ".m4v", ".mpeg", ".mpg"}

// DeriveTitle builds a human-readable display title from an object key:
// video extension stripped, leading UUID- or numeric-hyphen prefixes
// dropped, separators replaced with spaces, words capitalized.
func DeriveTitle(key string) string {
	name := path.Base(key)

	lower := strings.ToLower(name)
	for _, ext := range videoExtensions {
		if strings.HasSuffix(lower, ext) {
			name = name[:len(name)-len(ext)]
			break
		}
	}

	name = uuidPrefixPattern.ReplaceAllString(name, "")
	name = numericPrefix.ReplaceAllString(name, "")
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)

	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
