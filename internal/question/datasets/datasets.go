// Package datasets bundles the static data the question providers draw from: the
// category catalog, curated music lists, movie theme queries and football career paths.
package datasets

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
)

//go:embed *.json
var files embed.FS

// CategoryRecord is one catalog entry as stored on disk.
type CategoryRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	Source   string `json:"source,omitempty"`
	SourceID string `json:"source_id,omitempty"`
	Decade   int    `json:"decade,omitempty"`
	Variant  string `json:"variant,omitempty"`
}

// MusicEntry is a curated music candidate. Exactly one of Artist, Query or ID is set:
// Artist triggers a strict artist search, Query an exact free-text search and ID a lookup.
type MusicEntry struct {
	Artist string `json:"-"`
	Query  string `json:"query,omitempty"`
	ID     int64  `json:"id,omitempty"`
	Title  string `json:"title,omitempty"`
}

// UnmarshalJSON accepts either a bare artist string or an object.
func (m *MusicEntry) UnmarshalJSON(data []byte) error {
	var artist string
	if err := json.Unmarshal(data, &artist); err == nil {
		if artist == "" {
			return errors.New("empty artist entry")
		}
		*m = MusicEntry{Artist: artist}
		return nil
	}

	type plain MusicEntry
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.Query == "" && obj.ID == 0 {
		return fmt.Errorf("music entry %s needs query or id", string(data))
	}
	*m = MusicEntry(obj)
	return nil
}

// MovieTheme is a film whose theme tune is found by an exact track search.
type MovieTheme struct {
	Title string `json:"title"`
	Query string `json:"query"`
}

// CareerPath is a footballer and the ordered clubs they played for.
type CareerPath struct {
	Player string   `json:"player"`
	Clubs  []string `json:"clubs"`
	Tier   int      `json:"tier"` // 1 easiest .. 5 hardest
}

// Bundle holds every dataset, parsed.
type Bundle struct {
	Categories  []CategoryRecord
	Music       map[string][]MusicEntry
	MovieThemes []MovieTheme
	Football    []CareerPath
}

// Load parses the embedded datasets.
func Load() (*Bundle, error) {
	b := &Bundle{}
	if err := decode("categories.json", &b.Categories); err != nil {
		return nil, err
	}
	if err := decode("music.json", &b.Music); err != nil {
		return nil, err
	}
	if err := decode("movie_themes.json", &b.MovieThemes); err != nil {
		return nil, err
	}
	if err := decode("football.json", &b.Football); err != nil {
		return nil, err
	}
	for _, p := range b.Football {
		if p.Tier < 1 || p.Tier > 5 || len(p.Clubs) == 0 {
			return nil, fmt.Errorf("football.json: invalid career path for %q", p.Player)
		}
	}
	return b, nil
}

func decode(name string, out any) error {
	raw, err := files.ReadFile(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
