package schema

// UserArtistsTable represents the 'user_artists' table
type UserArtistsTable struct {
	Table      string
	ID         string
	UserID     string
	Name       string
	SpotifyID  string
	ImageURL   string
	Genres     string
	Popularity string
	Rank       string
	CreatedAt  string
}

// UserArtists is the schema definition for the user_artists table
var UserArtists = UserArtistsTable{
	Table:      "user_artists",
	ID:         "id",
	UserID:     "user_id",
	Name:       "artist_name",
	SpotifyID:  "artist_spotify_id",
	ImageURL:   "artist_image_url",
	Genres:     "genres",
	Popularity: "popularity",
	Rank:       "rank",
	CreatedAt:  "created_at",
}

func (t UserArtistsTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.Name, t.SpotifyID, t.ImageURL,
		t.Genres, t.Popularity, t.Rank, t.CreatedAt,
	}
}
