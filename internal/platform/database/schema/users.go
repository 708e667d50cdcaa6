package schema

// UsersTable represents the 'users' table
type UsersTable struct {
	Table           string
	ID              string
	SpotifyID       string
	Email           string
	DisplayName     string
	ProfileImageURL string
	Country         string
	AccessToken     string
	RefreshToken    string
	TokenExpiresAt  string
	CreatedAt       string
	UpdatedAt       string
}

// Users is the schema definition for the users table
var Users = UsersTable{
	Table:           "users",
	ID:              "id",
	SpotifyID:       "spotify_id",
	Email:           "email",
	DisplayName:     "display_name",
	ProfileImageURL: "profile_image_url",
	Country:         "country",
	AccessToken:     "spotify_access_token",
	RefreshToken:    "spotify_refresh_token",
	TokenExpiresAt:  "token_expires_at",
	CreatedAt:       "created_at",
	UpdatedAt:       "updated_at",
}

// Columns returns all standard column names
func (t UsersTable) Columns() []string {
	return []string{
		t.ID, t.SpotifyID, t.Email, t.DisplayName, t.ProfileImageURL,
		t.Country, t.AccessToken, t.RefreshToken, t.TokenExpiresAt,
		t.CreatedAt, t.UpdatedAt,
	}
}
