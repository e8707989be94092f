package domain

// Session is what every successful signup, login or refresh hands back.
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	IdentityID   int64  `json:"userId"`
	DisplayName  string `json:"name"`
}
