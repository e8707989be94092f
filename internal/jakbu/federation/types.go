package federation

// RemoteIdentity is the provider's view of the signed-in user.
type RemoteIdentity struct {
	SubjectID       string
	DisplayName     string
	Email           string
	ProfileImageURL string
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type userInfoResponse struct {
	ID      int64 `json:"id"`
	Account struct {
		Email   string `json:"email"`
		Profile struct {
			Nickname        string `json:"nickname"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"profile"`
	} `json:"kakao_account"`
}
