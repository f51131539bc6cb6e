package dto

type ContributeRequest struct {
	// Amount is a decimal string like "400.00".
	Amount      string `json:"amount"`
	Description string `json:"description"`
	ProofImage  string `json:"proof_image"`
}

type UpdateProfileRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture"`
}
