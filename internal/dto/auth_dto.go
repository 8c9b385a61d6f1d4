package dto

type EmailSignInRequest struct {
	Email string `json:"email" form:"email" validate:"required,email,max=254"`
}

type SessionResponse struct {
	Status   string          `json:"status"`
	User     *SessionUserDTO `json:"user"`
	Degraded bool            `json:"degraded,omitempty"`
}

type SessionUserDTO struct {
	Id        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Provider  string `json:"provider,omitempty"`
}
