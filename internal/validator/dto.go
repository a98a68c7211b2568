package validator

// SignInRequest carries password credentials for sign-in.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// SignUpRequest creates a credential with the auth backend. No profile is
// created here; onboarding does that separately.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// ProfileCreateRequest is the onboarding payload. Role accepts a scalar, a
// comma-joined string or an array on the wire.
type ProfileCreateRequest struct {
	Role      string   `json:"role" validate:"required,role_tokens"`
	FullName  string   `json:"full_name" validate:"required,full_name"`
	Bio       *string  `json:"bio" validate:"omitempty,max=2000"`
	Country   *string  `json:"country" validate:"omitempty,max=100"`
	City      *string  `json:"city" validate:"omitempty,max=100"`
	Company   *string  `json:"company" validate:"omitempty,max=200"`
	Position  *string  `json:"position" validate:"omitempty,max=200"`
	Languages []string `json:"languages" validate:"omitempty,max=10,dive,min=2,max=50"`
	Expertise []string `json:"expertise" validate:"omitempty,max=20,dive,min=2,max=100"`
	AvatarURL *string  `json:"avatar_url" validate:"omitempty,url,max=500"`
}

// ProfileUpdateRequest mutates display fields. Role and verification status
// are not updatable through this request.
type ProfileUpdateRequest struct {
	FullName  *string  `json:"full_name" validate:"omitempty,full_name"`
	Bio       *string  `json:"bio" validate:"omitempty,max=2000"`
	Country   *string  `json:"country" validate:"omitempty,max=100"`
	City      *string  `json:"city" validate:"omitempty,max=100"`
	Company   *string  `json:"company" validate:"omitempty,max=200"`
	Position  *string  `json:"position" validate:"omitempty,max=200"`
	Languages []string `json:"languages" validate:"omitempty,max=10,dive,min=2,max=50"`
	Expertise []string `json:"expertise" validate:"omitempty,max=20,dive,min=2,max=100"`
	AvatarURL *string  `json:"avatar_url" validate:"omitempty,url,max=500"`
}

// StatusUpdateRequest is the reviewer's verification transition.
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required,verification_status"`
}

// RequestCreateRequest is a student's application to a mentor.
type RequestCreateRequest struct {
	MentorID string  `json:"mentor_id" validate:"required,max=255"`
	Message  *string `json:"message" validate:"omitempty,max=2000"`
}

// RequestResponseRequest is a mentor accepting or declining.
type RequestResponseRequest struct {
	Status string `json:"status" validate:"required,request_response"`
}

// MessageCreateRequest posts a chat message into a conversation.
type MessageCreateRequest struct {
	Body string `json:"body" validate:"required,min=1,max=4000"`
}
