package models

// PreferenceInput is a single category preference in a request body.
type PreferenceInput struct {
	CategoryID string `json:"categoryId"`
	Level      int    `json:"preferenceLevel"`
	Source     string `json:"source,omitempty"`
}

// Preference is a category preference in a response.
type Preference struct {
	CategoryID string `json:"categoryId"`
	Level      int    `json:"preferenceLevel"`
	Source     string `json:"source,omitempty"`
}

// RegisterRequest is the body for POST /v1/auth/register.
type RegisterRequest struct {
	Email       string            `json:"email"`
	Password    string            `json:"password"`
	FirstName   string            `json:"firstName"`
	LastName    string            `json:"lastName"`
	Role        *Role             `json:"role,omitempty"`
	ReferredBy  string            `json:"referredBy,omitempty"`
	Preferences []PreferenceInput `json:"preferences,omitempty"`
}

// UserUpdateRequest is the body for PUT /v1/users/{userId}.
type UserUpdateRequest struct {
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

// PreferencesUpdateRequest is the body for PUT /v1/users/{userId}/preferences.
type PreferencesUpdateRequest struct {
	Preferences []PreferenceInput `json:"preferences"`
}

// User is a user account in a response. The password hash never leaves
// the service.
type User struct {
	UserID             string       `json:"userId"`
	Email              string       `json:"email"`
	FirstName          string       `json:"firstName"`
	LastName           string       `json:"lastName"`
	Role               Role         `json:"role"`
	SubscriptionStatus bool         `json:"subscriptionStatus"`
	ReferredBy         string       `json:"referredBy,omitempty"`
	Preferences        []Preference `json:"preferences"`
	CreatedAt          Timestamp    `json:"createdAt"`
}
