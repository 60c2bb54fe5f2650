package model

// MessageResponse is the standard envelope for success and failure messages.
// Every error the API returns uses this shape; no internal details leak out.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginResponse is the payload for a successful login.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// AdminStatusResponse reports whether an administrator identity exists.
type AdminStatusResponse struct {
	Exists    bool   `json:"exists"`
	Username  string `json:"username,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// CountResponse is the payload for the visitor count endpoint.
type CountResponse struct {
	Count int64 `json:"count"`
}
