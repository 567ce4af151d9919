package models

// ShortLinkResponse represents the response after creating or reusing a short link
type ShortLinkResponse struct {
	ShortURL  string `json:"shortUrl"` // Base URL + "/" + short code
	ShortCode string `json:"shortCode"`
	TargetURL string `json:"targetUrl"`
}

// RedirectResult is the destination of a resolved short code
type RedirectResult struct {
	RedirectURL string
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}
