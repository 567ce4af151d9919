package models

// CreateLinkRequest represents the request body for creating a short link.
// url takes precedence over targetUrl when both are present.
type CreateLinkRequest struct {
	URL       *string `json:"url"`
	TargetURL *string `json:"targetUrl"`
}

// Target returns the requested destination, or "" when neither field is set
func (r *CreateLinkRequest) Target() string {
	switch {
	case r.URL != nil:
		return *r.URL
	case r.TargetURL != nil:
		return *r.TargetURL
	}
	return ""
}
