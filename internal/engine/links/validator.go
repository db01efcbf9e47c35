package links

import "net/url"

func ValidateOriginalURL(originalURL string) error {
	if originalURL == "" {
		return &ValidationError{Reason: "original_url is required"}
	}

	u, err := url.Parse(originalURL)
	if err != nil {
		return &ValidationError{Reason: "invalid original_url format"}
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return &ValidationError{Reason: "original_url must start with http:// or https://"}
	}

	return nil
}
