// Package validate turns raw request bodies into domain.DownloadRequest values.
package validate

import (
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iconidentify/vidfetch/internal/domain"
)

// maxBodyBytes bounds how much of a request body Decode reads.
const maxBodyBytes = 1 << 20

type urlPayload struct {
	URL string `validate:"required,absurl"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("absurl", absoluteHTTPURL); err != nil {
		panic(err)
	}
	return v
}

// absoluteHTTPURL accepts http and https URLs that name a host.
func absoluteHTTPURL(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// Request validates a decoded JSON body.
//
// A url that is absent, not a string, or blank yields a missing_url
// ValidationError. A url that is not an absolute http(s) URL yields
// invalid_url. The quality hint is read from "quality", falling back to
// "format"; non-string hints are ignored.
func Request(body map[string]any) (domain.DownloadRequest, error) {
	raw, _ := body["url"].(string)
	p := urlPayload{URL: strings.TrimSpace(raw)}

	if err := validate.Struct(p); err != nil {
		return domain.DownloadRequest{}, classify(err)
	}

	req := domain.DownloadRequest{
		URL:            p.URL,
		Quality:        domain.DefaultQuality,
		IncludeFormats: true,
	}
	if q := stringField(body, "quality", "format"); q != "" {
		req.Quality = q
	}
	if inc, ok := body["include_formats"].(bool); ok {
		req.IncludeFormats = inc
	}
	return req, nil
}

// Decode reads a JSON object from r and validates it. Bodies that are
// empty or are not a JSON object carry no url and fail as missing_url.
func Decode(r io.Reader) (domain.DownloadRequest, error) {
	var body map[string]any
	if r != nil {
		if err := json.NewDecoder(io.LimitReader(r, maxBodyBytes)).Decode(&body); err != nil {
			body = nil
		}
	}
	return Request(body)
}

func classify(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "absurl" {
				return domain.NewValidationError(domain.KindInvalidURL)
			}
		}
	}
	return domain.NewValidationError(domain.KindMissingURL)
}

func stringField(body map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := body[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}
