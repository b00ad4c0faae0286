package handle

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/dto"
	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/query"
	"github.com/orlantquijada/wingz/internal/ride-service/core/myerrors"
	"github.com/orlantquijada/wingz/internal/ride-service/core/services"
)

const (
	pageParam     = "page"
	pageSizeParam = "page_size"
)

// parseRideListQuery validates the listing parameters. Every problem is
// reported at once, keyed by parameter name.
func parseRideListQuery(values url.Values) (dto.RideListQuery, error) {
	var req dto.RideListQuery
	v := myerrors.NewValidationError()

	if raw, ok := param(values, "status"); ok {
		if status, err := services.ValidateStatus(raw); err != nil {
			v.Add("status", err.Error())
		} else {
			req.Status = &status
		}
	}

	if raw, ok := param(values, "rider_email"); ok {
		if err := services.ValidateEmail(raw); err != nil {
			v.Add("rider_email", err.Error())
		} else {
			req.RiderEmail = &raw
		}
	}

	if raw, ok := param(values, "ordering"); ok {
		if o, valid := query.ParseOrdering(raw); valid {
			req.Ordering = &o
		} else {
			v.Add("ordering", fmt.Sprintf("%q is not a valid choice. Use one of: %s.", raw, strings.Join(query.AllowedOrderings, ", ")))
		}
	}

	if raw, ok := param(values, "latitude"); ok {
		if lat, err := parseFloat(raw); err != nil {
			v.Add("latitude", err.Error())
		} else if err := services.ValidateLatitude(lat); err != nil {
			v.Add("latitude", err.Error())
		} else {
			req.Latitude = &lat
		}
	}

	if raw, ok := param(values, "longitude"); ok {
		if lng, err := parseFloat(raw); err != nil {
			v.Add("longitude", err.Error())
		} else if err := services.ValidateLongitude(lng); err != nil {
			v.Add("longitude", err.Error())
		} else {
			req.Longitude = &lng
		}
	}

	if !v.Empty() {
		return dto.RideListQuery{}, v
	}
	if err := req.Validate(); err != nil {
		return dto.RideListQuery{}, err
	}
	return req, nil
}

// param reports whether key was sent. A present but empty value is kept so it fails validation.
func param(values url.Values, key string) (string, bool) {
	if _, ok := values[key]; !ok {
		return "", false
	}
	return strings.TrimSpace(values.Get(key)), true
}

func parseFloat(raw string) (float64, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("A valid number is required.")
	}
	return f, nil
}

// parsePage reads page and page_size. A malformed page is ErrInvalidPage; a
// malformed page_size falls back to the default, and any size is capped.
func parsePage(values url.Values, defaultSize, maxSize int) (page, size int, err error) {
	page = 1
	if raw := values.Get(pageParam); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, myerrors.ErrInvalidPage
		}
	}

	size = defaultSize
	if raw := values.Get(pageSizeParam); raw != "" {
		if n, convErr := strconv.Atoi(raw); convErr == nil && n > 0 {
			size = n
		}
	}
	if size > maxSize {
		size = maxSize
	}
	return page, size, nil
}

// pageURL is the absolute URL of r with the page parameter replaced. Page 1 drops the parameter.
func pageURL(r *http.Request, page int) *string {
	u := url.URL{
		Scheme: requestScheme(r),
		Host:   r.Host,
		Path:   r.URL.Path,
	}
	q := r.URL.Query()
	if page <= 1 {
		q.Del(pageParam)
	} else {
		q.Set(pageParam, strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}

func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func parseID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, myerrors.ErrNotFound
	}
	return id, nil
}
