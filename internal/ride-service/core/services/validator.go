package services

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/model"
	"github.com/orlantquijada/wingz/internal/ride-service/core/myerrors"
)

const (
	MinNameLen = 1
	MaxNameLen = 150

	MaxEmailLen = 254
	MaxPhoneLen = 20

	MinPasswordLen = 8
	MaxPasswordLen = 72
)

const (
	msgRequired = "This field is required."
	msgBlank    = "This field may not be blank."
)

// ValidateEmail accepts a bare address with a dotted domain, e.g. rider@example.com.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%s", msgBlank)
	}
	if len(email) > MaxEmailLen {
		return fmt.Errorf("Ensure this field has no more than %d characters.", MaxEmailLen)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		return fmt.Errorf("Enter a valid email address.")
	}
	at := strings.LastIndex(email, "@")
	domain := email[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return fmt.Errorf("Enter a valid email address.")
	}
	return nil
}

func ValidateLatitude(lat float64) error {
	if !model.ValidLatitude(lat) {
		return fmt.Errorf("Ensure this value is between -90 and 90.")
	}
	return nil
}

func ValidateLongitude(lng float64) error {
	if !model.ValidLongitude(lng) {
		return fmt.Errorf("Ensure this value is between -180 and 180.")
	}
	return nil
}

func ValidateStatus(s string) (model.RideStatus, error) {
	status := model.RideStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("%q is not a valid choice.", s)
	}
	return status, nil
}

func validateLatitudeField(v *myerrors.ValidationError, field string, lat *float64, required bool) {
	if lat == nil {
		if required {
			v.Add(field, msgRequired)
		}
		return
	}
	if err := ValidateLatitude(*lat); err != nil {
		v.Add(field, err.Error())
	}
}

func validateLongitudeField(v *myerrors.ValidationError, field string, lng *float64, required bool) {
	if lng == nil {
		if required {
			v.Add(field, msgRequired)
		}
		return
	}
	if err := ValidateLongitude(*lng); err != nil {
		v.Add(field, err.Error())
	}
}

func validateUserRefField(v *myerrors.ValidationError, field string, id *int64, required bool) {
	if id == nil {
		if required {
			v.Add(field, msgRequired)
		}
		return
	}
	if *id <= 0 {
		v.Add(field, fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", *id))
	}
}

func validateStatusField(v *myerrors.ValidationError, s *string) {
	if s == nil {
		return
	}
	if _, err := ValidateStatus(*s); err != nil {
		v.Add("status", err.Error())
	}
}

func validateName(v *myerrors.ValidationError, field, name string) {
	n := len(strings.TrimSpace(name))
	if n < MinNameLen {
		v.Add(field, msgBlank)
		return
	}
	if len(name) > MaxNameLen {
		v.Add(field, fmt.Sprintf("Ensure this field has no more than %d characters.", MaxNameLen))
	}
}

func validatePassword(v *myerrors.ValidationError, password string) {
	if password == "" {
		v.Add("password", msgBlank)
		return
	}
	if len(password) < MinPasswordLen || len(password) > MaxPasswordLen {
		v.Add("password", fmt.Sprintf("must be in range [%d, %d] characters", MinPasswordLen, MaxPasswordLen))
	}
}
