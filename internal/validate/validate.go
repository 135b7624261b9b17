// Package validate checks and normalizes user-entered movie fields. Every
// function is pure: it maps raw text to the stored text form or to a
// *types.ValidationError carrying a message for the user.
package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/movielist/pkg/types"
)

// Accepted bounds.
const (
	MinRating = 0.0
	MaxRating = 10.0
	MinYear   = 1888
	MaxYear   = 2100
)

// Field names used in ValidationError.
const (
	FieldTitle   = "title"
	FieldRating  = "rating"
	FieldYear    = "year"
	FieldWatched = "watched"
)

func reject(field, msg string) error {
	return &types.ValidationError{Field: field, Message: msg}
}

// Rating accepts "" or a number in [MinRating, MaxRating]. Integral values
// normalize to integer text ("7.0" -> "7"); others to the shortest plain
// decimal text ("7.50" -> "7.5").
func Rating(text string) (string, error) {
	v := strings.TrimSpace(text)
	if v == "" {
		return "", nil
	}
	r, err := strconv.ParseFloat(v, 64)
	// ParseFloat also takes hexadecimal mantissas; only decimal text is a rating.
	if err != nil || strings.ContainsAny(v, "xX") || math.IsNaN(r) || r < MinRating || r > MaxRating {
		return "", reject(FieldRating, fmt.Sprintf("Invalid rating. Enter a number between %.1f and %.1f, or leave blank.", MinRating, MaxRating))
	}
	if r == math.Trunc(r) {
		return strconv.FormatInt(int64(r), 10), nil
	}
	return strconv.FormatFloat(r, 'f', -1, 64), nil
}

// Year accepts "" or plain ASCII digits whose value lies in
// [MinYear, MaxYear]. The digits are returned unchanged.
func Year(text string) (string, error) {
	v := strings.TrimSpace(text)
	if v == "" {
		return "", nil
	}
	bad := reject(FieldYear, fmt.Sprintf("Invalid year. Enter a number between %d and %d, or leave blank.", MinYear, MaxYear))
	if !isDigits(v) {
		return "", bad
	}
	yr, err := strconv.Atoi(v)
	if err != nil || yr < MinYear || yr > MaxYear {
		return "", bad
	}
	return v, nil
}

// Watched accepts Y or N in any case.
func Watched(text string) (string, error) {
	v := types.NormalizeWatched(text)
	if v == types.WatchedYes || v == types.WatchedNo {
		return v, nil
	}
	return "", reject(FieldWatched, "Invalid input. Please enter Y or N.")
}

// RequiredText accepts any text that is non-empty after trimming.
func RequiredText(text string) (string, error) {
	v := strings.TrimSpace(text)
	if v == "" {
		return "", reject(FieldTitle, "This field cannot be empty. Please try again.")
	}
	return v, nil
}

// Movie validates every field of m and returns its normalized form.
// Director and genre are free text and only trimmed.
func Movie(m types.Movie) (types.Movie, error) {
	var err error
	out := types.Movie{
		Username: strings.TrimSpace(m.Username),
		Director: strings.TrimSpace(m.Director),
		Genre:    strings.TrimSpace(m.Genre),
	}
	if out.Title, err = RequiredText(m.Title); err != nil {
		return types.Movie{}, err
	}
	if out.Rating, err = Rating(m.Rating); err != nil {
		return types.Movie{}, err
	}
	if out.Year, err = Year(m.Year); err != nil {
		return types.Movie{}, err
	}
	if out.Watched, err = Watched(m.Watched); err != nil {
		return types.Movie{}, err
	}
	return out, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
