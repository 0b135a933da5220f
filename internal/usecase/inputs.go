package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/fantasy-insights/internal/domain/insight"
)

// CurrentUser may be passed as UserID to use the configured default user.
const CurrentUser = "me"

type DiscoverLeaguesInput struct {
	UserID string `validate:"required"`
	Season string `validate:"required,len=4,numeric"`
}

type AnalyzeRostersInput struct {
	UserID string `validate:"required"`
	Season string `validate:"required,len=4,numeric"`
}

type MatchupPrioritiesInput struct {
	UserID string `validate:"required"`
	Season string `validate:"required,len=4,numeric"`
	Week   int    `validate:"min=1,max=18"`
}

type WaiverTargetsInput struct {
	UserID   string `validate:"required"`
	Season   string `validate:"required,len=4,numeric"`
	Position string `validate:"omitempty,oneof=QB RB WR TE K DEF"`
	Limit    int    `validate:"min=1,max=50"`
}

type inputDefaults struct {
	userID string
	season string
}

// user resolves the principal, falling back to the configured default.
func (d inputDefaults) user(raw string) (string, error) {
	userID := strings.TrimSpace(raw)
	if userID == "" || strings.EqualFold(userID, CurrentUser) {
		userID = d.userID
	}
	if userID == "" {
		return "", fmt.Errorf("%w: no user id given and no default user configured", ErrConfiguration)
	}
	return userID, nil
}

func (d inputDefaults) seasonOr(raw string) string {
	if season := strings.TrimSpace(raw); season != "" {
		return season
	}
	return d.season
}

func (d inputDefaults) normalizeDiscover(in DiscoverLeaguesInput) (DiscoverLeaguesInput, error) {
	userID, err := d.user(in.UserID)
	if err != nil {
		return in, err
	}
	in.UserID = userID
	in.Season = d.seasonOr(in.Season)
	return in, nil
}

func (d inputDefaults) normalizeAnalyze(in AnalyzeRostersInput) (AnalyzeRostersInput, error) {
	userID, err := d.user(in.UserID)
	if err != nil {
		return in, err
	}
	in.UserID = userID
	in.Season = d.seasonOr(in.Season)
	return in, nil
}

func (d inputDefaults) normalizeMatchups(in MatchupPrioritiesInput) (MatchupPrioritiesInput, error) {
	userID, err := d.user(in.UserID)
	if err != nil {
		return in, err
	}
	in.UserID = userID
	in.Season = d.seasonOr(in.Season)
	return in, nil
}

func (d inputDefaults) normalizeWaivers(in WaiverTargetsInput) (WaiverTargetsInput, error) {
	userID, err := d.user(in.UserID)
	if err != nil {
		return in, err
	}
	in.UserID = userID
	in.Season = d.seasonOr(in.Season)
	in.Position = strings.ToUpper(strings.TrimSpace(in.Position))
	if in.Limit == 0 {
		in.Limit = insight.DefaultWaiverLimit
	}
	return in, nil
}

func validateInput(v *validator.Validate, in any) error {
	if err := v.Struct(in); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, describeValidation(err))
	}
	return nil
}

func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case "len", "numeric":
			parts = append(parts, fmt.Sprintf("%s must be a four digit year, got %q", fe.Field(), fe.Value()))
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s, got %v", fe.Field(), fe.Param(), fe.Value()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s, got %v", fe.Field(), fe.Param(), fe.Value()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
