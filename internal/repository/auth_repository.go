package repository

import (
	"context"
	"encoding/json"

	"github.com/noah-isme/campus-portal-client/internal/models"
	"github.com/noah-isme/campus-portal-client/internal/transport"
	"github.com/noah-isme/campus-portal-client/pkg/envelope"
	appErrors "github.com/noah-isme/campus-portal-client/pkg/errors"
)

// AuthRepository covers sign-in and the three role-profile probes.
type AuthRepository struct {
	client *transport.Client
}

// NewAuthRepository constructs an AuthRepository.
func NewAuthRepository(client *transport.Client) *AuthRepository {
	return &AuthRepository{client: client}
}

type signInResponse struct {
	AccessToken string `json:"accessToken"`
	Token       string `json:"token"`
	JWT         string `json:"jwt"`
}

// SignIn exchanges credentials for a bearer token. Historical backends named
// the token field differently; all three spellings are accepted.
func (r *AuthRepository) SignIn(ctx context.Context, creds models.Credentials) (string, error) {
	raw, err := r.client.Post(ctx, "/auth/login", creds)
	if err != nil {
		return "", err
	}
	resp, err := envelope.DecodeObject[signInResponse](raw)
	if err != nil {
		return "", err
	}
	for _, token := range []string{resp.AccessToken, resp.Token, resp.JWT} {
		if token != "" {
			return token, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrParse, "sign-in response carried no token")
}

// DeanProfile probes the dean profile endpoint.
func (r *AuthRepository) DeanProfile(ctx context.Context) (*models.Profile, error) {
	return r.profile(ctx, "/dean/profile", "deanProfile")
}

// TeacherProfile probes the teacher profile endpoint.
func (r *AuthRepository) TeacherProfile(ctx context.Context) (*models.Profile, error) {
	return r.profile(ctx, "/teacher/profile", "teacherProfile")
}

// StudentProfile probes the student profile endpoint.
func (r *AuthRepository) StudentProfile(ctx context.Context) (*models.Profile, error) {
	return r.profile(ctx, "/student/profile", "studentProfile")
}

func (r *AuthRepository) profile(ctx context.Context, path, field string) (*models.Profile, error) {
	raw, err := r.client.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	return envelope.DecodeObject[models.Profile](raw, field, "profile", "data")
}
