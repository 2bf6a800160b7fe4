package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"devconnector/internal/domain"
	"devconnector/pkg/utils"
)

type ProfileInput struct {
	Status         string `json:"status" binding:"required" msg:"Status is required"`
	Skills         string `json:"skills" binding:"required" msg:"Skills is required"`
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	GithubUsername string `json:"githubusername"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Linkedin       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

func (in ProfileInput) fields() domain.ProfileFields {
	f := domain.ProfileFields{
		Company:        in.Company,
		Website:        in.Website,
		Location:       in.Location,
		Bio:            in.Bio,
		Status:         in.Status,
		GithubUsername: in.GithubUsername,
		Social: domain.Social{
			Youtube:   in.Youtube,
			Twitter:   in.Twitter,
			Facebook:  in.Facebook,
			Linkedin:  in.Linkedin,
			Instagram: in.Instagram,
		},
	}
	if in.Skills != "" {
		f.Skills = utils.SplitCSV(in.Skills)
	}
	return f
}

type ExperienceInput struct {
	Title       string `json:"title"   binding:"required" msg:"Title is required"`
	Company     string `json:"company" binding:"required" msg:"Company is required"`
	Location    string `json:"location"`
	From        string `json:"from"    binding:"required" msg:"From date is required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type EducationInput struct {
	School       string `json:"school"       binding:"required" msg:"School is required"`
	Degree       string `json:"degree"       binding:"required" msg:"Degree is required"`
	FieldOfStudy string `json:"fieldofstudy" binding:"required" msg:"Field of study is required"`
	From         string `json:"from"         binding:"required" msg:"From date is required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseSpan parses the required from and optional to dates.
func parseSpan(from, to string) (time.Time, *time.Time, error) {
	f, ok := parseDate(from)
	if !ok {
		return time.Time{}, nil, domain.Invalid("from", "From date is invalid")
	}
	if to == "" {
		return f, nil, nil
	}
	t, ok := parseDate(to)
	if !ok {
		return time.Time{}, nil, domain.Invalid("to", "To date is invalid")
	}
	return f, &t, nil
}

type ProfileService struct {
	profiles domain.ProfileRepository
	users    domain.UserRepository
	log      *zap.Logger
}

func NewProfileService(profiles domain.ProfileRepository, users domain.UserRepository, l *zap.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, users: users, log: l}
}

func (s *ProfileService) Me(ctx context.Context, uid string) (*domain.Profile, error) {
	return s.profiles.FindByUser(ctx, uid)
}

// Save creates the caller's profile or merges in.
func (s *ProfileService) Save(ctx context.Context, uid string, in ProfileInput) (*domain.Profile, error) {
	return s.profiles.Upsert(ctx, uid, in.fields())
}

func (s *ProfileService) List(ctx context.Context) ([]domain.Profile, error) {
	return s.profiles.List(ctx)
}

// ByUser treats a malformed user id like a missing profile.
func (s *ProfileService) ByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	if !utils.IsID(userID) {
		return nil, domain.ErrProfileNotFound
	}
	return s.profiles.FindByUser(ctx, userID)
}

// DeleteAccount removes the caller's posts, profile and user.
func (s *ProfileService) DeleteAccount(ctx context.Context, uid string) error {
	n, err := s.users.DeleteAccount(ctx, uid)
	if err != nil {
		return err
	}
	s.log.Info("account deleted", zap.String("user", uid), zap.Int64("posts", n))
	return nil
}

func (s *ProfileService) AddExperience(ctx context.Context, uid string, in ExperienceInput) (*domain.Profile, error) {
	from, to, err := parseSpan(in.From, in.To)
	if err != nil {
		return nil, err
	}
	e := domain.Experience{
		ID:          utils.NewID(),
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: in.Description,
	}
	return s.profiles.Mutate(ctx, uid, func(p *domain.Profile) error {
		p.AddExperience(e)
		return nil
	})
}

func (s *ProfileService) RemoveExperience(ctx context.Context, uid, id string) (*domain.Profile, error) {
	return s.profiles.Mutate(ctx, uid, func(p *domain.Profile) error {
		if !p.RemoveExperience(id) {
			return domain.ErrExperienceNotFound
		}
		return nil
	})
}

func (s *ProfileService) AddEducation(ctx context.Context, uid string, in EducationInput) (*domain.Profile, error) {
	from, to, err := parseSpan(in.From, in.To)
	if err != nil {
		return nil, err
	}
	e := domain.Education{
		ID:           utils.NewID(),
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      in.Current,
		Description:  in.Description,
	}
	return s.profiles.Mutate(ctx, uid, func(p *domain.Profile) error {
		p.AddEducation(e)
		return nil
	})
}

func (s *ProfileService) RemoveEducation(ctx context.Context, uid, id string) (*domain.Profile, error) {
	return s.profiles.Mutate(ctx, uid, func(p *domain.Profile) error {
		if !p.RemoveEducation(id) {
			return domain.ErrEducationNotFound
		}
		return nil
	})
}
