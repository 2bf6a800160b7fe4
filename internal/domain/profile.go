package domain

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Social struct {
	Youtube   string `gorm:"size:255" json:"youtube,omitempty"`
	Twitter   string `gorm:"size:255" json:"twitter,omitempty"`
	Facebook  string `gorm:"size:255" json:"facebook,omitempty"`
	Linkedin  string `gorm:"size:255" json:"linkedin,omitempty"`
	Instagram string `gorm:"size:255" json:"instagram,omitempty"`
}

type Experience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

type Education struct {
	ID           string     `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// Profile is the one-per-user profile document. Skills, experience and
// education are stored as JSON columns; list order is newest first.
type Profile struct {
	ID             string `gorm:"primaryKey;size:36" json:"id"`
	UserID         string `gorm:"size:36;uniqueIndex;not null" json:"-"`
	Company        string `gorm:"size:128" json:"company,omitempty"`
	Website        string `gorm:"size:255" json:"website,omitempty"`
	Location       string `gorm:"size:128" json:"location,omitempty"`
	Bio            string `gorm:"type:text" json:"bio,omitempty"`
	Status         string `gorm:"size:64;not null" json:"status"`
	GithubUsername string `gorm:"size:64" json:"githubusername,omitempty"`

	Skills     datatypes.JSONSlice[string]     `json:"skills"`
	Social     Social                          `gorm:"embedded;embeddedPrefix:social_" json:"social"`
	Experience datatypes.JSONSlice[Experience] `json:"experience"`
	Education  datatypes.JSONSlice[Education]  `json:"education"`

	CreatedAt time.Time `json:"date"`
	UpdatedAt time.Time `json:"-"`

	// User is the owner's public card, joined in by the repository.
	User *UserRef `gorm:"-" json:"user,omitempty"`
}

func (Profile) TableName() string { return "profiles" }

// AfterFind keeps empty lists serialising as [] rather than null.
func (p *Profile) AfterFind(*gorm.DB) error {
	p.normalize()
	return nil
}

func (p *Profile) normalize() {
	if p.Skills == nil {
		p.Skills = datatypes.JSONSlice[string]{}
	}
	if p.Experience == nil {
		p.Experience = datatypes.JSONSlice[Experience]{}
	}
	if p.Education == nil {
		p.Education = datatypes.JSONSlice[Education]{}
	}
}

// ProfileFields is a partial profile update. Empty strings and a nil
// Skills slice mean "leave unchanged".
type ProfileFields struct {
	Company        string
	Website        string
	Location       string
	Bio            string
	Status         string
	GithubUsername string
	Skills         []string
	Social         Social
}

// Apply merges the non-empty fields into p.
func (f ProfileFields) Apply(p *Profile) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&p.Company, f.Company)
	set(&p.Website, f.Website)
	set(&p.Location, f.Location)
	set(&p.Bio, f.Bio)
	set(&p.Status, f.Status)
	set(&p.GithubUsername, f.GithubUsername)
	set(&p.Social.Youtube, f.Social.Youtube)
	set(&p.Social.Twitter, f.Social.Twitter)
	set(&p.Social.Facebook, f.Social.Facebook)
	set(&p.Social.Linkedin, f.Social.Linkedin)
	set(&p.Social.Instagram, f.Social.Instagram)
	if f.Skills != nil {
		p.Skills = datatypes.JSONSlice[string](f.Skills)
	}
	p.normalize()
}

// AddExperience prepends e.
func (p *Profile) AddExperience(e Experience) {
	p.Experience = append(datatypes.JSONSlice[Experience]{e}, p.Experience...)
}

// RemoveExperience drops the item with the given id and reports whether
// one was found.
func (p *Profile) RemoveExperience(id string) bool {
	for i, e := range p.Experience {
		if e.ID == id {
			p.Experience = append(p.Experience[:i:i], p.Experience[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Profile) AddEducation(e Education) {
	p.Education = append(datatypes.JSONSlice[Education]{e}, p.Education...)
}

func (p *Profile) RemoveEducation(id string) bool {
	for i, e := range p.Education {
		if e.ID == id {
			p.Education = append(p.Education[:i:i], p.Education[i+1:]...)
			return true
		}
	}
	return false
}

type ProfileRepository interface {
	// FindByUser returns ErrProfileNotFound when the user has no profile.
	FindByUser(ctx context.Context, userID string) (*Profile, error)
	List(ctx context.Context) ([]Profile, error)
	// Upsert creates the user's profile or merges f into the existing one.
	Upsert(ctx context.Context, userID string, f ProfileFields) (*Profile, error)
	// Mutate loads the user's profile, applies fn and saves it in one
	// transaction. fn returning an error aborts without saving.
	Mutate(ctx context.Context, userID string, fn func(p *Profile) error) (*Profile, error)
}
