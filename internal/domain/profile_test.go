package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfileFieldsApply(t *testing.T) {
	p := &Profile{Status: "Junior", Company: "Acme", Skills: []string{"go"}}
	p.Social.Twitter = "https://twitter.com/old"

	ProfileFields{Status: "Senior", Social: Social{Youtube: "https://yt/x"}}.Apply(p)

	assert.Equal(t, "Senior", p.Status)
	assert.Equal(t, "Acme", p.Company, "empty field keeps stored value")
	assert.Equal(t, []string{"go"}, []string(p.Skills), "nil skills keep stored list")
	assert.Equal(t, "https://twitter.com/old", p.Social.Twitter)
	assert.Equal(t, "https://yt/x", p.Social.Youtube)
	assert.NotNil(t, p.Experience)
	assert.NotNil(t, p.Education)

	ProfileFields{Skills: []string{"rust", "sql"}}.Apply(p)
	assert.Equal(t, []string{"rust", "sql"}, []string(p.Skills))
}

func TestExperienceNewestFirst(t *testing.T) {
	p := &Profile{}
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	p.AddExperience(Experience{ID: "a", Title: "first", From: from})
	p.AddExperience(Experience{ID: "b", Title: "second", From: from})
	p.AddExperience(Experience{ID: "c", Title: "third", From: from})

	assert.Equal(t, "c", p.Experience[0].ID)

	assert.True(t, p.RemoveExperience("b"))
	assert.Len(t, p.Experience, 2)
	assert.Equal(t, "c", p.Experience[0].ID)
	assert.Equal(t, "a", p.Experience[1].ID)

	assert.False(t, p.RemoveExperience("missing"))
	assert.Len(t, p.Experience, 2)
}

func TestEducationRemove(t *testing.T) {
	p := &Profile{}
	p.AddEducation(Education{ID: "x", School: "MIT"})
	p.AddEducation(Education{ID: "y", School: "CMU"})

	assert.False(t, p.RemoveEducation("z"))
	assert.True(t, p.RemoveEducation("x"))
	assert.Equal(t, []string{"y"}, []string{p.Education[0].ID})
	assert.Len(t, p.Education, 1)
}
