// Package content loads the portfolio's static documents.
package content

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/url"
	"slices"
	"strings"
)

//go:embed data/*.json
var embedded embed.FS

// Document names, also used as file names without the .json extension.
const (
	DocProfile      = "profile"
	DocSkills       = "skills"
	DocCoreSkills   = "core-skills"
	DocProjects     = "projects"
	DocExperience   = "experience"
	DocAchievements = "achievements"
	DocServices     = "services"
	DocTestimonials = "testimonials"
)

// Documents lists every document Load reads.
var Documents = []string{
	DocProfile, DocSkills, DocCoreSkills, DocProjects,
	DocExperience, DocAchievements, DocServices, DocTestimonials,
}

// Library holds the decoded documents. It is read-only after Load and safe
// for concurrent use. Getters return the library's own slices; callers must
// not modify them.
type Library struct {
	profile      Profile
	skills       SkillsData
	coreSkills   CoreSkillsData
	projects     []Project
	experience   []Experience
	achievements []Achievement
	client       ClientData
	testimonials []Testimonial
}

// LoadEmbedded loads the documents compiled into the binary.
func LoadEmbedded() (*Library, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("open embedded content: %w", err)
	}
	return Load(sub)
}

// Load reads every document from the root of fsys.
func Load(fsys fs.FS) (*Library, error) {
	lib := &Library{}

	var projects struct {
		Projects []Project `json:"projects"`
	}
	var experience struct {
		Experiences []Experience `json:"experiences"`
	}
	var achievements struct {
		Achievements []Achievement `json:"achievements"`
	}
	var testimonials struct {
		Testimonials []Testimonial `json:"testimonials"`
	}

	targets := map[string]any{
		DocProfile:      &lib.profile,
		DocSkills:       &lib.skills,
		DocCoreSkills:   &lib.coreSkills,
		DocProjects:     &projects,
		DocExperience:   &experience,
		DocAchievements: &achievements,
		DocServices:     &lib.client,
		DocTestimonials: &testimonials,
	}
	for _, name := range Documents {
		if err := decode(fsys, name, targets[name]); err != nil {
			return nil, err
		}
	}

	lib.projects = projects.Projects
	lib.experience = experience.Experiences
	lib.achievements = achievements.Achievements
	lib.testimonials = testimonials.Testimonials
	return lib, nil
}

func decode(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name+".json")
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (l *Library) Profile() Profile { return l.profile }

func (l *Library) Skills() SkillsData { return l.skills }

func (l *Library) CoreSkills() CoreSkillsData { return l.coreSkills }

// Projects returns all projects, or only featured ones.
func (l *Library) Projects(featuredOnly bool) []Project {
	if !featuredOnly {
		return l.projects
	}
	return slices.DeleteFunc(slices.Clone(l.projects), func(p Project) bool { return !p.Featured })
}

func (l *Library) Experience() []Experience { return l.experience }

func (l *Library) Achievements() []Achievement { return l.achievements }

// ClientData returns services, case studies and the work process.
func (l *Library) ClientData() ClientData { return l.client }

func (l *Library) RecruiterSkills() []Skill { return l.skills.RecruiterSkills }

func (l *Library) TechStack() []TechStackCategory { return l.skills.TechStack }

// Testimonials returns all testimonials, or only featured ones.
func (l *Library) Testimonials(featuredOnly bool) []Testimonial {
	if !featuredOnly {
		return l.testimonials
	}
	return slices.DeleteFunc(slices.Clone(l.testimonials), func(t Testimonial) bool { return !t.Featured })
}

// Document returns a document by name in the shape it was stored.
func (l *Library) Document(name string) (any, bool) {
	switch name {
	case DocProfile:
		return l.profile, true
	case DocSkills:
		return l.skills, true
	case DocCoreSkills:
		return l.coreSkills, true
	case DocProjects:
		return map[string][]Project{"projects": l.projects}, true
	case DocExperience:
		return map[string][]Experience{"experiences": l.experience}, true
	case DocAchievements:
		return map[string][]Achievement{"achievements": l.achievements}, true
	case DocServices:
		return l.client, true
	case DocTestimonials:
		return map[string][]Testimonial{"testimonials": l.testimonials}, true
	default:
		return nil, false
	}
}

// Actor returns the GitHub username from the profile's github link, which may
// be a bare username or a profile URL. It is empty when no link is set.
func (l *Library) Actor() string {
	return githubUser(l.profile.Social.GitHub)
}

func githubUser(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	if u, err := url.Parse(link); err == nil && u.Host != "" {
		link = u.Path
	}
	link = strings.Trim(link, "/")
	if i := strings.IndexByte(link, '/'); i >= 0 {
		link = link[:i]
	}
	return strings.TrimPrefix(link, "@")
}
