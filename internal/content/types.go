package content

// SocialLinks are the profile's external accounts. Empty fields are omitted.
type SocialLinks struct {
	GitHub     string `json:"github,omitempty"`
	LinkedIn   string `json:"linkedin,omitempty"`
	Twitter    string `json:"twitter,omitempty"`
	Medium     string `json:"medium,omitempty"`
	HackerRank string `json:"hackerrank,omitempty"`
	Facebook   string `json:"facebook,omitempty"`
	Email      string `json:"email,omitempty"`
}

type Profile struct {
	Name             string      `json:"name"`
	Title            string      `json:"title"`
	Tagline          string      `json:"tagline"`
	ValueProposition string      `json:"valueProposition,omitempty"`
	Bio              string      `json:"bio,omitempty"`
	Location         string      `json:"location,omitempty"`
	Avatar           string      `json:"avatar,omitempty"`
	Availability     string      `json:"availability,omitempty"`
	Social           SocialLinks `json:"social"`
}

// Skill is a named skill with a proficiency from 0 to 100.
type Skill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type TechStackCategory struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

type SkillsData struct {
	RecruiterSkills []Skill             `json:"recruiterSkills"`
	TechStack       []TechStackCategory `json:"techStack"`
}

type CoreSkillCategory struct {
	Title  string   `json:"title"`
	Emoji  string   `json:"emoji"`
	Skills []string `json:"skills"`
}

type CoreSkillsData struct {
	Categories []CoreSkillCategory `json:"categories"`
}

type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tech        []string `json:"tech"`
	Stars       int      `json:"stars,omitempty"`
	Link        string   `json:"link,omitempty"`
	GitHub      string   `json:"github,omitempty"`
	Demo        string   `json:"demo,omitempty"`
	Featured    bool     `json:"featured,omitempty"`
}

type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

type Achievement struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Service is an offering shown on the client view.
type Service struct {
	Icon        Icon   `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

type CaseStudy struct {
	Client  string   `json:"client"`
	Project string   `json:"project"`
	Result  string   `json:"result"`
	Metrics []string `json:"metrics"`
}

// ClientData is everything the client view renders.
type ClientData struct {
	Services    []Service   `json:"services"`
	CaseStudies []CaseStudy `json:"caseStudies"`
	WorkProcess []string    `json:"workProcess"`
}

type Testimonial struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Company  string `json:"company"`
	Avatar   string `json:"avatar,omitempty"`
	Quote    string `json:"quote"`
	LinkedIn string `json:"linkedin,omitempty"`
	Featured bool   `json:"featured"`
}

// Initials returns the first letter of each word in the name.
func (t Testimonial) Initials() string {
	var out []rune
	start := true
	for _, r := range t.Name {
		if r == ' ' {
			start = true
			continue
		}
		if start {
			out = append(out, r)
			start = false
		}
	}
	return string(out)
}
