package view

// Section is a block of content rendered on the page.
type Section string

const (
	SectionHero            Section = "hero"
	SectionCoreSkills      Section = "core-skills"
	SectionRecruiterSkills Section = "recruiter-skills"
	SectionExperience      Section = "experience"
	SectionAchievements    Section = "achievements"
	SectionTechStack       Section = "tech-stack"
	SectionProjects        Section = "projects"
	SectionServices        Section = "services"
	SectionCaseStudies     Section = "case-studies"
	SectionWorkProcess     Section = "work-process"
	SectionTestimonials    Section = "testimonials"
)

var (
	recruiterSections = []Section{SectionCoreSkills, SectionRecruiterSkills, SectionExperience, SectionAchievements}
	developerSections = []Section{SectionTechStack, SectionProjects}
	clientSections    = []Section{SectionServices, SectionCaseStudies, SectionWorkProcess, SectionTestimonials}
)

// Sections returns the sections v renders, in page order. The result is a
// fresh slice.
func Sections(v View) []Section {
	var out []Section
	switch v {
	case Recruiter:
		out = append(out, recruiterSections...)
	case Developer:
		out = append(out, developerSections...)
	case Client:
		out = append(out, clientSections...)
	case All:
		out = append(out, recruiterSections...)
		out = append(out, developerSections...)
		out = append(out, clientSections...)
	default:
		out = append(out, SectionHero)
	}
	return out
}
