package content_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/content"
)

func minimalFS(services string) fstest.MapFS {
	file := func(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }
	return fstest.MapFS{
		"profile.json":      file(`{"name":"Ada","title":"Engineer","tagline":"t","social":{"github":"ada"}}`),
		"skills.json":       file(`{"recruiterSkills":[{"name":"Go","level":90}],"techStack":[{"category":"Languages","items":["Go"]}]}`),
		"core-skills.json":  file(`{"categories":[]}`),
		"projects.json":     file(`{"projects":[{"title":"a","featured":true},{"title":"b"}]}`),
		"experience.json":   file(`{"experiences":[{"title":"Dev","company":"Acme","period":"2020","description":"d"}]}`),
		"achievements.json": file(`{"achievements":[]}`),
		"services.json":     file(services),
		"testimonials.json": file(`{"testimonials":[{"id":"1","name":"Grace Brewster Hopper","featured":true},{"id":"2","name":"X","featured":false}]}`),
	}
}

func TestLoadEmbedded(t *testing.T) {
	lib, err := content.LoadEmbedded()
	require.NoError(t, err)

	assert.NotEmpty(t, lib.Profile().Name)
	assert.Equal(t, "Zachkp", lib.Actor())
	assert.NotEmpty(t, lib.RecruiterSkills())
	assert.NotEmpty(t, lib.TechStack())
	assert.NotEmpty(t, lib.CoreSkills().Categories)
	assert.NotEmpty(t, lib.Experience())
	assert.NotEmpty(t, lib.Achievements())
	assert.NotEmpty(t, lib.ClientData().Services)
	assert.NotEmpty(t, lib.ClientData().WorkProcess)

	for _, s := range lib.ClientData().Services {
		assert.NotEmpty(t, s.Icon.Glyph(), s.Title)
	}
	for _, name := range content.Documents {
		_, ok := lib.Document(name)
		assert.True(t, ok, name)
	}
}

func TestLoad_FeaturedFilters(t *testing.T) {
	lib, err := content.Load(minimalFS(`{"services":[{"icon":"rocket","title":"s"}]}`))
	require.NoError(t, err)

	assert.Len(t, lib.Projects(false), 2)
	featured := lib.Projects(true)
	require.Len(t, featured, 1)
	assert.Equal(t, "a", featured[0].Title)
	assert.Len(t, lib.Projects(false), 2, "filtering must not modify the library")

	testimonials := lib.Testimonials(true)
	require.Len(t, testimonials, 1)
	assert.Equal(t, "GBH", testimonials[0].Initials())
	assert.Len(t, lib.Testimonials(false), 2)

	assert.Equal(t, content.IconRocket, lib.ClientData().Services[0].Icon)
}

func TestLoad_UnknownIconFails(t *testing.T) {
	_, err := content.Load(minimalFS(`{"services":[{"icon":"unicorn","title":"s"}]}`))

	require.ErrorIs(t, err, content.ErrUnknownIcon)
	assert.Contains(t, err.Error(), "services")
}

func TestLoad_MissingDocument(t *testing.T) {
	fsys := minimalFS(`{"services":[]}`)
	delete(fsys, "skills.json")

	_, err := content.Load(fsys)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read skills")
}

func TestDocument_Unknown(t *testing.T) {
	lib, err := content.Load(minimalFS(`{"services":[]}`))
	require.NoError(t, err)

	_, ok := lib.Document("secrets")
	assert.False(t, ok)
}

func TestActor(t *testing.T) {
	tests := map[string]string{
		"":                            "",
		"ada":                         "ada",
		"@ada":                        "ada",
		"https://github.com/ada":      "ada",
		"https://github.com/ada/":     "ada",
		"https://github.com/ada/repo": "ada",
	}
	for link, want := range tests {
		fsys := minimalFS(`{"services":[]}`)
		fsys["profile.json"] = &fstest.MapFile{Data: []byte(`{"name":"Ada","social":{"github":"` + link + `"}}`)}

		lib, err := content.Load(fsys)
		require.NoError(t, err)
		assert.Equal(t, want, lib.Actor(), link)
	}
}

func TestIcon_Glyph(t *testing.T) {
	for _, name := range []string{"zap", "trending-up", "users", "code", "rocket", "target"} {
		icon, err := content.ParseIcon(name)
		require.NoError(t, err)
		assert.NotEmpty(t, icon.Glyph(), name)
	}
	assert.Empty(t, content.Icon("unicorn").Glyph())
}
