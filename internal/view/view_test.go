package view_test

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/view"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *recordingNotifier) TrackViewChange(_, v string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, v)
}

func (n *recordingNotifier) Calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.calls...)
}

type panickingNotifier struct{}

func (panickingNotifier) TrackViewChange(string, string) { panic("analytics down") }

func TestParseView(t *testing.T) {
	tests := []struct {
		in      string
		want    view.View
		wantErr bool
	}{
		{"", view.None, false},
		{"none", view.None, false},
		{"home", view.None, false},
		{"recruiter", view.Recruiter, false},
		{" Developer ", view.Developer, false},
		{"client", view.Client, false},
		{"ALL", view.All, false},
		{"investor", view.None, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := view.ParseView(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, view.ErrUnknownView)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestView_String(t *testing.T) {
	assert.Equal(t, "none", view.None.String())
	assert.Equal(t, "all", view.All.String())
}

func TestController_StartsOnHome(t *testing.T) {
	c := view.NewController("s1", nil, logger.NewNop(), nil)

	assert.Equal(t, view.None, c.Active())
	assert.Zero(t, c.Writes())
	assert.Equal(t, "s1", c.SessionID())
}

func TestController_ActiveIsLastSelected(t *testing.T) {
	notifier := &recordingNotifier{}
	c := view.NewController("s1", notifier, logger.NewNop(), nil)

	var want []string
	last := view.None
	const steps = 200
	for range steps {
		last = view.Views[rand.IntN(len(view.Views))]
		c.Select(last)
		if last != view.None {
			want = append(want, last.String())
		}
	}

	assert.Equal(t, last, c.Active())
	assert.Equal(t, uint64(steps), c.Writes())
	assert.Equal(t, want, notifier.Calls())
}

func TestController_EveryTransitionIsValid(t *testing.T) {
	for _, from := range view.Views {
		for _, to := range view.Views {
			notifier := &recordingNotifier{}
			c := view.NewController("s1", notifier, logger.NewNop(), nil)
			c.Select(from)
			before := len(notifier.Calls())

			c.Select(to)

			assert.Equal(t, to, c.Active(), "%s -> %s", from, to)
			assert.Equal(t, uint64(2), c.Writes())
			notified := len(notifier.Calls()) - before
			if to == view.None {
				assert.Zero(t, notified, "%s -> home must not notify", from)
			} else {
				assert.Equal(t, 1, notified, "%s -> %s", from, to)
			}
		}
	}
}

func TestController_HomeNeverNotifies(t *testing.T) {
	notifier := &recordingNotifier{}
	c := view.NewController("s1", notifier, logger.NewNop(), nil)

	c.Select(view.Client)
	c.Home()
	c.Home()

	assert.Equal(t, view.None, c.Active())
	assert.Equal(t, []string{"client"}, notifier.Calls())
}

func TestController_AllIsTrackedLikeOtherViews(t *testing.T) {
	notifier := &recordingNotifier{}
	c := view.NewController("s1", notifier, logger.NewNop(), nil)

	c.Select(view.All)
	c.Select(view.All)

	assert.Equal(t, []string{"all", "all"}, notifier.Calls())
}

func TestController_NotifierPanicKeepsState(t *testing.T) {
	c := view.NewController("s1", panickingNotifier{}, logger.NewNop(), nil)

	assert.NotPanics(t, func() { c.Select(view.Developer) })
	assert.Equal(t, view.Developer, c.Active())
}

func TestController_ConcurrentSelect(t *testing.T) {
	notifier := &recordingNotifier{}
	c := view.NewController("s1", notifier, logger.NewNop(), nil)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Select(view.Views[1+i%4])
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(50), c.Writes())
	assert.Len(t, notifier.Calls(), 50)
	assert.NotEqual(t, view.None, c.Active())
}

func TestSections(t *testing.T) {
	assert.Equal(t, []view.Section{view.SectionHero}, view.Sections(view.None))
	assert.Equal(t, []view.Section{view.SectionTechStack, view.SectionProjects}, view.Sections(view.Developer))
	assert.Contains(t, view.Sections(view.Recruiter), view.SectionExperience)
	assert.Contains(t, view.Sections(view.Client), view.SectionTestimonials)

	all := view.Sections(view.All)
	for _, v := range []view.View{view.Recruiter, view.Developer, view.Client} {
		for _, s := range view.Sections(v) {
			assert.Contains(t, all, s)
		}
	}
	assert.NotContains(t, all, view.SectionHero)

	// Callers may modify the result.
	got := view.Sections(view.Developer)
	got[0] = view.SectionHero
	assert.Equal(t, view.SectionTechStack, view.Sections(view.Developer)[0])
}
