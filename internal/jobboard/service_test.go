package jobboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func newTestService() (*Service, *MemoryStore) {
	store := NewMemoryStore()
	tick := fixedNow.Add(-time.Hour)
	store.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	svc := NewService(store)
	svc.now = func() time.Time { return fixedNow }
	return svc, store
}

func posting(title, company string) Posting {
	return Posting{
		Title:        title,
		Company:      company,
		ContactEmail: "hr@" + company + ".example",
		Description:  "desc",
		PostedBy:     "u1",
	}
}

func TestPostValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Post(ctx, Posting{Title: " ", Company: "Acme"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"title", "contact_email", "description", "posted_by"}, ve.Missing)

	p := posting("Go dev", "acme")
	p.ApplicationDeadline = "2024-06-14"
	_, err = svc.Post(ctx, p)
	assert.ErrorIs(t, err, ErrDeadlinePassed)

	p.ApplicationDeadline = "14/06/2024"
	_, err = svc.Post(ctx, p)
	assert.ErrorIs(t, err, ErrInvalidDate)

	p.ApplicationDeadline = "2024-06-15"
	p.Kind = "gig"
	_, err = svc.Post(ctx, p)
	assert.ErrorIs(t, err, ErrInvalidKind)

	p.Kind = ""
	p.Skills = []string{" Go ", "", "SQL"}
	saved, err := svc.Post(ctx, p)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, KindJob, saved.Kind)
	assert.Equal(t, []string{"Go", "SQL"}, saved.Skills)
	assert.False(t, saved.PostedAt.IsZero())
}

func TestListFiltersAndHidesExpired(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	a := posting("Backend", "Acme")
	a.Skills = []string{"Go", "Postgres"}
	a.Locations = []string{"Chennai"}
	_, err := svc.Post(ctx, a)
	require.NoError(t, err)

	b := posting("Intern", "Globex")
	b.Kind = KindInternship
	b.Locations = []string{"Remote"}
	_, err = svc.Post(ctx, b)
	require.NoError(t, err)

	old := posting("Old", "Acme")
	old.ApplicationDeadline = "2024-06-01"
	_, err = store.Insert(ctx, old)
	require.NoError(t, err)

	jobs, err := svc.List(ctx, Filter{Kind: KindJob})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Backend", jobs[0].Title)

	all, err := svc.List(ctx, Filter{IncludeExpired: true})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "Old", all[0].Title, "newest first")

	got, err := svc.List(ctx, Filter{Company: "ACME", Skill: "go", Location: "chennai"})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.List(ctx, Filter{Company: "Acm"})
	require.NoError(t, err)
	assert.Empty(t, got, "company filter is exact")

	got, err = svc.List(ctx, Filter{Kind: KindInternship, Location: "remote"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFacets(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	for _, p := range []Posting{
		{Title: "a", Company: "zeta", Skills: []string{"Go", " rust "}, Locations: []string{"Pune"}},
		{Title: "b", Company: " Alpha ", Skills: []string{"go", ""}, Locations: []string{"pune", "Delhi"}},
		{Title: "c", Company: "Beta", Skills: []string{"Rust"}},
	} {
		p.ContactEmail, p.Description, p.PostedBy = "x@y", "d", "u"
		_, err := svc.Post(ctx, p)
		require.NoError(t, err)
	}

	companies, err := svc.Facets(ctx, KindJob, FacetCompany)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta", "zeta"}, companies)

	skills, err := svc.Facets(ctx, KindJob, FacetSkill)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "go", "Rust", "rust"}, skills)

	locations, err := svc.Facets(ctx, KindJob, FacetLocation)
	require.NoError(t, err)
	assert.Equal(t, []string{"Delhi", "Pune", "pune"}, locations)

	areas, err := svc.Facets(ctx, KindInternship, FacetJobArea)
	require.NoError(t, err)
	assert.Empty(t, areas)

	_, err = svc.Facets(ctx, KindJob, "salary")
	assert.ErrorIs(t, err, ErrUnknownFacet)
}

func TestDeleteOwnership(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	p, err := svc.Post(ctx, posting("Go dev", "acme"))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, p.ID, ""), ErrUserRequired)
	assert.ErrorIs(t, svc.Delete(ctx, "missing", "u1"), ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, p.ID, "u2"), ErrForbidden)
	require.NoError(t, svc.Delete(ctx, p.ID, "u1"))
	assert.ErrorIs(t, svc.Delete(ctx, p.ID, "u1"), ErrNotFound)
}

func TestForYouRanking(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	mk := func(title, company, area string, skills, locations []string) {
		p := posting(title, company)
		p.JobArea, p.Skills, p.Locations = area, skills, locations
		_, err := svc.Post(ctx, p)
		require.NoError(t, err)
	}
	mk("company only", "Google India", "", nil, nil)
	mk("skill+location", "Initech", "", []string{"Golang", "Go"}, []string{"Bangalore"})
	mk("nothing", "Umbrella", "Sales", []string{"Excel"}, []string{"Mumbai"})
	mk("area only", "Hooli", "Backend Engineering", nil, nil)
	mk("area later", "Hooli", "backend", nil, nil)

	pref := Preferences{Companies: []string{"google"}, JobAreas: []string{"Backend"}, Skills: []string{"go"}, Locations: []string{"bangalore"}}
	res, err := svc.ForYou(ctx, KindJob, pref)
	require.NoError(t, err)

	var titles []string
	var scores []int
	for _, r := range res {
		titles = append(titles, r.Title)
		scores = append(scores, r.Score)
	}
	assert.Equal(t, []string{"skill+location", "company only", "area later", "area only"}, titles)
	assert.Equal(t, []int{5, 4, 3, 3}, scores)

	empty, err := svc.ForYou(ctx, KindJob, Preferences{})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCleanupExpired(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	for _, d := range []string{"2024-06-14", "2024-06-15", "", "not a date", "2023-01-01"} {
		p := posting("p"+d, "acme")
		p.ApplicationDeadline = d
		_, err := store.Insert(ctx, p)
		require.NoError(t, err)
	}
	n, err := svc.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	left, err := svc.List(ctx, Filter{IncludeExpired: true})
	require.NoError(t, err)
	assert.Len(t, left, 3)
}

func TestMemoryPreferences(t *testing.T) {
	ctx := context.Background()
	prefs := NewMemoryPreferences()

	got, err := prefs.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, got.Empty())

	require.NoError(t, prefs.Put(ctx, "u1", Preferences{Skills: []string{" Go ", ""}}))
	got, err = prefs.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, got.Skills)

	require.NoError(t, prefs.Delete(ctx, "u1"))
	got, err = prefs.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, got.Empty())
}
