package build

import (
	"context"
	"testing"

	"github.com/adnsv/sitepp/directive"
	"github.com/adnsv/sitepp/model"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSite(t *testing.T, files map[string]string) (afero.Fs, *model.Site) {
	t.Helper()
	fs := afero.NewMemMapFs()
	for fn, content := range files {
		require.NoError(t, afero.WriteFile(fs, fn, []byte(content), 0644))
	}
	site := &model.Site{
		Assets: model.NewRegistry(model.Asset{Name: "nav", Path: "parts/nav.html"}),
		Files: []model.Binding{
			{Path: "index.html", Style: "index.css"},
			{Path: "about/index.html"},
		},
	}
	return fs, site
}

var siteFiles = map[string]string{
	"index.html":       "<head><!-- @@STATICSTYLECOPY --></head>\n<!-- @@STATICIMPORT nav -->",
	"index.css":        "h1{}",
	"about/index.html": "<!-- @@STATICIMPORT nav -->\n<p>About</p>",
	"parts/nav.html":   "<nav/>",
}

func TestBuild(t *testing.T) {
	fs, site := newSite(t, siteFiles)
	b := &Builder{Fs: fs}

	rep, err := b.Build(context.Background(), site)
	require.NoError(t, err)
	require.Len(t, rep.Outputs, 2)
	assert.Equal(t, 2, rep.Written())

	index, err := afero.ReadFile(fs, "static_site_out/index.html")
	require.NoError(t, err)
	assert.Equal(t,
		"<head>\n<!-- index.css -->\n<style>\nh1{}\n</style>\n<!-- END index.css -->\n</head>\n"+
			"<!-- nav - parts/nav.html -->\n<nav/>\n<!-- END nav - parts/nav.html -->\n",
		string(index))

	about, err := afero.ReadFile(fs, "static_site_out/about/index.html")
	require.NoError(t, err)
	assert.Equal(t, "<!-- nav - parts/nav.html -->\n<nav/>\n<!-- END nav - parts/nav.html -->\n\n<p>About</p>", string(about))

	assert.Equal(t, "index.html", rep.Outputs[0].Source)
	assert.Equal(t, 1, rep.Outputs[0].Passes)
	assert.Equal(t, 2, rep.Outputs[0].Expansions)
}

func TestBuild_UnchangedOutputIsNotRewritten(t *testing.T) {
	fs, site := newSite(t, siteFiles)
	b := &Builder{Fs: fs, OutDir: "public"}

	_, err := b.Build(context.Background(), site)
	require.NoError(t, err)

	require.NoError(t, afero.WriteFile(fs, "parts/nav.html", []byte("<nav>2</nav>"), 0644))
	site.Files = append(site.Files, model.Binding{Path: "parts/nav.html"})

	rep, err := b.Build(context.Background(), site)
	require.NoError(t, err)
	assert.True(t, rep.Outputs[0].Written)
	assert.True(t, rep.Outputs[1].Written)
	assert.True(t, rep.Outputs[2].Written)

	rep, err = b.Build(context.Background(), site)
	require.NoError(t, err)
	assert.Zero(t, rep.Written())
}

func TestBuild_FailureWritesNothing(t *testing.T) {
	fs, site := newSite(t, siteFiles)
	require.NoError(t, afero.WriteFile(fs, "broken.html", []byte("<!-- @@STATICSCRIPTCOPY -->"), 0644))
	site.Files = append(site.Files, model.Binding{Path: "broken.html"})

	for _, jobs := range []int{1, 4} {
		b := &Builder{Fs: fs, Jobs: jobs}
		_, err := b.Build(context.Background(), site)
		assert.ErrorIs(t, err, directive.ErrMissingBinding)

		exists, err := afero.DirExists(fs, DefaultOutDir)
		require.NoError(t, err)
		assert.False(t, exists)
	}
}

func TestBuild_DryRun(t *testing.T) {
	fs, site := newSite(t, siteFiles)
	b := &Builder{Fs: fs, DryRun: true}

	rep, err := b.Build(context.Background(), site)
	require.NoError(t, err)
	assert.Len(t, rep.Outputs, 2)
	assert.Zero(t, rep.Written())

	exists, err := afero.DirExists(fs, DefaultOutDir)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBuild_ConcurrentMatchesSequential(t *testing.T) {
	files := map[string]string{"parts/nav.html": "<nav/>"}
	site := &model.Site{Assets: model.NewRegistry(model.Asset{Name: "nav", Path: "parts/nav.html"})}
	for _, fn := range []string{"a.html", "b.html", "c.html", "d.html", "e.html", "f.html"} {
		files[fn] = fn + "\n<!-- @@STATICIMPORT nav -->"
		site.Files = append(site.Files, model.Binding{Path: fn})
	}

	fs := afero.NewMemMapFs()
	for fn, content := range files {
		require.NoError(t, afero.WriteFile(fs, fn, []byte(content), 0644))
	}

	seq := &Builder{Fs: fs, OutDir: "seq"}
	_, err := seq.Build(context.Background(), site)
	require.NoError(t, err)

	par := &Builder{Fs: fs, OutDir: "par", Jobs: 3}
	rep, err := par.Build(context.Background(), site)
	require.NoError(t, err)

	for i, o := range rep.Outputs {
		assert.Equal(t, site.Files[i].Path, o.Source)
		want, err := afero.ReadFile(fs, "seq/"+o.Source)
		require.NoError(t, err)
		got, err := afero.ReadFile(fs, "par/"+o.Source)
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got))
	}
}

func TestBuild_PassLimit(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "loop.html", []byte("<!-- @@STATICIMPORT loop -->"), 0644))
	site := &model.Site{
		Assets: model.NewRegistry(model.Asset{Name: "loop", Path: "loop.html"}),
		Files:  []model.Binding{{Path: "loop.html"}},
	}

	b := &Builder{Fs: fs, MaxPasses: 10}
	_, err := b.Build(context.Background(), site)
	assert.ErrorIs(t, err, directive.ErrPassLimit)
}
