package folio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// notFoundProbe is requested during a build to render 404.html.
const notFoundProbe = "/__folio-404__/"

// BuildReport summarizes a finished static build.
type BuildReport struct {
	OutDir   string
	Pages    int
	Assets   int
	Duration time.Duration
}

// Build renders every static route into outDir. The app must not have been
// started for serving.
func (a *App) Build(ctx context.Context, outDir string) (BuildReport, error) {
	started := time.Now()
	report := BuildReport{OutDir: outDir}

	if err := a.init(true); err != nil {
		return report, err
	}
	col, err := a.content()
	if err != nil {
		return report, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return report, fmt.Errorf("folio: create out dir: %w", err)
	}

	routes := a.staticRoutes(col)
	a.Logger().Infof("building %d routes into %s", len(routes), outDir)

	var pages atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, route := range routes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := a.renderRoute(gctx, outDir, route, outputPath(route), http.StatusOK); err != nil {
				return err
			}
			pages.Add(1)
			return nil
		})
	}
	g.Go(func() error {
		return a.renderRoute(gctx, outDir, notFoundProbe, "404.html", http.StatusNotFound)
	})
	if err := g.Wait(); err != nil {
		return report, err
	}
	report.Pages = int(pages.Load())

	assets, err := a.copyAssets(outDir)
	if err != nil {
		return report, err
	}
	report.Assets = assets
	report.Duration = time.Since(started)

	a.Logger().Infof("built %d pages and %d assets in %s", report.Pages, report.Assets, report.Duration.Round(time.Millisecond))
	return report, nil
}

// staticRoutes lists every URL the site answers with 200 in build mode.
func (a *App) staticRoutes(col *Collection) []string {
	site := a.Config.Site
	f := a.listFilter()
	posts := col.ListPosts(f)

	routes := []string{"/", "/posts/", "/tags/", "/rss.xml"}
	for n := 2; n <= pageCount(len(posts), site.PostsPerPage); n++ {
		routes = append(routes, PostsURL(n))
	}
	for _, p := range posts {
		routes = append(routes, p.Link())
		if p.OGImage == "" {
			routes = append(routes, p.Link()+"og.png")
		}
	}
	for _, t := range col.Tags(f) {
		for n := 1; n <= pageCount(t.Count, site.PostsPerPage); n++ {
			routes = append(routes, TagURL(t.Slug, n))
		}
	}
	if site.ShowArchives {
		routes = append(routes, "/archives/")
	}
	if _, ok := col.About(); ok {
		routes = append(routes, "/about/")
	}
	if site.OGImage == "" {
		routes = append(routes, "/og.png")
	}
	return routes
}

// outputPath maps an escaped route to the file a static host serves for it.
func outputPath(route string) string {
	if raw, err := url.PathUnescape(route); err == nil {
		route = raw
	}
	if strings.HasSuffix(route, "/") {
		return path.Join(route, "index.html")
	}
	return route
}

func (a *App) renderRoute(ctx context.Context, outDir, route, file string, want int) error {
	req := httptest.NewRequest(http.MethodGet, route, nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	if rec.Code != want {
		return fmt.Errorf("folio: build %s: status %d, want %d", route, rec.Code, want)
	}
	dst := filepath.Join(outDir, filepath.FromSlash(strings.TrimPrefix(file, "/")))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("folio: build %s: %w", route, err)
	}
	if err := os.WriteFile(dst, rec.Body.Bytes(), 0o644); err != nil {
		return fmt.Errorf("folio: build %s: %w", route, err)
	}
	a.Logger().Debugf("wrote %s", dst)
	return nil
}

// copyAssets mirrors the static directory under public/ and adds the
// embedded framework assets.
func (a *App) copyAssets(outDir string) (int, error) {
	publicDir := filepath.Join(outDir, "public")
	n := 0

	if _, err := os.Stat(a.Config.StaticDir); err == nil {
		copied, err := copyTree(a.staticFS(), publicDir)
		if err != nil {
			return n, fmt.Errorf("folio: copy static: %w", err)
		}
		n += copied
		if err := copyFile(a.staticFS(), "favicon.svg", filepath.Join(outDir, "favicon.svg")); err == nil {
			n++
		} else if !errors.Is(err, fs.ErrNotExist) {
			return n, fmt.Errorf("folio: copy favicon: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return n, fmt.Errorf("folio: stat static dir: %w", err)
	}

	embedded, err := fs.Sub(EmbeddedAssets, "embedded")
	if err != nil {
		return n, err
	}
	copied, err := copyTree(embedded, publicDir)
	if err != nil {
		return n, fmt.Errorf("folio: copy embedded assets: %w", err)
	}
	return n + copied, nil
}

func copyTree(src fs.FS, dstDir string) (int, error) {
	n := 0
	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		dst := filepath.Join(dstDir, filepath.FromSlash(p))
		if d.IsDir() {
			return os.MkdirAll(dst, 0o755)
		}
		if err := copyFile(src, p, dst); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}

func copyFile(src fs.FS, name, dst string) error {
	in, err := src.Open(name)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
