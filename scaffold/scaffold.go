// Package scaffold lays out a new inkwell site: a config file and a
// content directory with one entry in every collection.
package scaffold

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
)

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

const root = "templates"

// ErrExists is returned when the target directory is already present.
var ErrExists = errors.New("scaffold: target already exists")

// Data holds the template variables passed to every scaffold template.
type Data struct {
	ProjectName string
	SiteName    string
	SiteURL     string
	APIKey      string
	Date        string
}

// NewData derives the template variables for a site created in dir.
func NewData(dir, siteURL string) Data {
	name := filepath.Base(filepath.Clean(dir))
	if siteURL == "" {
		siteURL = "http://localhost:3000"
	}
	return Data{
		ProjectName: name,
		SiteName:    toTitle(name),
		SiteURL:     strings.TrimRight(siteURL, "/"),
		APIKey:      strings.ReplaceAll(uuid.NewString(), "-", ""),
		Date:        time.Now().UTC().Format("2006-01-02"),
	}
}

// Generate renders every template into dir and returns the created files
// relative to dir. dir must not exist.
func Generate(dir string, data Data) ([]string, error) {
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrExists, dir)
	}

	var created []string
	err := fs.WalkDir(Templates, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		outPath := filepath.Join(dir, filepath.FromSlash(strings.TrimSuffix(rel, ".tmpl")))
		if path.Base(rel) == "dotenv.tmpl" {
			outPath = filepath.Join(filepath.Dir(outPath), ".env.example")
		}
		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}

		raw, err := Templates.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		if !strings.HasSuffix(p, ".tmpl") {
			if err := os.WriteFile(outPath, raw, 0o644); err != nil {
				return err
			}
			created = append(created, filepath.ToSlash(mustRel(dir, outPath)))
			return nil
		}

		tmpl, err := template.New(path.Base(p)).Option("missingkey=error").Parse(string(raw))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", p, err)
		}
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		defer f.Close()
		if err := tmpl.Execute(f, data); err != nil {
			return fmt.Errorf("execute template %s: %w", p, err)
		}
		created = append(created, filepath.ToSlash(mustRel(dir, outPath)))
		return nil
	})
	return created, err
}

func mustRel(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return target
	}
	return rel
}

// toTitle converts a hyphenated or lowercase name to a title-case string.
// e.g. "my-blog" -> "My Blog", "myblog" -> "Myblog"
func toTitle(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' })
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
