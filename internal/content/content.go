// Package content loads the guide and changelog, renders the guide's
// markdown once, and keeps the rendered site available for views, search
// and static export.
package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	siteerrors "github.com/conneroisu/sprout/internal/errors"
	"gopkg.in/yaml.v3"
)

//go:embed site
var embedded embed.FS

// EmbeddedFS returns the content shipped with the binary.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embedded, "site")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}

	return sub
}

// Section is one rendered guide page.
type Section struct {
	Index    int
	Title    string
	File     string
	HTML     string
	Text     string
	Headings []Heading
}

// Release is one changelog entry.
type Release struct {
	Version string   `yaml:"version" json:"version"`
	Date    string   `yaml:"date,omitempty" json:"date,omitempty"`
	Changes []string `yaml:"changes" json:"changes"`
}

// Site is the fully rendered content. It is immutable once loaded.
type Site struct {
	Guide     []Section
	Changelog []Release
	CSS       string
}

// Section returns the guide section at index.
func (s *Site) Section(index int) (Section, bool) {
	if index < 0 || index >= len(s.Guide) {
		return Section{}, false
	}

	return s.Guide[index], true
}

type guideManifest struct {
	Sections []struct {
		Title string `yaml:"title"`
		File  string `yaml:"file"`
	} `yaml:"sections"`
}

type changelogFile struct {
	Releases []Release `yaml:"releases"`
}

// Load reads the guide manifest and changelog from fsys and renders every
// guide section with md. Section files are resolved relative to the
// manifest.
func Load(fsys fs.FS, guidePath, changelogPath string, md *Markdown) (*Site, error) {
	var manifest guideManifest
	if err := readYAML(fsys, guidePath, &manifest); err != nil {
		return nil, err
	}
	if len(manifest.Sections) == 0 {
		return nil, siteerrors.ErrContentLoad(guidePath, fmt.Errorf("manifest lists no sections"))
	}

	var changelog changelogFile
	if err := readYAML(fsys, changelogPath, &changelog); err != nil {
		return nil, err
	}

	site := &Site{
		Guide:     make([]Section, 0, len(manifest.Sections)),
		Changelog: changelog.Releases,
	}

	base := path.Dir(guidePath)
	for i, entry := range manifest.Sections {
		file := path.Join(base, entry.File)
		section, err := renderSection(fsys, file, md)
		if err != nil {
			return nil, err
		}
		section.Index = i
		section.Title = entry.Title
		if section.Title == "" {
			section.Title = firstHeading(section.Headings, entry.File)
		}
		site.Guide = append(site.Guide, section)
	}

	var css strings.Builder
	if err := md.WriteCSS(&css); err != nil {
		return nil, siteerrors.NewContentError(siteerrors.ErrCodeContentLoad, "failed to write highlight css", err)
	}
	site.CSS = css.String()

	return site, nil
}

func renderSection(fsys fs.FS, file string, md *Markdown) (Section, error) {
	source, err := readFile(fsys, file)
	if err != nil {
		return Section{}, err
	}

	rendered, err := md.Render(source)
	if err != nil {
		return Section{}, siteerrors.ErrContentLoad(file, err)
	}

	headings, text, err := outline(rendered)
	if err != nil {
		return Section{}, siteerrors.ErrContentLoad(file, err)
	}

	return Section{
		File:     file,
		HTML:     rendered,
		Text:     text,
		Headings: headings,
	}, nil
}

func readYAML(fsys fs.FS, name string, out interface{}) error {
	data, err := readFile(fsys, name)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return siteerrors.ErrContentLoad(name, err)
	}

	return nil
}

// readFile reads name from fsys. A missing file is reported with the
// not-found code under the content load error.
func readFile(fsys fs.FS, name string) ([]byte, error) {
	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, siteerrors.ErrContentLoad(name, siteerrors.ErrFileNotFound(name, err))
	}
	if err != nil {
		return nil, siteerrors.ErrContentLoad(name, err)
	}

	return data, nil
}

func firstHeading(headings []Heading, fallback string) string {
	for _, h := range headings {
		if h.Level == 1 && h.Text != "" {
			return h.Text
		}
	}

	return strings.TrimSuffix(path.Base(fallback), path.Ext(fallback))
}
