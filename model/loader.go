package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

var ErrInvalidManifest = errors.New("invalid site manifest")

// fileEntry is a file reference as written in the manifest. It is either an
// object with file/script/style keys or, as a shorthand, a bare path.
type fileEntry struct {
	File   string `json:"file" yaml:"file"`
	Script string `json:"script" yaml:"script"`
	Style  string `json:"style" yaml:"style"`
}

func (f *fileEntry) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		return n.Decode(&f.File)
	}
	type plain fileEntry
	return n.Decode((*plain)(f))
}

func (f *fileEntry) UnmarshalJSON(buf []byte) error {
	buf = bytes.TrimSpace(buf)
	if len(buf) > 0 && buf[0] == '"' {
		return json.Unmarshal(buf, &f.File)
	}
	type plain fileEntry
	return json.Unmarshal(buf, (*plain)(f))
}

func (f fileEntry) binding() Binding {
	return Binding{Path: f.File, Style: f.Style, Script: f.Script}
}

type assetEntry struct {
	Name string    `json:"name" yaml:"name"`
	File fileEntry `json:"file" yaml:"file"`
}

type manifest struct {
	Assets []assetEntry `json:"assets" yaml:"assets"`
	Files  []fileEntry  `json:"files" yaml:"files"`
}

// LoadSite reads the manifest fn from fsys. Files with a .json extension are
// decoded as JSON, anything else as YAML.
func LoadSite(fsys afero.Fs, fn string) (*Site, error) {
	log.Printf("loading manifest from %s\n", fn)
	buf, err := afero.ReadFile(fsys, fn)
	if err != nil {
		return nil, err
	}

	format := "yaml"
	if strings.EqualFold(filepath.Ext(fn), ".json") {
		format = "json"
	}
	site, err := DecodeSite(buf, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	log.Printf("- %d asset(s), %d file(s)\n", site.Assets.Len(), len(site.Files))
	return site, nil
}

// DecodeSite decodes and validates a manifest. format is "json" or "yaml".
func DecodeSite(buf []byte, format string) (*Site, error) {
	m := manifest{}
	var err error
	switch format {
	case "json":
		err = json.Unmarshal(buf, &m)
	case "yaml":
		err = yaml.Unmarshal(buf, &m)
	default:
		return nil, fmt.Errorf("unsupported manifest format '%s'", format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}

	seen := map[string]bool{}
	assets := make([]Asset, 0, len(m.Assets))
	for i, a := range m.Assets {
		if a.Name == "" {
			return nil, fmt.Errorf("%w: asset #%d has no name", ErrInvalidManifest, i+1)
		}
		if a.File.File == "" {
			return nil, fmt.Errorf("%w: asset '%s' has no file", ErrInvalidManifest, a.Name)
		}
		if seen[a.Name] {
			log.Printf("[warning] asset '%s' is defined more than once, the last definition wins\n", a.Name)
		}
		seen[a.Name] = true
		assets = append(assets, Asset{Name: a.Name, Path: a.File.File})
	}

	site := &Site{Assets: NewRegistry(assets...)}
	for i, f := range m.Files {
		if f.File == "" {
			return nil, fmt.Errorf("%w: file #%d has no path", ErrInvalidManifest, i+1)
		}
		site.Files = append(site.Files, f.binding())
	}
	return site, nil
}
