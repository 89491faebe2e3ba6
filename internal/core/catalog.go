package core

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/tailscale/hujson"
	"golang.org/x/mod/semver"
)

// supportedCatalogVersion is the newest catalog schema this build understands.
// Catalog metadata is advisory, so a newer version only produces a warning.
const supportedCatalogVersion = "v1"

//go:embed catalog.jsonc
var embeddedCatalog []byte

// ConfigError is a fatal catalog problem: missing file, unparsable
// content, or a package missing a required field.
type ConfigError struct {
	Origin string // File path or "embedded"
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog %s: %s: %v", e.Origin, e.Reason, e.Err)
	}
	return fmt.Sprintf("catalog %s: %s", e.Origin, e.Reason)
}

// Unwrap returns the underlying cause, if any.
func (e *ConfigError) Unwrap() error { return e.Err }

// --- Wire format ---
//
// The catalog file is JSON with comments (parsed via hujson):
//
//	{
//	  "tags": {
//	    "python": {
//	      "displayName": "Python",
//	      "packages": {
//	        "Google ADK": { "source": "...", "installSteps": [...], "description": "..." }
//	      }
//	    }
//	  },
//	  "metadata": { "version": "1.0.0", "declaredTotal": 9 }
//	}

type catalogFile struct {
	Tags     map[string]catalogTag `json:"tags"`
	Metadata catalogMetadata       `json:"metadata"`
}

type catalogTag struct {
	DisplayName string                    `json:"displayName"`
	Packages    map[string]catalogPackage `json:"packages"`
}

type catalogPackage struct {
	Source       string   `json:"source"`
	InstallSteps []string `json:"installSteps,omitempty"`
	Description  string   `json:"description,omitempty"`
}

type catalogMetadata struct {
	Version       string `json:"version,omitempty"`
	DeclaredTotal int    `json:"declaredTotal,omitempty"`
}

// LoadCatalog reads and parses the catalog at path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Origin: path, Reason: "reading catalog", Err: err}
	}
	return ParseCatalog(data, path)
}

// DefaultCatalog parses the catalog embedded in the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(embeddedCatalog, "embedded")
}

// ParseCatalog parses catalog bytes. origin is used in error messages.
func ParseCatalog(data []byte, origin string) (*Catalog, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, &ConfigError{Origin: origin, Reason: "parsing catalog", Err: err}
	}

	var file catalogFile
	if err := json.Unmarshal(standardized, &file); err != nil {
		return nil, &ConfigError{Origin: origin, Reason: "decoding catalog", Err: err}
	}

	if len(file.Tags) == 0 {
		return nil, &ConfigError{Origin: origin, Reason: "catalog declares no tags"}
	}

	// json.Unmarshal loses object key order, but visible_tags must follow
	// the catalog-declared order. Recover it from the token stream.
	tagOrder, err := declaredTagOrder(standardized)
	if err != nil {
		return nil, &ConfigError{Origin: origin, Reason: "reading tag order", Err: err}
	}

	cat := &Catalog{
		Metadata: CatalogMetadata{
			Version:       file.Metadata.Version,
			DeclaredTotal: file.Metadata.DeclaredTotal,
		},
	}

	seen := make(map[string]string) // package name -> tag key, for global uniqueness
	for _, key := range tagOrder {
		raw := file.Tags[key]
		tag := Tag{Key: key, DisplayName: raw.DisplayName}
		if tag.DisplayName == "" {
			tag.DisplayName = key
		}

		for name, cp := range raw.Packages {
			if strings.TrimSpace(name) == "" {
				return nil, &ConfigError{Origin: origin, Reason: fmt.Sprintf("tag %q has a package with an empty name", key)}
			}
			if cp.Source == "" {
				return nil, &ConfigError{Origin: origin, Reason: fmt.Sprintf("package %q is missing a source URL", name)}
			}
			if prev, dup := seen[name]; dup {
				return nil, &ConfigError{Origin: origin, Reason: fmt.Sprintf("package %q declared under both %q and %q", name, prev, key)}
			}
			seen[name] = key

			pkg := Package{
				Name:        name,
				Tag:         key,
				TagName:     tag.DisplayName,
				Source:      cp.Source,
				Description: cp.Description,
			}
			for _, raw := range cp.InstallSteps {
				raw = strings.TrimSpace(raw)
				if raw == "" {
					continue
				}
				pkg.Steps = append(pkg.Steps, ClassifyStep(raw))
			}
			tag.Packages = append(tag.Packages, pkg)
		}

		sort.Slice(tag.Packages, func(i, j int) bool {
			return strings.ToLower(tag.Packages[i].Name) < strings.ToLower(tag.Packages[j].Name)
		})
		cat.Tags = append(cat.Tags, tag)
	}

	return cat, nil
}

// ClassifyStep decides once, from the step's textual shape, whether it
// needs a shell. Operators, substitution, quoting, `source`, and a
// leading environment assignment all force shell execution; everything
// else runs as plain argv so simple commands carry no shell-injection
// surface.
func ClassifyStep(raw string) Step {
	if strings.ContainsAny(raw, "&|;<>$`\"'(){}*?") {
		return Step{Raw: raw, Kind: StepShell}
	}
	if strings.HasPrefix(raw, "source ") || strings.Contains(raw, " source ") {
		return Step{Raw: raw, Kind: StepShell}
	}
	if first, _, _ := strings.Cut(strings.TrimSpace(raw), " "); strings.Contains(first, "=") {
		return Step{Raw: raw, Kind: StepShell}
	}
	return Step{Raw: raw, Kind: StepDirect}
}

// Packages returns every package in the catalog, across all tags.
func (c *Catalog) Packages() []Package {
	var all []Package
	for _, t := range c.Tags {
		all = append(all, t.Packages...)
	}
	return all
}

// FindPackage looks up a package by its (globally unique) name.
func (c *Catalog) FindPackage(name string) (Package, bool) {
	for _, t := range c.Tags {
		for _, p := range t.Packages {
			if p.Name == name {
				return p, true
			}
		}
	}
	return Package{}, false
}

// TotalCount returns the actual number of packages in the catalog.
func (c *Catalog) TotalCount() int {
	n := 0
	for _, t := range c.Tags {
		n += len(t.Packages)
	}
	return n
}

// Warnings returns advisory problems with the catalog metadata.
// These never fail the load.
func (c *Catalog) Warnings() []string {
	var warns []string

	if v := c.Metadata.Version; v != "" {
		canon := v
		if !strings.HasPrefix(canon, "v") {
			canon = "v" + canon
		}
		switch {
		case !semver.IsValid(canon):
			warns = append(warns, fmt.Sprintf("catalog version %q is not a valid semantic version", v))
		case semver.Compare(semver.Major(canon), supportedCatalogVersion) > 0:
			warns = append(warns, fmt.Sprintf("catalog version %s is newer than this build supports (%s); some entries may be ignored", v, supportedCatalogVersion))
		}
	}

	if dt := c.Metadata.DeclaredTotal; dt > 0 && dt != c.TotalCount() {
		warns = append(warns, fmt.Sprintf("catalog declares %d packages but contains %d", dt, c.TotalCount()))
	}

	return warns
}

// declaredTagOrder walks the standardized JSON token stream and returns
// the keys of the top-level "tags" object in declaration order.
func declaredTagOrder(standardized []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(standardized))

	// Opening brace of the document.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)

		if key != "tags" {
			// Skip the whole value.
			if err := skipValue(dec); err != nil {
				return nil, err
			}
			continue
		}

		// Opening brace of the tags object.
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		var order []string
		for dec.More() {
			tagTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			tagKey, _ := tagTok.(string)
			order = append(order, tagKey)
			if err := skipValue(dec); err != nil {
				return nil, err
			}
		}
		return order, nil
	}

	return nil, fmt.Errorf("no tags object found")
}

// skipValue consumes one complete JSON value from the decoder.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil // Scalar, already consumed.
	}
	if delim != '{' && delim != '[' {
		return nil
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
