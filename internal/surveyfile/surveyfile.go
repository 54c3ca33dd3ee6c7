// Package surveyfile reads survey definitions and sample answers from YAML.
package surveyfile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"surveyflow/internal/model"
)

// Parse decodes one survey definition. Unknown keys are rejected so typos in
// hand-written files surface early.
func Parse(r io.Reader) (*model.Survey, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var def model.Survey
	if err := dec.Decode(&def); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty survey document")
		}
		return nil, fmt.Errorf("decode survey: %w", err)
	}
	return &def, nil
}

// Load reads a definition from path
func Load(path string) (*model.Survey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	def, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// LoadAnswers reads a mapping of question id to value. A null value marks
// the question as explicitly skipped.
func LoadAnswers(path string) (model.Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]*model.Value
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: decode answers: %w", path, err)
	}
	answers := make(model.Answers, len(raw))
	for id, v := range raw {
		if v == nil || v.IsNone() {
			answers[id] = model.Answer{QuestionID: id, Skipped: true}
			continue
		}
		answers[id] = model.Answer{QuestionID: id, Value: *v}
	}
	return answers, nil
}

// Catalog is a read-only set of definitions loaded from a directory. It
// serves as a survey provider when definitions live in files instead of
// the database.
type Catalog struct {
	surveys map[string]*model.Survey
}

// LoadDir loads every .yaml and .yml file in dir. Files without an id are
// keyed by their base name.
func LoadDir(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	c := &Catalog{surveys: make(map[string]*model.Survey)}
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		def, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if def.ID == "" {
			def.ID = strings.TrimSuffix(entry.Name(), ext)
		}
		if _, dup := c.surveys[def.ID]; dup {
			return nil, fmt.Errorf("%s: survey id %q already loaded", entry.Name(), def.ID)
		}
		c.surveys[def.ID] = def
	}
	return c, nil
}

// GetByID returns nil, nil for unknown ids, like the database repository
func (c *Catalog) GetByID(_ context.Context, id string) (*model.Survey, error) {
	return c.surveys[id], nil
}

// IDs lists the loaded survey ids in order
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.surveys))
	for id := range c.surveys {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
