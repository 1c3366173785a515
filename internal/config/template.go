package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"colophon/internal/domain"
)

// templateFile models templates.yaml. The top-level `sections` map defines
// named section rules once; chapters and nested sections can pull them in
// any number of times with a `section: <name>` reference.
type templateFile struct {
	Duplicates string                 `yaml:"duplicates"`
	Sections   map[string]sectionNode `yaml:"sections"`
	Chapters   []sectionNode          `yaml:"chapters"`
}

type sectionNode struct {
	// Section references a named definition from the top-level registry.
	// A reference node carries no other fields.
	Section string `yaml:"section"`

	Title         string        `yaml:"title"`
	IntroAbstract string        `yaml:"intro_abstract"`
	Filter        *filterNode   `yaml:"filter"`
	Sections      []sectionNode `yaml:"sections"`
}

type filterNode struct {
	DocType   []string `yaml:"doc_type"`
	Component []string `yaml:"component"`
	Subsystem []string `yaml:"subsystem"`
	Where     string   `yaml:"where"`
}

// LoadTemplate parses the project's template file into the immutable
// template tree. Decoding is strict: an unknown key anywhere, such as a
// misspelled filter field, fails the build before resolution starts.
func (p *Project) LoadTemplate() (*domain.Template, error) {
	data, err := os.ReadFile(p.TemplatePath())
	if err != nil {
		return nil, fmt.Errorf("cannot read the template file: %w", err)
	}
	return ParseTemplate(data)
}

// ParseTemplate parses template YAML into a validated domain template.
func ParseTemplate(data []byte) (*domain.Template, error) {
	var file templateFile
	if err := yaml.UnmarshalWithOptions(data, &file, yaml.Strict()); err != nil {
		return nil, &domain.ConfigError{Reason: fmt.Sprintf("cannot parse the template file: %v", err)}
	}
	if len(file.Chapters) == 0 {
		return nil, &domain.ConfigError{Reason: "the template defines no chapters"}
	}

	duplicates, err := parseDuplicates(file.Duplicates)
	if err != nil {
		return nil, err
	}

	tpl := &domain.Template{
		Registry:   make(map[string]*domain.Section, len(file.Sections)),
		Duplicates: duplicates,
	}
	for name, node := range file.Sections {
		section, err := node.toSection()
		if err != nil {
			return nil, err
		}
		if section.Ref != "" {
			return nil, &domain.ConfigError{
				Reason: fmt.Sprintf("registry entry %q must define a section, not reference one", name),
			}
		}
		tpl.Registry[name] = section
	}
	for _, node := range file.Chapters {
		chapter, err := node.toSection()
		if err != nil {
			return nil, err
		}
		tpl.Chapters = append(tpl.Chapters, chapter)
	}

	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (n sectionNode) toSection() (*domain.Section, error) {
	if n.Section != "" {
		if n.Title != "" || n.IntroAbstract != "" || n.Filter != nil || len(n.Sections) > 0 {
			return nil, &domain.ConfigError{
				Reason: fmt.Sprintf("reference to %q must not define its own section fields", n.Section),
			}
		}
		return &domain.Section{Ref: n.Section}, nil
	}

	section := &domain.Section{
		Title:         n.Title,
		IntroAbstract: n.IntroAbstract,
	}
	if n.Filter != nil {
		section.Filter = &domain.Filter{
			DocType:   n.Filter.DocType,
			Component: n.Filter.Component,
			Subsystem: n.Filter.Subsystem,
			Where:     n.Filter.Where,
		}
	}
	for _, child := range n.Sections {
		sub, err := child.toSection()
		if err != nil {
			return nil, err
		}
		section.Children = append(section.Children, sub)
	}
	return section, nil
}

func parseDuplicates(value string) (domain.DuplicatePolicy, error) {
	switch value {
	case "", "allow":
		return domain.DuplicatesAllow, nil
	case "first":
		return domain.DuplicatesFirst, nil
	}
	return 0, &domain.ConfigError{Reason: fmt.Sprintf("unknown duplicates policy %q, expected allow or first", value)}
}
