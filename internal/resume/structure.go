package resume

import (
	"context"
	"fmt"
	"strings"

	"github.com/kairos-interview/backend/internal/prompt"
)

// Structure asks the model to section the raw resume text and parses the
// reply into a Profile. Structuring degrades instead of failing: on a model
// error, or a reply with no recognizable section, the returned profile still
// carries the raw text and ContextString falls back to it. The error is
// returned alongside so the caller can log it.
func Structure(ctx context.Context, chat Chatter, rawText string) (*Profile, error) {
	system, user := prompt.BuildStructurePrompt(rawText)
	reply, err := chat.Chat(ctx, system, user)
	if err != nil {
		return &Profile{RawText: rawText}, fmt.Errorf("structure resume: %w", err)
	}
	profile := ParseSections(reply)
	profile.RawText = rawText
	return profile, nil
}

// ParseSections reads the model's sectioned reply. A line naming a known
// section switches the current bucket; "- " lines land in the current
// bucket. Everything before the first heading is ignored.
func ParseSections(reply string) *Profile {
	p := &Profile{}
	var current *[]string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if section := sectionFor(line); section != nil {
			current = section(p)
			continue
		}
		if !strings.HasPrefix(line, "- ") || current == nil {
			continue
		}
		item := strings.TrimSpace(strings.TrimPrefix(line, "- "))
		if item != "" {
			*current = append(*current, item)
		}
	}
	return p
}

// sectionFor matches a heading line, tolerating markdown decoration and a
// trailing colon.
func sectionFor(line string) func(*Profile) *[]string {
	normalized := strings.ToLower(strings.Trim(line, "#*: "))
	// Headings may carry a parenthetical, e.g. "Skills (technical and soft skills)".
	if idx := strings.IndexByte(normalized, '('); idx > 0 {
		normalized = strings.TrimSpace(normalized[:idx])
	}
	switch normalized {
	case "skills":
		return func(p *Profile) *[]string { return &p.Skills }
	case "experience":
		return func(p *Profile) *[]string { return &p.Experience }
	case "education":
		return func(p *Profile) *[]string { return &p.Education }
	case "certifications":
		return func(p *Profile) *[]string { return &p.Certifications }
	case "projects":
		return func(p *Profile) *[]string { return &p.Projects }
	}
	return nil
}
