package skillgraph

// Strand groups related skills.
type Strand string

const (
	StrandNumberSense Strand = "number-sense"
	StrandAddition    Strand = "addition"
)

// AllStrands returns all strands in display order.
func AllStrands() []Strand {
	return []Strand{
		StrandNumberSense,
		StrandAddition,
	}
}

// StrandDisplayName returns a human-readable name for a strand.
func StrandDisplayName(s Strand) string {
	switch s {
	case StrandNumberSense:
		return "Number Sense"
	case StrandAddition:
		return "Addition"
	default:
		return string(s)
	}
}

// Skill is a node in the skill graph. ID is the tag items carry in
// SkillTags.
type Skill struct {
	ID            string
	Name          string
	Description   string
	Strand        Strand
	Difficulty    int      // relative ordering, 1 = easiest
	Practice      string   // suggested practice activity
	Prerequisites []string // skill IDs
}
