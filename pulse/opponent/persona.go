package opponent

import "math/rand"

// Persona defines a named computer-opponent character. Style feeds the
// narration prompt; CannedLines is the always-available fallback rotation.
type Persona struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Tagline     string   `json:"tagline"`
	Style       string   `json:"style"`
	CannedLines []string `json:"cannedLines"`
}

// defaultPersonas is the built-in cast.
var defaultPersonas = []Persona{
	{
		ID:      "vex",
		Name:    "VEX",
		Tagline: "the cold auditor",
		Style:   "clipped, clinical, faintly disappointed",
		CannedLines: []string{
			"Logged. Your static is accumulating.",
			"That pattern was tried by better minds.",
			"Recalibrating. You should too.",
		},
	},
	{
		ID:      "mirth",
		Name:    "MIRTH",
		Tagline: "the giggling jammer",
		Style:   "playful, taunting, full of radio slang",
		CannedLines: []string{
			"Ooh, all that static! Music to me.",
			"Warmer... colder... who can say?",
			"My code giggles every time you miss.",
		},
	},
	{
		ID:      "oracle",
		Name:    "ORACLE",
		Tagline: "the patient archive",
		Style:   "grand, cryptic, speaks in probabilities",
		CannedLines: []string{
			"The digits align against you today.",
			"I have seen ten thousand guesses. Yours was not new.",
			"Every flash narrows your fate.",
		},
	},
}

// Registry resolves persona ids to definitions.
type Registry struct {
	personas map[string]Persona
	order    []string
}

// NewRegistry builds a registry over the built-in cast.
func NewRegistry() *Registry {
	r := &Registry{personas: make(map[string]Persona, len(defaultPersonas))}
	for _, p := range defaultPersonas {
		r.personas[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r
}

// Lookup returns the persona for id, falling back to the first entry
// for unknown ids so restored sessions never lose their opponent.
func (r *Registry) Lookup(id string) Persona {
	if p, ok := r.personas[id]; ok {
		return p
	}
	return r.personas[r.order[0]]
}

// Random picks a persona for a fresh session.
func (r *Registry) Random(rng *rand.Rand) Persona {
	return r.personas[r.order[rng.Intn(len(r.order))]]
}

// IDs lists the registered persona ids in registration order.
func (r *Registry) IDs() []string {
	return append([]string{}, r.order...)
}
