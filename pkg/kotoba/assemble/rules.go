package assemble

import "github.com/cognicore/kotoba/pkg/kotoba/token"

// rule decides whether the cursor token absorbs the token after it.
type rule struct {
	name  string
	match func(st token.State, cur, next token.Token) bool
}

// extendable: an Extended token always is; a Bare one only when it is a
// verb or auxiliary verb.
func extendable(st token.State, pos token.PartOfSpeech) bool {
	switch st {
	case token.Extended:
		return true
	default:
		return pos == token.Verb || pos == token.AuxiliaryVerb
	}
}

// mergeRules returns the rules in priority order.
func mergeRules(tags Tags) []rule {
	return []rule{
		{
			name: "light-verb",
			match: func(_ token.State, cur, next token.Token) bool {
				return cur.PartOfSpeech == token.Noun && next.RootText == tags.LightVerb
			},
		},
		{
			name: "conjunctive-particle",
			match: func(st token.State, cur, next token.Token) bool {
				return extendable(st, cur.PartOfSpeech) &&
					next.PartOfSpeech == token.Particle && next.Subtype == tags.ConjunctiveParticle
			},
		},
		{
			name: "dependent-verb-or-adjective",
			match: func(st token.State, cur, next token.Token) bool {
				return extendable(st, cur.PartOfSpeech) &&
					(next.PartOfSpeech == token.Verb || next.PartOfSpeech == token.Adjective) &&
					next.Subtype == tags.NotIndependent
			},
		},
		{
			name: "suffix-verb",
			match: func(st token.State, cur, next token.Token) bool {
				return extendable(st, cur.PartOfSpeech) &&
					next.PartOfSpeech == token.Verb && next.Subtype == tags.Suffix
			},
		},
		{
			name: "auxiliary-verb",
			match: func(st token.State, cur, next token.Token) bool {
				return extendable(st, cur.PartOfSpeech) && next.PartOfSpeech == token.AuxiliaryVerb
			},
		},
	}
}

// RuleNames lists the merge rules in the order they are tried.
func RuleNames() []string {
	rules := mergeRules(DefaultTags)
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}
