package corpus

// Location identifies a sentence inside a corpus file
type Location struct {
	Verb  string `json:"verbKey"`
	Tense string `json:"tenseKey"`
	Index int    `json:"index"`
}

// WalkFunc is called for every sentence object of a corpus
type WalkFunc func(loc Location, s *Sentence) error

// Walk visits every sentence in verb, tense and array order. Index is the
// position in the tense array, counting non-object entries.
func (c *Corpus) Walk(fn WalkFunc) error {
	for _, verb := range c.Verbs {
		for _, tense := range verb.Tenses {
			for i, e := range tense.Entries {
				if e.Sentence == nil {
					continue
				}
				if err := fn(Location{Verb: verb.Name, Tense: tense.Name, Index: i}, e.Sentence); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
