package models

// SampleStore holds the dataset after normalization. It is never mutated after Load,
// so it can be shared between goroutines without locking.
type SampleStore struct {
	samples    []Sample
	techniques []string
}

// Load parses every raw record. The first bad record aborts the load with an *IngestError;
// records are never dropped silently.
func Load(records []RawRecord) (*SampleStore, error) {
	store := &SampleStore{
		samples: make([]Sample, 0, len(records)),
	}
	seen := make(map[string]bool)

	for i, r := range records {
		s, err := parseSample(i+1, r)
		if err != nil {
			return nil, err
		}
		if !seen[s.Technique] {
			seen[s.Technique] = true
			store.techniques = append(store.techniques, s.Technique)
		}
		store.samples = append(store.samples, s)
	}

	return store, nil
}

// AllTechniques returns the technique labels in the order they first appear in the input.
func (s *SampleStore) AllTechniques() []string {
	out := make([]string, len(s.techniques))
	copy(out, s.techniques)
	return out
}

// Samples returns the samples for which match returns true, in input order.
// A nil predicate matches everything.
func (s *SampleStore) Samples(match func(Sample) bool) []Sample {
	out := make([]Sample, 0)
	for _, sample := range s.samples {
		if match == nil || match(sample) {
			out = append(out, sample)
		}
	}
	return out
}

// PersonSamples returns every sample recorded for one participant.
func (s *SampleStore) PersonSamples(personID string) []Sample {
	return s.Samples(func(sample Sample) bool {
		return sample.PersonID == personID
	})
}

func (s *SampleStore) Len() int {
	return len(s.samples)
}

func (s *SampleStore) hasTechnique(technique string) bool {
	for _, t := range s.techniques {
		if t == technique {
			return true
		}
	}
	return false
}
