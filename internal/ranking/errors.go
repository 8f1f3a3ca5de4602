package ranking

// NoProfilesError means the ranker was given an empty profile set.
// Callers treat this as fatal for find-best requests; there is nothing
// to rank and nothing to fall back to.
type NoProfilesError struct{}

func (e *NoProfilesError) Error() string {
	return "no candidate profiles available to rank"
}

// NoRequirementsError means the ranker was invoked without a job
// requirement record.
type NoRequirementsError struct{}

func (e *NoRequirementsError) Error() string {
	return "no job requirements provided for ranking"
}
