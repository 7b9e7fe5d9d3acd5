package domain

// ConditionReferenceProvider returns a short encyclopedia summary of a detected condition.
type ConditionReferenceProvider interface {
	GetConditionSummary(conditionLabel string) (string, error)
}
