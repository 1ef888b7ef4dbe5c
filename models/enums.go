package models

import "strings"

type (
	Tier            string // Уровень допуска по итогам одобрения
	Decision        string // Решение по заявке
	Status          string // Статус подрядчика
	AllocationType  string // Способ распределения пакета
	PackageStatus   string // Статус пакета
	OfferStatus     string // Статус предложения
	OfferAction     string // Ответ подрядчика на предложение
	Availability    string // Доступность подрядчика
	PerformanceTier string // Категория по средней оценке проектов
)

const (
	Tier1       Tier = "Tier 1"
	Tier2       Tier = "Tier 2"
	Conditional Tier = "Conditional"
	Reject      Tier = "Reject"

	Approved            Decision = "Approved"
	ConditionalDecision Decision = "Conditional"
	Rejected            Decision = "Rejected"

	StatusActive    Status = "Active"
	StatusProbation Status = "Probation – Performance Review"
	StatusSuspended Status = "Suspended"

	DirectAward       AllocationType = "Direct Award"
	CompetitiveBid    AllocationType = "Competitive Bid"
	EmergencyDispatch AllocationType = "Emergency Dispatch"

	PackageOpen PackageStatus = "Open"

	OfferSent       OfferStatus = "Sent"
	OfferAccepted   OfferStatus = "Accepted"
	OfferDeclined   OfferStatus = "Declined"
	OfferNoResponse OfferStatus = "No Response"

	ActionAccept     OfferAction = "accept"
	ActionDecline    OfferAction = "decline"
	ActionNoResponse OfferAction = "no_response"

	Available   Availability = "Available"
	Limited     Availability = "Limited"
	Unavailable Availability = "Unavailable"

	PriorityAllocation PerformanceTier = "Priority Allocation"
	StandardAllocation PerformanceTier = "Standard Allocation"
	LimitedAllocation  PerformanceTier = "Limited Allocation"
	FlagForReview      PerformanceTier = "Flag for Review"
)

// SuspendedFor возвращает вариант статуса приостановки с причиной.
func SuspendedFor(reason string) Status {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return StatusSuspended
	}
	return Status(string(StatusSuspended) + " – " + reason)
}

// Suspended сообщает, что подрядчик приостановлен (в любом варианте).
func (s Status) Suspended() bool {
	return strings.HasPrefix(string(s), string(StatusSuspended))
}

// OnProbation сообщает, что подрядчик на испытательном сроке.
func (s Status) OnProbation() bool {
	return strings.HasPrefix(string(s), "Probation")
}

// AfterProbationTrigger возвращает статус после срабатывания испытательного срока.
// Приостановка автоматически не понижается до испытательного срока.
func (s Status) AfterProbationTrigger() Status {
	if s.Suspended() {
		return s
	}
	return StatusProbation
}

// Valid проверяет, что статус можно выставить вручную.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusProbation || s.Suspended()
}

func (t Tier) Valid() bool {
	switch t {
	case Tier1, Tier2, Conditional, Reject:
		return true
	}
	return false
}

// Approved сообщает, что уровень считается одобренным (Tier 1 или Tier 2).
func (t Tier) Approved() bool {
	return t == Tier1 || t == Tier2
}

// ParseAllocationType разбирает способ распределения; пустое значение даёт Competitive Bid.
func ParseAllocationType(s string) (AllocationType, bool) {
	switch AllocationType(strings.TrimSpace(s)) {
	case "":
		return CompetitiveBid, true
	case DirectAward:
		return DirectAward, true
	case CompetitiveBid:
		return CompetitiveBid, true
	case EmergencyDispatch:
		return EmergencyDispatch, true
	}
	return "", false
}

// ParseOfferAction разбирает действие без учёта регистра.
func ParseOfferAction(s string) (OfferAction, bool) {
	switch a := OfferAction(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionAccept, ActionDecline, ActionNoResponse:
		return a, true
	}
	return "", false
}
