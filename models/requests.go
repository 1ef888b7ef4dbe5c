package models

// Завершение проекта: оценки по категориям для подрядчика
type ProjectCompletion struct {
	ContractorID string      `json:"contractorId"`
	ProjectName  string      `json:"projectName"`
	Rating       RatingParts `json:"rating"`
}

// Частичное изменение подрядчика администратором; nil означает «не менять».
type ContractorPatch struct {
	TierLevel           *Tier         `json:"tierLevel,omitempty"`
	Status              *Status       `json:"status,omitempty"`
	Availability        *Availability `json:"availability,omitempty"`
	InsuranceExpiryDate *string       `json:"insuranceExpiryDate,omitempty"`
	LicenseExpiryDate   *string       `json:"licenseExpiryDate,omitempty"`
	W9Submitted         *bool         `json:"w9Submitted,omitempty"`
	OSHAConfirmed       *bool         `json:"oshaConfirmed,omitempty"`
	LicenseVerified     *bool         `json:"licenseVerified,omitempty"`
	SafetyViolations    *int          `json:"addSafetyViolations,omitempty"`
	VerifiedComplaints  *int          `json:"addVerifiedComplaints,omitempty"`
}

// Запрос на создание пакета
type PackageRequest struct {
	Name           string         `json:"name"`
	TradeCategory  string         `json:"tradeCategory"`
	Region         string         `json:"region"`
	AllocationType AllocationType `json:"allocationType"`
}
