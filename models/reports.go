package models

// Строка ранжирования подрядчиков по пакету
type RankedContractor struct {
	ContractorID     string   `json:"contractorId"`
	ContractorName   string   `json:"contractorName"`
	TierLevel        Tier     `json:"tierLevel"`
	Status           Status   `json:"status"`
	Score            float64  `json:"score"`
	ReliabilityIndex *float64 `json:"reliabilityIndex,omitempty"`
	Eligible         bool     `json:"eligible"`
}

type SummaryMetrics struct {
	TotalApprovedContractors int `json:"totalApprovedContractors"`
	Tier1Count               int `json:"tier1Count"`
	Tier2Count               int `json:"tier2Count"`
	ContractorsOnProbation   int `json:"contractorsOnProbation"`
	ExpiringInsuranceAlerts  int `json:"expiringInsuranceAlerts"`
	ActiveProjects           int `json:"activeProjects"`
	PendingApplications      int `json:"pendingApplications"`
	AveragePerformanceScore  int `json:"averagePerformanceScore"`
}

// Предупреждения по подрядчику для общей ленты
type Alert struct {
	ContractorID        string `json:"contractorId"`
	ContractorName      string `json:"contractorName"`
	InsuranceExpiring   bool   `json:"insuranceExpiring"`
	LicenseExpiring     bool   `json:"licenseExpiring"`
	PerformanceDropping bool   `json:"performanceDropping"`
	ThreeDeclines       bool   `json:"threeDeclines"`
}

// Предупреждения в карточке подрядчика
type ContractorAlerts struct {
	InsuranceExpiring bool `json:"insuranceExpiring"`
	LicenseExpiring   bool `json:"licenseExpiring"`
	InsuranceExpired  bool `json:"insuranceExpired"`
	LicenseExpired    bool `json:"licenseExpired"`
	PerformanceLow    bool `json:"performanceLow"`
}

type ContractorDetail struct {
	Contractor Contractor       `json:"contractor"`
	Alerts     ContractorAlerts `json:"alerts"`
	Projects   []Project        `json:"projects"`
}

type ComplianceItem struct {
	ContractorID        string `json:"contractorId"`
	ContractorName      string `json:"contractorName"`
	InsuranceExpiryDate string `json:"insuranceExpiryDate"`
	LicenseExpiryDate   string `json:"licenseExpiryDate"`
}

type RegionCoverage struct {
	Region          string `json:"region"`
	ContractorCount int    `json:"contractorCount"`
}

const (
	ComplianceExpirationReportType = "Compliance Expiration Report"
	RegionalCoverageReportType     = "Regional Coverage Report"
)

type ComplianceReport struct {
	Type  string           `json:"type"`
	Items []ComplianceItem `json:"items"`
}

type CoverageReport struct {
	Type  string           `json:"type"`
	Items []RegionCoverage `json:"items"`
}
