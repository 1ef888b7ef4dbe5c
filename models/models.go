package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Сущность Заявки (строго типизированная, после разбора в intake)
type Application struct {
	ApplicationID         string     `json:"applicationId"`
	ApplicantName         string     `json:"applicantName"`
	CompanyName           string     `json:"companyName"`
	TradeCategory         string     `json:"tradeCategory"`
	YearsOfExperience     float64    `json:"yearsOfExperience"`
	WorkforceSize         string     `json:"workforceSize"`
	RegionsCovered        []string   `json:"regionsCovered"`
	EquipmentCapabilities string     `json:"equipmentCapabilities"`
	COIProvided           bool       `json:"coiProvided"`
	W9Provided            bool       `json:"w9Provided"`
	OSHAConfirmed         bool       `json:"oshaConfirmed"`
	WorkAuthorized        bool       `json:"workAuthorized"`
	LicenseVerified       bool       `json:"licenseVerified"`
	InsuranceExpiryDate   string     `json:"insuranceExpiryDate"`
	LicenseExpiryDate     string     `json:"licenseExpiryDate"`
	Uploads               []Document `json:"uploads"`
}

// Запись журнала заявок (как пришла из публичной формы)
type ApplicationRecord struct {
	ApplicationID         string     `json:"applicationId"`
	Timestamp             time.Time  `json:"timestamp"`
	IPAddress             string     `json:"ipAddress"`
	ApplicantName         string     `json:"applicantName"`
	CompanyName           string     `json:"companyName"`
	TradeCategory         string     `json:"tradeCategory"`
	YearsOfExperience     string     `json:"yearsOfExperience"`
	PhoneNumber           string     `json:"phoneNumber"`
	Email                 string     `json:"email"`
	RegionsCovered        string     `json:"regionsCovered"`
	WorkforceSize         string     `json:"workforceSize"`
	EmergencyAvailability string     `json:"emergencyAvailability"`
	StateLicense          string     `json:"stateLicense"`
	StateLicenseNumber    string     `json:"stateLicenseNumber"`
	OSHACompliance        string     `json:"oshaCompliance"`
	WorkAuthorization     string     `json:"workAuthorization"`
	COIStatus             string     `json:"coiStatus"`
	W9Status              string     `json:"w9Status"`
	Uploads               []Document `json:"uploads"`
}

type ApprovalBreakdown struct {
	ComplianceScore      int `json:"complianceScore"`
	ExperienceScore      int `json:"experienceScore"`
	CapacityScore        int `json:"capacityScore"`
	ProfessionalismScore int `json:"professionalismScore"`
	FinancialScore       int `json:"financialScore"`
}

type Compliance struct {
	InsuranceExpiryDate string    `json:"insuranceExpiryDate"`
	LicenseExpiryDate   string    `json:"licenseExpiryDate"`
	W9Submitted         bool      `json:"w9Submitted"`
	OSHAConfirmed       bool      `json:"oshaConfirmed"`
	LicenseVerified     bool      `json:"licenseVerified"`
	LastVerifiedAt      time.Time `json:"lastVerifiedAt"`
}

type Performance struct {
	AverageScore        int             `json:"averageScore"`
	TotalScore          float64         `json:"totalScore"`
	ProjectsCompleted   int             `json:"projectsCompleted"`
	RecentProjectScores []float64       `json:"recentProjectScores"`
	Tier                PerformanceTier `json:"tier"`
}

type ResponseHistory struct {
	OffersSent       int     `json:"offersSent"`
	OffersAccepted   int     `json:"offersAccepted"`
	OffersDeclined   int     `json:"offersDeclined"`
	OffersNoResponse int     `json:"offersNoResponse"`
	NoResponseStreak int     `json:"noResponseStreak"`
	ResponseRate     float64 `json:"responseRate"`
}

type Flags struct {
	SafetyViolations   int `json:"safetyViolations"`
	VerifiedComplaints int `json:"verifiedComplaints"`
}

type Probation struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Active    bool      `json:"active"`
}

type Note struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Text      string    `json:"text"`
}

type Document struct {
	Field    string `json:"field"`
	Filename string `json:"filename"`
	Link     string `json:"link"`
}

// Сущность Подрядчика
type Contractor struct {
	ID                    string            `json:"id"`
	CreatedAt             time.Time         `json:"createdAt"`
	ContractorName        string            `json:"contractorName"`
	CompanyName           string            `json:"companyName"`
	TradeCategory         string            `json:"tradeCategory"`
	TierLevel             Tier              `json:"tierLevel"`
	ApprovalScore         int               `json:"approvalScore"`
	ApprovalBreakdown     ApprovalBreakdown `json:"approvalBreakdown"`
	Status                Status            `json:"status"`
	RegionsCovered        []string          `json:"regionsCovered"`
	CrewSize              string            `json:"crewSize"`
	EquipmentCapabilities string            `json:"equipmentCapabilities"`
	YearsExperience       float64           `json:"yearsExperience"`
	Compliance            Compliance        `json:"compliance"`
	Performance           Performance       `json:"performance"`
	ResponseHistory       ResponseHistory   `json:"responseHistory"`
	Availability          Availability      `json:"availability"`
	Flags                 Flags             `json:"flags"`
	Probation             *Probation        `json:"probation"`
	Notes                 []Note            `json:"notes"`
	Documents             []Document        `json:"documents"`
	ApplicationID         string            `json:"applicationId"`
}

// CoversRegion проверяет регион без учёта регистра.
func (c *Contractor) CoversRegion(region string) bool {
	for _, r := range c.RegionsCovered {
		if strings.EqualFold(r, region) {
			return true
		}
	}
	return false
}

// Оценки проекта по категориям
type RatingParts struct {
	Quality            float64 `json:"quality"`
	Timeliness         float64 `json:"timeliness"`
	Communication      float64 `json:"communication"`
	Compliance         float64 `json:"compliance"`
	ClientSatisfaction float64 `json:"clientSatisfaction"`
}

func (p RatingParts) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *RatingParts) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		*p = RatingParts{}
		return nil
	}
	return errors.New("rating parts: unsupported source type")
}

// Сущность завершённого Проекта
type Project struct {
	ID           string      `db:"id" json:"id"`
	ContractorID string      `db:"contractor_id" json:"contractorId"`
	ProjectName  string      `db:"project_name" json:"projectName"`
	CompletedAt  time.Time   `db:"completed_at" json:"completedAt"`
	Rating       float64     `db:"rating" json:"rating"`
	Parts        RatingParts `db:"parts" json:"parts"`
	Status       string      `db:"status" json:"status"`
}

const (
	ProjectActive    = "Active"
	ProjectCompleted = "Completed"
)

// Сущность Пакета субподряда
type Package struct {
	ID             string         `db:"id" json:"id"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
	Name           string         `db:"name" json:"name"`
	TradeCategory  string         `db:"trade_category" json:"tradeCategory"`
	Region         string         `db:"region" json:"region"`
	AllocationType AllocationType `db:"allocation_type" json:"allocationType"`
	Status         PackageStatus  `db:"status" json:"status"`
}

// Сущность Предложения
type Offer struct {
	ID           string      `db:"id" json:"id"`
	PackageID    string      `db:"package_id" json:"packageId"`
	ContractorID string      `db:"contractor_id" json:"contractorId"`
	SentAt       time.Time   `db:"sent_at" json:"sentAt"`
	ExpiresAt    time.Time   `db:"expires_at" json:"expiresAt"`
	Status       OfferStatus `db:"status" json:"status"`
}

// Dataset: весь набор данных, читается и пишется целиком за один цикл.
type Dataset struct {
	Contractors []Contractor      `json:"contractors"`
	Packages    []Package         `json:"packages"`
	Offers      []Offer           `json:"offers"`
	Projects    []Project         `json:"projects"`
	Settings    map[string]string `json:"settings"`
}

func NewDataset(now time.Time) *Dataset {
	return &Dataset{
		Contractors: []Contractor{},
		Packages:    []Package{},
		Offers:      []Offer{},
		Projects:    []Project{},
		Settings:    map[string]string{"createdAt": now.UTC().Format(time.RFC3339)},
	}
}

// Normalize заменяет nil-срезы пустыми, чтобы JSON не содержал null.
func (d *Dataset) Normalize() {
	if d.Contractors == nil {
		d.Contractors = []Contractor{}
	}
	if d.Packages == nil {
		d.Packages = []Package{}
	}
	if d.Offers == nil {
		d.Offers = []Offer{}
	}
	if d.Projects == nil {
		d.Projects = []Project{}
	}
	if d.Settings == nil {
		d.Settings = map[string]string{}
	}
}

func (d *Dataset) Contractor(id string) *Contractor {
	for i := range d.Contractors {
		if d.Contractors[i].ID == id {
			return &d.Contractors[i]
		}
	}
	return nil
}

func (d *Dataset) Package(id string) *Package {
	for i := range d.Packages {
		if d.Packages[i].ID == id {
			return &d.Packages[i]
		}
	}
	return nil
}

func (d *Dataset) Offer(id string) *Offer {
	for i := range d.Offers {
		if d.Offers[i].ID == id {
			return &d.Offers[i]
		}
	}
	return nil
}

func (d *Dataset) OffersForPackage(packageID string) []Offer {
	offers := []Offer{}
	for _, o := range d.Offers {
		if o.PackageID == packageID {
			offers = append(offers, o)
		}
	}
	return offers
}

func (d *Dataset) ProjectsForContractor(contractorID string) []Project {
	projects := []Project{}
	for _, p := range d.Projects {
		if p.ContractorID == contractorID {
			projects = append(projects, p)
		}
	}
	return projects
}
