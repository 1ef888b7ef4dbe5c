// Package intake разбирает недоверенный JSON (формы, тела запросов) в строгие
// значения models. Движок видит только то, что прошло через этот пакет.
package intake

import (
	"encoding/json"
	"strconv"
	"strings"

	"contractors/models"

	"github.com/xeipuuv/gojsonschema"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError перечисляет все поля, не прошедшие проверку.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// validate проверяет документ по схеме и возвращает его как map.
func validate(schema *gojsonschema.Schema, raw []byte) (map[string]any, error) {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, &ValidationError{Fields: []FieldError{{Field: "(root)", Message: "invalid JSON body"}}}
	}
	if !result.Valid() {
		verr := &ValidationError{}
		for _, desc := range result.Errors() {
			field := desc.Field()
			if desc.Type() == "required" {
				if p, ok := desc.Details()["property"].(string); ok {
					field = p
				}
			}
			verr.add(field, desc.Description())
		}
		return nil, verr
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ValidationError{Fields: []FieldError{{Field: "(root)", Message: "invalid JSON body"}}}
	}
	return doc, nil
}

func text(doc map[string]any, key string) string {
	switch v := doc[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// number: числа как есть, строки разбираются, всё остальное даёт 0.
func number(doc map[string]any, key string) float64 {
	switch v := doc[key].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil {
			return f
		}
	}
	return 0
}

// flag: true для булева true либо для строки, подходящей под match.
func flag(doc map[string]any, key string, match func(string) bool) bool {
	switch v := doc[key].(type) {
	case bool:
		return v
	case string:
		return match(strings.ToLower(strings.TrimSpace(v)))
	}
	return false
}

func anyFlag(doc map[string]any, match func(string) bool, keys ...string) bool {
	for _, k := range keys {
		if flag(doc, k, match) {
			return true
		}
	}
	return false
}

// IsProvided: строка содержит "provided", но не является отрицанием.
func IsProvided(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "provided") && !strings.Contains(s, "not provided")
}

func equals(word string) func(string) bool {
	return func(s string) bool { return s == word || s == "true" }
}

// SplitRegions разбивает список регионов через запятую.
func SplitRegions(s string) []string {
	out := []string{}
	for _, r := range strings.Split(s, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

func regions(doc map[string]any) []string {
	switch v := doc["regionsCovered"].(type) {
	case string:
		return SplitRegions(v)
	case []any:
		out := []string{}
		for _, r := range v {
			if s, ok := r.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	}
	return []string{}
}

func documents(doc map[string]any) []models.Document {
	items, _ := doc["uploads"].([]any)
	docs := []models.Document{}
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		docs = append(docs, models.Document{
			Field:    text(m, "field"),
			Filename: text(m, "filename"),
			Link:     text(m, "link"),
		})
	}
	return docs
}

// ParseApplication превращает тело заявки в models.Application.
// Принимает как запись из журнала заявок (строковые статусы), так и булевы поля.
func ParseApplication(raw []byte) (models.Application, error) {
	doc, err := validate(applicationValidator, raw)
	if err != nil {
		return models.Application{}, err
	}

	provided := func(s string) bool { return IsProvided(s) || s == "true" }
	return models.Application{
		ApplicationID:         text(doc, "applicationId"),
		ApplicantName:         text(doc, "applicantName"),
		CompanyName:           text(doc, "companyName"),
		TradeCategory:         text(doc, "tradeCategory"),
		YearsOfExperience:     number(doc, "yearsOfExperience"),
		WorkforceSize:         text(doc, "workforceSize"),
		RegionsCovered:        regions(doc),
		EquipmentCapabilities: text(doc, "equipmentCapabilities"),
		COIProvided:           anyFlag(doc, provided, "coiProvided", "coiStatus"),
		W9Provided:            anyFlag(doc, provided, "w9Provided", "w9Submitted", "w9Status"),
		OSHAConfirmed:         anyFlag(doc, equals("yes"), "oshaConfirmed", "oshaCompliance"),
		WorkAuthorized:        anyFlag(doc, equals("yes"), "workAuthorized", "workAuthorization"),
		LicenseVerified:       anyFlag(doc, equals("licensed"), "licenseVerified", "stateLicense"),
		InsuranceExpiryDate:   text(doc, "insuranceExpiryDate"),
		LicenseExpiryDate:     text(doc, "licenseExpiryDate"),
		Uploads:               documents(doc),
	}, nil
}

const (
	coiField = "certificateOfInsurance"
	w9Field  = "w9Form"
)

func hasUpload(docs []models.Document, field string) bool {
	for _, d := range docs {
		if d.Field == field {
			return true
		}
	}
	return false
}

// ParseIntake проверяет публичную форму заявки. Идентификатор, время и IP
// проставляет вызывающий. Страховой сертификат и W-9 обязательны.
func ParseIntake(raw []byte) (models.ApplicationRecord, error) {
	doc, err := validate(intakeValidator, raw)
	if err != nil {
		return models.ApplicationRecord{}, err
	}

	uploads := documents(doc)
	coi := "Not Provided"
	if IsProvided(text(doc, "coiStatus")) || hasUpload(uploads, coiField) {
		coi = "Provided"
	}
	w9 := "Not Provided"
	if IsProvided(text(doc, "w9Status")) || hasUpload(uploads, w9Field) {
		w9 = "Provided"
	}

	verr := &ValidationError{}
	if coi != "Provided" {
		verr.add(coiField, "Certificate of Insurance (COI) upload is required.")
	}
	if w9 != "Provided" {
		verr.add(w9Field, "W-9 upload is required.")
	}
	if len(verr.Fields) > 0 {
		return models.ApplicationRecord{}, verr
	}

	return models.ApplicationRecord{
		ApplicantName:         text(doc, "applicantName"),
		CompanyName:           text(doc, "companyName"),
		TradeCategory:         text(doc, "tradeCategory"),
		YearsOfExperience:     text(doc, "yearsOfExperience"),
		PhoneNumber:           text(doc, "phoneNumber"),
		Email:                 text(doc, "email"),
		RegionsCovered:        text(doc, "regionsCovered"),
		WorkforceSize:         text(doc, "workforceSize"),
		EmergencyAvailability: text(doc, "emergencyAvailability"),
		StateLicense:          text(doc, "stateLicense"),
		StateLicenseNumber:    text(doc, "stateLicenseNumber"),
		OSHACompliance:        text(doc, "oshaCompliance"),
		WorkAuthorization:     text(doc, "workAuthorization"),
		COIStatus:             coi,
		W9Status:              w9,
		Uploads:               uploads,
	}, nil
}

// ParseProjectCompletion разбирает завершение проекта; оценки могут быть строками.
func ParseProjectCompletion(raw []byte) (models.ProjectCompletion, error) {
	doc, err := validate(projectValidator, raw)
	if err != nil {
		return models.ProjectCompletion{}, err
	}
	return models.ProjectCompletion{
		ContractorID: text(doc, "contractorId"),
		ProjectName:  text(doc, "projectName"),
		Rating: models.RatingParts{
			Quality:            number(doc, "quality"),
			Timeliness:         number(doc, "timeliness"),
			Communication:      number(doc, "communication"),
			Compliance:         number(doc, "compliance"),
			ClientSatisfaction: number(doc, "clientSatisfaction"),
		},
	}, nil
}
