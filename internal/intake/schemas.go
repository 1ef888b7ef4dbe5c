package intake

import "github.com/xeipuuv/gojsonschema"

const textOrFlag = `{"type": ["string", "boolean", "null"]}`

// Заявка, переданная администратором для создания подрядчика.
const applicationSchema = `{
  "type": "object",
  "required": ["tradeCategory"],
  "properties": {
    "applicationId":         {"type": ["string", "null"]},
    "applicantName":         {"type": ["string", "null"]},
    "companyName":           {"type": ["string", "null"]},
    "tradeCategory":         {"type": "string", "pattern": "\\S"},
    "yearsOfExperience":     {"type": ["number", "string", "null"]},
    "workforceSize":         {"type": ["string", "number", "null"]},
    "regionsCovered":        {"type": ["string", "array", "null"], "items": {"type": "string"}},
    "equipmentCapabilities": {"type": ["string", "null"]},
    "insuranceExpiryDate":   {"type": ["string", "null"]},
    "licenseExpiryDate":     {"type": ["string", "null"]},
    "coiStatus":             ` + textOrFlag + `,
    "coiProvided":           ` + textOrFlag + `,
    "w9Status":              ` + textOrFlag + `,
    "w9Provided":            ` + textOrFlag + `,
    "w9Submitted":           ` + textOrFlag + `,
    "oshaCompliance":        ` + textOrFlag + `,
    "oshaConfirmed":         ` + textOrFlag + `,
    "workAuthorization":     ` + textOrFlag + `,
    "workAuthorized":        ` + textOrFlag + `,
    "stateLicense":          ` + textOrFlag + `,
    "licenseVerified":       ` + textOrFlag + `,
    "uploads": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "field":    {"type": "string"},
          "filename": {"type": "string"},
          "link":     {"type": ["string", "null"]}
        }
      }
    }
  }
}`

// Публичная форма заявки.
const intakeSchema = `{
  "type": "object",
  "required": [
    "applicantName", "companyName", "tradeCategory", "yearsOfExperience",
    "phoneNumber", "email", "regionsCovered", "stateLicense",
    "oshaCompliance", "workAuthorization"
  ],
  "properties": {
    "applicantName":         {"type": "string", "pattern": "\\S"},
    "companyName":           {"type": "string", "pattern": "\\S"},
    "tradeCategory":         {"type": "string", "pattern": "\\S"},
    "yearsOfExperience":     {"type": ["string", "number"], "pattern": "\\S"},
    "phoneNumber":           {"type": "string", "pattern": "\\S"},
    "email":                 {"type": "string", "format": "email"},
    "regionsCovered":        {"type": "string", "pattern": "\\S"},
    "workforceSize":         {"type": ["string", "number", "null"]},
    "emergencyAvailability": {"type": ["string", "null"]},
    "stateLicense":          {"type": "string", "pattern": "\\S"},
    "stateLicenseNumber":    {"type": ["string", "null"]},
    "oshaCompliance":        {"type": "string", "pattern": "\\S"},
    "workAuthorization":     {"type": "string", "pattern": "\\S"},
    "coiStatus":             {"type": ["string", "null"]},
    "w9Status":              {"type": ["string", "null"]},
    "uploads": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["field", "filename"],
        "properties": {
          "field":    {"type": "string"},
          "filename": {"type": "string"},
          "link":     {"type": ["string", "null"]}
        }
      }
    }
  }
}`

// Завершение проекта: оценки по категориям лежат на верхнем уровне.
const projectSchema = `{
  "type": "object",
  "required": ["contractorId", "projectName"],
  "properties": {
    "contractorId":       {"type": "string", "pattern": "\\S"},
    "projectName":        {"type": "string", "pattern": "\\S"},
    "quality":            {"type": ["number", "string", "null"]},
    "timeliness":         {"type": ["number", "string", "null"]},
    "communication":      {"type": ["number", "string", "null"]},
    "compliance":         {"type": ["number", "string", "null"]},
    "clientSatisfaction": {"type": ["number", "string", "null"]}
  }
}`

var (
	applicationValidator = mustSchema(applicationSchema)
	intakeValidator      = mustSchema(intakeSchema)
	projectValidator     = mustSchema(projectSchema)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic("intake: bad schema: " + err.Error())
	}
	return s
}
