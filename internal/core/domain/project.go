package domain

import (
	"encoding/json"
	"time"
)

// ListSections names every project sub-collection stored as an ordered
// sequence of loosely typed records. Their payloads are pass-through: the
// persistence layer never inspects or validates the embedded shapes.
var ListSections = []string{
	"boq",
	"variationOrders",
	"rfis",
	"labTests",
	"scheduleTasks",
	"structures",
	"structureTemplates",
	"agencies",
	"agencyPayments",
	"agencyMaterials",
	"agencyBills",
	"inventory",
	"purchaseOrders",
	"vehicles",
	"vehicleLogs",
	"fleet",
	"documents",
	"sitePhotos",
	"dailyReports",
	"preConstructionTasks",
	"landParcels",
	"mapOverlays",
	"hindrances",
	"ncrs",
	"bills",
	"measurementSheets",
	"staffLocations",
	"personnel",
	"resources",
	"milestones",
	"comments",
	"checklists",
	"defects",
	"complianceWorkflows",
	"auditLogs",
	"accountingIntegrations",
	"accountingTransactions",
}

// ObjectSections names the singleton sub-collections stored as a single
// structured object per project.
var ObjectSections = []string{
	"settings",
	"weather",
	"environmentRegistry",
}

// identity fields of the flattened wire/storage representation. Everything
// not named here is treated as a section and passed through untouched.
var identityKeys = map[string]struct{}{
	"id": {}, "name": {}, "code": {}, "location": {}, "contractor": {},
	"client": {}, "engineer": {}, "startDate": {}, "endDate": {},
	"status": {}, "description": {}, "createdAt": {}, "updatedAt": {},
}

// IsIdentityField reports whether key is one of the typed project fields
// rather than an embedded sub-collection.
func IsIdentityField(key string) bool {
	_, ok := identityKeys[key]
	return ok
}

// Project is the central aggregate: one record per construction project.
// Identity and contact fields are typed; every sub-collection lives in
// Sections and is flattened to a top-level key on the wire and in storage,
// so the JSON contract matches what the frontend reads and writes.
type Project struct {
	ID          string
	Name        string
	Code        string
	Location    string
	Contractor  string
	Client      string
	Engineer    string
	StartDate   string
	EndDate     string
	Status      string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Sections map[string]any
}

// ApplyDefaults fills every missing sub-collection with its empty shape:
// [] for list sections, {} for singleton sections. A stored project never
// carries a null section.
func (p *Project) ApplyDefaults() {
	if p.Sections == nil {
		p.Sections = make(map[string]any, len(ListSections)+len(ObjectSections))
	}
	for _, name := range ListSections {
		if v, ok := p.Sections[name]; !ok || v == nil {
			p.Sections[name] = []any{}
		}
	}
	for _, name := range ObjectSections {
		if v, ok := p.Sections[name]; !ok || v == nil {
			p.Sections[name] = map[string]any{}
		}
	}
}

// Validate enforces the aggregate's required fields.
func (p *Project) Validate() error {
	if p.ID == "" || p.Name == "" || p.Client == "" {
		return ErrInvalidInput
	}
	return nil
}

// ToMap flattens the project into its wire/storage representation: identity
// fields plus every section as a top-level key. Timestamps are rendered as
// RFC 3339 strings so the map round-trips identically through JSON and the
// document store.
func (p *Project) ToMap() map[string]any {
	m := make(map[string]any, len(p.Sections)+13)
	for k, v := range p.Sections {
		m[k] = v
	}
	m["id"] = p.ID
	m["name"] = p.Name
	m["code"] = p.Code
	m["location"] = p.Location
	m["contractor"] = p.Contractor
	m["client"] = p.Client
	m["engineer"] = p.Engineer
	m["startDate"] = p.StartDate
	m["endDate"] = p.EndDate
	m["status"] = p.Status
	m["description"] = p.Description
	m["createdAt"] = p.CreatedAt.UTC().Format(time.RFC3339)
	m["updatedAt"] = p.UpdatedAt.UTC().Format(time.RFC3339)
	return m
}

// ProjectFromMap rebuilds a Project from its flattened representation.
// Unknown keys are preserved as sections, never dropped.
func ProjectFromMap(m map[string]any) *Project {
	p := &Project{
		ID:          stringField(m, "id"),
		Name:        stringField(m, "name"),
		Code:        stringField(m, "code"),
		Location:    stringField(m, "location"),
		Contractor:  stringField(m, "contractor"),
		Client:      stringField(m, "client"),
		Engineer:    stringField(m, "engineer"),
		StartDate:   stringField(m, "startDate"),
		EndDate:     stringField(m, "endDate"),
		Status:      stringField(m, "status"),
		Description: stringField(m, "description"),
		CreatedAt:   timeField(m, "createdAt"),
		UpdatedAt:   timeField(m, "updatedAt"),
		Sections:    make(map[string]any),
	}
	for k, v := range m {
		if IsIdentityField(k) {
			continue
		}
		p.Sections[k] = v
	}
	return p
}

// MergeFields applies a partial update: supplied top-level fields overwrite,
// omitted fields are preserved. Section values are replaced whole — no
// per-item merging inside a sub-collection. The id and createdAt fields are
// immutable and silently skipped.
func (p *Project) MergeFields(fields map[string]any) {
	for k, v := range fields {
		switch k {
		case "id", "createdAt", "updatedAt":
			continue
		case "name":
			p.Name = stringValue(v)
		case "code":
			p.Code = stringValue(v)
		case "location":
			p.Location = stringValue(v)
		case "contractor":
			p.Contractor = stringValue(v)
		case "client":
			p.Client = stringValue(v)
		case "engineer":
			p.Engineer = stringValue(v)
		case "startDate":
			p.StartDate = stringValue(v)
		case "endDate":
			p.EndDate = stringValue(v)
		case "status":
			p.Status = stringValue(v)
		case "description":
			p.Description = stringValue(v)
		default:
			if p.Sections == nil {
				p.Sections = make(map[string]any)
			}
			p.Sections[k] = v
		}
	}
}

// MarshalJSON renders the flattened representation.
func (p *Project) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// UnmarshalJSON accepts the flattened representation.
func (p *Project) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*p = *ProjectFromMap(m)
	return nil
}

func stringField(m map[string]any, key string) string {
	return stringValue(m[key])
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func timeField(m map[string]any, key string) time.Time {
	s, _ := m[key].(string)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
