package domain

import "fmt"

// GeneralTopic is the pseudo-topic used for unfiltered fallback retrieval.
const GeneralTopic = "general"

// Topic is one recognized knowledge category with the description used to
// steer query decomposition.
type Topic struct {
	id          string
	description string
	webEligible bool
}

// NewTopic creates a topic. webEligible marks time-sensitive topics that get
// web search augmentation on top of the curated store.
func NewTopic(id, description string, webEligible bool) (Topic, error) {
	if id == "" {
		return Topic{}, fmt.Errorf("topic id is required")
	}
	if description == "" {
		return Topic{}, fmt.Errorf("topic %q: description is required", id)
	}
	return Topic{id: id, description: description, webEligible: webEligible}, nil
}

// ID returns the topic identifier.
func (t *Topic) ID() string { return t.id }

// Description returns the human-readable topic description.
func (t *Topic) Description() string { return t.description }

// WebEligible reports whether the topic gets web search augmentation.
func (t *Topic) WebEligible() bool { return t.webEligible }

// Catalog is the static ordered set of topics known to the service.
// Immutable for the process lifetime.
type Catalog struct {
	topics []Topic
	byID   map[string]int
}

// NewCatalog creates a catalog from an ordered topic list.
func NewCatalog(topics []Topic) (Catalog, error) {
	if len(topics) == 0 {
		return Catalog{}, fmt.Errorf("catalog requires at least one topic")
	}
	byID := make(map[string]int, len(topics))
	for i, t := range topics {
		if _, dup := byID[t.id]; dup {
			return Catalog{}, fmt.Errorf("duplicate topic %q", t.id)
		}
		byID[t.id] = i
	}
	return Catalog{topics: topics, byID: byID}, nil
}

// Topics returns the topics in catalog order.
func (c *Catalog) Topics() []Topic { return c.topics }

// Len returns the number of topics.
func (c *Catalog) Len() int { return len(c.topics) }

// Contains reports whether id is a recognized topic.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// WebEligible reports whether id is a recognized web-eligible topic.
func (c *Catalog) WebEligible(id string) bool {
	i, ok := c.byID[id]
	return ok && c.topics[i].webEligible
}

// DefaultCatalog returns the built-in campus administration catalog.
// Config may replace it entirely but not extend it at runtime.
func DefaultCatalog() Catalog {
	defs := []struct {
		id, description string
		web             bool
	}{
		{"scholarship", "MahaDBT scholarship and freeship registration, eligibility, documents, application and renewal, tracking status, and technical issues.", true},
		{"fees_payment", "Tuition and exam fee payments via student portal ERP, QR or UPI, receipts, loans, refunds, installments, accounts section procedures.", false},
		{"student_portal", "Student ERP portal features including attendance, fee structure and payment, receipt printing, internal marks and notices.", false},
		{"library", "Library rules, timings, borrowing, fines, OPAC search, and access to digital resources like Knimbus, J-Gate and DELNET.", false},
		{"exam_center", "SPPU and PCU exam rules, exam forms, ATKT and year-down, carry forward, passing criteria, SGPA/CGPA, revaluation, results, and marksheets.", true},
		{"admission", "Eligibility, admission requirements and documents, and the FE/DSE admission process.", false},
		{"documents", "Bonafide, fee structure, bus/rail travel concessions, LC/TC, transcripts, and document verification and attestation services.", false},
		{"main", "Administrative staff, office hours and services, contact information, department heads, responsibilities, general administration.", false},
	}

	topics := make([]Topic, 0, len(defs))
	for _, d := range defs {
		t, err := NewTopic(d.id, d.description, d.web)
		if err != nil {
			panic(err) // built-in definitions are static
		}
		topics = append(topics, t)
	}
	cat, err := NewCatalog(topics)
	if err != nil {
		panic(err)
	}
	return cat
}
