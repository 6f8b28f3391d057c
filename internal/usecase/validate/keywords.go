package validate

// errorIndicators are failure phrases that mark evidence as unusable.
// Matched as case-insensitive substrings, checked before relevance.
var errorIndicators = []string{
	"error occurred",
	"could not find",
	"no information available",
	"failed to retrieve",
	"connection error",
	"timeout",
	"not found",
	"unavailable",
	"service unavailable",
	"internal error",
}

// campusKeywords is the global campus/institution vocabulary for the
// relevance gate.
var campusKeywords = []string{
	// generic academic / institution
	"college", "university", "campus", "institute", "department",
	"faculty", "staff", "office", "administration", "principal",
	"registrar", "student section", "accounts section", "exam section",

	// student lifecycle
	"student", "admission", "enrollment", "registration", "eligibility",
	"semester", "year down", "carry forward", "atkt", "pattern 2019",
	"pattern 2024", "nep", "fe", "se", "te", "be",

	// exams
	"exam", "examination", "exam form", "hall ticket", "revaluation",
	"photocopy", "result", "marksheet", "sgpa", "cgpa",

	// money / fees / scholarship
	"fee", "fees", "payment", "refund", "loan", "scholarship",
	"freeship", "mahadbt", "social welfare", "income certificate",

	// documents & certificates
	"document", "certificate", "bonafide", "leaving certificate",
	"transfer certificate", "transcript", "attestation", "verification",

	// infra & services
	"library", "reading hall", "hostel", "timetable", "attendance",
	"internal marks", "grade card", "erp", "portal",
}

// topicKeywords holds the per-topic vocabularies for the relevance gate.
// Topics without an entry get a topic hit count of zero.
var topicKeywords = map[string][]string{
	"main": {
		"office hours", "working hours", "even saturday",
		"student section", "accounts section", "exam section",
		"principal", "registrar", "executive director",
		"complaint", "suggestion box", "service timeline",
		"college code", "dte code", "aicte", "aishe",
	},
	"admission": {
		"cap", "cet", "jee", "allotment letter", "seat acceptance",
		"admission form", "provisional admission", "final admission",
		"document verification", "abc id", "erp number",
		"anti ragging", "migration certificate", "domicile",
		"caste certificate", "caste validity", "ews", "non creamy layer",
	},
	"documents": {
		"bonafide certificate", "fee structure certificate",
		"railway concession", "bus pass", "travel concession",
		"leaving certificate", "lc", "transfer certificate", "tc",
		"transcript", "attestation", "document verification",
		"general register",
	},
	"exam_center": {
		"sppu", "exam form", "exam portal", "unipune",
		"backlog", "kt", "atkt", "carry forward", "year down",
		"in-sem", "end-sem", "ese", "cce",
		"sgpa", "cgpa", "revaluation", "photocopy",
		"exam result", "marksheet", "exam timetable",
	},
	"fees_payment": {
		"fee receipt", "erp receipt", "exam fee",
		"qr code", "upi", "transaction id",
		"fee entry register", "accounts section",
		"educational loan", "disbursement", "refund",
		"installment", "part payment", "scholarship adjustment",
	},
	"scholarship": {
		"mahadbt", "freeship", "scholarship",
		"post-matric", "sc", "obc", "vjnt", "sbc", "ebc", "minority",
		"income limit", "domicile of maharashtra",
		"cap admission", "application id",
		"send back", "scrutiny", "approved", "disbursed",
		"otp", "nodal officer", "helpline",
	},
	"library": {
		"central library", "reading hall", "library timings",
		"book issue", "renewal", "fine", "late fee",
		"web opac", "opac", "knimbus", "j-gate", "delnet",
		"digital library", "question papers", "syllabus",
	},
	"student_portal": {
		"nmvpmerp", "student portal", "application id", "prn",
		"login", "forgot password", "change password",
		"attendance", "timetable", "internal marks",
		"exam form", "revaluation form", "fee details",
		"grade card", "result", "notices", "circulars", "grievance",
	},
}
