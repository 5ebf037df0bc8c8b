package triage

// Image is an optional attachment forwarded to the model as-is.
type Image struct {
	Data     []byte
	MIMEType string
}

// Request carries one inbound triage call. It is immutable for the duration
// of a pipeline run and discarded afterwards; nothing here is persisted.
type Request struct {
	SymptomText  string
	Image        *Image
	Language     Language
	PhoneNumber  string
	ConsentGiven bool
}
