package attendance

// ExportFile is an attendance CSV ready to be sent as a download
type ExportFile struct {
	Filename string
	Content  []byte
}

// SubstituteResponse is a single substitute in the list endpoint
type SubstituteResponse struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// SubstituteListResponse wraps the distinct substitutes of a school
type SubstituteListResponse struct {
	Substitutes []SubstituteResponse `json:"substitutes"`
	Count       int                  `json:"count"`
}
