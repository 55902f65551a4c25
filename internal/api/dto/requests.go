package dto

// AddDomainRequest pins the accepted fields so nothing else can be mass
// assigned onto the stored record.
type AddDomainRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	CheckFrequency string `json:"checkFrequency"`
}

type CheckRequest struct {
	Domains []string `json:"domains"`
}
