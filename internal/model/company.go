package model

// ContactInfo is a person or mailbox extracted from a company website.
type ContactInfo struct {
	Name        *string `json:"name"`
	Title       *string `json:"title"`
	Email       *string `json:"email"`
	LinkedInURL *string `json:"linkedin_url"`
	Phone       *string `json:"phone"`
}

// SocialLinks holds company social profiles.
type SocialLinks struct {
	LinkedIn *string `json:"linkedin"`
	Twitter  *string `json:"twitter"`
	Facebook *string `json:"facebook"`
	GitHub   *string `json:"github"`
}

// CompanyInfo is what a website crawl learned about a company.
type CompanyInfo struct {
	Name                  *string           `json:"name"`
	Domain                string            `json:"domain"`
	Description           *string           `json:"description"`
	Industry              *string           `json:"industry"`
	EmployeeCountEstimate *int              `json:"employee_count_estimate"`
	Location              *LocationCriteria `json:"location"`
	Technologies          []string          `json:"technologies"`
	SocialLinks           *SocialLinks      `json:"social_links"`
	FoundedYear           *int              `json:"founded_year"`
	HasCareersPage        bool              `json:"has_careers_page"`
	IsHiring              bool              `json:"is_hiring"`
}

// ToLead converts crawled company info into a scoring subject.
func (c CompanyInfo) ToLead() Lead {
	lead := Lead{
		CompanyName:           c.Domain,
		Domain:                StringPtr(c.Domain),
		Industry:              c.Industry,
		EmployeeCountEstimate: c.EmployeeCountEstimate,
		Description:           c.Description,
		Technologies:          c.Technologies,
	}
	if present(c.Name) {
		lead.CompanyName = *c.Name
	}
	if c.Location != nil {
		lead.Location = map[string]string{}
		if present(c.Location.City) {
			lead.Location[LocationCity] = *c.Location.City
		}
		if present(c.Location.State) {
			lead.Location[LocationState] = *c.Location.State
		}
		if present(c.Location.Country) {
			lead.Location[LocationCountry] = *c.Location.Country
		}
	}
	if c.IsHiring {
		lead.Signals = []string{"hiring"}
	}
	return lead
}

// CrawlRequest asks for a deep crawl of one company website.
type CrawlRequest struct {
	URL             string `json:"url"`
	ExtractContacts *bool  `json:"extract_contacts"`
	MaxPages        *int   `json:"max_pages"`
	IncludeAbout    *bool  `json:"include_about"`
	IncludeCareers  *bool  `json:"include_careers"`
}

// CrawlOptions is a CrawlRequest with defaults applied.
type CrawlOptions struct {
	URL             string
	ExtractContacts bool
	MaxPages        int
	IncludeAbout    bool
	IncludeCareers  bool
}

// Options resolves request defaults: contacts, about and careers pages on,
// ten pages.
func (r CrawlRequest) Options() CrawlOptions {
	opts := CrawlOptions{
		URL:             r.URL,
		ExtractContacts: true,
		MaxPages:        10,
		IncludeAbout:    true,
		IncludeCareers:  true,
	}
	if r.ExtractContacts != nil {
		opts.ExtractContacts = *r.ExtractContacts
	}
	if r.MaxPages != nil {
		opts.MaxPages = *r.MaxPages
	}
	if r.IncludeAbout != nil {
		opts.IncludeAbout = *r.IncludeAbout
	}
	if r.IncludeCareers != nil {
		opts.IncludeCareers = *r.IncludeCareers
	}
	return opts
}

// CrawlResponse is the outcome of a website crawl.
type CrawlResponse struct {
	Company          CompanyInfo   `json:"company"`
	Contacts         []ContactInfo `json:"contacts"`
	PagesCrawled     int           `json:"pages_crawled"`
	FitScoreEstimate int           `json:"fit_score_estimate"`
	CrawlTimeSeconds float64       `json:"crawl_time_seconds"`
}
