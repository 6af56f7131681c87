package health

// Status is the payload served on the health route.
type Status struct {
	OK       bool   `json:"ok"`
	Provider string `json:"provider"`
	Profile  string `json:"profile"`
}

// Service reports which provider and prompt profile the process runs with.
type Service struct {
	provider string
	profile  string
}

// NewService constructs a new health service.
func NewService(provider, profile string) *Service {
	return &Service{provider: provider, profile: profile}
}

// Status returns a simple health payload.
func (s *Service) Status() Status {
	return Status{OK: true, Provider: s.provider, Profile: s.profile}
}
